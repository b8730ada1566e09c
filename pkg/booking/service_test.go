package booking

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusdesk/campusdesk/pkg/directory"
	"github.com/campusdesk/campusdesk/pkg/records"
)

var testNow = time.Date(2026, time.March, 2, 10, 0, 0, 0, time.Local)

type fixture struct {
	svc      *Service
	store    *directory.FileStore
	dir      string
	student  directory.User
	super    directory.User
	tutor    directory.User
	meetings *records.MeetingLog
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	dir := t.TempDir()

	store, err := directory.NewFileStore(filepath.Join(dir, "users.json"))
	require.NoError(t, err)
	require.NoError(t, store.Initialize())

	meetings, err := records.NewMeetingLog(filepath.Join(dir, "Meetings.txt"), nil)
	require.NoError(t, err)
	reports, err := records.NewReportLog(filepath.Join(dir, "student_reports.txt"), nil)
	require.NoError(t, err)

	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	svc, err := NewService(store, meetings, reports, opts...)
	require.NoError(t, err)

	f := &fixture{svc: svc, store: store, dir: dir, meetings: meetings}
	f.student = mustLogin(t, svc, "0001")
	f.super = mustLogin(t, svc, "0002")
	f.tutor = mustLogin(t, svc, "0003")
	return f
}

func mustLogin(t *testing.T, svc *Service, code string) directory.User {
	t.Helper()
	u, err := svc.Login(code)
	require.NoError(t, err)
	return u
}

func TestNewService_RequiresStores(t *testing.T) {
	_, err := NewService(nil, nil, nil)
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, directory.RoleStudent, f.student.Role)
	assert.Equal(t, directory.RolePersonalSupervisor, f.super.Role)
	assert.Equal(t, directory.RoleSeniorTutor, f.tutor.Role)

	_, err := f.svc.Login("12a4")
	assert.ErrorIs(t, err, ErrInvalidLoginCode)
	_, err = f.svc.Login("123")
	assert.ErrorIs(t, err, ErrInvalidLoginCode)
	_, err = f.svc.Login("9999")
	assert.ErrorIs(t, err, directory.ErrNotFound)

	u, err := f.svc.Login(" 0001 ")
	require.NoError(t, err)
	assert.Equal(t, f.student.ID, u.ID)
}

func TestLogin_FirstMatchInSortedOrderWins(t *testing.T) {
	f := newFixture(t)
	// Stored directly so the duplicate check in AddUser is bypassed
	dup := directory.NewSeniorTutor("Aaron", "Aardvark", "0001")
	require.NoError(t, f.store.AddUser(&dup))

	u, err := f.svc.Login("0001")

	require.NoError(t, err)
	assert.Equal(t, directory.RoleStudent, u.Role)
}

func TestConfirmIdentity(t *testing.T) {
	f := newFixture(t)

	assert.NoError(t, f.svc.ConfirmIdentity(f.student, "0001"))
	assert.ErrorIs(t, f.svc.ConfirmIdentity(f.student, "0002"), ErrIdentityMismatch)
	assert.ErrorIs(t, f.svc.ConfirmIdentity(f.student, "01"), ErrInvalidLoginCode)
}

func TestBookableTargets(t *testing.T) {
	f := newFixture(t)

	targets, err := f.svc.BookableTargets(f.student)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, f.super.ID, targets[0].ID)

	targets, err = f.svc.BookableTargets(f.super)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, f.student.ID, targets[0].ID)

	_, err = f.svc.BookableTargets(f.tutor)
	assert.ErrorIs(t, err, ErrNotPermitted)
}

func TestBookMeeting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m, err := f.svc.BookMeeting(ctx, MeetingRequest{
		Booker:   f.student,
		TargetID: f.super.ID,
		Date:     "4/3/26",
		Time:     "9:05",
		Reason:   "Coursework",
	})

	require.NoError(t, err)
	assert.Equal(t, "0001", m.BookerID)
	assert.Equal(t, "Default Student", m.BookerName)
	assert.Equal(t, "0002", m.TargetID)
	assert.Equal(t, "Default Supervisor", m.TargetName)
	assert.True(t, time.Date(2026, 3, 4, 9, 5, 0, 0, time.Local).Equal(m.When))
	assert.Equal(t, 1, m.PairIndex)
	assert.True(t, testNow.UTC().Equal(m.CreatedAt))
	assert.Equal(t, time.UTC, m.CreatedAt.Location())

	stored := f.meetings.All()
	require.Len(t, stored, 1)
	assert.Equal(t, "Coursework", stored[0].Reason)
}

func TestBookMeeting_PairIndexIsDirectional(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	book := func(booker, target directory.User) records.Meeting {
		m, err := f.svc.BookMeeting(ctx, MeetingRequest{
			Booker: booker, TargetID: target.ID, Date: "04/03/26", Time: "10:00",
		})
		require.NoError(t, err)
		return m
	}

	assert.Equal(t, 1, book(f.student, f.super).PairIndex)
	assert.Equal(t, 2, book(f.student, f.super).PairIndex)
	assert.Equal(t, 1, book(f.super, f.student).PairIndex)
	assert.Equal(t, 3, book(f.student, f.super).PairIndex)
}

func TestBookMeeting_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     MeetingRequest
		wantErr error
	}{
		{"senior tutor cannot book", MeetingRequest{Booker: f.tutor, TargetID: f.student.ID, Date: "04/03/26", Time: "10:00"}, ErrNotPermitted},
		{"student cannot book student", MeetingRequest{Booker: f.student, TargetID: f.student.ID, Date: "04/03/26", Time: "10:00"}, ErrInvalidTarget},
		{"unknown target", MeetingRequest{Booker: f.super, TargetID: "nope", Date: "04/03/26", Time: "10:00"}, ErrInvalidTarget},
		{"bad time", MeetingRequest{Booker: f.student, TargetID: f.super.ID, Date: "04/03/26", Time: "ten"}, ErrInvalidTime},
		{"too early", MeetingRequest{Booker: f.student, TargetID: f.super.ID, Date: "04/03/26", Time: "07:29"}, ErrOutsideWindow},
		{"too late", MeetingRequest{Booker: f.student, TargetID: f.super.ID, Date: "04/03/26", Time: "18:01"}, ErrOutsideWindow},
		{"bad date", MeetingRequest{Booker: f.student, TargetID: f.super.ID, Date: "2026-03-04", Time: "10:00"}, ErrInvalidDate},
		{"impossible date", MeetingRequest{Booker: f.student, TargetID: f.super.ID, Date: "30/02/26", Time: "10:00"}, ErrInvalidDate},
		{"year not storable", MeetingRequest{Booker: f.student, TargetID: f.super.ID, Date: "04/03/2070", Time: "10:00"}, ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.BookMeeting(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, f.meetings.All(), "rejected bookings write nothing")
}

func TestBookMeeting_WindowEdgesAreInclusive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, clock := range []string{"07:30", "18:00"} {
		_, err := f.svc.BookMeeting(ctx, MeetingRequest{
			Booker: f.student, TargetID: f.super.ID, Date: "04/03/26", Time: clock,
		})
		assert.NoError(t, err, clock)
	}
}

func TestBookMeeting_CustomWindow(t *testing.T) {
	w, err := ParseWindow("09:00", "12:00")
	require.NoError(t, err)
	f := newFixture(t, WithWindow(w))

	_, err = f.svc.BookMeeting(context.Background(), MeetingRequest{
		Booker: f.student, TargetID: f.super.ID, Date: "04/03/26", Time: "08:00",
	})
	assert.ErrorIs(t, err, ErrOutsideWindow)
	assert.Contains(t, err.Error(), "09:00 and 12:00")
}

func TestBookMeeting_CancelledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.BookMeeting(ctx, MeetingRequest{
		Booker: f.student, TargetID: f.super.ID, Date: "04/03/26", Time: "10:00",
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.meetings.All())
}

func TestBookMeeting_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	store, err := directory.NewFileStore(filepath.Join(dir, "users.json"))
	require.NoError(t, err)
	require.NoError(t, store.Initialize())
	// The meetings path is a directory, so appends fail
	meetingsPath := filepath.Join(dir, "Meetings.txt")
	require.NoError(t, os.Mkdir(meetingsPath, 0750))
	meetings, err := records.NewMeetingLog(meetingsPath, nil)
	require.NoError(t, err)
	reports, err := records.NewReportLog(filepath.Join(dir, "student_reports.txt"), nil)
	require.NoError(t, err)
	svc, err := NewService(store, meetings, reports)
	require.NoError(t, err)

	student := mustLogin(t, svc, "0001")
	super := mustLogin(t, svc, "0002")
	_, err = svc.BookMeeting(context.Background(), MeetingRequest{
		Booker: student, TargetID: super.ID, Date: "04/03/26", Time: "10:00",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save meeting")
}

func TestFileReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.FileReport(ctx, f.student, "Week one\nall good")
	require.NoError(t, err)
	second, err := f.svc.FileReport(ctx, f.student, "Week two")
	require.NoError(t, err)

	assert.Equal(t, 1, first.Index)
	assert.Equal(t, 2, second.Index)
	assert.Equal(t, "0001", second.StudentID)
	assert.Equal(t, "Default Student", second.StudentName)
	assert.True(t, testNow.UTC().Equal(second.Timestamp))
}

func TestFileReport_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.FileReport(ctx, f.super, "hello")
	assert.ErrorIs(t, err, ErrNotPermitted)
	_, err = f.svc.FileReport(ctx, f.student, "  \n ")
	assert.ErrorIs(t, err, ErrEmptyReport)
	assert.Empty(t, f.svc.VisibleReports(f.tutor))
}

func TestAddUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.svc.AddUser(ctx, directory.NewStudent(" Alice ", "Zed", "1234"))
	require.NoError(t, err)

	u, err := f.svc.Login("1234")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.FirstName)
	assert.Len(t, f.svc.Users(), 4)
}

func TestAddUser_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.svc.AddUser(ctx, directory.NewStudent("Dup", "Code", "0002"))
	assert.ErrorIs(t, err, ErrDuplicateLoginCode)

	err = f.svc.AddUser(ctx, directory.NewStudent("Bad", "Code", "12"))
	assert.Error(t, err)

	err = f.svc.AddUser(ctx, directory.NewStudent("", "Blank", "4321"))
	assert.Error(t, err)

	assert.Len(t, f.svc.Users(), 3)
}

func TestFileReport_ConcurrentFilingsGetDistinctIndexes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 20
	indexes := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := f.svc.FileReport(ctx, f.student, "weekly note")
			assert.NoError(t, err)
			indexes <- r.Index
		}()
	}
	wg.Wait()
	close(indexes)

	seen := make(map[int]bool, n)
	for idx := range indexes {
		assert.False(t, seen[idx], "index %d returned twice", idx)
		seen[idx] = true
	}
	for i := 1; i <= n; i++ {
		assert.True(t, seen[i], "index %d missing", i)
	}
}
