package booking

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusdesk/campusdesk/pkg/directory"
)

func seedActivity(t *testing.T, f *fixture) directory.User {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, f.svc.AddUser(ctx, directory.NewStudent("Other", "Student", "0004")))
	other := mustLogin(t, f.svc, "0004")

	book := func(booker, target directory.User, date string) {
		_, err := f.svc.BookMeeting(ctx, MeetingRequest{Booker: booker, TargetID: target.ID, Date: date, Time: "10:00"})
		require.NoError(t, err)
	}
	book(f.student, f.super, "01/03/26") // past
	book(f.student, f.super, "05/03/26")
	book(f.super, f.student, "03/03/26")
	book(f.super, other, "06/03/26")

	for i := 0; i < 6; i++ {
		_, err := f.svc.FileReport(ctx, f.student, "report "+strings.Repeat("x", i))
		require.NoError(t, err)
	}
	_, err := f.svc.FileReport(ctx, other, "other report")
	require.NoError(t, err)
	return other
}

func TestVisibleReportsAndMeetings_StudentSeesOwnOnly(t *testing.T) {
	f := newFixture(t)
	other := seedActivity(t, f)

	reports := f.svc.VisibleReports(other)
	require.Len(t, reports, 1)
	assert.Equal(t, 1, reports[0].Index)

	meetings := f.svc.VisibleMeetings(other)
	require.Len(t, meetings, 1)
	assert.Equal(t, "0004", meetings[0].TargetID)

	assert.Len(t, f.svc.VisibleReports(f.tutor), 7)
	assert.Len(t, f.svc.VisibleMeetings(f.super), 4)
}

func TestStudentActivity(t *testing.T) {
	f := newFixture(t)
	seedActivity(t, f)

	_, err := f.svc.StudentActivity(f.student)
	assert.ErrorIs(t, err, ErrNotPermitted)

	rows, err := f.svc.StudentActivity(f.super)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byCode := map[string]StudentSummary{}
	for _, r := range rows {
		byCode[r.Student.LoginCode] = r
	}
	assert.Equal(t, 6, byCode["0001"].Activity.Reports)
	assert.Equal(t, 3, byCode["0001"].Activity.Meetings)
	assert.Equal(t, 1, byCode["0001"].Activity.UpcomingBooked)
	assert.Equal(t, 1, byCode["0004"].Activity.Meetings)
	assert.Equal(t, 0, byCode["0004"].Activity.UpcomingBooked)
}

func TestStudentDetail(t *testing.T) {
	f := newFixture(t)
	seedActivity(t, f)

	detail, err := f.svc.StudentDetail(f.tutor, f.student)
	require.NoError(t, err)

	assert.Len(t, detail.RecentReports, 5)
	require.Len(t, detail.Upcoming, 1)
	assert.True(t, time.Date(2026, 3, 5, 10, 0, 0, 0, time.Local).Equal(detail.Upcoming[0].When))
	assert.Equal(t, 6, detail.Activity.Reports)
}

func TestTutorTracker(t *testing.T) {
	f := newFixture(t)
	seedActivity(t, f)

	_, err := f.svc.TutorTracker(f.super)
	assert.ErrorIs(t, err, ErrNotPermitted)

	rows, err := f.svc.TutorTracker(f.tutor)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 4, rows[0].Interactions)
	assert.Equal(t, 2, rows[0].UpcomingBooked)

	detail, err := f.svc.SupervisorDetail(f.tutor, f.super)
	require.NoError(t, err)
	require.Len(t, detail.Meetings, 4)
	for i := 1; i < len(detail.Meetings); i++ {
		assert.False(t, detail.Meetings[i].When.Before(detail.Meetings[i-1].When))
	}
}

func TestCan(t *testing.T) {
	assert.True(t, Can(directory.RoleStudent, ActionFileReport))
	assert.False(t, Can(directory.RolePersonalSupervisor, ActionFileReport))
	assert.False(t, Can(directory.RoleSeniorTutor, ActionBookMeeting))
	assert.False(t, Can(directory.RoleStudent, ActionAddUser))
	assert.True(t, Can(directory.RoleSeniorTutor, ActionTutorTracker))
	assert.False(t, Can(directory.RolePersonalSupervisor, ActionTutorTracker))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", Preview("short", 80))
	assert.Equal(t, "abc…", Preview("abcdef", 3))
	assert.Equal(t, "héé…", Preview("héééé", 3))
	assert.Equal(t, strings.Repeat("a", 80)+"…", Preview(strings.Repeat("a", 81), 0))
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("8:00", "17:30")
	require.NoError(t, err)
	assert.Equal(t, "08:00-17:30", w.String())
	assert.True(t, w.Contains(8*time.Hour))
	assert.False(t, w.Contains(17*time.Hour+31*time.Minute))

	_, err = ParseWindow("18:00", "07:30")
	assert.Error(t, err)
	_, err = ParseWindow("8am", "17:30")
	assert.Error(t, err)
}
