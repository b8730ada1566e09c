// Package booking applies the rules for signing in, booking meetings, filing
// reports and adding accounts on top of the directory and record logs.
package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/campusdesk/campusdesk/pkg/directory"
	"github.com/campusdesk/campusdesk/pkg/logging"
	"github.com/campusdesk/campusdesk/pkg/query"
	"github.com/campusdesk/campusdesk/pkg/records"
)

// Service is safe for concurrent use; every call re-reads the backing files.
type Service struct {
	users    directory.Store
	meetings *records.MeetingLog
	reports  *records.ReportLog
	window   Window
	logger   *logging.Logger
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithWindow sets the bookable time window.
func WithWindow(w Window) Option {
	return func(s *Service) {
		s.window = w
	}
}

// WithLogger sets the service logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the service to its stores.
func NewService(users directory.Store, meetings *records.MeetingLog, reports *records.ReportLog, opts ...Option) (*Service, error) {
	if users == nil || meetings == nil || reports == nil {
		return nil, fmt.Errorf("booking: users, meetings and reports are required")
	}
	s := &Service{
		users:    users,
		meetings: meetings,
		reports:  reports,
		window:   DefaultWindow,
		logger:   logging.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Window returns the bookable time window.
func (s *Service) Window() Window {
	return s.window
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.now()
}

// Users returns every account in sorted order.
func (s *Service) Users() []directory.User {
	return s.users.GetAllUsers()
}

// Login returns the first account, in sorted order, whose login code is code.
func (s *Service) Login(code string) (directory.User, error) {
	code = strings.TrimSpace(code)
	if !directory.IsValidLoginCode(code) {
		return directory.User{}, ErrInvalidLoginCode
	}
	user, err := directory.FindByLoginCode(s.users.GetAllUsers(), code)
	if err != nil {
		s.logger.Infof("login rejected for unknown code")
		return directory.User{}, err
	}
	s.logger.Infof("%s signed in as %s", user.FullName(), user.Role)
	return user, nil
}

// ConfirmIdentity checks that code is the signed-in user's own login code.
func (s *Service) ConfirmIdentity(user directory.User, code string) error {
	code = strings.TrimSpace(code)
	if !directory.IsValidLoginCode(code) {
		return ErrInvalidLoginCode
	}
	if code != user.LoginCode {
		return ErrIdentityMismatch
	}
	return nil
}

// BookableTargets lists the accounts booker may book a meeting with.
// Students book personal supervisors and personal supervisors book students.
func (s *Service) BookableTargets(booker directory.User) ([]directory.User, error) {
	role, ok := targetRole(booker.Role)
	if !ok {
		return nil, ErrNotPermitted
	}
	return directory.WithRole(s.users.GetAllUsers(), role), nil
}

func targetRole(booker directory.Role) (directory.Role, bool) {
	switch booker {
	case directory.RoleStudent:
		return directory.RolePersonalSupervisor, true
	case directory.RolePersonalSupervisor:
		return directory.RoleStudent, true
	default:
		return 0, false
	}
}

// MeetingRequest is a booking as entered by the booker.
type MeetingRequest struct {
	Booker   directory.User
	TargetID string
	Date     string
	Time     string
	Reason   string
}

// BookMeeting validates req and appends the meeting with the next per-pair index.
func (s *Service) BookMeeting(ctx context.Context, req MeetingRequest) (records.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return records.Meeting{}, err
	}

	targets, err := s.BookableTargets(req.Booker)
	if err != nil {
		return records.Meeting{}, err
	}
	target, ok := findByID(targets, req.TargetID)
	if !ok {
		return records.Meeting{}, ErrInvalidTarget
	}

	offset, err := ParseClock(req.Time)
	if err != nil {
		return records.Meeting{}, err
	}
	if !s.window.Contains(offset) {
		return records.Meeting{}, fmt.Errorf("%w: must be between %s and %s",
			ErrOutsideWindow, formatClock(s.window.Earliest), formatClock(s.window.Latest))
	}
	when, err := records.ParseWhen(req.Date, formatClock(offset))
	if err != nil {
		return records.Meeting{}, ErrInvalidDate
	}
	if !records.StorableYear(when) {
		return records.Meeting{}, fmt.Errorf("%w: year must be between %d and %d",
			ErrInvalidDate, records.MinStoredYear, records.MaxStoredYear)
	}

	m, err := s.meetings.Book(func(existing []records.Meeting) (records.Meeting, error) {
		return records.Meeting{
			BookerID:   req.Booker.LoginCode,
			BookerName: req.Booker.FullName(),
			TargetID:   target.LoginCode,
			TargetName: target.FullName(),
			When:       when,
			PairIndex:  query.PerPairMeetingCount(existing, req.Booker.LoginCode, target.LoginCode) + 1,
			CreatedAt:  s.now().UTC(),
			Reason:     req.Reason,
		}, nil
	})
	if err != nil {
		s.logger.Errorf("failed to save meeting: %v", err)
		return records.Meeting{}, fmt.Errorf("booking: failed to save meeting: %w", err)
	}

	s.logger.Infof("meeting booked: %s -> %s on %s (#%d)", m.BookerID, m.TargetID, records.FormatWhen(m.When), m.PairIndex)
	return m, nil
}

// FileReport appends a report for student and returns it with its sequence number.
func (s *Service) FileReport(ctx context.Context, student directory.User, content string) (records.Report, error) {
	if err := ctx.Err(); err != nil {
		return records.Report{}, err
	}
	if !Can(student.Role, ActionFileReport) {
		return records.Report{}, ErrNotPermitted
	}
	if strings.TrimSpace(content) == "" {
		return records.Report{}, ErrEmptyReport
	}

	r := records.Report{
		StudentID:   student.LoginCode,
		StudentName: student.FullName(),
		Timestamp:   s.now().UTC(),
		Content:     content,
	}
	r, err := s.reports.File(r)
	if err != nil {
		s.logger.Errorf("failed to save report: %v", err)
		return records.Report{}, fmt.Errorf("booking: failed to save report: %w", err)
	}

	s.logger.Infof("report #%d filed by %s", r.Index, r.StudentID)
	return r, nil
}

// AddUser validates user and adds it unless its login code is already taken.
func (s *Service) AddUser(ctx context.Context, user directory.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	user.FirstName = strings.TrimSpace(user.FirstName)
	user.LastName = strings.TrimSpace(user.LastName)
	user.LoginCode = strings.TrimSpace(user.LoginCode)
	if err := user.Validate(); err != nil {
		return err
	}
	if _, err := directory.FindByLoginCode(s.users.GetAllUsers(), user.LoginCode); err == nil {
		return ErrDuplicateLoginCode
	}
	if err := s.users.AddUser(&user); err != nil {
		s.logger.Errorf("failed to save user: %v", err)
		return fmt.Errorf("booking: failed to save user: %w", err)
	}
	s.logger.Infof("added %s", user)
	return nil
}

func findByID(users []directory.User, id string) (directory.User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return directory.User{}, false
}
