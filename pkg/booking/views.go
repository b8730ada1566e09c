package booking

import (
	"unicode/utf8"

	"github.com/campusdesk/campusdesk/pkg/directory"
	"github.com/campusdesk/campusdesk/pkg/query"
	"github.com/campusdesk/campusdesk/pkg/records"
)

const (
	recentReportLimit = 5
	previewLength     = 80
)

// StudentSummary is one row of the student activity list.
type StudentSummary struct {
	Student  directory.User
	Activity query.ActivityAggregate
}

// StudentDetail is the expanded student activity view.
type StudentDetail struct {
	StudentSummary
	RecentReports []records.Report
	Upcoming      []records.Meeting
}

// SupervisorSummary is one row of the tutor activity tracker.
type SupervisorSummary struct {
	Supervisor     directory.User
	Interactions   int
	UpcomingBooked int
}

// SupervisorDetail lists a supervisor's meetings with students, oldest first.
type SupervisorDetail struct {
	Supervisor directory.User
	Meetings   []records.Meeting
}

// VisibleReports returns the reports viewer may read, numbered per student.
// Students only see their own.
func (s *Service) VisibleReports(viewer directory.User) []records.Report {
	reports := s.reports.All()
	if viewer.Role == directory.RoleStudent {
		return query.ReportsBy(reports, viewer.LoginCode)
	}
	return query.ReportSequenceNumbers(reports)
}

// VisibleMeetings returns the meetings viewer may read in file order.
// Students only see meetings they take part in.
func (s *Service) VisibleMeetings(viewer directory.User) []records.Meeting {
	meetings := s.meetings.All()
	if viewer.Role == directory.RoleStudent {
		return query.MeetingsInvolving(meetings, viewer.LoginCode)
	}
	return meetings
}

// StudentActivity summarises every student's reports and meetings.
func (s *Service) StudentActivity(viewer directory.User) ([]StudentSummary, error) {
	if !Can(viewer.Role, ActionStudentActivity) {
		return nil, ErrNotPermitted
	}
	meetings, reports, now := s.meetings.All(), s.reports.All(), s.now()

	var out []StudentSummary
	for _, student := range directory.WithRole(s.users.GetAllUsers(), directory.RoleStudent) {
		out = append(out, StudentSummary{
			Student:  student,
			Activity: query.Activity(meetings, reports, student.LoginCode, now),
		})
	}
	return out, nil
}

// StudentDetail expands one student's activity with their most recent
// reports and the upcoming meetings they booked.
func (s *Service) StudentDetail(viewer, student directory.User) (StudentDetail, error) {
	if !Can(viewer.Role, ActionStudentActivity) {
		return StudentDetail{}, ErrNotPermitted
	}
	meetings, reports, now := s.meetings.All(), s.reports.All(), s.now()

	return StudentDetail{
		StudentSummary: StudentSummary{
			Student:  student,
			Activity: query.Activity(meetings, reports, student.LoginCode, now),
		},
		RecentReports: query.RecentReports(reports, student.LoginCode, recentReportLimit),
		Upcoming:      query.UpcomingBookedBy(meetings, student.LoginCode, now),
	}, nil
}

// TutorTracker summarises every personal supervisor's meetings with students.
func (s *Service) TutorTracker(viewer directory.User) ([]SupervisorSummary, error) {
	if !Can(viewer.Role, ActionTutorTracker) {
		return nil, ErrNotPermitted
	}
	users := s.users.GetAllUsers()
	students := query.StudentIDSet(users)
	meetings, now := s.meetings.All(), s.now()

	var out []SupervisorSummary
	for _, sup := range directory.WithRole(users, directory.RolePersonalSupervisor) {
		out = append(out, SupervisorSummary{
			Supervisor:     sup,
			Interactions:   query.SupervisorStudentInteractions(meetings, sup.LoginCode, students),
			UpcomingBooked: query.SupervisorUpcomingBooked(meetings, sup.LoginCode, now),
		})
	}
	return out, nil
}

// SupervisorDetail lists supervisor's meetings with students in date order.
func (s *Service) SupervisorDetail(viewer, supervisor directory.User) (SupervisorDetail, error) {
	if !Can(viewer.Role, ActionTutorTracker) {
		return SupervisorDetail{}, ErrNotPermitted
	}
	students := query.StudentIDSet(s.users.GetAllUsers())
	return SupervisorDetail{
		Supervisor: supervisor,
		Meetings:   query.SupervisorMeetings(s.meetings.All(), supervisor.LoginCode, students),
	}, nil
}

// Preview shortens content to n runes, marking the cut with an ellipsis.
func Preview(content string, n int) string {
	if n <= 0 {
		n = previewLength
	}
	if utf8.RuneCountInString(content) <= n {
		return content
	}
	return string([]rune(content)[:n]) + "…"
}
