// Package query derives counts and views from decoded meetings and reports.
// Every function scans its input afresh; nothing is cached.
package query

import (
	"sort"
	"time"

	"github.com/campusdesk/campusdesk/pkg/directory"
	"github.com/campusdesk/campusdesk/pkg/records"
)

// ActivityAggregate summarises one person's records.
type ActivityAggregate struct {
	Reports        int
	Meetings       int
	UpcomingBooked int
}

// PerPairMeetingCount counts meetings booked by bookerID with targetID.
// The count is directional.
func PerPairMeetingCount(meetings []records.Meeting, bookerID, targetID string) int {
	n := 0
	for _, m := range meetings {
		if m.BookerID == bookerID && m.TargetID == targetID {
			n++
		}
	}
	return n
}

// ReportSequenceNumbers returns a copy of reports with Index set to the
// report's 1-based position among the same student's reports, in input order.
func ReportSequenceNumbers(reports []records.Report) []records.Report {
	out := make([]records.Report, len(reports))
	seen := make(map[string]int)
	for i, r := range reports {
		seen[r.StudentID]++
		r.Index = seen[r.StudentID]
		out[i] = r
	}
	return out
}

// Activity counts personID's reports, every meeting they take part in, and
// the meetings they booked that have not started by now.
func Activity(meetings []records.Meeting, reports []records.Report, personID string, now time.Time) ActivityAggregate {
	var a ActivityAggregate
	for _, r := range reports {
		if r.StudentID == personID {
			a.Reports++
		}
	}
	for _, m := range meetings {
		if m.Involves(personID) {
			a.Meetings++
		}
		if isUpcomingBookedBy(m, personID, now) {
			a.UpcomingBooked++
		}
	}
	return a
}

// SupervisorStudentInteractions counts meetings between supervisorID and any
// id in studentIDs, whichever side booked.
func SupervisorStudentInteractions(meetings []records.Meeting, supervisorID string, studentIDs map[string]bool) int {
	n := 0
	for _, m := range meetings {
		if isSupervisorStudentMeeting(m, supervisorID, studentIDs) {
			n++
		}
	}
	return n
}

// StudentIDSet returns the login codes of every student in users.
// Meetings and reports refer to people by login code.
func StudentIDSet(users []directory.User) map[string]bool {
	set := make(map[string]bool)
	for _, u := range users {
		if u.Role == directory.RoleStudent {
			set[u.LoginCode] = true
		}
	}
	return set
}

// MeetingsInvolving returns the meetings where id is booker or target, in input order.
func MeetingsInvolving(meetings []records.Meeting, id string) []records.Meeting {
	var out []records.Meeting
	for _, m := range meetings {
		if m.Involves(id) {
			out = append(out, m)
		}
	}
	return out
}

// ReportsBy returns the reports filed by studentID with their sequence numbers set.
func ReportsBy(reports []records.Report, studentID string) []records.Report {
	var out []records.Report
	for _, r := range ReportSequenceNumbers(reports) {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out
}

// UpcomingBookedBy returns meetings booked by id on or after now, soonest first.
func UpcomingBookedBy(meetings []records.Meeting, id string, now time.Time) []records.Meeting {
	var out []records.Meeting
	for _, m := range meetings {
		if isUpcomingBookedBy(m, id, now) {
			out = append(out, m)
		}
	}
	sortByWhen(out)
	return out
}

// RecentReports returns at most n of studentID's reports, newest first.
// A non-positive n returns all of them.
func RecentReports(reports []records.Report, studentID string, n int) []records.Report {
	out := ReportsBy(reports, studentID)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// SupervisorMeetings returns the meetings between supervisorID and any id in
// studentIDs, oldest first. Meetings with an unknown date sort first.
func SupervisorMeetings(meetings []records.Meeting, supervisorID string, studentIDs map[string]bool) []records.Meeting {
	var out []records.Meeting
	for _, m := range meetings {
		if isSupervisorStudentMeeting(m, supervisorID, studentIDs) {
			out = append(out, m)
		}
	}
	sortByWhen(out)
	return out
}

// SupervisorUpcomingBooked counts meetings supervisorID booked that have not started by now.
func SupervisorUpcomingBooked(meetings []records.Meeting, supervisorID string, now time.Time) int {
	n := 0
	for _, m := range meetings {
		if isUpcomingBookedBy(m, supervisorID, now) {
			n++
		}
	}
	return n
}

func isUpcomingBookedBy(m records.Meeting, id string, now time.Time) bool {
	return m.BookerID == id && m.HasKnownDate() && !m.When.Before(now)
}

func isSupervisorStudentMeeting(m records.Meeting, supervisorID string, studentIDs map[string]bool) bool {
	return (m.BookerID == supervisorID && studentIDs[m.TargetID]) ||
		(m.TargetID == supervisorID && studentIDs[m.BookerID])
}

func sortByWhen(meetings []records.Meeting) {
	sort.SliceStable(meetings, func(i, j int) bool {
		return meetings[i].When.Before(meetings[j].When)
	})
}
