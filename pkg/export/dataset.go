// Package export renders activity summaries as CSV or PDF files.
package export

import (
	"strconv"
	"time"

	"github.com/campusdesk/campusdesk/pkg/directory"
	"github.com/campusdesk/campusdesk/pkg/query"
	"github.com/campusdesk/campusdesk/pkg/records"
)

// Dataset is a table keyed by header name.
type Dataset struct {
	Title   string
	Headers []string
	Rows    []map[string]string
}

const (
	colStudent  = "Student"
	colLogin    = "Login code"
	colReports  = "Reports"
	colMeetings = "Meetings"
	colUpcoming = "Upcoming booked"
)

// ActivityDataset builds one row per student with their report, meeting and
// upcoming-booked counts as of now. Students keep directory order.
func ActivityDataset(users []directory.User, meetings []records.Meeting, reports []records.Report, now time.Time) Dataset {
	data := Dataset{
		Title:   "Student activity " + now.Format("02/01/2006 15:04"),
		Headers: []string{colStudent, colLogin, colReports, colMeetings, colUpcoming},
	}
	for _, s := range directory.WithRole(users, directory.RoleStudent) {
		a := query.Activity(meetings, reports, s.LoginCode, now)
		data.Rows = append(data.Rows, map[string]string{
			colStudent:  s.FullName(),
			colLogin:    s.LoginCode,
			colReports:  strconv.Itoa(a.Reports),
			colMeetings: strconv.Itoa(a.Meetings),
			colUpcoming: strconv.Itoa(a.UpcomingBooked),
		})
	}
	return data
}
