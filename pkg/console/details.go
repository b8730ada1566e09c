package console

import (
	"fmt"
	"strings"
	"time"

	"github.com/campusdesk/campusdesk/pkg/booking"
	"github.com/campusdesk/campusdesk/pkg/directory"
	"github.com/campusdesk/campusdesk/pkg/records"
)

func userLine(u directory.User) string {
	return fmt.Sprintf("%-28s %-20s %s", u.FullName(), u.Role.Label(), u.LoginCode)
}

func day(t time.Time) string {
	if t.IsZero() {
		return "unknown date"
	}
	return t.Local().Format("2006-01-02")
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func reportLine(r records.Report) string {
	return fmt.Sprintf("%s (%s) - Report %d - %s", r.StudentName, r.StudentID, r.Index, day(r.Timestamp))
}

func meetingLine(m records.Meeting) string {
	return fmt.Sprintf("%s (%s) -> %s (%s) - %s - Meeting %d",
		m.BookerName, m.BookerID, m.TargetName, m.TargetID, records.FormatWhen(m.When), m.PairIndex)
}

func reportDetail(r records.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Report #%d\n\n", r.Index)
	fmt.Fprintf(&b, "Timestamp:  %s\n", stamp(r.Timestamp))
	fmt.Fprintf(&b, "Student:    %s\n", r.StudentName)
	fmt.Fprintf(&b, "Student ID: %s\n\n", r.StudentID)
	b.WriteString(r.Content)
	return b.String()
}

func meetingDetail(m records.Meeting) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Meeting %d\n\n", m.PairIndex)
	fmt.Fprintf(&b, "Created: %s\n", stamp(m.CreatedAt))
	fmt.Fprintf(&b, "Booker:  %s (%s)\n", m.BookerName, m.BookerID)
	fmt.Fprintf(&b, "Target:  %s (%s)\n", m.TargetName, m.TargetID)
	fmt.Fprintf(&b, "When:    %s\n\n", records.FormatWhen(m.When))
	b.WriteString("Reason:\n")
	b.WriteString(m.Reason)
	return b.String()
}

func studentLine(s booking.StudentSummary) string {
	return fmt.Sprintf("%s (%s) - Reports: %d, Meetings: %d, Upcoming booked: %d",
		s.Student.FullName(), s.Student.LoginCode, s.Activity.Reports, s.Activity.Meetings, s.Activity.UpcomingBooked)
}

func studentDetail(d booking.StudentDetail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Student: %s (%s)\n\n", d.Student.FullName(), d.Student.LoginCode)
	fmt.Fprintf(&b, "Reports filed:                %d\n", d.Activity.Reports)
	fmt.Fprintf(&b, "Total meetings (historical):  %d\n", d.Activity.Meetings)
	fmt.Fprintf(&b, "Upcoming meetings they booked: %d\n", d.Activity.UpcomingBooked)

	if len(d.RecentReports) > 0 {
		b.WriteString("\nReports (most recent first):\n")
		for _, r := range d.RecentReports {
			preview := strings.ReplaceAll(booking.Preview(r.Content, 0), "\n", " ")
			fmt.Fprintf(&b, "- %s #%d: %s\n", day(r.Timestamp), r.Index, preview)
		}
	}
	if len(d.Upcoming) > 0 {
		b.WriteString("\nUpcoming meetings they booked:\n")
		for _, m := range d.Upcoming {
			fmt.Fprintf(&b, "- %s with %s (%s) - Reason: %s\n", records.FormatWhen(m.When), m.TargetName, m.TargetID, m.Reason)
		}
	}
	return b.String()
}

func supervisorLine(s booking.SupervisorSummary) string {
	return fmt.Sprintf("%s (%s) - Interactions with students: %d, Upcoming they booked: %d",
		s.Supervisor.FullName(), s.Supervisor.LoginCode, s.Interactions, s.UpcomingBooked)
}

func supervisorDetail(d booking.SupervisorDetail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Personal supervisor: %s (%s)\n\n", d.Supervisor.FullName(), d.Supervisor.LoginCode)
	if len(d.Meetings) == 0 {
		b.WriteString("(no meetings with students)\n")
		return b.String()
	}
	b.WriteString("Meetings (chronological):\n")
	for _, m := range d.Meetings {
		fmt.Fprintf(&b, "- %s | Booker: %s (%s) -> Target: %s (%s) | Pair #%d\n",
			records.FormatWhen(m.When), m.BookerName, m.BookerID, m.TargetName, m.TargetID, m.PairIndex)
		if m.Reason != "" {
			fmt.Fprintf(&b, "  Reason: %s\n", m.Reason)
		}
	}
	return b.String()
}
