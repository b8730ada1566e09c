package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/campusdesk/campusdesk/pkg/directory"
)

// View renders the current screen with a status line and key hints.
func (m *model) View() string {
	var title, body, help string

	switch m.screen {
	case screenLogin:
		title = "Sign in"
		body = subtitleStyle.Render("Log in with your 4-digit user ID.") + "\n\n" + m.input.View()
		help = "enter sign in • esc quit"

	case screenMenu:
		title = "Main menu"
		body = subtitleStyle.Render(fmt.Sprintf("Logged in as %s - %s", m.user.FullName(), m.user.Role.Label())) +
			"\n\n" + m.menu.render(func(i menuItem) string { return i.label }, 0)
		help = "↑/↓ move • enter select • esc sign out • q quit"

	case screenUsers:
		title = "Users"
		body = m.users.render(userLine, m.listHeight())
		if m.searching || m.input.Value() != "" {
			body = m.input.View() + "\n\n" + body
		}
		help = "↑/↓ move • / search • esc back"

	case screenAddUser:
		title = "Add new user"
		body = m.form.view()
		help = "tab next field • enter save on last field • esc cancel"

	case screenReport:
		title = "Make a report"
		if m.step == stepConfirm {
			body = "Enter your 4-digit student ID to confirm.\n\n" + m.input.View()
			help = "enter confirm • esc cancel"
		} else {
			body = m.area.View()
			help = "ctrl+s submit • esc cancel"
		}

	case screenBook:
		title = "Book a meeting"
		body, help = m.bookView()

	case screenReports:
		title = "Reports"
		body = m.reports.render(reportLine, m.listHeight())
		if m.user.Role == directory.RoleStudent {
			body = subtitleStyle.Render("(showing only your reports)") + "\n\n" + body
		}
		help = "↑/↓ move • enter view • esc back"

	case screenMeetings:
		title = "Meetings"
		body = m.meetings.render(meetingLine, m.listHeight())
		if m.user.Role == directory.RoleStudent {
			body = subtitleStyle.Render("(showing only meetings that include you)") + "\n\n" + body
		}
		help = "↑/↓ move • enter view • esc back"

	case screenActivity:
		title = "Student activity"
		body = m.students.render(studentLine, m.listHeight())
		help = "↑/↓ move • enter details • esc back"

	case screenTracker:
		title = "Tutor activity tracker"
		body = m.supervisors.render(supervisorLine, m.listHeight())
		help = "↑/↓ move • enter details • esc back"

	case screenExport:
		title = "Export student activity"
		body = "Write the student activity table to a CSV or PDF file.\n\n" + m.input.View()
		help = "enter export • esc cancel"

	case screenDetail:
		title = "Details"
		body = m.detail.View()
		help = "↑/↓ scroll • c copy • esc back"
	}

	sections := []string{titleStyle.Render(title), body, ""}
	if m.status != "" {
		style := successStyle
		if m.statusErr {
			style = errorStyle
		}
		sections = append(sections, style.Render(m.status))
	}
	sections = append(sections, statusBarStyle.Render(helpStyle.Render(help)))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *model) bookView() (body, help string) {
	switch m.step {
	case stepConfirm:
		return "Enter your 4-digit login ID to confirm.\n\n" + m.input.View(), "enter confirm • esc cancel"
	case stepTarget:
		var b strings.Builder
		b.WriteString("Select a user to book a meeting with:\n\n")
		b.WriteString(m.targets.render(func(u directory.User) string {
			return fmt.Sprintf("%s (%s) - Existing meetings with them: %d", u.FullName(), u.LoginCode, m.pairCounts[u.LoginCode])
		}, m.listHeight()))
		return b.String(), "↑/↓ move • enter choose • esc cancel"
	default:
		header := subtitleStyle.Render(fmt.Sprintf("Meeting with %s (%s)", m.target.FullName(), m.target.LoginCode))
		return header + "\n\n" + boxStyle.Render(m.form.view()), "tab next field • enter book on last field • esc cancel"
	}
}
