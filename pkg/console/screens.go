package console

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/campusdesk/campusdesk/pkg/booking"
	"github.com/campusdesk/campusdesk/pkg/directory"
	"github.com/campusdesk/campusdesk/pkg/export"
	"github.com/campusdesk/campusdesk/pkg/query"
)

const defaultExportPath = "student_activity.csv"

func (m *model) openLogin() {
	m.screen = screenLogin
	m.user = directory.User{}
	m.form = nil
	m.prompt("4-digit login code", 4)
}

func (m *model) signOut() {
	m.logger.Infof("%s signed out", m.user.FullName())
	m.openLogin()
	m.setStatus("Signed out")
}

func (m *model) openMenu() {
	m.screen = screenMenu
	m.step = 0
	m.form = nil
	m.searching = false
	m.input.Blur()
	m.area.Blur()
	m.menu = newPicker(menuFor(m.user.Role))
}

func (m *model) openUsers() tea.Cmd {
	m.screen = screenUsers
	m.searching = false
	m.input.Reset()
	m.users = newPicker(m.svc.Users())
	return nil
}

func (m *model) openAddUser() tea.Cmd {
	if !booking.Can(m.user.Role, booking.ActionAddUser) {
		m.denied()
		return nil
	}
	m.screen = screenAddUser
	m.form = newForm(
		field{label: "First name", limit: 50},
		field{label: "Last name", limit: 50},
		field{label: "Login code", placeholder: "e.g. 0423", limit: 4},
		field{label: "Type", placeholder: "1 student, 2 personal supervisor, 3 senior tutor", limit: 20},
	)
	return nil
}

func (m *model) openReport() tea.Cmd {
	if !booking.Can(m.user.Role, booking.ActionFileReport) {
		m.denied()
		return nil
	}
	m.screen = screenReport
	m.step = stepConfirm
	return m.prompt("your 4-digit login code", 4)
}

func (m *model) openBook() tea.Cmd {
	if !booking.Can(m.user.Role, booking.ActionBookMeeting) {
		m.denied()
		return nil
	}
	m.screen = screenBook
	m.step = stepConfirm
	m.form = nil
	return m.prompt("your 4-digit login code", 4)
}

func (m *model) openTargets() tea.Cmd {
	targets, err := m.svc.BookableTargets(m.user)
	if err != nil {
		m.openMenu()
		m.setError(err)
		return nil
	}
	if len(targets) == 0 {
		m.openMenu()
		m.setError(fmt.Errorf("no matching users available to book a meeting with"))
		return nil
	}
	m.input.Blur()
	m.clearStatus()
	m.step = stepTarget
	m.targets = newPicker(targets)

	meetings := m.svc.VisibleMeetings(m.user)
	m.pairCounts = make(map[string]int, len(targets))
	for _, t := range targets {
		m.pairCounts[t.LoginCode] = query.PerPairMeetingCount(meetings, m.user.LoginCode, t.LoginCode)
	}
	return nil
}

func (m *model) openReports() {
	m.screen = screenReports
	m.reports = newPicker(m.svc.VisibleReports(m.user))
}

func (m *model) openMeetings() {
	m.screen = screenMeetings
	m.meetings = newPicker(m.svc.VisibleMeetings(m.user))
}

func (m *model) openActivity() {
	rows, err := m.svc.StudentActivity(m.user)
	if err != nil {
		m.denied()
		return
	}
	m.screen = screenActivity
	m.students = newPicker(rows)
}

func (m *model) openTracker() {
	rows, err := m.svc.TutorTracker(m.user)
	if err != nil {
		m.denied()
		return
	}
	m.screen = screenTracker
	m.supervisors = newPicker(rows)
}

func (m *model) openExport() tea.Cmd {
	if !booking.Can(m.user.Role, booking.ActionExport) {
		m.denied()
		return nil
	}
	m.screen = screenExport
	cmd := m.prompt("file ending in .csv or .pdf", 200)
	m.input.SetValue(defaultExportPath)
	m.input.CursorEnd()
	return cmd
}

func (m *model) openDetail(text string, back screen) {
	m.detailText = text
	m.detailBack = back
	m.detail.SetContent(text)
	m.detail.GotoTop()
	m.screen = screenDetail
	m.clearStatus()
}

func (m *model) submitAddUser() tea.Cmd {
	role, err := parseRoleInput(m.form.value(3))
	if err != nil {
		m.setError(err)
		return nil
	}
	user := directory.NewUser(m.form.value(0), m.form.value(1), role, m.form.value(2))
	svc, ctx := m.svc, m.ctx
	m.busy = true
	return func() tea.Msg {
		if err := svc.AddUser(ctx, user); err != nil {
			return opDoneMsg{err: err}
		}
		return opDoneMsg{message: fmt.Sprintf("Added %s (%s)", user.FullName(), user.Role.Label())}
	}
}

func (m *model) submitReport() tea.Cmd {
	svc, ctx, user, content := m.svc, m.ctx, m.user, m.area.Value()
	m.busy = true
	return func() tea.Msg {
		r, err := svc.FileReport(ctx, user, content)
		if err != nil {
			return opDoneMsg{err: err}
		}
		return opDoneMsg{message: fmt.Sprintf("Report #%d saved", r.Index)}
	}
}

func (m *model) submitBooking() tea.Cmd {
	req := booking.MeetingRequest{
		Booker:   m.user,
		TargetID: m.target.ID,
		Date:     m.form.value(0),
		Time:     m.form.value(1),
		Reason:   m.form.value(2),
	}
	svc, ctx := m.svc, m.ctx
	m.busy = true
	return func() tea.Msg {
		mt, err := svc.BookMeeting(ctx, req)
		if err != nil {
			return opDoneMsg{err: err}
		}
		return opDoneMsg{message: fmt.Sprintf("Meeting %d with %s booked", mt.PairIndex, mt.TargetName)}
	}
}

func (m *model) submitExport() tea.Cmd {
	path := strings.TrimSpace(m.input.Value())
	if path == "" {
		path = defaultExportPath
	}
	svc, user := m.svc, m.user
	m.busy = true
	return func() tea.Msg {
		data := export.ActivityDataset(svc.Users(), svc.VisibleMeetings(user), svc.VisibleReports(user), svc.Now())
		if err := export.WriteFile(path, data); err != nil {
			return opDoneMsg{err: err}
		}
		return opDoneMsg{message: fmt.Sprintf("Exported %d students to %s", len(data.Rows), path)}
	}
}

// parseRoleInput accepts the menu number or the role name.
func parseRoleInput(s string) (directory.Role, error) {
	switch strings.TrimSpace(s) {
	case "1":
		return directory.RoleStudent, nil
	case "2":
		return directory.RolePersonalSupervisor, nil
	case "3":
		return directory.RoleSeniorTutor, nil
	}
	role, err := directory.ParseRole(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		return 0, fmt.Errorf("type must be 1, 2 or 3")
	}
	return role, nil
}
