package console

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/campusdesk/campusdesk/pkg/booking"
	"github.com/campusdesk/campusdesk/pkg/directory"
)

const (
	keyEnter = "enter"
	keyEsc   = "esc"
	keyCtrlC = "ctrl+c"
)

// Update handles all state updates for the console.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.detail.Width = msg.Width - 4
		m.detail.Height = msg.Height - 8
		m.area.SetWidth(min(msg.Width-4, 100))
		return m, nil

	case opDoneMsg:
		return m.handleOpDone(msg)

	case tea.KeyMsg:
		if msg.String() == keyCtrlC {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}

	return m, m.updateFocused(msg)
}

// updateFocused forwards non-key messages such as cursor blinks to the
// component that currently has focus.
func (m *model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case m.form != nil && (m.screen == screenAddUser || m.screen == screenBook):
		cmd = m.form.update(msg)
	case m.screen == screenReport && m.step == stepDetails:
		m.area, cmd = m.area.Update(msg)
	default:
		m.input, cmd = m.input.Update(msg)
	}
	return cmd
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	switch m.screen {
	case screenLogin:
		return m.updateLogin(msg)
	case screenMenu:
		return m.updateMenu(msg)
	case screenUsers:
		return m.updateUsers(msg)
	case screenAddUser:
		return m.updateAddUser(msg)
	case screenReport:
		return m.updateReport(msg)
	case screenBook:
		return m.updateBook(msg)
	case screenReports:
		return m.updateReports(msg)
	case screenMeetings:
		return m.updateMeetings(msg)
	case screenActivity:
		return m.updateActivity(msg)
	case screenTracker:
		return m.updateTracker(msg)
	case screenExport:
		return m.updateExport(msg)
	case screenDetail:
		return m.updateDetail(msg)
	}
	return m, nil
}

func (m *model) handleOpDone(msg opDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		m.logger.Warnf("operation failed: %v", msg.err)
		m.setError(msg.err)
		return m, nil
	}
	m.openMenu()
	m.setStatus(msg.message)
	return m, nil
}

func (m *model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		return m, tea.Quit
	case keyEnter:
		user, err := m.svc.Login(m.input.Value())
		if err != nil {
			if errors.Is(err, directory.ErrNotFound) {
				err = errors.New("no user found with that code, try again")
			}
			m.setError(err)
			m.input.Reset()
			return m, nil
		}
		m.user = user
		m.openMenu()
		m.setStatus("Welcome, " + user.FullName() + " (" + user.Role.Label() + ")")
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.menu.prev()
	case "down", "j":
		m.menu.next()
	case keyEsc:
		m.signOut()
	case "q":
		return m, tea.Quit
	case keyEnter:
		item, ok := m.menu.selected()
		if !ok {
			return m, nil
		}
		m.clearStatus()
		return m.runMenuAction(item.action)
	}
	return m, nil
}

func (m *model) runMenuAction(action menuAction) (tea.Model, tea.Cmd) {
	switch action {
	case actReport:
		return m, m.openReport()
	case actBook:
		return m, m.openBook()
	case actUsers:
		return m, m.openUsers()
	case actAddUser:
		return m, m.openAddUser()
	case actReports:
		m.openReports()
	case actMeetings:
		m.openMeetings()
	case actActivity:
		m.openActivity()
	case actTracker:
		m.openTracker()
	case actExport:
		return m, m.openExport()
	case actSignOut:
		m.signOut()
	case actQuit:
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) updateUsers(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case keyEsc:
			m.searching = false
			m.input.Blur()
			m.filterUsers("")
			return m, nil
		case keyEnter:
			m.searching = false
			m.input.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.filterUsers(m.input.Value())
		return m, cmd
	}

	switch msg.String() {
	case "up", "k":
		m.users.prev()
	case "down", "j":
		m.users.next()
	case "/":
		m.searching = true
		return m, m.prompt("name or code, * and ? allowed", 40)
	case keyEsc:
		m.openMenu()
	}
	return m, nil
}

func (m *model) filterUsers(pattern string) {
	users, err := directory.FilterUsers(m.svc.Users(), pattern)
	if err != nil {
		m.setError(err)
		return
	}
	m.clearStatus()
	m.users = newPicker(users)
}

func (m *model) updateAddUser(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		m.openMenu()
		return m, nil
	case keyEnter:
		if !m.form.last() {
			return m, m.form.move(1)
		}
		return m, m.submitAddUser()
	}
	return m, m.form.update(msg)
}

func (m *model) updateReport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == keyEsc {
		m.openMenu()
		return m, nil
	}

	if m.step == stepConfirm {
		if msg.String() == keyEnter {
			if err := m.svc.ConfirmIdentity(m.user, m.input.Value()); err != nil {
				m.openMenu()
				m.setError(err)
				return m, nil
			}
			m.step = stepDetails
			m.clearStatus()
			m.area.Reset()
			return m, m.area.Focus()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	if msg.String() == "ctrl+s" {
		return m, m.submitReport()
	}
	var cmd tea.Cmd
	m.area, cmd = m.area.Update(msg)
	return m, cmd
}

func (m *model) updateBook(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == keyEsc {
		m.openMenu()
		return m, nil
	}

	switch m.step {
	case stepConfirm:
		if msg.String() == keyEnter {
			if err := m.svc.ConfirmIdentity(m.user, m.input.Value()); err != nil {
				m.openMenu()
				m.setError(err)
				return m, nil
			}
			return m, m.openTargets()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case stepTarget:
		switch msg.String() {
		case "up", "k":
			m.targets.prev()
		case "down", "j":
			m.targets.next()
		case keyEnter:
			target, ok := m.targets.selected()
			if !ok {
				return m, nil
			}
			m.target = target
			m.step = stepDetails
			m.form = newForm(
				field{label: "Date", placeholder: "DD/MM/YY", limit: 10},
				field{label: "Time", placeholder: "HH:mm, " + m.svc.Window().String(), limit: 5},
				field{label: "Reason", placeholder: "what the meeting is about", limit: 500},
			)
		}
		return m, nil

	default:
		if msg.String() == keyEnter {
			if !m.form.last() {
				return m, m.form.move(1)
			}
			return m, m.submitBooking()
		}
		return m, m.form.update(msg)
	}
}

func (m *model) updateReports(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.reports.prev()
	case "down", "j":
		m.reports.next()
	case keyEsc:
		m.openMenu()
	case keyEnter:
		if r, ok := m.reports.selected(); ok {
			m.openDetail(reportDetail(r), screenReports)
		}
	}
	return m, nil
}

func (m *model) updateMeetings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.meetings.prev()
	case "down", "j":
		m.meetings.next()
	case keyEsc:
		m.openMenu()
	case keyEnter:
		if mt, ok := m.meetings.selected(); ok {
			m.openDetail(meetingDetail(mt), screenMeetings)
		}
	}
	return m, nil
}

func (m *model) updateActivity(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.students.prev()
	case "down", "j":
		m.students.next()
	case keyEsc:
		m.openMenu()
	case keyEnter:
		row, ok := m.students.selected()
		if !ok {
			return m, nil
		}
		detail, err := m.svc.StudentDetail(m.user, row.Student)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.openDetail(studentDetail(detail), screenActivity)
	}
	return m, nil
}

func (m *model) updateTracker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.supervisors.prev()
	case "down", "j":
		m.supervisors.next()
	case keyEsc:
		m.openMenu()
	case keyEnter:
		row, ok := m.supervisors.selected()
		if !ok {
			return m, nil
		}
		detail, err := m.svc.SupervisorDetail(m.user, row.Supervisor)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.openDetail(supervisorDetail(detail), screenTracker)
	}
	return m, nil
}

func (m *model) updateExport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		m.openMenu()
		return m, nil
	case keyEnter:
		return m, m.submitExport()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEsc, "q":
		m.screen = m.detailBack
		m.clearStatus()
		return m, nil
	case "c":
		if err := m.copyText(m.detailText); err != nil {
			m.setError(err)
		} else {
			m.setStatus("Copied to clipboard")
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

// denied reports a permission failure and returns to the menu.
func (m *model) denied() {
	m.openMenu()
	m.setError(booking.ErrNotPermitted)
}
