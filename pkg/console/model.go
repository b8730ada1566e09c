package console

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/campusdesk/campusdesk/pkg/booking"
	"github.com/campusdesk/campusdesk/pkg/directory"
	"github.com/campusdesk/campusdesk/pkg/logging"
	"github.com/campusdesk/campusdesk/pkg/records"
)

// screen identifies what the model is currently showing.
type screen int

const (
	screenLogin screen = iota
	screenMenu
	screenUsers
	screenAddUser
	screenReport
	screenBook
	screenReports
	screenMeetings
	screenActivity
	screenTracker
	screenExport
	screenDetail
)

// Steps of the multi-stage flows.
const (
	stepConfirm = iota
	stepTarget
	stepDetails
)

type menuAction int

const (
	actReport menuAction = iota
	actBook
	actUsers
	actAddUser
	actReports
	actMeetings
	actActivity
	actTracker
	actExport
	actSignOut
	actQuit
)

type menuItem struct {
	label  string
	action menuAction
}

// menuFor lists the options role may use, in display order.
func menuFor(role directory.Role) []menuItem {
	var items []menuItem
	if booking.Can(role, booking.ActionFileReport) {
		items = append(items, menuItem{"Make a report", actReport})
	}
	if booking.Can(role, booking.ActionBookMeeting) {
		items = append(items, menuItem{"Book a meeting", actBook})
	}
	items = append(items, menuItem{"List users", actUsers})
	if booking.Can(role, booking.ActionAddUser) {
		items = append(items, menuItem{"Add a new user", actAddUser})
	}
	items = append(items,
		menuItem{"Reports", actReports},
		menuItem{"Meetings", actMeetings},
	)
	if booking.Can(role, booking.ActionStudentActivity) {
		items = append(items, menuItem{"Student activity", actActivity})
	}
	if booking.Can(role, booking.ActionTutorTracker) {
		items = append(items, menuItem{"Tutor activity tracker", actTracker})
	}
	if booking.Can(role, booking.ActionExport) {
		items = append(items, menuItem{"Export student activity", actExport})
	}
	return append(items,
		menuItem{"Sign out", actSignOut},
		menuItem{"Quit", actQuit},
	)
}

// opDoneMsg reports the outcome of a write started from a form.
type opDoneMsg struct {
	message string
	err     error
}

// model is the state of the console. Update uses a pointer receiver so
// nested component updates persist.
type model struct {
	svc      *booking.Service
	logger   *logging.Logger
	ctx      context.Context
	copyText func(string) error

	user   directory.User
	screen screen
	step   int

	width  int
	height int

	input textinput.Model
	area  textarea.Model
	form  *form

	detail     viewport.Model
	detailText string
	detailBack screen

	menu        picker[menuItem]
	users       picker[directory.User]
	searching   bool
	targets     picker[directory.User]
	target      directory.User
	pairCounts  map[string]int
	meetings    picker[records.Meeting]
	reports     picker[records.Report]
	students    picker[booking.StudentSummary]
	supervisors picker[booking.SupervisorSummary]

	status    string
	statusErr bool
	busy      bool
}

func newModel(ctx context.Context, svc *booking.Service, logger *logging.Logger) *model {
	if logger == nil {
		logger = logging.Nop()
	}
	in := textinput.New()
	in.Width = 40

	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.SetWidth(70)
	ta.SetHeight(8)

	m := &model{
		svc:      svc,
		logger:   logger,
		ctx:      ctx,
		copyText: clipboard.WriteAll,
		input:    in,
		area:     ta,
		detail:   viewport.New(80, 20),
		width:    80,
		height:   24,
	}
	m.openLogin()
	return m
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) setStatus(msg string) {
	m.status, m.statusErr = msg, false
}

func (m *model) setError(err error) {
	m.status, m.statusErr = err.Error(), true
}

func (m *model) clearStatus() {
	m.status, m.statusErr = "", false
}

// prompt resets the shared single-line input for a new question.
func (m *model) prompt(placeholder string, limit int) tea.Cmd {
	m.input.Reset()
	m.input.Placeholder = placeholder
	m.input.CharLimit = limit
	m.input.Prompt = "> "
	return m.input.Focus()
}

// listHeight is the number of list rows that fit under the header and footer.
func (m *model) listHeight() int {
	if h := m.height - 10; h > 3 {
		return h
	}
	return 3
}
