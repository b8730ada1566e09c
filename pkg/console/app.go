// Package console provides the interactive terminal front end for campusdesk.
//
// The console is split across several files:
//   - app.go: program lifecycle
//   - model.go: model state and menu definitions
//   - update.go: key handling per screen
//   - screens.go: screen transitions and write commands
//   - view.go, details.go: rendering
//   - form.go, picker.go: small reusable widgets
//   - styles.go: colour palette
package console

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/campusdesk/campusdesk/pkg/booking"
	"github.com/campusdesk/campusdesk/pkg/logging"
)

// App runs the console against a booking service.
type App struct {
	svc     *booking.Service
	logger  *logging.Logger
	program *tea.Program
	opts    []tea.ProgramOption
}

// NewApp creates a console for svc. Extra program options are passed to
// Bubble Tea, which lets tests supply their own input and output.
func NewApp(svc *booking.Service, logger *logging.Logger, opts ...tea.ProgramOption) *App {
	if logger == nil {
		logger = logging.Nop()
	}
	return &App{svc: svc, logger: logger, opts: opts}
}

// Run starts the console and blocks until the user quits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	if a.svc == nil {
		return fmt.Errorf("console: service is required")
	}

	m := newModel(ctx, a.svc, a.logger)
	a.logger.Infof("console starting, booking window %s", a.svc.Window())

	opts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, a.opts...)
	a.program = tea.NewProgram(m, opts...)

	if _, err := a.program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			a.logger.Infof("console stopped: %v", ctx.Err())
			return nil
		}
		return fmt.Errorf("failed to run console: %w", err)
	}

	a.logger.Infof("console closed")
	return nil
}
