// Package main provides the campusdesk console, a terminal application for
// students, personal supervisors and senior tutors to file reports and book
// meetings against shared flat files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/campusdesk/campusdesk/pkg/booking"
	"github.com/campusdesk/campusdesk/pkg/config"
	"github.com/campusdesk/campusdesk/pkg/console"
	"github.com/campusdesk/campusdesk/pkg/directory"
	"github.com/campusdesk/campusdesk/pkg/export"
	"github.com/campusdesk/campusdesk/pkg/logging"
	"github.com/campusdesk/campusdesk/pkg/records"
)

const version = "0.1.0"

// Flags holds the command line options.
type Flags struct {
	ConfigPath  string
	DataDir     string
	ExportPath  string
	InitConfig  bool
	ShowVersion bool
}

func main() {
	flags := parseFlags()

	if flags.ShowVersion {
		fmt.Printf("campusdesk v%s\n", version)
		return
	}

	if err := flags.validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, flags); err != nil {
		stop()
		log.Fatalf("Application error: %v", err)
	}
}

func parseFlags() *Flags {
	f := &Flags{}

	flag.StringVar(&f.ConfigPath, "config", "", "Path to config file (default: ~/.campusdesk/config.yaml)")
	flag.StringVar(&f.DataDir, "data-dir", "", "Directory holding the users, meetings and reports files (overrides config)")
	flag.StringVar(&f.ExportPath, "export", "", "Write the student activity table to a .csv or .pdf file and exit")
	flag.BoolVar(&f.InitConfig, "init-config", false, "Write a default config file and exit")
	flag.BoolVar(&f.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "campusdesk - reports and meetings for personal tutoring\n\n")
		fmt.Fprintf(os.Stderr, "Usage: campusdesk [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  CAMPUSDESK_DATA_DIR          Data directory\n")
		fmt.Fprintf(os.Stderr, "  CAMPUSDESK_LOG_LEVEL         debug, info, warn or error\n")
		fmt.Fprintf(os.Stderr, "  CAMPUSDESK_BOOKING_EARLIEST  Earliest bookable time (HH:mm)\n")
		fmt.Fprintf(os.Stderr, "  CAMPUSDESK_BOOKING_LATEST    Latest bookable time (HH:mm)\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  campusdesk                              # Start the console\n")
		fmt.Fprintf(os.Stderr, "  campusdesk -data-dir /srv/tutoring\n")
		fmt.Fprintf(os.Stderr, "  campusdesk -export activity.pdf\n")
		fmt.Fprintf(os.Stderr, "  campusdesk -init-config\n")
	}

	flag.Parse()
	return f
}

func (f *Flags) validate() error {
	if f.InitConfig && f.ExportPath != "" {
		return fmt.Errorf("-init-config and -export cannot be combined")
	}
	if f.DataDir != "" {
		info, err := os.Stat(f.DataDir)
		if err != nil {
			return fmt.Errorf("data directory error: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("data path '%s' is not a directory", f.DataDir)
		}
	}
	return nil
}

func run(ctx context.Context, f *Flags) error {
	if f.InitConfig {
		return initConfig(f.ConfigPath)
	}

	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}

	logging.Configure(logging.Options{Dir: cfg.Log.Dir, Level: cfg.Log.Level, Format: cfg.Log.Format})
	// A logger is returned even on error; it writes to stderr instead.
	logger, _ := logging.NewLogger("campusdesk")
	defer logger.Close()

	svc, err := newService(cfg, logger)
	if err != nil {
		return err
	}

	if f.ExportPath != "" {
		return runExport(svc, f.ExportPath)
	}

	return console.NewApp(svc, logger.Named("console")).Run(ctx)
}

func initConfig(path string) error {
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := config.WriteDefault(path); err != nil {
		if errors.Is(err, config.ErrExists) {
			fmt.Printf("Config already exists at %s\n", path)
			return nil
		}
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Printf("Wrote default config to %s\n", path)
	return nil
}

func loadConfig(f *Flags) (*config.Config, error) {
	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newService opens the data files named by cfg, creating the default
// accounts when the users file is missing or unreadable.
func newService(cfg *config.Config, logger *logging.Logger) (*booking.Service, error) {
	window, err := cfg.Window()
	if err != nil {
		return nil, err
	}

	store, err := directory.NewFileStore(cfg.UsersPath(), directory.WithLogger(logger.Named("directory")))
	if err != nil {
		return nil, fmt.Errorf("failed to open users: %w", err)
	}
	if err := store.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize users: %w", err)
	}
	if dups := directory.DuplicateLoginCodes(store.GetAllUsers()); len(dups) > 0 {
		logger.Warnf("login codes shared by more than one user: %v", dups)
	}

	recordsLogger := logger.Named("records")
	meetings, err := records.NewMeetingLog(cfg.MeetingsPath(), recordsLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to open meetings: %w", err)
	}
	reports, err := records.NewReportLog(cfg.ReportsPath(), recordsLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to open reports: %w", err)
	}

	return booking.NewService(store, meetings, reports,
		booking.WithWindow(window),
		booking.WithLogger(logger.Named("booking")),
	)
}

// runExport writes the activity table for every student without starting the console.
func runExport(svc *booking.Service, path string) error {
	viewer := directory.User{Role: directory.RoleSeniorTutor}
	data := export.ActivityDataset(svc.Users(), svc.VisibleMeetings(viewer), svc.VisibleReports(viewer), svc.Now())
	if err := export.WriteFile(path, data); err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}
	fmt.Printf("Exported %d students to %s\n", len(data.Rows), path)
	return nil
}
