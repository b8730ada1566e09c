// Package config loads campusdesk settings from defaults, an optional YAML
// file, a .env file and CAMPUSDESK_* environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/campusdesk/campusdesk/pkg/booking"
)

const (
	envPrefix      = "CAMPUSDESK"
	configFileName = "config.yaml"
)

// Config holds every campusdesk setting.
type Config struct {
	DataDir      string        `yaml:"data_dir" validate:"required"`
	UsersFile    string        `yaml:"users_file" validate:"required"`
	MeetingsFile string        `yaml:"meetings_file" validate:"required"`
	ReportsFile  string        `yaml:"reports_file" validate:"required"`
	Log          LogConfig     `yaml:"log"`
	Booking      BookingConfig `yaml:"booking"`
}

// LogConfig controls the session log.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=console json"`
	Dir    string `yaml:"dir,omitempty"`
}

// BookingConfig holds the bookable window as HH:mm clock times.
type BookingConfig struct {
	Earliest string `yaml:"earliest" validate:"required"`
	Latest   string `yaml:"latest" validate:"required"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		DataDir:      ".",
		UsersFile:    "users.json",
		MeetingsFile: "Meetings.txt",
		ReportsFile:  "student_reports.txt",
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Booking: BookingConfig{
			Earliest: "07:30",
			Latest:   "18:00",
		},
	}
}

// DefaultPath returns ~/.campusdesk/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".campusdesk", configFileName), nil
}

// Load reads the configuration. An empty path means the default location,
// which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		if !missing || explicit {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg := &Config{
		DataDir:      v.GetString("data_dir"),
		UsersFile:    v.GetString("users_file"),
		MeetingsFile: v.GetString("meetings_file"),
		ReportsFile:  v.GetString("reports_file"),
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("log.level")),
			Format: strings.ToLower(v.GetString("log.format")),
			Dir:    v.GetString("log.dir"),
		},
		Booking: BookingConfig{
			Earliest: v.GetString("booking.earliest"),
			Latest:   v.GetString("booking.latest"),
		},
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("users_file", d.UsersFile)
	v.SetDefault("meetings_file", d.MeetingsFile)
	v.SetDefault("reports_file", d.ReportsFile)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.dir", d.Log.Dir)
	v.SetDefault("booking.earliest", d.Booking.Earliest)
	v.SetDefault("booking.latest", d.Booking.Latest)
}

var validate = validator.New()

// Validate checks required settings, the log options and the booking window.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	for _, name := range []string{c.UsersFile, c.MeetingsFile, c.ReportsFile} {
		if filepath.Base(name) != name {
			return fmt.Errorf("config: %q must be a file name, not a path", name)
		}
	}
	if _, err := c.Window(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Window parses the bookable window.
func (c *Config) Window() (booking.Window, error) {
	return booking.ParseWindow(c.Booking.Earliest, c.Booking.Latest)
}

// UsersPath returns the users file inside the data directory.
func (c *Config) UsersPath() string {
	return filepath.Join(c.DataDir, c.UsersFile)
}

// MeetingsPath returns the meetings log inside the data directory.
func (c *Config) MeetingsPath() string {
	return filepath.Join(c.DataDir, c.MeetingsFile)
}

// ReportsPath returns the reports log inside the data directory.
func (c *Config) ReportsPath() string {
	return filepath.Join(c.DataDir, c.ReportsFile)
}
