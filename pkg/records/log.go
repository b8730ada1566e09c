package records

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/campusdesk/campusdesk/pkg/logging"
)

// Log is an append-only text file of record blocks.
// Appends and reads on one Log are serialized by its mutex so a reader never
// observes a half-written block from this process.
type Log struct {
	path   string
	mu     sync.Mutex
	logger *logging.Logger
}

func newLog(path string, logger *logging.Logger) (*Log, error) {
	if path == "" {
		return nil, fmt.Errorf("records: log path is required")
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Log{path: path, logger: logger}, nil
}

// Path returns the file path of the log.
func (l *Log) Path() string {
	return l.path
}

// readLocked returns the whole file. A missing file reads as empty.
// Must be called with l.mu held.
func (l *Log) readLocked() (string, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("records: read %s: %w", l.path, err)
	}
	return string(data), nil
}

// appendLocked writes block at the end of the file, creating it if needed.
// Must be called with l.mu held.
func (l *Log) appendLocked(block string) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0750); err != nil {
		return fmt.Errorf("records: create data directory: %w", err)
	}

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("records: open %s: %w", l.path, err)
	}
	if _, err := file.WriteString(block); err != nil {
		file.Close()
		return fmt.Errorf("records: append to %s: %w", l.path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("records: close %s: %w", l.path, err)
	}
	return nil
}

// text reads the file under the lock, degrading read failures to "".
func (l *Log) text() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	text, err := l.readLocked()
	if err != nil {
		l.logger.Warnf("treating %s as empty: %v", l.path, err)
		return "", err
	}
	return text, nil
}

// MeetingLog stores meeting blocks.
type MeetingLog struct {
	*Log
}

// NewMeetingLog opens the meeting log at path. The file is created on first append.
func NewMeetingLog(path string, logger *logging.Logger) (*MeetingLog, error) {
	l, err := newLog(path, logger)
	if err != nil {
		return nil, err
	}
	return &MeetingLog{Log: l}, nil
}

// All decodes every meeting in file order. Read failures yield an empty slice.
func (l *MeetingLog) All() []Meeting {
	meetings, _ := l.Load()
	return meetings
}

// Load decodes every meeting and also returns the read error, if any.
func (l *MeetingLog) Load() ([]Meeting, error) {
	text, err := l.text()
	meetings := DecodeMeetings(text)
	l.logSkipped(MeetingKind, text, len(meetings))
	return meetings, err
}

// Append writes m at the end of the log.
func (l *MeetingLog) Append(m Meeting) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.appendLocked(EncodeMeeting(m))
}

// Book reads the current meetings, lets build derive the new one from them and
// appends it, all under one lock. Nothing is written if build fails.
func (l *MeetingLog) Book(build func(existing []Meeting) (Meeting, error)) (Meeting, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	text, err := l.readLocked()
	if err != nil {
		l.logger.Warnf("treating %s as empty: %v", l.path, err)
	}

	m, err := build(DecodeMeetings(text))
	if err != nil {
		return Meeting{}, err
	}
	if err := l.appendLocked(EncodeMeeting(m)); err != nil {
		return Meeting{}, err
	}
	return m, nil
}

// ReportLog stores report blocks.
type ReportLog struct {
	*Log
}

// NewReportLog opens the report log at path. The file is created on first append.
func NewReportLog(path string, logger *logging.Logger) (*ReportLog, error) {
	l, err := newLog(path, logger)
	if err != nil {
		return nil, err
	}
	return &ReportLog{Log: l}, nil
}

// All decodes every report in file order. Index is left unset.
func (l *ReportLog) All() []Report {
	reports, _ := l.Load()
	return reports
}

// Load decodes every report and also returns the read error, if any.
func (l *ReportLog) Load() ([]Report, error) {
	text, err := l.text()
	reports := DecodeReports(text)
	l.logSkipped(ReportKind, text, len(reports))
	return reports, err
}

// Append writes r at the end of the log.
func (l *ReportLog) Append(r Report) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.appendLocked(EncodeReport(r))
}

// File appends r and returns it numbered among its student's reports. The
// count and the append happen under one lock.
func (l *ReportLog) File(r Report) (Report, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	text, err := l.readLocked()
	if err != nil {
		l.logger.Warnf("treating %s as empty: %v", l.path, err)
	}

	index := 1
	for _, existing := range DecodeReports(text) {
		if existing.StudentID == r.StudentID {
			index++
		}
	}
	if err := l.appendLocked(EncodeReport(r)); err != nil {
		return Report{}, err
	}
	r.Index = index
	return r, nil
}

func (l *Log) logSkipped(kind Kind, text string, decoded int) {
	if skipped := len(kind.Split(text)) - decoded; skipped > 0 {
		l.logger.Debugf("skipped %d malformed block(s) in %s", skipped, l.path)
	}
}
