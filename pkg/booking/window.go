package booking

import (
	"fmt"
	"strings"
	"time"
)

const clockLayout = "15:04"

// Window is the range of meeting start times that may be booked, as offsets
// from midnight. Both ends are inclusive.
type Window struct {
	Earliest time.Duration
	Latest   time.Duration
}

// DefaultWindow is 07:30 to 18:00.
var DefaultWindow = Window{
	Earliest: 7*time.Hour + 30*time.Minute,
	Latest:   18 * time.Hour,
}

// ParseWindow builds a Window from two HH:mm clock strings.
func ParseWindow(earliest, latest string) (Window, error) {
	e, err := ParseClock(earliest)
	if err != nil {
		return Window{}, fmt.Errorf("booking: earliest: %w", err)
	}
	l, err := ParseClock(latest)
	if err != nil {
		return Window{}, fmt.Errorf("booking: latest: %w", err)
	}
	if e > l {
		return Window{}, fmt.Errorf("booking: earliest %s is after latest %s", earliest, latest)
	}
	return Window{Earliest: e, Latest: l}, nil
}

// Contains reports whether the offset from midnight lies inside the window.
func (w Window) Contains(offset time.Duration) bool {
	return offset >= w.Earliest && offset <= w.Latest
}

func (w Window) String() string {
	return formatClock(w.Earliest) + "-" + formatClock(w.Latest)
}

// ParseClock reads HH:mm or H:mm as an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, ErrInvalidTime
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func formatClock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}
