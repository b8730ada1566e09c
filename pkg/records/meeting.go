package records

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout = "02/01/06"
	timeLayout = "15:04"

	// UnknownWhen is shown in place of a meeting date that could not be read.
	UnknownWhen = "Unknown date/time"

	// Dates are stored with two-digit years, which read back in this range.
	MinStoredYear = 1969
	MaxStoredYear = 2068
)

// Accepted date forms: day/month/two-digit year or day/month/four-digit year,
// with or without leading zeros.
var whenLayouts = []string{
	"2/1/06 15:04",
	"2/1/2006 15:04",
}

// Meeting is one booked meeting between two users, identified by login code.
// A zero When or CreatedAt means the stored value could not be read.
type Meeting struct {
	BookerID   string
	BookerName string
	TargetID   string
	TargetName string
	When       time.Time
	PairIndex  int
	CreatedAt  time.Time
	Reason     string
}

// StorableYear reports whether t survives the two-digit year of the Date field.
func StorableYear(t time.Time) bool {
	y := t.In(time.Local).Year()
	return y >= MinStoredYear && y <= MaxStoredYear
}

// HasKnownDate reports whether the meeting date was readable.
func (m Meeting) HasKnownDate() bool {
	return !m.When.IsZero()
}

// Involves reports whether id is the booker or the target.
func (m Meeting) Involves(id string) bool {
	return m.BookerID == id || m.TargetID == id
}

const (
	labelCreatedAt = "CreatedAt"
	labelBooker    = "Booker"
	labelBookerID  = "Booker ID"
	labelTarget    = "Target"
	labelTargetID  = "Target ID"
	labelDate      = "Date"
	labelTime      = "Time"
	labelReason    = "Reason"
	labelPairIndex = "PairIndex"
)

// EncodeMeeting renders m as a meeting block.
func EncodeMeeting(m Meeting) string {
	date, clock := "Unknown", "Unknown"
	if m.HasKnownDate() {
		local := m.When.In(time.Local)
		date = local.Format(dateLayout)
		clock = local.Format(timeLayout)
	}

	return MeetingKind.Encode([]Field{
		{labelCreatedAt, formatStamp(m.CreatedAt)},
		{labelBooker, m.BookerName},
		{labelBookerID, m.BookerID},
		{labelTarget, m.TargetName},
		{labelTargetID, m.TargetID},
		{labelDate, date},
		{labelTime, clock},
		{labelReason, m.Reason},
		{labelPairIndex, strconv.Itoa(m.PairIndex)},
	}, nil)
}

// DecodeMeetings parses every well-formed meeting block in text, in file order.
// Blocks without a booker or target id are skipped.
func DecodeMeetings(text string) []Meeting {
	chunks := MeetingKind.Split(text)
	meetings := make([]Meeting, 0, len(chunks))
	for _, chunk := range chunks {
		if m, ok := decodeMeeting(chunk); ok {
			meetings = append(meetings, m)
		}
	}
	return meetings
}

func decodeMeeting(chunk string) (Meeting, bool) {
	m := Meeting{
		BookerID:   fieldValue(chunk, labelBookerID),
		BookerName: fieldValue(chunk, labelBooker),
		TargetID:   fieldValue(chunk, labelTargetID),
		TargetName: fieldValue(chunk, labelTarget),
	}
	if m.BookerID == "" || m.TargetID == "" {
		return Meeting{}, false
	}

	m.When, _ = ParseWhen(fieldValue(chunk, labelDate), fieldValue(chunk, labelTime))
	m.CreatedAt = parseStamp(fieldValue(chunk, labelCreatedAt))
	m.Reason, _ = span(chunk, labelReason, labelPairIndex+":", MeetingKind.End)
	if n, err := strconv.Atoi(fieldValue(chunk, labelPairIndex)); err == nil {
		m.PairIndex = n
	}
	return m, true
}

// ParseWhen combines a day/month/year date and an hour:minute time in local time.
func ParseWhen(date, clock string) (time.Time, error) {
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	if date == "" || clock == "" {
		return time.Time{}, fmt.Errorf("records: missing date or time")
	}
	value := date + " " + clock
	for _, layout := range whenLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("records: cannot parse meeting date %q", value)
}

// FormatWhen renders a meeting date for display, or UnknownWhen for a zero time.
func FormatWhen(t time.Time) string {
	if t.IsZero() {
		return UnknownWhen
	}
	return t.Format(dateLayout + " " + timeLayout)
}

func formatStamp(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseStamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
