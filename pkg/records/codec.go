package records

import (
	"strings"
)

// Kind names the START and END marker lines bounding one record block.
type Kind struct {
	Start string
	End   string
}

var (
	MeetingKind = Kind{Start: "----- MEETING START -----", End: "----- MEETING END -----"}
	ReportKind  = Kind{Start: "----- REPORT START -----", End: "----- REPORT END -----"}
)

// Field is one "Label: value" line of a block.
type Field struct {
	Label string
	Value string
}

// Encode renders one block: the START marker, each field on its own line,
// an optional free-text body introduced by "Label:" on its own line, the END
// marker and a blank separator line. Values are written verbatim.
func (k Kind) Encode(fields []Field, body *Field) string {
	var sb strings.Builder
	sb.WriteString(k.Start + "\n")
	for _, f := range fields {
		sb.WriteString(f.Label + ": " + f.Value + "\n")
	}
	if body != nil {
		sb.WriteString(body.Label + ":\n")
		sb.WriteString(body.Value + "\n")
	}
	sb.WriteString(k.End + "\n")
	sb.WriteString("\n")
	return sb.String()
}

// Split cuts raw log text into block chunks on the START marker.
// Whitespace-only chunks are dropped; the rest are returned trimmed and
// normalised to "\n" line endings.
func (k Kind) Split(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, k.Start)
	chunks := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		chunks = append(chunks, p)
	}
	return chunks
}

// fieldValue returns the value of the first line in chunk starting with
// "label: ", compared case-insensitively. Missing labels yield "".
func fieldValue(chunk, label string) string {
	prefix := label + ": "
	for _, line := range strings.Split(chunk, "\n") {
		if hasPrefixFold(line, prefix) {
			return strings.TrimSpace(line[len(prefix):])
		}
	}
	return ""
}

// span returns the free text after the line introducing label, up to the
// first line that starts with any of stops, trimmed. Inner line breaks are kept.
// The label line itself may carry text after the colon.
func span(chunk, label string, stops ...string) (string, bool) {
	lines := strings.Split(chunk, "\n")
	start := -1
	var first string
	for i, line := range lines {
		if hasPrefixFold(line, label+":") {
			start = i
			first = line[len(label)+1:]
			break
		}
	}
	if start < 0 {
		return "", false
	}

	collected := []string{first}
	for _, line := range lines[start+1:] {
		if startsWithAny(line, stops) {
			break
		}
		collected = append(collected, line)
	}
	return strings.TrimSpace(strings.Join(collected, "\n")), true
}

// head returns the part of chunk before the line introducing label, so that
// header lookups cannot be satisfied by text inside a free-text body.
func head(chunk, label string) string {
	lines := strings.Split(chunk, "\n")
	for i, line := range lines {
		if hasPrefixFold(line, label+":") {
			return strings.Join(lines[:i], "\n")
		}
	}
	return chunk
}

func startsWithAny(line string, prefixes []string) bool {
	for _, p := range prefixes {
		if hasPrefixFold(line, p) {
			return true
		}
	}
	return false
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
