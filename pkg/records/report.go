package records

import (
	"time"
)

// Report is one free-text report filed by a student.
// Index is the report's position among the student's reports in file order;
// it is not stored and is zero until assigned by the query package.
type Report struct {
	StudentID   string
	StudentName string
	Timestamp   time.Time
	Content     string
	Index       int
}

const (
	labelTimestamp = "Timestamp"
	labelStudent   = "Student"
	labelStudentID = "Student ID"
	labelReport    = "Report"
)

// EncodeReport renders r as a report block. Index is not written.
func EncodeReport(r Report) string {
	return ReportKind.Encode([]Field{
		{labelTimestamp, formatStamp(r.Timestamp)},
		{labelStudent, r.StudentName},
		{labelStudentID, r.StudentID},
	}, &Field{Label: labelReport, Value: r.Content})
}

// DecodeReports parses every well-formed report block in text, in file order.
// Blocks without a student id are skipped.
func DecodeReports(text string) []Report {
	chunks := ReportKind.Split(text)
	reports := make([]Report, 0, len(chunks))
	for _, chunk := range chunks {
		if r, ok := decodeReport(chunk); ok {
			reports = append(reports, r)
		}
	}
	return reports
}

func decodeReport(chunk string) (Report, bool) {
	header := head(chunk, labelReport)
	r := Report{
		StudentID:   fieldValue(header, labelStudentID),
		StudentName: fieldValue(header, labelStudent),
		Timestamp:   parseStamp(fieldValue(header, labelTimestamp)),
	}
	if r.StudentID == "" {
		return Report{}, false
	}
	r.Content, _ = span(chunk, labelReport, ReportKind.End)
	return r, true
}
