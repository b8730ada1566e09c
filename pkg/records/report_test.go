package records

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() Report {
	return Report{
		StudentID:   "0001",
		StudentName: "Sam Student",
		Timestamp:   time.Date(2026, time.January, 10, 14, 3, 7, 500, time.UTC),
		Content:     "Week 3 went well.\n\nStruggled with Student ID: handling\nbut fixed it.",
	}
}

func TestEncodeReport_Layout(t *testing.T) {
	text := EncodeReport(sampleReport())

	want := "----- REPORT START -----\n" +
		"Timestamp: 2026-01-10T14:03:07.0000005Z\n" +
		"Student: Sam Student\n" +
		"Student ID: 0001\n" +
		"Report:\n" +
		"Week 3 went well.\n\nStruggled with Student ID: handling\nbut fixed it.\n" +
		"----- REPORT END -----\n" +
		"\n"
	assert.Equal(t, want, text)
}

func TestReportRoundTrip(t *testing.T) {
	r := sampleReport()

	got := DecodeReports(EncodeReport(r))

	require.Len(t, got, 1)
	assert.Equal(t, r.StudentID, got[0].StudentID)
	assert.Equal(t, r.StudentName, got[0].StudentName)
	assert.True(t, r.Timestamp.Equal(got[0].Timestamp))
	assert.Equal(t, r.Content, got[0].Content)
	assert.Zero(t, got[0].Index, "index is never stored")
}

func TestDecodeReports_SkipsBlockWithoutStudentID(t *testing.T) {
	bad := strings.Replace(EncodeReport(sampleReport()), "Student ID: 0001\n", "", 1)
	good := EncodeReport(sampleReport())

	got := DecodeReports(bad + good)

	require.Len(t, got, 1)
	assert.Equal(t, "0001", got[0].StudentID)
}

func TestDecodeReports_IDInsideContentIsNotIdentity(t *testing.T) {
	text := "----- REPORT START -----\n" +
		"Timestamp: 2026-01-10T14:03:07Z\n" +
		"Student: Nobody\n" +
		"Report:\n" +
		"Student ID: 9999\n" +
		"----- REPORT END -----\n\n"

	assert.Empty(t, DecodeReports(text))
}

func TestDecodeReports_BadTimestampIsUnknown(t *testing.T) {
	text := strings.Replace(EncodeReport(sampleReport()), "2026-01-10T14:03:07.0000005Z", "yesterday", 1)

	got := DecodeReports(text)

	require.Len(t, got, 1)
	assert.True(t, got[0].Timestamp.IsZero())
}

func TestDecodeReports_MissingEndMarker(t *testing.T) {
	text := "----- REPORT START -----\n" +
		"Student ID: 0004\n" +
		"Report:\n" +
		"cut off mid-write"

	got := DecodeReports(text + "\n" + EncodeReport(sampleReport()))

	require.Len(t, got, 2)
	assert.Equal(t, "cut off mid-write", got[0].Content)
	assert.Equal(t, sampleReport().Content, got[1].Content)
}

func TestDecodeReports_PreservesFileOrder(t *testing.T) {
	var sb strings.Builder
	for _, id := range []string{"0003", "0001", "0003"} {
		r := sampleReport()
		r.StudentID = id
		sb.WriteString(EncodeReport(r))
	}

	got := DecodeReports(sb.String())

	require.Len(t, got, 3)
	assert.Equal(t, []string{"0003", "0001", "0003"},
		[]string{got[0].StudentID, got[1].StudentID, got[2].StudentID})
}
