package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/qris-dynamic/internal/qris"
	"github.com/ginjaninja78/qris-dynamic/internal/types"
)

const staticPayload = "00020101021126660017ID.CO.BANKBPD.WWW011893600110000001234502120000000123450303UMI" +
	"51440014ID.CO.QRIS.WWW0215ID10234567890120303UMI" +
	"5204581253033605802ID5909saktiJaya6007JAKARTA6105101106304" + "4E02"

// withCRC terminates body with a valid tag 63.
func withCRC(body string) string {
	unsigned := body + "6304"
	return unsigned + qris.ChecksumHex(unsigned)
}

const merchantTail = "5802ID5907TOKO AB6007JAKARTA"

func tags(issues []*Issue) map[string]Severity {
	out := make(map[string]Severity, len(issues))
	for _, issue := range issues {
		out[issue.Tag] = issue.Severity
	}
	return out
}

func TestInspect_CleanStaticPayload(t *testing.T) {
	report := Inspect(staticPayload)

	assert.True(t, report.IsValid)
	assert.Empty(t, report.Issues)
	assert.Len(t, report.Fields, 11)
}

func TestInspect_DynamicPayload(t *testing.T) {
	dynamic, err := qris.Convert(staticPayload, 25000)
	require.NoError(t, err)

	report := Inspect(dynamic)
	assert.True(t, report.IsValid)
	assert.Zero(t, report.WarningCount)
	assert.Equal(t, map[string]Severity{
		qris.TagInitiationMethod: SeverityInfo,
		qris.TagAmount:           SeverityInfo,
	}, tags(report.Issues))
}

func TestInspect_Unusable(t *testing.T) {
	for name, raw := range map[string]string{
		"empty":     "  ",
		"malformed": "0002",
	} {
		t.Run(name, func(t *testing.T) {
			report := Inspect(raw)
			assert.False(t, report.IsValid)
			assert.Nil(t, report.Fields)
			require.Len(t, report.Issues, 1)
			assert.Equal(t, SeverityError, report.Issues[0].Severity)
		})
	}
}

func TestInspect_Findings(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		tag      string
		severity Severity
		valid    bool
	}{
		{
			name:     "bad checksum",
			raw:      staticPayload[:len(staticPayload)-4] + "0000",
			tag:      qris.TagCRC,
			severity: SeverityError,
		},
		{
			name:     "lowercase checksum",
			raw:      staticPayload[:len(staticPayload)-4] + "4e02",
			tag:      qris.TagCRC,
			severity: SeverityError,
		},
		{
			name:     "checksum not last",
			raw:      "0002010102116304ABCD" + "5303360" + merchantTail,
			tag:      qris.TagCRC,
			severity: SeverityError,
		},
		{
			name:     "missing initiation method",
			raw:      withCRC("000201" + "5303360" + merchantTail),
			tag:      qris.TagInitiationMethod,
			severity: SeverityWarning,
			valid:    true,
		},
		{
			name:     "unknown initiation method",
			raw:      withCRC("000201010213" + "5303360" + merchantTail),
			tag:      qris.TagInitiationMethod,
			severity: SeverityWarning,
			valid:    true,
		},
		{
			name:     "missing currency",
			raw:      withCRC("000201010211" + merchantTail),
			tag:      qris.TagCurrency,
			severity: SeverityWarning,
			valid:    true,
		},
		{
			name:     "foreign currency",
			raw:      withCRC("000201010211" + "5303840" + merchantTail),
			tag:      qris.TagCurrency,
			severity: SeverityWarning,
			valid:    true,
		},
		{
			name:     "broken template",
			raw:      withCRC("000201010211" + "2604ABCD" + "5303360" + merchantTail),
			tag:      "26",
			severity: SeverityWarning,
			valid:    true,
		},
		{
			name:     "duplicate merchant name",
			raw:      withCRC("000201010211" + "5303360" + merchantTail + "5903XYZ"),
			tag:      qris.TagMerchantName,
			severity: SeverityWarning,
			valid:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Inspect(tt.raw)
			assert.Equal(t, tt.valid, report.IsValid)
			found := tags(report.Issues)
			require.Contains(t, found, tt.tag, FormatIssues(report.Issues))
			assert.Equal(t, tt.severity, found[tt.tag])
		})
	}
}

func TestInspectWithOptions(t *testing.T) {
	raw := withCRC("000201" + "5303360" + merchantTail)

	strict := InspectWithOptions(raw, Options{Strict: true})
	assert.False(t, strict.IsValid)
	assert.Equal(t, 1, strict.ErrorCount)

	picky := InspectWithOptions(raw, Options{TreatWarningsAsErrors: true})
	assert.False(t, picky.IsValid)
	assert.Equal(t, 0, picky.ErrorCount)
	assert.Equal(t, 1, picky.WarningCount)
}

func TestValidateRow(t *testing.T) {
	assert.Nil(t, ValidateRow(types.Row{Number: 2, Payload: staticPayload, Amount: "Rp 25.000"}))

	issues := ValidateRow(types.Row{Number: 3, Payload: " ", Amount: "0"})
	require.Len(t, issues, 2)
	assert.True(t, HasErrors(issues))
	for _, issue := range issues {
		assert.Equal(t, 3, issue.RowNumber)
	}
	assert.Equal(t, qris.TagAmount, issues[1].Tag)

	issues = ValidateRow(types.Row{Number: 4, Payload: staticPayload, Amount: "12.50"})
	require.Len(t, issues, 1)
	assert.Equal(t, qris.TagAmount, issues[0].Tag)
	assert.True(t, HasErrors(issues))
}

func TestFormatIssues(t *testing.T) {
	assert.Equal(t, "No issues found.", FormatIssues(nil))

	out := FormatIssues([]*Issue{
		{Severity: SeverityError, Tag: "63", Message: "checksum is missing"},
		{Severity: SeverityWarning, Message: "payload is odd", RowNumber: 4},
	})
	assert.Contains(t, out, "Inspection found 2 issue(s)")
	assert.Contains(t, out, "1. [ERROR] Tag 63: checksum is missing\n")
	assert.Contains(t, out, "2. [WARNING] Row 4: payload is odd\n")
}

func TestWriteIssueLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "issues.log")
	issues := Inspect("0002").Issues

	require.NoError(t, WriteIssueLog(issues, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "QRIS inspection log")
	assert.Contains(t, string(data), "[ERROR]: payload does not decode")

	assert.Error(t, WriteIssueLog(issues, filepath.Join(t.TempDir(), "missing", "x.log")))
}
