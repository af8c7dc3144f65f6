// =============================================================================
// QRIS Dynamic Converter - Payload Inspection
// =============================================================================
//
// This module checks static payloads before they are converted and batch rows
// before they are handed to the converter. Conversion itself only needs a
// well-formed TLV string; the checks here catch payloads that would convert
// but produce a QR code a wallet is likely to reject.
//
// ISSUE SEVERITIES:
//   - error   : the payload cannot be converted, or its own checksum is wrong
//   - warning : the payload converts, but the result may be rejected
//   - info    : worth knowing, no action needed
//
// PAYLOAD CHECKS:
//   1. The payload decodes as TLV
//   2. The mandatory root tags are present (00, 01, 53, 58, 59, 60)
//   3. Tag 01 holds 11 (static) or 12 (dynamic)
//   4. The currency is IDR (360)
//   5. Tag 63 is last and matches the CRC of the payload
//   6. Nested templates (26-51, 62, 64) decode
//   7. Root tags are not repeated
//
// Issues are collected, not returned one by one, so a single run shows
// everything that is wrong with a payload.
//
// =============================================================================

package validation

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ginjaninja78/qris-dynamic/internal/amount"
	"github.com/ginjaninja78/qris-dynamic/internal/qris"
	"github.com/ginjaninja78/qris-dynamic/internal/types"
)

// =============================================================================
// ISSUE TYPES
// =============================================================================

// Severity ranks an issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// CurrencyIDR is the ISO 4217 numeric code carried by Indonesian payloads.
const CurrencyIDR = "360"

// Issue is a single finding about a payload or batch row.
type Issue struct {
	Severity Severity

	// Tag is the payload tag the issue refers to; empty when it concerns the
	// payload as a whole.
	Tag string

	// Message is a human-readable description.
	Message string

	// RowNumber is the batch row number, zero outside batch runs.
	RowNumber int
}

// Error implements the error interface.
func (i *Issue) Error() string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(strings.ToUpper(string(i.Severity)))
	b.WriteString("]")
	if i.RowNumber > 0 {
		fmt.Fprintf(&b, " Row %d", i.RowNumber)
	}
	if i.Tag != "" {
		fmt.Fprintf(&b, " Tag %s", i.Tag)
	}
	b.WriteString(": ")
	b.WriteString(i.Message)
	return b.String()
}

// =============================================================================
// INSPECTION REPORT
// =============================================================================

// Report is the outcome of inspecting one payload.
type Report struct {
	// Fields are the decoded root fields; nil when decoding failed.
	Fields []qris.Field

	// Issues holds every finding, in check order.
	Issues []*Issue

	ErrorCount   int
	WarningCount int

	// IsValid is true when there are no error-level issues (and, with
	// TreatWarningsAsErrors, no warnings).
	IsValid bool
}

// Options tunes Inspect.
type Options struct {
	// Strict reports a missing tag 01 as an error, matching
	// qris.ConvertStrict, instead of a warning.
	Strict bool

	// TreatWarningsAsErrors makes any warning invalidate the report.
	TreatWarningsAsErrors bool
}

func (r *Report) add(severity Severity, tag, format string, args ...interface{}) {
	r.Issues = append(r.Issues, &Issue{
		Severity: severity,
		Tag:      tag,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (r *Report) finish(options Options) *Report {
	for _, issue := range r.Issues {
		switch issue.Severity {
		case SeverityError:
			r.ErrorCount++
		case SeverityWarning:
			r.WarningCount++
		}
	}
	r.IsValid = r.ErrorCount == 0 && !(options.TreatWarningsAsErrors && r.WarningCount > 0)
	return r
}

// =============================================================================
// PAYLOAD INSPECTION
// =============================================================================

// Inspect checks a static payload with the default options.
func Inspect(raw string) *Report {
	return InspectWithOptions(raw, Options{})
}

// InspectWithOptions checks a static payload.
//
// PARAMETERS:
//   - raw: The payload text.
//   - options: Strictness settings.
//
// RETURNS:
//   - The report. It is never nil; a payload that does not decode yields a
//     single error-level issue.
func InspectWithOptions(raw string, options Options) *Report {
	report := &Report{}

	if strings.TrimSpace(raw) == "" {
		report.add(SeverityError, "", "payload is empty")
		return report.finish(options)
	}

	fields, err := qris.Decode(raw)
	if err != nil {
		report.add(SeverityError, "", "payload does not decode: %v", err)
		return report.finish(options)
	}
	report.Fields = fields

	checkRequiredTags(report, fields, options)
	checkValues(report, fields)
	checkChecksum(report, raw, fields)
	checkTemplates(report, fields)
	checkDuplicates(report, fields)

	return report.finish(options)
}

// requiredTags are the root tags every merchant-presented payload carries.
var requiredTags = []struct {
	tag  string
	name string
}{
	{qris.TagPayloadFormat, "payload format indicator"},
	{qris.TagInitiationMethod, "point of initiation method"},
	{qris.TagCurrency, "transaction currency"},
	{qris.TagCountry, "country code"},
	{qris.TagMerchantName, "merchant name"},
	{qris.TagMerchantCity, "merchant city"},
}

func checkRequiredTags(report *Report, fields []qris.Field, options Options) {
	for _, required := range requiredTags {
		if _, ok := qris.Find(fields, required.tag); ok {
			continue
		}

		if required.tag == qris.TagInitiationMethod {
			severity := SeverityWarning
			if options.Strict {
				severity = SeverityError
			}
			report.add(severity, required.tag,
				"%s is missing; the converted payload will not be marked dynamic", required.name)
			continue
		}

		report.add(SeverityWarning, required.tag, "%s is missing", required.name)
	}
}

func checkValues(report *Report, fields []qris.Field) {
	if f, ok := qris.Find(fields, qris.TagPayloadFormat); ok && f.Value != "01" {
		report.add(SeverityWarning, f.Tag, "payload format indicator is %q, expected \"01\"", f.Value)
	}

	if f, ok := qris.Find(fields, qris.TagInitiationMethod); ok {
		switch f.Value {
		case qris.InitiationStatic:
		case qris.InitiationDynamic:
			report.add(SeverityInfo, f.Tag, "payload is already dynamic; converting replaces its amount")
		default:
			report.add(SeverityWarning, f.Tag, "point of initiation method is %q, expected %q or %q",
				f.Value, qris.InitiationStatic, qris.InitiationDynamic)
		}
	}

	if f, ok := qris.Find(fields, qris.TagCurrency); ok && f.Value != CurrencyIDR {
		report.add(SeverityWarning, f.Tag,
			"currency is %q; the amount is written in that currency without conversion", f.Value)
	}

	if f, ok := qris.Find(fields, qris.TagAmount); ok {
		report.add(SeverityInfo, f.Tag, "payload already carries amount %q; it will be replaced", f.Value)
	}
}

func checkChecksum(report *Report, raw string, fields []qris.Field) {
	if _, ok := qris.Find(fields, qris.TagCRC); !ok {
		report.add(SeverityError, qris.TagCRC, "checksum is missing")
		return
	}

	err := qris.VerifyChecksum(raw)
	switch {
	case err == nil:
	case errors.Is(err, qris.ErrChecksumMismatch):
		report.add(SeverityError, qris.TagCRC, "%v", err)
	default:
		report.add(SeverityError, qris.TagCRC, "checksum is not the last 4-character field")
	}
}

func checkTemplates(report *Report, fields []qris.Field) {
	for _, f := range fields {
		if !qris.IsTemplate(f.Tag) {
			continue
		}
		if _, err := f.Template(); err != nil {
			report.add(SeverityWarning, f.Tag, "nested template does not decode: %v", err)
		}
	}
}

func checkDuplicates(report *Report, fields []qris.Field) {
	counts := make(map[string]int, len(fields))
	var order []string
	for _, f := range fields {
		if counts[f.Tag] == 0 {
			order = append(order, f.Tag)
		}
		counts[f.Tag]++
	}
	for _, tag := range order {
		if counts[tag] > 1 {
			report.add(SeverityWarning, tag, "tag appears %d times; only the first is used", counts[tag])
		}
	}
}

// =============================================================================
// BATCH ROW VALIDATION
// =============================================================================

// ValidateRow checks that a batch row can be handed to the converter.
//
// RETURNS:
//   - Error-level issues for an empty payload or an unusable amount; nil
//     when the row is fine.
func ValidateRow(row types.Row) []*Issue {
	var issues []*Issue

	if strings.TrimSpace(row.Payload) == "" {
		issues = append(issues, &Issue{
			Severity:  SeverityError,
			Message:   "payload is empty",
			RowNumber: row.Number,
		})
	}

	if _, err := amount.Parse(row.Amount); err != nil {
		issues = append(issues, &Issue{
			Severity:  SeverityError,
			Tag:       qris.TagAmount,
			Message:   err.Error(),
			RowNumber: row.Number,
		})
	}

	return issues
}

// HasErrors reports whether any issue is error-level.
func HasErrors(issues []*Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// =============================================================================
// ISSUE FORMATTING
// =============================================================================

// FormatIssues formats issues for display or logging.
func FormatIssues(issues []*Issue) string {
	if len(issues) == 0 {
		return "No issues found."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Inspection found %d issue(s):\n\n", len(issues)))

	for i, issue := range issues {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, issue.Error()))
	}

	return builder.String()
}

// WriteIssueLog writes issues to a log file.
//
// PARAMETERS:
//   - issues: The issues to write.
//   - filePath: The path to the output file. An existing file is replaced.
//
// RETURNS:
//   - An error if writing fails.
func WriteIssueLog(issues []*Issue, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create issue log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	fmt.Fprintf(writer, "QRIS inspection log - %s\n", time.Now().Format(time.RFC3339))
	writer.WriteString(strings.Repeat("=", 60) + "\n\n")
	writer.WriteString(FormatIssues(issues))

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to write issue log: %w", err)
	}
	return file.Close()
}
