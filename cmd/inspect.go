// =============================================================================
// QRIS Dynamic Converter - Inspect Command
// =============================================================================
//
// COMMAND USAGE:
//   qris inspect <payload> [--log issues.txt]
//
// OUTPUT:
//   The decoded fields (nested templates indented under their parent),
//   followed by every issue found. The command exits non-zero when an
//   error-level issue is found, so it can gate scripts.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/qris-dynamic/internal/qris"
	"github.com/ginjaninja78/qris-dynamic/internal/validation"
)

var inspectLog string

var inspectCmd = &cobra.Command{
	Use:   "inspect <payload>",
	Short: "Decode a payload and report problems",
	Long: `Inspect decodes a payload, prints its fields and checks it for problems a
wallet may reject: missing mandatory tags, a wrong checksum, a currency other
than IDR, or nested templates that do not decode.

With the strict setting, a payload without a point-of-initiation field (tag 01)
is reported as an error instead of a warning.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readPayload(cmd, args[0])
		if err != nil {
			return err
		}

		report := validation.InspectWithOptions(raw, validation.Options{Strict: appConfig.Strict})
		out := cmd.OutOrStdout()

		if len(report.Fields) > 0 {
			fmt.Fprintln(out, "Fields:")
			printFields(out, report.Fields, 1)
			fmt.Fprintln(out)
		}

		fmt.Fprint(out, validation.FormatIssues(report.Issues))

		if inspectLog != "" {
			if err := validation.WriteIssueLog(report.Issues, inspectLog); err != nil {
				return err
			}
			logger.Info("issue log written", "path", inspectLog)
		}

		if !report.IsValid {
			return fmt.Errorf("payload has %d error(s)", report.ErrorCount)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectLog, "log", "", "Also write the issues to this file")
}

// printFields writes one line per field, descending into templates that
// decode.
func printFields(out io.Writer, fields []qris.Field, depth int) {
	for _, f := range fields {
		fmt.Fprintf(out, "%*s%s %02d %s\n", depth*2, "", f.Tag, f.Length(), f.Value)

		if !qris.IsTemplate(f.Tag) {
			continue
		}
		if sub, err := f.Template(); err == nil {
			printFields(out, sub, depth+1)
		}
	}
}
