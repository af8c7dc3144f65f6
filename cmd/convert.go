// =============================================================================
// QRIS Dynamic Converter - Convert Command
// =============================================================================
//
// COMMAND USAGE:
//   qris convert --payload <static payload> --amount <amount> [flags]
//
// FLAGS:
//   --payload, -p : The static payload, or "-" to read it from stdin
//   --amount, -a  : The amount, e.g. 25000 or "Rp 25.000"
//   --png         : Also write the dynamic QR code to this PNG file
//   --size        : PNG size in pixels (default from config, 240)
//   --no-history  : Do not remember the static payload
//
// The dynamic payload is printed on stdout so it can be piped; everything
// else goes to stderr.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/qris-dynamic/internal/amount"
	"github.com/ginjaninja78/qris-dynamic/internal/history"
	"github.com/ginjaninja78/qris-dynamic/internal/qris"
	"github.com/ginjaninja78/qris-dynamic/internal/render"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	convertPayload   string
	convertAmount    string
	convertPNG       string
	convertSize      int
	convertNoHistory bool
)

// =============================================================================
// CONVERT COMMAND DEFINITION
// =============================================================================

var convertCmd = &cobra.Command{
	Use:   "convert [payload]",
	Short: "Convert a static payload into a dynamic payload with an amount",
	Long: `Convert decodes the static payload, marks it dynamic (tag 01 = 12), inserts
the amount (tag 54) after the currency field and recomputes the checksum.

The payload can be given as an argument, with --payload, or on stdin with "-".
Unless --no-history is set, the static payload is remembered so it can be
converted again later with "qris history convert".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := payloadArg(cmd, args, convertPayload)
		if err != nil {
			return err
		}

		amountValue, err := amount.Parse(convertAmount)
		if err != nil {
			return err
		}

		dynamic, err := convertPayloadFor(raw, amountValue)
		if err != nil {
			return err
		}

		merchant := qris.ExtractMerchantName(raw)
		fmt.Fprintln(cmd.OutOrStdout(), dynamic)

		if verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "Merchant: %s\nAmount:   %s\n", merchant, amount.FormatRupiah(amountValue))
		}

		if convertPNG != "" {
			if err := writePNG(dynamic, convertPNG, convertSize); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "QR image written to %s\n", convertPNG)
		}

		if !convertNoHistory {
			rememberPayload(raw, merchant)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&convertPayload, "payload", "p", "", `Static payload, or "-" to read from stdin`)
	convertCmd.Flags().StringVarP(&convertAmount, "amount", "a", "", `Amount in Rupiah, e.g. 25000 or "Rp 25.000"`)
	convertCmd.Flags().StringVar(&convertPNG, "png", "", "Write the dynamic QR code to this PNG file")
	convertCmd.Flags().IntVar(&convertSize, "size", 0, "PNG size in pixels (default from config)")
	convertCmd.Flags().BoolVar(&convertNoHistory, "no-history", false, "Do not remember the static payload")
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// convertPayloadFor converts raw honouring the strict setting.
func convertPayloadFor(raw string, amountValue int64) (string, error) {
	if appConfig.Strict {
		return qris.ConvertStrict(raw, amountValue)
	}
	return qris.Convert(raw, amountValue)
}

// writePNG renders payload to path. A size of zero uses the configured size.
func writePNG(payload, path string, size int) error {
	if size <= 0 {
		size = appConfig.Render.Size
	}
	return render.WriteFile(payload, path, render.Options{Size: size, Level: appConfig.Render.Level})
}

// openHistory opens the configured history store.
func openHistory() (*history.Store, error) {
	return history.Open(appConfig.History.File, appConfig.History.MaxEntries)
}

// rememberPayload saves a static payload to history. Failures are logged;
// they never fail the conversion that was already printed.
func rememberPayload(raw, merchant string) {
	store, err := openHistory()
	if err != nil {
		logger.Warn("failed to open history", "error", err)
		return
	}
	entry, err := store.Save(raw, merchant)
	if err != nil {
		logger.Warn("failed to save history", "error", err)
		return
	}
	logger.Debug("saved to history", "id", entry.ID, "merchant", merchant)
}
