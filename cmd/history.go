// =============================================================================
// QRIS Dynamic Converter - History Commands
// =============================================================================
//
// COMMAND USAGE:
//   qris history list
//   qris history show <ref>
//   qris history remove <ref>
//   qris history clear
//   qris history convert <ref> --amount <amount> [--png out.png]
//
// A <ref> is either the position shown by "list" (1 is the newest) or a
// unique prefix of the entry ID.
//
// =============================================================================

package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/qris-dynamic/internal/amount"
	"github.com/ginjaninja78/qris-dynamic/internal/history"
)

var (
	historyAmount string
	historyPNG    string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage recently converted static payloads",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List remembered payloads, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}

		entries := store.List()
		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "History is empty.")
			return nil
		}

		for i, e := range entries {
			fmt.Fprintf(out, "%2d  %s  %s  %s\n", i+1, e.ID[:8], e.CreatedAt.Local().Format("2006-01-02 15:04"), e.MerchantName)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <ref>",
	Short: "Print a remembered static payload",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		entry, err := resolveEntry(store, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), entry.Payload)
		return nil
	},
}

var historyRemoveCmd = &cobra.Command{
	Use:   "remove <ref>",
	Short: "Forget a remembered payload",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		entry, err := resolveEntry(store, args[0])
		if err != nil {
			return err
		}
		if err := store.Remove(entry.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s (%s)\n", entry.ID[:8], entry.MerchantName)
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every remembered payload",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil
	},
}

var historyConvertCmd = &cobra.Command{
	Use:   "convert <ref>",
	Short: "Convert a remembered payload with a new amount",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		entry, err := resolveEntry(store, args[0])
		if err != nil {
			return err
		}

		amountValue, err := amount.Parse(historyAmount)
		if err != nil {
			return err
		}

		dynamic, err := convertPayloadFor(entry.Payload, amountValue)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), dynamic)

		if verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "Merchant: %s\nAmount:   %s\n", entry.MerchantName, amount.FormatRupiah(amountValue))
		}

		if historyPNG != "" {
			if err := writePNG(dynamic, historyPNG, 0); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "QR image written to %s\n", historyPNG)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyRemoveCmd, historyClearCmd, historyConvertCmd)

	historyConvertCmd.Flags().StringVarP(&historyAmount, "amount", "a", "", `Amount in Rupiah, e.g. 25000 or "Rp 25.000"`)
	historyConvertCmd.Flags().StringVar(&historyPNG, "png", "", "Write the dynamic QR code to this PNG file")
}

// resolveEntry finds an entry by list position or ID prefix.
func resolveEntry(store *history.Store, ref string) (history.Entry, error) {
	entries := store.List()

	if n, err := strconv.Atoi(ref); err == nil && len(ref) < 8 {
		if n < 1 || n > len(entries) {
			return history.Entry{}, fmt.Errorf("%w: position %d (history has %d entries)", history.ErrNotFound, n, len(entries))
		}
		return entries[n-1], nil
	}

	var match *history.Entry
	for i := range entries {
		if !strings.HasPrefix(entries[i].ID, ref) {
			continue
		}
		if match != nil {
			return history.Entry{}, fmt.Errorf("%q matches more than one entry", ref)
		}
		match = &entries[i]
	}
	if match == nil {
		return history.Entry{}, fmt.Errorf("%w: %s", history.ErrNotFound, ref)
	}
	return *match, nil
}
