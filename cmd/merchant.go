package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/qris-dynamic/internal/qris"
)

var merchantDetails bool

// merchantCmd prints the merchant a payload pays to.
var merchantCmd = &cobra.Command{
	Use:   "merchant <payload>",
	Short: "Print the merchant name of a payload",
	Long: `Print the merchant name (tag 59) of a static or dynamic payload, or
"Unknown Merchant" when it has none. With --details, also print the city,
postal code, category, currency, amount and national merchant ID.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readPayload(cmd, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !merchantDetails {
			fmt.Fprintln(out, qris.ExtractMerchantName(raw))
			return nil
		}

		info, err := qris.ExtractMerchantInfo(raw)
		if err != nil {
			return err
		}

		mode := "static"
		if info.Dynamic {
			mode = "dynamic"
		}
		for _, line := range [][2]string{
			{"Name", info.Name},
			{"City", info.City},
			{"Postal code", info.PostalCode},
			{"Country", info.CountryCode},
			{"Category", info.CategoryCode},
			{"Currency", info.CurrencyCode},
			{"Amount", info.Amount},
			{"Mode", mode},
			{"Global ID", info.GlobalID},
			{"Merchant ID", info.MerchantID},
		} {
			if line[1] != "" {
				fmt.Fprintf(out, "%-12s %s\n", line[0]+":", line[1])
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(merchantCmd)
	merchantCmd.Flags().BoolVar(&merchantDetails, "details", false, "Print every merchant field")
}
