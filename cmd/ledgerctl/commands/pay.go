package commands

import (
	"encoding/json"
	"os"

	"marketplace-ledger/internal/ledger"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// pay <job_id> --as <client_id>: pay a job from the client's balance.
func payCmd() *cobra.Command {
	var payer string
	cmd := &cobra.Command{
		Use:   "pay <job_id>",
		Short: "Pay for a job, retrying while the ledger is busy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			l := ledger.New(st, nil)

			var receipt *ledger.PaymentReceipt
			err = withRetry(cmd.Context(), cliCfg.RetryMaxElapsed, func() error {
				var err error
				receipt, err = l.PayForJob(cmd.Context(), args[0], payer)
				return err
			})
			if err != nil {
				return err
			}
			return printJSON(receipt)
		},
	}
	cmd.Flags().StringVar(&payer, "as", "", "paying client profile id")
	_ = cmd.MarkFlagRequired("as")
	return cmd
}

// deposit <client_id> <amount>: credit a client's balance.
func depositCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deposit <client_id> <amount>",
		Short: "Deposit into a client balance, capped at 25% of unpaid dues",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return err
			}
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			l := ledger.New(st, nil)

			var receipt *ledger.DepositReceipt
			err = withRetry(cmd.Context(), cliCfg.RetryMaxElapsed, func() error {
				var err error
				receipt, err = l.Deposit(cmd.Context(), args[0], amount)
				return err
			})
			if err != nil {
				return err
			}
			return printJSON(receipt)
		},
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
