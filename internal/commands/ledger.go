package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newLedgerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger <account>",
		Short: "Print an account's ledger with running balances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			acct, err := resolveViewFlags(cmd, e, args[0])
			if err != nil {
				return err
			}

			start, err := timeFlag(cmd, "start")
			if err != nil {
				return err
			}
			end, err := timeFlag(cmd, "end")
			if err != nil {
				return err
			}

			lines, err := e.ledger.Ledger(cmd.Context(), acct, start, end)
			if err != nil {
				return err
			}

			debitCol := color.New(color.FgGreen)
			creditCol := color.New(color.FgRed)

			out := cmd.OutOrStdout()
			for _, line := range lines {
				amount := ""
				switch {
				case line.Debit != nil:
					amount = debitCol.Sprintf("%12s Dr", line.Debit)
				case line.Credit != nil:
					amount = creditCol.Sprintf("%12s Cr", line.Credit)
				}
				fmt.Fprintf(out, "%s  %s  %s %12s  %s\n",
					line.Time.Format("2006-01-02 15:04:05"),
					line.TxRef,
					amount,
					line.Closing,
					line.Description,
				)
			}
			return nil
		},
	}

	cmd.Flags().String("start", "", "include entries at or after this RFC 3339 time")
	cmd.Flags().String("end", "", "include entries before this RFC 3339 time")
	addViewFlags(cmd)
	return cmd
}
