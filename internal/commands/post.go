package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finbook/bookset/internal/ledger"
	"github.com/finbook/bookset/internal/money"
)

func newPostCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post <account> <amount> <other-account> <description>",
		Short: "Post a debit (or credit with --credit) against an account",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := money.Parse(args[1])
			if err != nil {
				return err
			}

			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			acct, err := resolveViewFlags(cmd, e, args[0])
			if err != nil {
				return err
			}

			bsID, err := bookSetID(cmd)
			if err != nil {
				return err
			}
			other, err := e.books.GetAccount(cmd.Context(), bsID, args[2])
			if err != nil {
				return err
			}

			at, err := timeFlag(cmd, "at")
			if err != nil {
				return err
			}
			selfMemo, _ := cmd.Flags().GetString("memo")
			otherMemo, _ := cmd.Flags().GetString("other-memo")

			p := ledger.Posting{
				Amount:      amount,
				Description: args[3],
				SelfMemo:    selfMemo,
				OtherMemo:   otherMemo,
				At:          at,
			}

			post := e.ledger.Debit
			if asCredit, _ := cmd.Flags().GetBool("credit"); asCredit {
				post = e.ledger.Credit
			}
			own, _, err := post(cmd.Context(), acct, other, p)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "posted transaction %d (%s)\n", own.TransactionID, own.Amount)
			return nil
		},
	}

	cmd.Flags().Bool("credit", false, "post as a credit instead of a debit")
	cmd.Flags().String("memo", "", "memo for this account's leg")
	cmd.Flags().String("other-memo", "", "memo for the counterparty leg")
	cmd.Flags().String("at", "", "backdate the transaction (RFC 3339)")
	addViewFlags(cmd)
	return cmd
}
