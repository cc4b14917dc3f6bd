package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAccountsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List the book set's accounts with their balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := bookSetID(cmd)
			if err != nil {
				return err
			}

			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			accounts, err := e.books.Accounts(cmd.Context(), id)
			if err != nil {
				return err
			}

			for _, a := range accounts {
				acct, err := e.books.GetAccount(cmd.Context(), id, a.Name)
				if err != nil {
					return err
				}
				balance, err := e.ledger.Balance(cmd.Context(), acct, nil)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %12s  %s\n", a.Name, balance, a.Description)
			}
			return nil
		},
	}
}
