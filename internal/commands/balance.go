package commands

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/finbook/bookset/internal/ledger"
)

func newBalanceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance <account>",
		Short: "Print an account's balance",
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

			asOf, err := timeFlag(cmd, "as-of")
			if err != nil {
				return err
			}

			balance, err := e.ledger.Balance(cmd.Context(), acct, asOf)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), balance)
			return nil
		},
	}

	cmd.Flags().String("as-of", "", "balance as of this RFC 3339 time (exclusive)")
	addViewFlags(cmd)
	return cmd
}

func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().String("third-party", "", "narrow to a third party's sub-account")
	cmd.Flags().String("project", "", "narrow to a project's view")
}

// resolveViewFlags composes the account view selected by --third-party and
// --project, mirroring how the API resolves its query parameters.
func resolveViewFlags(cmd *cobra.Command, e *env, name string) (ledger.Account, error) {
	ctx := cmd.Context()

	bsID, err := bookSetID(cmd)
	if err != nil {
		return nil, err
	}

	partyID, err := uuidFlag(cmd, "third-party")
	if err != nil {
		return nil, err
	}
	projectID, err := uuidFlag(cmd, "project")
	if err != nil {
		return nil, err
	}

	switch {
	case partyID != nil && projectID != nil:
		return e.books.ProjectThirdParty(ctx, *projectID, *partyID)
	case partyID != nil:
		return e.books.GetThirdParty(ctx, bsID, *partyID)
	case projectID != nil:
		return e.books.ProjectAccount(ctx, *projectID, name)
	default:
		return e.books.GetAccount(ctx, bsID, name)
	}
}

func uuidFlag(cmd *cobra.Command, name string) (*uuid.UUID, error) {
	raw, err := cmd.Flags().GetString(name)
	if err != nil || raw == "" {
		return nil, err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return &id, nil
}

func timeFlag(cmd *cobra.Command, name string) (*time.Time, error) {
	raw, err := cmd.Flags().GetString(name)
	if err != nil || raw == "" {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return &t, nil
}
