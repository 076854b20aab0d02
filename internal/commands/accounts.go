package commands

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pesapeak/pesapeak/internal/accounts"
)

func newAccountsCommand() *cobra.Command {
	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account operations",
	}
	accountsCmd.AddCommand(newAccountsListCommand())
	return accountsCmd
}

func newAccountsListCommand() *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the accounts statements can be imported into",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			absDir, err := filepath.Abs(repoDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			svc, err := accounts.Load(absDir)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tTYPE\tINSTITUTION\tCURRENCY")
			for _, a := range svc.All() {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", a.ID, a.Name, a.Type, a.Institution, a.Currency)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "data directory")

	return cmd
}
