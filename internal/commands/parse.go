package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pesapeak/pesapeak/internal/config"
	"github.com/pesapeak/pesapeak/internal/importer"
	"github.com/pesapeak/pesapeak/internal/ledger"
	"github.com/pesapeak/pesapeak/internal/logger"
	"github.com/pesapeak/pesapeak/internal/notify"
	"github.com/pesapeak/pesapeak/internal/statement"
)

func newParseCommand() *cobra.Command {
	var asJSON bool
	var maxSize int64

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a bank statement and print the normalized transactions",
		Long: "Parse a bank statement CSV without touching any data directory.\n" +
			"Parse problems are reported in the output, not as a failing exit status.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := importer.ReadStatement(args[0], maxSize)
			if err != nil {
				return err
			}

			res := statement.Parse(text)
			log := logger.FromContext(cmd.Context())
			log.Debug().
				Str("file", filepath.Base(args[0])).
				Str("format", string(res.Format)).
				Int("transactions", len(res.Transactions)).
				Int("errors", len(res.Errors)).
				Msg("statement parsed")

			if asJSON {
				// Toasts go to stderr so stdout stays a single JSON document.
				notify.NotifyAll(notify.NewConsole(cmd.ErrOrStderr()), notify.Summarize(res))
				return writeResultJSON(cmd.OutOrStdout(), res)
			}
			if err := writeResultTable(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			notify.NotifyAll(notify.NewConsole(cmd.OutOrStdout()), notify.Summarize(res))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().Int64Var(&maxSize, "max-size", config.DefaultMaxFileSize, "reject files larger than this many bytes (0 = no limit)")

	return cmd
}

func writeResultJSON(w io.Writer, res statement.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	return nil
}

func writeResultTable(w io.Writer, res statement.Result) error {
	fmt.Fprintf(w, "Format: %s\n", res.Format)
	if len(res.Transactions) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTYPE\tAMOUNT\tBALANCE\tREFERENCE\tDESCRIPTION")
	for _, txn := range res.Transactions {
		balance := ""
		if txn.Balance != nil {
			balance = ledger.FormatMinor(*txn.Balance)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			txn.Date, txn.Type, ledger.FormatMinor(txn.Amount), balance, txn.Reference, txn.Description)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}
	return nil
}
