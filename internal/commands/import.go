package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pesapeak/pesapeak/internal/importer"
	"github.com/pesapeak/pesapeak/internal/model"
	"github.com/pesapeak/pesapeak/internal/notify"
)

func newImportCommand() *cobra.Command {
	var repoDir string
	var opts importer.Options

	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Import bank statements into the ledger",
		Long: "Import the given statement files, or every CSV in the import directory\n" +
			"when no file is given. Imported files in the import directory are moved\n" +
			"to its processed/ subdirectory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(repoDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			out := cmd.OutOrStdout()
			svc, err := importer.Open(absDir, notify.NewConsole(out))
			if err != nil {
				return err
			}
			if err := configureLogger(cmd, svc.Config()); err != nil {
				return err
			}
			ctx := cmd.Context()

			if len(args) == 0 {
				sums, err := svc.ImportAll(ctx, opts)
				for _, sum := range sums {
					printSummary(out, sum, opts.DryRun)
				}
				if len(sums) == 0 && err == nil {
					fmt.Fprintf(out, "No statements found in %s\n", svc.ImportDir())
				}
				return err
			}

			var errs []error
			for _, arg := range args {
				path, err := filepath.Abs(arg)
				if err != nil {
					errs = append(errs, fmt.Errorf("resolving path: %w", err))
					continue
				}
				sum, err := svc.ImportFile(ctx, path, opts)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				printSummary(out, sum, opts.DryRun)
			}
			return errors.Join(errs...)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "data directory")
	cmd.Flags().StringVar(&opts.Account, "account", "", "account ID or name (default: chosen by statement format)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "parse and plan without writing the ledger")

	return cmd
}

func printSummary(w io.Writer, sum importer.Summary, dryRun bool) {
	if !dryRun || sum.Account.ID == 0 {
		return
	}
	fmt.Fprintf(w, "Dry run: %s would add %d transaction(s) to %s (%d duplicates)\n",
		sum.File, len(sum.Added), sum.Account.Name, sum.Duplicates)
	for _, e := range sum.Added {
		fmt.Fprintf(w, "  %s  %s  %s\n", e.TxnID, e.Date.Format(model.DateFormat), e.Description)
	}
}
