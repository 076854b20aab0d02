package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pesapeak/pesapeak/internal/accounts"
	"github.com/pesapeak/pesapeak/internal/config"
	"github.com/pesapeak/pesapeak/internal/gitops"
	"github.com/pesapeak/pesapeak/internal/logger"
)

func newInitCommand() *cobra.Command {
	var name string
	var currency string
	var useGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new PesaPeak data directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.Context(), cmd.OutOrStdout(), absDir, name, currency, useGit)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "profile name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&currency, "currency", "KES", "ISO 4217 currency of the default accounts")
	cmd.Flags().BoolVar(&useGit, "git", false, "track the data directory in git and auto-commit imports")

	return cmd
}

func runInit(ctx context.Context, out io.Writer, dir, name, currency string, useGit bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", cfgPath, err)
	}

	cfg := config.Default(name)
	cfg.Profile.Currency = currency
	cfg.Git.AutoCommit = useGit

	// Create directory structure.
	dirs := []string{
		"accounts",
		"logs",
		cfg.LedgerDir(),
		cfg.ImportDir(),
		filepath.Join(cfg.ImportDir(), "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	svc := accounts.NewService(accounts.DefaultAccounts(currency))
	if err := svc.Save(dir); err != nil {
		return fmt.Errorf("writing accounts: %w", err)
	}

	// Write .gitignore.
	gitignore := "import/*.csv\nimport/processed/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, cfg.ImportDir(), ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	log := logger.FromContext(ctx)
	if !useGit {
		log.Debug().Str("dir", dir).Msg("data directory created")
		fmt.Fprintf(out, "Initialized PesaPeak data directory at %s\n", dir)
		return nil
	}

	if err := gitops.Init(ctx, dir); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	who := gitops.Identity{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	hash, err := gitops.CommitAll(ctx, dir, "init: Initialize "+name, who)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}
	log.Debug().Str("dir", dir).Str("commit", hash).Msg("data directory created")

	fmt.Fprintf(out, "Initialized PesaPeak data directory at %s (%s)\n", dir, hash)
	return nil
}
