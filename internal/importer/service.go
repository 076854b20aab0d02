package importer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/pesapeak/pesapeak/internal/accounts"
	"github.com/pesapeak/pesapeak/internal/config"
	"github.com/pesapeak/pesapeak/internal/gitops"
	"github.com/pesapeak/pesapeak/internal/id"
	"github.com/pesapeak/pesapeak/internal/importlog"
	"github.com/pesapeak/pesapeak/internal/ledger"
	"github.com/pesapeak/pesapeak/internal/logger"
	"github.com/pesapeak/pesapeak/internal/model"
	"github.com/pesapeak/pesapeak/internal/notify"
	"github.com/pesapeak/pesapeak/internal/statement"
)

// Options controls a single import run.
type Options struct {
	Account string // account ID or name; empty = choose automatically
	DryRun  bool
}

// Summary is the outcome of importing one file.
type Summary struct {
	File       string
	BatchID    string
	Result     statement.Result
	Account    model.Account // zero when no account was selected
	Added      []model.Entry
	Duplicates int
	CommitHash string
}

// Service imports bank statements into the ledger of one data directory.
type Service struct {
	root     string
	cfg      *config.Config
	accounts *accounts.Service
	ledger   *ledger.Store
	parser   *statement.Parser
	notifier notify.Notifier
	now      func() time.Time
}

// NewService wires an import Service for the data directory root.
func NewService(root string, cfg *config.Config, accts *accounts.Service, n notify.Notifier) *Service {
	return &Service{
		root:     root,
		cfg:      cfg,
		accounts: accts,
		ledger:   ledger.NewStore(filepath.Join(root, cfg.LedgerDir()), accts),
		parser:   statement.NewParser(statement.DefaultRegistry()),
		notifier: n,
		now:      time.Now,
	}
}

// Open loads config and accounts from root and returns a Service.
func Open(root string, n notify.Notifier) (*Service, error) {
	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	accts, err := accounts.Load(root)
	if err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}
	return NewService(root, cfg, accts, n), nil
}

// Config returns the loaded configuration.
func (s *Service) Config() *config.Config {
	return s.cfg
}

// ImportDir returns the absolute import directory.
func (s *Service) ImportDir() string {
	return filepath.Join(s.root, s.cfg.ImportDir())
}

// ImportFile parses one statement and appends its transactions to the
// ledger under the selected account. A statement that yields no
// transactions is not an error; the toasts already explain why.
func (s *Service) ImportFile(ctx context.Context, path string, opts Options) (Summary, error) {
	name := filepath.Base(path)
	log := logger.FromContext(ctx).With().Str("file", name).Logger()

	text, err := ReadStatement(path, s.cfg.MaxFileSize())
	if err != nil {
		s.notifier.Notify(notify.Toast{Level: notify.LevelError, Message: err.Error()})
		return Summary{}, err
	}

	res := s.parser.Parse(text)
	notify.NotifyAll(s.notifier, notify.Summarize(res))

	sum := Summary{File: name, BatchID: id.NewBatchID(), Result: res}
	log = log.With().Str("batch_id", sum.BatchID).Logger()
	log.Info().
		Str("format", string(res.Format)).
		Int("parsed", len(res.Transactions)).
		Int("errors", len(res.Errors)).
		Msg("statement parsed")

	if len(res.Transactions) == 0 {
		if !opts.DryRun {
			s.writeLog(log, sum)
		}
		return sum, nil
	}

	acct, err := s.accounts.Select(opts.Account, string(res.Format), s.cfg.Import.DefaultAccount)
	if err != nil {
		s.notifier.Notify(notify.Toast{Level: notify.LevelError, Message: err.Error()})
		return sum, fmt.Errorf("selecting account for %s: %w", name, err)
	}
	sum.Account = acct

	entries := make([]model.Entry, 0, len(res.Transactions))
	for _, txn := range res.Transactions {
		e, err := model.NewEntry(txn, acct.ID, sum.BatchID)
		if err != nil {
			return sum, fmt.Errorf("converting %s transaction dated %q: %w", name, txn.Date, err)
		}
		entries = append(entries, e)
	}

	var ar ledger.AppendResult
	if opts.DryRun {
		ar, err = s.ledger.Plan(entries)
	} else {
		ar, err = s.ledger.Append(entries)
	}
	if err != nil {
		return sum, fmt.Errorf("writing %s to ledger: %w", name, err)
	}
	sum.Added = ar.Added
	sum.Duplicates = ar.Duplicates

	log.Info().
		Int("account_id", acct.ID).
		Int("added", len(sum.Added)).
		Int("duplicates", sum.Duplicates).
		Bool("dry_run", opts.DryRun).
		Msg("ledger updated")

	if opts.DryRun {
		return sum, nil
	}

	s.writeLog(log, sum)
	if s.cfg.Git.AutoCommit && len(sum.Added) > 0 {
		sum.CommitHash = s.commit(ctx, log, sum)
	}

	if s.inImportDir(path) {
		if err := MarkProcessed(s.ImportDir(), name); err != nil {
			log.Warn().Err(err).Msg("could not move statement to processed")
		}
	}

	s.notifier.Notify(notify.Toast{
		Level:   notify.LevelSuccess,
		Message: fmt.Sprintf("Imported %d %s into %s (%d duplicates skipped)", len(sum.Added), plural(len(sum.Added), "transaction"), acct.Name, sum.Duplicates),
	})
	return sum, nil
}

// ImportAll imports every CSV in the import directory. Each file is
// independent: a failure is logged and the remaining files still run.
func (s *Service) ImportAll(ctx context.Context, opts Options) ([]Summary, error) {
	files, err := Scan(s.ImportDir())
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	var sums []Summary
	var errs []error
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		sum, err := s.ImportFile(ctx, f.Path, opts)
		if err != nil {
			log.Error().Err(err).Str("file", f.Name).Msg("import failed")
			errs = append(errs, err)
			continue
		}
		sums = append(sums, sum)
	}
	return sums, errors.Join(errs...)
}

func (s *Service) commit(ctx context.Context, log zerolog.Logger, sum Summary) string {
	if !gitops.IsRepo(s.root) {
		log.Warn().Msg("git.auto_commit is set but the data directory is not a git repository")
		return ""
	}
	msg := fmt.Sprintf("import: %s (%d transactions into %s)\n\nBatch: %s", sum.File, len(sum.Added), sum.Account.Name, sum.BatchID)
	hash, err := gitops.CommitAll(ctx, s.root, msg, gitops.Identity{Name: s.cfg.Git.AuthorName, Email: s.cfg.Git.AuthorEmail})
	if err != nil {
		log.Warn().Err(err).Msg("git commit failed")
		return ""
	}
	return hash
}

func (s *Service) writeLog(log zerolog.Logger, sum Summary) {
	entry := importlog.Entry{
		Timestamp:  s.now(),
		BatchID:    sum.BatchID,
		File:       sum.File,
		Format:     string(sum.Result.Format),
		AccountID:  sum.Account.ID,
		Parsed:     len(sum.Result.Transactions),
		Imported:   len(sum.Added),
		Duplicates: sum.Duplicates,
		Errors:     len(sum.Result.Errors),
	}
	if err := importlog.Append(s.root, []importlog.Entry{entry}); err != nil {
		log.Warn().Err(err).Msg("could not write import log")
	}
}

func (s *Service) inImportDir(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	dir, err := filepath.Abs(s.ImportDir())
	if err != nil {
		return false
	}
	return filepath.Dir(abs) == dir
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
