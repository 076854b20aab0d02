package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pesapeak/pesapeak/internal/id"
	"github.com/pesapeak/pesapeak/internal/model"
)

// Store persists imported transactions as one CSV file per month under dir.
type Store struct {
	dir      string
	accounts AccountChecker
}

// NewStore creates a ledger Store rooted at dir.
func NewStore(dir string, accounts AccountChecker) *Store {
	return &Store{dir: dir, accounts: accounts}
}

// AppendResult reports what an append did (or would do).
type AppendResult struct {
	Added      []model.Entry // numbered entries, in input order per month
	Duplicates int           // entries already present in the ledger
}

type monthKey struct{ year, month int }

type monthPlan struct {
	key     monthKey
	entries []model.Entry
}

// Plan numbers, de-duplicates and validates batch without writing anything.
func (s *Store) Plan(batch []model.Entry) (AppendResult, error) {
	res, _, err := s.plan(batch)
	return res, err
}

// Append plans batch and appends the new entries to their months' files.
// Nothing is written if any month fails validation.
func (s *Store) Append(batch []model.Entry) (AppendResult, error) {
	res, plans, err := s.plan(batch)
	if err != nil {
		return AppendResult{}, err
	}
	for _, p := range plans {
		if err := s.appendMonth(p); err != nil {
			return AppendResult{}, err
		}
	}
	return res, nil
}

func (s *Store) plan(batch []model.Entry) (AppendResult, []monthPlan, error) {
	groups := make(map[monthKey][]model.Entry)
	for _, e := range batch {
		k := monthKey{e.Date.Year(), int(e.Date.Month())}
		groups[k] = append(groups[k], e)
	}
	keys := make([]monthKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	var res AppendResult
	var plans []monthPlan
	for _, k := range keys {
		existing, err := s.ReadMonth(k.year, k.month)
		if err != nil {
			return AppendResult{}, nil, err
		}

		// Each existing row absorbs at most one batch entry.
		seen := make(map[string]int, len(existing))
		maxSeq := 0
		for _, e := range existing {
			seen[e.DedupKey()]++
			if _, _, seq, err := id.ParseTxnID(e.TxnID); err == nil && seq > maxSeq {
				maxSeq = seq
			}
		}

		var fresh []model.Entry
		for _, e := range groups[k] {
			key := e.DedupKey()
			if seen[key] > 0 {
				seen[key]--
				res.Duplicates++
				continue
			}
			maxSeq++
			e.TxnID = id.FormatTxnID(k.year, k.month, maxSeq)
			fresh = append(fresh, e)
		}
		if len(fresh) == 0 {
			continue
		}

		all := append(append([]model.Entry{}, existing...), fresh...)
		if verrs := ValidateEntries(all, s.accounts, k.year, k.month); len(verrs) > 0 {
			msgs := make([]string, len(verrs))
			for i, ve := range verrs {
				msgs[i] = ve.Error()
			}
			return AppendResult{}, nil, fmt.Errorf("validation failed for %04d-%02d: %s", k.year, k.month, strings.Join(msgs, "; "))
		}

		res.Added = append(res.Added, fresh...)
		plans = append(plans, monthPlan{key: k, entries: fresh})
	}
	return res, plans, nil
}

func (s *Store) appendMonth(p monthPlan) error {
	path := s.monthPath(p.key.year, p.key.month)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	if isNew {
		err = WriteEntries(f, p.entries)
	} else {
		err = AppendEntries(f, p.entries)
	}
	if err != nil {
		return fmt.Errorf("appending to %s: %w", path, err)
	}
	return f.Close()
}

// ReadMonth reads all entries for a given year/month.
func (s *Store) ReadMonth(year, month int) ([]model.Entry, error) {
	path := s.monthPath(year, month)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", path, err)
	}
	defer f.Close()

	entries, err := ReadEntries(f)
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", path, err)
	}
	return entries, nil
}

func (s *Store) monthPath(year, month int) string {
	return filepath.Join(s.dir, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), "transactions.csv")
}
