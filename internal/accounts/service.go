package accounts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pesapeak/pesapeak/internal/model"
)

var (
	// ErrNoAccount means no destination account could be chosen.
	ErrNoAccount = errors.New("no destination account")
	// ErrAmbiguousAccount means several accounts match and none was chosen explicitly.
	ErrAmbiguousAccount = errors.New("ambiguous destination account")
)

const (
	accountsDir  = "accounts"
	accountsFile = "accounts.csv"
)

// Service provides in-memory lookup over the user's accounts.
type Service struct {
	accounts []model.Account
	byID     map[int]model.Account
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []model.Account) *Service {
	byID := make(map[int]model.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}
	return &Service{accounts: accounts, byID: byID}
}

// Load reads accounts/accounts.csv from a data directory and returns a Service.
func Load(root string) (*Service, error) {
	path := filepath.Join(root, accountsDir, accountsFile)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading accounts: %w", err)
	}
	return NewService(accts), nil
}

// All returns all accounts.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Get returns an account by ID.
func (s *Service) Get(id int) (model.Account, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// Exists reports whether an account ID exists.
func (s *Service) Exists(id int) bool {
	_, ok := s.byID[id]
	return ok
}

// ByInstitution returns all accounts fed by the given statement format.
func (s *Service) ByInstitution(institution string) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if strings.EqualFold(a.Institution, institution) {
			result = append(result, a)
		}
	}
	return result
}

// Find resolves ref as an account ID or a case-insensitive name.
func (s *Service) Find(ref string) (model.Account, bool) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		return s.Get(n)
	}
	for _, a := range s.accounts {
		if strings.EqualFold(a.Name, ref) {
			return a, true
		}
	}
	return model.Account{}, false
}

// Select picks the destination account for a parsed statement.
// An explicit ref wins, then the single account fed by institution,
// then defaultID (0 = none).
func (s *Service) Select(ref, institution string, defaultID int) (model.Account, error) {
	if ref != "" {
		a, ok := s.Find(ref)
		if !ok {
			return model.Account{}, fmt.Errorf("%w: unknown account %q", ErrNoAccount, ref)
		}
		return a, nil
	}

	matches := s.ByInstitution(institution)
	if len(matches) == 1 {
		return matches[0], nil
	}

	if defaultID != 0 {
		if a, ok := s.Get(defaultID); ok {
			return a, nil
		}
		return model.Account{}, fmt.Errorf("%w: default account %d does not exist", ErrNoAccount, defaultID)
	}

	if len(matches) > 1 {
		return model.Account{}, fmt.Errorf("%w: %d accounts import %s statements, pass --account", ErrAmbiguousAccount, len(matches), institution)
	}
	return model.Account{}, fmt.Errorf("%w: no account imports %s statements, pass --account", ErrNoAccount, institution)
}

// Save writes the accounts to accounts/accounts.csv.
func (s *Service) Save(root string) error {
	dir := filepath.Join(root, accountsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	path := filepath.Join(dir, accountsFile)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.accounts); err != nil {
		return fmt.Errorf("writing accounts: %w", err)
	}
	return nil
}
