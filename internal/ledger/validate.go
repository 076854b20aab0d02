package ledger

import (
	"fmt"

	"github.com/pesapeak/pesapeak/internal/id"
	"github.com/pesapeak/pesapeak/internal/model"
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Invariant   int
	TxnID       string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.TxnID, e.Description)
}

// AccountChecker tests whether an account ID exists.
type AccountChecker interface {
	Exists(id int) bool
}

// ValidateEntries enforces the ledger invariants on one month's entries.
func ValidateEntries(entries []model.Entry, accounts AccountChecker, year, month int) []ValidationError {
	var errs []ValidationError

	for _, e := range entries {
		// Invariant 1: Non-zero amount.
		if e.Amount == 0 {
			errs = append(errs, ValidationError{
				Invariant:   1,
				TxnID:       e.TxnID,
				Description: "amount must not be zero",
			})
		}

		// Invariant 2: Type agrees with the sign of the amount.
		if e.Amount != 0 && e.Type != model.TypeForAmount(e.Amount) {
			errs = append(errs, ValidationError{
				Invariant:   2,
				TxnID:       e.TxnID,
				Description: fmt.Sprintf("type %q does not match amount %s", e.Type, FormatMinor(e.Amount)),
			})
		}

		// Invariant 3: Valid account reference.
		if !accounts.Exists(e.AccountID) {
			errs = append(errs, ValidationError{
				Invariant:   3,
				TxnID:       e.TxnID,
				Description: fmt.Sprintf("unknown account %d", e.AccountID),
			})
		}

		// Invariant 4: Date within month.
		if e.Date.Year() != year || int(e.Date.Month()) != month {
			errs = append(errs, ValidationError{
				Invariant:   4,
				TxnID:       e.TxnID,
				Description: fmt.Sprintf("date %s not in %04d-%02d", e.Date.Format(model.DateFormat), year, month),
			})
		}
	}

	// Invariant 5: Unique sequential IDs, contiguous 1..N.
	seqSeen := make(map[int]bool)
	for _, e := range entries {
		_, _, seq, err := id.ParseTxnID(e.TxnID)
		if err != nil {
			errs = append(errs, ValidationError{
				Invariant:   5,
				TxnID:       e.TxnID,
				Description: fmt.Sprintf("invalid transaction ID: %v", err),
			})
			continue
		}
		if seqSeen[seq] {
			errs = append(errs, ValidationError{
				Invariant:   5,
				TxnID:       e.TxnID,
				Description: "duplicate transaction ID",
			})
		}
		seqSeen[seq] = true
	}
	for i := 1; i <= len(seqSeen); i++ {
		if !seqSeen[i] {
			errs = append(errs, ValidationError{
				Invariant:   5,
				TxnID:       fmt.Sprintf("seq %d", i),
				Description: fmt.Sprintf("missing sequence %d in 1..%d", i, len(seqSeen)),
			})
		}
	}

	return errs
}
