package model

import (
	"strconv"
	"strings"
	"time"
)

// Entry is a single row in a month's ledger transactions.csv.
type Entry struct {
	TxnID       string // "YYYY-MM-NNN"
	BatchID     string // import batch that produced the row
	AccountID   int
	Date        time.Time
	Description string
	Amount      int64 // minor units
	Type        TxnType
	Balance     *int64
	Reference   string
}

// NewEntry converts a parsed Transaction into an unnumbered ledger Entry.
func NewEntry(txn Transaction, accountID int, batchID string) (Entry, error) {
	date, err := txn.Time()
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		BatchID:     batchID,
		AccountID:   accountID,
		Date:        date,
		Description: txn.Description,
		Amount:      txn.Amount,
		Type:        txn.Type,
		Balance:     txn.Balance,
		Reference:   txn.Reference,
	}, nil
}

// DedupKey identifies the same bank movement across imports.
// Descriptions compare case-insensitively.
func (e Entry) DedupKey() string {
	return strings.Join([]string{
		strconv.Itoa(e.AccountID),
		e.Date.Format(DateFormat),
		strconv.FormatInt(e.Amount, 10),
		strings.ToLower(strings.TrimSpace(e.Description)),
		e.Reference,
	}, "|")
}
