package model

import (
	"time"
)

// TxnType is the direction of a transaction.
type TxnType string

const (
	TypeCredit TxnType = "credit"
	TypeDebit  TxnType = "debit"
)

// DateFormat is the canonical calendar-date layout of Transaction.Date.
const DateFormat = "2006-01-02"

// Transaction is one normalized statement row.
type Transaction struct {
	Date        string  `json:"date"`        // YYYY-MM-DD
	Description string  `json:"description"` // trimmed, never empty
	Amount      int64   `json:"amount"`      // minor units, never zero; positive = money in
	Type        TxnType `json:"type"`
	Balance     *int64  `json:"balance,omitempty"` // nil unless the bank reported a positive balance
	Reference   string  `json:"reference,omitempty"`
}

// TypeForAmount returns credit for positive amounts and debit otherwise.
func TypeForAmount(amount int64) TxnType {
	if amount > 0 {
		return TypeCredit
	}
	return TypeDebit
}

// Time parses Date. It fails for dates that are not YYYY-MM-DD.
func (t Transaction) Time() (time.Time, error) {
	return time.Parse(DateFormat, t.Date)
}
