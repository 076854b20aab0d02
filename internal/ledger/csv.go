package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pesapeak/pesapeak/internal/model"
)

// Header is the CSV header for a month's transactions.csv.
const Header = "txn_id,batch_id,account_id,date,description,amount,type,balance,reference"

const (
	numFields  = 9
	colTxnID   = 0
	colBatchID = 1
	colAcctID  = 2
	colDate    = 3
	colDesc    = 4
	colAmount  = 5
	colType    = 6
	colBalance = 7
	colRef     = 8
)

// ReadEntries reads all entries from a transactions.csv reader.
func ReadEntries(r io.Reader) ([]model.Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var entries []model.Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// WriteEntries writes entries including the header.
func WriteEntries(w io.Writer, entries []model.Entry) error {
	if _, err := fmt.Fprintln(w, Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	return AppendEntries(w, entries)
}

// AppendEntries writes entries without a header.
func AppendEntries(w io.Writer, entries []model.Entry) error {
	cw := csv.NewWriter(w)
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e model.Entry) []string {
	row := make([]string, numFields)
	row[colTxnID] = e.TxnID
	row[colBatchID] = e.BatchID
	row[colAcctID] = strconv.Itoa(e.AccountID)
	row[colDate] = e.Date.Format(model.DateFormat)
	row[colDesc] = e.Description
	row[colAmount] = FormatMinor(e.Amount)
	row[colType] = string(e.Type)
	if e.Balance != nil {
		row[colBalance] = FormatMinor(*e.Balance)
	}
	row[colRef] = e.Reference
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (model.Entry, error) {
	if len(record) != numFields {
		return model.Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(model.DateFormat, record[colDate])
	if err != nil {
		return model.Entry{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	accountID, err := strconv.Atoi(record[colAcctID])
	if err != nil {
		return model.Entry{}, fmt.Errorf("parsing account_id %q: %w", record[colAcctID], err)
	}

	amount, err := ParseMinor(record[colAmount])
	if err != nil {
		return model.Entry{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	var balance *int64
	if record[colBalance] != "" {
		b, err := ParseMinor(record[colBalance])
		if err != nil {
			return model.Entry{}, fmt.Errorf("parsing balance %q: %w", record[colBalance], err)
		}
		balance = &b
	}

	return model.Entry{
		TxnID:       record[colTxnID],
		BatchID:     record[colBatchID],
		AccountID:   accountID,
		Date:        date,
		Description: record[colDesc],
		Amount:      amount,
		Type:        model.TxnType(record[colType]),
		Balance:     balance,
		Reference:   record[colRef],
	}, nil
}

// FormatMinor renders minor units as a two-decimal string: 123450 -> "1234.50".
func FormatMinor(v int64) string {
	return decimal.New(v, -2).StringFixed(2)
}

// ParseMinor parses a decimal string with at most two places into minor units.
func ParseMinor(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("%s has more than 2 decimal places", s)
	}
	return cents.IntPart(), nil
}
