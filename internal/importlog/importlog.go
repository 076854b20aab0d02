package importlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry is one row in the import log: the outcome of importing one file.
type Entry struct {
	Timestamp  time.Time
	BatchID    string
	File       string
	Format     string
	AccountID  int // 0 when no account was selected
	Parsed     int
	Imported   int
	Duplicates int
	Errors     int
}

// Header is the CSV header for import-log.csv.
const Header = "timestamp,batch_id,file,format,account_id,parsed,imported,duplicates,errors"

const (
	numFields     = 9
	logDir        = "logs"
	logFile       = "logs/import-log.csv"
	colTimestamp  = 0
	colBatchID    = 1
	colFile       = 2
	colFormat     = 3
	colAccountID  = 4
	colParsed     = 5
	colImported   = 6
	colDuplicates = 7
	colErrors     = 8
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colBatchID] = e.BatchID
	row[colFile] = e.File
	row[colFormat] = e.Format
	if e.AccountID != 0 {
		row[colAccountID] = strconv.Itoa(e.AccountID)
	}
	row[colParsed] = strconv.Itoa(e.Parsed)
	row[colImported] = strconv.Itoa(e.Imported)
	row[colDuplicates] = strconv.Itoa(e.Duplicates)
	row[colErrors] = strconv.Itoa(e.Errors)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	var accountID int
	if record[colAccountID] != "" {
		accountID, err = strconv.Atoi(record[colAccountID])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing account_id %q: %w", record[colAccountID], err)
		}
	}

	counts := make([]int, 4)
	for i, col := range []int{colParsed, colImported, colDuplicates, colErrors} {
		counts[i], err = strconv.Atoi(record[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", record[col], err)
		}
	}

	return Entry{
		Timestamp:  ts,
		BatchID:    record[colBatchID],
		File:       record[colFile],
		Format:     record[colFormat],
		AccountID:  accountID,
		Parsed:     counts[0],
		Imported:   counts[1],
		Duplicates: counts[2],
		Errors:     counts[3],
	}, nil
}

// Append writes entries to <root>/logs/import-log.csv, creating the file and header if needed.
func Append(root string, entries []Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <root>/logs/import-log.csv.
// Returns nil if the file does not exist.
func Read(root string) ([]Entry, error) {
	path := filepath.Join(root, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
