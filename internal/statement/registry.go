package statement

import (
	"fmt"
	"strings"

	"github.com/pesapeak/pesapeak/internal/model"
)

// Format identifies a bank statement export layout.
type Format string

const (
	FormatEquity  Format = "equity"
	FormatMpesa   Format = "mpesa"
	FormatUnknown Format = "unknown"
)

// Canonical field names shared by the mappers.
const (
	fieldDescription = "description"
	fieldDate        = "date"
	fieldReference   = "reference"
	fieldCredit      = "credit"
	fieldDebit       = "debit"
	fieldBalance     = "balance"
	fieldStatus      = "status"
	fieldPaidIn      = "paid_in"
	fieldWithdrawn   = "withdrawn"
)

// Mapper converts data rows of one statement format into transactions.
type Mapper interface {
	Format() Format
	// Name is the display name used in user-facing messages.
	Name() string
	// Fingerprint lists lower-case substrings that must all appear in the
	// joined header for a document to be this format.
	Fingerprint() []string
	// Columns is evaluated once per document, in order.
	Columns() []Column
	// MapRow returns ok=false for rows that are not transactions.
	MapRow(row []string, cols Columns) (txn model.Transaction, ok bool, err error)
}

// Column locates a canonical field by case-insensitive substring match on
// the header. Matchers are tried in order.
type Column struct {
	Field    string
	Matchers []string
	Required bool
}

// Columns maps canonical field names to header indices for one document.
type Columns map[string]int

// ResolveColumns resolves cols against header.
func ResolveColumns(header []string, cols []Column) (Columns, error) {
	lower := make([]string, len(header))
	for i, h := range header {
		lower[i] = strings.ToLower(strings.TrimSpace(h))
	}

	resolved := make(Columns, len(cols))
	for _, c := range cols {
		if idx, ok := findColumn(lower, c.Matchers); ok {
			resolved[c.Field] = idx
			continue
		}
		if c.Required {
			return nil, fmt.Errorf("CSV is missing required column %q", c.Field)
		}
	}
	return resolved, nil
}

func findColumn(header, matchers []string) (int, bool) {
	for _, m := range matchers {
		for i, h := range header {
			if strings.Contains(h, m) {
				return i, true
			}
		}
	}
	return 0, false
}

// Has reports whether field was found in the header.
func (c Columns) Has(field string) bool {
	_, ok := c[field]
	return ok
}

// Raw returns the untrimmed value of field in row, or "" if absent.
func (c Columns) Raw(row []string, field string) string {
	idx, ok := c[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// Text returns the value of field with whitespace and surrounding quotes removed.
func (c Columns) Text(row []string, field string) string {
	return cleanText(c.Raw(row, field))
}

// Amount returns the value of field in minor units.
func (c Columns) Amount(row []string, field string) int64 {
	return NormalizeAmount(c.Raw(row, field))
}

// Balance returns a pointer to the balance only when it is strictly positive.
func (c Columns) Balance(row []string) *int64 {
	if !c.Has(fieldBalance) {
		return nil
	}
	b := c.Amount(row, fieldBalance)
	if b <= 0 {
		return nil
	}
	return &b
}

// Registry holds the supported statement formats in detection order.
type Registry struct {
	mappers  []Mapper
	byFormat map[Format]Mapper
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byFormat: make(map[Format]Mapper)}
}

// Register adds a mapper. Panics on duplicate or reserved format.
func (r *Registry) Register(m Mapper) {
	key := Format(strings.ToLower(string(m.Format())))
	if key == FormatUnknown || key == "" {
		panic("reserved statement format: " + string(key))
	}
	if _, ok := r.byFormat[key]; ok {
		panic("duplicate statement format: " + string(key))
	}
	r.byFormat[key] = m
	r.mappers = append(r.mappers, m)
}

// Get returns the mapper for format, or nil.
func (r *Registry) Get(format Format) Mapper {
	return r.byFormat[Format(strings.ToLower(string(format)))]
}

// Formats returns registered formats in detection order.
func (r *Registry) Formats() []Format {
	out := make([]Format, len(r.mappers))
	for i, m := range r.mappers {
		out[i] = m.Format()
	}
	return out
}

// Names returns display names in detection order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.mappers))
	for i, m := range r.mappers {
		out[i] = m.Name()
	}
	return out
}

// Detect classifies a header row. The first registered format whose whole
// fingerprint is present wins.
func (r *Registry) Detect(header []string) Format {
	joined := strings.ToLower(strings.Join(header, ","))
	for _, m := range r.mappers {
		if containsAll(joined, m.Fingerprint()) {
			return m.Format()
		}
	}
	return FormatUnknown
}

func containsAll(s string, subs []string) bool {
	if len(subs) == 0 {
		return false
	}
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

// DefaultRegistry returns a registry with all built-in formats.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&EquityMapper{})
	r.Register(&MpesaMapper{})
	return r
}
