package statement

import (
	"fmt"
	"strings"

	"github.com/pesapeak/pesapeak/internal/model"
)

const (
	msgEmpty          = "CSV file is empty"
	msgNoTransactions = "No valid transactions found in CSV file"
)

// Result is the outcome of parsing one statement. Errors does not imply
// Transactions is empty; partial success is normal.
type Result struct {
	Format       Format              `json:"format"`
	Transactions []model.Transaction `json:"transactions"`
	Errors       []string            `json:"errors"`
}

// Parser turns statement text into normalized transactions. It is safe for
// concurrent use as long as its Registry is not modified.
type Parser struct {
	registry *Registry
}

// NewParser creates a Parser over the given registry.
func NewParser(registry *Registry) *Parser {
	return &Parser{registry: registry}
}

var defaultParser = NewParser(DefaultRegistry())

// Parse parses text with the built-in formats.
func Parse(text string) Result {
	return defaultParser.Parse(text)
}

type line struct {
	number int // 1-based position in the document
	text   string
}

// Parse never fails: every problem is reported in Result.Errors.
func (p *Parser) Parse(text string) Result {
	res := Result{
		Format:       FormatUnknown,
		Transactions: []model.Transaction{},
		Errors:       []string{},
	}

	lines := nonBlankLines(text)
	if len(lines) == 0 {
		res.Errors = append(res.Errors, msgEmpty)
		return res
	}

	header := SplitLine(lines[0].text)
	mapper := p.registry.Get(p.registry.Detect(header))
	if mapper == nil {
		res.Errors = append(res.Errors, p.unknownFormatMessage())
		return res
	}
	res.Format = mapper.Format()

	cols, err := ResolveColumns(header, mapper.Columns())
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		return res
	}

	for _, ln := range lines[1:] {
		row := SplitLine(ln.text)
		if len(row) < len(header) {
			continue
		}
		txn, ok, err := mapRow(mapper, row, cols)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Error parsing row %d: %v", ln.number, err))
			continue
		}
		if ok {
			res.Transactions = append(res.Transactions, txn)
		}
	}

	if len(res.Transactions) == 0 {
		res.Errors = append(res.Errors, msgNoTransactions)
	}
	return res
}

func (p *Parser) unknownFormatMessage() string {
	return "Unknown CSV format. Supported formats: " + strings.Join(p.registry.Names(), ", ")
}

// mapRow isolates a panicking mapper to its own row.
func mapRow(m Mapper, row []string, cols Columns) (txn model.Transaction, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			txn, ok, err = model.Transaction{}, false, fmt.Errorf("%v", r)
		}
	}()
	return m.MapRow(row, cols)
}

func nonBlankLines(text string) []line {
	var out []line
	for i, l := range strings.Split(text, "\n") {
		l = strings.TrimSuffix(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		out = append(out, line{number: i + 1, text: l})
	}
	return out
}
