package statement

import "github.com/pesapeak/pesapeak/internal/model"

// EquityMapper maps Equity Bank statement exports.
type EquityMapper struct{}

// Format returns the format tag.
func (m *EquityMapper) Format() Format { return FormatEquity }

// Name returns the display name.
func (m *EquityMapper) Name() string { return "Equity Bank" }

// Fingerprint returns the header substrings identifying an Equity export.
func (m *EquityMapper) Fingerprint() []string {
	return []string{"transaction details", "payment reference", "value date"}
}

// Columns returns the Equity column lookup order.
func (m *EquityMapper) Columns() []Column {
	return []Column{
		{Field: fieldDescription, Matchers: []string{"transaction details"}, Required: true},
		{Field: fieldReference, Matchers: []string{"payment reference"}},
		{Field: fieldDate, Matchers: []string{"value date", "transaction date"}, Required: true},
		{Field: fieldCredit, Matchers: []string{"credit"}},
		{Field: fieldDebit, Matchers: []string{"debit"}},
		{Field: fieldBalance, Matchers: []string{"balance"}},
	}
}

// MapRow converts one Equity row. Credit wins over debit when both are set.
func (m *EquityMapper) MapRow(row []string, cols Columns) (model.Transaction, bool, error) {
	desc := cols.Text(row, fieldDescription)
	rawDate := cols.Text(row, fieldDate)
	if desc == "" || rawDate == "" {
		return model.Transaction{}, false, nil
	}

	credit := cols.Amount(row, fieldCredit)
	debit := cols.Amount(row, fieldDebit)
	if credit <= 0 && debit <= 0 {
		return model.Transaction{}, false, nil
	}

	amount, typ := -debit, model.TypeDebit
	if credit > 0 {
		amount, typ = credit, model.TypeCredit
	}

	date, err := canonicalDate(rawDate)
	if err != nil {
		return model.Transaction{}, false, err
	}

	return model.Transaction{
		Date:        date,
		Description: desc,
		Amount:      amount,
		Type:        typ,
		Balance:     cols.Balance(row),
		Reference:   cols.Text(row, fieldReference),
	}, true, nil
}
