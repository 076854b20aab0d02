package statement

import (
	"strings"

	"github.com/pesapeak/pesapeak/internal/model"
)

const mpesaStatusCompleted = "completed"

// MpesaMapper maps M-Pesa statement exports. Only completed
// transactions are kept.
type MpesaMapper struct{}

// Format returns the format tag.
func (m *MpesaMapper) Format() Format { return FormatMpesa }

// Name returns the display name.
func (m *MpesaMapper) Name() string { return "MPesa" }

// Fingerprint returns the header substrings identifying an M-Pesa export.
func (m *MpesaMapper) Fingerprint() []string {
	return []string{"receipt no", "completion time", "details"}
}

// Columns returns the M-Pesa column lookup order.
func (m *MpesaMapper) Columns() []Column {
	return []Column{
		{Field: fieldReference, Matchers: []string{"receipt no"}},
		{Field: fieldDate, Matchers: []string{"completion time"}, Required: true},
		{Field: fieldDescription, Matchers: []string{"details"}, Required: true},
		{Field: fieldStatus, Matchers: []string{"transaction status", "status"}},
		{Field: fieldPaidIn, Matchers: []string{"paid in"}},
		{Field: fieldWithdrawn, Matchers: []string{"withdrawn"}},
		{Field: fieldBalance, Matchers: []string{"balance"}},
	}
}

// MapRow converts one M-Pesa row.
func (m *MpesaMapper) MapRow(row []string, cols Columns) (model.Transaction, bool, error) {
	desc := cols.Text(row, fieldDescription)
	rawDate := cols.Text(row, fieldDate)
	if desc == "" || rawDate == "" {
		return model.Transaction{}, false, nil
	}

	if strings.ToLower(cols.Text(row, fieldStatus)) != mpesaStatusCompleted {
		return model.Transaction{}, false, nil
	}

	amount := cols.Amount(row, fieldPaidIn)
	if amount <= 0 {
		amount = -cols.Amount(row, fieldWithdrawn)
	}
	if amount == 0 {
		return model.Transaction{}, false, nil
	}

	date, err := canonicalDate(rawDate)
	if err != nil {
		return model.Transaction{}, false, err
	}

	return model.Transaction{
		Date:        date,
		Description: desc,
		Amount:      amount,
		Type:        model.TypeForAmount(amount),
		Balance:     cols.Balance(row),
		Reference:   cols.Text(row, fieldReference),
	}, true, nil
}
