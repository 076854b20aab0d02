package statement

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesapeak/pesapeak/internal/model"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("../../testdata/" + name)
	require.NoError(t, err)
	return string(data)
}

func int64p(v int64) *int64 { return &v }

func TestParse_EquitySingleRow(t *testing.T) {
	doc := "Transaction Details,Payment Reference,Value Date,Credit,Debit,Balance\n" +
		`SALARY,FT001,01/06/2025,"1,000.00",,"5,000.00"` + "\n"

	res := Parse(doc)
	assert.Equal(t, FormatEquity, res.Format)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, model.Transaction{
		Date:        "2025-06-01",
		Description: "SALARY",
		Amount:      100000,
		Type:        model.TypeCredit,
		Balance:     int64p(500000),
		Reference:   "FT001",
	}, res.Transactions[0])
}

func TestParse_MpesaCompletedAndPending(t *testing.T) {
	doc := "Receipt No,Completion Time,Details,Transaction Status,Paid In,Withdrawn,Balance\n" +
		"SFK1,2025-06-03 14:22:10,Send Money,Completed,,250.00,1000.00\n" +
		"SFK2,2025-06-03 15:00:00,Pay Bill,Pending,,100.00,1000.00\n"

	res := Parse(doc)
	assert.Equal(t, FormatMpesa, res.Format)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Transactions, 1)
	txn := res.Transactions[0]
	assert.Equal(t, int64(-25000), txn.Amount)
	assert.Equal(t, model.TypeDebit, txn.Type)
	assert.Equal(t, "2025-06-03", txn.Date)
	assert.Equal(t, "SFK1", txn.Reference)
}

func TestParse_UnknownFormat(t *testing.T) {
	res := Parse("Foo,Bar\n1,2\n")
	assert.Equal(t, Result{
		Format:       FormatUnknown,
		Transactions: []model.Transaction{},
		Errors:       []string{"Unknown CSV format. Supported formats: Equity Bank, MPesa"},
	}, res)
}

func TestParse_Empty(t *testing.T) {
	for _, doc := range []string{"", "\n\n", "   \n\t\n"} {
		res := Parse(doc)
		assert.Equal(t, Result{
			Format:       FormatUnknown,
			Transactions: []model.Transaction{},
			Errors:       []string{"CSV file is empty"},
		}, res, "input %q", doc)
	}
}

func TestParse_AllRowsSkipped(t *testing.T) {
	doc := "Receipt No,Completion Time,Details,Transaction Status,Paid In,Withdrawn,Balance\n" +
		"SFK1,2025-06-03 14:22:10,Send Money,Pending,,250.00,1000.00\n" +
		"SFK2,2025-06-03 15:00:00,Balance Enquiry,Completed,,,1000.00\n" +
		"SFK3,2025-06-03 15:00:00,Short row\n"

	res := Parse(doc)
	assert.Equal(t, FormatMpesa, res.Format)
	assert.Empty(t, res.Transactions)
	assert.Equal(t, []string{"No valid transactions found in CSV file"}, res.Errors)
}

// Format reports the detected layout rather than a fixed "unknown", on the
// success path and when no row yields a transaction. Only an empty or
// unrecognized document reports unknown.
func TestParse_ReportsDetectedFormat(t *testing.T) {
	equityHeader := "Transaction Details,Payment Reference,Value Date,Credit,Debit,Balance\n"
	mpesaHeader := "Receipt No,Completion Time,Details,Transaction Status,Paid In,Withdrawn,Balance\n"

	tests := []struct {
		name string
		doc  string
		want Format
	}{
		{"equity with rows", equityHeader + "SALARY,FT1,01/06/2025,100.00,,\n", FormatEquity},
		{"equity without rows", equityHeader, FormatEquity},
		{"mpesa with rows", mpesaHeader + "SFK1,2025-06-03 10:00:00,Airtime,Completed,,50.00,\n", FormatMpesa},
		{"mpesa all skipped", mpesaHeader + "SFK1,2025-06-03 10:00:00,Airtime,Failed,,50.00,\n", FormatMpesa},
		{"unrecognized", "Foo,Bar\n1,2\n", FormatUnknown},
		{"empty", "", FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.doc).Format)
		})
	}
}

func TestParse_OverflowingAmountSkipsRow(t *testing.T) {
	doc := "Transaction Details,Payment Reference,Value Date,Credit,Debit,Balance\n" +
		`HUGE,FT1,01/06/2025,"99,999,999,999,999,999,999.00",,` + "\n" +
		"SALARY,FT2,02/06/2025,100.00,,\n"

	res := Parse(doc)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "SALARY", res.Transactions[0].Description)
	assert.Equal(t, int64(10000), res.Transactions[0].Amount)
}

func TestParse_HeaderOnly(t *testing.T) {
	res := Parse("Transaction Details,Payment Reference,Value Date,Credit,Debit,Balance\n")
	assert.Equal(t, FormatEquity, res.Format)
	assert.Empty(t, res.Transactions)
	assert.Equal(t, []string{"No valid transactions found in CSV file"}, res.Errors)
}

func TestParse_EquityFixture(t *testing.T) {
	res := Parse(readFixture(t, "equity_statement.csv"))
	assert.Equal(t, FormatEquity, res.Format)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Transactions, 4)

	assert.Equal(t, "SALARY JUNE", res.Transactions[0].Description)
	assert.Equal(t, int64(100000), res.Transactions[0].Amount)

	assert.Equal(t, "ATM WITHDRAWAL WESTLANDS", res.Transactions[1].Description)
	assert.Equal(t, int64(-50000), res.Transactions[1].Amount)
	assert.Equal(t, model.TypeDebit, res.Transactions[1].Type)
	assert.Equal(t, "2025-06-02", res.Transactions[1].Date)

	assert.Equal(t, "SUPERMARKET, NAIROBI", res.Transactions[2].Description)
	assert.Equal(t, int64(-123450), res.Transactions[2].Amount)
	require.NotNil(t, res.Transactions[2].Balance)
	assert.Equal(t, int64(326550), *res.Transactions[2].Balance)

	fee := res.Transactions[3]
	assert.Equal(t, "LEDGER FEE", fee.Description)
	assert.Nil(t, fee.Balance, "zero balance is omitted")
	assert.Empty(t, fee.Reference, "empty reference is omitted")

	for _, txn := range res.Transactions {
		assert.NotEmpty(t, txn.Date)
		assert.NotEmpty(t, txn.Description)
		assert.NotZero(t, txn.Amount)
		assert.Equal(t, model.TypeForAmount(txn.Amount), txn.Type)
	}
}

func TestParse_MpesaFixture(t *testing.T) {
	res := Parse(readFixture(t, "mpesa_statement.csv"))
	assert.Equal(t, FormatMpesa, res.Format)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Transactions, 3)

	refs := make([]string, len(res.Transactions))
	for i, txn := range res.Transactions {
		refs[i] = txn.Reference
	}
	// Pending and failed rows never appear.
	assert.Equal(t, []string{"SFK1A2B3C4", "SFK1A2B3C5", "SFK1A2B3C8"}, refs)

	assert.Equal(t, int64(200000), res.Transactions[1].Amount)
	assert.Equal(t, model.TypeCredit, res.Transactions[1].Type)
	assert.Equal(t, int64(-120000), res.Transactions[2].Amount)
	assert.Equal(t, "2025-06-05", res.Transactions[2].Date)
}

func TestParse_Idempotent(t *testing.T) {
	doc := readFixture(t, "equity_statement.csv")
	assert.Equal(t, Parse(doc), Parse(doc))
}

func TestParse_RowErrorDoesNotAbort(t *testing.T) {
	doc := "Transaction Details,Payment Reference,Value Date,Credit,Debit,Balance\n" +
		"\n" +
		"BAD DATE,FT1,yesterday,100.00,,\n" +
		"GOOD,FT2,02/06/2025,,20.00,\n"

	res := Parse(doc)
	assert.Equal(t, []string{`Error parsing row 3: invalid date "yesterday"`}, res.Errors)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "GOOD", res.Transactions[0].Description)
	assert.Equal(t, int64(-2000), res.Transactions[0].Amount)
}

func TestParse_RowErrorsKeptWithNoTransactions(t *testing.T) {
	doc := "Transaction Details,Payment Reference,Value Date,Credit,Debit,Balance\n" +
		"BAD DATE,FT1,soon,100.00,,\n"

	res := Parse(doc)
	assert.Equal(t, []string{
		`Error parsing row 2: invalid date "soon"`,
		"No valid transactions found in CSV file",
	}, res.Errors)
}

func TestParse_RequiredFieldsEmpty(t *testing.T) {
	doc := "Transaction Details,Payment Reference,Value Date,Credit,Debit,Balance\n" +
		` ,FT1,01/06/2025,100.00,,` + "\n" +
		`DESC,FT2,"",100.00,,` + "\n" +
		`DESC,FT3,01/06/2025,,,` + "\n"

	res := Parse(doc)
	assert.Empty(t, res.Transactions)
	assert.Equal(t, []string{"No valid transactions found in CSV file"}, res.Errors)
}

func TestParse_CreditWinsOverDebit(t *testing.T) {
	doc := "Transaction Details,Payment Reference,Value Date,Credit,Debit,Balance\n" +
		"REVERSAL,FT1,01/06/2025,10.00,5.00,\n"

	res := Parse(doc)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, int64(1000), res.Transactions[0].Amount)
	assert.Equal(t, model.TypeCredit, res.Transactions[0].Type)
}

func TestParse_LongRowsAccepted(t *testing.T) {
	doc := "Transaction Details,Payment Reference,Value Date,Credit,Debit,Balance\n" +
		"EXTRA,FT1,01/06/2025,10.00,,,trailing,columns\n"

	res := Parse(doc)
	require.Len(t, res.Transactions, 1)
}

func TestParse_CRLF(t *testing.T) {
	doc := "Receipt No,Completion Time,Details,Transaction Status,Paid In,Withdrawn,Balance\r\n" +
		"SFK1,2025-06-03 14:22:10,Send Money,Completed,,250.00,1000.00\r\n"

	res := Parse(doc)
	require.Len(t, res.Transactions, 1)
	require.NotNil(t, res.Transactions[0].Balance)
	assert.Equal(t, int64(100000), *res.Transactions[0].Balance)
}

func TestParse_Garbage(t *testing.T) {
	res := Parse("\x00\x01\x02,\xff\xfe\n\"\"\"")
	assert.Equal(t, FormatUnknown, res.Format)
	assert.Len(t, res.Errors, 1)
	assert.True(t, strings.HasPrefix(res.Errors[0], "Unknown CSV format"))
}

func TestParser_MissingRequiredColumn(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubMapper{format: "stub", fingerprint: []string{"stub"}})

	res := NewParser(r).Parse("stub,desc\nx,y\n")
	assert.Equal(t, Format("stub"), res.Format)
	assert.Empty(t, res.Transactions)
	assert.Equal(t, []string{`CSV is missing required column "date"`}, res.Errors)
}

func TestParser_RecoversPanickingMapper(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubMapper{
		format:      "stub",
		fingerprint: []string{"desc", "date"},
		mapRow: func(row []string, cols Columns) (model.Transaction, bool, error) {
			if row[0] == "boom" {
				panic("mapper exploded")
			}
			return model.Transaction{Date: row[1], Description: row[0], Amount: 1, Type: model.TypeCredit}, true, nil
		},
	})

	res := NewParser(r).Parse("desc,date\nboom,2025-01-01\nok,2025-01-02\n")
	assert.Equal(t, []string{"Error parsing row 2: mapper exploded"}, res.Errors)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "ok", res.Transactions[0].Description)
}

func TestParser_UnknownMessageListsRegisteredBanks(t *testing.T) {
	r := NewRegistry()
	r.Register(&MpesaMapper{})
	res := NewParser(r).Parse("Foo\n")
	assert.Equal(t, []string{"Unknown CSV format. Supported formats: MPesa"}, res.Errors)
}
