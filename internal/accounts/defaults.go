package accounts

import "github.com/pesapeak/pesapeak/internal/model"

// DefaultAccounts returns the starter accounts for a new data directory.
func DefaultAccounts(currency string) []model.Account {
	return []model.Account{
		{ID: 1, Name: "Equity Current", Type: model.AccountTypeCurrent, Institution: "equity", Currency: currency},
		{ID: 2, Name: "M-Pesa", Type: model.AccountTypeMobileMoney, Institution: "mpesa", Currency: currency},
		{ID: 3, Name: "Cash", Type: model.AccountTypeCash, Currency: currency},
	}
}
