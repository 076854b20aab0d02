package model

// AccountType classifies where money is held.
type AccountType string

const (
	AccountTypeCurrent     AccountType = "current"
	AccountTypeSavings     AccountType = "savings"
	AccountTypeMobileMoney AccountType = "mobile_money"
	AccountTypeCreditCard  AccountType = "credit_card"
	AccountTypeCash        AccountType = "cash"
)

// Account represents a row in accounts.csv.
type Account struct {
	ID          int
	Name        string
	Type        AccountType
	Institution string // statement format imported into this account, e.g. "equity"
	Currency    string
}
