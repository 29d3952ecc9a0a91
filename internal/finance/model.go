package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeIncome  = "income"
	TypeExpense = "expense"

	MAX_DESCRIPTION_LENGTH = 255
)

// ValidLimits are the only page sizes the transaction list accepts.
var ValidLimits = []int{10, 20, 50, 100}

type Account struct {
	ID      int64
	UserID  int64
	Name    string
	Balance decimal.Decimal
}

type Transaction struct {
	ID          int64
	UserID      int64
	AccountID   int64
	Type        string
	Amount      decimal.Decimal
	Description string
	SlipRef     string // opaque reference to an uploaded slip, empty when none
	CreatedAt   time.Time
}

// NewTransactionRequest carries the raw client input for a transaction post.
// Amount stays a string until ParseAmount so malformed input can be rejected
// with the exact validation message.
type NewTransactionRequest struct {
	AccountID   int64
	Type        string
	Amount      string
	Description string
	SlipRef     string
}

type PostResult struct {
	Transaction Transaction
	NewBalance  decimal.Decimal
}

// TransactionFilters are applied conjunctively; zero values mean "not set".
type TransactionFilters struct {
	AccountID *int64
	Type      string
	StartDate time.Time
	EndDate   time.Time
}

type TransactionPage struct {
	Items []Transaction
	Page  int
	Limit int
}

type SummaryRow struct {
	Type  string
	Total decimal.Decimal
}

// ExportRow is the flat shape serialized by the summary exporters.
type ExportRow struct {
	Type        string          `json:"transactionType"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"transactionDate"`
	Description string          `json:"description"`
}
