package storage

import (
	"database/sql"
	"time"

	"github.com/fatali-fataliyev/finance_tracker/internal/finance"
	"github.com/shopspring/decimal"
)

// Row shapes scanned out of MySQL. DECIMAL columns are scanned as strings and
// parsed so no float ever touches a monetary value.

type dbAccount struct {
	ID      int64
	UserID  int64
	Name    string
	Balance string
}

func (a dbAccount) toDomain() (finance.Account, error) {
	balance, err := decimal.NewFromString(a.Balance)
	if err != nil {
		return finance.Account{}, err
	}
	return finance.Account{
		ID:      a.ID,
		UserID:  a.UserID,
		Name:    a.Name,
		Balance: balance,
	}, nil
}

type dbTransaction struct {
	ID          int64
	UserID      int64
	AccountID   int64
	Amount      string
	Date        time.Time
	Type        string
	Description string
	Slip        sql.NullString
}

func (t dbTransaction) toDomain() (finance.Transaction, error) {
	amount, err := decimal.NewFromString(t.Amount)
	if err != nil {
		return finance.Transaction{}, err
	}
	return finance.Transaction{
		ID:          t.ID,
		UserID:      t.UserID,
		AccountID:   t.AccountID,
		Type:        t.Type,
		Amount:      amount,
		Description: t.Description,
		SlipRef:     t.Slip.String,
		CreatedAt:   t.Date,
	}, nil
}
