package finance

import (
	"github.com/shopspring/decimal"

	appErrors "github.com/fatali-fataliyev/finance_tracker/customErrors"
)

// ParseAmount parses a monetary string with at most 2 fraction digits.
// Sign is not checked here; the per-type rule in NewBalance owns that,
// so "Income amount must be positive" stays reachable.
func ParseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Invalid amount",
		}
	}
	if amount.Exponent() < -2 {
		return decimal.Zero, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Invalid amount",
		}
	}
	return amount, nil
}

// ParseBalance parses an initial account balance: non-negative, 2 fraction digits.
func ParseBalance(raw string) (decimal.Decimal, error) {
	balance, err := decimal.NewFromString(raw)
	if err != nil || balance.IsNegative() || balance.Exponent() < -2 {
		return decimal.Zero, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Invalid balance value. It must be a non-negative number.",
		}
	}
	return balance, nil
}

// NewBalance computes the balance after applying a transaction. The sign rule
// and the non-negative floor live here and nowhere else; every storage
// implementation calls this between its balance read and write.
func NewBalance(current decimal.Decimal, transactionType string, amount decimal.Decimal) (decimal.Decimal, error) {
	switch transactionType {
	case TypeIncome:
		if !amount.IsPositive() {
			return decimal.Zero, appErrors.ErrorResponse{
				Code:    appErrors.ErrInvalidInput,
				Message: "Income amount must be positive",
			}
		}
		return current.Add(amount), nil
	case TypeExpense:
		if !amount.IsPositive() {
			return decimal.Zero, appErrors.ErrorResponse{
				Code:    appErrors.ErrInvalidInput,
				Message: "Expense amount must be positive",
			}
		}
		if current.LessThan(amount) {
			return decimal.Zero, appErrors.ErrorResponse{
				Code:    appErrors.ErrInvalidInput,
				Message: "Insufficient balance",
			}
		}
		return current.Sub(amount), nil
	default:
		return decimal.Zero, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Invalid transaction type",
		}
	}
}
