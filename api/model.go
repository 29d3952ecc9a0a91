package api

import (
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"time"

	appErrors "github.com/fatali-fataliyev/finance_tracker/customErrors"
	"github.com/fatali-fataliyev/finance_tracker/internal/finance"
)

// REQUESTS START:

type RegisterRequest struct {
	FirstName string `json:"fname"`
	LastName  string `json:"lname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateAccountRequest struct {
	AccountName string      `json:"accountName"`
	Balance     json.Number `json:"balance"`
}

type CreateTransactionRequest struct {
	AccountID   json.Number `json:"accountId"`
	Type        string      `json:"transactionType"`
	Amount      json.Number `json:"amount"` // kept raw so malformed values get a validation error, not a decode error
	Description string      `json:"description"`
}

//REQUESTS END:

//RESPONSES:

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type AccountItem struct {
	ID      int64  `json:"accountId"`
	Name    string `json:"accountName"`
	Balance string `json:"balance"`
}

type ListAccountsResponse struct {
	Accounts []AccountItem `json:"accounts"`
}

type TransactionItem struct {
	ID          int64  `json:"transactionId"`
	AccountID   int64  `json:"accountId"`
	Type        string `json:"transactionType"`
	Amount      string `json:"amount"`
	Date        string `json:"transactionDate"`
	Description string `json:"description"`
	Slip        string `json:"transactionSlip,omitempty"`
}

type PostTransactionResponse struct {
	Message     string          `json:"message"`
	Transaction TransactionItem `json:"transaction"`
	NewBalance  string          `json:"newBalance"`
}

type ListTransactionsResponse struct {
	Transactions []TransactionItem `json:"transactions"`
	Page         int               `json:"page"`
	Limit        int               `json:"limit"`
}

type SummaryItem struct {
	Type  string `json:"transactionType"`
	Total string `json:"total"`
}

type SummaryResponse struct {
	Summary []SummaryItem `json:"summary"`
}

func httpStatusFromError(err error) int {
	var errResp appErrors.ErrorResponse
	if !errors.As(err, &errResp) {
		return 500
	}

	switch errResp.Code {
	case appErrors.ErrNotFound:
		return 404 // not found
	case appErrors.ErrInvalidInput:
		return 400 // bad request
	case appErrors.ErrAuth:
		return 401 // unauthorized
	case appErrors.ErrConflict:
		return 409 // conflict
	default:
		return 500 // internal error
	}
}

func AccountToHttp(account finance.Account) AccountItem {
	return AccountItem{
		ID:      account.ID,
		Name:    account.Name,
		Balance: account.Balance.StringFixed(2),
	}
}

func TransactionToHttp(transaction finance.Transaction) TransactionItem {
	return TransactionItem{
		ID:          transaction.ID,
		AccountID:   transaction.AccountID,
		Type:        transaction.Type,
		Amount:      transaction.Amount.StringFixed(2),
		Date:        transaction.CreatedAt.Format(time.RFC3339),
		Description: transaction.Description,
		Slip:        transaction.SlipRef,
	}
}

const dateLayout = "2006-01-02"

// FilterValidateParams parses the shared query filters: accountId,
// transactionType (the list endpoint sends it as "type"), startDate, endDate.
// The end date is inclusive, so it is pushed to the last second of that day.
func FilterValidateParams(params url.Values) (*finance.TransactionFilters, error) {
	var filters finance.TransactionFilters

	if accountIdStr := params.Get("accountId"); accountIdStr != "" {
		accountID, err := strconv.ParseInt(accountIdStr, 10, 64)
		if err != nil {
			return nil, appErrors.ErrorResponse{
				Code:    appErrors.ErrInvalidInput,
				Message: "Invalid accountId value",
			}
		}
		filters.AccountID = &accountID
	}

	transactionType := params.Get("transactionType")
	if transactionType == "" {
		transactionType = params.Get("type")
	}
	if transactionType != "" {
		if transactionType != finance.TypeIncome && transactionType != finance.TypeExpense {
			return nil, appErrors.ErrorResponse{
				Code:    appErrors.ErrInvalidInput,
				Message: "Invalid transaction type",
			}
		}
		filters.Type = transactionType
	}

	if start := params.Get("startDate"); start != "" {
		date, err := time.Parse(dateLayout, start)
		if err != nil {
			return nil, appErrors.ErrorResponse{
				Code:    appErrors.ErrInvalidInput,
				Message: "Invalid startDate value, expected YYYY-MM-DD",
			}
		}
		filters.StartDate = date
	}

	if end := params.Get("endDate"); end != "" {
		date, err := time.Parse(dateLayout, end)
		if err != nil {
			return nil, appErrors.ErrorResponse{
				Code:    appErrors.ErrInvalidInput,
				Message: "Invalid endDate value, expected YYYY-MM-DD",
			}
		}
		filters.EndDate = date.Add(24*time.Hour - time.Second)
	}

	return &filters, nil
}

// ListValidateParams parses pagination on top of the shared filters. The
// limit whitelist itself is enforced by the service.
func ListValidateParams(params url.Values) (*finance.TransactionFilters, int, int, error) {
	filters, err := FilterValidateParams(params)
	if err != nil {
		return nil, 0, 0, err
	}

	page := 1
	if pageStr := params.Get("page"); pageStr != "" {
		page, err = strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return nil, 0, 0, appErrors.ErrorResponse{
				Code:    appErrors.ErrInvalidInput,
				Message: "Invalid page value",
			}
		}
	}

	limit := 10
	if limitStr := params.Get("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			return nil, 0, 0, appErrors.ErrorResponse{
				Code:    appErrors.ErrInvalidInput,
				Message: "Invalid limit value. Please select 10, 20, 50, or 100.",
			}
		}
	}

	return filters, page, limit, nil
}
