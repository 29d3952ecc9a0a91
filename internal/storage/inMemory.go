package storage

import (
	"context"
	"sort"
	"sync"

	appErrors "github.com/fatali-fataliyev/finance_tracker/customErrors"
	"github.com/fatali-fataliyev/finance_tracker/internal/auth"
	"github.com/fatali-fataliyev/finance_tracker/internal/finance"
	"github.com/shopspring/decimal"
)

// InMemoryStorage is the test double for MySQLStorage. A single mutex stands
// in for the row locks, which keeps PostTransaction atomic under concurrency.
type InMemoryStorage struct {
	mu sync.Mutex

	users        []auth.User
	sessions     map[string]int64
	accounts     []finance.Account
	transactions []finance.Transaction

	nextUserID        int64
	nextAccountID     int64
	nextTransactionID int64
}

func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		sessions:          make(map[string]int64),
		nextUserID:        1,
		nextAccountID:     1,
		nextTransactionID: 1,
	}
}

func (inMem *InMemoryStorage) GetStorageType() string {
	return "inmemory"
}

func (inMem *InMemoryStorage) SaveUser(ctx context.Context, user auth.User) (int64, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for _, existing := range inMem.users {
		if existing.Email == user.Email {
			return 0, appErrors.ErrorResponse{
				Code:    appErrors.ErrConflict,
				Message: "Email already registered",
			}
		}
	}

	user.ID = inMem.nextUserID
	inMem.nextUserID++
	inMem.users = append(inMem.users, user)
	return user.ID, nil
}

func (inMem *InMemoryStorage) GetUserByEmail(ctx context.Context, email string) (auth.User, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for _, user := range inMem.users {
		if user.Email == email {
			return user, nil
		}
	}
	return auth.User{}, appErrors.ErrorResponse{
		Code:    appErrors.ErrAuth,
		Message: "Invalid credentials",
	}
}

func (inMem *InMemoryStorage) SaveSession(ctx context.Context, session auth.Session) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	inMem.sessions[session.Token] = session.UserID
	return nil
}

func (inMem *InMemoryStorage) CheckSession(ctx context.Context, token string) (int64, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	userID, ok := inMem.sessions[token]
	if !ok {
		return 0, appErrors.ErrorResponse{
			Code:    appErrors.ErrAuth,
			Message: "Not authenticated",
		}
	}
	return userID, nil
}

func (inMem *InMemoryStorage) DeleteSession(ctx context.Context, token string) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	delete(inMem.sessions, token)
	return nil
}

func (inMem *InMemoryStorage) CreateAccount(ctx context.Context, account finance.Account) (finance.Account, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	account.ID = inMem.nextAccountID
	inMem.nextAccountID++
	inMem.accounts = append(inMem.accounts, account)
	return account, nil
}

func (inMem *InMemoryStorage) GetAccounts(ctx context.Context, userID int64) ([]finance.Account, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	var accounts []finance.Account
	for _, account := range inMem.accounts {
		if account.UserID == userID {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

func (inMem *InMemoryStorage) DeleteAccount(ctx context.Context, userID int64, accountID int64) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	index := -1
	for i, account := range inMem.accounts {
		if account.ID == accountID && account.UserID == userID {
			index = i
			break
		}
	}
	if index == -1 {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "Account not found or does not belong to this user",
		}
	}

	inMem.accounts = append(inMem.accounts[:index], inMem.accounts[index+1:]...)

	var remaining []finance.Transaction
	for _, transaction := range inMem.transactions {
		if transaction.AccountID != accountID {
			remaining = append(remaining, transaction)
		}
	}
	inMem.transactions = remaining
	return nil
}

func (inMem *InMemoryStorage) PostTransaction(ctx context.Context, t finance.Transaction) (finance.Transaction, decimal.Decimal, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	index := -1
	for i, account := range inMem.accounts {
		if account.ID == t.AccountID && account.UserID == t.UserID {
			index = i
			break
		}
	}
	if index == -1 {
		return finance.Transaction{}, decimal.Zero, appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "Account not found or does not belong to this user",
		}
	}

	newBalance, err := finance.NewBalance(inMem.accounts[index].Balance, t.Type, t.Amount)
	if err != nil {
		return finance.Transaction{}, decimal.Zero, err
	}

	inMem.accounts[index].Balance = newBalance

	t.ID = inMem.nextTransactionID
	inMem.nextTransactionID++
	inMem.transactions = append(inMem.transactions, t)

	return t, newBalance, nil
}

func matchesFilters(t finance.Transaction, filters *finance.TransactionFilters) bool {
	if filters == nil {
		return true
	}
	if filters.AccountID != nil && t.AccountID != *filters.AccountID {
		return false
	}
	if filters.Type != "" && t.Type != filters.Type {
		return false
	}
	if !filters.StartDate.IsZero() && t.CreatedAt.Before(filters.StartDate) {
		return false
	}
	if !filters.EndDate.IsZero() && t.CreatedAt.After(filters.EndDate) {
		return false
	}
	return true
}

func (inMem *InMemoryStorage) matchingTransactions(userID int64, filters *finance.TransactionFilters) []finance.Transaction {
	var matched []finance.Transaction
	for _, transaction := range inMem.transactions {
		if transaction.UserID == userID && matchesFilters(transaction, filters) {
			matched = append(matched, transaction)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched
}

func (inMem *InMemoryStorage) GetFilteredTransactions(ctx context.Context, userID int64, filters *finance.TransactionFilters, limit int, offset int) ([]finance.Transaction, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	matched := inMem.matchingTransactions(userID, filters)

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (inMem *InMemoryStorage) SummarizeTransactions(ctx context.Context, userID int64, filters *finance.TransactionFilters) ([]finance.SummaryRow, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	totals := make(map[string]decimal.Decimal)
	for _, transaction := range inMem.matchingTransactions(userID, filters) {
		totals[transaction.Type] = totals[transaction.Type].Add(transaction.Amount)
	}

	types := make([]string, 0, len(totals))
	for transactionType := range totals {
		types = append(types, transactionType)
	}
	sort.Strings(types)

	var summary []finance.SummaryRow
	for _, transactionType := range types {
		summary = append(summary, finance.SummaryRow{
			Type:  transactionType,
			Total: totals[transactionType],
		})
	}
	return summary, nil
}

// ExportTransactions returns matching rows oldest first, the download order.
func (inMem *InMemoryStorage) ExportTransactions(ctx context.Context, userID int64, filters *finance.TransactionFilters) ([]finance.ExportRow, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	matched := inMem.matchingTransactions(userID, filters)
	var exportRows []finance.ExportRow
	for i := len(matched) - 1; i >= 0; i-- {
		transaction := matched[i]
		exportRows = append(exportRows, finance.ExportRow{
			Type:        transaction.Type,
			Amount:      transaction.Amount,
			Date:        transaction.CreatedAt,
			Description: transaction.Description,
		})
	}
	return exportRows, nil
}
