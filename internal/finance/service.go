package finance

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	appErrors "github.com/fatali-fataliyev/finance_tracker/customErrors"
	"github.com/fatali-fataliyev/finance_tracker/internal/auth"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type FinanceTracker struct {
	storage     Storage
	StorageType string
}

func NewFinanceTracker(s Storage) FinanceTracker {
	return FinanceTracker{
		storage:     s,
		StorageType: s.GetStorageType(),
	}
}

type Storage interface {
	SaveUser(ctx context.Context, newUser auth.User) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (auth.User, error)
	SaveSession(ctx context.Context, session auth.Session) error
	CheckSession(ctx context.Context, token string) (userID int64, err error)
	DeleteSession(ctx context.Context, token string) error
	CreateAccount(ctx context.Context, account Account) (Account, error)
	GetAccounts(ctx context.Context, userID int64) ([]Account, error)
	DeleteAccount(ctx context.Context, userID int64, accountID int64) error
	PostTransaction(ctx context.Context, t Transaction) (Transaction, decimal.Decimal, error)
	GetFilteredTransactions(ctx context.Context, userID int64, filters *TransactionFilters, limit int, offset int) ([]Transaction, error)
	SummarizeTransactions(ctx context.Context, userID int64, filters *TransactionFilters) ([]SummaryRow, error)
	ExportTransactions(ctx context.Context, userID int64, filters *TransactionFilters) ([]ExportRow, error)
	GetStorageType() string
}

// RegisterUser creates the user and immediately opens a session for it, so
// the caller can set the cookie without a second login round trip.
func (ft *FinanceTracker) RegisterUser(ctx context.Context, newUser auth.NewUser) (string, error) {
	if err := newUser.ValidateUserFields(); err != nil {
		return "", err
	}

	hashedPassword, err := auth.HashPassword(newUser.PasswordPlain)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := auth.User{
		FirstName:      newUser.FirstName,
		LastName:       newUser.LastName,
		Email:          strings.ToLower(newUser.Email),
		PasswordHashed: hashedPassword,
	}

	userID, err := ft.storage.SaveUser(ctx, user)
	if err != nil {
		return "", err
	}

	token, err := ft.newSession(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("registration successful but failed to generate session: %w | try login", err)
	}
	return token, nil
}

// Login verifies credentials and adds a new session. Existing sessions for
// the user stay valid; sessions are additive.
func (ft *FinanceTracker) Login(ctx context.Context, credentials auth.Credentials) (string, error) {
	if err := credentials.Validate(); err != nil {
		return "", err
	}

	user, err := ft.storage.GetUserByEmail(ctx, strings.ToLower(credentials.Email))
	if err != nil {
		return "", err
	}

	// One uniform message for unknown email and wrong password alike.
	if !auth.ComparePasswords(user.PasswordHashed, credentials.PasswordPlain) {
		return "", appErrors.ErrorResponse{
			Code:    appErrors.ErrAuth,
			Message: "Invalid credentials",
		}
	}

	return ft.newSession(ctx, user.ID)
}

func (ft *FinanceTracker) newSession(ctx context.Context, userID int64) (string, error) {
	now := time.Now().UTC()
	session := auth.Session{
		Token:     uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := ft.storage.SaveSession(ctx, session); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	return session.Token, nil
}

// Logout deletes the session row. Deleting an unknown token is not an error.
func (ft *FinanceTracker) Logout(ctx context.Context, token string) error {
	if token == "" {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "No session found",
		}
	}
	return ft.storage.DeleteSession(ctx, token)
}

// CheckSession resolves a session token to a user id. Every other operation
// requires the id this returns.
func (ft *FinanceTracker) CheckSession(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, appErrors.ErrorResponse{
			Code:    appErrors.ErrAuth,
			Message: "Not authenticated",
		}
	}
	userID, err := ft.storage.CheckSession(ctx, token)
	if err != nil {
		return 0, err
	}
	return userID, nil
}

func (ft *FinanceTracker) CreateAccount(ctx context.Context, userID int64, name string, initialBalance string) (Account, error) {
	if name == "" {
		return Account{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Please provide accountName and balance",
		}
	}
	balance, err := ParseBalance(initialBalance)
	if err != nil {
		return Account{}, err
	}

	account := Account{
		UserID:  userID,
		Name:    name,
		Balance: balance,
	}
	return ft.storage.CreateAccount(ctx, account)
}

func (ft *FinanceTracker) GetAccounts(ctx context.Context, userID int64) ([]Account, error) {
	accounts, err := ft.storage.GetAccounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}
	return accounts, nil
}

// DeleteAccount removes the account and, by cascade, its transactions.
// Ownership and existence are checked together in storage so callers cannot
// tell a foreign account from a missing one.
func (ft *FinanceTracker) DeleteAccount(ctx context.Context, userID int64, accountID int64) error {
	return ft.storage.DeleteAccount(ctx, userID, accountID)
}

// PostTransaction validates the request, sanitizes the description and hands
// the write to storage, which applies NewBalance under the account row lock
// so the balance update and the journal insert commit as one unit.
func (ft *FinanceTracker) PostTransaction(ctx context.Context, userID int64, req NewTransactionRequest) (PostResult, error) {
	amount, err := ParseAmount(req.Amount)
	if err != nil {
		return PostResult{}, err
	}
	if req.Type != TypeIncome && req.Type != TypeExpense {
		return PostResult{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Invalid transaction type",
		}
	}
	// Characters, not bytes, so Thai descriptions get the full 255.
	if req.Description == "" || utf8.RuneCountInString(req.Description) > MAX_DESCRIPTION_LENGTH {
		return PostResult{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Description is required and should not exceed 255 characters",
		}
	}

	t := Transaction{
		UserID:      userID,
		AccountID:   req.AccountID,
		Type:        req.Type,
		Amount:      amount,
		Description: SanitizeDescription(req.Description),
		SlipRef:     req.SlipRef,
		CreatedAt:   time.Now().UTC(),
	}

	saved, newBalance, err := ft.storage.PostTransaction(ctx, t)
	if err != nil {
		return PostResult{}, err
	}
	return PostResult{Transaction: saved, NewBalance: newBalance}, nil
}

// GetFilteredTransactions returns one page, newest first. Pages are 1-based;
// a page past the end is an empty result, not an error.
func (ft *FinanceTracker) GetFilteredTransactions(ctx context.Context, userID int64, filters *TransactionFilters, page int, limit int) (TransactionPage, error) {
	if !isValidLimit(limit) {
		return TransactionPage{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Invalid limit value. Please select 10, 20, 50, or 100.",
		}
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	items, err := ft.storage.GetFilteredTransactions(ctx, userID, filters, limit, offset)
	if err != nil {
		return TransactionPage{}, fmt.Errorf("failed to get transactions: %w", err)
	}
	return TransactionPage{Items: items, Page: page, Limit: limit}, nil
}

func isValidLimit(limit int) bool {
	for _, valid := range ValidLimits {
		if limit == valid {
			return true
		}
	}
	return false
}

// Summarize groups the matching transactions by type. An empty match is
// reported as not-found so callers can tell "no data" from a storage failure.
func (ft *FinanceTracker) Summarize(ctx context.Context, userID int64, filters *TransactionFilters) ([]SummaryRow, error) {
	rows, err := ft.storage.SummarizeTransactions(ctx, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize transactions: %w", err)
	}
	if len(rows) == 0 {
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "No transactions found for the given criteria",
		}
	}
	return rows, nil
}

// ExportSummary serializes the matching raw transaction rows in the requested
// format.
func (ft *FinanceTracker) ExportSummary(ctx context.Context, userID int64, filters *TransactionFilters, format string) (ExportFile, error) {
	if format != FormatCSV && format != FormatExcel && format != FormatJSON {
		return ExportFile{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Invalid format specified. Please specify csv, excel, or json.",
		}
	}

	rows, err := ft.storage.ExportTransactions(ctx, userID, filters)
	if err != nil {
		return ExportFile{}, fmt.Errorf("failed to export transactions: %w", err)
	}
	if len(rows) == 0 {
		return ExportFile{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "No transactions found for the given criteria",
		}
	}

	return encodeExport(rows, format)
}
