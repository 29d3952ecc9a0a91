package finance

import (
	"context"
	"strings"
	"testing"
	"time"

	appErrors "github.com/fatali-fataliyev/finance_tracker/customErrors"
	"github.com/fatali-fataliyev/finance_tracker/internal/auth"
	"github.com/shopspring/decimal"
)

// Mocks

type MockStorage struct {
	passwordHash  string
	savedSessions []auth.Session
	emptySummary  bool
}

func (m *MockStorage) SaveUser(ctx context.Context, newUser auth.User) (int64, error) {
	if newUser.Email == "taken@example.com" {
		return 0, appErrors.ErrorResponse{
			Code:    appErrors.ErrConflict,
			Message: "Email already registered",
		}
	}
	return 7, nil
}

func (m *MockStorage) GetUserByEmail(ctx context.Context, email string) (auth.User, error) {
	if email == "john@example.com" {
		return auth.User{
			ID:             7,
			FirstName:      "John",
			LastName:       "Doe",
			Email:          email,
			PasswordHashed: m.passwordHash,
		}, nil
	}
	return auth.User{}, appErrors.ErrorResponse{
		Code:    appErrors.ErrAuth,
		Message: "Invalid credentials",
	}
}

func (m *MockStorage) SaveSession(ctx context.Context, session auth.Session) error {
	m.savedSessions = append(m.savedSessions, session)
	return nil
}

func (m *MockStorage) CheckSession(ctx context.Context, token string) (int64, error) {
	if token == "session123" {
		return 7, nil
	}
	return 0, appErrors.ErrorResponse{
		Code:    appErrors.ErrAuth,
		Message: "Not authenticated",
	}
}

func (m *MockStorage) DeleteSession(ctx context.Context, token string) error {
	return nil
}

func (m *MockStorage) CreateAccount(ctx context.Context, account Account) (Account, error) {
	account.ID = 1
	return account, nil
}

func (m *MockStorage) GetAccounts(ctx context.Context, userID int64) ([]Account, error) {
	return []Account{
		{ID: 1, UserID: userID, Name: "Savings", Balance: decimal.RequireFromString("100.00")},
	}, nil
}

func (m *MockStorage) DeleteAccount(ctx context.Context, userID int64, accountID int64) error {
	if accountID != 1 {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "Account not found or does not belong to this user",
		}
	}
	return nil
}

// PostTransaction mirrors the real storages: account 1 holds 100.00 and the
// balance rule runs inside the storage call.
func (m *MockStorage) PostTransaction(ctx context.Context, t Transaction) (Transaction, decimal.Decimal, error) {
	if t.AccountID != 1 {
		return Transaction{}, decimal.Zero, appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "Account not found or does not belong to this user",
		}
	}

	newBalance, err := NewBalance(decimal.RequireFromString("100.00"), t.Type, t.Amount)
	if err != nil {
		return Transaction{}, decimal.Zero, err
	}

	t.ID = 55
	return t, newBalance, nil
}

func (m *MockStorage) GetFilteredTransactions(ctx context.Context, userID int64, filters *TransactionFilters, limit int, offset int) ([]Transaction, error) {
	return []Transaction{
		{
			ID:          55,
			UserID:      userID,
			AccountID:   1,
			Type:        TypeIncome,
			Amount:      decimal.RequireFromString("30.45"),
			Description: "Freelance",
			CreatedAt:   time.Now(),
		},
	}, nil
}

func (m *MockStorage) SummarizeTransactions(ctx context.Context, userID int64, filters *TransactionFilters) ([]SummaryRow, error) {
	if m.emptySummary {
		return nil, nil
	}
	return []SummaryRow{
		{Type: TypeExpense, Total: decimal.RequireFromString("40.00")},
		{Type: TypeIncome, Total: decimal.RequireFromString("130.45")},
	}, nil
}

func (m *MockStorage) ExportTransactions(ctx context.Context, userID int64, filters *TransactionFilters) ([]ExportRow, error) {
	if m.emptySummary {
		return nil, nil
	}
	return []ExportRow{
		{
			Type:        TypeIncome,
			Amount:      decimal.RequireFromString("30.45"),
			Date:        time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
			Description: "Freelance",
		},
	}, nil
}

func (m *MockStorage) GetStorageType() string {
	return "mock"
}

// Tests

func TestRegisterUser(t *testing.T) {
	mockStore := &MockStorage{}
	ft := &FinanceTracker{storage: mockStore}
	ctx := context.Background()

	tests := []struct {
		name        string
		input       auth.NewUser
		expectedMsg string
	}{
		{
			name:        "Fail - Missing fields",
			input:       auth.NewUser{FirstName: "John", Email: "john@example.com"},
			expectedMsg: "Please provide all required fields",
		},
		{
			name: "Fail - Invalid email",
			input: auth.NewUser{
				FirstName:     "John",
				LastName:      "Doe",
				Email:         "john-at-example",
				PasswordPlain: "secure123",
			},
			expectedMsg: "Invalid email format",
		},
		{
			name: "Fail - Short password",
			input: auth.NewUser{
				FirstName:     "John",
				LastName:      "Doe",
				Email:         "john@example.com",
				PasswordPlain: "short",
			},
			expectedMsg: "Password must be at least 8 characters",
		},
		{
			name: "Fail - Duplicate email",
			input: auth.NewUser{
				FirstName:     "John",
				LastName:      "Doe",
				Email:         "taken@example.com",
				PasswordPlain: "secure123",
			},
			expectedMsg: "Email already registered",
		},
		{
			name: "Success - Valid registration",
			input: auth.NewUser{
				FirstName:     "John",
				LastName:      "Doe",
				Email:         "john@example.com",
				PasswordPlain: "secure123",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := ft.RegisterUser(ctx, tt.input)

			if tt.expectedMsg != "" {
				if err == nil {
					t.Fatalf("Expected error containing %q, but got nil", tt.expectedMsg)
				}
				if !strings.Contains(err.Error(), tt.expectedMsg) {
					t.Errorf("Error message mismatch:\n Got:  %q\n Want: %q", err.Error(), tt.expectedMsg)
				}
				return
			}

			if err != nil {
				t.Fatalf("Expected success, but got error: %v", err)
			}
			if token == "" {
				t.Error("Expected a session token, got empty string")
			}
		})
	}
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("secure123")
	if err != nil {
		t.Fatalf("failed to hash test password: %v", err)
	}
	mockStore := &MockStorage{passwordHash: hash}
	ft := &FinanceTracker{storage: mockStore}
	ctx := context.Background()

	tests := []struct {
		name        string
		input       auth.Credentials
		expectedMsg string
	}{
		{
			name:        "Fail - Empty credentials",
			input:       auth.Credentials{},
			expectedMsg: "Please provide email and password",
		},
		{
			name:        "Fail - Unknown email",
			input:       auth.Credentials{Email: "stranger@example.com", PasswordPlain: "secure123"},
			expectedMsg: "Invalid credentials",
		},
		{
			name:        "Fail - Wrong password",
			input:       auth.Credentials{Email: "john@example.com", PasswordPlain: "wrongpass"},
			expectedMsg: "Invalid credentials",
		},
		{
			name:  "Success - Valid credentials",
			input: auth.Credentials{Email: "john@example.com", PasswordPlain: "secure123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := ft.Login(ctx, tt.input)

			if tt.expectedMsg != "" {
				if err == nil {
					t.Fatalf("Expected error containing %q, but got nil", tt.expectedMsg)
				}
				if !strings.Contains(err.Error(), tt.expectedMsg) {
					t.Errorf("Error message mismatch:\n Got:  %q\n Want: %q", err.Error(), tt.expectedMsg)
				}
				return
			}

			if err != nil {
				t.Fatalf("Expected success, but got error: %v", err)
			}
			if token == "" {
				t.Error("Expected a session token, got empty string")
			}
		})
	}
}

func TestCheckSession(t *testing.T) {
	mockStore := &MockStorage{}
	ft := &FinanceTracker{storage: mockStore}
	ctx := context.Background()

	userID, err := ft.CheckSession(ctx, "session123")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if userID != 7 {
		t.Errorf("Got user id %d, want 7", userID)
	}

	if _, err := ft.CheckSession(ctx, ""); err == nil {
		t.Error("Expected error for empty token, got nil")
	}
	if _, err := ft.CheckSession(ctx, "unknown"); err == nil {
		t.Error("Expected error for unknown token, got nil")
	}
}

func TestCreateAccount(t *testing.T) {
	mockStore := &MockStorage{}
	ft := &FinanceTracker{storage: mockStore}
	ctx := context.Background()

	tests := []struct {
		name        string
		accountName string
		balance     string
		expectedMsg string
	}{
		{
			name:        "Fail - Empty name",
			accountName: "",
			balance:     "100",
			expectedMsg: "Please provide accountName and balance",
		},
		{
			name:        "Fail - Negative balance",
			accountName: "Savings",
			balance:     "-10",
			expectedMsg: "Invalid balance value",
		},
		{
			name:        "Success - Valid account",
			accountName: "Savings",
			balance:     "250.50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account, err := ft.CreateAccount(ctx, 7, tt.accountName, tt.balance)

			if tt.expectedMsg != "" {
				if err == nil {
					t.Fatalf("Expected error containing %q, but got nil", tt.expectedMsg)
				}
				if !strings.Contains(err.Error(), tt.expectedMsg) {
					t.Errorf("Error message mismatch:\n Got:  %q\n Want: %q", err.Error(), tt.expectedMsg)
				}
				return
			}

			if err != nil {
				t.Fatalf("Expected success, but got error: %v", err)
			}
			if account.ID == 0 {
				t.Error("Expected account id to be assigned")
			}
		})
	}
}

func TestPostTransaction(t *testing.T) {
	mockStore := &MockStorage{}
	ft := &FinanceTracker{storage: mockStore}
	ctx := context.Background()

	tests := []struct {
		name            string
		input           NewTransactionRequest
		expectedMsg     string
		expectedBalance string
	}{
		{
			name:        "Fail - Malformed amount",
			input:       NewTransactionRequest{AccountID: 1, Type: TypeIncome, Amount: "abc", Description: "salary"},
			expectedMsg: "Invalid amount",
		},
		{
			name:        "Fail - Invalid type",
			input:       NewTransactionRequest{AccountID: 1, Type: "transfer", Amount: "10", Description: "salary"},
			expectedMsg: "Invalid transaction type",
		},
		{
			name:        "Fail - Empty description",
			input:       NewTransactionRequest{AccountID: 1, Type: TypeIncome, Amount: "10", Description: ""},
			expectedMsg: "Description is required",
		},
		{
			name:        "Fail - Long description",
			input:       NewTransactionRequest{AccountID: 1, Type: TypeIncome, Amount: "10", Description: strings.Repeat("A", 256)},
			expectedMsg: "should not exceed 255 characters",
		},
		{
			name:        "Fail - Long Thai description",
			input:       NewTransactionRequest{AccountID: 1, Type: TypeIncome, Amount: "10", Description: strings.Repeat("ก", 256)},
			expectedMsg: "should not exceed 255 characters",
		},
		{
			// 255 characters but 765 bytes; the limit counts characters.
			name:            "Success - Max-length Thai description",
			input:           NewTransactionRequest{AccountID: 1, Type: TypeIncome, Amount: "5", Description: strings.Repeat("ก", 255)},
			expectedBalance: "105.00",
		},
		{
			name:        "Fail - Negative income",
			input:       NewTransactionRequest{AccountID: 1, Type: TypeIncome, Amount: "-10", Description: "salary"},
			expectedMsg: "Income amount must be positive",
		},
		{
			name:        "Fail - Foreign account",
			input:       NewTransactionRequest{AccountID: 99, Type: TypeIncome, Amount: "10", Description: "salary"},
			expectedMsg: "Account not found or does not belong to this user",
		},
		{
			name:        "Fail - Insufficient balance",
			input:       NewTransactionRequest{AccountID: 1, Type: TypeExpense, Amount: "200", Description: "rent"},
			expectedMsg: "Insufficient balance",
		},
		{
			name:            "Success - Income",
			input:           NewTransactionRequest{AccountID: 1, Type: TypeIncome, Amount: "30.50", Description: "salary"},
			expectedBalance: "130.50",
		},
		{
			name:            "Success - Expense",
			input:           NewTransactionRequest{AccountID: 1, Type: TypeExpense, Amount: "40", Description: "groceries"},
			expectedBalance: "60.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ft.PostTransaction(ctx, 7, tt.input)

			if tt.expectedMsg != "" {
				if err == nil {
					t.Fatalf("Expected error containing %q, but got nil", tt.expectedMsg)
				}
				if !strings.Contains(err.Error(), tt.expectedMsg) {
					t.Errorf("Error message mismatch:\n Got:  %q\n Want: %q", err.Error(), tt.expectedMsg)
				}
				return
			}

			if err != nil {
				t.Fatalf("Expected success, but got error: %v", err)
			}
			if result.NewBalance.StringFixed(2) != tt.expectedBalance {
				t.Errorf("Got balance %s, want %s", result.NewBalance.StringFixed(2), tt.expectedBalance)
			}
			if result.Transaction.ID == 0 {
				t.Error("Expected transaction id to be assigned")
			}
		})
	}
}

func TestPostTransactionMasksDescription(t *testing.T) {
	mockStore := &MockStorage{}
	ft := &FinanceTracker{storage: mockStore}
	ctx := context.Background()

	result, err := ft.PostTransaction(ctx, 7, NewTransactionRequest{
		AccountID:   1,
		Type:        TypeExpense,
		Amount:      "10",
		Description: "ค่าเหี้ยอะไร",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Transaction.Description != "ค่า***อะไร" {
		t.Errorf("Description not sanitized, got %q", result.Transaction.Description)
	}
}

func TestGetFilteredTransactions(t *testing.T) {
	mockStore := &MockStorage{}
	ft := &FinanceTracker{storage: mockStore}
	ctx := context.Background()

	_, err := ft.GetFilteredTransactions(ctx, 7, nil, 1, 15)
	if err == nil || !strings.Contains(err.Error(), "Invalid limit value") {
		t.Errorf("Expected limit validation error, got: %v", err)
	}

	page, err := ft.GetFilteredTransactions(ctx, 7, nil, 1, 10)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(page.Items) != 1 {
		t.Errorf("Got %d transactions, want 1", len(page.Items))
	}
	if page.Limit != 10 || page.Page != 1 {
		t.Errorf("Got page %d limit %d, want page 1 limit 10", page.Page, page.Limit)
	}
}

func TestSummarize(t *testing.T) {
	ctx := context.Background()

	ft := NewFinanceTracker(&MockStorage{emptySummary: true})
	_, err := ft.Summarize(ctx, 7, nil)
	if err == nil || !strings.Contains(err.Error(), "No transactions found for the given criteria") {
		t.Errorf("Expected not-found error for empty summary, got: %v", err)
	}

	ft = NewFinanceTracker(&MockStorage{})
	rows, err := ft.Summarize(ctx, 7, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Got %d summary rows, want 2", len(rows))
	}
	if rows[0].Type != TypeExpense || rows[1].Type != TypeIncome {
		t.Errorf("Summary rows out of order: %+v", rows)
	}
}

func TestExportSummary(t *testing.T) {
	ctx := context.Background()
	ft := NewFinanceTracker(&MockStorage{})

	_, err := ft.ExportSummary(ctx, 7, nil, "pdf")
	if err == nil || !strings.Contains(err.Error(), "Invalid format specified") {
		t.Errorf("Expected format validation error, got: %v", err)
	}

	ft = NewFinanceTracker(&MockStorage{emptySummary: true})
	_, err = ft.ExportSummary(ctx, 7, nil, FormatCSV)
	if err == nil || !strings.Contains(err.Error(), "No transactions found for the given criteria") {
		t.Errorf("Expected not-found error for empty export, got: %v", err)
	}

	ft = NewFinanceTracker(&MockStorage{})
	file, err := ft.ExportSummary(ctx, 7, nil, FormatCSV)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if file.ContentType != "text/csv" || file.Filename != "transactions_summary.csv" {
		t.Errorf("Unexpected export metadata: %+v", file)
	}
	body := string(file.Content)
	if !strings.Contains(body, "TransactionType,Amount,TransactionDate,Description") {
		t.Errorf("CSV header missing, got: %q", body)
	}
	if !strings.Contains(body, "income,30.45,2025-03-01 10:00:00,Freelance") {
		t.Errorf("CSV row missing, got: %q", body)
	}
}
