package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	appErrors "github.com/fatali-fataliyev/finance_tracker/customErrors"
	"github.com/fatali-fataliyev/finance_tracker/internal/auth"
	"github.com/fatali-fataliyev/finance_tracker/internal/contextutil"
	"github.com/fatali-fataliyev/finance_tracker/internal/finance"
	"github.com/fatali-fataliyev/finance_tracker/logging"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
)

// --- INIT START --- //

func Init() (*sql.DB, error) {
	var db *sql.DB
	var err error
	var dbname string

	username := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASS")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	dbname = os.Getenv("DB_NAME")
	fullDsn := os.Getenv("FULL_DSN")

	if dbname == "" {
		dbname = "finance_tracker"
	}

	var adminDsn string
	if fullDsn != "" {
		parts := strings.Split(fullDsn, "/")
		adminDsn = strings.Join(parts[:len(parts)-1], "/") + "/"
	} else {
		if username == "" || password == "" || host == "" || port == "" {
			return nil, fmt.Errorf("missing required DB environment variables")
		}
		adminDsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/?parseTime=true", username, password, host, port)
	}

	logging.Logger.Info("Connecting to MySQL server for initialization...")
	adminDb, err := sql.Open("mysql", adminDsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open admin mysql handle: %v", err)
	}
	connected := false
	for i := 0; i < 15; i++ {
		if err := adminDb.Ping(); err == nil {
			connected = true
			break
		}
		logging.Logger.Warnf("Database not ready, retrying... (%d/15)", i+1)
		time.Sleep(3 * time.Second)
	}
	if !connected {
		return nil, fmt.Errorf("database unreachable after multiple attempts")
	}

	var dbnameExistence string
	checkDbnameExistQuery := "SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?"
	err = adminDb.QueryRow(checkDbnameExistQuery, dbname).Scan(&dbnameExistence)

	if err == sql.ErrNoRows {
		logging.Logger.Infof("Database '%s' does not exist, creating...", dbname)
		createDbSql := fmt.Sprintf("CREATE DATABASE `%s` CHARACTER SET utf8mb4 COLLATE utf8mb4_general_ci;", dbname)
		if _, err := adminDb.Exec(createDbSql); err != nil {
			adminDb.Close()
			return nil, fmt.Errorf("failed to create database: %v", err)
		}
	} else if err != nil {
		adminDb.Close()
		return nil, fmt.Errorf("failed to check database existence: %v", err)
	}

	adminDb.Close()

	var finalDsn string
	if fullDsn != "" {
		finalDsn = fullDsn
	} else {
		finalDsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", username, password, host, port, dbname)
	}

	logging.Logger.Info("Connecting to database...")
	db, err = sql.Open("mysql", finalDsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database handle: %v", err)
	}

	if _, err := db.Exec("SET GLOBAL time_zone = '+00:00'"); err != nil {
		logging.Logger.Warn("failed to set database timezone(UTC+0)")
	}

	logging.Logger.Info("Connected to database successfully")
	logging.Logger.Info("Running migrations...")

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	return db, nil
}

func runMigrations(db *sql.DB) error {
	migrationFiles, err := getMigrationFiles("db/migrations")
	if err != nil {
		return fmt.Errorf("failed to get migration files: %v", err)
	}

	lastAppliedMigration, err := getLastAppliedMigration(db)
	if err != nil {
		return fmt.Errorf("failed to get last applied migration name: %v", err)
	}

	newMigrations := filterNewMigrations(migrationFiles, lastAppliedMigration)

	if len(newMigrations) == 0 {
		logging.Logger.Info("no new migration")
		return nil
	}

	for _, migrationFile := range newMigrations {
		logging.Logger.Info("applying migration: ", migrationFile)
		migrationContent, err := os.ReadFile(filepath.Join("db/migrations/", migrationFile))
		if err != nil {
			return fmt.Errorf("failed to read this '%s' migration file, error: %v", migrationFile, err)
		}

		err = applyMigration(db, migrationFile, string(migrationContent))
		if err != nil {
			return fmt.Errorf("failed to apply this '%s' migration file, error: %v", migrationFile, err)
		}

	}

	logging.Logger.Info("all migrations applied successfully")
	return nil
}

func getMigrationFiles(dir string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var migrationFiles []string
	for _, file := range files {
		if file.IsDir() != true && strings.HasSuffix(file.Name(), ".sql") {
			migrationFiles = append(migrationFiles, file.Name())
		}
	}

	sort.Strings(migrationFiles)
	return migrationFiles, nil
}

func getLastAppliedMigration(db *sql.DB) (string, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS migration (
        id INT AUTO_INCREMENT PRIMARY KEY,
        migration_name VARCHAR(255) NOT NULL UNIQUE,
        applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );`)

	if err != nil {
		return "", err
	}

	var lastMigration string
	err = db.QueryRow("SELECT migration_name FROM migration ORDER BY migration_name DESC LIMIT 1").Scan(&lastMigration)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return lastMigration, err
}

func filterNewMigrations(all []string, lastApplied string) []string {
	if lastApplied == "" {
		return all
	}

	var result []string
	for _, migration := range all {
		if migration > lastApplied {
			result = append(result, migration)
		}
	}
	return result
}

func applyMigration(db *sql.DB, name, sqlContent string) error {
	txn, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	statements := strings.Split(sqlContent, ";")

	for _, statement := range statements {
		trimmedStmt := strings.TrimSpace(statement)
		if trimmedStmt == "" {
			continue
		}

		if _, err := txn.Exec(trimmedStmt); err != nil {
			txn.Rollback()
			return fmt.Errorf("migration statement failed: %w\nStatement: %s", err, trimmedStmt)
		}
	}

	if _, err := txn.Exec("INSERT INTO migration (migration_name) VALUES (?)", name); err != nil {
		txn.Rollback()
		return fmt.Errorf("failed to record migration name: %w", err)
	}

	return txn.Commit()
}

// --- INIT END --- //

type MySQLStorage struct {
	db *sql.DB
}

func NewMySQLStorage(db *sql.DB) *MySQLStorage {
	return &MySQLStorage{db: db}
}

func (mySql *MySQLStorage) SaveUser(ctx context.Context, user auth.User) (int64, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "INSERT INTO users (fname, lname, email, password) VALUES (?, ?, ?, ?);"
	result, err := mySql.db.ExecContext(ctx, query, user.FirstName, user.LastName, user.Email, user.PasswordHashed)
	if err != nil {
		if mysqlErr, ok := err.(*mysql.MySQLError); ok {
			if mysqlErr.Number == 1062 {
				return 0, appErrors.ErrorResponse{
					Code:    appErrors.ErrConflict,
					Message: "Email already registered",
				}
			}
		}

		logging.Logger.Errorf("[TraceID=%s] | failed to save user in Storage.SaveUser() function | Error: %v", traceID, err)
		return 0, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Registration failed, try again later.",
		}
	}

	userID, err := result.LastInsertId()
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get new user id in Storage.SaveUser() function | Error: %v", traceID, err)
		return 0, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Registration failed, try again later.",
		}
	}
	return userID, nil
}

func (mySql *MySQLStorage) GetUserByEmail(ctx context.Context, email string) (auth.User, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, fname, lname, email, password FROM users WHERE email = ?;"
	row := mySql.db.QueryRowContext(ctx, query, email)

	var user auth.User
	err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.PasswordHashed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.User{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrAuth,
				Message: "Invalid credentials",
			}
		}

		logging.Logger.Errorf("[TraceID=%s] | failed to scan user row in Storage.GetUserByEmail() function | Error: %v", traceID, err)
		return auth.User{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Login failed, try again later.",
		}
	}

	return user, nil
}

func (mySql *MySQLStorage) SaveSession(ctx context.Context, session auth.Session) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "INSERT INTO sessions (session_id, user_id, created_at, updated_at) VALUES (?, ?, ?, ?);"
	_, err := mySql.db.ExecContext(ctx, query, session.Token, session.UserID, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to save session in Storage.SaveSession() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to create session, try again later.",
		}
	}
	return nil
}

func (mySql *MySQLStorage) CheckSession(ctx context.Context, token string) (int64, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT user_id FROM sessions WHERE session_id = ?;"

	var userID int64
	err := mySql.db.QueryRowContext(ctx, query, token).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, appErrors.ErrorResponse{
				Code:    appErrors.ErrAuth,
				Message: "Not authenticated",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to check session existance in Storage.CheckSession() function | Error: %v", traceID, err)
		return 0, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to check session, please try again later.",
		}
	}

	return userID, nil
}

func (mySql *MySQLStorage) DeleteSession(ctx context.Context, token string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "DELETE FROM sessions WHERE session_id = ?;"
	_, err := mySql.db.ExecContext(ctx, query, token)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to delete session in Storage.DeleteSession() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to logout, try again later.",
		}
	}

	return nil
}

func (mySql *MySQLStorage) CreateAccount(ctx context.Context, account finance.Account) (finance.Account, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "INSERT INTO accounts (user_id, account_name, balance) VALUES (?, ?, ?);"
	result, err := mySql.db.ExecContext(ctx, query, account.UserID, account.Name, account.Balance.StringFixed(2))
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to save account in Storage.CreateAccount() function | Error: %v", traceID, err)
		return finance.Account{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to create account, try again later.",
		}
	}

	accountID, err := result.LastInsertId()
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get new account id in Storage.CreateAccount() function | Error: %v", traceID, err)
		return finance.Account{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to create account, try again later.",
		}
	}

	account.ID = accountID
	return account, nil
}

func (mySql *MySQLStorage) GetAccounts(ctx context.Context, userID int64) ([]finance.Account, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT account_id, user_id, account_name, balance FROM accounts WHERE user_id = ? ORDER BY account_id;"
	rows, err := mySql.db.QueryContext(ctx, query, userID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get accounts in Storage.GetAccounts() function | Error: %v", traceID, err)
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to get accounts, try again later.",
		}
	}
	defer rows.Close()

	var accounts []finance.Account
	for rows.Next() {
		var dbA dbAccount

		if err := rows.Scan(&dbA.ID, &dbA.UserID, &dbA.Name, &dbA.Balance); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan account row in Storage.GetAccounts() function | Error: %v", traceID, err)
			return nil, appErrors.ErrorResponse{
				Code:    appErrors.ErrInternal,
				Message: "Failed to get accounts, try again later.",
			}
		}

		account, err := dbA.toDomain()
		if err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to parse balance in Storage.GetAccounts() function | Error: %v", traceID, err)
			return nil, appErrors.ErrorResponse{
				Code:    appErrors.ErrInternal,
				Message: "Failed to get accounts, try again later.",
			}
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to iterate account rows in Storage.GetAccounts() function | Error: %v", traceID, err)
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to get accounts, try again later.",
		}
	}

	return accounts, nil
}

// DeleteAccount removes the account and its transactions in one SQL
// transaction. The ownership check and the delete share the row lock so a
// concurrent post cannot slip between them.
func (mySql *MySQLStorage) DeleteAccount(ctx context.Context, userID int64, accountID int64) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	tx, err := mySql.db.BeginTx(ctx, nil)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to start SQL transaction in Storage.DeleteAccount() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to delete account, try again later.",
		}
	}
	defer tx.Rollback()

	var lockedID int64
	lockQuery := "SELECT account_id FROM accounts WHERE account_id = ? AND user_id = ? FOR UPDATE;"
	err = tx.QueryRowContext(ctx, lockQuery, accountID, userID).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrNotFound,
				Message: "Account not found or does not belong to this user",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to lock account row in Storage.DeleteAccount() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to delete account, try again later.",
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM transactions WHERE account_id = ?;", accountID); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to delete account transactions in Storage.DeleteAccount() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to delete account, try again later.",
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM accounts WHERE account_id = ?;", accountID); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to delete account in Storage.DeleteAccount() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to delete account, try again later.",
		}
	}

	if err := tx.Commit(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to commit SQL transaction in Storage.DeleteAccount() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to delete account, try again later.",
		}
	}

	return nil
}

// PostTransaction applies the balance change and records the transaction as
// one unit. The SELECT ... FOR UPDATE serializes concurrent posts against the
// same account; posts against different accounts do not block each other.
func (mySql *MySQLStorage) PostTransaction(ctx context.Context, t finance.Transaction) (finance.Transaction, decimal.Decimal, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	tx, err := mySql.db.BeginTx(ctx, nil)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to start SQL transaction in Storage.PostTransaction() function | Error: %v", traceID, err)
		return finance.Transaction{}, decimal.Zero, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to save transaction, try again later.",
		}
	}
	defer tx.Rollback()

	var balanceRaw string
	lockQuery := "SELECT balance FROM accounts WHERE account_id = ? AND user_id = ? FOR UPDATE;"
	err = tx.QueryRowContext(ctx, lockQuery, t.AccountID, t.UserID).Scan(&balanceRaw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return finance.Transaction{}, decimal.Zero, appErrors.ErrorResponse{
				Code:    appErrors.ErrNotFound,
				Message: "Account not found or does not belong to this user",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to lock account row in Storage.PostTransaction() function | Error: %v", traceID, err)
		return finance.Transaction{}, decimal.Zero, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to save transaction, try again later.",
		}
	}

	currentBalance, err := decimal.NewFromString(balanceRaw)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to parse balance in Storage.PostTransaction() function | Error: %v", traceID, err)
		return finance.Transaction{}, decimal.Zero, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to save transaction, try again later.",
		}
	}

	newBalance, err := finance.NewBalance(currentBalance, t.Type, t.Amount)
	if err != nil {
		return finance.Transaction{}, decimal.Zero, err
	}

	updateQuery := "UPDATE accounts SET balance = ? WHERE account_id = ?;"
	if _, err := tx.ExecContext(ctx, updateQuery, newBalance.StringFixed(2), t.AccountID); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to update balance in Storage.PostTransaction() function | Error: %v", traceID, err)
		return finance.Transaction{}, decimal.Zero, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to save transaction, try again later.",
		}
	}

	insertQuery := `INSERT INTO transactions
		(user_id, account_id, amount, transaction_date, transaction_type, description, transaction_slip)
		VALUES (?, ?, ?, ?, ?, ?, ?);`
	result, err := tx.ExecContext(ctx, insertQuery,
		t.UserID, t.AccountID, t.Amount.StringFixed(2), t.CreatedAt, t.Type, t.Description, NilToNullString(emptyToNil(t.SlipRef)))
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to insert transaction in Storage.PostTransaction() function | Error: %v", traceID, err)
		return finance.Transaction{}, decimal.Zero, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to save transaction, try again later.",
		}
	}

	transactionID, err := result.LastInsertId()
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get new transaction id in Storage.PostTransaction() function | Error: %v", traceID, err)
		return finance.Transaction{}, decimal.Zero, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to save transaction, try again later.",
		}
	}

	if err := tx.Commit(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to commit SQL transaction in Storage.PostTransaction() function | Error: %v", traceID, err)
		return finance.Transaction{}, decimal.Zero, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to save transaction, try again later.",
		}
	}

	t.ID = transactionID
	return t, newBalance, nil
}

func appendTransactionFilters(query string, args []interface{}, filters *finance.TransactionFilters) (string, []interface{}) {
	if filters == nil {
		return query, args
	}

	if filters.AccountID != nil {
		query += " AND account_id = ?"
		args = append(args, *filters.AccountID)
	}

	if filters.Type != "" {
		query += " AND transaction_type = ?"
		args = append(args, filters.Type)
	}

	if !filters.StartDate.IsZero() {
		query += " AND transaction_date >= ?"
		args = append(args, filters.StartDate)
	}

	if !filters.EndDate.IsZero() {
		query += " AND transaction_date <= ?"
		args = append(args, filters.EndDate)
	}

	return query, args
}

func (mySql *MySQLStorage) GetFilteredTransactions(ctx context.Context, userID int64, filters *finance.TransactionFilters, limit int, offset int) ([]finance.Transaction, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT transaction_id, user_id, account_id, amount, transaction_date, transaction_type, description, transaction_slip FROM transactions WHERE user_id = ?"
	args := []interface{}{userID}

	query, args = appendTransactionFilters(query, args, filters)

	query += " ORDER BY transaction_date DESC, transaction_id DESC LIMIT ? OFFSET ?;"
	args = append(args, limit, offset)

	rows, err := mySql.db.QueryContext(ctx, query, args...)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get filtered transactions from Storage.GetFilteredTransactions() function | Error: %v", traceID, err)
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to get transactions, try again later.",
		}
	}

	return mySql.processTransactionRows(ctx, rows)
}

func (mySql *MySQLStorage) processTransactionRows(ctx context.Context, rows *sql.Rows) ([]finance.Transaction, error) {
	traceID := contextutil.TraceIDFromContext(ctx)
	defer rows.Close()

	var transactions []finance.Transaction

	for rows.Next() {
		var dbT dbTransaction

		err := rows.Scan(&dbT.ID, &dbT.UserID, &dbT.AccountID, &dbT.Amount, &dbT.Date, &dbT.Type, &dbT.Description, &dbT.Slip)
		if err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan row in Storage.processTransactionRows() | Error: %v", traceID, err)
			return nil, appErrors.ErrorResponse{
				Code:    appErrors.ErrInternal,
				Message: "Failed to process transactions, try again later.",
			}
		}

		transaction, err := dbT.toDomain()
		if err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to parse amount in Storage.processTransactionRows() | Error: %v", traceID, err)
			return nil, appErrors.ErrorResponse{
				Code:    appErrors.ErrInternal,
				Message: "Failed to process transactions, try again later.",
			}
		}
		transactions = append(transactions, transaction)
	}

	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to iterate rows in Storage.processTransactionRows() | Error: %v", traceID, err)
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to process transactions, try again later.",
		}
	}

	return transactions, nil
}

func (mySql *MySQLStorage) SummarizeTransactions(ctx context.Context, userID int64, filters *finance.TransactionFilters) ([]finance.SummaryRow, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT transaction_type, SUM(amount) AS total FROM transactions WHERE user_id = ?"
	args := []interface{}{userID}

	query, args = appendTransactionFilters(query, args, filters)
	query += " GROUP BY transaction_type ORDER BY transaction_type;"

	rows, err := mySql.db.QueryContext(ctx, query, args...)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to summarize transactions in Storage.SummarizeTransactions() function | Error: %v", traceID, err)
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to summarize transactions, try again later.",
		}
	}
	defer rows.Close()

	var summary []finance.SummaryRow
	for rows.Next() {
		var transactionType string
		var totalRaw string

		if err := rows.Scan(&transactionType, &totalRaw); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan summary row in Storage.SummarizeTransactions() function | Error: %v", traceID, err)
			return nil, appErrors.ErrorResponse{
				Code:    appErrors.ErrInternal,
				Message: "Failed to summarize transactions, try again later.",
			}
		}

		total, err := decimal.NewFromString(totalRaw)
		if err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to parse total in Storage.SummarizeTransactions() function | Error: %v", traceID, err)
			return nil, appErrors.ErrorResponse{
				Code:    appErrors.ErrInternal,
				Message: "Failed to summarize transactions, try again later.",
			}
		}

		summary = append(summary, finance.SummaryRow{Type: transactionType, Total: total})
	}

	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to iterate summary rows in Storage.SummarizeTransactions() function | Error: %v", traceID, err)
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to summarize transactions, try again later.",
		}
	}

	return summary, nil
}

func (mySql *MySQLStorage) ExportTransactions(ctx context.Context, userID int64, filters *finance.TransactionFilters) ([]finance.ExportRow, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT transaction_type, amount, transaction_date, description FROM transactions WHERE user_id = ?"
	args := []interface{}{userID}

	query, args = appendTransactionFilters(query, args, filters)
	query += " ORDER BY transaction_date ASC, transaction_id ASC;"

	rows, err := mySql.db.QueryContext(ctx, query, args...)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get export rows in Storage.ExportTransactions() function | Error: %v", traceID, err)
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to export transactions, try again later.",
		}
	}
	defer rows.Close()

	var exportRows []finance.ExportRow
	for rows.Next() {
		var row finance.ExportRow
		var amountRaw string

		if err := rows.Scan(&row.Type, &amountRaw, &row.Date, &row.Description); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan export row in Storage.ExportTransactions() function | Error: %v", traceID, err)
			return nil, appErrors.ErrorResponse{
				Code:    appErrors.ErrInternal,
				Message: "Failed to export transactions, try again later.",
			}
		}

		row.Amount, err = decimal.NewFromString(amountRaw)
		if err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to parse amount in Storage.ExportTransactions() function | Error: %v", traceID, err)
			return nil, appErrors.ErrorResponse{
				Code:    appErrors.ErrInternal,
				Message: "Failed to export transactions, try again later.",
			}
		}

		exportRows = append(exportRows, row)
	}

	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to iterate export rows in Storage.ExportTransactions() function | Error: %v", traceID, err)
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to export transactions, try again later.",
		}
	}

	return exportRows, nil
}

func NilToNullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{Valid: true, String: *v}
}

func emptyToNil(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func (mySql *MySQLStorage) GetStorageType() string {
	return "MySQL"
}
