package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/fatali-fataliyev/finance_tracker/api"
	"github.com/fatali-fataliyev/finance_tracker/internal/finance"
	"github.com/fatali-fataliyev/finance_tracker/internal/storage"
	"github.com/fatali-fataliyev/finance_tracker/internal/uploads"
	"github.com/fatali-fataliyev/finance_tracker/logging"
	"github.com/rs/cors"
)

var ft finance.FinanceTracker // Global

var corsConf = cors.New(cors.Options{
	AllowedOrigins:   []string{"*"},
	AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	AllowedHeaders:   []string{"Content-Type"},
	AllowCredentials: true,
})

func main() {
	if err := logging.Init("debug"); err != nil {
		fmt.Println("failed to initialize logger: %w", err)
		return
	}

	logging.Logger.Info("application starting...")

	db, err := storage.Init()
	if err != nil {
		logging.Logger.Errorf("failed to initialize database: %v", err)
		return
	}

	storageInstance := storage.NewMySQLStorage(db)
	if storageInstance == nil {
		logging.Logger.Errorf("failed to create instance of database: %v", err)
		return
	}

	ft = finance.NewFinanceTracker(storageInstance)

	uploadsDir := os.Getenv("UPLOAD_DIR")
	if uploadsDir == "" {
		uploadsDir = "./uploads"
	}
	uploadStore, err := uploads.NewDiskStore(uploadsDir)
	if err != nil {
		logging.Logger.Errorf("failed to initialize uploads store: %v", err)
		return
	}

	server := http.NewServeMux()
	api := api.NewApi(&ft, uploadStore, os.Getenv("APP_ENV") == "production")

	// AUTH ENDPOINTS.
	server.HandleFunc("POST /api/auth/register", api.RegisterUserHandler) // Create User
	server.HandleFunc("POST /api/auth/login", api.LoginUserHandler)       // Login User
	server.HandleFunc("POST /api/auth/logout", api.LogoutUserHandler)     // Logout User

	// ACCOUNT ENDPOINTS.
	server.HandleFunc("POST /api/accounts", api.CreateAccountHandler)        // Create Account
	server.HandleFunc("GET /api/accounts", api.GetAccountsHandler)           // List Accounts
	server.HandleFunc("DELETE /api/accounts/{id}", api.DeleteAccountHandler) // Delete Account with its transactions

	// TRANSACTION ENDPOINTS.
	server.HandleFunc("POST /api/transactions", api.SaveTransactionHandler)          // Create Transaction
	server.HandleFunc("GET /api/transactions", api.GetFilteredTransactionsHandler)   // Get Transactions with filters
	server.HandleFunc("GET /api/transactions/slips/{name}", api.DownloadSlipHandler) // Download a stored slip

	// SUMMARY ENDPOINTS.
	server.HandleFunc("GET /api/summary", api.GetSummaryHandler)           // Totals grouped by transaction type
	server.HandleFunc("GET /api/summary/export", api.ExportSummaryHandler) // Download transactions as csv/excel/json

	port := os.Getenv("APP_PORT")
	if port == "" {
		logging.Logger.Info("APP_PORT environment variable not set, using default port 8080")
		port = "8080"
	}
	fmt.Println("Starting server on port: ", port)
	handlerwithCors := corsConf.Handler(server)
	err = http.ListenAndServe(":"+port, handlerwithCors) // Start the server
	if err != nil {
		logging.Logger.Errorf("failed to start server: %v", err)
		return
	}
}
