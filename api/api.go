package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	appErrors "github.com/fatali-fataliyev/finance_tracker/customErrors"
	"github.com/fatali-fataliyev/finance_tracker/internal/auth"
	"github.com/fatali-fataliyev/finance_tracker/internal/contextutil"
	"github.com/fatali-fataliyev/finance_tracker/internal/finance"
	"github.com/fatali-fataliyev/finance_tracker/internal/uploads"
	"github.com/fatali-fataliyev/finance_tracker/logging"
	"github.com/google/uuid"
)

const sessionCookieName = "sessionId"

// Session cookie lifetime in seconds. The server keeps the session row until
// logout; only the cookie expires.
const sessionCookieMaxAge = 3600

type Api struct {
	Service       *finance.FinanceTracker
	Uploads       *uploads.DiskStore
	SecureCookies bool
}

func NewApi(service *finance.FinanceTracker, uploadStore *uploads.DiskStore, secureCookies bool) *Api {
	return &Api{
		Service:       service,
		Uploads:       uploadStore,
		SecureCookies: secureCookies,
	}
}

func requestContext(r *http.Request) context.Context {
	return contextutil.WithTraceID(r.Context(), uuid.New().String())
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Logger.Errorf("failed to encode response body: %v", err)
	}
}

func respondError(w http.ResponseWriter, err error) {
	var appErr appErrors.ErrorResponse
	if !errors.As(err, &appErr) || appErr.Code == appErrors.ErrInternal {
		logging.Logger.Errorf("request failed: %v", err)
		respondJSON(w, 500, ErrorResponse{Error: "Internal server error"})
		return
	}
	respondJSON(w, httpStatusFromError(err), ErrorResponse{Error: appErr.Message})
}

func (api *Api) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		Secure:   api.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (api *Api) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   api.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// userFromRequest resolves the session cookie to a user id. A missing cookie
// and an unknown token produce the same 401.
func (api *Api) userFromRequest(r *http.Request) (int64, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return 0, appErrors.ErrorResponse{
			Code:    appErrors.ErrAuth,
			Message: "Not authenticated",
		}
	}
	return api.Service.CheckSession(requestContext(r), cookie.Value)
}

func (api *Api) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var registerReq RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&registerReq); err != nil {
		respondJSON(w, 400, ErrorResponse{Error: "Invalid request body"})
		return
	}

	newUser := auth.NewUser{
		FirstName:     registerReq.FirstName,
		LastName:      registerReq.LastName,
		Email:         registerReq.Email,
		PasswordPlain: registerReq.Password,
	}

	token, err := api.Service.RegisterUser(requestContext(r), newUser)
	if err != nil {
		respondError(w, err)
		return
	}

	api.setSessionCookie(w, token)
	respondJSON(w, 201, MessageResponse{Message: "Registration Completed"})
}

func (api *Api) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var loginReq LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		respondJSON(w, 400, ErrorResponse{Error: "Invalid request body"})
		return
	}

	credentials := auth.Credentials{
		Email:         loginReq.Email,
		PasswordPlain: loginReq.Password,
	}

	token, err := api.Service.Login(requestContext(r), credentials)
	if err != nil {
		respondError(w, err)
		return
	}

	api.setSessionCookie(w, token)
	respondJSON(w, 200, MessageResponse{Message: "You've logged in successfully!"})
}

func (api *Api) LogoutUserHandler(w http.ResponseWriter, r *http.Request) {
	token := ""
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		token = cookie.Value
	}

	if err := api.Service.Logout(requestContext(r), token); err != nil {
		respondError(w, err)
		return
	}

	api.clearSessionCookie(w)
	respondJSON(w, 200, MessageResponse{Message: "Logout successful."})
}

func (api *Api) CreateAccountHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := api.userFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var accountReq CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&accountReq); err != nil {
		respondJSON(w, 400, ErrorResponse{Error: "Invalid request body"})
		return
	}

	if accountReq.AccountName == "" || accountReq.Balance.String() == "" {
		respondJSON(w, 400, ErrorResponse{Error: "Please provide accountName and balance"})
		return
	}

	account, err := api.Service.CreateAccount(requestContext(r), userID, accountReq.AccountName, accountReq.Balance.String())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, 201, AccountToHttp(account))
}

func (api *Api) GetAccountsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := api.userFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	accounts, err := api.Service.GetAccounts(requestContext(r), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	accountsForHttp := make([]AccountItem, 0, len(accounts))
	for _, account := range accounts {
		accountsForHttp = append(accountsForHttp, AccountToHttp(account))
	}
	respondJSON(w, 200, ListAccountsResponse{Accounts: accountsForHttp})
}

func (api *Api) DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := api.userFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	accountID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondJSON(w, 400, ErrorResponse{Error: "Invalid accountId value"})
		return
	}

	if err := api.Service.DeleteAccount(requestContext(r), userID, accountID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, 200, MessageResponse{Message: "Account deleted successfully"})
}

// SaveTransactionHandler accepts JSON or multipart form data. The multipart
// form may carry a "slip" file, stored on disk and referenced by name.
func (api *Api) SaveTransactionHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := api.userFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var transactionReq finance.NewTransactionRequest
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		transactionReq, err = api.parseMultipartTransaction(r)
		if err != nil {
			respondError(w, err)
			return
		}
	} else {
		var jsonReq CreateTransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&jsonReq); err != nil {
			respondJSON(w, 400, ErrorResponse{Error: "Invalid request body"})
			return
		}

		accountID, err := strconv.ParseInt(jsonReq.AccountID.String(), 10, 64)
		if err != nil {
			respondJSON(w, 400, ErrorResponse{Error: "Invalid accountId value"})
			return
		}

		transactionReq = finance.NewTransactionRequest{
			AccountID:   accountID,
			Type:        jsonReq.Type,
			Amount:      jsonReq.Amount.String(),
			Description: jsonReq.Description,
		}
	}

	result, err := api.Service.PostTransaction(requestContext(r), userID, transactionReq)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, 201, PostTransactionResponse{
		Message:     "Transaction created successfully",
		Transaction: TransactionToHttp(result.Transaction),
		NewBalance:  result.NewBalance.StringFixed(2),
	})
}

func (api *Api) parseMultipartTransaction(r *http.Request) (finance.NewTransactionRequest, error) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		return finance.NewTransactionRequest{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Invalid request body",
		}
	}

	accountID, err := strconv.ParseInt(r.FormValue("accountId"), 10, 64)
	if err != nil {
		return finance.NewTransactionRequest{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Invalid accountId value",
		}
	}

	transactionReq := finance.NewTransactionRequest{
		AccountID:   accountID,
		Type:        r.FormValue("transactionType"),
		Amount:      r.FormValue("amount"),
		Description: r.FormValue("description"),
	}

	file, header, err := r.FormFile("slip")
	if err == http.ErrMissingFile {
		return transactionReq, nil
	}
	if err != nil {
		return finance.NewTransactionRequest{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Invalid slip file",
		}
	}
	defer file.Close()

	slipRef, err := api.Uploads.Save(file, header.Filename)
	if err != nil {
		logging.Logger.Errorf("failed to store slip file: %v", err)
		return finance.NewTransactionRequest{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to store slip file, try again later.",
		}
	}
	transactionReq.SlipRef = slipRef

	return transactionReq, nil
}

// DownloadSlipHandler streams a stored slip back by the reference returned
// when the transaction was created. Stored names are random, so possession of
// the name plus a valid session is the access check.
func (api *Api) DownloadSlipHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := api.userFromRequest(r); err != nil {
		respondError(w, err)
		return
	}

	file, err := api.Uploads.Open(r.PathValue("name"))
	if err != nil {
		respondError(w, appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "Slip not found",
		})
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", r.PathValue("name")))
	w.WriteHeader(200)
	if _, err := io.Copy(w, file); err != nil {
		logging.Logger.Errorf("failed to write slip body: %v", err)
	}
}

func (api *Api) GetFilteredTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := api.userFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	filters, page, limit, err := ListValidateParams(r.URL.Query())
	if err != nil {
		respondError(w, err)
		return
	}

	transactionPage, err := api.Service.GetFilteredTransactions(requestContext(r), userID, filters, page, limit)
	if err != nil {
		respondError(w, err)
		return
	}

	transactionsForHttp := make([]TransactionItem, 0, len(transactionPage.Items))
	for _, transaction := range transactionPage.Items {
		transactionsForHttp = append(transactionsForHttp, TransactionToHttp(transaction))
	}
	respondJSON(w, 200, ListTransactionsResponse{
		Transactions: transactionsForHttp,
		Page:         transactionPage.Page,
		Limit:        transactionPage.Limit,
	})
}

func (api *Api) GetSummaryHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := api.userFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	filters, err := FilterValidateParams(r.URL.Query())
	if err != nil {
		respondError(w, err)
		return
	}

	summary, err := api.Service.Summarize(requestContext(r), userID, filters)
	if err != nil {
		respondError(w, err)
		return
	}

	summaryForHttp := make([]SummaryItem, 0, len(summary))
	for _, row := range summary {
		summaryForHttp = append(summaryForHttp, SummaryItem{
			Type:  row.Type,
			Total: row.Total.StringFixed(2),
		})
	}
	respondJSON(w, 200, SummaryResponse{Summary: summaryForHttp})
}

func (api *Api) ExportSummaryHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := api.userFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	filters, err := FilterValidateParams(r.URL.Query())
	if err != nil {
		respondError(w, err)
		return
	}

	format := r.URL.Query().Get("format")
	file, err := api.Service.ExportSummary(requestContext(r), userID, filters, format)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.WriteHeader(200)
	if _, err := w.Write(file.Content); err != nil {
		logging.Logger.Errorf("failed to write export body: %v", err)
	}
}
