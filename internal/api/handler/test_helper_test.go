package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jpbaz28/Banking-API/internal/api/dto"
	"github.com/jpbaz28/Banking-API/internal/api/middleware"
	"github.com/jpbaz28/Banking-API/internal/core/service"
	"github.com/jpbaz28/Banking-API/internal/infrastructure/sqlite"
)

// testEnv holds all test dependencies
type testEnv struct {
	db             *sqlite.DB
	router         *gin.Engine
	authService    *service.AuthService
	clientService  *service.ClientService
	accountService *service.AccountService
}

// setupTestEnv creates a test environment with in-memory SQLite database
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := zerolog.Nop()
	clientRepo := sqlite.NewClientRepository(db)
	ledgerRepo := sqlite.NewLedgerRepository(db)
	idempotencyRepo := sqlite.NewIdempotencyRepository(db)
	authCodeRepo := sqlite.NewAuthCodeRepository(db)

	authService := service.NewAuthService(
		sqlite.NewUserRepository(db),
		sqlite.NewCredentialRepository(db),
		authCodeRepo,
		"test-secret",
		"HS256",
	)
	clientService := service.NewClientService(clientRepo, 3, logger)
	accountService := service.NewAccountService(clientRepo, ledgerRepo, nil, 3, logger)
	cleanupService := service.NewCleanupService(authCodeRepo, idempotencyRepo, ledgerRepo, 0, logger)

	clientHandler := NewClientHandler(clientService)
	accountHandler := NewAccountHandler(accountService)
	authHandler := NewAuthHandler(authService)
	credentialHandler := NewCredentialHandler(authService)
	cleanupHandler := NewCleanupHandler(cleanupService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandlerMiddleware())

	// Register routes without auth middleware
	idempotent := middleware.Idempotency(idempotencyRepo, time.Hour)
	router.POST("/auth/authorize", authHandler.Authorize)
	router.POST("/auth/token", authHandler.Token)
	router.GET("/clients", clientHandler.ListClients)
	router.POST("/clients", idempotent, clientHandler.CreateClient)
	router.GET("/clients/:id", clientHandler.GetClient)
	router.PUT("/clients/:id", clientHandler.ReplaceClient)
	router.DELETE("/clients/:id", clientHandler.DeleteClient)
	router.GET("/clients/:id/accounts", accountHandler.ListAccounts)
	router.POST("/clients/:id/accounts", idempotent, accountHandler.AddAccount)
	router.PATCH("/clients/:id/accounts/:name/deposit", idempotent, accountHandler.Deposit)
	router.PATCH("/clients/:id/accounts/:name/withdraw", idempotent, accountHandler.Withdraw)
	router.GET("/clients/:id/ledger", accountHandler.ListLedger)
	router.POST("/credentials", credentialHandler.CreateCredential)
	router.GET("/credentials", credentialHandler.ListCredentials)
	router.PUT("/credentials/:id", credentialHandler.UpdateCredential)
	router.DELETE("/credentials/:id", credentialHandler.DeleteCredential)
	router.POST("/cleanup", cleanupHandler.Cleanup)

	return &testEnv{
		db:             db,
		router:         router,
		authService:    authService,
		clientService:  clientService,
		accountService: accountService,
	}
}

// request performs a request with an optional JSON body and extra headers
func (env *testEnv) request(t *testing.T, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// makeRequest performs a GET request and returns the response
func (env *testEnv) makeRequest(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	return env.request(t, http.MethodGet, path, nil)
}

// createClient posts a client and returns the decoded response
func (env *testEnv) createClient(t *testing.T, body string) dto.ClientResponse {
	t.Helper()

	w := env.request(t, http.MethodPost, "/clients", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create client: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	return parse[dto.ClientResponse](t, w)
}

// parse decodes the response body into T
func parse[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var resp T
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v\nBody: %s", err, w.Body.String())
	}
	return resp
}

// parseErrorResponse parses the response body into ErrorResponse
func parseErrorResponse(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	return parse[dto.ErrorResponse](t, w)
}

// amountOf returns the balance of the first account called name
func amountOf(t *testing.T, client dto.ClientResponse, name string) decimal.Decimal {
	t.Helper()

	for _, account := range client.Accounts {
		if account.Name == name {
			return account.Amount
		}
	}
	t.Fatalf("client %s has no account %q", client.ID, name)
	return decimal.Zero
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
