package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/jpbaz28/Banking-API/docs"
	"github.com/jpbaz28/Banking-API/internal/api/handler"
	"github.com/jpbaz28/Banking-API/internal/api/middleware"
	"github.com/jpbaz28/Banking-API/internal/core/repository"
	"github.com/jpbaz28/Banking-API/internal/core/service"
	"github.com/jpbaz28/Banking-API/internal/metrics"
	"github.com/jpbaz28/Banking-API/pkg/config"
)

type Server struct {
	router *gin.Engine
	srv    *http.Server
	config *config.Config
	logger zerolog.Logger
}

// NewServer creates a new API server
func NewServer(
	cfg *config.Config,
	logger zerolog.Logger,
	authService *service.AuthService,
	clientService *service.ClientService,
	accountService *service.AccountService,
	cleanupService *service.CleanupService,
	idempotencyRepo repository.IdempotencyRepository,
) *Server {
	// Set Gin mode
	if !cfg.IsDevMode() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Metrics())
	router.Use(middleware.ErrorHandlerMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	if cfg.RateLimitRPS > 0 {
		router.Use(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Handler())
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	clientHandler := handler.NewClientHandler(clientService)
	accountHandler := handler.NewAccountHandler(accountService)
	credentialHandler := handler.NewCredentialHandler(authService)
	cleanupHandler := handler.NewCleanupHandler(cleanupService)

	// Public routes (no auth required)
	auth := router.Group("/auth")
	{
		auth.POST("/authorize", authHandler.Authorize)
		auth.POST("/token", authHandler.Token)
	}

	// Protected routes. With auth disabled RequireScope lets everything through.
	var protected []gin.HandlerFunc
	if cfg.AuthEnabled {
		protected = append(protected, middleware.AuthMiddleware(authService))
	}
	read := middleware.RequireScope(middleware.ScopeClientsRead)
	write := middleware.RequireScope(middleware.ScopeClientsWrite)
	admin := middleware.RequireScope(middleware.ScopeAdmin)
	idempotent := middleware.Idempotency(idempotencyRepo, cfg.IdempotencyTTL)

	// Clients and their accounts
	clients := router.Group("/clients", protected...)
	{
		clients.GET("", read, clientHandler.ListClients)
		clients.POST("", write, idempotent, clientHandler.CreateClient)
		clients.GET("/:id", read, clientHandler.GetClient)
		clients.PUT("/:id", write, clientHandler.ReplaceClient)
		clients.DELETE("/:id", write, clientHandler.DeleteClient)

		clients.GET("/:id/accounts", read, accountHandler.ListAccounts)
		clients.POST("/:id/accounts", write, idempotent, accountHandler.AddAccount)
		clients.PATCH("/:id/accounts/:name/deposit", write, idempotent, accountHandler.Deposit)
		clients.PATCH("/:id/accounts/:name/withdraw", write, idempotent, accountHandler.Withdraw)
		clients.GET("/:id/ledger", read, accountHandler.ListLedger)
	}

	// Machine credentials
	credentials := router.Group("/credentials", protected...)
	credentials.Use(admin)
	{
		credentials.POST("", credentialHandler.CreateCredential)
		credentials.GET("", credentialHandler.ListCredentials)
		credentials.PUT("/:id", credentialHandler.UpdateCredential)
		credentials.DELETE("/:id", credentialHandler.DeleteCredential)
	}

	// Cleanup
	cleanup := router.Group("/cleanup", protected...)
	cleanup.POST("", admin, cleanupHandler.Cleanup)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return &Server{
		router: router,
		config: cfg,
		logger: logger.With().Str("component", "api").Logger(),
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := s.config.ListenAddr()

	s.srv = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	// Start with or without SSL
	if s.config.SSLCert != "" && s.config.SSLKey != "" {
		s.logger.Info().Str("addr", addr).Msg("starting HTTPS server")
		return s.srv.ListenAndServeTLS(s.config.SSLCert, s.config.SSLKey)
	}

	s.logger.Info().Str("addr", addr).Msg("starting HTTP server")
	return s.srv.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}
