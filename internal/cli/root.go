package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jpbaz28/Banking-API/internal/core/repository"
	"github.com/jpbaz28/Banking-API/internal/core/service"
	"github.com/jpbaz28/Banking-API/internal/infrastructure/clientstore"
	"github.com/jpbaz28/Banking-API/internal/infrastructure/rabbitmq"
	"github.com/jpbaz28/Banking-API/internal/infrastructure/redis"
	"github.com/jpbaz28/Banking-API/internal/infrastructure/sqlite"
	"github.com/jpbaz28/Banking-API/pkg/config"
	"github.com/jpbaz28/Banking-API/pkg/logger"
)

// Set at build time with -ldflags "-X github.com/jpbaz28/Banking-API/internal/cli.Version=..."
var Version = "dev"

var (
	cfgFile   string
	cfg       *config.Config
	log       zerolog.Logger
	logCloser io.Closer
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bankapi",
	Short: "Banking API - clients, accounts and balances",
	Long: `bankapi serves and administers a small banking backend.

It provides:
- A REST API for clients and their named accounts
- Deposits and withdrawals with optimistic concurrency control
- A per-client ledger of balance changes
- Operator and machine credentials with JWT authentication`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for commands that don't need it
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		log, logCloser, err = logger.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
		if err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), Version)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is "+config.DefaultConfigPath+")")
	rootCmd.AddCommand(versionCmd)
}

// Services holds all initialized services
type Services struct {
	DB              *sqlite.DB
	Store           *clientstore.Store
	IdempotencyRepo repository.IdempotencyRepository
	AuthService     *service.AuthService
	ClientService   *service.ClientService
	AccountService  *service.AccountService
	CleanupService  *service.CleanupService

	closers []func() error
}

// initServices opens the configured stores and wires the services
func initServices(ctx context.Context) (*Services, error) {
	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	s := &Services{DB: db}

	s.Store, err = clientstore.New(ctx, cfg, db)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to open %s client store: %w", cfg.StoreDriver, err)
	}
	s.closers = append(s.closers, func() error { return s.Store.Close(context.Background()) })

	s.IdempotencyRepo = sqlite.NewIdempotencyRepository(db)
	if cfg.RedisAddr != "" {
		client, err := redis.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.IdempotencyRepo = redis.NewIdempotencyRepository(client)
		s.closers = append(s.closers, client.Close)
	}

	publisher := service.NoopPublisher()
	if cfg.AMQPURL != "" {
		p, err := rabbitmq.Dial(cfg.AMQPURL, cfg.AMQPExchange, log)
		if err != nil {
			s.Close()
			return nil, err
		}
		publisher = p
		s.closers = append(s.closers, p.Close)
	}

	authCodeRepo := sqlite.NewAuthCodeRepository(db)
	ledgerRepo := sqlite.NewLedgerRepository(db)

	s.AuthService = service.NewAuthService(
		sqlite.NewUserRepository(db),
		sqlite.NewCredentialRepository(db),
		authCodeRepo,
		cfg.JWTSecretKey,
		cfg.JWTAlgorithm,
	)
	s.ClientService = service.NewClientService(s.Store, cfg.StoreMaxRetries, log)
	s.AccountService = service.NewAccountService(s.Store, ledgerRepo, publisher, cfg.StoreMaxRetries, log)
	s.CleanupService = service.NewCleanupService(authCodeRepo, s.IdempotencyRepo, ledgerRepo, cfg.LedgerRetentionDays, log)

	log.Debug().
		Str("store_driver", s.Store.Driver).
		Bool("redis", cfg.RedisAddr != "").
		Bool("amqp", cfg.AMQPURL != "").
		Msg("services initialized")

	return s, nil
}

// Close releases resources in reverse order of acquisition
const timeLayout = "2006-01-02 15:04:05"

// withServices adapts a command body that only needs the wired services.
func withServices(run func(ctx context.Context, s *Services, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()
		return run(cmd.Context(), services, args)
	}
}

func (s *Services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			log.Warn().Err(err).Msg("failed to close resource")
		}
	}
	if s.DB != nil {
		s.DB.Close()
	}
}
