package main

import (
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderbot/internal/catalog"
	"orderbot/internal/config"
	"orderbot/internal/handler"
	"orderbot/internal/notify"
	"orderbot/internal/repository"
	"orderbot/internal/repository/filestore"
	"orderbot/internal/repository/postgres"
	"orderbot/internal/service"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// repositories bundles the state store record sets
type repositories struct {
	users    repository.UserRepository
	carts    repository.CartRepository
	requests repository.RequestRepository
	close    func() error
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := newLogger(cfg.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting order bot",
		zap.String("storage", cfg.Storage.Driver),
		zap.String("run_mode", cfg.Telegram.RunMode),
	)

	// Load the menu
	menu, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}

	logger.Info("Catalog loaded", zap.Int("categories", len(menu.Categories())))

	// Initialize repositories
	repos, err := openRepositories(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open state store", zap.Error(err))
	}
	defer repos.close()

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: newPoller(cfg.Telegram),
		OnError: func(err error, c tele.Context) {
			fields := []zap.Field{zap.Error(err)}
			if c != nil && c.Sender() != nil {
				fields = append(fields, zap.Int64("user_id", c.Sender().ID))
			}
			logger.Error("Unhandled bot error", fields...)
		},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized", zap.String("bot", bot.Me.Username))

	// Initialize services
	messenger := notify.NewTelegram(bot, notify.Options{MaxRetries: 3}, logger)
	userService := service.NewUserService(repos.users, cfg.AdminUsername, logger)
	navService := service.NewNavigationService(menu)
	cartService := service.NewCartService(repos.carts, menu, logger)
	requestService := service.NewRequestService(repos.requests, userService, messenger, logger)

	// Initialize handler
	h := handler.NewHandler(bot, userService, navService, cartService, requestService, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	bot.Stop()

	logger.Info("Bot stopped gracefully")
}

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newPoller picks long polling or a webhook listener
func newPoller(cfg config.TelegramConfig) tele.Poller {
	if cfg.RunMode == config.RunModeWebhook {
		return &tele.Webhook{
			Listen:   cfg.WebhookListen,
			Endpoint: &tele.WebhookEndpoint{PublicURL: cfg.WebhookURL},
		}
	}
	return &tele.LongPoller{Timeout: time.Duration(cfg.PollTimeoutSec) * time.Second}
}

// openRepositories opens the configured state store backend
func openRepositories(cfg *config.Config, logger *zap.Logger) (*repositories, error) {
	if cfg.Storage.Driver == config.StorageFile {
		store, err := filestore.Open(cfg.Storage.DataDir, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("File store opened", zap.String("dir", cfg.Storage.DataDir))
		return &repositories{
			users:    filestore.NewUserRepo(store),
			carts:    filestore.NewCartRepo(store),
			requests: filestore.NewRequestRepo(store),
			close:    func() error { return nil },
		}, nil
	}

	// Connect to database with retries
	sqlDB, err := connectDatabase(cfg.DSN(), logger)
	if err != nil {
		return nil, err
	}

	logger.Info("Database connection established")

	// Run migrations
	if err := runMigrations(sqlDB, logger); err != nil {
		sqlDB.Close()
		return nil, err
	}

	logger.Info("Database migrations completed")

	db := sqlx.NewDb(sqlDB, "postgres")
	return &repositories{
		users:    postgres.NewUserRepo(db),
		carts:    postgres.NewCartRepo(db),
		requests: postgres.NewRequestRepo(db),
		close:    db.Close,
	}, nil
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		// Test connection
		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		// Connection successful
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	switch {
	case err == migrate.ErrNoChange:
		logger.Info("No new migrations to apply")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	default:
		logger.Info("Migrations applied successfully")
	}

	return nil
}
