package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"github.com/tourismcms/tourism-cms/internal"
	"github.com/tourismcms/tourism-cms/internal/auth"
	authPostgres "github.com/tourismcms/tourism-cms/internal/auth/postgres"
	"github.com/tourismcms/tourism-cms/internal/badges"
	"github.com/tourismcms/tourism-cms/internal/content"
	contentPostgres "github.com/tourismcms/tourism-cms/internal/content/postgres"
	"github.com/tourismcms/tourism-cms/internal/core/events"
	"github.com/tourismcms/tourism-cms/internal/navigation"
	navPostgres "github.com/tourismcms/tourism-cms/internal/navigation/postgres"
	"github.com/tourismcms/tourism-cms/internal/transport/rest"
	"github.com/tourismcms/tourism-cms/internal/transport/swagger"
	"github.com/tourismcms/tourism-cms/internal/user"
	userPostgres "github.com/tourismcms/tourism-cms/internal/user/postgres"
	"github.com/tourismcms/tourism-cms/pkg/logger"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	GormDB   *gorm.DB
	Router   *chi.Mux
	Logger   *slog.Logger
	EventBus *events.EventBus

	AuthHandler    *auth.Handler
	UserHandler    *user.Handler
	NavHandler     *navigation.Handler
	ContentHandler *content.Handler

	BadgeRefresher *badges.Refresher
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	deps.BadgeRefresher.Start()

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		deps.BadgeRefresher.Shutdown()
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	rest.RegisterAllRoutes(
		deps.Router,
		deps.DB.DB,
		deps.DB,
		deps.AuthHandler,
		deps.UserHandler,
		deps.NavHandler,
		deps.ContentHandler,
		deps.Logger,
	)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm over db connection: %w", err)
	}

	// Fail startup on a broken OpenAPI document rather than serving a dead
	// Swagger UI.
	if _, err := swagger.LoadSpec(context.Background(), "./api/openapi.yml"); err != nil {
		return nil, err
	}

	bus := events.NewEventBus(lg)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(gormDB), tokenGen)
	authHandler := auth.NewHandler(authService)

	userService := user.NewService(userPostgres.NewUserRepository(gormDB))
	userHandler := user.NewHandler(userService)

	navService, err := navigation.NewService(navPostgres.NewNavigationRepository(gormDB), lg, bus)
	if err != nil {
		return nil, fmt.Errorf("failed to load navigation tree: %w", err)
	}
	navHandler := navigation.NewHandler(navService)

	contentService := content.NewService(contentPostgres.NewContentRepository(gormDB), navService, lg, bus)
	contentHandler := content.NewHandler(contentService)

	refresher := badges.NewRefresher(badges.Config{
		RefreshInterval: config.Badges.RefreshInterval,
		MaxWorkers:      config.Badges.MaxWorkers,
		JobQueueSize:    config.Badges.JobQueueSize,
	}, contentService, navService, bus, lg)

	return &Dependencies{
		Config:   config,
		Logger:   lg,
		DB:       db,
		GormDB:   gormDB,
		Router:   chi.NewRouter(),
		EventBus: bus,

		AuthHandler:    authHandler,
		UserHandler:    userHandler,
		NavHandler:     navHandler,
		ContentHandler: contentHandler,

		BadgeRefresher: refresher,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
