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

	"github.com/frahmantamala/recibox/internal"
	"github.com/frahmantamala/recibox/internal/auth"
	authPostgres "github.com/frahmantamala/recibox/internal/auth/postgres"
	"github.com/frahmantamala/recibox/internal/category"
	categoryPostgres "github.com/frahmantamala/recibox/internal/category/postgres"
	"github.com/frahmantamala/recibox/internal/core/events"
	"github.com/frahmantamala/recibox/internal/dashboard"
	dashboardPostgres "github.com/frahmantamala/recibox/internal/dashboard/postgres"
	"github.com/frahmantamala/recibox/internal/expense"
	expensePostgres "github.com/frahmantamala/recibox/internal/expense/postgres"
	"github.com/frahmantamala/recibox/internal/project"
	projectPostgres "github.com/frahmantamala/recibox/internal/project/postgres"
	"github.com/frahmantamala/recibox/internal/storage"
	"github.com/frahmantamala/recibox/internal/transport"
	"github.com/frahmantamala/recibox/internal/transport/rest"
	"github.com/frahmantamala/recibox/internal/user"
	userPostgres "github.com/frahmantamala/recibox/internal/user/postgres"
	"github.com/frahmantamala/recibox/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
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
	Router   *chi.Mux
	Logger   *slog.Logger
	Handlers rest.Handlers
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Config.Storage.RootDir, deps.Handlers, deps.Logger)

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

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	log := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	signer := storage.NewURLSigner(config.Storage.SigningKey)
	store, err := storage.NewDiskStore(config.Storage.RootDir, config.Storage.BaseURL, signer, config.Storage.ThumbnailSize, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object store: %w", err)
	}

	eventBus := events.NewEventBus(log)
	events.RegisterActivityLog(eventBus, log)

	// Repositories
	authRepo := authPostgres.NewRepository(gormDB)
	userRepo := userPostgres.NewUserRepository(gormDB)
	categoryRepo := categoryPostgres.NewCategoryRepository(gormDB)
	projectRepo := projectPostgres.NewProjectRepository(gormDB)
	expenseRepo := expensePostgres.NewExpenseRepository(gormDB)
	dashboardRepo := dashboardPostgres.NewDashboardRepository(gormDB)

	// Services
	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authRepo, tokenGen)
	userService := user.NewService(userRepo, log)
	categoryService := category.NewService(categoryRepo, log)
	projectService := project.NewService(projectRepo, expenseRepo, store, eventBus, log)
	expenseService := expense.NewService(expenseRepo, store, projectService, categoryService, eventBus, log)
	dashboardService := dashboard.NewService(dashboardRepo, log)

	// Handlers
	baseHandler := transport.NewBaseHandler(log)
	handlers := rest.Handlers{
		Auth:      auth.NewHandler(authService),
		User:      user.NewHandler(baseHandler, userService),
		Project:   project.NewHandler(baseHandler, projectService),
		Expense:   expense.NewHandler(baseHandler, expenseService),
		Category:  category.NewHandler(baseHandler, categoryService),
		Dashboard: dashboard.NewHandler(baseHandler, dashboardService),
		Storage:   storage.NewHandler(store, config.Storage.SignedURLTTL),
	}

	return &Dependencies{
		Config:   config,
		Logger:   log,
		DB:       db,
		Router:   chi.NewRouter(),
		Handlers: handlers,
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

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
