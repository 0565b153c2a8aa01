package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/omp-platform/learning-backend/internal"
	"github.com/omp-platform/learning-backend/internal/auth"
	"github.com/omp-platform/learning-backend/internal/certificate"
	"github.com/omp-platform/learning-backend/internal/course"
	coursepg "github.com/omp-platform/learning-backend/internal/course/postgres"
	"github.com/omp-platform/learning-backend/internal/core/events"
	"github.com/omp-platform/learning-backend/internal/enrollment"
	enrollmentpg "github.com/omp-platform/learning-backend/internal/enrollment/postgres"
	"github.com/omp-platform/learning-backend/internal/filestorage"
	"github.com/omp-platform/learning-backend/internal/mentor"
	mentorpg "github.com/omp-platform/learning-backend/internal/mentor/postgres"
	"github.com/omp-platform/learning-backend/internal/notification"
	"github.com/omp-platform/learning-backend/internal/payment"
	paymentpg "github.com/omp-platform/learning-backend/internal/payment/postgres"
	"github.com/omp-platform/learning-backend/internal/paymentgateway"
	"github.com/omp-platform/learning-backend/internal/transport"
	"github.com/omp-platform/learning-backend/internal/transport/rest"
	"github.com/omp-platform/learning-backend/internal/transport/swagger"
	"github.com/omp-platform/learning-backend/internal/user"
	userpg "github.com/omp-platform/learning-backend/internal/user/postgres"
	"github.com/omp-platform/learning-backend/pkg/logger"
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
	Handlers rest.Handlers
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	origins := splitOrigins(deps.Config.Server.AllowedOrigins)
	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Handlers,
		deps.Config.Storage.UploadDir, origins, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Format, config.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	// A broken OpenAPI document disables the docs, not the API
	if _, err := swagger.LoadSpec(context.Background(), "./api/openapi.yml"); err != nil {
		lg.Warn("openapi spec unavailable", "error", err)
	}

	fileStore, err := filestorage.NewLocalStore(config.Storage.UploadDir, config.Storage.PublicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	eventBus := events.NewEventBus(lg)
	notifier := notification.NewEventHandler(&notification.LogSender{Logger: lg}, lg)
	notifier.RegisterEventHandlers(eventBus)

	baseHandler := transport.NewBaseHandler(lg)

	// Repositories
	userRepo := userpg.NewUserRepository(gormDB)
	courseRepo := coursepg.NewCourseRepository(gormDB)
	mentorRepo := mentorpg.NewMentorRepository(gormDB)
	paymentRepo := paymentpg.NewPaymentRepository(gormDB)
	enrollmentRepo := enrollmentpg.NewEnrollmentRepository(gormDB)

	// Services
	userService := user.NewService(userRepo, lg)
	mentorService := mentor.NewService(mentorRepo, lg)
	courseService := course.NewService(courseRepo, mentorService, lg, paymentRepo, enrollmentRepo)
	paymentService := payment.NewService(paymentRepo, userService, courseService, eventBus, lg)
	enrollmentService := enrollment.NewService(enrollmentRepo, paymentService, courseService, eventBus, lg)
	certificateService := certificate.NewService(enrollmentRepo, courseService, userService,
		certificate.NewPNGRenderer(), fileStore, eventBus, lg)

	gatewayClient := paymentgateway.NewClient(paymentgateway.Config{
		BaseURL:   config.Razorpay.BaseURL,
		KeyID:     config.Razorpay.KeyID,
		KeySecret: config.Razorpay.KeySecret,
		Timeout:   config.Razorpay.Timeout,
	}, lg)
	verifier := payment.NewSignatureVerifier(config.Razorpay.KeySecret)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(userRepo, tokenGen, config.Security.BCryptCost, lg)

	handlers := rest.Handlers{
		Auth:        auth.NewHandler(baseHandler, authService),
		User:        user.NewHandler(baseHandler, userService),
		Course:      course.NewHandler(baseHandler, courseService),
		Mentor:      mentor.NewHandler(baseHandler, mentorService),
		Payment:     payment.NewHandler(baseHandler, paymentService, gatewayClient, verifier, enrollmentService, courseService, fileStore),
		Enrollment:  enrollment.NewHandler(baseHandler, enrollmentService),
		Certificate: certificate.NewHandler(baseHandler, certificateService),
	}

	return &Dependencies{
		Config:   config,
		Logger:   lg,
		DB:       db,
		Router:   chi.NewRouter(),
		Handlers: handlers,
	}, nil
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
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
