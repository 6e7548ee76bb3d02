// Package app wires together all dependencies and runs the store backend.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/auth"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/config"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/event"
	handler "github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/handler/http"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/imagestore"
	imagememory "github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/imagestore/memory"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/mailer"
	mailmock "github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/mailer/mock"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/mailer/smtp"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/payment"
	paymentmock "github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/payment/mock"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/payment/razorpay"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/repository/postgres"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/service"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/migrations"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/pkg/database"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/pkg/health"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/pkg/httpclient"
	pkgkafka "github.com/AshmeetSingh123/Qziners-EcommerceApp/pkg/kafka"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/pkg/middleware"
)

// App wires together all dependencies and runs the store backend.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	producer   *pkgkafka.Producer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize PostgreSQL connection pool.
	pgCfg := database.PostgresConfig{
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		User:            cfg.PostgresUser,
		Password:        cfg.PostgresPass,
		DBName:          cfg.PostgresDB,
		SSLMode:         cfg.PostgresSSL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: time.Duration(cfg.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(cfg.DBMaxConnIdleTimeMins) * time.Minute,
	}

	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	database.RegisterPoolMetrics(pool, "shop-backend")

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Domain events go to Kafka when enabled, otherwise nowhere.
	var events event.Publisher = event.NoopPublisher{}
	var producer *pkgkafka.Producer
	if cfg.KafkaEnabled {
		kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
		producer = pkgkafka.NewProducer(kafkaCfg, logger)
		events = event.NewProducer(producer, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Product images go to the configured upload API, or stay in memory
	// when none is configured.
	var images imagestore.Store
	if cfg.ImageStoreURL != "" {
		imageClient := httpclient.NewCircuitBreakerClient(
			httpclient.New(httpclient.DefaultConfig()),
			httpclient.DefaultCircuitBreakerConfig("imagestore"),
			logger,
		)
		images = imagestore.NewHTTPStore(cfg.ImageStoreURL, cfg.ImageStoreKey, cfg.ImageStoreSecret, imageClient)
	} else {
		images = imagememory.New(fmt.Sprintf("http://localhost:%d/media", cfg.HTTPPort))
		logger.Warn("no image store configured, using in-memory store")
	}

	// Payment orders go to the gateway when credentials are present.
	var gateway payment.Gateway
	if cfg.PaymentKeyID != "" {
		paymentClient := httpclient.NewCircuitBreakerClient(
			httpclient.New(httpclient.DefaultConfig()),
			httpclient.DefaultCircuitBreakerConfig("razorpay"),
			logger,
		)
		gateway = razorpay.New(cfg.PaymentAPIURL, cfg.PaymentKeyID, cfg.PaymentKeySecret, paymentClient)
	} else {
		gateway = paymentmock.New()
		logger.Warn("no payment credentials configured, using mock gateway")
	}

	// Reset mail goes through SMTP outside development.
	var mail mailer.Sender
	if cfg.Environment == "development" {
		mail = mailmock.New(logger)
	} else {
		mail = smtp.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
	}

	// Build the dependency graph.
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry)
	productRepo := postgres.NewProductRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	productService := service.NewProductService(productRepo, images, events, logger)
	reviewService := service.NewReviewService(reviewRepo, events, logger)
	userService := service.NewUserService(userRepo, jwtManager, mail, events, logger, cfg.FrontendURL)
	paymentService := service.NewPaymentService(gateway, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if producer != nil {
		healthHandler.Register("kafka", func(ctx context.Context) error {
			return producer.Ping(ctx)
		})
	}

	// HTTP router.
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.AllowCredentials = true
	corsCfg.Environment = cfg.Environment

	router := handler.NewRouter(handler.RouterConfig{
		Products:      productService,
		Reviews:       reviewService,
		Users:         userService,
		Payments:      paymentService,
		TokenValidate: jwtManager.Validate,
		Health:        healthHandler,
		Logger:        logger,
		CORS:          corsCfg,
		CookieExpiry:  cfg.CookieExpiry,
		SecureCookies: cfg.Environment != "development",
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		pool:       pool,
		producer:   producer,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components: the HTTP server drains
// in-flight requests first, then the Kafka producer and the database
// pool are closed.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
