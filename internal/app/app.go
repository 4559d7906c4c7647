package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/logger"

	"github.com/CamMacB17/spotpay/internal/config"
	"github.com/CamMacB17/spotpay/internal/handler"
	"github.com/CamMacB17/spotpay/internal/mail"
	"github.com/CamMacB17/spotpay/internal/metrics"
	"github.com/CamMacB17/spotpay/internal/middleware"
	"github.com/CamMacB17/spotpay/internal/ratelimit"
	"github.com/CamMacB17/spotpay/internal/repository"
	"github.com/CamMacB17/spotpay/internal/router"
	"github.com/CamMacB17/spotpay/internal/scheduler"
	"github.com/CamMacB17/spotpay/internal/service"
	"github.com/CamMacB17/spotpay/internal/stripe"
)

const migrationsDir = "migrations"

type App struct {
	cfg        *config.Config
	log        logger.Logger
	db         *dbpg.DB
	httpServer *http.Server
	scheduler  *scheduler.Scheduler
}

func New(cfg *config.Config) (*App, error) {
	app := &App{cfg: cfg}

	log, err := logger.InitLogger(
		cfg.Logger.LogEngine(),
		"spotpay",
		cfg.Gin.Mode,
		logger.WithLevel(cfg.Logger.LogLevel()),
	)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	app.log = log

	if err = app.runMigrations(); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	if err = app.initDB(); err != nil {
		return nil, fmt.Errorf("init db: %w", err)
	}

	if err = app.initServices(); err != nil {
		return nil, fmt.Errorf("init services: %w", err)
	}

	return app, nil
}

func (a *App) initDB() error {
	db, err := dbpg.New(
		a.cfg.Postgres.DSN(),
		nil,
		&dbpg.Options{
			MaxOpenConns: a.cfg.Postgres.MaxOpenConns,
			MaxIdleConns: a.cfg.Postgres.MaxIdleConns,
		},
	)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}

	if err := db.Master.PingContext(context.Background()); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}

	a.db = db
	a.log.LogAttrs(context.Background(), logger.InfoLevel, "database connected",
		logger.String("host", a.cfg.Postgres.Host),
		logger.Int("port", a.cfg.Postgres.Port),
		logger.String("database", a.cfg.Postgres.Database),
	)

	return nil
}

func (a *App) initServices() error {
	paymentRepo := repository.NewPaymentRepo(a.db)
	eventRepo := repository.NewEventRepo(a.db)
	tokenRepo := repository.NewAdminTokenRepo(a.db)
	auditRepo := repository.NewAuditLogRepo(a.db)
	ledgerRepo := repository.NewWebhookLedgerRepo(a.db)

	stripeClient := stripe.NewClient(stripe.Config{
		BaseURL:       a.cfg.Stripe.BaseURL,
		SecretKey:     a.cfg.Stripe.SecretKey,
		WebhookSecret: a.cfg.Stripe.WebhookSecret,
		Currency:      a.cfg.Stripe.Currency,
		SuccessURL:    a.cfg.Server.BaseURL + "/joined",
		CancelURL:     a.cfg.Server.BaseURL + "/cancelled",
	}, nil, a.log)

	mailer := mail.NewSMTPMailer(mail.Config{
		Host:     a.cfg.SMTP.Host,
		Port:     a.cfg.SMTP.Port,
		Username: a.cfg.SMTP.Username,
		Password: a.cfg.SMTP.Password,
		From:     a.cfg.SMTP.From,
	}, a.log)

	m := metrics.New(prometheus.DefaultRegisterer)

	eventService := service.NewEventService(
		eventRepo, paymentRepo, tokenRepo, auditRepo,
		a.cfg.Admin.TokenTTL, a.log,
	)
	checkoutService := service.NewCheckoutService(
		paymentRepo, eventRepo, stripeClient, mailer, m, a.log,
	)
	webhookService := service.NewWebhookService(
		stripeClient, ledgerRepo, paymentRepo, eventRepo, mailer, m, a.log,
	)
	refundService := service.NewRefundService(
		paymentRepo, eventRepo, stripeClient, auditRepo, mailer, m, a.log,
	)
	cleanupService := service.NewCleanupService(
		paymentRepo, a.cfg.Reaper.MaxAge, m, a.log,
	)

	a.scheduler = scheduler.New(
		cleanupService,
		a.cfg.Reaper.Interval,
		a.log,
	)

	joinLimiter := ratelimit.New(
		a.cfg.RateLimit.RPS,
		a.cfg.RateLimit.Burst,
		a.cfg.RateLimit.TTL,
	)

	h := handler.NewHandler(
		eventService, checkoutService, webhookService, refundService,
		a.cfg.Server.BaseURL, a.log,
	)
	r := router.InitRouter(
		a.cfg.Gin.Mode,
		h,
		middleware.AdminAuth(eventService),
		middleware.RateLimit(joinLimiter),
		middleware.RequestID(),
		middleware.RequestLogger(a.log),
		middleware.Recovery(a.log),
	)

	a.httpServer = &http.Server{
		Addr:         a.cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}

	return nil
}

func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go a.scheduler.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.log.LogAttrs(ctx, logger.InfoLevel, "HTTP server starting",
			logger.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.log.LogAttrs(context.Background(), logger.InfoLevel, "shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.shutdown()
}

func (a *App) shutdown() error {
	a.log.LogAttrs(context.Background(), logger.InfoLevel, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		a.cfg.Server.WriteTimeout,
	)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	a.log.LogAttrs(context.Background(), logger.InfoLevel, "HTTP server stopped")

	if err := a.db.Master.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	a.log.LogAttrs(context.Background(), logger.InfoLevel, "database connection closed")

	a.log.LogAttrs(context.Background(), logger.InfoLevel, "app stopped")

	return nil
}

func (a *App) runMigrations() error {
	db, err := sql.Open("postgres", a.cfg.Postgres.DSN())
	if err != nil {
		return fmt.Errorf("open db for migrations: %w", err)
	}
	defer db.Close()

	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	a.log.Info("migrations applied successfully")
	return nil
}
