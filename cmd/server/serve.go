package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"condo-backend/internal/auth"
	"condo-backend/internal/cache"
	"condo-backend/internal/config"
	"condo-backend/internal/database"
	"condo-backend/internal/db"
	"condo-backend/internal/handlers"
	"condo-backend/internal/health"
	h "condo-backend/internal/http"
	"condo-backend/internal/logging"
	"condo-backend/internal/middleware"
	"condo-backend/internal/notify"
	"condo-backend/internal/repositories"
	"condo-backend/internal/services"
	"condo-backend/internal/storage"
	"condo-backend/internal/timeutil"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Bool("skip-migrations", false, "Do not apply pending migrations at startup")
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

// bootstrap loads configuration and builds the logger shared by every command.
func bootstrap() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	if cfg.Timezone != "" {
		if err := timeutil.SetLocation(cfg.Timezone); err != nil {
			logger.WithError(err).Warnf("[Config] unknown timezone %q, keeping %s", cfg.Timezone, timeutil.Local)
		}
	}
	return cfg, logger, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	if cfg.JWT.Secret == "" {
		return errors.New("jwt.secret (JWT_SECRET) is required")
	}
	if cfg.Storage.Bucket == "" {
		return errors.New("storage.bucket (STORAGE_BUCKET) is required for payment proofs")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("[DB] connected")

	if skip, _ := cmd.Flags().GetBool("skip-migrations"); !skip {
		if err := database.NewMigrator(pool, logger).RunMigrations(ctx); err != nil {
			return err
		}
	}

	// Redis is optional: without it caching is off and only the database
	// lock serializes reconciliations.
	var redisPing health.Pinger
	if err := cache.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		logger.WithError(err).Warn("[Redis] unavailable, running without cache")
	} else {
		defer cache.Close()
		redisPing = health.PingFunc(func(ctx context.Context) error { return cache.GetClient().Ping(ctx).Err() })
		logger.Infof("[Redis] connected to %s", cfg.Redis.Addr)
	}

	storage.SetMaxUploadMB(cfg.Storage.MaxUploadMB)
	proofs, err := storage.NewS3Store(ctx, storage.S3Config{
		Endpoint:  cfg.Storage.Endpoint,
		Region:    cfg.Storage.Region,
		Bucket:    cfg.Storage.Bucket,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		PublicURL: cfg.Storage.PublicURL,
	})
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	hub := notify.NewHub(logger)
	go hub.Run(ctx)

	// Repositories
	profileRepo := repositories.NewProfileRepository(pool)
	propertyRepo := repositories.NewPropertyRepository(pool)
	condoRepo := repositories.NewCondominiumRepository(pool)
	ledgerRepo := repositories.NewLedgerRepository(pool)
	reportRepo := repositories.NewPaymentReportRepository(pool)
	notificationRepo := repositories.NewNotificationRepository(pool)
	ticketRepo := repositories.NewTicketRepository(pool)
	announcementRepo := repositories.NewAnnouncementRepository(pool)
	reconciliationRepo := repositories.NewReconciliationRepository(pool)

	// Services
	invalidator := cache.LedgerInvalidator{}
	notificationService := services.NewNotificationService(notificationRepo, hub, logger)

	reconciliationService := services.NewReconciliationService(reconciliationRepo, logger)
	reconciliationService.SetLocker(cache.Locker{TTL: cfg.LockTTL()})
	reconciliationService.SetPublisher(hub)
	reconciliationService.SetCacheInvalidator(invalidator)

	billingService := services.NewBillingService(ledgerRepo, propertyRepo, condoRepo, notificationService, logger)
	billingService.SetCacheInvalidator(invalidator)

	paymentService := services.NewPaymentReportService(reportRepo, condoRepo, propertyRepo, proofs, notificationService, logger)
	ticketService := services.NewTicketService(ticketRepo, notificationService, logger)
	announcementService := services.NewAnnouncementService(announcementRepo, profileRepo, condoRepo, notificationService, logger)
	directoryService := services.NewDirectoryService(propertyRepo, profileRepo, logger)
	financeService := services.NewFinanceService(condoRepo, proofs)
	balanceService := services.NewBalanceService(profileRepo, ledgerRepo, condoRepo, logger)

	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpirationHours)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, profileRepo)

	router := h.NewRouter(h.Handlers{
		Reconciliation: handlers.NewReconciliationHandler(reconciliationService, logger),
		Payments:       handlers.NewPaymentReportHandler(paymentService, logger),
		Ledger:         handlers.NewLedgerHandler(billingService, logger),
		Notifications:  handlers.NewNotificationHandler(notificationService, hub, logger),
		Tickets:        handlers.NewTicketHandler(ticketService, logger),
		Announcements:  handlers.NewAnnouncementHandler(announcementService, logger),
		Directory:      handlers.NewDirectoryHandler(directoryService, logger),
		Finance:        handlers.NewFinanceHandler(financeService, logger),
		Balances:       handlers.NewBalanceHandler(balanceService, logger),
		Health:         handlers.NewHealthHandler(health.NewHealthChecker(pool, redisPing)),
	}, authMiddleware)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           h.Wrap(router, middleware.PanicRecovery(logger), middleware.NewCORS(cfg)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Server running on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
