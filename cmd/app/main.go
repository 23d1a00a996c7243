package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gymcontrol/internal/access"
	"gymcontrol/internal/config"
	"gymcontrol/internal/db"
	"gymcontrol/internal/gym"
	"gymcontrol/internal/logger"
	"gymcontrol/internal/membership"
	"gymcontrol/internal/notify"
	"gymcontrol/internal/payment"
	"gymcontrol/internal/server"
	"gymcontrol/internal/snapshot"
)

// @title GymControl API
// @version 1.0
// @description API for gym membership, access control and monthly reporting.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {

	logger.Init()
	logger.Info("Starting GymControl application")
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, "migrations"); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	notifyService := notify.New(
		cfg.EmailFrom,
		cfg.EmailFromName,
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPass,
		cfg.RedisAddr,
	)
	defer notifyService.Close()
	logger.Info("Reminder service initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go notifyService.Start(ctx)

	clientRepo := membership.NewRepository(database)
	membershipService := membership.NewService(clientRepo)
	gymRepo := gym.NewRepository(database)
	paymentRepo := payment.NewRepository(database)
	accessRepo := access.NewRepository(database)
	snapshotService := snapshot.NewService(snapshot.NewRepository(database), clientRepo, paymentRepo, accessRepo)
	driver := snapshot.NewDriver(gymRepo, paymentRepo, snapshotService)
	reminders := notify.NewReminders(clientRepo, notifyService)

	scheduler := snapshot.NewScheduler(driver)
	if err := scheduler.ScheduleMonthly(cfg.MonthlySnapshotCron); err != nil {
		logger.Fatalf("Failed to schedule monthly batch: %v", err)
	}
	if err := scheduler.ScheduleDaily(cfg.ExpirySweepCron, func(ctx context.Context) {
		sweepAllGyms(ctx, gymRepo, membershipService)
		reminders.Run(ctx)
	}); err != nil {
		logger.Fatalf("Failed to schedule daily sweep: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	srv := server.New(database, cfg, notifyService)

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(cfg.Port); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server stopped")
}

func sweepAllGyms(ctx context.Context, gyms gym.Repository, memberships membership.Service) {
	active, err := gyms.FindActiveGyms(ctx)
	if err != nil {
		logger.Errorf("Expiry sweep: failed to list gyms: %v", err)
		return
	}

	now := time.Now().UTC()
	for _, g := range active {
		expired, err := memberships.ExpireDue(ctx, g.ID, now)
		if err != nil {
			logger.Errorf("Expiry sweep failed for gym %d: %v", g.ID, err)
			continue
		}
		if expired > 0 {
			logger.Infof("Expiry sweep: gym %d, %d memberships expired", g.ID, expired)
		}
	}
}
