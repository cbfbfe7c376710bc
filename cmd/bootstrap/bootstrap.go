package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-scheduling-service/config"
	deliveryHttp "clinic-scheduling-service/internal/delivery/http"
	"clinic-scheduling-service/internal/delivery/http/handler"
	"clinic-scheduling-service/internal/delivery/http/middleware"
	"clinic-scheduling-service/internal/infrastructure/cache"
	"clinic-scheduling-service/internal/infrastructure/database"
	"clinic-scheduling-service/internal/repository"
	"clinic-scheduling-service/internal/service"
	"clinic-scheduling-service/internal/usecase"
	"clinic-scheduling-service/pkg/jwt"
	"clinic-scheduling-service/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New(cfg *config.Config) (*App, error) {
	log := SetupLogger(cfg.App)
	app := &App{Config: cfg, Log: log}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	// Redis is optional; without it events are only logged and tokens are not checked for revocation.
	if cfg.Redis.Host != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis, log)
		cancel()
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		app.RedisClient = redisClient
	} else {
		log.Warn("REDIS_HOST is not set, appointment events will only be logged")
	}

	// Initialize all layers
	app.Server = initializeServer(cfg, log, db, app.RedisClient)

	return app, nil
}

// SetupLogger configures the logrus logger
func SetupLogger(cfg config.AppConfig) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, log *logrus.Logger, db *gorm.DB, redisClient *redis.Client) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	repos := usecase.AppointmentRepositories{
		Appointment:  repository.NewAppointmentRepository(),
		Patient:      repository.NewPatientRepository(),
		QueueLock:    repository.NewQueueLockRepository(),
		Doctor:       repository.NewDoctorRepository(),
		ClinicConfig: repository.NewClinicSlotConfigRepository(),
		DoctorConfig: repository.NewDoctorSlotConfigRepository(),
		Override:     repository.NewDateOverrideRepository(),
	}
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	resolver := service.NewSlotConfigResolver(service.SlotDefaults{
		MaxPatients: cfg.Scheduling.DefaultMaxPatients,
		OnlineQuota: cfg.Scheduling.DefaultOnlineQuota,
	}, service.DefaultSlotSources()...)
	calculator := service.NewAvailabilityCalculator()
	auditService := service.NewAuditService(log, auditLogRepo)

	notifiers := []service.AppointmentNotifier{service.NewLogAppointmentNotifier(log)}
	if redisClient != nil {
		notifiers = append(notifiers, service.NewRedisAppointmentNotifier(redisClient, cfg.Notify.ChannelPrefix))
	}
	notifier := service.NewFanOutNotifier(log, cfg.Notify.Timeout, notifiers...)

	// Initialize usecases
	txRunner := usecase.NewTxRunner(db, log, cfg.Scheduling.TxTimeout, cfg.Scheduling.MaxTxAttempts)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, txRunner, repos, resolver, calculator, auditService, notifier)
	slotConfigUsecase := usecase.NewSlotConfigUsecase(db, log, txRunner, repos.ClinicConfig, repos.DoctorConfig, repos.Override, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	slotConfigHandler := handler.NewSlotConfigHandler(slotConfigUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins...)

	// Initialize router
	router := deliveryHttp.NewRouter(appointmentHandler, slotConfigHandler, auditLogHandler, authMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and blocks until it stops.
func (app *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	return app.waitForShutdown(errCh)
}

// waitForShutdown blocks until an interrupt signal is received or the server fails
func (app *App) waitForShutdown(errCh <-chan error) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		app.Close()
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-quit:
	}

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
	return nil
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
