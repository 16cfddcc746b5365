package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-records/config"
	deliveryHttp "clinic-records/internal/delivery/http"
	"clinic-records/internal/delivery/http/handler"
	"clinic-records/internal/delivery/http/middleware"
	"clinic-records/internal/infrastructure/cache"
	"clinic-records/internal/infrastructure/database"
	"clinic-records/internal/repository"
	"clinic-records/internal/service"
	"clinic-records/internal/usecase"
	"clinic-records/pkg/jwt"
	"clinic-records/pkg/validator"

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
	Usecases    *Usecases
	Server      *http.Server

	// accessLog feeds access lines into the logger; closing it stops its goroutine.
	accessLog *io.PipeWriter
}

// Usecases is the application layer, shared by the HTTP server and the CLI reports.
type Usecases struct {
	Auth          usecase.AuthUsecase
	Patient       usecase.PatientUsecase
	Staff         usecase.StaffUsecase
	MedicalRecord usecase.MedicalRecordUsecase
	AuditLog      usecase.AuditLogUsecase
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	log := NewLogger(cfg.App)
	app.Log = log
	log.Info("Configuration loaded successfully")

	if cfg.DB.AutoMigrate {
		if err := RunMigrations(cfg.DB, log); err != nil {
			return nil, err
		}
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, log, cfg.App.Env == "development")
	if err != nil {
		return nil, err
	}
	app.DB = db

	// Redis only backs the stats cache, so it is optional.
	statsCache := service.NewNoopStatsCache()
	if cfg.Redis.Enabled() {
		redisClient, err := cache.NewRedisClient(cfg.Redis, log)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.RedisClient = redisClient
		statsCache = service.NewRedisStatsCache(redisClient, cfg.Redis.StatsTTL, log)
	} else {
		log.Info("REDIS_HOST not set, stats cache disabled")
	}

	jwtService, err := jwt.NewJWTService(cfg.JWT)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Usecases = newUsecases(db, log, jwtService, statsCache)
	app.accessLog = log.WriterLevel(logrus.InfoLevel)
	app.Server = newServer(cfg, log, app.accessLog, app.Usecases, jwtService)

	return app, nil
}

// NewLogger builds the process logger from config. Unknown levels fall back to info.
func NewLogger(cfg config.AppConfig) *logrus.Logger {
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

// RunMigrations applies every pending schema migration.
func RunMigrations(cfg config.DBConfig, log *logrus.Logger) error {
	migrator, err := database.NewMigrator(cfg.DSN(), log)
	if err != nil {
		return err
	}
	defer migrator.Close()

	if err := migrator.Up(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func newUsecases(db *gorm.DB, log *logrus.Logger, jwtService *jwt.JWTService, statsCache service.StatsCache) *Usecases {
	// Initialize repositories
	userRepo := repository.NewUserRepository()
	patientRepo := repository.NewPatientRepository()
	staffRepo := repository.NewStaffRepository()
	recordRepo := repository.NewMedicalRecordRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)

	return &Usecases{
		Auth:          usecase.NewAuthUsecase(db, log, userRepo, jwtService, auditService),
		Patient:       usecase.NewPatientUsecase(db, log, patientRepo, recordRepo, auditService, statsCache),
		Staff:         usecase.NewStaffUsecase(db, log, staffRepo, auditService, statsCache),
		MedicalRecord: usecase.NewMedicalRecordUsecase(db, log, recordRepo, patientRepo, auditService, statsCache),
		AuditLog:      usecase.NewAuditLogUsecase(db, log, auditLogRepo),
	}
}

// newServer creates and configures the HTTP server
func newServer(cfg *config.Config, log *logrus.Logger, accessLog io.Writer, usecases *Usecases, jwtService *jwt.JWTService) *http.Server {
	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(usecases.Auth, customValidator)
	patientHandler := handler.NewPatientHandler(usecases.Patient, customValidator)
	staffHandler := handler.NewStaffHandler(usecases.Staff, customValidator)
	medicalRecordHandler := handler.NewMedicalRecordHandler(usecases.MedicalRecord, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(usecases.AuditLog)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSAllowedOrigins)

	if !cfg.App.AuthRequired {
		log.Warn("AUTH_REQUIRED is false, clinical routes are open")
	}

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		patientHandler,
		staffHandler,
		medicalRecordHandler,
		auditLogHandler,
		authMiddleware,
		cfg.App.AuthRequired,
	)

	// CORS wraps the router so preflight requests never reach route matching.
	var h http.Handler = corsMiddleware.Handle(router.Setup())
	h = middleware.AccessLog(accessLog, h)
	h = middleware.Recover(log, h)

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and blocks until it stops or a shutdown signal arrives.
func (app *App) Run() error {
	serverErr := make(chan error, 1)

	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		app.Close()
		return fmt.Errorf("failed to start server: %w", err)
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

	if app.accessLog != nil {
		app.accessLog.Close()
	}
}
