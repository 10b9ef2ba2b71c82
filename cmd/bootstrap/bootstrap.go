package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-medical-scheduling/config"
	deliveryHttp "go-medical-scheduling/internal/delivery/http"
	"go-medical-scheduling/internal/delivery/http/handler"
	"go-medical-scheduling/internal/delivery/http/middleware"
	"go-medical-scheduling/internal/domain/availability"
	"go-medical-scheduling/internal/infrastructure/cache"
	"go-medical-scheduling/internal/infrastructure/database"
	"go-medical-scheduling/internal/repository"
	"go-medical-scheduling/internal/service"
	"go-medical-scheduling/internal/usecase"
	"go-medical-scheduling/pkg/jwt"
	"go-medical-scheduling/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Usecases exposes the application services to the CLI.
type Usecases struct {
	Auth         usecase.AuthUsecase
	Doctor       usecase.DoctorProfileUsecase
	Schedule     usecase.ScheduleUsecase
	Availability usecase.AvailabilityUsecase
	Slot         usecase.SlotUsecase
	Booking      usecase.PatientBookingUsecase
	AuditLog     usecase.AuditLogUsecase
}

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Usecases    *Usecases
	Server      *http.Server

	slotCache *service.RedisSlotCache
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	log := NewLogger(cfg.App)
	app.Log = log
	log.Info("Configuration loaded successfully")

	db, err := database.NewPostgresConnection(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Info("Database connected successfully")

	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	log.Info("Redis connected successfully")

	if err := app.initialize(); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// NewLogger configures the shared logrus logger from the app config
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

// NewEngine builds the availability engine from the scheduling config
func NewEngine(cfg config.SchedulingConfig) (*availability.Engine, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return availability.NewEngine(availability.Config{
		DefaultSlotDuration: cfg.DefaultSlotDuration,
		Location:            loc,
		MaxRangeDays:        cfg.MaxRangeDays,
	})
}

// initialize wires repositories, services, usecases and the HTTP server
func (app *App) initialize() error {
	cfg, db, redisClient, log := app.Config, app.DB, app.RedisClient, app.Log

	engine, err := NewEngine(cfg.Scheduling)
	if err != nil {
		return fmt.Errorf("failed to build availability engine: %w", err)
	}
	ruleCache, err := service.NewRuleCache(cfg.Scheduling.RuleCacheSize, engine.Location())
	if err != nil {
		return err
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	patientProfileRepo := repository.NewPatientProfileRepository()
	scheduleRepo := repository.NewScheduleRepository()
	availabilityRepo := repository.NewAvailabilityRepository()
	bookingRepo := repository.NewBookingRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	app.slotCache = service.NewRedisSlotCache(redisClient, log, cfg.Scheduling.SlotCacheTTL)
	slotLocker := service.NewRedisSlotLocker(redisClient, log, cfg.Scheduling.SlotLockTTL)

	// Initialize usecases
	app.Usecases = &Usecases{
		Auth:         usecase.NewAuthUsecase(db, log, userRepo, roleRepo, doctorProfileRepo, patientProfileRepo, auditService, jwtService, redisClient),
		Doctor:       usecase.NewDoctorProfileUsecase(db, log, doctorProfileRepo),
		Schedule:     usecase.NewScheduleUsecase(db, log, engine, scheduleRepo, doctorProfileRepo, auditService, app.slotCache),
		Availability: usecase.NewAvailabilityUsecase(db, log, engine, scheduleRepo, availabilityRepo, auditService, app.slotCache),
		Slot:         usecase.NewSlotUsecase(db, log, engine, ruleCache, scheduleRepo, availabilityRepo, bookingRepo, app.slotCache),
		Booking:      usecase.NewPatientBookingUsecase(db, log, engine, ruleCache, bookingRepo, scheduleRepo, availabilityRepo, patientProfileRepo, auditService, app.slotCache, slotLocker),
		AuditLog:     usecase.NewAuditLogUsecase(db, log, auditLogRepo),
	}

	// Initialize handlers
	uc := app.Usecases
	authHandler := handler.NewAuthHandler(uc.Auth, customValidator, jwtService)
	doctorHandler := handler.NewDoctorHandler(uc.Doctor, customValidator)
	scheduleHandler := handler.NewScheduleHandler(uc.Schedule, customValidator)
	availabilityHandler := handler.NewAvailabilityHandler(uc.Availability, customValidator)
	slotHandler := handler.NewSlotHandler(uc.Slot, customValidator)
	bookingHandler := handler.NewBookingHandler(uc.Booking, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(uc.AuditLog, customValidator)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSAllowedOrigins)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		doctorHandler,
		scheduleHandler,
		availabilityHandler,
		slotHandler,
		bookingHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
	)

	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close stops background workers and closes all connections
func (app *App) Close() {
	if app.slotCache != nil {
		app.slotCache.Stop()
	}

	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
