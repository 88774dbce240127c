// Package main provides the main entry point for the staffing CRM backend
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/marafiq-hq/staffing-crm/app/handlers"
	"github.com/marafiq-hq/staffing-crm/app/middleware"
	"github.com/marafiq-hq/staffing-crm/app/router"
	"github.com/marafiq-hq/staffing-crm/app/scheduler"
	"github.com/marafiq-hq/staffing-crm/app/services"
	businessflow "github.com/marafiq-hq/staffing-crm/business_flow"
	"github.com/marafiq-hq/staffing-crm/config"
	"github.com/marafiq-hq/staffing-crm/models"
	"github.com/marafiq-hq/staffing-crm/pricing"
	"github.com/marafiq-hq/staffing-crm/repository"
	"github.com/marafiq-hq/staffing-crm/utils"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting staffing CRM application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	initializeLogging(cfg.Logging)

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// initializeLogging routes the standard logger through a rotating file sink
// when file output is configured
func initializeLogging(cfg config.LoggingConfig) {
	if cfg.Output == "stdout" || cfg.FilePath == "" {
		return
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	if cfg.Output == "both" {
		log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	} else {
		log.SetOutput(rotator)
	}
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pooling
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Cache client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled || cfg.Provider != "redis" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	// Override DB if provided in config
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeNotificationService initializes the notification service
func initializeNotificationService(cfg config.EmailConfig) services.NotificationService {
	var emailProvider services.EmailProvider
	if cfg.Host != "" {
		emailProvider = services.NewSMTPEmailProvider(cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.FromEmail)
	} else {
		emailProvider = services.NewMockEmailProvider()
	}
	return services.NewNotificationService(emailProvider)
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	if rc != nil {
		cancel := startCacheHealthMonitor(context.Background(), rc, cfg.Cache.CleanupInterval)
		stopFuncs = append(stopFuncs, cancel)
	}

	// Ensure the bootstrap administrator exists before the API opens
	if err := ensureAdminUser(db, cfg); err != nil {
		return nil, err
	}

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(db)
	contactRepo := repository.NewContactRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	lineItemRepo := repository.NewQuoteLineItemRepository(db)
	jobRepo := repository.NewJobRepository(db)
	profileRepo := repository.NewJobProfileRepository(db)
	nationalityRepo := repository.NewNationalityRepository(db)
	lookupRepo := repository.NewLookupRepository(db)
	componentRepo := repository.NewCostComponentRepository(db)
	ruleRepo := repository.NewPricingRuleRepository(db)
	approvalRepo := repository.NewDiscountApprovalRuleRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewUserSessionRepository(db)
	settingsRepo := repository.NewSystemSettingsRepository(db)
	commRepo := repository.NewCommunicationLogRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Initialize services
	notificationService := initializeNotificationService(cfg.Email)

	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.UseRSAKeys,
		cfg.JWT.PrivateKey,
		cfg.JWT.PublicKey,
		cfg.JWT.SecretKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	log.Printf("Token service initialized with issuer: %s, audience: %s", cfg.JWT.Issuer, cfg.JWT.Audience)

	engine := pricing.NewEngine(utils.UTCNow)

	// Initialize flows
	loginFlow := businessflow.NewLoginFlow(userRepo, sessionRepo, auditRepo, roleRepo, tokenService, db)
	accountFlow := businessflow.NewAccountFlow(accountRepo, auditRepo, db)
	contactFlow := businessflow.NewContactFlow(contactRepo, accountRepo, auditRepo, db)
	leadFlow := businessflow.NewLeadFlow(leadRepo, accountRepo, contactRepo, auditRepo, db)
	jobFlow := businessflow.NewJobFlow(jobRepo, profileRepo, lookupRepo, auditRepo, db)
	nationalityFlow := businessflow.NewNationalityFlow(nationalityRepo, auditRepo, db)
	lookupFlow := businessflow.NewLookupFlow(lookupRepo)
	componentFlow := businessflow.NewCostComponentFlow(componentRepo, auditRepo, db)
	pricingRuleFlow := businessflow.NewPricingRuleFlow(ruleRepo, componentRepo, auditRepo, db)
	approvalFlow := businessflow.NewApprovalMatrixFlow(approvalRepo, roleRepo, auditRepo, db)
	quoteFlow := businessflow.NewQuoteFlow(
		quoteRepo,
		lineItemRepo,
		leadRepo,
		profileRepo,
		jobRepo,
		nationalityRepo,
		componentRepo,
		ruleRepo,
		approvalRepo,
		userRepo,
		roleRepo,
		settingsRepo,
		lookupRepo,
		auditRepo,
		engine,
		db,
	)
	userFlow := businessflow.NewUserFlow(userRepo, roleRepo, lookupRepo, sessionRepo, auditRepo, db)
	roleFlow := businessflow.NewRoleFlow(roleRepo, auditRepo, db)
	communicationFlow := businessflow.NewCommunicationFlow(commRepo, accountRepo, contactRepo, leadRepo, auditRepo, notificationService, db)
	dashboardFlow := businessflow.NewDashboardFlow(accountRepo, leadRepo, quoteRepo, commRepo)
	settingsFlow := businessflow.NewSettingsFlow(settingsRepo, auditRepo, rc, &cfg.Cache, db)
	forecastFlow := businessflow.NewForecastFlow(quoteRepo, settingsFlow)
	auditFlow := businessflow.NewAuditFlow(auditRepo)

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService, sessionRepo, userRepo, roleRepo)

	// Initialize handlers and router
	appRouter := router.NewFiberRouter(router.Handlers{
		Auth:          handlers.NewAuthHandler(loginFlow),
		Account:       handlers.NewAccountHandler(accountFlow, contactFlow),
		Lead:          handlers.NewLeadHandler(leadFlow),
		Catalog:       handlers.NewCatalogHandler(jobFlow, nationalityFlow, lookupFlow),
		PricingAdmin:  handlers.NewPricingAdminHandler(componentFlow, pricingRuleFlow, approvalFlow),
		Quote:         handlers.NewQuoteHandler(quoteFlow),
		UserAdmin:     handlers.NewUserAdminHandler(userFlow, roleFlow),
		Communication: handlers.NewCommunicationHandler(communicationFlow),
		Dashboard:     handlers.NewDashboardHandler(dashboardFlow, forecastFlow),
		Settings:      handlers.NewSettingsHandler(settingsFlow),
		Audit:         handlers.NewAuditHandler(auditFlow),
	}, authMiddleware, cfg.Security.AllowedOrigins)

	if cfg.Scheduler.QuoteExpiryEnabled {
		sched := scheduler.NewQuoteExpiryScheduler(quoteRepo, auditRepo, db, rc, cfg.Scheduler.QuoteExpiryInterval)
		stopScheduler := sched.Start(context.Background())
		stopFuncs = append(stopFuncs, stopScheduler, func() { _ = sched.Close() })
	}

	// Create application struct from FiberRouter
	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}

// ensureAdminUser seeds a full-capability administrator role and user so a
// fresh deployment has a way in. No-op when ADMIN_EMAIL is unset or the
// user already exists.
func ensureAdminUser(db *gorm.DB, cfg *config.ProductionConfig) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		return nil
	}

	roleRepo := repository.NewRoleRepository(db)
	userRepo := repository.NewUserRepository(db)
	ctx := context.Background()

	existing, err := userRepo.ByEmail(ctx, cfg.Admin.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	role, err := roleRepo.ByName(ctx, "Administrator")
	if err != nil {
		return err
	}
	if role == nil {
		role = &models.Role{
			Name:         "Administrator",
			Description:  utils.ToPtr("Full access to every module"),
			Capabilities: allCapabilities(),
			IsActive:     utils.ToPtr(true),
			CreatedAt:    utils.UTCNow(),
			UpdatedAt:    utils.UTCNow(),
		}
		if err := roleRepo.Save(ctx, role); err != nil {
			return err
		}
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), cfg.Security.BcryptCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		FirstName:    cfg.Admin.FirstName,
		LastName:     cfg.Admin.LastName,
		Email:        cfg.Admin.Email,
		PasswordHash: string(passwordHash),
		RoleID:       role.ID,
		IsActive:     utils.ToPtr(true),
		CreatedAt:    utils.UTCNow(),
		UpdatedAt:    utils.UTCNow(),
	}
	if err := userRepo.Save(ctx, admin); err != nil {
		return err
	}

	log.Printf("Bootstrap administrator created: %s", cfg.Admin.Email)
	return nil
}

func allCapabilities() []models.Capability {
	modules := []models.Module{
		models.ModuleAccounts, models.ModuleContacts, models.ModuleLeads,
		models.ModuleQuotes, models.ModuleJobs, models.ModuleNationalities,
		models.ModuleCostComponents, models.ModulePricingRules,
		models.ModuleApprovalMatrix, models.ModuleRoles, models.ModuleUsers,
		models.ModuleCommunications, models.ModuleDashboard,
		models.ModuleForecasting, models.ModuleSettings, models.ModuleAuditLog,
	}
	actions := []models.CapAction{
		models.ActionView, models.ActionCreate, models.ActionUpdate,
		models.ActionDelete, models.ActionExport,
	}

	caps := make([]models.Capability, 0, len(modules)*len(actions))
	for _, m := range modules {
		for _, a := range actions {
			caps = append(caps, models.Capability{Module: m, Action: a})
		}
	}
	return caps
}
