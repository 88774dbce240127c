// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"github.com/marafiq-hq/staffing-crm/app/dto"
	"github.com/marafiq-hq/staffing-crm/app/handlers"
	"github.com/marafiq-hq/staffing-crm/app/middleware"
	"github.com/marafiq-hq/staffing-crm/models"
	"github.com/marafiq-hq/staffing-crm/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// Handlers bundles every HTTP handler the router wires up
type Handlers struct {
	Auth          handlers.AuthHandlerInterface
	Account       *handlers.AccountHandler
	Lead          *handlers.LeadHandler
	Catalog       *handlers.CatalogHandler
	PricingAdmin  *handlers.PricingAdminHandler
	Quote         *handlers.QuoteHandler
	UserAdmin     *handlers.UserAdminHandler
	Communication *handlers.CommunicationHandler
	Dashboard     *handlers.DashboardHandler
	Settings      *handlers.SettingsHandler
	Audit         *handlers.AuditHandler
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app      *fiber.App
	handlers Handlers
	authMW   *middleware.AuthMiddleware
	origins  []string
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(h Handlers, authMW *middleware.AuthMiddleware, allowedOrigins []string) Router {
	app := fiber.New(fiber.Config{
		AppName:      "Staffing CRM API",
		ServerHeader: "Staffing-CRM",
		ErrorHandler: errorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:      app,
		handlers: h,
		authMW:   authMW,
		origins:  allowedOrigins,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	r.setupMiddleware()

	api := r.app.Group("/api/v1")

	// Health check route (no rate limiting)
	api.Get("/health", r.handlers.Auth.Health)

	// General rate limiting across the API
	api.Use(limiter.New(limiter.Config{
		Max:        2000,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	// Auth routes with stricter rate limiting
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
	}))

	auth.Post("/login", r.handlers.Auth.Login)
	auth.Post("/refresh", r.handlers.Auth.RefreshToken)
	auth.Post("/logout", r.authMW.Authenticate(), r.handlers.Auth.Logout)
	auth.Post("/change-password", r.authMW.Authenticate(), r.handlers.Auth.ChangePassword)

	// Everything below requires a live session
	protected := api.Group("", r.authMW.Authenticate())

	r.setupAccountRoutes(protected)
	r.setupLeadRoutes(protected)
	r.setupCatalogRoutes(protected)
	r.setupPricingRoutes(protected)
	r.setupQuoteRoutes(protected)
	r.setupAdminRoutes(protected)
	r.setupReportingRoutes(protected)

	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

func (r *FiberRouter) setupAccountRoutes(g fiber.Router) {
	can := r.authMW.RequireCapability

	g.Post("/accounts", can(models.ModuleAccounts, models.ActionCreate), r.handlers.Account.CreateAccount)
	g.Get("/accounts", can(models.ModuleAccounts, models.ActionView), r.handlers.Account.ListAccounts)
	g.Get("/accounts/:uuid", can(models.ModuleAccounts, models.ActionView), r.handlers.Account.GetAccount)
	g.Put("/accounts/:uuid", can(models.ModuleAccounts, models.ActionUpdate), r.handlers.Account.UpdateAccount)
	g.Delete("/accounts/:uuid", can(models.ModuleAccounts, models.ActionDelete), r.handlers.Account.DeactivateAccount)

	g.Post("/contacts", can(models.ModuleContacts, models.ActionCreate), r.handlers.Account.CreateContact)
	g.Put("/contacts/:uuid", can(models.ModuleContacts, models.ActionUpdate), r.handlers.Account.UpdateContact)
	g.Delete("/contacts/:uuid", can(models.ModuleContacts, models.ActionDelete), r.handlers.Account.DeleteContact)
	g.Get("/accounts/:uuid/contacts", can(models.ModuleContacts, models.ActionView), r.handlers.Account.ListContacts)

	g.Get("/accounts/:id/communications", can(models.ModuleCommunications, models.ActionView), r.handlers.Communication.ListByAccount)
}

func (r *FiberRouter) setupLeadRoutes(g fiber.Router) {
	can := r.authMW.RequireCapability

	g.Post("/leads", can(models.ModuleLeads, models.ActionCreate), r.handlers.Lead.CreateLead)
	g.Get("/leads", can(models.ModuleLeads, models.ActionView), r.handlers.Lead.ListLeads)
	g.Get("/leads/pipeline", can(models.ModuleLeads, models.ActionView), r.handlers.Lead.PipelineSummary)
	g.Get("/leads/:uuid", can(models.ModuleLeads, models.ActionView), r.handlers.Lead.GetLead)
	g.Put("/leads/:uuid", can(models.ModuleLeads, models.ActionUpdate), r.handlers.Lead.UpdateLead)
	g.Post("/leads/:uuid/status", can(models.ModuleLeads, models.ActionUpdate), r.handlers.Lead.ChangeStatus)

	g.Post("/communications", can(models.ModuleCommunications, models.ActionCreate), r.handlers.Communication.LogCommunication)
	g.Get("/leads/:id/communications", can(models.ModuleCommunications, models.ActionView), r.handlers.Communication.ListByLead)
}

func (r *FiberRouter) setupCatalogRoutes(g fiber.Router) {
	can := r.authMW.RequireCapability

	g.Post("/jobs", can(models.ModuleJobs, models.ActionCreate), r.handlers.Catalog.CreateJob)
	g.Get("/jobs", can(models.ModuleJobs, models.ActionView), r.handlers.Catalog.ListJobs)
	g.Put("/jobs/:id", can(models.ModuleJobs, models.ActionUpdate), r.handlers.Catalog.UpdateJob)
	g.Get("/jobs/:id/profiles", can(models.ModuleJobs, models.ActionView), r.handlers.Catalog.ListJobProfiles)
	g.Post("/job-profiles", can(models.ModuleJobs, models.ActionCreate), r.handlers.Catalog.CreateJobProfile)
	g.Put("/job-profiles/:id", can(models.ModuleJobs, models.ActionUpdate), r.handlers.Catalog.UpdateJobProfile)

	g.Post("/nationalities", can(models.ModuleNationalities, models.ActionCreate), r.handlers.Catalog.CreateNationality)
	g.Get("/nationalities", can(models.ModuleNationalities, models.ActionView), r.handlers.Catalog.ListNationalities)
	g.Put("/nationalities/:id", can(models.ModuleNationalities, models.ActionUpdate), r.handlers.Catalog.UpdateNationality)

	// Reference tables back every form, so viewing any module implies access
	g.Get("/lookups", r.handlers.Catalog.ListLookups)
}

func (r *FiberRouter) setupPricingRoutes(g fiber.Router) {
	can := r.authMW.RequireCapability

	g.Post("/cost-components", can(models.ModuleCostComponents, models.ActionCreate), r.handlers.PricingAdmin.CreateCostComponent)
	g.Get("/cost-components", can(models.ModuleCostComponents, models.ActionView), r.handlers.PricingAdmin.ListCostComponents)
	g.Put("/cost-components/:id", can(models.ModuleCostComponents, models.ActionUpdate), r.handlers.PricingAdmin.UpdateCostComponent)
	g.Delete("/cost-components/:id", can(models.ModuleCostComponents, models.ActionDelete), r.handlers.PricingAdmin.DeactivateCostComponent)

	g.Post("/pricing-rules", can(models.ModulePricingRules, models.ActionCreate), r.handlers.PricingAdmin.CreatePricingRule)
	g.Get("/pricing-rules", can(models.ModulePricingRules, models.ActionView), r.handlers.PricingAdmin.ListPricingRules)
	g.Get("/pricing-rules/:uuid", can(models.ModulePricingRules, models.ActionView), r.handlers.PricingAdmin.GetPricingRule)
	g.Put("/pricing-rules/:uuid", can(models.ModulePricingRules, models.ActionUpdate), r.handlers.PricingAdmin.UpdatePricingRule)
	g.Delete("/pricing-rules/:uuid", can(models.ModulePricingRules, models.ActionDelete), r.handlers.PricingAdmin.DeactivatePricingRule)

	g.Post("/approval-rules", can(models.ModuleApprovalMatrix, models.ActionCreate), r.handlers.PricingAdmin.CreateApprovalRule)
	g.Get("/approval-rules", can(models.ModuleApprovalMatrix, models.ActionView), r.handlers.PricingAdmin.ListApprovalRules)
	g.Put("/approval-rules/:id", can(models.ModuleApprovalMatrix, models.ActionUpdate), r.handlers.PricingAdmin.UpdateApprovalRule)
	g.Delete("/approval-rules/:id", can(models.ModuleApprovalMatrix, models.ActionDelete), r.handlers.PricingAdmin.DeactivateApprovalRule)
}

func (r *FiberRouter) setupQuoteRoutes(g fiber.Router) {
	can := r.authMW.RequireCapability

	g.Post("/quotes", can(models.ModuleQuotes, models.ActionCreate), r.handlers.Quote.CreateQuote)
	g.Get("/quotes", can(models.ModuleQuotes, models.ActionView), r.handlers.Quote.ListQuotes)
	g.Get("/quotes/:uuid", can(models.ModuleQuotes, models.ActionView), r.handlers.Quote.GetQuote)
	g.Post("/quotes/:uuid/price", can(models.ModuleQuotes, models.ActionUpdate), r.handlers.Quote.PriceQuote)
	g.Post("/quotes/:uuid/discount", can(models.ModuleQuotes, models.ActionUpdate), r.handlers.Quote.RequestDiscount)
	g.Post("/quotes/:uuid/status", can(models.ModuleQuotes, models.ActionUpdate), r.handlers.Quote.ChangeStatus)
}

func (r *FiberRouter) setupAdminRoutes(g fiber.Router) {
	can := r.authMW.RequireCapability

	g.Post("/users", can(models.ModuleUsers, models.ActionCreate), r.handlers.UserAdmin.CreateUser)
	g.Get("/users", can(models.ModuleUsers, models.ActionView), r.handlers.UserAdmin.ListUsers)
	g.Get("/users/:uuid", can(models.ModuleUsers, models.ActionView), r.handlers.UserAdmin.GetUser)
	g.Put("/users/:uuid", can(models.ModuleUsers, models.ActionUpdate), r.handlers.UserAdmin.UpdateUser)
	g.Delete("/users/:uuid", can(models.ModuleUsers, models.ActionDelete), r.handlers.UserAdmin.DeactivateUser)

	g.Post("/roles", can(models.ModuleRoles, models.ActionCreate), r.handlers.UserAdmin.CreateRole)
	g.Get("/roles", can(models.ModuleRoles, models.ActionView), r.handlers.UserAdmin.ListRoles)
	g.Put("/roles/:id", can(models.ModuleRoles, models.ActionUpdate), r.handlers.UserAdmin.UpdateRole)

	g.Get("/settings", can(models.ModuleSettings, models.ActionView), r.handlers.Settings.GetSettings)
	g.Put("/settings", can(models.ModuleSettings, models.ActionUpdate), r.handlers.Settings.UpdateSettings)

	g.Get("/audit-logs", can(models.ModuleAuditLog, models.ActionView), r.handlers.Audit.ListAuditLogs)
}

func (r *FiberRouter) setupReportingRoutes(g fiber.Router) {
	can := r.authMW.RequireCapability

	g.Get("/dashboard", can(models.ModuleDashboard, models.ActionView), r.handlers.Dashboard.Summary)
	g.Get("/forecast", can(models.ModuleForecasting, models.ActionView), r.handlers.Dashboard.Forecast)
	g.Get("/forecast/export", can(models.ModuleForecasting, models.ActionExport), r.handlers.Dashboard.ExportForecast)
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	// Security headers middleware
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "DENY",
		HSTSMaxAge:                31536000, // 1 year
		HSTSExcludeSubdomains:     false,
		ContentSecurityPolicy:     "default-src 'self'; frame-ancestors 'none';",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginEmbedderPolicy: "require-corp",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "cross-origin",
		OriginAgentCluster:        "?1",
		XDNSPrefetchControl:       "off",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
	}))

	// CORS middleware
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: r.origins,
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Requested-With",
			"X-Request-ID",
			"Cache-Control",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
			"Content-Disposition",
		},
		AllowCredentials: true,
		MaxAge:           utils.CORSMaxAge,
	}))

	// Compression middleware for performance
	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
		Next: func(c fiber.Ctx) bool {
			// Spreadsheet downloads are already compressed
			return c.Path() == "/api/v1/forecast/export"
		},
	}))

	// Prometheus HTTP metrics
	r.app.Use(middleware.Metrics())

	// Structured request logging
	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent},"referer":"${referer}"}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	// Recovery middleware with custom error handling
	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	requestID := c.Locals("requestid")

	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
			},
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("Error %d: %v", code, err)

	requestID := c.Locals("requestid")

	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestID,
			},
		},
	})
}

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
