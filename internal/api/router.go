package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/talentpulse/performance-api/internal/api/handler"
	"github.com/talentpulse/performance-api/internal/api/middleware"
	"github.com/talentpulse/performance-api/internal/core/auth"
	"github.com/talentpulse/performance-api/internal/core/ports"
	"github.com/talentpulse/performance-api/internal/infrastructure/http/handlers"

	_ "github.com/talentpulse/performance-api/docs"
)

// Deps carries everything the router needs to build the handlers.
type Deps struct {
	Auth          ports.AuthService
	Users         ports.UserService
	Performance   ports.PerformanceService
	Feedback      ports.FeedbackService
	KPIs          ports.KPIService
	Authenticator middleware.Authenticator
	Audit         ports.AuditRecorder
	// Readiness lists the dependencies checked by /health/ready.
	Readiness map[string]handlers.Pinger
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("performance"))

	// --- Operational endpoints (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authn := middleware.Authenticate(deps.Authenticator, deps.Audit, deps.Logger)
	adminOnly := []echo.MiddlewareFunc{authn, middleware.RequireGate(auth.AdminOnly, deps.Audit)}
	managerTier := []echo.MiddlewareFunc{authn, middleware.RequireGate(auth.ManagerTier, deps.Audit)}
	employeeTier := []echo.MiddlewareFunc{authn, middleware.RequireGate(auth.EmployeeTier, deps.Audit)}

	group := e.Group("/api")

	// --- Auth ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	authGroup := group.Group("/auth")
	authGroup.GET("/health", authHandler.Health)
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/logout", authHandler.Logout, employeeTier...)
	authGroup.GET("/me", authHandler.Me, employeeTier...)

	// --- Users and dashboards ---
	userHandler := handler.NewUserHandler(deps.Users)
	users := group.Group("/users")
	users.GET("", userHandler.List, employeeTier...)
	users.POST("", userHandler.Create, adminOnly...)
	users.GET("/dashboard/admin", userHandler.AdminDashboard, adminOnly...)
	users.GET("/dashboard/manager", userHandler.ManagerDashboard, managerTier...)
	users.GET("/dashboard/employee", userHandler.EmployeeDashboard, employeeTier...)
	users.PUT("/:id", userHandler.Update, adminOnly...)
	users.DELETE("/:id", userHandler.Delete, adminOnly...)
	users.POST("/:id/assign-manager", userHandler.AssignManager, adminOnly...)
	users.POST("/:id/activate", userHandler.Activate, adminOnly...)
	users.POST("/:id/deactivate", userHandler.Deactivate, adminOnly...)

	// --- Performance reviews ---
	performanceHandler := handler.NewPerformanceHandler(deps.Performance)
	performance := group.Group("/performance")
	performance.POST("", performanceHandler.Create, managerTier...)
	performance.GET("", performanceHandler.ListAll, adminOnly...)
	performance.GET("/me", performanceHandler.ListMine, employeeTier...)
	performance.GET("/employee/:id", performanceHandler.ListForEmployee, managerTier...)

	// --- Feedback ---
	feedbackHandler := handler.NewFeedbackHandler(deps.Feedback)
	feedback := group.Group("/feedback")
	feedback.GET("", feedbackHandler.ListAll, managerTier...)
	feedback.POST("", feedbackHandler.Post, employeeTier...)
	feedback.GET("/me", feedbackHandler.ListMine, employeeTier...)
	feedback.PUT("/:id/approve", feedbackHandler.Approve, managerTier...)
	feedback.PUT("/:id/reject", feedbackHandler.Reject, managerTier...)
	feedback.DELETE("/:id", feedbackHandler.Delete, adminOnly...)

	// --- KPIs ---
	kpiHandler := handler.NewKPIHandler(deps.KPIs)
	kpi := group.Group("/kpi")
	kpi.GET("", kpiHandler.List, managerTier...)
	kpi.POST("", kpiHandler.Create, adminOnly...)
	kpi.POST("/evaluate", kpiHandler.Evaluate, managerTier...)

	return e
}

// requestLogger writes one zerolog line per request. Authorization headers are
// never logged.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Status >= 500 {
				event = log.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
