package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/peoplehub/hr-records/internal/api/handler"
	"github.com/peoplehub/hr-records/internal/api/middleware"
	"github.com/peoplehub/hr-records/internal/core/domain"
	"github.com/peoplehub/hr-records/internal/core/ports"
	"github.com/peoplehub/hr-records/internal/core/token"
)

// NewRouter builds the Echo instance with all routes registered.
//
// Access control is a two-stage pipeline: the authentication middleware
// verifies the token and attaches a typed identity, the RBAC middleware
// compares that identity's role against the per-route required set. Public
// routes (has-admin, bootstrap, register, login, health, metrics) mount
// neither stage; every other route mounts both, in order.
func NewRouter(db *mongo.Database, rdb *redis.Client, codec *token.Codec, authService ports.AuthService, employeeService ports.EmployeeService, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("hr"))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService)
	employeeHandler := handler.NewEmployeeHandler(employeeService)

	authn := middleware.Authenticate(codec)
	adminOnly := middleware.RequireRoles(domain.RoleAdmin)
	managerial := middleware.RequireRoles(domain.RoleManager, domain.RoleAdmin)
	anyRole := middleware.RequireRoles(domain.RoleStaff, domain.RoleManager, domain.RoleAdmin)

	// --- Public auth routes ---
	e.GET("/api/auth/has-admin", authHandler.HasAdmin)
	e.POST("/api/auth/admin", authHandler.BootstrapAdmin)
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)

	// --- User administration ---
	e.GET("/api/auth/users", authHandler.ListUsers, authn, adminOnly)
	e.POST("/api/users/:id/promote", userHandler.Promote, authn, adminOnly)

	// --- Employee records ---
	e.POST("/api/employees", employeeHandler.Create, authn, managerial)
	e.POST("/api/employees/self-register", employeeHandler.SelfRegister, authn, middleware.RequireRoles(domain.RoleStaff))
	e.GET("/api/employees", employeeHandler.List, authn, managerial)
	e.GET("/api/employees/by-user/:userId", employeeHandler.GetByUser, authn, anyRole)
	e.GET("/api/employees/by-manager/:managerId", employeeHandler.ListByManager, authn, managerial)
	e.POST("/api/employees/:employeeId/assign-manager", employeeHandler.AssignManager, authn, managerial)

	// --- Documents ---
	e.POST("/api/employees/:employeeId/documents", employeeHandler.AddDocument, authn, anyRole)
	e.POST("/api/employees/:employeeId/documents/:documentName/update", employeeHandler.UpdateDocument, authn, anyRole)
	e.GET("/api/employees/:employeeId/documents/:documentName/download", employeeHandler.DownloadDocument, authn, anyRole)
	e.POST("/api/employees/:employeeId/documents/approve", employeeHandler.ApproveDocument, authn, managerial)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
