// Package server wires the HTTP surface: route registration, request
// decoding, and mapping domain errors to status codes. All domain logic
// lives in the service layer.
package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/splitledger/splitledger/internal/auth"
	"github.com/splitledger/splitledger/internal/metrics"
	"github.com/splitledger/splitledger/internal/middleware"
	"github.com/splitledger/splitledger/internal/service"
)

// Server holds the handler dependencies.
type Server struct {
	auth        *service.AuthService
	groups      *service.GroupService
	expenses    *service.ExpenseService
	settlements *service.SettlementService
	statements  *service.StatementService
	jwtManager  *auth.JWTManager
}

// New creates a Server with the given services.
func New(
	authSvc *service.AuthService,
	groups *service.GroupService,
	expenses *service.ExpenseService,
	settlements *service.SettlementService,
	statements *service.StatementService,
	jwtManager *auth.JWTManager,
) *Server {
	return &Server{
		auth:        authSvc,
		groups:      groups,
		expenses:    expenses,
		settlements: settlements,
		statements:  statements,
		jwtManager:  jwtManager,
	}
}

// App builds the fiber application with all routes registered.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "splitledger",
		DisableStartupMessage: true,
	})

	app.Use(middleware.RequestLogger())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := app.Group("/api")
	api.Post("/auth/register", s.handleRegister)
	api.Post("/auth/login", s.handleLogin)

	authed := app.Group("/api", middleware.RequireAuth(s.jwtManager))
	authed.Get("/me", s.handleMe)

	authed.Post("/groups", s.handleCreateGroup)
	authed.Get("/groups", s.handleListGroups)
	authed.Get("/groups/:id", s.handleGetGroup)
	authed.Put("/groups/:id", s.handleUpdateGroup)
	authed.Delete("/groups/:id", s.handleDeleteGroup)

	authed.Post("/groups/:id/expenses", s.handleCreateExpense)
	authed.Get("/groups/:id/expenses", s.handleListExpenses)
	authed.Get("/expenses/:id", s.handleGetExpense)
	authed.Put("/expenses/:id", s.handleUpdateExpense)
	authed.Delete("/expenses/:id", s.handleDeleteExpense)

	authed.Get("/groups/:id/balances", s.handleGetBalances)
	authed.Post("/groups/:id/settlements", s.handleRecalculateSettlements)
	authed.Get("/groups/:id/settlements", s.handleListSettlements)
	authed.Post("/settlements/:id/complete", s.handleCompleteSettlement)
	authed.Post("/settlements/:id/cancel", s.handleCancelSettlement)
	authed.Delete("/settlements/:id", s.handleDeleteSettlement)
	authed.Get("/settlements/:id/qr", s.handleSettlementQR)

	authed.Get("/groups/:id/statement", s.handleGroupStatement)

	return app
}
