package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/faktura-pro/faktura-api/internal/application/auth"
	"github.com/faktura-pro/faktura-api/internal/application/billing"
	"github.com/faktura-pro/faktura-api/internal/application/statistics"
)

// RouterDeps dependencies for the router.
type RouterDeps struct {
	StatisticsUC *statistics.Usecase
	InvoiceUC    *billing.InvoiceUseCase
	AuthUC       *auth.Usecase
	JWTSecret    string
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (public)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Protected routes (require Bearer token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Statistics
	stats := protected.Group("/statistics")
	statsHandler := NewStatisticsHandler(deps.StatisticsUC)
	stats.Get("/summary", statsHandler.Summary)
	stats.Get("/monthly", statsHandler.Monthly)
	stats.Get("/projection", statsHandler.Projection)
	stats.Get("/projection/refined", statsHandler.RefinedProjection)
	stats.Get("/vat", statsHandler.VAT)
	stats.Get("/vat/ustva.xml", statsHandler.UStVA)
	stats.Get("/kleinunternehmer", statsHandler.Kleinunternehmer)
	stats.Get("/income-tax", statsHandler.IncomeTax)
	stats.Get("/years", statsHandler.Years)

	// Invoices
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/:id/paid", invoiceHandler.MarkPaid)
}
