package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/faktura-pro/faktura-api/internal/application/auth"
	"github.com/faktura-pro/faktura-api/internal/application/billing"
	"github.com/faktura-pro/faktura-api/internal/application/statistics"
	"github.com/faktura-pro/faktura-api/internal/domain/entity"
	"github.com/faktura-pro/faktura-api/internal/domain/metrics"
	"github.com/faktura-pro/faktura-api/internal/infrastructure/elster"
	"github.com/faktura-pro/faktura-api/internal/infrastructure/postgres"
	httpRouter "github.com/faktura-pro/faktura-api/internal/interfaces/http"
	"github.com/faktura-pro/faktura-api/pkg/config"
	"github.com/faktura-pro/faktura-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("PostgreSQL connection")
	}
	defer pool.Close()

	invoiceRepo := postgres.NewInvoiceRepository(pool)
	timeEntryRepo := postgres.NewTimeEntryRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	statsUC := statistics.NewUsecase(invoiceRepo, timeEntryRepo, elster.NewUStVARenderer(), statistics.Config{
		Company: entity.CompanyInfo{
			VATEnabled:     cfg.Tax.VATEnabled,
			DefaultTaxRate: decimal.NewFromFloat(cfg.Tax.DefaultRatePercent),
		},
		Personal: entity.PersonalTaxSettings{
			AnnualExpenses:      decimal.NewFromFloat(cfg.Tax.AnnualExpenses),
			JointAssessment:     cfg.Tax.JointAssessment,
			PartnerAnnualIncome: decimal.NewFromFloat(cfg.Tax.PartnerAnnualIncome),
			ChurchMember:        cfg.Tax.ChurchMember,
			FederalState:        entity.FederalState(cfg.Tax.FederalState),
			PrepaymentsYTD:      decimal.NewFromFloat(cfg.Tax.PrepaymentsYTD),
		},
		Tariff:          metrics.DefaultTariff2025(),
		CutoffDay:       cfg.Tax.CutoffDay,
		DefaultStrategy: metrics.ProjectionStrategy(cfg.Tax.ProjectionStrategy),

		TaxNumber:  cfg.Elster.TaxNumber,
		OwnerName:  cfg.Elster.OwnerName,
		Street:     cfg.Elster.Street,
		PostalCode: cfg.Elster.PostalCode,
		City:       cfg.Elster.City,
	})
	invoiceUC := billing.NewInvoiceUseCase(invoiceRepo)
	authUC := auth.NewUsecase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Faktura Pro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		StatisticsUC: statsUC,
		InvoiceUC:    invoiceUC,
		AuthUC:       authUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, closing server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
