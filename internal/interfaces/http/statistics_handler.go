package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/faktura-pro/faktura-api/internal/application/dto"
	"github.com/faktura-pro/faktura-api/internal/application/statistics"
	"github.com/faktura-pro/faktura-api/internal/domain"
)

// StatisticsHandler exposes the dashboard figures of the metrics engine.
type StatisticsHandler struct {
	uc *statistics.Usecase
}

func NewStatisticsHandler(uc *statistics.Usecase) *StatisticsHandler {
	return &StatisticsHandler{uc: uc}
}

// Summary godoc
// @Summary      Revenue summary (all-time, YTD, MTD, top clients)
// @Tags         statistics
// @Produce      json
// @Success      200  {object}  metrics.Summary
// @Router       /api/statistics/summary [get]
func (h *StatisticsHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.Context())
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// Monthly godoc
// @Summary      Monthly revenue series, optionally smoothed by billing cutoff
// @Tags         statistics
// @Produce      json
// @Param        year      query  int   false  "year (default: current)"
// @Param        smoothed  query  bool  false  "apply billing-cutoff smoothing"
// @Param        cutoff    query  int   false  "cutoff day (default 20)"
// @Success      200  {object}  dto.MonthlySeriesResponse
// @Router       /api/statistics/monthly [get]
func (h *StatisticsHandler) Monthly(c *fiber.Ctx) error {
	var req dto.MonthlySeriesRequest
	if err := c.QueryParser(&req); err != nil {
		return badRequest(c, "invalid query parameters")
	}
	out, err := h.uc.MonthlySeries(c.Context(), req)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// Projection godoc
// @Summary      Annual revenue projection (run rate)
// @Tags         statistics
// @Produce      json
// @Param        year      query  int     false  "year (default: current)"
// @Param        strategy  query  string  false  "day-of-year | first-invoice-span"
// @Success      200  {object}  metrics.Projection
// @Router       /api/statistics/projection [get]
func (h *StatisticsHandler) Projection(c *fiber.Ctx) error {
	var req dto.ProjectionRequest
	if err := c.QueryParser(&req); err != nil {
		return badRequest(c, "invalid query parameters")
	}
	out, err := h.uc.Projection(c.Context(), req)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// RefinedProjection godoc
// @Summary      Month-by-month projection blending actuals, time tracking and baseline
// @Tags         statistics
// @Produce      json
// @Success      200  {object}  metrics.RefinedProjection
// @Router       /api/statistics/projection/refined [get]
func (h *StatisticsHandler) RefinedProjection(c *fiber.Ctx) error {
	out, err := h.uc.RefinedProjection(c.Context())
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// VAT godoc
// @Summary      VAT simulation for the current year
// @Tags         statistics
// @Produce      json
// @Param        rate  query  string  false  "rate override in percent, e.g. 19 or 7.5"
// @Success      200  {object}  metrics.VATSimulation
// @Router       /api/statistics/vat [get]
func (h *StatisticsHandler) VAT(c *fiber.Ctx) error {
	var req dto.VATSimulationRequest
	if err := c.QueryParser(&req); err != nil {
		return badRequest(c, "invalid query parameters")
	}
	out, err := h.uc.VATSimulation(c.Context(), req.RatePercent)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return badRequest(c, "invalid rate override")
		}
		return internalError(c, err)
	}
	return c.JSON(out)
}

// UStVA godoc
// @Summary      UStVA XML export (Elster format, ISO-8859-15)
// @Tags         statistics
// @Produce      xml
// @Param        period  query  string  false  "Elster period code, e.g. 03 (default: current month)"
// @Success      200  {string}  string
// @Router       /api/statistics/vat/ustva.xml [get]
func (h *StatisticsHandler) UStVA(c *fiber.Ctx) error {
	xml, err := h.uc.ExportUStVA(c.Context(), c.Query("period"))
	if err != nil {
		return internalError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml; charset=ISO-8859-15")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="ustva.xml"`)
	return c.Send(xml)
}

// Kleinunternehmer godoc
// @Summary      § 19 UStG threshold monitor
// @Tags         statistics
// @Produce      json
// @Success      200  {object}  metrics.KleinunternehmerReport
// @Router       /api/statistics/kleinunternehmer [get]
func (h *StatisticsHandler) Kleinunternehmer(c *fiber.Ctx) error {
	out, err := h.uc.Kleinunternehmer(c.Context())
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// IncomeTax godoc
// @Summary      Income tax estimate (§ 32a EStG, church tax, Soli)
// @Tags         statistics
// @Produce      json
// @Success      200  {object}  metrics.IncomeTaxEstimate
// @Router       /api/statistics/income-tax [get]
func (h *StatisticsHandler) IncomeTax(c *fiber.Ctx) error {
	out, err := h.uc.IncomeTax(c.Context())
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// Years godoc
// @Summary      Years with invoices (dashboard year selector)
// @Tags         statistics
// @Produce      json
// @Success      200  {object}  dto.YearsResponse
// @Router       /api/statistics/years [get]
func (h *StatisticsHandler) Years(c *fiber.Ctx) error {
	out, err := h.uc.Years(c.Context())
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: msg})
}

func internalError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
