package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/faktura-pro/faktura-api/internal/application/billing"
	"github.com/faktura-pro/faktura-api/internal/application/dto"
	"github.com/faktura-pro/faktura-api/internal/domain"
)

// InvoiceHandler exposes the invoice list and the paid transition.
type InvoiceHandler struct {
	uc *billing.InvoiceUseCase
}

func NewInvoiceHandler(uc *billing.InvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// List godoc
// @Summary      List invoices with display status and permitted actions
// @Tags         invoices
// @Produce      json
// @Success      200  {object}  dto.InvoiceListResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// MarkPaid godoc
// @Summary      Mark an invoice as paid
// @Tags         invoices
// @Produce      json
// @Param        id  path  string  true  "invoice id"
// @Success      200  {object}  entity.Invoice
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/paid [post]
func (h *InvoiceHandler) MarkPaid(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "invoice id is required")
	}
	inv, err := h.uc.MarkPaid(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "invoice not found"})
		}
		if errors.Is(err, domain.ErrActionNotAllowed) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ACTION_NOT_ALLOWED", Message: "invoice cannot be marked paid in its current state"})
		}
		return internalError(c, err)
	}
	return c.JSON(inv)
}
