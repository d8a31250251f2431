package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
)

// InvoiceHandler maneja las peticiones HTTP de facturas fiscales (protegido).
type InvoiceHandler struct {
	uc        *billing.CreateInvoiceUseCase
	invoicing *billing.ElectronicInvoicingService
	opts      Options
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.CreateInvoiceUseCase, invoicing *billing.ElectronicInvoicingService, opts Options) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, invoicing: invoicing, opts: opts}
}

// Create factura los ítems de orden indicados y opcionalmente la envía a DataIco.
// POST /api/facturas
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	companyID := companyIDInt(c)
	if companyID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token sin empresa válida"})
	}
	var in dto.CreateInvoiceRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	invoice, err := h.uc.CreateInvoice(c.UserContext(), companyID, in)
	if err != nil {
		return writeError(c, h.opts, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// GetByID detalle de una factura con su estado electrónico.
// GET /api/facturas/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	invoice, err := h.invoicing.GetInvoice(c.UserContext(), int64(id))
	if err != nil {
		return writeError(c, h.opts, err)
	}
	return c.JSON(invoice)
}
