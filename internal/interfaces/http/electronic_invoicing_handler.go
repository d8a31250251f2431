package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
)

// ElectronicInvoicingHandler envío y consulta de facturas ante DataIco.
type ElectronicInvoicingHandler struct {
	svc  *billing.ElectronicInvoicingService
	opts Options
}

// NewElectronicInvoicingHandler construye el handler.
func NewElectronicInvoicingHandler(svc *billing.ElectronicInvoicingService, opts Options) *ElectronicInvoicingHandler {
	return &ElectronicInvoicingHandler{svc: svc, opts: opts}
}

// Send envía la factura al proveedor. Un rechazo del proveedor responde 200
// con success=false.
// POST /api/electronic-invoicing/send
func (h *ElectronicInvoicingHandler) Send(c *fiber.Ctx) error {
	var in dto.SendInvoiceRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	res, err := h.svc.Send(c.UserContext(), in.ID)
	if err != nil {
		return writeError(c, h.opts, err)
	}
	return c.JSON(res)
}

// Refresh consulta en el proveedor el estado vigente de la factura.
// POST /api/electronic-invoicing/refresh/:facturaFiscalId
func (h *ElectronicInvoicingHandler) Refresh(c *fiber.Ctx) error {
	id, err := c.ParamsInt("facturaFiscalId")
	if err != nil || id <= 0 {
		return badRequest(c, "facturaFiscalId inválido")
	}
	res, err := h.svc.RefreshStatus(c.UserContext(), int64(id))
	if err != nil {
		return writeError(c, h.opts, err)
	}
	return c.JSON(res)
}

// Audit registro de auditoría más reciente para un CUFE.
// GET /api/electronic-invoicing/audit/:cufe
func (h *ElectronicInvoicingHandler) Audit(c *fiber.Ctx) error {
	cufe := strings.TrimSpace(c.Params("cufe"))
	if cufe == "" {
		return badRequest(c, "cufe requerido")
	}
	audit, err := h.svc.AuditByCUFE(c.UserContext(), cufe)
	if err != nil {
		return writeError(c, h.opts, err)
	}
	return c.JSON(audit)
}

// History intentos de envío de una factura, del más reciente al más antiguo.
// GET /api/electronic-invoicing/history/:facturaFiscalId
func (h *ElectronicInvoicingHandler) History(c *fiber.Ctx) error {
	id, err := c.ParamsInt("facturaFiscalId")
	if err != nil || id <= 0 {
		return badRequest(c, "facturaFiscalId inválido")
	}
	hist, err := h.svc.History(c.UserContext(), int64(id))
	if err != nil {
		return writeError(c, h.opts, err)
	}
	return c.JSON(hist)
}

// PDF redirige al PDF generado por el proveedor.
// GET /api/electronic-invoicing/pdf/:cufe
func (h *ElectronicInvoicingHandler) PDF(c *fiber.Ctx) error {
	return h.redirect(c, billing.DocumentPDF)
}

// XML redirige al XML firmado generado por el proveedor.
// GET /api/electronic-invoicing/xml/:cufe
func (h *ElectronicInvoicingHandler) XML(c *fiber.Ctx) error {
	return h.redirect(c, billing.DocumentXML)
}

func (h *ElectronicInvoicingHandler) redirect(c *fiber.Ctx, kind string) error {
	cufe := strings.TrimSpace(c.Params("cufe"))
	if cufe == "" {
		return badRequest(c, "cufe requerido")
	}
	url, err := h.svc.DocumentURL(c.UserContext(), cufe, kind)
	if err != nil {
		return writeError(c, h.opts, err)
	}
	return c.Redirect(url, fiber.StatusFound)
}
