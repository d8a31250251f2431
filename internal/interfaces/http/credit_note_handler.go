package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
)

// CreditNoteHandler notas crédito y débito.
type CreditNoteHandler struct {
	svc  *billing.CreditNoteService
	opts Options
}

// NewCreditNoteHandler construye el handler.
func NewCreditNoteHandler(svc *billing.CreditNoteService, opts Options) *CreditNoteHandler {
	return &CreditNoteHandler{svc: svc, opts: opts}
}

// Create registra una nota sobre una factura fiscal (sin enviarla).
// POST /api/notas-credito
func (h *CreditNoteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCreditNoteRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	note, err := h.svc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.opts, err)
	}
	return c.Status(fiber.StatusCreated).JSON(note)
}

// GET /api/notas-credito/:id
func (h *CreditNoteHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	note, err := h.svc.Get(c.UserContext(), int64(id))
	if err != nil {
		return writeError(c, h.opts, err)
	}
	return c.JSON(note)
}

// Send envía la nota al proveedor enlazada a la factura original.
// POST /api/notas-credito/:id/enviar
func (h *CreditNoteHandler) Send(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id inválido")
	}
	res, err := h.svc.Send(c.UserContext(), int64(id))
	if err != nil {
		return writeError(c, h.opts, err)
	}
	return c.JSON(res)
}
