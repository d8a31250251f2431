package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Invoicing     *billing.ElectronicInvoicingService
	CreditNotes   *billing.CreditNoteService
	CreateInvoice *billing.CreateInvoiceUseCase
	JWTSecret     string
	JWTIssuer     string
	Options       Options
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	writer := RequireRole(jwt.RoleAdmin, jwt.RoleFacturador)
	reader := RequireRole(jwt.RoleAdmin, jwt.RoleFacturador, jwt.RoleAuditor)

	// Facturación electrónica
	ei := protected.Group("/electronic-invoicing")
	eiHandler := NewElectronicInvoicingHandler(deps.Invoicing, deps.Options)
	ei.Post("/send", writer, eiHandler.Send)
	ei.Post("/refresh/:facturaFiscalId", writer, eiHandler.Refresh)
	ei.Get("/audit/:cufe", reader, eiHandler.Audit)
	ei.Get("/history/:facturaFiscalId", reader, eiHandler.History)
	ei.Get("/pdf/:cufe", reader, eiHandler.PDF)
	ei.Get("/xml/:cufe", reader, eiHandler.XML)

	// Facturas fiscales
	invoices := protected.Group("/facturas")
	invoiceHandler := NewInvoiceHandler(deps.CreateInvoice, deps.Invoicing, deps.Options)
	invoices.Post("/", writer, invoiceHandler.Create)
	invoices.Get("/:id", reader, invoiceHandler.GetByID)

	// Notas crédito / débito
	notes := protected.Group("/notas-credito")
	noteHandler := NewCreditNoteHandler(deps.CreditNotes, deps.Options)
	notes.Post("/", writer, noteHandler.Create)
	notes.Get("/:id", reader, noteHandler.Get)
	notes.Post("/:id/enviar", writer, noteHandler.Send)
}
