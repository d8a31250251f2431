package billing

import (
	"context"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/dataico"
)

// Provider puerto de salida hacia el operador tecnológico (DataIco).
// La implementación concreta es dataico.Client; en pruebas se inyecta un doble.
type Provider interface {
	Submit(ctx context.Context, payload any, endpoint string) *dataico.Result
	Fetch(ctx context.Context, endpoint, uuid string) *dataico.Result
}

// InvoicingTxRunner ejecuta una función dentro de una transacción con los repos
// necesarios para crear una factura desde ítems de orden.
type InvoicingTxRunner interface {
	RunInvoicing(ctx context.Context, fn func(
		numberingRepo repository.NumberingRepository,
		orderRepo repository.ServiceOrderRepository,
		invoiceRepo repository.InvoiceRepository,
		itemRepo repository.InvoiceItemRepository,
	) error) error
}

// CreditNoteTxRunner ejecuta fn en una transacción con los repos que reservan
// el consecutivo de la nota y la insertan.
type CreditNoteTxRunner interface {
	RunCreditNote(ctx context.Context, fn func(
		numberingRepo repository.NumberingRepository,
		noteRepo repository.CreditNoteRepository,
	) error) error
}

// Repositories repos de lectura/escritura fuera de transacción.
type Repositories struct {
	Invoices     repository.InvoiceRepository
	Items        repository.InvoiceItemRepository
	ThirdParties repository.ThirdPartyRepository
	Orders       repository.ServiceOrderRepository
	Numberings   repository.NumberingRepository
	Audits       repository.ElectronicAuditRepository
	Notes        repository.CreditNoteRepository
}

// Settings parámetros de DataIco que usan el constructor de documentos y los
// servicios. Se construye desde config.DataIcoConfig en el arranque.
type Settings struct {
	AccountID          string
	Production         bool
	SendEmail          bool
	InvoicePrefix      string
	InvoiceResolution  string
	CreditNotePrefix   string
	DebitNotePrefix    string
	HealthProviderCode string
	Location           *time.Location // zona de las fechas del documento; nil: hora de Colombia
}

// ColombiaTime hora legal de Colombia (UTC-5, sin horario de verano).
var ColombiaTime = time.FixedZone("COT", -5*60*60)

func (s Settings) location() *time.Location {
	if s.Location == nil {
		return ColombiaTime
	}
	return s.Location
}
