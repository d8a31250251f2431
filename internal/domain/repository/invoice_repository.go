package repository

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para facturas fiscales.
// Los campos electrónicos no se escriben aquí: se proyectan desde la auditoría.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id int64) (*entity.Invoice, error)
	// GetByPrefixAndNumber busca la factura referenciada por una nota.
	GetByPrefixAndNumber(ctx context.Context, prefix, number string) (*entity.Invoice, error)
}

// InvoiceItemRepository define el puerto de persistencia para ítems de factura.
type InvoiceItemRepository interface {
	Create(ctx context.Context, item *entity.InvoiceItem) error
	// ListDetailsByInvoice devuelve los ítems con su ítem de orden y servicio cargados.
	ListDetailsByInvoice(ctx context.Context, invoiceID int64) ([]*entity.InvoiceItemDetail, error)
}
