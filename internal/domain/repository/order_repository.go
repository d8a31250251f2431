package repository

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// ServiceOrderRepository órdenes de servicio e ítems (fuente de las facturas).
type ServiceOrderRepository interface {
	// ListOrderItemsForUpdate bloquea los ítems de orden a facturar dentro de la tx.
	ListOrderItemsForUpdate(ctx context.Context, ids []int64) ([]*entity.OrderItem, error)
	MarkInvoiced(ctx context.Context, ids []int64) error
	// ListByInvoice órdenes asociadas a los ítems de una factura.
	ListByInvoice(ctx context.Context, invoiceID int64) ([]*entity.ServiceOrder, error)
	GetByID(ctx context.Context, id int64) (*entity.ServiceOrder, error)
}
