package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceItem enlaza la factura con el ítem de orden que la originó. Inmutable.
type InvoiceItem struct {
	ID          int64
	InvoiceID   int64
	OrderItemID int64
	CreatedAt   time.Time
}

// InvoiceItemDetail ítem de factura con su ítem de orden y servicio cargados.
type InvoiceItemDetail struct {
	Item      *InvoiceItem
	OrderItem *OrderItem // nil si el ítem de orden ya no existe
	Service   *Service   // nil si el ítem no tiene servicio asociado
}

// UnitPrice resuelve el precio: valor del ítem de orden y, si no tiene, el
// valor del servicio en el catálogo. ok=false si no hay precio positivo.
func (d *InvoiceItemDetail) UnitPrice() (decimal.Decimal, bool) {
	if d.OrderItem != nil && d.OrderItem.UnitValue.GreaterThan(decimal.Zero) {
		return d.OrderItem.UnitValue, true
	}
	if d.Service != nil && d.Service.Value.GreaterThan(decimal.Zero) {
		return d.Service.Value, true
	}
	return decimal.Zero, false
}
