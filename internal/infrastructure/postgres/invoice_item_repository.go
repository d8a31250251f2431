package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.InvoiceItemRepository = (*InvoiceItemRepo)(nil)

// InvoiceItemRepo ítems de factura (usable con pool o tx).
type InvoiceItemRepo struct {
	q Querier
}

// NewInvoiceItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceItemRepository(q Querier) *InvoiceItemRepo {
	return &InvoiceItemRepo{q: q}
}

// Create inserta el enlace factura ↔ ítem de orden.
func (r *InvoiceItemRepo) Create(ctx context.Context, item *entity.InvoiceItem) error {
	const q = `
		INSERT INTO factura_items (factura_fiscal_id, orden_item_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id`
	if err := r.q.QueryRow(ctx, q, item.InvoiceID, item.OrderItemID, item.CreatedAt).Scan(&item.ID); err != nil {
		return fmt.Errorf("insert factura_item: %w", err)
	}
	return nil
}

// ListDetailsByInvoice carga ítem, ítem de orden y servicio en una sola consulta.
// Ítem de orden o servicio inexistentes quedan en nil.
func (r *InvoiceItemRepo) ListDetailsByInvoice(ctx context.Context, invoiceID int64) ([]*entity.InvoiceItemDetail, error) {
	const q = `
		SELECT fi.id, fi.factura_fiscal_id, fi.orden_item_id, fi.created_at,
		       oi.id, oi.orden_id, oi.servicio_id, oi.descripcion, oi.cantidad, oi.valor_unitario, oi.facturado, oi.created_at,
		       s.id, s.codigo, s.nombre, s.valor, s.activo
		FROM factura_items fi
		LEFT JOIN orden_items oi ON oi.id = fi.orden_item_id
		LEFT JOIN servicios s    ON s.id  = oi.servicio_id
		WHERE fi.factura_fiscal_id = $1
		ORDER BY fi.id`
	rows, err := r.q.Query(ctx, q, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list factura_items: %w", err)
	}
	defer rows.Close()

	var list []*entity.InvoiceItemDetail
	for rows.Next() {
		var (
			item                         entity.InvoiceItem
			oiID, oiOrderID, oiServiceID *int64
			oiDesc                       *string
			oiQty, oiValue               decimal.NullDecimal
			oiInvoiced                   *bool
			oiCreated                    *time.Time
			svcID                        *int64
			svcCode, svcName             *string
			svcValue                     decimal.NullDecimal
			svcActive                    *bool
		)
		if err := rows.Scan(
			&item.ID, &item.InvoiceID, &item.OrderItemID, &item.CreatedAt,
			&oiID, &oiOrderID, &oiServiceID, &oiDesc, &oiQty, &oiValue, &oiInvoiced, &oiCreated,
			&svcID, &svcCode, &svcName, &svcValue, &svcActive,
		); err != nil {
			return nil, fmt.Errorf("scan factura_item: %w", err)
		}

		d := &entity.InvoiceItemDetail{Item: &item}
		if oiID != nil {
			d.OrderItem = &entity.OrderItem{
				ID:          *oiID,
				ServiceID:   oiServiceID,
				Description: derefStr(oiDesc),
				Quantity:    oiQty.Decimal,
				UnitValue:   oiValue.Decimal,
				CreatedAt:   timeOrZero(oiCreated),
			}
			if oiOrderID != nil {
				d.OrderItem.OrderID = *oiOrderID
			}
			if oiInvoiced != nil {
				d.OrderItem.Invoiced = *oiInvoiced
			}
		}
		if svcID != nil {
			d.Service = &entity.Service{
				ID:    *svcID,
				Code:  derefStr(svcCode),
				Name:  derefStr(svcName),
				Value: svcValue.Decimal,
			}
			if svcActive != nil {
				d.Service.Active = *svcActive
			}
			if d.OrderItem != nil {
				d.OrderItem.ServiceValue = svcValue.Decimal
			}
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
