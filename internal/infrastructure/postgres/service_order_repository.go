package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.ServiceOrderRepository = (*ServiceOrderRepo)(nil)

// ServiceOrderRepo órdenes de servicio e ítems (usable con pool o tx).
type ServiceOrderRepo struct {
	q Querier
}

// NewServiceOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewServiceOrderRepository(q Querier) *ServiceOrderRepo {
	return &ServiceOrderRepo{q: q}
}

const orderColumns = `
	o.id, o.numero, o.tercero_id, o.fecha,
	COALESCE(o.paciente_tipo_identificacion, ''), COALESCE(o.paciente_identificacion, ''),
	COALESCE(o.paciente_primer_nombre, ''), COALESCE(o.paciente_segundo_nombre, ''),
	COALESCE(o.paciente_primer_apellido, ''), COALESCE(o.paciente_segundo_apellido, ''),
	COALESCE(o.tipo_usuario, ''), COALESCE(o.numero_autorizacion, ''),
	COALESCE(o.numero_contrato, ''), COALESCE(o.numero_poliza, ''),
	COALESCE(o.copago, 0), COALESCE(o.cuota_moderadora, 0),
	o.created_at, o.updated_at`

// ListOrderItemsForUpdate bloquea (FOR UPDATE) los ítems de orden. Debe
// llamarse dentro de la transacción de facturación.
func (r *ServiceOrderRepo) ListOrderItemsForUpdate(ctx context.Context, ids []int64) ([]*entity.OrderItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const q = `
		SELECT oi.id, oi.orden_id, oi.servicio_id, COALESCE(oi.descripcion, ''),
		       oi.cantidad, COALESCE(oi.valor_unitario, 0), COALESCE(s.valor, 0),
		       oi.facturado, oi.created_at
		FROM orden_items oi
		LEFT JOIN servicios s ON s.id = oi.servicio_id
		WHERE oi.id = ANY($1)
		ORDER BY oi.id
		FOR UPDATE OF oi`
	rows, err := r.q.Query(ctx, q, ids)
	if err != nil {
		return nil, fmt.Errorf("lock orden_items: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrderItem
	for rows.Next() {
		var oi entity.OrderItem
		if err := rows.Scan(
			&oi.ID, &oi.OrderID, &oi.ServiceID, &oi.Description,
			&oi.Quantity, &oi.UnitValue, &oi.ServiceValue,
			&oi.Invoiced, &oi.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan orden_item: %w", err)
		}
		list = append(list, &oi)
	}
	return list, rows.Err()
}

// MarkInvoiced marca los ítems como facturados.
func (r *ServiceOrderRepo) MarkInvoiced(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := r.q.Exec(ctx, `UPDATE orden_items SET facturado = true WHERE id = ANY($1)`, ids); err != nil {
		return fmt.Errorf("marcar orden_items facturados: %w", err)
	}
	return nil
}

// ListByInvoice órdenes de los ítems de la factura, sin repetir.
func (r *ServiceOrderRepo) ListByInvoice(ctx context.Context, invoiceID int64) ([]*entity.ServiceOrder, error) {
	q := `
		SELECT DISTINCT ` + orderColumns + `
		FROM ordenes_servicio o
		JOIN orden_items oi   ON oi.orden_id = o.id
		JOIN factura_items fi ON fi.orden_item_id = oi.id
		WHERE fi.factura_fiscal_id = $1
		ORDER BY o.id`
	rows, err := r.q.Query(ctx, q, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list ordenes de factura: %w", err)
	}
	defer rows.Close()
	var list []*entity.ServiceOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan orden: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// GetByID obtiene una orden de servicio.
func (r *ServiceOrderRepo) GetByID(ctx context.Context, id int64) (*entity.ServiceOrder, error) {
	q := `SELECT ` + orderColumns + ` FROM ordenes_servicio o WHERE o.id = $1`
	o, err := scanOrder(r.q.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get orden: %w", err)
	}
	return o, nil
}

func scanOrder(row pgxScanner) (*entity.ServiceOrder, error) {
	var o entity.ServiceOrder
	p := &o.Patient
	err := row.Scan(
		&o.ID, &o.Number, &o.ThirdPartyID, &o.Date,
		&p.IdentificationType, &p.IdentificationNumber,
		&p.FirstName, &p.SecondName,
		&p.FirstSurname, &p.SecondSurname,
		&p.UserType, &p.AuthorizationNumber,
		&p.ContractNumber, &p.PolicyNumber,
		&p.Copayment, &p.ModeratingFee,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
