package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `
	id, empresa_id, COALESCE(numeracion_id, 0), prefijo, numero, tercero_id,
	tipo_factura, COALESCE(concepto, ''), total, fecha_registro,
	fecha_vencimiento, periodo_inicio, periodo_fin, created_at, updated_at`

// Create persiste la cabecera de la factura y asigna el ID generado.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	const q = `
		INSERT INTO facturas_fiscales
			(empresa_id, numeracion_id, prefijo, numero, tercero_id, tipo_factura, concepto, total,
			 fecha_registro, fecha_vencimiento, periodo_inicio, periodo_fin, created_at, updated_at)
		VALUES ($1, NULLIF($2, 0), $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`
	err := r.q.QueryRow(ctx, q,
		inv.CompanyID, inv.NumberingID, inv.Prefix, inv.Number, inv.ThirdPartyID,
		inv.InvoiceType, nullIfEmpty(inv.Concept), inv.Total,
		inv.RegisteredAt, inv.DueDate, inv.PeriodStart, inv.PeriodEnd,
		inv.CreatedAt, inv.UpdatedAt,
	).Scan(&inv.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: factura %s", domain.ErrDuplicate, inv.FullNumber())
		}
		return fmt.Errorf("insert factura: %w", err)
	}
	return nil
}

// GetByID obtiene la factura por ID. Los campos electrónicos quedan vacíos.
func (r *InvoiceRepo) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	q := `SELECT ` + invoiceColumns + ` FROM facturas_fiscales WHERE id = $1`
	inv, err := scanInvoice(r.q.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get factura: %w", err)
	}
	return inv, nil
}

// GetByPrefixAndNumber busca por prefijo y número; acepta el número con o sin prefijo.
func (r *InvoiceRepo) GetByPrefixAndNumber(ctx context.Context, prefix, number string) (*entity.Invoice, error) {
	q := `SELECT ` + invoiceColumns + `
		FROM facturas_fiscales
		WHERE prefijo = $1 AND (numero = $2 OR prefijo || numero = $2)
		ORDER BY id DESC
		LIMIT 1`
	inv, err := scanInvoice(r.q.QueryRow(ctx, q, prefix, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get factura por número: %w", err)
	}
	return inv, nil
}

func scanInvoice(row pgxScanner) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(
		&inv.ID, &inv.CompanyID, &inv.NumberingID, &inv.Prefix, &inv.Number, &inv.ThirdPartyID,
		&inv.InvoiceType, &inv.Concept, &inv.Total, &inv.RegisteredAt,
		&inv.DueDate, &inv.PeriodStart, &inv.PeriodEnd, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
