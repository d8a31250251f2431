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

var _ repository.CreditNoteRepository = (*CreditNoteRepo)(nil)

// CreditNoteRepo notas crédito/débito.
type CreditNoteRepo struct {
	q Querier
}

// NewCreditNoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCreditNoteRepository(q Querier) *CreditNoteRepo {
	return &CreditNoteRepo{q: q}
}

// Create inserta la nota. Con Number en 0 el consecutivo es el ID generado;
// ID y número se asignan en la misma sentencia.
func (r *CreditNoteRepo) Create(ctx context.Context, n *entity.CreditNote) error {
	const q = `
		WITH nid AS (SELECT nextval(pg_get_serial_sequence('notas_credito', 'id')) AS id)
		INSERT INTO notas_credito
			(id, factura_fiscal_id, prefijo_factura, numero_factura, prefijo, numero, valor, alcance,
			 naturaleza, concepto_codigo, concepto, estado, fecha_emision, created_at, updated_at)
		SELECT nid.id, $1, $2, $3, $4, COALESCE(NULLIF($5::bigint, 0), nid.id), $6, $7, $8, $9, $10, $11, $12, now(), now()
		FROM nid
		RETURNING id, numero, created_at, updated_at`
	err := r.q.QueryRow(ctx, q,
		n.InvoiceID, n.InvoicePrefix, n.InvoiceNumber, n.Prefix, n.Number, n.Value, n.Scope,
		n.Nature, n.ReasonCode, n.Reason, n.State, n.IssuedAt,
	).Scan(&n.ID, &n.Number, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: nota %s%d", domain.ErrDuplicate, n.Prefix, n.Number)
		}
		return fmt.Errorf("insert nota_credito: %w", err)
	}
	return nil
}

func (r *CreditNoteRepo) GetByID(ctx context.Context, id int64) (*entity.CreditNote, error) {
	const q = `
		SELECT id, factura_fiscal_id, COALESCE(prefijo_factura, ''), COALESCE(numero_factura, ''),
		       prefijo, COALESCE(numero, 0), valor, alcance, naturaleza, concepto_codigo,
		       COALESCE(concepto, ''), estado, COALESCE(cufe, ''), COALESCE(uuid, ''),
		       COALESCE(respuesta_proveedor::text, ''), fecha_emision, created_at, updated_at
		FROM notas_credito WHERE id = $1`
	var n entity.CreditNote
	err := r.q.QueryRow(ctx, q, id).Scan(
		&n.ID, &n.InvoiceID, &n.InvoicePrefix, &n.InvoiceNumber,
		&n.Prefix, &n.Number, &n.Value, &n.Scope, &n.Nature, &n.ReasonCode,
		&n.Reason, &n.State, &n.CUFE, &n.ProviderUUID,
		&n.ProviderResponse, &n.IssuedAt, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get nota_credito: %w", err)
	}
	return &n, nil
}

// UpdateSubmission persiste el resultado de un envío. CUFE y UUID vacíos no
// sobrescriben los de un envío anterior.
func (r *CreditNoteRepo) UpdateSubmission(ctx context.Context, n *entity.CreditNote) error {
	const q = `
		UPDATE notas_credito
		SET estado              = $2,
		    cufe                = COALESCE($3, cufe),
		    uuid                = COALESCE($4, uuid),
		    respuesta_proveedor = $5::jsonb,
		    updated_at          = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, q,
		n.ID, n.State, nullIfEmpty(n.CUFE), nullIfEmpty(n.ProviderUUID), nullIfEmpty(n.ProviderResponse),
	)
	if err != nil {
		return fmt.Errorf("update nota_credito: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: nota %d", domain.ErrNotFound, n.ID)
	}
	return nil
}
