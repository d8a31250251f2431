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

var _ repository.NumberingRepository = (*NumberingRepo)(nil)

// NumberingRepo numeraciones DIAN (usable con pool o tx).
type NumberingRepo struct {
	q Querier
}

// NewNumberingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewNumberingRepository(q Querier) *NumberingRepo {
	return &NumberingRepo{q: q}
}

const numberingColumns = `
	id, tipo_documento, prefijo, COALESCE(numero_resolucion, ''), rango_desde, rango_hasta,
	consecutivo_actual, fecha_desde, fecha_hasta, activa, created_at, updated_at`

func (r *NumberingRepo) GetByID(ctx context.Context, id int64) (*entity.Numbering, error) {
	q := `SELECT ` + numberingColumns + ` FROM numeraciones WHERE id = $1`
	n, err := scanNumbering(r.q.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get numeracion: %w", err)
	}
	return n, nil
}

// GetActiveByKind devuelve nil, nil si no hay numeración activa y vigente.
func (r *NumberingRepo) GetActiveByKind(ctx context.Context, kind string) (*entity.Numbering, error) {
	q := `SELECT ` + numberingColumns + `
		FROM numeraciones
		WHERE tipo_documento = $1
		  AND activa = true
		  AND fecha_hasta >= CURRENT_DATE
		ORDER BY fecha_desde DESC
		LIMIT 1`
	n, err := scanNumbering(r.q.QueryRow(ctx, q, kind))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get numeracion activa: %w", err)
	}
	return n, nil
}

// NextNumber incrementa el consecutivo en una sola sentencia: el UPDATE toma el
// bloqueo de fila, así dos transacciones concurrentes nunca reciben el mismo número.
// Sin fila afectada la numeración está inactiva, vencida o agotada.
func (r *NumberingRepo) NextNumber(ctx context.Context, id int64) (int64, error) {
	const q = `
		UPDATE numeraciones
		SET consecutivo_actual = GREATEST(consecutivo_actual + 1, rango_desde),
		    updated_at         = now()
		WHERE id = $1
		  AND activa = true
		  AND fecha_hasta >= CURRENT_DATE
		  AND GREATEST(consecutivo_actual + 1, rango_desde) <= rango_hasta
		RETURNING consecutivo_actual`
	var next int64
	if err := r.q.QueryRow(ctx, q, id).Scan(&next); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: numeración %d", domain.ErrNumberingExhausted, id)
		}
		return 0, fmt.Errorf("incrementar consecutivo: %w", err)
	}
	return next, nil
}

func scanNumbering(row pgxScanner) (*entity.Numbering, error) {
	var n entity.Numbering
	err := row.Scan(
		&n.ID, &n.Kind, &n.Prefix, &n.ResolutionNumber, &n.RangeFrom, &n.RangeTo,
		&n.Current, &n.DateFrom, &n.DateTo, &n.IsActive, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
