package repository

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// NumberingRepository numeraciones autorizadas por la DIAN.
type NumberingRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Numbering, error)
	// GetActiveByKind numeración activa y vigente para el tipo de documento.
	GetActiveByKind(ctx context.Context, kind string) (*entity.Numbering, error)
	// NextNumber incrementa el consecutivo con bloqueo de fila y devuelve el nuevo
	// valor. domain.ErrNumberingExhausted si se pasa del rango o la vigencia.
	NextNumber(ctx context.Context, id int64) (int64, error)
}
