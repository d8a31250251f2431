package repository

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// ThirdPartyRepository lectura de terceros.
type ThirdPartyRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.ThirdParty, error)
}
