package repository

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// CreditNoteRepository define el puerto de persistencia para notas crédito/débito.
type CreditNoteRepository interface {
	// Create inserta la nota; si Number es 0 se usa el ID asignado como consecutivo.
	Create(ctx context.Context, note *entity.CreditNote) error
	GetByID(ctx context.Context, id int64) (*entity.CreditNote, error)
	// UpdateSubmission persiste estado, CUFE, UUID y respuesta tras un envío.
	UpdateSubmission(ctx context.Context, note *entity.CreditNote) error
}
