package repository

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// ElectronicAuditRepository registro append-only de envíos al proveedor.
type ElectronicAuditRepository interface {
	Append(ctx context.Context, audit *entity.ElectronicAudit) error
	// ListByInvoice devuelve el historial ordenado del más reciente al más antiguo.
	ListByInvoice(ctx context.Context, invoiceID int64) ([]*entity.ElectronicAudit, error)
	// FindByCUFE devuelve el registro más reciente con ese CUFE.
	FindByCUFE(ctx context.Context, cufe string) (*entity.ElectronicAudit, error)
	// LatestSuccessfulByInvoice último envío exitoso de la factura (no de sus notas) con UUID.
	LatestSuccessfulByInvoice(ctx context.Context, invoiceID int64) (*entity.ElectronicAudit, error)
}
