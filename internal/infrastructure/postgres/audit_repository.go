package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.ElectronicAuditRepository = (*ElectronicAuditRepo)(nil)

// ElectronicAuditRepo auditoria_facturacion_electronica: solo INSERT y SELECT.
type ElectronicAuditRepo struct {
	q Querier
}

// NewElectronicAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewElectronicAuditRepository(q Querier) *ElectronicAuditRepo {
	return &ElectronicAuditRepo{q: q}
}

const auditColumns = `
	id, factura_fiscal_id, nota_id, tipo_documento, correlation_id, exitoso, COALESCE(http_status, 0),
	estado_local, COALESCE(dian_status, ''), COALESCE(customer_status, ''), COALESCE(email_status, ''),
	COALESCE(cufe, ''), COALESCE(uuid, ''), COALESCE(fecha_emision, ''), COALESCE(fecha_pago, ''),
	COALESCE(pdf_url, ''), COALESCE(xml_url, ''), COALESCE(qrcode, ''), COALESCE(mensaje, ''),
	payload_enviado, respuesta, registrado_en`

// Append inserta el registro y asigna ID.
func (r *ElectronicAuditRepo) Append(ctx context.Context, a *entity.ElectronicAudit) error {
	const q = `
		INSERT INTO auditoria_facturacion_electronica
			(factura_fiscal_id, nota_id, tipo_documento, correlation_id, exitoso, http_status,
			 estado_local, dian_status, customer_status, email_status, cufe, uuid,
			 fecha_emision, fecha_pago, pdf_url, xml_url, qrcode, mensaje,
			 payload_enviado, respuesta, registrado_en)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, 0), $7, $8, $9, $10, $11, $12,
		        $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING id`
	err := r.q.QueryRow(ctx, q,
		a.InvoiceID, a.NoteID, a.DocumentKind, a.CorrelationID, a.Success, a.HTTPStatus,
		a.LocalStatus, nullIfEmpty(a.DianStatus), nullIfEmpty(a.CustomerStatus), nullIfEmpty(a.EmailStatus),
		nullIfEmpty(a.CUFE), nullIfEmpty(a.UUID),
		nullIfEmpty(a.IssueDate), nullIfEmpty(a.PaymentDate), nullIfEmpty(a.PDFURL), nullIfEmpty(a.XMLURL),
		nullIfEmpty(a.QRCode), nullIfEmpty(a.Message),
		nullJSON(a.PayloadSent), nullJSON(a.RawResponse), a.RegisteredAt,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("insert auditoria: %w", err)
	}
	return nil
}

// ListByInvoice historial de la factura (incluye notas), más reciente primero.
func (r *ElectronicAuditRepo) ListByInvoice(ctx context.Context, invoiceID int64) ([]*entity.ElectronicAudit, error) {
	q := `SELECT ` + auditColumns + `
		FROM auditoria_facturacion_electronica
		WHERE factura_fiscal_id = $1
		ORDER BY registrado_en DESC, id DESC`
	rows, err := r.q.Query(ctx, q, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list auditoria: %w", err)
	}
	defer rows.Close()
	var list []*entity.ElectronicAudit
	for rows.Next() {
		a, err := scanAudit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan auditoria: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *ElectronicAuditRepo) FindByCUFE(ctx context.Context, cufe string) (*entity.ElectronicAudit, error) {
	q := `SELECT ` + auditColumns + `
		FROM auditoria_facturacion_electronica
		WHERE cufe = $1
		ORDER BY registrado_en DESC, id DESC
		LIMIT 1`
	return r.one(ctx, q, cufe)
}

// LatestSuccessfulByInvoice último envío exitoso de la propia factura con UUID;
// es la referencia obligatoria de las notas.
func (r *ElectronicAuditRepo) LatestSuccessfulByInvoice(ctx context.Context, invoiceID int64) (*entity.ElectronicAudit, error) {
	q := `SELECT ` + auditColumns + `
		FROM auditoria_facturacion_electronica
		WHERE factura_fiscal_id = $1
		  AND nota_id IS NULL
		  AND exitoso = true
		  AND COALESCE(uuid, '') <> ''
		ORDER BY registrado_en DESC, id DESC
		LIMIT 1`
	return r.one(ctx, q, invoiceID)
}

func (r *ElectronicAuditRepo) one(ctx context.Context, q string, arg any) (*entity.ElectronicAudit, error) {
	a, err := scanAudit(r.q.QueryRow(ctx, q, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get auditoria: %w", err)
	}
	return a, nil
}

func scanAudit(row pgxScanner) (*entity.ElectronicAudit, error) {
	var a entity.ElectronicAudit
	err := row.Scan(
		&a.ID, &a.InvoiceID, &a.NoteID, &a.DocumentKind, &a.CorrelationID, &a.Success, &a.HTTPStatus,
		&a.LocalStatus, &a.DianStatus, &a.CustomerStatus, &a.EmailStatus,
		&a.CUFE, &a.UUID, &a.IssueDate, &a.PaymentDate,
		&a.PDFURL, &a.XMLURL, &a.QRCode, &a.Message,
		&a.PayloadSent, &a.RawResponse, &a.RegisteredAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
