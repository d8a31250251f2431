package billing

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Facturacion-api/internal/domain/dian"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/dataico"
)

// AuditInput un intento de envío o consulta al proveedor.
type AuditInput struct {
	InvoiceID    int64
	NoteID       *int64
	DocumentKind string
	Payload      any // nil en consultas de estado
	Result       *dataico.Result
}

// AuditRecorder agrega registros a la auditoría electrónica. Nunca actualiza:
// el estado vigente de la factura se proyecta al leer (dian.Project).
type AuditRecorder struct {
	repo repository.ElectronicAuditRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewAuditRecorder construye el registrador.
func NewAuditRecorder(repo repository.ElectronicAuditRepository, log zerolog.Logger) *AuditRecorder {
	return &AuditRecorder{
		repo: repo,
		log:  log.With().Str("component", "audit_recorder").Logger(),
		now:  time.Now,
	}
}

// Record inserta el registro. Si la escritura falla se registra en el log y se
// devuelve nil: la auditoría no cambia el resultado visible del envío.
func (r *AuditRecorder) Record(ctx context.Context, in AuditInput) *entity.ElectronicAudit {
	audit := r.build(in)
	if err := r.repo.Append(ctx, audit); err != nil {
		r.log.Error().Err(err).
			Int64("factura_id", in.InvoiceID).
			Str("tipo_documento", in.DocumentKind).
			Str("correlation_id", audit.CorrelationID).
			Bool("exitoso", audit.Success).
			Msg("no se pudo registrar la auditoría electrónica")
		return nil
	}
	return audit
}

func (r *AuditRecorder) build(in AuditInput) *entity.ElectronicAudit {
	res := in.Result
	if res == nil {
		res = &dataico.Result{Message: "sin respuesta del proveedor"}
	}
	a := &entity.ElectronicAudit{
		InvoiceID:     in.InvoiceID,
		NoteID:        in.NoteID,
		DocumentKind:  in.DocumentKind,
		CorrelationID: uuid.NewString(),
		Success:       res.Success,
		HTTPStatus:    res.StatusCode,
		RawResponse:   res.RawOrNull(),
		RegisteredAt:  r.now(),
	}
	if in.Payload != nil {
		if b, err := json.Marshal(in.Payload); err == nil {
			a.PayloadSent = b
		}
	}
	if p := res.Response; p != nil {
		a.DianStatus = p.DianStatus
		a.CustomerStatus = p.CustomerStatus
		a.EmailStatus = p.EmailStatus
		a.CUFE = p.CUFE
		a.UUID = p.UUID
		a.IssueDate = p.IssueDate
		a.PaymentDate = p.PaymentDate
		a.PDFURL = p.PDFURL
		a.XMLURL = p.XMLURL
		a.QRCode = p.QRCode
	}
	a.LocalStatus = dian.SubmissionStatus(a.Success, a.DianStatus)
	if a.Success {
		a.Message = "Documento recibido por el proveedor"
	} else {
		a.Message = res.ErrorMessage()
	}
	return a
}
