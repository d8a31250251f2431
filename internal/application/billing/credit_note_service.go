package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/dian"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	pkgdian "github.com/jhoicas/Facturacion-api/pkg/dian"
)

// CreditNoteService crea y envía notas crédito/débito sobre facturas ya emitidas.
type CreditNoteService struct {
	txRunner CreditNoteTxRunner
	repos    Repositories
	builder  *PayloadBuilder
	provider Provider
	recorder *AuditRecorder
	cfg      Settings
	log      zerolog.Logger
	now      func() time.Time
}

// NewCreditNoteService construye el servicio.
func NewCreditNoteService(txRunner CreditNoteTxRunner, repos Repositories, builder *PayloadBuilder, provider Provider, recorder *AuditRecorder, cfg Settings, log zerolog.Logger) *CreditNoteService {
	return &CreditNoteService{
		txRunner: txRunner,
		repos:    repos,
		builder:  builder,
		provider: provider,
		recorder: recorder,
		cfg:      cfg,
		log:      log.With().Str("component", "credit_notes").Logger(),
		now:      time.Now,
	}
}

// Create registra la nota en estado PENDIENTE. El consecutivo sale de la
// numeración activa del tipo de nota; sin numeración se usa el prefijo de la
// configuración y el ID de la nota como número. Consecutivo e inserción van en
// la misma transacción.
func (s *CreditNoteService) Create(ctx context.Context, in dto.CreateCreditNoteRequest) (*dto.CreditNoteResponse, error) {
	inv, err := s.findInvoice(ctx, in)
	if err != nil {
		return nil, err
	}

	note := &entity.CreditNote{
		InvoiceID:     inv.ID,
		InvoicePrefix: inv.Prefix,
		InvoiceNumber: inv.Number,
		Value:         in.Value,
		Scope:         strings.ToUpper(strings.TrimSpace(in.Scope)),
		Nature:        strings.ToUpper(strings.TrimSpace(in.Nature)),
		ReasonCode:    strings.ToUpper(strings.TrimSpace(in.ReasonCode)),
		Reason:        strings.TrimSpace(in.Reason),
		State:         entity.NoteStatePendiente,
		IssuedAt:      s.now(),
	}
	if err := dian.ValidateNote(note, inv); err != nil {
		return nil, err
	}

	numbering, err := s.repos.Numberings.GetActiveByKind(ctx, numberingKind(note))
	if err != nil {
		return nil, fmt.Errorf("obtener numeración de notas: %w", err)
	}
	if numbering == nil {
		note.Prefix = s.cfg.CreditNotePrefix
		if note.IsDebit() {
			note.Prefix = s.cfg.DebitNotePrefix
		}
	}

	err = s.txRunner.RunCreditNote(ctx, func(numberingRepo repository.NumberingRepository, noteRepo repository.CreditNoteRepository) error {
		if numbering != nil {
			n, err := numberingRepo.NextNumber(ctx, numbering.ID)
			if err != nil {
				return err
			}
			note.Prefix, note.Number = numbering.Prefix, n
		}
		if err := noteRepo.Create(ctx, note); err != nil {
			return fmt.Errorf("crear nota: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("nota_id", note.ID).Int64("factura_id", inv.ID).Str("naturaleza", note.Nature).
		Str("valor", note.Value.String()).Msg("nota creada")
	return toNoteResponse(note), nil
}

// Get devuelve la nota.
func (s *CreditNoteService) Get(ctx context.Context, id int64) (*dto.CreditNoteResponse, error) {
	note, err := s.getNote(ctx, id)
	if err != nil {
		return nil, err
	}
	return toNoteResponse(note), nil
}

// Send envía la nota a DataIco. Requiere un envío exitoso previo de la factura
// con UUID; sin él devuelve domain.ErrReferenceNotFound sin llamar al proveedor.
func (s *CreditNoteService) Send(ctx context.Context, noteID int64) (*dto.SendResult, error) {
	note, err := s.getNote(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.State == entity.NoteStateAceptado {
		return nil, fmt.Errorf("%w: la nota %d ya fue aceptada por la DIAN", domain.ErrConflict, note.ID)
	}

	inv, err := loadInvoice(ctx, s.repos, note.InvoiceID)
	if err != nil {
		return nil, err
	}
	ref, err := s.repos.Audits.LatestSuccessfulByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("buscar envío de la factura: %w", err)
	}
	if ref == nil || ref.UUID == "" {
		return nil, fmt.Errorf("%w (factura %s)", domain.ErrReferenceNotFound, inv.FullNumber())
	}

	tp, err := loadThirdParty(ctx, s.repos, inv.ThirdPartyID)
	if err != nil {
		return nil, err
	}
	orders, err := s.repos.Orders.ListByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("listar órdenes: %w", err)
	}
	numbering, err := s.repos.Numberings.GetActiveByKind(ctx, numberingKind(note))
	if err != nil {
		return nil, fmt.Errorf("obtener numeración de notas: %w", err)
	}
	if numbering != nil && numbering.Prefix != note.Prefix {
		numbering = nil
	}

	envelope, dt, err := s.builder.BuildNote(NoteInput{
		Note:          note,
		Invoice:       inv,
		ThirdParty:    tp,
		Orders:        orders,
		Numbering:     numbering,
		ReferenceUUID: ref.UUID,
	})
	if err != nil {
		s.recorder.Record(ctx, AuditInput{
			InvoiceID:    inv.ID,
			NoteID:       &note.ID,
			DocumentKind: noteAuditKind(note),
			Result:       buildFailure(err),
		})
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	res := s.provider.Submit(ctx, envelope, pkgdian.Endpoint(dt))
	s.recorder.Record(ctx, AuditInput{
		InvoiceID:    inv.ID,
		NoteID:       &note.ID,
		DocumentKind: auditKind(dt),
		Payload:      envelope,
		Result:       res,
	})

	var dianStatus string
	if res.Response != nil {
		dianStatus = res.Response.DianStatus
	}
	for _, next := range dian.NoteStateAfterSubmission(res.Success, dianStatus) {
		if err := note.TransitionTo(next); err != nil {
			s.log.Warn().Err(err).Int64("nota_id", note.ID).Msg("transición de estado ignorada")
		}
	}
	if res.Success && res.Response != nil {
		note.CUFE = res.Response.CUFE
		note.ProviderUUID = res.Response.UUID
	}
	note.ProviderResponse = string(res.RawOrNull())
	if err := s.repos.Notes.UpdateSubmission(ctx, note); err != nil {
		return nil, fmt.Errorf("actualizar nota: %w", err)
	}

	out := toSendResult(res, fmt.Sprintf("%s enviada exitosamente", dt.String()))
	out.Status = note.State
	return out, nil
}

func (s *CreditNoteService) getNote(ctx context.Context, id int64) (*entity.CreditNote, error) {
	note, err := s.repos.Notes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener nota: %w", err)
	}
	if note == nil {
		return nil, fmt.Errorf("%w: nota %d", domain.ErrNotFound, id)
	}
	return note, nil
}

func (s *CreditNoteService) findInvoice(ctx context.Context, in dto.CreateCreditNoteRequest) (*entity.Invoice, error) {
	if in.InvoiceID > 0 {
		return loadInvoice(ctx, s.repos, in.InvoiceID)
	}
	prefix := strings.TrimSpace(in.InvoicePrefix)
	number := strings.TrimSpace(in.InvoiceNumber)
	if number == "" {
		return nil, fmt.Errorf("%w: factura referenciada requerida", domain.ErrInvalidInput)
	}
	inv, err := s.repos.Invoices.GetByPrefixAndNumber(ctx, prefix, number)
	if err != nil {
		return nil, fmt.Errorf("obtener factura: %w", err)
	}
	if inv == nil {
		return nil, fmt.Errorf("%w: factura %s%s", domain.ErrNotFound, prefix, number)
	}
	return inv, nil
}

func noteAuditKind(note *entity.CreditNote) string {
	if note.IsDebit() {
		return entity.AuditDocDebitNote
	}
	return entity.AuditDocCreditNote
}

func numberingKind(note *entity.CreditNote) string {
	if note.IsDebit() {
		return entity.NumberingKindDebitNote
	}
	return entity.NumberingKindCreditNote
}

func toNoteResponse(n *entity.CreditNote) *dto.CreditNoteResponse {
	return &dto.CreditNoteResponse{
		ID:            n.ID,
		InvoiceID:     n.InvoiceID,
		InvoicePrefix: n.InvoicePrefix,
		InvoiceNumber: n.InvoiceNumber,
		Prefix:        n.Prefix,
		Number:        n.Number,
		Value:         n.Value,
		Scope:         n.Scope,
		Nature:        n.Nature,
		ReasonCode:    n.ReasonCode,
		Reason:        n.Reason,
		State:         n.State,
		CUFE:          n.CUFE,
		UUID:          n.ProviderUUID,
		IssuedAt:      n.IssuedAt.Format(dto.DateLayout),
	}
}
