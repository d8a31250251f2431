package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/dian"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/dataico"
	pkgdian "github.com/jhoicas/Facturacion-api/pkg/dian"
)

// Tipos de documento descargable.
const (
	DocumentPDF = "pdf"
	DocumentXML = "xml"
)

// ElectronicInvoicingService orquesta el envío de facturas a DataIco:
//
//	cargar factura y relaciones → código de documento → payload → envío → auditoría
//
// Se ejecuta de forma síncrona dentro de la petición. El reenvío de una
// factura ya enviada está permitido.
type ElectronicInvoicingService struct {
	repos    Repositories
	builder  *PayloadBuilder
	provider Provider
	recorder *AuditRecorder
	log      zerolog.Logger
}

// NewElectronicInvoicingService construye el orquestador.
func NewElectronicInvoicingService(repos Repositories, builder *PayloadBuilder, provider Provider, recorder *AuditRecorder, log zerolog.Logger) *ElectronicInvoicingService {
	return &ElectronicInvoicingService{
		repos:    repos,
		builder:  builder,
		provider: provider,
		recorder: recorder,
		log:      log.With().Str("component", "electronic_invoicing").Logger(),
	}
}

// Send envía la factura. Los fallos del proveedor (HTTP o red) no son error de
// Go: vuelven como SendResult con Success=false y quedan auditados como ERROR.
// Si el documento no se puede construir también queda un registro ERROR, sin
// llamar al proveedor.
func (s *ElectronicInvoicingService) Send(ctx context.Context, invoiceID int64) (*dto.SendResult, error) {
	in, err := s.loadInvoiceInput(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	envelope, dt, err := s.builder.Build(*in)
	if err != nil {
		s.recorder.Record(ctx, AuditInput{
			InvoiceID:    invoiceID,
			DocumentKind: auditKind(dt),
			Result:       buildFailure(err),
		})
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	endpoint := pkgdian.Endpoint(dt)

	res := s.provider.Submit(ctx, envelope, endpoint)
	s.recorder.Record(ctx, AuditInput{
		InvoiceID:    invoiceID,
		DocumentKind: auditKind(dt),
		Payload:      envelope,
		Result:       res,
	})

	out := toSendResult(res, "Factura enviada exitosamente")
	ev := s.log.Info()
	if !res.Success {
		ev = s.log.Warn()
	}
	ev.Int64("factura_id", invoiceID).Str("documento", dt.String()).Str("endpoint", endpoint).
		Bool("exitoso", res.Success).Int("http_status", res.StatusCode).Str("estado", out.Status).
		Msg("envío de factura electrónica")
	return out, nil
}

// RefreshStatus consulta en DataIco el estado vigente del último documento
// emitido y lo agrega a la auditoría.
func (s *ElectronicInvoicingService) RefreshStatus(ctx context.Context, invoiceID int64) (*dto.SendResult, error) {
	inv, err := s.getInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	audits, err := s.repos.Audits.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("listar auditoría: %w", err)
	}
	proj := dian.Project(invoiceAudits(audits))
	if proj.UUID == "" {
		return nil, fmt.Errorf("%w: la factura %s no tiene documento electrónico emitido", domain.ErrConflict, inv.FullNumber())
	}

	dt, _ := pkgdian.DocumentTypeFor(inv.InvoiceType)
	res := s.provider.Fetch(ctx, pkgdian.Endpoint(dt), proj.UUID)
	s.recorder.Record(ctx, AuditInput{
		InvoiceID:    invoiceID,
		DocumentKind: auditKind(dt),
		Result:       res,
	})
	return toSendResult(res, "Estado actualizado"), nil
}

// GetInvoice devuelve la factura con el estado electrónico proyectado y sus ítems.
func (s *ElectronicInvoicingService) GetInvoice(ctx context.Context, invoiceID int64) (*dto.InvoiceResponse, error) {
	inv, err := s.getInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	audits, err := s.repos.Audits.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("listar auditoría: %w", err)
	}
	dian.Project(invoiceAudits(audits)).Apply(inv)

	details, err := s.repos.Items.ListDetailsByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("listar ítems: %w", err)
	}
	return toInvoiceResponse(inv, details), nil
}

// History historial de envíos de la factura (incluye los de sus notas).
func (s *ElectronicInvoicingService) History(ctx context.Context, invoiceID int64) (*dto.HistoryResponse, error) {
	if _, err := s.getInvoice(ctx, invoiceID); err != nil {
		return nil, err
	}
	audits, err := s.repos.Audits.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("listar auditoría: %w", err)
	}
	proj := dian.Project(invoiceAudits(audits))
	out := &dto.HistoryResponse{
		InvoiceID:        invoiceID,
		ElectronicStatus: proj.Status,
		CUFE:             proj.CUFE,
		Audits:           make([]dto.AuditResponse, 0, len(audits)),
	}
	for _, a := range audits {
		out.Audits = append(out.Audits, toAuditResponse(a))
	}
	return out, nil
}

// AuditByCUFE último registro de auditoría con ese CUFE.
func (s *ElectronicInvoicingService) AuditByCUFE(ctx context.Context, cufe string) (*dto.AuditResponse, error) {
	a, err := s.findByCUFE(ctx, cufe)
	if err != nil {
		return nil, err
	}
	out := toAuditResponse(a)
	return &out, nil
}

// DocumentURL URL del PDF o XML alojado por el proveedor.
func (s *ElectronicInvoicingService) DocumentURL(ctx context.Context, cufe, kind string) (string, error) {
	a, err := s.findByCUFE(ctx, cufe)
	if err != nil {
		return "", err
	}
	var url string
	switch kind {
	case DocumentPDF:
		url = a.PDFURL
	case DocumentXML:
		url = a.XMLURL
	default:
		return "", fmt.Errorf("%w: tipo de documento %q", domain.ErrInvalidInput, kind)
	}
	if url == "" {
		return "", fmt.Errorf("%w: el proveedor no reportó URL de %s", domain.ErrNotFound, strings.ToUpper(kind))
	}
	return url, nil
}

// ── carga de datos ───────────────────────────────────────────────────────────

func (s *ElectronicInvoicingService) getInvoice(ctx context.Context, id int64) (*entity.Invoice, error) {
	return loadInvoice(ctx, s.repos, id)
}

func (s *ElectronicInvoicingService) findByCUFE(ctx context.Context, cufe string) (*entity.ElectronicAudit, error) {
	cufe = strings.TrimSpace(cufe)
	if cufe == "" {
		return nil, fmt.Errorf("%w: CUFE vacío", domain.ErrInvalidInput)
	}
	a, err := s.repos.Audits.FindByCUFE(ctx, cufe)
	if err != nil {
		return nil, fmt.Errorf("buscar auditoría por CUFE: %w", err)
	}
	if a == nil {
		return nil, fmt.Errorf("%w: no hay registro electrónico con CUFE %s", domain.ErrNotFound, cufe)
	}
	return a, nil
}

func (s *ElectronicInvoicingService) loadInvoiceInput(ctx context.Context, invoiceID int64) (*InvoiceInput, error) {
	inv, err := s.getInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	tp, err := loadThirdParty(ctx, s.repos, inv.ThirdPartyID)
	if err != nil {
		return nil, err
	}
	items, err := s.repos.Items.ListDetailsByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("listar ítems: %w", err)
	}
	orders, err := s.repos.Orders.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("listar órdenes: %w", err)
	}
	var numbering *entity.Numbering
	if inv.NumberingID > 0 {
		if numbering, err = s.repos.Numberings.GetByID(ctx, inv.NumberingID); err != nil {
			return nil, fmt.Errorf("obtener numeración: %w", err)
		}
	}
	return &InvoiceInput{Invoice: inv, Items: items, ThirdParty: tp, Numbering: numbering, Orders: orders}, nil
}

func loadInvoice(ctx context.Context, repos Repositories, id int64) (*entity.Invoice, error) {
	inv, err := repos.Invoices.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener factura: %w", err)
	}
	if inv == nil {
		return nil, fmt.Errorf("%w: factura %d", domain.ErrNotFound, id)
	}
	return inv, nil
}

func loadThirdParty(ctx context.Context, repos Repositories, id int64) (*entity.ThirdParty, error) {
	tp, err := repos.ThirdParties.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener tercero: %w", err)
	}
	if tp == nil {
		return nil, fmt.Errorf("%w: tercero %d", domain.ErrNotFound, id)
	}
	return tp, nil
}

// invoiceAudits filtra los registros de notas: el estado de la factura solo
// depende de sus propios envíos.
func invoiceAudits(audits []*entity.ElectronicAudit) []*entity.ElectronicAudit {
	out := make([]*entity.ElectronicAudit, 0, len(audits))
	for _, a := range audits {
		if a != nil && a.NoteID == nil {
			out = append(out, a)
		}
	}
	return out
}

// buildFailure resultado auditable de un documento que no llegó a enviarse.
func buildFailure(err error) *dataico.Result {
	return &dataico.Result{Message: "documento no construido: " + err.Error()}
}

func auditKind(dt pkgdian.DocumentType) string {
	switch dt {
	case pkgdian.DocNotaCredito:
		return entity.AuditDocCreditNote
	case pkgdian.DocNotaDebito:
		return entity.AuditDocDebitNote
	default:
		return entity.AuditDocInvoice
	}
}

// ── mapeo a DTO ──────────────────────────────────────────────────────────────

func toSendResult(res *dataico.Result, okMessage string) *dto.SendResult {
	out := &dto.SendResult{
		Success:    res.Success,
		HTTPStatus: res.StatusCode,
	}
	var dianStatus string
	if p := res.Response; p != nil {
		dianStatus = p.DianStatus
		out.DianStatus = p.DianStatus
		out.CUFE = p.CUFE
		out.UUID = p.UUID
		out.PDFURL = p.PDFURL
		out.XMLURL = p.XMLURL
	}
	out.Status = dian.SubmissionStatus(res.Success, dianStatus)
	if res.Success {
		out.Message = okMessage
		return out
	}
	out.Message = res.ErrorMessage()
	for _, e := range res.Errors {
		out.Errors = append(out.Errors, e.String())
	}
	return out
}

func toAuditResponse(a *entity.ElectronicAudit) dto.AuditResponse {
	return dto.AuditResponse{
		ID:             a.ID,
		InvoiceID:      a.InvoiceID,
		NoteID:         a.NoteID,
		DocumentKind:   a.DocumentKind,
		CorrelationID:  a.CorrelationID,
		Success:        a.Success,
		HTTPStatus:     a.HTTPStatus,
		LocalStatus:    a.LocalStatus,
		DianStatus:     a.DianStatus,
		CustomerStatus: a.CustomerStatus,
		EmailStatus:    a.EmailStatus,
		CUFE:           a.CUFE,
		UUID:           a.UUID,
		IssueDate:      a.IssueDate,
		PaymentDate:    a.PaymentDate,
		PDFURL:         a.PDFURL,
		XMLURL:         a.XMLURL,
		QRCode:         a.QRCode,
		Message:        a.Message,
		RawResponse:    a.RawResponse,
		RegisteredAt:   a.RegisteredAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toInvoiceResponse(inv *entity.Invoice, details []*entity.InvoiceItemDetail) *dto.InvoiceResponse {
	out := &dto.InvoiceResponse{
		ID:               inv.ID,
		Prefix:           inv.Prefix,
		Number:           inv.Number,
		ThirdPartyID:     inv.ThirdPartyID,
		InvoiceType:      inv.InvoiceType,
		Concept:          inv.Concept,
		Total:            inv.Total,
		RegisteredAt:     inv.RegisteredAt.Format(dto.DateLayout),
		ElectronicStatus: inv.ElectronicStatus,
		CUFE:             inv.CUFE,
		ProviderUUID:     inv.ProviderUUID,
	}
	if inv.DueDate != nil {
		out.DueDate = inv.DueDate.Format(dto.DateLayout)
	}
	for _, d := range details {
		if d == nil || d.Item == nil {
			continue
		}
		item := dto.InvoiceItemOutput{ID: d.Item.ID, OrderItemID: d.Item.OrderItemID}
		if d.OrderItem != nil {
			item.Description = d.OrderItem.Description
			item.Quantity = d.OrderItem.Quantity
		}
		if price, ok := d.UnitPrice(); ok {
			item.UnitPrice = price
		}
		out.Items = append(out.Items, item)
	}
	return out
}
