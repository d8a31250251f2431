package billing

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	pkgdian "github.com/jhoicas/Facturacion-api/pkg/dian"
)

// CreateInvoiceUseCase factura ítems de orden de servicio. Consecutivo, factura,
// ítems y marca de facturado van en una sola transacción; el envío electrónico
// (opcional) ocurre después del commit y su fallo no revierte la factura.
type CreateInvoiceUseCase struct {
	txRunner  InvoicingTxRunner
	repos     Repositories
	invoicing *ElectronicInvoicingService
	log       zerolog.Logger
	now       func() time.Time
}

// NewCreateInvoiceUseCase construye el caso de uso.
func NewCreateInvoiceUseCase(txRunner InvoicingTxRunner, repos Repositories, invoicing *ElectronicInvoicingService, log zerolog.Logger) *CreateInvoiceUseCase {
	return &CreateInvoiceUseCase{
		txRunner:  txRunner,
		repos:     repos,
		invoicing: invoicing,
		log:       log.With().Str("component", "create_invoice").Logger(),
		now:       time.Now,
	}
}

// CreateInvoice crea la factura fiscal a partir de los ítems de orden.
func (uc *CreateInvoiceUseCase) CreateInvoice(ctx context.Context, companyID int64, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if len(in.OrderItemIDs) == 0 {
		return nil, fmt.Errorf("%w: se requiere al menos un ítem de orden", domain.ErrInvalidInput)
	}
	if _, mapped := pkgdian.DocumentTypeFor(in.InvoiceType); !mapped {
		return nil, fmt.Errorf("%w: tipo de factura %q", domain.ErrInvalidInput, in.InvoiceType)
	}
	loc := uc.invoicing.builder.Location()
	dueDate, err := parseOptionalDate(loc, in.DueDate)
	if err != nil {
		return nil, err
	}
	periodStart, err := parseOptionalDate(loc, in.PeriodStart)
	if err != nil {
		return nil, err
	}
	periodEnd, err := parseOptionalDate(loc, in.PeriodEnd)
	if err != nil {
		return nil, err
	}

	// Lecturas fuera de la tx
	if _, err := loadThirdParty(ctx, uc.repos, in.ThirdPartyID); err != nil {
		return nil, err
	}
	numbering, err := uc.repos.Numberings.GetActiveByKind(ctx, entity.NumberingKindInvoice)
	if err != nil {
		return nil, fmt.Errorf("obtener numeración: %w", err)
	}
	if numbering == nil {
		return nil, fmt.Errorf("%w: no hay numeración de facturas activa", domain.ErrNumberingExhausted)
	}

	requested := uniqueIDs(in.OrderItemIDs)
	now := uc.now()
	var inv *entity.Invoice
	var details []*entity.InvoiceItemDetail

	err = uc.txRunner.RunInvoicing(ctx, func(
		numberingRepo repository.NumberingRepository,
		orderRepo repository.ServiceOrderRepository,
		invoiceRepo repository.InvoiceRepository,
		itemRepo repository.InvoiceItemRepository,
	) error {
		// 1) Bloquear ítems de orden y validar que no estén facturados
		orderItems, err := orderRepo.ListOrderItemsForUpdate(ctx, requested)
		if err != nil {
			return fmt.Errorf("listar ítems de orden: %w", err)
		}
		if len(orderItems) != len(requested) {
			return fmt.Errorf("%w: uno o más ítems de orden no existen", domain.ErrNotFound)
		}
		total := decimal.Zero
		for _, oi := range orderItems {
			if oi.Invoiced {
				return fmt.Errorf("%w: ítem %d", domain.ErrAlreadyInvoiced, oi.ID)
			}
			qty := oi.Quantity
			if !qty.GreaterThan(decimal.Zero) {
				qty = decimal.NewFromInt(1)
			}
			total = total.Add(qty.Mul(oi.EffectiveValue()))
		}

		// 2) Consecutivo con bloqueo de fila
		number, err := numberingRepo.NextNumber(ctx, numbering.ID)
		if err != nil {
			return err
		}

		// 3) Factura e ítems
		inv = &entity.Invoice{
			CompanyID:    companyID,
			NumberingID:  numbering.ID,
			Prefix:       numbering.Prefix,
			Number:       strconv.FormatInt(number, 10),
			ThirdPartyID: in.ThirdPartyID,
			InvoiceType:  in.InvoiceType,
			Concept:      strings.TrimSpace(in.Concept),
			Total:        total.Round(2),
			RegisteredAt: now,
			DueDate:      dueDate,
			PeriodStart:  periodStart,
			PeriodEnd:    periodEnd,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}
		ids := make([]int64, 0, len(orderItems))
		for _, oi := range orderItems {
			item := &entity.InvoiceItem{InvoiceID: inv.ID, OrderItemID: oi.ID, CreatedAt: now}
			if err := itemRepo.Create(ctx, item); err != nil {
				return err
			}
			detail := &entity.InvoiceItemDetail{Item: item, OrderItem: oi}
			if oi.ServiceID != nil {
				detail.Service = &entity.Service{ID: *oi.ServiceID, Value: oi.ServiceValue}
			}
			details = append(details, detail)
			ids = append(ids, oi.ID)
		}

		// 4) Marcar ítems de orden como facturados
		return orderRepo.MarkInvoiced(ctx, ids)
	})
	if err != nil {
		return nil, err
	}

	inv.ElectronicStatus = entity.ElectronicStatusNone
	out := toInvoiceResponse(inv, details)
	uc.log.Info().Int64("factura_id", inv.ID).Str("numero", inv.FullNumber()).Str("total", inv.Total.String()).
		Int("items", len(details)).Msg("factura creada")

	if in.Send && uc.invoicing != nil {
		res, err := uc.invoicing.Send(ctx, inv.ID)
		if err != nil {
			uc.log.Warn().Err(err).Int64("factura_id", inv.ID).Msg("la factura quedó creada pero no se pudo enviar")
			res = &dto.SendResult{Success: false, Message: err.Error(), Status: entity.ElectronicStatusNone}
		}
		out.Submission = res
		out.ElectronicStatus = res.Status
		out.CUFE = res.CUFE
		out.ProviderUUID = res.UUID
	}
	return out, nil
}

func parseOptionalDate(loc *time.Location, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dto.DateLayout, s, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha %q (use AAAA-MM-DD)", domain.ErrInvalidInput, s)
	}
	return &t, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
