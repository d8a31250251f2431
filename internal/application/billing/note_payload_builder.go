package billing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/dataico"
	pkgdian "github.com/jhoicas/Facturacion-api/pkg/dian"
)

// NoteInput nota con la factura referenciada y el UUID que DataIco le asignó.
type NoteInput struct {
	Note          *entity.CreditNote
	Invoice       *entity.Invoice
	ThirdParty    *entity.ThirdParty
	Orders        []*entity.ServiceOrder
	Numbering     *entity.Numbering
	ReferenceUUID string
}

// BuildNote arma el sobre de una nota crédito o débito: una sola línea con el
// valor de la nota (el total de la factura si el alcance es TOTAL).
func (b *PayloadBuilder) BuildNote(in NoteInput) (*dataico.Envelope, pkgdian.DocumentType, error) {
	note, inv := in.Note, in.Invoice
	if note == nil || inv == nil {
		return nil, 0, fmt.Errorf("nota o factura nula")
	}
	if in.ReferenceUUID == "" {
		return nil, 0, fmt.Errorf("nota %d sin UUID de factura referenciada", note.ID)
	}
	if in.ThirdParty == nil {
		return nil, 0, fmt.Errorf("nota %d sin tercero", note.ID)
	}

	dt := pkgdian.DocNotaCredito
	if note.IsDebit() {
		dt = pkgdian.DocNotaDebito
	}
	if note.Number <= 0 {
		return nil, dt, fmt.Errorf("nota %d sin consecutivo", note.ID)
	}

	value := note.Value
	if note.Scope == entity.NoteScopeTotal {
		value = inv.Total
	}

	desc := strings.TrimSpace(note.Reason)
	if desc == "" {
		desc = fmt.Sprintf("%s a la factura %s", dt.String(), inv.FullNumber())
	}

	doc := &dataico.Document{
		Env:               b.env(),
		AccountID:         b.cfg.AccountID,
		Number:            note.Number,
		IssueDate:         b.date(note.IssuedAt),
		InvoiceID:         in.ReferenceUUID,
		Reason:            note.ReasonCode,
		ReasonDescription: note.Reason,
		Numbering:         b.noteNumbering(note, in.Numbering),
		Customer:          b.customer(in.ThirdParty),
		Items:             []dataico.Item{newItem(pkgdian.DefaultSKU, desc, decimal.NewFromInt(1), value)},
	}

	// La sección de salud solo aplica si la factura original es del sector salud.
	if invDT, _ := pkgdian.DocumentTypeFor(inv.InvoiceType); invDT.IsHealthSector() {
		doc.Operation = pkgdian.OperationSalud
		doc.Health = b.health(inv, in.Orders)
	}
	return b.wrap(dt, doc), dt, nil
}

func (b *PayloadBuilder) noteNumbering(note *entity.CreditNote, n *entity.Numbering) dataico.Numbering {
	if n != nil {
		return dataico.Numbering{ResolutionNumber: n.ResolutionNumber, Prefix: n.Prefix}
	}
	prefix := note.Prefix
	if prefix == "" {
		prefix = b.cfg.CreditNotePrefix
		if note.IsDebit() {
			prefix = b.cfg.DebitNotePrefix
		}
	}
	return dataico.Numbering{Prefix: prefix, Flexible: true}
}
