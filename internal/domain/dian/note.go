package dian

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/pkg/dian"
)

// ValidateNote valida alcance, naturaleza, valor y concepto de una nota frente
// a la factura referenciada. Una nota TOTAL toma el total de la factura.
func ValidateNote(note *entity.CreditNote, invoice *entity.Invoice) error {
	if note == nil || invoice == nil {
		return fmt.Errorf("%w: nota o factura nula", domain.ErrInvalidInput)
	}
	switch note.Nature {
	case entity.NoteNatureCredito, entity.NoteNatureDebito:
	default:
		return fmt.Errorf("%w: naturaleza %q no soportada", domain.ErrInvalidInput, note.Nature)
	}
	switch note.Scope {
	case entity.NoteScopeTotal:
		note.Value = invoice.Total
	case entity.NoteScopeParcial:
		if !note.Value.GreaterThan(decimal.Zero) {
			return fmt.Errorf("%w: el valor de la nota debe ser mayor a cero", domain.ErrInvalidInput)
		}
		if note.Nature == entity.NoteNatureCredito && note.Value.GreaterThan(invoice.Total) {
			return fmt.Errorf("%w: el valor de la nota (%s) supera el total de la factura (%s)",
				domain.ErrInvalidInput, note.Value.String(), invoice.Total.String())
		}
	default:
		return fmt.Errorf("%w: alcance %q no soportado", domain.ErrInvalidInput, note.Scope)
	}
	if !validReason(note.Nature, note.ReasonCode) {
		return fmt.Errorf("%w: concepto de corrección %q no válido para nota %s",
			domain.ErrInvalidInput, note.ReasonCode, note.Nature)
	}
	return nil
}

func validReason(nature, code string) bool {
	if nature == entity.NoteNatureDebito {
		switch code {
		case dian.DebitReasonIntereses, dian.DebitReasonGastos, dian.DebitReasonCambioValor, dian.DebitReasonOtros:
			return true
		}
		return false
	}
	switch code {
	case dian.CreditReasonDevolucion, dian.CreditReasonAnulacion, dian.CreditReasonDescuento,
		dian.CreditReasonAjustePrecio, dian.CreditReasonOtros:
		return true
	}
	return false
}
