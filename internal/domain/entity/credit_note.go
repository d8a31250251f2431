package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Alcance y naturaleza de la nota.
const (
	NoteScopeTotal   = "TOTAL"
	NoteScopeParcial = "PARCIAL"

	NoteNatureCredito = "CREDITO"
	NoteNatureDebito  = "DEBITO"
)

// Estados de la nota. Solo avanzan: nunca se vuelve a PENDIENTE y ACEPTADO es final.
const (
	NoteStatePendiente = "PENDIENTE"
	NoteStateEnviado   = "ENVIADO"
	NoteStateAceptado  = "ACEPTADO"
	NoteStateRechazado = "RECHAZADO"
)

// CreditNote nota crédito o débito sobre una factura fiscal existente.
type CreditNote struct {
	ID               int64
	InvoiceID        int64
	InvoicePrefix    string
	InvoiceNumber    string
	Prefix           string
	Number           int64
	Value            decimal.Decimal
	Scope            string
	Nature           string
	ReasonCode       string
	Reason           string
	State            string
	CUFE             string
	ProviderUUID     string
	ProviderResponse string
	IssuedAt         time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsDebit indica si la nota es débito.
func (n *CreditNote) IsDebit() bool { return n.Nature == NoteNatureDebito }

// TransitionTo cambia el estado respetando el orden permitido.
//
//	PENDIENTE → ENVIADO | RECHAZADO
//	ENVIADO   → ACEPTADO | RECHAZADO
//	RECHAZADO → ENVIADO (reenvío manual)
func (n *CreditNote) TransitionTo(next string) error {
	if n.State == next {
		return nil
	}
	allowed := false
	switch n.State {
	case NoteStatePendiente, "":
		allowed = next == NoteStateEnviado || next == NoteStateRechazado
	case NoteStateEnviado:
		allowed = next == NoteStateAceptado || next == NoteStateRechazado
	case NoteStateRechazado:
		allowed = next == NoteStateEnviado
	}
	if !allowed {
		return fmt.Errorf("transición de nota inválida %s → %s", n.State, next)
	}
	n.State = next
	return nil
}
