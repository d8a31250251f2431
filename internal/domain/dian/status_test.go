package dian_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/dian"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// ── Estados ──────────────────────────────────────────────────────────────────

func TestLocalStatusFor(t *testing.T) {
	cases := map[string]string{
		"DIAN_ACEPTADO":   entity.ElectronicStatusAceptada,
		"DIAN_RECHAZADO":  entity.ElectronicStatusRechazada,
		"DIAN_EN_PROCESO": entity.ElectronicStatusEnProceso,
		"":                entity.ElectronicStatusEnviada,
		"OTRO":            entity.ElectronicStatusEnviada,
	}
	for in, want := range cases {
		assert.Equal(t, want, dian.LocalStatusFor(in), "dian_status %q", in)
	}
}

func TestSubmissionStatus_FailureIsError(t *testing.T) {
	assert.Equal(t, entity.ElectronicStatusError, dian.SubmissionStatus(false, "DIAN_ACEPTADO"))
	assert.Equal(t, entity.ElectronicStatusAceptada, dian.SubmissionStatus(true, "DIAN_ACEPTADO"))
}

func TestNoteStateAfterSubmission(t *testing.T) {
	assert.Equal(t, []string{entity.NoteStateEnviado, entity.NoteStateAceptado},
		dian.NoteStateAfterSubmission(true, "DIAN_ACEPTADO"))
	assert.Equal(t, []string{entity.NoteStateEnviado}, dian.NoteStateAfterSubmission(true, "DIAN_EN_PROCESO"))
	assert.Equal(t, []string{entity.NoteStateRechazado}, dian.NoteStateAfterSubmission(false, ""))
}

// ── Proyección ───────────────────────────────────────────────────────────────

func TestProject_Empty(t *testing.T) {
	p := dian.Project(nil)
	assert.Equal(t, entity.ElectronicStatusNone, p.Status)
	assert.Nil(t, p.Latest)
}

func TestProject_LatestByRegisteredAtWins(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	audits := []*entity.ElectronicAudit{
		{ID: 3, Success: false, LocalStatus: entity.ElectronicStatusError, RegisteredAt: base},
		{ID: 1, Success: true, LocalStatus: entity.ElectronicStatusAceptada, DianStatus: "DIAN_ACEPTADO",
			CUFE: "ABC123", UUID: "u-1", RegisteredAt: base.Add(time.Minute)},
	}
	p := dian.Project(audits)
	assert.Equal(t, entity.ElectronicStatusAceptada, p.Status)
	assert.Equal(t, "ABC123", p.CUFE)
	assert.Equal(t, "u-1", p.UUID)
	assert.Equal(t, int64(1), p.Latest.ID)
}

func TestProject_TieBreaksByID(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	audits := []*entity.ElectronicAudit{
		{ID: 7, LocalStatus: entity.ElectronicStatusEnProceso, RegisteredAt: at},
		{ID: 8, LocalStatus: entity.ElectronicStatusRechazada, RegisteredAt: at},
	}
	assert.Equal(t, entity.ElectronicStatusRechazada, dian.Project(audits).Status)
}

func TestProject_FailedRetryKeepsPreviousCUFE(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	audits := []*entity.ElectronicAudit{
		{ID: 1, Success: true, LocalStatus: entity.ElectronicStatusEnProceso, CUFE: "C1", UUID: "U1", RegisteredAt: base},
		{ID: 2, Success: false, LocalStatus: entity.ElectronicStatusError, RegisteredAt: base.Add(time.Hour)},
	}
	p := dian.Project(audits)
	assert.Equal(t, entity.ElectronicStatusError, p.Status)
	assert.Equal(t, "C1", p.CUFE)
	assert.Equal(t, "U1", p.UUID)

	inv := &entity.Invoice{ID: 42}
	p.Apply(inv)
	assert.Equal(t, entity.ElectronicStatusError, inv.ElectronicStatus)
	assert.Equal(t, "C1", inv.CUFE)
}

// ── Notas ────────────────────────────────────────────────────────────────────

func TestValidateNote(t *testing.T) {
	inv := &entity.Invoice{ID: 1, Total: decimal.NewFromInt(100000)}

	total := &entity.CreditNote{Scope: entity.NoteScopeTotal, Nature: entity.NoteNatureCredito, ReasonCode: "ANULACION"}
	require.NoError(t, dian.ValidateNote(total, inv))
	assert.True(t, total.Value.Equal(inv.Total))

	tooBig := &entity.CreditNote{Scope: entity.NoteScopeParcial, Nature: entity.NoteNatureCredito,
		ReasonCode: "REBAJA", Value: decimal.NewFromInt(200000)}
	assert.ErrorIs(t, dian.ValidateNote(tooBig, inv), domain.ErrInvalidInput)

	badReason := &entity.CreditNote{Scope: entity.NoteScopeParcial, Nature: entity.NoteNatureDebito,
		ReasonCode: "ANULACION", Value: decimal.NewFromInt(1000)}
	assert.ErrorIs(t, dian.ValidateNote(badReason, inv), domain.ErrInvalidInput)

	debit := &entity.CreditNote{Scope: entity.NoteScopeParcial, Nature: entity.NoteNatureDebito,
		ReasonCode: "INTERESES", Value: decimal.NewFromInt(250000)}
	assert.NoError(t, dian.ValidateNote(debit, inv))
}
