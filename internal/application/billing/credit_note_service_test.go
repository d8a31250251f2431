package billing_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/dataico"
	"github.com/jhoicas/Facturacion-api/internal/testutil"
)

func newNoteService(s *testutil.Store, prov billing.Provider) *billing.CreditNoteService {
	repos := s.Repositories()
	return billing.NewCreditNoteService(
		s,
		repos,
		newBuilder(),
		prov,
		billing.NewAuditRecorder(repos.Audits, zerolog.Nop()),
		testSettings,
		zerolog.Nop(),
	)
}

func totalCreditNote(invoiceID int64) dto.CreateCreditNoteRequest {
	return dto.CreateCreditNoteRequest{
		InvoiceID:  invoiceID,
		Scope:      "TOTAL",
		Nature:     "credito",
		ReasonCode: "ANULACION",
		Reason:     "Anulación de la factura",
	}
}

// sentInvoice factura 42 ya aceptada por la DIAN con UUID u-42.
func sentInvoice(t *testing.T) *testutil.Store {
	t.Helper()
	s := testutil.NewStore()
	testutil.SeedInvoice(s, 42, "1", 100000)
	_, err := newInvoicingService(s, testutil.Accepting("DIAN_ACEPTADO", "ABC123", "u-42")).Send(context.Background(), 42)
	require.NoError(t, err)
	return s
}

// ── Creación ─────────────────────────────────────────────────────────────────

func TestCreateNote_TotalTakesInvoiceTotal(t *testing.T) {
	s := testutil.NewStore()
	testutil.SeedInvoice(s, 42, "1", 100000)
	svc := newNoteService(s, &testutil.FakeProvider{})

	req := totalCreditNote(42)
	req.Value = decimal.NewFromInt(1)
	note, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, note.Value.Equal(decimal.NewFromInt(100000)))
	assert.Equal(t, entity.NoteNatureCredito, note.Nature)
	assert.Equal(t, entity.NoteStatePendiente, note.State)
	assert.Equal(t, "NC", note.Prefix)
	assert.Equal(t, note.ID, note.Number, "sin numeración activa el número es el ID")
	assert.Equal(t, "FE-42", note.InvoiceNumber)
}

func TestCreateNote_ByPrefixAndNumberWithNumbering(t *testing.T) {
	s := testutil.NewStore()
	testutil.SeedInvoice(s, 42, "1", 100000)
	testutil.SeedNumbering(s, 7, entity.NumberingKindDebitNote, "NDX", 9)
	svc := newNoteService(s, &testutil.FakeProvider{})

	note, err := svc.Create(context.Background(), dto.CreateCreditNoteRequest{
		InvoicePrefix: "FE",
		InvoiceNumber: "FE-42",
		Scope:         "PARCIAL",
		Nature:        "DEBITO",
		ReasonCode:    "intereses",
		Reason:        "Intereses de mora",
		Value:         decimal.NewFromInt(2500),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), note.InvoiceID)
	assert.Equal(t, "NDX", note.Prefix)
	assert.Equal(t, int64(10), note.Number)
	assert.True(t, note.Value.Equal(decimal.NewFromInt(2500)))
}

func TestCreateNote_FailedInsertKeepsNumbering(t *testing.T) {
	s := testutil.NewStore()
	testutil.SeedInvoice(s, 42, "1", 100000)
	testutil.SeedNumbering(s, 7, entity.NumberingKindDebitNote, "NDX", 9)
	s.NoteCreateErr = errors.New("conexión cerrada")
	svc := newNoteService(s, &testutil.FakeProvider{})

	_, err := svc.Create(context.Background(), dto.CreateCreditNoteRequest{
		InvoiceID:  42,
		Scope:      "PARCIAL",
		Nature:     "DEBITO",
		ReasonCode: "INTERESES",
		Reason:     "Intereses de mora",
		Value:      decimal.NewFromInt(2500),
	})
	require.Error(t, err)
	assert.Equal(t, int64(9), s.Numberings[7].Current, "el consecutivo no debe avanzar")
	assert.Empty(t, s.Notes)

	s.NoteCreateErr = nil
	note, err := svc.Create(context.Background(), dto.CreateCreditNoteRequest{
		InvoiceID:  42,
		Scope:      "PARCIAL",
		Nature:     "DEBITO",
		ReasonCode: "INTERESES",
		Reason:     "Intereses de mora",
		Value:      decimal.NewFromInt(2500),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), note.Number)
}

func TestCreateNote_Validation(t *testing.T) {
	s := testutil.NewStore()
	testutil.SeedInvoice(s, 42, "1", 100000)
	svc := newNoteService(s, &testutil.FakeProvider{})
	ctx := context.Background()

	cases := []struct {
		name string
		req  dto.CreateCreditNoteRequest
		want error
	}{
		{"parcial supera el total", dto.CreateCreditNoteRequest{InvoiceID: 42, Scope: "PARCIAL", Nature: "CREDITO", ReasonCode: "REBAJA", Reason: "x", Value: decimal.NewFromInt(100001)}, domain.ErrInvalidInput},
		{"parcial sin valor", dto.CreateCreditNoteRequest{InvoiceID: 42, Scope: "PARCIAL", Nature: "CREDITO", ReasonCode: "REBAJA", Reason: "x"}, domain.ErrInvalidInput},
		{"concepto de débito en nota crédito", dto.CreateCreditNoteRequest{InvoiceID: 42, Scope: "TOTAL", Nature: "CREDITO", ReasonCode: "INTERESES", Reason: "x"}, domain.ErrInvalidInput},
		{"factura inexistente", dto.CreateCreditNoteRequest{InvoiceID: 7, Scope: "TOTAL", Nature: "CREDITO", ReasonCode: "ANULACION", Reason: "x"}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Empty(t, s.Notes)
}

// ── Envío ────────────────────────────────────────────────────────────────────

func TestSendNote_WithoutInvoiceSubmissionFails(t *testing.T) {
	s := testutil.NewStore()
	testutil.SeedInvoice(s, 42, "1", 100000)
	prov := testutil.Accepting("DIAN_ACEPTADO", "NC-CUFE", "u-nc")
	svc := newNoteService(s, prov)
	ctx := context.Background()

	note, err := svc.Create(ctx, totalCreditNote(42))
	require.NoError(t, err)

	_, err = svc.Send(ctx, note.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrReferenceNotFound)
	assert.Contains(t, err.Error(), "no se encontró información de factura electrónica referenciada")
	assert.Zero(t, prov.CallCount(), "no se llama al proveedor")
	assert.Empty(t, s.Audits)
}

func TestSendNote_FailedInvoiceSubmissionIsNotAReference(t *testing.T) {
	s := testutil.NewStore()
	testutil.SeedInvoice(s, 42, "1", 100000)
	ctx := context.Background()
	_, err := newInvoicingService(s, rejecting422()).Send(ctx, 42)
	require.NoError(t, err)

	prov := testutil.Accepting("DIAN_ACEPTADO", "NC-CUFE", "u-nc")
	svc := newNoteService(s, prov)
	note, err := svc.Create(ctx, totalCreditNote(42))
	require.NoError(t, err)

	_, err = svc.Send(ctx, note.ID)
	assert.ErrorIs(t, err, domain.ErrReferenceNotFound)
	assert.Zero(t, prov.CallCount())
}

func TestSendNote_Accepted(t *testing.T) {
	s := sentInvoice(t)
	prov := testutil.Accepting("DIAN_ACEPTADO", "NC-CUFE", "u-nc")
	svc := newNoteService(s, prov)
	ctx := context.Background()

	note, err := svc.Create(ctx, totalCreditNote(42))
	require.NoError(t, err)

	res, err := svc.Send(ctx, note.ID)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, entity.NoteStateAceptado, res.Status)
	assert.Equal(t, "Nota crédito enviada exitosamente", res.Message)

	call := prov.LastCall()
	assert.Equal(t, "credit_notes", call.Endpoint)
	var env dataico.Envelope
	require.NoError(t, json.Unmarshal(call.Payload, &env))
	require.NotNil(t, env.CreditNote)
	assert.Equal(t, "u-42", env.CreditNote.InvoiceID)
	assert.Equal(t, "ANULACION", env.CreditNote.Reason)
	assert.Equal(t, 100000.0, env.CreditNote.Items[0].Price)

	stored, err := svc.Get(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.NoteStateAceptado, stored.State)
	assert.Equal(t, "NC-CUFE", stored.CUFE)
	assert.Equal(t, "u-nc", stored.UUID)

	// la auditoría de la nota no altera el estado de la factura
	require.Len(t, s.Audits, 2)
	noteAudit := s.Audits[1]
	require.NotNil(t, noteAudit.NoteID)
	assert.Equal(t, note.ID, *noteAudit.NoteID)
	assert.Equal(t, entity.AuditDocCreditNote, noteAudit.DocumentKind)

	inv, err := newInvoicingService(s, prov).GetInvoice(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "ABC123", inv.CUFE)

	_, err = svc.Send(ctx, note.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "una nota aceptada no se reenvía")
}

func TestSendNote_RejectedThenRetried(t *testing.T) {
	s := sentInvoice(t)
	ctx := context.Background()

	note, err := newNoteService(s, nil).Create(ctx, totalCreditNote(42))
	require.NoError(t, err)

	res, err := newNoteService(s, rejecting422()).Send(ctx, note.ID)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, entity.NoteStateRechazado, res.Status)
	assert.Contains(t, res.Message, "[customer]: invalid email")

	res, err = newNoteService(s, testutil.Accepting("DIAN_EN_PROCESO", "NC-CUFE", "u-nc")).Send(ctx, note.ID)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, entity.NoteStateEnviado, res.Status)
}

func TestSendNote_DebitGoesToDebitEndpoint(t *testing.T) {
	s := sentInvoice(t)
	prov := testutil.Accepting("DIAN_ACEPTADO", "ND-CUFE", "u-nd")
	svc := newNoteService(s, prov)
	ctx := context.Background()

	note, err := svc.Create(ctx, dto.CreateCreditNoteRequest{
		InvoiceID: 42, Scope: "PARCIAL", Nature: "DEBITO", ReasonCode: "GASTOS",
		Reason: "Gastos de cobranza", Value: decimal.NewFromInt(3000),
	})
	require.NoError(t, err)

	_, err = svc.Send(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "debit_notes", prov.LastCall().Endpoint)
	assert.Equal(t, entity.AuditDocDebitNote, s.Audits[len(s.Audits)-1].DocumentKind)
}
