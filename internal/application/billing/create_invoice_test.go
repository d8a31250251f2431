package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/testutil"
)

func newCreateInvoice(s *testutil.Store, prov billing.Provider) *billing.CreateInvoiceUseCase {
	return billing.NewCreateInvoiceUseCase(s, s.Repositories(), newInvoicingService(s, prov), zerolog.Nop())
}

// seedBillable tercero, numeración FE en 99 y dos ítems de orden sin facturar:
// 101 con valor propio 30000 (cantidad 2) y 102 que toma el valor del servicio.
func seedBillable(s *testutil.Store) {
	testutil.SeedThirdParty(s, 1)
	testutil.SeedNumbering(s, 1, entity.NumberingKindInvoice, "FE", 99)
	testutil.SeedOrderItem(s, 20, 101, 30000, 0).Quantity = decimal.NewFromInt(2)
	testutil.SeedOrderItem(s, 20, 102, 0, 15000)
}

func TestCreateInvoice_AssignsNumberAndMarksItems(t *testing.T) {
	s := testutil.NewStore()
	seedBillable(s)
	uc := newCreateInvoice(s, &testutil.FakeProvider{})

	out, err := uc.CreateInvoice(context.Background(), 1, dto.CreateInvoiceRequest{
		ThirdPartyID: 1,
		InvoiceType:  "2",
		Concept:      "Consulta",
		OrderItemIDs: []int64{101, 102, 101},
		DueDate:      "2026-04-30",
	})
	require.NoError(t, err)

	assert.Equal(t, "FE", out.Prefix)
	assert.Equal(t, "100", out.Number)
	assert.True(t, out.Total.Equal(decimal.NewFromInt(75000)), "2×30000 + 15000")
	assert.Equal(t, "2026-04-30", out.DueDate)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, entity.ElectronicStatusNone, out.ElectronicStatus)
	assert.Nil(t, out.Submission)

	assert.Equal(t, int64(100), s.Numberings[1].Current)
	assert.True(t, s.OrderItems[101].Invoiced)
	assert.True(t, s.OrderItems[102].Invoiced)
	require.Len(t, s.Invoices, 1)
	for _, inv := range s.Invoices {
		require.NotNil(t, inv.DueDate)
		assert.True(t, inv.DueDate.Equal(time.Date(2026, 4, 30, 0, 0, 0, 0, billing.ColombiaTime)),
			"la fecha se interpreta en hora de Colombia, no en la del proceso")
	}
}

func TestCreateInvoice_AlreadyInvoicedRollsBack(t *testing.T) {
	s := testutil.NewStore()
	seedBillable(s)
	s.OrderItems[102].Invoiced = true
	uc := newCreateInvoice(s, &testutil.FakeProvider{})

	_, err := uc.CreateInvoice(context.Background(), 1, dto.CreateInvoiceRequest{
		ThirdPartyID: 1, InvoiceType: "1", OrderItemIDs: []int64{101, 102},
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyInvoiced)
	assert.Empty(t, s.Invoices)
	assert.Empty(t, s.InvoiceItems)
	assert.Equal(t, int64(99), s.Numberings[1].Current, "el consecutivo no se consume")
	assert.False(t, s.OrderItems[101].Invoiced)
}

func TestCreateInvoice_MissingOrderItem(t *testing.T) {
	s := testutil.NewStore()
	seedBillable(s)

	_, err := newCreateInvoice(s, nil).CreateInvoice(context.Background(), 1, dto.CreateInvoiceRequest{
		ThirdPartyID: 1, InvoiceType: "1", OrderItemIDs: []int64{101, 555},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, s.Invoices)
}

func TestCreateInvoice_ExhaustedNumbering(t *testing.T) {
	s := testutil.NewStore()
	seedBillable(s)
	s.Numberings[1].Current = s.Numberings[1].RangeTo

	_, err := newCreateInvoice(s, nil).CreateInvoice(context.Background(), 1, dto.CreateInvoiceRequest{
		ThirdPartyID: 1, InvoiceType: "1", OrderItemIDs: []int64{101},
	})
	assert.ErrorIs(t, err, domain.ErrNumberingExhausted)
	assert.False(t, s.OrderItems[101].Invoiced)
}

func TestCreateInvoice_InputErrors(t *testing.T) {
	s := testutil.NewStore()
	seedBillable(s)
	uc := newCreateInvoice(s, nil)
	ctx := context.Background()

	_, err := uc.CreateInvoice(ctx, 1, dto.CreateInvoiceRequest{ThirdPartyID: 1, InvoiceType: "9", OrderItemIDs: []int64{101}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateInvoice(ctx, 1, dto.CreateInvoiceRequest{ThirdPartyID: 1, InvoiceType: "1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateInvoice(ctx, 1, dto.CreateInvoiceRequest{ThirdPartyID: 1, InvoiceType: "1", OrderItemIDs: []int64{101}, DueDate: "30/04/2026"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateInvoice(ctx, 1, dto.CreateInvoiceRequest{ThirdPartyID: 77, InvoiceType: "1", OrderItemIDs: []int64{101}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateInvoice_SendsAfterCommit(t *testing.T) {
	s := testutil.NewStore()
	seedBillable(s)
	prov := testutil.Accepting("DIAN_ACEPTADO", "CUFE-100", "u-100")

	out, err := newCreateInvoice(s, prov).CreateInvoice(context.Background(), 1, dto.CreateInvoiceRequest{
		ThirdPartyID: 1, InvoiceType: "3", OrderItemIDs: []int64{101}, Send: true,
	})
	require.NoError(t, err)
	require.NotNil(t, out.Submission)
	assert.True(t, out.Submission.Success)
	assert.Equal(t, entity.ElectronicStatusAceptada, out.ElectronicStatus)
	assert.Equal(t, "CUFE-100", out.CUFE)
	assert.Equal(t, "invoices", prov.LastCall().Endpoint)
	require.Len(t, s.Audits, 1)
	assert.Equal(t, out.ID, s.Audits[0].InvoiceID)
}

func TestCreateInvoice_FailedSendKeepsInvoice(t *testing.T) {
	s := testutil.NewStore()
	seedBillable(s)

	out, err := newCreateInvoice(s, rejecting422()).CreateInvoice(context.Background(), 1, dto.CreateInvoiceRequest{
		ThirdPartyID: 1, InvoiceType: "1", OrderItemIDs: []int64{102}, Send: true,
	})
	require.NoError(t, err)
	require.NotNil(t, out.Submission)
	assert.False(t, out.Submission.Success)
	assert.Equal(t, entity.ElectronicStatusError, out.ElectronicStatus)
	assert.Len(t, s.Invoices, 1)
	assert.True(t, s.OrderItems[102].Invoiced)
}
