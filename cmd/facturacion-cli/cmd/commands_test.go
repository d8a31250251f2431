package cmd_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/cmd/facturacion-cli/cmd"
	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/dataico"
	"github.com/jhoicas/Facturacion-api/internal/testutil"
)

// useStore reemplaza el backend por servicios sobre el almacén en memoria.
func useStore(t *testing.T, s *testutil.Store, prov billing.Provider) {
	t.Helper()
	repos := s.Repositories()
	settings := billing.Settings{AccountID: "acc-1", InvoicePrefix: "FE", CreditNotePrefix: "NC", DebitNotePrefix: "ND"}
	builder := billing.NewPayloadBuilder(settings, zerolog.Nop())
	recorder := billing.NewAuditRecorder(repos.Audits, zerolog.Nop())
	invoicing := billing.NewElectronicInvoicingService(repos, builder, prov, recorder, zerolog.Nop())
	notes := billing.NewCreditNoteService(s, repos, builder, prov, recorder, settings, zerolog.Nop())

	prev := cmd.OpenBackend
	cmd.OpenBackend = func(context.Context) (*cmd.Backend, error) {
		return &cmd.Backend{Invoicing: invoicing, Notes: notes}, nil
	}
	t.Cleanup(func() { cmd.OpenBackend = prev })
}

func run(args ...string) (string, error) {
	root := cmd.NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestEnviarFactura(t *testing.T) {
	s := testutil.NewStore()
	testutil.SeedInvoice(s, 42, "1", 100000)
	prov := testutil.Accepting("DIAN_ACEPTADO", "ABC123", "u-42")
	useStore(t, s, prov)

	out, err := run("enviar-factura", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Factura enviada exitosamente")
	assert.Contains(t, out, "ABC123")
	assert.Equal(t, 1, prov.CallCount())
}

func TestEnviarFactura_RechazoTerminaConError(t *testing.T) {
	s := testutil.NewStore()
	testutil.SeedInvoice(s, 42, "1", 100000)
	useStore(t, s, &testutil.FakeProvider{Result: &dataico.Result{StatusCode: 500, Message: "Error del proveedor"}})

	out, err := run("enviar-factura", "42", "-f", "json")
	require.Error(t, err)

	var res dto.SendResult
	require.NoError(t, json.Unmarshal([]byte(out[:bytes.LastIndexByte([]byte(out), '}')+1]), &res))
	assert.False(t, res.Success)
}

func TestEnviarFactura_IDInvalido(t *testing.T) {
	useStore(t, testutil.NewStore(), &testutil.FakeProvider{})

	_, err := run("enviar-factura", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "factura_fiscal_id inválido")
}

func TestHistorialYActualizarEstado(t *testing.T) {
	s := testutil.NewStore()
	testutil.SeedInvoice(s, 42, "1", 100000)
	useStore(t, s, testutil.Accepting("DIAN_ACEPTADO", "ABC123", "u-42"))

	_, err := run("enviar-factura", "42")
	require.NoError(t, err)
	_, err = run("actualizar-estado", "42")
	require.NoError(t, err)

	out, err := run("historial", "42", "--format", "json")
	require.NoError(t, err)
	var hist dto.HistoryResponse
	require.NoError(t, json.Unmarshal([]byte(out), &hist))
	assert.Equal(t, int64(42), hist.InvoiceID)
	assert.Len(t, hist.Audits, 2)

	table, err := run("historial", "42")
	require.NoError(t, err)
	assert.Contains(t, table, "Factura 42")
}

func TestEnviarNota_SinFacturaEnviada(t *testing.T) {
	s := testutil.NewStore()
	testutil.SeedInvoice(s, 42, "1", 100000)
	useStore(t, s, &testutil.FakeProvider{})

	_, err := run("enviar-nota", "99")
	require.Error(t, err)
}
