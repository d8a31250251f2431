package dataico_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/infrastructure/dataico"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *dataico.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return dataico.NewClient(dataico.Config{BaseURL: srv.URL + "/", AuthToken: "tok-123", Timeout: 5 * time.Second}, srv.Client(), zerolog.Nop())
}

// ── Submit ───────────────────────────────────────────────────────────────────

func TestSubmit_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/invoices", r.URL.Path)
		assert.Equal(t, "tok-123", r.Header.Get("Auth-Token"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"dian_status":"DIAN_ACEPTADO","cufe":"ABC123","uuid":"u-1","pdf_url":"https://x/pdf","qrcode":"qr"}`)
	})

	res := c.Submit(context.Background(), map[string]any{"invoice": map[string]any{"number": 1}}, "invoices")
	require.True(t, res.Success)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	require.NotNil(t, res.Response)
	assert.Equal(t, "DIAN_ACEPTADO", res.Response.DianStatus)
	assert.Equal(t, "ABC123", res.Response.CUFE)
	assert.Equal(t, "https://x/pdf", res.Response.PDFURL)
	assert.Empty(t, res.ErrorMessage())
}

func TestSubmit_StructuredErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"errors":[{"path":["customer"],"error":"invalid email"},{"path":["items","0","price"],"error":"must be positive"}]}`)
	})

	res := c.Submit(context.Background(), map[string]string{}, "invoices")
	assert.False(t, res.Success)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, "[customer]: invalid email; [items.0.price]: must be positive", res.ErrorMessage())
}

func TestSubmit_MessageOnly(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"Auth-Token inválido"}`)
	})
	res := c.Submit(context.Background(), map[string]string{}, "credit_notes")
	assert.False(t, res.Success)
	assert.Equal(t, "Auth-Token inválido", res.ErrorMessage())
}

func TestSubmit_ServerErrorKeepsRawBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	})
	res := c.Submit(context.Background(), map[string]string{}, "invoices")
	assert.False(t, res.Success)
	assert.Equal(t, http.StatusBadGateway, res.StatusCode)
	assert.Equal(t, "<html>bad gateway</html>", string(res.RawBody))
	assert.Equal(t, "<html>bad gateway</html>", res.ErrorMessage())
	assert.JSONEq(t, `{"message":"<html>bad gateway</html>"}`, string(res.RawOrNull()))
}

type failingDoer struct{}

func (failingDoer) Do(*http.Request) (*http.Response, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func TestSubmit_TransportError(t *testing.T) {
	c := dataico.NewClient(dataico.Config{BaseURL: "http://dataico.invalid"}, failingDoer{}, zerolog.Nop())
	res := c.Submit(context.Background(), map[string]string{}, "invoices")
	assert.False(t, res.Success)
	assert.Zero(t, res.StatusCode)
	assert.Contains(t, res.ErrorMessage(), "Error de conexión con el proveedor")
}

// ── Fetch ────────────────────────────────────────────────────────────────────

func TestFetch_UnwrapsDocument(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/invoices/u-1", r.URL.Path)
		_, _ = io.WriteString(w, `{"invoice":{"dian_status":"DIAN_RECHAZADO","uuid":"u-1","cufe":"C9"}}`)
	})
	res := c.Fetch(context.Background(), "invoices", "u-1")
	require.True(t, res.Success)
	assert.Equal(t, "DIAN_RECHAZADO", res.Response.DianStatus)
	assert.Equal(t, "C9", res.Response.CUFE)
}
