package bootstrap_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Facturacion-api/internal/bootstrap"
	"github.com/jhoicas/Facturacion-api/pkg/config"
)

func TestSettings(t *testing.T) {
	bogota := time.FixedZone("COT", -5*60*60)
	s := bootstrap.Settings(config.DataIcoConfig{
		AccountID:          "acc-1",
		Environment:        "test",
		SendEmail:          true,
		InvoicePrefix:      "FE",
		InvoiceResolution:  "18764000000001",
		CreditNotePrefix:   "NC",
		DebitNotePrefix:    "ND",
		HealthProviderCode: "050010000101",
	}, bogota)
	assert.False(t, s.Production, "TEST no es producción")
	assert.True(t, s.SendEmail)
	assert.Equal(t, "acc-1", s.AccountID)
	assert.Equal(t, "NC", s.CreditNotePrefix)
	assert.Equal(t, "050010000101", s.HealthProviderCode)
	assert.Same(t, bogota, s.Location)

	prod := bootstrap.Settings(config.DataIcoConfig{Environment: "production"}, nil)
	assert.True(t, prod.Production, "la comparación ignora mayúsculas")
}
