package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/pkg/config"
)

func TestLoad_InvalidEnvironment(t *testing.T) {
	t.Setenv("DATAICO_ENVIRONMENT", "staging")
	cfg, err := config.Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_DataIcoFromEnv(t *testing.T) {
	t.Setenv("DATAICO_ACCOUNT_ID", "acc-1")
	t.Setenv("DATAICO_AUTH_TOKEN", "tok")
	t.Setenv("DATAICO_BASE_URL", "https://example.test/api/")
	t.Setenv("DATAICO_ENVIRONMENT", "test")
	t.Setenv("DATAICO_SEND_EMAIL", "false")
	t.Setenv("DATAICO_TIMEOUT_SECONDS", "15")
	t.Setenv("DATAICO_INVOICE_PREFIX", "SETP")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "acc-1", cfg.DataIco.AccountID)
	assert.Equal(t, "tok", cfg.DataIco.AuthToken)
	assert.Equal(t, "https://example.test/api", cfg.DataIco.BaseURL)
	assert.Equal(t, config.DataIcoTest, cfg.DataIco.Environment)
	assert.False(t, cfg.DataIco.IsProduction())
	assert.False(t, cfg.DataIco.SendEmail)
	assert.Equal(t, 15*time.Second, cfg.DataIco.Timeout)
	assert.Equal(t, "SETP", cfg.DataIco.InvoicePrefix)
	assert.Equal(t, "NC", cfg.DataIco.CreditNotePrefix)
}

func TestDBConfig_DSNEscapesPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/w", DBName: "facturacion", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fw@db:5432/facturacion?sslmode=disable", c.DSN())
	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}

func TestLoad_DBPool(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "8")
	t.Setenv("DB_SLOW_QUERY_MS", "0")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, int32(8), cfg.DB.MaxConns)
	assert.Zero(t, cfg.DB.SlowQuery, "0 desactiva el log de consultas lentas")
}

func TestLoad_Timezone(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "America/Bogota", cfg.App.Location.String())

	t.Setenv("APP_TIMEZONE", "America/Lima")
	cfg, err = config.Load()
	require.NoError(t, err)
	assert.Equal(t, "America/Lima", cfg.App.Location.String())

	t.Setenv("APP_TIMEZONE", "Marte/Olympus")
	_, err = config.Load()
	require.Error(t, err)
}
