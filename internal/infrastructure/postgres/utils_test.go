package postgres

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Facturacion-api/pkg/config"
)

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
	assert.True(t, isUniqueViolation(pgErr))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert factura: %w", pgErr)))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("timeout")))
}

func TestNullHelpers(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	if p := nullIfEmpty("FE"); assert.NotNil(t, p) {
		assert.Equal(t, "FE", *p)
	}
	assert.Equal(t, "", derefStr(nil))
	s := "x"
	assert.Equal(t, "x", derefStr(&s))

	assert.Nil(t, nullJSON(nil))
	assert.Nil(t, nullJSON([]byte{}))
	assert.Equal(t, []byte(`{}`), nullJSON([]byte(`{}`)))

	assert.True(t, timeOrZero(nil).IsZero())
	now := time.Now()
	assert.Equal(t, now, timeOrZero(&now))
}

func TestResolveIPv4_Literal(t *testing.T) {
	ip, err := resolveIPv4("127.0.0.1")
	assert.NoError(t, err)
	assert.Equal(t, "127.0.0.1", ip)

	_, err = resolveIPv4("::1")
	assert.Error(t, err)
}

func TestDatabaseURLWithIPv4_KeepsLiteral(t *testing.T) {
	in := "postgresql://u:p@127.0.0.1:6543/facturacion?sslmode=disable"
	assert.Equal(t, in, databaseURLWithIPv4(in))
	assert.Equal(t, "%%", databaseURLWithIPv4("%%"))
}

func TestDsnFor_ResolvedHost(t *testing.T) {
	c := config.DBConfig{Host: "127.0.0.1", Port: 5432, User: "app", Password: "x", DBName: "facturacion", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:x@127.0.0.1:5432/facturacion?sslmode=disable", dsnFor(c))

	c.DatabaseURL = "postgresql://u:p@127.0.0.1:6543/otra"
	assert.Equal(t, c.DatabaseURL, dsnFor(c), "DATABASE_URL tiene prioridad")
}

func TestCompactSQL(t *testing.T) {
	sql := `
		SELECT id,
		       numero
		  FROM facturas_fiscales
		 WHERE id = $1`
	assert.Equal(t, "SELECT id, numero FROM facturas_fiscales WHERE id = $1", compactSQL(sql))

	long := compactSQL(strings.Repeat("x", 400))
	assert.True(t, strings.HasSuffix(long, "…"))
	assert.Len(t, []rune(long), 301)
}
