package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// recordingQuerier registra las sentencias y responde QueryRow con row.
type recordingQuerier struct {
	queries []string
	execs   []string
	row     fakeRow
}

func (q *recordingQuerier) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	q.execs = append(q.execs, sql)
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (q *recordingQuerier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	q.queries = append(q.queries, sql)
	return nil, errors.New("no soportado")
}

func (q *recordingQuerier) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	q.queries = append(q.queries, sql)
	return q.row
}

type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.vals) {
		return fmt.Errorf("scan: %d destinos, %d valores", len(dest), len(r.vals))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int64:
			*p = r.vals[i].(int64)
		case *time.Time:
			*p = r.vals[i].(time.Time)
		default:
			return fmt.Errorf("scan: destino %T", d)
		}
	}
	return nil
}

func newNote(number int64) *entity.CreditNote {
	return &entity.CreditNote{
		InvoiceID: 42,
		Prefix:    "NC",
		Number:    number,
		Value:     decimal.NewFromInt(1000),
		Scope:     entity.NoteScopeTotal,
		State:     entity.NoteStatePendiente,
	}
}

// ── Create ───────────────────────────────────────────────────────────────────

func TestCreditNoteCreate_NumberFromIDInSingleStatement(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	q := &recordingQuerier{row: fakeRow{vals: []any{int64(15), int64(15), ts, ts}}}
	n := newNote(0)

	require.NoError(t, NewCreditNoteRepository(q).Create(context.Background(), n))

	assert.Len(t, q.queries, 1)
	assert.Empty(t, q.execs, "no debe haber una segunda sentencia")
	assert.Equal(t, int64(15), n.ID)
	assert.Equal(t, int64(15), n.Number)
	assert.Equal(t, ts, n.CreatedAt)
}

func TestCreditNoteCreate_KeepsNumberingConsecutive(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	q := &recordingQuerier{row: fakeRow{vals: []any{int64(16), int64(10), ts, ts}}}
	n := newNote(10)

	require.NoError(t, NewCreditNoteRepository(q).Create(context.Background(), n))

	assert.Empty(t, q.execs)
	assert.Equal(t, int64(16), n.ID)
	assert.Equal(t, int64(10), n.Number)
}

func TestCreditNoteCreate_UniqueViolationIsDuplicate(t *testing.T) {
	q := &recordingQuerier{row: fakeRow{err: &pgconn.PgError{Code: "23505"}}}

	err := NewCreditNoteRepository(q).Create(context.Background(), newNote(10))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
	assert.Empty(t, q.execs)
}
