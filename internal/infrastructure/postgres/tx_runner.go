package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var (
	_ billing.InvoicingTxRunner  = (*TxRunner)(nil)
	_ billing.CreditNoteTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunInvoicing inicia una transacción con los repos que necesita la creación de
// una factura (consecutivo, ítems de orden, factura e ítems) y hace Commit o Rollback.
func (r *TxRunner) RunInvoicing(ctx context.Context, fn func(
	numberingRepo repository.NumberingRepository,
	orderRepo repository.ServiceOrderRepository,
	invoiceRepo repository.InvoiceRepository,
	itemRepo repository.InvoiceItemRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	numberingRepo := NewNumberingRepository(tx)
	orderRepo := NewServiceOrderRepository(tx)
	invoiceRepo := NewInvoiceRepository(tx)
	itemRepo := NewInvoiceItemRepository(tx)

	if err := fn(numberingRepo, orderRepo, invoiceRepo, itemRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunCreditNote reserva el consecutivo e inserta la nota en una sola transacción.
func (r *TxRunner) RunCreditNote(ctx context.Context, fn func(
	numberingRepo repository.NumberingRepository,
	noteRepo repository.CreditNoteRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewNumberingRepository(tx), NewCreditNoteRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
