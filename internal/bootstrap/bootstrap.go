// Package bootstrap arma los servicios de facturación sobre PostgreSQL y
// DataIco. Lo comparten el servidor HTTP y la CLI de operación.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/dataico"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Facturacion-api/pkg/config"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

// Services casos de uso listos para usar.
type Services struct {
	Invoicing     *billing.ElectronicInvoicingService
	CreditNotes   *billing.CreditNoteService
	CreateInvoice *billing.CreateInvoiceUseCase

	pool *pgxpool.Pool
}

// Close libera el pool de conexiones.
func (s *Services) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Settings traduce la configuración de DataIco a los parámetros del constructor
// de documentos. loc es la zona en que se expresan las fechas.
func Settings(c config.DataIcoConfig, loc *time.Location) billing.Settings {
	return billing.Settings{
		AccountID:          c.AccountID,
		Production:         c.IsProduction(),
		SendEmail:          c.SendEmail,
		InvoicePrefix:      c.InvoicePrefix,
		InvoiceResolution:  c.InvoiceResolution,
		CreditNotePrefix:   c.CreditNotePrefix,
		DebitNotePrefix:    c.DebitNotePrefix,
		HealthProviderCode: c.HealthProviderCode,
		Location:           loc,
	}
}

// Build abre el pool y construye repos, cliente DataIco y servicios.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Services, error) {
	if cfg.DataIco.AuthToken == "" {
		log.Warn().Msg("DATAICO_AUTH_TOKEN vacío: el proveedor rechazará los envíos")
	}
	pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}

	repos := billing.Repositories{
		Invoices:     postgres.NewInvoiceRepository(pool),
		Items:        postgres.NewInvoiceItemRepository(pool),
		ThirdParties: postgres.NewThirdPartyRepository(pool),
		Orders:       postgres.NewServiceOrderRepository(pool),
		Numberings:   postgres.NewNumberingRepository(pool),
		Audits:       postgres.NewElectronicAuditRepository(pool),
		Notes:        postgres.NewCreditNoteRepository(pool),
	}
	txRunner := postgres.NewTxRunner(pool)

	provider := dataico.NewClient(dataico.Config{
		BaseURL:   cfg.DataIco.BaseURL,
		AuthToken: cfg.DataIco.AuthToken,
		Timeout:   cfg.DataIco.Timeout,
	}, nil, log.Zerolog())

	settings := Settings(cfg.DataIco, cfg.App.Location)
	billingLog := log.Component("billing")
	builder := billing.NewPayloadBuilder(settings, billingLog)
	recorder := billing.NewAuditRecorder(repos.Audits, billingLog)
	invoicing := billing.NewElectronicInvoicingService(repos, builder, provider, recorder, billingLog)

	return &Services{
		Invoicing:     invoicing,
		CreditNotes:   billing.NewCreditNoteService(txRunner, repos, builder, provider, recorder, settings, billingLog),
		CreateInvoice: billing.NewCreateInvoiceUseCase(txRunner, repos, invoicing, billingLog),
		pool:          pool,
	}, nil
}
