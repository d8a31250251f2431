// Package cmd comandos de operación de facturación electrónica: reenvíos,
// consulta de estado e historial sin pasar por el API HTTP.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/bootstrap"
	"github.com/jhoicas/Facturacion-api/pkg/config"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

var (
	outputFormat string
	verbose      bool
)

// Invoicing operaciones de facturas que exponen los comandos.
type Invoicing interface {
	Send(ctx context.Context, invoiceID int64) (*dto.SendResult, error)
	RefreshStatus(ctx context.Context, invoiceID int64) (*dto.SendResult, error)
	History(ctx context.Context, invoiceID int64) (*dto.HistoryResponse, error)
}

// Notes operaciones de notas que exponen los comandos.
type Notes interface {
	Send(ctx context.Context, noteID int64) (*dto.SendResult, error)
}

// Backend servicios sobre los que corren los comandos.
type Backend struct {
	Invoicing Invoicing
	Notes     Notes
	Close     func()
}

// OpenBackend construye el backend; se reemplaza en pruebas.
var OpenBackend = func(ctx context.Context) (*Backend, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	level := cfg.App.LogLevel
	if !verbose {
		level = "warn"
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: level})
	svcs, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return &Backend{Invoicing: svcs.Invoicing, Notes: svcs.CreditNotes, Close: svcs.Close}, nil
}

// NewRootCmd arma el árbol de comandos.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "facturacion-cli",
		Short: "Operación de facturación electrónica DataIco",
		Long: `Herramienta de operación para reenviar facturas y notas a DataIco,
consultar el estado DIAN vigente y revisar el historial de envíos.

Ejemplos:
  facturacion-cli enviar-factura 42
  facturacion-cli enviar-nota 7
  facturacion-cli actualizar-estado 42
  facturacion-cli historial 42 -f json`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&outputFormat, "format", "f", "table", "Formato de salida (table, json)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Logs detallados")

	root.AddCommand(
		newSendInvoiceCmd(),
		newSendNoteCmd(),
		newRefreshCmd(),
		newHistoryCmd(),
	)
	return root
}

// Execute ejecuta el comando raíz.
func Execute() error {
	return NewRootCmd().Execute()
}

// withBackend abre el backend, ejecuta fn y lo cierra.
func withBackend(cmd *cobra.Command, fn func(ctx context.Context, b *Backend) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	b, err := OpenBackend(ctx)
	if err != nil {
		return err
	}
	if b.Close != nil {
		defer b.Close()
	}
	return fn(ctx, b)
}

func parseID(arg, name string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s inválido: %q", name, arg)
	}
	return id, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printResult imprime un resultado de envío. Un fallo del proveedor se
// reporta como error para que el proceso termine con código distinto de cero.
func printResult(w io.Writer, res *dto.SendResult) error {
	if outputFormat == "json" {
		if err := printJSON(w, res); err != nil {
			return err
		}
	} else {
		mark := "✓"
		if !res.Success {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s %s\n", mark, res.Message)
		if res.Status != "" {
			fmt.Fprintf(w, "  estado:      %s\n", res.Status)
		}
		if res.DianStatus != "" {
			fmt.Fprintf(w, "  dian_status: %s\n", res.DianStatus)
		}
		if res.CUFE != "" {
			fmt.Fprintf(w, "  cufe:        %s\n", res.CUFE)
		}
		for _, e := range res.Errors {
			fmt.Fprintf(w, "  - %s\n", e)
		}
	}
	if !res.Success {
		return fmt.Errorf("el proveedor no aceptó el documento")
	}
	return nil
}
