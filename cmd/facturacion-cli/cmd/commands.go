package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newSendInvoiceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enviar-factura <factura_fiscal_id>",
		Short: "Envía (o reenvía) una factura fiscal a DataIco",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "factura_fiscal_id")
			if err != nil {
				return err
			}
			return withBackend(cmd, func(ctx context.Context, b *Backend) error {
				res, err := b.Invoicing.Send(ctx, id)
				if err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), res)
			})
		},
	}
}

func newSendNoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enviar-nota <nota_id>",
		Short: "Envía una nota crédito/débito a DataIco",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "nota_id")
			if err != nil {
				return err
			}
			return withBackend(cmd, func(ctx context.Context, b *Backend) error {
				res, err := b.Notes.Send(ctx, id)
				if err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), res)
			})
		},
	}
}

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "actualizar-estado <factura_fiscal_id>",
		Short: "Consulta en DataIco el estado DIAN vigente de una factura",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "factura_fiscal_id")
			if err != nil {
				return err
			}
			return withBackend(cmd, func(ctx context.Context, b *Backend) error {
				res, err := b.Invoicing.RefreshStatus(ctx, id)
				if err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), res)
			})
		},
	}
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "historial <factura_fiscal_id>",
		Short: "Lista los intentos de envío de una factura",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "factura_fiscal_id")
			if err != nil {
				return err
			}
			return withBackend(cmd, func(ctx context.Context, b *Backend) error {
				hist, err := b.Invoicing.History(ctx, id)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if outputFormat == "json" {
					return printJSON(w, hist)
				}
				fmt.Fprintf(w, "Factura %d  estado: %s  cufe: %s\n", hist.InvoiceID, hist.ElectronicStatus, hist.CUFE)
				for _, a := range hist.Audits {
					mark := "✓"
					if !a.Success {
						mark = "✗"
					}
					fmt.Fprintf(w, "%s %s  %-13s http=%d  %s\n", mark, a.RegisteredAt, a.DocumentKind, a.HTTPStatus, a.LocalStatus)
				}
				return nil
			})
		},
	}
}
