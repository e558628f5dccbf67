package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/validador-leads-sunat/pkg/leads"
	"go.uber.org/zap"
)

var (
	leadsBuzon    string
	leadsClientes string
	leadsSalida   string
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Lista los RUCs del Buzón EPS que no son clientes activos",
	RunE: func(cmd *cobra.Command, args []string) error {
		rucs := leads.ObtenerRUCsDeArchivos(leadsBuzon, leadsClientes, cfg.Columnas, logger)
		logger.Info("Leads por consultar",
			zap.Int("total", len(rucs)),
			zap.Int("personas_juridicas", contarPorPrefijo(rucs, "20")),
			zap.Int("personas_naturales", contarPorPrefijo(rucs, "10")))

		if leadsSalida != "" {
			if err := escribirRUCs(leadsSalida, rucs); err != nil {
				return err
			}
			logger.Info("Lista guardada", zap.String("archivo", leadsSalida))
			return nil
		}
		for _, ruc := range rucs {
			fmt.Fprintln(cmd.OutOrStdout(), ruc)
		}
		return nil
	},
}

func init() {
	leadsCmd.Flags().StringVar(&leadsBuzon, "buzon", "", "Excel o CSV del Buzón EPS")
	leadsCmd.Flags().StringVar(&leadsClientes, "clientes", "", "Excel o CSV de Clientes Activos")
	leadsCmd.Flags().StringVarP(&leadsSalida, "salida", "o", "", "Guardar la lista en este archivo en vez de imprimirla")
	_ = leadsCmd.MarkFlagRequired("buzon")
	_ = leadsCmd.MarkFlagRequired("clientes")
}
