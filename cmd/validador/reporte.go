package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	repRUCs        []string
	repArchivoRUCs string
	repBuzon       string
	repClientes    string
	repSalida      string
)

var reporteCmd = &cobra.Command{
	Use:   "reporte",
	Short: "Regenera el reporte con las páginas ya guardadas, sin consultar SUNAT",
	RunE: func(cmd *cobra.Command, args []string) error {
		rucs := repRUCs
		if repArchivoRUCs != "" {
			desdeArchivo, err := leerRUCsDeArchivo(repArchivoRUCs)
			if err != nil {
				return err
			}
			rucs = append(rucs, desdeArchivo...)
		}
		logger.Info("Generando reporte desde páginas guardadas", zap.Int("rucs_filtrados", len(rucs)))

		f := &flujo{cfg: cfg, log: logger}
		if cfg.DatabaseURL != "" {
			db, err := abrirHistorial(cmd, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close()
			f.historial = db
		}

		e := entradas{Buzon: repBuzon, Clientes: repClientes, Salida: repSalida}
		if err := f.desdeCache(cmd.Context(), e, rucs); err != nil {
			return err
		}
		logger.Info("Proceso completado")
		return nil
	},
}

func init() {
	reporteCmd.Flags().StringSliceVar(&repRUCs, "ruc", nil, "Limitar el reporte a estos RUCs")
	reporteCmd.Flags().StringVar(&repArchivoRUCs, "archivo-rucs", "", "Archivo con un RUC por línea para limitar el reporte")
	reporteCmd.Flags().StringVar(&repBuzon, "buzon", "", "Excel o CSV del Buzón EPS")
	reporteCmd.Flags().StringVar(&repClientes, "clientes", "", "Excel o CSV de Clientes Activos")
	reporteCmd.Flags().StringVarP(&repSalida, "salida", "o", "", "Archivo xlsx de salida")
	_ = reporteCmd.MarkFlagRequired("salida")
}
