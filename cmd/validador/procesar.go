package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/validador-leads-sunat/pkg/database"
	"github.com/validador-leads-sunat/pkg/scraper"
	"go.uber.org/zap"
)

var (
	procRUC      string
	procBuzon    string
	procClientes string
	procBPM      string
	procSalida   string
	procVisual   bool
)

var procesarCmd = &cobra.Command{
	Use:   "procesar",
	Short: "Consulta SUNAT y genera el reporte de validación",
	Long: `Con --ruc consulta un solo RUC (requiere --clientes). Sin --ruc procesa en
lote los leads del Buzón EPS que no están en Clientes Activos.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if procClientes == "" {
			return errors.New("falta --clientes")
		}
		if procRUC == "" && procBuzon == "" {
			return errors.New("indique --ruc o --buzon")
		}
		if procBPM != "" {
			logger.Info("Base BPM recibida", zap.String("archivo", procBPM))
		}

		navCfg := cfg.ConfigNavegador()
		if cmd.Flags().Changed("visual") {
			navCfg.Headless = !procVisual
		}
		navegador := scraper.NuevoNavegador(navCfg, logger)
		defer navegador.Close()

		f := &flujo{cfg: cfg, log: logger, consultor: navegador}
		if cfg.DatabaseURL != "" {
			db, err := abrirHistorial(cmd, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close()
			f.historial = db
		}

		e := entradas{RUC: procRUC, Buzon: procBuzon, Clientes: procClientes, Salida: procSalida}
		var err error
		if procRUC != "" {
			err = f.individual(cmd.Context(), e)
		} else {
			err = f.lote(cmd.Context(), e)
		}
		if err != nil {
			return err
		}
		logger.Info("Proceso completado")
		return nil
	},
}

func abrirHistorial(cmd *cobra.Command, url string) (*database.DatabaseService, error) {
	db, err := database.NewDatabaseService(url)
	if err != nil {
		return nil, fmt.Errorf("error abriendo historial: %w", err)
	}
	if err := db.EnsureSchema(cmd.Context()); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func init() {
	procesarCmd.Flags().StringVar(&procRUC, "ruc", "", "RUC a consultar (se ignoran los caracteres que no son dígitos)")
	procesarCmd.Flags().StringVar(&procBuzon, "buzon", "", "Excel o CSV del Buzón EPS")
	procesarCmd.Flags().StringVar(&procClientes, "clientes", "", "Excel o CSV de Clientes Activos")
	procesarCmd.Flags().StringVar(&procBPM, "bpm", "", "Base BPM (opcional)")
	procesarCmd.Flags().StringVarP(&procSalida, "salida", "o", "", "Archivo xlsx de salida")
	procesarCmd.Flags().BoolVar(&procVisual, "visual", false, "Mostrar el navegador")
	_ = procesarCmd.MarkFlagRequired("salida")
}
