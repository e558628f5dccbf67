package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/validador-leads-sunat/pkg/config"
	"github.com/validador-leads-sunat/pkg/logging"
	"github.com/validador-leads-sunat/pkg/metrics"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose     bool
	configPath  string
	databaseURL string
	metricsAddr string

	logger *zap.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "validador",
	Short: "Validador de leads del Buzón EPS contra el padrón RUC de SUNAT",
	Long: `validador cruza los RUCs del Buzón EPS con los Clientes Activos, consulta
en SUNAT los que todavía no son clientes y genera el libro VALIDACION FINAL
con el RESULTADO de cada lead.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.Nuevo(verbose)
		if err != nil {
			return err
		}

		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("database-url") {
			cfg.DatabaseURL = databaseURL
		}
		if cmd.Flags().Changed("metrics-addr") {
			cfg.MetricsAddr = metricsAddr
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("configuración inválida: %w", err)
		}

		if cfg.MetricsAddr != "" {
			metrics.Init()
			go func() {
				if err := metrics.Serve(cfg.MetricsAddr); err != nil {
					logger.Warn("Servidor de métricas detenido", zap.Error(err))
				}
			}()
			logger.Info("Métricas disponibles", zap.String("addr", cfg.MetricsAddr))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Mostrar mensajes de depuración")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.ArchivoPorDefecto, "Archivo de configuración YAML")
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "PostgreSQL donde guardar el historial de validaciones")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Dirección para exponer /metrics (ej. :9090)")

	rootCmd.AddCommand(procesarCmd, leadsCmd, reporteCmd, configCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger != nil {
			logger.Error("Error: Proceso detenido", zap.Error(err))
			_ = logger.Sync()
		} else {
			fmt.Fprintln(os.Stderr, "Error: Proceso detenido:", err)
		}
		os.Exit(1)
	}
}
