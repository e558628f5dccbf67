package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/validador-leads-sunat/pkg/config"
	"go.uber.org/zap"
)

var configForzar bool

var configCmd = &cobra.Command{
	Use:   "config [archivo]",
	Short: "Escribe la configuración efectiva en un archivo YAML",
	Long: `Guarda la configuración en uso (valores por defecto, archivo --config y
variables de entorno) para usarla como punto de partida.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ruta := config.ArchivoPorDefecto
		if len(args) == 1 {
			ruta = args[0]
		}
		if _, err := os.Stat(ruta); err == nil && !configForzar {
			return fmt.Errorf("%s ya existe, use --forzar para reemplazarlo", ruta)
		}
		if err := cfg.Save(ruta); err != nil {
			return err
		}
		logger.Info("Configuración guardada", zap.String("archivo", ruta))
		return nil
	},
}

func init() {
	configCmd.Flags().BoolVar(&configForzar, "forzar", false, "Reemplazar el archivo si ya existe")
}
