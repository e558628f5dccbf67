package scraper

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/validador-leads-sunat/pkg/parser"
	"go.uber.org/zap"
)

// CarpetaHTML es la subcarpeta donde se guardan las páginas consultadas
const CarpetaHTML = parser.CarpetaPorDefecto

// GuardarHTML escribe la página en <base>/<carpeta>/RUC_<ruc><sufijo>.html.
// Sin carpeta se usa CarpetaHTML. Sin contenido o sin base no hace nada.
func GuardarHTML(ruc, contenido, base, carpeta, sufijo string, log *zap.Logger) error {
	if contenido == "" || base == "" {
		return nil
	}
	if log == nil {
		log = zap.NewNop()
	}
	dir := parser.DirectorioHTML(base, carpeta)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creando carpeta %s: %w", dir, err)
	}
	nombre := parser.NombreArchivo(ruc, sufijo)
	if err := os.WriteFile(filepath.Join(dir, nombre), []byte(contenido), 0644); err != nil {
		return fmt.Errorf("error guardando %s: %w", nombre, err)
	}
	log.Info("HTML guardado", zap.String("archivo", nombre))
	return nil
}
