package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/validador-leads-sunat/pkg/metrics"
	"github.com/validador-leads-sunat/pkg/models"
	"go.uber.org/zap"
)

// Sufijos de los archivos que deja el scraper: RUC_<ruc><sufijo>.html
const (
	SufijoPrincipal    = "_principal"
	SufijoTrabajadores = "_trabajadores"
)

// CarpetaPorDefecto es la subcarpeta de páginas guardadas junto al reporte
const CarpetaPorDefecto = "html_consultas"

// DirectorioHTML resuelve la carpeta de páginas: vacía es CarpetaPorDefecto,
// una ruta absoluta se usa tal cual y una relativa cuelga de base.
func DirectorioHTML(base, carpeta string) string {
	if carpeta == "" {
		carpeta = CarpetaPorDefecto
	}
	if filepath.IsAbs(carpeta) {
		return carpeta
	}
	return filepath.Join(base, carpeta)
}

// NombreArchivo arma el nombre con el que se guarda una página
func NombreArchivo(ruc, sufijo string) string {
	return fmt.Sprintf("RUC_%s%s.html", ruc, sufijo)
}

// Carpeta contiene lo leído de una carpeta de páginas guardadas
type Carpeta struct {
	Principales  []models.Registro
	Trabajadores []models.Registro
}

// Vacia indica que no se encontró ninguna página utilizable
func (c Carpeta) Vacia() bool {
	return len(c.Principales) == 0 && len(c.Trabajadores) == 0
}

// CargarCarpeta lee las páginas guardadas en dir, en orden de nombre de
// archivo. Si permitidos no está vacío solo se leen esos RUCs. Un archivo que
// no se puede leer se registra como advertencia y se omite.
func CargarCarpeta(dir string, permitidos []string, log *zap.Logger) (Carpeta, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var c Carpeta
	entradas, err := os.ReadDir(dir)
	if err != nil {
		return c, fmt.Errorf("error leyendo carpeta %s: %w", dir, err)
	}

	filtro := make(map[string]bool, len(permitidos))
	for _, r := range permitidos {
		filtro[r] = true
	}

	for _, e := range entradas {
		nombre := e.Name()
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(nombre), ".html") {
			continue
		}

		partes := strings.Split(nombre, "_")
		if len(partes) < 2 || strings.ToUpper(partes[0]) != "RUC" {
			continue
		}
		ruc := partes[1]
		if len(filtro) > 0 && !filtro[ruc] {
			continue
		}

		esPrincipal := strings.HasSuffix(nombre, SufijoPrincipal+".html")
		esTrabajadores := strings.HasSuffix(nombre, SufijoTrabajadores+".html")
		if !esPrincipal && !esTrabajadores {
			continue
		}

		contenido, err := os.ReadFile(filepath.Join(dir, nombre))
		if err != nil {
			log.Warn("Error procesando el archivo", zap.String("archivo", nombre), zap.Error(err))
			continue
		}

		if esPrincipal {
			c.Principales = append(c.Principales, ParsePrincipal(string(contenido)))
			metrics.ArchivosHTML.WithLabelValues("principal").Inc()
		} else {
			c.Trabajadores = append(c.Trabajadores, ParseTrabajadores(string(contenido), ruc)...)
			metrics.ArchivosHTML.WithLabelValues("trabajadores").Inc()
		}
	}

	log.Debug("Carpeta HTML leída",
		zap.String("carpeta", dir),
		zap.Int("principales", len(c.Principales)),
		zap.Int("filas_trabajadores", len(c.Trabajadores)))

	return c, nil
}
