// Package reporte arma y guarda el libro de validación de leads.
package reporte

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/validador-leads-sunat/pkg/models"
	"github.com/validador-leads-sunat/pkg/parser"
	"github.com/validador-leads-sunat/pkg/reconciliacion"
	"github.com/validador-leads-sunat/pkg/tabla"
	"go.uber.org/zap"
)

// CarpetaHTMLPorDefecto es la carpeta donde el scraper deja las páginas,
// junto al archivo de salida.
const CarpetaHTMLPorDefecto = parser.CarpetaPorDefecto

// Opciones de una generación de reporte. Solo RutaSalida es obligatoria.
type Opciones struct {
	RutaSalida   string
	RUCs         []string
	RutaBuzon    string
	RutaClientes string
	YaCliente    bool
	CarpetaHTML  string
	Alias        models.AliasColumnas
}

func (o Opciones) carpeta() string {
	return parser.DirectorioHTML(filepath.Dir(o.RutaSalida), o.CarpetaHTML)
}

// GenerarReporte lee las páginas guardadas, cruza con el Buzón EPS y los
// Clientes Activos y escribe el libro en RutaSalida. Devuelve nil sin error
// cuando no hay datos que escribir.
func GenerarReporte(o Opciones, log *zap.Logger) (*reconciliacion.Reporte, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if o.RutaSalida == "" {
		return nil, errors.New("falta la ruta del archivo de salida")
	}
	alias := o.Alias.ConDefaults()

	if o.YaCliente {
		if len(o.RUCs) == 0 {
			return nil, errors.New("falta el RUC del cliente activo")
		}
		clientes := tabla.CargarOpcional(o.RutaClientes, "Clientes Activos", log)
		r := reconciliacion.ConstruirYaCliente(o.RUCs[0], clientes, alias, log)
		if err := Escribir(o.RutaSalida, r.Hojas()); err != nil {
			return nil, err
		}
		log.Info("RUC ya es cliente activo, reporte generado", zap.String("ruc", o.RUCs[0]), zap.String("salida", o.RutaSalida))
		return &r, nil
	}

	dir := o.carpeta()
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		log.Error("No existe la carpeta de consultas", zap.String("carpeta", dir))
		return nil, fmt.Errorf("%s: %w", dir, reconciliacion.ErrCarpetaHTMLNoExiste)
	}

	c, err := parser.CargarCarpeta(dir, o.RUCs, log)
	if err != nil {
		return nil, err
	}
	if c.Vacia() {
		log.Warn("No se encontraron datos para procesar", zap.String("carpeta", dir))
		return nil, nil
	}

	r := reconciliacion.Construir(reconciliacion.Entrada{
		Principales:  c.Principales,
		Trabajadores: c.Trabajadores,
		Buzon:        tabla.CargarOpcional(o.RutaBuzon, "Buzon EPS", log),
		Clientes:     tabla.CargarOpcional(o.RutaClientes, "Clientes Activos", log),
		Alias:        alias,
	}, log)

	if err := Escribir(o.RutaSalida, r.Hojas()); err != nil {
		return nil, err
	}
	log.Info("Archivo generado", zap.String("salida", o.RutaSalida), zap.Int("filas", len(r.Validacion)))
	return &r, nil
}
