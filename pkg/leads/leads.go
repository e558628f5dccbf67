// Package leads calcula la lista de RUCs a consultar: los que llegaron al
// Buzón EPS y todavía no son clientes activos.
package leads

import (
	"errors"
	"sort"

	"github.com/validador-leads-sunat/pkg/metrics"
	"github.com/validador-leads-sunat/pkg/models"
	"github.com/validador-leads-sunat/pkg/tabla"
	"github.com/validador-leads-sunat/pkg/utils"
	"go.uber.org/zap"
)

// ErrColumnaRUCNoEncontrada indica que ninguno de los alias de RUC está en la cabecera
var ErrColumnaRUCNoEncontrada = errors.New("columna de RUC no encontrada")

// ResolverNuevos devuelve los RUCs válidos presentes en buzon y ausentes en
// clientes, ordenados y sin duplicados. Si falta la columna de RUC en
// cualquiera de las dos tablas devuelve una lista vacía.
func ResolverNuevos(buzon, clientes *models.Tabla, alias models.AliasColumnas, log *zap.Logger) []string {
	if log == nil {
		log = zap.NewNop()
	}
	alias = alias.ConDefaults()

	rucsBuzon, err := Conjunto(buzon, alias.RUCBuzon)
	if err != nil {
		log.Warn("No se encontró la columna de RUC en el archivo Buzon EPS", zap.Strings("alias", alias.RUCBuzon))
		return []string{}
	}
	rucsClientes, err := Conjunto(clientes, alias.RUCClientes)
	if err != nil {
		log.Warn("No se encontró la columna de RUC en el archivo Clientes Activos", zap.Strings("alias", alias.RUCClientes))
		return []string{}
	}

	nuevos := []string{}
	for ruc := range rucsBuzon {
		if rucsClientes[ruc] {
			continue
		}
		if utils.IsValidRUC(ruc) {
			nuevos = append(nuevos, ruc)
		}
	}
	sort.Strings(nuevos)

	log.Info("Análisis de RUCs",
		zap.Int("rucs_buzon", len(rucsBuzon)),
		zap.Int("rucs_clientes", len(rucsClientes)),
		zap.Int("rucs_a_procesar", len(nuevos)))
	metrics.LeadsNuevos.Set(float64(len(nuevos)))

	return nuevos
}

// ObtenerRUCsDeArchivos es ResolverNuevos a partir de las rutas de los dos
// archivos. Un archivo ilegible se registra y produce una lista vacía.
func ObtenerRUCsDeArchivos(rutaBuzon, rutaClientes string, alias models.AliasColumnas, log *zap.Logger) []string {
	if log == nil {
		log = zap.NewNop()
	}
	buzon, err := tabla.Cargar(rutaBuzon)
	if err != nil {
		log.Error("Error leyendo el archivo Buzon EPS", zap.Error(err))
		return []string{}
	}
	clientes, err := tabla.Cargar(rutaClientes)
	if err != nil {
		log.Error("Error leyendo el archivo Clientes Activos", zap.Error(err))
		return []string{}
	}
	return ResolverNuevos(buzon, clientes, alias, log)
}

// EsClienteActivo indica si el RUC figura en la tabla de clientes activos
func EsClienteActivo(ruc string, clientes *models.Tabla, alias models.AliasColumnas) bool {
	rucs, err := Conjunto(clientes, alias.ConDefaults().RUCClientes)
	if err != nil {
		return false
	}
	return rucs[ruc]
}

// Interseccion devuelve, ordenados, los RUCs presentes en ambas tablas. Sin
// formato de RUC obligatorio: son los leads que no debieron consultarse.
func Interseccion(buzon, clientes *models.Tabla, alias models.AliasColumnas) []string {
	alias = alias.ConDefaults()
	a, err := Conjunto(buzon, alias.RUCBuzon)
	if err != nil {
		return nil
	}
	b, err := Conjunto(clientes, alias.RUCClientes)
	if err != nil {
		return nil
	}
	var out []string
	for r := range a {
		if b[r] {
			out = append(out, r)
		}
	}
	sort.Strings(out)
	return out
}

// Conjunto devuelve los valores no vacíos de la primera columna de alias
// presente en la tabla.
func Conjunto(t *models.Tabla, alias []string) (map[string]bool, error) {
	col, ok := t.PrimeraColumna(alias)
	if !ok {
		return nil, ErrColumnaRUCNoEncontrada
	}
	out := make(map[string]bool)
	for _, v := range t.ValoresLimpios(col) {
		out[v] = true
	}
	return out, nil
}
