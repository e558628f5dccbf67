package reconciliacion

import (
	"strconv"
	"strings"

	"github.com/validador-leads-sunat/pkg/models"
	"github.com/validador-leads-sunat/pkg/utils"
)

// hojaDesdeRegistros arma una hoja con la unión de etiquetas en orden de
// primera aparición; las celdas ausentes quedan nil.
func hojaDesdeRegistros(nombre string, registros []models.Registro) models.Hoja {
	h := models.Hoja{Nombre: nombre, Columnas: columnasDe(registros)}
	indice := make(map[string]int, len(h.Columnas))
	for i, c := range h.Columnas {
		indice[c] = i
	}
	for _, r := range registros {
		fila := make([]any, len(h.Columnas))
		for _, c := range r.Campos {
			fila[indice[c.Etiqueta]] = c.Valor
		}
		h.Filas = append(h.Filas, fila)
	}
	return h
}

func columnasDe(registros []models.Registro) []string {
	var cols []string
	vistas := make(map[string]bool)
	for _, r := range registros {
		for _, c := range r.Campos {
			if !vistas[c.Etiqueta] {
				vistas[c.Etiqueta] = true
				cols = append(cols, c.Etiqueta)
			}
		}
	}
	return cols
}

func primeraDe(columnas []string, alias []string) (string, bool) {
	for _, a := range alias {
		for _, c := range columnas {
			if c == a {
				return a, true
			}
		}
	}
	return "", false
}

func indiceDe(columnas []string, nombre string) int {
	for i, c := range columnas {
		if c == nombre {
			return i
		}
	}
	return -1
}

// normalizarPeriodos convierte la columna de período a YYYYMM entero; lo que
// no convierte queda nil.
func normalizarPeriodos(h *models.Hoja, alias []string) {
	col, ok := primeraDe(h.Columnas, alias)
	if !ok {
		return
	}
	j := indiceDe(h.Columnas, col)
	for _, fila := range h.Filas {
		s, _ := fila[j].(string)
		if p, ok := utils.NormalizarPeriodo(s); ok {
			fila[j] = p
		} else {
			fila[j] = nil
		}
	}
}

// coercerHoja pasa cada columna por el normalizador numérico; una columna
// solo cambia si convierte completa.
func coercerHoja(h *models.Hoja) {
	for j := range h.Columnas {
		valores := make([]any, len(h.Filas))
		for i, fila := range h.Filas {
			valores[i] = fila[j]
		}
		convertidos, ok := utils.CoerceColumn(valores)
		if !ok {
			continue
		}
		for i, fila := range h.Filas {
			fila[j] = convertidos[i]
		}
	}
}

// rucEntero convierte el RUC a entero para la hoja de validación; lo que no
// convierte se escribe como celda nula.
func rucEntero(ruc string) any {
	n, err := strconv.ParseInt(strings.TrimSpace(ruc), 10, 64)
	if err != nil {
		return nil
	}
	return n
}

// HojaValidacion serializa las filas de validación en el orden fijo de columnas
func HojaValidacion(filas []models.FilaValidacion) models.Hoja {
	h := models.Hoja{
		Nombre:   models.HojaValidacion,
		Columnas: append([]string(nil), models.ColumnasValidacion...),
	}
	// La cantidad se vuelve numérica solo si toda la columna convierte
	cantidades := make([]any, len(filas))
	for i, f := range filas {
		if strings.TrimSpace(f.CantidadTrabajadores) != "" {
			cantidades[i] = f.CantidadTrabajadores
		}
	}
	cantidades, _ = utils.CoerceColumn(cantidades)

	for i, f := range filas {
		cantidad := cantidades[i]
		h.Filas = append(h.Filas, []any{
			rucEntero(f.RUC),
			f.Canal,
			f.AdmSAC,
			f.RazonSocial,
			f.TipoContribuyente,
			f.Estado,
			f.Condicion,
			cantidad,
			f.Resultado,
		})
	}
	return h
}
