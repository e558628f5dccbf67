package models

import "strings"

// Tabla es una hoja de cálculo cargada en memoria con celdas de texto.
// La primera fila del archivo se usa como cabecera.
type Tabla struct {
	Columnas []string   `json:"columnas"`
	Filas    [][]string `json:"filas"`
}

// Indice devuelve la posición de la columna o -1 si no existe
func (t *Tabla) Indice(columna string) int {
	if t == nil {
		return -1
	}
	for i, c := range t.Columnas {
		if c == columna {
			return i
		}
	}
	return -1
}

// PrimeraColumna recorre los alias en orden y devuelve el primero presente
// en la cabecera.
func (t *Tabla) PrimeraColumna(alias []string) (string, bool) {
	if t == nil {
		return "", false
	}
	for _, a := range alias {
		if t.Indice(a) >= 0 {
			return a, true
		}
	}
	return "", false
}

// Celda devuelve el valor de la fila i en la columna indicada. Las filas
// más cortas que la cabecera devuelven "".
func (t *Tabla) Celda(i int, columna string) string {
	j := t.Indice(columna)
	if j < 0 || i < 0 || i >= len(t.Filas) || j >= len(t.Filas[i]) {
		return ""
	}
	return t.Filas[i][j]
}

// ValoresLimpios devuelve los valores no vacíos de la columna, sin espacios
// alrededor, en el orden del archivo.
func (t *Tabla) ValoresLimpios(columna string) []string {
	if t.Indice(columna) < 0 {
		return nil
	}
	out := make([]string, 0, len(t.Filas))
	for i := range t.Filas {
		v := strings.TrimSpace(t.Celda(i, columna))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Mapeo construye clave -> valor entre dos columnas. Ante claves repetidas
// gana la primera aparición; las claves vacías se ignoran.
func (t *Tabla) Mapeo(columnaClave, columnaValor string) map[string]string {
	out := make(map[string]string)
	if t.Indice(columnaClave) < 0 || t.Indice(columnaValor) < 0 {
		return out
	}
	for i := range t.Filas {
		k := strings.TrimSpace(t.Celda(i, columnaClave))
		if k == "" {
			continue
		}
		if _, ok := out[k]; ok {
			continue
		}
		out[k] = t.Celda(i, columnaValor)
	}
	return out
}

// Hoja es una tabla de salida con celdas tipadas: nil, int64, float64 o string.
type Hoja struct {
	Nombre   string   `json:"nombre"`
	Columnas []string `json:"columnas"`
	Filas    [][]any  `json:"filas"`
}

// Columna devuelve los valores de una columna de la hoja
func (h Hoja) Columna(nombre string) []any {
	j := -1
	for i, c := range h.Columnas {
		if c == nombre {
			j = i
			break
		}
	}
	if j < 0 {
		return nil
	}
	out := make([]any, len(h.Filas))
	for i, f := range h.Filas {
		if j < len(f) {
			out[i] = f[j]
		}
	}
	return out
}
