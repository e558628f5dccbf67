package utils

import (
	"math"
	"strconv"
	"strings"
)

// Coerce convierte una celda de texto a número cuando no hay ambigüedad.
// Se quitan espacios y separadores de miles; si quedan solo dígitos devuelve
// int64, si no intenta float64. En cualquier otro caso devuelve el texto
// original sin tocar.
// Ejemplo: "1,234" -> 1234, "12.5" -> 12.5, "N/A" -> "N/A"
func Coerce(valor string) any {
	limpio := strings.TrimSpace(valor)
	limpio = strings.ReplaceAll(limpio, ",", "")
	limpio = strings.ReplaceAll(limpio, " ", "")
	if limpio == "" {
		return valor
	}

	if soloDigitos(limpio) {
		if n, err := strconv.ParseInt(limpio, 10, 64); err == nil {
			return n
		}
	}

	f, err := strconv.ParseFloat(limpio, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return valor
	}
	return f
}

// EsNumero indica si el valor ya es int64 o float64
func EsNumero(v any) bool {
	switch v.(type) {
	case int64, float64:
		return true
	}
	return false
}

// CoerceColumn aplica Coerce a toda una columna. La columna solo se vuelve
// numérica si todos los valores no nulos lo son; si alguno no convierte se
// devuelve la columna original intacta y false.
func CoerceColumn(valores []any) ([]any, bool) {
	out := make([]any, len(valores))
	numericos := 0
	for i, v := range valores {
		switch x := v.(type) {
		case nil:
			continue
		case int64, float64:
			out[i] = x
		case string:
			c := Coerce(x)
			if !EsNumero(c) {
				return valores, false
			}
			out[i] = c
		default:
			return valores, false
		}
		numericos++
	}
	if numericos == 0 {
		return valores, false
	}
	return out, true
}

// ANumero interpreta el valor como número para comparaciones; lo que no
// convierte cuenta como 0.
func ANumero(v any) float64 {
	switch x := v.(type) {
	case int64:
		return float64(x)
	case float64:
		return x
	case string:
		if c := Coerce(x); EsNumero(c) {
			return ANumero(c)
		}
	}
	return 0
}

// NormalizarPeriodo lleva un período de la tabla de trabajadores a YYYYMM
// numérico. Acepta "2025-09", "2025 09", "202509" y "SETIEMBRE 2025".
func NormalizarPeriodo(periodo string) (int64, bool) {
	p := ExtractPeriodo(strings.TrimSpace(periodo))
	p = strings.ReplaceAll(p, "-", "")
	p = strings.ReplaceAll(p, " ", "")
	if p == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(p, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ExtractPeriodo extrae el periodo en formato YYYYMM
// Ejemplo: "ENERO 2023" -> "202301"
func ExtractPeriodo(periodoStr string) string {
	meses := map[string]string{
		"ENERO": "01", "FEBRERO": "02", "MARZO": "03", "ABRIL": "04",
		"MAYO": "05", "JUNIO": "06", "JULIO": "07", "AGOSTO": "08",
		"SEPTIEMBRE": "09", "SETIEMBRE": "09", "OCTUBRE": "10", "NOVIEMBRE": "11", "DICIEMBRE": "12",
	}

	parts := strings.Fields(strings.ToUpper(periodoStr))
	if len(parts) == 2 {
		mes, ok := meses[parts[0]]
		if ok {
			return parts[1] + mes
		}
	}

	return periodoStr
}

func soloDigitos(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
