package models

// Etiquetas derivadas de la cabecera de la ficha principal
const (
	CampoNumeroRUC   = "Número de RUC"
	CampoRazonSocial = "Razón Social"
	CampoRUC         = "RUC"
	CampoMensaje     = "Mensaje"
)

// Campo es un par etiqueta/valor tal como aparece en la página de SUNAT
type Campo struct {
	Etiqueta string `json:"etiqueta"`
	Valor    string `json:"valor"`
}

// Registro representa una ficha leída de una página guardada. Conserva el
// orden de aparición de las etiquetas; volver a asignar una etiqueta
// existente reemplaza el valor sin moverla.
type Registro struct {
	Campos []Campo `json:"campos"`
}

// Set asigna el valor de una etiqueta
func (r *Registro) Set(etiqueta, valor string) {
	for i := range r.Campos {
		if r.Campos[i].Etiqueta == etiqueta {
			r.Campos[i].Valor = valor
			return
		}
	}
	r.Campos = append(r.Campos, Campo{Etiqueta: etiqueta, Valor: valor})
}

// Valor devuelve el valor de la etiqueta y si existe
func (r Registro) Valor(etiqueta string) (string, bool) {
	for _, c := range r.Campos {
		if c.Etiqueta == etiqueta {
			return c.Valor, true
		}
	}
	return "", false
}

func (r Registro) Etiquetas() []string {
	out := make([]string, 0, len(r.Campos))
	for _, c := range r.Campos {
		out = append(out, c.Etiqueta)
	}
	return out
}

func (r Registro) Len() int { return len(r.Campos) }

// NuevoRegistro arma un registro a partir de pares etiqueta, valor
func NuevoRegistro(pares ...string) Registro {
	var r Registro
	for i := 0; i+1 < len(pares); i += 2 {
		r.Set(pares[i], pares[i+1])
	}
	return r
}
