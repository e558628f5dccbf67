// Package parser convierte las páginas de SUNAT guardadas en disco en
// registros etiqueta/valor.
package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/validador-leads-sunat/pkg/models"
	"golang.org/x/net/html"
)

const (
	fraseSinDeclaraciones   = "no existen declaraciones presentadas"
	MensajeSinDeclaraciones = "Sin declaraciones presentadas"
	MensajeSinTabla         = "No se encontró tabla de trabajadores"
)

// ParsePrincipal extrae la ficha RUC de la página principal. Las secciones
// ausentes simplemente no aparecen en el registro; un HTML inválido produce
// un registro vacío.
func ParsePrincipal(contenido string) models.Registro {
	var ficha models.Registro

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(contenido))
	if err != nil {
		return ficha
	}

	// Cabecera "Número de RUC:" seguida de "<ruc> - <razón social>"
	doc.Find("h4").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if !strings.Contains(h.Text(), models.CampoNumeroRUC) {
			return true
		}
		valor := h.Parent().NextAllFiltered("div").First().Find("h4").First()
		if valor.Length() == 0 {
			return false
		}
		texto := textoLimpio(valor)
		if numero, razon, ok := strings.Cut(texto, " - "); ok {
			ficha.Set(models.CampoNumeroRUC, strings.TrimSpace(numero))
			ficha.Set(models.CampoRazonSocial, strings.TrimSpace(razon))
		} else {
			ficha.Set(models.CampoNumeroRUC, strings.TrimSpace(texto))
		}
		return false
	})

	doc.Find("div.list-group-item").Each(func(_ int, item *goquery.Selection) {
		titulo := item.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return (goquery.NodeName(s) == "h4" || goquery.NodeName(s) == "h5") && s.HasClass("list-group-item-heading")
		}).First()
		if titulo.Length() == 0 {
			return
		}

		clave := strings.TrimSpace(strings.TrimSuffix(textoLimpio(titulo), ":"))
		if clave == "" {
			return
		}

		valor := item.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
			nombre := goquery.NodeName(s)
			if nombre != "div" && nombre != "p" {
				return false
			}
			_, tieneClase := s.Attr("class")
			return !tieneClase || s.HasClass("list-group-item-text")
		}).First()
		if valor.Length() == 0 {
			return
		}

		if texto := textoLimpio(valor); texto != "" {
			ficha.Set(clave, texto)
		}
	})

	return ficha
}

// ParseTrabajadores extrae la tabla de trabajadores y prestadores. Las filas
// cuya cantidad de celdas no coincide con la cabecera se descartan. Cuando
// no hay datos se devuelve una sola fila con el RUC y un mensaje.
func ParseTrabajadores(contenido, ruc string) []models.Registro {
	if strings.Contains(strings.ToLower(contenido), fraseSinDeclaraciones) {
		return []models.Registro{filaMensaje(ruc, MensajeSinDeclaraciones)}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(contenido))
	if err != nil {
		return []models.Registro{filaMensaje(ruc, MensajeSinTabla)}
	}

	tabla := doc.Find("table").First()
	if tabla.Length() == 0 {
		return []models.Registro{filaMensaje(ruc, MensajeSinTabla)}
	}

	var cabeceras []string
	tabla.Find("th").Each(func(_ int, th *goquery.Selection) {
		cabeceras = append(cabeceras, textoLimpio(th))
	})

	filas := []models.Registro{}
	if len(cabeceras) == 0 {
		return filas
	}

	tabla.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		var celdas []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			celdas = append(celdas, textoLimpio(td))
		})
		if len(celdas) != len(cabeceras) {
			return
		}

		var fila models.Registro
		for i, h := range cabeceras {
			fila.Set(h, celdas[i])
		}
		fila.Set(models.CampoRUC, ruc)
		filas = append(filas, fila)
	})

	return filas
}

func filaMensaje(ruc, mensaje string) models.Registro {
	return models.NuevoRegistro(models.CampoRUC, ruc, models.CampoMensaje, mensaje)
}

// textoLimpio concatena los nodos de texto recortados, sin separador
func textoLimpio(s *goquery.Selection) string {
	var b strings.Builder
	var visitar func(*html.Node)
	visitar = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(strings.TrimSpace(n.Data))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visitar(c)
		}
	}
	for _, n := range s.Nodes {
		visitar(n)
	}
	return b.String()
}
