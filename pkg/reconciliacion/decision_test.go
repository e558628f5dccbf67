package reconciliacion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/validador-leads-sunat/pkg/models"
)

func TestDecidir(t *testing.T) {
	tests := []struct {
		name     string
		tipo     string
		adm      string
		cantidad string
		want     string
	}{
		{"persona natural gana sobre lider", "PERSONA NATURAL SIN NEGOCIO", "LIDER1", "80", models.ResultadoDerivarMaryHuanay},
		{"persona natural sin recortar", "  persona natural sin negocio ", "NUEVO", "", models.ResultadoDerivarMaryHuanay},
		{"adm asignado", "SOCIEDAD ANONIMA CERRADA", "LIDER1", "3", models.ResultadoCorreoLider},
		{"adm asignado sin tipo", "", "LIDER1", "", models.ResultadoCorreoLider},
		{"nuevo pocos trabajadores", "SOCIEDAD ANONIMA CERRADA", "NUEVO", "10", models.ResultadoAsignarNuevo},
		{"nuevo en el limite", "SOCIEDAD ANONIMA CERRADA", "NUEVO", "50", models.ResultadoCorreoLider},
		{"nuevo bajo el limite", "SOCIEDAD ANONIMA CERRADA", " nuevo ", "49", models.ResultadoAsignarNuevo},
		{"nuevo con miles", "SOCIEDAD ANONIMA CERRADA", "NUEVO", "1,204", models.ResultadoCorreoLider},
		{"nuevo sin cantidad", "SOCIEDAD ANONIMA CERRADA", "NUEVO", "", models.ResultadoAsignarNuevo},
		{"nuevo cantidad no numerica", "SOCIEDAD ANONIMA CERRADA", "NUEVO", "Sin declaraciones presentadas", models.ResultadoAsignarNuevo},
		{"persona natural con negocio", "PERSONA NATURAL CON NEGOCIO", "NUEVO", "2", models.ResultadoAsignarNuevo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decidir(tt.tipo, tt.adm, tt.cantidad)
			assert.Equal(t, tt.want, got)
			assert.True(t, models.EsResultadoValido(got))
		})
	}
}

func TestDecidirFila(t *testing.T) {
	f := models.FilaValidacion{TipoContribuyente: "EMPRESA INDIVIDUAL DE RESP. LTDA", AdmSAC: "NUEVO", CantidadTrabajadores: "12"}
	assert.Equal(t, models.ResultadoAsignarNuevo, DecidirFila(f))
}
