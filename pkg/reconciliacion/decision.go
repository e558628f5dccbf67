package reconciliacion

import (
	"strings"

	"github.com/validador-leads-sunat/pkg/models"
	"github.com/validador-leads-sunat/pkg/utils"
)

// Decidir aplica las reglas de asignación en orden; gana la primera que
// aplica:
//  1. Persona natural sin negocio -> Derivar a Mary Huanay
//  2. ADM SAC distinto de NUEVO   -> Enviar Correo a Líder
//  3. Menos de 50 trabajadores    -> Asignar Nuevo, si no Enviar Correo a Líder
//
// Una cantidad vacía o no numérica cuenta como 0.
func Decidir(tipoContribuyente, admSAC, cantidadTrabajadores string) string {
	if strings.ToUpper(strings.TrimSpace(tipoContribuyente)) == models.TipoPersonaNaturalSinNegocio {
		return models.ResultadoDerivarMaryHuanay
	}
	if strings.ToUpper(strings.TrimSpace(admSAC)) != models.AdmSACNuevo {
		return models.ResultadoCorreoLider
	}
	if utils.ANumero(cantidadTrabajadores) < models.UmbralTrabajadoresLider {
		return models.ResultadoAsignarNuevo
	}
	return models.ResultadoCorreoLider
}

// DecidirFila es Decidir sobre una fila de validación
func DecidirFila(f models.FilaValidacion) string {
	return Decidir(f.TipoContribuyente, f.AdmSAC, f.CantidadTrabajadores)
}
