package models

// Decisiones posibles para la columna RESULTADO
const (
	ResultadoDerivarMaryHuanay   = "Derivar a Mary Huanay"
	ResultadoCorreoLider         = "Enviar Correo a Líder"
	ResultadoAsignarNuevo        = "Asignar Nuevo"
	ResultadoCorreoAdministrador = "Enviar Correo Administrador"
	AdmSACNuevo                  = "NUEVO"
	TipoPersonaNaturalSinNegocio = "PERSONA NATURAL SIN NEGOCIO"
	UmbralTrabajadoresLider      = 50
)

// Nombres de las hojas del reporte, en el orden en que se escriben
const (
	HojaValidacion   = "VALIDACION FINAL"
	HojaPrincipal    = "Principal_SUNAT"
	HojaTrabajadores = "Trabajadores_SUNAT"
)

// ColumnasValidacion es el orden fijo de la hoja VALIDACION FINAL.
// "Tipo Contibuyente" se escribe así en el formato que consume el área comercial.
var ColumnasValidacion = []string{
	"RUC",
	"CANAL",
	"ADM SAC",
	"Razón Social",
	"Tipo Contibuyente",
	"Estado del Contribuyente",
	"Condición del Contribuyente",
	"Cantidad de Trabajadores",
	"RESULTADO",
}

// FilaValidacion representa la decisión final para un RUC
type FilaValidacion struct {
	RUC                  string `json:"ruc"`
	Canal                string `json:"canal"`
	AdmSAC               string `json:"adm_sac"`
	RazonSocial          string `json:"razon_social"`
	TipoContribuyente    string `json:"tipo_contribuyente"`
	Estado               string `json:"estado"`
	Condicion            string `json:"condicion"`
	CantidadTrabajadores string `json:"cantidad_trabajadores"`
	Resultado            string `json:"resultado"`
}

// EsResultadoValido indica si el valor pertenece al conjunto de decisiones
func EsResultadoValido(r string) bool {
	switch r {
	case ResultadoDerivarMaryHuanay, ResultadoCorreoLider, ResultadoAsignarNuevo, ResultadoCorreoAdministrador:
		return true
	}
	return false
}
