// Package reconciliacion cruza las fichas de SUNAT con el Buzón EPS y los
// Clientes Activos y asigna el RESULTADO de cada lead.
package reconciliacion

import (
	"errors"
	"sort"
	"strings"

	"github.com/validador-leads-sunat/pkg/leads"
	"github.com/validador-leads-sunat/pkg/metrics"
	"github.com/validador-leads-sunat/pkg/models"
	"github.com/validador-leads-sunat/pkg/utils"
	"go.uber.org/zap"
)

// ErrCarpetaHTMLNoExiste indica que no hay carpeta de consultas para leer
var ErrCarpetaHTMLNoExiste = errors.New("no existe la carpeta de consultas HTML")

// Entrada agrupa todo lo que necesita una reconciliación completa. Buzon y
// Clientes pueden ser nil.
type Entrada struct {
	Principales  []models.Registro
	Trabajadores []models.Registro
	Buzon        *models.Tabla
	Clientes     *models.Tabla
	Alias        models.AliasColumnas
}

// Reporte contiene las tres hojas del archivo final
type Reporte struct {
	Validacion   []models.FilaValidacion
	Principal    models.Hoja
	Trabajadores models.Hoja
}

// Hojas devuelve las hojas en el orden en que se escriben
func (r Reporte) Hojas() []models.Hoja {
	return []models.Hoja{HojaValidacion(r.Validacion), r.Principal, r.Trabajadores}
}

type motor struct {
	e     Entrada
	alias models.AliasColumnas
	log   *zap.Logger
}

// Construir arma el reporte completo. Cada búsqueda es independiente: si
// falta una columna o una tabla, ese campo queda con su valor por defecto y
// se registra una advertencia.
func Construir(e Entrada, log *zap.Logger) Reporte {
	if log == nil {
		log = zap.NewNop()
	}
	m := &motor{e: e, alias: e.Alias.ConDefaults(), log: log}

	principal := hojaDesdeRegistros(models.HojaPrincipal, e.Principales)
	trabajadores := hojaDesdeRegistros(models.HojaTrabajadores, e.Trabajadores)
	normalizarPeriodos(&trabajadores, m.alias.Periodo)
	coercerHoja(&principal)
	coercerHoja(&trabajadores)

	filas := m.filasBase()
	canal := m.buscarCanal()
	adm := m.buscarAdmSAC()
	cantidades := m.cantidadTrabajadores()

	existentes := make(map[string]bool, len(filas))
	for i := range filas {
		ruc := filas[i].RUC
		existentes[ruc] = true
		filas[i].Canal = canal(ruc)
		filas[i].AdmSAC = adm(ruc)
		filas[i].CantidadTrabajadores = cantidades[ruc]
	}

	// Leads que ya estaban en ambos archivos de entrada
	cruzados := make(map[string]bool)
	if e.Buzon != nil && e.Clientes != nil {
		for _, ruc := range leads.Interseccion(e.Buzon, e.Clientes, m.alias) {
			cruzados[ruc] = true
			if existentes[ruc] {
				continue
			}
			filas = append(filas, models.FilaValidacion{
				RUC:    ruc,
				Canal:  canal(ruc),
				AdmSAC: adm(ruc),
			})
		}
	}

	for i := range filas {
		if cruzados[filas[i].RUC] {
			filas[i].Resultado = models.ResultadoCorreoAdministrador
		} else {
			filas[i].Resultado = DecidirFila(filas[i])
		}
		metrics.Resultados.WithLabelValues(filas[i].Resultado).Inc()
	}

	if len(cruzados) > 0 {
		log.Info("RUCs presentes en Buzon EPS y Clientes Activos", zap.Int("cantidad", len(cruzados)))
	}

	log.Info("Procesamiento finalizado",
		zap.Int("registros_principal", len(principal.Filas)),
		zap.Int("registros_trabajadores", len(trabajadores.Filas)),
		zap.Int("validados", len(filas)))

	return Reporte{Validacion: filas, Principal: principal, Trabajadores: trabajadores}
}

// ConstruirYaCliente arma el reporte de un RUC que ya es cliente activo sin
// consultar SUNAT: una sola fila con ADM SAC de Clientes Activos y
// RESULTADO "Enviar Correo Administrador".
func ConstruirYaCliente(ruc string, clientes *models.Tabla, alias models.AliasColumnas, log *zap.Logger) Reporte {
	if log == nil {
		log = zap.NewNop()
	}
	alias = alias.ConDefaults()
	ruc = strings.TrimSpace(ruc)

	admSAC := ""
	colRUC, okRUC := clientes.PrimeraColumna(alias.RUCClientes)
	colAdm, okAdm := clientes.PrimeraColumna(alias.AdmSAC)
	if okRUC && okAdm {
		admSAC = clientes.Mapeo(colRUC, colAdm)[ruc]
	} else if clientes != nil {
		log.Warn("No se encontró ADM SAC en Clientes Activos", zap.String("ruc", ruc))
	}

	fila := models.FilaValidacion{
		RUC:       ruc,
		AdmSAC:    admSAC,
		Resultado: models.ResultadoCorreoAdministrador,
	}
	metrics.Resultados.WithLabelValues(fila.Resultado).Inc()

	return Reporte{
		Validacion:   []models.FilaValidacion{fila},
		Principal:    models.Hoja{Nombre: models.HojaPrincipal},
		Trabajadores: models.Hoja{Nombre: models.HojaTrabajadores},
	}
}

// filasBase arma una fila por ficha principal con los datos de SUNAT
func (m *motor) filasBase() []models.FilaValidacion {
	cols := columnasDe(m.e.Principales)
	colRUC, ok := primeraDe(cols, m.alias.RUCPrincipal)
	if !ok {
		if len(m.e.Principales) > 0 {
			m.advertir("RUC", "No se encontró la columna de RUC en las fichas principales")
		}
		return nil
	}
	colRazon, okRazon := primeraDe(cols, m.alias.RazonSocial)
	colTipo, okTipo := primeraDe(cols, m.alias.Tipo)
	colEstado, okEstado := primeraDe(cols, m.alias.Estado)
	colCond, okCond := primeraDe(cols, m.alias.Condicion)

	valor := func(r models.Registro, col string, ok bool) string {
		if !ok {
			return ""
		}
		v, _ := r.Valor(col)
		return v
	}

	filas := make([]models.FilaValidacion, 0, len(m.e.Principales))
	for _, r := range m.e.Principales {
		filas = append(filas, models.FilaValidacion{
			RUC:               strings.TrimSpace(valor(r, colRUC, true)),
			RazonSocial:       valor(r, colRazon, okRazon),
			TipoContribuyente: valor(r, colTipo, okTipo),
			Estado:            valor(r, colEstado, okEstado),
			Condicion:         valor(r, colCond, okCond),
		})
	}
	sort.SliceStable(filas, func(i, j int) bool { return filas[i].RUC < filas[j].RUC })
	return filas
}

// buscarCanal devuelve la búsqueda RUC -> CANAL en el Buzón EPS. Sin tabla
// o sin columnas el canal queda vacío.
func (m *motor) buscarCanal() func(string) string {
	vacio := func(string) string { return "" }
	if m.e.Buzon == nil {
		return vacio
	}
	colRUC, okRUC := m.e.Buzon.PrimeraColumna(m.alias.RUCBuzon)
	colCanal, okCanal := m.e.Buzon.PrimeraColumna(m.alias.Canal)
	if !okRUC || !okCanal {
		m.advertir("CANAL", "No se encontraron las columnas de RUC o CANAL en Buzon EPS")
		return vacio
	}
	mapeo := m.e.Buzon.Mapeo(colRUC, colCanal)
	return func(ruc string) string { return mapeo[ruc] }
}

// buscarAdmSAC devuelve la búsqueda RUC -> ADM SAC en Clientes Activos. Un
// RUC que no figura, o cualquier falta de datos, se marca NUEVO.
func (m *motor) buscarAdmSAC() func(string) string {
	nuevo := func(string) string { return models.AdmSACNuevo }
	if m.e.Clientes == nil {
		return nuevo
	}
	colRUC, okRUC := m.e.Clientes.PrimeraColumna(m.alias.RUCClientes)
	colAdm, okAdm := m.e.Clientes.PrimeraColumna(m.alias.AdmSAC)
	if !okRUC || !okAdm {
		m.advertir("ADM SAC", "No se encontraron las columnas de Ruc o ADM SAC en Clientes Activos")
		return nuevo
	}
	mapeo := m.e.Clientes.Mapeo(colRUC, colAdm)
	return func(ruc string) string {
		if v := mapeo[ruc]; strings.TrimSpace(v) != "" {
			return v
		}
		return models.AdmSACNuevo
	}
}

// cantidadTrabajadores toma, por RUC, la fila con el período más reciente.
// Ante dos filas con el mismo período gana la primera en orden de lectura.
func (m *motor) cantidadTrabajadores() map[string]string {
	out := make(map[string]string)
	if len(m.e.Trabajadores) == 0 {
		return out
	}

	cols := columnasDe(m.e.Trabajadores)
	colPeriodo, okPeriodo := primeraDe(cols, m.alias.Periodo)
	colTrab, okTrab := primeraDe(cols, m.alias.Trabajadores)
	colRUC, okRUC := primeraDe(cols, m.alias.RUCTrab)
	if !okPeriodo || !okTrab || !okRUC {
		m.advertir("Cantidad de Trabajadores", "No se encontraron las columnas de período, trabajadores o RUC")
		return out
	}

	mejor := make(map[string]int64)
	for _, r := range m.e.Trabajadores {
		ruc, _ := r.Valor(colRUC)
		ruc = strings.TrimSpace(ruc)
		p, _ := r.Valor(colPeriodo)
		periodo, ok := utils.NormalizarPeriodo(p)
		if ruc == "" || !ok {
			continue
		}
		if actual, visto := mejor[ruc]; visto && periodo <= actual {
			continue
		}
		mejor[ruc] = periodo
		cantidad, _ := r.Valor(colTrab)
		out[ruc] = cantidad
	}
	return out
}

func (m *motor) advertir(campo, mensaje string) {
	m.log.Warn(mensaje, zap.String("campo", campo))
	metrics.AdvertenciasCampo.WithLabelValues(campo).Inc()
}
