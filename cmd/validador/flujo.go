package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/validador-leads-sunat/pkg/config"
	"github.com/validador-leads-sunat/pkg/database"
	"github.com/validador-leads-sunat/pkg/leads"
	"github.com/validador-leads-sunat/pkg/models"
	"github.com/validador-leads-sunat/pkg/reconciliacion"
	"github.com/validador-leads-sunat/pkg/reporte"
	"github.com/validador-leads-sunat/pkg/scraper"
	"github.com/validador-leads-sunat/pkg/tabla"
	"github.com/validador-leads-sunat/pkg/utils"
	"go.uber.org/zap"
)

var (
	errSinRUCs         = errors.New("no hay RUCs para procesar")
	errSinConsultas    = errors.New("no se pudo consultar exitosamente ningún RUC de la lista")
	errConsultaFallida = errors.New("la consulta del RUC falló, no se generó el reporte")
)

// historial guarda las filas de cada corrida y recuerda el último RESULTADO
type historial interface {
	InsertValidaciones(ctx context.Context, filas []models.FilaValidacion, fecha time.Time) (uuid.UUID, error)
	UltimoResultado(ctx context.Context, ruc string) (string, time.Time, error)
}

// entradas son las rutas que indica el usuario
type entradas struct {
	RUC      string
	Buzon    string
	Clientes string
	Salida   string
}

// flujo reúne las dos formas de trabajo: un RUC o el lote del Buzón EPS
type flujo struct {
	cfg       *config.Config
	log       *zap.Logger
	consultor scraper.Consultor
	historial historial
}

func (f *flujo) directorioBase(salida string) string {
	return filepath.Dir(salida)
}

func (f *flujo) opciones(e entradas, rucs []string) reporte.Opciones {
	return reporte.Opciones{
		RutaSalida:   e.Salida,
		RUCs:         rucs,
		RutaBuzon:    e.Buzon,
		RutaClientes: e.Clientes,
		CarpetaHTML:  f.cfg.CarpetaHTML,
		Alias:        f.cfg.Columnas,
	}
}

// individual consulta un solo RUC. Si ya es cliente activo no se consulta
// SUNAT y el reporte sale con "Enviar Correo Administrador".
func (f *flujo) individual(ctx context.Context, e entradas) error {
	ruc := utils.LimpiarRUC(e.RUC)
	if ruc == "" {
		return fmt.Errorf("RUC %q sin dígitos", e.RUC)
	}
	if !utils.IsValidRUC(ruc) {
		f.log.Warn("El RUC no tiene 11 dígitos", zap.String("ruc", ruc))
	}
	f.log.Info("Iniciando búsqueda directa", zap.String("ruc", ruc))
	f.anterior(ctx, ruc)

	clientes := tabla.CargarOpcional(e.Clientes, "Clientes Activos", f.log)
	if leads.EsClienteActivo(ruc, clientes, f.cfg.Columnas) {
		f.log.Warn("El RUC ya existe en Clientes Activos", zap.String("ruc", ruc))
		o := f.opciones(e, []string{ruc})
		o.YaCliente = true
		return f.generar(ctx, o)
	}

	ok, err := f.consultor.ConsultarYGuardar(ctx, ruc, f.directorioBase(e.Salida))
	if err != nil {
		f.log.Warn("Consulta fallida", zap.String("ruc", ruc), zap.Error(err))
	}
	if !ok {
		return errConsultaFallida
	}
	return f.generar(ctx, f.opciones(e, []string{ruc}))
}

// anterior registra el RESULTADO de la última validación guardada del RUC
func (f *flujo) anterior(ctx context.Context, ruc string) {
	if f.historial == nil {
		return
	}
	resultado, fecha, err := f.historial.UltimoResultado(ctx, ruc)
	switch {
	case errors.Is(err, database.ErrSinHistorial):
		f.log.Info("El RUC no tiene validaciones anteriores", zap.String("ruc", ruc))
	case err != nil:
		f.log.Warn("No se pudo consultar el historial", zap.String("ruc", ruc), zap.Error(err))
	default:
		f.log.Info("Validación anterior",
			zap.String("ruc", ruc),
			zap.String("resultado", resultado),
			zap.Time("fecha", fecha))
	}
}

// lote consulta los leads nuevos del Buzón EPS y arma un único reporte
func (f *flujo) lote(ctx context.Context, e entradas) error {
	f.log.Info("Iniciando proceso en lote desde archivos")

	rucs := leads.ObtenerRUCsDeArchivos(e.Buzon, e.Clientes, f.cfg.Columnas, f.log)
	if len(rucs) == 0 {
		f.log.Warn("No se encontraron RUCs para procesar")
		return errSinRUCs
	}

	exitosos := scraper.ProcesarLote(ctx, rucs, f.consultor, f.directorioBase(e.Salida), f.cfg.Scraper.PausaEntreRUCs, f.log)
	if len(exitosos) == 0 {
		return errSinConsultas
	}
	return f.generar(ctx, f.opciones(e, exitosos))
}

// desdeCache arma el reporte solo con las páginas ya guardadas
func (f *flujo) desdeCache(ctx context.Context, e entradas, rucs []string) error {
	return f.generar(ctx, f.opciones(e, rucs))
}

func (f *flujo) generar(ctx context.Context, o reporte.Opciones) error {
	r, err := reporte.GenerarReporte(o, f.log)
	if err != nil {
		return err
	}
	resumen(f.log, r)
	if r == nil || f.historial == nil {
		return nil
	}
	corrida, err := f.historial.InsertValidaciones(ctx, r.Validacion, time.Now())
	if err != nil {
		// El libro ya quedó escrito; el historial es secundario
		f.log.Warn("No se pudo guardar el historial", zap.Error(err))
		return nil
	}
	f.log.Info("Historial guardado", zap.String("corrida", corrida.String()), zap.Int("filas", len(r.Validacion)))
	return nil
}

// resumen escribe en el log la cuenta por RESULTADO de un reporte
func resumen(log *zap.Logger, r *reconciliacion.Reporte) {
	if r == nil {
		return
	}
	cuenta := map[string]int{}
	for _, fila := range r.Validacion {
		cuenta[fila.Resultado]++
	}
	for _, res := range []string{
		models.ResultadoDerivarMaryHuanay,
		models.ResultadoCorreoLider,
		models.ResultadoAsignarNuevo,
		models.ResultadoCorreoAdministrador,
	} {
		if cuenta[res] > 0 {
			log.Info("Resultado", zap.String("resultado", res), zap.Int("cantidad", cuenta[res]))
		}
	}
}
