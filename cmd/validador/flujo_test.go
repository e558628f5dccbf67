package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/validador-leads-sunat/pkg/config"
	"github.com/validador-leads-sunat/pkg/database"
	"github.com/validador-leads-sunat/pkg/models"
	"github.com/validador-leads-sunat/pkg/parser"
	"github.com/validador-leads-sunat/pkg/scraper"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const plantillaPrincipal = `<html><body><div class="list-group">
<div class="list-group-item"><div class="row">
  <div class="col-sm-5"><h4 class="list-group-item-heading">Número de RUC:</h4></div>
  <div class="col-sm-7"><h4 class="list-group-item-heading">%s - EMPRESA DE PRUEBA S.A.C.</h4></div>
</div></div>
<div class="list-group-item"><div class="row">
  <div class="col-sm-5"><h4 class="list-group-item-heading">Estado del Contribuyente:</h4></div>
  <div class="col-sm-7"><p class="list-group-item-text">ACTIVO</p></div>
</div></div>
</div></body></html>`

// consultorFalso deja en disco una página principal por RUC, salvo los
// marcados como fallidos
type consultorFalso struct {
	carpeta   string
	mu        sync.Mutex
	fallidos  map[string]bool
	consultas []string
}

func (c *consultorFalso) ConsultarYGuardar(_ context.Context, ruc, base string) (bool, error) {
	c.mu.Lock()
	c.consultas = append(c.consultas, ruc)
	c.mu.Unlock()
	if c.fallidos[ruc] {
		return false, scraper.ErrConsultaFallida
	}
	if err := scraper.GuardarHTML(ruc, fmt.Sprintf(plantillaPrincipal, ruc), base, c.carpeta, parser.SufijoPrincipal, nil); err != nil {
		return false, err
	}
	return true, nil
}

type historialFalso struct {
	filas       []models.FilaValidacion
	err         error
	anteriores  map[string]string
	consultados []string
}

func (h *historialFalso) UltimoResultado(_ context.Context, ruc string) (string, time.Time, error) {
	h.consultados = append(h.consultados, ruc)
	r, ok := h.anteriores[ruc]
	if !ok {
		return "", time.Time{}, database.ErrSinHistorial
	}
	return r, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), nil
}

func (h *historialFalso) InsertValidaciones(_ context.Context, filas []models.FilaValidacion, _ time.Time) (uuid.UUID, error) {
	if h.err != nil {
		return uuid.Nil, h.err
	}
	h.filas = append(h.filas, filas...)
	return uuid.New(), nil
}

func nuevoFlujo(c scraper.Consultor, h historial) *flujo {
	cfg := config.DefaultConfig()
	cfg.Scraper.PausaEntreRUCs = 0
	f := &flujo{cfg: cfg, log: zap.NewNop(), consultor: c}
	if h != nil {
		f.historial = h
	}
	return f
}

func escribirArchivo(t *testing.T, ruta, contenido string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(ruta, []byte(contenido), 0644))
	return ruta
}

func rucsDe(filas []models.FilaValidacion) []string {
	var out []string
	for _, f := range filas {
		out = append(out, f.RUC)
	}
	return out
}

func TestIndividualConsulta(t *testing.T) {
	dir := t.TempDir()
	clientes := escribirArchivo(t, filepath.Join(dir, "clientes.csv"), "Ruc,Adm SAC ACT\n20999999999,LIDER1\n")
	salida := filepath.Join(dir, "validacion.xlsx")

	c := &consultorFalso{}
	h := &historialFalso{}
	f := nuevoFlujo(c, h)

	err := f.individual(context.Background(), entradas{RUC: " 20123456789 ", Clientes: clientes, Salida: salida})
	require.NoError(t, err)
	assert.Equal(t, []string{"20123456789"}, c.consultas)
	assert.FileExists(t, salida)
	assert.FileExists(t, filepath.Join(dir, scraper.CarpetaHTML, "RUC_20123456789_principal.html"))

	require.Len(t, h.filas, 1)
	assert.Equal(t, "20123456789", h.filas[0].RUC)
	assert.Equal(t, "ACTIVO", h.filas[0].Estado)
}

func TestIndividualCarpetaConfigurada(t *testing.T) {
	dir := t.TempDir()
	salida := filepath.Join(dir, "validacion.xlsx")

	f := nuevoFlujo(nil, nil)
	f.cfg.CarpetaHTML = "paginas"
	c := &consultorFalso{carpeta: f.cfg.ConfigNavegador().Carpeta}
	f.consultor = c

	require.NoError(t, f.individual(context.Background(), entradas{RUC: "20123456789", Salida: salida}))
	assert.FileExists(t, filepath.Join(dir, "paginas", "RUC_20123456789_principal.html"))
	assert.NoDirExists(t, filepath.Join(dir, scraper.CarpetaHTML))
	assert.FileExists(t, salida)
}

func TestIndividualYaCliente(t *testing.T) {
	dir := t.TempDir()
	clientes := escribirArchivo(t, filepath.Join(dir, "clientes.csv"), "Ruc,Adm SAC ACT\n20123456789,LIDER1\n")
	salida := filepath.Join(dir, "validacion.xlsx")

	c := &consultorFalso{}
	h := &historialFalso{}
	f := nuevoFlujo(c, h)

	require.NoError(t, f.individual(context.Background(), entradas{RUC: "20123456789", Clientes: clientes, Salida: salida}))
	assert.Empty(t, c.consultas)
	assert.FileExists(t, salida)

	require.Len(t, h.filas, 1)
	assert.Equal(t, "LIDER1", h.filas[0].AdmSAC)
	assert.Equal(t, models.ResultadoCorreoAdministrador, h.filas[0].Resultado)
}

func TestIndividualRegistraValidacionAnterior(t *testing.T) {
	dir := t.TempDir()
	core, logs := observer.New(zap.InfoLevel)

	h := &historialFalso{anteriores: map[string]string{"20123456789": models.ResultadoCorreoLider}}
	f := nuevoFlujo(&consultorFalso{}, h)
	f.log = zap.New(core)

	require.NoError(t, f.individual(context.Background(), entradas{RUC: "20123456789", Salida: filepath.Join(dir, "v.xlsx")}))
	assert.Equal(t, []string{"20123456789"}, h.consultados)

	previas := logs.FilterMessage("Validación anterior").All()
	require.Len(t, previas, 1)
	assert.Equal(t, models.ResultadoCorreoLider, previas[0].ContextMap()["resultado"])
}

func TestIndividualSinValidacionAnterior(t *testing.T) {
	dir := t.TempDir()
	core, logs := observer.New(zap.InfoLevel)

	h := &historialFalso{}
	f := nuevoFlujo(&consultorFalso{}, h)
	f.log = zap.New(core)

	require.NoError(t, f.individual(context.Background(), entradas{RUC: "20123456789", Salida: filepath.Join(dir, "v.xlsx")}))
	assert.Equal(t, 1, logs.FilterMessage("El RUC no tiene validaciones anteriores").Len())
	assert.Zero(t, logs.FilterMessage("Validación anterior").Len())
}

func TestIndividualConsultaFallida(t *testing.T) {
	dir := t.TempDir()
	c := &consultorFalso{fallidos: map[string]bool{"20123456789": true}}
	f := nuevoFlujo(c, nil)

	err := f.individual(context.Background(), entradas{RUC: "20123456789", Salida: filepath.Join(dir, "v.xlsx")})
	assert.ErrorIs(t, err, errConsultaFallida)
	assert.NoFileExists(t, filepath.Join(dir, "v.xlsx"))
}

func TestIndividualSinDigitos(t *testing.T) {
	f := nuevoFlujo(&consultorFalso{}, nil)
	err := f.individual(context.Background(), entradas{RUC: "abc", Salida: filepath.Join(t.TempDir(), "v.xlsx")})
	assert.Error(t, err)
}

func TestLote(t *testing.T) {
	dir := t.TempDir()
	buzon := escribirArchivo(t, filepath.Join(dir, "buzon.csv"),
		"RUC,CANAL\n20111111111,WEB\n20222222222,TIENDA\n20333333333,WEB\n123,WEB\n")
	clientes := escribirArchivo(t, filepath.Join(dir, "clientes.csv"), "Ruc,Adm SAC ACT\n20222222222,LIDER1\n")
	salida := filepath.Join(dir, "lote.xlsx")

	c := &consultorFalso{fallidos: map[string]bool{"20333333333": true}}
	h := &historialFalso{}
	f := nuevoFlujo(c, h)

	require.NoError(t, f.lote(context.Background(), entradas{Buzon: buzon, Clientes: clientes, Salida: salida}))
	assert.Equal(t, []string{"20111111111", "20333333333"}, c.consultas)
	assert.FileExists(t, salida)

	rucs := rucsDe(h.filas)
	assert.Contains(t, rucs, "20111111111")
	assert.NotContains(t, rucs, "20333333333")
	for _, fila := range h.filas {
		if fila.RUC == "20222222222" {
			assert.Equal(t, models.ResultadoCorreoAdministrador, fila.Resultado)
		}
		if fila.RUC == "20111111111" {
			assert.Equal(t, "WEB", fila.Canal)
		}
	}
}

func TestLoteSinNuevos(t *testing.T) {
	dir := t.TempDir()
	buzon := escribirArchivo(t, filepath.Join(dir, "buzon.csv"), "RUC,CANAL\n20222222222,TIENDA\n")
	clientes := escribirArchivo(t, filepath.Join(dir, "clientes.csv"), "Ruc,Adm SAC ACT\n20222222222,LIDER1\n")

	f := nuevoFlujo(&consultorFalso{}, nil)
	err := f.lote(context.Background(), entradas{Buzon: buzon, Clientes: clientes, Salida: filepath.Join(dir, "v.xlsx")})
	assert.ErrorIs(t, err, errSinRUCs)
}

func TestLoteTodasFallidas(t *testing.T) {
	dir := t.TempDir()
	buzon := escribirArchivo(t, filepath.Join(dir, "buzon.csv"), "RUC,CANAL\n20111111111,WEB\n")
	clientes := escribirArchivo(t, filepath.Join(dir, "clientes.csv"), "Ruc,Adm SAC ACT\n")

	f := nuevoFlujo(&consultorFalso{fallidos: map[string]bool{"20111111111": true}}, nil)
	err := f.lote(context.Background(), entradas{Buzon: buzon, Clientes: clientes, Salida: filepath.Join(dir, "v.xlsx")})
	assert.ErrorIs(t, err, errSinConsultas)
}

func TestGenerarHistorialFallidoNoInterrumpe(t *testing.T) {
	dir := t.TempDir()
	salida := filepath.Join(dir, "v.xlsx")
	require.NoError(t, scraper.GuardarHTML("20111111111", fmt.Sprintf(plantillaPrincipal, "20111111111"), dir, "", parser.SufijoPrincipal, nil))

	f := nuevoFlujo(&consultorFalso{}, &historialFalso{err: errors.New("sin conexión")})
	require.NoError(t, f.desdeCache(context.Background(), entradas{Salida: salida}, nil))
	assert.FileExists(t, salida)
}
