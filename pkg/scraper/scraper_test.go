package scraper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/validador-leads-sunat/pkg/parser"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// consultorFalso guarda una página mínima para los RUCs que no están en fallan
type consultorFalso struct {
	mu       sync.Mutex
	fallan   map[string]bool
	llamadas []string
}

func (c *consultorFalso) ConsultarYGuardar(ctx context.Context, ruc, base string) (bool, error) {
	c.mu.Lock()
	c.llamadas = append(c.llamadas, ruc)
	c.mu.Unlock()
	if c.fallan[ruc] {
		return false, ErrConsultaFallida
	}
	return true, GuardarHTML(ruc, "<html></html>", base, "", parser.SufijoPrincipal, nil)
}

func TestGuardarHTML(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, GuardarHTML("20123456789", "<html>ok</html>", base, "", parser.SufijoPrincipal, zap.NewNop()))

	data, err := os.ReadFile(filepath.Join(base, CarpetaHTML, "RUC_20123456789_principal.html"))
	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", string(data))
}

func TestGuardarHTMLCarpetaConfigurada(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, GuardarHTML("20123456789", "<html>ok</html>", base, "paginas", parser.SufijoTrabajadores, nil))
	assert.FileExists(t, filepath.Join(base, "paginas", "RUC_20123456789_trabajadores.html"))
	assert.NoDirExists(t, filepath.Join(base, CarpetaHTML))

	absoluta := filepath.Join(t.TempDir(), "cache")
	require.NoError(t, GuardarHTML("20123456789", "<html>ok</html>", base, absoluta, parser.SufijoPrincipal, nil))
	assert.FileExists(t, filepath.Join(absoluta, "RUC_20123456789_principal.html"))
}

func TestGuardarHTMLSinContenido(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, GuardarHTML("20123456789", "", base, "", parser.SufijoPrincipal, nil))
	require.NoError(t, GuardarHTML("20123456789", "<html></html>", "", "", parser.SufijoPrincipal, nil))

	_, err := os.Stat(filepath.Join(base, CarpetaHTML))
	assert.True(t, os.IsNotExist(err))
}

func TestProcesarLote(t *testing.T) {
	base := t.TempDir()
	c := &consultorFalso{fallan: map[string]bool{"20222222222": true}}
	rucs := []string{"20111111111", "20222222222", "20333333333"}

	ok := ProcesarLote(context.Background(), rucs, c, base, 0, zap.NewNop())
	assert.Equal(t, []string{"20111111111", "20333333333"}, ok)
	assert.Equal(t, rucs, c.llamadas)

	entradas, err := os.ReadDir(filepath.Join(base, CarpetaHTML))
	require.NoError(t, err)
	assert.Len(t, entradas, 2)
}

func TestProcesarLoteRespetaPausa(t *testing.T) {
	c := &consultorFalso{}
	inicio := time.Now()
	ok := ProcesarLote(context.Background(), []string{"1", "2", "3"}, c, t.TempDir(), 20*time.Millisecond, nil)
	assert.Len(t, ok, 3)
	assert.GreaterOrEqual(t, time.Since(inicio), 35*time.Millisecond)
}

func TestProcesarLoteCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := &consultorFalso{}
	ok := ProcesarLote(ctx, []string{"20111111111", "20222222222"}, c, t.TempDir(), time.Second, nil)
	assert.Empty(t, ok)
	assert.Empty(t, c.llamadas)
}

func TestReintentar(t *testing.T) {
	intentos := 0
	err := reintentar(context.Background(), 3, time.Millisecond, zap.NewNop(), func(i int) error {
		intentos++
		if i < 3 {
			return errors.New("timeout")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, intentos)
}

func TestReintentarAgotado(t *testing.T) {
	intentos := 0
	err := reintentar(context.Background(), 2, time.Millisecond, zap.NewNop(), func(int) error {
		intentos++
		return errors.New("no cargó div.list-group")
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConsultaFallida)
	assert.Contains(t, err.Error(), "no cargó div.list-group")
	assert.Equal(t, 2, intentos)
}

func TestReintentarCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	intentos := 0
	err := reintentar(ctx, 5, time.Hour, zap.NewNop(), func(int) error {
		intentos++
		cancel()
		return errors.New("falla")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, intentos)
}

func TestConfigConDefaults(t *testing.T) {
	c := Config{MaxIntentos: -1, PausaReintento: -time.Second}.conDefaults()
	assert.Equal(t, URLConsulta, c.URL)
	assert.Equal(t, 3, c.MaxIntentos)
	assert.Equal(t, time.Duration(0), c.PausaReintento)
	assert.Equal(t, 45*time.Second, c.TimeoutPagina)
	assert.NotEmpty(t, c.UserAgent)
	assert.Equal(t, CarpetaHTML, c.Carpeta)

	c = Config{Carpeta: "paginas"}.conDefaults()
	assert.Equal(t, "paginas", c.Carpeta)
}

func TestNavegadorCloseSinSesion(t *testing.T) {
	n := NuevoNavegador(Config{Humano: true}, nil)
	assert.NotNil(t, n.humano)
	n.Close()
	n.Close()
}

func TestComportamientoDemora(t *testing.T) {
	h := nuevoComportamiento(1, zap.NewNop())
	for i := 0; i < 200; i++ {
		d := h.demora(400, 1000)
		assert.GreaterOrEqual(t, d, 20*time.Millisecond)
		assert.LessOrEqual(t, d, 2*time.Second)
	}
}

func TestComportamientoDescansoCadaQuinceAcciones(t *testing.T) {
	h := nuevoComportamiento(1, zap.NewNop())
	var dormido time.Duration
	h.dormir = func(d time.Duration) { dormido += d }

	for i := 0; i < 15; i++ {
		h.actualizarFatiga()
	}
	assert.True(t, h.tocaDescanso())
	h.descansar()
	assert.Greater(t, dormido, time.Duration(0))
}
