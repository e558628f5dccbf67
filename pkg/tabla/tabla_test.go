package tabla

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/validador-leads-sunat/pkg/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func crearExcel(t *testing.T, ruta string, filas [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	hoja := f.GetSheetName(0)
	for i, fila := range filas {
		celda, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(hoja, celda, &fila))
	}
	require.NoError(t, f.SaveAs(ruta))
}

func TestCargarExcel(t *testing.T) {
	ruta := filepath.Join(t.TempDir(), "buzon.xlsx")
	crearExcel(t, ruta, [][]any{
		{"RUC", "CANAL"},
		{int64(20123456789), "WEB"},
		{"", ""},
		{"10456789012", "TIENDA"},
	})

	tb, err := Cargar(ruta)
	require.NoError(t, err)
	want := &models.Tabla{
		Columnas: []string{"RUC", "CANAL"},
		Filas: [][]string{
			{"20123456789", "WEB"},
			{"10456789012", "TIENDA"},
		},
	}
	if diff := cmp.Diff(want, tb); diff != "" {
		t.Errorf("Cargar mismatch (-want +got):\n%s", diff)
	}
}

func TestCargarCSVConBOM(t *testing.T) {
	ruta := filepath.Join(t.TempDir(), "clientes.csv")
	contenido := "\ufeffRuc,Adm SAC\n20123456789,LIDER1\n,\n10456789012,\n"
	require.NoError(t, os.WriteFile(ruta, []byte(contenido), 0644))

	tb, err := Cargar(ruta)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ruc", "Adm SAC"}, tb.Columnas)
	assert.Equal(t, [][]string{{"20123456789", "LIDER1"}, {"10456789012", ""}}, tb.Filas)
}

func TestCargarFormatoNoSoportado(t *testing.T) {
	_, err := Cargar("clientes.ods")
	assert.True(t, errors.Is(err, ErrFormatoNoSoportado))
}

func TestCargarOpcional(t *testing.T) {
	log := zap.NewNop()
	assert.Nil(t, CargarOpcional("", "Buzon EPS", log))
	assert.Nil(t, CargarOpcional(filepath.Join(t.TempDir(), "no-existe.xlsx"), "Buzon EPS", log))
	assert.Nil(t, CargarOpcional(t.TempDir(), "Buzon EPS", log))

	ruta := filepath.Join(t.TempDir(), "roto.xlsx")
	require.NoError(t, os.WriteFile(ruta, []byte("no es un excel"), 0644))
	assert.Nil(t, CargarOpcional(ruta, "Buzon EPS", nil))
}

func TestAbrirCSV(t *testing.T) {
	tb, err := Abrir(strings.NewReader("RUC\n20123456789\n"), "buzon.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"20123456789"}, tb.ValoresLimpios("RUC"))
}
