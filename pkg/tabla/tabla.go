// Package tabla carga las hojas de entrada (Buzón EPS, Clientes Activos) en
// tablas de texto en memoria.
package tabla

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/validador-leads-sunat/pkg/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ErrFormatoNoSoportado se devuelve para extensiones distintas de xlsx/xlsm/csv
var ErrFormatoNoSoportado = errors.New("formato de archivo no soportado")

// Cargar lee la primera hoja de un Excel o un CSV. Todas las celdas se
// tratan como texto y la primera fila es la cabecera.
func Cargar(ruta string) (*models.Tabla, error) {
	if !soportado(ruta) {
		return nil, fmt.Errorf("%s: %w", ruta, ErrFormatoNoSoportado)
	}
	file, err := os.Open(ruta)
	if err != nil {
		return nil, fmt.Errorf("error abriendo %s: %w", ruta, err)
	}
	defer file.Close()
	return Abrir(file, ruta)
}

func soportado(nombre string) bool {
	switch strings.ToLower(filepath.Ext(nombre)) {
	case ".xlsx", ".xlsm", ".csv":
		return true
	}
	return false
}

// CargarOpcional carga la tabla si la ruta existe. Cualquier problema se
// registra como advertencia y devuelve nil: quien llama usa los valores por
// defecto de cada campo.
func CargarOpcional(ruta, nombre string, log *zap.Logger) *models.Tabla {
	if log == nil {
		log = zap.NewNop()
	}
	if ruta == "" {
		return nil
	}
	if info, err := os.Stat(ruta); err != nil || info.IsDir() {
		log.Warn("Archivo no disponible", zap.String("archivo", nombre), zap.String("ruta", ruta))
		return nil
	}
	t, err := Cargar(ruta)
	if err != nil {
		log.Warn("No se pudo leer el archivo", zap.String("archivo", nombre), zap.Error(err))
		return nil
	}
	return t
}

// Abrir lee una tabla desde un lector, eligiendo el formato por la extensión
// del nombre indicado.
func Abrir(r io.Reader, nombre string) (*models.Tabla, error) {
	switch strings.ToLower(filepath.Ext(nombre)) {
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("error abriendo %s: %w", nombre, err)
		}
		defer f.Close()
		return desdeExcel(f)
	case ".csv":
		return desdeCSV(r)
	default:
		return nil, fmt.Errorf("%s: %w", nombre, ErrFormatoNoSoportado)
	}
}

func desdeExcel(f *excelize.File) (*models.Tabla, error) {
	hojas := f.GetSheetList()
	if len(hojas) == 0 {
		return &models.Tabla{}, nil
	}
	filas, err := f.GetRows(hojas[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("error leyendo hoja %s: %w", hojas[0], err)
	}
	return armar(filas), nil
}

func desdeCSV(r io.Reader) (*models.Tabla, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var filas [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error leyendo csv: %w", err)
		}
		filas = append(filas, record)
	}
	if len(filas) > 0 && len(filas[0]) > 0 {
		filas[0][0] = strings.TrimPrefix(filas[0][0], "\ufeff")
	}
	return armar(filas), nil
}

func armar(filas [][]string) *models.Tabla {
	t := &models.Tabla{}
	if len(filas) == 0 {
		return t
	}
	t.Columnas = filas[0]
	for _, f := range filas[1:] {
		if filaVacia(f) {
			continue
		}
		t.Filas = append(t.Filas, f)
	}
	return t
}

func filaVacia(f []string) bool {
	for _, c := range f {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
