package reporte

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/validador-leads-sunat/pkg/models"
	"github.com/xuri/excelize/v2"
)

// Escribir guarda las hojas en un libro xlsx, en el orden recibido. El libro
// se arma completo en memoria y se escribe en un archivo temporal de la misma
// carpeta que luego reemplaza a ruta.
func Escribir(ruta string, hojas []models.Hoja) error {
	if len(hojas) == 0 {
		return fmt.Errorf("no hay hojas para escribir en %s", ruta)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, h := range hojas {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), h.Nombre); err != nil {
				return fmt.Errorf("error nombrando hoja %s: %w", h.Nombre, err)
			}
		} else if _, err := f.NewSheet(h.Nombre); err != nil {
			return fmt.Errorf("error creando hoja %s: %w", h.Nombre, err)
		}
		if err := escribirHoja(f, h); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	dir := filepath.Dir(ruta)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creando carpeta de salida: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".validacion-*.xlsx")
	if err != nil {
		return fmt.Errorf("error creando archivo temporal: %w", err)
	}
	nombreTmp := tmp.Name()
	defer os.Remove(nombreTmp)

	if err := f.Write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("error escribiendo el reporte: %w", err)
	}
	// CreateTemp crea el archivo con 0600
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("error fijando permisos del reporte: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error cerrando el reporte: %w", err)
	}
	if err := os.Rename(nombreTmp, ruta); err != nil {
		return fmt.Errorf("error guardando %s: %w", ruta, err)
	}
	return nil
}

func escribirHoja(f *excelize.File, h models.Hoja) error {
	for j, col := range h.Columnas {
		celda, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(h.Nombre, celda, col); err != nil {
			return fmt.Errorf("error escribiendo cabecera de %s: %w", h.Nombre, err)
		}
	}
	for i, fila := range h.Filas {
		for j, v := range fila {
			// Celda nula: se deja vacía
			if v == nil {
				continue
			}
			celda, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(h.Nombre, celda, v); err != nil {
				return fmt.Errorf("error escribiendo %s!%s: %w", h.Nombre, celda, err)
			}
		}
	}
	return nil
}
