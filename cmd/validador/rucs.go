package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/validador-leads-sunat/pkg/utils"
)

// leerRUCsDeArchivo lee un RUC por línea. Se ignoran líneas vacías y
// comentarios; de cada línea se conservan solo los dígitos.
func leerRUCsDeArchivo(filename string) ([]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("error abriendo archivo de RUCs: %w", err)
	}
	defer file.Close()

	var rucs []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		linea := strings.TrimSpace(scanner.Text())
		if linea == "" || strings.HasPrefix(linea, "#") {
			continue
		}
		if ruc := utils.LimpiarRUC(linea); ruc != "" {
			rucs = append(rucs, ruc)
		}
	}
	return rucs, scanner.Err()
}

// escribirRUCs guarda la lista, un RUC por línea
func escribirRUCs(filename string, rucs []string) error {
	contenido := strings.Join(rucs, "\n")
	if len(rucs) > 0 {
		contenido += "\n"
	}
	if err := os.WriteFile(filename, []byte(contenido), 0644); err != nil {
		return fmt.Errorf("error guardando lista de RUCs: %w", err)
	}
	return nil
}

func contarPorPrefijo(rucs []string, prefijo string) int {
	count := 0
	for _, ruc := range rucs {
		if strings.HasPrefix(ruc, prefijo) {
			count++
		}
	}
	return count
}
