package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeerRUCsDeArchivo(t *testing.T) {
	ruta := filepath.Join(t.TempDir(), "rucs.txt")
	contenido := "# lista de prueba\n20111111111\n\n  10222222222  \n20-333-333-333\nsin digitos\n"
	require.NoError(t, os.WriteFile(ruta, []byte(contenido), 0644))

	rucs, err := leerRUCsDeArchivo(ruta)
	require.NoError(t, err)
	assert.Equal(t, []string{"20111111111", "10222222222", "20333333333"}, rucs)
}

func TestLeerRUCsDeArchivoInexistente(t *testing.T) {
	_, err := leerRUCsDeArchivo(filepath.Join(t.TempDir(), "no-existe.txt"))
	assert.Error(t, err)
}

func TestEscribirYLeerRUCs(t *testing.T) {
	ruta := filepath.Join(t.TempDir(), "nuevos.txt")
	rucs := []string{"20111111111", "20222222222"}
	require.NoError(t, escribirRUCs(ruta, rucs))

	data, err := os.ReadFile(ruta)
	require.NoError(t, err)
	assert.Equal(t, "20111111111\n20222222222\n", string(data))

	leidos, err := leerRUCsDeArchivo(ruta)
	require.NoError(t, err)
	assert.Equal(t, rucs, leidos)
}

func TestEscribirRUCsVacio(t *testing.T) {
	ruta := filepath.Join(t.TempDir(), "vacio.txt")
	require.NoError(t, escribirRUCs(ruta, nil))
	data, err := os.ReadFile(ruta)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestContarPorPrefijo(t *testing.T) {
	rucs := []string{"20111111111", "10222222222", "20333333333", "15444444444"}
	assert.Equal(t, 2, contarPorPrefijo(rucs, "20"))
	assert.Equal(t, 1, contarPorPrefijo(rucs, "10"))
	assert.Equal(t, 0, contarPorPrefijo(nil, "20"))
}
