// Package config carga la configuración del validador desde YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/validador-leads-sunat/pkg/models"
	"github.com/validador-leads-sunat/pkg/scraper"
	"gopkg.in/yaml.v3"
)

// ArchivoPorDefecto es el archivo que se busca si no se indica otro
const ArchivoPorDefecto = "validador.yaml"

// Config reúne todo lo configurable de una corrida
type Config struct {
	CarpetaHTML string               `yaml:"carpeta_html"`
	Scraper     ScraperConfig        `yaml:"scraper"`
	Columnas    models.AliasColumnas `yaml:"columnas"`
	DatabaseURL string               `yaml:"database_url"`
	MetricsAddr string               `yaml:"metrics_addr"`
}

// ScraperConfig controla la consulta a SUNAT
type ScraperConfig struct {
	URL            string        `yaml:"url"`
	Headless       bool          `yaml:"headless"`
	Humano         bool          `yaml:"humano"`
	MaxIntentos    int           `yaml:"max_intentos"`
	PausaReintento time.Duration `yaml:"pausa_reintento"`
	PausaEntreRUCs time.Duration `yaml:"pausa_entre_rucs"`
	TimeoutPagina  time.Duration `yaml:"timeout_pagina"`
	ArchivoProxies string        `yaml:"archivo_proxies"`
}

// DefaultConfig devuelve la configuración por defecto
func DefaultConfig() *Config {
	return &Config{
		CarpetaHTML: scraper.CarpetaHTML,
		Scraper: ScraperConfig{
			URL:            scraper.URLConsulta,
			Headless:       true,
			MaxIntentos:    3,
			PausaReintento: 3 * time.Second,
			PausaEntreRUCs: time.Second,
			TimeoutPagina:  45 * time.Second,
		},
		Columnas: models.DefaultAliasColumnas(),
	}
}

// Load lee la configuración de path. Si el archivo no existe se usan los
// valores por defecto. Las variables de entorno se aplican al final.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error leyendo configuración: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error interpretando configuración: %w", err)
	}

	cfg.Columnas = cfg.Columnas.ConDefaults()
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save guarda la configuración en YAML
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creando carpeta de configuración: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("error serializando configuración: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error guardando configuración: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("VALIDADOR_DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("VALIDADOR_PROXIES"); v != "" {
		c.Scraper.ArchivoProxies = v
	}
	if v := os.Getenv("VALIDADOR_HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("VALIDADOR_HEADLESS inválido %q: %w", v, err)
		}
		c.Scraper.Headless = b
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		c.MetricsAddr = v
	}
	return nil
}

// Validate rechaza valores que harían fallar la corrida a mitad de camino
func (c *Config) Validate() error {
	var errs []error
	if c.CarpetaHTML == "" {
		errs = append(errs, errors.New("carpeta_html no puede estar vacía"))
	}
	if c.Scraper.MaxIntentos < 1 {
		errs = append(errs, fmt.Errorf("scraper.max_intentos debe ser al menos 1, es %d", c.Scraper.MaxIntentos))
	}
	if c.Scraper.PausaReintento < 0 {
		errs = append(errs, errors.New("scraper.pausa_reintento no puede ser negativa"))
	}
	if c.Scraper.PausaEntreRUCs < 0 {
		errs = append(errs, errors.New("scraper.pausa_entre_rucs no puede ser negativa"))
	}
	if c.Scraper.TimeoutPagina <= 0 {
		errs = append(errs, errors.New("scraper.timeout_pagina debe ser positivo"))
	}
	return errors.Join(errs...)
}

// ConfigNavegador convierte la sección scraper a la configuración del navegador
func (c *Config) ConfigNavegador() scraper.Config {
	return scraper.Config{
		URL:            c.Scraper.URL,
		Headless:       c.Scraper.Headless,
		MaxIntentos:    c.Scraper.MaxIntentos,
		PausaReintento: c.Scraper.PausaReintento,
		TimeoutPagina:  c.Scraper.TimeoutPagina,
		ArchivoProxies: c.Scraper.ArchivoProxies,
		Humano:         c.Scraper.Humano,
		Carpeta:        c.CarpetaHTML,
	}
}
