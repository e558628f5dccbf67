// Package scraper consulta el padrón RUC de SUNAT con un navegador
// controlado por go-rod y guarda las páginas para su procesamiento.
package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/validador-leads-sunat/pkg/utils"
	"go.uber.org/zap"
)

// URLConsulta es la página de búsqueda por RUC
const URLConsulta = "https://e-consultaruc.sunat.gob.pe/cl-ti-itmrconsruc/jcrS00Alias"

const userAgentPorDefecto = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.2210.91"

// Config controla el navegador y los reintentos
type Config struct {
	URL            string
	Headless       bool
	MaxIntentos    int
	PausaReintento time.Duration
	TimeoutPagina  time.Duration
	ArchivoProxies string
	UserAgent      string
	// Carpeta de páginas bajo el directorio base; vacía es CarpetaHTML
	Carpeta string
	// Simula escritura y clics de una persona
	Humano bool
}

// DefaultConfig devuelve la configuración usada por la herramienta
func DefaultConfig() Config {
	return Config{
		URL:            URLConsulta,
		Headless:       true,
		MaxIntentos:    3,
		PausaReintento: 3 * time.Second,
		TimeoutPagina:  45 * time.Second,
		UserAgent:      userAgentPorDefecto,
		Carpeta:        CarpetaHTML,
	}
}

func (c Config) conDefaults() Config {
	d := DefaultConfig()
	if c.URL == "" {
		c.URL = d.URL
	}
	if c.MaxIntentos <= 0 {
		c.MaxIntentos = d.MaxIntentos
	}
	if c.PausaReintento < 0 {
		c.PausaReintento = 0
	}
	if c.TimeoutPagina <= 0 {
		c.TimeoutPagina = d.TimeoutPagina
	}
	if c.Carpeta == "" {
		c.Carpeta = d.Carpeta
	}
	if c.UserAgent == "" {
		c.UserAgent = d.UserAgent
	}
	return c
}

// Sesion es el navegador y la pestaña de trabajo. Se abre con NuevaSesion y
// se libera con Close.
type Sesion struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	log      *zap.Logger
}

// NuevaSesion lanza el navegador. Si hay archivo de proxies se usa uno al azar.
func NuevaSesion(ctx context.Context, cfg Config, log *zap.Logger) (*Sesion, error) {
	if log == nil {
		log = zap.NewNop()
	}
	cfg = cfg.conDefaults()

	l := launcher.New().Context(ctx).Headless(cfg.Headless)
	if cfg.ArchivoProxies != "" {
		proxy, err := utils.GetRandomProxyFromFile(cfg.ArchivoProxies)
		if err != nil {
			log.Warn("No se pudo usar proxy, se continúa sin proxy", zap.Error(err))
		} else {
			l = l.Proxy(proxy)
			log.Info("Usando proxy", zap.String("proxy", proxy))
		}
	}

	log.Info("Lanzando navegador", zap.Bool("headless", cfg.Headless))
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("error lanzando navegador: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("error conectando con el navegador: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		browser.Close()
		l.Kill()
		return nil, fmt.Errorf("error abriendo pestaña: %w", err)
	}
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: cfg.UserAgent}); err != nil {
		log.Warn("No se pudo fijar el user agent", zap.Error(err))
	}

	log.Info("Navegador listo")
	return &Sesion{launcher: l, browser: browser, page: page, log: log}, nil
}

// Close cierra la pestaña y el navegador
func (s *Sesion) Close() {
	if s == nil {
		return
	}
	if s.page != nil {
		s.page.Close()
	}
	if s.browser != nil {
		s.browser.Close()
	}
	if s.launcher != nil {
		s.launcher.Kill()
	}
	s.log.Info("Navegador cerrado")
}
