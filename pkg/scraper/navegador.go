package scraper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/validador-leads-sunat/pkg/metrics"
	"github.com/validador-leads-sunat/pkg/parser"
	"go.uber.org/zap"
)

// ErrConsultaFallida indica que se agotaron los intentos para un RUC
var ErrConsultaFallida = errors.New("consulta RUC fallida")

// Consultor obtiene las páginas de un RUC y las deja en la carpeta de
// páginas bajo directorioBase. Devuelve true si se guardó la ficha principal.
type Consultor interface {
	ConsultarYGuardar(ctx context.Context, ruc, directorioBase string) (bool, error)
}

// Navegador es el Consultor que usa la página de SUNAT. La sesión del
// navegador se abre en la primera consulta y se reutiliza hasta Close.
type Navegador struct {
	cfg    Config
	log    *zap.Logger
	humano *comportamiento

	mu     sync.Mutex
	sesion *Sesion
}

// NuevoNavegador prepara el consultor sin lanzar todavía el navegador
func NuevoNavegador(cfg Config, log *zap.Logger) *Navegador {
	if log == nil {
		log = zap.NewNop()
	}
	n := &Navegador{cfg: cfg.conDefaults(), log: log}
	if n.cfg.Humano {
		n.humano = nuevoComportamiento(time.Now().UnixNano(), log)
	}
	return n
}

func (n *Navegador) adquirir(ctx context.Context) (*Sesion, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sesion != nil {
		return n.sesion, nil
	}
	s, err := NuevaSesion(ctx, n.cfg, n.log)
	if err != nil {
		return nil, err
	}
	n.sesion = s
	return s, nil
}

// Close libera el navegador si llegó a abrirse
func (n *Navegador) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sesion.Close()
	n.sesion = nil
}

// ConsultarYGuardar busca el RUC y guarda la ficha principal y, si está
// disponible, la página de cantidad de trabajadores.
func (n *Navegador) ConsultarYGuardar(ctx context.Context, ruc, directorioBase string) (bool, error) {
	s, err := n.adquirir(ctx)
	if err != nil {
		return false, err
	}
	n.log.Info("Consultando RUC", zap.String("ruc", ruc))

	err = reintentar(ctx, n.cfg.MaxIntentos, n.cfg.PausaReintento, n.log, func(intento int) error {
		return n.consultar(ctx, s.page, ruc, directorioBase)
	})
	if err != nil {
		metrics.Consultas.WithLabelValues("fallida").Inc()
		n.log.Error("Se superaron los intentos para el RUC", zap.String("ruc", ruc), zap.Int("intentos", n.cfg.MaxIntentos))
		return false, fmt.Errorf("%s: %w", ruc, err)
	}
	metrics.Consultas.WithLabelValues("ok").Inc()
	return true, nil
}

func (n *Navegador) consultar(ctx context.Context, page *rod.Page, ruc, directorioBase string) error {
	p := page.Context(ctx).Timeout(n.cfg.TimeoutPagina)

	if err := p.Navigate(n.cfg.URL); err != nil {
		return fmt.Errorf("error navegando: %w", err)
	}
	if err := p.WaitDOMStable(300*time.Millisecond, 0); err != nil {
		n.log.Debug("La página no terminó de estabilizarse", zap.Error(err))
	}

	campo, err := p.Element("#txtRuc")
	if err != nil {
		return fmt.Errorf("no se encontró el campo RUC: %w", err)
	}
	if n.humano != nil {
		err = n.humano.escribir(campo, ruc)
	} else {
		err = campo.Input(ruc)
	}
	if err != nil {
		return fmt.Errorf("error ingresando RUC: %w", err)
	}

	boton, err := p.Element("#btnAceptar")
	if err != nil {
		return fmt.Errorf("no se encontró el botón buscar: %w", err)
	}
	if err := n.clic(p, boton); err != nil {
		return fmt.Errorf("error haciendo clic en buscar: %w", err)
	}

	if _, err := p.Element("div.list-group"); err != nil {
		return fmt.Errorf("no cargó la ficha del RUC: %w", err)
	}
	principal, err := p.HTML()
	if err != nil {
		return fmt.Errorf("error leyendo la ficha: %w", err)
	}
	if err := GuardarHTML(ruc, principal, directorioBase, n.cfg.Carpeta, parser.SufijoPrincipal, n.log); err != nil {
		n.log.Warn("No se pudo guardar el HTML", zap.String("ruc", ruc), zap.Error(err))
	}

	// La página de trabajadores es opcional: su falla no invalida la consulta
	if err := n.trabajadores(p, ruc, directorioBase); err != nil {
		n.log.Warn("No se obtuvo la cantidad de trabajadores", zap.String("ruc", ruc), zap.Error(err))
	}
	return nil
}

func (n *Navegador) trabajadores(p *rod.Page, ruc, directorioBase string) error {
	n.log.Debug("Buscando botón de Cantidad de Trabajadores")
	boton, err := p.ElementR("button", "Cantidad de Trabajadores")
	if err != nil {
		return fmt.Errorf("no se encontró el botón: %w", err)
	}
	if err := n.clic(p, boton); err != nil {
		return err
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("la página de trabajadores no cargó: %w", err)
	}
	if err := p.WaitIdle(30 * time.Second); err != nil {
		n.log.Debug("La página de trabajadores siguió con actividad", zap.Error(err))
	}
	contenido, err := p.HTML()
	if err != nil {
		return err
	}
	if err := GuardarHTML(ruc, contenido, directorioBase, n.cfg.Carpeta, parser.SufijoTrabajadores, n.log); err != nil {
		return err
	}
	return p.NavigateBack()
}

func (n *Navegador) clic(p *rod.Page, el *rod.Element) error {
	if n.humano != nil {
		return n.humano.clic(p, el)
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

// reintentar ejecuta fn hasta que no devuelva error o se agoten los intentos,
// esperando pausa entre uno y otro.
func reintentar(ctx context.Context, intentos int, pausa time.Duration, log *zap.Logger, fn func(intento int) error) error {
	if intentos <= 0 {
		intentos = 1
	}
	var ultimo error
	for i := 1; i <= intentos; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		ultimo = fn(i)
		if ultimo == nil {
			return nil
		}
		log.Warn("Falló el intento", zap.Int("intento", i), zap.Error(ultimo))
		if i == intentos {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pausa):
		}
	}
	return fmt.Errorf("%w tras %d intentos: %v", ErrConsultaFallida, intentos, ultimo)
}
