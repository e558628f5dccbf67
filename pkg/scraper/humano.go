package scraper

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// comportamiento imita el ritmo de una persona que teclea RUCs: demoras
// variables, fatiga acumulada y descansos cada cierto número de acciones.
type comportamiento struct {
	inicio          time.Time
	acciones        int
	fatiga          float64
	ultimaAccion    time.Time
	velocidadTecleo float64 // caracteres por minuto
	rnd             *rand.Rand
	dormir          func(time.Duration)
	log             *zap.Logger
}

func nuevoComportamiento(semilla int64, log *zap.Logger) *comportamiento {
	rnd := rand.New(rand.NewSource(semilla))
	return &comportamiento{
		inicio:          time.Now(),
		velocidadTecleo: 180 + rnd.Float64()*120,
		rnd:             rnd,
		dormir:          time.Sleep,
		log:             log,
	}
}

func (h *comportamiento) actualizarFatiga() {
	h.acciones++
	minutos := time.Since(h.inicio).Minutes()
	h.fatiga = math.Min(1.0, float64(h.acciones)*0.002+minutos*0.01)
}

func (h *comportamiento) tocaDescanso() bool {
	if h.acciones > 0 && h.acciones%15 == 0 {
		return true
	}
	if h.fatiga > 0.7 && h.rnd.Float64() < 0.3 {
		return true
	}
	return time.Since(h.ultimaAccion) < 500*time.Millisecond && h.rnd.Float64() < 0.1
}

func (h *comportamiento) descansar() {
	var d time.Duration
	switch h.rnd.Intn(3) {
	case 0:
		d = h.demora(800, 300)
	case 1:
		d = h.demora(2000, 800)
	default:
		d = h.demora(5000, 2000)
		h.fatiga *= 0.7
	}
	h.log.Debug("Pausa", zap.Duration("duracion", d))
	h.dormir(d)
}

// demora devuelve una duración alrededor de mediaMs, acotada a [20ms, 2s]
// y algo más larga con la fatiga.
func (h *comportamiento) demora(mediaMs, desvioMs float64) time.Duration {
	r := mediaMs + desvioMs*h.rnd.NormFloat64()
	r *= 1.0 + h.fatiga*0.1
	if r < 20 {
		r = 20
	}
	if r > 2000 {
		r = 2000
	}
	return time.Duration(r) * time.Millisecond
}

// escribir vacía el campo y teclea el texto carácter por carácter
func (h *comportamiento) escribir(el *rod.Element, texto string) error {
	if err := el.SelectAllText(); err == nil {
		if err := el.Input(""); err != nil {
			return fmt.Errorf("error limpiando campo: %w", err)
		}
	}
	h.dormir(h.demora(400, 200))

	porCaracter := 60000.0 / (h.velocidadTecleo * (1.0 - h.fatiga*0.3))
	for _, c := range texto {
		if err := el.Input(string(c)); err != nil {
			return fmt.Errorf("error escribiendo carácter: %w", err)
		}
		if h.rnd.Float64() < 0.15 {
			h.dormir(h.demora(800, 400))
		}
		h.dormir(h.demora(porCaracter*0.8, porCaracter*0.24))
	}
	h.ultimaAccion = time.Now()
	return nil
}

// clic mueve el mouse hasta el centro del elemento y hace clic. Si el mouse
// falla se usa el clic del elemento.
func (h *comportamiento) clic(page *rod.Page, el *rod.Element) error {
	h.actualizarFatiga()
	if h.tocaDescanso() {
		h.descansar()
	}
	h.dormir(h.demora(200, 80))

	if err := el.ScrollIntoView(); err != nil {
		h.log.Debug("No se pudo hacer scroll al elemento", zap.Error(err))
	}

	forma, err := el.Shape()
	if err != nil || len(forma.Quads) == 0 || len(forma.Quads[0]) < 8 {
		return el.Click(proto.InputMouseButtonLeft, 1)
	}
	q := forma.Quads[0]
	x := (q[0]+q[2]+q[4]+q[6])/4 + (h.rnd.Float64()-0.5)*(5.0+h.fatiga*3.0)
	y := (q[1]+q[3]+q[5]+q[7])/4 + (h.rnd.Float64()-0.5)*(5.0+h.fatiga*3.0)

	if err := page.Mouse.MoveTo(proto.Point{X: x, Y: y}); err != nil {
		return el.Click(proto.InputMouseButtonLeft, 1)
	}
	h.dormir(time.Duration(100+h.rnd.Intn(100)) * time.Millisecond)
	if err := page.Mouse.Click(proto.InputMouseButtonLeft, 1); err != nil {
		h.log.Debug("Clic de mouse falló, usando clic del elemento", zap.Error(err))
		if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			return fmt.Errorf("error haciendo clic: %w", err)
		}
	}
	h.ultimaAccion = time.Now()
	return nil
}
