package scraper

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ProcesarLote consulta los RUCs uno tras otro, con al menos pausa entre
// consultas, y devuelve los que se guardaron correctamente en el orden de
// entrada. Se detiene si ctx se cancela.
func ProcesarLote(ctx context.Context, rucs []string, c Consultor, directorioBase string, pausa time.Duration, log *zap.Logger) []string {
	if log == nil {
		log = zap.NewNop()
	}
	limite := rate.Inf
	if pausa > 0 {
		limite = rate.Every(pausa)
	}
	limitador := rate.NewLimiter(limite, 1)

	exitosos := []string{}
	total := len(rucs)
	for i, ruc := range rucs {
		if err := limitador.Wait(ctx); err != nil {
			log.Warn("Procesamiento interrumpido", zap.Int("procesados", i), zap.Error(err))
			break
		}
		log.Info("Procesando RUC", zap.String("progreso", progreso(i+1, total)), zap.String("ruc", ruc))

		ok, err := c.ConsultarYGuardar(ctx, ruc, directorioBase)
		if err != nil {
			log.Warn("No se pudo consultar el RUC", zap.String("ruc", ruc), zap.Error(err))
		}
		if ok {
			exitosos = append(exitosos, ruc)
		}
	}

	log.Info("Consultas terminadas", zap.Int("exitosos", len(exitosos)), zap.Int("total", total))
	return exitosos
}

func progreso(i, total int) string {
	return fmt.Sprintf("[%d/%d]", i, total)
}
