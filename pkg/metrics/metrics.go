// Package metrics expone los contadores Prometheus del validador.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ArchivosHTML = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "validador_leads",
		Name:      "archivos_html_total",
		Help:      "Páginas guardadas leídas, por tipo de página (principal, trabajadores).",
	}, []string{"tipo"})
	LeadsNuevos = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "validador_leads",
		Name:      "leads_nuevos",
		Help:      "Cantidad de RUCs de la última lista de leads nuevos.",
	})
	Consultas = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "validador_leads",
		Name:      "consultas_total",
		Help:      "Consultas a SUNAT por estado (ok, fallida).",
	}, []string{"estado"})
	Resultados = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "validador_leads",
		Name:      "resultados_total",
		Help:      "Filas de validación emitidas, por RESULTADO.",
	}, []string{"resultado"})
	AdvertenciasCampo = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "validador_leads",
		Name:      "advertencias_total",
		Help:      "Campos que quedaron con su valor por defecto durante la conciliación.",
	}, []string{"campo"})
)

// Init registra los colectores; se llama una sola vez desde main.
func Init() {
	prometheus.MustRegister(ArchivosHTML, LeadsNuevos, Consultas, Resultados, AdvertenciasCampo)
}

// Serve atiende /metrics en addr (ej. ":9090"). Bloquea; corre en una goroutine.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
