package world

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics — счётчики Prometheus подсистемы мира. Используется собственный
// регистр, а не глобальный, чтобы несколько миров (в том числе в тестах)
// не конфликтовали при регистрации.
type Metrics struct {
	registry *prometheus.Registry

	activeChunks  prometheus.Gauge
	lightingQueue prometheus.Gauge

	activations     prometheus.Counter
	deactivations   prometheus.Counter
	lightingRecalcs prometheus.Counter
	meshRebuilds    prometheus.Counter
}

// NewMetrics создаёт и регистрирует метрики мира
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		activeChunks: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "world_active_chunks",
			Help: "Количество активных чанков",
		}),
		lightingQueue: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "world_lighting_queue_length",
			Help: "Длина очереди пересчёта освещения на конец тика",
		}),
		activations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "world_chunk_activations_total",
			Help: "Всего активаций чанков",
		}),
		deactivations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "world_chunk_deactivations_total",
			Help: "Всего деактиваций чанков",
		}),
		lightingRecalcs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "world_lighting_recalcs_total",
			Help: "Всего пересчётов освещения отдельных блоков",
		}),
		meshRebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "world_mesh_rebuilds_total",
			Help: "Всего перестроек мешей чанков",
		}),
	}

	m.registry.MustRegister(
		m.activeChunks,
		m.lightingQueue,
		m.activations,
		m.deactivations,
		m.lightingRecalcs,
		m.meshRebuilds,
	)

	return m
}

// Handler возвращает HTTP-обработчик для /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
