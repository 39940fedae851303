package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Engine — счетчики движка конфликтов. Nil-приемник допустим: агент и
// юнит-тесты работают без метрик.
type Engine struct {
	detected prometheus.Counter
	resolved *prometheus.CounterVec
	ignored  prometheus.Counter
	purged   prometheus.Counter
}

func New(reg prometheus.Registerer) *Engine {
	factory := promauto.With(reg)
	return &Engine{
		detected: factory.NewCounter(prometheus.CounterOpts{
			Name: "storesync_conflicts_detected_total",
			Help: "Conflicts persisted by the differ.",
		}),
		resolved: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "storesync_conflicts_resolved_total",
			Help: "Conflicts resolved, by resolution type.",
		}, []string{"resolution_type"}),
		ignored: factory.NewCounter(prometheus.CounterOpts{
			Name: "storesync_conflicts_ignored_total",
			Help: "Conflicts transitioned to ignored.",
		}),
		purged: factory.NewCounter(prometheus.CounterOpts{
			Name: "storesync_conflicts_purged_total",
			Help: "Terminal conflicts physically removed by retention sweeps.",
		}),
	}
}

func (e *Engine) IncDetected() {
	if e == nil {
		return
	}
	e.detected.Inc()
}

func (e *Engine) IncResolved(resolutionType string) {
	if e == nil {
		return
	}
	e.resolved.WithLabelValues(resolutionType).Inc()
}

func (e *Engine) IncIgnored() {
	if e == nil {
		return
	}
	e.ignored.Inc()
}

func (e *Engine) AddPurged(n int) {
	if e == nil || n <= 0 {
		return
	}
	e.purged.Add(float64(n))
}
