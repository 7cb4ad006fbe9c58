package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "broadcaster"

// Metrics - счётчики рассылки. Регистрируются в переданном registry,
// чтобы тесты могли создавать свой экземпляр.
type Metrics struct {
	deliveries   *prometheus.CounterVec
	cycles       prometheus.Counter
	loopRunning  prometheus.Gauge
	destinations prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		deliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "delivery",
				Name:      "attempts_total",
				Help:      "Delivery attempts by result",
			},
			[]string{"result"},
		),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "loop",
			Name:      "cycles_total",
			Help:      "Completed send cycles",
		}),
		loopRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "loop",
			Name:      "running",
			Help:      "1 while the send loop is active",
		}),
		destinations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "destinations",
			Help:      "Destinations in the last cycle snapshot",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.deliveries, m.cycles, m.loopRunning, m.destinations)
	}
	return m
}

func (m *Metrics) DeliveryOK() {
	if m == nil {
		return
	}
	m.deliveries.WithLabelValues("ok").Inc()
}

func (m *Metrics) DeliveryFailed() {
	if m == nil {
		return
	}
	m.deliveries.WithLabelValues("error").Inc()
}

// CycleDone фиксирует завершённый проход и размер снимка получателей.
func (m *Metrics) CycleDone(destinations int) {
	if m == nil {
		return
	}
	m.cycles.Inc()
	m.destinations.Set(float64(destinations))
}

func (m *Metrics) LoopRunning(running bool) {
	if m == nil {
		return
	}
	if running {
		m.loopRunning.Set(1)
		return
	}
	m.loopRunning.Set(0)
}

// Deliveries - счётчик попыток доставки с результатом ok/error
func (m *Metrics) Deliveries(result string) prometheus.Counter {
	if m == nil {
		return nil
	}
	return m.deliveries.WithLabelValues(result)
}
