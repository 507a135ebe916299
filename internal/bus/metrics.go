package bus

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks per-failure-kind counters for the bus so operators
// can detect elevated drop rates that the swallow-and-log error policy
// would otherwise hide.
type Metrics struct {
	mu sync.RWMutex

	topicCounts map[string]*TopicMetrics

	publishedTotal  *prometheus.CounterVec
	publishFailures *prometheus.CounterVec
	dispatchedTotal *prometheus.CounterVec
	decodeFailures  *prometheus.CounterVec
	handlerFailures *prometheus.CounterVec
	droppedTotal    *prometheus.CounterVec
	handlerSeconds  *prometheus.HistogramVec

	registerer prometheus.Registerer
	registered bool
}

// TopicMetrics holds counters for a single channel.
type TopicMetrics struct {
	Published       uint64    `json:"published"`
	PublishFailures uint64    `json:"publish_failures"`
	Dispatched      uint64    `json:"dispatched"`
	DecodeFailures  uint64    `json:"decode_failures"`
	HandlerFailures uint64    `json:"handler_failures"`
	Dropped         uint64    `json:"dropped"`
	LastUpdatedAt   time.Time `json:"last_updated_at"`
}

// MetricsSnapshot provides a point-in-time view of the bus metrics.
type MetricsSnapshot struct {
	TotalPublished       uint64                   `json:"total_published"`
	TotalDispatched      uint64                   `json:"total_dispatched"`
	TotalPublishFailures uint64                   `json:"total_publish_failures"`
	TotalDecodeFailures  uint64                   `json:"total_decode_failures"`
	TotalHandlerFailures uint64                   `json:"total_handler_failures"`
	TotalDropped         uint64                   `json:"total_dropped"`
	TopicMetrics         map[string]*TopicMetrics `json:"topic_metrics"`
	CollectedAt          time.Time                `json:"collected_at"`
}

func newBusCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eventbridge",
			Subsystem: "bus",
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

func newBusHistogramVec(name, help string, buckets []float64, labels []string) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "eventbridge",
			Subsystem: "bus",
			Name:      name,
			Help:      help,
			Buckets:   buckets,
		},
		labels,
	)
}

// NewMetrics creates a new bus metrics collector. A nil registerer
// uses the Prometheus default.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &Metrics{
		topicCounts:     make(map[string]*TopicMetrics),
		registerer:      registerer,
		publishedTotal:  newBusCounterVec("published_total", "Total number of envelopes written to a channel", []string{"channel"}),
		publishFailures: newBusCounterVec("publish_failures_total", "Total number of swallowed channel write failures", []string{"channel"}),
		dispatchedTotal: newBusCounterVec("dispatched_total", "Total number of envelopes dispatched to a handler", []string{"channel"}),
		decodeFailures:  newBusCounterVec("decode_failures_total", "Total number of inbound messages dropped because the envelope failed to decode", []string{"channel"}),
		handlerFailures: newBusCounterVec("handler_failures_total", "Total number of handler invocations that returned an error or panicked", []string{"channel"}),
		droppedTotal:    newBusCounterVec("dropped_total", "Total number of inbound messages silently dropped", []string{"channel", "reason"}),
		handlerSeconds:  newBusHistogramVec("handler_duration_seconds", "Handler execution time", []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10}, []string{"channel"}),
	}
}

// Register registers the Prometheus collectors. Safe to call multiple times.
func (m *Metrics) Register() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.registered {
		return nil
	}

	collectors := []prometheus.Collector{
		m.publishedTotal,
		m.publishFailures,
		m.dispatchedTotal,
		m.decodeFailures,
		m.handlerFailures,
		m.droppedTotal,
		m.handlerSeconds,
	}

	for _, c := range collectors {
		if err := m.registerer.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}

	m.registered = true
	return nil
}

// RecordPublished records a successful channel write.
func (m *Metrics) RecordPublished(channel string) {
	m.publishedTotal.WithLabelValues(channel).Inc()
	m.update(channel, func(t *TopicMetrics) { t.Published++ })
}

// RecordPublishFailure records a swallowed channel write failure.
func (m *Metrics) RecordPublishFailure(channel string) {
	m.publishFailures.WithLabelValues(channel).Inc()
	m.update(channel, func(t *TopicMetrics) { t.PublishFailures++ })
}

// RecordDispatched records a completed handler invocation.
func (m *Metrics) RecordDispatched(channel string, duration time.Duration) {
	m.dispatchedTotal.WithLabelValues(channel).Inc()
	m.handlerSeconds.WithLabelValues(channel).Observe(duration.Seconds())
	m.update(channel, func(t *TopicMetrics) { t.Dispatched++ })
}

// RecordDecodeFailure records an inbound message whose envelope failed
// to decode.
func (m *Metrics) RecordDecodeFailure(channel string) {
	m.decodeFailures.WithLabelValues(channel).Inc()
	m.update(channel, func(t *TopicMetrics) { t.DecodeFailures++ })
}

// RecordHandlerFailure records a handler invocation that returned an
// error or panicked.
func (m *Metrics) RecordHandlerFailure(channel string) {
	m.handlerFailures.WithLabelValues(channel).Inc()
	m.update(channel, func(t *TopicMetrics) { t.HandlerFailures++ })
}

// RecordDropped records an inbound message silently dropped for the
// given reason (e.g. "no_handler").
func (m *Metrics) RecordDropped(channel, reason string) {
	m.droppedTotal.WithLabelValues(channel, reason).Inc()
	m.update(channel, func(t *TopicMetrics) { t.Dropped++ })
}

func (m *Metrics) update(channel string, fn func(*TopicMetrics)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	topic, ok := m.topicCounts[channel]
	if !ok {
		topic = &TopicMetrics{}
		m.topicCounts[channel] = topic
	}
	fn(topic)
	topic.LastUpdatedAt = time.Now()
}

// Snapshot returns a point-in-time copy of the per-channel counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := MetricsSnapshot{
		TopicMetrics: make(map[string]*TopicMetrics, len(m.topicCounts)),
		CollectedAt:  time.Now(),
	}

	for channel, topic := range m.topicCounts {
		copied := *topic
		snapshot.TopicMetrics[channel] = &copied

		snapshot.TotalPublished += topic.Published
		snapshot.TotalPublishFailures += topic.PublishFailures
		snapshot.TotalDispatched += topic.Dispatched
		snapshot.TotalDecodeFailures += topic.DecodeFailures
		snapshot.TotalHandlerFailures += topic.HandlerFailures
		snapshot.TotalDropped += topic.Dropped
	}

	return snapshot
}

// Reset clears the per-channel counters. Prometheus collectors are
// not reset; this only affects snapshots.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.topicCounts = make(map[string]*TopicMetrics)
}
