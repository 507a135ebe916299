package bus

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/socialreel/eventbridge/internal/bus/config"
	"github.com/socialreel/eventbridge/internal/bus/errors"
	"github.com/socialreel/eventbridge/internal/bus/logging"
	"github.com/socialreel/eventbridge/transport"
)

// State is the lifecycle state of a Bridge.
type State int32

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// Health is the result of a Bridge health check.
type Health struct {
	Status           string `json:"status"`
	BrokerConnected  bool   `json:"broker_connected"`
	ProcessingActive bool   `json:"processing_active"`
}

// Dependencies carries optional collaborators for NewBridge. The zero
// value is valid: hooks default to none, metrics to disabled, and
// transports to the default registry.
type Dependencies struct {
	// Hooks observe the dispatch lifecycle.
	Hooks DispatchHooks

	// Metrics collects per-failure-kind counters. When nil and the
	// config enables metrics, a collector on the default Prometheus
	// registerer is created.
	Metrics *Metrics

	// Transports resolves the config's Broker name to a transport.
	Transports *transport.Registry
}

// Bridge connects a handler registry to a broker. It owns the broker
// connection, the subscriptions, and the dispatch loop, and exposes
// the publish side of the bus.
//
// A Bridge must not be copied. One broker connection belongs to
// exactly one Bridge; run several independent Bridge instances for
// several services.
type Bridge struct {
	conf       *config.Config
	logger     logging.ServiceLogger
	registry   *Registry
	hooks      DispatchHooks
	metrics    *Metrics
	transports *transport.Registry

	mu         sync.Mutex
	state      atomic.Int32
	publisher  message.Publisher
	subscriber message.Subscriber
	cancel     context.CancelFunc
	done       chan struct{}
}

// NewBridge validates the config and assembles a stopped Bridge. The
// broker is not contacted until Start or the first Publish.
func NewBridge(conf *config.Config, logger logging.ServiceLogger, registry *Registry, deps Dependencies) (*Bridge, error) {
	if conf == nil {
		return nil, errors.ErrConfigRequired
	}
	if logger == nil {
		return nil, errors.ErrLoggerRequired
	}
	if registry == nil {
		return nil, errors.ErrRegistryRequired
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	conf.Normalize()

	metrics := deps.Metrics
	if metrics == nil && conf.MetricsEnabled {
		metrics = NewMetrics(nil)
	}
	if metrics != nil {
		if err := metrics.Register(); err != nil {
			return nil, err
		}
	}

	transports := deps.Transports
	if transports == nil {
		transports = transport.DefaultRegistry
	}
	if !transports.Has(conf.Broker) {
		return nil, fmt.Errorf("unknown broker: %q (registered: %v)", conf.Broker, transports.Names())
	}

	return &Bridge{
		conf:       conf,
		logger:     logger,
		registry:   registry,
		hooks:      MetricsHooks(metrics).Merge(deps.Hooks),
		metrics:    metrics,
		transports: transports,
	}, nil
}

// State returns the current lifecycle state.
func (b *Bridge) State() State {
	return State(b.state.Load())
}

// Start connects to the broker, subscribes to every registered event
// type plus the broadcast channel, and launches the dispatch loop.
// Starting an already running Bridge is a no-op.
//
// A broker connection failure is returned as a *errors.ConnectionError
// and is not retried; the caller owns the retry/abort decision.
func (b *Bridge) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.startLocked(ctx)
}

func (b *Bridge) startLocked(ctx context.Context) error {
	if State(b.state.Load()) == StateRunning {
		return nil
	}
	b.state.Store(int32(StateStarting))

	wmLogger := logging.NewWatermillAdapter(b.logger)
	tr, err := b.transports.Build(ctx, b.conf, wmLogger)
	if err != nil {
		b.state.Store(int32(StateStopped))
		return &errors.ConnectionError{Broker: b.conf.Broker, Err: err}
	}
	b.publisher = tr.Publisher
	b.subscriber = tr.Subscriber

	// The dispatch loop outlives the Start call; its lifetime is
	// bound to Stop, not to the caller's context.
	runCtx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel

	topics := b.subscriptionTopics()
	inbound := make(chan incoming)

	var pumps sync.WaitGroup
	for _, topic := range topics {
		messages, err := b.subscriber.Subscribe(runCtx, topic)
		if err != nil {
			cancel()
			b.closeTransportLocked()
			b.state.Store(int32(StateStopped))
			return &errors.ConnectionError{Broker: b.conf.Broker, Err: err}
		}
		pumps.Add(1)
		go b.pump(runCtx, topic, messages, inbound, &pumps)
	}
	go func() {
		pumps.Wait()
		close(inbound)
	}()

	b.done = make(chan struct{})
	go b.dispatch(runCtx, inbound, b.done)

	b.state.Store(int32(StateRunning))
	b.logger.Info("event bridge started", logging.LogFields{
		"broker":   b.conf.Broker,
		"channels": len(topics),
	})
	return nil
}

// subscriptionTopics returns the union of the registered event types
// and the broadcast channel.
func (b *Bridge) subscriptionTopics() []string {
	topics := b.registry.Topics()
	if !b.registry.Has(BroadcastTopic) {
		topics = append(topics, BroadcastTopic)
	}
	return topics
}

// Stop cancels the dispatch loop, waits for it to exit bounded by the
// configured poll timeout, and closes the broker connection. Stopping
// a Bridge that is not running, including one never started, is a
// no-op.
func (b *Bridge) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if State(b.state.Load()) != StateRunning {
		return nil
	}
	b.state.Store(int32(StateStopping))

	b.cancel()
	select {
	case <-b.done:
	case <-time.After(b.conf.PollTimeout):
		b.logger.Error("dispatch loop did not exit before timeout", nil, logging.LogFields{
			"timeout": b.conf.PollTimeout.String(),
		})
	}

	b.closeTransportLocked()
	b.cancel = nil
	b.done = nil

	b.state.Store(int32(StateStopped))
	b.logger.Info("event bridge stopped", nil)
	return nil
}

func (b *Bridge) closeTransportLocked() {
	if b.subscriber != nil {
		if err := b.subscriber.Close(); err != nil {
			b.logger.Error("closing subscriber", err, nil)
		}
	}
	// In-memory transports reuse one object for both roles; avoid
	// closing it twice.
	if b.publisher != nil && any(b.publisher) != any(b.subscriber) {
		if err := b.publisher.Close(); err != nil {
			b.logger.Error("closing publisher", err, nil)
		}
	}
	b.publisher = nil
	b.subscriber = nil
}

// Health reports the current connectivity and processing state. It is
// a pure read with no side effects.
func (b *Bridge) Health() Health {
	b.mu.Lock()
	connected := b.publisher != nil
	b.mu.Unlock()

	active := State(b.state.Load()) == StateRunning

	status := "unhealthy"
	if connected && active {
		status = "healthy"
	}
	return Health{
		Status:           status,
		BrokerConnected:  connected,
		ProcessingActive: active,
	}
}

// Metrics returns the metrics collector, or nil when metrics are
// disabled.
func (b *Bridge) Metrics() *Metrics {
	return b.metrics
}
