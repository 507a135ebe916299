package bus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/require"

	configpkg "github.com/socialreel/eventbridge/internal/bus/config"
	loggingpkg "github.com/socialreel/eventbridge/internal/bus/logging"
	"github.com/socialreel/eventbridge/transport"
)

// channelTransport builds a registry with one in-memory broker under
// the "channel" name, isolated from the global default registry.
func channelTransport() *transport.Registry {
	reg := transport.NewRegistry()
	reg.Register("channel", func(ctx context.Context, cfg transport.Config, logger watermill.LoggerAdapter) (transport.Transport, error) {
		pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, logger)
		return transport.Transport{Publisher: pubSub, Subscriber: pubSub}, nil
	})
	return reg
}

func newTestLogger() loggingpkg.ServiceLogger {
	return loggingpkg.NewWatermillServiceLogger(watermill.NopLogger{})
}

func newTestConfig() *configpkg.Config {
	return &configpkg.Config{
		Broker:          "channel",
		PollTimeout:     200 * time.Millisecond,
		BackoffInterval: 10 * time.Millisecond,
	}
}

func newTestBridge(t *testing.T, handlers map[string]Handler, deps Dependencies) *Bridge {
	t.Helper()

	if deps.Transports == nil {
		deps.Transports = channelTransport()
	}
	bridge, err := NewBridge(newTestConfig(), newTestLogger(), NewRegistry(handlers), deps)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bridge.Stop() })
	return bridge
}

// recorder collects envelopes dispatched to a handler.
type recorder struct {
	mu        sync.Mutex
	envelopes []Envelope
	notify    chan Envelope
}

func newRecorder() *recorder {
	return &recorder{notify: make(chan Envelope, 16)}
}

func (r *recorder) handler() Handler {
	return func(ctx context.Context, env Envelope) error {
		r.mu.Lock()
		r.envelopes = append(r.envelopes, env)
		r.mu.Unlock()
		r.notify <- env
		return nil
	}
}

func (r *recorder) wait(t *testing.T) Envelope {
	t.Helper()
	select {
	case env := <-r.notify:
		return env
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for envelope")
		return Envelope{}
	}
}

func (r *recorder) waitNone(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case env := <-r.notify:
		t.Fatalf("unexpected envelope: %+v", env)
	case <-time.After(d):
	}
}

func (r *recorder) all() []Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := make([]Envelope, len(r.envelopes))
	copy(clone, r.envelopes)
	return clone
}

// testPublisher records topics written through the EventPublisher
// interface without a broker.
type testPublisher struct {
	mu        sync.Mutex
	published []publishedEvent
	err       error
}

type publishedEvent struct {
	eventType string
	data      map[string]any
}

func (p *testPublisher) Publish(ctx context.Context, eventType string, data map[string]any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, publishedEvent{eventType: eventType, data: data})
	return nil
}

func (p *testPublisher) Events() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	clone := make([]publishedEvent, len(p.published))
	copy(clone, p.published)
	return clone
}

// failingPublisher always fails channel writes, for exercising the
// fire-and-forget publish path.
type failingPublisher struct {
	err error
}

func (p *failingPublisher) Publish(topic string, messages ...*message.Message) error { return p.err }
func (p *failingPublisher) Close() error                                             { return nil }

// testSink records analytics writes.
type testSink struct {
	mu       sync.Mutex
	captions []CaptionGeneratedPayload
	analyzed []AnalyzedPayload
	err      error
}

func (s *testSink) StoreCaptionAnalytics(ctx context.Context, p CaptionGeneratedPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.captions = append(s.captions, p)
	return nil
}

func (s *testSink) StorePerformanceAnalytics(ctx context.Context, p AnalyzedPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.analyzed = append(s.analyzed, p)
	return nil
}

func (s *testSink) Captions() []CaptionGeneratedPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := make([]CaptionGeneratedPayload, len(s.captions))
	copy(clone, s.captions)
	return clone
}

func (s *testSink) Analyzed() []AnalyzedPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := make([]AnalyzedPayload, len(s.analyzed))
	copy(clone, s.analyzed)
	return clone
}
