package bus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/socialreel/eventbridge/internal/bus/logging"
)

var tracer = otel.Tracer("github.com/socialreel/eventbridge")

// incoming pairs an inbound message with the channel it arrived on.
// Watermill messages do not carry their topic, and routing needs it.
type incoming struct {
	topic string
	msg   *message.Message
}

// pump forwards one subscription stream into the shared inbound
// channel. A closed stream is treated as a transient broker hiccup:
// pump backs off for the configured interval and re-subscribes, so
// the loop self-heals without operator intervention.
func (b *Bridge) pump(ctx context.Context, topic string, messages <-chan *message.Message, out chan<- incoming, pumps *sync.WaitGroup) {
	defer pumps.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				select {
				case <-ctx.Done():
					return
				case <-time.After(b.conf.BackoffInterval):
				}
				again, err := b.resubscribe(ctx, topic)
				if err != nil {
					b.logger.Error("resubscribing after stream loss", err, logging.LogFields{
						"channel": topic,
					})
					return
				}
				b.logger.Info("resubscribed after stream loss", logging.LogFields{
					"channel": topic,
				})
				messages = again
				continue
			}

			select {
			case out <- incoming{topic: topic, msg: msg}:
			case <-ctx.Done():
				msg.Ack()
				return
			}
		}
	}
}

func (b *Bridge) resubscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	b.mu.Lock()
	subscriber := b.subscriber
	b.mu.Unlock()

	if subscriber == nil {
		return nil, fmt.Errorf("subscriber closed")
	}
	return subscriber.Subscribe(ctx, topic)
}

// dispatch is the single consumer of the inbound channel. Running it
// alone guarantees sequential, in-order handler invocation for this
// subscriber instance.
func (b *Bridge) dispatch(ctx context.Context, in <-chan incoming, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case inc, ok := <-in:
			if !ok {
				return
			}
			b.dispatchOne(ctx, inc.topic, inc.msg)
		}
	}
}

// dispatchOne decodes and routes a single message. Every failure mode
// is logged, counted, and swallowed; nothing here may terminate the
// loop. Messages are always acked: the bus is at-most-once and never
// asks the broker to redeliver.
func (b *Bridge) dispatchOne(ctx context.Context, topic string, msg *message.Message) {
	defer msg.Ack()

	env, err := DecodeEnvelope(msg.Payload)
	if err != nil {
		b.logger.Error("dropping undecodable message", err, logging.LogFields{
			"channel":      topic,
			"message_uuid": msg.UUID,
		})
		if b.metrics != nil {
			b.metrics.RecordDecodeFailure(topic)
		}
		return
	}

	handler, ok := b.registry.Lookup(topic)
	if !ok {
		// Broadcast-channel traffic with no local observer lands
		// here; ignoring it is normal operation.
		if b.metrics != nil {
			b.metrics.RecordDropped(topic, "no_handler")
		}
		return
	}

	info := DispatchInfo{
		Channel:     topic,
		EventType:   env.EventType,
		EventID:     env.EventID,
		MessageUUID: msg.UUID,
		StartedAt:   time.Now(),
	}

	spanCtx, span := tracer.Start(ctx, "eventbridge.dispatch", trace.WithAttributes(
		attribute.String("messaging.channel", topic),
		attribute.String("messaging.event_type", env.EventType),
		attribute.String("messaging.event_id", env.EventID),
	))
	defer span.End()

	b.hooks.start(info)

	err = b.invoke(spanCtx, handler, env)
	info.Duration = time.Since(info.StartedAt)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		b.logger.Error("handler failed", err, logging.LogFields{
			"channel":    topic,
			"event_type": env.EventType,
			"event_id":   env.EventID,
		})
		b.hooks.fail(info, err)
		return
	}

	b.hooks.done(info)
}

// invoke runs a handler with panic containment so a misbehaving
// handler cannot take down the dispatch loop.
func (b *Bridge) invoke(ctx context.Context, handler Handler, env Envelope) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handler(ctx, env)
}
