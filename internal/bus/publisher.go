package bus

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/socialreel/eventbridge/internal/bus/errors"
	"github.com/socialreel/eventbridge/internal/bus/ids"
	"github.com/socialreel/eventbridge/internal/bus/logging"
)

// Metadata keys set on every outgoing broker message.
const (
	MetadataEventType = "event_type"
	MetadataSource    = "source"
)

// Publish emits an event from this bridge's configured source. See
// PublishFrom.
func (b *Bridge) Publish(ctx context.Context, eventType string, data map[string]any) error {
	return b.PublishFrom(ctx, eventType, data, b.conf.Source)
}

// PublishFrom builds an envelope and writes it to the channel named
// after the event type and then, unconditionally, to the broadcast
// channel. Both copies carry identical payload bytes and the same
// message UUID.
//
// Publishing on a stopped bridge connects first (lazy connect); a
// connection failure is the only error returned. The channel writes
// themselves are fire-and-forget: failures are logged, counted, and
// swallowed, so callers must not depend on delivery confirmation.
func (b *Bridge) PublishFrom(ctx context.Context, eventType string, data map[string]any, source string) error {
	if eventType == "" {
		return errors.ErrEventTypeRequired
	}

	publisher, err := b.ensureRunning(ctx)
	if err != nil {
		return err
	}

	env := NewEnvelope(eventType, data, source)
	payload, err := env.Encode()
	if err != nil {
		b.logger.Error("encoding envelope", err, logging.LogFields{
			"event_type": eventType,
		})
		if b.metrics != nil {
			b.metrics.RecordPublishFailure(eventType)
		}
		return nil
	}

	uuid := ids.NewMessageID()
	for _, topic := range []string{eventType, BroadcastTopic} {
		msg := message.NewMessage(uuid, payload)
		msg.Metadata.Set(MetadataEventType, eventType)
		msg.Metadata.Set(MetadataSource, source)

		if err := publisher.Publish(topic, msg); err != nil {
			b.logger.Error("publishing event", err, logging.LogFields{
				"channel":    topic,
				"event_type": eventType,
				"event_id":   env.EventID,
			})
			if b.metrics != nil {
				b.metrics.RecordPublishFailure(topic)
			}
			continue
		}
		if b.metrics != nil {
			b.metrics.RecordPublished(topic)
		}
	}

	b.logger.Debug("published event", logging.LogFields{
		"event_type": eventType,
		"event_id":   env.EventID,
		"source":     source,
	})
	return nil
}

// ensureRunning starts the bridge if it is not running yet and
// returns the active publisher.
func (b *Bridge) ensureRunning(ctx context.Context) (message.Publisher, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if State(b.state.Load()) != StateRunning {
		if err := b.startLocked(ctx); err != nil {
			return nil, err
		}
	}
	return b.publisher, nil
}
