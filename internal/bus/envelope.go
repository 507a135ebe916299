package bus

import (
	"fmt"
	"time"

	"github.com/socialreel/eventbridge/internal/bus/errors"
	"github.com/socialreel/eventbridge/internal/bus/jsoncodec"
)

// BroadcastTopic is the channel that mirrors every published envelope
// regardless of its event type.
const BroadcastTopic = "events:all"

// Envelope is the wire data model carried on every message. It is
// immutable once constructed; handlers receive a decoded copy.
type Envelope struct {
	// EventType is a dot-namespaced name (e.g. "pipeline.completed").
	// It identifies both the semantic kind and the channel the
	// envelope is published on.
	EventType string `json:"event_type"`

	// Data is an open mapping whose schema varies per event type and
	// is defined by convention, not enforced by the bus. Use
	// DecodePayload to validate it against a known variant.
	Data map[string]any `json:"data"`

	// Timestamp is the UTC publish instant, ISO-8601 encoded.
	Timestamp string `json:"timestamp"`

	// Source identifies the publishing service.
	Source string `json:"source"`

	// EventID is "<event_type>_<epoch_millis>". Two publishes of the
	// same event type within one millisecond collide; callers must
	// not rely on it for uniqueness. Brokers carry a ULID message
	// UUID alongside when a unique identifier is needed.
	EventID string `json:"event_id"`
}

// NewEnvelope builds an envelope for the given event type, stamping
// the current UTC instant and the derived event ID.
func NewEnvelope(eventType string, data map[string]any, source string) Envelope {
	now := time.Now().UTC()
	return Envelope{
		EventType: eventType,
		Data:      data,
		Timestamp: now.Format(time.RFC3339Nano),
		Source:    source,
		EventID:   fmt.Sprintf("%s_%d", eventType, now.UnixMilli()),
	}
}

// Encode serializes the envelope to its JSON wire form.
func (e Envelope) Encode() ([]byte, error) {
	return jsoncodec.Marshal(e)
}

// DecodeEnvelope parses an envelope from its JSON wire form. An
// envelope without an event type is rejected.
func DecodeEnvelope(payload []byte) (Envelope, error) {
	var env Envelope
	if err := jsoncodec.Unmarshal(payload, &env); err != nil {
		return Envelope{}, fmt.Errorf("decoding envelope: %w", err)
	}
	if env.EventType == "" {
		return Envelope{}, errors.ErrEventTypeRequired
	}
	return env, nil
}

// DecodeData unmarshals the envelope's data mapping into v.
func (e Envelope) DecodeData(v any) error {
	raw, err := jsoncodec.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("encoding envelope data: %w", err)
	}
	if err := jsoncodec.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decoding envelope data: %w", err)
	}
	return nil
}
