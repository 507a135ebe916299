package eventbridge

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	_ "github.com/socialreel/eventbridge/transport/channel"
)

func TestBridgeExportsPropagateErrors(t *testing.T) {
	if _, err := NewBridge(nil, nil, nil, Dependencies{}); !errors.Is(err, ErrConfigRequired) {
		t.Fatalf("expected config required error, got %v", err)
	}

	logger := NewSlogServiceLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if _, err := NewBridge(&Config{Broker: "channel"}, logger, nil, Dependencies{}); !errors.Is(err, ErrRegistryRequired) {
		t.Fatalf("expected registry required error, got %v", err)
	}
}

func TestBridgeExportRoundTrip(t *testing.T) {
	received := make(chan Envelope, 1)
	registry := NewRegistry(map[string]Handler{
		EventPipelineStarted: func(ctx context.Context, env Envelope) error {
			received <- env
			return nil
		},
	})

	logger := NewSlogServiceLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
	bridge, err := NewBridge(&Config{Broker: "channel"}, logger, registry, Dependencies{})
	if err != nil {
		t.Fatalf("unexpected bridge error: %v", err)
	}
	defer bridge.Stop()

	if err := bridge.Publish(context.Background(), EventPipelineStarted, map[string]any{"task_id": "t1"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	env := <-received
	if env.Data["task_id"] != "t1" {
		t.Fatalf("expected task_id t1, got %#v", env.Data)
	}
	if !strings.HasPrefix(env.EventID, EventPipelineStarted+"_") {
		t.Fatalf("unexpected event_id %q", env.EventID)
	}
}

func TestEnvelopeExportAliases(t *testing.T) {
	env := NewEnvelope(EventPipelineCompleted, map[string]any{"task_id": "t1"}, DefaultSource)
	raw, err := env.Encode()
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := DecodeEnvelope(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.EventType != EventPipelineCompleted {
		t.Fatalf("unexpected event type %q", decoded.EventType)
	}

	payload, err := DecodePayload(decoded.EventType, decoded.Data)
	if err != nil {
		t.Fatalf("payload decode failed: %v", err)
	}
	if payload.(CompletedPayload).TaskID != "t1" {
		t.Fatalf("unexpected payload %#v", payload)
	}
}

func TestEncodingExportAliases(t *testing.T) {
	payload := map[string]string{"hello": "world"}
	if _, err := Marshal(payload); err != nil {
		t.Fatalf("marshal alias failed: %v", err)
	}
	if _, err := MarshalIndent(payload, "", "  "); err != nil {
		t.Fatalf("marshal indent alias failed: %v", err)
	}
	if err := Unmarshal([]byte(`{"hello":"world"}`), &payload); err != nil {
		t.Fatalf("unmarshal alias failed: %v", err)
	}
}

func TestTransportExports(t *testing.T) {
	if !DefaultTransportRegistry.Has("channel") {
		t.Fatal("expected channel transport to be registered")
	}
	caps := GetCapabilities("channel")
	if caps.Name != "channel" {
		t.Fatalf("unexpected capabilities %#v", caps)
	}
}

func TestChannelNameConstants(t *testing.T) {
	if BroadcastTopic != "events:all" {
		t.Fatalf("broadcast channel changed: %q", BroadcastTopic)
	}
	if EventPipelineStarted != "pipeline.started" {
		t.Fatalf("pipeline channel changed: %q", EventPipelineStarted)
	}
	if EventBackendPipelineCompleted != "backend.pipeline_completed" {
		t.Fatalf("backend channel changed: %q", EventBackendPipelineCompleted)
	}
}

func TestMessageIDExport(t *testing.T) {
	a := NewMessageID()
	b := NewMessageID()
	if a == b {
		t.Fatal("expected unique message IDs")
	}
	if len(a) != 26 {
		t.Fatalf("unexpected ULID length %d", len(a))
	}
}
