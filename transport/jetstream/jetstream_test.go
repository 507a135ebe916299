package jetstream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/socialreel/eventbridge/transport"
)

func TestRegister(t *testing.T) {
	transport.DefaultRegistry = transport.NewRegistry()
	Register()

	caps := transport.GetCapabilities(TransportName)
	assert.Equal(t, "nats-jetstream", caps.Name)
	assert.True(t, caps.Durable)
	assert.True(t, caps.MayRedeliver())
}

func TestCapabilities(t *testing.T) {
	caps := Capabilities()
	assert.Equal(t, transport.JetStreamCapabilities, caps)
	assert.Equal(t, "nats-jetstream", caps.Name)
}

func TestTransportName(t *testing.T) {
	assert.Equal(t, "nats-jetstream", TransportName)
}

func TestConfigWithDefaults(t *testing.T) {
	t.Run("fills zero values", func(t *testing.T) {
		cfg := Config{}.withDefaults()

		assert.Equal(t, "EVENTBRIDGE", cfg.StreamName)
		assert.Equal(t, DefaultMaxDeliver, cfg.MaxDeliver)
		assert.Equal(t, DefaultAckWait, cfg.AckWait)
		assert.Equal(t, 1, cfg.Replicas)
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		cfg := Config{
			StreamName: "CUSTOM",
			MaxDeliver: 5,
			AckWait:    time.Minute,
			Replicas:   3,
		}.withDefaults()

		assert.Equal(t, "CUSTOM", cfg.StreamName)
		assert.Equal(t, 5, cfg.MaxDeliver)
		assert.Equal(t, time.Minute, cfg.AckWait)
		assert.Equal(t, 3, cfg.Replicas)
	})
}

func TestTopicMapping(t *testing.T) {
	tr := &Transport{config: Config{}.withDefaults()}

	assert.Equal(t, "EVENTBRIDGE.pipeline_started", tr.topicToSubject("pipeline.started"))
	assert.Equal(t, "EVENTBRIDGE.events_all", tr.topicToSubject("events:all"))
	assert.Equal(t, "consumer_pipeline_started", tr.topicToConsumer("pipeline.started"))
	assert.Equal(t, "consumer_events_all", tr.topicToConsumer("events:all"))
}
