package transport

import (
	"context"
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConfig struct {
	broker string
}

func (c *stubConfig) GetBroker() string             { return c.broker }
func (c *stubConfig) GetNATSURL() string            { return "" }
func (c *stubConfig) GetKafkaBrokers() []string     { return nil }
func (c *stubConfig) GetKafkaConsumerGroup() string { return "" }
func (c *stubConfig) GetRabbitMQURL() string        { return "" }
func (c *stubConfig) GetAWSRegion() string          { return "" }
func (c *stubConfig) GetAWSAccountID() string       { return "" }
func (c *stubConfig) GetAWSAccessKeyID() string     { return "" }
func (c *stubConfig) GetAWSSecretAccessKey() string { return "" }
func (c *stubConfig) GetAWSEndpoint() string        { return "" }

func TestRegistryRegisterAndBuild(t *testing.T) {
	reg := NewRegistry()

	built := false
	reg.Register("stub", func(ctx context.Context, cfg Config, logger watermill.LoggerAdapter) (Transport, error) {
		built = true
		return Transport{}, nil
	})

	assert.True(t, reg.Has("stub"))
	assert.Contains(t, reg.Names(), "stub")

	_, err := reg.Build(context.Background(), &stubConfig{broker: "stub"}, watermill.NopLogger{})
	require.NoError(t, err)
	assert.True(t, built)
}

func TestRegistryBuildUnknownBroker(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Build(context.Background(), &stubConfig{broker: "nope"}, watermill.NopLogger{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown broker")
}

func TestRegistryBuildNilConfig(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Build(context.Background(), nil, watermill.NopLogger{})
	require.Error(t, err)
}

func TestRegistryBuilderError(t *testing.T) {
	reg := NewRegistry()

	boom := errors.New("connect failed")
	reg.Register("stub", func(ctx context.Context, cfg Config, logger watermill.LoggerAdapter) (Transport, error) {
		return Transport{}, boom
	})

	_, err := reg.Build(context.Background(), &stubConfig{broker: "stub"}, watermill.NopLogger{})
	assert.ErrorIs(t, err, boom)
}

func TestRegistryCapabilities(t *testing.T) {
	reg := NewRegistry()

	caps := Capabilities{Name: "stub", Durable: true, SupportsAck: true}
	reg.RegisterWithCapabilities("stub", func(ctx context.Context, cfg Config, logger watermill.LoggerAdapter) (Transport, error) {
		return Transport{}, nil
	}, caps)

	got := reg.GetCapabilities("stub")
	assert.Equal(t, caps, got)

	unknown := reg.GetCapabilities("missing")
	assert.Equal(t, "missing", unknown.Name)
	assert.False(t, unknown.Durable)
}

func TestCapabilitiesHelpers(t *testing.T) {
	assert.True(t, NATSCapabilities.AtMostOnce())
	assert.False(t, NATSCapabilities.MayRedeliver())

	assert.False(t, KafkaCapabilities.AtMostOnce())
	assert.True(t, RabbitMQCapabilities.MayRedeliver())
}
