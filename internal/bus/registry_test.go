package bus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistryCopiesMapping(t *testing.T) {
	handlers := map[string]Handler{
		EventPipelineStarted: func(ctx context.Context, env Envelope) error { return nil },
	}
	reg := NewRegistry(handlers)

	handlers[EventPipelineCompleted] = func(ctx context.Context, env Envelope) error { return nil }
	delete(handlers, EventPipelineStarted)

	assert.True(t, reg.Has(EventPipelineStarted))
	assert.False(t, reg.Has(EventPipelineCompleted))
	assert.Equal(t, 1, reg.Len())
}

func TestNewRegistrySkipsNilHandlers(t *testing.T) {
	reg := NewRegistry(map[string]Handler{
		EventPipelineStarted: nil,
		EventPipelinePosted:  func(ctx context.Context, env Envelope) error { return nil },
	})

	assert.False(t, reg.Has(EventPipelineStarted))
	assert.True(t, reg.Has(EventPipelinePosted))
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryLookup(t *testing.T) {
	called := false
	reg := NewRegistry(map[string]Handler{
		EventPipelineStarted: func(ctx context.Context, env Envelope) error {
			called = true
			return nil
		},
	})

	handler, ok := reg.Lookup(EventPipelineStarted)
	require.True(t, ok)
	require.NoError(t, handler(context.Background(), Envelope{}))
	assert.True(t, called)

	_, ok = reg.Lookup("pipeline.unknown")
	assert.False(t, ok)
}

func TestRegistryTopicsSorted(t *testing.T) {
	noop := func(ctx context.Context, env Envelope) error { return nil }
	reg := NewRegistry(map[string]Handler{
		EventPipelinePosted:  noop,
		EventPipelineStarted: noop,
		BroadcastTopic:       noop,
	})

	assert.Equal(t, []string{BroadcastTopic, EventPipelinePosted, EventPipelineStarted}, reg.Topics())
}

func TestEmptyRegistry(t *testing.T) {
	reg := NewRegistry(nil)
	assert.Equal(t, 0, reg.Len())
	assert.Empty(t, reg.Topics())
}
