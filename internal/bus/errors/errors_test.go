package errors

import (
	sterrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectionError(t *testing.T) {
	cause := sterrors.New("dial tcp: connection refused")
	err := &ConnectionError{Broker: "nats", Err: cause}

	assert.Contains(t, err.Error(), "nats")
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)

	var connErr *ConnectionError
	assert.True(t, sterrors.As(err, &connErr))
	assert.Equal(t, "nats", connErr.Broker)
}
