package errors

import (
	"fmt"

	sterrors "errors"
)

var (
	ErrBridgeRequired    = sterrors.New("eventbridge: bridge is required")
	ErrConfigRequired    = sterrors.New("eventbridge: config is required")
	ErrLoggerRequired    = sterrors.New("eventbridge: logger is required")
	ErrRegistryRequired  = sterrors.New("eventbridge: handler registry is required")
	ErrHandlerRequired   = sterrors.New("eventbridge: handler function is required")
	ErrEventTypeRequired = sterrors.New("eventbridge: event type is required")
)

// ConnectionError reports a failed broker connection attempt. It is the only
// error class the bus propagates instead of logging and continuing; callers
// own the retry/abort decision.
type ConnectionError struct {
	Broker string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("eventbridge: connecting to %s broker: %v", e.Broker, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
