package bus

import (
	"time"

	"github.com/socialreel/eventbridge/internal/bus/logging"
)

// DispatchInfo provides information about a dispatch to hooks.
type DispatchInfo struct {
	// Channel is the channel the message was received on.
	Channel string
	// EventType is the decoded envelope's event type.
	EventType string
	// EventID is the decoded envelope's derived identifier.
	EventID string
	// MessageUUID is the broker message identifier.
	MessageUUID string
	// StartedAt is when the handler started.
	StartedAt time.Time
	// Duration is how long the handler took (only set in
	// OnDispatchDone and OnDispatchError).
	Duration time.Duration
}

// DispatchHooks defines callbacks for the dispatch lifecycle.
// All hooks are optional - nil hooks are simply not called.
type DispatchHooks struct {
	// OnDispatchStart is called before the handler is invoked.
	OnDispatchStart func(info DispatchInfo)

	// OnDispatchDone is called when a handler completes without error.
	OnDispatchDone func(info DispatchInfo)

	// OnDispatchError is called when a handler returns an error or
	// panics. The error is passed as the second argument.
	OnDispatchError func(info DispatchInfo, err error)
}

// Merge combines two DispatchHooks, creating a new DispatchHooks that
// calls both. The hooks from 'other' are called after the hooks from 'h'.
func (h DispatchHooks) Merge(other DispatchHooks) DispatchHooks {
	return DispatchHooks{
		OnDispatchStart: chainInfoHooks(h.OnDispatchStart, other.OnDispatchStart),
		OnDispatchDone:  chainInfoHooks(h.OnDispatchDone, other.OnDispatchDone),
		OnDispatchError: chainErrorHooks(h.OnDispatchError, other.OnDispatchError),
	}
}

func chainInfoHooks(a, b func(DispatchInfo)) func(DispatchInfo) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(info DispatchInfo) {
		a(info)
		b(info)
	}
}

func chainErrorHooks(a, b func(DispatchInfo, error)) func(DispatchInfo, error) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(info DispatchInfo, err error) {
		a(info, err)
		b(info, err)
	}
}

func (h DispatchHooks) start(info DispatchInfo) {
	if h.OnDispatchStart != nil {
		h.OnDispatchStart(info)
	}
}

func (h DispatchHooks) done(info DispatchInfo) {
	if h.OnDispatchDone != nil {
		h.OnDispatchDone(info)
	}
}

func (h DispatchHooks) fail(info DispatchInfo, err error) {
	if h.OnDispatchError != nil {
		h.OnDispatchError(info, err)
	}
}

// LoggingHooks returns hooks that log each dispatch.
func LoggingHooks(logger logging.ServiceLogger) DispatchHooks {
	return DispatchHooks{
		OnDispatchStart: func(info DispatchInfo) {
			logger.Debug("dispatching event", logging.LogFields{
				"channel":    info.Channel,
				"event_type": info.EventType,
				"event_id":   info.EventID,
			})
		},
		OnDispatchDone: func(info DispatchInfo) {
			logger.Debug("event dispatched", logging.LogFields{
				"channel":     info.Channel,
				"event_type":  info.EventType,
				"event_id":    info.EventID,
				"duration_ms": info.Duration.Milliseconds(),
			})
		},
		OnDispatchError: func(info DispatchInfo, err error) {
			logger.Error("handler failed", err, logging.LogFields{
				"channel":    info.Channel,
				"event_type": info.EventType,
				"event_id":   info.EventID,
			})
		},
	}
}

// MetricsHooks returns hooks that record each dispatch in the given
// metrics collector.
func MetricsHooks(metrics *Metrics) DispatchHooks {
	if metrics == nil {
		return DispatchHooks{}
	}
	return DispatchHooks{
		OnDispatchDone: func(info DispatchInfo) {
			metrics.RecordDispatched(info.Channel, info.Duration)
		},
		OnDispatchError: func(info DispatchInfo, err error) {
			metrics.RecordHandlerFailure(info.Channel)
		},
	}
}
