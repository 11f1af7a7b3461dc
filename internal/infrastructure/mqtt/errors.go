package mqtt

import "errors"

var (
	// ErrNotConnected is returned when the session is down.
	ErrNotConnected = errors.New("mqtt: not connected to broker")

	// ErrConnectionFailed is returned when Connect cannot reach the broker.
	ErrConnectionFailed = errors.New("mqtt: cannot connect to broker")

	// ErrPublishFailed wraps a rejected or timed out reading or action event.
	ErrPublishFailed = errors.New("mqtt: publish failed")

	// ErrSubscribeFailed is returned when the run command subscription fails.
	ErrSubscribeFailed = errors.New("mqtt: run command subscription failed")
)
