package sensor

import (
	"context"
	"errors"
	"fmt"

	"github.com/nerrad567/luxctl/internal/infrastructure/config"
)

// Kind classifies a sensor failure.
type Kind int

const (
	// KindReadFailure means the driver is present but the reading failed.
	KindReadFailure Kind = iota

	// KindDriverMissing means the sensor driver or device node is absent.
	KindDriverMissing
)

// String returns a human-readable kind.
func (k Kind) String() string {
	switch k {
	case KindDriverMissing:
		return "driver missing"
	default:
		return "read failure"
	}
}

// Error is returned by every Sensor on failure.
type Error struct {
	Kind   Kind
	Source string // sysctl OID or file path
	Err    error
}

func (e *Error) Error() string {
	if e.Kind == KindDriverMissing {
		return fmt.Sprintf("sensor %s: driver not loaded: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("sensor %s: %v", e.Source, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsDriverMissing reports whether err says the sensor driver is absent.
func IsDriverMissing(err error) bool {
	var sErr *Error
	return errors.As(err, &sErr) && sErr.Kind == KindDriverMissing
}

// Sensor produces illuminance readings in lux.
type Sensor interface {
	Level(ctx context.Context) (int, error)
}

// New builds the Sensor selected by cfg.Source.
func New(cfg config.SensorConfig) (Sensor, error) {
	switch cfg.Source {
	case config.SensorSysctl:
		return NewSysctl(cfg.OID), nil
	case config.SensorFile:
		return NewFile(cfg.Path), nil
	case config.SensorFixed:
		return Fixed(cfg.Level), nil
	default:
		return nil, fmt.Errorf("unknown sensor source %q", cfg.Source)
	}
}

// Fixed is a Sensor that always reports the same level.
type Fixed int

// Level returns the fixed reading.
func (f Fixed) Level(context.Context) (int, error) {
	return int(f), nil
}
