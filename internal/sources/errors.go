package sources

import (
	"fmt"
)

// SensorNotFoundError is returned when a configured IPMI sensor name does
// not exist on the BMC.
type SensorNotFoundError struct {
	Sensor string
}

func (e *SensorNotFoundError) Error() string {
	return fmt.Sprintf("sensor not found: %q", e.Sensor)
}

// NoReadingError is returned when a sensor exists but currently reports no
// usable value.
type NoReadingError struct {
	Sensor string
}

func (e *NoReadingError) Error() string {
	return fmt.Sprintf("sensor %q has no reading", e.Sensor)
}

// BadUnitsError is returned when a sensor reports its value in units other
// than degrees Celsius.
type BadUnitsError struct {
	Sensor string
	Units  string
}

func (e *BadUnitsError) Error() string {
	return fmt.Sprintf("sensor %q reports %q instead of degrees Celsius", e.Sensor, e.Units)
}

// ValueParseError is returned when a sensor value cannot be parsed.
type ValueParseError struct {
	Value string
	Cause error
}

func (e *ValueParseError) Error() string {
	return fmt.Sprintf("failed to parse sensor value %q: %v", e.Value, e.Cause)
}

func (e *ValueParseError) Unwrap() error {
	return e.Cause
}

// BoundsExceededError is returned when a temperature does not fit the
// 0..255 degrees Celsius range the control engine works with.
type BoundsExceededError struct {
	Value int64
}

func (e *BoundsExceededError) Error() string {
	return fmt.Sprintf("temperature %d exceeds the supported range", e.Value)
}

// CommandFailedError is returned when an external diagnostic tool exits
// with an unexpected status.
type CommandFailedError struct {
	Command  string
	ExitCode int
}

func (e *CommandFailedError) Error() string {
	return fmt.Sprintf("command %q exited with unexpected status %d", e.Command, e.ExitCode)
}
