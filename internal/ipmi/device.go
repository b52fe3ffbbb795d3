package ipmi

// Reading is the value reported by one BMC temperature sensor.
type Reading struct {
	// Value is the raw numeric sensor value as reported by the BMC.
	Value string `json:"value"`
	// Units of the value, e.g. "degrees C".
	Units string `json:"units"`
	// Available is false if the sensor exists but currently reports
	// no reading (e.g. a disconnected probe).
	Available bool `json:"available"`
}

// Device is the capability the fan control engine needs from a BMC
// connection. All calls may block on hardware I/O and are not safe for
// concurrent use, callers serialize access (see session package).
type Device interface {
	// GetFanMode returns the currently active firmware cooling policy.
	GetFanMode() (FanMode, error)

	// SetFanMode activates the given firmware cooling policy.
	SetFanMode(mode FanMode) error

	// GetDutyCycle returns the current duty cycle of a fan zone in percent.
	GetDutyCycle(zone uint8) (uint8, error)

	// SetDutyCycle sets the duty cycle of a fan zone in percent.
	SetDutyCycle(zone uint8, dutyCycle uint8) error

	// GetTemperatures returns all temperature sensor readings known to the
	// BMC, keyed by sensor name. Batched into a single query because BMC
	// round trips are slow.
	GetTemperatures() (map[string]Reading, error)
}
