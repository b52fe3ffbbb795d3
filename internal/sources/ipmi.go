package sources

import (
	"errors"
	"strconv"

	"github.com/avern/bmcfand/internal/ipmi"
)

const celsiusUnits = "degrees C"

// readIpmiSensor resolves one named sensor from the batched BMC readings.
func readIpmiSensor(readings map[string]ipmi.Reading, sensor string) (uint8, error) {
	reading, ok := readings[sensor]
	if !ok {
		return 0, &SensorNotFoundError{Sensor: sensor}
	}

	if !reading.Available {
		return 0, &NoReadingError{Sensor: sensor}
	}

	if reading.Units != celsiusUnits {
		return 0, &BadUnitsError{Sensor: sensor, Units: reading.Units}
	}

	value, err := strconv.ParseUint(reading.Value, 10, 8)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			wide, wideErr := strconv.ParseInt(reading.Value, 10, 64)
			if wideErr == nil {
				return 0, &BoundsExceededError{Value: wide}
			}
		}
		return 0, &ValueParseError{Value: reading.Value, Cause: err}
	}

	return uint8(value), nil
}
