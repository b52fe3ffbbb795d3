package sources

import (
	"os"
	"strconv"
	"strings"
)

// readFileSource reads a temperature from a plain-text file, typically a
// sysfs path. The file contains the temperature in thousandths of a degree
// Celsius.
func readFileSource(path string) (uint8, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	trimmed := strings.TrimSpace(string(data))
	millidegrees, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return 0, &ValueParseError{Value: trimmed, Cause: err}
	}

	degrees := millidegrees / 1000
	if degrees > 255 {
		return 0, &BoundsExceededError{Value: int64(degrees)}
	}

	return uint8(degrees), nil
}
