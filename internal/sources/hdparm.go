package sources

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	hdparmBinary = "hdparm"

	// hdparm sometimes reports success even though the drive did not
	// deliver usable sense data; the output carries the real verdict.
	badSenseMarker    = "bad/missing sense data"
	temperatureMarker = "drive temperature (celsius) is:"
)

// readHdparmSource queries a drive temperature via "hdparm -H".
func (r *Reader) readHdparmSource(device string) (uint8, error) {
	out, exitCode, err := r.runCommand(hdparmBinary, []string{"-H", device}, commandTimeout)
	if err != nil {
		return 0, err
	}
	if exitCode != 0 {
		return 0, &CommandFailedError{
			Command:  fmt.Sprintf("%s -H %s", hdparmBinary, device),
			ExitCode: exitCode,
		}
	}

	return parseHdparmOutput(out, device)
}

func parseHdparmOutput(output string, device string) (uint8, error) {
	for _, line := range strings.Split(output, "\n") {
		lower := strings.ToLower(line)

		if strings.Contains(lower, badSenseMarker) {
			return 0, &NoReadingError{Sensor: fmt.Sprintf("hdparm:%s", device)}
		}

		if !strings.Contains(lower, temperatureMarker) {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		last := fields[len(fields)-1]

		// Drive firmware may report a negative placeholder value, so the
		// token is parsed as signed first and range-checked afterwards.
		value, err := strconv.ParseInt(last, 10, 8)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				if wide, wideErr := strconv.ParseInt(last, 10, 64); wideErr == nil {
					return 0, &BoundsExceededError{Value: wide}
				}
			}
			return 0, &ValueParseError{Value: last, Cause: err}
		}
		if value < 0 {
			return 0, &BoundsExceededError{Value: value}
		}

		return uint8(value), nil
	}

	return 0, &NoReadingError{Sensor: fmt.Sprintf("hdparm:%s", device)}
}
