package sources

import (
	"encoding/json"
	"fmt"
)

const (
	smartctlBinary = "smartctl"

	// smartctl exit status when the drive is in a low-power mode and
	// "-n standby" prevented waking it up.
	smartExitStandby = 2
)

// readSmartSource queries a drive temperature via smartctl. A nil result
// without an error means the drive is asleep and was deliberately not woken
// up; the reading is skipped for this tick.
func (r *Reader) readSmartSource(device string) (*uint8, error) {
	args := []string{"-j", "-A", "-n", "standby", device}

	out, exitCode, err := r.runCommand(smartctlBinary, args, commandTimeout)
	if err != nil {
		return nil, err
	}

	switch exitCode {
	case 0:
		return parseSmartOutput([]byte(out), device)
	case smartExitStandby:
		return nil, nil
	default:
		return nil, &CommandFailedError{
			Command:  fmt.Sprintf("%s -n standby %s", smartctlBinary, device),
			ExitCode: exitCode,
		}
	}
}

func parseSmartOutput(data []byte, device string) (*uint8, error) {
	var payload struct {
		Temperature struct {
			Current *int64 `json:"current"`
		} `json:"temperature"`
	}

	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &ValueParseError{Value: device, Cause: err}
	}

	current := payload.Temperature.Current
	if current == nil {
		return nil, &NoReadingError{Sensor: fmt.Sprintf("smart:%s", device)}
	}

	if *current < 0 || *current > 255 {
		return nil, &BoundsExceededError{Value: *current}
	}

	value := uint8(*current)
	return &value, nil
}
