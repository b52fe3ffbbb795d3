package ipmi

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/avern/bmcfand/internal/ui"
	"github.com/avern/bmcfand/internal/util"
)

const (
	ipmiToolBinary = "ipmitool"

	// Raw commands as understood by Supermicro BMCs.
	rawGetFanMode   = "raw 0x30 0x45 0x00"
	rawSetFanMode   = "raw 0x30 0x45 0x01 %d"
	rawGetDutyCycle = "raw 0x30 0x70 0x66 0x00 %d"
	rawSetDutyCycle = "raw 0x30 0x70 0x66 0x01 %d %d"

	sdrTemperatureCmd = "sdr type temperature"

	noReadingMarker = "no reading"
	disabledMarker  = "disabled"
)

// CommandError is returned when ipmitool exits with a non-zero status.
type CommandError struct {
	Args     []string
	ExitCode int
	Output   string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("ipmitool %s exited with status %d: %s",
		strings.Join(e.Args, " "), e.ExitCode, strings.TrimSpace(e.Output))
}

// OutputParseError is returned when ipmitool output cannot be interpreted.
type OutputParseError struct {
	Line  string
	Cause error
}

func (e *OutputParseError) Error() string {
	return fmt.Sprintf("failed to parse ipmitool output %q: %v", e.Line, e.Cause)
}

func (e *OutputParseError) Unwrap() error {
	return e.Cause
}

// ipmiToolDevice talks to a BMC by invoking ipmitool once per operation.
// The connection arguments (interface, host, credentials) are passed in
// front of every command.
type ipmiToolDevice struct {
	connectArgs []string
	timeout     time.Duration
}

// Connect creates a Device for the given ipmitool connection arguments.
// Arguments containing shell metacharacters are rejected, they are never
// valid for ipmitool option values and would indicate a config mistake.
func Connect(connectArgs []string) (Device, error) {
	for _, arg := range connectArgs {
		if strings.ContainsAny(arg, "'\"`$") {
			return nil, fmt.Errorf("invalid ipmitool argument: %q", arg)
		}
	}

	return &ipmiToolDevice{
		connectArgs: connectArgs,
		timeout:     10 * time.Second,
	}, nil
}

func (d *ipmiToolDevice) run(command string) (string, error) {
	args := append(append([]string{}, d.connectArgs...), strings.Fields(command)...)
	ui.Debug("Running IPMI command: '%s'", command)

	out, exitCode, err := util.RunCommand(ipmiToolBinary, args, d.timeout)
	if err != nil {
		return "", err
	}
	if exitCode != 0 {
		return "", &CommandError{
			Args:     args,
			ExitCode: exitCode,
			Output:   out,
		}
	}
	return out, nil
}

func (d *ipmiToolDevice) GetFanMode() (FanMode, error) {
	out, err := d.run(rawGetFanMode)
	if err != nil {
		return 0, err
	}

	raw, err := parseRawByte(out)
	if err != nil {
		return 0, err
	}
	return FanMode(raw), nil
}

func (d *ipmiToolDevice) SetFanMode(mode FanMode) error {
	_, err := d.run(fmt.Sprintf(rawSetFanMode, uint8(mode)))
	return err
}

func (d *ipmiToolDevice) GetDutyCycle(zone uint8) (uint8, error) {
	out, err := d.run(fmt.Sprintf(rawGetDutyCycle, zone))
	if err != nil {
		return 0, err
	}
	return parseRawByte(out)
}

func (d *ipmiToolDevice) SetDutyCycle(zone uint8, dutyCycle uint8) error {
	_, err := d.run(fmt.Sprintf(rawSetDutyCycle, zone, dutyCycle))
	return err
}

func (d *ipmiToolDevice) GetTemperatures() (map[string]Reading, error) {
	out, err := d.run(sdrTemperatureCmd)
	if err != nil {
		return nil, err
	}
	return parseSdrTemperatures(out)
}

// parseRawByte parses the output of an ipmitool "raw" command, which is a
// single byte printed in hex.
func parseRawByte(output string) (uint8, error) {
	trimmed := strings.TrimSpace(output)
	value, err := strconv.ParseUint(trimmed, 16, 8)
	if err != nil {
		return 0, &OutputParseError{Line: output, Cause: err}
	}
	return uint8(value), nil
}

// parseSdrTemperatures parses the output of "ipmitool sdr type temperature".
// Each line looks like:
//
//	CPU Temp         | 31h | ok  |  3.1 | 45 degrees C
//	Peripheral Temp  | 33h | ns  |  7.2 | No Reading
func parseSdrTemperatures(output string) (map[string]Reading, error) {
	readings := map[string]Reading{}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		fields := strings.Split(line, "|")
		if len(fields) < 5 {
			return nil, &OutputParseError{
				Line:  line,
				Cause: fmt.Errorf("expected 5 columns, got %d", len(fields)),
			}
		}

		name := strings.TrimSpace(fields[0])
		value := strings.TrimSpace(fields[4])

		lowerValue := strings.ToLower(value)
		if strings.Contains(lowerValue, noReadingMarker) || strings.Contains(lowerValue, disabledMarker) {
			readings[name] = Reading{Available: false}
			continue
		}

		// "45 degrees C" -> value "45", units "degrees C"
		valueFields := strings.Fields(value)
		if len(valueFields) < 2 {
			return nil, &OutputParseError{
				Line:  line,
				Cause: fmt.Errorf("cannot split reading %q into value and units", value),
			}
		}

		readings[name] = Reading{
			Value:     valueFields[0],
			Units:     strings.Join(valueFields[1:], " "),
			Available: true,
		}
	}

	return readings, nil
}
