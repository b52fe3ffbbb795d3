package sources

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/avern/bmcfand/internal/configuration"
	"github.com/avern/bmcfand/internal/ipmi"
	"github.com/stretchr/testify/assert"
)

// passthroughRetry runs the operation exactly once.
func passthroughRetry(op func() error) error {
	return op()
}

type MockDevice struct {
	FanMode      ipmi.FanMode
	DutyCycles   map[uint8]uint8
	Temperatures map[string]ipmi.Reading

	TemperatureQueries int
}

func (d *MockDevice) GetFanMode() (ipmi.FanMode, error) {
	return d.FanMode, nil
}

func (d *MockDevice) SetFanMode(mode ipmi.FanMode) error {
	d.FanMode = mode
	return nil
}

func (d *MockDevice) GetDutyCycle(zone uint8) (uint8, error) {
	return d.DutyCycles[zone], nil
}

func (d *MockDevice) SetDutyCycle(zone uint8, dutyCycle uint8) error {
	d.DutyCycles[zone] = dutyCycle
	return nil
}

func (d *MockDevice) GetTemperatures() (map[string]ipmi.Reading, error) {
	d.TemperatureQueries++
	return d.Temperatures, nil
}

func writeTempFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "temp1_input")
	assert.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestReadFileSource(t *testing.T) {
	// GIVEN
	path := writeTempFile(t, "45000\n")

	// WHEN
	value, err := readFileSource(path)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, uint8(45), value)
}

func TestReadFileSourceGarbage(t *testing.T) {
	// GIVEN
	path := writeTempFile(t, "not a number")

	// WHEN
	_, err := readFileSource(path)

	// THEN
	var parseErr *ValueParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestReadFileSourceOutOfRange(t *testing.T) {
	// GIVEN
	path := writeTempFile(t, "300000")

	// WHEN
	_, err := readFileSource(path)

	// THEN
	var boundsErr *BoundsExceededError
	assert.ErrorAs(t, err, &boundsErr)
	assert.Equal(t, int64(300), boundsErr.Value)
}

func TestReadIpmiSensor(t *testing.T) {
	// GIVEN
	readings := map[string]ipmi.Reading{
		"CPU Temp": {Value: "45", Units: "degrees C", Available: true},
	}

	// WHEN
	value, err := readIpmiSensor(readings, "CPU Temp")

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, uint8(45), value)
}

func TestReadIpmiSensorNotFound(t *testing.T) {
	// WHEN
	_, err := readIpmiSensor(map[string]ipmi.Reading{}, "CPU Temp")

	// THEN
	var notFoundErr *SensorNotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, "CPU Temp", notFoundErr.Sensor)
}

func TestReadIpmiSensorNoReading(t *testing.T) {
	// GIVEN
	readings := map[string]ipmi.Reading{
		"Peripheral Temp": {Available: false},
	}

	// WHEN
	_, err := readIpmiSensor(readings, "Peripheral Temp")

	// THEN
	var noReadingErr *NoReadingError
	assert.ErrorAs(t, err, &noReadingErr)
}

func TestReadIpmiSensorBadUnits(t *testing.T) {
	// GIVEN
	readings := map[string]ipmi.Reading{
		"FAN1": {Value: "4200", Units: "RPM", Available: true},
	}

	// WHEN
	_, err := readIpmiSensor(readings, "FAN1")

	// THEN
	var unitsErr *BadUnitsError
	assert.ErrorAs(t, err, &unitsErr)
	assert.Equal(t, "RPM", unitsErr.Units)
}

func TestReadIpmiSensorValueOutOfRange(t *testing.T) {
	// GIVEN
	readings := map[string]ipmi.Reading{
		"CPU Temp": {Value: "300", Units: "degrees C", Available: true},
	}

	// WHEN
	_, err := readIpmiSensor(readings, "CPU Temp")

	// THEN
	var boundsErr *BoundsExceededError
	assert.ErrorAs(t, err, &boundsErr)
	assert.Equal(t, int64(300), boundsErr.Value)
}

func TestParseSmartOutput(t *testing.T) {
	// GIVEN
	output := []byte(`{"temperature": {"current": 38}}`)

	// WHEN
	value, err := parseSmartOutput(output, "/dev/sda")

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, uint8(38), *value)
}

func TestParseSmartOutputMissingTemperature(t *testing.T) {
	// GIVEN
	output := []byte(`{"device": {"name": "/dev/sda"}}`)

	// WHEN
	_, err := parseSmartOutput(output, "/dev/sda")

	// THEN
	var noReadingErr *NoReadingError
	assert.ErrorAs(t, err, &noReadingErr)
}

func TestParseSmartOutputInvalidJson(t *testing.T) {
	// WHEN
	_, err := parseSmartOutput([]byte("not json"), "/dev/sda")

	// THEN
	var parseErr *ValueParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestSmartSourceStandbyDriveIsSkipped(t *testing.T) {
	// GIVEN
	reader := NewReader([]configuration.SourceConfig{
		{Smart: &configuration.SmartSourceConfig{Device: "/dev/sda"}},
	})
	reader.runCommand = func(executable string, args []string, timeout time.Duration) (string, int, error) {
		assert.Equal(t, smartctlBinary, executable)
		return `{"device": {"name": "/dev/sda"}}`, smartExitStandby, nil
	}

	// WHEN
	value, err := reader.readSmartSource("/dev/sda")

	// THEN
	assert.NoError(t, err)
	assert.Nil(t, value)
}

func TestSmartSourceUnexpectedExitCode(t *testing.T) {
	// GIVEN
	reader := NewReader(nil)
	reader.runCommand = func(executable string, args []string, timeout time.Duration) (string, int, error) {
		return "", 4, nil
	}

	// WHEN
	_, err := reader.readSmartSource("/dev/sda")

	// THEN
	var cmdErr *CommandFailedError
	assert.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 4, cmdErr.ExitCode)
}

func TestParseHdparmOutput(t *testing.T) {
	// GIVEN
	output := `/dev/sda:
 drive temperature (celsius) is:  40
 drive temperature in range:  yes
`

	// WHEN
	value, err := parseHdparmOutput(output, "/dev/sda")

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, uint8(40), value)
}

func TestParseHdparmOutputBadSenseData(t *testing.T) {
	// GIVEN
	output := `/dev/sda:
SG_IO: bad/missing sense data, sb[]:  70 00 01 00
 drive temperature (celsius) is:  0
`

	// WHEN
	_, err := parseHdparmOutput(output, "/dev/sda")

	// THEN
	var noReadingErr *NoReadingError
	assert.ErrorAs(t, err, &noReadingErr)
}

func TestParseHdparmOutputNegativePlaceholder(t *testing.T) {
	// GIVEN
	output := " drive temperature (celsius) is:  -1\n"

	// WHEN
	_, err := parseHdparmOutput(output, "/dev/sda")

	// THEN
	var boundsErr *BoundsExceededError
	assert.ErrorAs(t, err, &boundsErr)
	assert.Equal(t, int64(-1), boundsErr.Value)
}

func TestParseHdparmOutputWithoutMarkers(t *testing.T) {
	// GIVEN
	output := "/dev/sda:\n nothing useful here\n"

	// WHEN
	_, err := parseHdparmOutput(output, "/dev/sda")

	// THEN
	var noReadingErr *NoReadingError
	assert.ErrorAs(t, err, &noReadingErr)
}

func TestReadAllBatchesIpmiQueries(t *testing.T) {
	// GIVEN
	dev := &MockDevice{
		Temperatures: map[string]ipmi.Reading{
			"CPU Temp":    {Value: "45", Units: "degrees C", Available: true},
			"System Temp": {Value: "28", Units: "degrees C", Available: true},
		},
	}
	reader := NewReader([]configuration.SourceConfig{
		{Ipmi: &configuration.IpmiSourceConfig{Sensor: "CPU Temp"}},
		{Ipmi: &configuration.IpmiSourceConfig{Sensor: "System Temp"}},
	})

	// WHEN
	readings, err := reader.ReadAll(dev, passthroughRetry)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, []uint8{45, 28}, readings)
	// both sensors resolved from one batched query
	assert.Equal(t, 1, dev.TemperatureQueries)
}

func TestReadAllMixedSources(t *testing.T) {
	// GIVEN
	path := writeTempFile(t, "52000")
	dev := &MockDevice{
		Temperatures: map[string]ipmi.Reading{
			"CPU Temp": {Value: "45", Units: "degrees C", Available: true},
		},
	}
	reader := NewReader([]configuration.SourceConfig{
		{Ipmi: &configuration.IpmiSourceConfig{Sensor: "CPU Temp"}},
		{File: &configuration.FileSourceConfig{Path: path}},
		{Smart: &configuration.SmartSourceConfig{Device: "/dev/sda"}},
	})
	reader.runCommand = func(executable string, args []string, timeout time.Duration) (string, int, error) {
		return `{"temperature": {"current": 38}}`, 0, nil
	}

	// WHEN
	readings, err := reader.ReadAll(dev, passthroughRetry)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, []uint8{45, 52, 38}, readings)
}

func TestReadAllFailsFastOnBrokenSource(t *testing.T) {
	// GIVEN
	dev := &MockDevice{
		Temperatures: map[string]ipmi.Reading{},
	}
	reader := NewReader([]configuration.SourceConfig{
		{Ipmi: &configuration.IpmiSourceConfig{Sensor: "CPU Temp"}},
	})

	// WHEN
	_, err := reader.ReadAll(dev, passthroughRetry)

	// THEN
	var notFoundErr *SensorNotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "ipmi:CPU Temp", Label(configuration.SourceConfig{
		Ipmi: &configuration.IpmiSourceConfig{Sensor: "CPU Temp"},
	}))
	assert.Equal(t, "file:/tmp/temp", Label(configuration.SourceConfig{
		File: &configuration.FileSourceConfig{Path: "/tmp/temp"},
	}))
	assert.Equal(t, "smart:/dev/sda", Label(configuration.SourceConfig{
		Smart: &configuration.SmartSourceConfig{Device: "/dev/sda"},
	}))
	assert.Equal(t, "hdparm:/dev/sdb", Label(configuration.SourceConfig{
		Hdparm: &configuration.HdparmSourceConfig{Device: "/dev/sdb"},
	}))
}
