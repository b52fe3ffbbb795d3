package session

import (
	"errors"
	"sync"
	"testing"

	"github.com/avern/bmcfand/internal/ipmi"
	"github.com/stretchr/testify/assert"
)

// call records one device operation for ordering assertions.
type call struct {
	op   string
	zone uint8
	arg  uint8
}

type MockDevice struct {
	mu    sync.Mutex
	Mode  ipmi.FanMode
	Calls []call

	FanModeErr   error
	SetModeErr   error
	DutyCycleErr error
}

func (d *MockDevice) record(c call) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls = append(d.Calls, c)
}

func (d *MockDevice) GetFanMode() (ipmi.FanMode, error) {
	d.record(call{op: "getFanMode"})
	return d.Mode, d.FanModeErr
}

func (d *MockDevice) SetFanMode(mode ipmi.FanMode) error {
	d.record(call{op: "setFanMode", arg: uint8(mode)})
	if d.SetModeErr != nil {
		return d.SetModeErr
	}
	d.Mode = mode
	return nil
}

func (d *MockDevice) GetDutyCycle(zone uint8) (uint8, error) {
	d.record(call{op: "getDutyCycle", zone: zone})
	return 50, nil
}

func (d *MockDevice) SetDutyCycle(zone uint8, dutyCycle uint8) error {
	d.record(call{op: "setDutyCycle", zone: zone, arg: dutyCycle})
	return d.DutyCycleErr
}

func (d *MockDevice) GetTemperatures() (map[string]ipmi.Reading, error) {
	d.record(call{op: "getTemperatures"})
	return map[string]ipmi.Reading{}, nil
}

func TestOpenCapturesOriginalModeAndForcesFull(t *testing.T) {
	// GIVEN
	dev := &MockDevice{Mode: ipmi.FanModeOptimal}

	// WHEN
	s, err := OpenWithDevice("default", dev, []uint8{0, 1})

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, ipmi.FanModeFull, dev.Mode)
	assert.Equal(t, ipmi.FanModeOptimal, s.originalFanMode)
}

func TestOpenFailsWhenFanModeUnreadable(t *testing.T) {
	// GIVEN
	dev := &MockDevice{FanModeErr: errors.New("bmc unreachable")}

	// WHEN
	_, err := OpenWithDevice("default", dev, []uint8{0})

	// THEN
	assert.Error(t, err)
	// no takeover happened, nothing to restore
	for _, c := range dev.Calls {
		assert.NotEqual(t, "setFanMode", c.op)
	}
}

func TestReleaseRestoresZonesThenFanMode(t *testing.T) {
	// GIVEN
	dev := &MockDevice{Mode: ipmi.FanModeStandard}
	s, err := OpenWithDevice("default", dev, []uint8{0, 1})
	assert.NoError(t, err)
	dev.Calls = nil

	// WHEN
	s.Release()

	// THEN
	assert.Equal(t, []call{
		{op: "setDutyCycle", zone: 0, arg: 100},
		{op: "setDutyCycle", zone: 1, arg: 100},
		{op: "setFanMode", arg: uint8(ipmi.FanModeStandard)},
	}, dev.Calls)
}

func TestReleaseRunsExactlyOnce(t *testing.T) {
	// GIVEN
	dev := &MockDevice{Mode: ipmi.FanModeStandard}
	s, err := OpenWithDevice("default", dev, []uint8{0})
	assert.NoError(t, err)
	dev.Calls = nil

	// WHEN
	s.Release()
	s.Release()
	s.Release()

	// THEN
	assert.Len(t, dev.Calls, 2)
}

func TestReleaseContinuesPastDutyCycleFailure(t *testing.T) {
	// GIVEN
	dev := &MockDevice{Mode: ipmi.FanModeStandard}
	s, err := OpenWithDevice("default", dev, []uint8{0, 1})
	assert.NoError(t, err)
	dev.Calls = nil
	dev.DutyCycleErr = errors.New("write failed")

	// WHEN
	s.Release()

	// THEN
	// both zones were attempted and the fan mode was still restored
	assert.Equal(t, "setDutyCycle", dev.Calls[0].op)
	assert.Equal(t, "setDutyCycle", dev.Calls[1].op)
	assert.Equal(t, "setFanMode", dev.Calls[2].op)
}

func TestWithDeviceSerializesAccess(t *testing.T) {
	// GIVEN
	dev := &MockDevice{}
	s, err := OpenWithDevice("default", dev, nil)
	assert.NoError(t, err)

	inside := 0
	maxInside := 0
	var insideMu sync.Mutex

	// WHEN
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.WithDevice(func(device ipmi.Device) error {
				insideMu.Lock()
				inside++
				if inside > maxInside {
					maxInside = inside
				}
				insideMu.Unlock()

				_, _ = device.GetTemperatures()

				insideMu.Lock()
				inside--
				insideMu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	// THEN
	assert.Equal(t, 1, maxInside)
}
