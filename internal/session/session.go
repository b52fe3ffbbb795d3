package session

import (
	"sync"

	"github.com/avern/bmcfand/internal/ipmi"
	"github.com/avern/bmcfand/internal/ui"
)

// fullSpeedDutyCycle is written to every controlled zone before handing
// control back to the firmware. Control must never return to the firmware
// while a zone is parked at a low duty cycle.
const fullSpeedDutyCycle = 100

// Session owns one BMC connection. All hardware calls of the zones bound to
// this session are serialized through it; the original fan mode is captured
// on open and restored exactly once on release.
type Session struct {
	// Name of the session, for logging.
	Name string

	device ipmi.Device
	mu     sync.Mutex

	originalFanMode ipmi.FanMode
	restoreZones    []uint8

	releaseOnce sync.Once
}

// Open connects to the BMC with the given ipmitool arguments, remembers the
// currently active fan mode and takes over control by forcing the Full
// cooling policy. restoreZones is the union of hardware fan zone ids of all
// configured zones bound to this session.
func Open(name string, connectArgs []string, restoreZones []uint8) (*Session, error) {
	device, err := ipmi.Connect(connectArgs)
	if err != nil {
		return nil, err
	}

	return OpenWithDevice(name, device, restoreZones)
}

// OpenWithDevice is Open for an already connected device.
func OpenWithDevice(name string, device ipmi.Device, restoreZones []uint8) (*Session, error) {
	originalFanMode, err := device.GetFanMode()
	if err != nil {
		return nil, err
	}

	ui.Info("[%s] Original fan mode: %s", name, originalFanMode)
	ui.Info("[%s] Setting fan mode to: %s", name, ipmi.FanModeFull)

	if err := device.SetFanMode(ipmi.FanModeFull); err != nil {
		return nil, err
	}

	return &Session{
		Name:            name,
		device:          device,
		originalFanMode: originalFanMode,
		restoreZones:    restoreZones,
	}, nil
}

// WithDevice runs fn while holding exclusive access to the BMC connection.
// Zones sharing a session block on each other here and never interleave
// commands on the wire.
func (s *Session) WithDevice(fn func(device ipmi.Device) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.device)
}

// Release sets every controlled zone to full speed and then restores the
// fan mode that was active before the takeover. It runs exactly once, no
// matter how often or from how many shutdown paths it is called. Failures
// are logged but never escalated, a failed restore attempt must not abort
// the remaining cleanup.
func (s *Session) Release() {
	s.releaseOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		for _, zone := range s.restoreZones {
			ui.Info("[%s] Setting zone %d duty cycle to %d%%", s.Name, zone, fullSpeedDutyCycle)
			if err := s.device.SetDutyCycle(zone, fullSpeedDutyCycle); err != nil {
				ui.Error("[%s] Failed to set duty cycle of zone %d: %v", s.Name, zone, err)
			}
		}

		ui.Info("[%s] Restoring fan mode to: %s", s.Name, s.originalFanMode)
		if err := s.device.SetFanMode(s.originalFanMode); err != nil {
			ui.Error("[%s] Failed to restore fan mode: %v", s.Name, err)
		}
	})
}
