package sources

import (
	"fmt"
	"time"

	"github.com/avern/bmcfand/internal/configuration"
	"github.com/avern/bmcfand/internal/ipmi"
	"github.com/avern/bmcfand/internal/util"
)

const commandTimeout = 10 * time.Second

type runCommandFunc func(executable string, args []string, timeout time.Duration) (string, int, error)

// Reader resolves the configured temperature sources of one zone to
// readings in whole degrees Celsius.
type Reader struct {
	sources    []configuration.SourceConfig
	runCommand runCommandFunc
}

func NewReader(sources []configuration.SourceConfig) *Reader {
	return &Reader{
		sources:    sources,
		runCommand: util.RunCommand,
	}
}

// ReadAll resolves every source once. All IPMI sources are served from a
// single batched BMC query to keep the number of slow BMC round trips down.
// Hardware interactions (the BMC query, smartctl, hdparm) run through the
// given retrier; any source that still fails afterwards fails the whole
// call. Drives in standby are skipped instead of failing, so the result may
// contain fewer readings than there are sources.
func (r *Reader) ReadAll(dev ipmi.Device, retry util.Retrier) ([]uint8, error) {
	var bmcReadings map[string]ipmi.Reading
	if r.hasIpmiSource() {
		err := retry(func() error {
			var err error
			bmcReadings, err = dev.GetTemperatures()
			return err
		})
		if err != nil {
			return nil, err
		}
	}

	readings := make([]uint8, 0, len(r.sources))
	for _, source := range r.sources {
		switch {
		case source.Ipmi != nil:
			value, err := readIpmiSensor(bmcReadings, source.Ipmi.Sensor)
			if err != nil {
				return nil, err
			}
			readings = append(readings, value)

		case source.File != nil:
			value, err := readFileSource(source.File.Path)
			if err != nil {
				return nil, err
			}
			readings = append(readings, value)

		case source.Smart != nil:
			var value *uint8
			err := retry(func() error {
				var err error
				value, err = r.readSmartSource(source.Smart.Device)
				return err
			})
			if err != nil {
				return nil, err
			}
			if value != nil {
				readings = append(readings, *value)
			}

		case source.Hdparm != nil:
			var value uint8
			err := retry(func() error {
				var err error
				value, err = r.readHdparmSource(source.Hdparm.Device)
				return err
			})
			if err != nil {
				return nil, err
			}
			readings = append(readings, value)

		default:
			// unreachable after config validation
			return nil, fmt.Errorf("source has no backend configured")
		}
	}

	return readings, nil
}

func (r *Reader) hasIpmiSource() bool {
	for _, source := range r.sources {
		if source.Ipmi != nil {
			return true
		}
	}
	return false
}

// Label describes a source for logs and console output.
func Label(source configuration.SourceConfig) string {
	switch {
	case source.Ipmi != nil:
		return fmt.Sprintf("ipmi:%s", source.Ipmi.Sensor)
	case source.File != nil:
		return fmt.Sprintf("file:%s", source.File.Path)
	case source.Smart != nil:
		return fmt.Sprintf("smart:%s", source.Smart.Device)
	case source.Hdparm != nil:
		return fmt.Sprintf("hdparm:%s", source.Hdparm.Device)
	default:
		return "unknown"
	}
}
