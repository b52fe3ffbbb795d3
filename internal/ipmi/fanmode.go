package ipmi

import "fmt"

// FanMode is the firmware cooling policy of the BMC. While a fan mode other
// than Full is active, the firmware may override manually set duty cycles.
type FanMode uint8

const (
	FanModeStandard FanMode = 0
	FanModeFull     FanMode = 1
	FanModeOptimal  FanMode = 2
	FanModeHeavyIo  FanMode = 4
)

func (m FanMode) String() string {
	switch m {
	case FanModeStandard:
		return "standard"
	case FanModeFull:
		return "full"
	case FanModeOptimal:
		return "optimal"
	case FanModeHeavyIo:
		return "heavy-io"
	default:
		return fmt.Sprintf("unknown(0x%02x)", uint8(m))
	}
}
