package curve

import (
	"sort"

	"github.com/avern/bmcfand/internal/configuration"
)

// DutyCycleCurve maps a control temperature to a target fan duty cycle by
// interpolating between the configured steps. The step list is validated at
// config load time: strictly increasing temperatures, non-decreasing duty
// cycles, all duty cycles <= 100.
type DutyCycleCurve struct {
	steps []configuration.StepConfig
}

func New(steps []configuration.StepConfig) *DutyCycleCurve {
	return &DutyCycleCurve{
		steps: steps,
	}
}

func (c *DutyCycleCurve) Steps() []configuration.StepConfig {
	return c.steps
}

// DutyCycleFor returns the duty cycle in percent for the given temperature
// in degrees Celsius. Temperatures beyond either end of the curve saturate
// at the duty cycle of the nearest step; in between, the value is linearly
// interpolated with integer arithmetic, truncating toward zero.
func (c *DutyCycleCurve) DutyCycleFor(temp uint8) uint8 {
	steps := c.steps

	// index of the first step at or above the current temperature
	idx := sort.Search(len(steps), func(i int) bool {
		return steps[i].Temp >= temp
	})

	var above configuration.StepConfig
	if idx < len(steps) {
		above = steps[idx]
	} else {
		// hotter than the whole curve: saturate at the top
		dcycle := uint8(100)
		if len(steps) > 0 {
			dcycle = steps[len(steps)-1].Dcycle
		}
		above = configuration.StepConfig{Temp: temp, Dcycle: dcycle}
	}

	var below configuration.StepConfig
	if idx > 0 && idx < len(steps) {
		below = steps[idx-1]
	} else {
		// colder than the whole curve (or saturated above): no
		// interpolation partner, use the step itself
		below = above
	}

	if below.Temp == above.Temp {
		return below.Dcycle
	}

	offset := uint32(temp - below.Temp)
	rise := uint32(above.Dcycle - below.Dcycle)
	span := uint32(above.Temp - below.Temp)
	return uint8(offset*rise/span + uint32(below.Dcycle))
}
