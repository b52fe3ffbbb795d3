package curve

import (
	"testing"

	"github.com/avern/bmcfand/internal/configuration"
	"github.com/stretchr/testify/assert"
)

func createSteps() []configuration.StepConfig {
	return []configuration.StepConfig{
		{Temp: 40, Dcycle: 20},
		{Temp: 60, Dcycle: 50},
		{Temp: 80, Dcycle: 90},
	}
}

func TestExactStepMatch(t *testing.T) {
	// GIVEN
	c := New(createSteps())

	// WHEN
	result := c.DutyCycleFor(60)

	// THEN
	assert.Equal(t, uint8(50), result)
}

func TestInterpolationBetweenSteps(t *testing.T) {
	// GIVEN
	c := New(createSteps())

	// WHEN
	result := c.DutyCycleFor(50)

	// THEN
	// (50-40) * (50-20) / (60-40) + 20 = 35
	assert.Equal(t, uint8(35), result)
}

func TestInterpolationTruncatesTowardZero(t *testing.T) {
	// GIVEN
	c := New(createSteps())

	// WHEN
	result := c.DutyCycleFor(61)

	// THEN
	// (61-60) * (90-50) / (80-60) + 50 = 52
	assert.Equal(t, uint8(52), result)
}

func TestSaturationBelowLowestStep(t *testing.T) {
	// GIVEN
	c := New(createSteps())

	// WHEN
	result := c.DutyCycleFor(10)

	// THEN
	assert.Equal(t, uint8(20), result)
}

func TestSaturationAboveHighestStep(t *testing.T) {
	// GIVEN
	c := New(createSteps())

	// WHEN
	result := c.DutyCycleFor(95)

	// THEN
	assert.Equal(t, uint8(90), result)
}

func TestEmptyCurveDefaultsToFullSpeed(t *testing.T) {
	// GIVEN
	c := New(nil)

	// WHEN
	result := c.DutyCycleFor(50)

	// THEN
	assert.Equal(t, uint8(100), result)
}

func TestCurveIsMonotonicallyNonDecreasing(t *testing.T) {
	// GIVEN
	c := New(createSteps())

	// WHEN / THEN
	previous := c.DutyCycleFor(0)
	for temp := 1; temp <= 255; temp++ {
		current := c.DutyCycleFor(uint8(temp))
		assert.GreaterOrEqual(t, current, previous, "curve decreased at %d", temp)
		previous = current
	}
}

func TestAllStepBoundariesYieldExactValues(t *testing.T) {
	// GIVEN
	steps := createSteps()
	c := New(steps)

	// WHEN / THEN
	for _, step := range steps {
		assert.Equal(t, step.Dcycle, c.DutyCycleFor(step.Temp))
	}
}
