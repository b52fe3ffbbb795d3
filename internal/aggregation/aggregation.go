package aggregation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/avern/bmcfand/internal/configuration"
)

// ErrNoValidReadings is returned when a zone ends up with zero usable
// temperature readings for a tick.
var ErrNoValidReadings = errors.New("no sensors had valid temperature readings")

// Aggregator reduces the readings of one zone to a single control
// temperature.
type Aggregator interface {
	Aggregate(readings []uint8) (uint8, error)
	String() string
}

func NewAggregator(config configuration.AggregationConfig) Aggregator {
	if config.Average != nil {
		return &averageAggregator{
			top: config.Average.Top,
		}
	}
	return &maximumAggregator{}
}

type maximumAggregator struct{}

func (a *maximumAggregator) Aggregate(readings []uint8) (uint8, error) {
	if len(readings) == 0 {
		return 0, ErrNoValidReadings
	}

	max := readings[0]
	for _, r := range readings[1:] {
		if r > max {
			max = r
		}
	}
	return max, nil
}

func (a *maximumAggregator) String() string {
	return "maximum"
}

// averageAggregator averages the top-N hottest readings. Biasing toward the
// warmest sensors keeps one hot component from being diluted by many cool
// ones.
type averageAggregator struct {
	top *uint
}

func (a *averageAggregator) Aggregate(readings []uint8) (uint8, error) {
	n := len(readings)
	if a.top != nil && int(*a.top) < n {
		n = int(*a.top)
	}
	if n == 0 {
		return 0, ErrNoValidReadings
	}

	sorted := make([]uint8, len(readings))
	copy(sorted, readings)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] > sorted[j]
	})

	sum := 0
	for _, r := range sorted[:n] {
		sum += int(r)
	}
	return uint8(sum / n), nil
}

func (a *averageAggregator) String() string {
	if a.top != nil {
		return fmt.Sprintf("average(top %d)", *a.top)
	}
	return "average"
}
