package configuration

import "time"

type ZoneConfig struct {
	// Name identifies the zone in logs, the API and statistics.
	Name string `json:"name"`

	// Session is the name of the IPMI session this zone actuates through.
	Session string `json:"session"`

	// Interval between two control ticks, in seconds.
	Interval int `json:"interval"`

	// Retries is the number of additional attempts for a failed
	// hardware operation.
	Retries *uint `json:"retries"`

	// RetryDelayMs is the fixed pause between attempts, in milliseconds.
	RetryDelayMs *uint `json:"retryDelayMs"`

	// IpmiZones lists the hardware fan zone ids controlled by this zone.
	IpmiZones []uint8 `json:"ipmiZones"`

	Sources     []SourceConfig    `json:"sources"`
	Aggregation AggregationConfig `json:"aggregation"`
	Steps       []StepConfig      `json:"steps"`
}

// StepConfig is one point of a zone's fan curve: at Temp degrees Celsius
// the fans run at Dcycle percent.
type StepConfig struct {
	Temp   uint8 `json:"temp"`
	Dcycle uint8 `json:"dcycle"`
}

func (z ZoneConfig) IntervalDuration() time.Duration {
	return time.Duration(z.Interval) * time.Second
}

func (z ZoneConfig) RetryDelay() time.Duration {
	if z.RetryDelayMs == nil {
		return time.Duration(DefaultRetryDelayMs) * time.Millisecond
	}
	return time.Duration(*z.RetryDelayMs) * time.Millisecond
}

func (z ZoneConfig) RetryCount() uint {
	if z.Retries == nil {
		return DefaultRetries
	}
	return *z.Retries
}
