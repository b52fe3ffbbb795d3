package configuration

// AggregationConfig selects how a zone's sensor readings are reduced to a
// single control temperature. Exactly one of the sub-configurations must be
// set; maximum is the default.
type AggregationConfig struct {
	Maximum *MaximumAggregationConfig `json:"maximum,omitempty"`
	Average *AverageAggregationConfig `json:"average,omitempty"`
}

// MaximumAggregationConfig uses the single hottest reading.
type MaximumAggregationConfig struct{}

// AverageAggregationConfig averages the Top hottest readings, or all of
// them when Top is unset.
type AverageAggregationConfig struct {
	Top *uint `json:"top,omitempty"`
}
