package configuration

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// sourceAndAggregationHookFunc returns a mapstructure decode hook that
// accepts the compact tagged form for sources and aggregations:
//
//	sources:
//	  - type: ipmi
//	    sensor: CPU Temp
//	aggregation:
//	  type: average
//	  top: 2
//
// and rewrites it into the nested form the structs decode naturally:
//
//	sources:
//	  - ipmi:
//	      sensor: CPU Temp
func sourceAndAggregationHookFunc() mapstructure.DecodeHookFuncType {
	sourceType := reflect.TypeOf(SourceConfig{})
	aggregationType := reflect.TypeOf(AggregationConfig{})

	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		switch t {
		case sourceType:
			return normalizeTagged(data, "source")
		case aggregationType:
			return normalizeTagged(data, "aggregation")
		default:
			return data, nil
		}
	}
}

// normalizeTagged rewrites {"type": <tag>, <fields>...} into
// {<tag>: {<fields>...}}. Untagged maps pass through unchanged.
func normalizeTagged(data interface{}, what string) (interface{}, error) {
	m, ok := toStringKeyedMap(data)
	if !ok {
		return data, nil
	}

	rawTag, hasTag := m["type"]
	if !hasTag {
		return data, nil
	}

	tag, ok := rawTag.(string)
	if !ok {
		return nil, fmt.Errorf("%s type must be a string, got %T", what, rawTag)
	}

	fields := map[string]interface{}{}
	for k, v := range m {
		if k != "type" {
			fields[k] = v
		}
	}

	return map[string]interface{}{tag: fields}, nil
}

func toStringKeyedMap(data interface{}) (map[string]interface{}, bool) {
	switch v := data.(type) {
	case map[string]interface{}:
		return v, true
	case map[interface{}]interface{}:
		result := map[string]interface{}{}
		for k, val := range v {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			result[ks] = val
		}
		return result, true
	default:
		return nil, false
	}
}
