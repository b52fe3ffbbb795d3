package configuration

import (
	"fmt"

	"golang.org/x/exp/slices"
)

func Validate() error {
	return validateConfig(&CurrentConfig)
}

func validateConfig(config *Configuration) error {
	if len(config.Zones) <= 0 {
		return fmt.Errorf("zones: must be non-empty")
	}

	var zoneNames []string
	for i := range config.Zones {
		zone := &config.Zones[i]

		if slices.Contains(zoneNames, zone.Name) {
			return fmt.Errorf("zones[%d].name: duplicate zone name: %s", i, zone.Name)
		}
		zoneNames = append(zoneNames, zone.Name)

		if err := validateZone(config, i, zone); err != nil {
			return err
		}
	}

	return nil
}

func validateZone(config *Configuration, i int, zone *ZoneConfig) error {
	if zone.Interval <= 0 {
		return fmt.Errorf("zones[%d].interval: must be greater than 0", i)
	}

	if len(zone.IpmiZones) <= 0 {
		return fmt.Errorf("zones[%d].ipmiZones: must be non-empty", i)
	}

	if len(zone.Sources) <= 0 {
		return fmt.Errorf("zones[%d].sources: must be non-empty", i)
	}

	if _, ok := config.Sessions[zone.Session]; !ok {
		return fmt.Errorf("zones[%d].session: %q does not exist", i, zone.Session)
	}

	for j, source := range zone.Sources {
		if err := validateSource(source); err != nil {
			return fmt.Errorf("zones[%d].sources[%d]: %w", i, j, err)
		}
	}

	if err := validateAggregation(zone.Aggregation); err != nil {
		return fmt.Errorf("zones[%d].aggregation: %w", i, err)
	}

	if err := validateSteps(zone.Steps); err != nil {
		return fmt.Errorf("zones[%d].steps: %w", i, err)
	}

	return nil
}

func validateSource(source SourceConfig) error {
	subConfigs := 0
	if source.Ipmi != nil {
		subConfigs++
		if len(source.Ipmi.Sensor) <= 0 {
			return fmt.Errorf("ipmi source: missing sensor name")
		}
	}
	if source.File != nil {
		subConfigs++
		if len(source.File.Path) <= 0 {
			return fmt.Errorf("file source: missing path")
		}
	}
	if source.Smart != nil {
		subConfigs++
		if len(source.Smart.Device) <= 0 {
			return fmt.Errorf("smart source: missing device")
		}
	}
	if source.Hdparm != nil {
		subConfigs++
		if len(source.Hdparm.Device) <= 0 {
			return fmt.Errorf("hdparm source: missing device")
		}
	}

	if subConfigs > 1 {
		return fmt.Errorf("only one source type can be used per source definition block")
	}
	if subConfigs <= 0 {
		return fmt.Errorf("sub-configuration for source is missing, use one of: ipmi | file | smart | hdparm")
	}
	return nil
}

func validateAggregation(aggregation AggregationConfig) error {
	if aggregation.Maximum != nil && aggregation.Average != nil {
		return fmt.Errorf("only one aggregation type can be used per zone")
	}

	if aggregation.Average != nil && aggregation.Average.Top != nil && *aggregation.Average.Top == 0 {
		return fmt.Errorf("average.top: must be greater than 0")
	}

	return nil
}

func validateSteps(steps []StepConfig) error {
	for i := 1; i < len(steps); i++ {
		if steps[i-1].Temp >= steps[i].Temp {
			return fmt.Errorf("temp values are not strictly increasing")
		}
		if steps[i-1].Dcycle > steps[i].Dcycle {
			return fmt.Errorf("dcycle values are decreasing")
		}
	}

	for i, step := range steps {
		if step.Dcycle > 100 {
			return fmt.Errorf("[%d].dcycle: invalid percentage: %d", i, step.Dcycle)
		}
	}

	return nil
}
