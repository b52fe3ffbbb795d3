package configuration

// SourceConfig describes where one temperature sample comes from.
// Exactly one of the sub-configurations must be set.
type SourceConfig struct {
	Ipmi   *IpmiSourceConfig   `json:"ipmi,omitempty"`
	File   *FileSourceConfig   `json:"file,omitempty"`
	Smart  *SmartSourceConfig  `json:"smart,omitempty"`
	Hdparm *HdparmSourceConfig `json:"hdparm,omitempty"`
}

// IpmiSourceConfig reads a named temperature sensor from the BMC.
type IpmiSourceConfig struct {
	Sensor string `json:"sensor"`
}

// FileSourceConfig reads a sysfs-style file containing the temperature
// in thousandths of a degree Celsius.
type FileSourceConfig struct {
	Path string `json:"path"`
}

// SmartSourceConfig reads a drive temperature via smartctl.
type SmartSourceConfig struct {
	Device string `json:"device"`
}

// HdparmSourceConfig reads a drive temperature via hdparm.
type HdparmSourceConfig struct {
	Device string `json:"device"`
}
