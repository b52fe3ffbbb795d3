package configuration

import (
	"fmt"
	"os"

	"github.com/avern/bmcfand/internal/ui"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	DefaultSessionName = "default"

	DefaultRetries      = uint(2)
	DefaultRetryDelayMs = uint(100)
)

type Configuration struct {
	// PidFile is written on daemon start when set.
	PidFile string `json:"pidFile"`

	Api        ApiConfig        `json:"api"`
	Statistics StatisticsConfig `json:"statistics"`

	// Sessions maps a session name to the ipmitool connection arguments
	// used for it. The "default" session always exists and may be empty
	// (local BMC access).
	Sessions map[string][]string `json:"sessions"`

	Zones []ZoneConfig `json:"zones"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName("bmcfand")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/bmcfand/")
	}

	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues()
}

func setDefaultValues() {
	viper.SetDefault("PidFile", "")
	viper.SetDefault("api.enabled", false)
	viper.SetDefault("api.host", "localhost")
	viper.SetDefault("api.port", 9612)
	viper.SetDefault("statistics.enabled", false)
	viper.SetDefault("statistics.port", 9613)
	viper.SetDefault("zones", []ZoneConfig{})
}

// DetectConfigFile returns the path of the config file viper ended up using.
func DetectConfigFile() string {
	if err := viper.ReadInConfig(); err != nil {
		// config file is required, so we fail here
		ui.Fatal("Error reading config file, %s", err)
	}
	// this is only populated _after_ ReadInConfig()
	return viper.ConfigFileUsed()
}

// LoadConfig decodes the config file into CurrentConfig and fills in
// per-zone defaults. Validation is a separate step, see Validate.
func LoadConfig() {
	err := viper.Unmarshal(&CurrentConfig, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		sourceAndAggregationHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		ui.Fatal("unable to decode into struct, %v", err)
	}

	applyDefaults(&CurrentConfig)
}

// applyDefaults fills in everything the config file may omit: the implicit
// "default" session, zone names, session references, aggregation policy and
// the retry parameters.
func applyDefaults(config *Configuration) {
	if config.Sessions == nil {
		config.Sessions = map[string][]string{}
	}
	if _, ok := config.Sessions[DefaultSessionName]; !ok {
		config.Sessions[DefaultSessionName] = []string{}
	}

	for i := range config.Zones {
		zone := &config.Zones[i]

		if zone.Name == "" {
			zone.Name = fmt.Sprintf("zone%d", i)
		}
		if zone.Session == "" {
			zone.Session = DefaultSessionName
		}
		if zone.Retries == nil {
			retries := DefaultRetries
			zone.Retries = &retries
		}
		if zone.RetryDelayMs == nil {
			delay := DefaultRetryDelayMs
			zone.RetryDelayMs = &delay
		}
		if zone.Aggregation.Maximum == nil && zone.Aggregation.Average == nil {
			zone.Aggregation.Maximum = &MaximumAggregationConfig{}
		}
	}
}
