package sensor

import (
	"bytes"
	"context"
	"fmt"

	"github.com/avern/bmcfand/cmd/global"
	"github.com/avern/bmcfand/internal/configuration"
	"github.com/avern/bmcfand/internal/ipmi"
	"github.com/avern/bmcfand/internal/sources"
	"github.com/avern/bmcfand/internal/ui"
	"github.com/avern/bmcfand/internal/util"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var zoneName string

var Command = &cobra.Command{
	Use:   "sensor",
	Short: "Print the current readings of all configured temperature sources",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := configuration.DetectConfigFile()
		ui.Info("Using configuration file at: %s", configPath)
		configuration.LoadConfig()
		if err := configuration.Validate(); err != nil {
			ui.Fatal("%v", err)
		}

		devices := map[string]ipmi.Device{}

		rows := [][]string{}
		for _, zone := range configuration.CurrentConfig.Zones {
			if zoneName != "" && zone.Name != zoneName {
				continue
			}

			device, err := deviceFor(zone, devices)
			if err != nil {
				return err
			}

			retrier := util.Retrier(func(op func() error) error {
				return util.Retry(context.Background(), zone.RetryCount(), zone.RetryDelay(), op)
			})

			for _, source := range zone.Sources {
				readings, err := sources.NewReader([]configuration.SourceConfig{source}).ReadAll(device, retrier)
				if err != nil {
					return err
				}

				// drives in standby yield no reading
				value := "standby"
				if len(readings) > 0 {
					value = fmt.Sprintf("%d°C", readings[0])
				}
				rows = append(rows, []string{zone.Name, sources.Label(source), value})
			}
		}

		if len(rows) == 0 {
			return fmt.Errorf("no zone with name found: %s", zoneName)
		}

		tab := table.Table{
			Headers: []string{"Zone", "Source", "Temperature"},
			Rows:    rows,
		}
		var buf bytes.Buffer
		tableErr := tab.WriteTable(&buf, &table.Config{
			ShowIndex:       false,
			Color:           !global.NoColor,
			AlternateColors: true,
			TitleColorCode:  ansi.ColorCode("white+buf"),
			AltColorCodes: []string{
				ansi.ColorCode("white"),
				ansi.ColorCode("white:236"),
			},
		})
		if tableErr != nil {
			panic(tableErr)
		}
		ui.Printfln(buf.String())

		return nil
	},
}

func init() {
	Command.Flags().StringVarP(
		&zoneName,
		"zone", "z",
		"",
		"Only read the sources of the zone with this name",
	)
}

// deviceFor connects the session of the given zone, reusing connections
// between zones bound to the same session. Zones without any ipmi source
// never touch the BMC.
func deviceFor(zone configuration.ZoneConfig, devices map[string]ipmi.Device) (ipmi.Device, error) {
	if !hasIpmiSource(zone) {
		return nil, nil
	}

	if device, ok := devices[zone.Session]; ok {
		return device, nil
	}

	device, err := ipmi.Connect(configuration.CurrentConfig.Sessions[zone.Session])
	if err != nil {
		return nil, err
	}
	devices[zone.Session] = device
	return device, nil
}

func hasIpmiSource(zone configuration.ZoneConfig) bool {
	for _, source := range zone.Sources {
		if source.Ipmi != nil {
			return true
		}
	}
	return false
}
