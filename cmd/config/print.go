package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/avern/bmcfand/cmd/global"
	"github.com/avern/bmcfand/internal/aggregation"
	"github.com/avern/bmcfand/internal/configuration"
	"github.com/avern/bmcfand/internal/sources"
	"github.com/avern/bmcfand/internal/ui"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the loaded configuration, including all applied defaults",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := configuration.DetectConfigFile()
		ui.Info("Using configuration file at: %s", configPath)
		configuration.LoadConfig()

		if err := configuration.Validate(); err != nil {
			ui.Fatal("%v", err)
		}

		rows := [][]string{}
		for _, zone := range configuration.CurrentConfig.Zones {
			labels := make([]string, 0, len(zone.Sources))
			for _, source := range zone.Sources {
				labels = append(labels, sources.Label(source))
			}

			ipmiZones := make([]string, 0, len(zone.IpmiZones))
			for _, id := range zone.IpmiZones {
				ipmiZones = append(ipmiZones, fmt.Sprintf("%d", id))
			}

			rows = append(rows, []string{
				zone.Name,
				zone.Session,
				strings.Join(ipmiZones, ","),
				fmt.Sprintf("%ds", zone.Interval),
				aggregation.NewAggregator(zone.Aggregation).String(),
				strings.Join(labels, "\n"),
			})
		}

		tab := table.Table{
			Headers: []string{"Zone", "Session", "IPMI Zones", "Interval", "Aggregation", "Sources"},
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
	Command.AddCommand(printCmd)
}
