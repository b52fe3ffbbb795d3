package curve

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/avern/bmcfand/cmd/global"
	"github.com/avern/bmcfand/internal/aggregation"
	"github.com/avern/bmcfand/internal/configuration"
	"github.com/avern/bmcfand/internal/curve"
	"github.com/avern/bmcfand/internal/ui"
	"github.com/guptarohit/asciigraph"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var Command = &cobra.Command{
	Use:              "curve",
	Short:            "Curve related commands",
	TraverseChildren: true,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the fan curve(s) of all zones to console",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		configPath := configuration.DetectConfigFile()
		ui.Info("Using configuration file at: %s", configPath)
		configuration.LoadConfig()

		if err := configuration.Validate(); err != nil {
			ui.Fatal("%v", err)
		}

		for idx, zoneConf := range configuration.CurrentConfig.Zones {
			if idx > 0 {
				ui.Printfln("")
				ui.Printfln("")
			}

			// print table
			tab := table.Table{
				Headers: []string{"Zone", "Session", "Aggregation", "Steps"},
				Rows: [][]string{
					{
						zoneConf.Name,
						zoneConf.Session,
						aggregation.NewAggregator(zoneConf.Aggregation).String(),
						fmt.Sprintf("%d", len(zoneConf.Steps)),
					},
				},
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

			graphValues := sampleCurve(zoneConf.Steps)
			if graphValues == nil {
				continue
			}

			caption := "Duty Cycle / °C"
			graph := asciigraph.Plot(graphValues, asciigraph.Height(15), asciigraph.Width(100), asciigraph.Caption(caption))
			ui.Printfln(graph)
		}

		return nil
	},
}

// sampleCurve evaluates the duty cycle curve over the configured temperature
// range, with a small margin on both sides to make the clamping visible.
func sampleCurve(steps []configuration.StepConfig) []float64 {
	if len(steps) == 0 {
		return nil
	}

	temps := make([]int, 0, len(steps))
	for _, step := range steps {
		temps = append(temps, int(step.Temp))
	}
	sort.Ints(temps)

	start := temps[0] - 10
	if start < 0 {
		start = 0
	}
	stop := temps[len(temps)-1] + 10
	if stop > 255 {
		stop = 255
	}

	c := curve.New(steps)
	values := make([]float64, 0, stop-start+1)
	for temp := start; temp <= stop; temp++ {
		values = append(values, float64(c.DutyCycleFor(uint8(temp))))
	}
	return values
}

func init() {
	Command.AddCommand(listCmd)
}
