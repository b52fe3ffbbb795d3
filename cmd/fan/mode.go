package fan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/avern/bmcfand/internal/ipmi"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var modeCmd = &cobra.Command{
	Use:   "mode",
	Short: "Get/Set the current fan mode of the BMC",
	Long:  ``,
	Args:  cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		device, err := connectSession(sessionName)
		if err != nil {
			return err
		}

		if len(args) > 0 {
			firstArg := args[0]
			argAsInt, err := strconv.Atoi(firstArg)
			var mode ipmi.FanMode
			if err != nil {
				switch strings.ToLower(firstArg) {
				case "standard":
					mode = ipmi.FanModeStandard
				case "full":
					mode = ipmi.FanModeFull
				case "optimal":
					mode = ipmi.FanModeOptimal
				case "heavyio":
					mode = ipmi.FanModeHeavyIo
				default:
					return fmt.Errorf("unknown mode: %s, must be one of: 'standard', 'full', 'optimal', 'heavyio'", firstArg)
				}
			} else {
				mode = ipmi.FanMode(argAsInt)
				switch mode {
				case ipmi.FanModeStandard, ipmi.FanModeFull, ipmi.FanModeOptimal, ipmi.FanModeHeavyIo:
					break
				default:
					return fmt.Errorf("unknown mode: %d, must be one of: 'standard', 'full', 'optimal', 'heavyio'", argAsInt)
				}
			}
			if err := device.SetFanMode(mode); err != nil {
				return err
			}
		}

		mode, err := device.GetFanMode()
		if err != nil {
			return err
		}
		fmt.Printf("%s (0x%02x)", mode, uint8(mode))

		return nil
	},
}

func init() {
	Command.AddCommand(modeCmd)
}
