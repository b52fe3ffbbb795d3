package fan

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var dutyZone uint8

var dutyCmd = &cobra.Command{
	Use:   "duty",
	Short: "Get/Set the current duty cycle of a fan zone ([0..100])",
	Long:  ``,
	Args:  cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		device, err := connectSession(sessionName)
		if err != nil {
			return err
		}

		if len(args) > 0 {
			dutyCycle, err := strconv.ParseUint(args[0], 10, 8)
			if err != nil {
				return err
			}
			if dutyCycle > 100 {
				return fmt.Errorf("duty cycle out of range: %d, must be in [0..100]", dutyCycle)
			}
			return device.SetDutyCycle(dutyZone, uint8(dutyCycle))
		}

		dutyCycle, err := device.GetDutyCycle(dutyZone)
		if err != nil {
			return err
		}
		fmt.Printf("%d", dutyCycle)

		return nil
	},
}

func init() {
	dutyCmd.Flags().Uint8VarP(
		&dutyZone,
		"zone", "z",
		0,
		"Hardware fan zone id",
	)

	Command.AddCommand(dutyCmd)
}
