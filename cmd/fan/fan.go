package fan

import (
	"fmt"

	"github.com/avern/bmcfand/internal/configuration"
	"github.com/avern/bmcfand/internal/ipmi"
	"github.com/avern/bmcfand/internal/ui"
	"github.com/spf13/cobra"
)

var sessionName string

var Command = &cobra.Command{
	Use:              "fan",
	Short:            "Fan related commands",
	Long:             ``,
	TraverseChildren: true,
}

func init() {
	Command.PersistentFlags().StringVarP(
		&sessionName,
		"session", "s",
		configuration.DefaultSessionName,
		"Session name as specified in the config",
	)
}

// connectSession connects to the BMC of the given session without taking
// over fan control.
func connectSession(name string) (ipmi.Device, error) {
	configPath := configuration.DetectConfigFile()
	ui.Info("Using configuration file at: %s", configPath)
	configuration.LoadConfig()

	connectArgs, ok := configuration.CurrentConfig.Sessions[name]
	if !ok {
		return nil, fmt.Errorf("no session with name found: %s", name)
	}

	return ipmi.Connect(connectArgs)
}
