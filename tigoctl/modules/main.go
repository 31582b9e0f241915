package modules

import (
	"fmt"

	"github.com/asnowfix/tigo-cca/hlog"
	"github.com/asnowfix/tigo-cca/pkg/tigo"
	"github.com/asnowfix/tigo-cca/tigoctl/options"

	"github.com/spf13/cobra"
)

var Cmd = &cobra.Command{
	Use:   "modules <host> on|off",
	Short: "Turn every optimizer module on or off",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := hlog.Logger
		ctx := options.CommandLineContext(cmd.Context(), log, options.Flags.CommandTimeout, options.Commit)
		cca := tigo.NewTigoCCA(log, args[0], options.Flags.Username, options.Flags.Password)
		switch args[1] {
		case "on":
			return cca.TurnModulesOn(ctx)
		case "off":
			return cca.TurnModulesOff(ctx)
		default:
			return fmt.Errorf("unknown state %q (want on or off)", args[1])
		}
	},
}
