package status

import (
	"github.com/asnowfix/tigo-cca/hlog"
	"github.com/asnowfix/tigo-cca/pkg/tigo"
	"github.com/asnowfix/tigo-cca/tigoctl/options"

	"github.com/spf13/cobra"
)

var Cmd = &cobra.Command{
	Use:   "status <host>",
	Short: "Show the CCA and per-panel power snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := hlog.Logger
		ctx := options.CommandLineContext(cmd.Context(), log, options.Flags.CommandTimeout, options.Commit)
		cca := tigo.NewTigoCCA(log, args[0], options.Flags.Username, options.Flags.Password)
		status, err := cca.GetStatus(ctx)
		if err != nil {
			return err
		}
		return options.PrintResult(status)
	},
}
