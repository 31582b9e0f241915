package config

import (
	"github.com/asnowfix/tigo-cca/hlog"
	"github.com/asnowfix/tigo-cca/pkg/tigo"
	"github.com/asnowfix/tigo-cca/tigoctl/options"

	"github.com/spf13/cobra"
)

type panel struct {
	Label    string `json:"label" yaml:"label"`
	MAC      string `json:"mac" yaml:"mac"`
	Firmware string `json:"fw_version" yaml:"fw_version"`
	Hardware string `json:"hw_version" yaml:"hw_version"`
	Model    string `json:"model" yaml:"model"`
}

var Cmd = &cobra.Command{
	Use:   "config <host>",
	Short: "Show the configured panel inventory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := hlog.Logger
		ctx := options.CommandLineContext(cmd.Context(), log, options.Flags.CommandTimeout, options.Commit)
		cca := tigo.NewTigoCCA(log, args[0], options.Flags.Username, options.Flags.Password)
		if err := cca.ReadConfig(ctx); err != nil {
			return err
		}
		out := make(map[string]panel, len(cca.Panels))
		for label, p := range cca.Panels {
			out[label] = panel{
				Label:    p.Label,
				MAC:      p.MAC,
				Firmware: p.Firmware,
				Hardware: p.Hardware,
				Model:    p.Model(),
			}
		}
		return options.PrintResult(out)
	},
}
