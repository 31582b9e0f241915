package watch

import (
	"context"
	"time"

	"github.com/asnowfix/tigo-cca/hlog"
	"github.com/asnowfix/tigo-cca/pkg/tigo"
	"github.com/asnowfix/tigo-cca/tigoctl/options"

	"github.com/spf13/cobra"
)

var interval time.Duration

func init() {
	Cmd.Flags().DurationVarP(&interval, "interval", "i", 30*time.Second, "polling interval")
}

var Cmd = &cobra.Command{
	Use:   "watch <host>",
	Short: "Poll the power snapshot until interrupted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := hlog.Logger
		// No overall timeout: the loop runs until a signal cancels the context.
		ctx := options.CommandLineContext(cmd.Context(), log, 0, options.Commit)
		cca := tigo.NewTigoCCA(log, args[0], options.Flags.Username, options.Flags.Password)

		readCtx, cancel := context.WithTimeout(ctx, options.Flags.CommandTimeout)
		err := cca.ReadConfig(readCtx)
		cancel()
		if err != nil {
			return err
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			pollCtx, cancel := context.WithTimeout(ctx, options.Flags.CommandTimeout)
			status, err := cca.GetStatus(pollCtx)
			cancel()
			if err != nil {
				hlog.ErrorIfNotCanceled(log, err, "Failed to read status", "host", args[0])
			} else if err := options.PrintResult(status); err != nil {
				return err
			}
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	},
}
