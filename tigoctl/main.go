package main

import (
	"fmt"
	"os"
	"time"

	"github.com/asnowfix/tigo-cca/hlog"
	"github.com/asnowfix/tigo-cca/tigoctl/config"
	"github.com/asnowfix/tigo-cca/tigoctl/modules"
	"github.com/asnowfix/tigo-cca/tigoctl/options"
	"github.com/asnowfix/tigo-cca/tigoctl/status"
	"github.com/asnowfix/tigo-cca/tigoctl/watch"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tigoctl",
	Short: "Talk to a Tigo CCA on the local network",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		hlog.InitWithDebug(options.Flags.Verbose, options.Flags.Debug)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&options.Flags.Verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&options.Flags.Debug, "debug", "d", false, "debug output")
	rootCmd.PersistentFlags().BoolVarP(&options.Flags.Json, "json", "j", false, "JSON output (default: YAML)")
	rootCmd.PersistentFlags().StringVarP(&options.Flags.Username, "user", "u", "", "HTTP basic-auth user (empty: no auth)")
	rootCmd.PersistentFlags().StringVarP(&options.Flags.Password, "password", "p", "", "HTTP basic-auth password")
	rootCmd.PersistentFlags().DurationVarP(&options.Flags.CommandTimeout, "timeout", "t", 10*time.Second, "per-command timeout")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(status.Cmd)
	rootCmd.AddCommand(config.Cmd)
	rootCmd.AddCommand(modules.Cmd)
	rootCmd.AddCommand(watch.Cmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(options.Commit)
	},
}
