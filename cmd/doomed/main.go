// doomed runs doomgeneric builds compiled to WebAssembly.
//
// Usage:
//
//	doomed run [guest.wasm] [-- guest args...]   - Run a guest (demo guest when omitted)
//	doomed inspect <guest.wasm>                  - Check a guest against the doomgeneric ABI
//	doomed demo <out.wasm>                       - Write the demo guest
//	doomed config show|init                      - Print or write the configuration
//
// Global flags:
//
//	--config <path>     - Config file (default search: XDG config dir, ./wasm-doom.yaml)
//	--log-level <level> - debug, info, warn or error
//	--log-file <path>   - Write logs to a file
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-doom/config"
)

var (
	flagConfig   string
	flagLogLevel string
	flagLogFile  string

	// Loaded by the root command before any subcommand runs.
	cfg     config.Config
	cfgPath string
	log     = zap.NewNop()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitStatus(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "doomed",
	Short: "Run doomgeneric WebAssembly builds in a terminal or window",
	Long: `doomed loads a doomgeneric build compiled to WebAssembly and bridges it
to a host panel: the terminal, a desktop window, or a headless recorder.

Examples:
  doomed run doom.wasm --wad-dir ~/wads -- -iwad doom1.wad
  doomed run --mode window doom.wasm -- -iwad doom1.wad
  doomed run --mode headless --frames 100 --snapshot shot.png
  doomed inspect doom.wasm`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(configCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, cfgPath, err = config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagLogFile != "" {
		cfg.Log.File = flagLogFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return nil
}
