package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wippyai/wasm-doom/config"
	"github.com/wippyai/wasm-doom/errors"
)

var flagForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		src := cfgPath
		if src == "" {
			src = "built-in defaults"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# from %s\n%s", src, data)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "wasm-doom.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil && !flagForce {
			return errors.New(errors.PhaseConfig, errors.KindAlreadyCreated).
				Symbol(path).
				Detail("file exists; use --force to overwrite").
				Build()
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return errors.Wrap(errors.PhaseConfig, errors.KindUnavailable, err, "create config dir")
			}
		}
		if err := os.WriteFile(path, config.DefaultYAML(), 0o644); err != nil {
			return errors.Wrap(errors.PhaseConfig, errors.KindUnavailable, err, "write config")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing file")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
