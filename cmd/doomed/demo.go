package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wippyai/wasm-doom/demo"
	"github.com/wippyai/wasm-doom/errors"
)

var (
	flagDemoWidth   int
	flagDemoHeight  int
	flagDemoTitle   string
	flagDemoRealloc bool
)

var demoCmd = &cobra.Command{
	Use:   "demo <out.wasm>",
	Short: "Write the demo guest",
	Long: `Write the built-in demo guest, a small doomgeneric-compatible module
that paints a test pattern. Useful for checking a host setup without a
real doom build.`,
	Args: cobra.ExactArgs(1),
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().IntVar(&flagDemoWidth, "width", demo.DefaultOptions.Width, "Frame width")
	demoCmd.Flags().IntVar(&flagDemoHeight, "height", demo.DefaultOptions.Height, "Frame height")
	demoCmd.Flags().StringVar(&flagDemoTitle, "title", demo.DefaultOptions.Title, "Window title set by the guest")
	demoCmd.Flags().BoolVar(&flagDemoRealloc, "cabi-realloc", false, "Export cabi_realloc instead of malloc")
}

func runDemo(cmd *cobra.Command, args []string) error {
	if flagDemoWidth <= 0 || flagDemoHeight <= 0 {
		return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("invalid demo size %dx%d", flagDemoWidth, flagDemoHeight))
	}
	opts := demo.DefaultOptions
	opts.Width = flagDemoWidth
	opts.Height = flagDemoHeight
	opts.Title = flagDemoTitle
	opts.UseCabiRealloc = flagDemoRealloc

	data := demo.Wasm(opts)
	if err := os.WriteFile(args[0], data, 0o644); err != nil {
		return errors.Wrap(errors.PhaseHost, errors.KindUnavailable, err, "write demo guest")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes, %dx%d)\n", args[0], len(data), opts.Width, opts.Height)
	return nil
}
