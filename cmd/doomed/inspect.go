package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/wippyai/wasm-doom/engine"
	"github.com/wippyai/wasm-doom/errors"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#8B0000")).
			Padding(0, 1)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#90EE90"))

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

var flagShowABI bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <guest.wasm>",
	Short: "Check a guest against the doomgeneric ABI",
	Args:  cobra.RangeArgs(0, 1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&flagShowABI, "abi", false, "Print the expected ABI")
}

func runInspect(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if flagShowABI {
		abi := engine.DoomABI()
		fmt.Fprintln(out, headerStyle.Render("doomgeneric ABI"))
		for _, name := range abi.ImportNames() {
			fmt.Fprintf(out, "  import %s\n", abi.Import(name))
		}
		for _, name := range []string{engine.ExportCreate, engine.ExportTick, engine.ExportMalloc, engine.ExportCabiRealloc} {
			if sig := abi.Export(name); sig != nil {
				fmt.Fprintf(out, "  export %s\n", sig)
			}
		}
		if len(args) == 0 {
			return nil
		}
	}
	if len(args) == 0 {
		return errors.InvalidInput(errors.PhaseLoad, "inspect needs a guest file")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return errors.Wrap(errors.PhaseLoad, errors.KindNotFound, err, "read guest "+args[0])
	}
	report, err := engine.Inspect(cmd.Context(), data)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, headerStyle.Render(args[0]))
	fmt.Fprintln(out, "imports:")
	for _, f := range report.Imports {
		fmt.Fprintf(out, "  %s.%s %s\n", f.Module, f.Name, dimStyle.Render(f.Signature))
	}
	fmt.Fprintln(out, "exports:")
	for _, f := range report.Exports {
		fmt.Fprintf(out, "  %s %s\n", f.Name, dimStyle.Render(f.Signature))
	}
	for _, m := range report.Memories {
		fmt.Fprintf(out, "  %s %s\n", m, dimStyle.Render("memory"))
	}

	if report.OK() {
		fmt.Fprintln(out, okStyle.Render("ABI ok"))
		return nil
	}
	for _, e := range []error{report.ImportErr, report.ExportErr} {
		if e != nil {
			fmt.Fprintln(out, failStyle.Render(e.Error()))
		}
	}
	return errors.New(errors.PhaseLink, errors.KindSignature).
		Symbol(args[0]).
		Detail("guest does not satisfy the doomgeneric ABI").
		Build()
}
