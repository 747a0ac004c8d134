package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/chartmark"
	"github.com/gogpu/chartmark/internal/modelfile"
	"github.com/gogpu/chartmark/raster"
)

func newDiagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diag [model.toml]",
		Short: "Report model features the raster backend cannot draw",
		Long: `Diag compares a model against the raster backend's capabilities and
lists the mark kinds, def kinds, and per-mark effects that would be
dropped or degraded during rendering. A silent run means the model
renders with full fidelity.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiag(cmd, args[0])
		},
	}
}

func runDiag(cmd *cobra.Command, input string) error {
	model, err := modelfile.Load(input)
	if err != nil {
		return fmt.Errorf("loading model: %w", err)
	}

	caps := raster.Caps()
	marks := chartmark.UnsupportedMarks(model, caps)
	defs := chartmark.UnsupportedDefs(model, caps)
	effects := chartmark.UnsupportedEffects(model, caps)

	out := cmd.OutOrStdout()
	if len(marks) == 0 && len(defs) == 0 && len(effects) == 0 {
		fmt.Fprintln(out, "ok: model renders with full fidelity")
		return nil
	}
	for _, k := range marks {
		fmt.Fprintf(out, "mark kind not drawable: %s\n", k)
	}
	for _, k := range defs {
		fmt.Fprintf(out, "def kind not resolvable: %s\n", k)
	}
	for _, e := range effects {
		fmt.Fprintf(out, "effect will be omitted: %s\n", e)
	}
	return nil
}
