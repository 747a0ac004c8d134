package cli

import (
	"fmt"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gogpu/chartmark"
	"github.com/gogpu/chartmark/internal/modelfile"
	"github.com/gogpu/chartmark/raster"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string // output PNG path; derived from the input when empty
	background string // background color, empty keeps the surface transparent
}

func newRenderCmd() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [model.toml]",
		Short: "Rasterize a model file to PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output PNG file (default: input name with .png)")
	cmd.Flags().StringVar(&opts.background, "background", "", "background color (e.g. #ffffff), default transparent")

	return cmd
}

func runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	logger := loggerFromContext(cmd.Context())
	start := time.Now()

	model, err := modelfile.Load(input)
	if err != nil {
		return fmt.Errorf("loading model: %w", err)
	}
	logger.Debug("model loaded", "marks", len(model.Marks), "defs", len(model.Defs))

	warnUnsupported(logger, model)

	ropts := raster.Options{}
	if opts.background != "" {
		ropts.Background = chartmark.Hex(opts.background)
	}
	pm, err := raster.NewRenderer().Render(model, ropts)
	if err != nil {
		return fmt.Errorf("rendering: %w", err)
	}

	out := opts.output
	if out == "" {
		out = outputName(input)
	}
	if err := pm.SavePNG(out); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	logger.Infof("Rendered %dx%d to %s (%s)",
		pm.Width(), pm.Height(), out, time.Since(start).Round(time.Millisecond))
	return nil
}

// warnUnsupported surfaces backend gaps before rendering starts, so a
// degraded output is never a surprise.
func warnUnsupported(logger *charmlog.Logger, model *chartmark.RenderModel) {
	caps := raster.Caps()
	if marks := chartmark.UnsupportedMarks(model, caps); len(marks) > 0 {
		logger.Warn("model contains undrawable mark kinds", "kinds", strings.Join(marks, ", "))
	}
	if defs := chartmark.UnsupportedDefs(model, caps); len(defs) > 0 {
		logger.Warn("model contains unresolvable defs", "kinds", strings.Join(defs, ", "))
	}
	if effects := chartmark.UnsupportedEffects(model, caps); len(effects) > 0 {
		logger.Warn("some effects will be omitted", "effects", strings.Join(effects, ", "))
	}
}

// outputName derives the PNG output path from the input file name.
func outputName(input string) string {
	if i := strings.LastIndexByte(input, '.'); i > 0 {
		return input[:i] + ".png"
	}
	return input + ".png"
}
