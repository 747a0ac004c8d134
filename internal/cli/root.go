package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gogpu/chartmark"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version,
// typically injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the chartmark CLI and returns an error if any command
// fails. Logging defaults to info level on stderr; --verbose switches
// to debug level and additionally routes the chartmark library's
// structured log through the same writer.
func Execute() error {
	var verbose bool

	root := &cobra.Command{
		Use:          "chartmark",
		Short:        "chartmark rasterizes declarative chart drawing programs",
		Long:         `chartmark loads a chart drawing program (marks plus paint defs) from a TOML model file and rasterizes it to PNG on the CPU, or reports which parts of the model the raster backend cannot draw faithfully.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(os.Stderr, level)
			if verbose {
				chartmark.SetLogger(slogBridge(logger))
			}
			cmd.SetContext(withLogger(cmd.Context(), logger))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("chartmark %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newDiagCmd())

	return root.ExecuteContext(context.Background())
}
