package cli

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/skinsuite/pkg/errors"
	"github.com/matzehuels/skinsuite/pkg/island"
	"github.com/matzehuels/skinsuite/pkg/observability"
	"github.com/matzehuels/skinsuite/pkg/render"
)

// Render output formats.
const (
	formatSVG = "svg"
	formatDOT = "dot"
)

// renderOptions holds the render command flags.
type renderOptions struct {
	output   string
	format   string
	detailed bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw the weight islands of a group as a graph",
		Long: `Draw the mesh as a graph with one node per vertex. Vertices of the same
weight island share a color, unweighted vertices are grey and selected
vertices have a heavy outline.

The format follows the output file extension (.svg or .dot) unless --format
is given. Without --file the graph is written to stdout.`,
		Example: `  skinsuite render -m body.json -g spine --file spine.svg
  skinsuite render -m body.json --format dot | dot -Tpng > islands.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.output, "file", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.format, "format", "", "output format: svg, dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label vertices with weight and island number")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, opts renderOptions) error {
	ctx := cmd.Context()
	format, err := renderFormat(opts)
	if err != nil {
		return err
	}

	m, err := c.loadMesh()
	if err != nil {
		return err
	}
	group, err := c.groupFor(m)
	if err != nil {
		return err
	}

	start := time.Now()
	res := island.Build(m.Adjacency(), m.Lookup(group))
	observability.Analysis().OnIslands(ctx, group, len(res.Weights), len(res.Islands), time.Since(start))

	dot := render.ToDOT(m, res, render.Options{Group: group, Detailed: opts.detailed})
	data := []byte(dot)
	if format == formatSVG {
		prog := newProgress(loggerFromContext(ctx))
		if data, err = render.RenderSVG(ctx, dot); err != nil {
			return err
		}
		prog.done("Rendered SVG")
	}

	if opts.output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", opts.output)
	}
	printSuccess("Rendered %d islands of %q", len(res.Islands), group)
	printFile(opts.output)
	return nil
}

// renderFormat picks the output format from --format or the file extension.
func renderFormat(opts renderOptions) (string, error) {
	format := strings.ToLower(opts.format)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.output)), ".")
	}
	switch format {
	case "":
		return formatDOT, nil
	case formatDOT, "gv":
		return formatDOT, nil
	case formatSVG:
		return formatSVG, nil
	default:
		return "", errors.New(errors.ErrCodeUnsupported, "unsupported format %q (want %s or %s)", format, formatSVG, formatDOT)
	}
}
