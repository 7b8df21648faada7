package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/skinsuite/pkg/island"
	"github.com/matzehuels/skinsuite/pkg/session"
)

// islandsOptions holds the islands command flags.
type islandsOptions struct {
	lower       float64
	upper       float64
	selectRange bool
	interactive bool
	verify      bool
}

// islandsCommand creates the islands command.
func (c *CLI) islandsCommand() *cobra.Command {
	opts := islandsOptions{
		lower: session.DefaultIslandLower,
		upper: session.DefaultIslandUpper,
	}

	cmd := &cobra.Command{
		Use:   "islands",
		Short: "List weight islands and select them by mean weight",
		Long: `List the weight islands of a vertex group: connected groups of vertices
that all carry weight in the group. Each island is reported with its seed
vertex (the heaviest), size and mean weight.

With --select (or when --lower/--upper is given), the mesh selection is
replaced by every island whose mean weight lies in (lower, upper] and the mesh
is written back. With -i the limits are chosen with interactive sliders.`,
		Example: `  skinsuite islands -m body.json -g spine
  skinsuite islands -m body.json -g spine --lower 0 --upper 0.1
  skinsuite islands -m body.json -i`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("lower") || flags.Changed("upper") {
				opts.selectRange = true
			}
			return report(c.runIslands(cmd, opts))
		},
	}

	cmd.Flags().Float64Var(&opts.lower, "lower", opts.lower, "exclusive lower limit of the island mean")
	cmd.Flags().Float64Var(&opts.upper, "upper", opts.upper, "inclusive upper limit of the island mean")
	cmd.Flags().BoolVar(&opts.selectRange, "select", false, "replace the selection with the islands in range")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "choose the limits with sliders")
	cmd.Flags().BoolVar(&opts.verify, "verify", false, "check the island partition against an independent component search")

	return cmd
}

func (c *CLI) runIslands(cmd *cobra.Command, opts islandsOptions) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	m, err := c.loadMesh()
	if err != nil {
		return err
	}
	group, err := c.groupFor(m)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	sess, err := session.NewIslands(ctx, m, group, c.cfg.SessionTTL.Duration)
	if err != nil {
		return err
	}
	res := sess.Result()
	prog.done(fmt.Sprintf("Found %d islands", len(res.Islands)), "group", group, "weighted", len(res.Weights))

	if opts.verify {
		if err := island.Verify(m.Adjacency(), res); err != nil {
			return err
		}
		printSuccess("Partition verified")
	}

	switch {
	case opts.interactive:
		return c.runIslandsInteractive(cmd, sess, opts)
	case opts.selectRange:
		sel, err := sess.Update(ctx, opts.lower, opts.upper)
		if err != nil {
			return err
		}
		sess.Finish(ctx)
		fmt.Println(islandTable(res.Summarize(), chosenIslands(res, opts.lower, opts.upper)))
		printSelection(fmt.Sprintf("Islands of %q in (%.3f, %.3f]", group, opts.lower, opts.upper), sel)
		return c.saveMesh(m)
	default:
		fmt.Println(islandTable(res.Summarize(), nil))
		return nil
	}
}

func (c *CLI) runIslandsInteractive(cmd *cobra.Command, sess *session.IslandSession, opts islandsOptions) error {
	ctx := cmd.Context()
	res := sess.Result()
	sums := res.Summarize()

	model := NewRangeModel(
		fmt.Sprintf("Select islands of %q", sess.Group()),
		opts.lower, opts.upper,
		func(lower, upper float64) ([]int, error) { return sess.Update(ctx, lower, upper) },
	)
	model.Detail = func(lower, upper float64) string {
		return islandTable(sums, chosenIslands(res, lower, upper))
	}

	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("run interactive selection: %w", err)
	}
	rm := final.(RangeModel)
	if !rm.Applied {
		printInfo("Cancelled, mesh unchanged")
		return nil
	}
	sess.Finish(ctx)
	printSelection(fmt.Sprintf("Islands of %q in (%.3f, %.3f]", sess.Group(), rm.Lower, rm.Upper), rm.Selected)
	return c.saveMesh(sess.Mesh())
}

// chosenIslands returns the island numbers whose mean is in (lower, upper].
func chosenIslands(res island.Result, lower, upper float64) map[int]bool {
	chosen := map[int]bool{}
	for i, isl := range res.Islands {
		if island.InRange(island.Mean(isl, res.Weights), lower, upper) {
			chosen[i] = true
		}
	}
	return chosen
}
