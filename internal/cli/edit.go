package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/skinsuite/pkg/errors"
	"github.com/matzehuels/skinsuite/pkg/mesh"
	"github.com/matzehuels/skinsuite/pkg/observability"
	"github.com/matzehuels/skinsuite/pkg/session"
	"github.com/matzehuels/skinsuite/pkg/snapshot"
	"github.com/matzehuels/skinsuite/pkg/weights"
)

// copyCommand creates the copy command.
func (c *CLI) copyCommand() *cobra.Command {
	var maxInfluence int

	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy the averaged weights of the selection to the clipboard",
		Long: `Average the vertex group weights of the selected vertices, keep the heaviest
groups (at most --max-influence) and normalize them to sum to 1. The result
is written to the clipboard snapshot for paste.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := c.loadMesh()
			if err != nil {
				return err
			}
			if maxInfluence <= 0 {
				maxInfluence = c.cfg.MaxInfluence
			}
			agg, err := weights.AggregateSelected(m, maxInfluence)
			if err != nil {
				return report(err)
			}
			return c.withStore(ctx, func(store snapshot.Store) error {
				if err := store.SaveWeights(ctx, agg); err != nil {
					return err
				}
				printSuccess("Copied %d groups from %d vertices", len(agg), m.SelectedCount())
				printWeights(agg)
				printFile(store.Location(snapshot.KindClipboard))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&maxInfluence, "max-influence", 0, "maximum number of groups kept (default from config, 8)")
	return cmd
}

// pasteCommand creates the paste command.
func (c *CLI) pasteCommand() *cobra.Command {
	var (
		factor      = session.DefaultFactor
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "paste",
		Short: "Blend the clipboard weights onto the selection",
		Long: `Blend the clipboard weights onto every selected vertex:
new = old + (clipboard - old) * factor, for each group in the clipboard.
Groups not in the clipboard are untouched; missing groups are created.
All vertices are normalized afterwards.`,
		Example: `  skinsuite paste -m body.json --factor 0.5
  skinsuite paste -m body.json -i`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := c.loadMesh()
			if err != nil {
				return err
			}
			var source weights.Aggregated
			err = c.withStore(ctx, func(store snapshot.Store) error {
				source, err = store.LoadWeights(ctx)
				return err
			})
			if err != nil {
				return err
			}

			sess, err := session.NewPaste(ctx, m, source, c.cfg.SessionTTL.Duration)
			if err != nil {
				return report(err)
			}

			if interactive {
				model := NewFactorModel(
					fmt.Sprintf("Paste %d groups onto %d vertices", len(source), len(sess.Indices())),
					factor,
					func(t float64) error { return sess.Update(ctx, t) },
				)
				final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
				if err != nil {
					return fmt.Errorf("run interactive paste: %w", err)
				}
				fm := final.(FactorModel)
				if !fm.Applied {
					sess.Cancel(ctx)
					printInfo("Cancelled, mesh unchanged")
					return nil
				}
				factor = fm.Factor
			} else if err := sess.Update(ctx, factor); err != nil {
				return err
			}

			if err := sess.Apply(ctx); err != nil {
				return err
			}
			printSuccess("Pasted onto %d vertices with factor %.3f", len(sess.Indices()), factor)
			return c.saveMesh(m)
		},
	}

	cmd.Flags().Float64VarP(&factor, "factor", "f", factor, "blend factor in [0,1]")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "choose the factor with a slider")
	return cmd
}

// zeroCommand creates the zero command.
func (c *CLI) zeroCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "zero",
		Short: "Remove a group's weight from the selection",
		Long: `Set the vertex group's weight to 0 on every selected vertex and renormalize
the vertex's remaining groups to sum to 1.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.loadMesh()
			if err != nil {
				return err
			}
			group, err := c.groupFor(m)
			if err != nil {
				return err
			}
			n, err := weights.ZeroGroup(m, group)
			observability.Analysis().OnEdit(cmd.Context(), "zero", n, err)
			if err != nil {
				return err
			}
			if n == 0 {
				return report(errors.New(errors.ErrCodeEmptySelection, "no vertices selected"))
			}
			printSuccess("Zeroed %q on %d vertices", group, n)
			return c.saveMesh(m)
		},
	}
}

// pruneCommand creates the prune command.
func (c *CLI) pruneCommand() *cobra.Command {
	var margin float64

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove vertex groups that carry no weight",
		Long: `Remove every vertex group whose weight never exceeds --margin on any vertex,
then normalize all vertices.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.loadMesh()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("margin") {
				margin = c.cfg.PruneMargin
			}
			removed := weights.PruneUnused(m, margin)
			observability.Analysis().OnEdit(cmd.Context(), "prune", len(removed), nil)
			if len(removed) == 0 {
				printInfo("No unused groups")
			} else {
				printSuccess("Removed %d unused groups", len(removed))
				for _, g := range removed {
					printDetail("%s", g)
				}
			}
			return c.saveMesh(m)
		},
	}

	cmd.Flags().Float64Var(&margin, "margin", weights.DefaultPruneMargin, "weight a group must exceed somewhere to be kept")
	return cmd
}

// normalizeCommand creates the normalize command.
func (c *CLI) normalizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize",
		Short: "Scale every vertex's weights to sum to 1",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.loadMesh()
			if err != nil {
				return err
			}
			m.NormalizeAll()
			observability.Analysis().OnEdit(cmd.Context(), "normalize", m.Len(), nil)
			printSuccess("Normalized %d vertices", m.Len())
			return c.saveMesh(m)
		},
	}
}

// transferCommand creates the transfer command.
func (c *CLI) transferCommand() *cobra.Command {
	var (
		from string
		opts weights.TransferOptions
	)

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Copy vertex group weights from another mesh by vertex index",
		Long: `Copy every vertex group weight of the --from mesh onto the vertex with the
same index in --mesh. Without --additive the target's existing weights are
discarded first. With --selected-only only selected target vertices are
written. All vertices are normalized afterwards.`,
		Example: `  skinsuite transfer -m body.json --from body_old.json
  skinsuite transfer -m body.json --from body_old.json --selected-only --additive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if from == "" {
				return errors.New(errors.ErrCodeInvalidInput, "--from is required")
			}
			src, err := mesh.ReadFile(from)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidMesh, err, "read mesh %s", from)
			}
			dst, err := c.loadMesh()
			if err != nil {
				return err
			}
			n := weights.Transfer(src, dst, opts)
			dst.NormalizeAll()
			observability.Analysis().OnEdit(cmd.Context(), "transfer", n, nil)
			printSuccess("Transferred weights to %d vertices", n)
			if n < dst.Len() && !opts.SelectedOnly {
				printDetail("%d target vertices have no source counterpart", dst.Len()-n)
			}
			return c.saveMesh(dst)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "source mesh document")
	cmd.Flags().BoolVar(&opts.SelectedOnly, "selected-only", false, "only write selected target vertices")
	cmd.Flags().BoolVar(&opts.Additive, "additive", false, "keep existing target weights")
	return cmd
}
