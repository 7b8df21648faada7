package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/skinsuite/pkg/mesh"
	"github.com/matzehuels/skinsuite/pkg/observability"
	"github.com/matzehuels/skinsuite/pkg/selection"
	"github.com/matzehuels/skinsuite/pkg/session"
	"github.com/matzehuels/skinsuite/pkg/snapshot"
)

// selectCommand creates the select command and its subcommands.
func (c *CLI) selectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Change the vertex selection",
	}

	cmd.AddCommand(c.selectRangeCommand())
	cmd.AddCommand(c.selectOpCommand("grow", "Add every neighbor of the selection",
		func(m *mesh.Mesh) []int { return selection.Grow(m.Adjacency(), m.Selected()) }))
	cmd.AddCommand(c.selectOpCommand("shrink", "Drop selected vertices that touch an unselected vertex",
		func(m *mesh.Mesh) []int { return selection.Shrink(m.Adjacency(), m.Selected()) }))
	cmd.AddCommand(c.selectOpCommand("unnormalized", "Select vertices whose weights sum to more than 1",
		selection.Unnormalized))
	cmd.AddCommand(c.selectSaveCommand())
	cmd.AddCommand(c.selectSavedCommand("saved", "Add the saved selection", true))
	cmd.AddCommand(c.selectSavedCommand("unsaved", "Remove the saved selection", false))

	return cmd
}

// selectOpCommand creates a subcommand that replaces the selection with the
// result of op.
func (c *CLI) selectOpCommand(name, short string, op func(*mesh.Mesh) []int) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.loadMesh()
			if err != nil {
				return err
			}
			sel := op(m)
			m.SetSelection(sel)
			observability.Analysis().OnSelect(cmd.Context(), name, len(sel))
			printSelection(name, sel)
			return c.saveMesh(m)
		},
	}
}

// selectRangeCommand creates the "select range" subcommand.
func (c *CLI) selectRangeCommand() *cobra.Command {
	var (
		lower       = session.DefaultRangeLower
		upper       = session.DefaultRangeUpper
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "range",
		Short: "Select vertices by their weight in a group",
		Long: `Replace the selection with every vertex whose weight in the vertex group lies
in (lower, upper]. Vertices without the group count as weight 0.`,
		Example: `  skinsuite select range -m body.json -g spine --lower 0.5
  skinsuite select range -m body.json -i`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := c.loadMesh()
			if err != nil {
				return err
			}
			group, err := c.groupFor(m)
			if err != nil {
				return err
			}
			sess, err := session.NewRange(ctx, m, group, c.cfg.SessionTTL.Duration)
			if err != nil {
				return err
			}

			if !interactive {
				sel, err := sess.Update(ctx, lower, upper)
				if err != nil {
					return err
				}
				sess.Finish(ctx)
				printSelection(fmt.Sprintf("Weight of %q in (%.3f, %.3f]", group, lower, upper), sel)
				return c.saveMesh(m)
			}

			model := NewRangeModel(
				fmt.Sprintf("Select vertices by weight of %q", group),
				lower, upper,
				func(lo, hi float64) ([]int, error) { return sess.Update(ctx, lo, hi) },
			)
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
			printSelection(fmt.Sprintf("Weight of %q in (%.3f, %.3f]", group, rm.Lower, rm.Upper), rm.Selected)
			return c.saveMesh(m)
		},
	}

	cmd.Flags().Float64Var(&lower, "lower", lower, "exclusive lower weight limit")
	cmd.Flags().Float64Var(&upper, "upper", upper, "inclusive upper weight limit")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "choose the limits with sliders")

	return cmd
}

// selectSaveCommand creates the "select save" subcommand.
func (c *CLI) selectSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Save the current selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.loadMesh()
			if err != nil {
				return err
			}
			sel := m.Selected()
			return c.withStore(cmd.Context(), func(store snapshot.Store) error {
				if err := store.SaveSelection(cmd.Context(), sel); err != nil {
					return err
				}
				printSuccess("Saved %d selected vertices", len(sel))
				printFile(store.Location(snapshot.KindSelection))
				return nil
			})
		},
	}
}

// selectSavedCommand creates a subcommand that adds (state true) or removes
// (state false) the saved selection. Saved indices outside the mesh are
// ignored.
func (c *CLI) selectSavedCommand(name, short string, state bool) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.loadMesh()
			if err != nil {
				return err
			}
			err = c.withStore(cmd.Context(), func(store snapshot.Store) error {
				saved, err := store.LoadSelection(cmd.Context())
				if err != nil {
					return err
				}
				m.Select(saved, state)
				return nil
			})
			if err != nil {
				return err
			}
			sel := m.Selected()
			observability.Analysis().OnSelect(cmd.Context(), name, len(sel))
			printSelection(name, sel)
			return c.saveMesh(m)
		},
	}
}
