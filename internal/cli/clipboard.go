package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/skinsuite/pkg/config"
	"github.com/matzehuels/skinsuite/pkg/errors"
	"github.com/matzehuels/skinsuite/pkg/snapshot"
)

// clipboardCommand creates the clipboard management command.
func (c *CLI) clipboardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clipboard",
		Short: "Inspect the weight clipboard and saved selection",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the copied weights and the saved selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(store snapshot.Store) error {
				printInfo("Clipboard %s", StyleDim.Render(store.Location(snapshot.KindClipboard)))
				if w, err := store.LoadWeights(ctx); err != nil {
					printDetail("%s", errors.UserMessage(err))
				} else {
					printWeights(w)
				}
				printInfo("Saved selection %s", StyleDim.Render(store.Location(snapshot.KindSelection)))
				if sel, err := store.LoadSelection(ctx); err != nil {
					printDetail("%s", errors.UserMessage(err))
				} else {
					printDetail("%d vertices: %s", len(sel), formatIndices(sel))
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print where the snapshots are stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(store snapshot.Store) error {
				fmt.Println(store.Location(snapshot.KindClipboard))
				fmt.Println(store.Location(snapshot.KindSelection))
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete the clipboard and saved selection files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.Store != config.StoreFile {
				return errors.New(errors.ErrCodeUnsupported, "clear only supports the file store")
			}
			count := 0
			for _, path := range []string{c.cfg.ClipboardPath, c.cfg.SelectionPath} {
				if err := os.Remove(path); err == nil {
					count++
				} else if !os.IsNotExist(err) {
					return errors.Wrap(errors.ErrCodeIO, err, "remove %s", path)
				}
			}
			if count == 0 {
				printInfo("Nothing to clear")
				return nil
			}
			printSuccess("Cleared %d snapshots", count)
			return nil
		},
	})

	return cmd
}
