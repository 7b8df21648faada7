package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/skinsuite/pkg/server"
	"github.com/matzehuels/skinsuite/pkg/session"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the weight editing API over HTTP",
		Long: `Run the HTTP API. Meshes are posted with each request; interactive
operations (island and range selection, paste) keep sessions in memory until
they are deleted or expire.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.cfg.ListenAddr
			}
			store, err := c.newStore(ctx, c.cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			srv := server.New(server.Options{
				Sessions:     session.NewMemoryStore(c.cfg.SessionTTL.Duration),
				Snapshots:    store,
				Logger:       c.Logger,
				MaxInfluence: c.cfg.MaxInfluence,
				PruneMargin:  c.cfg.PruneMargin,
				SessionTTL:   c.cfg.SessionTTL.Duration,
			})
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	return cmd
}

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.cfg.Encode(cmd.OutOrStdout())
		},
	}
}
