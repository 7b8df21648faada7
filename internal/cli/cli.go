// Package cli implements the skinsuite command-line interface.
//
// Every editing command reads a mesh document (--mesh), applies one
// operation and writes the result back, or to --output. Copy and paste share
// weights through the clipboard snapshot; the saved selection commands share
// vertex indices through the selection snapshot. Both live in files by
// default, or in Redis when the config says store = "redis".
//
// # Commands
//
//   - islands: list weight islands and select them by mean weight
//   - select: range, grow, shrink, unnormalized, save, saved, unsaved
//   - copy, paste: aggregate and blend weight distributions
//   - zero, prune, normalize, transfer: weight editing
//   - render: draw the island graph as SVG or DOT
//   - serve: run the HTTP API
//   - clipboard, config: inspect snapshots and settings
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/skinsuite/pkg/buildinfo"
	"github.com/matzehuels/skinsuite/pkg/config"
	"github.com/matzehuels/skinsuite/pkg/errors"
	"github.com/matzehuels/skinsuite/pkg/mesh"
	"github.com/matzehuels/skinsuite/pkg/snapshot"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "skinsuite"

	// envMesh names the environment variable supplying a default --mesh.
	envMesh = "SKINSUITE_MESH"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	meshPath   string
	outPath    string
	group      string
	cfg        config.Config

	// newStore opens the snapshot store; replaced in tests.
	newStore func(ctx context.Context, cfg config.Config) (snapshot.Store, error)
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:   newLogger(w, level),
		cfg:      config.Default(),
		newStore: openStore,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Skinsuite edits vertex weights of skinned meshes",
		Long:         `Skinsuite is a toolkit for editing vertex group weights: copy and paste blended weight distributions, select contiguous weight islands, grow and shrink selections, transfer weights between meshes and prune unused groups.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default $SKINSUITE_CONFIG or ~/.config/skinsuite/config.toml)")
	pf.StringVarP(&c.meshPath, "mesh", "m", os.Getenv(envMesh), "mesh document to operate on (default $SKINSUITE_MESH)")
	pf.StringVarP(&c.outPath, "output", "o", "", "write the edited mesh here instead of back to --mesh")
	pf.StringVarP(&c.group, "group", "g", "", "vertex group to operate on (default: the mesh's active group)")

	root.AddCommand(c.islandsCommand())
	root.AddCommand(c.selectCommand())
	root.AddCommand(c.copyCommand())
	root.AddCommand(c.pasteCommand())
	root.AddCommand(c.zeroCommand())
	root.AddCommand(c.pruneCommand())
	root.AddCommand(c.normalizeCommand())
	root.AddCommand(c.transferCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.clipboardCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Mesh I/O
// =============================================================================

// loadMesh reads the --mesh document.
func (c *CLI) loadMesh() (*mesh.Mesh, error) {
	if c.meshPath == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no mesh given (use --mesh or $%s)", envMesh)
	}
	m, err := mesh.ReadFile(c.meshPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMesh, err, "read mesh %s", c.meshPath)
	}
	c.Logger.Debug("loaded mesh", "path", c.meshPath, "vertices", m.Len(), "edges", len(m.Edges), "groups", len(m.Groups))
	return m, nil
}

// saveMesh writes m to --output, or back to --mesh.
func (c *CLI) saveMesh(m *mesh.Mesh) error {
	path := c.outPath
	if path == "" {
		path = c.meshPath
	}
	if err := mesh.WriteFile(m, path); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write mesh %s", path)
	}
	c.Logger.Debug("wrote mesh", "path", path)
	printFile(path)
	return nil
}

// groupFor resolves --group against the mesh's active group.
func (c *CLI) groupFor(m *mesh.Mesh) (string, error) {
	group := c.group
	if group == "" {
		group = m.ActiveGroup
	}
	if group == "" {
		return "", errors.New(errors.ErrCodeInvalidGroup, "no vertex group given (use --group or set active_group)")
	}
	if !m.HasGroup(group) {
		return "", errors.New(errors.ErrCodeGroupNotFound, "vertex group %q not found", group)
	}
	return group, nil
}

// =============================================================================
// Snapshot Store
// =============================================================================

func openStore(ctx context.Context, cfg config.Config) (snapshot.Store, error) {
	switch cfg.Store {
	case config.StoreRedis:
		return snapshot.NewRedisStore(ctx, snapshot.RedisConfig{
			Addr:   cfg.RedisAddr,
			Prefix: cfg.RedisPrefix,
		})
	default:
		return snapshot.NewFileStore(cfg.SelectionPath, cfg.ClipboardPath)
	}
}

// withStore opens the snapshot store, runs fn and closes the store.
func (c *CLI) withStore(ctx context.Context, fn func(snapshot.Store) error) error {
	store, err := c.newStore(ctx, c.cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "open %s snapshot store", c.cfg.Store)
	}
	defer store.Close()
	return fn(store)
}

// =============================================================================
// Error Reporting
// =============================================================================

// report turns recoverable errors into warnings. An empty selection is not a
// failure: nothing is written and the command exits 0.
func report(err error) error {
	if err == nil {
		return nil
	}
	if errors.IsRecoverable(err) {
		printWarning("%s", errors.UserMessage(err))
		return nil
	}
	return err
}

// ExitCode maps an error returned by the root command to a process exit code.
func ExitCode(err error) int {
	switch errors.GetCode(err) {
	case "":
		return 1
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidGroup, errors.ErrCodeInvalidRange,
		errors.ErrCodeInvalidMesh, errors.ErrCodeGroupNotFound, errors.ErrCodeNotFound:
		return 2
	case errors.ErrCodeIO:
		return 3
	case errors.ErrCodeInvariant, errors.ErrCodeInternal:
		return 4
	default:
		return 1
	}
}

// FormatError renders err for the terminal.
func FormatError(err error) string {
	return fmt.Sprintf("%s %s", styleIconError.Render(iconError), err)
}
