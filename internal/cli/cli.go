// Package cli implements the uniquepfp command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/uniquepfp/pkg/buildinfo"
	"github.com/matzehuels/uniquepfp/pkg/cache"
	"github.com/matzehuels/uniquepfp/pkg/orchestrator"
	"github.com/matzehuels/uniquepfp/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "uniquepfp"

	// configFile is the file name looked up in the config directory.
	configFile = "config.toml"
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

	// configPath is set by the persistent --config flag.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "uniquepfp turns usernames into unique profile pictures",
		Long:          `uniquepfp deterministically renders a profile picture from a username: the same name always yields the same grid mosaic or Voronoi diagram.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+displayConfigPath()+")")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.seedCommand())
	root.AddCommand(c.liveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Duplicate usernames in a
// single invocation are served from the in-memory cache.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(cache.NewMemoryCache(), nil, c.Logger)
}

// loadConfig reads the config named by --config, or the default config file
// when it exists, or falls back to built-in defaults.
func (c *CLI) loadConfig() (orchestrator.Config, error) {
	path := c.configPath
	if path == "" {
		if p, err := configPath(); err == nil {
			if _, err := os.Stat(p); err == nil {
				path = p
			}
		}
	}
	cfg, err := orchestrator.LoadConfig(path)
	if err != nil {
		return orchestrator.Config{}, err
	}
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	return cfg, nil
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the config directory using XDG standard (~/.config/uniquepfp/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// configPath returns the default config file path.
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

func displayConfigPath() string {
	p, err := configPath()
	if err != nil {
		return configFile
	}
	return p
}
