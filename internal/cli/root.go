// ABOUTME: Root command and CLI setup for the shipit application.
// ABOUTME: Configures Cobra commands and resolves config/data paths.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// appOptions carries CLI-wide path overrides.
type appOptions struct {
	configPath string
	dataDir    string
}

var opts = appOptions{}

// Execute runs the Cobra root command.
func Execute() error {
	cmd := newRootCmd()
	return cmd.Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shipit",
		Short: "Shipit publishes the current directory to a GitHub repository",
		Long: "Shipit initializes a repository if needed, points the \"origin\" remote at the\n" +
			"configured GitHub URL, commits everything, and force-pushes the \"main\" branch\n" +
			"with upstream tracking. Run it with no arguments in the directory to publish.",
		Args: cobra.NoArgs,
		RunE: runPublish,
	}
	cmd.SilenceUsage = true

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/shipit/config.toml)")
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data", "", "data directory (default ~/.local/share/shipit)")

	cmd.AddCommand(
		newHistoryCmd(),
		newStatusCmd(),
		newConfigCmd(),
		newMCPCmd(),
	)

	return cmd
}

func resolveConfigPath() (string, error) {
	if opts.configPath != "" {
		return opts.configPath, nil
	}

	// Use XDG_CONFIG_HOME if set, otherwise ~/.config (even on macOS)
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locating home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "shipit", "config.toml"), nil
}

func resolveDataDir() (string, error) {
	if opts.dataDir != "" {
		return opts.dataDir, nil
	}

	// Use XDG_DATA_HOME if set, otherwise ~/.local/share (even on macOS)
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locating home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataDir, "shipit"), nil
}
