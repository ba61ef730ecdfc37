// ABOUTME: Config command for inspecting and seeding the config file.
// ABOUTME: Prints the effective TOML settings or writes them to disk.
package cli

import (
	"fmt"

	"github.com/harper/shipit/internal/config"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or seed the configuration file",
		Long: "Without flags, prints the effective settings (file values merged with the\n" +
			"built-in publish target). With --init, writes those settings to the config\n" +
			"file so they can be edited.",
		RunE: runConfig,
	}

	cmd.Flags().Bool("path", false, "print the config file path only")
	cmd.Flags().Bool("init", false, "write the effective settings to the config file")

	return cmd
}

func runConfig(cmd *cobra.Command, args []string) error {
	showPathOnly, _ := cmd.Flags().GetBool("path")
	seed, _ := cmd.Flags().GetBool("init")

	cfg, cfgPath, err := loadConfig()
	if err != nil {
		return err
	}

	if showPathOnly {
		cmd.Println(cfgPath)
		return nil
	}

	if seed {
		if err := config.Save(cfgPath, cfg); err != nil {
			return err
		}
		cmd.Printf("Wrote %s\n", cfgPath)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	cmd.Printf("# config file: %s\n", cfgPath)
	cmd.Print(string(data))
	if len(data) == 0 || data[len(data)-1] != '\n' {
		cmd.Println()
	}
	return nil
}
