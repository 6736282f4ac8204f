package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/blog-in-go/pkg/config"
)

// configurationCmd groups the read-only configuration commands
var configurationCmd = &cobra.Command{
	Use:   "configuration",
	Short: "Inspect blog configuration",
	Run:   requireSubcommand,
}

// configurationShowCmd represents the configuration show command
var configurationShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show configuration attributes and their sources",
	Long: `Show configuration attributes and their sources.

The values displayed by this command reflect the current state of the
configuration sources: defaults, the config file, the .env file and the
environment. These may not reflect the values used by a running server.
Secrets are redacted.

Config file location: /etc/blog/blog.yml (or BLOG_CONFIG_PATH)

Example:
  blogctl configuration show
  blogctl configuration show --json`,
	Run: func(cmd *cobra.Command, args []string) {
		asJSON, _ := cmd.Flags().GetBool("json")

		if err := showConfiguration(cmd.OutOrStdout(), asJSON); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to show configuration: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(configurationCmd)
	configurationCmd.AddCommand(configurationShowCmd)
	configurationShowCmd.Flags().Bool("json", false, "Print as JSON")
}

func showConfiguration(w io.Writer, asJSON bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if asJSON {
		out, err := cfg.FormatJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, out)
		return err
	}

	_, err = fmt.Fprint(w, cfg.FormatText())
	return err
}
