package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "blogctl",
	Short: "Blog backend server and administration tool",
	Long: `Run the blog API server and manage its database, configuration and
accounts.`,
}

// requireSubcommand is the Run of command groups such as db and user. It
// lists the available subcommands and exits non-zero.
func requireSubcommand(cmd *cobra.Command, _ []string) {
	var names []string
	for _, sub := range cmd.Commands() {
		if sub.IsAvailableCommand() {
			names = append(names, sub.Name())
		}
	}
	fmt.Printf("error: Command '%s' requires a subcommand (%s)\n\n", cmd.Name(), strings.Join(names, ", "))
	_ = cmd.Help()
	os.Exit(1)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
