package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/blog-in-go/pkg/server/store"
)

// userEnableCmd represents the user enable command
var userEnableCmd = &cobra.Command{
	Use:   "enable <username>",
	Short: "Re-activate an account",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setActive(args[0], true)
	},
}

// userDisableCmd represents the user disable command
var userDisableCmd = &cobra.Command{
	Use:   "disable <username>",
	Short: "Deactivate an account",
	Long: `Deactivate an account.

A deactivated account can no longer log in. When reject_inactive is set
(the default) its existing tokens stop working immediately.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setActive(args[0], false)
	},
}

func init() {
	userCmd.AddCommand(userEnableCmd)
	userCmd.AddCommand(userDisableCmd)
}

func setActive(username string, active bool) {
	err := withUsers(func(ctx context.Context, users store.UsersStore) error {
		return users.SetActive(ctx, username, active)
	})
	auditAccount(username, "active="+strconv.FormatBool(active), err)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to update %s: %v\n", username, err)
		os.Exit(1)
	}

	state := "disabled"
	if active {
		state = "enabled"
	}
	fmt.Printf("%s is now %s\n", username, state)
}
