package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/blog-in-go/pkg/role"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server/store"
)

// userSetRoleCmd represents the user set-role command
var userSetRoleCmd = &cobra.Command{
	Use:   "set-role <username> <role>",
	Short: "Change an account's role",
	Long: `Change the role of an account.

The role is a name or its level number:
  guest (0), normal (1), vip (2), admin (3), superadmin (4)

The HTTP API has no role management, so this is how the first
administrator is created.

Example:
  blogctl user set-role alice admin
  blogctl user set-role bob 2`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		username := args[0]

		level, err := role.Parse(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		err = withUsers(func(ctx context.Context, users store.UsersStore) error {
			return users.SetRole(ctx, username, level)
		})
		auditAccount(username, "role="+level.String(), err)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to set role for %s: %v\n", username, err)
			os.Exit(1)
		}
		fmt.Printf("%s is now %s\n", username, level.DisplayName())
	},
}

func init() {
	userCmd.AddCommand(userSetRoleCmd)
}
