package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/blog-in-go/pkg/audit"
	"github.com/doodlesbykumbi/blog-in-go/pkg/db"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/blog-in-go/pkg/server/store/gorm"
)

// userCmd represents the user command
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
	Long:  `Manage account roles and activation.`,
	Run:   requireSubcommand,
}

func init() {
	rootCmd.AddCommand(userCmd)
}

// openUsersStore connects to the configured database
func openUsersStore() (store.UsersStore, error) {
	database, err := db.Connect(db.Config{URL: databaseURL()})
	if err != nil {
		return nil, err
	}
	return gormstore.NewUsersStore(database), nil
}

// auditAccount records an operator change. Audit lines go to stderr so
// command output stays clean.
func auditAccount(username, change string, err error) {
	audit.DefaultLogger.SetWriter(os.Stderr)
	event := audit.AccountEvent{Username: username, Change: change, Success: err == nil}
	if err != nil {
		event.ErrorMessage = err.Error()
	}
	audit.Log(event)
}

func withUsers(fn func(ctx context.Context, users store.UsersStore) error) error {
	users, err := openUsersStore()
	if err != nil {
		return err
	}
	return fn(context.Background(), users)
}
