package main

import (
	"database/sql"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/blog-in-go/pkg/audit"
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the audit trail",
	Long: `Inspect audit messages persisted to the audit_messages table.

Messages are only persisted while the server runs with
BLOG_AUDIT_ENABLED=true and AUDIT_DATABASE_URL set.`,
	Run: requireSubcommand,
}

// auditRecentCmd represents the audit recent command
var auditRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the newest audit messages",
	Long: `Show the newest audit messages.

Reads AUDIT_DATABASE_URL, falling back to the main database.

Example:
  blogctl audit recent --limit 50`,
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")

		store, err := openAuditStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open audit store: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		messages, err := store.Recent(limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read audit messages: %v\n", err)
			os.Exit(1)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TIMESTAMP\tMSGID\tSEVERITY\tMESSAGE")
		for _, m := range messages {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", m.Timestamp.Format(time.RFC3339), m.Msgid, m.Severity, m.Message)
		}
		_ = w.Flush()
	},
}

func init() {
	auditRecentCmd.Flags().IntP("limit", "n", 20, "number of messages to show")
	auditCmd.AddCommand(auditRecentCmd)
	rootCmd.AddCommand(auditCmd)
}

func openAuditStore() (*audit.Store, error) {
	store, err := audit.NewStore()
	if err != nil {
		return nil, err
	}
	if store != nil {
		return store, nil
	}

	database, err := sql.Open("postgres", databaseURL())
	if err != nil {
		return nil, err
	}
	return audit.NewStoreWithDB(database), nil
}
