package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/blog-in-go/pkg/config"
	"github.com/doodlesbykumbi/blog-in-go/pkg/db"
	"github.com/doodlesbykumbi/blog-in-go/pkg/seed"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load accounts and posts from a YAML file",
	Run:   requireSubcommand,
}

// seedLoadCmd represents the seed load command
var seedLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Apply a seed file",
	Long: `Apply a seed file of !user, !grant and !blog statements.

Existing users are updated and blogs already written by the same author
with the same title are skipped, so a file can be applied repeatedly.
Generated passwords are printed once.

Example:
  blogctl seed load -f seed.yml
  blogctl seed load -f seed.yml --dry-run`,
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("file")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open seed file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()

		database, err := db.Connect(db.Config{URL: databaseURL()})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		loader := seed.NewLoader(seed.NewGormStore(database)).WithDryRun(dryRun)
		if cfg, err := config.Load(); err == nil {
			loader.WithBcryptCost(cfg.BcryptCost)
		}

		result, err := loader.LoadFromReader(context.Background(), f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load seed: %v\n", err)
			os.Exit(1)
		}
		if !dryRun {
			for _, u := range result.Created {
				auditAccount(u.Username, "created", nil)
			}
		}
		printSeedResult(result)
	},
}

func init() {
	seedLoadCmd.Flags().StringP("file", "f", "", "seed file to load")
	seedLoadCmd.Flags().Bool("dry-run", false, "validate and report without writing")
	_ = seedLoadCmd.MarkFlagRequired("file")

	seedCmd.AddCommand(seedLoadCmd)
	rootCmd.AddCommand(seedCmd)
}

func printSeedResult(result *seed.Result) {
	if result.DryRun {
		fmt.Println("Dry run, nothing was written.")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "USER\tID\tGENERATED PASSWORD")
	for _, u := range result.Created {
		fmt.Fprintf(w, "%s\t%s\t%s\n", u.Username, u.ID, u.Password)
	}
	_ = w.Flush()

	fmt.Printf("%d users created, %d updated, %d blogs created, %d skipped\n",
		len(result.Created), len(result.Updated), len(result.Blogs), len(result.Skipped))
}
