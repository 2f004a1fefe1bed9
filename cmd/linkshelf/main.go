package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/linkshelf/internal/app"
	"github.com/MrSnakeDoc/linkshelf/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "linkshelf",
		Short:         "Self-hosted bookmark server with tag filtering and bulk edits",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Without a subcommand, linkshelf serves.
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("❌ linkshelf failed: %v", err)
	}
}

func serve(ctx context.Context) error {
	a, err := app.New(ctx)
	if err != nil {
		return err
	}
	return a.Run()
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (configured through LINKSHELF_* variables)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func importCmd() *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a YAML bookmark file once into the configured store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Import(cmd.Context(), args[0], owner)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d bookmarks (%d skipped)\n", res.Created, res.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "owner of the imported bookmarks (overrides the file)")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Get())
		},
	}
}
