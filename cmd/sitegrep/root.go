// Package main provides the entry point for the sitegrep CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for sitegrep.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitegrep",
		Short: "Crawl a website and search its pages for a keyword",
		Long: `sitegrep crawls a website depth-first within a configurable scope,
builds an in-memory full-text index of every HTML page it visits, and
prints the URLs whose page text contains a keyword (case-insensitive).

The crawl never leaves the starting site: links are followed only when
they stay under the crawl scope, which defaults to the seed URL's host.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
