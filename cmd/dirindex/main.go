package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "dirindex [flags] DIR",
	Short: "Write a listing page into every directory of a tree",
	Long: `dirindex walks a directory tree and writes a listing page into each
directory, naming every file and subdirectory with its size.

Existing listing pages are never overwritten, so running dirindex again only
adds the pages that are missing.`,
	Example: `  # Index a tree with the default index.html pages
  dirindex ./public

  # Use another page name, skip temporary files and keep a report
  dirindex ./public --index-file listing.html -x '*.tmp' --report run.toml`,
	Args:         cobra.ExactArgs(1),
	RunE:         runIndex,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
