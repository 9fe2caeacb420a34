package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nebari-dev/dirindex/internal/config"
	"github.com/nebari-dev/dirindex/internal/indexer"
	"github.com/nebari-dev/dirindex/internal/logger"
	"github.com/nebari-dev/dirindex/internal/utils"
)

var configFile string

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&configFile, "config", "c", "", "Config file (default: dirindex.{yaml,toml} in . or the user config dir)")
	flags.StringP("index-file", "f", "index.html", "Listing file name; existing files are not overwritten")
	flags.StringSliceP("exclude", "x", nil, "Glob pattern of entries to skip (repeatable)")
	flags.StringP("report", "r", "", "Write a run report (.toml, .yaml or .json)")
	flags.String("log-format", "auto", "Log format: text, json or auto")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
}

func runIndex(cmd *cobra.Command, args []string) error {
	root := args[0]

	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	logger.Init(cfg.Log.Format, cfg.Log.Level)

	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}

	idx, err := indexer.New(indexer.Options{
		FileName: cfg.Index.FileName,
		Exclude:  cfg.Index.Exclude,
		Logger:   slog.Default(),
	})
	if err != nil {
		return err
	}

	rep, err := idx.Run(root)
	if err != nil {
		return err
	}

	if cfg.Report.Path != "" {
		if err := rep.WriteFile(cfg.Report.Path); err != nil {
			return err
		}
		slog.Debug("Report written", "path", cfg.Report.Path)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %d of %d listings under %s, %s bytes (%s)\n",
		rep.Created(), len(rep.Directories), root, humanize.Comma(rep.TotalSize), utils.FormatBytes(rep.TotalSize))
	return nil
}
