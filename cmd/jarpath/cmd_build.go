package main

import (
	"context"
	"fmt"

	"jarpath/internal/classpath"
	"jarpath/internal/logging"

	"github.com/spf13/cobra"
)

// buildCmd builds the classpath once
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "List the jar directories once and print the classpath",
	Long: `Lists every configured directory in order and prints the classpath.

Nothing is printed to stdout if any directory is missing or unreadable; the
error names the directory and the exit status is non-zero.

Examples:
  jarpath build
  jarpath build --base-dir /opt/repast/plugins/ --format expanded
  REPASTHOME=/opt/repast/plugins/ jarpath build -d libA/ -d libB/`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

// runBuild builds the classpath and renders it to stdout
func runBuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	b := classpath.New(cfg.BuilderOptions(), logger.Get(logging.CategoryScan))
	cp, err := b.Build(ctx)
	if err != nil {
		return fmt.Errorf("classpath build failed: %w", err)
	}

	return classpath.Render(cmd.OutOrStdout(), cp, cfg.GetFormat())
}
