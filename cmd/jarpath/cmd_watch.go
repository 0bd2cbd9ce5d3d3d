package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"jarpath/internal/classpath"
	"jarpath/internal/logging"
	"jarpath/internal/watch"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// watchCmd rebuilds the classpath on every change
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the classpath, then again whenever a jar directory changes",
	Long: `Builds once, then watches every configured directory and prints a
fresh classpath after each settled burst of changes (see watch.debounce).

A failing initial build exits non-zero. Later failures, such as a directory
being removed, are logged and watching continues. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	baseCtx := cmd.Context()
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(baseCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watchClasspath(ctx, cmd)
}

// watchClasspath runs the watcher and the renderer until ctx is done.
func watchClasspath(ctx context.Context, cmd *cobra.Command) error {
	log := logger.Get(logging.CategoryWatch)
	b := classpath.New(cfg.BuilderOptions(), logger.Get(logging.CategoryScan))
	w := watch.New(b, b.DirPaths(), watch.Options{
		Suffix:   cfg.Suffix,
		Debounce: cfg.GetDebounce(),
	}, log)

	out := cmd.OutOrStdout()
	outFormat := cfg.GetFormat()
	events := make(chan watch.Event)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(events)
		return w.Run(gctx, events)
	})
	g.Go(func() error {
		for ev := range events {
			if ev.Err != nil {
				continue
			}
			if err := classpath.Render(out, ev.Classpath, outFormat); err != nil {
				return err
			}
		}
		return nil
	})

	err := g.Wait()
	stats := w.GetStats()
	log.Info("watch stopped",
		zap.Int("rebuilds", stats.Rebuilds),
		zap.Int("failures", stats.Failures))
	return err
}
