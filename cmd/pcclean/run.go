package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Ning0612/pcclean/internal/domain"
	"github.com/Ning0612/pcclean/internal/logger"
	"github.com/Ning0612/pcclean/internal/service"
)

func runOnce(cmd *cobra.Command, ctx *commandContext, opts runOptions) error {
	cleaner, cleanup, err := ctx.buildCleaner(cmd, opts.yes)
	if err != nil {
		return err
	}
	defer cleanup()

	summary, err := cleaner.Run(cmd.Context(), opts.request())
	if errors.Is(err, domain.ErrRunInProgress) {
		return err
	}

	printSummary(cmd.OutOrStdout(), summary)
	return err
}

func runScheduled(cmd *cobra.Command, ctx *commandContext, opts runOptions) error {
	cleaner, cleanup, err := ctx.buildCleaner(cmd, opts.yes)
	if err != nil {
		return err
	}
	defer cleanup()

	daemon, err := service.NewDaemonService(cleaner, opts.request())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	daemon.OnRun(func(summary domain.RunSummary, err error) {
		if errors.Is(err, domain.ErrRunInProgress) {
			fmt.Fprintf(out, "Skipped scheduled run: %v\n", err)
			return
		}
		printSummary(out, summary)
	})

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	runCtx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := daemon.Start(runCtx, opts.interval); err != nil {
		return err
	}

	fmt.Fprintf(out, "Running in scheduled mode (every %s). Press Ctrl+C to stop.\n", opts.interval)
	logger.Get().Info("scheduled mode started", "interval", opts.interval.String())

	daemon.Wait()

	logger.Get().Info("scheduled run stopped")
	fmt.Fprintln(out, "Stopped.")
	return nil
}
