package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ning0612/pcclean/internal/logger"
	"github.com/Ning0612/pcclean/internal/service"
)

type runOptions struct {
	directory        string
	deleteDuplicates bool
	cleanTemp        bool
	schedule         bool
	interval         time.Duration
	yes              bool
}

func (o runOptions) request() service.Request {
	return service.Request{
		Directory:        o.directory,
		DeleteDuplicates: o.deleteDuplicates,
		CleanTemp:        o.cleanTemp,
	}
}

func newRootCommand() *cobra.Command {
	var configFlag, logLevelFlag, logFormatFlag string
	var opts runOptions

	ctx := newCommandContext(&configFlag, &logLevelFlag, &logFormatFlag)

	rootCmd := &cobra.Command{
		Use:           "pcclean",
		Short:         "PC cleaner and file organizer",
		Long:          "Sort a directory into category folders, optionally deleting duplicate files, and purge temporary files.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.initLogger(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer logger.Shutdown()

			if err := opts.request().Validate(); err != nil {
				_ = cmd.Usage()
				return err
			}
			if opts.schedule {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("interval") {
					opts.interval = cfg.Schedule.Interval
				}
				if opts.interval <= 0 {
					return fmt.Errorf("interval must be positive, got %v", opts.interval)
				}
				return runScheduled(cmd, ctx, opts)
			}
			return runOnce(cmd, ctx, opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.directory, "directory", "d", "", "Directory to organize (e.g., Downloads)")
	flags.BoolVar(&opts.deleteDuplicates, "delete-duplicates", false, "Delete duplicate files while organizing")
	flags.BoolVar(&opts.cleanTemp, "clean-temp", false, "Clean temporary files")
	flags.BoolVar(&opts.schedule, "schedule", false, "Run on a schedule")
	flags.DurationVar(&opts.interval, "interval", 0, "Interval between scheduled runs (default schedule.interval, 24h)")
	flags.BoolVarP(&opts.yes, "yes", "y", false, "Do not ask before deleting temporary files")

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log format (text, json)")

	rootCmd.AddCommand(newHistoryCommand(ctx))

	return rootCmd
}
