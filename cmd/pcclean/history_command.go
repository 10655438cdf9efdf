package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Ning0612/pcclean/internal/logger"
	"github.com/Ning0612/pcclean/internal/state"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent cleanup runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer logger.Shutdown()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.State.History {
				fmt.Fprintln(cmd.OutOrStdout(), "Run history is disabled (state.history: false).")
				return nil
			}

			dir, err := cfg.StateDir()
			if err != nil {
				return err
			}
			mgr, err := state.NewManager(dir)
			if err != nil {
				return err
			}
			defer mgr.Close()

			runs, err := mgr.RecentRuns(limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderHistory(runs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show")
	return cmd
}

func renderHistory(runs []state.RunRecord) string {
	headers := []string{"ID", "Started", "Duration", "Status", "Directory", "Moved", "Duplicates", "Temp Files", "Freed", "Errors"}
	aligns := []columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		directory := r.Directory
		if directory == "" {
			directory = "-"
		}
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.StartTime.Local().Format(time.DateTime),
			r.EndTime.Sub(r.StartTime).Round(time.Millisecond).String(),
			r.Status,
			directory,
			strconv.Itoa(r.FilesMoved),
			strconv.Itoa(r.DuplicatesDeleted),
			strconv.Itoa(r.TempFilesDeleted),
			humanize.IBytes(uint64(r.BytesFreed)),
			strconv.Itoa(r.ErrorCount),
		})
	}
	return renderTable(headers, rows, aligns)
}
