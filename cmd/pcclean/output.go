package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/Ning0612/pcclean/internal/domain"
	"github.com/Ning0612/pcclean/internal/service"
)

func printSummary(w io.Writer, summary domain.RunSummary) {
	if summary.SetupError != "" {
		color.New(color.FgRed).Fprintf(w, "Error: %s\n", summary.SetupError)
	}
	if summary.PurgeDeclined {
		color.New(color.FgYellow).Fprintln(w, "Temp cleanup was not confirmed; nothing was deleted.")
	}

	fmt.Fprintln(w, service.FormatSummary(summary))
	if summary.BytesFreed > 0 {
		fmt.Fprintf(w, "  %s freed in total\n", humanize.IBytes(uint64(summary.BytesFreed)))
	}

	if len(summary.Errors) == 0 {
		return
	}

	color.New(color.FgRed).Fprintf(w, "%d file(s) could not be processed:\n", len(summary.Errors))
	rows := make([][]string, 0, len(summary.Errors))
	for _, e := range summary.Errors {
		rows = append(rows, []string{string(e.Op), e.Path, errString(e.Err)})
	}
	fmt.Fprintln(w, renderTable([]string{"Op", "Path", "Error"}, rows, nil))
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
