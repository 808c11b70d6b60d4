package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"vocalign/internal/batch"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "batch <manifest.csv>",
		Short: "Analyze every song in a manifest and report alignment statistics",
		Long: `Analyze every song listed in a CSV manifest.

Each manifest line holds one song:

  song_id,path,expected_onset_sec

A failing song is reported and counted; it never aborts the rest of the batch.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := batch.ReadManifest(args[0])
			if err != nil {
				return err
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			p, err := ctx.newPipeline()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			runner := batch.NewRunner(p, cfg.BatchConfig(), logger)
			report, err := runner.Run(cmd.Context(), jobs)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, report)
			}
			printReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the batch report as JSON")
	return cmd
}

func printReport(cmd *cobra.Command, report *batch.Report) {
	out := cmd.OutOrStdout()

	rows := make([][]string, 0, len(report.Records))
	for _, rec := range report.Records {
		rows = append(rows, []string{
			rec.SongID,
			fmt.Sprintf("%.3f", rec.DetectedOnsetSec),
			fmt.Sprintf("%.3f", rec.ExpectedOnsetSec),
			fmt.Sprintf("%+.3f", rec.OffsetSec),
			string(rec.Classification),
			rec.Confidence.String(),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Song", "Detected (s)", "Expected (s)", "Offset (s)", "Classification", "Confidence"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignLeft, alignLeft},
	))

	if len(report.Failures) > 0 {
		failureRows := make([][]string, 0, len(report.Failures))
		for _, failure := range report.Failures {
			failureRows = append(failureRows, []string{failure.SongID, failure.Kind, failure.Err})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Failed Song", "Kind", "Error"},
			failureRows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft},
		))
	}

	summary := report.Summary()
	if shouldColorize(out) {
		summary = ansiBold + summary + ansiReset
	}
	fmt.Fprintln(out, summary)
	fmt.Fprintf(out, "Average offset: %+.3fs over %d classified songs, %d failed, run %s in %s\n",
		report.AverageOffsetSec, len(report.Records), report.FailedCount, report.RunID,
		report.Elapsed.Round(10*time.Millisecond))
}

const (
	ansiBold  = "\x1b[1m"
	ansiReset = "\x1b[0m"
)

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
