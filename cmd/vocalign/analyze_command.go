package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"vocalign/internal/align"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var expected float64
	var songID string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze <audio-file>",
		Short: "Analyze one vocal track against its expected lyric onset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			id := strings.TrimSpace(songID)
			if id == "" {
				id = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}

			p, err := ctx.newPipeline()
			if err != nil {
				return err
			}

			rec, err := p.AnalyzeFile(cmd.Context(), id, path, expected)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, rec)
			}
			printRecord(cmd, rec)
			return nil
		},
	}

	cmd.Flags().Float64VarP(&expected, "expected", "e", 0, "Expected vocal onset from the lyrics, in seconds")
	cmd.Flags().StringVar(&songID, "song-id", "", "Song identifier (defaults to the file name)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the alignment record as JSON")
	_ = cmd.MarkFlagRequired("expected")
	return cmd
}

func printRecord(cmd *cobra.Command, rec align.Record) {
	out := cmd.OutOrStdout()

	rows := make([][]string, 0, len(rec.PerMethod))
	for _, res := range rec.PerMethod {
		onsetCol := "-"
		if res.Found {
			onsetCol = fmt.Sprintf("%.3f", res.OnsetSec)
		}
		rows = append(rows, []string{
			res.Method.String(),
			onsetCol,
			res.Confidence.String(),
			fmt.Sprintf("%.2f", res.Score),
			res.Detail,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Method", "Onset (s)", "Confidence", "Score", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignRight, alignLeft},
	))

	fmt.Fprintf(out, "Song:            %s\n", rec.SongID)
	fmt.Fprintf(out, "Detected onset:  %.3fs\n", rec.DetectedOnsetSec)
	fmt.Fprintf(out, "Expected onset:  %.3fs\n", rec.ExpectedOnsetSec)
	fmt.Fprintf(out, "Offset:          %+.3fs\n", rec.OffsetSec)
	fmt.Fprintf(out, "Disagreement:    %.3fs\n", rec.DisagreementSec)
	fmt.Fprintf(out, "Classification:  %s (%s confidence)\n", rec.Classification, rec.Confidence)
	fmt.Fprintf(out, "Recommendation:  %s\n", rec.Recommendation)
}
