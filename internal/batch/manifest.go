package batch

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ReadManifest parses a CSV manifest with one song per line:
//
//	song_id,path,expected_onset_sec
//
// A header row is recognized by a non-numeric third column and skipped.
func ReadManifest(path string) ([]Job, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 3
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	var jobs []Job
	for i, row := range rows {
		expected, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			if i == 0 {
				continue
			}
			return nil, fmt.Errorf("manifest %s line %d: expected onset %q is not a number", path, i+1, row[2])
		}
		job := Job{
			SongID:           strings.TrimSpace(row[0]),
			Path:             strings.TrimSpace(row[1]),
			ExpectedOnsetSec: expected,
		}
		if job.SongID == "" || job.Path == "" {
			return nil, fmt.Errorf("manifest %s line %d: song id and path are required", path, i+1)
		}
		jobs = append(jobs, job)
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("manifest %s contains no songs", path)
	}
	return jobs, nil
}
