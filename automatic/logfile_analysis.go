package automatic

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// AnalyzeLogFile rebuilds the report of a self-play log written by Play.
func AnalyzeLogFile(filepath string) (*Report, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	r := csv.NewReader(file)

	report := NewReport()
	for line := 1; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if record[0] == "gameID" {
			// header
			continue
		}
		res, err := parseResult(record)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", filepath, line, err)
		}
		report.Add(res)
	}
	return report, nil
}
