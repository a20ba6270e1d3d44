package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

type ExportData struct {
	Run    RunMetadata `json:"run"`
	Series *Series     `json:"series"`
}

// Export writes a run's metadata and metric series to w as "json" or "csv".
func (s *Store) Export(w io.Writer, runID, format string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	series, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}

	switch format {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ExportData{Run: *meta, Series: series})
	case "csv":
		return writeSeriesCSV(w, series)
	default:
		return fmt.Errorf("unknown export format %q (json, csv)", format)
	}
}

func writeSeriesCSV(w io.Writer, series *Series) error {
	cw := csv.NewWriter(w)
	names := series.Names()
	if err := cw.Write(append([]string{"frame"}, names...)); err != nil {
		return err
	}
	for i, frame := range series.Frames {
		row := []string{strconv.FormatUint(frame, 10)}
		for _, name := range names {
			row = append(row, strconv.FormatFloat(series.Values[name][i], 'g', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
