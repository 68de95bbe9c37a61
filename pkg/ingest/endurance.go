package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/raceday/pitwall/log"
	"github.com/raceday/pitwall/pkg/model"
)

// endurance classification files are semicolon separated with one row
// per (car, lap). Column names vary in whitespace between timing
// providers, so headers are matched after trimming.
const (
	colCarNumber = "NUMBER"
	colLapNumber = "LAP_NUMBER"
	colElapsed   = "ELAPSED"
	colLapTime   = "LAP_TIME"
)

// ReadEnduranceFile loads lap-by-lap field data from a semicolon
// separated classification file.
func ReadEnduranceFile(path string) ([]model.LapRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open endurance file: %w", err)
	}
	defer f.Close()
	return ParseEndurance(f)
}

// ParseEndurance reads endurance rows from r. Missing required columns
// are a hard failure (ErrMissingColumns). Rows with unparseable values
// are skipped with a warning.
//
//nolint:funlen // sequential parse steps
func ParseEndurance(r io.Reader) ([]model.LapRecord, error) {
	l := log.Default().Named("ingest.endurance")
	csvReader := csv.NewReader(r)
	csvReader.Comma = ';'
	csvReader.LazyQuotes = true
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("read endurance header: %w", err)
	}
	idx := headerIndex(header)
	missing := lo.Filter([]string{colCarNumber, colLapNumber, colElapsed},
		func(col string, _ int) bool {
			_, ok := idx[col]
			return !ok
		})
	if len(missing) > 0 {
		return nil, missingColumnsError(missing)
	}

	ret := make([]model.LapRecord, 0)
	line := 1
	for {
		rec, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			l.Warn("skipping unreadable row", log.Int("line", line), log.ErrorField(err))
			continue
		}
		carNum, err := strconv.Atoi(strings.TrimSpace(rec[idx[colCarNumber]]))
		if err != nil {
			l.Warn("invalid car number", log.Int("line", line), log.ErrorField(err))
			continue
		}
		lapNum, err := strconv.Atoi(strings.TrimSpace(rec[idx[colLapNumber]]))
		if err != nil {
			l.Warn("invalid lap number", log.Int("line", line), log.ErrorField(err))
			continue
		}
		elapsed, err := ParseElapsed(rec[idx[colElapsed]])
		if err != nil {
			l.Warn("invalid elapsed time", log.Int("line", line), log.ErrorField(err))
			continue
		}
		lapTime := 0.0
		if col, ok := idx[colLapTime]; ok && col < len(rec) {
			// lap time is informational, a parse failure is not fatal
			if v, err := ParseElapsed(rec[col]); err == nil {
				lapTime = v
			}
		}
		ret = append(ret, model.LapRecord{
			CarNumber:   carNum,
			LapNumber:   lapNum,
			ElapsedTime: elapsed,
			LapTime:     lapTime,
		})
	}
	l.Debug("endurance data loaded", log.Int("rows", len(ret)))
	return ret, nil
}

func headerIndex(header []string) map[string]int {
	ret := make(map[string]int)
	for i, h := range header {
		ret[strings.ToUpper(strings.TrimSpace(h))] = i
	}
	return ret
}
