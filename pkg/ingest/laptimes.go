package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/raceday/pitwall/log"
	"github.com/raceday/pitwall/pkg/model"
)

// ReadLapTimeFile loads a lap time CSV with columns
// vehicle_id, lap, timestamp, value. Rows keep file order, which is
// timestamp order per vehicle in the source data.
func ReadLapTimeFile(path string) ([]model.LapTimeRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lap time file: %w", err)
	}
	defer f.Close()
	return ParseLapTimes(f)
}

func ParseLapTimes(r io.Reader) ([]model.LapTimeRow, error) {
	l := log.Default().Named("ingest.laptimes")
	csvReader := csv.NewReader(r)
	csvReader.LazyQuotes = true
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("read lap time header: %w", err)
	}
	idx := lowerHeaderIndex(header)
	missing := lo.Filter([]string{"vehicle_id", "lap", "value"},
		func(col string, _ int) bool {
			_, ok := idx[col]
			return !ok
		})
	if len(missing) > 0 {
		return nil, missingColumnsError(missing)
	}

	ret := make([]model.LapTimeRow, 0)
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
		lap, err := parseLapNumber(rec[idx["lap"]])
		if err != nil {
			l.Warn("invalid lap", log.Int("line", line), log.ErrorField(err))
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(rec[idx["value"]]), 64)
		if err != nil {
			l.Warn("invalid value", log.Int("line", line), log.ErrorField(err))
			continue
		}
		row := model.LapTimeRow{
			VehicleID: strings.TrimSpace(rec[idx["vehicle_id"]]),
			Lap:       lap,
			Value:     value,
		}
		if col, ok := idx["timestamp"]; ok && col < len(rec) {
			row.Timestamp = strings.TrimSpace(rec[col])
		}
		ret = append(ret, row)
	}
	return ret, nil
}

// VehicleIDs returns the distinct vehicle ids in rows, sorted.
func VehicleIDs(rows []model.LapTimeRow) []string {
	ids := lo.Uniq(lo.Map(rows, func(r model.LapTimeRow, _ int) string {
		return r.VehicleID
	}))
	sort.Strings(ids)
	return ids
}

// FilterVehicle returns the rows of a single vehicle in file order.
func FilterVehicle(rows []model.LapTimeRow, vehicleID string) []model.LapTimeRow {
	return lo.Filter(rows, func(r model.LapTimeRow, _ int) bool {
		return r.VehicleID == vehicleID
	})
}

// lap columns sometimes carry numeric strings like "12.0"
func parseLapNumber(arg string) (int, error) {
	text := strings.TrimSpace(arg)
	if v, err := strconv.Atoi(text); err == nil {
		return v, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid lap number %q: %w", arg, err)
	}
	return int(v), nil
}

func lowerHeaderIndex(header []string) map[string]int {
	ret := make(map[string]int)
	for i, h := range header {
		ret[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return ret
}
