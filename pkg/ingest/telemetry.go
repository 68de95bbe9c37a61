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

// ReadTelemetryFile loads a long-form telemetry CSV with columns
// vehicle_id, lap, telemetry_name, value.
func ReadTelemetryFile(path string) ([]model.TelemetryRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open telemetry file: %w", err)
	}
	defer f.Close()
	return ParseTelemetry(f)
}

func ParseTelemetry(r io.Reader) ([]model.TelemetryRow, error) {
	l := log.Default().Named("ingest.telemetry")
	csvReader := csv.NewReader(r)
	csvReader.LazyQuotes = true
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("read telemetry header: %w", err)
	}
	idx := lowerHeaderIndex(header)
	// both telemetry_name and parameter_name are seen in the wild
	paramCol, ok := idx["telemetry_name"]
	if !ok {
		paramCol, ok = idx["parameter_name"]
	}
	missing := lo.Filter([]string{"vehicle_id", "lap", "value"},
		func(col string, _ int) bool {
			_, found := idx[col]
			return !found
		})
	if !ok {
		missing = append(missing, "telemetry_name")
	}
	if len(missing) > 0 {
		return nil, missingColumnsError(missing)
	}

	ret := make([]model.TelemetryRow, 0)
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
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(rec[idx["value"]]), 64)
		if err != nil {
			continue
		}
		ret = append(ret, model.TelemetryRow{
			VehicleID: strings.TrimSpace(rec[idx["vehicle_id"]]),
			Lap:       lap,
			Parameter: strings.TrimSpace(rec[paramCol]),
			Value:     value,
		})
	}
	l.Debug("telemetry loaded", log.Int("rows", len(ret)))
	return ret, nil
}

// FilterChannel returns the samples of one vehicle and one telemetry
// channel, in file order.
func FilterChannel(rows []model.TelemetryRow, vehicleID, parameter string) []model.TelemetryRow {
	return lo.Filter(rows, func(r model.TelemetryRow, _ int) bool {
		return r.VehicleID == vehicleID && r.Parameter == parameter
	})
}

// Channels returns the distinct telemetry channel names of a vehicle.
func Channels(rows []model.TelemetryRow, vehicleID string) []string {
	return lo.Uniq(lo.FilterMap(rows, func(r model.TelemetryRow, _ int) (string, bool) {
		return r.Parameter, r.VehicleID == vehicleID
	}))
}
