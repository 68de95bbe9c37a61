package telemetry

import (
	"fmt"
	"math"
	"sort"

	"github.com/samber/lo"

	"github.com/raceday/pitwall/pkg/model"
)

// channel health checks over a vehicle's telemetry: statistical
// outliers, stuck sensors and coverage gaps. Findings are advisory,
// they never feed back into the decision core.

type AnomalySeverity string

const (
	SeverityInfo     AnomalySeverity = "info"
	SeverityWarning  AnomalySeverity = "warning"
	SeverityCritical AnomalySeverity = "critical"
)

// Anomaly is one flagged irregularity in a telemetry channel.
type Anomaly struct {
	VehicleID string          `json:"vehicleId"`
	Channel   string          `json:"channel"`
	Lap       int             `json:"lap"`
	Value     float64         `json:"value"`
	Deviation float64         `json:"deviation"` // in channel standard deviations
	Severity  AnomalySeverity `json:"severity"`
	Note      string          `json:"note"`
}

func (a Anomaly) String() string {
	return fmt.Sprintf("[%s] %s lap %d: %s", a.Severity, a.Channel, a.Lap, a.Note)
}

type anomalyThresholds struct {
	warnSigma    float64 // lap mean deviation to flag a warning
	critSigma    float64 // lap mean deviation to flag a critical
	minLaps      int     // laps of data a channel needs before checks run
	flatlineLaps int     // identical consecutive lap means to call a stuck sensor
}

func defaultAnomalyThresholds() anomalyThresholds {
	return anomalyThresholds{
		warnSigma:    3.0,
		critSigma:    5.0,
		minLaps:      10,
		flatlineLaps: 5,
	}
}

type AnomalyOption func(*anomalyThresholds)

func WithSigmaThresholds(warn, crit float64) AnomalyOption {
	return func(t *anomalyThresholds) {
		t.warnSigma = warn
		t.critSigma = crit
	}
}

func WithMinLaps(laps int) AnomalyOption {
	return func(t *anomalyThresholds) {
		t.minLaps = laps
	}
}

func WithFlatlineLaps(laps int) AnomalyOption {
	return func(t *anomalyThresholds) {
		t.flatlineLaps = laps
	}
}

// DetectAnomalies checks every telemetry channel of a vehicle. Results
// come back strongest deviation first. Channels with fewer laps than
// the minimum are skipped entirely.
func DetectAnomalies(
	rows []model.TelemetryRow,
	vehicleID string,
	opts ...AnomalyOption,
) []Anomaly {
	th := defaultAnomalyThresholds()
	for _, opt := range opts {
		opt(&th)
	}

	own := lo.Filter(rows, func(r model.TelemetryRow, _ int) bool {
		return r.VehicleID == vehicleID
	})
	ret := make([]Anomaly, 0)
	for channel, samples := range lo.GroupBy(own, func(r model.TelemetryRow) string {
		return r.Parameter
	}) {
		ret = append(ret, checkChannel(vehicleID, channel, samples, th)...)
	}
	sort.SliceStable(ret, func(i, j int) bool {
		return ret[i].Deviation > ret[j].Deviation
	})
	return ret
}

//nolint:funlen // the checks read best in one sequence
func checkChannel(
	vehicleID, channel string,
	samples []model.TelemetryRow,
	th anomalyThresholds,
) []Anomaly {
	laps, means := lapMeans(samples)
	if len(laps) < th.minLaps {
		return nil
	}

	ret := make([]Anomaly, 0)

	mean := lo.Sum(means) / float64(len(means))
	variance := 0.0
	for _, v := range means {
		variance += (v - mean) * (v - mean)
	}
	sigma := math.Sqrt(variance / float64(len(means)))

	if sigma > 0 {
		for i, lap := range laps {
			dev := math.Abs(means[i]-mean) / sigma
			if dev < th.warnSigma {
				continue
			}
			severity := SeverityWarning
			if dev >= th.critSigma {
				severity = SeverityCritical
			}
			ret = append(ret, Anomaly{
				VehicleID: vehicleID,
				Channel:   channel,
				Lap:       lap,
				Value:     means[i],
				Deviation: dev,
				Severity:  severity,
				Note: fmt.Sprintf("%.3f is %.1f sigma from the channel mean %.3f",
					means[i], dev, mean),
			})
		}
	}

	// stuck sensor: identical lap means over consecutive laps
	run := 1
	for i := 1; i <= len(laps); i++ {
		if i < len(laps) && means[i] == means[i-1] && laps[i] == laps[i-1]+1 {
			run++
			continue
		}
		if run >= th.flatlineLaps {
			ret = append(ret, Anomaly{
				VehicleID: vehicleID,
				Channel:   channel,
				Lap:       laps[i-run],
				Value:     means[i-1],
				Severity:  SeverityWarning,
				Note: fmt.Sprintf("flatline at %.3f for %d laps, sensor may be stuck",
					means[i-1], run),
			})
		}
		run = 1
	}

	// coverage gap: laps missing between the first and last lap seen
	span := laps[len(laps)-1] - laps[0] + 1
	if missing := span - len(laps); missing > 0 {
		ret = append(ret, Anomaly{
			VehicleID: vehicleID,
			Channel:   channel,
			Lap:       laps[0],
			Severity:  SeverityInfo,
			Note: fmt.Sprintf("%d of %d laps missing between lap %d and %d",
				missing, span, laps[0], laps[len(laps)-1]),
		})
	}
	return ret
}

// per-lap mean value of a channel, laps ascending
func lapMeans(samples []model.TelemetryRow) (laps []int, means []float64) {
	byLap := lo.GroupBy(samples, func(r model.TelemetryRow) int {
		return r.Lap
	})
	laps = lo.Keys(byLap)
	sort.Ints(laps)
	means = make([]float64, 0, len(laps))
	for _, lap := range laps {
		sum := 0.0
		for _, r := range byLap[lap] {
			sum += r.Value
		}
		means = append(means, sum/float64(len(byLap[lap])))
	}
	return laps, means
}

const mostSevereLimit = 5

// AnomalySummary aggregates findings for display.
type AnomalySummary struct {
	Total      int       `json:"total"`
	Critical   int       `json:"critical"`
	Warning    int       `json:"warning"`
	Info       int       `json:"info"`
	MostSevere []Anomaly `json:"mostSevere"`
}

// SummarizeAnomalies counts findings per severity and keeps the
// strongest few for the headline view.
func SummarizeAnomalies(anomalies []Anomaly) AnomalySummary {
	ret := AnomalySummary{Total: len(anomalies)}
	for _, a := range anomalies {
		switch a.Severity {
		case SeverityCritical:
			ret.Critical++
		case SeverityWarning:
			ret.Warning++
		case SeverityInfo:
			ret.Info++
		}
	}
	limit := min(mostSevereLimit, len(anomalies))
	ret.MostSevere = anomalies[:limit]
	return ret
}
