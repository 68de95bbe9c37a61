package telemetry

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/raceday/pitwall/log"
	"github.com/raceday/pitwall/pkg/model"
)

// tyre degradation from a grip proxy: peak lateral load falls as the
// tyres wear, so the drop between an early and a late lap window,
// normalized by the laps between them, tracks the per-lap time loss.

const (
	// FallbackRate is used whenever the estimate cannot be computed.
	// Estimation must never abort the decision pipeline.
	FallbackRate = 0.15

	MinRate = 0.05
	MaxRate = 0.5

	minSamplesPerWindow = 10
)

var ErrInsufficientData = errors.New("insufficient telemetry data")

type (
	// Window is a lap range, inclusive on both ends.
	Window struct {
		FromLap int
		ToLap   int
	}

	// Estimate distinguishes a computed rate from the fallback: Err is
	// set (and Fallback true) when the constant was substituted.
	Estimate struct {
		Rate     float64
		Fallback bool
		Err      error
	}

	Option func(*estimator)

	estimator struct {
		channel string
		early   Window
		late    Window
		scale   float64
		l       *log.Logger
	}
)

func (w Window) mid() float64 {
	return float64(w.FromLap+w.ToLap) / 2
}

// WithChannel selects the lateral load telemetry channel by name
// fragment (case insensitive).
func WithChannel(name string) Option {
	return func(e *estimator) {
		e.channel = name
	}
}

func WithWindows(early, late Window) Option {
	return func(e *estimator) {
		e.early = early
		e.late = late
	}
}

// WithScale sets the grip-loss to lap-time conversion factor.
func WithScale(scale float64) Option {
	return func(e *estimator) {
		e.scale = scale
	}
}

// EstimateDegradation derives a degradation rate in [MinRate, MaxRate]
// from a vehicle's lateral load telemetry. Any failure yields the
// fallback constant, never an error return that stops the caller.
func EstimateDegradation(rows []model.TelemetryRow, vehicleID string, opts ...Option) Estimate {
	e := &estimator{
		channel: "accy",
		early:   Window{FromLap: 2, ToLap: 5},
		scale:   10.0,
		l:       log.Default().Named("telemetry"),
	}
	for _, opt := range opts {
		opt(e)
	}
	rate, err := e.estimate(rows, vehicleID)
	if err != nil {
		e.l.Warn("degradation estimate fell back",
			log.String("vehicle", vehicleID), log.ErrorField(err))
		return Estimate{Rate: FallbackRate, Fallback: true, Err: err}
	}
	return Estimate{Rate: rate}
}

func (e *estimator) estimate(rows []model.TelemetryRow, vehicleID string) (float64, error) {
	series := lo.Filter(rows, func(r model.TelemetryRow, _ int) bool {
		return r.VehicleID == vehicleID &&
			strings.Contains(strings.ToLower(r.Parameter), e.channel)
	})
	if len(series) == 0 {
		return 0, fmt.Errorf("%w: no %q channel for vehicle %s",
			ErrInsufficientData, e.channel, vehicleID)
	}

	late := e.late
	if late == (Window{}) {
		maxLap := lo.MaxBy(series, func(a, b model.TelemetryRow) bool {
			return a.Lap > b.Lap
		}).Lap
		late = Window{FromLap: maxLap - 3, ToLap: maxLap}
	}
	if late.mid() <= e.early.mid() {
		return 0, fmt.Errorf("%w: windows overlap", ErrInsufficientData)
	}

	earlyMetric, err := e.windowMetric(series, e.early)
	if err != nil {
		return 0, err
	}
	lateMetric, err := e.windowMetric(series, late)
	if err != nil {
		return 0, err
	}

	lapGap := late.mid() - e.early.mid()
	rate := e.scale * (earlyMetric - lateMetric) / lapGap
	return clamp(rate, MinRate, MaxRate), nil
}

// 95th percentile of the absolute channel value inside the lap window
func (e *estimator) windowMetric(series []model.TelemetryRow, w Window) (float64, error) {
	values := lo.FilterMap(series, func(r model.TelemetryRow, _ int) (float64, bool) {
		return math.Abs(r.Value), r.Lap >= w.FromLap && r.Lap <= w.ToLap
	})
	if len(values) < minSamplesPerWindow {
		return 0, fmt.Errorf("%w: %d samples in laps %d-%d, need %d",
			ErrInsufficientData, len(values), w.FromLap, w.ToLap, minSamplesPerWindow)
	}
	sort.Float64s(values)
	idx := int(math.Ceil(0.95*float64(len(values)))) - 1
	return values[idx], nil
}

func clamp(v, low, high float64) float64 {
	return math.Min(high, math.Max(low, v))
}
