package strategy

import (
	"github.com/samber/lo"

	"github.com/raceday/pitwall/log"
	"github.com/raceday/pitwall/pkg/model"
	"github.com/raceday/pitwall/pkg/traffic"
)

type (
	// Request carries the per-call state of one decision cycle. The
	// advisor itself keeps no state between calls.
	Request struct {
		CurrentLap        int
		LastPitLap        int
		RecentLapTimes    []float64 // newest last
		TargetStint       int       // target stint length in laps
		PitTimeCost       float64   // green flag pit cost in seconds
		RemainingLaps     int       // 0 = unknown, derived from target stint
		DegradationPerLap float64   // <=0 = use the default rate
	}

	Advisor interface {
		Recommend() *model.Recommendation
	}

	Option func(*pitAdvisor)

	pitAdvisor struct {
		req             *Request
		params          Params
		traffic         *traffic.Model
		carNumber       int
		tyreAges        map[int]int
		considerCaution bool
		totalLaps       int
		cautionsPerRace float64
		l               *log.Logger
	}
)

const defaultDegradationPerLap = 0.15

// WithParams overrides the heuristic constants.
func WithParams(p Params) Option {
	return func(a *pitAdvisor) {
		a.params = p
	}
}

// WithTraffic enables field position queries for carNumber.
func WithTraffic(m *traffic.Model, carNumber int) Option {
	return func(a *pitAdvisor) {
		a.traffic = m
		a.carNumber = carNumber
	}
}

// WithTyreAges supplies laps-since-pit per rival car for undercut
// detection.
func WithTyreAges(ages map[int]int) Option {
	return func(a *pitAdvisor) {
		a.tyreAges = ages
	}
}

// WithCaution enables the caution probability analysis.
func WithCaution(totalLaps int, cautionsPerRace float64) Option {
	return func(a *pitAdvisor) {
		a.considerCaution = true
		a.totalLaps = totalLaps
		a.cautionsPerRace = cautionsPerRace
	}
}

func NewPitAdvisor(req *Request, opts ...Option) Advisor {
	a := &pitAdvisor{
		req:    req,
		params: DefaultParams(),
		l:      log.Default().Named("strategy"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Recommend is a convenience wrapper around NewPitAdvisor(...).Recommend().
func Recommend(req *Request, opts ...Option) *model.Recommendation {
	return NewPitAdvisor(req, opts...).Recommend()
}

// Recommend evaluates every candidate pit lap in the window and
// returns the lowest expected race time strategy. It always returns a
// well-formed recommendation: missing auxiliary data degrades richness,
// never availability.
//
//nolint:funlen,gocognit // the decision steps read best in sequence
func (a *pitAdvisor) Recommend() *model.Recommendation {
	currentStint := a.req.CurrentLap - a.req.LastPitLap
	degradation := a.req.DegradationPerLap
	if degradation <= 0 {
		degradation = defaultDegradationPerLap
	}

	ret := &model.Recommendation{Candidates: []model.StintCandidate{}}
	a.attachTraffic(ret, degradation)

	baseline := a.baselineLapTime()

	remaining := a.req.RemainingLaps
	if remaining <= 0 {
		remaining = max(a.req.TargetStint-currentStint, a.params.MinRemainingDefault)
	}
	if remaining < a.params.MinRemainingLaps {
		ret.Reason = model.ReasonTooFewLaps
		a.attachPositionAfterPit(ret)
		return ret
	}

	windowSize := min(a.params.MaxWindow, remaining-a.params.FinalLapsGuard)
	noPitTotal := StintTime(baseline, currentStint, remaining, degradation)

	candidates := make([]model.StintCandidate, 0, windowSize)
	for i := 1; i <= windowSize; i++ {
		lapsBefore := i
		lapsAfter := remaining - lapsBefore
		total := StintTime(baseline, currentStint, lapsBefore, degradation) +
			a.req.PitTimeCost +
			StintTime(baseline, 0, lapsAfter, degradation)
		candidates = append(candidates, model.StintCandidate{
			PitLap:       a.req.CurrentLap + i,
			ExpectedTime: total,
			DeltaVsNoPit: total - noPitTotal,
		})
	}
	ret.Candidates = candidates

	// first minimum wins, so equal candidates resolve to the earliest lap
	best := lo.MinBy(candidates, func(c, m model.StintCandidate) bool {
		return c.ExpectedTime < m.ExpectedTime
	})
	ret.Score = -best.DeltaVsNoPit

	if best.DeltaVsNoPit <= -a.params.MinNetBenefit {
		ret.RecommendedLap = best.PitLap
		ret.Reason = model.ReasonPitRecommended
		if currentStint >= a.req.TargetStint {
			ret.Reason = model.ReasonStintTargetReached
		}
	} else {
		ret.Reason = model.ReasonNoNetBenefit
	}

	if a.considerCaution {
		ret.Caution = AnalyzeCaution(CautionInput{
			CurrentLap:        a.req.CurrentLap,
			TotalLaps:         a.totalLaps,
			CautionsPerRace:   a.cautionsPerRace,
			PitTimeCost:       a.req.PitTimeCost,
			DegradationPerLap: degradation,
			Params:            a.params,
		})
	}

	// a strong traffic signal outranks the pure time math in the narrative
	if high, found := lo.Find(ret.Undercuts, func(o model.TrafficOpportunity) bool {
		return o.Confidence == model.ConfidenceHigh
	}); found {
		ret.Reason = model.ReasonUndercutOpportunity
		ret.TargetCarNumber = high.TargetCarNumber
	}

	a.attachPositionAfterPit(ret)

	a.l.Debug("recommendation",
		log.Int("currentLap", a.req.CurrentLap),
		log.Int("recommendedLap", ret.RecommendedLap),
		log.String("reason", string(ret.Reason)),
		log.Float64("score", ret.Score))
	return ret
}

// mean of the newest laps, capped by the configured sample size
func (a *pitAdvisor) baselineLapTime() float64 {
	laps := a.req.RecentLapTimes
	if len(laps) == 0 {
		return a.params.DefaultLapTime
	}
	if len(laps) > a.params.RecentLapSample {
		laps = laps[len(laps)-a.params.RecentLapSample:]
	}
	return lo.Sum(laps) / float64(len(laps))
}

func (a *pitAdvisor) attachTraffic(ret *model.Recommendation, degradation float64) {
	if a.traffic == nil || a.carNumber == 0 {
		return
	}
	fp, ok := a.traffic.FieldPositionOf(a.carNumber, a.req.CurrentLap)
	if !ok {
		a.l.Debug("no field position",
			log.Int("car", a.carNumber), log.Int("lap", a.req.CurrentLap))
		return
	}
	ret.FieldPosition = fp.Position
	ret.GapToLeader = fp.GapToLeader
	ret.GapToAhead = fp.GapToAhead
	ret.Undercuts = a.traffic.DetectUndercutOpportunities(
		a.carNumber, a.req.CurrentLap, a.req.PitTimeCost, degradation, a.tyreAges)
	ret.TrafficTimeLoss = a.traffic.TrafficImpact(
		a.carNumber, a.req.CurrentLap, 3)
}

// projected position after a stop is attached whenever a traffic model
// is present, whether or not a pit is recommended
func (a *pitAdvisor) attachPositionAfterPit(ret *model.Recommendation) {
	if a.traffic == nil || a.carNumber == 0 {
		return
	}
	pos, gap, ok := a.traffic.EstimatePositionAfterPit(
		a.carNumber, a.req.CurrentLap, a.req.PitTimeCost)
	if !ok {
		return
	}
	ret.PositionAfterPit = pos
	ret.GapAfterPit = gap
}
