package traffic

// heuristic constants of the traffic analysis. Defaults mirror the
// values the strategy tooling has been run with; they carry no deeper
// derivation and are therefore configurable.
type params struct {
	freshTyreAdvantage float64 // seconds per lap gained on fresh tyres
	freshTyreHorizon   int     // laps over which the fresh tyre benefit is projected
	highConfidence     float64 // projected advantage for a high confidence call
	cleanAirGap        float64 // gap above which a car runs in clean air
	followPenalty      float64 // max seconds per lap lost when following closely
	tyreAgeBudget      int     // own tyre age up to which an overcut stays viable
}

func defaultParams() params {
	return params{
		freshTyreAdvantage: 2.0,
		freshTyreHorizon:   3,
		highConfidence:     3.0,
		cleanAirGap:        2.0,
		followPenalty:      0.3,
		tyreAgeBudget:      15,
	}
}

type Option func(*Model)

func WithFreshTyreAdvantage(secondsPerLap float64) Option {
	return func(m *Model) {
		m.params.freshTyreAdvantage = secondsPerLap
	}
}

func WithFreshTyreHorizon(laps int) Option {
	return func(m *Model) {
		m.params.freshTyreHorizon = laps
	}
}

func WithHighConfidenceThreshold(seconds float64) Option {
	return func(m *Model) {
		m.params.highConfidence = seconds
	}
}

func WithCleanAirGap(seconds float64) Option {
	return func(m *Model) {
		m.params.cleanAirGap = seconds
	}
}

func WithFollowPenalty(secondsPerLap float64) Option {
	return func(m *Model) {
		m.params.followPenalty = secondsPerLap
	}
}

func WithTyreAgeBudget(laps int) Option {
	return func(m *Model) {
		m.params.tyreAgeBudget = laps
	}
}
