package strategy

import (
	"math"

	"github.com/raceday/pitwall/pkg/model"
)

// caution periods are modeled as a Poisson process with rate
// cautionsPerRace/totalLaps per lap.

// CautionProbability returns the probability of at least one caution
// within the next horizon laps.
func CautionProbability(horizon, totalLaps int, cautionsPerRace float64) float64 {
	if totalLaps <= 0 || horizon <= 0 || cautionsPerRace <= 0 {
		return 0
	}
	lambda := cautionsPerRace / float64(totalLaps)
	return 1 - math.Exp(-lambda*float64(horizon))
}

type CautionInput struct {
	CurrentLap        int
	TotalLaps         int
	CautionsPerRace   float64
	PitTimeCost       float64
	DegradationPerLap float64
	Params            Params
}

var scenarioHorizons = []int{2, 5, 10, 15}

// AnalyzeCaution compares pitting now at full cost against waiting for
// a caution that cuts the pit cost by the caution pit factor. The
// result augments a recommendation, it never changes it.
//
//nolint:funlen // sequential scenario construction
func AnalyzeCaution(in CautionInput) *model.CautionAnalysis {
	saving := in.PitTimeCost * (1 - in.Params.CautionPitFactor)

	scenarios := make([]model.CautionScenario, 0, len(scenarioHorizons))
	bestEV := 0.0
	for _, h := range scenarioHorizons {
		if in.TotalLaps > 0 && in.CurrentLap+h > in.TotalLaps {
			break
		}
		p := CautionProbability(h, in.TotalLaps, in.CautionsPerRace)
		// waiting h laps on degrading tyres costs the accumulated
		// degradation versus stopping now
		waitCost := in.DegradationPerLap * float64(h*(h-1)) / 2
		timeSaved := saving - waitCost
		confidence := model.ConfidenceLow
		switch {
		case p > 0.6:
			confidence = model.ConfidenceHigh
		case p > 0.3:
			confidence = model.ConfidenceMedium
		}
		scenarios = append(scenarios, model.CautionScenario{
			LapsUntil:   h,
			Probability: p,
			TimeSaved:   timeSaved,
			Confidence:  confidence,
		})
		if ev := p * timeSaved; ev > bestEV {
			bestEV = ev
		}
	}

	p10 := CautionProbability(10, in.TotalLaps, in.CautionsPerRace)
	waitCost10 := in.DegradationPerLap * float64(10*9) / 2
	cautionCost := in.PitTimeCost * in.Params.CautionPitFactor
	waitExpected := p10*cautionCost + (1-p10)*(in.PitTimeCost+waitCost10)
	strategies := []model.StrategyOutcome{
		{Strategy: model.StrategyPitNow, ExpectedTime: in.PitTimeCost, Variance: 0},
		{
			Strategy:     model.StrategyWaitForCaution,
			ExpectedTime: waitExpected,
			Variance:     p10 * (1 - p10) * math.Pow(in.PitTimeCost+waitCost10-cautionCost, 2),
		},
		{
			Strategy:     model.StrategyOptimalTiming,
			ExpectedTime: math.Min(in.PitTimeCost, waitExpected),
			Variance:     p10 * (1 - p10) * math.Pow(saving, 2),
		},
	}

	recommended := model.StrategyPitNow
	confidence := model.ConfidenceLow
	switch {
	case bestEV > 2.0 && p10 >= 0.5:
		recommended = model.StrategyWaitForCaution
		confidence = model.ConfidenceHigh
	case bestEV > 2.0:
		recommended = model.StrategyWaitForCaution
		confidence = model.ConfidenceMedium
	case bestEV > 0:
		recommended = model.StrategyOptimalTiming
		confidence = model.ConfidenceMedium
	}

	return &model.CautionAnalysis{
		Recommended:       recommended,
		Confidence:        confidence,
		ProbabilityNext10: p10,
		ExpectedTimeSaved: bestEV,
		Scenarios:         scenarios,
		Strategies:        strategies,
	}
}

// RecommendUnderCaution decides once a caution is actually flagged.
// The effective pit cost shrinks by the caution pit factor; a pending
// recommendation is always preempted because the time loss asymmetry
// flips under caution.
func RecommendUnderCaution(
	current *model.Recommendation,
	pitTimeCost float64,
	params Params,
) model.CautionDecision {
	effective := pitTimeCost * params.CautionPitFactor
	if current == nil || !current.PitPlanned() {
		if effective < params.CautionPitThreshold {
			return model.CautionDecision{
				Action:        model.ActionPitNow,
				Reason:        "caution_reduces_cost",
				EffectiveCost: effective,
			}
		}
		return model.CautionDecision{
			Action:        model.ActionStay,
			Reason:        "caution_not_beneficial",
			EffectiveCost: effective,
		}
	}
	return model.CautionDecision{
		Action:        model.ActionPitNow,
		Reason:        "existing_recommendation_preempted",
		EffectiveCost: effective,
	}
}
