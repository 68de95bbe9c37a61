//nolint:lll // readability
package strategy

import (
	"math"
	"testing"

	"github.com/raceday/pitwall/pkg/model"
)

func TestCautionProbability(t *testing.T) {
	tests := []struct {
		name            string
		horizon         int
		totalLaps       int
		cautionsPerRace float64
		want            float64
	}{
		{name: "two cautions over fifty laps", horizon: 10, totalLaps: 50, cautionsPerRace: 2, want: 1 - math.Exp(-0.4)},
		{name: "single lap horizon", horizon: 1, totalLaps: 50, cautionsPerRace: 2, want: 1 - math.Exp(-0.04)},
		{name: "no cautions expected", horizon: 10, totalLaps: 50, cautionsPerRace: 0, want: 0},
		{name: "unknown race length", horizon: 10, totalLaps: 0, cautionsPerRace: 2, want: 0},
		{name: "zero horizon", horizon: 0, totalLaps: 50, cautionsPerRace: 2, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CautionProbability(tt.horizon, tt.totalLaps, tt.cautionsPerRace)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CautionProbability() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCautionProbabilityReference(t *testing.T) {
	// 2 cautions over 50 laps within 10 laps is roughly a third
	got := CautionProbability(10, 50, 2)
	if math.Abs(got-0.33) > 0.01 {
		t.Errorf("CautionProbability() = %v, want ~0.33", got)
	}
}

func TestAnalyzeCaution(t *testing.T) {
	analysis := AnalyzeCaution(CautionInput{
		CurrentLap:        10,
		TotalLaps:         50,
		CautionsPerRace:   2,
		PitTimeCost:       20,
		DegradationPerLap: 0.15,
		Params:            DefaultParams(),
	})
	if len(analysis.Scenarios) == 0 {
		t.Fatal("expected scenarios")
	}
	want := CautionProbability(10, 50, 2)
	if math.Abs(analysis.ProbabilityNext10-want) > 1e-9 {
		t.Errorf("ProbabilityNext10 = %v, want %v", analysis.ProbabilityNext10, want)
	}
	if len(analysis.Strategies) != 3 {
		t.Errorf("expected 3 strategy outcomes, got %d", len(analysis.Strategies))
	}
	for _, s := range analysis.Scenarios {
		if s.Probability < 0 || s.Probability > 1 {
			t.Errorf("scenario probability out of range: %v", s.Probability)
		}
	}
}

func TestAnalyzeCautionScenariosStopAtRaceEnd(t *testing.T) {
	analysis := AnalyzeCaution(CautionInput{
		CurrentLap:      47,
		TotalLaps:       50,
		CautionsPerRace: 2,
		PitTimeCost:     20,
		Params:          DefaultParams(),
	})
	for _, s := range analysis.Scenarios {
		if 47+s.LapsUntil > 50 {
			t.Errorf("scenario %d laps beyond race end", s.LapsUntil)
		}
	}
}

func TestRecommendUnderCaution(t *testing.T) {
	params := DefaultParams()
	noPit := &model.Recommendation{Reason: model.ReasonNoNetBenefit}
	planned := &model.Recommendation{RecommendedLap: 14, Reason: model.ReasonPitRecommended}

	tests := []struct {
		name        string
		current     *model.Recommendation
		pitTimeCost float64
		wantAction  model.CautionAction
		wantReason  string
	}{
		{name: "cheap stop without plan", current: noPit, pitTimeCost: 18, wantAction: model.ActionPitNow, wantReason: "caution_reduces_cost"},
		{name: "expensive stop without plan", current: noPit, pitTimeCost: 30, wantAction: model.ActionStay, wantReason: "caution_not_beneficial"},
		{name: "nil recommendation", current: nil, pitTimeCost: 18, wantAction: model.ActionPitNow, wantReason: "caution_reduces_cost"},
		{name: "planned pit is preempted", current: planned, pitTimeCost: 30, wantAction: model.ActionPitNow, wantReason: "existing_recommendation_preempted"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecommendUnderCaution(tt.current, tt.pitTimeCost, params)
			if got.Action != tt.wantAction {
				t.Errorf("action = %s, want %s", got.Action, tt.wantAction)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("reason = %s, want %s", got.Reason, tt.wantReason)
			}
			wantCost := tt.pitTimeCost * params.CautionPitFactor
			if math.Abs(got.EffectiveCost-wantCost) > 1e-9 {
				t.Errorf("effective cost = %v, want %v", got.EffectiveCost, wantCost)
			}
		})
	}
}
