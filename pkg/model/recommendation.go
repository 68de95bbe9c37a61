package model

import "fmt"

type Reason string

const (
	ReasonPitRecommended      Reason = "pit_recommended"
	ReasonStintTargetReached  Reason = "stint_target_reached"
	ReasonUndercutOpportunity Reason = "undercut_opportunity"
	ReasonNoNetBenefit        Reason = "no_net_benefit"
	ReasonTooFewLaps          Reason = "too_few_laps_remaining"
)

// StintCandidate is one evaluated pit lap.
type StintCandidate struct {
	PitLap       int     `json:"pitLap"`
	ExpectedTime float64 `json:"expectedTime"`
	DeltaVsNoPit float64 `json:"deltaVsNoPit"`
}

// Recommendation is the single externally visible artifact of a
// decision cycle. RecommendedLap 0 means no pit is recommended (laps
// are 1-based). Score is signed: positive means the pit saves time.
type Recommendation struct {
	RecommendedLap int              `json:"recommendedLap,omitempty"`
	Reason         Reason           `json:"reason"`
	Score          float64          `json:"score"`
	Candidates     []StintCandidate `json:"candidates"`

	// traffic context, present when a traffic model was supplied
	FieldPosition    int                  `json:"fieldPosition,omitempty"`
	GapToLeader      float64              `json:"gapToLeader,omitempty"`
	GapToAhead       float64              `json:"gapToAhead,omitempty"`
	PositionAfterPit int                  `json:"positionAfterPit,omitempty"`
	GapAfterPit      float64              `json:"gapAfterPit,omitempty"`
	TargetCarNumber  int                  `json:"targetCar,omitempty"`
	Undercuts        []TrafficOpportunity `json:"undercutOpportunities,omitempty"`
	TrafficTimeLoss  float64              `json:"trafficTimeLoss,omitempty"`

	Caution *CautionAnalysis `json:"cautionAnalysis,omitempty"`
}

// PitPlanned reports whether the recommendation contains a pit lap.
func (r *Recommendation) PitPlanned() bool {
	return r.RecommendedLap > 0
}

// Flat returns the recommendation as a flat key/value view for display
// layers that cannot handle nested structures.
func (r *Recommendation) Flat() map[string]string {
	ret := map[string]string{
		"reason": string(r.Reason),
		"score":  fmt.Sprintf("%.2f", r.Score),
	}
	if r.PitPlanned() {
		ret["recommendedLap"] = fmt.Sprintf("%d", r.RecommendedLap)
	}
	if r.FieldPosition > 0 {
		ret["fieldPosition"] = fmt.Sprintf("P%d", r.FieldPosition)
		ret["gapToLeader"] = fmt.Sprintf("%.1fs", r.GapToLeader)
		ret["gapToAhead"] = fmt.Sprintf("%.1fs", r.GapToAhead)
	}
	if r.PositionAfterPit > 0 {
		ret["positionAfterPit"] = fmt.Sprintf("P%d", r.PositionAfterPit)
	}
	if r.TargetCarNumber > 0 {
		ret["targetCar"] = fmt.Sprintf("#%d", r.TargetCarNumber)
	}
	if r.Caution != nil {
		ret["cautionStrategy"] = string(r.Caution.Recommended)
	}
	return ret
}
