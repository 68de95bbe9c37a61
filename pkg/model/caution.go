package model

type (
	CautionStrategy string
	CautionAction   string
)

const (
	StrategyPitNow         CautionStrategy = "pit_now"
	StrategyWaitForCaution CautionStrategy = "wait_for_caution"
	StrategyOptimalTiming  CautionStrategy = "optimal_timing"
)

const (
	ActionPitNow CautionAction = "pit_now"
	ActionStay   CautionAction = "stay"
)

// CautionScenario is the outcome of a caution appearing a given number
// of laps from now.
type CautionScenario struct {
	LapsUntil   int        `json:"lapsUntil"`
	Probability float64    `json:"probability"` // in [0,1]
	TimeSaved   float64    `json:"timeSaved"`   // vs a green flag stop now
	Confidence  Confidence `json:"confidence"`
}

// StrategyOutcome compares the expected value of one caution strategy.
type StrategyOutcome struct {
	Strategy     CautionStrategy `json:"strategy"`
	ExpectedTime float64         `json:"expectedTime"`
	Variance     float64         `json:"variance"`
}

// CautionAnalysis augments a recommendation with the probabilistic
// caution outlook. It never changes the base recommendation.
type CautionAnalysis struct {
	Recommended       CautionStrategy   `json:"recommendedStrategy"`
	Confidence        Confidence        `json:"confidence"`
	ProbabilityNext10 float64           `json:"probabilityNext10Laps"`
	ExpectedTimeSaved float64           `json:"expectedTimeSaved"`
	Scenarios         []CautionScenario `json:"scenarios"`
	Strategies        []StrategyOutcome `json:"strategies"`
}

// CautionDecision is the answer once a caution is actually flagged.
type CautionDecision struct {
	Action        CautionAction `json:"action"`
	Reason        string        `json:"reason"`
	EffectiveCost float64       `json:"effectiveCost"`
}
