package model

type (
	OpportunityType string
	Confidence      string
)

const (
	OpportunityUndercut OpportunityType = "undercut"
	OpportunityOvercut  OpportunityType = "overcut"
)

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// TrafficOpportunity describes a projected gain from pitting earlier
// (undercut) or later (overcut) than a rival. Produced per query, not
// persisted.
type TrafficOpportunity struct {
	Type            OpportunityType `json:"type"`
	TargetCarNumber int             `json:"targetCar"`
	TargetPosition  int             `json:"targetPosition"`
	CurrentGap      float64         `json:"currentGap"`
	Advantage       float64         `json:"advantage"` // signed seconds, positive = advantageous
	Confidence      Confidence      `json:"confidence"`
	Description     string          `json:"description"`
}
