package model

// FieldPosition is the ranked place of one car on one lap, derived
// from LapRecords. Position is the 1-based rank by elapsed time.
type FieldPosition struct {
	Lap         int     `json:"lap"`
	Position    int     `json:"position"`
	CarNumber   int     `json:"carNumber"`
	ElapsedTime float64 `json:"elapsedTime"`
	GapToLeader float64 `json:"gapToLeader"` // 0 for the leader
	GapToAhead  float64 `json:"gapToAhead"`  // 0 for the leader
}
