package model

// LapRecord is one classified lap of one car. Immutable once parsed.
// ElapsedTime is the total race time at the end of the lap and is
// strictly increasing per car across laps.
type LapRecord struct {
	CarNumber   int     `json:"carNumber"`
	LapNumber   int     `json:"lapNumber"`
	ElapsedTime float64 `json:"elapsedTime"` // seconds
	LapTime     float64 `json:"lapTime"`     // seconds
}

// LapTimeRow is a single row of a per-vehicle lap time file.
type LapTimeRow struct {
	VehicleID string  `json:"vehicleId"`
	Lap       int     `json:"lap"`
	Timestamp string  `json:"timestamp"`
	Value     float64 `json:"value"` // lap time in seconds
}

// TelemetryRow is a single long-form telemetry sample.
type TelemetryRow struct {
	VehicleID string  `json:"vehicleId"`
	Lap       int     `json:"lap"`
	Parameter string  `json:"parameter"`
	Value     float64 `json:"value"`
}
