package strategy

// StintTime computes the total time for numLaps laps starting on tyres
// that are startTyreAge laps old, under a linear degradation model:
// each lap costs baseline + tyreAge*degradationPerLap. Zero laps cost
// zero.
func StintTime(baselineLapTime float64, startTyreAge, numLaps int, degradationPerLap float64) float64 {
	total := 0.0
	for i := 0; i < numLaps; i++ {
		total += baselineLapTime + float64(startTyreAge+i)*degradationPerLap
	}
	return total
}
