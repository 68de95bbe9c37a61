package traffic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raceday/pitwall/pkg/model"
)

// three cars over two laps, car 13 leading throughout
func testRecords() []model.LapRecord {
	return []model.LapRecord{
		{CarNumber: 13, LapNumber: 1, ElapsedTime: 100.123},
		{CarNumber: 22, LapNumber: 1, ElapsedTime: 102.456},
		{CarNumber: 72, LapNumber: 1, ElapsedTime: 103.789},
		{CarNumber: 13, LapNumber: 2, ElapsedTime: 190.500},
		{CarNumber: 22, LapNumber: 2, ElapsedTime: 193.250},
		{CarNumber: 72, LapNumber: 2, ElapsedTime: 195.000},
	}
}

func TestRunningOrder(t *testing.T) {
	m := New(testRecords())
	ro := m.RunningOrder(1)
	require.Len(t, ro, 3)

	assert.Equal(t, 13, ro[0].CarNumber)
	assert.Equal(t, 1, ro[0].Position)
	assert.Zero(t, ro[0].GapToLeader)
	assert.Zero(t, ro[0].GapToAhead)

	assert.Equal(t, 22, ro[1].CarNumber)
	assert.Equal(t, 2, ro[1].Position)
	assert.InDelta(t, 2.333, ro[1].GapToLeader, 0.001)
	assert.InDelta(t, 2.333, ro[1].GapToAhead, 0.001)

	assert.Equal(t, 72, ro[2].CarNumber)
	assert.Equal(t, 3, ro[2].Position)
	assert.InDelta(t, 3.666, ro[2].GapToLeader, 0.001)
	assert.InDelta(t, 1.333, ro[2].GapToAhead, 0.001)
}

func TestRunningOrderUnknownLap(t *testing.T) {
	m := New(testRecords())
	assert.Empty(t, m.RunningOrder(99))
}

func TestRunningOrderTiesKeepInputOrder(t *testing.T) {
	m := New([]model.LapRecord{
		{CarNumber: 5, LapNumber: 1, ElapsedTime: 100.0},
		{CarNumber: 9, LapNumber: 1, ElapsedTime: 100.0},
	})
	ro := m.RunningOrder(1)
	require.Len(t, ro, 2)
	assert.Equal(t, 5, ro[0].CarNumber)
	assert.Equal(t, 9, ro[1].CarNumber)
}

func TestFieldPositionOf(t *testing.T) {
	m := New(testRecords())

	fp, ok := m.FieldPositionOf(22, 2)
	require.True(t, ok)
	assert.Equal(t, 2, fp.Position)
	assert.InDelta(t, 2.750, fp.GapToLeader, 0.001)

	_, ok = m.FieldPositionOf(99, 1)
	assert.False(t, ok)
}

func TestEstimatePositionAfterPit(t *testing.T) {
	m := New(testRecords())

	// the leader drops to last after a full stop
	pos, gap, ok := m.EstimatePositionAfterPit(13, 1, 25.0)
	require.True(t, ok)
	assert.Equal(t, 3, pos)
	assert.InDelta(t, 22.667, gap, 0.001)

	// last place has nothing to lose
	pos, _, ok = m.EstimatePositionAfterPit(72, 1, 25.0)
	require.True(t, ok)
	assert.Equal(t, 3, pos)

	_, _, ok = m.EstimatePositionAfterPit(99, 1, 25.0)
	assert.False(t, ok)
}

func TestDetectUndercutOpportunities(t *testing.T) {
	m := New(testRecords())

	// rival 22 sits 1.3s ahead on 15 lap old tyres, rival 13 is out of
	// reach on fresh rubber
	opps := m.DetectUndercutOpportunities(72, 1, 20.0, 0.5, map[int]int{22: 15})
	require.Len(t, opps, 1)
	assert.Equal(t, model.OpportunityUndercut, opps[0].Type)
	assert.Equal(t, 22, opps[0].TargetCarNumber)
	assert.Equal(t, 2, opps[0].TargetPosition)
	assert.InDelta(t, 1.333, opps[0].CurrentGap, 0.001)
	assert.Equal(t, model.ConfidenceHigh, opps[0].Confidence)
}

func TestDetectUndercutOpportunitiesNoneForLeader(t *testing.T) {
	m := New(testRecords())
	assert.Empty(t, m.DetectUndercutOpportunities(13, 1, 20.0, 0.5, nil))
}

func TestDetectUndercutOpportunitiesSortedByAdvantage(t *testing.T) {
	m := New(testRecords())
	opps := m.DetectUndercutOpportunities(72, 1, 5.0, 0.5,
		map[int]int{13: 30, 22: 10})
	require.Len(t, opps, 2)
	assert.GreaterOrEqual(t, opps[0].Advantage, opps[1].Advantage)
}

func TestDetectOvercutOpportunities(t *testing.T) {
	m := New(testRecords())

	opps := m.DetectOvercutOpportunities(72, 1, 20.0, 5, []int{22})
	require.Len(t, opps, 1)
	assert.Equal(t, model.OpportunityOvercut, opps[0].Type)
	assert.Equal(t, 22, opps[0].TargetCarNumber)
	assert.InDelta(t, 18.667, opps[0].Advantage, 0.001)
	assert.Equal(t, model.ConfidenceHigh, opps[0].Confidence)

	// worn tyres rule the overcut out
	assert.Empty(t, m.DetectOvercutOpportunities(72, 1, 20.0, 30, []int{22}))
	// nobody pitting, nothing to gain
	assert.Empty(t, m.DetectOvercutOpportunities(72, 1, 20.0, 5, nil))
}

func TestTrafficImpact(t *testing.T) {
	m := New(testRecords())

	// leader runs in clean air
	assert.Zero(t, m.TrafficImpact(13, 1, 3))
	// car 22 is 2.3s behind the leader, outside the dirty air band
	assert.Zero(t, m.TrafficImpact(22, 1, 3))
	// car 72 follows 1.3s behind car 22
	got := m.TrafficImpact(72, 1, 3)
	assert.InDelta(t, 0.300, got, 0.001)
}

func TestCarsWithinWindow(t *testing.T) {
	records := append(testRecords(),
		model.LapRecord{CarNumber: 99, LapNumber: 1, ElapsedTime: 110.0})
	m := New(records)

	nearby := m.CarsWithinWindow(22, 1, 5.0)
	require.Len(t, nearby, 2)
	cars := []int{nearby[0].CarNumber, nearby[1].CarNumber}
	assert.Contains(t, cars, 13)
	assert.Contains(t, cars, 72)

	assert.Nil(t, m.CarsWithinWindow(42, 1, 5.0))
}

func TestOptionsOverrideDefaults(t *testing.T) {
	m := New(testRecords(),
		WithCleanAirGap(5.0),
		WithFollowPenalty(0.5),
		WithTyreAgeBudget(3),
		WithFreshTyreAdvantage(1.0),
		WithFreshTyreHorizon(2),
		WithHighConfidenceThreshold(100.0))

	// car 22 now counts as following within the widened dirty air band
	got := m.TrafficImpact(22, 1, 1)
	assert.InDelta(t, 0.267, got, 0.001)

	// tighter age budget rules the overcut out
	assert.Empty(t, m.DetectOvercutOpportunities(72, 1, 20.0, 5, []int{22}))

	// the raised threshold keeps every call at medium confidence
	opps := m.DetectUndercutOpportunities(72, 1, 5.0, 0.5, map[int]int{22: 20})
	require.NotEmpty(t, opps)
	assert.Equal(t, model.ConfidenceMedium, opps[0].Confidence)
}

func TestLaps(t *testing.T) {
	m := New(testRecords())
	assert.Equal(t, 2, m.Laps())
}
