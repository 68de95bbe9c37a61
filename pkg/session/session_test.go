package session

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gotest.tools/v3/assert"

	"github.com/raceday/pitwall/pkg/model"
	"github.com/raceday/pitwall/pkg/strategy"
)

func testConfig() Config {
	return Config{
		VehicleID:   "GR86-004-78",
		CarNumber:   78,
		TargetStint: 20,
		PitTimeCost: 20.0,
		TotalLaps:   50,
		Params:      strategy.DefaultParams(),
	}
}

func testRows(n int) []model.LapTimeRow {
	ret := make([]model.LapTimeRow, 0, n)
	for i := 1; i <= n; i++ {
		ret = append(ret, model.LapTimeRow{
			VehicleID: "GR86-004-78",
			Lap:       i,
			Value:     98.0 + float64(i)*0.25,
		})
	}
	return ret
}

func TestSessionStep(t *testing.T) {
	s := New(testConfig(), testRows(3))
	assert.Assert(t, s.ID() != uuid.Nil)
	assert.Assert(t, s.HasNext())

	res, ok := s.Step()
	assert.Assert(t, ok)
	assert.Equal(t, 1, res.Lap)
	assert.Equal(t, 98.25, res.LapTime)
	assert.Assert(t, res.Recommendation != nil)
	assert.Equal(t, 1, s.CurrentLap())

	s.Step()
	s.Step()
	assert.Assert(t, !s.HasNext())
	_, ok = s.Step()
	assert.Assert(t, !ok)
	assert.Equal(t, 3, s.CurrentLap())
}

func TestSessionStepFallsBackToRowIndex(t *testing.T) {
	rows := []model.LapTimeRow{
		{VehicleID: "GR86-004-78", Value: 98.0},
		{VehicleID: "GR86-004-78", Value: 98.2},
	}
	s := New(testConfig(), rows)
	res, ok := s.Step()
	assert.Assert(t, ok)
	assert.Equal(t, 1, res.Lap)
	res, _ = s.Step()
	assert.Equal(t, 2, res.Lap)
}

func TestSessionRunVisitsEveryLap(t *testing.T) {
	s := New(testConfig(), testRows(7))
	var laps []int
	err := s.Run(context.Background(), func(res *StepResult) {
		laps = append(laps, res.Lap)
	})
	assert.NilError(t, err)
	assert.Equal(t, 7, len(laps))
	assert.Equal(t, 7, laps[6])
}

func TestSessionRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(testConfig(), testRows(7))
	steps := 0
	err := s.Run(ctx, func(*StepResult) { steps++ })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, steps)
}

func TestSessionMarkPitResetsStint(t *testing.T) {
	cfg := testConfig()
	cfg.TargetStint = 5
	s := New(cfg, testRows(10))
	for i := 0; i < 8; i++ {
		s.Step()
	}
	res, ok := s.Step()
	assert.Assert(t, ok)
	// lap 9 with a stint of 9 laps is past the target
	assert.Equal(t, model.ReasonStintTargetReached, res.Recommendation.Reason)

	s.MarkPit(s.CurrentLap())
	res, ok = s.Step()
	assert.Assert(t, ok)
	assert.Assert(t, res.Recommendation.Reason != model.ReasonStintTargetReached)
}

func TestSessionCautionNow(t *testing.T) {
	s := New(testConfig(), testRows(10))
	for i := 0; i < 5; i++ {
		s.Step()
	}
	rec, decision := s.CautionNow()
	assert.Assert(t, rec != nil)
	assert.Assert(t, decision.Action == model.ActionPitNow || decision.Action == model.ActionStay)
	assert.Equal(t, 10.0, decision.EffectiveCost)
}
