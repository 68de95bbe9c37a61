package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/raceday/pitwall/log"
	"github.com/raceday/pitwall/pkg/model"
	"github.com/raceday/pitwall/pkg/strategy"
	"github.com/raceday/pitwall/pkg/traffic"
)

// the session owns the state the stateless decision core does not
// keep: current lap, last pit lap and the rolling lap time history.

const historySize = 5

type (
	Config struct {
		VehicleID         string
		CarNumber         int
		TargetStint       int
		PitTimeCost       float64
		DegradationPerLap float64
		TotalLaps         int
		CautionsPerRace   float64
		EnableCaution     bool
		Speed             float64 // replay pace in laps per second, 0 = flat out
		Params            strategy.Params
	}

	Option func(*Session)

	Session struct {
		id      uuid.UUID
		cfg     Config
		rows    []model.LapTimeRow
		traffic *traffic.Model

		pos        int
		currentLap int
		lastPitLap int
		recent     []float64
		l          *log.Logger
	}

	// StepResult is what one replayed lap produced.
	StepResult struct {
		Lap            int
		LapTime        float64
		Recommendation *model.Recommendation
	}
)

// WithTraffic attaches a pre-built field position model. The model is
// read-only, sharing it across sessions is safe.
func WithTraffic(m *traffic.Model) Option {
	return func(s *Session) {
		s.traffic = m
	}
}

func New(cfg Config, rows []model.LapTimeRow, opts ...Option) *Session {
	s := &Session{
		id:     uuid.New(),
		cfg:    cfg,
		rows:   rows,
		recent: make([]float64, 0, historySize),
		l:      log.Default().Named("session"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.l.Info("session created",
		log.String("id", s.id.String()),
		log.String("vehicle", cfg.VehicleID),
		log.Int("laps", len(rows)))
	return s
}

func (s *Session) ID() uuid.UUID   { return s.id }
func (s *Session) CurrentLap() int { return s.currentLap }
func (s *Session) HasNext() bool   { return s.pos < len(s.rows) }

// MarkPit records that the car actually pitted on lap, resetting the
// stint counter for subsequent recommendations.
func (s *Session) MarkPit(lap int) {
	s.lastPitLap = lap
	s.l.Info("pit stop recorded", log.Int("lap", lap))
}

// Step consumes the next lap row and produces a recommendation for it.
func (s *Session) Step() (*StepResult, bool) {
	if !s.HasNext() {
		return nil, false
	}
	row := s.rows[s.pos]
	s.pos++

	lap := row.Lap
	if lap == 0 {
		lap = s.pos
	}
	s.currentLap = lap
	s.recent = append(s.recent, row.Value)
	if len(s.recent) > historySize {
		s.recent = s.recent[len(s.recent)-historySize:]
	}

	return &StepResult{
		Lap:            lap,
		LapTime:        row.Value,
		Recommendation: s.recommend(),
	}, true
}

// Run replays all remaining laps, pacing by the configured speed and
// stopping at the next lap boundary once ctx is cancelled.
func (s *Session) Run(ctx context.Context, fn func(*StepResult)) error {
	for s.HasNext() {
		res, ok := s.Step()
		if !ok {
			break
		}
		fn(res)
		if err := s.pace(ctx); err != nil {
			return err
		}
	}
	s.l.Info("replay finished", log.String("id", s.id.String()))
	return nil
}

// CautionNow recomputes the current recommendation and answers whether
// to pit under a caution flagged right now.
func (s *Session) CautionNow() (*model.Recommendation, model.CautionDecision) {
	rec := s.recommend()
	decision := strategy.RecommendUnderCaution(rec, s.cfg.PitTimeCost, s.cfg.Params)
	return rec, decision
}

func (s *Session) recommend() *model.Recommendation {
	remaining := 0
	if s.cfg.TotalLaps > s.currentLap {
		remaining = s.cfg.TotalLaps - s.currentLap
	}
	req := &strategy.Request{
		CurrentLap:        s.currentLap,
		LastPitLap:        s.lastPitLap,
		RecentLapTimes:    s.recent,
		TargetStint:       s.cfg.TargetStint,
		PitTimeCost:       s.cfg.PitTimeCost,
		RemainingLaps:     remaining,
		DegradationPerLap: s.cfg.DegradationPerLap,
	}
	opts := []strategy.Option{strategy.WithParams(s.cfg.Params)}
	if s.traffic != nil && s.cfg.CarNumber > 0 {
		opts = append(opts, strategy.WithTraffic(s.traffic, s.cfg.CarNumber))
	}
	if s.cfg.EnableCaution {
		opts = append(opts, strategy.WithCaution(s.cfg.TotalLaps, s.cfg.CautionsPerRace))
	}
	return strategy.Recommend(req, opts...)
}

func (s *Session) pace(ctx context.Context) error {
	if s.cfg.Speed <= 0 {
		return ctx.Err()
	}
	delay := time.Duration(float64(time.Second) / s.cfg.Speed)
	if delay < 10*time.Millisecond {
		delay = 10 * time.Millisecond
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
