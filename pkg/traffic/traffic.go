package traffic

import (
	"fmt"
	"slices"
	"sort"

	"github.com/samber/lo"

	"github.com/raceday/pitwall/log"
	"github.com/raceday/pitwall/pkg/model"
)

// Model answers field position and gap queries from lap-by-lap elapsed
// time records. It is built once per session and read-only afterwards,
// so concurrent reads need no locking.
type Model struct {
	byLap  map[int][]model.FieldPosition // ranked running order per lap
	params params
	l      *log.Logger
}

// New builds the position table from records. Rows are grouped by lap
// and ranked by elapsed time; ties keep input order (stable sort, not a
// guaranteed contract).
func New(records []model.LapRecord, opts ...Option) *Model {
	m := &Model{
		byLap:  make(map[int][]model.FieldPosition),
		params: defaultParams(),
		l:      log.Default().Named("traffic"),
	}
	for _, opt := range opts {
		opt(m)
	}
	for lap, laps := range lo.GroupBy(records, func(r model.LapRecord) int {
		return r.LapNumber
	}) {
		m.byLap[lap] = rankLap(lap, laps)
	}
	m.l.Debug("traffic model built",
		log.Int("laps", len(m.byLap)), log.Int("records", len(records)))
	return m
}

func rankLap(lap int, records []model.LapRecord) []model.FieldPosition {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ElapsedTime < records[j].ElapsedTime
	})
	ret := make([]model.FieldPosition, 0, len(records))
	for i, r := range records {
		fp := model.FieldPosition{
			Lap:         lap,
			Position:    i + 1,
			CarNumber:   r.CarNumber,
			ElapsedTime: r.ElapsedTime,
		}
		if i > 0 {
			fp.GapToLeader = r.ElapsedTime - records[0].ElapsedTime
			fp.GapToAhead = r.ElapsedTime - records[i-1].ElapsedTime
		}
		ret = append(ret, fp)
	}
	return ret
}

// RunningOrder returns the ranked field for a lap, empty for an
// unknown lap.
func (m *Model) RunningOrder(lap int) []model.FieldPosition {
	return slices.Clone(m.byLap[lap])
}

// FieldPositionOf looks up one car on one lap.
func (m *Model) FieldPositionOf(carNumber, lap int) (model.FieldPosition, bool) {
	for _, fp := range m.byLap[lap] {
		if fp.CarNumber == carNumber {
			return fp, true
		}
	}
	return model.FieldPosition{}, false
}

// EstimatePositionAfterPit re-ranks a car after adding pitTimeLoss to
// its elapsed time while all other cars stay fixed (same-lap
// approximation). Returns the new rank and new gap to leader.
func (m *Model) EstimatePositionAfterPit(
	carNumber, lap int,
	pitTimeLoss float64,
) (newPosition int, newGapToLeader float64, ok bool) {
	self, found := m.FieldPositionOf(carNumber, lap)
	if !found {
		return 0, 0, false
	}
	newElapsed := self.ElapsedTime + pitTimeLoss
	rank := 1
	leader := newElapsed
	for _, fp := range m.byLap[lap] {
		if fp.CarNumber == carNumber {
			continue
		}
		if fp.ElapsedTime < newElapsed {
			rank++
		}
		if fp.ElapsedTime < leader {
			leader = fp.ElapsedTime
		}
	}
	return rank, newElapsed - leader, true
}

// DetectUndercutOpportunities checks every car ahead of carNumber for
// a projected pass by pitting now: over the fresh tyre horizon we gain
// the fresh tyre advantage plus the rival's tyre age penalty per lap,
// minus the pit loss and the current gap. tyreAge maps car number to
// laps since that car's last stop.
//
//nolint:whitespace // readability
func (m *Model) DetectUndercutOpportunities(
	carNumber, currentLap int,
	pitTimeLoss, degradationRate float64,
	tyreAge map[int]int,
) []model.TrafficOpportunity {
	self, found := m.FieldPositionOf(carNumber, currentLap)
	if !found {
		return nil
	}
	ret := make([]model.TrafficOpportunity, 0)
	for _, rival := range m.byLap[currentLap] {
		if rival.Position >= self.Position {
			continue
		}
		gap := self.ElapsedTime - rival.ElapsedTime
		agePenalty := float64(tyreAge[rival.CarNumber]) * degradationRate
		horizon := float64(m.params.freshTyreHorizon)
		advantage := horizon*(m.params.freshTyreAdvantage+agePenalty) - pitTimeLoss - gap
		if advantage <= 0 {
			continue
		}
		confidence := model.ConfidenceMedium
		if advantage >= m.params.highConfidence {
			confidence = model.ConfidenceHigh
		}
		ret = append(ret, model.TrafficOpportunity{
			Type:            model.OpportunityUndercut,
			TargetCarNumber: rival.CarNumber,
			TargetPosition:  rival.Position,
			CurrentGap:      gap,
			Advantage:       advantage,
			Confidence:      confidence,
			Description: fmt.Sprintf(
				"undercut car #%d (P%d, %.1fs ahead, tyres %d laps old)",
				rival.CarNumber, rival.Position, gap, tyreAge[rival.CarNumber]),
		})
	}
	// strongest first
	sort.SliceStable(ret, func(i, j int) bool {
		return ret[i].Advantage > ret[j].Advantage
	})
	return ret
}

// DetectOvercutOpportunities is the symmetric check: staying out while
// a rival ahead pits gains track position as long as our own tyres are
// still within the age budget.
//
//nolint:whitespace // readability
func (m *Model) DetectOvercutOpportunities(
	carNumber, currentLap int,
	pitTimeLoss float64,
	lapsSinceOwnPit int,
	carsPittingSoon []int,
) []model.TrafficOpportunity {
	self, found := m.FieldPositionOf(carNumber, currentLap)
	if !found {
		return nil
	}
	if lapsSinceOwnPit > m.params.tyreAgeBudget {
		m.l.Debug("overcut not viable, tyres too old",
			log.Int("car", carNumber), log.Int("tyreAge", lapsSinceOwnPit))
		return nil
	}
	ret := make([]model.TrafficOpportunity, 0)
	for _, rival := range m.byLap[currentLap] {
		if rival.Position >= self.Position {
			continue
		}
		if !slices.Contains(carsPittingSoon, rival.CarNumber) {
			continue
		}
		gap := self.ElapsedTime - rival.ElapsedTime
		// the rival hands us their pit loss, we only need to cover the gap
		advantage := pitTimeLoss - gap
		if advantage <= 0 {
			continue
		}
		confidence := model.ConfidenceMedium
		if advantage >= m.params.highConfidence {
			confidence = model.ConfidenceHigh
		}
		ret = append(ret, model.TrafficOpportunity{
			Type:            model.OpportunityOvercut,
			TargetCarNumber: rival.CarNumber,
			TargetPosition:  rival.Position,
			CurrentGap:      gap,
			Advantage:       advantage,
			Confidence:      confidence,
			Description: fmt.Sprintf(
				"stay out while car #%d (P%d, %.1fs ahead) pits",
				rival.CarNumber, rival.Position, gap),
		})
	}
	sort.SliceStable(ret, func(i, j int) bool {
		return ret[i].Advantage > ret[j].Advantage
	})
	return ret
}

// TrafficImpact estimates the time lost to following the car ahead
// over the next lapsAhead laps. Zero when the car runs in clean air.
func (m *Model) TrafficImpact(carNumber, currentLap, lapsAhead int) float64 {
	self, found := m.FieldPositionOf(carNumber, currentLap)
	if !found || self.Position == 1 {
		return 0
	}
	gap := self.GapToAhead
	if gap >= m.params.cleanAirGap {
		return 0
	}
	// penalty scales linearly from max at zero gap to none in clean air
	perLap := m.params.followPenalty * (1 - gap/m.params.cleanAirGap)
	return perLap * float64(lapsAhead)
}

// CarsWithinWindow returns all other cars whose elapsed time on the
// lap differs from carNumber's by at most timeWindow seconds.
func (m *Model) CarsWithinWindow(
	carNumber, currentLap int,
	timeWindow float64,
) []model.FieldPosition {
	self, found := m.FieldPositionOf(carNumber, currentLap)
	if !found {
		return nil
	}
	return lo.Filter(m.byLap[currentLap], func(fp model.FieldPosition, _ int) bool {
		if fp.CarNumber == carNumber {
			return false
		}
		diff := fp.ElapsedTime - self.ElapsedTime
		if diff < 0 {
			diff = -diff
		}
		return diff <= timeWindow
	})
}

// Laps returns the number of laps the model holds data for.
func (m *Model) Laps() int {
	return len(m.byLap)
}
