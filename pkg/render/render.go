package render

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/raceday/pitwall/pkg/model"
	"github.com/raceday/pitwall/pkg/telemetry"
)

// FormatTime renders seconds as MM:SS.mmm, rolling over to
// H:MM:SS.mmm past the hour. Rounds to whole milliseconds.
func FormatTime(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	ms := int(math.Round(seconds * 1000))
	hours := ms / 3_600_000
	ms -= hours * 3_600_000
	minutes := ms / 60_000
	ms -= minutes * 60_000
	secs := ms / 1000
	ms -= secs * 1000
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%03d", hours, minutes, secs, ms)
	}
	return fmt.Sprintf("%02d:%02d.%03d", minutes, secs, ms)
}

// FormatGap renders a gap like "+2.345s".
func FormatGap(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	return fmt.Sprintf("+%.3fs", seconds)
}

// Summary renders the headline of a recommendation.
func Summary(rec *model.Recommendation) string {
	var b strings.Builder
	if rec.PitPlanned() {
		fmt.Fprintf(&b, "PIT lap %d (%s, saves %.1fs)",
			rec.RecommendedLap, rec.Reason, rec.Score)
	} else {
		fmt.Fprintf(&b, "STAY OUT (%s, best candidate %.1fs)", rec.Reason, rec.Score)
	}
	if rec.FieldPosition > 0 {
		fmt.Fprintf(&b, " | P%d, leader %s, ahead %s",
			rec.FieldPosition,
			FormatGap(rec.GapToLeader),
			FormatGap(rec.GapToAhead))
	}
	if rec.PositionAfterPit > 0 {
		fmt.Fprintf(&b, " | after pit: P%d", rec.PositionAfterPit)
	}
	if rec.TargetCarNumber > 0 {
		fmt.Fprintf(&b, " | target car #%d", rec.TargetCarNumber)
	}
	return b.String()
}

// CandidateTable renders the evaluated pit laps.
func CandidateTable(candidates []model.StintCandidate) string {
	var b bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&b)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"PIT LAP", "EXPECTED", "DELTA"})
	for _, c := range candidates {
		t.AppendRow([]interface{}{
			fmt.Sprintf("%d", c.PitLap),
			FormatTime(c.ExpectedTime),
			fmt.Sprintf("%+.1fs", c.DeltaVsNoPit),
		})
	}
	t.Render()
	return b.String()
}

// RunningOrderTable renders the ranked field of a lap.
func RunningOrderTable(order []model.FieldPosition) string {
	var b bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&b)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"POS", "CAR", "ELAPSED", "LEADER", "AHEAD"})
	for _, fp := range order {
		t.AppendRow([]interface{}{
			fmt.Sprintf("P%d", fp.Position),
			fmt.Sprintf("#%d", fp.CarNumber),
			FormatTime(fp.ElapsedTime),
			FormatGap(fp.GapToLeader),
			FormatGap(fp.GapToAhead),
		})
	}
	t.Render()
	return b.String()
}

// CautionTable renders the caution scenario breakdown.
func CautionTable(analysis *model.CautionAnalysis) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "strategy: %s (%s), caution in next 10 laps: %.0f%%, expected saving: %.1fs\n",
		analysis.Recommended, analysis.Confidence,
		analysis.ProbabilityNext10*100, analysis.ExpectedTimeSaved)
	t := table.NewWriter()
	t.SetOutputMirror(&b)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"LAPS UNTIL", "PROBABILITY", "TIME SAVED", "CONFIDENCE"})
	for _, s := range analysis.Scenarios {
		t.AppendRow([]interface{}{
			fmt.Sprintf("%d", s.LapsUntil),
			fmt.Sprintf("%.1f%%", s.Probability*100),
			fmt.Sprintf("%+.1fs", s.TimeSaved),
			string(s.Confidence),
		})
	}
	t.Render()
	return b.String()
}

// Anomalies renders the telemetry anomaly summary with the strongest
// findings tabled below the severity counts.
func Anomalies(summary telemetry.AnomalySummary) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "anomalies: %d (critical %d, warning %d, info %d)\n",
		summary.Total, summary.Critical, summary.Warning, summary.Info)
	if len(summary.MostSevere) == 0 {
		return b.String()
	}
	t := table.NewWriter()
	t.SetOutputMirror(&b)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"SEVERITY", "CHANNEL", "LAP", "DETAIL"})
	for _, a := range summary.MostSevere {
		t.AppendRow([]interface{}{
			string(a.Severity),
			a.Channel,
			fmt.Sprintf("%d", a.Lap),
			a.Note,
		})
	}
	t.Render()
	return b.String()
}

// Opportunities renders traffic opportunities, one per line.
func Opportunities(opps []model.TrafficOpportunity) string {
	if len(opps) == 0 {
		return ""
	}
	var b strings.Builder
	for _, o := range opps {
		fmt.Fprintf(&b, "[%s/%s] %s (advantage %.1fs)\n",
			o.Type, o.Confidence, o.Description, o.Advantage)
	}
	return b.String()
}
