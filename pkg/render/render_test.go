package render

import (
	"strings"
	"testing"

	"github.com/raceday/pitwall/pkg/model"
	"github.com/raceday/pitwall/pkg/telemetry"
)

func TestFormatTime(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    string
	}{
		{name: "under a minute", seconds: 45.5, want: "00:45.500"},
		{name: "over a minute", seconds: 100.5, want: "01:40.500"},
		{name: "quarter second", seconds: 90.25, want: "01:30.250"},
		{name: "exact minute", seconds: 120.0, want: "02:00.000"},
		{name: "millisecond rounding", seconds: 100.123, want: "01:40.123"},
		{name: "over an hour", seconds: 5025.789, want: "1:23:45.789"},
		{name: "exact hour", seconds: 3600.0, want: "1:00:00.000"},
		{name: "just under an hour", seconds: 3599.5, want: "59:59.500"},
		{name: "zero", seconds: 0, want: "-"},
		{name: "negative", seconds: -3, want: "-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTime(tt.seconds); got != tt.want {
				t.Errorf("FormatTime(%v) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestFormatGap(t *testing.T) {
	if got := FormatGap(2.345); got != "+2.345s" {
		t.Errorf("FormatGap(2.345) = %q", got)
	}
	if got := FormatGap(0); got != "-" {
		t.Errorf("FormatGap(0) = %q", got)
	}
}

func TestSummaryPit(t *testing.T) {
	rec := &model.Recommendation{
		RecommendedLap:  14,
		Reason:          model.ReasonPitRecommended,
		Score:           8.0,
		FieldPosition:   3,
		GapToLeader:     5.2,
		GapToAhead:      1.1,
		TargetCarNumber: 22,
	}
	got := Summary(rec)
	for _, want := range []string{"PIT lap 14", "P3", "target car #22"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary %q missing %q", got, want)
		}
	}
}

func TestSummaryStayOut(t *testing.T) {
	rec := &model.Recommendation{Reason: model.ReasonNoNetBenefit}
	got := Summary(rec)
	if !strings.Contains(got, "STAY OUT") {
		t.Errorf("summary %q missing STAY OUT", got)
	}
}

func TestCandidateTable(t *testing.T) {
	got := CandidateTable([]model.StintCandidate{
		{PitLap: 12, ExpectedTime: 1345.6, DeltaVsNoPit: -8.0},
		{PitLap: 13, ExpectedTime: 1346.1, DeltaVsNoPit: -7.5},
	})
	for _, want := range []string{"PIT LAP", "12", "-8.0s"} {
		if !strings.Contains(got, want) {
			t.Errorf("table missing %q:\n%s", want, got)
		}
	}
}

func TestAnomalies(t *testing.T) {
	got := Anomalies(telemetry.AnomalySummary{})
	if !strings.Contains(got, "anomalies: 0") {
		t.Errorf("unexpected empty summary %q", got)
	}
	if strings.Contains(got, "SEVERITY") {
		t.Errorf("expected no table without findings:\n%s", got)
	}

	got = Anomalies(telemetry.AnomalySummary{
		Total:    2,
		Critical: 1,
		Warning:  1,
		MostSevere: []telemetry.Anomaly{{
			Severity: telemetry.SeverityCritical,
			Channel:  "accy",
			Lap:      29,
			Note:     "5.000 is 5.2 sigma from the channel mean 1.138",
		}},
	})
	for _, want := range []string{"critical 1", "accy", "29", "5.2 sigma"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
}

func TestOpportunities(t *testing.T) {
	if got := Opportunities(nil); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
	got := Opportunities([]model.TrafficOpportunity{{
		Type:        model.OpportunityUndercut,
		Confidence:  model.ConfidenceHigh,
		Description: "undercut car #22",
		Advantage:   4.2,
	}})
	if !strings.Contains(got, "undercut car #22") {
		t.Errorf("unexpected output %q", got)
	}
}
