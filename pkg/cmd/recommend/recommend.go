package recommend

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raceday/pitwall/pkg/config"
	"github.com/raceday/pitwall/pkg/ingest"
	"github.com/raceday/pitwall/pkg/render"
	"github.com/raceday/pitwall/pkg/strategy"
	"github.com/raceday/pitwall/pkg/traffic"
)

var (
	currentLap    int
	lastPitLap    int
	recentLaps    []float64
	remainingLaps int
	carNumber     int
	enduranceFile string
	asJSON        bool
)

func NewRecommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "one-shot pit recommendation from the given race state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend()
		},
	}
	cmd.Flags().IntVar(&currentLap, "current-lap", 1, "current lap")
	cmd.Flags().IntVar(&lastPitLap, "last-pit-lap", 0, "lap of the last pit stop")
	cmd.Flags().Float64SliceVar(&recentLaps, "recent-laps", nil,
		"recent lap times in seconds, newest last")
	cmd.Flags().IntVar(&remainingLaps, "remaining", 0,
		"remaining laps (0: derive from target stint)")
	cmd.Flags().IntVar(&carNumber, "car", 0,
		"own car number for traffic analysis")
	cmd.Flags().StringVar(&enduranceFile, "endurance", "",
		"endurance classification file enabling traffic analysis")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full recommendation as json")
	return cmd
}

func runRecommend() error {
	params := strategy.DefaultParams()
	if config.ParamsFile != "" {
		var err error
		if params, err = strategy.LoadParams(config.ParamsFile); err != nil {
			return err
		}
	}

	req := &strategy.Request{
		CurrentLap:        currentLap,
		LastPitLap:        lastPitLap,
		RecentLapTimes:    recentLaps,
		TargetStint:       config.TargetStint,
		PitTimeCost:       config.PitTimeCost,
		RemainingLaps:     remainingLaps,
		DegradationPerLap: config.DegradationRate,
	}
	opts := []strategy.Option{strategy.WithParams(params)}
	if enduranceFile != "" && carNumber > 0 && config.EnableTraffic {
		records, err := ingest.ReadEnduranceFile(enduranceFile)
		if err != nil {
			return err
		}
		opts = append(opts, strategy.WithTraffic(traffic.New(records), carNumber))
	}
	if config.EnableCaution {
		opts = append(opts, strategy.WithCaution(config.TotalLaps, config.CautionsPerRace))
	}

	rec := strategy.Recommend(req, opts...)
	if asJSON {
		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	fmt.Println(render.Summary(rec))
	if len(rec.Candidates) > 0 {
		fmt.Print(render.CandidateTable(rec.Candidates))
	}
	if rec.Caution != nil {
		fmt.Print(render.CautionTable(rec.Caution))
	}
	return nil
}
