package replay

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raceday/pitwall/log"
	"github.com/raceday/pitwall/pkg/config"
	"github.com/raceday/pitwall/pkg/ingest"
	"github.com/raceday/pitwall/pkg/render"
	"github.com/raceday/pitwall/pkg/session"
	"github.com/raceday/pitwall/pkg/strategy"
	"github.com/raceday/pitwall/pkg/telemetry"
	"github.com/raceday/pitwall/pkg/traffic"
)

var (
	vehicleID       string
	enduranceFile   string
	telemetryFile   string
	speed           float64
	cautionLap      int
	showCandidates  bool
	runAnomalyCheck bool
)

func NewReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <laptime-file-or-dir>",
		Short: "replay a lap time file and print a pit recommendation per lap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), args[0])
		},
	}
	cmd.Flags().StringVar(&vehicleID, "vehicle", "",
		"vehicle id to replay (default: first vehicle in the file)")
	cmd.Flags().StringVar(&enduranceFile, "endurance", "",
		"endurance classification file enabling traffic analysis")
	cmd.Flags().StringVar(&telemetryFile, "telemetry", "",
		"telemetry file used to estimate tyre degradation")
	cmd.Flags().Float64Var(&speed, "speed", 1.0,
		"replay speed in laps per second (0 means: go as fast as possible)")
	cmd.Flags().IntVar(&cautionLap, "caution-lap", 0,
		"inject a caution period on this lap")
	cmd.Flags().BoolVar(&showCandidates, "candidates", false,
		"print the evaluated pit lap candidates each lap")
	cmd.Flags().BoolVar(&runAnomalyCheck, "anomalies", false,
		"check the telemetry channels for anomalies before the replay")
	return cmd
}

//nolint:funlen,gocognit // setup is sequential
func runReplay(ctx context.Context, lapTimeFile string) error {
	params, err := resolveParams()
	if err != nil {
		return err
	}

	if info, statErr := os.Stat(lapTimeFile); statErr == nil && info.IsDir() {
		found := ingest.FindLapTimeFiles(lapTimeFile)
		if len(found) == 0 {
			return fmt.Errorf("no lap time files below %s", lapTimeFile)
		}
		if enduranceFile == "" {
			if ef := ingest.FindEnduranceFiles(lapTimeFile); len(ef) > 0 {
				enduranceFile = ef[0]
			}
		}
		lapTimeFile = found[0]
		log.Info("discovered lap time file", log.String("file", lapTimeFile))
	}

	rows, err := ingest.ReadLapTimeFile(lapTimeFile)
	if err != nil {
		return err
	}
	if vehicleID == "" {
		ids := ingest.VehicleIDs(rows)
		if len(ids) == 0 {
			return fmt.Errorf("no vehicles in %s", lapTimeFile)
		}
		vehicleID = ids[0]
	}
	vehicleRows := ingest.FilterVehicle(rows, vehicleID)
	if len(vehicleRows) == 0 {
		return fmt.Errorf("no laps for vehicle %s", vehicleID)
	}

	carNumber := 0
	if num, err := ingest.CarNumberFromVehicleID(vehicleID); err == nil {
		carNumber = num
	} else {
		log.Warn("traffic queries disabled", log.ErrorField(err))
	}

	var trafficModel *traffic.Model
	if enduranceFile != "" && config.EnableTraffic {
		records, err := ingest.ReadEnduranceFile(enduranceFile)
		if err != nil {
			return err
		}
		trafficModel = traffic.New(records)
	}

	degradation := config.DegradationRate
	if telemetryFile != "" {
		telemetryRows, err := ingest.ReadTelemetryFile(telemetryFile)
		if err != nil {
			return err
		}
		est := telemetry.EstimateDegradation(telemetryRows, vehicleID)
		if !est.Fallback {
			degradation = est.Rate
			log.Info("degradation estimated from telemetry",
				log.Float64("rate", est.Rate))
		}
		if runAnomalyCheck {
			found := telemetry.DetectAnomalies(telemetryRows, vehicleID)
			fmt.Print(render.Anomalies(telemetry.SummarizeAnomalies(found)))
		}
	}

	cfg := session.Config{
		VehicleID:         vehicleID,
		CarNumber:         carNumber,
		TargetStint:       config.TargetStint,
		PitTimeCost:       config.PitTimeCost,
		DegradationPerLap: degradation,
		TotalLaps:         config.TotalLaps,
		CautionsPerRace:   config.CautionsPerRace,
		EnableCaution:     config.EnableCaution,
		Speed:             speed,
		Params:            params,
	}
	opts := []session.Option{}
	if trafficModel != nil {
		opts = append(opts, session.WithTraffic(trafficModel))
	}
	sess := session.New(cfg, vehicleRows, opts...)

	return sess.Run(ctx, func(res *session.StepResult) {
		printStep(sess, res)
	})
}

func printStep(sess *session.Session, res *session.StepResult) {
	fmt.Printf("lap %3d  %s  %s\n",
		res.Lap,
		render.FormatTime(res.LapTime),
		render.Summary(res.Recommendation))
	if showCandidates && len(res.Recommendation.Candidates) > 0 {
		fmt.Print(render.CandidateTable(res.Recommendation.Candidates))
	}
	if opps := render.Opportunities(res.Recommendation.Undercuts); opps != "" {
		fmt.Print(opps)
	}
	if res.Recommendation.Caution != nil {
		fmt.Print(render.CautionTable(res.Recommendation.Caution))
	}
	if cautionLap > 0 && res.Lap == cautionLap {
		printCautionDecision(sess)
	}
}

func printCautionDecision(sess *session.Session) {
	_, decision := sess.CautionNow()
	fmt.Printf("CAUTION on lap %d: %s (%s, effective cost %.1fs)\n",
		sess.CurrentLap(), decision.Action, decision.Reason, decision.EffectiveCost)
}

func resolveParams() (strategy.Params, error) {
	if config.ParamsFile == "" {
		return strategy.DefaultParams(), nil
	}
	return strategy.LoadParams(config.ParamsFile)
}
