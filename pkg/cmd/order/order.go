package order

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raceday/pitwall/pkg/ingest"
	"github.com/raceday/pitwall/pkg/render"
	"github.com/raceday/pitwall/pkg/traffic"
)

var (
	lap        int
	carNumber  int
	timeWindow float64
)

func NewOrderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order <endurance-file>",
		Short: "print the running order of a lap from an endurance file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrder(args[0])
		},
	}
	cmd.Flags().IntVar(&lap, "lap", 1, "lap to show")
	cmd.Flags().IntVar(&carNumber, "car", 0,
		"show only cars near this car number")
	cmd.Flags().Float64Var(&timeWindow, "window", 10.0,
		"time window in seconds around --car")
	return cmd
}

func runOrder(enduranceFile string) error {
	records, err := ingest.ReadEnduranceFile(enduranceFile)
	if err != nil {
		return err
	}
	m := traffic.New(records)

	if carNumber > 0 {
		nearby := m.CarsWithinWindow(carNumber, lap, timeWindow)
		if len(nearby) == 0 {
			fmt.Printf("no cars within %.1fs of car #%d on lap %d\n",
				timeWindow, carNumber, lap)
			return nil
		}
		fmt.Print(render.RunningOrderTable(nearby))
		return nil
	}

	ro := m.RunningOrder(lap)
	if len(ro) == 0 {
		return fmt.Errorf("no data for lap %d", lap)
	}
	fmt.Print(render.RunningOrderTable(ro))
	return nil
}
