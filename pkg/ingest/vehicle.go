package ingest

import (
	"fmt"
	"strconv"
	"strings"
)

// CarNumberFromVehicleID extracts the trailing car number from a
// vehicle id like "GR86-004-78".
func CarNumberFromVehicleID(vehicleID string) (int, error) {
	parts := strings.Split(strings.TrimSpace(vehicleID), "-")
	last := parts[len(parts)-1]
	num, err := strconv.Atoi(last)
	if err != nil {
		return 0, fmt.Errorf("no car number in vehicle id %q", vehicleID)
	}
	return num, nil
}
