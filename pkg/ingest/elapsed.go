package ingest

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseElapsed converts a timing string to total seconds. Accepted
// formats are "MM:SS.mmm", "HH:MM:SS.mmm" and plain seconds.
func ParseElapsed(arg string) (float64, error) {
	text := strings.TrimSpace(arg)
	if text == "" {
		return 0, fmt.Errorf("empty elapsed time")
	}
	parts := strings.Split(text, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid elapsed time %q", arg)
	}
	ret := 0.0
	for _, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid elapsed time %q: %w", arg, err)
		}
		if v < 0 {
			return 0, fmt.Errorf("negative elapsed time %q", arg)
		}
		ret = ret*60 + v
	}
	return ret, nil
}
