package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	LogLevel        string  // sets the log level (zap log level values)
	LogFilter       string  // zapfilter rules for per-logger levels
	ParamsFile      string  // path to strategy params yaml file
	TargetStint     int     // target stint length in laps
	PitTimeCost     float64 // green flag pit stop cost in seconds
	DegradationRate float64 // tyre degradation in seconds per lap
	TotalLaps       int     // total race laps (0 means unknown)
	CautionsPerRace float64 // expected caution periods per race
	EnableTraffic   bool    // enable traffic model queries
	EnableCaution   bool    // enable caution probability analysis
)
