package version

// overridden at build time via -ldflags
var (
	Version   = "dev"
	Commit    = "none"
	Date      = "unknown"
	BuiltBy   = "unknown"
	DirtyFlag = "false"

	FullVersion = computeFullVersion()
)

func computeFullVersion() string {
	ret := Version
	if DirtyFlag == "true" {
		ret += "-dirty"
	}
	return ret
}
