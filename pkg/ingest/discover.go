package ingest

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// FindLapTimeFiles returns lap time CSVs found below dir.
func FindLapTimeFiles(dir string) []string {
	return findFiles(dir, "lap_time")
}

// FindEnduranceFiles returns endurance classification CSVs found below dir.
func FindEnduranceFiles(dir string) []string {
	return findFiles(dir, "analysisendurance")
}

func findFiles(dir, namePart string) []string {
	ret := make([]string, 0)
	//nolint:errcheck // unreadable subtrees are simply not listed
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		name := strings.ToLower(d.Name())
		if !strings.Contains(name, namePart) {
			return nil
		}
		if strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".txt") {
			ret = append(ret, path)
		}
		return nil
	})
	sort.Strings(ret)
	return ret
}
