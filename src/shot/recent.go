package shot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/iafilius/ShotPlot/src/logging"
)

// ShotFilePattern matches recordings in a directory.
const ShotFilePattern = "*.shot.json"

// FindRecent returns up to n shot files from dir, newest first by the start time stored
// inside each file. Unreadable files are logged and skipped.
func FindRecent(dir string, n int) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, ShotFilePattern))
	if err != nil {
		return nil, err
	}
	type stamped struct {
		path string
		t    float64
	}
	var files []stamped
	for _, p := range matches {
		t, err := peekStartTime(p)
		if err != nil {
			logging.Warnf("skipping %s: %v", p, err)
			continue
		}
		files = append(files, stamped{path: p, t: t})
	}
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].t != files[j].t {
			return files[i].t > files[j].t
		}
		return files[i].path < files[j].path
	})
	if n > 0 && len(files) > n {
		files = files[:n]
	}
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.path
	}
	return out, nil
}

func peekStartTime(path string) (float64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var head struct {
		Time *float64 `json:"time"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return 0, err
	}
	if head.Time == nil {
		return 0, nil
	}
	return *head.Time, nil
}
