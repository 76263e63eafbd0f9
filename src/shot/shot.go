// Package shot loads espresso shot recordings (*.shot.json) and extracts time series from them.
//
// A shot file is one JSON object with the shot start time (unix seconds), the profile name
// and a data array of samples. Each sample carries its own clock value plus "shot" metrics
// (pressure, flow, weight, setpoints) and free-form "sensors". Sample clocks are reduced
// to elapsed seconds once at load.
package shot

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/iafilius/ShotPlot/src/logging"
)

// MillisecondThreshold is the largest elapsed value still taken as seconds.
const MillisecondThreshold = 100.0

// Sample is one reading of the machine.
type Sample struct {
	Elapsed float64 // seconds since the first sample
	Record  map[string]any
}

// Shot is a loaded recording. Samples are sorted by Elapsed.
type Shot struct {
	Path        string
	ProfileName string
	StartTime   time.Time
	// TimeScale is the multiplier applied to raw sample clocks (0.001 for milliseconds).
	TimeScale float64
	Samples   []Sample
}

// Series is one metric across the samples of a shot. Missing values are NaN at their index.
type Series struct {
	Key    string
	Times  []float64
	Values []float64
}

// Len returns the number of points.
func (s Series) Len() int { return len(s.Values) }

// Present reports whether at least one value is a number.
func (s Series) Present() bool {
	for _, v := range s.Values {
		if !math.IsNaN(v) {
			return true
		}
	}
	return false
}

// Range returns min and max over the non-NaN values; ok is false when there are none.
func (s Series) Range() (min, max float64, ok bool) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, v := range s.Values {
		if math.IsNaN(v) {
			continue
		}
		ok = true
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if !ok {
		return math.NaN(), math.NaN(), false
	}
	return min, max, true
}

// Load opens and parses a shot file.
func Load(path string) (*Shot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()
	start := time.Now()
	defer logging.TimeTrack(start, "load "+filepath.Base(path))
	return Parse(f, path)
}

type rawSample struct {
	clock  float64
	record map[string]any
}

// Parse decodes a shot document from r. path is only used for messages and Shot.Path.
func Parse(r io.Reader, path string) (*Shot, error) {
	var doc any
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, &LoadError{Path: path, Op: "decode", Err: err}
	}
	root, ok := doc.(map[string]any)
	if !ok {
		return nil, &LoadError{Path: path, Op: "validate", Err: fmt.Errorf("top level is %s, want object", jsonKind(doc))}
	}
	// the top-level start time must be a JSON number, not a numeric string or bool
	startSec, ok := GetOr(root, []string{"time"}, nil).(float64)
	if !ok {
		return nil, &LoadError{Path: path, Op: "validate", Err: fmt.Errorf("%w: time (number)", ErrMissingKey)}
	}
	profile, ok := root["profile_name"].(string)
	if !ok {
		return nil, &LoadError{Path: path, Op: "validate", Err: fmt.Errorf("%w: profile_name (string)", ErrMissingKey)}
	}
	data, ok := root["data"].([]any)
	if !ok {
		return nil, &LoadError{Path: path, Op: "validate", Err: fmt.Errorf("%w: data (array)", ErrMissingKey)}
	}

	raws := make([]rawSample, 0, len(data))
	skipped := 0
	for _, item := range data {
		rec, isObj := item.(map[string]any)
		if !isObj {
			skipped++
			continue
		}
		clock, _ := Float(rec, []string{"time"})
		if math.IsNaN(clock) {
			clock = 0
		}
		raws = append(raws, rawSample{clock: clock, record: rec})
	}
	if skipped > 0 {
		logging.Warnf("%s: skipped %d non-object samples", path, skipped)
	}
	sort.SliceStable(raws, func(i, j int) bool { return raws[i].clock < raws[j].clock })

	rel := make([]float64, len(raws))
	for i, rs := range raws {
		rel[i] = rs.clock - raws[0].clock
	}
	elapsed, scale := NormalizeElapsed(rel)

	s := &Shot{
		Path:        path,
		ProfileName: profile,
		StartTime:   unixSeconds(startSec),
		TimeScale:   scale,
		Samples:     make([]Sample, len(raws)),
	}
	for i, rs := range raws {
		s.Samples[i] = Sample{Elapsed: elapsed[i], Record: rs.record}
	}
	logging.Debugf("%s: %d samples, profile=%q, scale=%g", path, len(s.Samples), profile, scale)
	return s, nil
}

// NormalizeElapsed converts relative sample clocks to seconds. Clocks whose maximum exceeds
// MillisecondThreshold are milliseconds and get divided by 1000. It returns the converted
// copy and the scale applied; the input is not modified.
func NormalizeElapsed(rel []float64) ([]float64, float64) {
	scale := 1.0
	maxV := math.Inf(-1)
	for _, v := range rel {
		if v > maxV {
			maxV = v
		}
	}
	if maxV > MillisecondThreshold {
		scale = 1.0 / 1000.0
	}
	out := make([]float64, len(rel))
	for i, v := range rel {
		if scale == 1 {
			out[i] = v
		} else {
			out[i] = v / 1000.0
		}
	}
	return out, scale
}

func unixSeconds(sec float64) time.Time {
	whole, frac := math.Modf(sec)
	return time.Unix(int64(whole), int64(frac*1e9))
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "bool"
	}
	return fmt.Sprintf("%T", v)
}

// Times returns the elapsed seconds of every sample.
func (s *Shot) Times() []float64 {
	out := make([]float64, len(s.Samples))
	for i, sm := range s.Samples {
		out[i] = sm.Elapsed
	}
	return out
}

// Duration is the elapsed time of the last sample (0 for an empty shot).
func (s *Shot) Duration() float64 {
	if len(s.Samples) == 0 {
		return 0
	}
	return s.Samples[len(s.Samples)-1].Elapsed
}

// ExtractSeries collects the value at path from every sample. It never fails: missing or
// non-numeric values become NaN so the result stays index-aligned with Times.
func (s *Shot) ExtractSeries(path []string) Series {
	ser := Series{
		Key:    strings.Join(path, "."),
		Times:  make([]float64, len(s.Samples)),
		Values: make([]float64, len(s.Samples)),
	}
	for i, sm := range s.Samples {
		ser.Times[i] = sm.Elapsed
		v, ok := Float(sm.Record, path)
		if !ok {
			v = math.NaN()
		}
		ser.Values[i] = v
	}
	return ser
}

// Extract is ExtractSeries for a dotted key.
func (s *Shot) Extract(key string) Series { return s.ExtractSeries(ParsePath(key)) }

// Trim returns a copy holding only the samples with Elapsed <= maxSeconds. The receiver is
// not modified. A NaN or negative bound yields an empty shot.
func (s *Shot) Trim(maxSeconds float64) *Shot {
	out := *s
	n := sort.Search(len(s.Samples), func(i int) bool { return s.Samples[i].Elapsed > maxSeconds })
	if math.IsNaN(maxSeconds) {
		n = 0
	}
	out.Samples = append([]Sample(nil), s.Samples[:n]...)
	return &out
}

// ShortName is the file name without its final extension ("07_27_36.shot" for 07_27_36.shot.json).
func (s *Shot) ShortName() string {
	base := filepath.Base(s.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Title is "profile – date time", or just the profile name when the start time is unset.
func (s *Shot) Title() string {
	if s.StartTime.IsZero() || s.StartTime.Unix() == 0 {
		return s.ProfileName
	}
	return fmt.Sprintf("%s – %s", s.ProfileName, s.StartTime.Local().Format("2006-01-02 15:04:05"))
}

// DateLabel is the compact label used on the viewer's file slots.
func (s *Shot) DateLabel() string {
	if s.StartTime.IsZero() || s.StartTime.Unix() == 0 {
		return s.ShortName()
	}
	return s.StartTime.Local().Format("2006-01-02 15:04")
}
