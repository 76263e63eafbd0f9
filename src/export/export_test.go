package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/iafilius/ShotPlot/src/shot"
)

const fixture = `{
  "time": 1700000000,
  "profile_name": "Londinium",
  "data": [
    {"time": 0,   "shot": {"pressure": 1, "flow": 0.5}, "sensors": {"motor_speed": 10}},
    {"time": 0.5, "shot": {"pressure": 3}},
    {"time": 1.5, "shot": {"pressure": 6, "flow": 2.5}}
  ]
}`

func loadFixture(t *testing.T) *shot.Shot {
	t.Helper()
	s, err := shot.Parse(strings.NewReader(fixture), "fixture.shot.json")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return s
}

func TestNewExporter(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantExt string
		wantErr bool
	}{
		{name: "csv format", format: "csv", wantExt: "csv"},
		{name: "json format", format: "json", wantExt: "json"},
		{name: "yaml format", format: "yaml", wantExt: "yaml"},
		{name: "yml alias", format: "YML", wantExt: "yaml"},
		{name: "unsupported", format: "xlsx", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewExporter(tt.format)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewExporter(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
			if !tt.wantErr && e.Extension() != tt.wantExt {
				t.Fatalf("extension %q want %q", e.Extension(), tt.wantExt)
			}
		})
	}
}

func TestBuildTableDefaultsToPresentFields(t *testing.T) {
	tbl := BuildTable(loadFixture(t), nil)
	var keys []string
	for _, c := range tbl.Columns {
		keys = append(keys, c.Key)
	}
	if strings.Join(keys, ",") != "shot.pressure,shot.flow,sensors.motor_speed" {
		t.Fatalf("columns %v", keys)
	}
	if tbl.Profile != "Londinium" || len(tbl.Times) != 3 {
		t.Fatalf("table %+v", tbl)
	}
}

func TestCSVExporter(t *testing.T) {
	tbl := BuildTable(loadFixture(t), []string{"shot.pressure", "shot.flow"})
	var buf bytes.Buffer
	if err := (&CSVExporter{}).Export(tbl, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	want := "time_s,shot.pressure (bar),shot.flow (ml/s)\n0,1,0.5\n0.5,3,\n1.5,6,2.5\n"
	if buf.String() != want {
		t.Fatalf("csv\n got %q\nwant %q", buf.String(), want)
	}
}

func TestJSONExporterWritesNullForMissing(t *testing.T) {
	tbl := BuildTable(loadFixture(t), []string{"shot.flow"})
	var buf bytes.Buffer
	if err := (&JSONExporter{}).Export(tbl, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	var doc struct {
		Profile string `json:"profile"`
		Start   string `json:"start"`
		Series  []struct {
			Key    string     `json:"key"`
			Values []*float64 `json:"values"`
		} `json:"series"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Profile != "Londinium" || doc.Start != "2023-11-14T22:13:20Z" {
		t.Fatalf("header %+v", doc)
	}
	v := doc.Series[0].Values
	if len(v) != 3 || v[0] == nil || *v[0] != 0.5 || v[1] != nil {
		t.Fatalf("values %v", v)
	}
}

func TestYAMLExporter(t *testing.T) {
	tbl := BuildTable(loadFixture(t), []string{"shot.pressure"})
	var buf bytes.Buffer
	if err := (&YAMLExporter{}).Export(tbl, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	var doc document
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("yaml decode: %v", err)
	}
	if doc.Source != "fixture.shot.json" || len(doc.Series) != 1 || doc.Series[0].Name != "Pressure" {
		t.Fatalf("doc %+v", doc)
	}
	if *doc.Series[0].Values[2] != 6 {
		t.Fatalf("values wrong")
	}
}

func TestExportErrorUnwraps(t *testing.T) {
	err := &ExportError{Format: "csv", Path: "/x.csv", Err: os.ErrPermission}
	if !errors.Is(err, os.ErrPermission) || !strings.Contains(err.Error(), "/x.csv") {
		t.Fatalf("unexpected error %v", err)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestExportReportsWriteErrors(t *testing.T) {
	tbl := BuildTable(loadFixture(t), nil)
	for _, format := range []string{"csv", "json", "yaml"} {
		e, err := NewExporter(format)
		if err != nil {
			t.Fatalf("NewExporter(%q): %v", format, err)
		}
		if err := e.Export(tbl, failingWriter{}); err == nil {
			t.Fatalf("%s: expected write error", format)
		}
	}
}
