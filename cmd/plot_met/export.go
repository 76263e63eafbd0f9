package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iafilius/ShotPlot/src/export"
	"github.com/iafilius/ShotPlot/src/shot"
)

func newExportCmd() *cobra.Command {
	var (
		format string
		out    string
		keys   []string
		trim   float64
	)
	cmd := &cobra.Command{
		Use:   "export <shot.json>",
		Short: "Export the extracted series as CSV, JSON or YAML",
		Long: `Export the time axis and the series of a shot file as a table.

Missing samples become empty CSV cells or null in JSON and YAML. Without --series every
known metric present in the file is exported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := export.NewExporter(format)
			if err != nil {
				return err
			}
			s, err := shot.Load(args[0])
			if err != nil {
				return err
			}
			if trim > 0 {
				s = s.Trim(trim)
			}
			tbl := export.BuildTable(s, keys)

			if out == "" {
				if err := exp.Export(tbl, cmd.OutOrStdout()); err != nil {
					return &export.ExportError{Format: format, Err: err}
				}
				return nil
			}
			out = exportPath(out, s, exp)
			f, err := os.Create(out)
			if err != nil {
				return &export.ExportError{Format: format, Path: out, Err: err}
			}
			if err := exp.Export(tbl, f); err != nil {
				_ = f.Close()
				return &export.ExportError{Format: format, Path: out, Err: err}
			}
			if err := f.Close(); err != nil {
				return &export.ExportError{Format: format, Path: out, Err: err}
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote: %s\n", out)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&format, "format", "f", "csv", "Export format (csv, json, yaml)")
	f.StringVarP(&out, "out", "o", "", "Output file, or a directory to write <stem>_series.<ext> into (default: stdout)")
	f.StringSliceVarP(&keys, "series", "s", nil, "Series keys to export, e.g. shot.pressure,sensors.motor_speed")
	f.Float64Var(&trim, "trim", 0, "Only export the first N seconds (0 = whole shot)")
	return cmd
}

// exportPath resolves -o: an existing directory gets "<stem>_series.<ext>".
func exportPath(out string, s *shot.Shot, exp export.Exporter) string {
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		stem := strings.TrimSuffix(s.ShortName(), ".shot")
		return filepath.Join(out, stem+"_series."+exp.Extension())
	}
	return out
}
