package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/iafilius/ShotPlot/src/config"
	"github.com/iafilius/ShotPlot/src/logging"
	"github.com/iafilius/ShotPlot/src/plot"
	"github.com/iafilius/ShotPlot/src/shot"
	"github.com/iafilius/ShotPlot/src/style"
)

// cliSeries is the fixed series set of the batch plot with its line attributes.
var cliSeries = []struct {
	flag  string
	key   string
	line  style.LineStyle
	axis  style.Axis
	usage string
}{
	{"no-pressure", "shot.pressure", style.Solid, style.Primary, "Hide pressure (actual)"},
	{"no-flow", "shot.flow", style.Solid, style.Primary, "Hide flow (actual)"},
	{"no-motor-speed", "sensors.motor_speed", style.Solid, style.Primary, "Hide motor speed (actual)"},
	{"no-pressure-goal", "shot.setpoints.pressure", style.Dotted, style.Primary, "Hide pressure goal"},
	{"no-flow-goal", "shot.setpoints.flow", style.Dotted, style.Primary, "Hide flow goal"},
	{"no-motor-power", "sensors.motor_power", style.Dashed, style.Secondary, "Hide motor power (actual)"},
	{"no-motor-power-goal", "shot.setpoints.power", style.Dotted, style.Secondary, "Hide motor power goal"},
}

const cliLineWidth = 2.0

type rootOptions struct {
	configPath string
	logLevel   string

	out    string
	dpi    float64
	width  float64
	height float64
	title  string
	noGrid bool
	trim   float64
	hide   map[string]*bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{hide: map[string]*bool{}}
	cmd := &cobra.Command{
		Use:   "plot_met <shot.json>",
		Short: "Plot shot actuals and goals to a high-res PNG",
		Long: `Plot an espresso shot file's measured pressure, flow and motor values together with
their setpoints. Motor power and its goal are drawn against a secondary axis whose zero line
is aligned with the primary one.

Examples:
  plot_met 07_27_36.shot.json
  plot_met shot.json -o out.png --dpi 300 --no-motor-speed
  plot_met export shot.json --format csv
  plot_met info shot.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return applyLogLevel(cmd, opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(cmd, opts, args[0])
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", config.DefaultConfigPath(), "Path to the TOML config file")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	f := cmd.Flags()
	f.StringVarP(&opts.out, "out", "o", "", "Output PNG path. Default: <input_stem>_actuals_vs_goals.png in same folder.")
	f.Float64Var(&opts.dpi, "dpi", 200, "PNG DPI")
	f.Float64Var(&opts.width, "width", 14, "Figure width in inches")
	f.Float64Var(&opts.height, "height", 7, "Figure height in inches")
	f.StringVar(&opts.title, "title", "", "Plot title override")
	f.BoolVar(&opts.noGrid, "no-grid", false, "Disable grid")
	f.Float64Var(&opts.trim, "trim", 0, "Only plot the first N seconds (0 = whole shot)")
	for _, s := range cliSeries {
		opts.hide[s.key] = f.Bool(s.flag, false, s.usage)
	}

	cmd.AddCommand(newExportCmd(), newInfoCmd())
	return cmd
}

// loadSettings resolves the config file over the built-in defaults.
func loadSettings(opts *rootOptions) (config.Settings, error) {
	fc, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return config.Settings{}, err
	}
	return fc.Resolve(), nil
}

func applyLogLevel(cmd *cobra.Command, opts *rootOptions) error {
	level := opts.logLevel
	if level == "" {
		s, err := loadSettings(opts)
		if err != nil {
			return err
		}
		level = s.LogLevel
	}
	if !logging.SetLevel(level) {
		return fmt.Errorf("unknown log level %q", level)
	}
	return nil
}

// defaultOutPath is <stem>_actuals_vs_goals.png beside the input, stem being the name
// without its last extension.
func defaultOutPath(in string) string {
	base := filepath.Base(in)
	stem := base[:len(base)-len(filepath.Ext(base))]
	return filepath.Join(filepath.Dir(in), stem+"_actuals_vs_goals.png")
}

// buildView assembles the plot view for the CLI's fixed series set. Flags the user set
// explicitly win over the config file.
func buildView(s *shot.Shot, opts *rootOptions, set config.Settings, flags interface{ Changed(string) bool }) plot.View {
	v := plot.View{
		Shots:    [2]*shot.Shot{s},
		Trim:     [2]float64{opts.trim},
		Styles:   map[string]style.Spec{},
		Palette:  set.Palette,
		Title:    opts.title,
		WidthIn:  set.WidthIn,
		HeightIn: set.HeightIn,
		DPI:      set.DPI,
		HideGrid: !set.Grid,
	}
	if flags.Changed("width") {
		v.WidthIn = opts.width
	}
	if flags.Changed("height") {
		v.HeightIn = opts.height
	}
	if flags.Changed("dpi") {
		v.DPI = opts.dpi
	}
	if flags.Changed("no-grid") {
		v.HideGrid = opts.noGrid
	}
	for _, cs := range cliSeries {
		if *opts.hide[cs.key] {
			continue
		}
		v.Selected = append(v.Selected, cs.key)
		v.Styles[cs.key] = style.Spec{Line: cs.line, Width: cliLineWidth, Axis: cs.axis}
	}
	return v
}

func runPlot(cmd *cobra.Command, opts *rootOptions, in string) error {
	defer logging.TimeTrack(time.Now(), "plot")
	set, err := loadSettings(opts)
	if err != nil {
		return err
	}
	s, err := shot.Load(in)
	if err != nil {
		return err
	}
	fig := plot.Compose(buildView(s, opts, set, cmd.Flags()))
	if fig.Message != "" {
		logging.Warnf("%s: %s", in, fig.Message)
	}

	out := opts.out
	if out == "" {
		out = defaultOutPath(in)
	}
	if dir := filepath.Dir(out); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := plot.Render(f, fig); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote: %s\n", out)
	return nil
}
