// Command shotviewer is the interactive shot viewer: two shot slots, per-series selection,
// axis and style controls, compare mode, sessions, hover readout and PNG export. With
// -export it renders headlessly and exits.
package main

import (
	"flag"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/ShotPlot/src/axis"
	"github.com/iafilius/ShotPlot/src/config"
	"github.com/iafilius/ShotPlot/src/logging"
	"github.com/iafilius/ShotPlot/src/plot"
	"github.com/iafilius/ShotPlot/src/session"
	"github.com/iafilius/ShotPlot/src/shot"
	"github.com/iafilius/ShotPlot/src/style"
)

// previewDPI is the resolution of the on-screen chart.
const previewDPI = 96.0

const hoverHint = "Hover over plot to see values"

type slotWidgets struct {
	label    *widget.Label
	settings *widget.Button
	clear    *widget.Button
}

type uiState struct {
	*viewState

	app    fyne.App
	window fyne.Window

	fig     *plot.Figure
	img     *canvas.Image
	overlay *hoverOverlay
	readout *widget.Label

	slotUI     [2]slotWidgets
	compareChk *widget.Check
	checks     map[string]*widget.Check
	secChecks  map[string]*widget.Check

	// syncing suppresses widget callbacks while state is pushed into the widgets.
	syncing bool
}

func main() {
	var (
		fileFlag    string
		file2Flag   string
		sessionFlag string
		exportFlag  string
		configFlag  string
		logFlag     string
	)
	flag.StringVar(&fileFlag, "file", "", "Path to a *.shot.json file for slot 1")
	flag.StringVar(&file2Flag, "file2", "", "Path to a *.shot.json file for slot 2")
	flag.StringVar(&sessionFlag, "session", "", "Path to a *.session.json file to restore")
	flag.StringVar(&exportFlag, "export", "", "Render the view to this PNG and exit without opening a window")
	flag.StringVar(&configFlag, "config", config.DefaultConfigPath(), "Path to the TOML config file")
	flag.StringVar(&logFlag, "log-level", "", "Log level (debug, info, warn, error)")
	flag.Parse()

	fc, err := config.LoadConfig(configFlag)
	if err != nil {
		logging.Warnf("config: %v; using defaults", err)
	}
	set := fc.Resolve()
	level := set.LogLevel
	if logFlag != "" {
		level = logFlag
	}
	if !logging.SetLevel(level) {
		logging.Warnf("unknown log level %q", level)
	}

	if exportFlag != "" {
		opts := exportOptions{files: [2]string{fileFlag, file2Flag}, session: sessionFlag, out: exportFlag}
		if err := RunExportMode(set, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	a := app.NewWithID("com.shotplot.viewer")
	w := a.NewWindow("Shot Viewer")
	w.Resize(fyne.NewSize(1300, 820))

	state := &uiState{
		viewState: newViewState(set),
		app:       a,
		window:    w,
		checks:    map[string]*widget.Check{},
		secChecks: map[string]*widget.Check{},
	}
	state.compare = a.Preferences().BoolWithFallback("compare", false)

	state.img = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 100, 60)))
	state.img.FillMode = canvas.ImageFillContain
	state.img.SetMinSize(fyne.NewSize(640, 320))
	state.overlay = newHoverOverlay(state)
	state.readout = widget.NewLabel(hoverHint)
	state.readout.TextStyle = fyne.TextStyle{Monospace: true}

	left := container.NewVBox(
		slotRow(state, 0),
		slotRow(state, 1),
		compareRow(state),
		sessionRow(state),
		widget.NewSeparator(),
	)
	fields := fieldPanel(state)
	bottom := container.NewVBox(
		widget.NewSeparator(),
		presetRow(state),
		widget.NewButtonWithIcon("Export PNG", theme.DocumentSaveIcon(), func() { exportPNG(state) }),
	)
	leftPane := container.NewBorder(left, bottom, nil, nil, container.NewVScroll(fields))
	right := container.NewBorder(nil, container.NewVScroll(state.readout), nil, nil,
		container.NewStack(state.img, state.overlay))
	split := container.NewHSplit(leftPane, right)
	split.SetOffset(0.28)
	w.SetContent(split)
	buildMenus(state)

	// Redraw on window resize so the chart scales with the pane
	done := make(chan struct{})
	w.SetOnClosed(func() {
		savePrefs(state)
		close(done)
	})
	go func() {
		prevW := float32(0)
		t := time.NewTicker(300 * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				c := w.Canvas()
				if c == nil {
					continue
				}
				if cur := c.Size().Width; cur != prevW {
					prevW = cur
					fyne.Do(func() { redraw(state) })
				}
			}
		}
	}()

	initialLoad(state, fileFlag, file2Flag, sessionFlag)
	syncWidgets(state)
	redraw(state)
	w.ShowAndRun()
}

// initialLoad fills the slots from flags, a session, or the two newest shots in the shot dir.
func initialLoad(state *uiState, file1, file2, sessPath string) {
	if sessPath != "" {
		loadSessionFile(state, sessPath)
		return
	}
	paths := [2]string{file1, file2}
	if file1 == "" && file2 == "" {
		recent, err := shot.FindRecent(state.settings.ShotDir, 2)
		if err != nil {
			logging.Warnf("auto-load from %s: %v", state.settings.ShotDir, err)
		}
		copy(paths[:], recent)
	}
	for i, p := range paths {
		if p == "" {
			continue
		}
		if err := state.loadSlot(i, p); err != nil {
			logging.Errorf("%v", err)
			dialog.ShowError(err, state.window)
		}
	}
}

// chartSize derives the preview size from the window width.
func chartSize(state *uiState) (int, int) {
	if state == nil || state.window == nil || state.window.Canvas() == nil {
		return axis.ChartDimensions(1100)
	}
	return axis.ChartDimensions(int(state.window.Canvas().Size().Width * 0.7))
}

func redraw(state *uiState) {
	w, h := chartSize(state)
	fig := plot.Compose(state.view(w, h, previewDPI))
	img, err := plot.RenderImage(fig)
	if err != nil {
		logging.Errorf("render: %v", err)
		img = plot.Placeholder(w, h, "Render failed: "+err.Error())
	}
	state.fig = fig
	state.img.Image = img
	state.img.Refresh()
	state.overlay.Refresh()
	state.showReadout(math.NaN())
}

// showReadout updates the readout panel for chart time t; NaN shows the hint.
func (state *uiState) showReadout(t float64) {
	if state.readout == nil {
		return
	}
	text := ""
	if !math.IsNaN(t) {
		text = readout(state.fig, state.slotNames(), t)
	}
	if text == "" {
		text = hoverHint
	}
	state.readout.SetText(text)
}

func slotRow(state *uiState, i int) fyne.CanvasObject {
	sw := &state.slotUI[i]
	sw.label = widget.NewLabel("(none)")
	load := widget.NewButtonWithIcon("", theme.FolderOpenIcon(), func() { openShotDialog(state, i) })
	sw.clear = widget.NewButtonWithIcon("", theme.ContentClearIcon(), func() {
		state.clearSlot(i)
		syncWidgets(state)
		redraw(state)
	})
	sw.settings = widget.NewButtonWithIcon("", theme.SettingsIcon(), func() { showTrimDialog(state, i) })
	title := widget.NewLabelWithStyle(fmt.Sprintf("Shot %d:", i+1), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	return container.NewBorder(nil, nil, title, container.NewHBox(load, sw.clear, sw.settings), sw.label)
}

func compareRow(state *uiState) fyne.CanvasObject {
	state.compareChk = widget.NewCheck("Compare mode (overlay both shots)", func(b bool) {
		if state.syncing {
			return
		}
		state.compare = b
		savePrefs(state)
		redraw(state)
	})
	return state.compareChk
}

func sessionRow(state *uiState) fyne.CanvasObject {
	return container.NewGridWithColumns(2,
		widget.NewButton("Save Session", func() { saveSessionDialog(state) }),
		widget.NewButton("Load Session", func() { loadSessionDialog(state) }),
	)
}

// fieldPanel builds one row per catalog field: visibility check, secondary-axis check and
// style button, grouped under category headers.
func fieldPanel(state *uiState) fyne.CanvasObject {
	box := container.NewVBox()
	cats, byCat := shot.Categories()
	for _, c := range cats {
		box.Add(widget.NewLabelWithStyle(c, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
		for _, f := range byCat[c] {
			f := f
			chk := widget.NewCheck(f.Label(), func(b bool) {
				if state.syncing {
					return
				}
				state.selected[f.Key] = b
				redraw(state)
			})
			sec := widget.NewCheck("2nd", func(b bool) {
				if state.syncing {
					return
				}
				state.setSecondary(f.Key, b)
				redraw(state)
			})
			btn := widget.NewButtonWithIcon("", theme.ColorPaletteIcon(), func() { showStyleDialog(state, f) })
			state.checks[f.Key] = chk
			state.secChecks[f.Key] = sec
			box.Add(container.NewBorder(nil, nil, nil, container.NewHBox(sec, btn), chk))
		}
	}
	return box
}

func presetRow(state *uiState) fyne.CanvasObject {
	row := container.NewGridWithColumns(4)
	for _, name := range []string{"All", "None", "Shot", "Temps"} {
		name := name
		row.Add(widget.NewButton(name, func() {
			state.applyPreset(presetKeys(name))
			syncWidgets(state)
			redraw(state)
		}))
	}
	return row
}

// syncWidgets pushes the state into the widgets without triggering their callbacks.
func syncWidgets(state *uiState) {
	state.syncing = true
	defer func() { state.syncing = false }()
	for k, c := range state.checks {
		c.SetChecked(state.selected[k])
	}
	for k, c := range state.secChecks {
		c.SetChecked(state.viewAxis(k) == style.Secondary)
	}
	if state.compareChk != nil {
		state.compareChk.SetChecked(state.compare)
	}
	for i := range state.slotUI {
		sw := state.slotUI[i]
		if sw.label == nil {
			continue
		}
		s := state.slots[i].shot
		if s == nil {
			sw.label.SetText("(none)")
			sw.settings.Disable()
			sw.clear.Disable()
			continue
		}
		text := s.DateLabel()
		if t := state.slots[i].trim; t > 0 {
			text += fmt.Sprintf(" (≤ %.1fs)", t)
		}
		sw.label.SetText(text)
		sw.settings.Enable()
		sw.clear.Enable()
	}
}

func shotDirURI(state *uiState) fyne.ListableURI {
	dir := state.app.Preferences().StringWithFallback("lastShotDir", state.settings.ShotDir)
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil
	}
	l, err := storage.ListerForURI(storage.NewFileURI(abs))
	if err != nil {
		return nil
	}
	return l
}

func openShotDialog(state *uiState, i int) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		path := rc.URI().Path()
		_ = rc.Close()
		if err := state.loadSlot(i, path); err != nil {
			dialog.ShowError(err, state.window)
			return
		}
		state.app.Preferences().SetString("lastShotDir", filepath.Dir(path))
		savePrefs(state)
		syncWidgets(state)
		redraw(state)
	}, state.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	if l := shotDirURI(state); l != nil {
		d.SetLocation(l)
	}
	d.Show()
}

func saveSessionDialog(state *uiState) {
	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		path := wc.URI().Path()
		_ = wc.Close()
		target, err := state.saveSession(path)
		if target != path {
			// the dialog already created the file under the name without the suffix
			_ = os.Remove(path)
		}
		if err != nil {
			dialog.ShowError(err, state.window)
			return
		}
		dialog.ShowInformation("Save Session", "Session saved to:\n"+target, state.window)
	}, state.window)
	d.SetFileName("shots" + session.FileSuffix)
	d.Show()
}

func loadSessionDialog(state *uiState) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		path := rc.URI().Path()
		_ = rc.Close()
		loadSessionFile(state, path)
		syncWidgets(state)
		redraw(state)
	}, state.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	d.Show()
}

// loadSessionFile restores a session. A fatal error leaves the current state untouched;
// recoverable problems are reported after the session is applied.
func loadSessionFile(state *uiState, path string) {
	sess, err := session.Load(path)
	if sess == nil {
		dialog.ShowError(err, state.window)
		return
	}
	var msgs []string
	if err != nil {
		msgs = append(msgs, err.Error())
	}
	if lerr := state.applySession(sess); lerr != nil {
		msgs = append(msgs, lerr.Error())
	}
	if len(msgs) > 0 {
		dialog.ShowInformation("Load Session", strings.Join(msgs, "\n"), state.window)
	}
}

func exportPNG(state *uiState) {
	fig := plot.Compose(state.exportView())
	if fig.Message != "" {
		dialog.ShowInformation("Export", fig.Message, state.window)
		return
	}
	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := plot.Render(wc, fig); err != nil {
			dialog.ShowError(err, state.window)
			return
		}
		logging.Infof("exported %s", wc.URI().Path())
	}, state.window)
	name := "shot_plot.png"
	if s := state.slots[0].shot; s != nil {
		name = s.ShortName() + "_plot.png"
	}
	d.SetFileName(name)
	d.Show()
}

func buildMenus(state *uiState) {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Shot 1…", func() { openShotDialog(state, 0) }),
		fyne.NewMenuItem("Open Shot 2…", func() { openShotDialog(state, 1) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Session…", func() { saveSessionDialog(state) }),
		fyne.NewMenuItem("Load Session…", func() { loadSessionDialog(state) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PNG…", func() { exportPNG(state) }),
	)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu))

	canv := state.window.Canvas()
	if canv != nil {
		for _, mod := range []fyne.KeyModifier{fyne.KeyModifierSuper, fyne.KeyModifierControl} {
			canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: mod}, func(fyne.Shortcut) { openShotDialog(state, 0) })
			canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyE, Modifier: mod}, func(fyne.Shortcut) { exportPNG(state) })
			canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: mod}, func(fyne.Shortcut) { state.window.Close() })
		}
	}
}

// prefs
func savePrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	prefs.SetBool("compare", state.compare)
	for i, key := range []string{"lastFile1", "lastFile2"} {
		path := ""
		if s := state.slots[i].shot; s != nil {
			path = s.Path
		}
		prefs.SetString(key, path)
	}
}
