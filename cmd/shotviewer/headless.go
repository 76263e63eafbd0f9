package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/iafilius/ShotPlot/src/config"
	"github.com/iafilius/ShotPlot/src/logging"
	"github.com/iafilius/ShotPlot/src/plot"
	"github.com/iafilius/ShotPlot/src/session"
)

type exportOptions struct {
	files   [2]string
	session string
	out     string
}

// RunExportMode renders the viewer's export figure to opts.out without creating a window.
// A session, when given, is applied first; the file paths then replace its slots.
func RunExportMode(set config.Settings, opts exportOptions) error {
	defer logging.TimeTrack(time.Now(), "export")
	vs := newViewState(set)
	if opts.session != "" {
		sess, err := session.Load(opts.session)
		if sess == nil {
			return err
		}
		if err != nil {
			logging.Warnf("%v", err)
		}
		if err := vs.applySession(sess); err != nil {
			logging.Warnf("%v", err)
		}
	}
	for i, p := range opts.files {
		if p == "" {
			continue
		}
		if err := vs.loadSlot(i, p); err != nil {
			return err
		}
	}
	fig := plot.Compose(vs.exportView())
	if fig.Message != "" {
		return fmt.Errorf("nothing to export: %s", fig.Message)
	}
	if dir := filepath.Dir(opts.out); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create out dir: %w", err)
		}
	}
	f, err := os.Create(opts.out)
	if err != nil {
		return fmt.Errorf("create %s: %w", opts.out, err)
	}
	if err := plot.Render(f, fig); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logging.Infof("wrote %s (%dx%d)", opts.out, fig.Width, fig.Height)
	return nil
}
