package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/harrison/livels/internal/cache"
	"github.com/harrison/livels/internal/config"
	"github.com/harrison/livels/internal/entry"
	"github.com/harrison/livels/internal/layout"
	"github.com/harrison/livels/internal/logger"
	"github.com/harrison/livels/internal/render"
	"github.com/harrison/livels/internal/term"
	"github.com/harrison/livels/internal/view"
)

// run resolves flags and config into a fully-wired listing and executes it.
func run(path string, opts *options) error {
	if err := opts.validate(); err != nil {
		return err
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if opts.debugLog == "" {
		opts.debugLog = cfg.DebugLog
	}

	var log *logger.FileLogger
	if opts.debugLog != "" {
		log, err = logger.NewFileLogger(opts.debugLog)
		if err != nil {
			return err
		}
		defer log.Close()
	}

	var stats entry.StatsCache
	if opts.cache || cfg.Cache.Enabled {
		store, err := cache.Open(cfg.Cache.Path, cfg.Cache.TTL)
		if err != nil {
			// The cache is an accelerator; a listing should not fail
			// because it is unavailable.
			log.Warnf("stats cache unavailable: %v", err)
		} else {
			defer store.Close()
			stats = store
		}
	}

	con := term.NewConsole()
	defer con.Close()

	notifyInterrupt()

	colour := useColour(cfg.Colour, opts.noColour, con.IsTerminal())
	pal := view.NewPalette(colour)
	columns := buildColumns(opts, pal, time.Now())

	spec, err := sortSpec(opts)
	if err != nil {
		return err
	}
	key := keyFor(spec)
	if opts.reverseSort != "" {
		key = entry.Reverse(key)
	}

	lay := layout.Config{
		MaxTotalWidth:  cfg.MaxTotalWidth,
		MinColumnWidth: cfg.MinColumnWidth,
		Padding:        cfg.Padding,
		MaxColumns:     maxColumns(opts, cfg, len(columns)),
		RowWise:        opts.rowWise,
		UniformWidth:   opts.uniformWidth,
	}

	ropts := render.Options{
		Key:       key,
		Render:    view.Renderer(columns),
		Layout:    lay,
		FinalOnly: opts.noRunning || !con.IsTerminal(),
		Interval:  cfg.RedrawInterval,
	}

	log.Infof("listing %s (sort=%s reverse=%v columns=%d)", path, spec, opts.reverseSort != "", lay.MaxColumns)
	return listDirectory(con, path, opts, ropts, stats, log)
}

// sortSpec resolves the sort key name, inferring it from the included
// attributes when the bare flag was given.
func sortSpec(o *options) (string, error) {
	explicit := o.sort
	if o.reverseSort != "" {
		explicit = o.reverseSort
	}
	if explicit != "infer" {
		if explicit == "" {
			return "n", nil
		}
		return explicit, nil
	}

	var candidates []string
	if o.ctime || o.longCTime {
		candidates = append(candidates, "c")
	}
	if o.mtime || o.longMTime {
		candidates = append(candidates, "m")
	}
	if o.subCounts || o.longSubCounts {
		// Two counts are shown, so the choice is never unambiguous.
		candidates = append(candidates, "nf", "nd")
	}
	if o.size || o.longSize {
		candidates = append(candidates, "s")
	}
	if o.extensions {
		candidates = append(candidates, "e")
	}

	switch len(candidates) {
	case 0:
		return "n", nil
	case 1:
		return candidates[0], nil
	default:
		arg := "-x/--sort"
		if o.reverseSort != "" {
			arg = "-X/--reverse-sort"
		}
		return "", fmt.Errorf("argument %s: cannot infer sort key: too many included attributes", arg)
	}
}

// keyFor maps a sort key name onto its comparison.
func keyFor(spec string) entry.Key {
	switch spec {
	case "c":
		return entry.ByCTime
	case "m":
		return entry.ByMTime
	case "nf":
		return entry.BySubfiles
	case "nd":
		return entry.BySubdirs
	case "s":
		return entry.BySize
	case "e":
		return entry.ByExt
	default:
		return entry.ByName
	}
}

// buildColumns assembles the display columns in their fixed order: ctime,
// mtime, sub-files, sub-dirs, size, path.
func buildColumns(o *options, pal *view.Palette, now time.Time) []view.Column {
	var cols []view.Column
	if o.ctime || o.longCTime {
		cols = append(cols, view.CTimeColumn{Long: o.longCTime, Now: now, Palette: pal})
	}
	if o.mtime || o.longMTime {
		cols = append(cols, view.MTimeColumn{Long: o.longMTime, Now: now, Palette: pal})
	}
	if o.subCounts || o.longSubCounts {
		cols = append(cols,
			view.CountColumn{Long: o.longSubCounts, Palette: pal},
			view.CountColumn{Subdirs: true, Long: o.longSubCounts, Palette: pal})
	}
	if o.size || o.longSize {
		cols = append(cols, view.SizeColumn{Long: o.longSize, Palette: pal})
	}
	cols = append(cols, view.PathColumn{Extensions: o.extensions, Palette: pal})
	return cols
}

// maxColumns picks the column cap: explicit flags win, otherwise multi-column
// only when nothing but plain names is shown.
func maxColumns(o *options, cfg *config.Config, shown int) int {
	if o.singleColumn {
		return 1
	}
	if o.columns > 0 {
		return o.columns
	}
	if shown > 1 || o.extensions {
		return 1
	}
	return cfg.MaxColumns
}

// useColour resolves the colour mode against the terminal.
func useColour(mode string, noColour, tty bool) bool {
	if noColour {
		return false
	}
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return tty
	}
}

// listDirectory streams one directory through a render session. The first
// read happens before the session opens, so a directory that cannot be
// enumerated at all reports a single plain error and paints nothing.
func listDirectory(con render.Console, path string, o *options, ropts render.Options,
	stats entry.StatsCache, log *logger.FileLogger) error {

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot list %s: %w", path, err)
	}
	defer f.Close()

	batch, err := f.ReadDir(64)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("cannot list %s: %w", path, err)
	}

	sess := render.Begin(con, ropts)
	var listErr error
	for {
		for _, de := range batch {
			e, nerr := entry.New(path, de)
			if nerr != nil {
				// Raced with a deletion or lost stat permission.
				log.Warnf("skipping %s: %v", de.Name(), nerr)
				continue
			}
			if o.filesOnly && e.IsDir() {
				continue
			}
			if o.dirsOnly && !e.IsDir() {
				continue
			}
			if stats != nil {
				e.SetStatsCache(stats)
			}
			sess.Insert(e)
		}
		if err != nil {
			break
		}
		batch, err = f.ReadDir(64)
		if err != nil && !errors.Is(err, io.EOF) {
			listErr = fmt.Errorf("listing %s: %w", path, err)
			break
		}
	}

	log.Infof("inserted %d entries", sess.Len())
	return sess.Close(listErr)
}
