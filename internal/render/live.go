// Package render keeps a terminal region in sync with a growing sorted
// collection of listing entries, repainting incrementally under a redraw
// budget.
package render

import (
	"sort"
	"time"

	"github.com/harrison/livels/internal/entry"
	"github.com/harrison/livels/internal/layout"
)

// Console is the terminal surface a session paints to. internal/term
// provides the real implementation; tests substitute their own.
type Console interface {
	// MoveUp moves the cursor up by at most n lines and reports how far it
	// actually moved.
	MoveUp(n int) int
	// ClearLine erases the line under the cursor.
	ClearLine()
	WriteString(s string)
	Flush()
	// Rows reports the terminal height.
	Rows() int
}

// Func renders an entry into its final display string. Rendering may block:
// it can trigger directory aggregation when a displayed attribute needs the
// aggregate fields.
type Func func(e *entry.Entry) string

// Options configures one render session.
type Options struct {
	// Key is the active sort order.
	Key entry.Key
	// Render produces each entry's display string, exactly once.
	Render Func
	// Layout bounds the multi-column grid.
	Layout layout.Config
	// FinalOnly suppresses running repaints; only the closing repaint runs.
	FinalOnly bool
	// Interval is the minimum delay between running repaints. Zero
	// repaints on every insertion.
	Interval time.Duration
}

// item pairs an entry with its display string, rendered once at insertion.
type item struct {
	entry *entry.Entry
	text  string
}

// Session owns the terminal region between Begin and Close and holds the
// always-sorted list of rendered entries currently painted on it.
type Session struct {
	con  Console
	opts Options

	items     []item
	prevLines int
	lastPaint time.Time
	now       func() time.Time
}

// Begin opens a render session. The caller must end it with Close, which
// either paints the final layout or, on error, leaves the last running
// paint in place.
func Begin(con Console, opts Options) *Session {
	return &Session{con: con, opts: opts, now: time.Now}
}

// Insert adds one entry, keeping the list sorted, and repaints the region.
//
// The display string is rendered first, before any screen work: rendering
// may block on directory aggregation, and no repaint is allowed to
// straddle a blocking call.
func (s *Session) Insert(e *entry.Entry) {
	text := s.opts.Render(e)

	idx := sort.Search(len(s.items), func(i int) bool {
		return s.opts.Key(s.items[i].entry, e) >= 0
	})
	s.items = append(s.items, item{})
	copy(s.items[idx+1:], s.items[idx:])
	s.items[idx] = item{entry: e, text: text}

	if s.opts.FinalOnly {
		return
	}

	// Coalesce bursts of fast insertions into fewer terminal writes.
	now := s.now()
	if !s.lastPaint.IsZero() && now.Sub(s.lastPaint) < s.opts.Interval {
		return
	}
	s.lastPaint = now

	s.repaint(false)
}

// Close ends the session and returns err unchanged. On the success path
// the full sorted layout is painted one final time; otherwise whatever the
// last running repaint produced stays on screen, so a partial view
// survives the error.
func (s *Session) Close(err error) error {
	if err == nil {
		s.repaint(true)
	}
	s.items = nil
	s.prevLines = 0
	s.lastPaint = time.Time{}
	return err
}

// Len reports how many entries the session holds.
func (s *Session) Len() int { return len(s.items) }

// repaint recomputes the complete layout and rewrites the occupied region.
// The layout is always derived from scratch: a new insertion can change
// the column count, and with it the number of lines, by more than one.
func (s *Session) repaint(final bool) {
	texts := make([]string, len(s.items))
	for i, it := range s.items {
		texts[i] = it.text
	}
	lines := layout.Lines(texts, s.opts.Layout)

	s.con.MoveUp(s.prevLines)
	s.prevLines = 0

	if final {
		for _, line := range lines {
			s.con.ClearLine()
			s.con.WriteString(line + "\n")
		}
		s.con.Flush()
		return
	}

	// Use at most the lines on screen, keeping one for the cursor; when
	// the listing is taller the bottom-most rows win.
	space := s.con.Rows() - 1
	if space <= 0 {
		return
	}
	start := 0
	if len(lines) > space {
		start = len(lines) - space
	}
	for _, line := range lines[start:] {
		s.con.ClearLine()
		s.con.WriteString(line + "\n")
		s.prevLines++
	}
	s.con.Flush()
}
