package render

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/livels/internal/entry"
	"github.com/harrison/livels/internal/layout"
)

// fakeConsole records the primitive calls a session makes.
type fakeConsole struct {
	rows    int
	writes  []string
	clears  int
	moveUps []int
	flushes int
}

func (c *fakeConsole) MoveUp(n int) int {
	c.moveUps = append(c.moveUps, n)
	return n
}

func (c *fakeConsole) ClearLine() { c.clears++ }

func (c *fakeConsole) WriteString(s string) { c.writes = append(c.writes, s) }

func (c *fakeConsole) Flush() { c.flushes++ }

func (c *fakeConsole) Rows() int {
	if c.rows == 0 {
		return 24
	}
	return c.rows
}

// makeFiles creates one file per name and returns their entries keyed by
// name.
func makeFiles(t *testing.T, names ...string) map[string]*entry.Entry {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0644))
	}
	des, err := os.ReadDir(dir)
	require.NoError(t, err)
	entries := make(map[string]*entry.Entry, len(des))
	for _, de := range des {
		e, err := entry.New(dir, de)
		require.NoError(t, err)
		entries[e.Name()] = e
	}
	return entries
}

func singleColumn() layout.Config {
	return layout.Config{MaxTotalWidth: 100, MinColumnWidth: 0, Padding: 0, MaxColumns: 1}
}

func nameOptions(cfg layout.Config) Options {
	return Options{
		Key:    entry.ByName,
		Render: func(e *entry.Entry) string { return e.Name() },
		Layout: cfg,
	}
}

func TestInsertKeepsListSorted(t *testing.T) {
	entries := makeFiles(t, "alpha", "beta", "gamma")
	con := &fakeConsole{}
	opts := nameOptions(singleColumn())
	opts.FinalOnly = true

	sess := Begin(con, opts)
	sess.Insert(entries["gamma"])
	sess.Insert(entries["alpha"])
	sess.Insert(entries["beta"])
	require.NoError(t, sess.Close(nil))

	assert.Equal(t, []string{"alpha\n", "beta\n", "gamma\n"}, con.writes)
}

func TestArrivalOrderDoesNotChangeFinalOutput(t *testing.T) {
	orders := [][]string{
		{"beta", "gamma", "alpha"},
		{"alpha", "beta", "gamma"},
	}

	var outputs [][]string
	for _, order := range orders {
		entries := makeFiles(t, "alpha", "beta", "gamma")
		con := &fakeConsole{}
		opts := nameOptions(singleColumn())
		opts.FinalOnly = true

		sess := Begin(con, opts)
		for _, name := range order {
			sess.Insert(entries[name])
		}
		require.NoError(t, sess.Close(nil))
		outputs = append(outputs, con.writes)
	}

	assert.Equal(t, outputs[0], outputs[1])
}

func TestFinalOnlySkipsRunningRepaints(t *testing.T) {
	entries := makeFiles(t, "alpha", "beta")
	con := &fakeConsole{}
	opts := nameOptions(singleColumn())
	opts.FinalOnly = true

	sess := Begin(con, opts)
	sess.Insert(entries["alpha"])
	sess.Insert(entries["beta"])
	assert.Empty(t, con.writes)

	require.NoError(t, sess.Close(nil))
	assert.Equal(t, []string{"alpha\n", "beta\n"}, con.writes)
	assert.Equal(t, 1, con.flushes)
}

func TestThrottleCoalescesRepaints(t *testing.T) {
	entries := makeFiles(t, "alpha", "beta", "gamma")
	con := &fakeConsole{}
	opts := nameOptions(singleColumn())
	opts.Interval = 100 * time.Millisecond

	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	sess := Begin(con, opts)
	sess.now = func() time.Time { return now }

	sess.Insert(entries["alpha"])
	assert.Equal(t, 1, con.flushes)

	// Within the interval: no repaint.
	now = now.Add(50 * time.Millisecond)
	sess.Insert(entries["beta"])
	assert.Equal(t, 1, con.flushes)

	// Past the interval: repaint again.
	now = now.Add(100 * time.Millisecond)
	sess.Insert(entries["gamma"])
	assert.Equal(t, 2, con.flushes)
}

func TestEveryInsertRepaintsWithZeroInterval(t *testing.T) {
	entries := makeFiles(t, "alpha", "beta", "gamma")
	con := &fakeConsole{}
	sess := Begin(con, nameOptions(singleColumn()))

	sess.Insert(entries["alpha"])
	sess.Insert(entries["beta"])
	sess.Insert(entries["gamma"])

	// Each repaint moves up over the previous region first.
	assert.Equal(t, []int{0, 1, 2}, con.moveUps)

	require.NoError(t, sess.Close(nil))
	assert.Equal(t, []int{0, 1, 2, 3}, con.moveUps)
}

func TestCloseWithErrorLeavesOutputInPlace(t *testing.T) {
	entries := makeFiles(t, "alpha", "beta")
	con := &fakeConsole{}
	sess := Begin(con, nameOptions(singleColumn()))

	sess.Insert(entries["alpha"])
	writes := len(con.writes)

	failure := errors.New("boom")
	assert.Equal(t, failure, sess.Close(failure))
	assert.Len(t, con.writes, writes)
}

func TestRunningRepaintClampedToScreen(t *testing.T) {
	entries := makeFiles(t, "a", "b", "c", "d", "e")
	con := &fakeConsole{rows: 3}
	sess := Begin(con, nameOptions(singleColumn()))

	for _, name := range []string{"a", "b", "c", "d", "e"} {
		sess.Insert(entries[name])
	}

	// Only rows-1 lines are ever written per running repaint, keeping the
	// bottom-most rows of the listing.
	last := con.writes[len(con.writes)-2:]
	assert.Equal(t, []string{"d\n", "e\n"}, last)
	assert.Equal(t, 2, con.moveUps[len(con.moveUps)-1])

	// The final repaint writes everything.
	con.writes = nil
	require.NoError(t, sess.Close(nil))
	assert.Equal(t, []string{"a\n", "b\n", "c\n", "d\n", "e\n"}, con.writes)
}
