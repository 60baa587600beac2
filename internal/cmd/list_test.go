package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/livels/internal/config"
	"github.com/harrison/livels/internal/entry"
	"github.com/harrison/livels/internal/layout"
	"github.com/harrison/livels/internal/render"
	"github.com/harrison/livels/internal/view"
)

// fakeConsole records what a listing paints.
type fakeConsole struct {
	writes  []string
	moveUps []int
	clears  int
	flushes int
}

func (c *fakeConsole) MoveUp(n int) int {
	c.moveUps = append(c.moveUps, n)
	return n
}

func (c *fakeConsole) ClearLine() { c.clears++ }

func (c *fakeConsole) WriteString(s string) { c.writes = append(c.writes, s) }

func (c *fakeConsole) Flush() { c.flushes++ }

func (c *fakeConsole) Rows() int { return 24 }

// plainNameOptions renders bare names in one column with no live repaints.
func plainNameOptions() render.Options {
	return render.Options{
		Key:       entry.ByName,
		Render:    view.Renderer([]view.Column{view.PathColumn{Palette: view.NewPalette(false)}}),
		Layout:    layout.Config{MaxTotalWidth: 100, MinColumnWidth: 0, Padding: 0, MaxColumns: 1},
		FinalOnly: true,
	}
}

func makeListing(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), make([]byte, 10), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "A"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), make([]byte, 5), 0644))
	return dir
}

func TestListDirectorySortedOutput(t *testing.T) {
	dir := makeListing(t)
	con := &fakeConsole{}

	err := listDirectory(con, dir, &options{}, plainNameOptions(), nil, nil)
	require.NoError(t, err)

	// Directories sort before files regardless of arrival order.
	assert.Equal(t, []string{"A/\n", "a.txt\n", "b.txt\n"}, con.writes)
}

func TestListDirectoryFilesOnly(t *testing.T) {
	dir := makeListing(t)
	con := &fakeConsole{}

	err := listDirectory(con, dir, &options{filesOnly: true}, plainNameOptions(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt\n", "b.txt\n"}, con.writes)
}

func TestListDirectoryDirectoriesOnly(t *testing.T) {
	dir := makeListing(t)
	con := &fakeConsole{}

	err := listDirectory(con, dir, &options{dirsOnly: true}, plainNameOptions(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"A/\n"}, con.writes)
}

func TestListDirectoryMissingPathPaintsNothing(t *testing.T) {
	con := &fakeConsole{}

	err := listDirectory(con, filepath.Join(t.TempDir(), "gone"), &options{}, plainNameOptions(), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot list")
	assert.Empty(t, con.writes)
}

func TestSortSpec(t *testing.T) {
	tests := []struct {
		name    string
		opts    options
		want    string
		wantErr bool
	}{
		{
			name: "defaults to name",
			opts: options{},
			want: "n",
		},
		{
			name: "explicit key",
			opts: options{sort: "s"},
			want: "s",
		},
		{
			name: "explicit reverse key",
			opts: options{reverseSort: "m"},
			want: "m",
		},
		{
			name: "inferred from ctime",
			opts: options{sort: "infer", ctime: true},
			want: "c",
		},
		{
			name: "inferred from long mtime",
			opts: options{sort: "infer", longMTime: true},
			want: "m",
		},
		{
			name: "inferred from size",
			opts: options{sort: "infer", size: true},
			want: "s",
		},
		{
			name: "inferred from extensions",
			opts: options{sort: "infer", extensions: true},
			want: "e",
		},
		{
			name: "inferred with nothing included defaults to name",
			opts: options{sort: "infer"},
			want: "n",
		},
		{
			name:    "sub-counts alone are ambiguous",
			opts:    options{sort: "infer", subCounts: true},
			wantErr: true,
		},
		{
			name:    "two attributes are ambiguous",
			opts:    options{sort: "infer", ctime: true, size: true},
			wantErr: true,
		},
		{
			name:    "reverse inference is just as ambiguous",
			opts:    options{reverseSort: "infer", mtime: true, extensions: true},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sortSpec(&tt.opts)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "cannot infer sort key")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortSpecNamesTheReverseFlagInErrors(t *testing.T) {
	_, err := sortSpec(&options{reverseSort: "infer", subCounts: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-X/--reverse-sort")

	_, err = sortSpec(&options{sort: "infer", subCounts: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-x/--sort")
}

func TestKeyForOrdersAccordingly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "big.dat"), make([]byte, 100), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "small.txt"), make([]byte, 1), 0644))

	des, err := os.ReadDir(dir)
	require.NoError(t, err)
	entries := map[string]*entry.Entry{}
	for _, de := range des {
		e, err := entry.New(dir, de)
		require.NoError(t, err)
		entries[e.Name()] = e
	}

	big, small := entries["big.dat"], entries["small.txt"]

	assert.Negative(t, keyFor("n")(big, small))
	assert.Negative(t, keyFor("s")(small, big))
	assert.Positive(t, keyFor("s")(big, small))
	assert.Negative(t, keyFor("e")(big, small))

	// Unknown specs fall back to name ordering.
	assert.Negative(t, keyFor("")(big, small))
}

func TestBuildColumnsFixedOrder(t *testing.T) {
	pal := view.NewPalette(false)
	now := time.Now()

	cols := buildColumns(&options{ctime: true, subCounts: true, size: true}, pal, now)
	require.Len(t, cols, 5)
	assert.IsType(t, view.CTimeColumn{}, cols[0])
	assert.IsType(t, view.CountColumn{}, cols[1])
	assert.IsType(t, view.CountColumn{}, cols[2])
	assert.IsType(t, view.SizeColumn{}, cols[3])
	assert.IsType(t, view.PathColumn{}, cols[4])

	assert.False(t, cols[1].(view.CountColumn).Subdirs)
	assert.True(t, cols[2].(view.CountColumn).Subdirs)
}

func TestBuildColumnsPathOnly(t *testing.T) {
	cols := buildColumns(&options{}, view.NewPalette(false), time.Now())
	require.Len(t, cols, 1)
	assert.IsType(t, view.PathColumn{}, cols[0])
}

func TestMaxColumns(t *testing.T) {
	cfg := config.DefaultConfig()

	tests := []struct {
		name  string
		opts  options
		shown int
		want  int
	}{
		{name: "bare names spread out", opts: options{}, shown: 1, want: 4},
		{name: "attributes force single column", opts: options{size: true}, shown: 2, want: 1},
		{name: "extension highlight forces single column", opts: options{extensions: true}, shown: 1, want: 1},
		{name: "explicit single column", opts: options{singleColumn: true}, shown: 1, want: 1},
		{name: "explicit count wins", opts: options{columns: 7, size: true}, shown: 2, want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, maxColumns(&tt.opts, cfg, tt.shown))
		})
	}
}

func TestUseColour(t *testing.T) {
	assert.True(t, useColour("auto", false, true))
	assert.False(t, useColour("auto", false, false))
	assert.True(t, useColour("always", false, false))
	assert.False(t, useColour("never", false, true))

	// --no-colour beats everything.
	assert.False(t, useColour("always", true, true))
}
