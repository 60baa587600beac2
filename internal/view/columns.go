package view

import (
	"strings"
	"time"

	"github.com/harrison/livels/internal/entry"
	"github.com/harrison/livels/internal/format"
	"github.com/harrison/livels/internal/render"
	"github.com/harrison/livels/internal/term"
)

// Column renders one display attribute of an entry. Implementations are
// stateless: everything they need is fixed at construction.
type Column interface {
	Render(e *entry.Entry) string
}

// CTimeColumn shows the creation time. Now anchors the relative short
// form so every entry in a listing is relative to the same instant.
type CTimeColumn struct {
	Long    bool
	Now     time.Time
	Palette *Palette
}

func (c CTimeColumn) Render(e *entry.Entry) string {
	return c.Palette.CTime.Sprint(format.Time(e.CTime(), c.Long, c.Now))
}

// MTimeColumn shows the last modification time.
type MTimeColumn struct {
	Long    bool
	Now     time.Time
	Palette *Palette
}

func (c MTimeColumn) Render(e *entry.Entry) string {
	return c.Palette.MTime.Sprint(format.Time(e.MTime(), c.Long, c.Now))
}

// CountColumn shows a directory's sub-file or sub-directory total. Files
// render as blanks of the same width so the grid stays aligned.
type CountColumn struct {
	Subdirs bool
	Long    bool
	Palette *Palette
}

func (c CountColumn) Render(e *entry.Entry) string {
	n := e.Subfiles()
	if c.Subdirs {
		n = e.Subdirs()
	}
	text := c.Palette.Counts.Sprint(format.Number(float64(n), c.Long, ""))
	if e.IsDir() {
		return text
	}
	return strings.Repeat(" ", term.VisibleWidth(text))
}

// SizeColumn shows the size in bytes, recursively totalled for
// directories.
type SizeColumn struct {
	Long    bool
	Palette *Palette
}

func (c SizeColumn) Render(e *entry.Entry) string {
	return c.Palette.Size.Sprint(format.Number(float64(e.Size()), c.Long, "B"))
}

// PathColumn shows the display name, optionally highlighting the
// extension.
type PathColumn struct {
	Extensions bool
	Palette    *Palette
}

func (c PathColumn) Render(e *entry.Entry) string {
	p := format.Path(e.DisplayName())
	if e.IsDir() {
		return c.Palette.Dir.Sprint(p)
	}
	dot := strings.LastIndex(p, ".")
	if !c.Extensions || dot < 0 {
		return c.Palette.File.Sprint(p)
	}
	// Keep a closing quote outside the extension highlight.
	if p[0] == '\'' || p[0] == '"' {
		return c.Palette.File.Sprint(p[:dot]) +
			c.Palette.Ext.Sprint(p[dot:len(p)-1]) +
			c.Palette.File.Sprint(p[len(p)-1:])
	}
	return c.Palette.File.Sprint(p[:dot]) + c.Palette.Ext.Sprint(p[dot:])
}

// Renderer joins the configured columns into the display function the live
// renderer calls. Attributes are separated by two spaces, with a leading
// pad when the path is not the only column.
func Renderer(columns []Column) render.Func {
	return func(e *entry.Entry) string {
		parts := make([]string, len(columns))
		for i, c := range columns {
			parts[i] = c.Render(e)
		}
		line := strings.Join(parts, "  ")
		if len(columns) > 1 {
			return " " + line
		}
		return line
	}
}
