// Package view turns entries into their coloured display strings. Each
// displayed attribute is a stateless Column; a listing configures the
// columns once and joins them into the renderer's display function.
package view

import (
	"github.com/fatih/color"
)

// Palette holds the colour of each displayed attribute. Colours are carried
// per palette rather than through the package-wide colour switch, so
// sessions and tests can run with independent settings.
type Palette struct {
	CTime  *color.Color
	MTime  *color.Color
	Counts *color.Color
	Size   *color.Color
	Ext    *color.Color
	File   *color.Color
	Dir    *color.Color
}

// NewPalette builds the 256-colour palette used for listings. A disabled
// palette returns every string unchanged.
func NewPalette(enabled bool) *Palette {
	mk := func(id int) *color.Color {
		c := color.New(38, 5, color.Attribute(id))
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return &Palette{
		CTime:  mk(63),  // blue
		MTime:  mk(98),  // purple
		Counts: mk(126), // magenta
		Size:   mk(43),  // cyan
		Ext:    mk(220), // gold
		File:   mk(80),  // light blue
		Dir:    mk(120), // light green
	}
}
