// Package term provides the raw terminal control primitives the live
// renderer paints with: cursor movement, line clearing, cursor position
// and size queries, and visible-width measurement of styled strings.
package term

import (
	"bufio"
	"fmt"
	"os"
	"regexp"

	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	xterm "golang.org/x/term"
)

// ansiPattern matches the control sequences embedded in rendered strings.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

// StripANSI removes control sequences from s.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// VisibleWidth returns the number of terminal cells s occupies once
// control sequences are removed.
func VisibleWidth(s string) int {
	return runewidth.StringWidth(StripANSI(s))
}

// fallbackRows stands in when the terminal size cannot be determined.
const fallbackRows = 24

// Console owns the cursor and screen region for the duration of a render
// session. Output is buffered; Flush makes it visible.
type Console struct {
	out   *bufio.Writer
	outFd int
	in    *os.File
	tty   bool
}

// NewConsole wraps stdout. When stdout is a terminal the controlling tty is
// opened read-only for cursor position queries.
func NewConsole() *Console {
	c := &Console{
		out:   bufio.NewWriter(os.Stdout),
		outFd: int(os.Stdout.Fd()),
	}
	c.tty = isatty.IsTerminal(os.Stdout.Fd())
	if c.tty {
		if in, err := os.Open("/dev/tty"); err == nil {
			c.in = in
		}
	}
	return c
}

// IsTerminal reports whether stdout is an interactive terminal.
func (c *Console) IsTerminal() bool { return c.tty }

// WriteString buffers text for the terminal.
func (c *Console) WriteString(s string) {
	c.out.WriteString(s)
}

// Flush pushes buffered output to the terminal.
func (c *Console) Flush() {
	c.out.Flush()
}

// ClearLine erases the line under the cursor and returns to column one.
func (c *Console) ClearLine() {
	c.out.WriteString("\x1b[2K\r")
}

// MoveUp moves the cursor up by n lines, clamped to the rows actually
// available above it, and reports how far it moved.
func (c *Console) MoveUp(n int) int {
	if n <= 0 {
		return 0
	}
	if row := c.CursorRow(); row > 0 && row-1 < n {
		n = row - 1
	}
	if n <= 0 {
		return 0
	}
	fmt.Fprintf(c.out, "\x1b[%dA", n)
	return n
}

// Rows reports the terminal height.
func (c *Console) Rows() int {
	if _, h, err := xterm.GetSize(c.outFd); err == nil && h > 0 {
		return h
	}
	return fallbackRows
}

// CursorRow queries the 1-based cursor row with a CPR request, or returns 0
// when the terminal does not answer.
func (c *Console) CursorRow() int {
	if c.in == nil {
		return 0
	}
	fd := int(c.in.Fd())
	state, err := xterm.MakeRaw(fd)
	if err != nil {
		return 0
	}
	defer xterm.Restore(fd, state)

	c.out.WriteString("\x1b[6n")
	c.out.Flush()

	// The reply is ESC [ row ; col R.
	reply := make([]byte, 0, 16)
	buf := make([]byte, 1)
	for {
		if _, err := c.in.Read(buf); err != nil {
			return 0
		}
		reply = append(reply, buf[0])
		if buf[0] == 'R' {
			break
		}
		if len(reply) > 16 {
			return 0
		}
	}

	var row, col int
	if _, err := fmt.Sscanf(string(reply), "\x1b[%d;%dR", &row, &col); err != nil {
		return 0
	}
	return row
}

// Close flushes pending output and releases the tty handle.
func (c *Console) Close() error {
	c.Flush()
	if c.in != nil {
		return c.in.Close()
	}
	return nil
}
