package model

import (
	"io"
	"os"
	"strings"

	"github.com/logrusorgru/aurora"
)

const (
	ansiClear = "\033[H\033[2J"

	colorAlive = "█"
	colorDead  = "·"
)

// Renderer draws a universe somewhere
type Renderer interface {
	Display(u *Universe) error
	Clear() error
}

// TerminalRenderer writes the plain text rendering of a universe
type TerminalRenderer struct {
	Out io.Writer
}

func (r *TerminalRenderer) out() io.Writer {
	if r.Out == nil {
		return os.Stdout
	}
	return r.Out
}

// Display renders the universe to the terminal
func (r *TerminalRenderer) Display(u *Universe) error {
	_, err := io.WriteString(r.out(), u.Render())
	return err
}

// Clear clears the terminal screen
func (r *TerminalRenderer) Clear() error {
	_, err := io.WriteString(r.out(), ansiClear)
	return err
}

// ColorRenderer draws live cells in green using ANSI colours
type ColorRenderer struct {
	Out   io.Writer
	Color bool
}

// NewColorRenderer creates a renderer on out with colours enabled
func NewColorRenderer(out io.Writer) *ColorRenderer {
	return &ColorRenderer{Out: out, Color: true}
}

// Display renders the universe with coloured glyphs
func (r *ColorRenderer) Display(u *Universe) error {
	_, err := io.WriteString(r.Out, r.Sprint(u))
	return err
}

// Clear clears the terminal screen
func (r *ColorRenderer) Clear() error {
	_, err := io.WriteString(r.Out, ansiClear)
	return err
}

// Sprint returns the coloured rendering without writing it
func (r *ColorRenderer) Sprint(u *Universe) string {
	au := aurora.NewAurora(r.Color)
	alive := au.Green(colorAlive).String()
	dead := au.Faint(colorDead).String()

	var b strings.Builder
	cells := u.Cells()
	for row := range u.Height() {
		for _, c := range cells[row*u.Width() : (row+1)*u.Width()] {
			if c.IsAlive() {
				b.WriteString(alive)
			} else {
				b.WriteString(dead)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
