package view

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-universe/model"
)

const (
	viewField  = "field"
	viewStatus = "status"
	viewHelp   = "help"

	leftColumnWidth = 28
	minFrameRate    = 10 * time.Millisecond
)

type keyBinding struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

// Console is an interactive terminal host for a universe. Every access to
// the universe happens on the gocui main loop.
type Console struct {
	u        *model.Universe
	g        *gocui.Gui
	k        []keyBinding
	interval time.Duration

	running bool
	message string

	liveFiller string
	deadFiller string
}

// NewConsole creates the terminal UI. Close must be called if Run is not.
func NewConsole(u *model.Universe, interval time.Duration) (*Console, error) {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, errors.Wrap(err, "[NewConsole] failed to create gui")
	}

	c := &Console{
		u:          u,
		g:          g,
		interval:   max(interval, minFrameRate),
		liveFiller: aurora.Green("█").BgBrightGreen().String(),
		deadFiller: "░",
	}
	c.g.Mouse = true
	c.k = []keyBinding{
		{gocui.KeyCtrlC, "^C", "Exit", c.cmdQuit, ""},
		{'n', "N", "Next step", c.cmdStep, ""},
		{'r', "R", "Run", c.cmdRun, ""},
		{'s', "S", "Stop", c.cmdStop, ""},
		{'c', "C", "Clear", c.cmdClear, ""},
		{'g', "G", "Glider", c.cmdGlider, ""},
		{gocui.MouseLeft, "MOUSE", "Toggle cell", c.cmdToggle, viewField},
	}
	c.g.SetManagerFunc(c.layout)

	for _, kb := range c.k {
		h := kb.handler
		if err := c.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(_ *gocui.Gui, v *gocui.View) error { return h(v) }); err != nil {
			c.g.Close()
			return nil, errors.Wrapf(err, "[NewConsole] failed to bind %s", kb.name)
		}
	}
	return c, nil
}

// Run blocks until the user quits
func (c *Console) Run() error {
	defer c.g.Close()

	done := make(chan struct{})
	defer close(done)
	go c.tickLoop(done)

	if err := c.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return errors.Wrap(err, "[Console.Run] main loop failed")
	}
	return nil
}

// Close releases the terminal without running
func (c *Console) Close() {
	c.g.Close()
}

func (c *Console) tickLoop(done <-chan struct{}) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			c.g.Update(func(g *gocui.Gui) error {
				if !c.running {
					return nil
				}
				c.u.Tick()
				return c.refresh(g)
			})
		}
	}
}

func (c *Console) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()

	if v, err := g.SetView(viewStatus, 0, 0, leftColumnWidth, maxY-3); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Status"
	}

	if v, err := g.SetView(viewField, leftColumnWidth+1, 0, maxX-1, maxY-3); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Universe"
	}

	if v, err := g.SetView(viewHelp, -1, maxY-3, maxX, maxY-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Frame = false
		_, _ = fmt.Fprintln(v, helpText(c.k))
	}

	return c.refresh(g)
}

func (c *Console) refresh(g *gocui.Gui) error {
	if v, err := g.View(viewField); err == nil {
		v.Clear()
		w, h := v.Size()
		_, _ = fmt.Fprint(v, fieldText(c.u, w, h, c.liveFiller, c.deadFiller))
	}
	if v, err := g.View(viewStatus); err == nil {
		v.Clear()
		_, _ = fmt.Fprint(v, statusText(c.u, c.running, c.message))
	}
	return nil
}

func (c *Console) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (c *Console) cmdStep(_ *gocui.View) error {
	c.running = false
	c.u.Tick()
	return c.refresh(c.g)
}

func (c *Console) cmdRun(_ *gocui.View) error {
	c.running = true
	c.message = ""
	return c.refresh(c.g)
}

func (c *Console) cmdStop(_ *gocui.View) error {
	c.running = false
	return c.refresh(c.g)
}

func (c *Console) cmdClear(_ *gocui.View) error {
	c.running = false
	c.u.Clear()
	return c.refresh(c.g)
}

func (c *Console) cmdGlider(_ *gocui.View) error {
	c.message = ""
	if err := c.u.GenerateGlider(); err != nil {
		c.message = errors.Cause(err).Error()
	}
	return c.refresh(c.g)
}

func (c *Console) cmdToggle(v *gocui.View) error {
	cx, cy := v.Cursor()
	c.message = ""
	if err := c.u.Toggle(cy, cx); err != nil {
		c.message = errors.Cause(err).Error()
	}
	return c.refresh(c.g)
}

// fieldText renders as much of the universe as fits in maxW x maxH
func fieldText(u *model.Universe, maxW, maxH int, live, dead string) string {
	var b bytes.Buffer
	cells := u.Cells()
	rows := min(u.Height(), maxH)
	cols := min(u.Width(), maxW)
	for row := range rows {
		if row != 0 {
			b.WriteByte('\n')
		}
		for _, cell := range cells[row*u.Width() : row*u.Width()+cols] {
			if cell.IsAlive() {
				b.WriteString(live)
			} else {
				b.WriteString(dead)
			}
		}
	}
	return b.String()
}

func statusText(u *model.Universe, running bool, message string) string {
	mode := aurora.Blue("waiting").String()
	if running {
		mode = aurora.Cyan("running").String()
	}
	change := u.LastChange()

	var b bytes.Buffer
	b.WriteString(prop("Dimension", "%v x %v", u.Width(), u.Height()))
	b.WriteString(prop("Generation", "%v", u.Generation()))
	b.WriteString(prop("Live cells", "%v", u.CountLiving()))
	b.WriteString(prop("Births", "%v", change.Births))
	b.WriteString(prop("Deaths", "%v", change.Deaths))
	b.WriteString(prop("Mode", "%v", mode))
	if message != "" {
		b.WriteString(" " + aurora.Red(message).String() + "\n")
	}
	return b.String()
}

func helpText(k []keyBinding) string {
	var b bytes.Buffer
	b.WriteString("KEYBINDINGS: ")
	for i, kb := range k {
		if i != 0 {
			b.WriteString(", ")
		}
		b.WriteString(aurora.Green(kb.name).String())
		b.WriteString(": ")
		b.WriteString(kb.descr)
	}
	return b.String()
}

func prop(name, format string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Green(name).String()+": "+format+"\n", values...)
}
