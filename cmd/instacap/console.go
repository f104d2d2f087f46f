package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chriskillpack/instacap"
	"github.com/schollz/progressbar/v3"
)

// console is the terminal rendition of the app window. Status and image lines
// go to out, the spinner goes to errw.
type console struct {
	out  io.Writer
	errw io.Writer

	bar *progressbar.ProgressBar
}

var _ instacap.Display = &console{}

func newConsole(out, errw io.Writer) *console {
	return &console{out: out, errw: errw}
}

func (c *console) Status(text string) {
	fmt.Fprintf(c.out, "[%s]\n", text)
}

func (c *console) Image(info instacap.ImageInfo) {
	fmt.Fprintf(c.out, "image: %s\n", info)
}

func (c *console) Caption(text string) {
	rule := strings.Repeat("-", 40)
	fmt.Fprintf(c.out, "%s\n%s\n%s\n", rule, text, rule)
}

func (c *console) Errorf(format string, a ...any) {
	fmt.Fprintf(c.out, "error: "+format+"\n", a...)
}

// Show prints a summary of the session.
func (c *console) Show(s *instacap.Session) {
	path := s.ImagePath()
	if path == "" {
		path = "(none)"
	}
	desc := s.Description()
	if desc == "" {
		desc = "(none)"
	}
	fmt.Fprintf(c.out, "state:       %s\nimage:       %s\ndescription: %s\n", s.State(), path, desc)
	c.Caption(s.CaptionText())
}

func (c *console) startSpinner() {
	if c.bar != nil {
		return
	}
	c.bar = progressbar.NewOptions(
		-1,
		progressbar.OptionSetWriter(c.errw),
		progressbar.OptionSetDescription("Generating caption"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

// tick advances the spinner, if one is running.
func (c *console) tick() {
	if c.bar != nil {
		c.bar.Add(1)
	}
}

func (c *console) stopSpinner() {
	if c.bar == nil {
		return
	}
	c.bar.Finish()
	c.bar = nil
}
