package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"image-watcher/internal/indexer"
)

const barWidth = 24

// terminalProgress redraws a single status line on a terminal.
type terminalProgress struct {
	out   io.Writer
	width int
	drawn bool
}

// newProgress returns a progress bar if out is a terminal and a sink that
// discards reports otherwise.
func newProgress(out io.Writer) (indexer.ProgressSink, func()) {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return indexer.NopProgress, func() {}
	}

	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}
	p := &terminalProgress{out: out, width: width}
	return p, p.finish
}

func (p *terminalProgress) Update(percent float64, status, detail string) {
	p.drawn = true
	fmt.Fprintf(p.out, "\r%s", renderBar(percent, status, detail, p.width-1))
}

func (p *terminalProgress) finish() {
	if p.drawn {
		fmt.Fprintln(p.out)
	}
}

// renderBar formats one progress line padded or cut to exactly width runes.
func renderBar(percent float64, status, detail string, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent / 100 * barWidth)

	line := fmt.Sprintf("[%s%s] %3.0f%% %s",
		strings.Repeat("#", filled), strings.Repeat("-", barWidth-filled), percent, status)
	if detail != "" {
		line += " " + detail
	}

	runes := []rune(line)
	if width <= 0 {
		return line
	}
	if len(runes) > width {
		return string(runes[:width])
	}
	return line + strings.Repeat(" ", width-len(runes))
}
