package transmitter

import (
	"fmt"
	"io"
	"strings"
)

const progressMaxBars = 10

// progressBar renders a ten segment console progress bar, redrawn in
// place while sending and newline terminated when complete.
type progressBar struct {
	out      io.Writer
	bars     int
	maxCount int
}

func newProgressBar(out io.Writer, maxCount int) *progressBar {
	return &progressBar{
		out:      out,
		maxCount: maxCount,
	}
}

func (p *progressBar) show(count int) {
	progress := float64(count) / float64(p.maxCount)
	bars := int(progress * progressMaxBars)
	if bars == p.bars {
		return // I don't need to print if bar count did not change.
	}
	p.bars = bars

	line := "  Progress |" + strings.Repeat("#", p.bars) + strings.Repeat(" ", progressMaxBars-p.bars) + "|"
	if count == p.maxCount {
		fmt.Fprintln(p.out, line)
	} else {
		fmt.Fprint(p.out, line, "\r")
	}
}
