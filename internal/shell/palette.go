package shell

import (
	"strings"

	"github.com/fatih/color"
)

// palette colours shell output. With colour off every painter returns its
// input unchanged.
type palette struct {
	prompt  *color.Color
	heading *color.Color
	warn    *color.Color
	err     *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		prompt:  color.New(color.FgCyan, color.Bold),
		heading: color.New(color.Bold),
		warn:    color.New(color.FgYellow),
		err:     color.New(color.FgRed),
	}
	if noColor {
		for _, c := range []*color.Color{p.prompt, p.heading, p.warn, p.err} {
			c.DisableColor()
		}
	}
	return p
}

// response paints WARNING lines of a rendered report.
func (p palette) response(text string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		if strings.Contains(line, "WARNING:") {
			lines[i] = p.warn.Sprint(line)
		}
	}
	return strings.Join(lines, "\n")
}
