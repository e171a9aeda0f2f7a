// Package ui prints tagged operator messages. Tags are colored on a terminal
// and plain text everywhere else.
package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Tag prefixes a message with its category
type Tag string

// Message tags
const (
	TagError    Tag = "ERROR"
	TagOK       Tag = "OK"
	TagMismatch Tag = "MISMATCH"
	TagInfo     Tag = "INFO"
)

var tagColors = map[Tag]lipgloss.AdaptiveColor{
	TagError:    {Light: "#D70000", Dark: "#FF5F5F"},
	TagOK:       {Light: "#008700", Dark: "#5FD75F"},
	TagMismatch: {Light: "#AF5F00", Dark: "#FFAF00"},
	TagInfo:     {Light: "#005FAF", Dark: "#5FAFFF"},
}

// Printer writes tagged lines to one stream
type Printer struct {
	out    io.Writer
	styles map[Tag]lipgloss.Style
	muted  lipgloss.Style
}

// NewPrinter creates a printer whose color profile follows out
func NewPrinter(out io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	styles := make(map[Tag]lipgloss.Style, len(tagColors))
	for tag, color := range tagColors {
		styles[tag] = r.NewStyle().Bold(true).Foreground(color)
	}
	return &Printer{
		out:    out,
		styles: styles,
		muted:  r.NewStyle().Faint(true),
	}
}

// Line writes "[TAG] message"
func (p *Printer) Line(tag Tag, message string) {
	label := "[" + string(tag) + "]"
	if style, ok := p.styles[tag]; ok {
		label = style.Render(label)
	}
	_, _ = fmt.Fprintf(p.out, "%s %s\n", label, message)
}

// Errorf writes an [ERROR] line
func (p *Printer) Errorf(format string, args ...interface{}) {
	p.Line(TagError, fmt.Sprintf(format, args...))
}

// OKf writes an [OK] line
func (p *Printer) OKf(format string, args ...interface{}) {
	p.Line(TagOK, fmt.Sprintf(format, args...))
}

// Mismatchf writes a [MISMATCH] line
func (p *Printer) Mismatchf(format string, args ...interface{}) {
	p.Line(TagMismatch, fmt.Sprintf(format, args...))
}

// Infof writes an [INFO] line
func (p *Printer) Infof(format string, args ...interface{}) {
	p.Line(TagInfo, fmt.Sprintf(format, args...))
}

// Command writes an indented shell line for the operator to run
func (p *Printer) Command(line string) {
	_, _ = fmt.Fprintf(p.out, "    %s\n", line)
}

// Muted writes a de-emphasized line
func (p *Printer) Muted(line string) {
	_, _ = fmt.Fprintln(p.out, p.muted.Render(line))
}
