package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
)

// Printer writes styled status lines to a command's output.
type Printer struct {
	w io.Writer
	s Styles
}

// NewPrinter returns a Printer for w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, s: NewStyles(w)}
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer { return p.w }

func (p *Printer) Println(a ...interface{}) {
	fmt.Fprintln(p.w, a...)
}

func (p *Printer) Printf(format string, a ...interface{}) {
	fmt.Fprintf(p.w, format, a...)
}

// Banner prints a title framed by dividers.
func (p *Printer) Banner(title string, width int) {
	fmt.Fprintln(p.w, p.s.RenderDivider(width))
	fmt.Fprintln(p.w, p.s.Title.Render(title))
	fmt.Fprintln(p.w, p.s.RenderDivider(width))
}

// OK prints a success line.
func (p *Printer) OK(format string, a ...interface{}) {
	fmt.Fprintln(p.w, p.s.Success.Render("✅ "+fmt.Sprintf(format, a...)))
}

// Check prints a tick line, used for per-file progress.
func (p *Printer) Check(format string, a ...interface{}) {
	fmt.Fprintln(p.w, p.s.Success.Render("✓")+" "+fmt.Sprintf(format, a...))
}

// Fail prints a failure line.
func (p *Printer) Fail(format string, a ...interface{}) {
	fmt.Fprintln(p.w, p.s.Error.Render("❌ "+fmt.Sprintf(format, a...)))
}

// Warn prints a warning line.
func (p *Printer) Warn(format string, a ...interface{}) {
	fmt.Fprintln(p.w, p.s.Warning.Render("⚠️  "+fmt.Sprintf(format, a...)))
}

// Muted prints a de-emphasized line.
func (p *Printer) Muted(format string, a ...interface{}) {
	fmt.Fprintln(p.w, p.s.Muted.Render(fmt.Sprintf(format, a...)))
}

// Markdown renders model output as terminal markdown. With raw set, or if
// rendering fails, the text is printed unchanged.
func (p *Printer) Markdown(text string, raw bool) {
	if !raw {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err == nil {
			if out, err := r.Render(text); err == nil {
				fmt.Fprint(p.w, out)
				return
			}
		}
	}
	fmt.Fprintln(p.w, text)
}
