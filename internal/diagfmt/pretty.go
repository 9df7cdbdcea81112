package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"ploy/internal/diag"
	"ploy/internal/source"
)

type palette struct {
	err, warn, info, note func(a ...any) string
	gutter, caret, bold   func(a ...any) string
}

func paint(on bool, attrs ...color.Attribute) func(a ...any) string {
	c := color.New(attrs...)
	if on {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.SprintFunc()
}

func newPalette(on bool) palette {
	return palette{
		err:    paint(on, color.FgRed, color.Bold),
		warn:   paint(on, color.FgYellow, color.Bold),
		info:   paint(on, color.FgCyan, color.Bold),
		note:   paint(on, color.FgGreen, color.Bold),
		gutter: paint(on, color.FgBlue, color.Bold),
		caret:  paint(on, color.FgRed, color.Bold),
		bold:   paint(on, color.Bold),
	}
}

func (p palette) severity(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return p.err("error")
	case diag.SevWarning:
		return p.warn("warning")
	}
	return p.info("info")
}

// Pretty печатает диагностики в виде:
//
//	error[SEM3001]: undefined symbol `y`
//	  --> main.ply:1:4
//	   |
//	 1 | (+ y 1)
//	   |    ^
//
// bag is expected to be sorted.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s%s %s\n", p.severity(d.Severity), p.bold("["+d.Code.ID()+"]:"), p.bold(d.Message))
		renderSnippet(&sb, p, fs, d.Primary, opts, p.caret)
		if opts.ShowNotes {
			for _, n := range d.Notes {
				fmt.Fprintf(&sb, "%s %s\n", p.note("note:"), n.Msg)
				renderSnippet(&sb, p, fs, n.Span, opts, p.note)
			}
		}
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	if n := bag.Dropped(); n > 0 {
		if _, err := fmt.Fprintf(w, "\n%s %d more diagnostic(s) not shown\n", p.note("note:"), n); err != nil {
			return err
		}
	}
	return nil
}

func renderSnippet(sb *strings.Builder, p palette, fs *source.FileSet, span source.Span, opts PrettyOpts, mark func(a ...any) string) {
	f := fs.Get(span.File)
	if f == nil {
		return
	}
	start := f.LineCol(span.Start)
	end := f.LineCol(span.End)
	gutterWidth := len(fmt.Sprint(start.Line))
	pad := strings.Repeat(" ", gutterWidth)

	fmt.Fprintf(sb, "%s%s %s:%d:%d\n", pad, p.gutter("-->"), formatPath(f, fs, opts.PathMode), start.Line, start.Col)
	fmt.Fprintf(sb, "%s %s\n", pad, p.gutter("|"))

	first := max(int(start.Line)-opts.Context, 1)
	for ln := first; ln < int(start.Line); ln++ {
		fmt.Fprintf(sb, "%*d %s %s\n", gutterWidth, ln, p.gutter("|"), expandTabs(f.GetLine(uint32(ln))))
	}
	line := f.GetLine(start.Line)
	fmt.Fprintf(sb, "%s %s %s\n", p.gutter(fmt.Sprintf("%*d", gutterWidth, start.Line)), p.gutter("|"), expandTabs(line))

	col, width := caretColumns(line, start, end)
	fmt.Fprintf(sb, "%s %s %s%s\n", pad, p.gutter("|"), strings.Repeat(" ", col), mark(strings.Repeat("^", width)))
}

// caretColumns converts the byte columns of a span into display columns on
// its first line. A multi-line span is underlined to the end of the line.
func caretColumns(line string, start, end source.LineCol) (col, width int) {
	from := min(int(start.Col)-1, len(line))
	to := len(line)
	if end.Line == start.Line {
		to = min(int(end.Col)-1, len(line))
	}
	col = runewidth.StringWidth(expandTabs(line[:from]))
	width = 1
	if to > from {
		width = max(runewidth.StringWidth(expandTabs(line[from:to])), 1)
	}
	return col, width
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	base := ""
	if mode == PathModeRelative {
		base = fs.BaseDir()
	}
	return f.FormatPath(mode.String(), base)
}
