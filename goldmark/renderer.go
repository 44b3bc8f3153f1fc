package goldmark

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

const (
	bulletMarker = "• "
	minItemWidth = 10
)

// writer accumulates rendered blocks separated by blank lines.
type writer struct {
	styles *styles
	source []byte
	width  int
	out    []string
}

func (w *writer) String() string {
	return strings.TrimRight(strings.Join(w.out, "\n\n"), "\n")
}

func (w *writer) emit(block string) {
	if block = strings.TrimRight(block, "\n"); block != "" {
		w.out = append(w.out, block)
	}
}

func (w *writer) blocks(parent ast.Node) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		w.block(n)
	}
}

func (w *writer) block(node ast.Node) {
	switch n := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		w.emit(wrap(w.inline(n), w.width))
	case *ast.Heading:
		w.emit(wrap(w.styles.heading.Render(w.inline(n)), w.width))
	case *ast.List:
		var lines []string
		w.list(n, 0, &lines)
		w.emit(strings.Join(lines, "\n"))
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		w.emit(w.code(n))
	case *ast.ThematicBreak:
		w.emit(w.styles.muted.Render(strings.Repeat("─", min(w.width, 20))))
	case *ast.HTMLBlock:
		w.emit(string(linesOf(n, w.source)))
	default:
		w.blocks(node)
	}
}

func (w *writer) list(list *ast.List, depth int, lines *[]string) {
	n := list.Start
	for c := list.FirstChild(); c != nil; c = c.NextSibling() {
		marker := bulletMarker
		if list.IsOrdered() {
			marker = fmt.Sprintf("%d. ", n)
			n++
		}
		indent := strings.Repeat("  ", depth)
		var parts []string
		for ic := c.FirstChild(); ic != nil; ic = ic.NextSibling() {
			if sub, ok := ic.(*ast.List); ok {
				w.item(indent, marker, strings.Join(parts, " "), lines)
				parts = nil
				marker = strings.Repeat(" ", runewidth.StringWidth(marker))
				w.list(sub, depth+1, lines)
				continue
			}
			parts = append(parts, w.inline(ic))
		}
		if len(parts) > 0 {
			w.item(indent, marker, strings.Join(parts, " "), lines)
		}
	}
}

// item wraps content next to its marker and hangs continuation lines under
// the first character of content.
func (w *writer) item(indent, marker, content string, lines *[]string) {
	if content == "" {
		return
	}
	hang := runewidth.StringWidth(indent + marker)
	body := wrap(content, max(w.width-hang, minItemWidth))
	pad := strings.Repeat(" ", hang)
	for i, line := range strings.Split(body, "\n") {
		if i == 0 {
			*lines = append(*lines, indent+w.styles.bullet.Render(marker)+line)
			continue
		}
		*lines = append(*lines, pad+line)
	}
}

func (w *writer) code(node ast.Node) string {
	var b strings.Builder
	if fc, ok := node.(*ast.FencedCodeBlock); ok {
		if lang := fc.Language(w.source); len(lang) > 0 {
			b.WriteString(w.styles.muted.Render(string(lang)) + "\n")
		}
	}
	gutter := w.styles.muted.Render("│") + " "
	for _, line := range strings.Split(strings.TrimRight(string(linesOf(node, w.source)), "\n"), "\n") {
		b.WriteString(gutter + line + "\n")
	}
	return b.String()
}

func (w *writer) inline(node ast.Node) string {
	var b strings.Builder
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		w.span(c, &b)
	}
	return b.String()
}

func (w *writer) span(node ast.Node, b *strings.Builder) {
	switch n := node.(type) {
	case *ast.Text:
		b.Write(n.Segment.Value(w.source))
		switch {
		case n.HardLineBreak():
			b.WriteByte('\n')
		case n.SoftLineBreak():
			b.WriteByte(' ')
		}
	case *ast.String:
		b.Write(n.Value)
	case *ast.Emphasis:
		if n.Level == 1 {
			b.WriteString(w.styles.italic.Render(w.inline(n)))
		} else {
			b.WriteString(w.styles.bold.Render(w.inline(n)))
		}
	case *east.Strikethrough:
		b.WriteString(w.styles.strike.Render(w.inline(n)))
	case *ast.CodeSpan:
		b.WriteString(w.styles.bold.Render(w.inline(n)))
	case *ast.Link:
		b.WriteString(w.styles.underline.Render(w.inline(n)))
		b.WriteString(" " + w.styles.muted.Render("("+string(n.Destination)+")"))
	case *ast.AutoLink:
		b.WriteString(w.styles.underline.Render(string(n.URL(w.source))))
	case *ast.Image:
		b.WriteString(w.styles.underline.Render(w.inline(n)))
		b.WriteString(" " + w.styles.muted.Render("("+string(n.Destination)+")"))
	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.Write(seg.Value(w.source))
		}
	default:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			w.span(c, b)
		}
	}
}

func linesOf(node ast.Node, source []byte) []byte {
	var out []byte
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		out = append(out, seg.Value(source)...)
	}
	return out
}

func wrap(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(s)
}
