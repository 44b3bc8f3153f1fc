// Package goldmark renders bot replies, which are usually short markdown
// bullet lists, to ANSI-styled terminal output. Parsing is done by goldmark
// and styling by lipgloss.
package goldmark

import (
	"strconv"

	"github.com/JyothikaKancharla/chatbot"
	"github.com/charmbracelet/lipgloss"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

const defaultWidth = 80

// Renderer renders markdown with a fixed color palette. It is safe to reuse
// across replies; build a new one when the theme changes.
type Renderer struct {
	md     goldmark.Markdown
	styles styles
}

type styles struct {
	bold      lipgloss.Style
	italic    lipgloss.Style
	strike    lipgloss.Style
	heading   lipgloss.Style
	bullet    lipgloss.Style
	muted     lipgloss.Style
	underline lipgloss.Style
}

// NewRenderer returns a Renderer styled with theme.
func NewRenderer(theme chatbot.Theme) *Renderer {
	return &Renderer{
		md: goldmark.New(goldmark.WithExtensions(extension.Strikethrough, extension.Linkify)),
		styles: styles{
			bold:      lipgloss.NewStyle().Bold(true),
			italic:    lipgloss.NewStyle().Italic(true),
			strike:    lipgloss.NewStyle().Strikethrough(true),
			heading:   lipgloss.NewStyle().Foreground(color(theme.Accent)).Bold(true),
			bullet:    lipgloss.NewStyle().Foreground(color(theme.BotMsg)),
			muted:     lipgloss.NewStyle().Foreground(color(theme.Muted)).Faint(true),
			underline: lipgloss.NewStyle().Underline(true),
		},
	}
}

// Render parses source and returns styled output wrapped to width. An empty
// source renders as an empty string.
func (r *Renderer) Render(source string, width int) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = defaultWidth
	}
	src := []byte(source)
	doc := r.md.Parser().Parse(text.NewReader(src))
	w := &writer{styles: &r.styles, source: src, width: width}
	w.blocks(doc)
	return w.String()
}

func color(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
