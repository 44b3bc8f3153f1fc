package bubbletea

import "github.com/JyothikaKancharla/chatbot/goldmark"

var _ MessageBlock = (*BotMessageBlock)(nil)

// BotMessageBlock renders a bot reply as markdown. Output is cached per
// width since replies never change once stored.
type BotMessageBlock struct {
	text    string
	md      *goldmark.Renderer
	byWidth map[int]string
}

// NewBotMessageBlock creates a BotMessageBlock.
func NewBotMessageBlock(text string, md *goldmark.Renderer) *BotMessageBlock {
	return &BotMessageBlock{text: text, md: md, byWidth: make(map[int]string)}
}

func (b *BotMessageBlock) View(width int) string {
	if out, ok := b.byWidth[width]; ok {
		return out
	}
	out := b.md.Render(b.text, width)
	b.byWidth[width] = out
	return out
}
