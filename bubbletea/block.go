package bubbletea

import (
	"github.com/JyothikaKancharla/chatbot"
	"github.com/JyothikaKancharla/chatbot/goldmark"
)

// MessageBlock is a renderable element in the conversation. View takes a
// width so the root model controls layout and blocks are testable in
// isolation.
type MessageBlock interface {
	View(width int) string
}

// blocksFor builds the blocks for a session's messages. An empty session
// shows placeholder as a bot notice.
func blocksFor(msgs []chatbot.Message, placeholder string, styles Styles, md *goldmark.Renderer) []MessageBlock {
	if len(msgs) == 0 {
		if placeholder == "" {
			return nil
		}
		return []MessageBlock{NewNoticeBlock(placeholder, styles.BotMsg)}
	}
	blocks := make([]MessageBlock, 0, len(msgs))
	for _, msg := range msgs {
		switch msg.Sender {
		case chatbot.SenderUser:
			blocks = append(blocks, NewUserMessageBlock(msg.Text, styles))
		default:
			blocks = append(blocks, NewBotMessageBlock(msg.Text, md))
		}
	}
	return blocks
}
