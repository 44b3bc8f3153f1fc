package bubbletea

import "github.com/charmbracelet/lipgloss"

var _ MessageBlock = (*NoticeBlock)(nil)

// NoticeBlock renders a line that is shown in the conversation but never
// stored, such as the welcome shown in an empty chat.
type NoticeBlock struct {
	text  string
	style lipgloss.Style
}

// NewNoticeBlock creates a NoticeBlock.
func NewNoticeBlock(text string, style lipgloss.Style) *NoticeBlock {
	return &NoticeBlock{text: text, style: style}
}

func (b *NoticeBlock) View(width int) string {
	return b.style.Width(width).Render(b.text)
}
