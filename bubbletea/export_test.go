package bubbletea

import "github.com/JyothikaKancharla/chatbot"

// RenderContent exports renderContent for testing.
func RenderContent(m Model) string {
	return m.renderContent()
}

// Status returns the current status line text.
func Status(m Model) string {
	return m.status
}

// PendingConfirmation returns the confirmation awaiting y/n, if any.
func PendingConfirmation(m Model) (chatbot.Confirmation, bool) {
	if m.confirm == nil {
		return chatbot.Confirmation{}, false
	}
	return *m.confirm, true
}

// SidebarWidth exports sidebarWidth for testing.
func SidebarWidth(total int) int {
	return sidebarWidth(total)
}
