package bubbletea

import (
	"strings"

	"github.com/JyothikaKancharla/chatbot"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	minSidebarWidth = 16
	maxSidebarWidth = 30
	// Below this terminal width the sidebar is hidden.
	sidebarCutoff = 50
)

func sidebarWidth(total int) int {
	if total < sidebarCutoff {
		return 0
	}
	return min(max(total/4, minSidebarWidth), maxSidebarWidth)
}

// renderSidebar draws the session list inside a box of the given size,
// scrolled so the active session stays visible.
func renderSidebar(items []chatbot.SessionItem, width, height int, styles Styles) string {
	rows := make([]string, 0, height)
	rows = append(rows, styles.Accent.Render(runewidth.Truncate("Chats", width, "")))

	visible := max(height-1, 0)
	start := 0
	for i, item := range items {
		if item.Active && i >= visible {
			start = i - visible + 1
		}
	}
	for _, item := range items[start:min(len(items), start+visible)] {
		title := runewidth.Truncate(item.Title, width-2, "…")
		if item.Active {
			rows = append(rows, styles.Active.Render("▸ "+title))
			continue
		}
		rows = append(rows, "  "+title)
	}
	if len(items) == 0 && visible > 0 {
		rows = append(rows, styles.Muted.Render(runewidth.Truncate("No chats", width, "")))
	}
	return styles.Sidebar.Width(width).Height(height).Render(strings.Join(rows, "\n"))
}

// joinColumns places the sidebar to the left of the main column.
func joinColumns(sidebar, main string) string {
	if sidebar == "" {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)
}
