package bubbletea

import (
	"context"

	"github.com/JyothikaKancharla/chatbot"
	"github.com/JyothikaKancharla/chatbot/fs"
	tea "github.com/charmbracelet/bubbletea"
)

// fetchReply performs one reply exchange off the update loop.
func fetchReply(ctx context.Context, replier chatbot.Replier, p chatbot.PendingReply) tea.Cmd {
	return func() tea.Msg {
		reply, err := replier.Reply(ctx, p.Text)
		return ReplyMsg{Pending: p, Reply: reply, Err: err}
	}
}

func writeExport(dir string, doc chatbot.Document) tea.Cmd {
	return func() tea.Msg {
		path, err := fs.WriteDocument(dir, doc)
		return ExportDoneMsg{Path: path, Err: err}
	}
}

func attachFiles(dir string, patterns []string) tea.Cmd {
	return func() tea.Msg {
		names, err := fs.SelectFiles(dir, patterns)
		return AttachDoneMsg{Names: names, Err: err}
	}
}
