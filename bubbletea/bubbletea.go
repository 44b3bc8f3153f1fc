// Package bubbletea provides a Bubble Tea TUI for the chat client.
//
// The model drives a [chatbot.Store]: every key that changes the
// conversation goes through the Store, and the screen is re-projected from
// its state afterwards. Reply fetching is the only asynchronous work.
package bubbletea

import (
	"context"

	"github.com/JyothikaKancharla/chatbot"
	tea "github.com/charmbracelet/bubbletea"
)

// Run creates and runs the Bubble Tea TUI program. It blocks until the program
// exits. The context is used for graceful shutdown: when cancelled, the
// program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// ReplyMsg carries the outcome of a reply exchange back to the model.
type ReplyMsg struct {
	Pending chatbot.PendingReply
	Reply   string
	Err     error
}

// ExportDoneMsg reports where an export was written.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// AttachDoneMsg lists the files picked for attachment.
type AttachDoneMsg struct {
	Names []string
	Err   error
}
