package chatbot

import (
	"strings"

	"github.com/rivo/uniseg"
)

const (
	// TitleMaxLength is the number of characters kept when deriving a title.
	TitleMaxLength = 25
	// TitleEllipsis marks a derived title that was truncated.
	TitleEllipsis = "..."
	// PlaceholderTitle is displayed for sessions without a title.
	PlaceholderTitle = "New Chat"
)

// Session is one conversation thread.
type Session struct {
	ID       string
	Title    string
	Messages []Message
}

// DisplayTitle returns the title, or PlaceholderTitle when it is empty.
func (s Session) DisplayTitle() string {
	if s.Title == "" {
		return PlaceholderTitle
	}
	return s.Title
}

// HasUserMessage reports whether any message in the session was sent by
// the user.
func (s Session) HasUserMessage() bool {
	for _, m := range s.Messages {
		if m.Sender == SenderUser {
			return true
		}
	}
	return false
}

// Clone returns a copy of s that shares no memory with the original.
func (s Session) Clone() Session {
	c := s
	if s.Messages != nil {
		c.Messages = make([]Message, len(s.Messages))
		copy(c.Messages, s.Messages)
	}
	return c
}

// DeriveTitle returns the first TitleMaxLength characters of text, followed
// by TitleEllipsis if anything was cut. Characters are grapheme clusters, so
// combined emoji and accented letters count once.
func DeriveTitle(text string) string {
	var b strings.Builder
	n := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		n++
		if n > TitleMaxLength {
			b.WriteString(TitleEllipsis)
			return b.String()
		}
		b.WriteString(g.Str())
	}
	return b.String()
}
