package chatbot

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

const (
	// ExportPrefix starts every exported file name.
	ExportPrefix = "carebloom_chat_"

	exportTimeLayout = "1/2/2006, 3:04:05 PM"
)

// Document is an exported chat transcript.
type Document struct {
	Filename string
	Content  string
}

// Export renders the active session of st. Timestamps are shown in loc,
// or the local zone when loc is nil.
func Export(st State, loc *time.Location) (Document, error) {
	active, ok := st.Active()
	if !ok {
		return Document{}, ErrNoActiveSession
	}
	return ExportSession(active, loc)
}

// ExportSession renders one session as plain text.
func ExportSession(s Session, loc *time.Location) (Document, error) {
	if len(s.Messages) == 0 {
		return Document{}, ErrEmptySession
	}
	if loc == nil {
		loc = time.Local
	}
	title := s.Title
	if title == "" {
		title = "Untitled Chat"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- CareBloom Chat Session: %s ---\n\n", title)
	for _, m := range s.Messages {
		fmt.Fprintf(&b, "%s - %s: %s\n\n",
			m.Timestamp.In(loc).Format(exportTimeLayout),
			strings.ToUpper(string(m.Sender)),
			m.Text)
	}
	b.WriteString("--- End of Chat Session ---")

	return Document{Filename: ExportFilename(s.Title), Content: b.String()}, nil
}

// ExportFilename derives the file name for a session title. Whitespace runs
// become a single underscore and the result is lower-cased. Path separators
// and other characters not allowed in file names also become underscores.
func ExportFilename(title string) string {
	name := strings.ToLower(strings.Join(strings.Fields(title), "_"))
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || strings.ContainsRune(`/\:*?"<>|`, r) {
			return '_'
		}
		return r
	}, name)
	if name == "" {
		name = "untitled"
	}
	return ExportPrefix + name + ".txt"
}
