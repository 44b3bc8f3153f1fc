// Package json persists chat state as JSON files in a directory.
//
// Each logical entry (session list, active session id, theme) is a separate
// file, so a corrupt or missing entry does not affect the others.
package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/JyothikaKancharla/chatbot"
)

// sessionDTO is the JSON representation of a Session.
type sessionDTO struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Messages []messageDTO `json:"messages"`
}

// messageDTO is the JSON representation of a Message. Timestamps are
// RFC 3339 strings.
type messageDTO struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// MarshalSessions serializes an ordered session list.
func MarshalSessions(sessions []chatbot.Session) ([]byte, error) {
	dtos := make([]sessionDTO, len(sessions))
	for i, s := range sessions {
		dto := sessionDTO{
			ID:       s.ID,
			Title:    s.Title,
			Messages: make([]messageDTO, len(s.Messages)),
		}
		for j, m := range s.Messages {
			dto.Messages[j] = messageDTO{
				Sender:    string(m.Sender),
				Text:      m.Text,
				Timestamp: m.Timestamp,
			}
		}
		dtos[i] = dto
	}
	return json.MarshalIndent(dtos, "", "  ")
}

// UnmarshalSessions deserializes a session list. Empty lists decode as nil.
func UnmarshalSessions(data []byte) ([]chatbot.Session, error) {
	var dtos []sessionDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("unmarshal sessions: %w", err)
	}
	if len(dtos) == 0 {
		return nil, nil
	}
	sessions := make([]chatbot.Session, len(dtos))
	for i, dto := range dtos {
		if dto.ID == "" {
			return nil, fmt.Errorf("session %d: missing id", i)
		}
		s := chatbot.Session{ID: dto.ID, Title: dto.Title}
		if len(dto.Messages) > 0 {
			s.Messages = make([]chatbot.Message, len(dto.Messages))
		}
		for j, m := range dto.Messages {
			sender, err := chatbot.ParseSender(m.Sender)
			if err != nil {
				return nil, fmt.Errorf("session %d message %d: %w", i, j, err)
			}
			s.Messages[j] = chatbot.Message{
				Sender:    sender,
				Text:      m.Text,
				Timestamp: m.Timestamp.UTC(),
			}
		}
		sessions[i] = s
	}
	return sessions, nil
}

// writeFile atomically replaces path with data, creating parent
// directories as needed.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
