package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/JyothikaKancharla/chatbot"
)

// File names inside the store directory.
const (
	SessionsFile = "sessions.json"
	ActiveFile   = "active.json"
	ThemeFile    = "theme.json"
)

// Interface compliance checks.
var (
	_ chatbot.Storage      = (*Store)(nil)
	_ chatbot.ThemeStorage = (*Store)(nil)
)

// Store keeps chat state in a directory of JSON files.
type Store struct {
	dir    string
	logger *slog.Logger
}

// Option configures a [Store].
type Option func(*Store)

// WithLogger sets the logger used to report unreadable entries.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore returns a Store rooted at dir. The directory is created on the
// first save.
func NewStore(dir string, opts ...Option) *Store {
	s := &Store{dir: dir, logger: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

// LoadState reads the session list and active id. Missing or unparseable
// entries load as empty; only I/O failures are returned.
func (s *Store) LoadState() (chatbot.State, error) {
	var st chatbot.State

	data, err := s.read(SessionsFile)
	if err != nil {
		return chatbot.State{}, err
	}
	if data != nil {
		sessions, err := UnmarshalSessions(data)
		if err != nil {
			s.logger.Warn("ignoring unreadable chat history", "file", s.path(SessionsFile), "error", err)
		} else {
			st.Sessions = sessions
		}
	}

	data, err = s.read(ActiveFile)
	if err != nil {
		return chatbot.State{}, err
	}
	if data != nil {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			s.logger.Warn("ignoring unreadable active session", "file", s.path(ActiveFile), "error", err)
		} else {
			st.ActiveID = id
		}
	}
	return st, nil
}

// SaveState writes the session list and active id. An empty active id
// removes the entry. Each file is replaced atomically, but the save is not
// atomic across the two: if the active entry fails, the new sessions are
// stored next to the previous active id. An id that no longer names a
// session is cleared when the Store loads it.
func (s *Store) SaveState(st chatbot.State) error {
	data, err := MarshalSessions(st.Sessions)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := writeFile(s.path(SessionsFile), data); err != nil {
		return err
	}
	if st.ActiveID == "" {
		if err := os.Remove(s.path(ActiveFile)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove active entry: %w", err)
		}
		return nil
	}
	data, err = json.Marshal(st.ActiveID)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return writeFile(s.path(ActiveFile), data)
}

// LoadTheme reads the theme name. Missing or unknown values load as "".
func (s *Store) LoadTheme() (chatbot.ThemeName, error) {
	data, err := s.read(ThemeFile)
	if err != nil || data == nil {
		return "", err
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Warn("ignoring unreadable theme", "file", s.path(ThemeFile), "error", err)
		return "", nil
	}
	name, err := chatbot.ParseThemeName(raw)
	if err != nil {
		s.logger.Warn("ignoring unknown theme", "theme", raw)
		return "", nil
	}
	return name, nil
}

// SaveTheme writes the theme name.
func (s *Store) SaveTheme(name chatbot.ThemeName) error {
	data, err := json.Marshal(string(name))
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return writeFile(s.path(ThemeFile), data)
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// read returns nil data for a missing file.
func (s *Store) read(name string) ([]byte, error) {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}
