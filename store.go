package chatbot

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID returns a time-ordered, collision-resistant session id.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Store owns the chat sessions and the active-session pointer. Every
// mutation is written through to Storage before the method returns.
//
// A write failure never rolls back the in-memory change: the method still
// succeeds and returns an error wrapping ErrPersistence, which callers
// surface as a warning.
//
// If loading fails the Store keeps working in memory but never writes, so
// the unreadable history is not overwritten. A successful [Store.Reload]
// re-enables saving.
//
// Store is not safe for concurrent use. The UI event loop is its single
// owner.
type Store struct {
	storage Storage
	state   State
	newID   func() string
	now     func() time.Time
	logger  *slog.Logger
	pending *Confirmation
	loadErr error
}

// StoreOption configures a [Store].
type StoreOption func(*Store)

// WithIDGenerator overrides session id generation. Default is [NewID].
func WithIDGenerator(fn func() string) StoreOption {
	return func(s *Store) { s.newID = fn }
}

// WithClock overrides the message timestamp source. Default is time.Now.
func WithClock(fn func() time.Time) StoreOption {
	return func(s *Store) { s.now = fn }
}

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// NewStore loads the persisted state. When loading fails the returned store
// is empty, usable and read-only, and the error wraps ErrPersistence.
func NewStore(storage Storage, opts ...StoreOption) (*Store, error) {
	s := &Store{
		storage: storage,
		newID:   NewID,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s, s.Reload()
}

// Reload replaces the in-memory state with the persisted one and drops any
// pending confirmation. Changes made while the store was read-only are
// lost. On failure the current state is kept and the store stays, or
// becomes, read-only.
func (s *Store) Reload() error {
	st, err := s.storage.LoadState()
	if err != nil {
		s.logger.Warn("load chat history", "error", err)
		s.loadErr = err
		return fmt.Errorf("%w: load: %w", ErrPersistence, err)
	}
	s.state = st.Normalize().Clone()
	s.pending = nil
	s.loadErr = nil
	return nil
}

// ReadOnly reports whether saving is disabled after a failed load.
func (s *Store) ReadOnly() bool { return s.loadErr != nil }

// State returns a copy of the current state.
func (s *Store) State() State { return s.state.Clone() }

// Active returns a copy of the active session.
func (s *Store) Active() (Session, bool) {
	sess, ok := s.state.Active()
	if !ok {
		return Session{}, false
	}
	return sess.Clone(), true
}

// Session returns a copy of the session with the given id.
func (s *Store) Session(id string) (Session, bool) {
	i := s.state.Find(id)
	if i < 0 {
		return Session{}, false
	}
	return s.state.Sessions[i].Clone(), true
}

// StartNewChat creates an empty session at the front of the list and makes
// it active.
func (s *Store) StartNewChat() (string, error) {
	id := s.insertNew()
	return id, s.persist()
}

// SelectSession makes id the active session. An unknown id returns
// ErrSessionNotFound and leaves the state unchanged.
func (s *Store) SelectSession(id string) error {
	if s.state.Find(id) < 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.state.ActiveID = id
	return s.persist()
}

// AppendMessage appends to the active session, creating one first when no
// session is active. The first user message of a session with an empty
// title sets the title.
func (s *Store) AppendMessage(sender Sender, text string) (Session, error) {
	if !sender.Valid() {
		return Session{}, fmt.Errorf("%w: unknown sender %q", ErrValidation, sender)
	}
	i := s.activeIndex()
	if i < 0 {
		s.insertNew()
		i = 0
	}
	s.appendAt(i, sender, text)
	return s.state.Sessions[i].Clone(), s.persist()
}

// AppendMessageTo appends to a specific session regardless of which session
// is active.
func (s *Store) AppendMessageTo(id string, sender Sender, text string) (Session, error) {
	if !sender.Valid() {
		return Session{}, fmt.Errorf("%w: unknown sender %q", ErrValidation, sender)
	}
	i := s.state.Find(id)
	if i < 0 {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.appendAt(i, sender, text)
	return s.state.Sessions[i].Clone(), s.persist()
}

// DeleteSession removes a session. Deleting the active session activates
// the new front session, or a fresh empty session when none remain.
func (s *Store) DeleteSession(id string) error {
	i := s.state.Find(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	wasActive := s.state.ActiveID == id
	s.state.Sessions = slices.Delete(s.state.Sessions, i, i+1)
	if len(s.state.Sessions) == 0 {
		s.state.Sessions = nil
	}
	if wasActive {
		if len(s.state.Sessions) > 0 {
			s.state.ActiveID = s.state.Sessions[0].ID
		} else {
			s.insertNew()
		}
	}
	return s.persist()
}

// ClearAll removes every session and clears the active pointer.
func (s *Store) ClearAll() error {
	s.state = State{}
	return s.persist()
}

// PendingReply correlates an outstanding reply with the session that
// requested it.
type PendingReply struct {
	SessionID string
	Text      string
}

// Submit records a user message on the active session and returns the
// pending reply to fetch. An empty session first receives the bot
// Greeting. The returned PendingReply is valid even when the error wraps
// ErrPersistence.
func (s *Store) Submit(text string) (PendingReply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return PendingReply{}, fmt.Errorf("%w: empty message", ErrValidation)
	}
	i := s.activeIndex()
	if i < 0 {
		s.insertNew()
		i = 0
	}
	if len(s.state.Sessions[i].Messages) == 0 {
		s.appendAt(i, SenderBot, Greeting)
	}
	s.appendAt(i, SenderUser, text)
	p := PendingReply{SessionID: s.state.Sessions[i].ID, Text: text}
	return p, s.persist()
}

// Resolve appends the outcome of a reply exchange to the session that
// requested it, whether or not that session is still active. A failed
// exchange becomes a bot message via [BotText]. If the originating session
// no longer exists the reply is discarded and ErrSessionNotFound returned.
func (s *Store) Resolve(p PendingReply, reply string, replyErr error) (Session, error) {
	i := s.state.Find(p.SessionID)
	if i < 0 {
		s.logger.Info("discarding reply for deleted session", "session", p.SessionID)
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, p.SessionID)
	}
	if replyErr != nil {
		s.logger.Warn("reply failed", "session", p.SessionID, "error", replyErr)
	}
	s.appendAt(i, SenderBot, BotText(reply, replyErr))
	return s.state.Sessions[i].Clone(), s.persist()
}

func (s *Store) insertNew() string {
	id := s.newID()
	s.state.Sessions = slices.Insert(s.state.Sessions, 0, Session{ID: id})
	s.state.ActiveID = id
	return id
}

func (s *Store) activeIndex() int {
	if s.state.ActiveID == "" {
		return -1
	}
	return s.state.Find(s.state.ActiveID)
}

func (s *Store) appendAt(i int, sender Sender, text string) {
	sess := &s.state.Sessions[i]
	if sender == SenderUser && sess.Title == "" && !sess.HasUserMessage() && strings.TrimSpace(text) != "" {
		sess.Title = DeriveTitle(text)
	}
	sess.Messages = append(sess.Messages, Message{
		Sender:    sender,
		Text:      text,
		Timestamp: s.now().UTC(),
	})
}

func (s *Store) persist() error {
	if s.loadErr != nil {
		return fmt.Errorf("%w: not saved, history failed to load: %w", ErrPersistence, s.loadErr)
	}
	if err := s.storage.SaveState(s.state.Clone()); err != nil {
		s.logger.Warn("save chat history", "error", err)
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}
