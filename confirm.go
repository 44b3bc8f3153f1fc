package chatbot

import (
	"fmt"

	"github.com/google/uuid"
)

// ConfirmAction is a destructive operation awaiting confirmation.
type ConfirmAction int

const (
	ConfirmDelete ConfirmAction = iota + 1
	ConfirmClear
)

// Confirmation is a pending destructive action. Nothing changes until the
// token is passed to [Store.Confirm].
type Confirmation struct {
	Token     string
	Action    ConfirmAction
	SessionID string // set for ConfirmDelete
}

// RequestDelete registers a pending deletion of session id. A newer request
// replaces any earlier pending confirmation.
func (s *Store) RequestDelete(id string) (Confirmation, error) {
	if s.state.Find(id) < 0 {
		return Confirmation{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	c := Confirmation{Token: uuid.NewString(), Action: ConfirmDelete, SessionID: id}
	s.pending = &c
	return c, nil
}

// RequestClear registers a pending clear of all history.
func (s *Store) RequestClear() Confirmation {
	c := Confirmation{Token: uuid.NewString(), Action: ConfirmClear}
	s.pending = &c
	return c
}

// Pending returns the outstanding confirmation, if any.
func (s *Store) Pending() (Confirmation, bool) {
	if s.pending == nil {
		return Confirmation{}, false
	}
	return *s.pending, true
}

// Confirm commits the pending action identified by token.
func (s *Store) Confirm(token string) error {
	c, err := s.take(token)
	if err != nil {
		return err
	}
	switch c.Action {
	case ConfirmDelete:
		return s.DeleteSession(c.SessionID)
	case ConfirmClear:
		return s.ClearAll()
	default:
		return fmt.Errorf("%w: unknown action %d", ErrValidation, c.Action)
	}
}

// Cancel discards the pending action identified by token and reports
// ErrDeclined. State is untouched.
func (s *Store) Cancel(token string) error {
	if _, err := s.take(token); err != nil {
		return err
	}
	return ErrDeclined
}

func (s *Store) take(token string) (Confirmation, error) {
	if s.pending == nil || s.pending.Token != token {
		return Confirmation{}, ErrConfirmationNotFound
	}
	c := *s.pending
	s.pending = nil
	return c, nil
}
