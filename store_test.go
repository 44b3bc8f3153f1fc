package chatbot_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/JyothikaKancharla/chatbot"
	"github.com/JyothikaKancharla/chatbot/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2026, 2, 18, 12, 0, 0, 0, time.UTC)

// memStorage returns a storage double backed by a single variable, and a
// pointer to that variable for inspecting what was last saved.
func memStorage(initial chatbot.State) (*mock.Storage, *chatbot.State) {
	saved := initial.Clone()
	return &mock.Storage{
		LoadStateFn: func() (chatbot.State, error) { return saved.Clone(), nil },
		SaveStateFn: func(st chatbot.State) error {
			saved = st
			return nil
		},
	}, &saved
}

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("s%d", n)
	}
}

func newStore(t *testing.T, initial chatbot.State) (*chatbot.Store, *chatbot.State) {
	t.Helper()
	storage, saved := memStorage(initial)
	s, err := chatbot.NewStore(storage,
		chatbot.WithIDGenerator(seqIDs()),
		chatbot.WithClock(func() time.Time { return testTime }),
	)
	require.NoError(t, err)
	return s, saved
}

func TestNewStore(t *testing.T) {
	t.Parallel()

	t.Run("empty storage yields empty store", func(t *testing.T) {
		t.Parallel()
		s, _ := newStore(t, chatbot.State{})
		st := s.State()
		assert.Empty(t, st.Sessions)
		assert.Empty(t, st.ActiveID)
	})

	t.Run("load failure yields usable read-only store and warning", func(t *testing.T) {
		t.Parallel()
		readErr := errors.New("transient read error")
		saves := 0
		storage := &mock.Storage{
			LoadStateFn: func() (chatbot.State, error) { return chatbot.State{}, readErr },
			SaveStateFn: func(chatbot.State) error {
				saves++
				return nil
			},
		}
		s, err := chatbot.NewStore(storage)
		assert.ErrorIs(t, err, chatbot.ErrPersistence)
		require.NotNil(t, s)
		assert.True(t, s.ReadOnly())

		id, err := s.StartNewChat()
		assert.ErrorIs(t, err, chatbot.ErrPersistence)
		assert.ErrorIs(t, err, readErr)
		assert.Equal(t, id, s.State().ActiveID, "the change is kept in memory")

		_, err = s.Submit("fever")
		assert.ErrorIs(t, err, chatbot.ErrPersistence)
		c := s.RequestClear()
		assert.ErrorIs(t, s.Confirm(c.Token), chatbot.ErrPersistence)
		assert.Zero(t, saves, "unreadable history must not be overwritten")
	})

	t.Run("stale active id is cleared", func(t *testing.T) {
		t.Parallel()
		s, _ := newStore(t, chatbot.State{
			Sessions: []chatbot.Session{{ID: "a"}},
			ActiveID: "gone",
		})
		assert.Empty(t, s.State().ActiveID)
	})

	t.Run("default ids are unique", func(t *testing.T) {
		t.Parallel()
		storage, _ := memStorage(chatbot.State{})
		s, err := chatbot.NewStore(storage)
		require.NoError(t, err)
		a, err := s.StartNewChat()
		require.NoError(t, err)
		b, err := s.StartNewChat()
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})
}

func TestStore_StartNewChat(t *testing.T) {
	t.Parallel()
	s, saved := newStore(t, chatbot.State{})

	first, err := s.StartNewChat()
	require.NoError(t, err)
	second, err := s.StartNewChat()
	require.NoError(t, err)

	st := s.State()
	require.Len(t, st.Sessions, 2)
	assert.Equal(t, second, st.Sessions[0].ID)
	assert.Equal(t, first, st.Sessions[1].ID)
	assert.Equal(t, second, st.ActiveID)
	assert.Empty(t, st.Sessions[0].Title)
	assert.Empty(t, st.Sessions[0].Messages)
	assert.Equal(t, st, *saved)
}

func TestStore_SelectSession(t *testing.T) {
	t.Parallel()

	t.Run("selects existing session", func(t *testing.T) {
		t.Parallel()
		s, saved := newStore(t, chatbot.State{})
		first, _ := s.StartNewChat()
		_, _ = s.StartNewChat()

		require.NoError(t, s.SelectSession(first))
		assert.Equal(t, first, s.State().ActiveID)
		assert.Equal(t, s.State(), *saved)
	})

	t.Run("unknown id is not found and changes nothing", func(t *testing.T) {
		t.Parallel()
		s, _ := newStore(t, chatbot.State{})
		id, _ := s.StartNewChat()
		before := s.State()

		err := s.SelectSession("missing")
		assert.ErrorIs(t, err, chatbot.ErrSessionNotFound)
		assert.Equal(t, before, s.State())
		assert.Equal(t, id, s.State().ActiveID)
	})
}

func TestStore_AppendMessage(t *testing.T) {
	t.Parallel()

	t.Run("auto-creates a session when none is active", func(t *testing.T) {
		t.Parallel()
		s, saved := newStore(t, chatbot.State{})
		sess, err := s.AppendMessage(chatbot.SenderUser, "hi")
		require.NoError(t, err)

		st := s.State()
		require.Len(t, st.Sessions, 1)
		assert.Equal(t, sess.ID, st.ActiveID)
		require.Len(t, sess.Messages, 1)
		assert.Equal(t, chatbot.Message{Sender: chatbot.SenderUser, Text: "hi", Timestamp: testTime}, sess.Messages[0])
		assert.Equal(t, st, *saved)
	})

	t.Run("title is derived once from the first user message", func(t *testing.T) {
		t.Parallel()
		s, _ := newStore(t, chatbot.State{})
		_, _ = s.StartNewChat()

		sess, err := s.AppendMessage(chatbot.SenderBot, "Welcome")
		require.NoError(t, err)
		assert.Empty(t, sess.Title)

		sess, err = s.AppendMessage(chatbot.SenderUser, "Headache")
		require.NoError(t, err)
		assert.Equal(t, "Headache", sess.Title)

		sess, err = s.AppendMessage(chatbot.SenderUser, "Also a fever")
		require.NoError(t, err)
		assert.Equal(t, "Headache", sess.Title)

		sess, err = s.AppendMessage(chatbot.SenderBot, "Rest and fluids")
		require.NoError(t, err)
		assert.Equal(t, "Headache", sess.Title)
	})

	t.Run("long first message is truncated", func(t *testing.T) {
		t.Parallel()
		s, _ := newStore(t, chatbot.State{})
		text := strings.Repeat("a", 30)
		sess, err := s.AppendMessage(chatbot.SenderUser, text)
		require.NoError(t, err)
		assert.Len(t, sess.Title, 28)
		assert.Equal(t, strings.Repeat("a", 25)+"...", sess.Title)
	})

	t.Run("unknown sender is rejected", func(t *testing.T) {
		t.Parallel()
		s, _ := newStore(t, chatbot.State{})
		_, err := s.AppendMessage(chatbot.Sender("system"), "x")
		assert.ErrorIs(t, err, chatbot.ErrValidation)
		assert.Empty(t, s.State().Sessions)
	})

	t.Run("returned session does not alias store state", func(t *testing.T) {
		t.Parallel()
		s, _ := newStore(t, chatbot.State{})
		sess, err := s.AppendMessage(chatbot.SenderUser, "original")
		require.NoError(t, err)
		sess.Messages[0].Text = "mutated"

		active, ok := s.Active()
		require.True(t, ok)
		assert.Equal(t, "original", active.Messages[0].Text)
	})
}

func TestStore_AppendMessageTo(t *testing.T) {
	t.Parallel()
	s, _ := newStore(t, chatbot.State{})
	first, _ := s.StartNewChat()
	second, _ := s.StartNewChat()

	_, err := s.AppendMessageTo(first, chatbot.SenderUser, "background")
	require.NoError(t, err)
	assert.Equal(t, second, s.State().ActiveID)

	got, ok := s.Session(first)
	require.True(t, ok)
	assert.Equal(t, "background", got.Title)

	_, err = s.AppendMessageTo("missing", chatbot.SenderUser, "x")
	assert.ErrorIs(t, err, chatbot.ErrSessionNotFound)
}

func TestStore_DeleteSession(t *testing.T) {
	t.Parallel()

	t.Run("deleting active of three activates new front", func(t *testing.T) {
		t.Parallel()
		s, saved := newStore(t, chatbot.State{})
		_, _ = s.StartNewChat()
		second, _ := s.StartNewChat()
		third, _ := s.StartNewChat()

		require.NoError(t, s.DeleteSession(third))
		st := s.State()
		assert.Len(t, st.Sessions, 2)
		assert.Equal(t, second, st.ActiveID)
		assert.Equal(t, st, *saved)
	})

	t.Run("deleting a non-front active session activates front", func(t *testing.T) {
		t.Parallel()
		s, _ := newStore(t, chatbot.State{})
		first, _ := s.StartNewChat()
		_, _ = s.StartNewChat()
		third, _ := s.StartNewChat()
		require.NoError(t, s.SelectSession(first))

		require.NoError(t, s.DeleteSession(first))
		assert.Equal(t, third, s.State().ActiveID)
	})

	t.Run("deleting the only session leaves one fresh session", func(t *testing.T) {
		t.Parallel()
		s, saved := newStore(t, chatbot.State{})
		only, _ := s.AppendMessage(chatbot.SenderUser, "hello")

		require.NoError(t, s.DeleteSession(only.ID))
		st := s.State()
		require.Len(t, st.Sessions, 1)
		assert.NotEqual(t, only.ID, st.Sessions[0].ID)
		assert.Equal(t, st.Sessions[0].ID, st.ActiveID)
		assert.Empty(t, st.Sessions[0].Messages)
		assert.Empty(t, st.Sessions[0].Title)
		assert.Equal(t, st, *saved)
	})

	t.Run("deleting a non-active session keeps the active one", func(t *testing.T) {
		t.Parallel()
		s, _ := newStore(t, chatbot.State{})
		first, _ := s.StartNewChat()
		second, _ := s.StartNewChat()

		require.NoError(t, s.DeleteSession(first))
		st := s.State()
		require.Len(t, st.Sessions, 1)
		assert.Equal(t, second, st.ActiveID)
		assert.Equal(t, second, st.Sessions[0].ID)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		t.Parallel()
		s, _ := newStore(t, chatbot.State{})
		_, _ = s.StartNewChat()
		assert.ErrorIs(t, s.DeleteSession("missing"), chatbot.ErrSessionNotFound)
		assert.Len(t, s.State().Sessions, 1)
	})
}

func TestStore_ClearAll(t *testing.T) {
	t.Parallel()
	s, saved := newStore(t, chatbot.State{})
	_, _ = s.StartNewChat()
	_, _ = s.StartNewChat()

	require.NoError(t, s.ClearAll())
	assert.Empty(t, s.State().Sessions)
	assert.Empty(t, s.State().ActiveID)
	assert.Equal(t, s.State(), *saved)

	sess, err := s.AppendMessage(chatbot.SenderUser, "after clear")
	require.NoError(t, err)
	st := s.State()
	require.Len(t, st.Sessions, 1)
	assert.Equal(t, sess.ID, st.ActiveID)
}

func TestStore_PersistenceFailure(t *testing.T) {
	t.Parallel()
	diskErr := errors.New("quota exceeded")
	storage := &mock.Storage{
		LoadStateFn: func() (chatbot.State, error) { return chatbot.State{}, nil },
		SaveStateFn: func(chatbot.State) error { return diskErr },
	}
	s, err := chatbot.NewStore(storage)
	require.NoError(t, err)

	id, err := s.StartNewChat()
	assert.ErrorIs(t, err, chatbot.ErrPersistence)
	assert.ErrorIs(t, err, diskErr)
	assert.Equal(t, id, s.State().ActiveID)

	_, err = s.AppendMessage(chatbot.SenderUser, "kept in memory")
	assert.ErrorIs(t, err, chatbot.ErrPersistence)
	active, ok := s.Active()
	require.True(t, ok)
	assert.Len(t, active.Messages, 1)
}

func TestStore_Reload(t *testing.T) {
	t.Parallel()

	stored := chatbot.State{
		Sessions: []chatbot.Session{{ID: "a", Title: "Fever", Messages: []chatbot.Message{
			{Sender: chatbot.SenderUser, Text: "Fever", Timestamp: testTime},
		}}},
		ActiveID: "a",
	}
	failing := true
	var saved []chatbot.State
	storage := &mock.Storage{
		LoadStateFn: func() (chatbot.State, error) {
			if failing {
				return chatbot.State{}, errors.New("locked")
			}
			return stored.Clone(), nil
		},
		SaveStateFn: func(st chatbot.State) error {
			saved = append(saved, st)
			return nil
		},
	}
	s, err := chatbot.NewStore(storage, chatbot.WithIDGenerator(seqIDs()))
	require.ErrorIs(t, err, chatbot.ErrPersistence)
	_, err = s.StartNewChat()
	require.ErrorIs(t, err, chatbot.ErrPersistence)

	assert.ErrorIs(t, s.Reload(), chatbot.ErrPersistence)
	assert.True(t, s.ReadOnly())

	failing = false
	require.NoError(t, s.Reload())
	assert.False(t, s.ReadOnly())
	assert.Equal(t, stored, s.State(), "in-memory changes are replaced by the stored history")

	id, err := s.StartNewChat()
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, id, saved[0].ActiveID)
	assert.Len(t, saved[0].Sessions, 2)
}

func TestStore_SubmitAndResolve(t *testing.T) {
	t.Parallel()

	t.Run("new chat hello scenario", func(t *testing.T) {
		t.Parallel()
		s, saved := newStore(t, chatbot.State{})
		_, err := s.StartNewChat()
		require.NoError(t, err)

		p, err := s.Submit("Hello")
		require.NoError(t, err)

		st := s.State()
		require.Len(t, st.Sessions, 1)
		active, _ := s.Active()
		require.Len(t, active.Messages, 2)
		assert.Equal(t, chatbot.SenderBot, active.Messages[0].Sender)
		assert.Equal(t, chatbot.Greeting, active.Messages[0].Text)
		assert.Equal(t, chatbot.SenderUser, active.Messages[1].Sender)
		assert.Equal(t, "Hello", active.Messages[1].Text)
		assert.Equal(t, "Hello", active.Title)
		assert.Equal(t, active.ID, p.SessionID)

		sess, err := s.Resolve(p, "Hi! How can I help?", nil)
		require.NoError(t, err)
		require.Len(t, sess.Messages, 3)
		assert.Equal(t, "Hi! How can I help?", sess.Messages[2].Text)
		assert.Equal(t, "Hello", sess.Title)
		assert.Equal(t, s.State(), *saved)
	})

	t.Run("greeting only precedes the first message", func(t *testing.T) {
		t.Parallel()
		s, _ := newStore(t, chatbot.State{})
		p, err := s.Submit("one")
		require.NoError(t, err)
		_, _ = s.Resolve(p, "reply", nil)
		_, err = s.Submit("two")
		require.NoError(t, err)

		active, _ := s.Active()
		var greetings int
		for _, m := range active.Messages {
			if m.Text == chatbot.Greeting {
				greetings++
			}
		}
		assert.Equal(t, 1, greetings)
		assert.Len(t, active.Messages, 4)
	})

	t.Run("empty input is rejected", func(t *testing.T) {
		t.Parallel()
		s, _ := newStore(t, chatbot.State{})
		_, err := s.Submit("   ")
		assert.ErrorIs(t, err, chatbot.ErrValidation)
		assert.Empty(t, s.State().Sessions)
	})

	t.Run("transport failure adds one connectivity notice", func(t *testing.T) {
		t.Parallel()
		s, _ := newStore(t, chatbot.State{})
		p, err := s.Submit("Hello")
		require.NoError(t, err)
		before, _ := s.Active()

		sess, err := s.Resolve(p, "", &chatbot.ReplyError{Kind: chatbot.ReplyTransport, Err: errors.New("dial tcp: refused")})
		require.NoError(t, err)
		require.Len(t, sess.Messages, len(before.Messages)+1)
		last := sess.Messages[len(sess.Messages)-1]
		assert.Equal(t, chatbot.SenderBot, last.Sender)
		assert.Equal(t, chatbot.ConnectivityNotice, last.Text)
	})

	t.Run("reply for a deleted session is discarded", func(t *testing.T) {
		t.Parallel()
		s, _ := newStore(t, chatbot.State{})
		p, err := s.Submit("Hello")
		require.NoError(t, err)
		require.NoError(t, s.DeleteSession(p.SessionID))
		before := s.State()

		_, err = s.Resolve(p, "late reply", nil)
		assert.ErrorIs(t, err, chatbot.ErrSessionNotFound)
		assert.Equal(t, before, s.State())
	})

	t.Run("reply lands on its originating session after a switch", func(t *testing.T) {
		t.Parallel()
		s, _ := newStore(t, chatbot.State{})
		p, err := s.Submit("first topic")
		require.NoError(t, err)
		other, _ := s.StartNewChat()

		_, err = s.Resolve(p, "answer", nil)
		require.NoError(t, err)

		assert.Equal(t, other, s.State().ActiveID)
		active, _ := s.Active()
		assert.Empty(t, active.Messages)
		origin, ok := s.Session(p.SessionID)
		require.True(t, ok)
		assert.Equal(t, "answer", origin.Messages[len(origin.Messages)-1].Text)
	})
}
