package chatbot

// State is the complete session store contents: sessions ordered
// most-recent-first and the id of the active session ("" when none).
type State struct {
	Sessions []Session
	ActiveID string
}

// Clone returns a deep copy of st.
func (st State) Clone() State {
	c := State{ActiveID: st.ActiveID}
	if st.Sessions != nil {
		c.Sessions = make([]Session, len(st.Sessions))
		for i, s := range st.Sessions {
			c.Sessions[i] = s.Clone()
		}
	}
	return c
}

// Find returns the index of the session with the given id, or -1.
func (st State) Find(id string) int {
	for i, s := range st.Sessions {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Active returns the active session, if any.
func (st State) Active() (Session, bool) {
	if st.ActiveID == "" {
		return Session{}, false
	}
	i := st.Find(st.ActiveID)
	if i < 0 {
		return Session{}, false
	}
	return st.Sessions[i], true
}

// Normalize repairs a loaded state so ActiveID references an existing
// session or is empty.
func (st State) Normalize() State {
	if st.ActiveID != "" && st.Find(st.ActiveID) < 0 {
		st.ActiveID = ""
	}
	return st
}
