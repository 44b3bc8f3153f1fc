package chatbot

// SessionItem is one entry of the session list.
type SessionItem struct {
	ID     string
	Title  string
	Active bool
}

// View is what the UI draws for a given state.
type View struct {
	Messages []Message // active session, oldest first
	Sessions []SessionItem
}

// Project computes the View for st. It has no side effects.
func Project(st State) View {
	var v View
	if active, ok := st.Active(); ok {
		v.Messages = append(v.Messages, active.Messages...)
	}
	for _, s := range st.Sessions {
		v.Sessions = append(v.Sessions, SessionItem{
			ID:     s.ID,
			Title:  s.DisplayTitle(),
			Active: s.ID == st.ActiveID,
		})
	}
	return v
}
