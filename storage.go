package chatbot

// Storage persists session store state. Implementations keep the session
// list and the active id as independent entries: a missing or unreadable
// entry loads as its zero value rather than failing the whole load.
type Storage interface {
	LoadState() (State, error)
	SaveState(State) error
}

// ThemeStorage persists the theme name independently of chat state.
type ThemeStorage interface {
	LoadTheme() (ThemeName, error)
	SaveTheme(ThemeName) error
}
