package chatbot

import "fmt"

// ThemeName is the visual mode selected by the user.
type ThemeName string

const (
	ThemeLight ThemeName = "light"
	ThemeDark  ThemeName = "dark"
)

// ParseThemeName converts a persisted theme name. Unknown values are an
// error; callers fall back to ThemeLight.
func ParseThemeName(s string) (ThemeName, error) {
	switch ThemeName(s) {
	case ThemeLight, ThemeDark:
		return ThemeName(s), nil
	default:
		return "", fmt.Errorf("%w: unknown theme %q", ErrValidation, s)
	}
}

// Toggle returns the opposite mode.
func (n ThemeName) Toggle() ThemeName {
	if n == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values. A negative
// index means "terminal default".
type Theme struct {
	UserMsg int // User message accent
	BotMsg  int // Bot message label
	Error   int // Errors and failed replies
	Warning int // Persistence warnings, confirmation prompts
	Muted   int // Status bar, placeholders, timestamps
	Accent  int // Headings, links
	Active  int // Highlighted session in the sidebar
	Border  int // Sidebar separator
}

// Palette returns the color mapping for a mode.
func Palette(name ThemeName) Theme {
	if name == ThemeDark {
		return Theme{
			UserMsg: 12,
			BotMsg:  14,
			Error:   9,
			Warning: 11,
			Muted:   7,
			Accent:  13,
			Active:  10,
			Border:  8,
		}
	}
	return Theme{
		UserMsg: 4,
		BotMsg:  6,
		Error:   1,
		Warning: 3,
		Muted:   8,
		Accent:  5,
		Active:  2,
		Border:  7,
	}
}

// ThemeController owns the current mode and persists every change.
type ThemeController struct {
	storage ThemeStorage
	current ThemeName
}

// NewThemeController loads the persisted mode, defaulting to ThemeLight
// when nothing usable is stored. A load failure is returned alongside a
// working controller so callers can warn and continue.
func NewThemeController(storage ThemeStorage) (*ThemeController, error) {
	c := &ThemeController{storage: storage, current: ThemeLight}
	name, err := storage.LoadTheme()
	if err != nil {
		return c, fmt.Errorf("%w: load theme: %w", ErrPersistence, err)
	}
	if name == ThemeDark {
		c.current = ThemeDark
	}
	return c, nil
}

// Current returns the active mode.
func (c *ThemeController) Current() ThemeName { return c.current }

// Toggle flips the mode and persists it. The new mode is returned even when
// saving fails.
func (c *ThemeController) Toggle() (ThemeName, error) {
	c.current = c.current.Toggle()
	if err := c.storage.SaveTheme(c.current); err != nil {
		return c.current, fmt.Errorf("%w: save theme: %w", ErrPersistence, err)
	}
	return c.current, nil
}
