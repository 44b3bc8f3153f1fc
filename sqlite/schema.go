package sqlite

import "time"

type sessionRow struct {
	ID       string       `gorm:"primaryKey"`
	Title    string       `gorm:"not null"`
	Position int          `gorm:"not null;index"`
	Messages []messageRow `gorm:"foreignKey:SessionID"`
}

func (sessionRow) TableName() string { return "sessions" }

type messageRow struct {
	ID        uint   `gorm:"primaryKey"`
	SessionID string `gorm:"not null;index"`
	Seq       int    `gorm:"not null"`
	Sender    string `gorm:"size:8;not null"`
	Text      string `gorm:"not null"`
	Timestamp int64  `gorm:"not null"` // Unix nanoseconds, UTC
}

func (messageRow) TableName() string { return "messages" }

// settingRow holds single-valued entries such as the active session id and
// the theme.
type settingRow struct {
	Name  string `gorm:"primaryKey"`
	Value string `gorm:"not null"`
}

func (settingRow) TableName() string { return "settings" }

const (
	settingActive = "active_session"
	settingTheme  = "theme"
)

type chatRow struct {
	ID          uint      `gorm:"primaryKey"`
	UserMessage string    `gorm:"not null"`
	BotReply    string    `gorm:"not null"`
	Timestamp   time.Time `gorm:"not null"`
}

func (chatRow) TableName() string { return "chats" }
