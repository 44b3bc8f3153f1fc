package sqlite

import (
	"errors"
	"fmt"
	"time"

	"github.com/JyothikaKancharla/chatbot"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Interface compliance checks.
var (
	_ chatbot.Storage      = (*DB)(nil)
	_ chatbot.ThemeStorage = (*DB)(nil)
)

// LoadState reads the session list and active id. Rows that cannot be
// interpreted load as an empty list, matching the file-based store.
func (d *DB) LoadState() (chatbot.State, error) {
	var rows []sessionRow
	err := d.db.
		Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Order("position").
		Find(&rows).Error
	if err != nil {
		return chatbot.State{}, fmt.Errorf("load sessions: %w", err)
	}

	var st chatbot.State
	sessions, err := toSessions(rows)
	if err != nil {
		d.logger.Warn("ignoring unreadable chat history", "error", err)
	} else {
		st.Sessions = sessions
	}

	active, err := d.setting(settingActive)
	if err != nil {
		return chatbot.State{}, err
	}
	st.ActiveID = active
	return st, nil
}

// SaveState replaces the stored sessions and active id in one transaction.
func (d *DB) SaveState(st chatbot.State) error {
	rows := fromSessions(st.Sessions)
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&messageRow{}).Error; err != nil {
			return fmt.Errorf("clear messages: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&sessionRow{}).Error; err != nil {
			return fmt.Errorf("clear sessions: %w", err)
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("insert sessions: %w", err)
			}
		}
		if st.ActiveID == "" {
			if err := tx.Delete(&settingRow{Name: settingActive}).Error; err != nil {
				return fmt.Errorf("clear active session: %w", err)
			}
			return nil
		}
		return putSetting(tx, settingActive, st.ActiveID)
	})
}

// LoadTheme reads the theme name. Missing or unknown values load as "".
func (d *DB) LoadTheme() (chatbot.ThemeName, error) {
	raw, err := d.setting(settingTheme)
	if err != nil || raw == "" {
		return "", err
	}
	name, err := chatbot.ParseThemeName(raw)
	if err != nil {
		d.logger.Warn("ignoring unknown theme", "theme", raw)
		return "", nil
	}
	return name, nil
}

// SaveTheme writes the theme name.
func (d *DB) SaveTheme(name chatbot.ThemeName) error {
	return putSetting(d.db, settingTheme, string(name))
}

func (d *DB) setting(name string) (string, error) {
	var row settingRow
	err := d.db.Where("name = ?", name).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load setting %s: %w", name, err)
	}
	return row.Value, nil
}

func putSetting(db *gorm.DB, name, value string) error {
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&settingRow{Name: name, Value: value}).Error
	if err != nil {
		return fmt.Errorf("save setting %s: %w", name, err)
	}
	return nil
}

func fromSessions(sessions []chatbot.Session) []sessionRow {
	rows := make([]sessionRow, len(sessions))
	for i, s := range sessions {
		row := sessionRow{ID: s.ID, Title: s.Title, Position: i}
		for j, m := range s.Messages {
			row.Messages = append(row.Messages, messageRow{
				SessionID: s.ID,
				Seq:       j,
				Sender:    string(m.Sender),
				Text:      m.Text,
				Timestamp: m.Timestamp.UnixNano(),
			})
		}
		rows[i] = row
	}
	return rows
}

func toSessions(rows []sessionRow) ([]chatbot.Session, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	sessions := make([]chatbot.Session, len(rows))
	for i, row := range rows {
		s := chatbot.Session{ID: row.ID, Title: row.Title}
		for _, m := range row.Messages {
			sender, err := chatbot.ParseSender(m.Sender)
			if err != nil {
				return nil, fmt.Errorf("session %s message %d: %w", row.ID, m.Seq, err)
			}
			s.Messages = append(s.Messages, chatbot.Message{
				Sender:    sender,
				Text:      m.Text,
				Timestamp: time.Unix(0, m.Timestamp).UTC(),
			})
		}
		sessions[i] = s
	}
	return sessions, nil
}
