package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/JyothikaKancharla/chatbot"
	chatjson "github.com/JyothikaKancharla/chatbot/json"
	"github.com/JyothikaKancharla/chatbot/sqlite"
)

const databaseName = "chatbot.db"

// storage bundles the session and theme backends selected by Config.Store.
type storage struct {
	sessions chatbot.Storage
	themes   chatbot.ThemeStorage
	close    func() error
}

func openStorage(cfg Config, logger *slog.Logger) (storage, error) {
	switch cfg.Store {
	case "json":
		s := chatjson.NewStore(cfg.DataDir, chatjson.WithLogger(logger))
		return storage{sessions: s, themes: s, close: func() error { return nil }}, nil
	case "sqlite":
		db, err := openDatabase(cfg, logger)
		if err != nil {
			return storage{}, err
		}
		return storage{sessions: db, themes: db, close: db.Close}, nil
	default:
		return storage{}, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// openDatabase opens the SQLite database in the data directory. The reply
// server keeps its chat log there whichever session store is selected.
func openDatabase(cfg Config, logger *slog.Logger) (*sqlite.DB, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return sqlite.Open(filepath.Join(cfg.DataDir, databaseName), sqlite.WithLogger(logger))
}
