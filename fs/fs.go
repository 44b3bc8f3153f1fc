// Package fs reads and writes the local files the chat client touches
// outside its own storage: attachment candidates and exported sessions.
package fs

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/JyothikaKancharla/chatbot"
	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPatterns selects the regular files directly inside a directory.
var DefaultPatterns = []string{"*"}

// SelectFiles returns the files under dir that match any of the doublestar
// patterns and have an accepted attachment type. Paths are relative to dir,
// sorted and without duplicates. No patterns means DefaultPatterns.
func SelectFiles(dir string, patterns []string) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: invalid glob pattern %q", chatbot.ErrValidation, p)
		}
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("attachments: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", chatbot.ErrValidation, dir)
	}

	fsys := os.DirFS(dir)
	var matches []string
	for _, p := range patterns {
		err := doublestar.GlobWalk(fsys, p, func(path string, d iofs.DirEntry) error {
			if d.IsDir() || !chatbot.AcceptedFile(path) {
				return nil
			}
			matches = append(matches, filepath.FromSlash(path))
			return nil
		})
		if err != nil && !errors.Is(err, iofs.ErrNotExist) {
			return nil, fmt.Errorf("attachments: %w", err)
		}
	}
	slices.Sort(matches)
	return slices.Compact(matches), nil
}

// WriteDocument writes doc into dir, creating dir when needed, and returns
// the written path. An existing file with the same name is replaced. Only
// the last element of doc.Filename is used, so the file always lands in dir.
func WriteDocument(dir string, doc chatbot.Document) (string, error) {
	if dir == "" {
		dir = "."
	}
	name := filepath.Base(doc.Filename)
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return "", fmt.Errorf("export: invalid file name %q: %w", doc.Filename, chatbot.ErrValidation)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	path := filepath.Join(dir, name)
	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	if _, err := tmp.WriteString(doc.Content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("export: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("export: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("export: %w", err)
	}
	return path, nil
}
