// Package store implements snapshot persistence: a JSON-plus-Markdown file
// store and a SQLite title archive used to seed deduplication across runs.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jonesrussell/newsbrief/internal/domain"
	"github.com/jonesrussell/newsbrief/internal/snapshot"
)

const (
	recordsExt  = ".json"
	documentExt = ".md"
	dirPerm     = 0o755
	filePerm    = 0o644
)

// FileStore persists one JSON snapshot and one Markdown digest per date
// under a single directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the store directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	return &FileStore{dir: dir}, nil
}

// Dir returns the store directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// LoadExisting reads the persisted articles for a date. A date with no
// snapshot yet returns an empty slice.
func (s *FileStore) LoadExisting(_ context.Context, date string) ([]domain.Article, error) {
	data, err := os.ReadFile(s.recordsPath(date))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", date, err)
	}

	var articles []domain.Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", date, err)
	}

	return articles, nil
}

// SaveRecords writes the structured snapshot for a date atomically and
// returns the written path.
func (s *FileStore) SaveRecords(_ context.Context, articles []domain.Article, date string) (string, error) {
	if articles == nil {
		articles = []domain.Article{}
	}

	data, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot %s: %w", date, err)
	}

	path := s.recordsPath(date)
	if err := s.writeAtomic(path, append(data, '\n')); err != nil {
		return "", fmt.Errorf("write snapshot %s: %w", date, err)
	}

	return path, nil
}

// SaveDocument writes the rendered digest for a date atomically and
// returns the written path.
func (s *FileStore) SaveDocument(_ context.Context, text, date string) (string, error) {
	path := s.documentPath(date)
	if err := s.writeAtomic(path, []byte(text)); err != nil {
		return "", fmt.Errorf("write document %s: %w", date, err)
	}

	return path, nil
}

// Dates lists every date with a structured snapshot, ascending.
func (s *FileStore) Dates() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list store dir: %w", err)
	}

	var dates []string

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, recordsExt) {
			continue
		}

		date := strings.TrimSuffix(name, recordsExt)
		if snapshot.ValidDate(date) {
			dates = append(dates, date)
		}
	}

	sort.Strings(dates)

	return dates, nil
}

// Persistence adapts the store to the snapshot engine's injected
// collaborator contract.
func (s *FileStore) Persistence() snapshot.Persistence[domain.Article] {
	return snapshot.Persistence[domain.Article]{
		LoadExisting: s.LoadExisting,
		SaveRecords:  s.SaveRecords,
		SaveDocument: s.SaveDocument,
		Render:       RenderDigest,
	}
}

func (s *FileStore) recordsPath(date string) string {
	return filepath.Join(s.dir, date+recordsExt)
}

func (s *FileStore) documentPath(date string) string {
	return filepath.Join(s.dir, date+documentExt)
}

// writeAtomic writes via a temp file and rename so readers never observe a
// partial snapshot.
func (s *FileStore) writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return err
	}

	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Chmod(tmpName, filePerm); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, path)
}
