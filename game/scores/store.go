package scores

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Record is one completed-level score emitted by the game service.
type Record struct {
	Player      string    `json:"player"`
	LevelID     string    `json:"level_id"`
	Moves       int       `json:"moves"`
	Stars       int       `json:"stars"`
	ElapsedMs   int64     `json:"elapsed_ms"`
	CompletedAt time.Time `json:"completed_at"`
}

// Store defines the leaderboard boundary. Gameplay never depends on a
// Submit succeeding; callers degrade gracefully on error.
type Store interface {
	Submit(record Record) error
	TopForLevel(levelID string, limit int) ([]Record, error)
}

// FileStore implements Store using one JSON file per level
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates a file-backed score store rooted at dir
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create scores directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Submit appends a record to the level's score file, keeping it sorted by
// moves, then elapsed time.
func (fs *FileStore) Submit(record Record) error {
	if record.LevelID == "" {
		return fmt.Errorf("record level_id cannot be empty")
	}
	if record.Player == "" {
		record.Player = "anonymous"
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	records, err := fs.readLevel(record.LevelID)
	if err != nil {
		return err
	}

	records = append(records, record)
	sort.Slice(records, func(i, j int) bool {
		if records[i].Moves != records[j].Moves {
			return records[i].Moves < records[j].Moves
		}
		return records[i].ElapsedMs < records[j].ElapsedMs
	})

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scores: %w", err)
	}
	if err := os.WriteFile(fs.filePath(record.LevelID), data, 0644); err != nil {
		return fmt.Errorf("failed to write score file: %w", err)
	}
	return nil
}

// TopForLevel returns up to limit best records for a level
func (fs *FileStore) TopForLevel(levelID string, limit int) ([]Record, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	records, err := fs.readLevel(levelID)
	if err != nil {
		return nil, err
	}
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records, nil
}

func (fs *FileStore) readLevel(levelID string) ([]Record, error) {
	data, err := os.ReadFile(fs.filePath(levelID))
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("failed to read score file: %w", err)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse score file: %w", err)
	}
	return records, nil
}

func (fs *FileStore) filePath(levelID string) string {
	return filepath.Join(fs.dir, sanitizeID(levelID)+".json")
}

// sanitizeID keeps level identifiers filesystem-safe
func sanitizeID(id string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(id) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
