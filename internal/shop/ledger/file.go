package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// File persists the balance map as one pretty-printed JSON object keyed by
// player UUID, in the world data directory.
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) LoadAll() (map[uuid.UUID]int64, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[uuid.UUID]int64{}, nil
		}
		return nil, err
	}
	var byStr map[string]int64
	if err := json.Unmarshal(raw, &byStr); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(f.path), err)
	}
	out := make(map[uuid.UUID]int64, len(byStr))
	for k, v := range byStr {
		id, err := uuid.Parse(k)
		if err != nil {
			return nil, fmt.Errorf("%s: bad player id %q: %w", filepath.Base(f.path), k, err)
		}
		out[id] = v
	}
	return out, nil
}

func (f *File) SaveAll(balances map[uuid.UUID]int64) error {
	byStr := make(map[string]int64, len(balances))
	for id, bal := range balances {
		byStr[id.String()] = bal
	}
	b, err := json.MarshalIndent(byStr, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	// Write-then-rename so a crash mid-save cannot truncate the ledger.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, append(b, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
