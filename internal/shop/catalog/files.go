package catalog

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Dir persists shops as pretty-printed JSON files in one directory, id taken
// from the filename. A malformed file is skipped with a warning; it never
// aborts loading of the others.
type Dir struct {
	path string
	log  *log.Logger
}

func NewDir(path string, logger *log.Logger) *Dir {
	return &Dir{path: path, log: logger}
}

func (d *Dir) LoadAll() ([]*Shop, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)

	var shops []*Shop
	for _, name := range files {
		p := filepath.Join(d.path, name)
		sh, err := readShopFile(p)
		if err != nil {
			d.log.Printf("WARN: shop %s: %v (skipped)", name, err)
			continue
		}
		sh.ID = strings.TrimSuffix(name, ".json")
		shops = append(shops, sh)
	}
	return shops, nil
}

func (d *Dir) Save(sh *Shop) error {
	if sh.ID == "" {
		return fmt.Errorf("empty shop id")
	}
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(sh, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(d.path, sh.ID+".json"), append(b, '\n'), 0o644)
}

func readShopFile(path string) (*Shop, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sh Shop
	if err := json.Unmarshal(raw, &sh); err != nil {
		return nil, err
	}
	for i := range sh.Entries {
		e := &sh.Entries[i]
		if e.ItemID == "" {
			return nil, fmt.Errorf("entry %d: empty item_id", i)
		}
		if e.BuyPrice < 0 || e.SellPrice < 0 {
			return nil, fmt.Errorf("entry %d (%s): negative price", i, e.ItemID)
		}
		if e.MaxStack <= 0 {
			return nil, fmt.Errorf("entry %d (%s): max_stack must be positive", i, e.ItemID)
		}
	}
	return &sh, nil
}
