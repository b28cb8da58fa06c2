package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// TUIState is the bit of UI state restored on relaunch. Callers tolerate
// missing or stale values: the idea may have been deleted since.
type TUIState struct {
	Version        int    `json:"version"`
	Filter         string `json:"filter,omitempty"`
	SelectedIdeaID int64  `json:"selectedIdeaId,omitempty"`
}

// TUIStatePath places the state file next to the database. An in-memory
// database has none.
func TUIStatePath(dbPath string) string {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" || dbPath == MemoryPath {
		return ""
	}
	base := strings.TrimSuffix(filepath.Base(dbPath), filepath.Ext(dbPath))
	return filepath.Join(filepath.Dir(dbPath), base+".tui.json")
}

func LoadTUIState(path string) (TUIState, error) {
	if path == "" {
		return TUIState{Version: 1}, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return TUIState{Version: 1}, nil
		}
		return TUIState{}, err
	}
	var st TUIState
	if err := json.Unmarshal(b, &st); err != nil {
		// Corrupt state is treated as missing.
		return TUIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return st, nil
}

func SaveTUIState(path string, st TUIState) error {
	if path == "" {
		return nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return atomic.WriteFile(path, bytes.NewReader(b))
}
