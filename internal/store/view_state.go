package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const viewStateFileName = "view_state.json"

// Position is a remembered navigation position (no day).
type Position struct {
	Calendar string `json:"calendar"`
	Month    int    `json:"month"`
	Year     int    `json:"year"`
}

// ViewState restores the last displayed month per picker cursor on relaunch.
//
// It is best effort: missing or corrupt files load as an empty state.
type ViewState struct {
	Version int `json:"version"`

	// Positions is keyed by cursor: single|start|end.
	Positions map[string]Position `json:"positions,omitempty"`
}

// Position returns the remembered position for cursor in calendar cal.
func (v *ViewState) Position(cursor, cal string) (Position, bool) {
	if v == nil {
		return Position{}, false
	}
	p, ok := v.Positions[cursor]
	if !ok || p.Calendar != cal || p.Month < 1 || p.Month > 12 || p.Year == 0 {
		return Position{}, false
	}
	return p, true
}

// Remember records p for cursor.
func (v *ViewState) Remember(cursor string, p Position) {
	if v.Positions == nil {
		v.Positions = map[string]Position{}
	}
	v.Positions[cursor] = p
}

func (s Store) viewStatePath() string {
	return filepath.Join(s.Dir, viewStateFileName)
}

func (s Store) LoadViewState() (*ViewState, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return &ViewState{Version: 1}, nil
	}
	b, err := os.ReadFile(s.viewStatePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &ViewState{Version: 1}, nil
		}
		return nil, err
	}
	var st ViewState
	if err := json.Unmarshal(b, &st); err != nil {
		// Corrupt state is treated as missing.
		return &ViewState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func (s Store) SaveViewState(st *ViewState) error {
	if st == nil {
		return nil
	}
	if strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(s.Dir, viewStateFileName+".*.tmp", s.viewStatePath(), b, 0o644)
}
