package session

import (
	"encoding/json"
	"os"

	"go.uber.org/zap"

	"github.com/seleniumqt/workbench/internal/shared/types"
)

// History reads the persisted browsing history, newest entries first.
// A missing file yields an empty history.
func (m *Manager) History() ([]types.HistoryEntry, error) {
	data, err := os.ReadFile(m.layout.HistoryFile())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: "read", Path: m.layout.HistoryFile(), Err: err}
	}
	var entries []types.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &PersistenceError{Op: "decode", Path: m.layout.HistoryFile(), Err: err}
	}
	return entries, nil
}

// prependHistory puts this save's browser URLs ahead of the accumulated
// log and rewrites the file. The log outlives individual snapshots: it is
// never replaced, only grown. No deduplication is applied; without a
// configured limit growth is unbounded.
func (m *Manager) prependHistory(entries []types.HistoryEntry) error {
	existing, err := m.History()
	if err != nil {
		// An unreadable log should not block the save; start a new one.
		m.log.Warn("existing history unreadable, overwriting", zap.Error(err))
		existing = nil
	}

	combined := append(entries, existing...)
	if m.historyLimit > 0 && len(combined) > m.historyLimit {
		combined = combined[:m.historyLimit]
	}
	if combined == nil {
		combined = []types.HistoryEntry{}
	}

	return m.writeJSON(m.layout.HistoryFile(), combined)
}
