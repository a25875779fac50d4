package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seleniumqt/workbench/internal/logging"
	"github.com/seleniumqt/workbench/internal/shared/paths"
	"github.com/seleniumqt/workbench/internal/shared/types"
)

// Tab is the read surface a live tab exposes at save time. The GUI layer
// owns the tab objects; the manager only reads them.
type Tab interface {
	Kind() types.TabKind
	Title() string
}

// URLTab is implemented by browser and AI-browser tabs.
type URLTab interface {
	CurrentURL() string
}

// NoteTab is implemented by note tabs.
type NoteTab interface {
	Text() string
}

// SheetTab is implemented by spreadsheet tabs.
type SheetTab interface {
	Cells() map[CellRef]string
}

// ChatTab is implemented by chat tabs. Transcript is a point-in-time
// capture of the visible messages, not an incremental log.
type ChatTab interface {
	Transcript() []types.ChatMessage
}

// TabFactory creates tabs during restore. Implementations live in the GUI
// layer; each call corresponds to one saved record.
type TabFactory interface {
	NewBrowserTab(url string) error
	NewChatTab(messages []types.ChatMessage) error
	NewTerminalTab() error
	NewNoteTab(text string) error
	NewSheetTab(cells map[CellRef]string, extra map[string]string) error
	NewMonitorTab() error
	NewAIBrowserTab(url string) error
}

// PersistenceError describes a failed read or write of a session file.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("session %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ErrPayloadMissing marks a referenced payload file that no longer exists.
// The affected tab is restored empty instead of aborting the restore.
var ErrPayloadMissing = errors.New("session payload missing")

// Manager owns the on-disk last-session snapshot. It is invoked from UI
// lifecycle hooks (save on close, load on startup) and never concurrently
// with itself, so it carries no locking.
type Manager struct {
	layout       paths.SessionLayout
	historyLimit int
	log          *logging.Logger
}

// NewManager creates a session manager rooted at dataRoot and ensures the
// snapshot directory tree exists. historyLimit of zero keeps the history
// unbounded.
func NewManager(dataRoot string, historyLimit int, log *logging.Logger) (*Manager, error) {
	m := &Manager{
		layout:       paths.LastSessionLayout(dataRoot),
		historyLimit: historyLimit,
		log:          log,
	}
	for _, dir := range m.layout.Dirs() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &PersistenceError{Op: "mkdir", Path: dir, Err: err}
		}
	}
	return m, nil
}

// Save captures the given tabs, in display order, into the last-session
// snapshot, replacing the previous one. Payload files left behind by a
// previous session with more tabs are not garbage-collected.
//
// The writes are not transactional; a crash mid-save can leave tabs.json
// and the payload files inconsistent. Only a failure to write tabs.json
// itself is surfaced, everything else is logged and swallowed so the
// application can keep shutting down.
func (m *Manager) Save(tabs []Tab) error {
	now := time.Now()
	records := make([]types.TabRecord, 0, len(tabs))
	chatLogs := make([]types.ChatLog, 0)
	var visited []types.HistoryEntry

	for i, tab := range tabs {
		rec := types.TabRecord{Index: i, Title: tab.Title(), Kind: tab.Kind()}

		switch tab.Kind() {
		case types.TabBrowser:
			if b, ok := tab.(URLTab); ok {
				rec.URL = b.CurrentURL()
				visited = append(visited, types.HistoryEntry{
					URL:       rec.URL,
					Title:     rec.Title,
					Timestamp: now,
				})
			}
		case types.TabAIBrowser:
			if b, ok := tab.(URLTab); ok {
				rec.URL = b.CurrentURL()
			}
		case types.TabNote:
			if n, ok := tab.(NoteTab); ok {
				path := m.layout.NoteFile(i)
				if err := m.writeFile(path, []byte(n.Text())); err != nil {
					m.log.Error("failed to write note payload", zap.Error(err))
				} else {
					rec.NoteFile = paths.NoteFileName(i)
				}
			}
		case types.TabSheet:
			if s, ok := tab.(SheetTab); ok {
				path := m.layout.SheetFile(i)
				if err := m.writeJSON(path, EncodeSheet(s.Cells(), nil)); err != nil {
					m.log.Error("failed to write sheet payload", zap.Error(err))
				} else {
					rec.SheetFile = paths.SheetFileName(i)
				}
			}
		case types.TabChat:
			if c, ok := tab.(ChatTab); ok {
				chatLogs = append(chatLogs, types.ChatLog{TabIndex: i, Messages: c.Transcript()})
			}
		}

		records = append(records, rec)
	}

	if err := m.writeJSON(m.layout.TabsFile(), records); err != nil {
		return err
	}

	if err := m.writeJSON(m.layout.ChatsFile(), chatLogs); err != nil {
		m.log.Error("failed to write chat logs", zap.Error(err))
	}
	if err := m.prependHistory(visited); err != nil {
		m.log.Error("failed to update history", zap.Error(err))
	}
	if err := m.updateMetadata(records, now); err != nil {
		m.log.Error("failed to update metadata", zap.Error(err))
	}

	return nil
}

// Load restores the last session through the factory. It returns false
// when no snapshot exists or its index is unreadable; the caller then
// starts with default tabs. A single record failing to restore is logged
// and skipped, the remaining records still restore.
func (m *Manager) Load(factory TabFactory) bool {
	data, err := os.ReadFile(m.layout.TabsFile())
	if err != nil {
		if !os.IsNotExist(err) {
			m.log.Error("failed to read saved tabs", zap.Error(err))
		}
		return false
	}

	var records []types.TabRecord
	if err := json.Unmarshal(data, &records); err != nil {
		m.log.Error("saved tabs are corrupt, starting fresh", zap.Error(err))
		return false
	}

	chats := m.loadChatLogs()

	for _, rec := range records {
		if err := m.restoreTab(factory, rec, chats); err != nil {
			m.log.Error("failed to restore tab",
				zap.Int("index", rec.Index),
				zap.String("kind", rec.Kind.String()),
				zap.Error(err))
		}
	}

	return true
}

// Metadata reads the snapshot metadata.
func (m *Manager) Metadata() (*types.SessionMetadata, error) {
	data, err := os.ReadFile(m.layout.MetadataFile())
	if err != nil {
		return nil, &PersistenceError{Op: "read", Path: m.layout.MetadataFile(), Err: err}
	}
	var meta types.SessionMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, &PersistenceError{Op: "decode", Path: m.layout.MetadataFile(), Err: err}
	}
	return &meta, nil
}

// Records reads the saved tab records in display order.
func (m *Manager) Records() ([]types.TabRecord, error) {
	data, err := os.ReadFile(m.layout.TabsFile())
	if err != nil {
		return nil, &PersistenceError{Op: "read", Path: m.layout.TabsFile(), Err: err}
	}
	var records []types.TabRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &PersistenceError{Op: "decode", Path: m.layout.TabsFile(), Err: err}
	}
	return records, nil
}

func (m *Manager) restoreTab(f TabFactory, rec types.TabRecord, chats map[int][]types.ChatMessage) error {
	kind, ok := types.ParseTabKind(string(rec.Kind))
	if !ok {
		return fmt.Errorf("unknown tab kind %q", rec.Kind)
	}

	switch kind {
	case types.TabBrowser:
		return f.NewBrowserTab(rec.URL)
	case types.TabChat:
		return f.NewChatTab(chats[rec.Index])
	case types.TabTerminal:
		return f.NewTerminalTab()
	case types.TabMonitor:
		return f.NewMonitorTab()
	case types.TabAIBrowser:
		return f.NewAIBrowserTab(rec.URL)
	case types.TabNote:
		var text string
		if rec.NoteFile != "" {
			data, err := m.readPayload(rec.NoteFile)
			if err != nil {
				m.log.Warn("note payload unavailable, restoring empty tab",
					zap.Int("index", rec.Index), zap.Error(err))
			} else {
				text = string(data)
			}
		}
		return f.NewNoteTab(text)
	case types.TabSheet:
		cells := map[CellRef]string{}
		var extra map[string]string
		if rec.SheetFile != "" {
			data, err := m.readPayload(rec.SheetFile)
			if err != nil {
				m.log.Warn("sheet payload unavailable, restoring empty tab",
					zap.Int("index", rec.Index), zap.Error(err))
			} else {
				var raw map[string]string
				if err := json.Unmarshal(data, &raw); err != nil {
					return &PersistenceError{Op: "decode", Path: rec.SheetFile, Err: err}
				}
				cells, extra = DecodeSheet(raw)
			}
		}
		return f.NewSheetTab(cells, extra)
	}
	return nil
}

// readPayload reads a per-tab payload file from the notes directory.
// A missing file is reported as ErrPayloadMissing so callers can fall
// back to an empty tab.
func (m *Manager) readPayload(name string) ([]byte, error) {
	path := filepath.Join(m.layout.NotesDir(), name)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrPayloadMissing, path)
	}
	if err != nil {
		return nil, &PersistenceError{Op: "read", Path: path, Err: err}
	}
	return data, nil
}

func (m *Manager) loadChatLogs() map[int][]types.ChatMessage {
	data, err := os.ReadFile(m.layout.ChatsFile())
	if err != nil {
		if !os.IsNotExist(err) {
			m.log.Error("failed to read chat logs", zap.Error(err))
		}
		return nil
	}
	var logs []types.ChatLog
	if err := json.Unmarshal(data, &logs); err != nil {
		m.log.Error("chat logs are corrupt, skipping transcripts", zap.Error(err))
		return nil
	}
	chats := make(map[int][]types.ChatMessage, len(logs))
	for _, l := range logs {
		chats[l.TabIndex] = l.Messages
	}
	return chats
}

func (m *Manager) updateMetadata(records []types.TabRecord, now time.Time) error {
	meta := types.SessionMetadata{Name: "Last Session", Created: now}
	if data, err := os.ReadFile(m.layout.MetadataFile()); err == nil {
		var existing types.SessionMetadata
		if err := json.Unmarshal(data, &existing); err == nil {
			meta = existing
		}
	}

	meta.Updated = now
	meta.Timestamp = now.Format("20060102_150405")
	meta.SnapshotID = uuid.NewString()
	meta.TabCount = len(records)
	meta.TabTypes = make(map[string]int)
	for _, r := range records {
		meta.TabTypes[string(r.Kind)]++
	}

	return m.writeJSON(m.layout.MetadataFile(), meta)
}

func (m *Manager) writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &PersistenceError{Op: "encode", Path: path, Err: err}
	}
	return m.writeFile(path, data)
}

func (m *Manager) writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &PersistenceError{Op: "write", Path: path, Err: err}
	}
	return nil
}
