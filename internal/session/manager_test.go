package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seleniumqt/workbench/internal/logging"
	"github.com/seleniumqt/workbench/internal/shared/types"
)

// fakeTab implements every capability; the manager's kind switch decides
// which accessor is actually consulted.
type fakeTab struct {
	kind  types.TabKind
	title string
	url   string
	text  string
	cells map[CellRef]string
	msgs  []types.ChatMessage
}

func (f *fakeTab) Kind() types.TabKind             { return f.kind }
func (f *fakeTab) Title() string                   { return f.title }
func (f *fakeTab) CurrentURL() string              { return f.url }
func (f *fakeTab) Text() string                    { return f.text }
func (f *fakeTab) Cells() map[CellRef]string       { return f.cells }
func (f *fakeTab) Transcript() []types.ChatMessage { return f.msgs }

// recordingFactory captures every restore call in order.
type recordingFactory struct {
	kinds []types.TabKind
	urls  []string
	notes []string
	cells []map[CellRef]string
	chats [][]types.ChatMessage
}

func (r *recordingFactory) NewBrowserTab(url string) error {
	r.kinds = append(r.kinds, types.TabBrowser)
	r.urls = append(r.urls, url)
	return nil
}

func (r *recordingFactory) NewChatTab(messages []types.ChatMessage) error {
	r.kinds = append(r.kinds, types.TabChat)
	r.chats = append(r.chats, messages)
	return nil
}

func (r *recordingFactory) NewTerminalTab() error {
	r.kinds = append(r.kinds, types.TabTerminal)
	return nil
}

func (r *recordingFactory) NewNoteTab(text string) error {
	r.kinds = append(r.kinds, types.TabNote)
	r.notes = append(r.notes, text)
	return nil
}

func (r *recordingFactory) NewSheetTab(cells map[CellRef]string, extra map[string]string) error {
	r.kinds = append(r.kinds, types.TabSheet)
	r.cells = append(r.cells, cells)
	return nil
}

func (r *recordingFactory) NewMonitorTab() error {
	r.kinds = append(r.kinds, types.TabMonitor)
	return nil
}

func (r *recordingFactory) NewAIBrowserTab(url string) error {
	r.kinds = append(r.kinds, types.TabAIBrowser)
	r.urls = append(r.urls, url)
	return nil
}

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	root := t.TempDir()
	m, err := NewManager(root, 0, logging.NewNop())
	require.NoError(t, err)
	return m, root
}

func browserTab(url string) *fakeTab {
	return &fakeTab{kind: types.TabBrowser, title: url, url: url}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m, _ := newTestManager(t)

	cells := map[CellRef]string{
		{Row: 0, Col: 1}: "x",
		{Row: 2, Col: 3}: "y",
	}
	msgs := []types.ChatMessage{
		{Sender: "You", Message: "hello", Timestamp: "12:00"},
		{Sender: "AI", Message: "hi", Timestamp: "12:01"},
	}

	tabs := []Tab{
		browserTab("https://example.com"),
		&fakeTab{kind: types.TabChat, title: "AI Chat", msgs: msgs},
		&fakeTab{kind: types.TabNote, title: "Notes", text: "remember this"},
		&fakeTab{kind: types.TabSheet, title: "Sheet", cells: cells},
		&fakeTab{kind: types.TabTerminal, title: "Terminal"},
	}
	require.NoError(t, m.Save(tabs))

	f := &recordingFactory{}
	require.True(t, m.Load(f))

	assert.Equal(t, []types.TabKind{
		types.TabBrowser,
		types.TabChat,
		types.TabNote,
		types.TabSheet,
		types.TabTerminal,
	}, f.kinds)
	assert.Equal(t, []string{"https://example.com"}, f.urls)
	assert.Equal(t, []string{"remember this"}, f.notes)
	require.Len(t, f.cells, 1)
	assert.Equal(t, cells, f.cells[0])
	require.Len(t, f.chats, 1)
	assert.Equal(t, msgs, f.chats[0])
}

func TestLoadWithoutSnapshotIsNoOp(t *testing.T) {
	m, _ := newTestManager(t)

	f := &recordingFactory{}
	assert.False(t, m.Load(f))
	assert.Empty(t, f.kinds)
}

func TestHistoryPrependsAndGrowsUnbounded(t *testing.T) {
	m, _ := newTestManager(t)

	require.NoError(t, m.Save([]Tab{browserTab("https://a")}))
	require.NoError(t, m.Save([]Tab{browserTab("https://b")}))

	entries, err := m.History()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "https://b", entries[0].URL)
	assert.Equal(t, "https://a", entries[1].URL)

	// A third save keeps growing the log; nothing is deduplicated.
	require.NoError(t, m.Save([]Tab{browserTab("https://a")}))
	entries, err = m.History()
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.Equal(t, "https://a", entries[0].URL)
}

func TestHistoryLimit(t *testing.T) {
	root := t.TempDir()
	m, err := NewManager(root, 2, logging.NewNop())
	require.NoError(t, err)

	require.NoError(t, m.Save([]Tab{browserTab("https://a")}))
	require.NoError(t, m.Save([]Tab{browserTab("https://b")}))
	require.NoError(t, m.Save([]Tab{browserTab("https://c")}))

	entries, err := m.History()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "https://c", entries[0].URL)
	assert.Equal(t, "https://b", entries[1].URL)
}

func TestMissingNotePayloadRestoresEmptyTab(t *testing.T) {
	m, root := newTestManager(t)

	require.NoError(t, m.Save([]Tab{
		&fakeTab{kind: types.TabNote, title: "Notes", text: "gone soon"},
	}))

	notePath := filepath.Join(root, "sessions", "last_session", "notes", "note_0.txt")
	require.NoError(t, os.Remove(notePath))

	f := &recordingFactory{}
	require.True(t, m.Load(f))
	assert.Equal(t, []types.TabKind{types.TabNote}, f.kinds)
	assert.Equal(t, []string{""}, f.notes)
}

func TestCorruptRecordDoesNotAbortRestore(t *testing.T) {
	m, root := newTestManager(t)

	require.NoError(t, m.Save([]Tab{
		&fakeTab{kind: types.TabSheet, title: "Sheet", cells: map[CellRef]string{{Row: 1, Col: 1}: "v"}},
		browserTab("https://example.com"),
	}))

	sheetPath := filepath.Join(root, "sessions", "last_session", "notes", "sheet_0.json")
	require.NoError(t, os.WriteFile(sheetPath, []byte("{not json"), 0o644))

	f := &recordingFactory{}
	require.True(t, m.Load(f))

	// The sheet record failed but the browser tab still restored.
	assert.Equal(t, []types.TabKind{types.TabBrowser}, f.kinds)
}

func TestLegacyKindNamesRestore(t *testing.T) {
	m, root := newTestManager(t)
	require.NoError(t, m.Save(nil))

	records := []types.TabRecord{
		{Index: 0, Title: "old note", Kind: "NOTEPAGE"},
		{Index: 1, Title: "old monitor", Kind: "RESOURCE_MONITOR"},
	}
	data, err := json.Marshal(records)
	require.NoError(t, err)
	tabsPath := filepath.Join(root, "sessions", "last_session", "tabs.json")
	require.NoError(t, os.WriteFile(tabsPath, data, 0o644))

	f := &recordingFactory{}
	require.True(t, m.Load(f))
	assert.Equal(t, []types.TabKind{types.TabNote, types.TabMonitor}, f.kinds)
}

func TestMetadata(t *testing.T) {
	m, _ := newTestManager(t)

	require.NoError(t, m.Save([]Tab{
		browserTab("https://a"),
		browserTab("https://b"),
		&fakeTab{kind: types.TabChat, title: "Chat"},
	}))

	meta, err := m.Metadata()
	require.NoError(t, err)
	assert.Equal(t, "Last Session", meta.Name)
	assert.Equal(t, 3, meta.TabCount)
	assert.Equal(t, map[string]int{"BROWSER": 2, "CHAT": 1}, meta.TabTypes)
	assert.NotEmpty(t, meta.SnapshotID)
	assert.NotEmpty(t, meta.Timestamp)

	// Creation time survives subsequent saves; the snapshot id does not.
	created := meta.Created
	firstID := meta.SnapshotID
	require.NoError(t, m.Save([]Tab{browserTab("https://c")}))

	meta, err = m.Metadata()
	require.NoError(t, err)
	assert.Equal(t, created, meta.Created)
	assert.NotEqual(t, firstID, meta.SnapshotID)
	assert.Equal(t, 1, meta.TabCount)
}

func TestStalePayloadFilesAreNotCollected(t *testing.T) {
	m, root := newTestManager(t)

	require.NoError(t, m.Save([]Tab{
		&fakeTab{kind: types.TabNote, title: "a", text: "one"},
		&fakeTab{kind: types.TabNote, title: "b", text: "two"},
	}))
	require.NoError(t, m.Save([]Tab{
		&fakeTab{kind: types.TabNote, title: "a", text: "one"},
	}))

	// note_1.txt is orphaned by the shorter save but deliberately left
	// on disk.
	stale := filepath.Join(root, "sessions", "last_session", "notes", "note_1.txt")
	_, err := os.Stat(stale)
	assert.NoError(t, err)

	records, err := m.Records()
	require.NoError(t, err)
	require.Len(t, records, 1)
}
