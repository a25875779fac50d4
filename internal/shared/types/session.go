package types

import "time"

// TabRecord is one entry of tabs.json, in display order.
//
// URL is set for BROWSER and AI_BROWSER tabs. NoteFile and SheetFile are
// paths relative to the snapshot's notes/ directory; the files they name
// are written by the same save pass.
type TabRecord struct {
	Index     int     `json:"index"`
	Title     string  `json:"title"`
	Kind      TabKind `json:"type"`
	URL       string  `json:"url,omitempty"`
	NoteFile  string  `json:"note_file,omitempty"`
	SheetFile string  `json:"sheet_file,omitempty"`
}

// ChatMessage is a single rendered message captured from a chat tab.
// Timestamp is the widget's display text, not a parsed time.
type ChatMessage struct {
	Sender    string `json:"sender"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// ChatLog groups the transcript of one chat tab by its display index.
type ChatLog struct {
	TabIndex int           `json:"tab_index"`
	Messages []ChatMessage `json:"messages"`
}

// HistoryEntry is one line of the append-only browsing history.
type HistoryEntry struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionMetadata describes the last-session snapshot as a whole.
type SessionMetadata struct {
	Name       string         `json:"name"`
	Created    time.Time      `json:"created"`
	Updated    time.Time      `json:"updated"`
	Timestamp  string         `json:"timestamp"`
	SnapshotID string         `json:"snapshot_id,omitempty"`
	TabCount   int            `json:"tab_count"`
	TabTypes   map[string]int `json:"tab_types"`
}
