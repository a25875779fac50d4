// Package paths provides standardized filesystem paths for consistent access
// across the backend.
//
// All durable state lives under a per-user data root so the Qt frontend, the
// CLI, and the persistence layer agree on one directory layout. Any changes
// here must be synchronized with the frontend's session reader.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// Data root subdirectories
const (
	// Sessions contains session snapshots; exactly one "last_session"
	// snapshot exists at any time.
	Sessions = "sessions"

	// LastSession is the single snapshot replaced on every save.
	LastSession = "last_session"
)

// DefaultDataRoot returns the per-user application data root.
func DefaultDataRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".selenium_qt_browser"
	}
	return filepath.Join(home, ".selenium_qt_browser")
}

// DefaultOffloadDir returns the cache directory used to page model weights
// on low-memory machines.
func DefaultOffloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".cache", "r1-1776-offload")
	}
	return filepath.Join(home, ".cache", "r1-1776-offload")
}

// DefaultModelDir returns the directory model weights are downloaded to.
func DefaultModelDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".cache", "r1-1776")
	}
	return filepath.Join(home, ".cache", "r1-1776")
}

// SessionLayout resolves the file layout of one session snapshot directory.
type SessionLayout struct {
	Root string
}

// LastSessionLayout returns the layout of the single last-session snapshot
// under the given data root.
func LastSessionLayout(dataRoot string) SessionLayout {
	return SessionLayout{Root: filepath.Join(dataRoot, Sessions, LastSession)}
}

// TabsFile returns the path of the ordered tab record array.
func (l SessionLayout) TabsFile() string {
	return filepath.Join(l.Root, "tabs.json")
}

// MetadataFile returns the path of the snapshot metadata.
func (l SessionLayout) MetadataFile() string {
	return filepath.Join(l.Root, "metadata.json")
}

// ChatLogsDir returns the directory holding chat transcripts.
func (l SessionLayout) ChatLogsDir() string {
	return filepath.Join(l.Root, "chat_logs")
}

// ChatsFile returns the path of the chat transcript array.
func (l SessionLayout) ChatsFile() string {
	return filepath.Join(l.ChatLogsDir(), "chats.json")
}

// NotesDir returns the directory holding note and sheet payload files.
func (l SessionLayout) NotesDir() string {
	return filepath.Join(l.Root, "notes")
}

// NoteFile returns the payload path for the note tab at the given index.
func (l SessionLayout) NoteFile(index int) string {
	return filepath.Join(l.NotesDir(), NoteFileName(index))
}

// SheetFile returns the payload path for the sheet tab at the given index.
func (l SessionLayout) SheetFile(index int) string {
	return filepath.Join(l.NotesDir(), SheetFileName(index))
}

// HistoryDir returns the directory holding the browsing history.
func (l SessionLayout) HistoryDir() string {
	return filepath.Join(l.Root, "history")
}

// HistoryFile returns the path of the append-only history log.
func (l SessionLayout) HistoryFile() string {
	return filepath.Join(l.HistoryDir(), "history.json")
}

// Dirs returns every directory of the layout, for creation at startup.
func (l SessionLayout) Dirs() []string {
	return []string{
		l.Root,
		l.ChatLogsDir(),
		l.NotesDir(),
		l.HistoryDir(),
	}
}

// NoteFileName returns the deterministic payload file name for a note tab.
func NoteFileName(index int) string {
	return fmt.Sprintf("note_%d.txt", index)
}

// SheetFileName returns the deterministic payload file name for a sheet tab.
func SheetFileName(index int) string {
	return fmt.Sprintf("sheet_%d.json", index)
}
