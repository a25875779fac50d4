package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionLayout(t *testing.T) {
	l := LastSessionLayout("/data")

	assert.Equal(t, filepath.Join("/data", "sessions", "last_session"), l.Root)
	assert.Equal(t, filepath.Join(l.Root, "tabs.json"), l.TabsFile())
	assert.Equal(t, filepath.Join(l.Root, "metadata.json"), l.MetadataFile())
	assert.Equal(t, filepath.Join(l.Root, "chat_logs", "chats.json"), l.ChatsFile())
	assert.Equal(t, filepath.Join(l.Root, "notes", "note_2.txt"), l.NoteFile(2))
	assert.Equal(t, filepath.Join(l.Root, "notes", "sheet_4.json"), l.SheetFile(4))
	assert.Equal(t, filepath.Join(l.Root, "history", "history.json"), l.HistoryFile())
	assert.Len(t, l.Dirs(), 4)
}

func TestFileNames(t *testing.T) {
	assert.Equal(t, "note_0.txt", NoteFileName(0))
	assert.Equal(t, "sheet_12.json", SheetFileName(12))
}
