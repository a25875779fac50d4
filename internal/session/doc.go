// Package session persists the workspace's open-tab state across restarts.
//
// Exactly one "last session" snapshot exists at any time; every save fully
// replaces the previous one. The browsing history is the one exception: it
// accumulates across sessions, newest entries first.
//
// Snapshot layout under the data root:
//
//	sessions/last_session/
//	  tabs.json            ordered array of tab records
//	  metadata.json        snapshot-wide metadata
//	  chat_logs/chats.json chat transcripts by tab index
//	  notes/note_<i>.txt   note tab payloads
//	  notes/sheet_<i>.json sheet tab payloads
//	  history/history.json append-only browsing history
//
// The manager reads live tabs through narrow capability interfaces and
// recreates them through a TabFactory; both are implemented by the GUI
// layer. Saves are deliberately not transactional and stale payload files
// are not garbage-collected: this is a single-user local tool and partial
// state is recovered from gracefully on the next load.
package session
