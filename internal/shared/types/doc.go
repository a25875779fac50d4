// Package types provides the shared data structures of the workbench backend.
//
// This package defines the wire-level records of the session snapshot and
// the closed tab-kind enumeration, so the persistence layer and the CLI
// agree on one schema.
//
// Core Types:
//   - TabKind: Closed enumeration of tab widget kinds
//   - TabRecord: One tabs.json entry, in display order
//   - ChatLog, ChatMessage: Point-in-time chat transcript capture
//   - HistoryEntry: One line of the append-only browsing history
//   - SessionMetadata: Snapshot-wide metadata (counts, timestamps)
//
// JSON tags follow the layout written by the original Qt frontend, so
// snapshots remain readable across implementations. ParseTabKind accepts
// the legacy kind names (NOTEPAGE, NOTEPAGE_EXC, RESOURCE_MONITOR) for
// the same reason.
package types
