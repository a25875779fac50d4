package types

// TabKind identifies the concrete widget behind a workspace tab.
//
// The set is closed: persistence code switches on it exhaustively instead
// of probing tabs for optional attributes.
type TabKind string

const (
	TabBrowser   TabKind = "BROWSER"
	TabChat      TabKind = "CHAT"
	TabTerminal  TabKind = "TERMINAL"
	TabNote      TabKind = "NOTE"
	TabSheet     TabKind = "SHEET"
	TabMonitor   TabKind = "MONITOR"
	TabAIBrowser TabKind = "AI_BROWSER"
)

// Names written by the original Qt frontend before the enum was trimmed.
var tabKindAliases = map[string]TabKind{
	"NOTEPAGE":         TabNote,
	"NOTEPAGE_EXC":     TabSheet,
	"RESOURCE_MONITOR": TabMonitor,
}

// ParseTabKind maps a serialized kind name to a TabKind, accepting the
// legacy names still present in old session snapshots.
func ParseTabKind(s string) (TabKind, bool) {
	k := TabKind(s)
	if k.Valid() {
		return k, true
	}
	if alias, ok := tabKindAliases[s]; ok {
		return alias, true
	}
	return "", false
}

// Valid reports whether k belongs to the closed set of kinds.
func (k TabKind) Valid() bool {
	switch k {
	case TabBrowser, TabChat, TabTerminal, TabNote, TabSheet, TabMonitor, TabAIBrowser:
		return true
	}
	return false
}

func (k TabKind) String() string { return string(k) }
