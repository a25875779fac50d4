package session

import (
	"fmt"
	"strconv"
	"strings"
)

// CellRef addresses one cell of a sparse spreadsheet map.
//
// JSON object keys must be strings, so on the wire a CellRef is encoded
// as "(row,col)" text. The struct form exists only in memory; conversion
// happens exclusively at the serialization boundary below.
type CellRef struct {
	Row int
	Col int
}

func (c CellRef) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// EncodeSheet converts a cell map to its wire form. Extra carries string
// keys that did not match the "(row,col)" pattern on a previous decode;
// they are written back unchanged.
func EncodeSheet(cells map[CellRef]string, extra map[string]string) map[string]string {
	out := make(map[string]string, len(cells)+len(extra))
	for ref, v := range cells {
		out[ref.String()] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// DecodeSheet converts the wire form back to a cell map. Keys outside the
// "(int,int)" pattern are passed through as extras rather than rejected.
func DecodeSheet(raw map[string]string) (cells map[CellRef]string, extra map[string]string) {
	cells = make(map[CellRef]string, len(raw))
	for k, v := range raw {
		if ref, ok := parseCellKey(k); ok {
			cells[ref] = v
			continue
		}
		if extra == nil {
			extra = make(map[string]string)
		}
		extra[k] = v
	}
	return cells, extra
}

func parseCellKey(s string) (CellRef, bool) {
	if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") {
		return CellRef{}, false
	}
	parts := strings.Split(s[1:len(s)-1], ",")
	if len(parts) != 2 {
		return CellRef{}, false
	}
	row, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return CellRef{}, false
	}
	col, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return CellRef{}, false
	}
	return CellRef{Row: row, Col: col}, true
}
