// Package roster parses raw allowlist uploads into candidate player
// names. The format is deliberately lenient: exports from spreadsheet
// tools arrive with stray columns, half-quoted cells and a header row,
// and all of that must still produce a usable name list.
package roster

import "strings"

const headerToken = "username"

// ParseNames extracts one candidate name per non-blank line of raw.
//
// Each line is read as a single lenient CSV cell: a bare token keeps
// only its first comma-delimited field, a double-quoted field unescapes
// "" and may run to end of line without a closing quote. Header lines
// equal to "username" (case-insensitive) are discarded, names are
// trimmed, blanks dropped, and exact duplicates collapsed while
// preserving first-seen order.
func ParseNames(raw string) []string {
	lines := strings.Split(raw, "\n")

	names := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}

		name := strings.TrimSpace(parseCell(line))
		if name == "" {
			continue
		}
		if strings.EqualFold(name, headerToken) {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// parseCell reads the first CSV cell of a line. Unterminated quoted
// fields take the remainder of the line; anything after a closing quote
// or the first comma of a bare token is ignored.
func parseCell(line string) string {
	if !strings.HasPrefix(line, `"`) {
		if idx := strings.IndexByte(line, ','); idx >= 0 {
			return line[:idx]
		}
		return line
	}

	var cell strings.Builder
	rest := line[1:]
	for i := 0; i < len(rest); i++ {
		if rest[i] != '"' {
			cell.WriteByte(rest[i])
			continue
		}
		if i+1 < len(rest) && rest[i+1] == '"' {
			cell.WriteByte('"')
			i++
			continue
		}
		// Closing quote: the rest of the line is trailing junk.
		return cell.String()
	}
	// No closing quote; take what we have.
	return cell.String()
}
