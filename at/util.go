package at

import "strings"

// hasPrefixFold reports whether s begins with prefix, ignoring case. Modem
// firmware is inconsistent about the case of result codes across revisions.
func hasPrefixFold(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	return strings.EqualFold(s[:len(prefix)], prefix)
}

// trimColonPrefix drops the first n bytes of s (a known prefix length) and
// any following colon/space.
func trimColonPrefix(s string, n int) string {
	s = s[n:]
	s = strings.TrimPrefix(s, ":")
	return strings.TrimSpace(s)
}

// splitTopLevelCommas splits s on commas that are not inside a quoted
// string. The modem quotes string fields that may themselves contain
// commas (APNs, server names), so a naive strings.Split would misparse
// them.
func splitTopLevelCommas(s string) []string {
	var toks []string
	var cur strings.Builder
	inQuote := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuote = !inQuote
			cur.WriteByte(c)
		case c == ',' && !inQuote:
			toks = append(toks, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	toks = append(toks, cur.String())
	return toks
}
