package utils

import (
	"strconv"
	"strings"
)

// ParseIntDef parses s as a base-10 integer, returning def when s is not a
// clean number. Thousands separators are tolerated ("1,234" -> 1234).
func ParseIntDef(s string, def int) int {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// ParseInt64Def is ParseIntDef for 64-bit values.
func ParseInt64Def(s string, def int64) int64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return def
	}
	return n
}

// ParseFloat32Def parses s as a float, returning def on failure.
func ParseFloat32Def(s string, def float32) float32 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		return def
	}
	return float32(f)
}

// LeadingInt extracts the integer before the first space of s,
// returning def when there is no space or the prefix is not a number.
// Used for values like "123 pages" or "57 times".
func LeadingInt(s string, def int) int {
	s = strings.TrimSpace(s)
	idx := strings.IndexByte(s, ' ')
	if idx < 0 {
		return def
	}
	return ParseIntDef(s[:idx], def)
}
