package utils

import "strings"

// namespaceShort expands the site's tag namespace shortcuts to full names.
var namespaceShort = map[string]string{
	"a":      "artist",
	"c":      "character",
	"char":   "character",
	"cos":    "cosplayer",
	"f":      "female",
	"g":      "group",
	"circle": "group",
	"l":      "language",
	"lang":   "language",
	"m":      "male",
	"x":      "mixed",
	"o":      "other",
	"p":      "parody",
	"series": "parody",
	"r":      "reclass",
}

// NormalizeTag lowercases a tag, collapses whitespace and expands namespace
// shortcuts, so "F: Glasses" becomes "female:glasses".
func NormalizeTag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	tag = strings.Join(strings.Fields(tag), " ")

	if ns, rest, ok := strings.Cut(tag, ":"); ok {
		if full, found := namespaceShort[strings.TrimSpace(ns)]; found {
			return full + ":" + strings.TrimSpace(rest)
		}
	}
	return tag
}
