package client

import "strings"

// Category is the gallery category bit flag used by the site
type Category int

const (
	CategoryMisc      Category = 1
	CategoryDoujinshi Category = 2
	CategoryManga     Category = 4
	CategoryArtistCG  Category = 8
	CategoryGameCG    Category = 16
	CategoryImageSet  Category = 32
	CategoryCosplay   Category = 64
	CategoryAsianPorn Category = 128
	CategoryNonH      Category = 256
	CategoryWestern   Category = 512
	CategoryUnknown   Category = 1024
)

// categoryNames maps bit flags to the names rendered on gallery pages
var categoryNames = map[Category]string{
	CategoryMisc:      "Misc",
	CategoryDoujinshi: "Doujinshi",
	CategoryManga:     "Manga",
	CategoryArtistCG:  "Artist CG",
	CategoryGameCG:    "Game CG",
	CategoryImageSet:  "Image Set",
	CategoryCosplay:   "Cosplay",
	CategoryAsianPorn: "Asian Porn",
	CategoryNonH:      "Non-H",
	CategoryWestern:   "Western",
	CategoryUnknown:   "Unknown",
}

var categoryValues = func() map[string]Category {
	m := make(map[string]Category, len(categoryNames))
	for c, name := range categoryNames {
		m[strings.ToLower(name)] = c
	}
	// Older pages render "Artist CG Sets" and "Game CG Sets"
	m["artist cg sets"] = CategoryArtistCG
	m["game cg sets"] = CategoryGameCG
	m["non-h"] = CategoryNonH
	return m
}()

// String returns the display name of the category
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Unknown"
}

// ParseCategory maps a category name from page markup to its flag.
// Unknown names map to CategoryUnknown.
func ParseCategory(s string) Category {
	if c, ok := categoryValues[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c
	}
	return CategoryUnknown
}

// TagNamespace is the fixed category a tag belongs to
type TagNamespace string

const (
	NamespaceArtist    TagNamespace = "artist"
	NamespaceCosplayer TagNamespace = "cosplayer"
	NamespaceCharacter TagNamespace = "character"
	NamespaceFemale    TagNamespace = "female"
	NamespaceGroup     TagNamespace = "group"
	NamespaceLanguage  TagNamespace = "language"
	NamespaceMale      TagNamespace = "male"
	NamespaceMixed     TagNamespace = "mixed"
	NamespaceOther     TagNamespace = "other"
	NamespaceParody    TagNamespace = "parody"
	NamespaceReclass   TagNamespace = "reclass"
	NamespaceTemp      TagNamespace = "temp"
)

var namespaces = map[string]TagNamespace{
	"artist":    NamespaceArtist,
	"cosplayer": NamespaceCosplayer,
	"character": NamespaceCharacter,
	"female":    NamespaceFemale,
	"group":     NamespaceGroup,
	"language":  NamespaceLanguage,
	"male":      NamespaceMale,
	"mixed":     NamespaceMixed,
	"other":     NamespaceOther,
	"parody":    NamespaceParody,
	"reclass":   NamespaceReclass,
	"temp":      NamespaceTemp,
}

// ParseNamespace maps the label text of a tag group to a namespace.
// ok is false when the label is not a known namespace.
func ParseNamespace(s string) (TagNamespace, bool) {
	ns, ok := namespaces[strings.ToLower(strings.TrimSpace(s))]
	return ns, ok
}
