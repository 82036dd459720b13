package database

import (
	"time"
)

// Download states, persisted as small ints
const (
	StateNone = iota
	StateWait
	StateDownload
	StateFinish
	StateFailed
)

// Download is a persisted download record
type Download struct {
	Gid      int64     `json:"gid"`
	Token    string    `json:"token"`
	Title    string    `json:"title"`
	Label    string    `json:"label,omitempty"`
	State    int       `json:"state"`
	Pages    int       `json:"pages"`
	Finished int       `json:"finished"`
	Tags     []string  `json:"tags"`
	Added    time.Time `json:"added"`
	Updated  time.Time `json:"updated"`
}

// LocalFavorite is a locally stored favorite gallery
type LocalFavorite struct {
	Gid   int64     `json:"gid"`
	Token string    `json:"token"`
	Title string    `json:"title"`
	Added time.Time `json:"added"`
}

// FilterRule hides comments by commenter name or body content
type FilterRule struct {
	ID      int    `json:"id"`
	Kind    string `json:"kind"` // "commenter" or "comment"
	Pattern string `json:"pattern"`
	IsRegex bool   `json:"is_regex"`
}
