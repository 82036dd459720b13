package download

// Info is the in-memory state of one download task
type Info struct {
	Gid       int64  `json:"gid"`
	Token     string `json:"token"`
	Title     string `json:"title"`
	Label     string `json:"label,omitempty"`
	State     int    `json:"state"`
	Speed     int64  `json:"speed"`     // bytes per second, 0 when unknown
	Remaining int64  `json:"remaining"` // estimated millis left, -1 when unknown
	Total     int    `json:"total"`     // page count, -1 before the detail is parsed
	Finished  int    `json:"finished"`  // pages fetched
}

// Listener receives download lifecycle events. Callbacks run on the
// manager's worker goroutine.
type Listener interface {
	OnStart(info *Info)
	OnDownload(info *Info)
	OnGetPage(info *Info)
	OnFinish(info *Info)
	OnCancel(info *Info)
	// OnGet509 fires once when the image limit is hit; the manager has
	// already stopped the whole queue.
	OnGet509()
}
