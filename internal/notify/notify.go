// Package notify is the daemon's notification surface: the desktop
// analog of the mobile app's status-bar notifications.
package notify

import (
	"fmt"
	"strings"
	"sync"
)

// Notification is a mutable notification payload. The download service
// keeps one per notification id and rewrites its fields between posts.
type Notification struct {
	mu sync.Mutex

	title         string
	text          string
	subText       string
	lines         []string // expanded multi-line style, replaces text when set
	number        int
	progressMax   int
	progressCur   int
	indeterminate bool
	hasProgress   bool
	sticky        bool // resident notification, the foreground marker
}

// NewNotification creates a notification with a fixed title
func NewNotification(title string) *Notification {
	return &Notification{title: title}
}

func (n *Notification) SetTitle(title string) *Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.title = title
	return n
}

func (n *Notification) SetText(text string) *Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.text = text
	return n
}

func (n *Notification) SetSubText(subText string) *Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subText = subText
	return n
}

// SetLines switches the notification to the expanded multi-line style;
// nil switches back to plain text.
func (n *Notification) SetLines(lines []string) *Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lines = lines
	return n
}

func (n *Notification) SetNumber(number int) *Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.number = number
	return n
}

func (n *Notification) SetProgress(max, cur int, indeterminate bool) *Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.hasProgress = true
	n.progressMax = max
	n.progressCur = cur
	n.indeterminate = indeterminate
	return n
}

func (n *Notification) ClearProgress() *Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.hasProgress = false
	return n
}

func (n *Notification) SetSticky(sticky bool) *Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sticky = sticky
	return n
}

// Render snapshots the notification into a summary and body for posting
func (n *Notification) Render() (summary, body string, sticky bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	summary = n.title
	if n.number > 1 {
		summary = fmt.Sprintf("%s (%d)", n.title, n.number)
	}

	var parts []string
	if len(n.lines) > 0 {
		parts = append(parts, strings.Join(n.lines, "\n"))
	} else if n.text != "" {
		parts = append(parts, n.text)
	}
	if n.subText != "" {
		parts = append(parts, n.subText)
	}
	if n.hasProgress && !n.indeterminate && n.progressMax > 0 {
		parts = append(parts, fmt.Sprintf("%d%%", n.progressCur*100/n.progressMax))
	}
	return summary, strings.Join(parts, "\n"), n.sticky
}

// Notifier posts and cancels desktop notifications. StartForeground posts
// the resident variant that marks the daemon as busy.
type Notifier interface {
	// Allowed reports whether posting is currently possible. A show
	// request silently no-ops when it is not.
	Allowed() bool
	Notify(id int, n *Notification)
	Cancel(id int)
	StartForeground(id int, n *Notification)
}

// Noop is a Notifier that drops everything. Used when the session bus is
// unavailable or notifications are disabled.
type Noop struct{}

func (Noop) Allowed() bool                      { return false }
func (Noop) Notify(int, *Notification)          {}
func (Noop) Cancel(int)                         {}
func (Noop) StartForeground(int, *Notification) {}
