package download

import (
	"sync"
	"time"

	"github.com/slinet/ehfetch/internal/notify"
)

type opKind int

const (
	opNotify opKind = iota
	opCancel
	opStartForeground
)

// NotificationDelay coalesces rapid-fire updates for one notification id:
// at most one visible update per cooldown window, with the most recent
// requested state always the one eventually shown.
//
// The state machine per id: idle (last action at least a window ago),
// cooldown-clean (inside the window, nothing queued), cooldown-pending
// (inside the window, exactly one operation queued, last write wins).
// Only one timer is ever in flight; the pending kind is read at fire time,
// so overwrites never race a stale capture.
type NotificationDelay struct {
	surface notify.Notifier
	n       *notify.Notification
	id      int
	window  time.Duration

	// seams for tests
	now      func() time.Time
	schedule func(time.Duration, func())

	mu       sync.Mutex
	lastTime time.Time
	posted   bool
	op       opKind
}

// NewNotificationDelay creates the coalescer for one notification id
func NewNotificationDelay(surface notify.Notifier, n *notify.Notification, id int, window time.Duration) *NotificationDelay {
	return &NotificationDelay{
		surface:  surface,
		n:        n,
		id:       id,
		window:   window,
		now:      time.Now,
		schedule: func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
	}
}

// Show requests a notification update
func (d *NotificationDelay) Show() { d.request(opNotify) }

// Cancel requests removal of the notification
func (d *NotificationDelay) Cancel() { d.request(opCancel) }

// StartForeground requests the resident notification update
func (d *NotificationDelay) StartForeground() { d.request(opStartForeground) }

func (d *NotificationDelay) request(op opKind) {
	// A suppressed show must not open the cooldown window, so the gate
	// sits before any state change. Deferred fires re-check in perform.
	if op == opNotify && !d.surface.Allowed() {
		return
	}

	d.mu.Lock()
	if d.posted {
		// A timer is already in flight; the newest request wins
		d.op = op
		d.mu.Unlock()
		return
	}
	now := d.now()
	if now.Sub(d.lastTime) > d.window {
		// Waited long enough, do it now
		d.lastTime = now
		d.mu.Unlock()
		d.perform(op)
		return
	}
	// Too quick, run after the cooldown
	d.op = op
	d.posted = true
	d.mu.Unlock()
	d.schedule(d.window, d.run)
}

// run is the deferred execution path. It intentionally does not update
// lastTime; only immediate fires reset the cooldown window.
func (d *NotificationDelay) run() {
	d.mu.Lock()
	d.posted = false
	op := d.op
	d.mu.Unlock()
	d.perform(op)
}

func (d *NotificationDelay) perform(op opKind) {
	switch op {
	case opNotify:
		if !d.surface.Allowed() {
			return
		}
		d.surface.Notify(d.id, d.n)
	case opCancel:
		d.surface.Cancel(d.id)
	case opStartForeground:
		d.surface.StartForeground(d.id, d.n)
	}
}
