package download

import (
	"reflect"
	"testing"
	"time"

	"github.com/slinet/ehfetch/internal/notify"
)

type recordingSurface struct {
	allowed   bool
	notified  []string // rendered summaries at post time
	cancelled []int
	resident  []string
}

func (r *recordingSurface) Allowed() bool { return r.allowed }

func (r *recordingSurface) Notify(_ int, n *notify.Notification) {
	summary, _, _ := n.Render()
	r.notified = append(r.notified, summary)
}

func (r *recordingSurface) Cancel(id int) {
	r.cancelled = append(r.cancelled, id)
}

func (r *recordingSurface) StartForeground(_ int, n *notify.Notification) {
	summary, _, _ := n.Render()
	r.resident = append(r.resident, summary)
}

// testDelay wires a NotificationDelay to a manual clock and a manual
// timer. Fired timers run only when the test calls fire().
func testDelay(surface notify.Notifier, n *notify.Notification, window time.Duration) (*NotificationDelay, func(time.Duration), func() int) {
	d := NewNotificationDelay(surface, n, 1, window)

	clock := time.Unix(1_000_000, 0)
	var pending []func()

	d.now = func() time.Time { return clock }
	d.schedule = func(_ time.Duration, fn func()) { pending = append(pending, fn) }

	advance := func(by time.Duration) { clock = clock.Add(by) }
	fire := func() int {
		fired := len(pending)
		for _, fn := range pending {
			fn()
		}
		pending = nil
		return fired
	}
	return d, advance, fire
}

func TestNotificationDelayImmediateWhenIdle(t *testing.T) {
	surface := &recordingSurface{allowed: true}
	n := notify.NewNotification("state 1")
	d, _, fire := testDelay(surface, n, time.Second)

	d.Show()

	if fired := fire(); fired != 0 {
		t.Errorf("timers scheduled = %d, want 0", fired)
	}
	if want := []string{"state 1"}; !reflect.DeepEqual(surface.notified, want) {
		t.Errorf("notified = %v, want %v", surface.notified, want)
	}
}

func TestNotificationDelayCoalescesBurst(t *testing.T) {
	surface := &recordingSurface{allowed: true}
	n := notify.NewNotification("state 0")
	d, advance, fire := testDelay(surface, n, time.Second)

	// First show is immediate and opens the cooldown window.
	d.Show()
	if len(surface.notified) != 1 {
		t.Fatalf("notified = %v, want one immediate post", surface.notified)
	}

	// Three updates inside the window collapse to one deferred post
	// carrying the last state.
	advance(100 * time.Millisecond)
	n.SetTitle("state 1")
	d.Show()
	n.SetTitle("state 2")
	d.Show()
	n.SetTitle("state 3")
	d.Show()

	if len(surface.notified) != 1 {
		t.Fatalf("notified = %v, want no post before the timer fires", surface.notified)
	}
	if fired := fire(); fired != 1 {
		t.Errorf("timers scheduled = %d, want 1", fired)
	}
	want := []string{"state 0", "state 3"}
	if !reflect.DeepEqual(surface.notified, want) {
		t.Errorf("notified = %v, want %v", surface.notified, want)
	}
}

func TestNotificationDelayLastWriteWinsAcrossKinds(t *testing.T) {
	surface := &recordingSurface{allowed: true}
	n := notify.NewNotification("busy")
	d, advance, fire := testDelay(surface, n, time.Second)

	d.Show() // immediate, opens the window
	advance(10 * time.Millisecond)
	d.Show()
	d.Cancel() // overwrites the pending show

	fire()

	if len(surface.notified) != 1 {
		t.Errorf("notified = %v, want only the immediate post", surface.notified)
	}
	if want := []int{1}; !reflect.DeepEqual(surface.cancelled, want) {
		t.Errorf("cancelled = %v, want %v", surface.cancelled, want)
	}
}

func TestNotificationDelayDeferredFireKeepsCooldown(t *testing.T) {
	surface := &recordingSurface{allowed: true}
	n := notify.NewNotification("x")
	d, advance, fire := testDelay(surface, n, time.Second)

	d.Show() // immediate at t0, lastTime = t0
	advance(500 * time.Millisecond)
	d.Show() // deferred
	if fired := fire(); fired != 1 {
		t.Fatalf("timers scheduled = %d, want 1", fired)
	}

	// A deferred fire does not reset the window. The cooldown is still
	// anchored at t0, so a request at t0+1.1s goes out immediately even
	// though the deferred post was only 0.6s ago.
	advance(600 * time.Millisecond)
	d.Show()
	if fired := fire(); fired != 0 {
		t.Errorf("timers scheduled = %d, want 0", fired)
	}
	if len(surface.notified) != 3 {
		t.Errorf("notified = %v, want three posts", surface.notified)
	}
}

func TestNotificationDelayWindowReopens(t *testing.T) {
	surface := &recordingSurface{allowed: true}
	n := notify.NewNotification("x")
	d, advance, fire := testDelay(surface, n, time.Second)

	d.Show()
	advance(1001 * time.Millisecond)
	d.Show()

	if fired := fire(); fired != 0 {
		t.Errorf("timers scheduled = %d, want 0", fired)
	}
	if len(surface.notified) != 2 {
		t.Errorf("notified = %v, want two immediate posts", surface.notified)
	}
}

func TestNotificationDelaySuppressedWhenNotAllowed(t *testing.T) {
	surface := &recordingSurface{allowed: false}
	n := notify.NewNotification("x")
	d, _, fire := testDelay(surface, n, time.Second)

	d.Show()
	if len(surface.notified) != 0 {
		t.Errorf("notified = %v, want none while posting is not allowed", surface.notified)
	}

	// A suppressed show does not open the cooldown window: a cancel right
	// after it runs immediately. Cancel itself is not gated.
	d.Cancel()
	if fired := fire(); fired != 0 {
		t.Errorf("timers scheduled = %d, want 0", fired)
	}
	if want := []int{1}; !reflect.DeepEqual(surface.cancelled, want) {
		t.Errorf("cancelled = %v, want %v", surface.cancelled, want)
	}
}
