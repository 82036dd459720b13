package notify

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/slinet/ehfetch/internal/config"
	"go.uber.org/zap"
)

const (
	notifyService   = "org.freedesktop.Notifications"
	notifyPath      = "/org/freedesktop/Notifications"
	notifyMethod    = "org.freedesktop.Notifications.Notify"
	closeMethod     = "org.freedesktop.Notifications.CloseNotification"
	noExpireTimeout = int32(0)
	defaultTimeout  = int32(-1)
)

// DBusNotifier posts desktop notifications over the session bus
type DBusNotifier struct {
	conn    *dbus.Conn
	obj     dbus.BusObject
	appName string
	enabled bool
	logger  *zap.Logger

	mu  sync.Mutex
	ids map[int]uint32 // our notification id -> server-assigned id
}

// NewDBus connects to the session bus. The returned notifier reports
// Allowed()==false when notifications are disabled by config.
func NewDBus(cfg *config.NotifyConfig, logger *zap.Logger) (*DBusNotifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	return &DBusNotifier{
		conn:    conn,
		obj:     conn.Object(notifyService, notifyPath),
		appName: cfg.AppName,
		enabled: cfg.Enabled,
		logger:  logger,
		ids:     make(map[int]uint32),
	}, nil
}

// Allowed reports whether posting notifications is permitted
func (d *DBusNotifier) Allowed() bool {
	return d.enabled && d.conn != nil && d.conn.Connected()
}

// Notify posts or replaces the notification with our id
func (d *DBusNotifier) Notify(id int, n *Notification) {
	d.post(id, n, false)
}

// StartForeground posts the resident variant: it does not expire and
// carries the resident hint so the desktop keeps it visible
func (d *DBusNotifier) StartForeground(id int, n *Notification) {
	d.post(id, n, true)
}

func (d *DBusNotifier) post(id int, n *Notification, resident bool) {
	summary, body, sticky := n.Render()
	resident = resident || sticky

	d.mu.Lock()
	replaces := d.ids[id]
	d.mu.Unlock()

	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(byte(1)), // normal
	}
	if resident {
		hints["resident"] = dbus.MakeVariant(true)
	}
	timeout := defaultTimeout
	if resident {
		timeout = noExpireTimeout
	}

	call := d.obj.Call(notifyMethod, 0,
		d.appName, replaces, "", summary, body, []string{}, hints, timeout)
	if call.Err != nil {
		d.logger.Warn("failed to post notification", zap.Int("id", id), zap.Error(call.Err))
		return
	}

	var serverID uint32
	if err := call.Store(&serverID); err != nil {
		d.logger.Warn("failed to read notification id", zap.Int("id", id), zap.Error(err))
		return
	}

	d.mu.Lock()
	d.ids[id] = serverID
	d.mu.Unlock()
}

// Cancel closes the notification with our id, if one is showing
func (d *DBusNotifier) Cancel(id int) {
	d.mu.Lock()
	serverID, ok := d.ids[id]
	if ok {
		delete(d.ids, id)
	}
	d.mu.Unlock()
	if !ok {
		return
	}
	if call := d.obj.Call(closeMethod, 0, serverID); call.Err != nil {
		d.logger.Warn("failed to close notification", zap.Int("id", id), zap.Error(call.Err))
	}
}
