package download

import (
	"fmt"
	"sync"
	"time"

	"github.com/slinet/ehfetch/internal/database"
	"github.com/slinet/ehfetch/internal/notify"
	"github.com/slinet/ehfetch/pkg/utils"
	"go.uber.org/zap"
)

// Notification ids used by the service
const (
	idDownloading = 1
	idDownloaded  = 2
	id509         = 3
)

// Service translates download events into coalesced desktop
// notifications and stops the daemon's busy state when the queue drains.
// It implements Listener.
type Service struct {
	mgr     *Manager
	surface notify.Notifier
	stats   *SessionStats
	logger  *zap.Logger
	window  time.Duration

	// onIdle runs after the queue fully drains and the sticky
	// notification has been cancelled
	onIdle func()

	mu               sync.Mutex
	downloadingN     *notify.Notification
	downloadedN      *notify.Notification
	n509             *notify.Notification
	downloadingDelay *NotificationDelay
	downloadedDelay  *NotificationDelay
	delay509         *NotificationDelay
}

// NewService creates the download notification service
func NewService(mgr *Manager, surface notify.Notifier, window time.Duration, onIdle func(), logger *zap.Logger) *Service {
	s := &Service{
		mgr:     mgr,
		surface: surface,
		stats:   NewSessionStats(),
		logger:  logger,
		window:  window,
		onIdle:  onIdle,
	}
	mgr.SetListener(s)
	return s
}

// Stats exposes the session counters
func (s *Service) Stats() *SessionStats {
	return s.stats
}

// Clear resets the session counters and removes the summary notification
func (s *Service) Clear() {
	s.stats.Reset()
	s.surface.Cancel(idDownloaded)
}

func (s *Service) ensureDownloading() *NotificationDelay {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.downloadingDelay == nil {
		s.downloadingN = notify.NewNotification("Downloading").SetSticky(true)
		s.downloadingDelay = NewNotificationDelay(s.surface, s.downloadingN, idDownloading, s.window)
	}
	return s.downloadingDelay
}

func (s *Service) ensureDownloaded() *NotificationDelay {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.downloadedDelay == nil {
		s.downloadedN = notify.NewNotification("Download finished")
		s.downloadedDelay = NewNotificationDelay(s.surface, s.downloadedN, idDownloaded, s.window)
	}
	return s.downloadedDelay
}

func (s *Service) ensure509() *NotificationDelay {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.delay509 == nil {
		s.n509 = notify.NewNotification("Image limit exceeded").
			SetText("The image limit has been reached; downloads are stopped. Try again later.")
		s.delay509 = NewNotificationDelay(s.surface, s.n509, id509, s.window)
	}
	return s.delay509
}

// OnStart shows the indeterminate sticky notification for a new task
func (s *Service) OnStart(info *Info) {
	delay := s.ensureDownloading()
	s.downloadingN.SetTitle(info.Title).
		SetText("").
		SetSubText("").
		SetProgress(0, 0, true)
	delay.StartForeground()
	s.checkStopSelf()
}

func (s *Service) onUpdate(info *Info) {
	delay := s.ensureDownloading()
	speed := info.Speed
	if speed < 0 {
		speed = 0
	}
	text := utils.HumanReadableBytes(speed) + "/s"
	if info.Remaining >= 0 {
		text = fmt.Sprintf("%s, %s left", text, utils.ShortDuration(time.Duration(info.Remaining)*time.Millisecond))
	}
	subText := ""
	indeterminate := info.Total <= 0 || info.Finished < 0
	if !indeterminate {
		subText = fmt.Sprintf("%d/%d", info.Finished, info.Total)
	}
	s.downloadingN.SetTitle(info.Title).
		SetText(text).
		SetSubText(subText).
		SetProgress(info.Total, info.Finished, indeterminate)
	delay.StartForeground()
	s.checkStopSelf()
}

// OnDownload updates transfer progress
func (s *Service) OnDownload(info *Info) { s.onUpdate(info) }

// OnGetPage updates page progress
func (s *Service) OnGetPage(info *Info) { s.onUpdate(info) }

// OnFinish records the terminal outcome and shows the session summary
func (s *Service) OnFinish(info *Info) {
	if d := s.downloadingDelayIfAny(); d != nil {
		d.Cancel()
	}
	delay := s.ensureDownloaded()

	s.stats.Record(info.Gid, info.Title, info.State == database.StateFinish)
	text, lines := s.stats.Summary()
	s.downloadedN.SetText(text).
		SetLines(lines).
		SetNumber(s.stats.Downloaded())
	delay.Show()
	s.checkStopSelf()
}

// OnCancel clears the sticky notification for a cancelled task
func (s *Service) OnCancel(info *Info) {
	if d := s.downloadingDelayIfAny(); d != nil {
		d.Cancel()
	}
	s.checkStopSelf()
}

// OnGet509 shows the global stop alert
func (s *Service) OnGet509() {
	delay := s.ensure509()
	delay.Show()
	s.checkStopSelf()
}

func (s *Service) downloadingDelayIfAny() *NotificationDelay {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.downloadingDelay
}

// checkStopSelf drops the daemon's busy state once the queue is idle
func (s *Service) checkStopSelf() {
	if !s.mgr.Idle() {
		return
	}
	s.surface.Cancel(idDownloading)
	if s.onIdle != nil {
		s.onIdle()
	}
}
