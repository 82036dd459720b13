package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/slinet/ehfetch/internal/client"
	"github.com/slinet/ehfetch/internal/client/parser"
	"github.com/slinet/ehfetch/internal/config"
	"github.com/slinet/ehfetch/internal/database"
	"go.uber.org/zap"
)

var patternPageImage = regexp.MustCompile(`<img id="img" src="([^"]+)"`)

// Manager owns the download queue. One worker goroutine processes tasks
// sequentially; all queue mutations go through the mutex, and listener
// callbacks are delivered from the worker only.
type Manager struct {
	client *client.Client
	cfg    *config.Config
	store  *database.DownloadStore
	env    parser.Env
	logger *zap.Logger

	mu       sync.Mutex
	queue    []*Info
	current  *Info
	cancel   context.CancelFunc // cancels the current task
	listener Listener
	wake     chan struct{}
}

// NewManager creates a download manager
func NewManager(c *client.Client, cfg *config.Config, store *database.DownloadStore, env parser.Env, logger *zap.Logger) *Manager {
	return &Manager{
		client: c,
		cfg:    cfg,
		store:  store,
		env:    env,
		logger: logger,
		wake:   make(chan struct{}, 1),
	}
}

// SetListener installs the event listener. Pass nil to detach.
func (m *Manager) SetListener(l Listener) {
	m.mu.Lock()
	m.listener = l
	m.mu.Unlock()
}

// Idle reports whether the manager has no running and no queued task
func (m *Manager) Idle() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current == nil && len(m.queue) == 0
}

// Snapshot returns the running task and queue for status reporting
func (m *Manager) Snapshot() (current *Info, queued []Info) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		c := *m.current
		current = &c
	}
	for _, info := range m.queue {
		queued = append(queued, *info)
	}
	return current, queued
}

// Start enqueues a gallery for download. A gallery already queued or
// running is left alone.
func (m *Manager) Start(ctx context.Context, gid int64, token, title, label string) error {
	m.mu.Lock()
	if m.current != nil && m.current.Gid == gid {
		m.mu.Unlock()
		return nil
	}
	for _, info := range m.queue {
		if info.Gid == gid {
			m.mu.Unlock()
			return nil
		}
	}
	info := &Info{Gid: gid, Token: token, Title: title, Label: label, State: database.StateWait, Total: -1, Remaining: -1}
	m.queue = append(m.queue, info)
	m.mu.Unlock()

	if err := m.store.Upsert(ctx, &database.Download{
		Gid: gid, Token: token, Title: title, Label: label, State: database.StateWait,
	}); err != nil {
		m.logger.Warn("failed to persist queued download", zap.Int64("gid", gid), zap.Error(err))
	}
	m.kick()
	return nil
}

// StartRange enqueues previously recorded galleries by gid
func (m *Manager) StartRange(ctx context.Context, gids []int64) error {
	for _, gid := range gids {
		d, err := m.store.Get(ctx, gid)
		if err != nil {
			return err
		}
		if d == nil {
			m.logger.Warn("unknown gid in range start", zap.Int64("gid", gid))
			continue
		}
		if err := m.Start(ctx, d.Gid, d.Token, d.Title, d.Label); err != nil {
			return err
		}
	}
	return nil
}

// StartAll re-enqueues every recorded download that is not finished
func (m *Manager) StartAll(ctx context.Context) error {
	list, err := m.store.List(ctx)
	if err != nil {
		return err
	}
	for _, d := range list {
		if d.State == database.StateFinish {
			continue
		}
		if err := m.Start(ctx, d.Gid, d.Token, d.Title, d.Label); err != nil {
			return err
		}
	}
	return nil
}

// Stop removes a gallery from the queue or cancels it if running
func (m *Manager) Stop(ctx context.Context, gid int64) {
	m.mu.Lock()
	for i, info := range m.queue {
		if info.Gid == gid {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			info.State = database.StateNone
			listener := m.listener
			m.mu.Unlock()
			_ = m.store.UpdateState(ctx, gid, database.StateNone, 0, 0)
			if listener != nil {
				listener.OnCancel(info)
			}
			return
		}
	}
	if m.current != nil && m.current.Gid == gid && m.cancel != nil {
		m.cancel()
	}
	m.mu.Unlock()
}

// StopRange stops each of the given gids
func (m *Manager) StopRange(ctx context.Context, gids []int64) {
	for _, gid := range gids {
		m.Stop(ctx, gid)
	}
}

// StopCurrent cancels the running task, if any
func (m *Manager) StopCurrent() {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
	}
	m.mu.Unlock()
}

// StopAll drops the whole queue and cancels the running task
func (m *Manager) StopAll(ctx context.Context) {
	m.mu.Lock()
	queue := m.queue
	m.queue = nil
	listener := m.listener
	if m.cancel != nil {
		m.cancel()
	}
	m.mu.Unlock()

	for _, info := range queue {
		info.State = database.StateNone
		_ = m.store.UpdateState(ctx, info.Gid, database.StateNone, 0, 0)
		if listener != nil {
			listener.OnCancel(info)
		}
	}
}

// Delete stops a download and removes its record and files
func (m *Manager) Delete(ctx context.Context, gid int64) error {
	m.Stop(ctx, gid)
	d, err := m.store.Get(ctx, gid)
	if err != nil {
		return err
	}
	if err := m.store.Delete(ctx, gid); err != nil {
		return err
	}
	if d != nil {
		dir := m.galleryDir(d.Gid, d.Token)
		if err := os.RemoveAll(dir); err != nil {
			m.logger.Warn("failed to remove download dir", zap.String("dir", dir), zap.Error(err))
		}
	}
	return nil
}

// DeleteRange deletes each of the given gids
func (m *Manager) DeleteRange(ctx context.Context, gids []int64) error {
	for _, gid := range gids {
		if err := m.Delete(ctx, gid); err != nil {
			return err
		}
	}
	return nil
}

// Run processes the queue until ctx is cancelled
func (m *Manager) Run(ctx context.Context) {
	for {
		info := m.next()
		if info == nil {
			select {
			case <-ctx.Done():
				return
			case <-m.wake:
				continue
			}
		}

		taskCtx, cancel := context.WithCancel(ctx)
		m.mu.Lock()
		m.current = info
		m.cancel = cancel
		listener := m.listener
		m.mu.Unlock()

		err := m.download(taskCtx, info, listener)
		cancel()

		m.mu.Lock()
		m.current = nil
		m.cancel = nil
		m.mu.Unlock()

		switch {
		case err == nil:
			info.State = database.StateFinish
			_ = m.store.UpdateState(ctx, info.Gid, database.StateFinish, info.Total, info.Finished)
			if listener != nil {
				listener.OnFinish(info)
			}
		case errors.Is(err, context.Canceled) && ctx.Err() == nil:
			info.State = database.StateNone
			_ = m.store.UpdateState(ctx, info.Gid, database.StateNone, maxInt(info.Total, 0), info.Finished)
			if listener != nil {
				listener.OnCancel(info)
			}
		case errors.Is(err, client.Err509):
			info.State = database.StateFailed
			_ = m.store.UpdateState(ctx, info.Gid, database.StateFailed, maxInt(info.Total, 0), info.Finished)
			m.StopAll(ctx)
			if listener != nil {
				listener.OnGet509()
			}
		default:
			if ctx.Err() != nil {
				return
			}
			m.logger.Error("download failed", zap.Int64("gid", info.Gid), zap.Error(err))
			info.State = database.StateFailed
			_ = m.store.UpdateState(ctx, info.Gid, database.StateFailed, maxInt(info.Total, 0), info.Finished)
			if listener != nil {
				listener.OnFinish(info)
			}
		}
	}
}

// next pops the head of the wait queue
func (m *Manager) next() *Info {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.queue) == 0 {
		return nil
	}
	info := m.queue[0]
	m.queue = m.queue[1:]
	return info
}

func (m *Manager) kick() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// download fetches the gallery detail and then every page image
func (m *Manager) download(ctx context.Context, info *Info, listener Listener) error {
	info.State = database.StateDownload
	_ = m.store.UpdateState(ctx, info.Gid, database.StateDownload, 0, 0)
	if listener != nil {
		listener.OnStart(info)
	}

	retryCfg := client.RetryConfig{
		MaxRetries:     m.cfg.Client.RetryTimes,
		Logger:         m.logger,
		WaitForIPUnban: m.cfg.Client.WaitForIPUnban,
	}

	body, err := client.Retry(retryCfg, func() (string, error) {
		return m.client.GetDetailPage(ctx, info.Gid, info.Token)
	})
	if err != nil {
		return fmt.Errorf("fetch detail page: %w", err)
	}

	detail, err := parser.ParseGalleryDetail(ctx, body, m.env)
	if err != nil {
		return fmt.Errorf("parse detail page: %w", err)
	}

	info.Title = detail.SuitableTitle()
	info.Total = detail.Pages
	if info.Total <= 0 {
		if pages, err := parser.ParsePages(body); err == nil {
			info.Total = pages
		}
	}

	if err := m.store.Upsert(ctx, &database.Download{
		Gid: info.Gid, Token: info.Token, Title: info.Title, Label: info.Label,
		State: database.StateDownload, Pages: info.Total, Tags: detail.FlatTags(),
	}); err != nil {
		m.logger.Warn("failed to persist download detail", zap.Int64("gid", info.Gid), zap.Error(err))
	}

	dir := m.galleryDir(info.Gid, info.Token)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}

	pageURLs, err := m.collectPageURLs(ctx, detail, retryCfg)
	if err != nil {
		return err
	}

	var bytesDone int64
	started := time.Now()
	for i, pageURL := range pageURLs {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := m.fetchPage(ctx, dir, i, pageURL, retryCfg)
		if err != nil {
			return fmt.Errorf("fetch page %d: %w", i+1, err)
		}
		bytesDone += n
		info.Finished = i + 1

		elapsed := time.Since(started)
		if elapsed > 0 {
			info.Speed = bytesDone * int64(time.Second) / int64(elapsed)
		}
		if info.Speed > 0 && info.Finished > 0 && info.Total > info.Finished {
			perPage := elapsed / time.Duration(info.Finished)
			info.Remaining = int64(perPage/time.Millisecond) * int64(info.Total-info.Finished)
		} else {
			info.Remaining = -1
		}

		_ = m.store.UpdateState(ctx, info.Gid, database.StateDownload, info.Total, info.Finished)
		if listener != nil {
			listener.OnGetPage(info)
			listener.OnDownload(info)
		}

		if delay := m.cfg.Download.PageDelayMillis; delay > 0 && i < len(pageURLs)-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(delay) * time.Millisecond):
			}
		}
	}

	return nil
}

// collectPageURLs walks every preview page of the gallery detail and
// gathers the per-page URLs in order
func (m *Manager) collectPageURLs(ctx context.Context, detail *client.GalleryDetail, retryCfg client.RetryConfig) ([]string, error) {
	urls := append([]string(nil), detail.PreviewPageURLs...)
	for p := 1; p < detail.PreviewPages; p++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pageURL := fmt.Sprintf("%s?p=%d", client.GalleryURL(m.client.Host(), detail.Gid, detail.Token), p)
		body, err := client.Retry(retryCfg, func() (string, error) {
			b, err := m.client.Get(ctx, pageURL)
			return string(b), err
		})
		if err != nil {
			return nil, fmt.Errorf("fetch preview page %d: %w", p, err)
		}
		_, pageURLs, err := parser.ParsePreviewList(body)
		if err != nil {
			return nil, fmt.Errorf("parse preview page %d: %w", p, err)
		}
		urls = append(urls, pageURLs...)
	}
	return urls, nil
}

// fetchPage resolves one page's image URL and writes the image to disk,
// returning the number of bytes written
func (m *Manager) fetchPage(ctx context.Context, dir string, index int, pageURL string, retryCfg client.RetryConfig) (int64, error) {
	img, err := client.Retry(retryCfg, func() ([]byte, error) {
		body, err := m.client.Get(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		match := patternPageImage.FindSubmatch(body)
		if match == nil {
			return nil, fmt.Errorf("no image on page %s", pageURL)
		}
		return m.client.DownloadImage(ctx, string(match[1]))
	})
	if err != nil {
		return 0, err
	}
	name := filepath.Join(dir, fmt.Sprintf("%08d.jpg", index+1))
	if err := os.WriteFile(name, img, 0o644); err != nil {
		return 0, fmt.Errorf("write page file: %w", err)
	}
	return int64(len(img)), nil
}

func (m *Manager) galleryDir(gid int64, token string) string {
	return filepath.Join(m.cfg.Download.Dir, fmt.Sprintf("%d-%s", gid, token))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
