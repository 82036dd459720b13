package client

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// RetryConfig holds retry configuration
type RetryConfig struct {
	MaxRetries     int
	Logger         *zap.Logger
	WaitForIPUnban bool // Whether to wait when IP is temporarily banned
}

var (
	banPattern    = regexp.MustCompile(`ban expires in (.+?)\)`)
	hourPattern   = regexp.MustCompile(`(\d+)\s+hour`)
	minutePattern = regexp.MustCompile(`(\d+)\s+minute`)
	secondPattern = regexp.MustCompile(`(\d+)\s+second`)
)

// parseIPBanDuration parses the remaining time of an IP ban.
// Supports formats like: "59 minutes and 43 seconds", "1 hour and 30 minutes", "45 seconds"
func parseIPBanDuration(errMsg string) (time.Duration, bool) {
	if !strings.Contains(errMsg, "temporarily banned") {
		return 0, false
	}

	matches := banPattern.FindStringSubmatch(errMsg)
	if len(matches) < 2 {
		return 0, false
	}

	durationStr := matches[1]
	var total time.Duration

	for _, p := range []struct {
		pattern *regexp.Regexp
		unit    time.Duration
	}{
		{hourPattern, time.Hour},
		{minutePattern, time.Minute},
		{secondPattern, time.Second},
	} {
		if m := p.pattern.FindStringSubmatch(durationStr); len(m) >= 2 {
			if n, err := strconv.Atoi(m[1]); err == nil {
				total += time.Duration(n) * p.unit
			}
		}
	}

	if total > 0 {
		return total, true
	}
	return 0, false
}

// Retry executes fn with linear backoff. When WaitForIPUnban is set and the
// error reports a temporary IP ban, Retry sleeps until the ban expires and
// resets the attempt counter, since a ban is not a real failure.
func Retry[T any](cfg RetryConfig, fn func() (T, error)) (T, error) {
	var lastErr error

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3 // fallback default
	}

	for i := 0; i < maxRetries; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err

		if cfg.WaitForIPUnban {
			if duration, isIPBan := parseIPBanDuration(err.Error()); isIPBan {
				if cfg.Logger != nil {
					cfg.Logger.Warn("IP temporarily banned, waiting for unban",
						zap.Duration("wait_duration", duration),
						zap.String("unban_time", time.Now().Add(duration).Format("2006-01-02 15:04:05")),
					)
				}

				// Plus 10 extra seconds to ensure complete unban
				time.Sleep(duration + 10*time.Second)

				if cfg.Logger != nil {
					cfg.Logger.Info("IP ban wait completed, retrying")
				}

				i = -1
				continue
			}
		}

		if cfg.Logger != nil {
			cfg.Logger.Warn("operation failed, retrying",
				zap.Int("attempt", i+1),
				zap.Int("max_retries", maxRetries),
				zap.Error(err),
			)
		}

		// Don't sleep after the last attempt
		if i < maxRetries-1 {
			// Backoff: 5s, 10s, 15s...
			time.Sleep(time.Duration((i+1)*5) * time.Second)
		}
	}

	var zero T
	return zero, fmt.Errorf("exceeded max retries (%d): %w", maxRetries, lastErr)
}

// RetryVoid executes a function that returns only an error
func RetryVoid(cfg RetryConfig, fn func() error) error {
	_, err := Retry(cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}
