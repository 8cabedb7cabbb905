// Package browser drives a real Chromium page over the DevTools protocol and
// exposes it to the engine through the schemas.Page capability interface.
package browser

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Config tunes the browser session.
type Config struct {
	Headless          bool
	UserAgent         string
	NavigationTimeout time.Duration
	StabilizeWait     time.Duration
	ExecPath          string
	DisableGPU        bool
}

func (c *Config) setDefaults() {
	if c.NavigationTimeout <= 0 {
		c.NavigationTimeout = 90 * time.Second
	}
	if c.StabilizeWait <= 0 {
		c.StabilizeWait = 1500 * time.Millisecond
	}
}

// Session owns one browser tab for the lifetime of a fill run.
type Session struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger
	cfg    Config

	currentURL string

	mu       sync.Mutex
	tempDirs []string
}

// NewSession launches a browser and opens a tab. The session lives until
// Close.
func NewSession(parent context.Context, cfg Config, logger *zap.Logger) (*Session, error) {
	cfg.setDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if !cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	if cfg.DisableGPU {
		opts = append(opts, chromedp.DisableGPU)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	// Force the browser to start now so launch failures surface here, not on
	// the first command.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	cancel := func() {
		tabCancel()
		allocCancel()
	}
	logger.Info("Browser session started", zap.Bool("headless", cfg.Headless))
	return &Session{
		ctx:    tabCtx,
		cancel: cancel,
		logger: logger.Named("browser"),
		cfg:    cfg,
	}, nil
}

// Navigate loads the URL and waits a quiet period for client-side rendering
// to settle before the page is considered scannable.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.logger.Info("Navigating", zap.String("url", url))

	navCtx, cancel := context.WithTimeout(ctx, s.cfg.NavigationTimeout)
	defer cancel()

	var landed string
	if err := s.run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Location(&landed),
	); err != nil {
		if navCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("navigation to %s timed out after %v", url, s.cfg.NavigationTimeout)
		}
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	s.currentURL = landed

	select {
	case <-time.After(s.cfg.StabilizeWait):
	case <-ctx.Done():
		return ctx.Err()
	}
	s.logger.Debug("Navigation complete", zap.String("url", landed))
	return nil
}

// Close tears the tab and the browser process down and removes the staged
// upload files.
func (s *Session) Close() error {
	s.cancel()

	s.mu.Lock()
	dirs := s.tempDirs
	s.tempDirs = nil
	s.mu.Unlock()
	for _, dir := range dirs {
		if err := os.RemoveAll(dir); err != nil {
			s.logger.Warn("Failed to remove staged upload", zap.String("dir", dir), zap.Error(err))
		}
	}

	s.logger.Info("Browser session closed")
	return nil
}

// trackTempDir registers a staging directory for removal at session close.
func (s *Session) trackTempDir(dir string) {
	s.mu.Lock()
	s.tempDirs = append(s.tempDirs, dir)
	s.mu.Unlock()
}

// run executes chromedp actions on the session tab, honoring the caller's
// context on top of the session's own.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	done := make(chan error, 1)
	go func() {
		done <- chromedp.Run(s.ctx, actions...)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
