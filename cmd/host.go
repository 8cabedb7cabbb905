package cmd

import (
	"context"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jobswipe/jobswipe-cli/api/schemas"
	"github.com/jobswipe/jobswipe-cli/internal/boundary"
	"github.com/jobswipe/jobswipe-cli/internal/browser"
	"github.com/jobswipe/jobswipe-cli/internal/config"
	"github.com/jobswipe/jobswipe-cli/internal/fill"
	"github.com/jobswipe/jobswipe-cli/internal/observability"
	"github.com/jobswipe/jobswipe-cli/internal/offer"
	"github.com/jobswipe/jobswipe-cli/internal/store"
)

// newHostCmd creates the `host` command: the native-messaging host loop on
// stdin/stdout. All logging goes to stderr or the log file; stdout carries
// only length-prefixed frames.
func newHostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "host",
		Short: "Runs the native-messaging host on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			st, err := store.Open(ctx, cfg.Store.Path, logger)
			if err != nil {
				return err
			}
			defer st.Close()

			pages := newLazyPageProvider(cfg, logger)
			defer pages.Close()

			scanner := newScanner(cfg, logger)
			typer := fill.NewTyper(logger, cfg.Fill.TypingDelay)
			injector := fill.NewFileInjector(logger)
			autofiller := fill.NewAutofiller(scanner, typer, injector, logger)
			executor := fill.NewExecutor(fill.NewRegistry(typer, injector, logger), logger)

			controller := boundary.NewController(scanner, autofiller, executor, offer.NewScraper(logger), st, logger)
			channel := boundary.NewChannel(st, cfg.Boundary.AllowedOrigins, logger)
			codec := boundary.NewCodec(os.Stdin, os.Stdout)

			host := boundary.NewHost(codec, controller, channel, pages.Provide, logger)
			logger.Info("Native messaging host started")
			return host.Serve(ctx)
		},
	}
}

// lazyPageProvider launches the browser session on first use and reuses it
// for the rest of the host's lifetime.
type lazyPageProvider struct {
	cfg    *config.Config
	logger *zap.Logger

	mu      sync.Mutex
	session *browser.Session
}

func newLazyPageProvider(cfg *config.Config, logger *zap.Logger) *lazyPageProvider {
	return &lazyPageProvider{cfg: cfg, logger: logger}
}

func (p *lazyPageProvider) Provide(ctx context.Context) (schemas.Page, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session != nil {
		return p.session, nil
	}

	session, err := browser.NewSession(ctx, browser.Config{
		Headless:          p.cfg.Browser.Headless,
		UserAgent:         p.cfg.Browser.UserAgent,
		NavigationTimeout: p.cfg.Browser.NavigationTimeout,
		StabilizeWait:     p.cfg.Browser.StabilizeWait,
		ExecPath:          p.cfg.Browser.ExecPath,
		DisableGPU:        p.cfg.Browser.DisableGPU,
	}, p.logger)
	if err != nil {
		return nil, err
	}
	p.logger.Info("Browser session launched for host mode")
	p.session = session
	return session, nil
}

func (p *lazyPageProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session != nil {
		p.session.Close()
		p.session = nil
	}
}
