package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/jobswipe/jobswipe-cli/api/schemas"
	"github.com/jobswipe/jobswipe-cli/internal/browser"
	"github.com/jobswipe/jobswipe-cli/internal/config"
	"github.com/jobswipe/jobswipe-cli/internal/fill"
	"github.com/jobswipe/jobswipe-cli/internal/planner"
	"github.com/jobswipe/jobswipe-cli/internal/scan"
	"github.com/jobswipe/jobswipe-cli/internal/store"
)

var cmdJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// openSession launches a browser session and navigates it to url.
func openSession(ctx context.Context, cfg *config.Config, url string, logger *zap.Logger) (*browser.Session, error) {
	session, err := browser.NewSession(ctx, browser.Config{
		Headless:          cfg.Browser.Headless,
		UserAgent:         cfg.Browser.UserAgent,
		NavigationTimeout: cfg.Browser.NavigationTimeout,
		StabilizeWait:     cfg.Browser.StabilizeWait,
		ExecPath:          cfg.Browser.ExecPath,
		DisableGPU:        cfg.Browser.DisableGPU,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	if err := session.Navigate(ctx, url); err != nil {
		session.Close()
		return nil, fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return session, nil
}

// newScanner builds the form scanner from the fill configuration.
func newScanner(cfg *config.Config, logger *zap.Logger) *scan.Scanner {
	return scan.New(logger, scan.Config{
		MarkerAttr: cfg.Fill.MarkerAttr,
		OptionCap:  cfg.Fill.OptionCap,
	})
}

// newFillStack assembles the typer, file injector and autofiller.
func newFillStack(cfg *config.Config, logger *zap.Logger) (*fill.Typer, *fill.FileInjector, *fill.Autofiller) {
	typer := fill.NewTyper(logger, cfg.Fill.TypingDelay)
	injector := fill.NewFileInjector(logger)
	autofiller := fill.NewAutofiller(newScanner(cfg, logger), typer, injector, logger)
	return typer, injector, autofiller
}

// newExecutor assembles the plan executor over the full tool registry.
func newExecutor(cfg *config.Config, logger *zap.Logger) *fill.Executor {
	typer := fill.NewTyper(logger, cfg.Fill.TypingDelay)
	injector := fill.NewFileInjector(logger)
	return fill.NewExecutor(fill.NewRegistry(typer, injector, logger), logger)
}

// newPlanner builds the AI planner from the configuration. Errors when no
// API key is configured.
func newPlanner(cfg *config.Config, logger *zap.Logger) (*planner.Planner, error) {
	client, err := planner.NewGeminiClient(planner.GeminiConfig{
		APIKey:            cfg.Planner.APIKey,
		Model:             cfg.Planner.Model,
		Endpoint:          cfg.Planner.Endpoint,
		Temperature:       cfg.Planner.Temperature,
		MaxTokens:         cfg.Planner.MaxTokens,
		APITimeout:        cfg.Planner.APITimeout,
		RequestsPerMinute: cfg.Planner.RequestsPerMinute,
	}, logger)
	if err != nil {
		return nil, err
	}
	return planner.New(client, logger), nil
}

// loadProfile resolves the user profile for a command. A --profile file wins;
// otherwise the local store is consulted.
func loadProfile(ctx context.Context, cfg *config.Config, profilePath string, logger *zap.Logger) (*schemas.UserProfileData, error) {
	if profilePath != "" {
		raw, err := os.ReadFile(profilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read profile file: %w", err)
		}
		var profile schemas.UserProfileData
		if err := cmdJSON.Unmarshal(raw, &profile); err != nil {
			return nil, fmt.Errorf("failed to parse profile file: %w", err)
		}
		return &profile, nil
	}

	st, err := store.Open(ctx, cfg.Store.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile store: %w", err)
	}
	defer st.Close()

	profile, err := st.LoadProfile(ctx)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("no profile found in %s; pass one with --profile", cfg.Store.Path)
	}
	return profile, nil
}

// printJSON writes v to the command's stdout as indented JSON.
func printJSON(w io.Writer, v any) error {
	out, err := cmdJSON.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = w.Write(append(out, '\n'))
	return err
}
