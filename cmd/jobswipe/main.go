// The jobswipe binary drives job-application form reconnaissance and
// automated filling, either as a CLI or as a native-messaging host.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/jobswipe/jobswipe-cli/cmd"
	"github.com/jobswipe/jobswipe-cli/internal/observability"
)

func main() {
	// A .env file is optional; it carries GEMINI_API_KEY in development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	observability.Sync()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
