package cli

import (
	"context"
	"os"

	"github.com/appmarket/appship/internal/config"
	"github.com/appmarket/appship/internal/logging"
)

// App carries the state shared by every command: the resolved configuration
// and the logger built from it.
type App struct {
	config  *config.Config
	log     logging.Logger
	jsonOut bool
}

// NewApp builds the CLI application around a loaded configuration.
func NewApp(cfg *config.Config) *App {
	return &App{
		config: cfg,
		log:    logging.New(os.Stderr, cfg.LogLevel),
	}
}

// Run executes the command line and returns the command's error, if any.
func (a *App) Run(ctx context.Context) error {
	return a.rootCmd().ExecuteContext(ctx)
}
