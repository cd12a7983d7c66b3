package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/ohmpatel46/spotify-wrapped/internal/repositories"
	"github.com/ohmpatel46/spotify-wrapped/internal/services"
	"github.com/ohmpatel46/spotify-wrapped/internal/shared"
	"github.com/ohmpatel46/spotify-wrapped/internal/tasks"
	"github.com/ohmpatel46/spotify-wrapped/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	provider services.Provider
	logger   *log.Logger
	output   io.Writer

	mu     sync.Mutex
	ledger *repositories.PlaylistLedger
	db     *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config   *shared.Config
	Provider services.Provider
	Logger   *log.Logger
	Output   io.Writer
	Ledger   *repositories.PlaylistLedger // Opened lazily from Config.Database when nil
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:   opts.Config,
		provider: opts.Provider,
		logger:   opts.Logger,
		output:   opts.Output,
		ledger:   opts.Ledger,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		summaryCommand, playlistCommand, historyCommand, lookupCommand,
		serveCommand, fixturesCommand, toolsCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before applies global flags before any command runs.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	return ctx, nil
}

// engine builds a [tasks.WrappedEngine] over the configured provider, recording playlists when withLedger is set.
func (r *Runner) engine(ctx context.Context, withLedger bool) (*tasks.WrappedEngine, error) {
	if r.provider == nil {
		return nil, fmt.Errorf("%w: provider not initialized", shared.ErrServiceUnavailable)
	}

	if !withLedger {
		return tasks.NewWrappedEngine(r.provider, nil), nil
	}

	ledger, err := r.openLedger(ctx)
	if err != nil {
		r.logger.Warn("playlist ledger unavailable, creations will not be recorded", "error", err)
		return tasks.NewWrappedEngine(r.provider, nil), nil
	}
	return tasks.NewWrappedEngine(r.provider, ledger), nil
}

// openLedger returns the injected ledger or opens the configured database once.
func (r *Runner) openLedger(ctx context.Context) (*repositories.PlaylistLedger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ledger != nil {
		return r.ledger, nil
	}

	r.logger.Debug("opening database", "path", r.config.Database.Path)
	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, err
	}

	r.db = db
	r.ledger = repositories.NewPlaylistLedger(db)
	return r.ledger, nil
}

// Close releases the database opened by [Runner.openLedger].
func (r *Runner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db, r.ledger = nil, nil
	return err
}

// progress returns a channel whose updates are written as status lines until done is called.
//
// When quiet is set the returned channel is nil and the engine drops updates.
func (r *Runner) progress(quiet bool) (chan tasks.ProgressUpdate, func()) {
	if quiet {
		return nil, func() {}
	}

	ch := make(chan tasks.ProgressUpdate, 16)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		ui.Drain(ch, func(line string) {
			r.writePlain("%s\n", line)
		})
	}()

	return ch, func() {
		close(ch)
		<-finished
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return r.writeBytes(append(output, '\n'))
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeBytes(b []byte) error {
	if _, err := r.output.Write(b); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
