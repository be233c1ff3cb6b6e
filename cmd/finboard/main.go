package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"finboard/internal/backend"
	"finboard/internal/cli"
	"finboard/internal/config"
	"finboard/internal/core"
	"finboard/internal/dashboard"
	"finboard/internal/journal"
	"finboard/internal/log"
	"finboard/internal/remote/memory"
)

// Globals are shared by every command.
type Globals struct {
	Username string        `help:"Username or email to log in with." env:"FINBOARD_USERNAME"`
	Password string        `help:"Password to log in with." env:"FINBOARD_PASSWORD"`
	Timeout  time.Duration `help:"Give up on remote services after this long." default:"30s"`
}

var cmdline struct {
	Globals `embed:""`

	Overview     overviewCmd     `cmd:"" help:"Show totals, budget usage and savings."`
	Categories   categoriesCmd   `cmd:"" help:"List or change categories."`
	Budgets      budgetsCmd      `cmd:"" help:"List or change budgets."`
	Transactions transactionsCmd `cmd:"" help:"List or change transactions."`
	Savings      savingsCmd      `cmd:"" help:"List or change savings goals."`
	Report       reportCmd       `cmd:"" help:"Fetch and print one report."`
	Export       exportCmd       `cmd:"" help:"Fetch one report and write it to the configured spreadsheet."`
	Journal      journalCmd      `cmd:"" help:"Show the sync journal (persistent when JOURNAL_DSN is a file)."`
	Register     registerCmd     `cmd:"" help:"Create an account."`
}

// app is bound into every command's Run method.
type app struct {
	ctx     context.Context
	cfg     *config.Config
	logger  *log.Logger
	engine  *dashboard.Engine
	journal *journal.Journal
	globals *Globals
	out     io.Writer
}

func main() {
	cli.LoadEnvFile()

	kctx := kong.Parse(&cmdline,
		kong.Name("finboard"),
		kong.Description("Personal finance dashboard client."),
		kong.UsageOnError())

	// Command output goes to stdout, logs to stderr.
	level := log.ParseLevel(os.Getenv("LOG_LEVEL"))
	logger := log.New(log.Config{
		Level:   level,
		Handler: slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	})
	log.SetDefault(logger)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, _ := cli.GracefulShutdown(logger, 5*time.Second, nil)
	a, cleanup := start(ctx, logger, cfg, &cmdline.Globals)
	err := kctx.Run(a)
	cleanup()
	kctx.FatalIfErrorf(err)
}

// start wires the backend, the journal and the event publisher into a
// running engine.
func start(ctx context.Context, logger *log.Logger, cfg *config.Config, g *Globals) (*app, func()) {
	remote := cli.InitBackend(ctx, logger, cfg)
	j := cli.InitJournal(logger, cfg.JournalDSN)
	publisher, closeEvents := cli.InitEvents(ctx, logger, cfg)

	if g.Username == "" && cfg.RemoteBackend == string(backend.MemoryBackend) {
		g.Username, g.Password = memory.DemoUsername, memory.DemoPassword
	}

	engine := dashboard.New(dashboard.Options{
		Remote:  remote.Backend,
		Journal: j,
		Events:  publisher,
		Logger:  logger,
	})
	runCtx, stop := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := engine.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Engine stopped", "error", err)
		}
	}()

	a := &app{ctx: ctx, cfg: cfg, logger: logger, engine: engine, journal: j, globals: g, out: os.Stdout}
	return a, func() {
		stop()
		<-done
		closeEvents()
		if err := remote.Close(); err != nil {
			logger.Warn("Failed to release backend", "error", err)
		}
		if err := j.Close(); err != nil {
			logger.Warn("Failed to close journal", "error", err)
		}
	}
}

// do sends cmd and waits for the engine to settle, bounded by the global
// timeout.
func (a *app) do(cmd dashboard.Command) (dashboard.State, error) {
	ctx, cancel := context.WithTimeout(a.ctx, a.globals.Timeout)
	defer cancel()
	return a.engine.Do(ctx, cmd)
}

// login authenticates with the global credentials and returns the loaded
// state.
func (a *app) login() (dashboard.State, error) {
	s, err := a.do(dashboard.Login{Credentials: core.Credentials{
		Username: a.globals.Username,
		Password: a.globals.Password,
	}})
	if err != nil {
		return s, err
	}
	if s.Auth.Err != nil {
		return s, fmt.Errorf("login: %w", s.Auth.Err)
	}
	for _, c := range dashboard.AllCollections() {
		if err := s.Err(c); err != nil {
			a.logger.Warn("Collection unavailable", "collection", c, "error", err)
		}
	}
	return s, nil
}

// write runs a mutating command and returns its collection's error.
func (a *app) write(c dashboard.Collection, cmd dashboard.Command) (dashboard.State, error) {
	if _, err := a.login(); err != nil {
		return dashboard.State{}, err
	}
	s, err := a.do(cmd)
	if err != nil {
		return s, err
	}
	if err := s.Err(c); err != nil {
		return s, err
	}
	return s, nil
}
