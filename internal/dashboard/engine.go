// Package dashboard coordinates the remote services and the derived
// figures of the client. One Engine owns the application State; every
// change goes through a Command processed on the engine's event loop.
// Remote calls run on their own goroutines and post their results back as
// commands, tagged with the generation and user they were issued for, so a
// late answer can never overwrite newer data.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"finboard/internal/core"
	"finboard/internal/events"
	"finboard/internal/identity"
	"finboard/internal/journal"
	"finboard/internal/log"
	"finboard/internal/remote"
	"finboard/internal/reports"
)

var ErrStopped = errors.New("engine stopped")

// Recorder appends sync log entries. *journal.Journal implements it.
type Recorder interface {
	Record(ctx context.Context, action, entity, entityID string, payload any, status string) (journal.Entry, error)
}

// Command is a message processed by the event loop.
type Command interface {
	apply(e *Engine)
}

// Options configure an Engine. Remote is required.
type Options struct {
	Remote  remote.Backend
	Journal Recorder
	Events  events.Publisher
	// Clock is the time source of the derived metrics.
	Clock  func() time.Time
	Logger *log.Logger
	// Buffer is the capacity of the command queue.
	Buffer int
}

// Engine runs the event loop. Construct it with New and start it with Run.
type Engine struct {
	remote  remote.Backend
	journal Recorder
	events  events.Publisher
	now     func() time.Time
	logger  *log.Logger

	cmds chan Command
	done chan struct{}
	ctx  context.Context

	// Everything below is touched by the loop goroutine only.
	state      State
	gens       map[Collection]uint64
	fetching   map[Collection]bool
	reportGens map[reports.Selector]uint64
	authGen    uint64
	pending    int
	waiters    []chan State
}

// New returns an engine with an empty state.
func New(opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Events == nil {
		opts.Events = events.Nop{}
	}
	if opts.Buffer <= 0 {
		opts.Buffer = 64
	}
	e := &Engine{
		remote:     opts.Remote,
		journal:    opts.Journal,
		events:     opts.Events,
		now:        opts.Clock,
		logger:     log.OrNop(opts.Logger).WithComponent(log.ComponentEngine),
		cmds:       make(chan Command, opts.Buffer),
		done:       make(chan struct{}),
		state:      newState(),
		gens:       map[Collection]uint64{},
		fetching:   map[Collection]bool{},
		reportGens: map[reports.Selector]uint64{},
	}
	e.state.derive(e.now)
	return e
}

// Run processes commands until ctx is cancelled. Remote calls issued by
// the engine use ctx as well. Categories are listed as soon as the loop
// starts; they do not depend on a user.
func (e *Engine) Run(ctx context.Context) error {
	e.ctx = ctx
	defer close(e.done)

	e.refresh(Categories)

	for {
		select {
		case <-ctx.Done():
			for _, w := range e.waiters {
				close(w)
			}
			e.waiters = nil
			return ctx.Err()
		case cmd := <-e.cmds:
			cmd.apply(e)
			e.release()
		}
	}
}

// Send queues cmd for the event loop.
func (e *Engine) Send(ctx context.Context, cmd Command) error {
	if cmd == nil {
		return core.ErrUnknownCommand
	}
	select {
	case e.cmds <- cmd:
		return nil
	case <-e.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns a copy of the current state without waiting for
// in-flight calls.
func (e *Engine) Snapshot(ctx context.Context) (State, error) {
	reply := make(chan State, 1)
	if err := e.Send(ctx, snapshot{reply: reply}); err != nil {
		return State{}, err
	}
	return e.await(ctx, reply)
}

// Settle waits until no remote call is in flight and returns a copy of the
// state at that point.
func (e *Engine) Settle(ctx context.Context) (State, error) {
	reply := make(chan State, 1)
	if err := e.Send(ctx, settle{reply: reply}); err != nil {
		return State{}, err
	}
	return e.await(ctx, reply)
}

// Do sends cmd and settles.
func (e *Engine) Do(ctx context.Context, cmd Command) (State, error) {
	if err := e.Send(ctx, cmd); err != nil {
		return State{}, err
	}
	return e.Settle(ctx)
}

func (e *Engine) await(ctx context.Context, reply chan State) (State, error) {
	select {
	case s, ok := <-reply:
		if !ok {
			return State{}, ErrStopped
		}
		return s, nil
	case <-e.done:
		return State{}, ErrStopped
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

type snapshot struct{ reply chan State }

func (c snapshot) apply(e *Engine) { c.reply <- e.state.clone() }

type settle struct{ reply chan State }

func (c settle) apply(e *Engine) { e.waiters = append(e.waiters, c.reply) }

// release answers Settle callers once nothing is in flight.
func (e *Engine) release() {
	if e.pending > 0 || len(e.waiters) == 0 {
		return
	}
	s := e.state.clone()
	for _, w := range e.waiters {
		w <- s
	}
	e.waiters = nil
}

// post delivers a result to the loop. Results of calls that outlive the
// loop are dropped.
func (e *Engine) post(cmd Command) {
	select {
	case e.cmds <- cmd:
	case <-e.done:
	}
}

// spawn runs call on its own goroutine and posts what it returns.
func (e *Engine) spawn(call func(ctx context.Context) Command) {
	e.pending++
	ctx := e.ctx
	go func() { e.post(call(ctx)) }()
}

// finish is called by every result command.
func (e *Engine) finish() {
	if e.pending > 0 {
		e.pending--
	}
}

// refresh lists the given collections concurrently. User scoped collections
// are skipped while no user is set.
func (e *Engine) refresh(colls ...Collection) {
	user := e.state.UserID
	var calls []func(ctx context.Context) fetched
	for _, c := range colls {
		if c.userScoped() && user.IsEmpty() {
			continue
		}
		e.gens[c]++
		e.fetching[c] = true
		calls = append(calls, e.fetcher(c, e.gens[c], user))
	}
	if len(calls) == 0 {
		return
	}

	e.pending += len(calls)
	ctx := e.ctx
	go func() {
		// No shared context: a failed listing leaves its siblings running.
		var g errgroup.Group
		for _, call := range calls {
			g.Go(func() error {
				res := call(ctx)
				e.post(res)
				if res.err != nil {
					return fmt.Errorf("list %s: %w", res.coll, res.err)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			e.logger.Debug("Refresh incomplete", log.NewFields().WithCount(len(calls)).WithError(err).ToSlice()...)
		}
	}()
}

func (e *Engine) fetcher(c Collection, gen uint64, user core.ID) func(ctx context.Context) fetched {
	return func(ctx context.Context) fetched {
		res := fetched{coll: c, gen: gen, user: user}
		switch c {
		case Categories:
			res.items, res.err = e.remote.ListCategories(ctx)
		case Budgets:
			res.items, res.err = e.remote.ListBudgets(ctx, user)
		case Transactions:
			res.items, res.err = e.remote.ListTransactions(ctx, user)
		case Goals:
			res.items, res.err = e.remote.ListGoals(ctx, user)
		}
		return res
	}
}

// current reports whether a result issued for gen and user still matches
// the state.
func (e *Engine) current(c Collection, gen uint64, user core.ID) bool {
	return gen == e.gens[c] && user == e.state.UserID
}

// setUser switches the state to a new current user value. Per-user data
// and in-flight calls of the previous user are dropped.
func (e *Engine) setUser(user core.Payload) {
	id, _ := identity.Resolve(user)
	changed := id != e.state.UserID

	e.state.User = user
	e.state.UserID = id
	e.state.Auth.Err = nil

	if changed {
		e.state.Budgets = nil
		e.state.Transactions = nil
		e.state.Goals = nil
		for _, c := range AllCollections() {
			if c.userScoped() {
				e.gens[c]++
				e.fetching[c] = false
				delete(e.state.Loaded, c)
				delete(e.state.Errors, c)
			}
		}
		for sel := range e.state.Reports {
			e.reportGens[sel]++
		}
		e.state.Reports = map[reports.Selector]reports.View{}
		e.state.Drafts = NewDrafts()
		e.state.derive(e.now)
		e.logger.Info("Current user changed", log.NewFields().WithUser(id.String()).ToSlice()...)
	}
	e.refresh(AllCollections()...)
}
