package dashboard

import (
	"context"

	"finboard/internal/core"
	"finboard/internal/identity"
	"finboard/internal/log"
	"finboard/internal/normalize"
	"finboard/internal/remote"
	"finboard/internal/validate"
)

// SetUser replaces the current user value, as returned by the user
// service. A nil User logs out.
type SetUser struct {
	User core.Payload
}

func (c SetUser) apply(e *Engine) { e.setUser(c.User) }

// Logout clears the current user.
type Logout struct{}

func (Logout) apply(e *Engine) { e.setUser(nil) }

// Login authenticates and, on success, makes the returned value the
// current user.
type Login struct {
	Credentials core.Credentials
}

func (c Login) apply(e *Engine) {
	if err := validate.Login(c.Credentials); err != nil {
		e.state.Auth.Err = err
		return
	}
	e.state.Auth.Err = nil
	e.authGen++
	gen := e.authGen
	body := remote.LoginPayload(c.Credentials)
	e.spawn(func(ctx context.Context) Command {
		user, err := e.remote.Login(ctx, body)
		return loggedIn{gen: gen, user: user, err: err}
	})
}

type loggedIn struct {
	gen  uint64
	user core.Payload
	err  error
}

func (r loggedIn) apply(e *Engine) {
	e.finish()
	if r.gen != e.authGen {
		return
	}
	if r.err != nil {
		e.state.Auth.Err = r.err
		e.logger.Warn("Login failed", log.NewFields().WithOperation(log.OpLogin).WithError(r.err).ToSlice()...)
		return
	}
	if _, ok := identity.Resolve(r.user); !ok {
		e.state.Auth.Err = core.ErrMissingUser
		return
	}
	e.setUser(r.user)
}

// Register creates an account. It does not log in.
type Register struct {
	Registration core.Registration
}

func (c Register) apply(e *Engine) {
	if err := validate.Register(c.Registration); err != nil {
		e.state.Auth.Err = err
		return
	}
	e.state.Auth = Auth{}
	e.authGen++
	gen := e.authGen
	body := remote.RegisterPayload(c.Registration)
	e.spawn(func(ctx context.Context) Command {
		resp, err := e.remote.Register(ctx, body)
		return registered{gen: gen, resp: resp, err: err}
	})
}

type registered struct {
	gen  uint64
	resp core.Payload
	err  error
}

func (r registered) apply(e *Engine) {
	e.finish()
	if r.gen != e.authGen {
		return
	}
	if r.err != nil {
		e.state.Auth.Err = r.err
		return
	}
	if r.resp == nil {
		r.resp = core.Payload{}
	}
	e.state.Auth.Registered = r.resp
}

// Refresh lists the given collections again, or all of them.
type Refresh struct {
	Collections []Collection
}

func (c Refresh) apply(e *Engine) {
	colls := c.Collections
	if len(colls) == 0 {
		colls = AllCollections()
	}
	e.refresh(colls...)
}

type fetched struct {
	coll  Collection
	gen   uint64
	user  core.ID
	items []any
	err   error
}

func (r fetched) apply(e *Engine) {
	e.finish()
	fields := log.NewFields().WithCollection(string(r.coll), r.gen)
	if !e.current(r.coll, r.gen, r.user) {
		e.logger.Debug("Discarding stale listing", fields.ToSlice()...)
		return
	}
	e.fetching[r.coll] = false
	if r.err != nil {
		e.state.Errors[r.coll] = r.err
		e.logger.Warn("Listing failed", fields.WithError(r.err).ToSlice()...)
		return
	}

	switch r.coll {
	case Categories:
		cs := normalize.Categories(r.items)
		sortCategories(cs)
		e.state.Categories = cs
	case Budgets:
		e.state.Budgets = normalize.Budgets(r.items)
	case Transactions:
		e.state.Transactions = normalize.Transactions(r.items)
	case Goals:
		e.state.Goals = normalize.SavingsGoals(r.items)
	}
	delete(e.state.Errors, r.coll)
	e.state.Loaded[r.coll] = true
	e.state.derive(e.now)
	e.logger.Debug("Collection loaded", fields.WithCount(len(r.items)).ToSlice()...)
}

// Tick recomputes the derived figures against the clock, for time based
// values such as elapsed budget time.
type Tick struct{}

func (Tick) apply(e *Engine) { e.state.derive(e.now) }
