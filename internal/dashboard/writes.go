package dashboard

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"finboard/internal/core"
	"finboard/internal/events"
	"finboard/internal/journal"
	"finboard/internal/log"
	"finboard/internal/normalize"
	"finboard/internal/remote"
	"finboard/internal/validate"
)

// SaveCategory creates the draft, or updates it when it carries an id.
type SaveCategory struct{ Draft core.CategoryDraft }

// SaveBudget creates or updates a budget of the current user.
type SaveBudget struct{ Draft core.BudgetDraft }

// SaveTransaction creates or updates a transaction of the current user.
type SaveTransaction struct{ Draft core.TransactionDraft }

// SaveGoal creates or updates a savings goal of the current user.
type SaveGoal struct{ Draft core.GoalDraft }

// Delete removes one record.
type Delete struct {
	Collection Collection
	ID         core.ID
}

// AddFunds adds Amount to the current amount of a savings goal.
type AddFunds struct {
	Goal   core.ID
	Amount string
}

// Edit loads a stored record into its form.
type Edit struct {
	Collection Collection
	ID         core.ID
}

// ResetDraft clears a form.
type ResetDraft struct{ Collection Collection }

func (c SaveCategory) apply(e *Engine) {
	e.state.Drafts.Category = c.Draft
	if err := validate.Category(c.Draft); err != nil {
		e.reject(Categories, err)
		return
	}
	body := remote.CategoryPayload(c.Draft)
	w := e.newWrite(Categories, c.Draft.ID, body)
	if c.Draft.IsNew() {
		e.spawnWrite(w, func(ctx context.Context) (core.Payload, error) {
			return e.remote.CreateCategory(ctx, body)
		})
		return
	}
	e.spawnWrite(w, func(ctx context.Context) (core.Payload, error) {
		return e.remote.UpdateCategory(ctx, c.Draft.ID, body)
	})
}

func (c SaveBudget) apply(e *Engine) {
	e.state.Drafts.Budget = c.Draft
	if err := validate.Budget(c.Draft, e.state.UserID); err != nil {
		e.reject(Budgets, err)
		return
	}
	body := remote.BudgetPayload(c.Draft, e.state.UserID)
	w := e.newWrite(Budgets, c.Draft.ID, body)
	if c.Draft.IsNew() {
		e.spawnWrite(w, func(ctx context.Context) (core.Payload, error) {
			return e.remote.CreateBudget(ctx, body)
		})
		return
	}
	e.spawnWrite(w, func(ctx context.Context) (core.Payload, error) {
		return e.remote.UpdateBudget(ctx, c.Draft.ID, body)
	})
}

func (c SaveTransaction) apply(e *Engine) {
	e.state.Drafts.Transaction = c.Draft
	if err := validate.Transaction(c.Draft, e.state.UserID); err != nil {
		e.reject(Transactions, err)
		return
	}
	body := remote.TransactionPayload(c.Draft, e.state.UserID)
	w := e.newWrite(Transactions, c.Draft.ID, body)
	if c.Draft.IsNew() {
		e.spawnWrite(w, func(ctx context.Context) (core.Payload, error) {
			return e.remote.CreateTransaction(ctx, body)
		})
		return
	}
	e.spawnWrite(w, func(ctx context.Context) (core.Payload, error) {
		return e.remote.UpdateTransaction(ctx, c.Draft.ID, body)
	})
}

func (c SaveGoal) apply(e *Engine) {
	e.state.Drafts.Goal = c.Draft
	if err := validate.Goal(c.Draft, e.state.UserID); err != nil {
		e.reject(Goals, err)
		return
	}
	body := remote.GoalPayload(c.Draft, e.state.UserID)
	w := e.newWrite(Goals, c.Draft.ID, body)
	if c.Draft.IsNew() {
		e.spawnWrite(w, func(ctx context.Context) (core.Payload, error) {
			return e.remote.CreateGoal(ctx, body)
		})
		return
	}
	e.spawnWrite(w, func(ctx context.Context) (core.Payload, error) {
		return e.remote.UpdateGoal(ctx, c.Draft.ID, body)
	})
}

func (c Delete) apply(e *Engine) {
	if c.ID.IsEmpty() {
		e.reject(c.Collection, core.ErrNotFound)
		return
	}
	w := e.newWrite(c.Collection, c.ID, nil)
	w.action = log.OpDelete
	e.spawnWrite(w, func(ctx context.Context) (core.Payload, error) {
		switch c.Collection {
		case Categories:
			return nil, e.remote.DeleteCategory(ctx, c.ID)
		case Budgets:
			return nil, e.remote.DeleteBudget(ctx, c.ID)
		case Transactions:
			return nil, e.remote.DeleteTransaction(ctx, c.ID)
		case Goals:
			return nil, e.remote.DeleteGoal(ctx, c.ID)
		}
		return nil, fmt.Errorf("delete from %q: %w", c.Collection, core.ErrUnknownCommand)
	})
}

func (c AddFunds) apply(e *Engine) {
	if err := validate.Funds(c.Amount); err != nil {
		e.reject(Goals, err)
		return
	}
	amount, err := core.ParseAmount(c.Amount)
	if err != nil {
		e.reject(Goals, err)
		return
	}
	i := slices.IndexFunc(e.state.Goals, func(g core.SavingsGoal) bool { return g.ID == c.Goal })
	if i < 0 {
		e.reject(Goals, core.ErrNotFound)
		return
	}

	// An empty response keeps the locally added amount.
	goal := e.state.Goals[i]
	goal.CurrentAmount = goal.CurrentAmount.Add(amount)
	w := e.newWrite(Goals, c.Goal, normalize.SavingsGoalPayload(goal))
	w.action = log.OpAddFunds
	e.spawnWrite(w, func(ctx context.Context) (core.Payload, error) {
		return e.remote.AddFunds(ctx, c.Goal, amount)
	})
}

func (c Edit) apply(e *Engine) {
	var found bool
	switch c.Collection {
	case Categories:
		if i := slices.IndexFunc(e.state.Categories, func(v core.Category) bool { return v.ID == c.ID }); i >= 0 {
			e.state.Drafts.Category = core.EditCategory(e.state.Categories[i])
			found = true
		}
	case Budgets:
		if i := slices.IndexFunc(e.state.Budgets, func(v core.Budget) bool { return v.ID == c.ID }); i >= 0 {
			e.state.Drafts.Budget = core.EditBudget(e.state.Budgets[i])
			found = true
		}
	case Transactions:
		if i := slices.IndexFunc(e.state.Transactions, func(v core.Transaction) bool { return v.ID == c.ID }); i >= 0 {
			e.state.Drafts.Transaction = core.EditTransaction(e.state.Transactions[i])
			found = true
		}
	case Goals:
		if i := slices.IndexFunc(e.state.Goals, func(v core.SavingsGoal) bool { return v.ID == c.ID }); i >= 0 {
			e.state.Drafts.Goal = core.EditGoal(e.state.Goals[i])
			found = true
		}
	}
	if !found {
		e.reject(c.Collection, core.ErrNotFound)
	}
}

func (c ResetDraft) apply(e *Engine) { e.resetDraft(c.Collection) }

func (e *Engine) resetDraft(c Collection) {
	d := NewDrafts()
	switch c {
	case Categories:
		e.state.Drafts.Category = d.Category
	case Budgets:
		e.state.Drafts.Budget = d.Budget
	case Transactions:
		e.state.Drafts.Transaction = d.Transaction
	case Goals:
		e.state.Drafts.Goal = d.Goal
	}
}

// reject records a failure that never reached a service.
func (e *Engine) reject(c Collection, err error) {
	e.state.Errors[c] = err
	e.logger.Debug("Write rejected", log.NewFields().
		WithOperation(log.OpValidate).
		WithCollection(string(c), e.gens[c]).
		WithError(err).ToSlice()...)
}

// write describes one outbound mutation. sent holds the values submitted,
// used where the response leaves a field out.
type write struct {
	coll   Collection
	action string
	id     core.ID
	sent   core.Payload
	user   core.ID
}

type written struct {
	write
	entity any
	empty  bool
	err    error
}

func (e *Engine) newWrite(c Collection, id core.ID, sent core.Payload) write {
	action := log.OpUpdate
	if id.IsEmpty() {
		action = log.OpCreate
	}
	if sent != nil && !id.IsEmpty() {
		sent = maps.Clone(sent)
		sent["id"] = id.String()
	}
	return write{coll: c, action: action, id: id, sent: sent, user: e.state.UserID}
}

// spawnWrite performs call off the loop. The response is normalized, logged
// to the journal and announced before it is posted back.
func (e *Engine) spawnWrite(w write, call func(ctx context.Context) (core.Payload, error)) {
	e.spawn(func(ctx context.Context) Command {
		resp, err := call(ctx)
		res := written{write: w, err: err}
		if err != nil {
			e.sync(ctx, w, journal.StatusFailed, w.sent)
			return res
		}
		if w.action == log.OpDelete {
			e.sync(ctx, w, journal.StatusOK, core.Payload{"id": w.id.String()})
			return res
		}

		var canonical core.Payload
		res.empty = resp == nil
		res.entity, res.id, canonical = decodeRecord(w.coll, normalize.Fill(resp, w.sent, fieldsOf(w.coll)))
		status := journal.StatusOK
		if res.empty {
			status = journal.StatusPending
		}
		w.id = res.id
		e.sync(ctx, w, status, canonical)
		return res
	})
}

// sync appends the journal entry of a finished write and, for successful
// ones, publishes a change event. Neither failure affects the write.
func (e *Engine) sync(ctx context.Context, w write, status string, payload core.Payload) {
	fields := log.NewFields().
		WithOperation(w.action).
		WithEntity(w.coll.entity(), w.id.String())

	if e.journal != nil {
		if _, err := e.journal.Record(ctx, w.action, w.coll.entity(), w.id.String(), payload, status); err != nil {
			e.logger.Warn("Failed to record sync entry", fields.WithError(err).ToSlice()...)
		}
	}
	if status == journal.StatusFailed {
		return
	}
	event := events.NewChangeEvent(w.action, w.coll.entity(), w.id.String(), w.user.String())
	if err := e.events.Publish(ctx, event); err != nil {
		e.logger.Warn("Failed to publish change event", fields.WithError(err).ToSlice()...)
	}
}

func (r written) apply(e *Engine) {
	e.finish()
	fields := log.NewFields().WithOperation(r.action).WithEntity(r.coll.entity(), r.id.String())
	if r.user != e.state.UserID {
		e.logger.Debug("Discarding write result of previous user", fields.ToSlice()...)
		return
	}
	if r.err != nil {
		e.state.Errors[r.coll] = r.err
		e.logger.Warn("Write failed", fields.WithError(r.err).ToSlice()...)
		return
	}
	delete(e.state.Errors, r.coll)

	if r.action == log.OpDelete {
		e.remove(r.coll, r.id)
	} else {
		e.upsert(r.entity)
		e.resetDraft(r.coll)
	}
	e.state.derive(e.now)
	e.logger.Info("Write applied", fields.ToSlice()...)

	// A listing still in flight predates this write, and a record created
	// without an id in the response cannot be addressed until listed.
	if e.fetching[r.coll] || r.id.IsEmpty() {
		e.refresh(r.coll)
	}
}

func (e *Engine) upsert(entity any) {
	switch v := entity.(type) {
	case core.Category:
		e.state.Categories = place(e.state.Categories, v, v.ID, func(x core.Category) core.ID { return x.ID })
		sortCategories(e.state.Categories)
	case core.Budget:
		e.state.Budgets = place(e.state.Budgets, v, v.ID, func(x core.Budget) core.ID { return x.ID })
	case core.Transaction:
		e.state.Transactions = place(e.state.Transactions, v, v.ID, func(x core.Transaction) core.ID { return x.ID })
	case core.SavingsGoal:
		e.state.Goals = place(e.state.Goals, v, v.ID, func(x core.SavingsGoal) core.ID { return x.ID })
	}
}

func (e *Engine) remove(c Collection, id core.ID) {
	switch c {
	case Categories:
		e.state.Categories = slices.DeleteFunc(e.state.Categories, func(x core.Category) bool { return x.ID == id })
	case Budgets:
		e.state.Budgets = slices.DeleteFunc(e.state.Budgets, func(x core.Budget) bool { return x.ID == id })
	case Transactions:
		e.state.Transactions = slices.DeleteFunc(e.state.Transactions, func(x core.Transaction) bool { return x.ID == id })
	case Goals:
		e.state.Goals = slices.DeleteFunc(e.state.Goals, func(x core.SavingsGoal) bool { return x.ID == id })
	}
}

// place replaces the record with the same id, or puts v first when there
// is none.
func place[T any](items []T, v T, id core.ID, key func(T) core.ID) []T {
	if !id.IsEmpty() {
		if i := slices.IndexFunc(items, func(x T) bool { return key(x) == id }); i >= 0 {
			out := slices.Clone(items)
			out[i] = v
			return out
		}
	}
	return append([]T{v}, items...)
}

func fieldsOf(c Collection) [][]string {
	switch c {
	case Categories:
		return normalize.CategoryFields
	case Budgets:
		return normalize.BudgetFields
	case Transactions:
		return normalize.TransactionFields
	default:
		return normalize.GoalFields
	}
}

// decodeRecord normalizes a filled write response into its entity.
func decodeRecord(c Collection, p core.Payload) (any, core.ID, core.Payload) {
	switch c {
	case Categories:
		v := normalize.Category(p)
		return *v, v.ID, normalize.CategoryPayload(*v)
	case Budgets:
		v := normalize.Budget(p)
		return *v, v.ID, normalize.BudgetPayload(*v)
	case Transactions:
		v := normalize.Transaction(p)
		return *v, v.ID, normalize.TransactionPayload(*v)
	default:
		v := normalize.SavingsGoal(p)
		return *v, v.ID, normalize.SavingsGoalPayload(*v)
	}
}
