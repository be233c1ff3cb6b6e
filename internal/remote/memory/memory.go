// Package memory is an in-process implementation of the remote ports. Its
// records deliberately use the same mixed field conventions as the real
// services so that everything downstream goes through normalization.
package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"finboard/internal/core"
	"finboard/internal/normalize"
	"finboard/internal/remote"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrMissingField       = errors.New("missing required field")
)

var _ remote.Backend = (*Store)(nil)

type collection struct {
	ids   []string // alias table used to find a record by id
	users []string // alias table of the owning user, nil when unscoped
	next  int64
	items []core.Payload
}

type user struct {
	id       int64
	username string
	email    string
	password string
}

// Store keeps every collection in memory behind one mutex.
type Store struct {
	mu           sync.Mutex
	categories   collection
	budgets      collection
	transactions collection
	goals        collection
	users        []user
	nextUser     int64
}

// New returns an empty store.
func New() *Store {
	return &Store{
		categories:   collection{ids: normalize.CategoryID, next: 1},
		budgets:      collection{ids: normalize.BudgetID, users: normalize.BudgetUser, next: 1},
		transactions: collection{ids: normalize.TransactionID, users: normalize.TransactionUser, next: 1},
		goals:        collection{ids: normalize.GoalID, users: normalize.GoalUser, next: 1},
		nextUser:     1,
	}
}

// AddUser registers an account directly and returns its id.
func (s *Store) AddUser(username, email, password string) core.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.IDFromInt(s.addUser(username, email, password))
}

func (s *Store) addUser(username, email, password string) int64 {
	id := s.nextUser
	s.nextUser++
	s.users = append(s.users, user{id: id, username: username, email: email, password: password})
	return id
}

func clone(p core.Payload) core.Payload {
	if p == nil {
		return nil
	}
	out := make(core.Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

func (c *collection) index(id core.ID) int {
	for i, p := range c.items {
		if normalize.Identifier(p, c.ids...) == id {
			return i
		}
	}
	return -1
}

func (c *collection) list(owner core.ID) []any {
	out := make([]any, 0, len(c.items))
	ref := owner.Ref()
	for _, p := range c.items {
		if c.users != nil && !core.SameRef(normalize.Ref(p, c.users...), ref) {
			continue
		}
		out = append(out, clone(p))
	}
	return out
}

func (c *collection) insert(p core.Payload) core.Payload {
	rec := clone(p)
	if rec == nil {
		rec = core.Payload{}
	}
	for _, key := range c.ids {
		delete(rec, key)
	}
	rec[c.ids[0]] = c.next
	c.next++
	c.items = append(c.items, rec)
	return clone(rec)
}

func (c *collection) update(id core.ID, p core.Payload) (core.Payload, error) {
	i := c.index(id)
	if i < 0 {
		return nil, core.ErrNotFound
	}
	rec := c.items[i]
	for k, v := range p {
		if contains(c.ids, k) {
			continue
		}
		rec[k] = v
	}
	return clone(rec), nil
}

func (c *collection) remove(id core.ID) error {
	i := c.index(id)
	if i < 0 {
		return core.ErrNotFound
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return nil
}

func contains(keys []string, k string) bool {
	for _, key := range keys {
		if key == k {
			return true
		}
	}
	return false
}

func (s *Store) ListCategories(_ context.Context) ([]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.categories.list(""), nil
}

func (s *Store) CreateCategory(_ context.Context, p core.Payload) (core.Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.categories.insert(p), nil
}

func (s *Store) UpdateCategory(_ context.Context, id core.ID, p core.Payload) (core.Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.categories.update(id, p)
}

func (s *Store) DeleteCategory(_ context.Context, id core.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.categories.remove(id)
}

func (s *Store) ListBudgets(_ context.Context, owner core.ID) ([]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budgets.list(owner), nil
}

func (s *Store) CreateBudget(_ context.Context, p core.Payload) (core.Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budgets.insert(p), nil
}

func (s *Store) UpdateBudget(_ context.Context, id core.ID, p core.Payload) (core.Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budgets.update(id, p)
}

func (s *Store) DeleteBudget(_ context.Context, id core.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budgets.remove(id)
}

func (s *Store) ListTransactions(_ context.Context, owner core.ID) ([]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactions.list(owner), nil
}

func (s *Store) CreateTransaction(_ context.Context, p core.Payload) (core.Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactions.insert(p), nil
}

func (s *Store) UpdateTransaction(_ context.Context, id core.ID, p core.Payload) (core.Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactions.update(id, p)
}

func (s *Store) DeleteTransaction(_ context.Context, id core.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactions.remove(id)
}

func (s *Store) ListGoals(_ context.Context, owner core.ID) ([]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goals.list(owner), nil
}

func (s *Store) CreateGoal(_ context.Context, p core.Payload) (core.Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goals.insert(p), nil
}

func (s *Store) UpdateGoal(_ context.Context, id core.ID, p core.Payload) (core.Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goals.update(id, p)
}

func (s *Store) DeleteGoal(_ context.Context, id core.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goals.remove(id)
}

// AddFunds increases the goal's current amount.
func (s *Store) AddFunds(_ context.Context, id core.ID, amount decimal.Decimal) (core.Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.goals.index(id)
	if i < 0 {
		return nil, core.ErrNotFound
	}
	rec := s.goals.items[i]
	current := normalize.Amount(rec, normalize.GoalCurrent...).Add(amount)
	for _, key := range normalize.GoalCurrent {
		delete(rec, key)
	}
	rec[normalize.GoalCurrent[0]] = number(current)
	return clone(rec), nil
}

// Login answers with the user nested under "user", keyed by user_id.
func (s *Store) Login(_ context.Context, p core.Payload) (core.Payload, error) {
	name := strings.TrimSpace(normalize.Text(p, "", "username", "email"))
	password := normalize.Text(p, "", "password")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if (strings.EqualFold(u.username, name) || strings.EqualFold(u.email, name)) && u.password == password {
			return core.Payload{
				"message": "Login successful",
				"user": core.Payload{
					"user_id":  u.id,
					"username": u.username,
					"email":    u.email,
				},
			}, nil
		}
	}
	return nil, ErrInvalidCredentials
}

func (s *Store) Register(_ context.Context, p core.Payload) (core.Payload, error) {
	name := strings.TrimSpace(normalize.Text(p, "", "username"))
	email := strings.TrimSpace(normalize.Text(p, "", "email"))
	password := normalize.Text(p, "", "password_hash", "password")
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingField
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.email, email) {
			return nil, ErrUserExists
		}
	}
	id := s.addUser(name, email, password)
	return core.Payload{"id": id, "username": name, "email": email}, nil
}
