package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finboard/internal/core"
	"finboard/internal/identity"
	"finboard/internal/reports"
)

type recorded struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
}

type recorder struct {
	mu       sync.Mutex
	requests []recorded
	reply    func(w http.ResponseWriter, r *http.Request)
}

func (rec *recorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	entry := recorded{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery}
	if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
		_ = json.Unmarshal(raw, &entry.Body)
	}
	rec.mu.Lock()
	rec.requests = append(rec.requests, entry)
	rec.mu.Unlock()

	if rec.reply != nil {
		rec.reply(w, r)
		return
	}
	if r.Method == http.MethodGet {
		_, _ = io.WriteString(w, "[]")
		return
	}
	_, _ = io.WriteString(w, "{}")
}

func (rec *recorder) last() recorded {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.requests[len(rec.requests)-1]
}

func (rec *recorder) count() int {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return len(rec.requests)
}

func newTestClient(t *testing.T, rec *recorder, opts Options) *Client {
	t.Helper()
	srv := httptest.NewServer(rec)
	t.Cleanup(srv.Close)
	opts.Endpoints = Endpoints{
		Category:    srv.URL + "/api/categories",
		Budget:      srv.URL + "/api/budgets",
		Transaction: srv.URL + "/api/transactions",
		Savings:     srv.URL + "/api/savings",
		Report:      srv.URL + "/api/reports",
		User:        srv.URL + "/api/users",
	}
	if opts.Timeout == 0 {
		opts.Timeout = 5 * time.Second
	}
	return New(opts)
}

func TestClient_Endpoints(t *testing.T) {
	ctx := context.Background()
	body := core.Payload{"name": "x"}

	tests := []struct {
		name      string
		call      func(c *Client) error
		wantVerb  string
		wantPath  string
		wantQuery string
	}{
		{"list categories", func(c *Client) error { _, err := c.ListCategories(ctx); return err },
			http.MethodGet, "/api/categories", ""},
		{"create category", func(c *Client) error { _, err := c.CreateCategory(ctx, body); return err },
			http.MethodPost, "/api/categories", ""},
		{"update category", func(c *Client) error { _, err := c.UpdateCategory(ctx, "3", body); return err },
			http.MethodPut, "/api/categories/3", ""},
		{"delete category", func(c *Client) error { return c.DeleteCategory(ctx, "3") },
			http.MethodDelete, "/api/categories/3", ""},
		{"list budgets", func(c *Client) error { _, err := c.ListBudgets(ctx, "7"); return err },
			http.MethodGet, "/api/budgets", "user_id=7"},
		{"create budget", func(c *Client) error { _, err := c.CreateBudget(ctx, body); return err },
			http.MethodPost, "/api/budgets", ""},
		{"update budget", func(c *Client) error { _, err := c.UpdateBudget(ctx, "4", body); return err },
			http.MethodPut, "/api/budgets/4", ""},
		{"delete budget", func(c *Client) error { return c.DeleteBudget(ctx, "4") },
			http.MethodDelete, "/api/budgets/4", ""},
		{"list transactions", func(c *Client) error { _, err := c.ListTransactions(ctx, "7"); return err },
			http.MethodGet, "/api/transactions/user/7", ""},
		{"create transaction", func(c *Client) error { _, err := c.CreateTransaction(ctx, body); return err },
			http.MethodPost, "/api/transactions/create", ""},
		{"update transaction", func(c *Client) error { _, err := c.UpdateTransaction(ctx, "9", body); return err },
			http.MethodPut, "/api/transactions/update/9", ""},
		{"delete transaction", func(c *Client) error { return c.DeleteTransaction(ctx, "9") },
			http.MethodDelete, "/api/transactions/delete/9", ""},
		{"list goals", func(c *Client) error { _, err := c.ListGoals(ctx, "7"); return err },
			http.MethodGet, "/api/savings/user/7", ""},
		{"create goal", func(c *Client) error { _, err := c.CreateGoal(ctx, body); return err },
			http.MethodPost, "/api/savings", ""},
		{"update goal", func(c *Client) error { _, err := c.UpdateGoal(ctx, "2", body); return err },
			http.MethodPut, "/api/savings/2", ""},
		{"delete goal", func(c *Client) error { return c.DeleteGoal(ctx, "2") },
			http.MethodDelete, "/api/savings/2", ""},
		{"add funds", func(c *Client) error {
			_, err := c.AddFunds(ctx, "2", decimal.RequireFromString("25.5"))
			return err
		}, http.MethodPut, "/api/savings/2/add-funds", "amount=25.5"},
		{"report", func(c *Client) error {
			req, _ := reports.Build(reports.MonthlyExpenditure, reports.Params{UserID: "7", Month: 3, Year: 2024})
			_, err := c.FetchReport(ctx, req)
			return err
		}, http.MethodGet, "/api/reports/monthly-expenditure", "month=3&userId=7&year=2024"},
		{"login", func(c *Client) error { _, err := c.Login(ctx, body); return err },
			http.MethodPost, "/api/users", ""},
		{"register", func(c *Client) error { _, err := c.Register(ctx, body); return err },
			http.MethodPost, "/api/users/register", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			c := newTestClient(t, rec, Options{})

			require.NoError(t, tt.call(c))
			got := rec.last()
			assert.Equal(t, tt.wantVerb, got.Method)
			assert.Equal(t, tt.wantPath, got.Path)
			assert.Equal(t, tt.wantQuery, got.Query)
		})
	}
}

func TestClient_NonArrayListIsEmpty(t *testing.T) {
	rec := &recorder{reply: func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"message":"no budgets"}`)
	}}
	c := newTestClient(t, rec, Options{})

	items, err := c.ListBudgets(context.Background(), "1")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestClient_EmptyWriteBodyIsNil(t *testing.T) {
	rec := &recorder{reply: func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}}
	c := newTestClient(t, rec, Options{})

	p, err := c.CreateBudget(context.Background(), core.Payload{"name": "Food"})
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestClient_DecodesNumbersExactly(t *testing.T) {
	rec := &recorder{reply: func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id": 12, "amount": 0.1}]`)
	}}
	c := newTestClient(t, rec, Options{})

	items, err := c.ListTransactions(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	row := items[0].(map[string]any)
	assert.Equal(t, json.Number("12"), row["id"])
	assert.Equal(t, json.Number("0.1"), row["amount"])
}

func TestClient_StatusError(t *testing.T) {
	rec := &recorder{reply: func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"Invalid credentials"}`)
	}}
	c := newTestClient(t, rec, Options{RetryMaxElapsed: time.Second})

	_, err := c.Login(context.Background(), core.Payload{"username": "a", "password": "b"})
	require.Error(t, err)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Equal(t, "Invalid credentials", se.Message)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
}

func TestClient_RetriesTemporaryGETFailures(t *testing.T) {
	var calls atomic.Int32
	rec := &recorder{reply: func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `[{"id":1}]`)
	}}
	c := newTestClient(t, rec, Options{RetryMaxElapsed: 5 * time.Second})

	items, err := c.ListGoals(context.Background(), "1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_DoesNotRetry(t *testing.T) {
	tests := []struct {
		name   string
		status int
		call   func(c *Client) error
	}{
		{"client error on GET", http.StatusNotFound, func(c *Client) error {
			_, err := c.ListGoals(context.Background(), "1")
			return err
		}},
		{"server error on write", http.StatusInternalServerError, func(c *Client) error {
			_, err := c.CreateGoal(context.Background(), core.Payload{})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{reply: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}}
			c := newTestClient(t, rec, Options{RetryMaxElapsed: 5 * time.Second})

			err := tt.call(c)
			assert.True(t, IsStatus(err, tt.status))
			assert.Equal(t, 1, rec.count())
		})
	}
}

func TestClient_SetsRequestID(t *testing.T) {
	var got string
	rec := &recorder{reply: func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(requestIDHeader)
		_, _ = io.WriteString(w, "[]")
	}}
	c := newTestClient(t, rec, Options{})

	_, err := c.ListCategories(context.Background())
	require.NoError(t, err)
	_, err = uuid.Parse(got)
	assert.NoError(t, err)
}

func TestClient_CategoryCache(t *testing.T) {
	rec := &recorder{}
	c := newTestClient(t, rec, Options{CategoryCacheTTL: time.Minute})
	ctx := context.Background()

	_, err := c.ListCategories(ctx)
	require.NoError(t, err)
	_, err = c.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.count(), "second listing should be served from cache")

	_, err = c.CreateCategory(ctx, core.Payload{"name": "Rent"})
	require.NoError(t, err)
	_, err = c.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, rec.count(), "write should invalidate the cached listing")
	assert.NotNil(t, c.Cleaner())
}

func TestClient_CategoryCacheSkipsListingOverlappingWrite(t *testing.T) {
	var (
		mu      sync.Mutex
		names   = []string{"Rent"}
		started = make(chan struct{})
		release = make(chan struct{})
		first   atomic.Bool
	)
	rec := &recorder{reply: func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			mu.Lock()
			names = append(names, "Food")
			mu.Unlock()
			_, _ = io.WriteString(w, `{"id":2}`)
			return
		}
		mu.Lock()
		snapshot := slices.Clone(names)
		mu.Unlock()
		if first.CompareAndSwap(false, true) {
			close(started)
			<-release
		}
		out := make([]map[string]any, len(snapshot))
		for i, n := range snapshot {
			out[i] = map[string]any{"id": i + 1, "name": n}
		}
		_ = json.NewEncoder(w).Encode(out)
	}}
	c := newTestClient(t, rec, Options{CategoryCacheTTL: time.Minute})
	ctx := context.Background()

	done := make(chan []any)
	go func() {
		items, err := c.ListCategories(ctx)
		assert.NoError(t, err)
		done <- items
	}()
	<-started
	_, err := c.CreateCategory(ctx, core.Payload{"name": "Food"})
	require.NoError(t, err)
	close(release)
	assert.Len(t, <-done, 1)

	items, err := c.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2, "listing started before the write must not be cached")
	assert.Equal(t, 3, rec.count())
}

func TestEnrichLogin(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 42}).
		SignedString([]byte("not-our-secret"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		user     core.Payload
		username string
		want     core.Payload
	}{
		{
			name:     "numeric username fills every id key",
			user:     core.Payload{"username": "17"},
			username: "17",
			want:     core.Payload{"username": "17", "email": "17", "id": int64(17), "userId": int64(17), "user_id": int64(17)},
		},
		{
			name:     "existing id is kept",
			user:     core.Payload{"id": json.Number("3"), "email": "a@b.c"},
			username: "17",
			want:     core.Payload{"id": json.Number("3"), "email": "a@b.c"},
		},
		{
			name:     "token claim fills a missing id",
			user:     core.Payload{"token": token},
			username: "alice",
			want:     core.Payload{"token": token, "email": "alice", "id": int64(42), "userId": int64(42), "user_id": int64(42)},
		},
		{
			name:     "garbage token is ignored",
			user:     core.Payload{"token": "not.a.jwt"},
			username: "alice",
			want:     core.Payload{"token": "not.a.jwt", "email": "alice"},
		},
		{
			name:     "nil response",
			user:     nil,
			username: "NaN",
			want:     core.Payload{"email": "NaN"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EnrichLogin(tt.user, tt.username))
		})
	}
}

func TestEnrichLoginKeepsResolvedUser(t *testing.T) {
	for _, user := range []core.Payload{
		{"id": json.Number("3")},
		{"userId": "3"},
		{"user": map[string]any{"user_id": 3}},
	} {
		got, ok := identity.Resolve(EnrichLogin(user, "17"))
		require.True(t, ok)
		assert.Equal(t, core.ID("3"), got, "user %v", user)
	}
}
