package rest

import (
	"context"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"

	"finboard/internal/core"
	"finboard/internal/identity"
	"finboard/internal/reports"
)

func join(base string, parts ...string) string {
	u := strings.TrimRight(base, "/")
	for _, p := range parts {
		u += "/" + url.PathEscape(p)
	}
	return u
}

// Categories

func (c *Client) ListCategories(ctx context.Context) ([]any, error) {
	if c.categories != nil {
		if items, ok := c.categories.Get(categoriesKey); ok {
			return items, nil
		}
	}
	version := c.categoryVersion()
	v, err := c.get(ctx, c.endpoints.Category)
	if err != nil {
		return nil, err
	}
	items := list(v)
	if c.categories != nil {
		c.catMu.Lock()
		if c.catVersion == version {
			c.categories.Set(categoriesKey, items)
		}
		c.catMu.Unlock()
	}
	return items, nil
}

func (c *Client) categoryVersion() uint64 {
	c.catMu.Lock()
	defer c.catMu.Unlock()
	return c.catVersion
}

func (c *Client) invalidateCategories() {
	if c.categories == nil {
		return
	}
	c.catMu.Lock()
	defer c.catMu.Unlock()
	c.catVersion++
	c.categories.Delete(categoriesKey)
}

func (c *Client) CreateCategory(ctx context.Context, p core.Payload) (core.Payload, error) {
	defer c.invalidateCategories()
	return c.write(ctx, http.MethodPost, c.endpoints.Category, p)
}

func (c *Client) UpdateCategory(ctx context.Context, id core.ID, p core.Payload) (core.Payload, error) {
	defer c.invalidateCategories()
	return c.write(ctx, http.MethodPut, join(c.endpoints.Category, id.String()), p)
}

func (c *Client) DeleteCategory(ctx context.Context, id core.ID) error {
	defer c.invalidateCategories()
	return c.remove(ctx, join(c.endpoints.Category, id.String()))
}

// Budgets

func (c *Client) ListBudgets(ctx context.Context, user core.ID) ([]any, error) {
	v, err := c.get(ctx, c.endpoints.Budget+"?"+url.Values{"user_id": {user.String()}}.Encode())
	if err != nil {
		return nil, err
	}
	return list(v), nil
}

func (c *Client) CreateBudget(ctx context.Context, p core.Payload) (core.Payload, error) {
	return c.write(ctx, http.MethodPost, c.endpoints.Budget, p)
}

func (c *Client) UpdateBudget(ctx context.Context, id core.ID, p core.Payload) (core.Payload, error) {
	return c.write(ctx, http.MethodPut, join(c.endpoints.Budget, id.String()), p)
}

func (c *Client) DeleteBudget(ctx context.Context, id core.ID) error {
	return c.remove(ctx, join(c.endpoints.Budget, id.String()))
}

// Transactions

func (c *Client) ListTransactions(ctx context.Context, user core.ID) ([]any, error) {
	v, err := c.get(ctx, join(c.endpoints.Transaction, "user", user.String()))
	if err != nil {
		return nil, err
	}
	return list(v), nil
}

func (c *Client) CreateTransaction(ctx context.Context, p core.Payload) (core.Payload, error) {
	return c.write(ctx, http.MethodPost, join(c.endpoints.Transaction, "create"), p)
}

func (c *Client) UpdateTransaction(ctx context.Context, id core.ID, p core.Payload) (core.Payload, error) {
	return c.write(ctx, http.MethodPut, join(c.endpoints.Transaction, "update", id.String()), p)
}

func (c *Client) DeleteTransaction(ctx context.Context, id core.ID) error {
	return c.remove(ctx, join(c.endpoints.Transaction, "delete", id.String()))
}

// Savings

func (c *Client) ListGoals(ctx context.Context, user core.ID) ([]any, error) {
	v, err := c.get(ctx, join(c.endpoints.Savings, "user", user.String()))
	if err != nil {
		return nil, err
	}
	return list(v), nil
}

func (c *Client) CreateGoal(ctx context.Context, p core.Payload) (core.Payload, error) {
	return c.write(ctx, http.MethodPost, c.endpoints.Savings, p)
}

func (c *Client) UpdateGoal(ctx context.Context, id core.ID, p core.Payload) (core.Payload, error) {
	return c.write(ctx, http.MethodPut, join(c.endpoints.Savings, id.String()), p)
}

func (c *Client) DeleteGoal(ctx context.Context, id core.ID) error {
	return c.remove(ctx, join(c.endpoints.Savings, id.String()))
}

func (c *Client) AddFunds(ctx context.Context, id core.ID, amount decimal.Decimal) (core.Payload, error) {
	u := join(c.endpoints.Savings, id.String(), "add-funds") + "?" + url.Values{"amount": {amount.String()}}.Encode()
	return c.write(ctx, http.MethodPut, u, nil)
}

// Reports

func (c *Client) FetchReport(ctx context.Context, req reports.Request) (any, error) {
	return c.get(ctx, req.URL(strings.TrimRight(c.endpoints.Report, "/")))
}

// Users

// Login posts the credentials and enriches the answer so that the current
// user can be resolved even when the service omits the id.
func (c *Client) Login(ctx context.Context, p core.Payload) (core.Payload, error) {
	user, err := c.write(ctx, http.MethodPost, c.endpoints.User, p)
	if err != nil {
		return nil, err
	}
	username, _ := p["username"].(string)
	return EnrichLogin(user, username), nil
}

func (c *Client) Register(ctx context.Context, p core.Payload) (core.Payload, error) {
	return c.write(ctx, http.MethodPost, join(c.endpoints.User, "register"), p)
}

var loginIDKeys = []string{"id", "userId", "user_id"}

// EnrichLogin returns a copy of user with the email defaulted to the
// username and missing id keys filled, first from the user_id claim of a
// "token" JWT and then from a numeric username. The token is decoded
// without verifying its signature.
func EnrichLogin(user core.Payload, username string) core.Payload {
	out := make(core.Payload, len(user)+4)
	for k, v := range user {
		out[k] = v
	}
	if s, _ := out["email"].(string); s == "" {
		out["email"] = username
	}

	if _, ok := identity.Resolve(out); !ok {
		if id, ok := tokenUserID(out["token"]); ok {
			fillMissing(out, id)
		}
	}
	if _, ok := identity.Resolve(out); !ok {
		if n, err := strconv.ParseFloat(strings.TrimSpace(username), 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
			fillMissing(out, core.IDFromFloat(n))
		}
	}
	return out
}

func fillMissing(p core.Payload, id core.ID) {
	var v any = id.String()
	if n, ok := id.Int64(); ok {
		v = n
	}
	for _, key := range loginIDKeys {
		if p[key] == nil {
			p[key] = v
		}
	}
}

func tokenUserID(v any) (core.ID, bool) {
	raw, ok := v.(string)
	if !ok || raw == "" {
		return "", false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return "", false
	}
	return core.IDOf(claims["user_id"])
}
