// Package fakeapi serves the six backend services from one in-memory store.
// Records keep each service's own field spelling, so a client pointed at it
// sees the same naming disagreements as against the real services.
package fakeapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"finboard/internal/core"
	"finboard/internal/identity"
	"finboard/internal/log"
	"finboard/internal/remote"
	"finboard/internal/remote/memory"
	"finboard/internal/reports"
)

// Options configures the fake services.
type Options struct {
	// Store backs every service. Nil means a freshly seeded memory store.
	Store     remote.Backend
	JWTSecret string
	TokenTTL  time.Duration
	Logger    *log.Logger

	// RequestsPerMinute limits each client address. Zero disables the
	// limit.
	RequestsPerMinute int
}

// Server wires the gin routes for all services.
type Server struct {
	store   remote.Backend
	tokens  *TokenService
	logger  *log.Logger
	engine  *gin.Engine
	http    *http.Server
	limiter *limiter
}

// New builds the router.
func New(opts Options) *Server {
	store := opts.Store
	if store == nil {
		store = memory.NewSeeded()
	}
	secret := opts.JWTSecret
	if secret == "" {
		secret = "finboard-dev-secret"
	}
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		store:  store,
		tokens: NewTokenService(secret, ttl),
		logger: log.OrNop(opts.Logger).WithComponent(log.ComponentFakeAPI),
		engine: gin.New(),
	}
	s.engine.Use(gin.Recovery(), trace(s.logger))
	if opts.RequestsPerMinute > 0 {
		s.limiter = newLimiter(opts.RequestsPerMinute, 0)
		s.engine.Use(s.limiter.middleware())
	}
	s.routes()
	return s
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Tokens exposes the token service used for login.
func (s *Server) Tokens() *TokenService {
	return s.tokens
}

func (s *Server) routes() {
	r := s.engine
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	categories := api.Group("/categories")
	categories.GET("", s.listCategories)
	categories.POST("", s.write(s.store.CreateCategory))
	categories.PUT("/:id", s.update(s.store.UpdateCategory))
	categories.DELETE("/:id", s.remove(s.store.DeleteCategory))

	budgets := api.Group("/budgets")
	budgets.GET("", s.listBudgets)
	budgets.POST("", s.write(s.store.CreateBudget))
	budgets.PUT("/:id", s.update(s.store.UpdateBudget))
	budgets.DELETE("/:id", s.remove(s.store.DeleteBudget))

	transactions := api.Group("/transactions")
	transactions.GET("/user/:id", s.listOwned(s.store.ListTransactions))
	transactions.POST("/create", s.write(s.store.CreateTransaction))
	transactions.PUT("/update/:id", s.update(s.store.UpdateTransaction))
	transactions.DELETE("/delete/:id", s.remove(s.store.DeleteTransaction))

	savings := api.Group("/savings")
	savings.GET("/user/:id", s.listOwned(s.store.ListGoals))
	savings.POST("", s.write(s.store.CreateGoal))
	savings.PUT("/:id", s.update(s.store.UpdateGoal))
	savings.PUT("/:id/add-funds", s.addFunds)
	savings.DELETE("/:id", s.remove(s.store.DeleteGoal))

	api.GET("/reports/:type", s.report)

	users := api.Group("/users")
	users.POST("", s.login)
	users.POST("/register", s.register)
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}
	s.logger.Info("Fake API listening", "addr", addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// Shutdown stops the listener started by Start.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.close()
	}
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := err.Error()
	switch {
	case errors.Is(err, core.ErrNotFound), errors.Is(err, memory.ErrUnknownReport):
		status = http.StatusNotFound
	case errors.Is(err, memory.ErrInvalidCredentials):
		status, msg = http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, memory.ErrUserExists):
		status = http.StatusConflict
	case errors.Is(err, memory.ErrMissingField):
		status = http.StatusBadRequest
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func bind(c *gin.Context) (core.Payload, bool) {
	var p core.Payload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return nil, false
	}
	return p, true
}

func (s *Server) listCategories(c *gin.Context) {
	items, err := s.store.ListCategories(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) listBudgets(c *gin.Context) {
	owner := c.Query("user_id")
	if owner == "" {
		owner = c.Query("userId")
	}
	items, err := s.store.ListBudgets(c.Request.Context(), core.ID(owner))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

type listFunc func(ctx context.Context, owner core.ID) ([]any, error)

func (s *Server) listOwned(fn listFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := fn(c.Request.Context(), core.ID(c.Param("id")))
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

type createFunc func(ctx context.Context, p core.Payload) (core.Payload, error)

func (s *Server) write(fn createFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := bind(c)
		if !ok {
			return
		}
		out, err := fn(c.Request.Context(), p)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, out)
	}
}

type updateFunc func(ctx context.Context, id core.ID, p core.Payload) (core.Payload, error)

func (s *Server) update(fn updateFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := bind(c)
		if !ok {
			return
		}
		out, err := fn(c.Request.Context(), core.ID(c.Param("id")), p)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

type deleteFunc func(ctx context.Context, id core.ID) error

func (s *Server) remove(fn deleteFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := fn(c.Request.Context(), core.ID(c.Param("id"))); err != nil {
			s.fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (s *Server) addFunds(c *gin.Context) {
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil || !amount.IsPositive() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "amount must be a positive number"})
		return
	}
	out, err := s.store.AddFunds(c.Request.Context(), core.ID(c.Param("id")), amount)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) report(c *gin.Context) {
	req := reports.Request{
		Selector: reports.Selector(c.Param("type")),
		Path:     "/" + c.Param("type"),
		Query:    c.Request.URL.Query(),
	}
	out, err := s.store.FetchReport(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// login answers with the store's user object plus a signed token.
func (s *Server) login(c *gin.Context) {
	p, ok := bind(c)
	if !ok {
		return
	}
	out, err := s.store.Login(c.Request.Context(), p)
	if err != nil {
		s.fail(c, err)
		return
	}
	if id := identity.Numeric(out); id != nil {
		token, err := s.tokens.GenerateToken(*id)
		if err != nil {
			s.fail(c, err)
			return
		}
		out["token"] = token
	}
	s.logger.InfoContext(c.Request.Context(), "User logged in", log.FieldOperation, log.OpLogin)
	c.JSON(http.StatusOK, out)
}

func (s *Server) register(c *gin.Context) {
	p, ok := bind(c)
	if !ok {
		return
	}
	out, err := s.store.Register(c.Request.Context(), p)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// Addr formats a listen address for port.
func Addr(port string) string {
	if _, err := strconv.Atoi(port); err == nil {
		return ":" + port
	}
	return port
}
