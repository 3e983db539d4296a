package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/five82/galley/internal/fetch"
	"github.com/five82/galley/internal/logger"
	"github.com/five82/galley/internal/recipe"
	"github.com/five82/galley/internal/state"
)

// Fetcher is the part of fetch.Service the HTTP mirror needs.
type Fetcher interface {
	Fetch(ctx context.Context) *fetch.Attempt
	Current() state.State
}

// ThumbnailLoader returns image bytes for a photo URL.
type ThumbnailLoader interface {
	Load(ctx context.Context, url string) ([]byte, error)
}

// Server mirrors the fetch state and recipe feed over HTTP.
type Server struct {
	router *gin.Engine
	svc    Fetcher
	thumbs ThumbnailLoader
	log    *logger.Logger

	// base outlives individual requests so a refresh is not cancelled when
	// the triggering request returns.
	base context.Context
}

// New builds the router. thumbs may be nil, which disables the thumbnail
// route.
func New(svc Fetcher, thumbs ThumbnailLoader, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	s := &Server{
		router: router,
		svc:    svc,
		thumbs: thumbs,
		log:    log,
		base:   context.Background(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/healthz", s.health)

	api := s.router.Group("/api")
	api.GET("/state", s.getState)
	api.GET("/recipes", s.listRecipes)
	api.GET("/recipes/:id", s.getRecipe)
	api.GET("/recipes/:id/thumbnail", s.getThumbnail)
	api.POST("/refresh", s.refresh)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.base = ctx
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server: listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info("server: shutting down")
	return srv.Shutdown(shutdownCtx)
}

type stateResponse struct {
	Phase               state.Phase     `json:"phase"`
	Error               string          `json:"error,omitempty"`
	Kind                state.ErrorKind `json:"kind,omitempty"`
	Attempt             string          `json:"attempt,omitempty"`
	UpdatedAt           *time.Time      `json:"updated_at,omitempty"`
	Recipes             int             `json:"recipes"`
	ConsecutiveFailures int             `json:"consecutive_failures"`
	Version             uint64          `json:"version"`
}

func newStateResponse(st state.State) stateResponse {
	resp := stateResponse{
		Phase:               st.Phase,
		Error:               st.Err,
		Kind:                st.Kind,
		Attempt:             st.Attempt,
		Recipes:             len(st.Feed),
		ConsecutiveFailures: st.ConsecutiveFailures,
		Version:             st.Version,
	}
	if resp.Phase == "" {
		resp.Phase = state.Idle
	}
	if !st.UpdatedAt.IsZero() {
		t := st.UpdatedAt
		resp.UpdatedAt = &t
	}
	return resp
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) getState(c *gin.Context) {
	c.JSON(http.StatusOK, newStateResponse(s.svc.Current()))
}

// listRecipes answers with the same envelope the upstream feed uses, filtered
// by the optional cuisine and q parameters.
func (s *Server) listRecipes(c *gin.Context) {
	st := s.svc.Current()
	if !st.HasFeed() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "recipes not loaded",
			"state": newStateResponse(st),
		})
		return
	}

	cuisine := strings.TrimSpace(c.Query("cuisine"))
	query := strings.ToLower(strings.TrimSpace(c.Query("q")))

	out := make(recipe.Feed, 0, len(st.Feed))
	for _, r := range st.Feed {
		if cuisine != "" && !strings.EqualFold(r.Cuisine, cuisine) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(r.Name), query) {
			continue
		}
		out = append(out, r)
	}
	c.JSON(http.StatusOK, gin.H{"recipes": out})
}

func (s *Server) getRecipe(c *gin.Context) {
	r, ok := s.svc.Current().Feed.Find(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) getThumbnail(c *gin.Context) {
	if s.thumbs == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "thumbnails disabled"})
		return
	}
	r, ok := s.svc.Current().Feed.Find(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	url := r.ThumbnailURL()
	if url == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe has no photo"})
		return
	}
	data, err := s.thumbs.Load(c.Request.Context(), url)
	if err != nil {
		s.log.Warn("server: thumbnail for %s: %v", r.ID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, http.DetectContentType(data), data)
}

// refresh starts a fetch. With ?wait=true it blocks until the attempt
// settles and returns the terminal state.
func (s *Server) refresh(c *gin.Context) {
	attempt := s.svc.Fetch(s.base)

	if c.Query("wait") != "true" {
		c.JSON(http.StatusAccepted, gin.H{"attempt": attempt.ID()})
		return
	}

	st, err := attempt.Wait(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusGatewayTimeout, gin.H{"attempt": attempt.ID(), "error": err.Error()})
		return
	}
	code := http.StatusOK
	if st.Phase == state.Failed {
		code = http.StatusBadGateway
	}
	c.JSON(code, newStateResponse(st))
}

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("server: %s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
