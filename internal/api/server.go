package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pibdash/internal/aggregator"
	"pibdash/internal/config"
	"pibdash/internal/dashboard"
	"pibdash/internal/models"
	"pibdash/internal/security"
	"pibdash/internal/session"
	"pibdash/internal/views"
	"pibdash/internal/web"

	"github.com/gin-gonic/gin"
)

type Server struct {
	router          *gin.Engine
	dashboard       *dashboard.Dashboard
	sessions        *session.Store
	log             *slog.Logger
	port            int
	sessionTTL      time.Duration
	shutdownTimeout time.Duration
	spaServer       *web.SPAServer
	swaggerServer   *web.SwaggerServer
}

func NewServer(dash *dashboard.Dashboard, sessions *session.Store, cfg *config.Config, log *slog.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	// Setup security middleware
	securityConfig := &security.SecurityConfig{
		EnableRateLimit:       cfg.Security.EnableRateLimit,
		RateLimitPerSecond:    cfg.Security.RateLimitPerSecond,
		RateLimitBurst:        cfg.Security.RateLimitBurst,
		EnableCORS:            cfg.Security.EnableCORS,
		AllowedOrigins:        cfg.Security.AllowedOrigins,
		EnableSecurityHeaders: cfg.Security.EnableSecurityHeaders,
		MaxRequestSize:        cfg.Security.MaxRequestSize,
		EnableRequestID:       cfg.Security.EnableRequestID,
	}
	security.SetupSecurityMiddleware(router, securityConfig)

	server := &Server{
		router:          router,
		dashboard:       dash,
		sessions:        sessions,
		log:             log,
		port:            cfg.Port,
		sessionTTL:      cfg.SessionTTL,
		shutdownTimeout: cfg.ShutdownTimeout,
		spaServer:       web.NewSPAServer(cfg.EnableSPA, dash, sessions, cfg.SessionTTL, log),
		swaggerServer:   web.NewSwaggerServer(cfg.EnableSwagger),
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.healthCheck)

	// API routes
	api := s.router.Group("/api/v1")
	api.Use(session.Middleware(s.sessionTTL))
	{
		api.GET("/choices", s.getChoices)
		api.GET("/filters", s.getFilters)
		api.PUT("/filters", s.updateFilters)
		api.POST("/filters/reset", s.resetFilters)

		api.GET("/dashboard", s.getDashboard)
		api.GET("/summary", s.getSummary)
		api.GET("/series", s.getSeries)
		api.GET("/table", s.getTable)
	}

	// Register web interfaces
	s.spaServer.RegisterRoutes(s.router)
	s.swaggerServer.RegisterRoutes(s.router)

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// StartWithContext serves until ctx is cancelled, then shuts the server down
// gracefully within the configured timeout.
func (s *Server) StartWithContext(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down http server", "timeout", s.shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

func (s *Server) healthCheck(c *gin.Context) {
	data := s.dashboard.Dataset()
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"service":  "pibdash",
		"rows":     data.Len(),
		"skipped":  len(data.Skipped()),
		"sessions": s.sessions.Count(),
	})
}

func (s *Server) getChoices(c *gin.Context) {
	c.JSON(http.StatusOK, s.dashboard.Choices())
}

func (s *Server) getFilters(c *gin.Context) {
	c.JSON(http.StatusOK, s.sessions.Get(session.ID(c)))
}

type filterRequest struct {
	Years       []int    `json:"years"`
	Ministries  []string `json:"ministries"`
	Keyword     string   `json:"keyword"`
	Aggregation string   `json:"aggregation"`
}

// updateFilters replaces the session's selections. An omitted aggregation
// keeps the current one.
func (s *Server) updateFilters(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter state: " + err.Error()})
		return
	}

	if err := models.CheckKeyword(req.Keyword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var aggregation models.Granularity
	if req.Aggregation != "" {
		g, err := models.ParseGranularity(req.Aggregation)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		aggregation = g
	}

	state, err := s.sessions.Update(session.ID(c), func(state *models.FilterState) error {
		state.Years = req.Years
		state.Ministries = req.Ministries
		state.Keyword = req.Keyword
		if aggregation != "" {
			state.Aggregation = aggregation
		}
		*state = state.Normalized()
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.log.Debug("filters updated", "session", session.ID(c), "years", state.Years, "ministries", len(state.Ministries), "aggregation", state.Aggregation)
	c.JSON(http.StatusOK, state)
}

func (s *Server) resetFilters(c *gin.Context) {
	c.JSON(http.StatusOK, s.sessions.Reset(session.ID(c)))
}

func (s *Server) getDashboard(c *gin.Context) {
	view, err := s.dashboard.Render(s.sessions.Get(session.ID(c)), views.MatchLanguage(c.GetHeader("Accept-Language")))
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (s *Server) getSummary(c *gin.Context) {
	rows, err := s.dashboard.Filtered(s.sessions.Get(session.ID(c)))
	if err != nil {
		s.renderError(c, err)
		return
	}

	summary := views.Summarize(rows)
	c.JSON(http.StatusOK, gin.H{
		"summary": summary,
		"cards":   views.Cards(summary, views.MatchLanguage(c.GetHeader("Accept-Language"))),
	})
}

// getSeries honours a one-off ?aggregation= override without touching the
// stored selection.
func (s *Server) getSeries(c *gin.Context) {
	state := s.sessions.Get(session.ID(c))
	if raw := c.Query("aggregation"); raw != "" {
		g, err := models.ParseGranularity(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		state.Aggregation = g
	}

	rows, err := s.dashboard.Filtered(state)
	if err != nil {
		s.renderError(c, err)
		return
	}

	series := views.Series(rows, state.Aggregation)
	c.JSON(http.StatusOK, gin.H{
		"aggregation": state.Aggregation,
		"series":      series,
		"count":       len(series),
		"total":       aggregator.Total(series),
	})
}

func (s *Server) getTable(c *gin.Context) {
	rows, err := s.dashboard.Filtered(s.sessions.Get(session.ID(c)))
	if err != nil {
		s.renderError(c, err)
		return
	}

	page, err := views.QueryTable(views.Table(rows), parseTableQuery(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, page)
}

func (s *Server) renderError(c *gin.Context, err error) {
	if errors.Is(err, dashboard.ErrFiltersNotReady) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	s.log.Error("render failed", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// parseTableQuery reads the OData-style table parameters. Numeric values
// were already validated by the security middleware.
func parseTableQuery(c *gin.Context) *models.TableQuery {
	query := &models.TableQuery{
		Filter:  c.Query("$filter"),
		OrderBy: c.Query("$orderby"),
	}

	// Parse search terms (comma-separated)
	if searchStr := c.Query("$search"); searchStr != "" {
		searchTerms := strings.Split(searchStr, ",")
		for i, term := range searchTerms {
			searchTerms[i] = strings.TrimSpace(term)
		}
		query.Search = searchTerms
	}

	if topStr := c.Query("$top"); topStr != "" {
		if top, err := strconv.Atoi(topStr); err == nil {
			query.Top = top
		}
	}

	if skipStr := c.Query("$skip"); skipStr != "" {
		if skip, err := strconv.Atoi(skipStr); err == nil {
			query.Skip = skip
		}
	}

	return query
}
