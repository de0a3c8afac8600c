// Package web serves the request form as a single page and a small JSON API.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/diogo/lgclient/internal/errors"
	"github.com/diogo/lgclient/internal/form"
	"github.com/diogo/lgclient/internal/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	indexTemplate   = "index.html.tmpl"
	shutdownTimeout = 10 * time.Second
)

// DefaultAddr is the listen address when none is configured
const DefaultAddr = "127.0.0.1:8080"

var errInvalidBody = errors.New("invalid request body")

// Server is the web shell around a form.Controller. The controller holds the
// default inputs; each submission runs on a fork of it.
type Server struct {
	addr       string
	engine     *gin.Engine
	controller *form.Controller
	logger     *zap.Logger

	// inflight allows one request at a time across all visitors
	inflight atomic.Bool
}

// Option configures a Server
type Option func(*Server)

// WithAddr sets the listen address
func WithAddr(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithLogger sets the request logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Server bound to controller
func New(controller *form.Controller, opts ...Option) *Server {
	s := &Server{
		addr:       DefaultAddr,
		controller: controller,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	tmpl := template.Must(template.New("").ParseFS(templateFS, "templates/*.tmpl"))

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger), gzip.Gzip(gzip.DefaultCompression))
	r.SetHTMLTemplate(tmpl)

	s.engine = r
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/", s.index)
	s.engine.POST("/", s.submitForm)
	s.engine.GET("/healthz", s.health)

	api := s.engine.Group("/api")
	api.POST("/request", s.apiRequest)
	api.GET("/state", s.state)
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.addr
}

// Start serves until ctx is done, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("web form listening", zap.String("addr", s.addr))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// pageData is the template input of the index page
type pageData struct {
	View         form.View
	LoadingLabel string
}

// render writes the page for view. The key field only ever shows the
// default key, never one supplied by a request.
func (s *Server) render(c *gin.Context, status int, view form.View) {
	view.APIKey = s.controller.Snapshot().APIKey
	c.HTML(status, indexTemplate, pageData{
		View:         view,
		LoadingLabel: form.LabelLoading,
	})
}

func (s *Server) index(c *gin.Context) {
	s.render(c, http.StatusOK, s.controller.Snapshot())
}

// submit runs one request on a fork of the default form, so request inputs
// never reach the shared controller. It returns form.ErrSubmitDisabled
// without a request while another one is in flight.
func (s *Server) submit(ctx context.Context, edit func(*form.Controller)) (form.View, models.Result, error) {
	fork := s.controller.Fork()
	edit(fork)

	if !s.inflight.CompareAndSwap(false, true) {
		view := fork.Snapshot()
		view.State = form.StateError
		view.Error = form.ErrSubmitDisabled.Error()
		return view, models.Failed(form.ErrSubmitDisabled), form.ErrSubmitDisabled
	}
	defer s.inflight.Store(false)

	result, err := fork.Submit(ctx)
	return fork.Snapshot(), result, err
}

// submitForm handles the HTML form post
func (s *Server) submitForm(c *gin.Context) {
	view, _, err := s.submit(c.Request.Context(), func(f *form.Controller) {
		f.SetAPIKey(c.PostForm("api_key"))
		f.SetAssistantID(c.PostForm("assistant_id"))
		f.SetMessageContent(c.PostForm("content"))
	})
	s.render(c, statusForSubmitError(err), view)
}

// apiRequestBody is the JSON body of POST /api/request. Omitted fields keep
// the default form value.
type apiRequestBody struct {
	APIKey      *string `json:"api_key"`
	AssistantID *string `json:"assistant_id"`
	Content     *string `json:"content"`
}

// apiRequest handles the JSON API
func (s *Server) apiRequest(c *gin.Context) {
	var body apiRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, models.Failed(errInvalidBody))
		return
	}

	_, result, err := s.submit(c.Request.Context(), func(f *form.Controller) {
		if body.APIKey != nil {
			f.SetAPIKey(*body.APIKey)
		}
		if body.AssistantID != nil {
			f.SetAssistantID(*body.AssistantID)
		}
		if body.Content != nil {
			f.SetMessageContent(*body.Content)
		}
	})

	switch {
	case err != nil:
		c.JSON(statusForSubmitError(err), result)
	case !result.Success:
		c.JSON(http.StatusBadGateway, result)
	default:
		c.JSON(http.StatusOK, result)
	}
}

// state returns the default form and whether a request is in flight. The API
// key is never included.
func (s *Server) state(c *gin.Context) {
	view := s.controller.Snapshot()
	if s.inflight.Load() {
		view.State = form.StateLoading
		view.Loading = true
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// statusForSubmitError maps a Submit error to an HTTP status
func statusForSubmitError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, form.ErrSubmitDisabled):
		return http.StatusConflict
	case apierrors.IsValidationError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// requestLogger logs each request with zap. Form fields and bodies are never
// logged since they may carry the API key.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
