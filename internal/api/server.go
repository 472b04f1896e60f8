// Package api is the HTTP boundary. All validation happens here; the
// parser itself is total and the handlers only decide which envelope to
// return.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/eventwire/internal/config"
	"github.com/sells-group/eventwire/internal/fetch"
	"github.com/sells-group/eventwire/internal/model"
	"github.com/sells-group/eventwire/internal/parser"
	"github.com/sells-group/eventwire/internal/store"
)

// Error codes carried in the error envelope.
const (
	codeUnsupportedMedia = "UNSUPPORTED_MEDIA_TYPE"
	codeBadJSON          = "BAD_JSON"
	codeInvalidInput     = "INVALID_INPUT"
	codePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	codeUnauthorized     = "UNAUTHORIZED"
	codeForbidden        = "FORBIDDEN"
	codeNotFound         = "NOT_FOUND"
	codeFetchFailed      = "FETCH_FAILED"
	codeInternal         = "INTERNAL"
)

// Server wires the parser, fetcher, and optional store behind chi.
type Server struct {
	cfg     config.Server
	parser  *parser.Parser
	fetcher *fetch.Fetcher
	store   store.Store // nil disables persistence
}

// New builds a Server. st may be nil.
func New(cfg config.Server, p *parser.Parser, f *fetch.Fetcher, st store.Store) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if cfg.MaxTextLength <= 0 {
		cfg.MaxTextLength = model.MaxTextLength
	}
	return &Server{cfg: cfg, parser: p, fetcher: f, store: st}
}

// Router assembles the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post("/parse", s.handleParse)
		r.Post("/feedback", s.handleFeedback)
	})

	return r
}

// ListenAndServe runs the server until ctx is cancelled, then drains
// in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	zap.L().Info("api: listening", zap.Int("port", s.cfg.Port))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// logRequests emits one structured line per request.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("api: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// requireAuth enforces bearer auth when an API key is configured.
// 401 for a missing or malformed header, 403 for a wrong key.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.APIKey == "" {
			next.ServeHTTP(w, r)
			return
		}
		auth := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "bearer token required", nil)
			return
		}
		if token != s.cfg.APIKey {
			writeError(w, http.StatusForbidden, codeForbidden, "invalid API key", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req model.ParseRequest
	if !s.readJSON(w, r, &req) {
		return
	}

	if req.Text != "" && req.URL != "" {
		writeError(w, http.StatusUnprocessableEntity, codeInvalidInput, "text and url are mutually exclusive", nil)
		return
	}

	version := req.SchemaVersion
	if version == "" {
		version = model.SchemaV1
	}
	if !version.IsValid() {
		writeError(w, http.StatusUnprocessableEntity, codeInvalidInput, "schema_version must be v1 or v2", map[string]any{
			"schema_version": req.SchemaVersion,
		})
		return
	}

	text := req.Text
	sourceURL := ""
	if req.URL != "" {
		res, err := s.fetcher.Fetch(r.Context(), req.URL)
		if err != nil {
			s.writeFetchError(w, err)
			return
		}
		text = res.Text
		sourceURL = res.URL
	}

	if strings.TrimSpace(text) == "" {
		writeError(w, http.StatusUnprocessableEntity, codeInvalidInput, "text must be non-empty", nil)
		return
	}
	if !utf8.ValidString(text) {
		writeError(w, http.StatusUnprocessableEntity, codeInvalidInput, "text must be valid UTF-8", nil)
		return
	}
	if len(text) > s.cfg.MaxTextLength {
		writeError(w, http.StatusRequestEntityTooLarge, codePayloadTooLarge, "text exceeds maximum length", map[string]any{
			"max_length": s.cfg.MaxTextLength,
			"length":     len(text),
		})
		return
	}

	result := s.parser.Parse(r.Context(), text, version, req.Deterministic)

	body, err := json.Marshal(result)
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to encode result", nil)
		return
	}

	if runID := s.persistRun(req, sourceURL, text, result, body); runID != "" {
		w.Header().Set("X-Parse-Id", runID)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// persistRun records the run asynchronously and returns its id. Store
// failures never affect the response.
func (s *Server) persistRun(req model.ParseRequest, sourceURL, text string, result *model.ParseResult, body []byte) string {
	if s.store == nil {
		return ""
	}
	run := &store.ParseRun{
		ID:            uuid.New().String(),
		InputID:       req.InputID,
		SourceURL:     sourceURL,
		Text:          text,
		Response:      json.RawMessage(body),
		SchemaVersion: string(result.SchemaVersion),
		ModelVersion:  result.ModelVersion,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.store.SaveParseRun(ctx, run); err != nil {
			zap.L().Warn("api: failed to persist parse run", zap.Error(err))
		}
	}()
	return run.ID
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, codeNotFound, "feedback requires a configured store", nil)
		return
	}

	var req model.FeedbackRequest
	if !s.readJSON(w, r, &req) {
		return
	}
	if len(req.Expected) == 0 {
		writeError(w, http.StatusUnprocessableEntity, codeInvalidInput, "expected must be non-empty", nil)
		return
	}
	if req.ParseID == "" && req.InputID == "" {
		writeError(w, http.StatusUnprocessableEntity, codeInvalidInput, "parse_id or input_id is required", nil)
		return
	}

	expected, err := json.Marshal(req.Expected)
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to encode expected fields", nil)
		return
	}

	fb := &store.Feedback{
		InputID:  req.InputID,
		Expected: expected,
		Notes:    req.Notes,
	}
	if req.ParseID != "" {
		fb.ParseRunID = &req.ParseID
	}

	if err := s.store.SaveFeedback(r.Context(), fb); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, codeNotFound, "unknown parse_id", map[string]any{"parse_id": req.ParseID})
			return
		}
		zap.L().Error("api: failed to save feedback", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to save feedback", nil)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": fb.ID})
}

// readJSON decodes a JSON body with the content-type, size, and syntax
// checks the envelope contract requires. Returns false when it already
// wrote an error.
func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(r.Header.Get("Content-Type"), ";", 2)[0]))
	if contentType != "application/json" {
		writeError(w, http.StatusUnsupportedMediaType, codeUnsupportedMedia, "Content-Type must be application/json", nil)
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, codePayloadTooLarge, "request body too large", map[string]any{
				"max_bytes": s.cfg.MaxBodyBytes,
			})
			return false
		}
		writeError(w, http.StatusBadRequest, codeBadJSON, "request body is not valid JSON", nil)
		return false
	}
	return true
}

func (s *Server) writeFetchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fetch.ErrBlocked):
		writeError(w, http.StatusUnprocessableEntity, codeInvalidInput, "url is not fetchable", nil)
	case errors.Is(err, fetch.ErrTooLarge):
		writeError(w, http.StatusUnprocessableEntity, codeInvalidInput, "fetched document too large", nil)
	case errors.Is(err, fetch.ErrUnsupportedContentType):
		writeError(w, http.StatusUnprocessableEntity, codeInvalidInput, "fetched document is not text", nil)
	default:
		zap.L().Warn("api: fetch failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, codeFetchFailed, "failed to fetch url", nil)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("api: failed to write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, code, message string, details map[string]any) {
	writeJSON(w, status, model.ErrorEnvelope{Error: model.ErrorObject{
		Code:    code,
		Message: message,
		Details: details,
	}})
}
