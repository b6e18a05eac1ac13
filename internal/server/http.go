package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quizbank/internal/config"
	"github.com/gokatarajesh/quizbank/internal/logging"
	"github.com/gokatarajesh/quizbank/internal/question"
	httperrors "github.com/gokatarajesh/quizbank/pkg/http/errors"
)

// Dependencies are the optional backing stores checked by /v1/ping.
type Dependencies struct {
	Pool     *pgxpool.Pool
	Redis    *redis.Client
	Gatherer prometheus.Gatherer
}

// NewHTTPServer wires the question bank API for the rendering layer.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, svc *question.Service, deps Dependencies) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewHandler(logger, svc, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewHandler builds the route table.
func NewHandler(logger zerolog.Logger, svc *question.Service, deps Dependencies) http.Handler {
	h := &questionHandler{
		svc:    svc,
		logger: logger.With().Str("component", "question_http").Logger(),
	}
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if deps.Gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	} else {
		mux.Handle("/metrics", promhttp.Handler())
	}

	mux.HandleFunc("/v1/ping", func(w http.ResponseWriter, r *http.Request) {
		if dep, err := pingDependencies(r.Context(), deps.Pool, deps.Redis); err != nil {
			logger.Error().Err(err).Str("dependency", dep).Msg("dependency ping failed")
			httperrors.RespondServiceUnavailable(w, "dependency unavailable", map[string]interface{}{"dependency": dep})
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"pong": true})
	})

	mux.HandleFunc("GET /v1/run", h.latestRun)
	mux.HandleFunc("GET /v1/modules", h.listModules)
	mux.HandleFunc("GET /v1/modules/{module}/questions", h.moduleQuestions)
	mux.HandleFunc("GET /v1/questions/{id}", h.getQuestion)
	mux.HandleFunc("POST /v1/questions/{id}/grade", h.grade)

	return withLogger(mux, logger)
}

type questionHandler struct {
	svc    *question.Service
	logger zerolog.Logger
}

type gradeRequest struct {
	Response string `json:"response"`
}

func (h *questionHandler) latestRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.svc.LatestRun(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (h *questionHandler) listModules(w http.ResponseWriter, r *http.Request) {
	modules, err := h.svc.Modules(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, modules)
}

func (h *questionHandler) moduleQuestions(w http.ResponseWriter, r *http.Request) {
	qs, err := h.svc.ModuleQuestions(r.Context(), r.PathValue("module"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, qs)
}

func (h *questionHandler) getQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := h.svc.Question(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *questionHandler) grade(w http.ResponseWriter, r *http.Request) {
	var req gradeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "request body must be JSON with a response field")
		return
	}

	v, err := h.svc.Grade(r.Context(), r.PathValue("id"), req.Response)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *questionHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, question.ErrNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeQuestionNotFound, "question not found")
	case errors.Is(err, question.ErrUnknownModule):
		httperrors.RespondNotFound(w, httperrors.ErrCodeModuleNotFound, "module not found")
	case errors.Is(err, question.ErrNoRun):
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "no extraction run recorded")
	case errors.Is(err, question.ErrMissingResponse):
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, err.Error(), "response")
	case errors.Is(err, question.ErrInvalidResponse):
		httperrors.RespondValidationError(w, httperrors.ErrCodeInvalidResponse, err.Error(), "response")
	default:
		h.logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		httperrors.RespondInternalError(w, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func withLogger(next http.Handler, logger zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(logging.IntoContext(r.Context(), logger)))
		logger.Debug().Str("method", r.Method).Str("path", r.URL.Path).Dur("elapsed", time.Since(start)).Msg("request served")
	})
}

// pingDependencies returns the name of the first store that fails to answer.
func pingDependencies(ctx context.Context, pool *pgxpool.Pool, redis *redis.Client) (string, error) {
	if pool != nil {
		if err := pool.Ping(ctx); err != nil {
			return "postgres", err
		}
	}
	if redis != nil {
		if err := redis.Ping(ctx).Err(); err != nil {
			return "redis", err
		}
	}
	return "", nil
}
