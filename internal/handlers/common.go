package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/lehigh-university-libraries/marcextract/internal/cataloging"
)

// DefaultMaxUploadBytes caps uploaded documents at 10MB
const DefaultMaxUploadBytes int64 = 10 * 1024 * 1024

type Handler struct {
	catalogingService *cataloging.Service
	maxUploadBytes    int64
	logger            *slog.Logger
}

// New returns a Handler; maxUploadBytes <= 0 selects DefaultMaxUploadBytes
func New(service *cataloging.Service, maxUploadBytes int64, logger *slog.Logger) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		catalogingService: service,
		maxUploadBytes:    maxUploadBytes,
		logger:            logger,
	}
}

// Routes mounts the API on a chi router
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/", h.HandleRoot)
	r.Get("/healthcheck", h.HandleHealthcheck)
	r.Post("/extract", h.HandleExtract)

	return r
}

func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	h.writeText(w, "API running")
}

func (h *Handler) HandleHealthcheck(w http.ResponseWriter, r *http.Request) {
	h.writeText(w, "OK")
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(body)); err != nil {
		h.logger.Error("Unable to write response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, message string, code int) {
	h.logger.Error(message, "status", code, "request_id", middleware.GetReqID(r.Context()))
	http.Error(w, message, code)
}
