package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appanalyses "github.com/nutriscan/nutriscan-api/internal/application/analyses"
	domain "github.com/nutriscan/nutriscan-api/internal/domain/analyses"
	"github.com/nutriscan/nutriscan-api/internal/middleware"
)

type Router struct {
	svc *appanalyses.Service
}

func NewRouter(svc *appanalyses.Service, allowedOrigins []string, checkers map[string]middleware.HealthChecker) http.Handler {
	r := &Router{svc: svc}
	mux := chi.NewRouter()

	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	if len(allowedOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"*"},
		}))
	}

	mux.Get("/health", middleware.HealthHandler(checkers))
	mux.Get("/livez", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1", func(rt chi.Router) {
		rt.Post("/analyses", r.handleSubmit)
		rt.Get("/analyses", r.wrap(r.handleList))
		rt.Delete("/analyses", r.wrap(r.handleDelete))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var sioe *domain.StoreIOError
			if errors.As(err, &sioe) {
				log.Printf("store failure: %v", err)
				writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "storage unavailable"})
				return
			}
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		}
	}
}

// POST /v1/analyses
// Multipart body with one "image" field. Failure bodies follow the
// canonical shapes so clients never special-case a missing record.
func (r *Router) handleSubmit(w http.ResponseWriter, req *http.Request) {
	file, header, err := req.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "no file uploaded"})
		return
	}
	defer file.Close()

	// +1 so the service can tell an at-limit payload from an oversized one
	data, err := io.ReadAll(io.LimitReader(file, appanalyses.MaxImageBytes+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "unreadable file upload"})
		return
	}

	rec, err := r.svc.Submit(req.Context(), appanalyses.SubmitCommand{
		Image:       data,
		MIMEType:    header.Header.Get("Content-Type"),
		Fingerprint: middleware.Fingerprint(req),
	})
	if err != nil {
		r.writeSubmitError(w, err)
		return
	}

	middleware.IncrementAnalyses()
	writeJSON(w, http.StatusOK, rec)
}

func (r *Router) writeSubmitError(w http.ResponseWriter, err error) {
	var rle *domain.RateLimitedError
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &rle):
		middleware.IncrementRateLimited()
		writeJSON(w, http.StatusTooManyRequests, map[string]any{
			"error":     "rate limit exceeded, please try again later",
			"resetTime": rle.ResetTime,
		})
	case errors.As(err, &ve):
		status := http.StatusBadRequest
		if ve.TooLarge {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, map[string]any{"error": ve.Error()})
	default:
		// extraction or model-call failure: log it, answer with the
		// schema-valid placeholder record
		log.Printf("error analyzing image: %v", err)
		middleware.IncrementAnalysesFailed()
		writeJSON(w, http.StatusInternalServerError, appanalyses.ErrorRecord())
	}
}

// GET /v1/analyses?limit=&offset=&productName=
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	page, err := r.svc.List(req.Context(), domain.ListQuery{
		Limit:       middleware.QueryInt(req, "limit", 10),
		Offset:      middleware.QueryInt(req, "offset", 0),
		ProductName: req.URL.Query().Get("productName"),
	})
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, page)
	return nil
}

// DELETE /v1/analyses?scanId=
func (r *Router) handleDelete(w http.ResponseWriter, req *http.Request) error {
	scanID := req.URL.Query().Get("scanId")
	if scanID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "scanId is required"})
		return nil
	}

	removed, err := r.svc.Delete(req.Context(), domain.ScanID(scanID))
	if err != nil {
		return err
	}
	if !removed {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "analysis not found"})
		return nil
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":       "analysis deleted",
		"deletedScanId": scanID,
	})
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}
