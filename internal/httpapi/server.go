package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/docker/go-units"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"resourced/internal/blob"
	"resourced/internal/common/fsutil"
	"resourced/internal/manager"
	"resourced/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	StatusAll() types.StatusResponse
	Status(name string) (types.ResourceStatus, error)
	Load(ctx context.Context, name string, force bool) (types.ResourceStatus, error)
	Register(name, kind string, estCostBytes int64, b manager.Builder) error
	Deregister(name string) error
	Unload(name string) (bool, error)
	Optimize() int
}

// registerRequest is the POST /resources payload. Cost takes a human size
// string ("2GiB"); CostBytes wins when both are set.
type registerRequest struct {
	types.Resource
	Cost string `json:"cost,omitempty"`
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	r.Use(requestLogger)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/resources", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, types.ResourcesResponse{Resources: svc.StatusAll().Resources})
	})

	r.Post("/resources", func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			writeJSONError(w, http.StatusBadRequest, "name is required")
			return
		}
		if strings.TrimSpace(req.Path) == "" {
			writeJSONError(w, http.StatusBadRequest, "path is required")
			return
		}
		path, err := fsutil.ExpandHome(req.Path)
		if err != nil || !fsutil.PathExists(path) {
			writeJSONError(w, http.StatusBadRequest, "path does not exist: "+req.Path)
			return
		}
		kind := req.Kind
		if kind == "" {
			kind = "blob"
		}
		cost := req.CostBytes
		if cost <= 0 && req.Cost != "" {
			cost, err = units.RAMInBytes(req.Cost)
			if err != nil {
				writeJSONError(w, http.StatusBadRequest, "bad cost: "+req.Cost)
				return
			}
		}
		if cost <= 0 {
			cost = fsutil.FileSize(path)
		}
		if err := svc.Register(req.Name, kind, cost, blob.Builder(path)); err != nil {
			if manager.IsAlreadyRegistered(err) {
				writeJSONError(w, http.StatusConflict, err.Error())
				return
			}
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		st, err := svc.Status(req.Name)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(st)
	})

	r.Get("/resources/{name}", func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.Status(chi.URLParam(r, "name"))
		if err != nil {
			writeJSONError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, st)
	})

	r.Post("/resources/{name}/load", func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		force := r.URL.Query().Get("force") == "1"
		st, err := svc.Load(r.Context(), name, force)
		if err != nil {
			// Client disconnected while waiting; nothing to report.
			if r.Context().Err() != nil && errors.Is(err, r.Context().Err()) {
				return
			}
			switch {
			case manager.IsNotRegistered(err):
				writeJSONError(w, http.StatusNotFound, err.Error())
			case manager.IsAdmissionDenied(err):
				reason := string(manager.DenyReasonOf(err))
				incrementLoadReject(reason)
				writeAdmissionDenied(w, err.Error(), reason)
			default:
				// Construction failures and anything unexpected.
				writeJSONError(w, http.StatusInternalServerError, err.Error())
			}
			return
		}
		writeJSON(w, st)
	})

	r.Post("/resources/{name}/unload", func(w http.ResponseWriter, r *http.Request) {
		ok, err := svc.Unload(chi.URLParam(r, "name"))
		if err != nil {
			writeJSONError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, types.UnloadResponse{Unloaded: ok})
	})

	r.Delete("/resources/{name}", func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Deregister(chi.URLParam(r, "name")); err != nil {
			writeJSONError(w, http.StatusNotFound, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Post("/optimize", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, types.OptimizeResponse{Unloaded: svc.Optimize()})
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.StatusAll())
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}
