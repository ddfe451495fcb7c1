package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"ProductsAPI/pkg/kit"
)

const (
	ServiceName = "products-api"
	Version     = "1.0.0"

	// TimestampLayout is ISO-8601 in UTC with microsecond precision.
	TimestampLayout = "2006-01-02T15:04:05.000000Z"

	apiPrefix = "/api/v1/products"
)

type Server struct {
	Store Store
	Log   *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time

	validate *validator.Validate
	// apiMiddleware wraps only the product routes, never the probes.
	apiMiddleware []func(http.Handler) http.Handler
}

func NewServer(store Store, log *zap.Logger) *Server {
	return &Server{Store: store, Log: log}
}

func (s *Server) Routes() http.Handler {
	if s.Log == nil {
		s.Log = zap.NewNop()
	}
	if s.Now == nil {
		s.Now = time.Now
	}
	s.validate = newValidator()

	r := chi.NewRouter()

	r.Get("/", s.root)
	r.Get("/health", s.health)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.ready)

	r.Route(apiPrefix, func(r chi.Router) {
		r.Use(s.apiMiddleware...)

		r.Get("/", s.list)
		r.Post("/", s.create)
		r.Get("/category/{category}", s.listByCategory)
		r.Get("/{id}", s.get)
		r.Delete("/{id}", s.delete)
	})

	return r
}

func (s *Server) timestamp() string {
	return s.Now().UTC().Format(TimestampLayout)
}

func (s *Server) root(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Products API - Kubernetes Demo",
		"version": Version,
		"endpoints": map[string]string{
			"health":               "/health",
			"products":             apiPrefix,
			"product_by_id":        apiPrefix + "/{id}",
			"products_by_category": apiPrefix + "/category/{category}",
		},
		"timestamp": s.timestamp(),
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"service":   ServiceName,
		"timestamp": s.timestamp(),
	})
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()

	if err := s.Store.Ping(ctx); err != nil {
		s.Log.Warn("readyz failed", zap.Error(err))
		kit.WriteDetail(w, http.StatusServiceUnavailable, "not ready")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	products, err := s.Store.List(r.Context())
	if err != nil {
		s.serverError(w, "list products failed", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, products)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	p, err := s.Store.Get(r.Context(), id)
	switch {
	case errors.Is(err, ErrNotFound):
		kit.WriteDetail(w, http.StatusNotFound, fmt.Sprintf("Product with id %d not found", id))
	case err != nil:
		s.serverError(w, "get product failed", err, zap.Int("id", id))
	default:
		kit.WriteJSON(w, http.StatusOK, p)
	}
}

func (s *Server) listByCategory(w http.ResponseWriter, r *http.Request) {
	category, err := pathCategory(r)
	if err != nil {
		kit.WriteValidation(w, []kit.ValidationIssue{{
			Loc:  []any{"path", "category"},
			Msg:  "Input should be a valid percent-encoded string",
			Type: "string_type",
		}})
		return
	}

	products, err := s.Store.ListByCategory(r.Context(), category)
	switch {
	case errors.Is(err, ErrNotFound):
		kit.WriteDetail(w, http.StatusNotFound, fmt.Sprintf("No products found in category '%s'", category))
	case err != nil:
		s.serverError(w, "list by category failed", err, zap.String("category", category))
	default:
		kit.WriteJSON(w, http.StatusOK, products)
	}
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	p, issues := decodeProduct(w, r, s.validate)
	if issues != nil {
		s.Log.Debug("rejected product body", zap.Any("issues", issues))
		kit.WriteValidation(w, issues)
		return
	}

	created, err := s.Store.Create(r.Context(), p)
	switch {
	case errors.Is(err, ErrConflict):
		kit.WriteDetail(w, http.StatusBadRequest, fmt.Sprintf("Product with id %d already exists", p.ID))
	case err != nil:
		s.serverError(w, "create product failed", err, zap.Int("id", p.ID))
	default:
		s.Log.Info("product created", zap.Int("id", created.ID))
		kit.WriteJSON(w, http.StatusCreated, created)
	}
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	err := s.Store.Delete(r.Context(), id)
	switch {
	case errors.Is(err, ErrNotFound):
		kit.WriteDetail(w, http.StatusNotFound, fmt.Sprintf("Product with id %d not found", id))
	case err != nil:
		s.serverError(w, "delete product failed", err, zap.Int("id", id))
	default:
		s.Log.Info("product deleted", zap.Int("id", id))
		kit.WriteJSON(w, http.StatusOK, map[string]string{
			"message": fmt.Sprintf("Product %d deleted successfully", id),
		})
	}
}

func (s *Server) serverError(w http.ResponseWriter, msg string, err error, fields ...zap.Field) {
	s.Log.Error(msg, append(fields, zap.Error(err))...)
	kit.WriteDetail(w, http.StatusInternalServerError, "Internal Server Error")
}

// pathCategory decodes {category}. chi routes on RawPath when Go keeps one
// (non-canonical escapes such as %2F or lowercase hex), leaving the
// parameter escaped; otherwise it is already decoded.
func pathCategory(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "category")
	if r.URL.RawPath == "" {
		return raw, nil
	}
	return url.PathUnescape(raw)
}

// pathID writes a 422 and returns false when {id} is not an integer.
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		kit.WriteValidation(w, []kit.ValidationIssue{{
			Loc:  []any{"path", "product_id"},
			Msg:  "Input should be a valid integer, unable to parse string as an integer",
			Type: "int_parsing",
		}})
		return 0, false
	}
	return id, true
}
