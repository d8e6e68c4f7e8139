package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/giftlane/relevance/internal/domain"
	"github.com/giftlane/relevance/internal/domain/search/request"
	logpkg "github.com/giftlane/relevance/internal/logger"
	cataloguc "github.com/giftlane/relevance/internal/usecase/catalog"
	healthuc "github.com/giftlane/relevance/internal/usecase/health"
	searchuc "github.com/giftlane/relevance/internal/usecase/search"
)

const maxBatchSize = 100

// Error codes returned in error response bodies.
const (
	codeBadRequest      = "bad_request"
	codeValidation      = "validation_failed"
	codeItemNotFound    = "item_not_found"
	codeDimMismatch     = "vector_dim_mismatch"
	codeProviderError   = "embedding_provider_error"
	codeInternalError   = "internal_error"
	codeUnauthorized    = "unauthorized"
	codePayloadTooLarge = "payload_too_large"
)

// preferenceWriter is the slice of the preference store the API needs.
type preferenceWriter interface {
	Set(ctx context.Context, userID string, vec []float32) error
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server wires the use case services to the HTTP routes.
type Server struct {
	search        *searchuc.Service
	catalog       *cataloguc.Service
	prefs         preferenceWriter
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	catalog *cataloguc.Service,
	prefs preferenceWriter,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:  search,
		catalog: catalog,
		prefs:   prefs,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, codeValidation),
		sentinelHandler(domain.ErrItemNotFound, http.StatusNotFound, codeItemNotFound),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, codeDimMismatch),
		sentinelHandler(domain.ErrExternalService, http.StatusBadGateway, codeProviderError),
	}
	return s
}

// Routes mounts all API handlers on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/v1/search", s.handleSearch)
	r.Put("/v1/items/{id}", s.handleUpsertItem)
	r.Post("/v1/items", s.handleBatchUpsert)
	r.Get("/v1/items/{id}", s.handleGetItem)
	r.Delete("/v1/items/{id}", s.handleDeleteItem)
	r.Put("/v1/users/{id}/preference", s.handleSetPreference)
	r.Get("/healthz", s.handleHealth)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var body searchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	req, err := request.New(body.Query, body.Options.toDomain())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponseFromDomain(resp))
}

func (s *Server) handleUpsertItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body itemRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	it, err := s.catalog.Upsert(r.Context(), cataloguc.ItemInput{
		ID:          id,
		Title:       body.Title,
		Description: body.Description,
		Price:       body.Price,
		Category:    body.Category,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, itemResponse{
		ID:          it.ID(),
		Title:       it.Title(),
		Description: it.Description(),
		Price:       it.Price(),
		Category:    it.Category(),
	})
}

func (s *Server) handleBatchUpsert(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Items []struct {
			ID string `json:"id"`
			itemRequest
		} `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(body.Items) == 0 {
		writeError(w, http.StatusBadRequest, codeValidation, "items must not be empty")
		return
	}
	if len(body.Items) > maxBatchSize {
		writeError(w, http.StatusRequestEntityTooLarge, codePayloadTooLarge, "too many items in one batch")
		return
	}

	inputs := make([]cataloguc.ItemInput, len(body.Items))
	for i, it := range body.Items {
		inputs[i] = cataloguc.ItemInput{
			ID:          it.ID,
			Title:       it.Title,
			Description: it.Description,
			Price:       it.Price,
			Category:    it.Category,
		}
	}

	items, err := s.catalog.BatchUpsert(r.Context(), inputs)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	out := make([]itemResponse, len(items))
	for i, it := range items {
		out[i] = itemResponse{
			ID:          it.ID(),
			Title:       it.Title(),
			Description: it.Description(),
			Price:       it.Price(),
			Category:    it.Category(),
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	it, err := s.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, itemResponse{
		ID:          it.ID(),
		Title:       it.Title(),
		Description: it.Description(),
		Price:       it.Price(),
		Category:    it.Category(),
	})
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetPreference(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	var body preferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := s.prefs.Set(r.Context(), userID, body.Embedding); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	writeJSON(w, httpStatus, map[string]any{
		"status": string(report.Status),
		"checks": checks,
	})
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logpkg.FromContext(r.Context(), s.logger)
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			logger.Warn("request failed", zap.Error(err))
			return
		}
	}
	logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// safeDomainMessage maps an error to a client-visible message without
// leaking internals. Sentinel chains keep their full text.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrValidation,
		domain.ErrItemNotFound,
		domain.ErrVectorDimMismatch,
		domain.ErrExternalService,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return err.Error()
		}
	}
	return "internal error"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
