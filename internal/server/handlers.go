// File: internal/server/handlers.go
package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/qaforge/api/schemas"
	"github.com/xkilldash9x/qaforge/internal/scenario"
	"github.com/xkilldash9x/qaforge/internal/service"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Handlers manages the HTTP request handling for the action server.
type Handlers struct {
	log          *zap.Logger
	svc          *service.Service
	maxBodyBytes int64
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(logger *zap.Logger, svc *service.Service, maxBodyBytes int64) *Handlers {
	if maxBodyBytes <= 0 {
		maxBodyBytes = 1 << 20
	}
	return &Handlers{
		log:          logger.Named("handlers"),
		svc:          svc,
		maxBodyBytes: maxBodyBytes,
	}
}

// RegisterRoutes sets up the routing for the action server.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	// Health check endpoint (unversioned)
	r.Get("/healthz", h.HandleHealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/generate_actions", h.HandleGenerateActions)
		r.Get("/action_examples", h.HandleActionExamples)
	})
}

// HandleHealthCheck confirms the server is responsive.
func (h *Handlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.respondWithJSON(w, http.StatusOK, schemas.HealthResponse{Status: "healthy", Service: schemas.ServiceName})
}

// HandleGenerateActions compiles the posted scenario document into an action sequence.
func (h *Handlers) HandleGenerateActions(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondWithError(w, r, http.StatusRequestEntityTooLarge, fmt.Sprintf("Request body exceeds %d bytes.", tooLarge.Limit))
			return
		}
		h.respondWithError(w, r, http.StatusBadRequest, fmt.Sprintf("Failed to read request body: %v", err))
		return
	}

	var req schemas.GenerateActionsRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.respondWithError(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if req.Scenarios == nil {
		h.respondWithError(w, r, http.StatusBadRequest, "The 'scenarios' object is required.")
		return
	}

	doc := scenario.NewDocument(scenario.FromAny(req.Scenarios))
	res, err := h.svc.Generate(r.Context(), doc, req.TargetURL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTargetURLRequired), errors.Is(err, service.ErrInvalidTargetURL):
			h.respondWithError(w, r, http.StatusBadRequest, err.Error())
		default:
			h.log.Error("Failed to generate actions", zap.Error(err), zap.String("request_id", requestIDFrom(r.Context())))
			h.respondWithError(w, r, http.StatusServiceUnavailable, "Action generation did not complete.")
		}
		return
	}

	h.log.Info("Generated actions",
		zap.String("request_id", requestIDFrom(r.Context())),
		zap.Int("count", len(res.Actions)),
		zap.Bool("degraded", res.Degraded),
	)
	h.respondWithJSON(w, http.StatusOK, schemas.GenerateActionsResponse{
		Actions:  res.Actions,
		Degraded: res.Degraded,
		Count:    len(res.Actions),
	})
}

// HandleActionExamples lists every supported action kind with an example.
func (h *Handlers) HandleActionExamples(w http.ResponseWriter, r *http.Request) {
	h.respondWithJSON(w, http.StatusOK, schemas.ActionExamplesResponse{Examples: service.ActionExamples()})
}

// respondWithError sends a standardized JSON error response.
func (h *Handlers) respondWithError(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	h.respondWithJSON(w, statusCode, schemas.ErrorResponse{
		Error:     message,
		RequestID: requestIDFrom(r.Context()),
	})
}

// respondWithJSON writes data as the JSON response body.
func (h *Handlers) respondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error("Failed to encode response", zap.Error(err))
	}
}
