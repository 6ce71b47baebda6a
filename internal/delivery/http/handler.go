package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/cartwise/backend/internal/domain"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// MatchService is the pipeline surface the HTTP layer depends on
type MatchService interface {
	Categories(ctx context.Context, storeID string) ([]domain.Category, error)
	Propose(ctx context.Context, query, storeID string) ([]domain.GeneratedCategory, error)
	Match(ctx context.Context, query, storeID string) (*domain.MatchResponse, error)
}

// HistoryService stores and lists per-user queries
type HistoryService interface {
	Record(ctx context.Context, userID, storeID, query string, response *domain.MatchResponse) (*domain.HistoryRecord, error)
	List(ctx context.Context, userID string) ([]domain.HistoryRecord, error)
}

// IdentifierValidator checks and normalizes the ids a request carries
type IdentifierValidator interface {
	ValidateUserID(userID string) (string, error)
	ValidateStoreID(storeID string) (string, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	matcher MatchService
	history HistoryService
	ids     IdentifierValidator
}

// NewHandler creates a new HTTP handler.
// history may be nil, in which case queries are not recorded and the
// history endpoint answers 501.
func NewHandler(matcher MatchService, history HistoryService, ids IdentifierValidator) *Handler {
	return &Handler{
		matcher: matcher,
		history: history,
		ids:     ids,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "cartwise-backend",
		"version": "1.0.0",
	})
}

// StoreCategories lists the categories of one store
func (h *Handler) StoreCategories(c *gin.Context) {
	categories, err := h.matcher.Categories(c.Request.Context(), c.Param("storeId"))
	if err != nil {
		writeError(c, err)
		return
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GenerateCategories runs the proposal stage only
func (h *Handler) GenerateCategories(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be JSON with query and store_id"})
		return
	}

	generated, err := h.matcher.Propose(c.Request.Context(), req.Query, req.StoreID)
	if err != nil {
		writeError(c, err)
		return
	}
	if generated == nil {
		generated = []domain.GeneratedCategory{}
	}
	c.JSON(http.StatusOK, gin.H{"all_generated_categories": generated})
}

// MatchProducts runs the full pipeline and, when a user id is supplied,
// records the query in the user's history before answering.
func (h *Handler) MatchProducts(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be JSON with query and store_id"})
		return
	}

	if req.UserID != "" {
		if _, err := h.ids.ValidateUserID(req.UserID); err != nil {
			writeError(c, err)
			return
		}
	}

	ctx := c.Request.Context()
	response, err := h.matcher.Match(ctx, req.Query, req.StoreID)
	if err != nil {
		writeError(c, err)
		return
	}

	body := toMatchResponse(response)
	if req.UserID != "" && h.history != nil {
		h.recordQuery(ctx, &req, response, &body)
	}

	c.JSON(http.StatusOK, body)
}

// recordQuery stores a matched query under the store id the pipeline resolved
func (h *Handler) recordQuery(ctx context.Context, req *queryRequest, response *domain.MatchResponse, body *matchResponse) {
	storeID, err := h.ids.ValidateStoreID(req.StoreID)
	if err != nil {
		log.Warnf("[HISTORY] not recording query for user %s: %v", req.UserID, err)
		return
	}

	record, err := h.history.Record(ctx, req.UserID, storeID, req.Query, response)
	if err != nil {
		// a failed history write does not fail the match
		log.Warnf("[HISTORY] failed to record query for user %s: %v", req.UserID, err)
		return
	}
	body.QueryID = record.ID
}

// UserQueries lists a user's stored queries
func (h *Handler) UserQueries(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "query history is disabled"})
		return
	}

	records, err := h.history.List(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"queries": records})
}

// writeError maps domain errors onto HTTP status codes
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrHistoryNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrRateLimited):
		status, message = http.StatusTooManyRequests, err.Error()
	case errors.Is(err, domain.ErrCatalogUnavailable), errors.Is(err, domain.ErrCacheUnavailable):
		status, message = http.StatusServiceUnavailable, "backing store unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		status, message = http.StatusGatewayTimeout, "request timed out"
	}

	if status >= http.StatusInternalServerError {
		log.Errorf("[HTTP] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": message})
}
