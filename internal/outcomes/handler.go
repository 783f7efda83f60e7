package outcomes

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"lensrec-backend/internal/lens"
	"lensrec-backend/internal/queue"
	"lensrec-backend/internal/shared/server/respond"
	"lensrec-backend/internal/shared/telemetry"
)

const messageVersion = 1

// Handler accepts real-world outcome feedback. When a queue client is
// configured, feedback is enqueued for the worker; otherwise it is applied
// to the statistics store in-process.
type Handler struct {
	Repo  Repo
	Queue queue.Client
}

// NewHandler constructs a Handler.
func NewHandler(repo Repo, q queue.Client) *Handler {
	return &Handler{Repo: repo, Queue: q}
}

// RegisterRoutes attaches outcome feedback routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/outcomes", h.record)
}

type recordRequest struct {
	ConfigurationKey string `json:"configurationKey"`
	OutcomeType      string `json:"outcomeType"`
}

func (h *Handler) record(c *gin.Context) {
	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	req.ConfigurationKey = strings.TrimSpace(req.ConfigurationKey)
	req.OutcomeType = strings.TrimSpace(req.OutcomeType)

	if _, err := lens.ParseKey(req.ConfigurationKey); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "configurationKey is not a valid lens configuration", nil)
		return
	}
	outcome := OutcomeType(req.OutcomeType)
	if !outcome.Valid() {
		respond.Error(c, http.StatusBadRequest, "validation_error", "outcomeType must be success, non_adapt, or remake", nil)
		return
	}

	requestID := c.GetString("requestId")

	if h.Queue != nil {
		msg := queue.Message{
			ConfigurationKey: req.ConfigurationKey,
			OutcomeType:      req.OutcomeType,
			RequestID:        requestID,
			EnqueuedAt:       time.Now().UTC().Format(time.RFC3339),
			Version:          messageVersion,
		}
		if err := h.Queue.Send(c.Request.Context(), msg); err != nil {
			telemetry.Error("outcomes.enqueue_failed", map[string]any{
				"err":               err.Error(),
				"configuration_key": req.ConfigurationKey,
				"outcome_type":      req.OutcomeType,
				"request_id":        requestID,
			})
			respond.Error(c, http.StatusServiceUnavailable, "enqueue_failed", "unable to queue outcome feedback", nil)
			return
		}
		respond.Accepted(c, gin.H{"status": "queued"})
		return
	}

	if err := h.Repo.RecordOutcome(c.Request.Context(), req.ConfigurationKey, outcome); err != nil {
		if errors.Is(err, ErrInvalidOutcome) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		telemetry.Error("outcomes.record_failed", map[string]any{
			"err":               err.Error(),
			"configuration_key": req.ConfigurationKey,
			"outcome_type":      req.OutcomeType,
			"request_id":        requestID,
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to record outcome", nil)
		return
	}

	respond.Accepted(c, gin.H{"status": "recorded"})
}
