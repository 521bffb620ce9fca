package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"youtrack_sync/internal/config"
	"youtrack_sync/internal/logger"
	"youtrack_sync/internal/model"
	"youtrack_sync/internal/service/youtrack"
	"youtrack_sync/internal/sync"
)

// SyncHandler exposes the sync routine over HTTP
type SyncHandler struct {
	syncer *sync.Syncer
}

// NewSyncHandler creates a handler delegating to the given syncer
func NewSyncHandler(syncer *sync.Syncer) *SyncHandler {
	return &SyncHandler{syncer: syncer}
}

// SyncRequest is the body of POST /integrations/youtrack/open-sync.
// Either board_url or the (youtrack_base_url, agile_id, sprint_id) triple
// must be supplied; both paths resolve to the same normalized inputs.
type SyncRequest struct {
	ProjectID string `json:"project_id"`

	BoardURL string `json:"board_url"`

	BaseURL  string `json:"youtrack_base_url"`
	AgileID  string `json:"agile_id"`
	SprintID string `json:"sprint_id"`

	Token string `json:"youtrack_token"`

	StateField string `json:"state_field"`
	OpenValue  string `json:"open_value"`

	DryRun bool `json:"dry_run"`
}

// HandleOpenSync runs a sync and renders its summary as JSON
func (h *SyncHandler) HandleOpenSync(c *gin.Context) {
	log := logger.GetLogger()

	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to parse sync request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project_id: " + err.Error()})
		return
	}
	if req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing youtrack_token"})
		return
	}

	base, agileID, sprintID, err := resolveBoard(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg := config.Get()
	stateField := req.StateField
	if stateField == "" {
		stateField = cfg.StateField
	}
	openValue := req.OpenValue
	if openValue == "" {
		openValue = cfg.OpenValue
	}

	summary, err := h.syncer.Run(c.Request.Context(), sync.Options{
		ProjectID:  projectID,
		BaseURL:    base,
		Token:      req.Token,
		AgileID:    agileID,
		SprintID:   sprintID,
		StateField: stateField,
		OpenValue:  openValue,
		DryRun:     req.DryRun,
	})
	if err != nil {
		log.Error("sync failed", zap.Error(err))
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// resolveBoard turns the request into a normalized (base, agile, sprint)
// triple, preferring board_url when present
func resolveBoard(req *SyncRequest) (*url.URL, string, string, error) {
	if req.BoardURL != "" {
		return youtrack.ParseBoardURL(req.BoardURL)
	}

	if req.BaseURL == "" {
		return nil, "", "", errors.New("missing youtrack_base_url")
	}
	if req.AgileID == "" {
		return nil, "", "", errors.New("missing agile_id")
	}
	if req.SprintID == "" {
		return nil, "", "", errors.New("missing sprint_id")
	}

	base, err := youtrack.ParseBase(req.BaseURL)
	if err != nil {
		return nil, "", "", err
	}
	return base, req.AgileID, req.SprintID, nil
}

// statusFor maps sync failures onto response codes: client mistakes are
// 400s, tracker-side trouble is a 502, everything else is a 500
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrUpstream), errors.Is(err, model.ErrDecode):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewRouter builds the gin engine serving the sync endpoint
func NewRouter(h *SyncHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/integrations/youtrack/open-sync", h.HandleOpenSync)

	return router
}
