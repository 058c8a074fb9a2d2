package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sparkmatch/engine/internal/database"
	"github.com/sparkmatch/engine/internal/domain"
	"github.com/sparkmatch/engine/internal/logging"
	"github.com/sparkmatch/engine/internal/matching"
	"github.com/sparkmatch/engine/internal/metrics"
	"github.com/sparkmatch/engine/internal/moderation"
)

const readyCheckTimeout = 2 * time.Second

// Evaluator screens outbound messages.
type Evaluator interface {
	Evaluate(ctx context.Context, senderID, text string) (*moderation.Result, error)
}

// SettingsService reads and writes platform settings.
type SettingsService interface {
	Current(ctx context.Context) domain.PlatformSettings
	Update(ctx context.Context, settings *domain.PlatformSettings) error
}

// AlertDirectory serves the moderation alert dashboard.
type AlertDirectory interface {
	List(ctx context.Context, status string) ([]*domain.ModerationAlert, error)
	Resolve(ctx context.Context, id string) error
}

// FlagReader reads user violation records.
type FlagReader interface {
	Get(ctx context.Context, userID string) (*domain.UserFlag, error)
}

// StatsReader reads aggregate moderation stats.
type StatsReader interface {
	Get(ctx context.Context) (*domain.ModerationStats, error)
}

// Pinger reports backing-store liveness for readiness checks.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler handles HTTP requests for the engine API.
type Handler struct {
	ranker   *matching.Ranker
	pipeline Evaluator
	settings SettingsService
	alerts   AlertDirectory
	flags    FlagReader
	stats    StatsReader
	db       Pinger
	metrics  *metrics.Metrics
	logger   logging.Logger
	service  string
	version  string
}

// HandlerConfig wires the handler's dependencies.
type HandlerConfig struct {
	Ranker   *matching.Ranker
	Pipeline Evaluator
	Settings SettingsService
	Alerts   AlertDirectory
	Flags    FlagReader
	Stats    StatsReader
	DB       Pinger
	Metrics  *metrics.Metrics
	Logger   logging.Logger
	Service  string
	Version  string
}

// NewHandler creates a new API handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		ranker:   cfg.Ranker,
		pipeline: cfg.Pipeline,
		settings: cfg.Settings,
		alerts:   cfg.Alerts,
		flags:    cfg.Flags,
		stats:    cfg.Stats,
		db:       cfg.DB,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
		service:  cfg.Service,
		version:  cfg.Version,
	}
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": h.service,
		"version": h.version,
	})
}

// ReadyCheck handles GET /ready. Ready means the database answers a ping.
func (h *Handler) ReadyCheck(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyCheckTimeout)
		defer cancel()

		if err := h.db.PingContext(ctx); err != nil {
			h.logger.Warn("readiness check failed", logging.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// RankMatches handles POST /api/v1/matches/rank.
func (h *Handler) RankMatches(c *gin.Context) {
	var req RankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid rank request", logging.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if h.metrics != nil {
		h.metrics.RankRequests.Inc()
	}

	weights, err := h.resolveWeights(c.Request.Context(), req.Weights)
	if err != nil {
		// Malformed weights never hide behind defaults: the caller gets
		// the candidates back unranked, in request order.
		h.logger.Warn("Rank request with invalid weights",
			logging.String("requester_id", req.Requester.ID),
			logging.Error(err),
		)
		c.JSON(http.StatusOK, RankResponse{
			Candidates: unrankedCandidates(req.Candidates),
			Ranked:     false,
			Error:      err.Error(),
		})
		return
	}

	start := time.Now()
	scored := h.ranker.Rank(req.Requester, req.Candidates, weights)
	if h.metrics != nil {
		h.metrics.RankLatency.Observe(time.Since(start).Seconds())
	}

	candidates := make([]RankedCandidate, len(scored))
	for i, s := range scored {
		candidates[i] = RankedCandidate{
			Profile:        s.Profile,
			GeoScore:       s.GeoScore,
			InterestScore:  s.InterestScore,
			CompositeScore: s.CompositeScore,
		}
	}

	c.JSON(http.StatusOK, RankResponse{
		Candidates: candidates,
		Ranked:     true,
		Weights:    weights,
	})
}

// resolveWeights picks the weights for one ranking request: request weights
// when supplied, platform settings otherwise.
func (h *Handler) resolveWeights(ctx context.Context, raw *RawWeights) (domain.RankingWeights, error) {
	if raw == nil {
		return h.settings.Current(ctx).Weights.Clamped(), nil
	}
	return matching.WeightsFromPayload(raw.Geo, raw.Interest)
}

// normalizeKeywords lowercases and trims phrases, dropping empties, so the
// stored list matches what the filter will scan for.
func normalizeKeywords(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if normalized := strings.ToLower(strings.TrimSpace(p)); normalized != "" {
			out = append(out, normalized)
		}
	}
	return out
}

func unrankedCandidates(profiles []domain.Profile) []RankedCandidate {
	candidates := make([]RankedCandidate, len(profiles))
	for i, p := range profiles {
		candidates[i] = RankedCandidate{Profile: p}
	}
	return candidates
}

// EvaluateMessage handles POST /api/v1/moderation/evaluate.
func (h *Handler) EvaluateMessage(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid evaluate request", logging.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.pipeline.Evaluate(c.Request.Context(), req.UserID, req.Text)
	if err != nil && !errors.Is(err, moderation.ErrEscalationIncomplete) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := EvaluateResponse{
		Blocked:           result.Blocked(),
		EscalationPending: err != nil,
	}
	if result.Blocked() {
		resp.Message = fmt.Sprintf("Message blocked: %s", result.Decision.Reason)
		resp.Categories = result.Decision.Categories
		resp.AlertID = result.Alert.ID
	}

	c.JSON(http.StatusOK, resp)
}

// ListAlerts handles GET /api/v1/moderation/alerts.
func (h *Handler) ListAlerts(c *gin.Context) {
	status := c.Query("status")
	if status != "" && status != domain.AlertStatusNew && status != domain.AlertStatusResolved {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown status %q", status)})
		return
	}

	alerts, err := h.alerts.List(c.Request.Context(), status)
	if err != nil {
		h.logger.Error("Failed to list alerts", logging.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := AlertsListResponse{Alerts: make([]AlertResponse, len(alerts)), Total: len(alerts)}
	for i, alert := range alerts {
		resp.Alerts[i] = alertResponse(alert)
	}
	c.JSON(http.StatusOK, resp)
}

// ResolveAlert handles POST /api/v1/moderation/alerts/:id/resolve.
func (h *Handler) ResolveAlert(c *gin.Context) {
	id := c.Param("id")

	if err := h.alerts.Resolve(c.Request.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to resolve alert",
			logging.String("alert_id", id),
			logging.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.logger.Info("Alert resolved", logging.String("alert_id", id))
	c.JSON(http.StatusOK, gin.H{"status": "resolved", "id": id})
}

// GetUserFlags handles GET /api/v1/moderation/flags/:user_id.
func (h *Handler) GetUserFlags(c *gin.Context) {
	userID := c.Param("user_id")

	flag, err := h.flags.Get(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get user flags",
			logging.String("user_id", userID),
			logging.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, UserFlagResponse{
		UserID:      flag.UserID,
		FlagCount:   flag.FlagCount,
		UnderReview: flag.UnderReview,
		UpdatedAt:   flag.UpdatedAt,
	})
}

// GetStats handles GET /api/v1/moderation/stats.
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.stats.Get(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get moderation stats", logging.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, StatsResponse{
		ThreatsBlocked: stats.ThreatsBlocked,
		UpdatedAt:      stats.UpdatedAt,
	})
}

// GetSettings handles GET /api/v1/settings.
func (h *Handler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, settingsResponse(h.settings.Current(c.Request.Context())))
}

// UpdateSettings handles PUT /api/v1/settings. Omitted fields keep their
// current value; weights are clamped into range rather than rejected.
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid settings update", logging.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	current := h.settings.Current(c.Request.Context())
	if req.GeoWeight != nil {
		current.Weights.Geo = *req.GeoWeight
	}
	if req.InterestWeight != nil {
		current.Weights.Interest = *req.InterestWeight
	}
	current.Weights = current.Weights.Clamped()
	if req.ModerationEnabled != nil {
		current.ModerationEnabled = *req.ModerationEnabled
	}
	if req.BannedKeywords != nil {
		current.BannedKeywords = normalizeKeywords(*req.BannedKeywords)
	}

	if err := h.settings.Update(c.Request.Context(), &current); err != nil {
		h.logger.Error("Failed to update settings", logging.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.logger.Info("Platform settings updated",
		logging.Int("geo_weight", current.Weights.Geo),
		logging.Int("interest_weight", current.Weights.Interest),
		logging.Bool("moderation_enabled", current.ModerationEnabled),
		logging.Int("banned_keywords", len(current.BannedKeywords)),
	)
	c.JSON(http.StatusOK, settingsResponse(current))
}
