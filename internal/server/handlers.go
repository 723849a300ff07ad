package server

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/haeun/fitcoach-go/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/haeun/fitcoach-go/internal/domain"
	"github.com/haeun/fitcoach-go/internal/service/trainer"
	"go.uber.org/zap"
)

// PlanService runs the generation pipeline for the authenticated user.
type PlanService interface {
	GeneratePlanAndInsights(ctx context.Context, userID string) (*domain.PlanInsights, error)
}

// Store is the persistence surface the handlers need.
type Store interface {
	SaveOnboarding(ctx context.Context, record *domain.Onboarding) error
	GetOnboarding(ctx context.Context, userID string) (*domain.Onboarding, error)
	DeleteOnboarding(ctx context.Context, userID string) error
	HasCompletedOnboarding(ctx context.Context, userID string) (bool, error)
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, sessionID, userID string) (*domain.Session, error)
	GetSessionSets(ctx context.Context, sessionID string) ([]domain.SetLog, error)
	LogSet(ctx context.Context, set *domain.SetLog) error
	CompleteSession(ctx context.Context, sessionID string) error
	InsertFeedback(ctx context.Context, feedback *domain.Feedback) error
}

// CommentCache memoizes prebuilt coach comment tracks per session. May be
// nil; the track is cheap to rebuild.
type CommentCache interface {
	GetCoachComments(ctx context.Context, sessionID string) ([]domain.CoachComment, bool)
	SetCoachComments(ctx context.Context, sessionID string, comments []domain.CoachComment)
	FlushSession(ctx context.Context, sessionID string)
}

type Handler struct {
	plans  PlanService
	store  Store
	cache  CommentCache
	logger *zap.Logger
}

func NewHandler(plans PlanService, store Store, cache CommentCache, logger *zap.Logger) *Handler {
	return &Handler{plans: plans, store: store, cache: cache, logger: logger}
}

func (h *Handler) respondError(c *gin.Context, err error) {
	if appErr, ok := apperrors.FromError(err); ok {
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{"message": appErr.Message, "code": appErr.Code},
		})
		return
	}
	h.logger.Error("Unhandled request error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{"message": "internal error", "code": apperrors.CodeService},
	})
}

// POST /v1/plan/generate
func (h *Handler) GeneratePlan(c *gin.Context) {
	insights, err := h.plans.GeneratePlanAndInsights(c.Request.Context(), userID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, insights)
}

type commentsRequest struct {
	SessionID   string            `json:"sessionId"`
	Profile     domain.Profile    `json:"profile"`
	Plan        []domain.Exercise `json:"plan"`
	DurationMin int               `json:"durationMin"`
	Goal        string            `json:"goal"`
}

// POST /v1/plan/comments
func (h *Handler) CoachComments(c *gin.Context) {
	var req commentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.NewValidationError("invalid request body", "body", err.Error()))
		return
	}
	if len(req.Plan) == 0 {
		h.respondError(c, apperrors.NewValidationError("plan must not be empty", "plan", nil))
		return
	}

	ctx := c.Request.Context()
	if req.SessionID != "" && h.cache != nil {
		if cached, ok := h.cache.GetCoachComments(ctx, req.SessionID); ok {
			c.JSON(http.StatusOK, gin.H{"comments": cached})
			return
		}
	}

	comments := trainer.BuildCoachComments(&req.Profile, req.Plan, req.DurationMin, req.Goal)
	if req.SessionID != "" && h.cache != nil {
		h.cache.SetCoachComments(ctx, req.SessionID, comments)
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

type createSessionRequest struct {
	Goal        string            `json:"goal"`
	Modality    string            `json:"modality"`
	DurationMin int               `json:"durationMin"`
	Plan        []domain.Exercise `json:"plan"`
	HealthFacts []domain.Fact     `json:"healthFacts"`
	Citations   []domain.Citation `json:"citations"`
}

// POST /v1/sessions
func (h *Handler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.NewValidationError("invalid request body", "body", err.Error()))
		return
	}
	if len(req.Plan) == 0 {
		h.respondError(c, apperrors.NewValidationError("plan must not be empty", "plan", nil))
		return
	}

	session := &domain.Session{
		ID:          domain.NewID("session"),
		UserID:      userID(c),
		Goal:        req.Goal,
		Modality:    req.Modality,
		DurationMin: req.DurationMin,
		Status:      domain.SessionGenerated,
		Plan:        req.Plan,
		HealthFacts: req.HealthFacts,
		Citations:   req.Citations,
	}
	if err := h.store.CreateSession(c.Request.Context(), session); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": session.ID})
}

// ownedSession loads the session and hides foreign ones behind 404.
func (h *Handler) ownedSession(c *gin.Context) (*domain.Session, bool) {
	session, err := h.store.GetSession(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		h.respondError(c, err)
		return nil, false
	}
	if session == nil {
		h.respondError(c, apperrors.NewNotFoundError("Session not found", "session"))
		return nil, false
	}
	return session, true
}

type logSetRequest struct {
	ExerciseID      string   `json:"exerciseId"`
	SetIndex        int      `json:"setIndex"`
	WeightKg        *float64 `json:"weightKg"`
	Reps            *int     `json:"reps"`
	RPE             *float64 `json:"rpe"`
	DurationSec     *int     `json:"durationSec"`
	DistanceM       *float64 `json:"distanceM"`
	Notes           string   `json:"notes"`
	CompleteSession bool     `json:"completeSession"`
}

// POST /v1/sessions/:id/sets
func (h *Handler) LogSet(c *gin.Context) {
	var req logSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.NewValidationError("invalid request body", "body", err.Error()))
		return
	}
	if req.ExerciseID == "" {
		h.respondError(c, apperrors.NewValidationError("exerciseId is required", "exerciseId", nil))
		return
	}
	if req.SetIndex < 0 {
		h.respondError(c, apperrors.NewValidationError("setIndex must not be negative", "setIndex", req.SetIndex))
		return
	}

	session, ok := h.ownedSession(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	err := h.store.LogSet(ctx, &domain.SetLog{
		SessionID:   session.ID,
		ExerciseID:  req.ExerciseID,
		SetIndex:    req.SetIndex,
		WeightKg:    req.WeightKg,
		Reps:        req.Reps,
		RPE:         req.RPE,
		DurationSec: req.DurationSec,
		DistanceM:   req.DistanceM,
		Notes:       req.Notes,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	if req.CompleteSession {
		if err := h.store.CompleteSession(ctx, session.ID); err != nil {
			h.respondError(c, err)
			return
		}
		if h.cache != nil {
			h.cache.FlushSession(ctx, session.ID)
		}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// POST /v1/sessions/:id/complete
func (h *Handler) CompleteSession(c *gin.Context) {
	session, ok := h.ownedSession(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := h.store.CompleteSession(ctx, session.ID); err != nil {
		h.respondError(c, err)
		return
	}
	if h.cache != nil {
		h.cache.FlushSession(ctx, session.ID)
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type feedbackRequest struct {
	Text string `json:"text"`
}

// POST /v1/sessions/:id/feedback
func (h *Handler) SessionFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
		h.respondError(c, apperrors.NewValidationError("text is required", "text", nil))
		return
	}

	session, ok := h.ownedSession(c)
	if !ok {
		return
	}
	err := h.store.InsertFeedback(c.Request.Context(), &domain.Feedback{
		SessionID: session.ID,
		UserID:    session.UserID,
		Text:      req.Text,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /v1/sessions/:id
func (h *Handler) GetSession(c *gin.Context) {
	session, ok := h.ownedSession(c)
	if !ok {
		return
	}
	sets, err := h.store.GetSessionSets(c.Request.Context(), session.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if sets == nil {
		sets = []domain.SetLog{}
	}
	c.JSON(http.StatusOK, gin.H{"session": session, "sets": sets})
}

type onboardingRequest struct {
	domain.Profile
	TrackPeriod bool `json:"trackPeriod"`
}

// PUT /v1/onboarding
func (h *Handler) SaveOnboarding(c *gin.Context) {
	var req onboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.NewValidationError("invalid request body", "body", err.Error()))
		return
	}
	if req.Name == "" || req.Goal == "" {
		h.respondError(c, apperrors.NewValidationError("name and goal are required", "profile", nil))
		return
	}
	if err := req.Profile.Validate(); err != nil {
		var fieldErr *domain.FieldError
		if errors.As(err, &fieldErr) {
			h.respondError(c, apperrors.NewValidationError(err.Error(), fieldErr.Field, fieldErr.Value))
			return
		}
		h.respondError(c, apperrors.NewValidationError(err.Error(), "profile", nil))
		return
	}

	record := &domain.Onboarding{
		UserID:      userID(c),
		Profile:     req.Profile,
		TrackPeriod: req.TrackPeriod,
	}
	if err := h.store.SaveOnboarding(c.Request.Context(), record); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /v1/onboarding
func (h *Handler) GetOnboarding(c *gin.Context) {
	record, err := h.store.GetOnboarding(c.Request.Context(), userID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if record == nil {
		h.respondError(c, apperrors.NewNotFoundError("onboarding data missing", "onboarding"))
		return
	}
	c.JSON(http.StatusOK, record)
}

// GET /v1/onboarding/status
func (h *Handler) OnboardingStatus(c *gin.Context) {
	completed, err := h.store.HasCompletedOnboarding(c.Request.Context(), userID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"completed": completed})
}

// DELETE /v1/onboarding
func (h *Handler) DeleteOnboarding(c *gin.Context) {
	if err := h.store.DeleteOnboarding(c.Request.Context(), userID(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /v1/me
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"id":    userID(c),
		"email": c.GetString(ctxEmail),
		"name":  c.GetString(ctxName),
	})
}
