package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/silso/auth-backend-go/internal/config"
	"github.com/silso/auth-backend-go/internal/court"
	"github.com/silso/auth-backend-go/internal/httperror"
	"github.com/silso/auth-backend-go/internal/middleware"
)

// ConclusionService 는 법정 결론 생성 인터페이스다.
type ConclusionService interface {
	GenerateConclusion(ctx context.Context, data *court.SessionData) (*court.ConclusionResult, error)
}

// CourtHandler 는 법정 결론 엔드포인트 핸들러다.
type CourtHandler struct {
	service ConclusionService
	model   string
	logger  *slog.Logger
}

// NewCourtHandler 는 법정 핸들러를 생성한다.
func NewCourtHandler(service ConclusionService, cfg *config.Config, logger *slog.Logger) *CourtHandler {
	model := ""
	if cfg != nil {
		model = cfg.Gemini.Model
	}
	return &CourtHandler{
		service: service,
		model:   model,
		logger:  logger,
	}
}

// RegisterRoutes 는 /court 라우트를 등록한다.
func (h *CourtHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/court/generate-conclusion", h.GenerateConclusion)
}

type generateConclusionRequest struct {
	CourtSessionData *court.SessionData `json:"court_session_data"`
}

// GenerateConclusion: 법정 세션 기록으로 AI 결론을 생성합니다.
// POST /court/generate-conclusion
func (h *CourtHandler) GenerateConclusion(c *gin.Context) {
	startedAt := time.Now()

	var req generateConclusionRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.CourtSessionData == nil {
		writeValidationError(c, httperror.ErrorCodeMissingCourtData,
			"court_session_data is required")
		return
	}

	// 업스트림 호출 전에 필수 필드부터 확인한다.
	if err := req.CourtSessionData.Validate(); err != nil {
		writeValidationError(c, httperror.ErrorCodeIncompleteCourtData,
			"Missing required court session data: case_title, case_description, chat_messages, votes")
		return
	}

	conclusion, err := h.service.GenerateConclusion(c.Request.Context(), req.CourtSessionData)
	if err != nil {
		apiErr := httperror.Classify(err, httperror.NewInternal(
			httperror.ErrorCodeAIGenerationFailed,
			"AI conclusion generation failed. Please try again.",
		))
		if h.logger != nil {
			h.logger.Warn("court_conclusion_failed",
				"request_id", middleware.GetRequestID(c),
				"code", apiErr.Code,
				"status", apiErr.Status,
				"error", err,
			)
		}
		writeError(c, apiErr, startedAt)
		return
	}

	data := req.CourtSessionData
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"conclusion": conclusion,
		"metadata": gin.H{
			"case_title":         data.CaseTitle,
			"total_messages":     len(data.ChatMessages),
			"total_votes":        len(data.Votes),
			"session_duration":   data.SessionDuration,
			"ai_model":           h.model,
			"processing_time_ms": time.Since(startedAt).Milliseconds(),
			"timestamp":          time.Now().UTC().Format(time.RFC3339),
		},
	})
}
