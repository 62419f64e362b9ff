package court

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/silso/auth-backend-go/internal/gemini"
)

// Service 는 법정 세션 결론 생성을 담당한다.
type Service struct {
	llm    gemini.LLM
	logger *slog.Logger
	now    func() time.Time
}

// NewService 는 결론 생성 서비스를 생성한다.
func NewService(llm gemini.LLM, logger *slog.Logger) *Service {
	return &Service{
		llm:    llm,
		logger: logger,
		now:    time.Now,
	}
}

// GenerateConclusion 은 세션 기록을 집계하고 Gemini 요약과 함께 결론을 만든다.
func (s *Service) GenerateConclusion(ctx context.Context, data *SessionData) (*ConclusionResult, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}

	breakdown := Tally(data.Votes)
	if breakdown.Total == 0 {
		// Validate가 빈 투표를 걸러내므로 방어적 분기다.
		return nil, fmt.Errorf("%w: no votes", ErrIncompleteData)
	}

	prompt := BuildPrompt(data, breakdown)
	summary, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("court_conclusion_generation_failed", "case_title", data.CaseTitle, "err", err)
		}
		return nil, err
	}

	majority := breakdown.Guilty
	if breakdown.NotGuilty > majority {
		majority = breakdown.NotGuilty
	}

	return &ConclusionResult{
		Verdict:            breakdown.Verdict(),
		VoteBreakdown:      breakdown,
		AIGeneratedSummary: summary,
		ConfidenceScore:    int(math.Round(float64(majority) / float64(breakdown.Total) * 100)),
		GeneratedAt:        s.now().UTC(),
	}, nil
}
