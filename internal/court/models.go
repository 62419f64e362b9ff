package court

import (
	"errors"
	"time"
)

// 배심원 투표 표기와 최종 평결 문자열
const (
	VoteGuilty    = "guilty"
	VoteNotGuilty = "not_guilty"

	VerdictGuilty    = "GUILTY"
	VerdictNotGuilty = "NOT GUILTY"
)

// ErrIncompleteData 는 필수 세션 필드가 비어있을 때 반환된다.
var ErrIncompleteData = errors.New("incomplete court session data")

// ChatMessage 는 법정 토론 메시지다.
type ChatMessage struct {
	SenderName string `json:"sender_name"`
	Message    string `json:"message"`
}

// Vote 는 배심원 투표다.
type Vote struct {
	Verdict   string `json:"verdict"`
	Reasoning string `json:"reasoning,omitempty"`
}

// SessionData 는 결론 생성에 필요한 법정 세션 기록이다.
type SessionData struct {
	CaseTitle       string        `json:"case_title"`
	CaseDescription string        `json:"case_description"`
	ChatMessages    []ChatMessage `json:"chat_messages"`
	Votes           []Vote        `json:"votes"`
	SessionDuration string        `json:"session_duration,omitempty"`
}

// Validate 는 필수 필드가 모두 채워졌는지 확인한다.
func (d *SessionData) Validate() error {
	if d == nil {
		return ErrIncompleteData
	}
	if d.CaseTitle == "" || d.CaseDescription == "" {
		return ErrIncompleteData
	}
	if len(d.ChatMessages) == 0 || len(d.Votes) == 0 {
		return ErrIncompleteData
	}
	return nil
}

// VoteBreakdown 는 투표 집계다.
type VoteBreakdown struct {
	Guilty    int `json:"guilty"`
	NotGuilty int `json:"not_guilty"`
	Total     int `json:"total"`
}

// ConclusionResult 는 AI가 생성한 최종 결론이다.
type ConclusionResult struct {
	Verdict            string        `json:"verdict"`
	VoteBreakdown      VoteBreakdown `json:"vote_breakdown"`
	AIGeneratedSummary string        `json:"ai_generated_summary"`
	ConfidenceScore    int           `json:"confidence_score"`
	GeneratedAt        time.Time     `json:"generated_at"`
}
