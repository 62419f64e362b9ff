package court

import (
	"fmt"
	"strings"
)

// maxPromptMessages 는 프롬프트에 포함할 최근 메시지 수 상한이다.
// 토큰 한도를 넘지 않도록 마지막 50개만 쓴다.
const maxPromptMessages = 50

// Tally 는 평결 문자열을 정확히 비교해 투표를 집계한다.
// guilty/not_guilty 외의 값은 어느 쪽에도 집계하지 않는다.
func Tally(votes []Vote) VoteBreakdown {
	breakdown := VoteBreakdown{Total: len(votes)}
	for _, vote := range votes {
		switch vote.Verdict {
		case VoteGuilty:
			breakdown.Guilty++
		case VoteNotGuilty:
			breakdown.NotGuilty++
		}
	}
	return breakdown
}

// Verdict 는 다수결 평결을 반환한다. 동률은 무죄로 본다.
func (b VoteBreakdown) Verdict() string {
	if b.Guilty > b.NotGuilty {
		return VerdictGuilty
	}
	return VerdictNotGuilty
}

// BuildPrompt 는 세션 기록으로 결정적 프롬프트를 만든다.
func BuildPrompt(data *SessionData, breakdown VoteBreakdown) string {
	duration := data.SessionDuration
	if duration == "" {
		duration = "Not specified"
	}

	return fmt.Sprintf(`You are a professional legal AI assistant helping to summarize a court session conclusion.

CASE INFORMATION:
Title: %s
Description: %s
Session Duration: %s

COURT SESSION DISCUSSION:
%s

JURY VOTES (%d total):
- Guilty: %d votes
- Not Guilty: %d votes

INDIVIDUAL VOTE REASONING:
%s

TASK:
Generate a fair, balanced, and professional court session conclusion that:
1. Summarizes the key arguments presented
2. Explains the final verdict based on majority vote
3. Highlights the main reasoning from jurors
4. Maintains judicial neutrality and professionalism
5. Is concise but comprehensive (200-400 words)

Please format the response as a structured conclusion with clear sections.`,
		data.CaseTitle,
		data.CaseDescription,
		duration,
		renderChatHistory(data.ChatMessages),
		breakdown.Total,
		breakdown.Guilty,
		breakdown.NotGuilty,
		renderVotes(data.Votes),
	)
}

// renderChatHistory 는 마지막 50개 메시지를 원래 순서대로 렌더링한다.
func renderChatHistory(messages []ChatMessage) string {
	if len(messages) > maxPromptMessages {
		messages = messages[len(messages)-maxPromptMessages:]
	}

	lines := make([]string, 0, len(messages))
	for _, message := range messages {
		lines = append(lines, fmt.Sprintf("%s: %s", message.SenderName, message.Message))
	}
	return strings.Join(lines, "\n")
}

func renderVotes(votes []Vote) string {
	lines := make([]string, 0, len(votes))
	for _, vote := range votes {
		reasoning := vote.Reasoning
		if reasoning == "" {
			reasoning = "No reasoning provided"
		}
		lines = append(lines, fmt.Sprintf("Vote: %s - Reasoning: %s", vote.Verdict, reasoning))
	}
	return strings.Join(lines, "\n")
}
