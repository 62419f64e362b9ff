package court

import (
	"fmt"
	"strings"
	"testing"
)

func TestTally(t *testing.T) {
	votes := []Vote{
		{Verdict: VoteGuilty},
		{Verdict: VoteGuilty},
		{Verdict: VoteNotGuilty},
		{Verdict: "abstain"},
	}

	breakdown := Tally(votes)
	if breakdown.Guilty != 2 || breakdown.NotGuilty != 1 || breakdown.Total != 4 {
		t.Fatalf("unexpected breakdown: %+v", breakdown)
	}
}

func TestVerdictMajorityAndTie(t *testing.T) {
	if (VoteBreakdown{Guilty: 2, NotGuilty: 1}).Verdict() != VerdictGuilty {
		t.Fatalf("expected guilty verdict for majority")
	}
	if (VoteBreakdown{Guilty: 1, NotGuilty: 2}).Verdict() != VerdictNotGuilty {
		t.Fatalf("expected not guilty verdict for minority")
	}
	// 동률은 무죄
	if (VoteBreakdown{Guilty: 2, NotGuilty: 2}).Verdict() != VerdictNotGuilty {
		t.Fatalf("expected not guilty verdict for tie")
	}
	// 집계되지 않은 투표뿐이어도 무죄
	if (VoteBreakdown{Total: 3}).Verdict() != VerdictNotGuilty {
		t.Fatalf("expected not guilty verdict without counted votes")
	}
}

func TestBuildPromptContainsSections(t *testing.T) {
	data := &SessionData{
		CaseTitle:       "The Missing Kimbap",
		CaseDescription: "Someone ate the shared kimbap.",
		ChatMessages: []ChatMessage{
			{SenderName: "Alice", Message: "I saw nothing."},
			{SenderName: "Bob", Message: "It was gone at noon."},
		},
		Votes: []Vote{
			{Verdict: VoteGuilty, Reasoning: "Crumbs on the desk"},
			{Verdict: VoteNotGuilty},
		},
		SessionDuration: "45m",
	}

	prompt := BuildPrompt(data, Tally(data.Votes))

	if !strings.Contains(prompt, "Title: The Missing Kimbap") {
		t.Fatalf("expected case title in prompt")
	}
	if !strings.Contains(prompt, "Session Duration: 45m") {
		t.Fatalf("expected session duration in prompt")
	}
	if !strings.Contains(prompt, "Alice: I saw nothing.") {
		t.Fatalf("expected chat line in prompt")
	}
	if !strings.Contains(prompt, "Vote: guilty - Reasoning: Crumbs on the desk") {
		t.Fatalf("expected vote reasoning in prompt")
	}
	if !strings.Contains(prompt, "Vote: not_guilty - Reasoning: No reasoning provided") {
		t.Fatalf("expected default reasoning in prompt")
	}
	if !strings.Contains(prompt, "JURY VOTES (2 total):") {
		t.Fatalf("expected vote tally header in prompt")
	}
}

func TestBuildPromptDefaultDuration(t *testing.T) {
	data := &SessionData{
		CaseTitle:       "Case",
		CaseDescription: "Description",
		ChatMessages:    []ChatMessage{{SenderName: "A", Message: "m"}},
		Votes:           []Vote{{Verdict: VoteGuilty}},
	}

	prompt := BuildPrompt(data, Tally(data.Votes))
	if !strings.Contains(prompt, "Session Duration: Not specified") {
		t.Fatalf("expected default duration in prompt")
	}
}

func TestRenderChatHistoryTruncatesToLastFifty(t *testing.T) {
	messages := make([]ChatMessage, 0, 120)
	for i := range 120 {
		messages = append(messages, ChatMessage{
			SenderName: "juror",
			Message:    fmt.Sprintf("message-%d", i),
		})
	}

	rendered := renderChatHistory(messages)
	lines := strings.Split(rendered, "\n")
	if len(lines) != maxPromptMessages {
		t.Fatalf("expected %d lines, got %d", maxPromptMessages, len(lines))
	}
	if lines[0] != "juror: message-70" {
		t.Fatalf("expected oldest retained message first, got %s", lines[0])
	}
	if lines[len(lines)-1] != "juror: message-119" {
		t.Fatalf("expected newest message last, got %s", lines[len(lines)-1])
	}
}
