package gemini

import "context"

// LLM 은 텍스트 생성 클라이언트 인터페이스다.
// 테스트에서 mock 구현을 주입할 수 있도록 한다.
type LLM interface {
	// Generate 프롬프트 기반 텍스트 생성
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client가 LLM 인터페이스를 구현하는지 컴파일 타임 확인
var _ LLM = (*Client)(nil)
