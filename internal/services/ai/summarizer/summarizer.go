// Package summarizer turns a customer consultation transcript into a
// structured marketing report via an external text-generation provider.
//
// The provider is slow and fallible, so the summarizer owns retry policy
// and response repair: once the provider returned any text at all, callers
// always receive a well-formed Report.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	defaultMaxAttempts = 2
	defaultBaseDelay   = 500 * time.Millisecond
)

// ErrGenerateUnavailable indicates the provider failed on every attempt.
var ErrGenerateUnavailable = errors.New("text generation unavailable")

// TextGenerator is the external AI collaborator boundary.
type TextGenerator interface {
	Generate(ctx context.Context, model string, prompt string) (string, error)
}

// Utterance is one conversation line handed to the provider.
type Utterance struct {
	Role string
	Text string
}

// Config holds summarizer tuning knobs.
type Config struct {
	Model       string
	MaxAttempts int
	BaseDelay   time.Duration
}

// Summarizer drives the external provider and normalizes its output.
type Summarizer struct {
	generator   TextGenerator
	model       string
	maxAttempts int
	baseDelay   time.Duration
}

// New builds a Summarizer around the given text generator.
func New(generator TextGenerator, cfg Config) (*Summarizer, error) {
	if generator == nil {
		return nil, errors.New("text generator is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, errors.New("model is required")
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = defaultBaseDelay
	}
	return &Summarizer{
		generator:   generator,
		model:       model,
		maxAttempts: cfg.MaxAttempts,
		baseDelay:   cfg.BaseDelay,
	}, nil
}

// Summarize analyzes the conversation and returns a structured report.
//
// A provider outage surfaces as an error wrapping ErrGenerateUnavailable.
// Malformed provider output never does: it degrades into a minimal report
// carrying the raw text as the summary.
func (s *Summarizer) Summarize(ctx context.Context, conversation []Utterance) (Report, error) {
	raw, err := s.generate(ctx, BuildPrompt(conversation))
	if err != nil {
		return Report{}, err
	}
	return ParseReport(raw), nil
}

// generate calls the provider with linear backoff between attempts.
// No lock is held here; a slow provider only stalls the requesting session.
func (s *Summarizer) generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if attempt > 1 {
			wait := time.Duration(attempt-1) * s.baseDelay
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(wait):
			}
		}
		raw, err := s.generator.Generate(ctx, s.model, prompt)
		if err != nil {
			lastErr = err
			continue
		}
		return raw, nil
	}
	return "", fmt.Errorf("%w after %d attempt(s): %v", ErrGenerateUnavailable, s.maxAttempts, lastErr)
}

// BuildPrompt renders the instruction-plus-transcript prompt. The model is
// told to answer with a single JSON object matching the Report schema.
func BuildPrompt(conversation []Utterance) string {
	lines := make([]string, 0, len(conversation))
	for _, utterance := range conversation {
		role := strings.TrimSpace(utterance.Role)
		if role == "" {
			role = "user"
		}
		lines = append(lines, fmt.Sprintf("[%s] %s", role, strings.TrimSpace(utterance.Text)))
	}
	return fmt.Sprintf(promptTemplate, strings.Join(lines, "\n"))
}

const promptTemplate = `당신은 '백화점 애플리케이션 고객 상담 대화 분석 모델'입니다.
아래에 제공되는 고객과 상담사의 전체 대화를 기반으로, 대화 내용을 다음 3가지 항목으로 요약하십시오.
출력은 반드시 JSON 형식 ONLY로 반환해야 하며, 기타 설명·문장·코드블록(backticks) 등을 포함하면 안 됩니다.

[필수 출력 형식]
{
  "keywords": {
    "estimated_age": "고객의 추정 연령대(명확하지 않으면 추정 근거와 함께 대략적 범위 제시)",
    "interested_products": ["고객이 언급하거나 관심 보인 상품 리스트"],
    "purchase_purpose": "고객의 구매 목적(예: 선물용, 본인 사용, 행사 준비 등)",
    "preferred_categories": ["패션/뷰티/식품/명품/리빙 등 고객이 선호하는 카테고리"],
    "budget": "예산 정보가 명시되면 기입, 없으면 '정보 없음'"
  },
  "summary": "대화 전체를 2~4문장으로 명확하고 간결하게 요약한 문장",
  "marketing_strategy": [
    "고객의 연령대·관심상품·구매목적·선호 카테고리를 기반으로 현재 고객에게 적용할 수 있는 마케팅 전략 4~6개 제안",
    "전략은 고객의 니즈와 대화 맥락을 직접적으로 반영할 것",
    "상품 추천, 관련 프로모션, 멤버십 혜택, 푸시/DM 메시지 전략 등 구체적 실무 전략 제시",
    "근거가 부족한 경우 추정 가정을 명시하고 그에 따른 전략 제안"
  ]
}

[대화 내용]
%s

주의사항:
- 반드시 유효한 JSON만 출력하십시오.
- 키워드는 단순 단어가 아니라 의미 있는 고객 정보 구조로 구성하십시오.
- 정보가 불명확한 항목은 '정보 없음' 또는 '추정'을 명시하십시오.
`
