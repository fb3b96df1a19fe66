package assistant

import (
	"context"
	"strings"

	"github.com/saydali/saydali-api/internal/domain"
	"github.com/saydali/saydali-api/internal/observability"
)

// Fixed user-facing replies, in the interaction's language.
const (
	// FallbackEmpty is shown when the model returns no text.
	FallbackEmpty = "عذراً، لم أستطع معالجة طلبك حالياً."

	// FallbackError is shown on any transport or configuration fault.
	FallbackError = "عذراً، حدث خطأ في الاتصال بخدمة الذكاء الاصطناعي. تأكد من إعداد مفتاح API بشكل صحيح."
)

// Service turns one user utterance into one assistant reply. Faults
// never propagate to the caller: they degrade to a canned message, so
// Ask always has an answer.
type Service struct {
	llm domain.Assistant
}

func NewService(llm domain.Assistant) *Service {
	return &Service{llm: llm}
}

// Ask sends the user's message as a single independent turn. No
// conversation history goes out, no retries, no partial tokens — one
// request, one reply.
func (s *Service) Ask(ctx context.Context, text string) string {
	log := observability.LoggerFromContext(ctx)

	reply, err := s.llm.Reply(ctx, text)
	if err != nil {
		log.Error("assistant call failed", "error", err)
		return FallbackError
	}

	if strings.TrimSpace(reply) == "" {
		log.Warn("assistant returned empty reply")
		return FallbackEmpty
	}

	return reply
}
