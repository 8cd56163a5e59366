package tutor

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"psych-academy/internal/domain"
)

// Fixed replies shown to the learner. They are part of the transcript.
const (
	Greeting           = "مرحباً بك! أنا مساعدك الذكي في دورة علم النفس الدينامي. كيف يمكنني مساعدتك اليوم؟"
	NotConfiguredReply = "خطأ: لم يتم تهيئة مفتاح API بشكل صحيح."
	UnavailableReply   = "عذراً، حدث خطأ أثناء الاتصال بالمعلم الذكي. يرجى المحاولة لاحقاً."
)

// Generator produces a tutor answer for prompt given the prior transcript.
type Generator interface {
	Generate(ctx context.Context, prompt string, history []domain.ChatMessage) (string, error)
}

// ReplyKind tags how a reply was produced.
type ReplyKind string

const (
	ReplyOK               ReplyKind = "ok"
	ReplyNotConfigured    ReplyKind = "not_configured"
	ReplyTransportFailure ReplyKind = "transport_failure"
)

// Result is a reply that is always displayable.
type Result struct {
	Text string    `json:"text"`
	Kind ReplyKind `json:"kind"`
}

// Boundary turns generator failures into apology replies so callers never
// handle errors from the answer backend.
type Boundary struct {
	gen     Generator
	observe func(ReplyKind)
}

// NewBoundary wraps gen; a nil gen behaves as an unconfigured backend.
// observe, if set, is told the kind of every reply.
func NewBoundary(gen Generator, observe func(ReplyKind)) *Boundary {
	return &Boundary{gen: gen, observe: observe}
}

func (b *Boundary) Reply(ctx context.Context, prompt string, history []domain.ChatMessage) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("tutor generator panicked")
			res = Result{Text: UnavailableReply, Kind: ReplyTransportFailure}
		}
		if b.observe != nil {
			b.observe(res.Kind)
		}
	}()

	if b.gen == nil {
		return Result{Text: NotConfiguredReply, Kind: ReplyNotConfigured}
	}

	text, err := b.gen.Generate(ctx, prompt, history)
	switch {
	case errors.Is(err, domain.ErrTutorNotConfigured):
		log.Warn("tutor backend has no api key")
		return Result{Text: NotConfiguredReply, Kind: ReplyNotConfigured}
	case err != nil:
		log.WithError(err).Error("tutor backend failed")
		return Result{Text: UnavailableReply, Kind: ReplyTransportFailure}
	}
	return Result{Text: text, Kind: ReplyOK}
}

