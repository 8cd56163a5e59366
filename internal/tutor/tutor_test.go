package tutor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"psych-academy/internal/domain"
)

func TestBoundaryClassifiesFailures(t *testing.T) {
	var kinds []ReplyKind
	observe := func(k ReplyKind) { kinds = append(kinds, k) }

	cases := []struct {
		name string
		gen  Generator
		want Result
	}{
		{"nil generator", nil, Result{Text: NotConfiguredReply, Kind: ReplyNotConfigured}},
		{"missing key", generatorFunc(func() (string, error) {
			return "", domain.ErrTutorNotConfigured
		}), Result{Text: NotConfiguredReply, Kind: ReplyNotConfigured}},
		{"transport", generatorFunc(func() (string, error) {
			return "", fmt.Errorf("%w: status 503", domain.ErrTutorUnavailable)
		}), Result{Text: UnavailableReply, Kind: ReplyTransportFailure}},
		{"panic", generatorFunc(func() (string, error) {
			panic("boom")
		}), Result{Text: UnavailableReply, Kind: ReplyTransportFailure}},
		{"ok", generatorFunc(func() (string, error) {
			return "الهو مستودع الغرائز", nil
		}), Result{Text: "الهو مستودع الغرائز", Kind: ReplyOK}},
	}

	for _, tc := range cases {
		got := NewBoundary(tc.gen, observe).Reply(context.Background(), "?", nil)
		if got != tc.want {
			t.Fatalf("%s: expected %+v, got %+v", tc.name, tc.want, got)
		}
	}
	if len(kinds) != len(cases) {
		t.Fatalf("expected %d observations, got %d", len(cases), len(kinds))
	}
}

func TestChatSendAppendsInOrder(t *testing.T) {
	rec := &recordingReplier{reply: "answer"}
	chat := NewChat(rec)

	if _, ok := chat.Send(context.Background(), "   "); ok {
		t.Fatalf("blank message should be ignored")
	}
	if _, ok := chat.Send(context.Background(), "ما هو الكبت؟"); !ok {
		t.Fatalf("send rejected")
	}

	msgs := chat.Messages()
	if len(msgs) != 3 {
		t.Fatalf("expected greeting, user and model messages, got %d", len(msgs))
	}
	if msgs[0].Text != Greeting || msgs[1].Role != domain.RoleUser || msgs[2].Role != domain.RoleModel {
		t.Fatalf("unexpected transcript %+v", msgs)
	}
	if len(rec.history) != 1 || rec.history[0].Text != Greeting {
		t.Fatalf("replier should see the prior transcript only, got %+v", rec.history)
	}
	if chat.Loading() {
		t.Fatalf("loading should be cleared")
	}
}

func TestChatRejectsConcurrentSend(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	replier := &blockingReplier{entered: entered, release: release}
	chat := NewChat(replier)

	done := make(chan struct{})
	go func() {
		defer close(done)
		chat.Send(context.Background(), "first")
	}()
	<-entered

	if !chat.Loading() {
		t.Fatalf("expected loading while reply pending")
	}
	if _, ok := chat.Send(context.Background(), "second"); ok {
		t.Fatalf("send accepted while another is in flight")
	}

	close(release)
	<-done

	msgs := chat.Messages()
	if len(msgs) != 3 || msgs[1].Text != "first" {
		t.Fatalf("unexpected transcript %+v", msgs)
	}
	if _, ok := chat.Send(context.Background(), "third"); !ok {
		t.Fatalf("send should be accepted after reply")
	}
	if n := replier.calls.Load(); n != 2 {
		t.Fatalf("expected 2 backend calls, got %d", n)
	}
	if msgs := chat.Messages(); len(msgs) != 5 || msgs[3].Text != "third" {
		t.Fatalf("unexpected transcript after third send %+v", msgs)
	}
}

func TestChatSurvivesBackendFailure(t *testing.T) {
	chat := NewChat(NewBoundary(generatorFunc(func() (string, error) {
		return "", errors.New("connection reset")
	}), nil))

	res, ok := chat.Send(context.Background(), "hello")
	if !ok || res.Kind != ReplyTransportFailure {
		t.Fatalf("expected transport failure reply, got %+v ok=%v", res, ok)
	}
	if last := chat.Messages()[2]; last.Role != domain.RoleModel || last.Text != UnavailableReply {
		t.Fatalf("apology not appended: %+v", last)
	}
}

type generatorFunc func() (string, error)

func (f generatorFunc) Generate(context.Context, string, []domain.ChatMessage) (string, error) {
	return f()
}

type recordingReplier struct {
	reply   string
	history []domain.ChatMessage
}

func (r *recordingReplier) Reply(_ context.Context, _ string, history []domain.ChatMessage) Result {
	r.history = history
	return Result{Text: r.reply, Kind: ReplyOK}
}

// blockingReplier holds its first reply until release is closed; later
// replies return immediately.
type blockingReplier struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
	calls   atomic.Int32
}

func (b *blockingReplier) Reply(context.Context, string, []domain.ChatMessage) Result {
	b.calls.Add(1)
	b.once.Do(func() { close(b.entered) })
	<-b.release
	return Result{Text: "late", Kind: ReplyOK}
}
