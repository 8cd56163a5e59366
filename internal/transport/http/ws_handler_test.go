package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"psych-academy/internal/app"
)

func TestWebSocketGameFlow(t *testing.T) {
	service := newTestService(&app.Options{Seed: func() int64 { return 3 }})
	server := httptest.NewServer(NewRouter(service, nil))
	defer server.Close()

	ctx := context.Background()
	session, err := service.StartSession(ctx, "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := service.Navigate(ctx, session.ID(), app.NavOpenLecture, 1); err != nil {
		t.Fatalf("open lecture: %v", err)
	}

	u := "ws" + server.URL[len("http"):] + "/ws/game?session=" + session.ID()
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Expect the current state first.
	msg := readNext(t, conn)
	if msg.Type != "state" || msg.Payload["mode"] != "select" {
		t.Fatalf("expected initial select state, got %+v", msg)
	}

	send(t, conn, map[string]any{"type": "mode", "payload": map[string]any{"mode": "quick-qa"}})
	readUntil(t, conn, func(m wsMessage) bool { return m.Type == "state" && m.Payload["mode"] == "quick-qa" })

	send(t, conn, map[string]any{"type": "start"})
	msg = readUntil(t, conn, func(m wsMessage) bool { return m.Type == "state" && m.Payload["running"] == true })
	quick, _ := msg.Payload["quickQA"].(map[string]any)
	if quick == nil || quick["countdown"] != float64(10) {
		t.Fatalf("expected full countdown, got %+v", msg.Payload)
	}

	catalog, _ := service.Course(ctx, "")
	lecture, _ := catalog.Lecture(1)
	first := lecture.Game.QuickQA[0]
	wrong := (first.CorrectAnswer + 1) % len(first.Options)
	send(t, conn, map[string]any{"type": "answer", "payload": map[string]any{"option": wrong}})
	readUntil(t, conn, func(m wsMessage) bool {
		q, _ := m.Payload["quickQA"].(map[string]any)
		return q != nil && q["feedback"] == "wrong"
	})

	send(t, conn, map[string]any{"type": "selectTerm", "payload": map[string]any{"id": "drive"}})
	readUntil(t, conn, func(m wsMessage) bool { return m.Type == "error" })

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{oops")); err != nil {
		t.Fatalf("write: %v", err)
	}
	readUntil(t, conn, func(m wsMessage) bool { return m.Type == "error" })

	// Navigating away unmounts the game; the stream follows the next lecture.
	if _, err := service.Navigate(ctx, session.ID(), app.NavNext, 0); err != nil {
		t.Fatalf("next lecture: %v", err)
	}
	readUntil(t, conn, func(m wsMessage) bool { return m.Type == "state" && m.Payload["mode"] == "select" })
	if session.GameTicking() {
		t.Fatalf("fresh game should not tick")
	}

	// Ending the session closes the socket.
	if err := service.EndSession(ctx, session.ID()); err != nil {
		t.Fatalf("end: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var m wsMessage
		if err := conn.ReadJSON(&m); err != nil {
			break
		}
	}
}

func TestWebSocketRejectsUnknownSession(t *testing.T) {
	server := httptest.NewServer(NewRouter(newTestService(nil), nil))
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws/game?session=missing"
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err == nil {
		t.Fatalf("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %+v", resp)
	}
}

type wsMessage struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

func send(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	if err := conn.WriteJSON(v); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func readNext(t *testing.T, conn *websocket.Conn) wsMessage {
	t.Helper()
	var msg wsMessage
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	return msg
}

func readUntil(t *testing.T, conn *websocket.Conn, match func(wsMessage) bool) wsMessage {
	t.Helper()
	for i := 0; i < 50; i++ {
		msg := readNext(t, conn)
		if match(msg) {
			return msg
		}
	}
	t.Fatalf("expected message not received")
	return wsMessage{}
}
