package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"psych-academy/internal/app"
	"psych-academy/internal/content"
	"psych-academy/internal/domain"
	"psych-academy/internal/infra/memory"
)

func TestCourseEndpoints(t *testing.T) {
	server := httptest.NewServer(NewRouter(newTestService(nil), nil))
	defer server.Close()

	var course courseSummary
	doJSON(t, server, http.MethodGet, "/api/course", nil, http.StatusOK, &course)
	if course.ID != content.BundledCourseID || len(course.Lectures) != 3 || course.QuestionCount != 10 {
		t.Fatalf("unexpected course %+v", course)
	}

	var lecture domain.Lecture
	doJSON(t, server, http.MethodGet, "/api/lectures/2", nil, http.StatusOK, &lecture)
	if lecture.ID != 2 || len(lecture.Game.Pairs) == 0 {
		t.Fatalf("unexpected lecture %+v", lecture)
	}

	doJSON(t, server, http.MethodGet, "/api/lectures/9", nil, http.StatusNotFound, nil)
	doJSON(t, server, http.MethodGet, "/api/lectures/abc", nil, http.StatusBadRequest, nil)
	doJSON(t, server, http.MethodGet, "/api/course?course=missing", nil, http.StatusNotFound, nil)

	var glossary []domain.GlossaryTerm
	doJSON(t, server, http.MethodGet, "/api/glossary", nil, http.StatusOK, &glossary)
	if len(glossary) != 9 {
		t.Fatalf("expected 9 glossary terms, got %d", len(glossary))
	}
}

func TestSessionQuizFlow(t *testing.T) {
	server := httptest.NewServer(NewRouter(newTestService(nil), nil))
	defer server.Close()

	var session sessionResponse
	doJSON(t, server, http.MethodPost, "/api/sessions", nil, http.StatusCreated, &session)
	if session.ID == "" || session.View.View != "home" {
		t.Fatalf("unexpected session %+v", session)
	}
	base := "/api/sessions/" + session.ID

	doJSON(t, server, http.MethodGet, base+"/quiz", nil, http.StatusConflict, nil)
	doJSON(t, server, http.MethodPost, base+"/view", map[string]any{"action": "fly"}, http.StatusBadRequest, nil)
	doJSON(t, server, http.MethodPost, base+"/view", map[string]any{"action": "openLecture"}, http.StatusBadRequest, nil)
	doJSON(t, server, http.MethodPost, base+"/view", map[string]any{"action": "quiz"}, http.StatusOK, nil)

	var view struct {
		Phase string `json:"phase"`
		Score *int   `json:"score"`
	}
	doJSON(t, server, http.MethodPost, base+"/quiz/select", map[string]any{"questionIndex": 0}, http.StatusBadRequest, nil)
	for i := 0; i < 10; i++ {
		doJSON(t, server, http.MethodPost, base+"/quiz/select", map[string]any{"questionIndex": i, "optionIndex": 0}, http.StatusOK, &view)
		doJSON(t, server, http.MethodPost, base+"/quiz/advance", nil, http.StatusOK, &view)
	}
	doJSON(t, server, http.MethodPost, base+"/quiz/submit", nil, http.StatusOK, &view)
	if view.Phase != "submitted" || view.Score == nil {
		t.Fatalf("expected submitted quiz, got %+v", view)
	}

	var retried struct {
		Phase string      `json:"phase"`
		Index int         `json:"currentQuestionIndex"`
		Sel   map[int]int `json:"selectedAnswers"`
	}
	doJSON(t, server, http.MethodPost, base+"/quiz/retry", nil, http.StatusOK, &retried)
	if retried.Phase != "answering" || retried.Index != 0 || len(retried.Sel) != 0 {
		t.Fatalf("expected reset quiz, got %+v", retried)
	}

	doJSON(t, server, http.MethodPost, base+"/view", map[string]any{"action": "openLecture", "lectureId": 1}, http.StatusConflict, nil)
	doJSON(t, server, http.MethodDelete, base, nil, http.StatusNoContent, nil)
	doJSON(t, server, http.MethodGet, base+"/view", nil, http.StatusNotFound, nil)
}

func TestGameOverREST(t *testing.T) {
	server := httptest.NewServer(NewRouter(newTestService(nil), nil))
	defer server.Close()

	var session sessionResponse
	doJSON(t, server, http.MethodPost, "/api/sessions", nil, http.StatusCreated, &session)
	base := "/api/sessions/" + session.ID

	doJSON(t, server, http.MethodGet, base+"/game", nil, http.StatusConflict, nil)
	doJSON(t, server, http.MethodPost, base+"/view", map[string]any{"action": "openLecture", "lectureId": 1}, http.StatusOK, nil)

	var state struct {
		Mode    string `json:"mode"`
		Running bool   `json:"running"`
	}
	doJSON(t, server, http.MethodPost, base+"/game", map[string]any{"type": "mode", "payload": map[string]any{"mode": "chess"}}, http.StatusBadRequest, nil)
	doJSON(t, server, http.MethodPost, base+"/game", map[string]any{"type": "answer", "payload": map[string]any{}}, http.StatusBadRequest, nil)
	doJSON(t, server, http.MethodPost, base+"/game", map[string]any{"type": "mode", "payload": map[string]any{"mode": "quick-qa"}}, http.StatusOK, &state)
	if state.Mode != "quick-qa" || state.Running {
		t.Fatalf("unexpected state %+v", state)
	}
	doJSON(t, server, http.MethodPost, base+"/game", map[string]any{"type": "selectTerm", "payload": map[string]any{"id": "drive"}}, http.StatusConflict, nil)
	doJSON(t, server, http.MethodPost, base+"/game", map[string]any{"type": "reset"}, http.StatusOK, &state)
	if state.Mode != "quick-qa" {
		t.Fatalf("reset should keep the mode, got %+v", state)
	}
}

func TestChatEndpoint(t *testing.T) {
	server := httptest.NewServer(NewRouter(newTestService(nil), nil))
	defer server.Close()

	var session sessionResponse
	doJSON(t, server, http.MethodPost, "/api/sessions", nil, http.StatusCreated, &session)
	base := "/api/sessions/" + session.ID

	var resp chatResponse
	doJSON(t, server, http.MethodPost, base+"/chat", map[string]any{"text": ""}, http.StatusBadRequest, nil)
	doJSON(t, server, http.MethodPost, base+"/chat", map[string]any{"text": "ما هي الأنا العليا؟"}, http.StatusOK, &resp)
	if !resp.Accepted || len(resp.Messages) != 3 {
		t.Fatalf("unexpected chat response %+v", resp)
	}
	// no generator configured
	if resp.Messages[2].Role != domain.RoleModel || resp.Messages[2].Text == "" {
		t.Fatalf("expected apology reply, got %+v", resp.Messages[2])
	}
}

func TestHealthReportsFailingChecks(t *testing.T) {
	checks := map[string]Checker{
		"redis": CheckerFunc(func(context.Context) error { return nil }),
		"postgres": CheckerFunc(func(context.Context) error {
			return context.DeadlineExceeded
		}),
	}
	server := httptest.NewServer(NewRouter(newTestService(nil), checks))
	defer server.Close()

	var body map[string]checkResult
	doJSON(t, server, http.MethodGet, "/healthz", nil, http.StatusServiceUnavailable, &body)
	if body["redis"].Status != "ok" || body["postgres"].Status != "error" {
		t.Fatalf("unexpected health %+v", body)
	}

	resp, err := http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics status %d", resp.StatusCode)
	}
}

func newTestService(opts *app.Options) *app.AcademyService {
	courses := memory.NewCourseRepository(memory.NewStaticCourseLoader(content.Bundled()), time.Minute)
	o := app.Options{}
	if opts != nil {
		o = *opts
	}
	return app.NewAcademyService(memory.NewSessionStore(0, nil), courses, o)
}

func doJSON(t *testing.T, server *httptest.Server, method, path string, body any, wantStatus int, out any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		var e map[string]string
		_ = json.NewDecoder(resp.Body).Decode(&e)
		t.Fatalf("%s %s: expected %d, got %d (%v)", method, path, wantStatus, resp.StatusCode, e)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
}
