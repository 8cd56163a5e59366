package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"psych-academy/internal/app"
	"psych-academy/internal/domain"
	"psych-academy/internal/quiz"
)

// APIHandler serves course content and the per-session REST surface.
type APIHandler struct {
	service *app.AcademyService
}

func NewAPIHandler(service *app.AcademyService) *APIHandler {
	return &APIHandler{service: service}
}

func (h *APIHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/course", h.course)
	r.Get("/lectures", h.lectures)
	r.Get("/lectures/{id}", h.lecture)
	r.Get("/glossary", h.glossary)

	r.Post("/sessions", h.startSession)
	r.Route("/sessions/{sid}", func(r chi.Router) {
		r.Delete("/", h.endSession)

		r.Get("/view", h.view)
		r.Post("/view", h.navigate)

		r.Get("/quiz", h.quizState)
		r.Post("/quiz/select", h.quizSelect)
		r.Post("/quiz/advance", h.quizStep(h.service.AdvanceQuiz))
		r.Post("/quiz/retreat", h.quizStep(h.service.RetreatQuiz))
		r.Post("/quiz/submit", h.quizStep(h.service.SubmitQuiz))
		r.Post("/quiz/review", h.quizStep(h.service.ReviewQuiz))
		r.Post("/quiz/retry", h.quizStep(h.service.RetryQuiz))

		r.Get("/game", h.gameState)
		r.Post("/game", h.gameEvent)

		r.Get("/chat", h.chat)
		r.Post("/chat", h.sendChat)
	})
	return r
}

type courseSummary struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Lectures      []lectureSummary `json:"lectures"`
	QuestionCount int              `json:"questionCount"`
}

type lectureSummary struct {
	ID         int      `json:"id"`
	Title      string   `json:"title"`
	Icon       string   `json:"icon"`
	Objectives []string `json:"objectives"`
}

func (h *APIHandler) course(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.service.Course(r.Context(), r.URL.Query().Get("course"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	lectures := catalog.Lectures()
	out := courseSummary{
		ID:            catalog.ID(),
		Title:         catalog.Title(),
		Lectures:      make([]lectureSummary, 0, len(lectures)),
		QuestionCount: len(catalog.Questions()),
	}
	for _, l := range lectures {
		out.Lectures = append(out.Lectures, lectureSummary{ID: l.ID, Title: l.Title, Icon: l.Icon, Objectives: l.Objectives})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *APIHandler) lectures(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.service.Course(r.Context(), r.URL.Query().Get("course"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, catalog.Lectures())
}

func (h *APIHandler) lecture(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "lecture id must be a number")
		return
	}
	catalog, err := h.service.Course(r.Context(), r.URL.Query().Get("course"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	lecture, err := catalog.Lecture(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lecture)
}

func (h *APIHandler) glossary(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.service.Course(r.Context(), r.URL.Query().Get("course"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, catalog.Glossary())
}

type startSessionRequest struct {
	CourseID string `json:"courseId" validate:"omitempty,max=64"`
}

type sessionResponse struct {
	ID       string        `json:"id"`
	CourseID string        `json:"courseId"`
	View     app.ViewState `json:"view"`
}

func (h *APIHandler) startSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	session, err := h.service.StartSession(r.Context(), req.CourseID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{
		ID:       session.ID(),
		CourseID: session.CourseID(),
		View:     session.View(),
	})
}

func (h *APIHandler) endSession(w http.ResponseWriter, r *http.Request) {
	if err := h.service.EndSession(r.Context(), chi.URLParam(r, "sid")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) view(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.View(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type navigateRequest struct {
	Action    app.NavAction `json:"action" validate:"required,oneof=openLecture home quiz prev next"`
	LectureID int           `json:"lectureId" validate:"required_if=Action openLecture,omitempty,min=1"`
}

func (h *APIHandler) navigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	view, err := h.service.Navigate(r.Context(), chi.URLParam(r, "sid"), req.Action, req.LectureID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *APIHandler) quizState(w http.ResponseWriter, r *http.Request) {
	h.quizStep(h.service.QuizState)(w, r)
}

type selectAnswerRequest struct {
	QuestionIndex *int `json:"questionIndex" validate:"required,min=0"`
	OptionIndex   *int `json:"optionIndex" validate:"required,min=0"`
}

func (h *APIHandler) quizSelect(w http.ResponseWriter, r *http.Request) {
	var req selectAnswerRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	view, err := h.service.SelectAnswer(r.Context(), chi.URLParam(r, "sid"), *req.QuestionIndex, *req.OptionIndex)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *APIHandler) quizStep(op func(ctx context.Context, sessionID string) (quiz.View, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := op(r.Context(), chi.URLParam(r, "sid"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func (h *APIHandler) gameState(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.GameState(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *APIHandler) gameEvent(w http.ResponseWriter, r *http.Request) {
	var ev gameEvent
	if err := readJSON(r, &ev); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	state, err := applyGameEvent(r.Context(), h.service, chi.URLParam(r, "sid"), ev)
	if err != nil {
		if isPayloadError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *APIHandler) chat(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Chat(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

type chatRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
}

type chatResponse struct {
	Accepted bool                 `json:"accepted"`
	Messages []domain.ChatMessage `json:"messages"`
	Loading  bool                 `json:"loading"`
}

// sendChat blocks until the tutor replies. A rejected message (blank, or
// another one still pending) is reported with accepted=false.
func (h *APIHandler) sendChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	state, accepted, err := h.service.SendChat(r.Context(), chi.URLParam(r, "sid"), req.Text)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Accepted: accepted, Messages: state.Messages, Loading: state.Loading})
}
