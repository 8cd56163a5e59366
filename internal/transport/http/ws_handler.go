package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"psych-academy/internal/app"
	"psych-academy/internal/game"
)

// WSHandler streams the lecture game of one session: every state change and
// every clock tick is pushed as a "state" message.
type WSHandler struct {
	service  *app.AcademyService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.AcademyService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func errorMessage(msg string) outboundMessage {
	return outboundMessage{Type: "error", Payload: errorPayload{Message: msg}}
}

// ServeWS upgrades HTTP requests to websockets and wires them into the game use cases.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "missing session")
		return
	}
	updates, cancel, err := h.service.SubscribeGame(r.Context(), sessionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("ws upgrade failed")
		return
	}
	defer conn.Close()

	logger := log.WithField("session", sessionID)
	send := make(chan outboundMessage, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// single writer: gorilla connections allow one concurrent writer
	go func() {
		defer close(writerDone)
		for msg := range send {
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(msg); err != nil {
				logger.WithError(err).Debug("ws write failed")
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case state, ok := <-updates:
				if !ok {
					// session ended: unblock the reader
					_ = conn.SetReadDeadline(time.Now())
					return
				}
				select {
				case send <- stateMessage(state):
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound gameEvent
		if err := conn.ReadJSON(&inbound); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				h.push(send, writerDone, errorMessage("malformed message"))
				continue
			}
			break
		}
		if _, err := applyGameEvent(r.Context(), h.service, sessionID, inbound); err != nil {
			h.push(send, writerDone, errorMessage(err.Error()))
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// push queues msg unless the writer already quit.
func (h *WSHandler) push(send chan<- outboundMessage, writerDone <-chan struct{}, msg outboundMessage) {
	select {
	case send <- msg:
	case <-writerDone:
	}
}

func stateMessage(s game.State) outboundMessage {
	return outboundMessage{Type: "state", Payload: s}
}
