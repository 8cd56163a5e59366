package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"psych-academy/internal/app"
	"psych-academy/internal/game"
)

// gameEvent is the envelope shared by the websocket and POST /game.
type gameEvent struct {
	Type    string          `json:"type" validate:"required"`
	Payload json.RawMessage `json:"payload"`
}

type modePayload struct {
	Mode game.Mode `json:"mode"`
}

type pairPayload struct {
	ID string `json:"id"`
}

type answerPayload struct {
	Option *int `json:"option"`
}

var errPayload = errors.New("invalid payload")

func isPayloadError(err error) bool { return errors.Is(err, errPayload) }

func applyGameEvent(ctx context.Context, service *app.AcademyService, sessionID string, ev gameEvent) (game.State, error) {
	switch ev.Type {
	case "mode":
		var p modePayload
		if err := decodePayload(ev.Payload, &p); err != nil {
			return game.State{}, err
		}
		return service.SetGameMode(ctx, sessionID, p.Mode)
	case "selectTerm", "selectDescription":
		var p pairPayload
		if err := decodePayload(ev.Payload, &p); err != nil {
			return game.State{}, err
		}
		if p.ID == "" {
			return game.State{}, fmt.Errorf("%w: id is required", errPayload)
		}
		if ev.Type == "selectTerm" {
			return service.SelectTerm(ctx, sessionID, p.ID)
		}
		return service.SelectDescription(ctx, sessionID, p.ID)
	case "start":
		return service.StartQuickQA(ctx, sessionID)
	case "answer":
		var p answerPayload
		if err := decodePayload(ev.Payload, &p); err != nil {
			return game.State{}, err
		}
		if p.Option == nil {
			return game.State{}, fmt.Errorf("%w: option is required", errPayload)
		}
		return service.AnswerQuickQA(ctx, sessionID, *p.Option)
	case "next":
		return service.NextQuickQA(ctx, sessionID)
	case "reset":
		return service.ResetGame(ctx, sessionID)
	default:
		return game.State{}, fmt.Errorf("%w: unsupported message type %q", errPayload, ev.Type)
	}
}

func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: missing payload", errPayload)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", errPayload, err)
	}
	return nil
}
