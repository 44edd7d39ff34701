package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"timed-quiz/internal/app"
	"timed-quiz/internal/domain"

	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	Topic string `json:"topic"`
}

type selectPayload struct {
	Code string `json:"code"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type openedPayload struct {
	SessionID string `json:"sessionId"`
}

type errorPayload struct {
	Message string `json:"message"`
	Topic   string `json:"topic,omitempty"`
}

// ServeWS upgrades the request and binds one quiz session to the connection.
// The session is closed, with its timers, when the socket goes away.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	presenter := newWSPresenter()
	runner := h.service.Open(presenter)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for range presenter.wake {
			for _, msg := range presenter.drain() {
				if err := conn.WriteJSON(msg); err != nil {
					log.Printf("ws write error: %v", err)
					presenter.close()
					return
				}
			}
		}
		for _, msg := range presenter.drain() {
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}()

	// The reader cancels ctx as soon as the socket goes away, which also
	// aborts a question load still in flight.
	inbound := make(chan inboundMessage, 16)
	go func() {
		defer close(inbound)
		defer cancel()
		for {
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			select {
			case inbound <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	presenter.emit(outboundMessage{Type: "opened", Payload: openedPayload{SessionID: runner.ID()}})

	for msg := range inbound {
		h.dispatch(ctx, runner.ID(), presenter, msg)
	}

	// Close waits for the session loop to stop, so no presenter call can
	// race with closing the presenter.
	h.service.Close(context.Background(), runner.ID())
	presenter.close()
	<-writerDone
}

func (h *WSHandler) dispatch(ctx context.Context, sessionID string, p *wsPresenter, in inboundMessage) {
	switch in.Type {
	case "start":
		var payload startPayload
		if err := json.Unmarshal(in.Payload, &payload); err != nil {
			p.emitError("invalid start payload", "")
			return
		}
		if _, err := h.service.Start(ctx, sessionID, payload.Topic); err != nil {
			var loadErr *domain.LoadError
			if errors.As(err, &loadErr) {
				p.emitError(loadErr.Error(), loadErr.Topic)
				return
			}
			p.emitError(err.Error(), payload.Topic)
		}
	case "select":
		var payload selectPayload
		if err := json.Unmarshal(in.Payload, &payload); err != nil {
			p.emitError("invalid select payload", "")
			return
		}
		code, ok := domain.ParseCode(payload.Code)
		if !ok {
			p.emitError("invalid option code", "")
			return
		}
		if _, err := h.service.Select(ctx, sessionID, code); err != nil {
			p.emitError(err.Error(), "")
		}
	case "next":
		if _, err := h.service.Next(ctx, sessionID); err != nil {
			p.emitError(err.Error(), "")
		}
	case "reset":
		if err := h.service.Reset(ctx, sessionID); err != nil {
			p.emitError(err.Error(), "")
		}
	default:
		p.emitError("unsupported message type", "")
	}
}
