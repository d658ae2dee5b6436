package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/shitcoingarden/garden.go/fanout"
	"github.com/shitcoingarden/garden.go/mirror"
	"github.com/ziflex/lecho/v3"
)

const DefaultKeepaliveInterval = 600 * time.Second

// StreamController pushes mirror updates to SSE and websocket clients.
type StreamController struct {
	mirror      *mirror.Mirror
	broadcaster *fanout.Broadcaster
	keepalive   time.Duration
	logger      *lecho.Logger
}

type StreamEventWrapper struct {
	Type    string          `json:"type"`
	Message *fanout.Message `json:"message,omitempty"`
}

func NewStreamController(m *mirror.Mirror, b *fanout.Broadcaster, keepalive time.Duration, logger *lecho.Logger) *StreamController {
	if keepalive <= 0 {
		keepalive = DefaultKeepaliveInterval
	}
	return &StreamController{mirror: m, broadcaster: b, keepalive: keepalive, logger: logger}
}

func (controller *StreamController) subscribe(degen string) *fanout.Subscription {
	if degen == "" {
		return controller.broadcaster.Subscribe(fanout.GeneralFilter)
	}
	return controller.broadcaster.Subscribe(fanout.ParticipantFilter(degen))
}

func (controller *StreamController) render(u mirror.Update, degen string) fanout.Message {
	if degen == "" {
		return fanout.Render(u)
	}
	return fanout.Personalize(u, controller.mirror, degen)
}

// pump delivers subscription updates on a channel until the request ends.
func (controller *StreamController) pump(c echo.Context, sub *fanout.Subscription) <-chan mirror.Update {
	updates := make(chan mirror.Update)
	go func() {
		defer close(updates)
		ctx := c.Request().Context()
		for {
			u, err := sub.Next(ctx)
			if err != nil {
				return
			}
			select {
			case updates <- u:
			case <-ctx.Done():
				return
			}
		}
	}()
	return updates
}

// SSE godoc
// @Summary      Server-Sent Events stream of presale updates
// @Description  The event name is the update kind, the data a JSON message. Claims only reach their degen.
// @Produce      text/event-stream
// @Tags         Mirror
// @Param        degen  path  string  false  "Degen address"
// @Success      200
// @Router       /sse [get]
// @Router       /sse/{degen} [get]
func (controller *StreamController) SSE(c echo.Context) error {
	degen := c.Param("degen")
	sub := controller.subscribe(degen)
	defer sub.Close()

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	ticker := time.NewTicker(controller.keepalive)
	defer ticker.Stop()
	updates := controller.pump(c, sub)
	for {
		select {
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return nil
			}
			w.Flush()
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			msg := controller.render(u, degen)
			data, err := json.Marshal(&msg)
			if err != nil {
				controller.logger.Errorf("Failed to encode %s update for %s: %v", u.Kind, u.Denom, err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event(), data); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}

// Websocket godoc
// @Summary      Websocket stream of presale updates
// @Description  JSON frames of type update or keepalive
// @Tags         Mirror
// @Param        degen  path  string  false  "Degen address"
// @Router       /ws [get]
// @Router       /ws/{degen} [get]
func (controller *StreamController) Websocket(c echo.Context) error {
	degen := c.Param("degen")
	upgrader := websocket.Upgrader{}
	upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()
	sub := controller.subscribe(degen)
	defer sub.Close()

	//start listening for close messages
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	//start with keepalive message
	if err := ws.WriteJSON(&StreamEventWrapper{Type: "keepalive"}); err != nil {
		controller.logger.Error(err)
		return nil
	}
	ticker := time.NewTicker(controller.keepalive)
	defer ticker.Stop()
	updates := controller.pump(c, sub)
SocketLoop:
	for {
		select {
		case <-done:
			break SocketLoop
		case <-ticker.C:
			if err := ws.WriteJSON(&StreamEventWrapper{Type: "keepalive"}); err != nil {
				controller.logger.Error(err)
				break SocketLoop
			}
		case u, ok := <-updates:
			if !ok {
				break SocketLoop
			}
			msg := controller.render(u, degen)
			if err := ws.WriteJSON(&StreamEventWrapper{Type: "update", Message: &msg}); err != nil {
				controller.logger.Error(err)
				break SocketLoop
			}
		}
	}
	return nil
}
