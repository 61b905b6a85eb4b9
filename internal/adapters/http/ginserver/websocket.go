package ginserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vshulcz/focuswatch/internal/domain"
	"github.com/vshulcz/focuswatch/pkg/broadcast"
)

const welcomeMessage = "Connected to focuswatch"

type wsTimings struct {
	writeWait  time.Duration
	pongWait   time.Duration
	pingPeriod time.Duration
}

var defaultWSTimings = wsTimings{
	writeWait:  10 * time.Second,
	pongWait:   60 * time.Second,
	pingPeriod: 54 * time.Second,
}

const maxInboundFrame = 4096

// Subscribe handles `GET /ws`: upgrades the connection and streams every
// event published after the upgrade, preceded by a welcome event.
func (h *Handler) Subscribe(c *gin.Context) {
	sub, err := h.hub.Subscribe()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "shutting down"})
		return
	}
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.hub.Unsubscribe(sub)
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	log := h.logger.With(zap.Uint64("subscriber", sub.ID()), zap.String("remote", c.ClientIP()))
	log.Info("websocket client connected")
	h.serve(conn, sub, log)
	log.Info("websocket client disconnected", zap.Uint64("dropped", sub.Stats().Dropped))
}

func (h *Handler) serve(conn *websocket.Conn, sub *broadcast.Subscription[domain.Event], log *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer h.hub.Unsubscribe(sub)

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		defer cancel()
		h.readLoop(conn, log)
	}()

	welcome := domain.NewEvent(domain.KindConnection, welcomeMessage, h.now())
	if err := h.write(conn, welcome); err == nil {
		h.writeLoop(ctx, conn, sub, log)
	}

	_ = conn.Close()
	<-readDone
}

// readLoop discards inbound frames and keeps the read deadline alive on pong.
func (h *Handler) readLoop(conn *websocket.Conn, log *zap.Logger) {
	conn.SetReadLimit(maxInboundFrame)
	_ = conn.SetReadDeadline(time.Now().Add(h.ws.pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.ws.pongWait))
	})
	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("websocket read failed", zap.Error(err))
			}
			return
		}
		if kind == websocket.TextMessage {
			log.Debug("websocket inbound ignored", zap.Int("bytes", len(data)))
		}
	}
}

func (h *Handler) writeLoop(ctx context.Context, conn *websocket.Conn, sub *broadcast.Subscription[domain.Event], log *zap.Logger) {
	ticker := time.NewTicker(h.ws.pingPeriod)
	defer ticker.Stop()

	for {
		if err := h.flush(conn, sub); err != nil {
			log.Debug("websocket write failed", zap.Error(err))
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-sub.Ready():
		case <-sub.Done():
			if err := h.flush(conn, sub); err != nil {
				return
			}
			deadline := time.Now().Add(h.ws.writeWait)
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			_ = conn.WriteControl(websocket.CloseMessage, msg, deadline)
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.ws.writeWait)); err != nil {
				return
			}
		}
	}
}

func (h *Handler) flush(conn *websocket.Conn, sub *broadcast.Subscription[domain.Event]) error {
	for {
		evt, ok := sub.TryNext()
		if !ok {
			return nil
		}
		if err := h.write(conn, evt); err != nil {
			return err
		}
	}
}

func (h *Handler) write(conn *websocket.Conn, evt domain.Event) error {
	if err := conn.SetWriteDeadline(time.Now().Add(h.ws.writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(evt)
}
