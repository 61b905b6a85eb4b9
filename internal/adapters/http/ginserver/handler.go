package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vshulcz/focuswatch/internal/domain"
	"github.com/vshulcz/focuswatch/pkg/broadcast"
)

const serviceName = "focuswatch"

// StatusReader exposes the monitor summary.
type StatusReader interface {
	Status() domain.Status
}

// Handler exposes the HTTP and WebSocket surface of the monitor.
type Handler struct {
	status   StatusReader
	hub      *broadcast.Hub[domain.Event]
	logger   *zap.Logger
	now      func() time.Time
	upgrader websocket.Upgrader
	ws       wsTimings
}

// NewHandler wires the monitor status and the event hub into a gin-compatible handler.
func NewHandler(status StatusReader, hub *broadcast.Hub[domain.Event], logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		status: status,
		hub:    hub,
		logger: logger,
		now:    time.Now,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// browser extensions connect from their own origin
			CheckOrigin: func(*http.Request) bool { return true },
		},
		ws: defaultWSTimings,
	}
}

// Health handles `GET /health`.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "running", "service": serviceName})
}

// Status handles `GET /status` with connectivity, subscriber and message counters.
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.status.Status())
}

type messageRequest struct {
	Timestamp  string             `json:"timestamp"`
	FocusState *domain.FocusLabel `json:"focus_state"`
	Message    string             `json:"message"`
	Kind       domain.EventKind   `json:"type"`
}

// Message handles `POST /api/message`: an externally produced event is
// published to every subscriber like a monitor event.
func (h *Handler) Message(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	evt, ok := req.toEvent(h.now())
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message and type are required"})
		return
	}

	h.hub.Publish(c.Request.Context(), evt)
	h.logger.Debug("message ingested", zap.String("type", string(evt.Kind)), zap.String("message", evt.Message))
	c.JSON(http.StatusOK, gin.H{"status": "success", "broadcasted": true})
}

// naive ISO 8601 layouts, as sent by producers that do not attach a zone
var localTimestampLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// parseTimestamp reads RFC 3339 or a zoneless timestamp in local time.
// Anything else falls back to now.
func parseTimestamp(raw string, now time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t
	}
	for _, layout := range localTimestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t
		}
	}
	return now
}

func (r messageRequest) toEvent(now time.Time) (domain.Event, bool) {
	msg := strings.TrimSpace(r.Message)
	kind := domain.EventKind(strings.TrimSpace(string(r.Kind)))
	if msg == "" || kind == "" {
		return domain.Event{}, false
	}
	evt := domain.NewEvent(kind, msg, parseTimestamp(r.Timestamp, now))
	if r.FocusState != nil {
		switch *r.FocusState {
		case domain.Focused, domain.Unfocused:
			l := *r.FocusState
			evt.FocusState = &l
		default:
			return domain.Event{}, false
		}
	}
	return evt, true
}
