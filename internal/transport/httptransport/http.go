package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/NastyaGoryachaya/chat-broadcaster/internal/domain"
	"github.com/NastyaGoryachaya/chat-broadcaster/internal/interfaces"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// APIDestination - чат в ответе API
type APIDestination struct {
	ChatID  int64 `json:"chat_id"`
	TopicID *int  `json:"topic_id,omitempty"`
}

// APIStatus - текущее состояние рассылки
type APIStatus struct {
	Enabled         bool   `json:"enabled"`
	Running         bool   `json:"running"`
	IntervalMinutes int    `json:"interval_min"`
	Message         string `json:"message"`
	ChatsCount      int    `json:"chats_count"`
}

func toAPIDestinations(list []domain.Destination) []APIDestination {
	out := make([]APIDestination, 0, len(list))
	for _, d := range list {
		out = append(out, APIDestination{ChatID: d.ChatID, TopicID: d.TopicID})
	}
	return out
}

// StatusHandler - HTTP-handler только для чтения: статус, список чатов, метрики.
type StatusHandler struct {
	logger   *slog.Logger
	svc      interfaces.StatusReader
	gatherer prometheus.Gatherer
}

func NewStatusHandler(logger *slog.Logger, svc interfaces.StatusReader, gatherer prometheus.Gatherer) *StatusHandler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &StatusHandler{
		logger:   logger,
		svc:      svc,
		gatherer: gatherer,
	}
}

func (h *StatusHandler) RegisterRoutes(r interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}) {
	r.GET("/healthz", h.Health)
	r.GET("/status", h.GetStatus)
	r.GET("/chats", h.GetChats)
	r.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
}

func (h *StatusHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (h *StatusHandler) GetStatus(c echo.Context) error {
	st := h.svc.Snapshot()
	running := h.svc.Running()
	h.logger.Debug("http: status requested", slog.Bool("running", running))
	return c.JSON(http.StatusOK, APIStatus{
		Enabled:         st.Config.Enabled,
		Running:         running,
		IntervalMinutes: st.Config.IntervalMinutes,
		Message:         st.Config.Message,
		ChatsCount:      len(st.Chats),
	})
}

func (h *StatusHandler) GetChats(c echo.Context) error {
	return c.JSON(http.StatusOK, toAPIDestinations(h.svc.Snapshot().Chats))
}
