package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dotdotgod/boilerplate/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// AgentHandler exposes the AI chat proxy. The endpoint is bearer-guarded and
// exempt from the CSRF check since it never relies on cookies.
type AgentHandler struct {
	Proxy  *service.AgentProxy
	Logger logrus.FieldLogger
}

func NewAgentHandler(proxy *service.AgentProxy, logger logrus.FieldLogger) *AgentHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AgentHandler{Proxy: proxy, Logger: logger}
}

func (h *AgentHandler) StreamChat(c echo.Context) error {
	var req service.ChatRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Messages) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "messages are required")
	}

	response := c.Response()
	response.Header().Set(echo.HeaderContentType, "text/event-stream")
	response.Header().Set("Cache-Control", "no-cache")
	response.Header().Set("Connection", "keep-alive")

	// The proxy writes nothing until the upstream accepts the request, so an
	// upstream failure before the first byte can still become a clean error
	// response.
	if err := h.Proxy.StreamChat(c.Request().Context(), req, response); err != nil {
		if !response.Committed && errors.Is(err, service.ErrAgentUpstream) {
			return echo.NewHTTPError(http.StatusBadGateway, "agent upstream unavailable")
		}
		h.Logger.WithError(err).Error("agent stream aborted")
	}
	return nil
}
