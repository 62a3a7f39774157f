package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"toolchain_config/internal/app/port"
	"toolchain_config/internal/domain/entity"
	"toolchain_config/internal/infrastructure/render"
	"toolchain_config/internal/pkg/logger"
)

// APIConfigResponse определяет структуру ответа для эндпоинта конфигурации.
type APIConfigResponse struct {
	Data render.View `json:"data"`
}

// APINetworksResponse определяет структуру ответа со списком сетевых профилей.
type APINetworksResponse struct {
	Data []render.NetworkView `json:"data"`
}

// APINetworkResponse определяет структуру ответа для одного профиля.
type APINetworkResponse struct {
	Data render.NetworkView `json:"data"`
}

// APIPreflightResponse определяет структуру ответа для предполётной проверки.
type APIPreflightResponse struct {
	Data          entity.PreflightReport `json:"data"`
	StatusMessage string                 `json:"status_message"`
}

// APIErrorResponse возвращается при любой ошибке запроса.
type APIErrorResponse struct {
	Error string `json:"error"`
}

// ConfigHandler обрабатывает HTTP запросы, связанные с конфигурацией тулчейна.
// Секреты никогда не покидают процесс: все ответы строятся из отредактированной копии.
type ConfigHandler struct {
	config    port.ConfigProvider
	preflight port.PreflightService
	logger    port.Logger
}

// NewConfigHandler создает новый экземпляр ConfigHandler. preflight может быть nil.
func NewConfigHandler(cfg port.ConfigProvider, preflight port.PreflightService, l port.Logger) *ConfigHandler {
	if l == nil {
		l = logger.Nop()
	}
	return &ConfigHandler{config: cfg, preflight: preflight, logger: l}
}

// GetConfigHandler возвращает всю конфигурацию без секретов.
func (h *ConfigHandler) GetConfigHandler(c *gin.Context) {
	c.JSON(http.StatusOK, APIConfigResponse{Data: render.NewView(h.config.GetRedactedConfig(), false)})
}

// GetNetworksHandler возвращает все сетевые профили, упорядоченные по имени.
func (h *ConfigHandler) GetNetworksHandler(c *gin.Context) {
	view := render.NewView(h.config.GetRedactedConfig(), false)
	c.JSON(http.StatusOK, APINetworksResponse{Data: view.Networks})
}

// GetNetworkHandler возвращает один профиль или 404.
func (h *ConfigHandler) GetNetworkHandler(c *gin.Context) {
	name := c.Param("name")
	view := render.NewView(h.config.GetRedactedConfig(), false)
	for _, nv := range view.Networks {
		if nv.Name == name {
			c.JSON(http.StatusOK, APINetworkResponse{Data: nv})
			return
		}
	}
	c.JSON(http.StatusNotFound, APIErrorResponse{Error: "unknown network " + name})
}

// GetPreflightHandler запускает предполётную проверку. Сети можно ограничить
// параметром ?network=fuji&network=avalanche.
func (h *ConfigHandler) GetPreflightHandler(c *gin.Context) {
	if h.preflight == nil {
		c.JSON(http.StatusServiceUnavailable, APIErrorResponse{Error: "preflight is not enabled"})
		return
	}

	report, err := h.preflight.Run(c.Request.Context(), c.QueryArray("network")...)
	if err != nil {
		h.logger.Warn("Preflight request rejected", "error", err)
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: err.Error()})
		return
	}

	response := APIPreflightResponse{Data: report}
	switch {
	case report.Failed():
		response.StatusMessage = "Preflight failed. See individual check results."
	case report.Count(entity.CheckWarning) > 0:
		response.StatusMessage = "Preflight passed with warnings."
	default:
		response.StatusMessage = "Preflight passed."
	}
	c.JSON(http.StatusOK, response)
}

// HealthHandler отвечает 200, пока процесс жив.
func (h *ConfigHandler) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
