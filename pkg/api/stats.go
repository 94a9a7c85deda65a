package api

import (
	"net/http"

	"github.com/labstack/echo"
	log "github.com/sirupsen/logrus"

	"github.com/sidejit/jitd/pkg/api/resource"
)

func (h *Handler) handleStats(c echo.Context) error {
	devices, err := h.store.Devices().FetchAll()
	if err != nil {
		log.Errorf("failed to fetch devices: %v", err)
		return c.JSON(http.StatusInternalServerError, resource.NewError("Storage unavailable"))
	}

	sessions, err := h.store.Sessions().FetchAll()
	if err != nil {
		log.Errorf("failed to fetch sessions: %v", err)
		return c.JSON(http.StatusInternalServerError, resource.NewError("Storage unavailable"))
	}

	return c.JSON(http.StatusOK, resource.NewStats(devices, sessions))
}
