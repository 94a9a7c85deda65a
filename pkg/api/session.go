package api

import (
	"net/http"

	"github.com/labstack/echo"
	log "github.com/sirupsen/logrus"

	"github.com/sidejit/jitd/pkg/api/resource"
	"github.com/sidejit/jitd/pkg/storage"
)

func (h *Handler) handleGetSession(c echo.Context) error {
	id := c.Param("id")

	m, err := h.store.Sessions().FindByID(id)
	if err == storage.ErrNotFound {
		return c.JSON(http.StatusNotFound, resource.NewError("Session not found"))
	} else if err != nil {
		log.Errorf("failed to look up session %s: %v", id, err)
		return c.JSON(http.StatusInternalServerError, resource.NewError("Storage unavailable"))
	}

	if m.UDID != h.callerUDID(c) {
		return c.JSON(http.StatusForbidden, resource.NewError("Unauthorized"))
	}

	return c.JSON(http.StatusOK, resource.NewSession(m))
}

func (h *Handler) handleFetchDeviceSessions(c echo.Context) error {
	udid := h.callerUDID(c)

	if _, err := h.store.Devices().FindByUDID(udid); err == storage.ErrNotFound {
		return c.JSON(http.StatusUnauthorized, resource.NewError("Device not registered"))
	} else if err != nil {
		log.Errorf("failed to look up device %s: %v", udid, err)
		return c.JSON(http.StatusInternalServerError, resource.NewError("Storage unavailable"))
	}

	models, err := h.store.Sessions().FetchAllByUDID(udid)
	if err != nil {
		log.Errorf("failed to fetch sessions for device %s: %v", udid, err)
		return c.JSON(http.StatusInternalServerError, resource.NewError("Storage unavailable"))
	}

	return c.JSON(http.StatusOK, resource.NewSessionList(models))
}
