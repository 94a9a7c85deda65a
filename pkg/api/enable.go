package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo"
	log "github.com/sirupsen/logrus"

	"github.com/sidejit/jitd/pkg/api/resource"
	"github.com/sidejit/jitd/pkg/model"
	"github.com/sidejit/jitd/pkg/storage"
)

func (h *Handler) handleEnableJIT(c echo.Context) error {
	udid := h.callerUDID(c)

	// The token can outlive the registry, e.g. after a storage wipe. A valid
	// token for an unknown device is unauthorized, not an internal error.
	if _, err := h.store.Devices().FindByUDID(udid); err == storage.ErrNotFound {
		return c.JSON(http.StatusUnauthorized, resource.NewError("Device not registered"))
	} else if err != nil {
		log.Errorf("failed to look up device %s: %v", udid, err)
		return c.JSON(http.StatusInternalServerError, resource.NewError("Storage unavailable"))
	}

	r := &resource.EnableRequest{}
	if err := c.Bind(r); err != nil {
		return c.JSON(http.StatusBadRequest, resource.NewError("Invalid request body"))
	}
	if r.BundleID == "" {
		return c.JSON(http.StatusBadRequest, resource.NewError("Bundle ID required"))
	}

	log.Infof("JIT enablement request: Device %s, App %s, iOS %s", udid, r.BundleID, r.IOSVersion)

	sess := &model.Session{
		UDID:      udid,
		BundleID:  r.BundleID,
		AppName:   r.AppInfo["name"],
		OSVersion: r.IOSVersion,
	}
	if err := h.store.Sessions().Create(sess); err != nil {
		log.Errorf("failed to create session for device %s: %v", udid, err)
		return c.JSON(http.StatusInternalServerError, resource.NewError("Storage unavailable"))
	}

	outcome := h.selector.Enable(c.Request().Context(), udid, r.BundleID, r.IOSVersion, r.AppInfo)

	if !outcome.Success {
		if err := h.store.Sessions().Fail(sess.ID, outcome.Error); err != nil {
			log.Errorf("failed to mark session %s as failed: %v", sess.ID, err)
		}

		return c.JSON(http.StatusInternalServerError, &resource.ErrorResource{
			Error:     "Failed to enable JIT",
			SessionID: sess.ID,
		})
	}

	if err := h.store.Sessions().Complete(sess.ID, outcome.Method, outcome.Instructions); err != nil {
		log.Errorf("failed to mark session %s as completed: %v", sess.ID, err)
		return c.JSON(http.StatusInternalServerError, &resource.ErrorResource{
			Error:     "Storage unavailable",
			SessionID: sess.ID,
		})
	}

	return c.JSON(http.StatusOK, &resource.EnableResponse{
		Status:       "JIT enabled",
		SessionID:    sess.ID,
		Message:      fmt.Sprintf("Enabled JIT for '%s'!", r.BundleID),
		Token:        outcome.Token,
		Method:       outcome.Method,
		Instructions: outcome.Instructions,
	})
}
