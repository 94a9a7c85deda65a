package api

import (
	"net/http"

	"github.com/labstack/echo"
	log "github.com/sirupsen/logrus"

	"github.com/sidejit/jitd/pkg/api/resource"
	"github.com/sidejit/jitd/pkg/model"
)

func (h *Handler) handleRegister(c echo.Context) error {
	r := &resource.RegisterRequest{}
	if err := c.Bind(r); err != nil {
		return c.JSON(http.StatusBadRequest, resource.NewError("Invalid request body"))
	}

	if err := resource.ValidateRegister(r); err != nil {
		return c.JSON(http.StatusBadRequest, resource.NewError(err.Error()))
	}

	m := &model.Device{
		UDID:      r.UDID,
		Name:      r.DeviceName,
		Model:     r.DeviceModel,
		OSVersion: r.IOSVersion,
	}
	if err := h.store.Devices().Save(m); err != nil {
		log.Errorf("failed to save device %s: %v", r.UDID, err)
		return c.JSON(http.StatusInternalServerError, resource.NewError("Failed to register device"))
	}

	token, err := h.issuer.Issue(r.UDID)
	if err != nil {
		log.Errorf("failed to issue token for device %s: %v", r.UDID, err)
		return c.JSON(http.StatusInternalServerError, resource.NewError("Failed to issue token"))
	}

	log.Infof("Device registered: %s (%s)", r.UDID, r.DeviceName)

	return c.JSON(http.StatusOK, &resource.RegisterResponse{
		Token:   token,
		Message: "Device registered successfully",
	})
}
