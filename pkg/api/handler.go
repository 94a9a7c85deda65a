package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo"
	log "github.com/sirupsen/logrus"

	"github.com/sidejit/jitd/pkg/api/resource"
	"github.com/sidejit/jitd/pkg/auth"
	"github.com/sidejit/jitd/pkg/jit"
	"github.com/sidejit/jitd/pkg/storage"
)

// udidContextKey is where the token middleware stores the verified caller
// identity.
const udidContextKey = "udid"

// Handler contains all properties to serve the API
type Handler struct {
	store    storage.Interface
	issuer   *auth.Issuer
	selector *jit.Selector
	version  string
}

// NewHandler creates a new API handler
func NewHandler(store storage.Interface, issuer *auth.Issuer, selector *jit.Selector, version string) *Handler {
	return &Handler{
		store:    store,
		issuer:   issuer,
		selector: selector,
		version:  version,
	}
}

// RegisterRoutes attaches the handlers to the echo web server
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	log.Debug("Register API routes")
	e.GET("/health", h.handleHealth)
	e.POST("/register", h.handleRegister)
	e.POST("/enable-jit", h.handleEnableJIT, h.requireToken)
	e.GET("/session/:id", h.handleGetSession, h.requireToken)
	e.GET("/device/sessions", h.handleFetchDeviceSessions, h.requireToken)
	e.GET("/stats", h.handleStats)
}

// requireToken authenticates the caller via the Authorization bearer token.
// The verified device identifier is the sole caller identity downstream,
// client-supplied identifiers are never trusted past registration.
func (h *Handler) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, resource.NewError("Missing bearer token"))
		}

		udid, err := h.issuer.Verify(strings.TrimPrefix(header, "Bearer "))
		if err == auth.ErrTokenExpired {
			return c.JSON(http.StatusUnauthorized, resource.NewError("Token expired"))
		} else if err != nil {
			return c.JSON(http.StatusUnauthorized, resource.NewError("Invalid token"))
		}

		c.Set(udidContextKey, udid)

		// Refresh the device activity timestamp on every authorized call.
		// Unknown devices are handled by the endpoints that care.
		if err := h.store.Devices().Touch(udid); err != nil && err != storage.ErrNotFound {
			log.Errorf("failed to touch device %s: %v", udid, err)
		}

		return next(c)
	}
}

func (h *Handler) callerUDID(c echo.Context) string {
	udid, _ := c.Get(udidContextKey).(string)
	return udid
}

func (h *Handler) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": h.version,
	})
}
