package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidejit/jitd/pkg/auth"
	"github.com/sidejit/jitd/pkg/enabler"
	"github.com/sidejit/jitd/pkg/jit"
	"github.com/sidejit/jitd/pkg/storage"
	"github.com/sidejit/jitd/pkg/storage/memory"
)

type testEnv struct {
	e      *echo.Echo
	store  storage.Interface
	issuer *auth.Issuer
	sim    *enabler.Simulator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	issuer := auth.NewIssuer([]byte("test-secret"), 0)
	sim := &enabler.Simulator{}
	selector := jit.NewSelector(sim, []byte("attempt-secret"), time.Second)

	e := echo.New()
	NewHandler(store, issuer, selector, "test").RegisterRoutes(e)

	return &testEnv{e: e, store: store, issuer: issuer, sim: sim}
}

func (env *testEnv) request(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) registerDevice(t *testing.T, udid string) string {
	t.Helper()

	rec := env.request(t, http.MethodPost, "/register", "",
		fmt.Sprintf(`{"udid":%q,"device_name":"Test iPhone","ios_version":"17.0"}`, udid))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	t.Run("missing udid", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, "/register", "", `{"device_name":"x"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		token := env.registerDevice(t, "DEVICE-A")

		udid, err := env.issuer.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "DEVICE-A", udid)

		m, err := env.store.Devices().FindByUDID("DEVICE-A")
		require.NoError(t, err)
		assert.Equal(t, "Test iPhone", m.Name)
	})

	t.Run("re-registration keeps registered_at", func(t *testing.T) {
		env.registerDevice(t, "DEVICE-B")
		before, err := env.store.Devices().FindByUDID("DEVICE-B")
		require.NoError(t, err)

		env.registerDevice(t, "DEVICE-B")
		after, err := env.store.Devices().FindByUDID("DEVICE-B")
		require.NoError(t, err)
		assert.Equal(t, before.RegisteredAt, after.RegisteredAt)
	})
}

func TestEnableJIT(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerDevice(t, "DEVICE-A")

	t.Run("requires token", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, "/enable-jit", "", `{"bundle_id":"com.app.test"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects forged token", func(t *testing.T) {
		forged, err := auth.NewIssuer([]byte("other-secret"), 0).Issue("DEVICE-A")
		require.NoError(t, err)
		rec := env.request(t, http.MethodPost, "/enable-jit", forged, `{"bundle_id":"com.app.test"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown device with valid token", func(t *testing.T) {
		orphan, err := env.issuer.Issue("DEVICE-WIPED")
		require.NoError(t, err)
		rec := env.request(t, http.MethodPost, "/enable-jit", orphan, `{"bundle_id":"com.app.test"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing bundle id", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, "/enable-jit", token, `{"ios_version":"17.0"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, "/enable-jit", token,
			`{"bundle_id":"com.app.test","ios_version":"17.0","app_info":{"name":"Test App"}}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Status    string         `json:"status"`
			SessionID string         `json:"session_id"`
			Method    string         `json:"method"`
			Instr     map[string]any `json:"instructions"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "JIT enabled", resp.Status)
		assert.Equal(t, jit.MethodMemoryPermissionToggle, resp.Method)
		assert.NotEmpty(t, resp.Instr)

		m, err := env.store.Sessions().FindByID(resp.SessionID)
		require.NoError(t, err)
		assert.Equal(t, "completed", string(m.Status))
		assert.Equal(t, "Test App", m.AppName)
	})

	t.Run("enabler failure records failed session", func(t *testing.T) {
		env.sim.Err = fmt.Errorf("device unreachable")
		defer func() { env.sim.Err = nil }()

		rec := env.request(t, http.MethodPost, "/enable-jit", token, `{"bundle_id":"com.app.bad"}`)
		require.Equal(t, http.StatusInternalServerError, rec.Code)

		var resp struct {
			Error     string `json:"error"`
			SessionID string `json:"session_id"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.SessionID)

		m, err := env.store.Sessions().FindByID(resp.SessionID)
		require.NoError(t, err)
		assert.Equal(t, "failed", string(m.Status))
		assert.Equal(t, "device unreachable", m.Error)
	})
}

func TestGetSession(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerDevice(t, "DEVICE-A")
	otherToken := env.registerDevice(t, "DEVICE-B")

	rec := env.request(t, http.MethodPost, "/enable-jit", token,
		`{"bundle_id":"com.app.test","ios_version":"16.2"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var created struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	t.Run("unknown session", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/session/nope", token, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("foreign owner", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/session/"+created.SessionID, otherToken, "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("owner", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/session/"+created.SessionID, token, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Status      string `json:"status"`
			StartedAt   int64  `json:"started_at"`
			CompletedAt *int64 `json:"completed_at"`
			BundleID    string `json:"bundle_id"`
			Method      string `json:"method"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "completed", resp.Status)
		assert.Equal(t, "com.app.test", resp.BundleID)
		assert.Equal(t, jit.MethodCsDebuggedFlag, resp.Method)
		assert.NotZero(t, resp.StartedAt)
		require.NotNil(t, resp.CompletedAt)
	})
}

func TestFetchDeviceSessions(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerDevice(t, "DEVICE-A")
	env.registerDevice(t, "DEVICE-B")

	for i := 0; i < 3; i++ {
		rec := env.request(t, http.MethodPost, "/enable-jit", token,
			fmt.Sprintf(`{"bundle_id":"com.app.test%d"}`, i))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := env.request(t, http.MethodGet, "/device/sessions", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Sessions []struct {
			ID       string `json:"id"`
			BundleID string `json:"bundle_id"`
			Status   string `json:"status"`
		} `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Sessions, 3)
}

func TestStats(t *testing.T) {
	env := newTestEnv(t)

	t.Run("zero state", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/stats", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{
			"registered_devices": 0,
			"total_sessions": 0,
			"active_sessions": 0,
			"completed_sessions": 0,
			"failed_sessions": 0
		}`, rec.Body.String())
	})

	t.Run("after activity", func(t *testing.T) {
		token := env.registerDevice(t, "DEVICE-A")
		rec := env.request(t, http.MethodPost, "/enable-jit", token, `{"bundle_id":"com.app.test"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = env.request(t, http.MethodGet, "/stats", "", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			RegisteredDevices int `json:"registered_devices"`
			TotalSessions     int `json:"total_sessions"`
			CompletedSessions int `json:"completed_sessions"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.RegisteredDevices)
		assert.Equal(t, 1, resp.TotalSessions)
		assert.Equal(t, 1, resp.CompletedSessions)
	})
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}
