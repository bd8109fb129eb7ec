package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ulissesgoncalvess/ferveu/internal/auth"
	"github.com/ulissesgoncalvess/ferveu/internal/core/heat"
	"github.com/ulissesgoncalvess/ferveu/internal/places"
	"github.com/ulissesgoncalvess/ferveu/internal/session"
	"github.com/ulissesgoncalvess/ferveu/internal/sessionstore"
)

func newTestServer(t *testing.T) (*httptest.Server, *session.Controller) {
	t.Helper()
	local := auth.NewLocal("api-test", 0, time.Hour)
	opts := session.DefaultOptions()
	opts.DecayInterval = time.Hour
	opts.NotificationTTL = time.Minute
	ctrl := session.NewController(opts, session.Deps{
		Auth:     local,
		Verifier: local,
		Store:    sessionstore.NewMemory(),
		Places:   places.Static{Rules: heat.DefaultRules()},
		Log:      zerolog.Nop(),
	})
	srv := httptest.NewServer(NewRouter(ctrl, RouterOptions{CORSOrigins: []string{"*"}, Log: zerolog.Nop()}))
	t.Cleanup(func() {
		srv.Close()
		ctrl.Close()
	})
	return srv, ctrl
}

func do(t *testing.T, srv *httptest.Server, method, path, token, body string) (*http.Response, []byte) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, rdr)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func login(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, data := do(t, srv, "POST", "/api/session/login", "", `{"name":"Leo Rolê","email":"leo@ferveu.app"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	var out loginResponse
	require.NoError(t, json.Unmarshal(data, &out))
	require.NotEmpty(t, out.Token)
	assert.Equal(t, session.StateAuthenticated, out.Status.State)
	return out.Token
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	BindServiceHealth(staticHealth{up: true, comps: map[string]bool{"session-store": true}})
	defer BindServiceHealth(downService{})

	resp, data := do(t, srv, "GET", "/api/health", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, map[string]interface{}{"session-store": true}, body["components"])
}

type staticHealth struct {
	up    bool
	comps map[string]bool
}

func (s staticHealth) IsHealthy() bool              { return s.up }
func (s staticHealth) Components() map[string]bool { return s.comps }

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, p := range []string{"/api/venues", "/api/venues/panel", "/api/posts", "/api/missions", "/api/ranking/venues"} {
		resp, _ := do(t, srv, "GET", p, "", "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, p)
	}
	resp, _ := do(t, srv, "GET", "/api/venues", "forged", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginValidation(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, _ := do(t, srv, "POST", "/api/session/login", "", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = do(t, srv, "POST", "/api/session/login", "", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	login(t, srv)
	resp, _ = do(t, srv, "POST", "/api/session/login", "", `{"name":"Ana"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestVenueFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	token := login(t, srv)

	resp, data := do(t, srv, "GET", "/api/venues", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(data, &list))
	assert.Equal(t, 3, list.Count)

	resp, _ = do(t, srv, "GET", "/api/venues/p9", token, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, data = do(t, srv, "POST", "/api/venues/p1/checkin", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	var res session.ActionResult
	require.NoError(t, json.Unmarshal(data, &res))
	assert.True(t, res.Applied)
	assert.Equal(t, 50, res.Venue.HeatValue)
	assert.Equal(t, 50, res.User.XP)

	resp, data = do(t, srv, "POST", "/api/venues/p9/checkin", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"applied":false}`, string(data))

	resp, data = do(t, srv, "GET", "/api/venues/panel", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var panel session.Panel
	require.NoError(t, json.Unmarshal(data, &panel))
	assert.NotEmpty(t, panel.Venues)

	resp, data = do(t, srv, "GET", "/api/ranking/venues", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Index(string(data), `"p2"`) < strings.Index(string(data), `"p1"`))

	resp, _ = do(t, srv, "GET", "/api/missions", token, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestFeedFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	token := login(t, srv)

	resp, _ := do(t, srv, "POST", "/api/venues/p2/posts", token, `{"content":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, data := do(t, srv, "POST", "/api/venues/p2/posts", token, `{"content":"Som absurdo"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	var res session.ActionResult
	require.NoError(t, json.Unmarshal(data, &res))
	require.NotNil(t, res.Post)
	assert.Equal(t, 120, res.User.XP)

	resp, data = do(t, srv, "GET", "/api/posts", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), res.Post.ID)

	resp, data = do(t, srv, "POST", "/api/posts/post1/like", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(data, &res))
	assert.Equal(t, 25, res.Post.Likes)
}

func TestLocationAndNotifications(t *testing.T) {
	srv, _ := newTestServer(t)
	token := login(t, srv)

	resp, _ := do(t, srv, "POST", "/api/session/location", token, `{"lat":123,"lng":0}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = do(t, srv, "POST", "/api/session/location", token, `{"lat":-23.56}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, srv, "POST", "/api/session/location", token, `{"lat":-23.56,"lng":-46.65}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	deadline := time.Now().Add(2 * time.Second)
	for {
		_, data := do(t, srv, "GET", "/api/notifications", "", "")
		if bytes.Contains(data, []byte("3 locais encontrados!")) {
			var body struct {
				Notification struct {
					ID string `json:"id"`
				} `json:"notification"`
			}
			require.NoError(t, json.Unmarshal(data, &body))
			resp, _ = do(t, srv, "DELETE", "/api/notifications/"+body.Notification.ID, "", "")
			assert.Equal(t, http.StatusNoContent, resp.StatusCode)
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("places notification never shown: %s", data)
		}
		time.Sleep(10 * time.Millisecond)
	}

	_, data := do(t, srv, "GET", "/api/session", "", "")
	var st session.Status
	require.NoError(t, json.Unmarshal(data, &st))
	assert.True(t, st.Located)
	assert.InDelta(t, -23.56, st.Center.Lat, 1e-9)
}

func TestLogout(t *testing.T) {
	srv, _ := newTestServer(t)
	token := login(t, srv)

	resp, _ := do(t, srv, "POST", "/api/session/logout", token, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, srv, "GET", "/api/venues", token, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, data := do(t, srv, "GET", "/api/session", "", "")
	assert.Contains(t, string(data), `"state":"signed_out"`)
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)
	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/venues", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, data := do(t, srv, "GET", "/metrics", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), "ferveu_sessions_active")
}
