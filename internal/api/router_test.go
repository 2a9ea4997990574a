package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/aishop/storefront/internal/core/service"
	"github.com/aishop/storefront/internal/infrastructure/db/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	accounts := service.NewAccountService(memory.NewAccountRepository(), memory.NewRevocationStore(), "secret", time.Hour, zerolog.Nop())
	e := NewRouter(Deps{
		Accounts:   accounts,
		Wishlists:  memory.NewWishlistRepository(),
		Log:        zerolog.Nop(),
		Registerer: reg,
		Gatherer:   reg,
	})
	ts := httptest.NewServer(e)
	t.Cleanup(ts.Close)
	return ts
}

func call(t *testing.T, method, url, token, body string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestRouter_AuthFlowAndEnvelope(t *testing.T) {
	ts := newTestServer(t)
	api := ts.URL + "/api"

	code, body := call(t, http.MethodPost, api+"/auth/register", "", `{"name":"Ann","email":"ann@example.com","password":"secret1"}`)
	if code != http.StatusCreated {
		t.Fatalf("register: %d %v", code, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("no token in %v", body)
	}

	code, body = call(t, http.MethodPost, api+"/auth/register", "", `{"name":"Ann","email":"ann@example.com","password":"secret1"}`)
	if code != http.StatusConflict || body["message"] == nil {
		t.Fatalf("duplicate register: %d %v", code, body)
	}

	code, body = call(t, http.MethodPost, api+"/auth/login", "", `{"email":"ann@example.com","password":"nope"}`)
	if code != http.StatusUnauthorized || body["message"] != "Invalid email or password" {
		t.Fatalf("bad login: %d %v", code, body)
	}

	code, body = call(t, http.MethodPost, api+"/auth/login", "", `{"email":"not-an-email"}`)
	if code != http.StatusBadRequest || body["message"] == nil {
		t.Fatalf("invalid login payload: %d %v", code, body)
	}

	code, body = call(t, http.MethodGet, api+"/auth/validate", token, "")
	if code != http.StatusOK {
		t.Fatalf("validate: %d %v", code, body)
	}

	code, _ = call(t, http.MethodPost, api+"/wishlist/7", token, "")
	if code != http.StatusOK {
		t.Fatalf("wishlist add: %d", code)
	}
	code, body = call(t, http.MethodGet, api+"/wishlist", token, "")
	if list, _ := body["wishlist"].([]any); code != http.StatusOK || len(list) != 1 {
		t.Fatalf("wishlist list: %d %v", code, body)
	}

	code, body = call(t, http.MethodPut, api+"/users/profile", token, `{"name":"Annie"}`)
	user, _ := body["user"].(map[string]any)
	if code != http.StatusOK || user["name"] != "Annie" {
		t.Fatalf("update profile: %d %v", code, body)
	}

	code, _ = call(t, http.MethodPost, api+"/auth/logout", token, "")
	if code != http.StatusOK {
		t.Fatalf("logout: %d", code)
	}
	code, body = call(t, http.MethodGet, api+"/users/profile", token, "")
	if code != http.StatusUnauthorized || body["message"] == nil {
		t.Fatalf("revoked token: %d %v", code, body)
	}
}

func TestRouter_ProfileKeepsExtraFields(t *testing.T) {
	ts := newTestServer(t)
	api := ts.URL + "/api"

	code, body := call(t, http.MethodPost, api+"/auth/register", "", `{"name":"Bo","email":"bo@example.com","password":"secret1","phone":"555","id":"forged"}`)
	if code != http.StatusCreated {
		t.Fatalf("register: %d %v", code, body)
	}
	token, _ := body["token"].(string)
	user, _ := body["user"].(map[string]any)
	if user["phone"] != "555" || user["id"] == "forged" {
		t.Fatalf("registered user = %v", user)
	}

	code, body = call(t, http.MethodPut, api+"/users/profile", token, `{"bio":"hello"}`)
	user, _ = body["user"].(map[string]any)
	if code != http.StatusOK || user["bio"] != "hello" || user["phone"] != "555" || user["name"] != "Bo" {
		t.Fatalf("update profile: %d %v", code, body)
	}

	_, body = call(t, http.MethodGet, api+"/users/profile", token, "")
	user, _ = body["user"].(map[string]any)
	if user["bio"] != "hello" {
		t.Fatalf("stored profile = %v", body)
	}
}

func TestRouter_RequiresBearer(t *testing.T) {
	ts := newTestServer(t)

	code, body := call(t, http.MethodGet, ts.URL+"/api/wishlist", "", "")
	if code != http.StatusUnauthorized || body["message"] != "missing authorization header" {
		t.Fatalf("got %d %v", code, body)
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	if code, body := call(t, http.MethodGet, ts.URL+"/health", "", ""); code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("health: %d %v", code, body)
	}
	if code, body := call(t, http.MethodGet, ts.URL+"/health/ready", "", ""); code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("ready: %d %v", code, body)
	}

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(raw), "devserver_requests_total") {
		t.Fatalf("metrics: %d\n%s", resp.StatusCode, raw)
	}
}
