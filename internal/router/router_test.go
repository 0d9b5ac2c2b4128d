package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/points-admin/console/internal/config"
	"github.com/points-admin/console/internal/constants"
	"github.com/points-admin/console/internal/models"
	"github.com/points-admin/console/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

type fakeAdminBackend struct {
	mu     sync.Mutex
	token  string
	paths  []string
	tokens []string
	query  []string
}

func (b *fakeAdminBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.paths = append(b.paths, r.Method+" "+r.URL.Path)
	b.tokens = append(b.tokens, r.Header.Get("token"))
	b.query = append(b.query, r.URL.RawQuery)
	b.mu.Unlock()

	write := func(data any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 200, "msg": "OK", "data": data})
	}
	switch r.URL.Path {
	case "/api/v1/base/admin_access_token":
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds["password"] != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"密码错误!"}`))
			return
		}
		write(map[string]string{"access_token": b.token, "username": creds["username"]})
	case "/api/v1/base/userinfo":
		write(map[string]any{"id": 5, "username": "agent01", "roles": []map[string]any{{"id": 2, "name": "agent"}}})
	case "/api/v1/base/usermenu":
		write([]map[string]any{{"id": 1, "name": "工作台", "path": "/workbench", "component": "/workbench", "order": 1}})
	case "/api/v1/base/userapi":
		write([]string{"get/api/v1/user/list"})
	case "/api/v1/user/list":
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":200,"msg":"OK","data":[{"id":5,"username":"agent01"}],"total":1,"page":1,"page_size":10}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Not Found"}`))
	}
}

func (b *fakeAdminBackend) requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.paths...)
}

func setupConsoleEngine(t *testing.T) (*gin.Engine, *fakeAdminBackend) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":      5,
		"username":     "agent01",
		"is_superuser": false,
		"exp":          time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("backend-secret"))
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	backend := &fakeAdminBackend{token: signed}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.LoginLog{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{
		Server:  config.ServerConfig{Mode: "debug"},
		Backend: config.BackendConfig{BaseURL: srv.URL, Prefix: "/api/v1", TokenHeader: "token", TimeoutSeconds: 5},
		Session: config.SessionConfig{CookieName: "console_session", TTLMinutes: 120, MemoryCapacity: 64},
		Console: config.ConsoleConfig{Title: "Points Admin", Anchor: "#app", CollapseWidth: 1024},
	}
	c, err := provider.NewContainerWithDB(cfg, db)
	if err != nil {
		t.Fatalf("init container failed: %v", err)
	}
	t.Cleanup(func() { _ = c.Close(t.Context()) })
	return SetupRouter(cfg, c), backend
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, target, body, sessionID string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set(constants.SessionHeader, sessionID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func login(t *testing.T, r *gin.Engine) (string, *httptest.ResponseRecorder) {
	t.Helper()
	w, env := doJSON(t, r, http.MethodPost, "/console/login", `{"username":"agent01","password":"secret"}`, "")
	if env.StatusCode != 0 {
		t.Fatalf("login failed: %s", w.Body.String())
	}
	var data struct {
		SessionID string   `json:"session_id"`
		Roles     []string `json:"roles"`
		Plugins   []string `json:"plugins"`
		Anchor    string   `json:"anchor"`
		Menu      []struct {
			Path string `json:"path"`
		} `json:"menu"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode login data failed: %v", err)
	}
	if data.SessionID == "" || data.Anchor != "#app" {
		t.Fatalf("login data mismatch: %s", env.Data)
	}
	if len(data.Roles) != 1 || data.Roles[0] != "agent" {
		t.Fatalf("roles want [agent] got %v", data.Roles)
	}
	if len(data.Plugins) != 5 || data.Plugins[0] != "store" || data.Plugins[1] != "router" {
		t.Fatalf("plugin order mismatch: %v", data.Plugins)
	}
	if len(data.Menu) == 0 || data.Menu[0].Path != "/workbench" {
		t.Fatalf("server menu should come first, got %+v", data.Menu)
	}
	return data.SessionID, w
}

func TestConsoleLoginSyncsSessionAndSetsCookie(t *testing.T) {
	r, backend := setupConsoleEngine(t)
	_, w := login(t, r)

	cookies := w.Result().Cookies()
	if len(cookies) == 0 || cookies[0].Name != "console_session" || !cookies[0].HttpOnly {
		t.Fatalf("session cookie missing: %v", cookies)
	}
	want := []string{
		"POST /api/v1/base/admin_access_token",
		"GET /api/v1/base/userinfo",
		"GET /api/v1/base/usermenu",
		"GET /api/v1/base/userapi",
	}
	got := backend.requests()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("backend calls want %v got %v", want, got)
	}
	if backend.tokens[0] != "" || backend.tokens[1] != backend.token {
		t.Fatalf("token header mismatch: %v", backend.tokens)
	}
}

func TestConsoleLoginRejected(t *testing.T) {
	r, _ := setupConsoleEngine(t)
	_, env := doJSON(t, r, http.MethodPost, "/console/login", `{"username":"agent01","password":"bad"}`, "")
	if env.StatusCode != 401 || env.Msg != "密码错误!" {
		t.Fatalf("rejected login want 401 with backend msg, got %+v", env)
	}
}

func TestConsoleGuardDecisions(t *testing.T) {
	r, _ := setupConsoleEngine(t)
	sessionID, _ := login(t, r)

	cases := []struct {
		path      string
		sessionID string
		want      string
	}{
		{path: "/points/info", sessionID: sessionID, want: "allow"},
		{path: "/system/agent", sessionID: sessionID, want: "allow"},
		{path: "/settings/frontend", sessionID: sessionID, want: "forbidden"},
		{path: "/nope", sessionID: sessionID, want: "not_found"},
		{path: "/points/info", want: "redirect_login"},
	}
	for _, tc := range cases {
		_, env := doJSON(t, r, http.MethodGet, "/console/guard?path="+tc.path, "", tc.sessionID)
		var data struct {
			Decision string `json:"decision"`
			Redirect string `json:"redirect"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			t.Fatalf("decode guard data failed: %v", err)
		}
		if data.Decision != tc.want {
			t.Fatalf("guard %s (session=%v) want %s got %s", tc.path, tc.sessionID != "", tc.want, data.Decision)
		}
		if tc.want == "redirect_login" && !strings.HasPrefix(data.Redirect, "/login?redirect=") {
			t.Fatalf("redirect want /login?redirect=... got %s", data.Redirect)
		}
	}
}

func TestConsoleProxyForwardsWithSessionToken(t *testing.T) {
	r, backend := setupConsoleEngine(t)
	sessionID, _ := login(t, r)

	w, _ := doJSON(t, r, http.MethodGet, "/api/v1/user/list?page=1&page_size=10", "", sessionID)
	var body struct {
		Code  int `json:"code"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode proxy body failed: %v", err)
	}
	if body.Code != 200 || body.Total != 1 {
		t.Fatalf("backend envelope should pass through, got %s", w.Body.String())
	}
	last := len(backend.tokens) - 1
	if backend.tokens[last] != backend.token || !strings.Contains(backend.query[last], "page_size=10") {
		t.Fatalf("proxy request mismatch: token=%q query=%q", backend.tokens[last], backend.query[last])
	}

	_, env := doJSON(t, r, http.MethodGet, "/api/v1/user/unknown", "", sessionID)
	if env.StatusCode != 404 {
		t.Fatalf("unknown binding want 404 got %+v", env)
	}
	_, env = doJSON(t, r, http.MethodGet, "/api/v1/user/list", "", "")
	if env.StatusCode != 401 {
		t.Fatalf("anonymous proxy want 401 got %+v", env)
	}
}

func TestConsoleProxyRefusesLoginBindings(t *testing.T) {
	r, backend := setupConsoleEngine(t)
	sessionID, _ := login(t, r)
	before := len(backend.requests())

	creds := `{"username":"agent01","password":"secret"}`
	for _, target := range []string{"/api/v1/base/admin_access_token", "/api/v1/base/access_token"} {
		for _, sid := range []string{"", sessionID} {
			_, env := doJSON(t, r, http.MethodPost, target, creds, sid)
			if env.StatusCode != 404 {
				t.Fatalf("login binding %s via proxy want 404 got %+v", target, env)
			}
		}
	}
	if got := backend.requests()[before:]; len(got) != 0 {
		t.Fatalf("login bindings must not reach backend through proxy, got %v", got)
	}
}

func TestConsoleLogoutDropsSession(t *testing.T) {
	r, _ := setupConsoleEngine(t)
	sessionID, _ := login(t, r)

	if _, env := doJSON(t, r, http.MethodGet, "/console/me", "", sessionID); env.StatusCode != 0 {
		t.Fatalf("me should succeed before logout, got %+v", env)
	}
	if _, env := doJSON(t, r, http.MethodPost, "/console/logout", "", sessionID); env.StatusCode != 0 {
		t.Fatalf("logout failed: %+v", env)
	}
	if _, env := doJSON(t, r, http.MethodGet, "/console/me", "", sessionID); env.StatusCode != 401 {
		t.Fatalf("me after logout want 401 got %+v", env)
	}
}

func TestConsoleLoginLogsRequireAdmin(t *testing.T) {
	r, _ := setupConsoleEngine(t)
	sessionID, _ := login(t, r)
	if _, env := doJSON(t, r, http.MethodGet, "/console/login-logs", "", sessionID); env.StatusCode != 403 {
		t.Fatalf("agent should not read login logs, got %+v", env)
	}
}

func TestConsoleShellAndFallback(t *testing.T) {
	r, _ := setupConsoleEngine(t)
	for _, target := range []string{"/", "/points/info"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `<div id="app"></div>`) {
			t.Fatalf("%s should serve shell, got %d %s", target, w.Code, w.Body.String())
		}
	}
	_, env := doJSON(t, r, http.MethodGet, "/console/nope", "", "")
	if env.StatusCode != 404 {
		t.Fatalf("unknown console endpoint want 404 got %+v", env)
	}
}
