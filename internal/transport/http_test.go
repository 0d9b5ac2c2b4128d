package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/points-admin/console/internal/api"
	"github.com/points-admin/console/internal/config"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

type captured struct {
	method string
	path   string
	query  string
	token  string
	body   string
	ctype  string
}

func newBackend(t *testing.T, status int, payload string) (*httptest.Server, *[]captured) {
	t.Helper()
	var got []captured
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = append(got, captured{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			token:  r.Header.Get("token"),
			body:   string(body),
			ctype:  r.Header.Get("Content-Type"),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func newTestHTTP(t *testing.T, srv *httptest.Server, tokens TokenSource) *HTTP {
	t.Helper()
	h, err := New(config.BackendConfig{
		BaseURL:     srv.URL,
		Prefix:      "/api/v1",
		TokenHeader: "token",
		Log:         true,
	}, tokens, WithHTTPClient(srv.Client()), WithLogger(zap.NewNop().Sugar()))
	if err != nil {
		t.Fatalf("new transport failed: %v", err)
	}
	h.metrics = newClientMetrics()
	return h
}

func TestDoSendsQueryAndToken(t *testing.T) {
	srv, got := newBackend(t, http.StatusOK, `{"code":200,"msg":"OK","data":[{"id":1}],"total":1,"page":1,"page_size":10}`)
	h := newTestHTTP(t, srv, ContextTokens)
	client := api.NewClient(h)

	ctx := WithToken(context.Background(), "tok-1")
	resp, err := client.GetUserList(ctx, api.Params{"page": 1, "page_size": 10})
	if err != nil {
		t.Fatalf("get user list failed: %v", err)
	}
	if resp.Total == nil || *resp.Total != 1 {
		t.Fatalf("total want 1 got %v", resp.Total)
	}
	var rows []map[string]any
	if err := resp.Decode(&rows); err != nil || len(rows) != 1 {
		t.Fatalf("decode rows failed: %v %v", err, rows)
	}

	if len(*got) != 1 {
		t.Fatalf("backend calls want 1 got %d", len(*got))
	}
	call := (*got)[0]
	if call.method != http.MethodGet || call.path != "/api/v1/user/list" {
		t.Fatalf("request want GET /api/v1/user/list got %s %s", call.method, call.path)
	}
	if call.query != "page=1&page_size=10" {
		t.Fatalf("query got %s", call.query)
	}
	if call.token != "tok-1" {
		t.Fatalf("token header want tok-1 got %q", call.token)
	}
	if call.body != "" {
		t.Fatalf("GET should not send a body, got %s", call.body)
	}
	if v := testutil.ToFloat64(h.metrics.handled.WithLabelValues("GET", "/user/list", "200", "ok")); v != 1 {
		t.Fatalf("handled counter want 1 got %v", v)
	}
}

func TestDoSkipsTokenForLogin(t *testing.T) {
	srv, got := newBackend(t, http.StatusOK, `{"code":200,"msg":"OK","data":{"access_token":"jwt","username":"admin"}}`)
	h := newTestHTTP(t, srv, TokenFunc(func(context.Context) (string, error) {
		return "should-not-be-sent", nil
	}))

	resp, err := api.NewClient(h).Login(context.Background(), api.Credentials{Username: "admin", Password: "123456"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	var tok api.AccessToken
	if err := resp.Decode(&tok); err != nil || tok.AccessToken != "jwt" {
		t.Fatalf("decode token failed: %v %+v", err, tok)
	}
	call := (*got)[0]
	if call.token != "" {
		t.Fatalf("login must not carry token, got %q", call.token)
	}
	if call.ctype != "application/json" {
		t.Fatalf("content type want application/json got %s", call.ctype)
	}
	var body map[string]string
	if err := json.Unmarshal([]byte(call.body), &body); err != nil || body["username"] != "admin" {
		t.Fatalf("login body got %s", call.body)
	}
}

func TestDoReturnsAPIErrorOnBusinessCode(t *testing.T) {
	srv, got := newBackend(t, http.StatusOK, `{"code":400,"msg":"用户名已存在"}`)
	h := newTestHTTP(t, srv, nil)

	resp, err := api.NewClient(h).CreateUser(context.Background(), api.Params{"username": "dup"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want APIError got %v", err)
	}
	if apiErr.Code != 400 || apiErr.Msg != "用户名已存在" {
		t.Fatalf("api error got %+v", apiErr)
	}
	if resp == nil || resp.Code != 400 {
		t.Fatalf("response should still be returned, got %+v", resp)
	}
	if v := testutil.ToFloat64(h.metrics.handled.WithLabelValues("POST", "/user/create", "200", "rejected")); v != 1 {
		t.Fatalf("rejected counter want 1 got %v", v)
	}
	if len(*got) != 1 {
		t.Fatalf("no retry expected, calls=%d", len(*got))
	}
}

func TestDoReturnsStatusErrorWithoutRetry(t *testing.T) {
	srv, got := newBackend(t, http.StatusUnauthorized, `{"detail":"Authentication failed"}`)
	h := newTestHTTP(t, srv, nil)

	_, err := api.NewClient(h).GetUserInfo(context.Background())
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("want 401 StatusError got %v", err)
	}
	if !IsUnauthorized(err) {
		t.Fatalf("IsUnauthorized should be true")
	}
	if Message(err) != "Authentication failed" || !IsRejected(err) {
		t.Fatalf("detail should be extracted, got %q", Message(err))
	}
	if len(*got) != 1 {
		t.Fatalf("no retry expected, calls=%d", len(*got))
	}
}

func TestDoPropagatesTokenSourceError(t *testing.T) {
	srv, got := newBackend(t, http.StatusOK, `{"code":200}`)
	boom := errors.New("no session")
	h := newTestHTTP(t, srv, TokenFunc(func(context.Context) (string, error) { return "", boom }))

	_, err := api.NewClient(h).GetUserInfo(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("want token source error got %v", err)
	}
	if len(*got) != 0 {
		t.Fatalf("request should not be sent, calls=%d", len(*got))
	}
}

func TestNewRejectsUnsupportedScheme(t *testing.T) {
	if _, err := New(config.BackendConfig{BaseURL: "ftp://x"}, nil); err == nil {
		t.Fatalf("expected error for ftp scheme")
	}
}

func TestURLJoinsPrefix(t *testing.T) {
	h, err := New(config.BackendConfig{BaseURL: "http://backend:9999/", Prefix: "api/v1/"}, nil)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	if got := h.URL("/base/userinfo", nil); got != "http://backend:9999/api/v1/base/userinfo" {
		t.Fatalf("url got %s", got)
	}
}

func TestNewKeepsCallerClient(t *testing.T) {
	srv, got := newBackend(t, http.StatusOK, `{"code":200,"msg":"OK"}`)
	caller := srv.Client()
	original := caller.Transport

	h, err := New(config.BackendConfig{BaseURL: srv.URL, Tracing: true}, nil, WithHTTPClient(caller))
	if err != nil {
		t.Fatalf("new transport failed: %v", err)
	}
	if caller.Transport != original {
		t.Fatalf("caller client transport must not be replaced")
	}
	if h.client == caller || h.client.Transport == original {
		t.Fatalf("tracing should wrap a copy of the caller client")
	}
	if _, err := api.NewClient(h).GetUserInfo(context.Background()); err != nil {
		t.Fatalf("traced request failed: %v", err)
	}
	if len(*got) != 1 {
		t.Fatalf("traced request should hit backend once, calls=%d", len(*got))
	}
}

func TestMetricLabelsStayBounded(t *testing.T) {
	if got := statusLabel(0); got != "error" {
		t.Fatalf("status label without response want error got %s", got)
	}
	if got := statusLabel(http.StatusBadGateway); got != "502" {
		t.Fatalf("status label want 502 got %s", got)
	}
	results := map[string]error{
		"ok":       nil,
		"rejected": &APIError{Code: 40017, Msg: "余额不足"},
		"error":    &StatusError{StatusCode: http.StatusBadGateway},
	}
	for want, err := range results {
		if got := resultLabel(err); got != want {
			t.Fatalf("result label for %v want %s got %s", err, want, got)
		}
	}
}
