package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newContext(target string, headers map[string]string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}
	return c
}

func TestResolveLocalePrecedence(t *testing.T) {
	cases := []struct {
		name    string
		target  string
		headers map[string]string
		want    string
	}{
		{name: "default", target: "/", want: LocaleZhCN},
		{name: "accept-language", target: "/", headers: map[string]string{"Accept-Language": "en-GB,en;q=0.8"}, want: LocaleEnUS},
		{name: "header beats accept", target: "/", headers: map[string]string{"Accept-Language": "en", HeaderKey: "zh"}, want: LocaleZhCN},
		{name: "query beats header", target: "/?lang=en", headers: map[string]string{HeaderKey: "zh-CN"}, want: LocaleEnUS},
		{name: "garbage falls back", target: "/?lang=!!", want: LocaleZhCN},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveLocale(newContext(tc.target, tc.headers))
			if got != tc.want {
				t.Fatalf("locale want %s got %s", tc.want, got)
			}
		})
	}
}

func TestTFallsBackToDefaultThenKey(t *testing.T) {
	if got := T(LocaleEnUS, "error.forbidden"); got != "Permission denied" {
		t.Fatalf("en forbidden got %s", got)
	}
	if got := T("fr-FR", "error.forbidden"); got != "没有访问权限" {
		t.Fatalf("unknown locale should fall back to default, got %s", got)
	}
	if got := T(LocaleEnUS, "error.missing_key"); got != "error.missing_key" {
		t.Fatalf("missing key should echo key, got %s", got)
	}
}

func TestSprintfAndTitle(t *testing.T) {
	if got := Sprintf(LocaleEnUS, "error.rate_limited", 30); got != "Too many requests, retry in 30 seconds" {
		t.Fatalf("sprintf got %s", got)
	}
	if got := Title(LocaleEnUS, "积分管理"); got != "Points" {
		t.Fatalf("title got %s", got)
	}
	if got := Title(LocaleZhCN, "积分管理"); got != "积分管理" {
		t.Fatalf("zh title should be kept, got %s", got)
	}
}

func TestNewBundleNormalizes(t *testing.T) {
	if b := NewBundle("en"); b.Locale != LocaleEnUS {
		t.Fatalf("bundle locale want en-US got %s", b.Locale)
	}
	if b := NewBundle(""); b.Locale != Default() {
		t.Fatalf("empty bundle locale want default got %s", b.Locale)
	}
}
