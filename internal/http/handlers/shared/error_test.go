package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/points-admin/console/internal/http/response"
	"github.com/points-admin/console/internal/repository"

	"github.com/gin-gonic/gin"
)

func newTestContext(target string, header http.Header) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		c.Request.Header[k] = v
	}
	return c, w
}

func TestRespondAppErrorTranslatesKey(t *testing.T) {
	c, w := newTestContext("/api/v1/x", http.Header{"Accept-Language": {"en-US"}})
	RespondAppError(c, response.ErrBindingNotFound.Wrap(errors.New("no binding")))

	var body response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	if body.StatusCode != response.CodeNotFound || body.Msg != "Endpoint is not registered" {
		t.Fatalf("want 404 translated message got %+v", body)
	}
}

func TestRespondAppErrorKeepsExplicitMessage(t *testing.T) {
	c, w := newTestContext("/console/login", nil)
	RespondErrorWithMsg(c, response.CodeUnauthorized, "密码错误!", nil)

	var body response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.StatusCode != response.CodeUnauthorized || body.Msg != "密码错误!" {
		t.Fatalf("explicit message should pass through, got %+v", body)
	}

	c, w = newTestContext("/console/x", nil)
	RespondAppError(c, errors.New("boom"))
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.StatusCode != response.CodeInternal {
		t.Fatalf("plain error want internal got %+v", body)
	}
}

func TestPageQuery(t *testing.T) {
	c, _ := newTestContext("/console/login-logs?page=3&page_size=500", nil)
	page, size := PageQuery(c)
	if page != 3 || size != repository.MaxPageSize {
		t.Fatalf("want 3,%d got %d,%d", repository.MaxPageSize, page, size)
	}
	c, _ = newTestContext("/console/login-logs?page=abc", nil)
	page, size = PageQuery(c)
	if page != 1 || size != repository.DefaultPageSize {
		t.Fatalf("invalid query want defaults got %d,%d", page, size)
	}
}
