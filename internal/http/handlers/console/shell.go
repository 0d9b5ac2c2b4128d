package console

import (
	"bytes"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/points-admin/console/internal/http/handlers/shared"
	"github.com/points-admin/console/internal/i18n"

	"github.com/gin-gonic/gin"
)

var shellTemplate = template.Must(template.New("shell").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
</head>
<body>
<div id="{{.AnchorID}}"></div>
</body>
</html>
`))

type shellData struct {
	Lang     string
	Title    string
	AnchorID string
}

// Shell 返回单页应用外壳，前端路由由挂载点接管
func (h *Handler) Shell(c *gin.Context) {
	if dir := strings.TrimSpace(h.Config.Console.StaticDir); dir != "" {
		index := filepath.Join(dir, "index.html")
		if _, err := os.Stat(index); err == nil {
			c.File(index)
			return
		}
	}

	anchor := strings.TrimPrefix(strings.TrimSpace(h.Config.Console.Anchor), "#")
	if anchor == "" {
		anchor = "app"
	}
	var buf bytes.Buffer
	if err := shellTemplate.Execute(&buf, shellData{
		Lang:     i18n.ResolveLocale(c),
		Title:    h.Config.Console.Title,
		AnchorID: anchor,
	}); err != nil {
		shared.RequestLog(c).Errorw("console_shell_render_failed", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
