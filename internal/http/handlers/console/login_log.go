package console

import (
	"strconv"
	"strings"
	"time"

	"github.com/points-admin/console/internal/http/handlers/shared"
	"github.com/points-admin/console/internal/http/response"
	"github.com/points-admin/console/internal/repository"

	"github.com/gin-gonic/gin"
)

// adminRole 可查看登录日志的角色
const adminRole = "admin"

// GetLoginLogs 获取控制台登录日志列表
func (h *Handler) GetLoginLogs(c *gin.Context) {
	sess, ok := shared.RequireSession(c)
	if !ok {
		return
	}
	if !sess.IsSuperuser && !sess.HasRole(adminRole) {
		shared.RespondAppError(c, response.ErrForbidden)
		return
	}

	page, pageSize := shared.PageQuery(c)

	var userID int64
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			shared.RespondAppError(c, response.ErrBadRequest.Wrap(err))
			return
		}
		userID = parsed
	}
	createdFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("created_from")))
	if err != nil {
		shared.RespondAppError(c, response.ErrBadRequest.Wrap(err))
		return
	}
	createdTo, err := parseTimeNullable(strings.TrimSpace(c.Query("created_to")))
	if err != nil {
		shared.RespondAppError(c, response.ErrBadRequest.Wrap(err))
		return
	}

	logs, total, err := h.LoginLogService.List(repository.LoginLogListFilter{
		Page:        page,
		PageSize:    pageSize,
		UserID:      userID,
		Username:    strings.TrimSpace(c.Query("username")),
		Keyword:     strings.TrimSpace(c.Query("keyword")),
		Status:      strings.TrimSpace(c.Query("status")),
		LoginSource: strings.TrimSpace(c.Query("login_source")),
		ClientIP:    strings.TrimSpace(c.Query("client_ip")),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		shared.RespondAppError(c, response.ErrInternal.Wrap(err))
		return
	}

	response.SuccessWithPage(c, logs, response.BuildPagination(page, pageSize, total))
}

func parseTimeNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
