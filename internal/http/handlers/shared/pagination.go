package shared

import (
	"strconv"

	"github.com/points-admin/console/internal/repository"

	"github.com/gin-gonic/gin"
)

// PageQuery 读取 page 与 page_size 查询参数，非法值按默认分页处理
func PageQuery(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	return repository.NormalizePage(page, pageSize)
}
