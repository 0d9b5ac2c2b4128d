package i18n

var messages = map[string]map[string]string{
	LocaleZhCN: {
		"error.bad_request":            "请求参数错误",
		"error.unauthorized":           "未登录或登录已过期",
		"error.forbidden":              "没有访问权限",
		"error.not_found":              "资源不存在",
		"error.internal":               "服务器内部错误",
		"error.session_invalid":        "会话无效，请重新登录",
		"error.binding_not_found":      "接口未注册",
		"error.backend_unavailable":    "后台服务不可用",
		"error.backend_rejected":       "后台服务返回错误：%s",
		"error.login_failed":           "登录失败",
		"error.login_too_many":         "登录尝试过多，请 %d 秒后再试",
		"error.rate_limited":           "请求过于频繁，请 %d 秒后再试",
		"error.rate_limit_unavailable": "限流服务不可用",
		"error.route_not_found":        "页面不存在",
		"message.login_success":        "登录成功",
		"message.logout_success":       "已退出登录",
		"guard.allow":                  "允许访问",
		"guard.redirect_login":         "请先登录",
		"guard.forbidden":              "没有访问该页面的权限",
	},
	LocaleEnUS: {
		"error.bad_request":            "Invalid request parameters",
		"error.unauthorized":           "Not logged in or session expired",
		"error.forbidden":              "Permission denied",
		"error.not_found":              "Resource not found",
		"error.internal":               "Internal server error",
		"error.session_invalid":        "Session invalid, please log in again",
		"error.binding_not_found":      "Endpoint is not registered",
		"error.backend_unavailable":    "Backend service unavailable",
		"error.backend_rejected":       "Backend returned an error: %s",
		"error.login_failed":           "Login failed",
		"error.login_too_many":         "Too many login attempts, retry in %d seconds",
		"error.rate_limited":           "Too many requests, retry in %d seconds",
		"error.rate_limit_unavailable": "Rate limiter unavailable",
		"error.route_not_found":        "Page not found",
		"message.login_success":        "Logged in",
		"message.logout_success":       "Logged out",
		"guard.allow":                  "Access granted",
		"guard.redirect_login":         "Please log in first",
		"guard.forbidden":              "You are not allowed to open this page",
		"title.积分管理":                   "Points",
		"title.积分信息":                   "Points Overview",
		"title.使用记录":                   "Usage Records",
		"title.前台设置":                   "Frontend Settings",
		"title.公告设置":                   "Announcements",
		"title.代理管理":                   "Agents",
	},
}
