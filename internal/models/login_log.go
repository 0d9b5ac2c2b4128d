package models

import "time"

// LoginLog 控制台登录日志
// 说明：记录经控制台转发到管理后台的登录结果，用于审计与安全排查。
type LoginLog struct {
	ID          uint      `gorm:"primarykey" json:"id"`                       // 主键
	UserID      int64     `gorm:"index" json:"user_id"`                       // 后台用户ID（失败时为0）
	Username    string    `gorm:"index;not null" json:"username"`             // 登录用户名
	Status      string    `gorm:"index;not null" json:"status"`               // 登录结果（success/failed）
	FailReason  string    `gorm:"index" json:"fail_reason"`                   // 失败原因枚举
	ClientIP    string    `gorm:"type:varchar(64);index" json:"client_ip"`    // 客户端IP
	UserAgent   string    `gorm:"type:text" json:"user_agent"`                // 客户端UA
	LoginSource string    `gorm:"type:varchar(32);index" json:"login_source"` // 登录入口（admin/client）
	RequestID   string    `gorm:"type:varchar(64);index" json:"request_id"`   // 请求追踪ID
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                    // 记录时间
}

// TableName 指定表名
func (LoginLog) TableName() string {
	return "console_login_logs"
}
