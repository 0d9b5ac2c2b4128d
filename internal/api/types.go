package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

// SuccessCode 后台成功业务码
const SuccessCode = 200

// Request 传输层请求
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Body        any
	NoNeedToken bool
}

// Response 后台统一响应体
type Response struct {
	Code     int             `json:"code"`
	Msg      string          `json:"msg"`
	Data     json.RawMessage `json:"data,omitempty"`
	Total    *int64          `json:"total,omitempty"`
	Page     *int            `json:"page,omitempty"`
	PageSize *int            `json:"page_size,omitempty"`
}

// OK 业务码是否成功
func (r *Response) OK() bool {
	return r != nil && r.Code == SuccessCode
}

// Decode 解析 data 字段
func (r *Response) Decode(dst any) error {
	if r == nil || len(r.Data) == 0 || string(r.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(r.Data, dst); err != nil {
		return fmt.Errorf("decode response data failed: %w", err)
	}
	return nil
}

// Transport 请求执行器
type Transport interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// TransportFunc 函数形式的 Transport
type TransportFunc func(ctx context.Context, req Request) (*Response, error)

// Do 执行请求
func (f TransportFunc) Do(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}

// ErrBindingNotFound 操作名未注册
var ErrBindingNotFound = errors.New("api binding not found")

// Params 可选参数对象，nil 视为空对象
type Params map[string]any

// Values 编码为查询参数，切片展开为多值
func (p Params) Values() url.Values {
	values := url.Values{}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch v := p[k].(type) {
		case nil:
		case []string:
			for _, item := range v {
				values.Add(k, item)
			}
		case []int:
			for _, item := range v {
				values.Add(k, strconv.Itoa(item))
			}
		case []any:
			for _, item := range v {
				values.Add(k, formatValue(item))
			}
		default:
			values.Add(k, formatValue(v))
		}
	}
	return values
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case decimal.Decimal:
		return x.String()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// Credentials 登录凭证
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AccessToken 登录结果
type AccessToken struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
}

// PasswordUpdate 修改密码请求
type PasswordUpdate struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// RechargeRequest 积分充值请求
type RechargeRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"` // alipay / wechat
}

// ExchangeCodeRequest 兑换码请求
type ExchangeCodeRequest struct {
	Code string `json:"code"`
}

// FrontendConfig 前台设置
type FrontendConfig struct {
	SiteName        string          `json:"site_name"`
	RechargeRate    decimal.Decimal `json:"recharge_rate"`
	MaintenanceMode bool            `json:"maintenance_mode"`
}

// AnnouncementToggle 切换公告状态
type AnnouncementToggle struct {
	AnnouncementID int64 `json:"announcement_id"`
}

// PointsChange 调整用户积分
type PointsChange struct {
	UserID      int64           `json:"user_id"`
	Points      decimal.Decimal `json:"points"`
	Description string          `json:"description,omitempty"`
}

// RoleRef 角色引用
type RoleRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UserInfo /base/userinfo 返回
type UserInfo struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Alias       string    `json:"alias"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Avatar      string    `json:"avatar"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	Roles       []RoleRef `json:"roles"`
}

// RoleNames 会话角色标识：角色名，超级用户额外拥有 admin
func (u UserInfo) RoleNames() []string {
	seen := map[string]struct{}{}
	var out []string
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	for _, r := range u.Roles {
		add(r.Name)
	}
	if u.IsSuperuser {
		add("admin")
	}
	return out
}

// Menu /base/usermenu 返回的菜单节点
type Menu struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	Component string `json:"component"`
	Icon      string `json:"icon"`
	Order     int    `json:"order"`
	ParentID  int64  `json:"parent_id"`
	IsHidden  bool   `json:"is_hidden"`
	KeepAlive bool   `json:"keepalive"`
	Redirect  string `json:"redirect"`
	MenuType  string `json:"menu_type"`
	Children  []Menu `json:"children"`
}
