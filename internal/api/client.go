package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// Client 绑定表的类型化调用入口，每个方法只发起一次 Transport.Do
// 不做重试、缓存、校验或响应转换，传输层错误原样返回
type Client struct {
	transport Transport
}

// NewClient 创建客户端
func NewClient(transport Transport) *Client {
	return &Client{transport: transport}
}

// Call 按操作名动态调用
func (c *Client) Call(ctx context.Context, name string, params any) (*Response, error) {
	b, ok := byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBindingNotFound, name)
	}
	return c.Invoke(ctx, b, params)
}

// Invoke 按绑定发起请求
func (c *Client) Invoke(ctx context.Context, b Binding, params any) (*Response, error) {
	req := Request{
		Method:      b.Method,
		Path:        b.Path,
		NoNeedToken: b.NoNeedToken,
	}
	switch b.Channel {
	case ChannelQuery:
		values, err := toValues(params)
		if err != nil {
			return nil, err
		}
		req.Query = values
	case ChannelBody:
		if params == nil {
			params = Params{}
		}
		req.Body = params
	}
	return c.transport.Do(ctx, req)
}

func toValues(params any) (url.Values, error) {
	switch v := params.(type) {
	case nil:
		return url.Values{}, nil
	case url.Values:
		return v, nil
	case Params:
		return v.Values(), nil
	case map[string]any:
		return Params(v).Values(), nil
	case map[string]string:
		values := url.Values{}
		for k, s := range v {
			values.Set(k, s)
		}
		return values, nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode query params failed: %w", err)
		}
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("query params must be an object: %w", err)
		}
		return Params(m).Values(), nil
	}
}

// base

func (c *Client) Login(ctx context.Context, creds Credentials) (*Response, error) {
	return c.Call(ctx, OpLogin, creds)
}

func (c *Client) ClientLogin(ctx context.Context, creds Credentials) (*Response, error) {
	return c.Call(ctx, OpClientLogin, creds)
}

func (c *Client) GetUserInfo(ctx context.Context) (*Response, error) {
	return c.Call(ctx, OpGetUserInfo, nil)
}

func (c *Client) GetUserMenu(ctx context.Context) (*Response, error) {
	return c.Call(ctx, OpGetUserMenu, nil)
}

func (c *Client) GetUserAPI(ctx context.Context) (*Response, error) {
	return c.Call(ctx, OpGetUserAPI, nil)
}

func (c *Client) GetPermissionMenuMapping(ctx context.Context) (*Response, error) {
	return c.Call(ctx, OpGetPermissionMenuMapping, nil)
}

func (c *Client) UpdatePassword(ctx context.Context, body any) (*Response, error) {
	return c.Call(ctx, OpUpdatePassword, body)
}

// user

func (c *Client) GetUserList(ctx context.Context, params Params) (*Response, error) {
	return c.Call(ctx, OpGetUserList, params)
}

func (c *Client) GetUserByID(ctx context.Context, params Params) (*Response, error) {
	return c.Call(ctx, OpGetUserByID, params)
}

func (c *Client) CreateUser(ctx context.Context, body any) (*Response, error) {
	return c.Call(ctx, OpCreateUser, body)
}

func (c *Client) UpdateUser(ctx context.Context, body any) (*Response, error) {
	return c.Call(ctx, OpUpdateUser, body)
}

func (c *Client) DeleteUser(ctx context.Context, params Params) (*Response, error) {
	return c.Call(ctx, OpDeleteUser, params)
}

func (c *Client) ResetPassword(ctx context.Context, body any) (*Response, error) {
	return c.Call(ctx, OpResetPassword, body)
}

func (c *Client) GetInvitationInfo(ctx context.Context) (*Response, error) {
	return c.Call(ctx, OpGetInvitationInfo, nil)
}

func (c *Client) GetSubordinateUsers(ctx context.Context, params Params) (*Response, error) {
	return c.Call(ctx, OpGetSubordinateUsers, params)
}

func (c *Client) AddUserPoints(ctx context.Context, body any) (*Response, error) {
	return c.Call(ctx, OpAddUserPoints, body)
}

func (c *Client) DeductUserPoints(ctx context.Context, body any) (*Response, error) {
	return c.Call(ctx, OpDeductUserPoints, body)
}

func (c *Client) GetAgentList(ctx context.Context, params Params) (*Response, error) {
	return c.Call(ctx, OpGetAgentList, params)
}

// role

func (c *Client) GetRoleList(ctx context.Context, params Params) (*Response, error) {
	return c.Call(ctx, OpGetRoleList, params)
}

func (c *Client) CreateRole(ctx context.Context, body any) (*Response, error) {
	return c.Call(ctx, OpCreateRole, body)
}

func (c *Client) UpdateRole(ctx context.Context, body any) (*Response, error) {
	return c.Call(ctx, OpUpdateRole, body)
}

func (c *Client) DeleteRole(ctx context.Context, params Params) (*Response, error) {
	return c.Call(ctx, OpDeleteRole, params)
}

func (c *Client) CheckRoleUsers(ctx context.Context, params Params) (*Response, error) {
	return c.Call(ctx, OpCheckRoleUsers, params)
}

func (c *Client) UpdateRoleAuthorized(ctx context.Context, body any) (*Response, error) {
	return c.Call(ctx, OpUpdateRoleAuthorized, body)
}

func (c *Client) GetRoleAuthorized(ctx context.Context, params Params) (*Response, error) {
	return c.Call(ctx, OpGetRoleAuthorized, params)
}

func (c *Client) UpdateRoleAgentPermissions(ctx context.Context, body any) (*Response, error) {
	return c.Call(ctx, OpUpdateRoleAgentPermissions, body)
}

func (c *Client) GetAgentPermissionsConfig(ctx context.Context) (*Response, error) {
	return c.Call(ctx, OpGetAgentPermissionsConfig, nil)
}

func (c *Client) GetAgentRoles(ctx context.Context) (*Response, error) {
	return c.Call(ctx, OpGetAgentRoles, nil)
}

func (c *Client) GetCreatableRoles(ctx context.Context) (*Response, error) {
	return c.Call(ctx, OpGetCreatableRoles, nil)
}

// menu

func (c *Client) GetMenus(ctx context.Context, params Params) (*Response, error) {
	return c.Call(ctx, OpGetMenus, params)
}

func (c *Client) CreateMenu(ctx context.Context, body any) (*Response, error) {
	return c.Call(ctx, OpCreateMenu, body)
}

func (c *Client) UpdateMenu(ctx context.Context, body any) (*Response, error) {
	return c.Call(ctx, OpUpdateMenu, body)
}

func (c *Client) DeleteMenu(ctx context.Context, params Params) (*Response, error) {
	return c.Call(ctx, OpDeleteMenu, params)
}

// api

func (c *Client) GetAPIs(ctx context.Context, params Params) (*Response, error) {
	return c.Call(ctx, OpGetAPIs, params)
}

func (c *Client) CreateAPI(ctx context.Context, body any) (*Response, error) {
	return c.Call(ctx, OpCreateAPI, body)
}

func (c *Client) UpdateAPI(ctx context.Context, body any) (*Response, error) {
	return c.Call(ctx, OpUpdateAPI, body)
}

func (c *Client) DeleteAPI(ctx context.Context, params Params) (*Response, error) {
	return c.Call(ctx, OpDeleteAPI, params)
}

func (c *Client) RefreshAPI(ctx context.Context, body any) (*Response, error) {
	return c.Call(ctx, OpRefreshAPI, body)
}

// auditlog

func (c *Client) GetAuditLogList(ctx context.Context, params Params) (*Response, error) {
	return c.Call(ctx, OpGetAuditLogList, params)
}

// points

func (c *Client) GetPointsInfo(ctx context.Context) (*Response, error) {
	return c.Call(ctx, OpGetPointsInfo, nil)
}

func (c *Client) UseExchangeCode(ctx context.Context, req ExchangeCodeRequest) (*Response, error) {
	return c.Call(ctx, OpUseExchangeCode, req)
}

func (c *Client) RechargePoints(ctx context.Context, req RechargeRequest) (*Response, error) {
	return c.Call(ctx, OpRechargePoints, req)
}

func (c *Client) GetRechargeRecords(ctx context.Context, params Params) (*Response, error) {
	return c.Call(ctx, OpGetRechargeRecords, params)
}

func (c *Client) GetUsageRecords(ctx context.Context, params Params) (*Response, error) {
	return c.Call(ctx, OpGetUsageRecords, params)
}

func (c *Client) CreateUsageRecord(ctx context.Context, params Params) (*Response, error) {
	return c.Call(ctx, OpCreateUsageRecord, params)
}

// announcement

func (c *Client) GetActiveAnnouncements(ctx context.Context) (*Response, error) {
	return c.Call(ctx, OpGetActiveAnnouncements, nil)
}

func (c *Client) GetAnnouncementList(ctx context.Context, params Params) (*Response, error) {
	return c.Call(ctx, OpGetAnnouncementList, params)
}

func (c *Client) GetAnnouncementByID(ctx context.Context, params Params) (*Response, error) {
	return c.Call(ctx, OpGetAnnouncementByID, params)
}

func (c *Client) CreateAnnouncement(ctx context.Context, body any) (*Response, error) {
	return c.Call(ctx, OpCreateAnnouncement, body)
}

func (c *Client) UpdateAnnouncement(ctx context.Context, body any) (*Response, error) {
	return c.Call(ctx, OpUpdateAnnouncement, body)
}

func (c *Client) ToggleAnnouncementStatus(ctx context.Context, req AnnouncementToggle) (*Response, error) {
	return c.Call(ctx, OpToggleAnnouncementStatus, req)
}

func (c *Client) DeleteAnnouncement(ctx context.Context, params Params) (*Response, error) {
	return c.Call(ctx, OpDeleteAnnouncement, params)
}

// sys_config

func (c *Client) GetSysConfigList(ctx context.Context, params Params) (*Response, error) {
	return c.Call(ctx, OpGetSysConfigList, params)
}

func (c *Client) GetSysConfigByID(ctx context.Context, params Params) (*Response, error) {
	return c.Call(ctx, OpGetSysConfigByID, params)
}

func (c *Client) CreateSysConfig(ctx context.Context, body any) (*Response, error) {
	return c.Call(ctx, OpCreateSysConfig, body)
}

func (c *Client) UpdateSysConfig(ctx context.Context, body any) (*Response, error) {
	return c.Call(ctx, OpUpdateSysConfig, body)
}

func (c *Client) DeleteSysConfig(ctx context.Context, params Params) (*Response, error) {
	return c.Call(ctx, OpDeleteSysConfig, params)
}

func (c *Client) GetFrontendConfig(ctx context.Context) (*Response, error) {
	return c.Call(ctx, OpGetFrontendConfig, nil)
}

func (c *Client) UpdateFrontendConfig(ctx context.Context, cfg FrontendConfig) (*Response, error) {
	return c.Call(ctx, OpUpdateFrontendConfig, cfg)
}
