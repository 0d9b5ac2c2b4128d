package api

import (
	"net/http"
	"strings"
)

// Channel 参数通道
type Channel string

const (
	// ChannelNone 无参数
	ChannelNone Channel = ""
	// ChannelQuery 参数编码到查询字符串
	ChannelQuery Channel = "query"
	// ChannelBody 参数作为 JSON 请求体
	ChannelBody Channel = "body"
)

// Binding 逻辑操作名到 HTTP 动词/路径的绑定
type Binding struct {
	Name        string  `json:"name"`
	Method      string  `json:"method"`
	Path        string  `json:"path"`
	Channel     Channel `json:"channel"`
	NoNeedToken bool    `json:"no_need_token"`
}

// Key 以 "METHOD path" 表示的绑定键
func (b Binding) Key() string {
	return b.Method + " " + b.Path
}

// Permission 与 /base/userapi 返回格式一致的权限标识，例如 get/api/v1/user/list
func (b Binding) Permission(prefix string) string {
	return strings.ToLower(b.Method) + strings.TrimRight(prefix, "/") + b.Path
}

const (
	OpLogin                      = "login"
	OpClientLogin                = "clientLogin"
	OpGetUserInfo                = "getUserInfo"
	OpGetUserMenu                = "getUserMenu"
	OpGetUserAPI                 = "getUserApi"
	OpGetPermissionMenuMapping   = "getPermissionMenuMapping"
	OpUpdatePassword             = "updatePassword"
	OpGetUserList                = "getUserList"
	OpGetUserByID                = "getUserById"
	OpCreateUser                 = "createUser"
	OpUpdateUser                 = "updateUser"
	OpDeleteUser                 = "deleteUser"
	OpResetPassword              = "resetPassword"
	OpGetInvitationInfo          = "getInvitationInfo"
	OpGetSubordinateUsers        = "getSubordinateUsers"
	OpAddUserPoints              = "addUserPoints"
	OpDeductUserPoints           = "deductUserPoints"
	OpGetAgentList               = "getAgentList"
	OpGetRoleList                = "getRoleList"
	OpCreateRole                 = "createRole"
	OpUpdateRole                 = "updateRole"
	OpDeleteRole                 = "deleteRole"
	OpCheckRoleUsers             = "checkRoleUsers"
	OpUpdateRoleAuthorized       = "updateRoleAuthorized"
	OpGetRoleAuthorized          = "getRoleAuthorized"
	OpUpdateRoleAgentPermissions = "updateRoleAgentPermissions"
	OpGetAgentPermissionsConfig  = "getAgentPermissionsConfig"
	OpGetAgentRoles              = "getAgentRoles"
	OpGetCreatableRoles          = "getCreatableRoles"
	OpGetMenus                   = "getMenus"
	OpCreateMenu                 = "createMenu"
	OpUpdateMenu                 = "updateMenu"
	OpDeleteMenu                 = "deleteMenu"
	OpGetAPIs                    = "getApis"
	OpCreateAPI                  = "createApi"
	OpUpdateAPI                  = "updateApi"
	OpDeleteAPI                  = "deleteApi"
	OpRefreshAPI                 = "refreshApi"
	OpGetAuditLogList            = "getAuditLogList"
	OpGetPointsInfo              = "getPointsInfo"
	OpUseExchangeCode            = "useExchangeCode"
	OpRechargePoints             = "rechargePoints"
	OpGetRechargeRecords         = "getRechargeRecords"
	OpGetUsageRecords            = "getUsageRecords"
	OpCreateUsageRecord          = "createUsageRecord"
	OpGetActiveAnnouncements     = "getActiveAnnouncements"
	OpGetAnnouncementList        = "getAnnouncementList"
	OpGetAnnouncementByID        = "getAnnouncementById"
	OpCreateAnnouncement         = "createAnnouncement"
	OpUpdateAnnouncement         = "updateAnnouncement"
	OpToggleAnnouncementStatus   = "toggleAnnouncementStatus"
	OpDeleteAnnouncement         = "deleteAnnouncement"
	OpGetSysConfigList           = "getSysConfigList"
	OpGetSysConfigByID           = "getSysConfigById"
	OpCreateSysConfig            = "createSysConfig"
	OpUpdateSysConfig            = "updateSysConfig"
	OpDeleteSysConfig            = "deleteSysConfig"
	OpGetFrontendConfig          = "getFrontendConfig"
	OpUpdateFrontendConfig       = "updateFrontendConfig"
)

func get(name, path string, ch Channel) Binding {
	return Binding{Name: name, Method: http.MethodGet, Path: path, Channel: ch}
}

func post(name, path string, ch Channel) Binding {
	return Binding{Name: name, Method: http.MethodPost, Path: path, Channel: ch}
}

func put(name, path string) Binding {
	return Binding{Name: name, Method: http.MethodPut, Path: path, Channel: ChannelBody}
}

func del(name, path string) Binding {
	return Binding{Name: name, Method: http.MethodDelete, Path: path, Channel: ChannelQuery}
}

func public(b Binding) Binding {
	b.NoNeedToken = true
	return b
}

var table = []Binding{
	// base
	public(post(OpLogin, "/base/admin_access_token", ChannelBody)),
	public(post(OpClientLogin, "/base/access_token", ChannelBody)),
	get(OpGetUserInfo, "/base/userinfo", ChannelNone),
	get(OpGetUserMenu, "/base/usermenu", ChannelNone),
	get(OpGetUserAPI, "/base/userapi", ChannelNone),
	get(OpGetPermissionMenuMapping, "/base/permission-menu-mapping", ChannelNone),
	post(OpUpdatePassword, "/base/update_password", ChannelBody),

	// user
	get(OpGetUserList, "/user/list", ChannelQuery),
	get(OpGetUserByID, "/user/get", ChannelQuery),
	post(OpCreateUser, "/user/create", ChannelBody),
	post(OpUpdateUser, "/user/update", ChannelBody),
	del(OpDeleteUser, "/user/delete"),
	post(OpResetPassword, "/user/reset_password", ChannelBody),
	get(OpGetInvitationInfo, "/user/invitation_info", ChannelNone),
	get(OpGetSubordinateUsers, "/user/subordinates", ChannelQuery),
	post(OpAddUserPoints, "/user/add_points", ChannelBody),
	post(OpDeductUserPoints, "/user/deduct_points", ChannelBody),
	get(OpGetAgentList, "/user/agents", ChannelQuery),

	// role
	get(OpGetRoleList, "/role/list", ChannelQuery),
	post(OpCreateRole, "/role/create", ChannelBody),
	post(OpUpdateRole, "/role/update", ChannelBody),
	del(OpDeleteRole, "/role/delete"),
	get(OpCheckRoleUsers, "/role/check_users", ChannelQuery),
	post(OpUpdateRoleAuthorized, "/role/authorized", ChannelBody),
	get(OpGetRoleAuthorized, "/role/authorized", ChannelQuery),
	post(OpUpdateRoleAgentPermissions, "/role/agent_permissions", ChannelBody),
	get(OpGetAgentPermissionsConfig, "/role/agent_permissions", ChannelNone),
	get(OpGetAgentRoles, "/role/agent_roles", ChannelNone),
	get(OpGetCreatableRoles, "/role/creatable", ChannelNone),

	// menu
	get(OpGetMenus, "/menu/list", ChannelQuery),
	post(OpCreateMenu, "/menu/create", ChannelBody),
	post(OpUpdateMenu, "/menu/update", ChannelBody),
	del(OpDeleteMenu, "/menu/delete"),

	// api
	get(OpGetAPIs, "/api/list", ChannelQuery),
	post(OpCreateAPI, "/api/create", ChannelBody),
	post(OpUpdateAPI, "/api/update", ChannelBody),
	del(OpDeleteAPI, "/api/delete"),
	post(OpRefreshAPI, "/api/refresh", ChannelBody),

	// auditlog
	get(OpGetAuditLogList, "/auditlog/list", ChannelQuery),

	// points
	get(OpGetPointsInfo, "/points/info", ChannelNone),
	post(OpUseExchangeCode, "/points/exchange", ChannelBody),
	post(OpRechargePoints, "/points/recharge", ChannelBody),
	get(OpGetRechargeRecords, "/points/recharge/records", ChannelQuery),
	get(OpGetUsageRecords, "/points/usage/records", ChannelQuery),
	// 后台从查询参数读取 points/usage_type/description/related_id
	post(OpCreateUsageRecord, "/points/usage/create", ChannelQuery),

	// announcement
	get(OpGetActiveAnnouncements, "/announcement/active", ChannelNone),
	get(OpGetAnnouncementList, "/announcement/list", ChannelQuery),
	get(OpGetAnnouncementByID, "/announcement/get", ChannelQuery),
	post(OpCreateAnnouncement, "/announcement/create", ChannelBody),
	put(OpUpdateAnnouncement, "/announcement/update"),
	post(OpToggleAnnouncementStatus, "/announcement/toggle_status", ChannelBody),
	del(OpDeleteAnnouncement, "/announcement/delete"),

	// sys_config
	get(OpGetSysConfigList, "/sys_config/list", ChannelQuery),
	get(OpGetSysConfigByID, "/sys_config/get", ChannelQuery),
	post(OpCreateSysConfig, "/sys_config/create", ChannelBody),
	post(OpUpdateSysConfig, "/sys_config/update", ChannelBody),
	del(OpDeleteSysConfig, "/sys_config/delete"),
	get(OpGetFrontendConfig, "/sys_config/frontend", ChannelNone),
	post(OpUpdateFrontendConfig, "/sys_config/frontend/update", ChannelBody),
}

var (
	byName = make(map[string]Binding, len(table))
	byKey  = make(map[string]Binding, len(table))
)

func init() {
	for _, b := range table {
		byName[b.Name] = b
		byKey[b.Key()] = b
	}
}

// Table 返回完整绑定表（按声明顺序）
func Table() []Binding {
	out := make([]Binding, len(table))
	copy(out, table)
	return out
}

// Lookup 按操作名查找绑定
func Lookup(name string) (Binding, bool) {
	b, ok := byName[name]
	return b, ok
}

// Match 按 HTTP 方法与路径查找绑定
func Match(method, path string) (Binding, bool) {
	b, ok := byKey[strings.ToUpper(method)+" "+path]
	return b, ok
}
