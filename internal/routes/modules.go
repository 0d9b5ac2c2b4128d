package routes

// PointsModule 积分管理
func PointsModule() Node {
	return Node{
		Name:      "积分管理",
		Path:      "/points",
		Component: LayoutView,
		Redirect:  "/points/info",
		Meta: Meta{
			Title: "积分管理",
			Icon:  "CreditCardOutlined",
			Order: Int(4),
		},
		Children: []Node{
			{
				Name:      "积分信息",
				Path:      "info",
				Component: "/points/info",
				Meta: Meta{
					Title:     "积分信息",
					Icon:      "WalletOutlined",
					KeepAlive: true,
				},
			},
			{
				Name:      "使用记录",
				Path:      "usage",
				Component: "/points/usage",
				Meta: Meta{
					Title:     "使用记录",
					Icon:      "HistoryOutlined",
					KeepAlive: true,
				},
			},
		},
	}
}

// FrontendSettingsModule 前台设置，仅管理员可见且不出现在菜单中
func FrontendSettingsModule() Node {
	return Node{
		Name:      "前台设置",
		Path:      "/settings/frontend",
		Component: LayoutView,
		IsHidden:  true,
		Children: []Node{
			{
				Name:      "前台设置",
				Path:      "",
				Component: "/settings/frontend",
				Meta: Meta{
					Title:       "前台设置",
					Icon:        "material-symbols:settings-outline",
					Role:        []string{"admin"},
					RequireAuth: Bool(true),
				},
			},
		},
	}
}

// AnnouncementSettingsModule 公告设置
func AnnouncementSettingsModule() Node {
	return Node{
		Name:      "公告设置",
		Path:      "/settings/announcement",
		Component: LayoutView,
		IsHidden:  true,
		Children: []Node{
			{
				Name:      "公告设置",
				Path:      "",
				Component: "/settings/announcement",
				Meta: Meta{
					Title:       "公告设置",
					Icon:        "material-symbols:campaign-outline",
					Role:        []string{"admin"},
					RequireAuth: Bool(true),
				},
			},
		},
	}
}

// AgentModule 代理管理
func AgentModule() Node {
	return Node{
		Name:      "代理管理",
		Path:      "/system/agent",
		Component: LayoutView,
		Redirect:  "/system/agent",
		Meta: Meta{
			Title: "代理管理",
			Icon:  "carbon:user-multiple",
			Order: Int(7),
		},
		Children: []Node{
			{
				Name:      "代理管理",
				Path:      "",
				Component: "/system/agent",
				Meta: Meta{
					Title: "代理管理",
					Icon:  "carbon:user-multiple",
					Affix: Bool(false),
				},
			},
		},
	}
}

// Builtin 内置页面模块
func Builtin() *Registry {
	return NewRegistry(
		PointsModule(),
		FrontendSettingsModule(),
		AnnouncementSettingsModule(),
		AgentModule(),
	)
}
