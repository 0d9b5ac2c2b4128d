package routes

// RouteEntry 扁平化后的可导航页面
type RouteEntry struct {
	Path  string   `json:"path"`
	Name  string   `json:"name"`
	Title string   `json:"title"`
	Roles []string `json:"roles,omitempty"`
	// Public 为 true 时无需登录
	Public bool `json:"public"`
	Hidden bool `json:"hidden"`
}

// Accessible 节点是否对给定角色可见：显式 requireAuth=false、未声明角色或角色有交集
func Accessible(m Meta, roles []string) bool {
	if m.RequireAuth != nil && !*m.RequireAuth {
		return true
	}
	if len(m.Role) == 0 {
		return true
	}
	for _, want := range m.Role {
		for _, have := range roles {
			if want == have {
				return true
			}
		}
	}
	return false
}

// FilterByRoles 返回按角色过滤后的新路由表，子节点全部被过滤的容器一并移除
func (r *Registry) FilterByRoles(roles []string) *Registry {
	if r == nil {
		return NewRegistry()
	}
	return &Registry{nodes: filterNodes(r.nodes, roles)}
}

func filterNodes(nodes []Node, roles []string) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if !Accessible(n.Meta, roles) {
			continue
		}
		kept := cloneNode(n)
		if len(n.Children) > 0 {
			kept.Children = filterNodes(n.Children, roles)
			if len(kept.Children) == 0 {
				continue
			}
		}
		out = append(out, kept)
	}
	return out
}

// Flatten 展开为页面列表：角色与 requireAuth 取最近声明的祖先，隐藏状态向下继承
func (r *Registry) Flatten() []RouteEntry {
	if r == nil {
		return nil
	}
	var out []RouteEntry
	flatten("", r.nodes, nil, false, false, &out)
	return out
}

func flatten(parent string, nodes []Node, roles []string, public, hidden bool, out *[]RouteEntry) {
	for _, n := range nodes {
		full := EffectivePath(parent, n.Path)
		nodeRoles := roles
		if len(n.Meta.Role) > 0 {
			nodeRoles = append([]string(nil), n.Meta.Role...)
		}
		nodePublic := public
		if n.Meta.RequireAuth != nil {
			nodePublic = !*n.Meta.RequireAuth
		}
		nodeHidden := hidden || n.IsHidden
		*out = append(*out, RouteEntry{
			Path:   full,
			Name:   n.Name,
			Title:  titleOf(n),
			Roles:  nodeRoles,
			Public: nodePublic,
			Hidden: nodeHidden,
		})
		flatten(full, n.Children, nodeRoles, nodePublic, nodeHidden, out)
	}
}

// Resolve 返回路径对应的最深页面条目
func (r *Registry) Resolve(path string) (RouteEntry, bool) {
	target := EffectivePath("", path)
	var found RouteEntry
	ok := false
	for _, e := range r.Flatten() {
		if e.Path == target {
			found = e
			ok = true
		}
	}
	return found, ok
}
