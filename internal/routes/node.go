// Package routes 控制台路由树：声明式页面模块、菜单渲染与权限过滤
package routes

import "strings"

// LayoutView 布局容器视图
const LayoutView = "Layout"

// Meta 路由元信息，仅包含以下可识别选项
type Meta struct {
	Title string `json:"title,omitempty"`
	Icon  string `json:"icon,omitempty"`
	// Order 为空时按声明顺序
	Order     *int     `json:"order,omitempty"`
	KeepAlive bool     `json:"keepAlive,omitempty"`
	Role      []string `json:"role,omitempty"`
	// RequireAuth 为空时默认需要登录
	RequireAuth *bool `json:"requireAuth,omitempty"`
	Affix       *bool `json:"affix,omitempty"`
}

// Node 路由节点
type Node struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Component string `json:"component,omitempty"`
	Redirect  string `json:"redirect,omitempty"`
	Meta      Meta   `json:"meta"`
	IsHidden  bool   `json:"isHidden,omitempty"`
	Children  []Node `json:"children,omitempty"`
}

// Registry 不可变的顶层路由集合，保持声明顺序
type Registry struct {
	nodes []Node
}

// NewRegistry 组装路由表，输入会被深拷贝
func NewRegistry(nodes ...Node) *Registry {
	return &Registry{nodes: cloneNodes(nodes)}
}

// Nodes 返回顶层节点副本
func (r *Registry) Nodes() []Node {
	if r == nil {
		return nil
	}
	return cloneNodes(r.nodes)
}

// Len 顶层节点数
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.nodes)
}

// Merge 追加节点并返回新的路由表；与已有顶层 path 冲突的节点被忽略
func (r *Registry) Merge(nodes ...Node) *Registry {
	existing := r.Nodes()
	seen := make(map[string]struct{}, len(existing))
	for _, n := range existing {
		seen[EffectivePath("", n.Path)] = struct{}{}
	}
	for _, n := range nodes {
		key := EffectivePath("", n.Path)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		existing = append(existing, n)
	}
	return &Registry{nodes: existing}
}

// Walk 深度优先遍历，parentPath 为父节点的完整路径
func (r *Registry) Walk(fn func(parentPath string, n Node) error) error {
	if r == nil {
		return nil
	}
	return walk("", r.nodes, fn)
}

func walk(parent string, nodes []Node, fn func(string, Node) error) error {
	for _, n := range nodes {
		if err := fn(parent, n); err != nil {
			return err
		}
		if err := walk(EffectivePath(parent, n.Path), n.Children, fn); err != nil {
			return err
		}
	}
	return nil
}

// Lookup 按完整路径查找节点；容器与空路径子节点同路径时返回子节点
func (r *Registry) Lookup(path string) (Node, bool) {
	target := EffectivePath("", path)
	var found Node
	ok := false
	_ = r.Walk(func(parent string, n Node) error {
		if EffectivePath(parent, n.Path) == target {
			found = n
			ok = true
		}
		return nil
	})
	if !ok {
		return Node{}, false
	}
	return cloneNode(found), true
}

// EffectivePath 将子路径解析到父路径下；绝对路径保持不变，空路径即父路径
func EffectivePath(parent, child string) string {
	child = strings.TrimSpace(child)
	if strings.HasPrefix(child, "/") {
		return normalize(child)
	}
	if child == "" {
		return normalize(parent)
	}
	return normalize(strings.TrimRight(parent, "/") + "/" + child)
}

func normalize(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimRight(p, "/")
}

func cloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = cloneNode(n)
	}
	return out
}

func cloneNode(n Node) Node {
	n.Meta = cloneMeta(n.Meta)
	n.Children = cloneNodes(n.Children)
	return n
}

func cloneMeta(m Meta) Meta {
	if m.Order != nil {
		v := *m.Order
		m.Order = &v
	}
	if m.RequireAuth != nil {
		v := *m.RequireAuth
		m.RequireAuth = &v
	}
	if m.Affix != nil {
		v := *m.Affix
		m.Affix = &v
	}
	if m.Role != nil {
		m.Role = append([]string(nil), m.Role...)
	}
	return m
}

// Int 返回整数指针
func Int(v int) *int { return &v }

// Bool 返回布尔指针
func Bool(v bool) *bool { return &v }
