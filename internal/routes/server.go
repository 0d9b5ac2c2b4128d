package routes

import (
	"strings"

	"github.com/points-admin/console/internal/api"
)

// FromServerMenus 将 /base/usermenu 返回的菜单转换为路由节点
// 没有子菜单的顶层菜单生成一个隐藏的默认子页面
func FromServerMenus(menus []api.Menu) []Node {
	nodes := make([]Node, 0, len(menus))
	for _, m := range menus {
		node := Node{
			Name:      m.Name,
			Path:      m.Path,
			Component: LayoutView,
			Redirect:  m.Redirect,
			IsHidden:  m.IsHidden,
			Meta:      serverMeta(m),
		}
		if len(m.Children) > 0 {
			for _, child := range m.Children {
				node.Children = append(node.Children, Node{
					Name:      child.Name,
					Path:      child.Path,
					Component: viewOf(child.Component),
					IsHidden:  child.IsHidden,
					Meta:      serverMeta(child),
				})
			}
		} else {
			node.Children = []Node{{
				Name:      m.Name + "Default",
				Path:      "",
				Component: viewOf(m.Component),
				IsHidden:  true,
				Meta:      serverMeta(m),
			}}
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func serverMeta(m api.Menu) Meta {
	return Meta{
		Title:     m.Name,
		Icon:      m.Icon,
		Order:     Int(m.Order),
		KeepAlive: m.KeepAlive,
	}
}

func viewOf(component string) string {
	component = strings.TrimSpace(component)
	if component == "" || strings.EqualFold(component, LayoutView) {
		return LayoutView
	}
	return component
}
