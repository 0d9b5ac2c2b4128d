package routes

import "sort"

// MenuItem 侧边栏菜单项
type MenuItem struct {
	Name      string     `json:"name"`
	Title     string     `json:"title"`
	Icon      string     `json:"icon,omitempty"`
	Path      string     `json:"path"`
	Order     *int       `json:"order,omitempty"`
	KeepAlive bool       `json:"keepAlive,omitempty"`
	Affix     bool       `json:"affix,omitempty"`
	Children  []MenuItem `json:"children,omitempty"`
}

// Menu 渲染菜单：隐藏节点及其子树不出现；同级按 order 升序，无 order 的排在后面并保持声明顺序
// 只有一个可见子节点的容器折叠为单个菜单项，沿用容器的 order
func (r *Registry) Menu() []MenuItem {
	if r == nil {
		return nil
	}
	return menuItems("", r.nodes)
}

func menuItems(parent string, nodes []Node) []MenuItem {
	items := make([]MenuItem, 0, len(nodes))
	for _, n := range nodes {
		if n.IsHidden {
			continue
		}
		items = append(items, menuItem(parent, n))
	}
	sortItems(items)
	return items
}

func menuItem(parent string, n Node) MenuItem {
	full := EffectivePath(parent, n.Path)
	item := MenuItem{
		Name:      n.Name,
		Title:     titleOf(n),
		Icon:      n.Meta.Icon,
		Path:      full,
		Order:     n.Meta.Order,
		KeepAlive: n.Meta.KeepAlive,
		Affix:     n.Meta.Affix != nil && *n.Meta.Affix,
	}

	visible := visibleChildren(n.Children)
	switch len(visible) {
	case 0:
		return item
	case 1:
		single := menuItem(full, visible[0])
		single.Order = item.Order
		if single.Icon == "" {
			single.Icon = item.Icon
		}
		return single
	default:
		item.Children = menuItems(full, visible)
		return item
	}
}

func visibleChildren(nodes []Node) []Node {
	var out []Node
	for _, n := range nodes {
		if !n.IsHidden {
			out = append(out, n)
		}
	}
	return out
}

func titleOf(n Node) string {
	if n.Meta.Title != "" {
		return n.Meta.Title
	}
	return n.Name
}

func sortItems(items []MenuItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Order, items[j].Order
		switch {
		case a != nil && b != nil:
			return *a < *b
		case a != nil:
			return true
		default:
			return false
		}
	})
}

// Affixed 固定在标签栏的页面
func (r *Registry) Affixed() []MenuItem {
	var out []MenuItem
	_ = r.Walk(func(parent string, n Node) error {
		if n.Meta.Affix != nil && *n.Meta.Affix {
			out = append(out, MenuItem{
				Name:  n.Name,
				Title: titleOf(n),
				Icon:  n.Meta.Icon,
				Path:  EffectivePath(parent, n.Path),
			})
		}
		return nil
	})
	return out
}
