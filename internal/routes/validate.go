package routes

import (
	"errors"
	"fmt"
)

// Validate 校验同级 path 唯一、redirect 指向某个子节点
func (r *Registry) Validate() error {
	if r == nil {
		return nil
	}
	return validateSiblings("", r.nodes)
}

func validateSiblings(parent string, nodes []Node) error {
	var errs []error
	seen := make(map[string]string, len(nodes))
	for _, n := range nodes {
		full := EffectivePath(parent, n.Path)
		if other, dup := seen[full]; dup {
			errs = append(errs, fmt.Errorf("route %q: path %s duplicates sibling %q", n.Name, full, other))
		} else {
			seen[full] = n.Name
		}
		if n.Redirect != "" {
			if err := validateRedirect(full, n); err != nil {
				errs = append(errs, err)
			}
		}
		if err := validateSiblings(full, n.Children); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func validateRedirect(full string, n Node) error {
	target := EffectivePath(full, n.Redirect)
	for _, child := range n.Children {
		if EffectivePath(full, child.Path) == target {
			return nil
		}
	}
	return fmt.Errorf("route %q: redirect %s does not resolve to a child", n.Name, n.Redirect)
}

// RedirectTarget 返回 redirect 对应的子节点
func RedirectTarget(parent string, n Node) (Node, bool) {
	if n.Redirect == "" {
		return Node{}, false
	}
	full := EffectivePath(parent, n.Path)
	target := EffectivePath(full, n.Redirect)
	for _, child := range n.Children {
		if EffectivePath(full, child.Path) == target {
			return cloneNode(child), true
		}
	}
	return Node{}, false
}

// Repair 返回可通过 Validate 的副本：同级重复 path 只保留第一个，
// 无法解析的 redirect 改指第一个可见子节点，没有子节点时清空。
// 返回的 fixes 逐条描述改动，后台下发的菜单以此降级而不是整体失败
func (r *Registry) Repair() (*Registry, []string) {
	if r == nil {
		return nil, nil
	}
	var fixes []string
	nodes := repairSiblings("", r.Nodes(), &fixes)
	return &Registry{nodes: nodes}, fixes
}

func repairSiblings(parent string, nodes []Node, fixes *[]string) []Node {
	if len(nodes) == 0 {
		return nodes
	}
	out := make([]Node, 0, len(nodes))
	seen := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		full := EffectivePath(parent, n.Path)
		if _, dup := seen[full]; dup {
			*fixes = append(*fixes, fmt.Sprintf("route %q: dropped duplicate path %s", n.Name, full))
			continue
		}
		seen[full] = struct{}{}
		n.Children = repairSiblings(full, n.Children, fixes)
		if n.Redirect != "" && validateRedirect(full, n) != nil {
			target := fallbackRedirect(full, n.Children)
			*fixes = append(*fixes, fmt.Sprintf("route %q: redirect %s repointed to %q", n.Name, n.Redirect, target))
			n.Redirect = target
		}
		out = append(out, n)
	}
	return out
}

func fallbackRedirect(full string, children []Node) string {
	for _, child := range children {
		if !child.IsHidden {
			return EffectivePath(full, child.Path)
		}
	}
	if len(children) > 0 {
		return EffectivePath(full, children[0].Path)
	}
	return ""
}
