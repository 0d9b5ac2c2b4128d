// Package events 控制台事件监听注册与被动监听策略
package events

import "sync"

// ListenerOptions 监听选项；Passive 为空表示未指定
type ListenerOptions struct {
	Capture bool
	Once    bool
	Passive *bool
}

// Event 分发给监听器的事件
type Event struct {
	Type             string
	defaultPrevented bool
	passive          bool
}

// PreventDefault 阻止默认行为；被动监听器中调用无效
func (e *Event) PreventDefault() {
	if e.passive {
		return
	}
	e.defaultPrevented = true
}

// DefaultPrevented 默认行为是否已被阻止
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// Listener 事件监听器
type Listener func(*Event)

// Registrar 事件监听注册接口
type Registrar interface {
	AddEventListener(eventType string, l Listener, opts *ListenerOptions)
}

// Registration 一条已注册的监听
type Registration struct {
	Type     string
	Listener Listener
	Options  ListenerOptions
}

// Passive 监听是否为被动
func (r Registration) Passive() bool {
	return r.Options.Passive != nil && *r.Options.Passive
}

// Target 进程内事件目标，记录注册并分发事件
type Target struct {
	mu            sync.Mutex
	registrations []Registration
}

// NewTarget 创建事件目标
func NewTarget() *Target {
	return &Target{}
}

// AddEventListener 注册监听
func (t *Target) AddEventListener(eventType string, l Listener, opts *ListenerOptions) {
	reg := Registration{Type: eventType, Listener: l}
	if opts != nil {
		reg.Options = *opts
	}
	t.mu.Lock()
	t.registrations = append(t.registrations, reg)
	t.mu.Unlock()
}

// Registrations 已注册的监听副本
func (t *Target) Registrations() []Registration {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Registration, len(t.registrations))
	copy(out, t.registrations)
	return out
}

// Dispatch 分发事件，返回默认行为是否被阻止
func (t *Target) Dispatch(eventType string) bool {
	t.mu.Lock()
	var matched []Registration
	kept := t.registrations[:0]
	for _, reg := range t.registrations {
		if reg.Type == eventType {
			matched = append(matched, reg)
			if reg.Options.Once {
				continue
			}
		}
		kept = append(kept, reg)
	}
	t.registrations = kept
	t.mu.Unlock()

	ev := &Event{Type: eventType}
	for _, reg := range matched {
		ev.passive = reg.Passive()
		if reg.Listener != nil {
			reg.Listener(ev)
		}
	}
	return ev.defaultPrevented
}
