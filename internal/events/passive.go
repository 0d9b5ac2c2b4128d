package events

// PassiveEventTypes 启动时预注册被动空监听的事件
var PassiveEventTypes = []string{"wheel", "mousewheel", "touchstart", "touchmove"}

type passiveRegistrar struct {
	next Registrar
}

// PassiveRegistrar 包装注册器：wheel 监听未指定 passive 时默认 passive=true，显式 false 保留
func PassiveRegistrar(next Registrar) Registrar {
	return &passiveRegistrar{next: next}
}

func (p *passiveRegistrar) AddEventListener(eventType string, l Listener, opts *ListenerOptions) {
	if eventType == "wheel" {
		opts = withPassiveDefault(opts)
	}
	p.next.AddEventListener(eventType, l, opts)
}

func withPassiveDefault(opts *ListenerOptions) *ListenerOptions {
	passive := true
	if opts == nil {
		return &ListenerOptions{Passive: &passive}
	}
	if opts.Passive != nil {
		return opts
	}
	copied := *opts
	copied.Passive = &passive
	return &copied
}

// InstallPassiveListeners 注册被动空监听并返回带默认策略的注册器
func InstallPassiveListeners(r Registrar) Registrar {
	passive := true
	for _, eventType := range PassiveEventTypes {
		r.AddEventListener(eventType, func(*Event) {}, &ListenerOptions{Passive: &passive})
	}
	return PassiveRegistrar(r)
}
