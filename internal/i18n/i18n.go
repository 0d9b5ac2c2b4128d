package i18n

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const (
	LocaleZhCN = "zh-CN"
	LocaleEnUS = "en-US"

	// QueryKey 显式指定语言的查询参数
	QueryKey = "lang"
	// HeaderKey 显式指定语言的请求头
	HeaderKey = "X-Locale"
)

var supported = []string{LocaleZhCN, LocaleEnUS}

var matcher = language.NewMatcher([]language.Tag{
	language.MustParse(LocaleZhCN),
	language.MustParse(LocaleEnUS),
})

var (
	mu            sync.RWMutex
	defaultLocale = LocaleZhCN
)

// SetDefault 设置默认语言，不支持的语言会被忽略
func SetDefault(locale string) {
	normalized, ok := Normalize(locale)
	if !ok {
		return
	}
	mu.Lock()
	defaultLocale = normalized
	mu.Unlock()
}

// Default 默认语言
func Default() string {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLocale
}

// Supported 支持的语言列表
func Supported() []string {
	out := make([]string, len(supported))
	copy(out, supported)
	return out
}

// Normalize 将任意语言标签匹配到受支持的语言
func Normalize(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", false
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return "", false
	}
	return supported[index], true
}

// ResolveLocale 按 查询参数 > X-Locale > Accept-Language > 默认 解析请求语言
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return Default()
	}
	if locale, ok := Normalize(c.Query(QueryKey)); ok {
		return locale
	}
	if locale, ok := Normalize(c.GetHeader(HeaderKey)); ok {
		return locale
	}
	if accept := strings.TrimSpace(c.GetHeader("Accept-Language")); accept != "" {
		tags, _, err := language.ParseAcceptLanguage(accept)
		if err == nil && len(tags) > 0 {
			_, index, confidence := matcher.Match(tags...)
			if confidence != language.No {
				return supported[index]
			}
		}
	}
	return Default()
}

// Lookup 查找翻译文本
func Lookup(locale, key string) (string, bool) {
	if bundle, ok := messages[locale]; ok {
		if text, ok := bundle[key]; ok {
			return text, true
		}
	}
	if text, ok := messages[Default()][key]; ok {
		return text, true
	}
	return "", false
}

// T 翻译文本，缺失时返回 key
func T(locale, key string) string {
	if text, ok := Lookup(locale, key); ok {
		return text
	}
	return key
}

// Sprintf 翻译并格式化文本
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

// Title 翻译路由标题，没有译文时保持原文
func Title(locale, title string) string {
	if text, ok := Lookup(locale, "title."+title); ok {
		return text
	}
	return title
}

// Bundle 绑定到某个语言的翻译器
type Bundle struct {
	Locale string
}

// NewBundle 创建翻译器
func NewBundle(locale string) *Bundle {
	normalized, ok := Normalize(locale)
	if !ok {
		normalized = Default()
	}
	return &Bundle{Locale: normalized}
}

// T 翻译文本
func (b *Bundle) T(key string) string {
	return T(b.Locale, key)
}

// Title 翻译路由标题
func (b *Bundle) Title(title string) string {
	return Title(b.Locale, title)
}
