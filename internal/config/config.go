package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/points-admin/console/internal/logger"

	"github.com/spf13/viper"
)

// Config 控制台配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Database DatabaseConfig `mapstructure:"database"`
	Session  SessionConfig  `mapstructure:"session"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Security SecurityConfig `mapstructure:"security"`
	I18n     I18nConfig     `mapstructure:"i18n"`
	Console  ConsoleConfig  `mapstructure:"console"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// Addr 监听地址
func (c ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
	Stdout     bool   `mapstructure:"stdout"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Level:      c.Level,
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
		Stdout:     c.Stdout,
	}
}

// BackendConfig 管理后台 API 配置
type BackendConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	Prefix         string `mapstructure:"prefix"`
	TokenHeader    string `mapstructure:"token_header"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	Tracing        bool   `mapstructure:"tracing"`
	Metrics        bool   `mapstructure:"metrics"`
	Log            bool   `mapstructure:"log"`
	LogBody        bool   `mapstructure:"log_body"`
}

// Timeout 请求超时
func (c BackendConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string             `mapstructure:"driver"` // sqlite / postgres
	DSN             string             `mapstructure:"dsn"`
	Pool            DatabasePoolConfig `mapstructure:"pool"`
	SlowQueryMillis int                `mapstructure:"slow_query_millis"` // 慢查询阈值，0 关闭
}

// SessionConfig 控制台会话配置
type SessionConfig struct {
	CookieName     string `mapstructure:"cookie_name"`
	TTLMinutes     int    `mapstructure:"ttl_minutes"`
	Secure         bool   `mapstructure:"secure"`
	MemoryCapacity uint64 `mapstructure:"memory_capacity"`
}

// TTL 会话默认有效期
func (c SessionConfig) TTL() time.Duration {
	if c.TTLMinutes <= 0 {
		return 12 * time.Hour
	}
	return time.Duration(c.TTLMinutes) * time.Minute
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	LoginRateLimit LoginRateLimitConfig `mapstructure:"login_rate_limit"`
}

// LoginRateLimitConfig 登录限流配置
type LoginRateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxAttempts   int `mapstructure:"max_attempts"`
	BlockSeconds  int `mapstructure:"block_seconds"`
}

// I18nConfig 国际化配置
type I18nConfig struct {
	DefaultLocale string `mapstructure:"default_locale"`
}

// ConsoleConfig 控制台挂载配置
type ConsoleConfig struct {
	Title     string `mapstructure:"title"`
	Anchor    string `mapstructure:"anchor"`
	StaticDir string `mapstructure:"static_dir"`
	// CollapseWidth 视口宽度低于该值时侧边栏折叠
	CollapseWidth int `mapstructure:"collapse_width"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "3100")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("log.level", "")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "console.log")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 14)
	v.SetDefault("log.compress", true)
	v.SetDefault("log.stdout", false)
	v.SetDefault("backend.base_url", "http://127.0.0.1:9999")
	v.SetDefault("backend.prefix", "/api/v1")
	v.SetDefault("backend.token_header", "token")
	v.SetDefault("backend.timeout_seconds", 10)
	v.SetDefault("backend.tracing", false)
	v.SetDefault("backend.metrics", true)
	v.SetDefault("backend.log", true)
	v.SetDefault("backend.log_body", false)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "pc")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./db/console.db")
	v.SetDefault("database.pool.max_open_conns", 1)
	v.SetDefault("database.pool.max_idle_conns", 1)
	v.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	v.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	v.SetDefault("database.slow_query_millis", 200)
	v.SetDefault("session.cookie_name", "console_session")
	v.SetDefault("session.ttl_minutes", 720)
	v.SetDefault("session.secure", false)
	v.SetDefault("session.memory_capacity", 10000)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Accept-Language",
		"Cache-Control",
		"X-Requested-With",
		"X-Console-Session",
		"X-Viewport-Width",
		"token",
	})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 600)
	v.SetDefault("security.login_rate_limit.window_seconds", 300)
	v.SetDefault("security.login_rate_limit.max_attempts", 5)
	v.SetDefault("security.login_rate_limit.block_seconds", 900)
	v.SetDefault("i18n.default_locale", "zh-CN")
	v.SetDefault("console.title", "Points Admin")
	v.SetDefault("console.anchor", "#app")
	v.SetDefault("console.static_dir", "")
	v.SetDefault("console.collapse_width", 1024)
}

// Load 从 config.yml 加载配置；file 为空时按默认路径查找
func Load(file string) (*Config, error) {
	v := viper.New()
	if strings.TrimSpace(file) != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("../")
		v.AddConfigPath("./etc")
	}
	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // backend.base_url -> BACKEND_BASE_URL

	if err := v.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("配置解析失败: %w", err)
	}
	return &cfg, nil
}
