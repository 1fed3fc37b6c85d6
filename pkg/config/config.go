package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/betbot/gobet-dashboard/internal/site/fonts"
	"github.com/betbot/gobet-dashboard/internal/site/metadata"
)

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Listen            string        // 监听地址
	ReadHeaderTimeout time.Duration // 读取请求头超时
	ShutdownTimeout   time.Duration // 优雅关闭超时
	DebugListen       string        // expvar/pprof 监听地址，为空则不启动
}

// SiteConfig 页面外壳配置
type SiteConfig struct {
	Lang                     string              // 文档语言
	Metadata                 metadata.Descriptor // 文档元数据
	Fonts                    fonts.Set           // 字体
	Stylesheets              []string            // 额外样式表（全局样式之后）
	SuppressHydrationWarning bool                // 在 <html> 上标记允许首屏不一致
}

// NotificationsConfig 通知配置
type NotificationsConfig struct {
	Store     string        // 存储类型: memory 或 badger
	Path      string        // badger 数据目录
	Retention time.Duration // 通知保留时长
	Capacity  int           // 内存存储容量

	RatePerSecond float64 // 每个客户端每秒可发布的通知数，0 表示不限流
	RateBurst     int     // 突发上限
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string
	File       string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// Config 仪表盘配置
type Config struct {
	Server        ServerConfig
	Site          SiteConfig
	Notifications NotificationsConfig
	Log           LogConfig
}

// ConfigFile 配置文件结构（用于 YAML/JSON 解析）
type ConfigFile struct {
	Server struct {
		Listen            string `yaml:"listen" json:"listen"`
		ReadHeaderTimeout string `yaml:"read_header_timeout" json:"read_header_timeout"`
		ShutdownTimeout   string `yaml:"shutdown_timeout" json:"shutdown_timeout"`
		DebugListen       string `yaml:"debug_listen" json:"debug_listen"`
	} `yaml:"server" json:"server"`
	Site struct {
		Lang                     string           `yaml:"lang" json:"lang"`
		Metadata                 *metadata.Config `yaml:"metadata" json:"metadata"`
		Fonts                    *fonts.Set       `yaml:"fonts" json:"fonts"`
		Stylesheets              []string         `yaml:"stylesheets" json:"stylesheets"`
		SuppressHydrationWarning *bool            `yaml:"suppress_hydration_warning" json:"suppress_hydration_warning"`
	} `yaml:"site" json:"site"`
	Notifications struct {
		Store     string `yaml:"store" json:"store"`
		Path      string `yaml:"path" json:"path"`
		Retention string `yaml:"retention" json:"retention"`
		Capacity  int    `yaml:"capacity" json:"capacity"`

		RatePerSecond *float64 `yaml:"rate_per_second" json:"rate_per_second"`
		RateBurst     int      `yaml:"rate_burst" json:"rate_burst"`
	} `yaml:"notifications" json:"notifications"`
	Log struct {
		Level      string `yaml:"level" json:"level"`
		File       string `yaml:"file" json:"file"`
		MaxSize    int    `yaml:"max_size" json:"max_size"`
		MaxBackups int    `yaml:"max_backups" json:"max_backups"`
		MaxAge     int    `yaml:"max_age" json:"max_age"`
		Compress   *bool  `yaml:"compress" json:"compress"`
	} `yaml:"log" json:"log"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:            ":3000",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   5 * time.Second,
		},
		Site: SiteConfig{
			Lang:                     "en",
			Metadata:                 metadata.Default(),
			Fonts:                    fonts.Default(),
			SuppressHydrationWarning: true,
		},
		Notifications: NotificationsConfig{
			Store:     "memory",
			Path:      "data/notifications",
			Retention: 10 * time.Minute,
			Capacity:  100,

			RatePerSecond: 2,
			RateBurst:     10,
		},
		Log: LogConfig{
			Level:      "info",
			File:       "logs/dashboard.log",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   true,
		},
	}
}

// LoadFromFile 加载配置（优先级：环境变量 > 配置文件 > 默认值）。
// filePath 为空时只使用默认值和环境变量。
func LoadFromFile(filePath string) (*Config, error) {
	cfg := Default()

	if filePath != "" {
		configFile, err := loadConfigFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("加载配置文件失败 %s: %w", filePath, err)
		}
		if err := cfg.apply(configFile); err != nil {
			return nil, fmt.Errorf("配置文件 %s: %w", filePath, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadConfigFile 加载配置文件（支持 YAML 和 JSON）
func loadConfigFile(filePath string) (*ConfigFile, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var configFile ConfigFile
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &configFile); err != nil {
			return nil, fmt.Errorf("解析 YAML 配置文件失败: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &configFile); err != nil {
			return nil, fmt.Errorf("解析 JSON 配置文件失败: %w", err)
		}
	default:
		return nil, fmt.Errorf("不支持的配置文件格式: %s (支持 .yaml, .yml, .json)", ext)
	}

	return &configFile, nil
}

func (c *Config) apply(f *ConfigFile) error {
	if f.Server.Listen != "" {
		c.Server.Listen = f.Server.Listen
	}
	if f.Server.DebugListen != "" {
		c.Server.DebugListen = f.Server.DebugListen
	}
	if err := parseDuration(f.Server.ReadHeaderTimeout, &c.Server.ReadHeaderTimeout); err != nil {
		return fmt.Errorf("server.read_header_timeout: %w", err)
	}
	if err := parseDuration(f.Server.ShutdownTimeout, &c.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("server.shutdown_timeout: %w", err)
	}

	if f.Site.Lang != "" {
		c.Site.Lang = f.Site.Lang
	}
	if f.Site.Metadata != nil {
		d, err := f.Site.Metadata.Build()
		if err != nil {
			return fmt.Errorf("site.metadata: %w", err)
		}
		c.Site.Metadata = d
	}
	if f.Site.Fonts != nil {
		// 按字体分别覆盖，未配置的一侧保留默认值
		if f.Site.Fonts.Sans.Family != "" {
			c.Site.Fonts.Sans = f.Site.Fonts.Sans
		}
		if f.Site.Fonts.Mono.Family != "" {
			c.Site.Fonts.Mono = f.Site.Fonts.Mono
		}
	}
	if len(f.Site.Stylesheets) > 0 {
		c.Site.Stylesheets = f.Site.Stylesheets
	}
	if f.Site.SuppressHydrationWarning != nil {
		c.Site.SuppressHydrationWarning = *f.Site.SuppressHydrationWarning
	}

	if f.Notifications.Store != "" {
		c.Notifications.Store = f.Notifications.Store
	}
	if f.Notifications.Path != "" {
		c.Notifications.Path = f.Notifications.Path
	}
	if err := parseDuration(f.Notifications.Retention, &c.Notifications.Retention); err != nil {
		return fmt.Errorf("notifications.retention: %w", err)
	}
	if f.Notifications.Capacity != 0 {
		c.Notifications.Capacity = f.Notifications.Capacity
	}
	if f.Notifications.RatePerSecond != nil {
		c.Notifications.RatePerSecond = *f.Notifications.RatePerSecond
	}
	if f.Notifications.RateBurst != 0 {
		c.Notifications.RateBurst = f.Notifications.RateBurst
	}

	if f.Log.Level != "" {
		c.Log.Level = f.Log.Level
	}
	if f.Log.File != "" {
		c.Log.File = f.Log.File
	}
	if f.Log.MaxSize != 0 {
		c.Log.MaxSize = f.Log.MaxSize
	}
	if f.Log.MaxBackups != 0 {
		c.Log.MaxBackups = f.Log.MaxBackups
	}
	if f.Log.MaxAge != 0 {
		c.Log.MaxAge = f.Log.MaxAge
	}
	if f.Log.Compress != nil {
		c.Log.Compress = *f.Log.Compress
	}
	return nil
}

// applyEnv 环境变量覆盖（DASH_ 前缀）
func (c *Config) applyEnv() error {
	c.Server.Listen = getEnv("DASH_LISTEN", c.Server.Listen)
	c.Server.DebugListen = getEnv("DASH_DEBUG_LISTEN", c.Server.DebugListen)
	c.Site.Lang = getEnv("DASH_LANG", c.Site.Lang)
	c.Notifications.Store = getEnv("DASH_NOTIFY_STORE", c.Notifications.Store)
	c.Notifications.Path = getEnv("DASH_NOTIFY_PATH", c.Notifications.Path)
	c.Notifications.Capacity = parseIntEnv("DASH_NOTIFY_CAPACITY", c.Notifications.Capacity)
	c.Log.Level = getEnv("DASH_LOG_LEVEL", c.Log.Level)
	c.Log.File = getEnv("DASH_LOG_FILE", c.Log.File)

	if err := parseDuration(os.Getenv("DASH_NOTIFY_RETENTION"), &c.Notifications.Retention); err != nil {
		return fmt.Errorf("DASH_NOTIFY_RETENTION: %w", err)
	}
	return nil
}

// Validate 验证配置
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Listen) == "" {
		return fmt.Errorf("server.listen 未配置")
	}
	if c.Site.Metadata.Title() == "" {
		return fmt.Errorf("site.metadata.title 未配置")
	}
	if err := c.Site.Fonts.Validate(); err != nil {
		return fmt.Errorf("site.fonts: %w", err)
	}
	switch c.Notifications.Store {
	case "memory":
		if c.Notifications.Capacity <= 0 {
			return fmt.Errorf("notifications.capacity 必须大于 0")
		}
	case "badger":
		if c.Notifications.Path == "" {
			return fmt.Errorf("notifications.path 未配置")
		}
	default:
		return fmt.Errorf("未知的通知存储: %s (支持 memory, badger)", c.Notifications.Store)
	}
	if c.Notifications.Retention <= 0 {
		return fmt.Errorf("notifications.retention 必须大于 0")
	}
	if c.Notifications.RatePerSecond < 0 {
		return fmt.Errorf("notifications.rate_per_second 不能为负数")
	}
	if c.Notifications.RatePerSecond > 0 && c.Notifications.RateBurst <= 0 {
		return fmt.Errorf("notifications.rate_burst 必须大于 0")
	}
	return nil
}

func parseDuration(raw string, dst *time.Duration) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

// getEnv 获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseIntEnv 解析整数环境变量
func parseIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
