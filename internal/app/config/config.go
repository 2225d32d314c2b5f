package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	SPX      SPXConfig      `mapstructure:"spx"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Redis    RedisConfig    `mapstructure:"redis"`
	License  LicenseConfig  `mapstructure:"license"`
	Admin    AdminConfig    `mapstructure:"admin"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// UpstreamConfig Shopee 上游接口配置
type UpstreamConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	UserAgent string        `mapstructure:"user_agent"`
	Referer   string        `mapstructure:"referer"`
	Timeout   time.Duration `mapstructure:"timeout"`    // 单次请求超时
	MaxOrders int           `mapstructure:"max_orders"` // 详情拉取的订单数上限
	Workers   int           `mapstructure:"workers"`    // 详情拉取并发数
}

// SPXConfig SPX 物流查询配置
type SPXConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig 结果缓存配置
type CacheConfig struct {
	ResultTTL time.Duration `mapstructure:"result_ttl"` // 命中订单的缓存时长
	EmptyTTL  time.Duration `mapstructure:"empty_ttl"`  // 无订单结果的缓存时长
}

// RedisConfig Redis 配置。Addr 为空时用进程内缓存
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LicenseConfig 激活校验配置
type LicenseConfig struct {
	RegistrySheetID string `mapstructure:"registry_sheet_id"` // 管理端激活登记表
	ContactPhone    string `mapstructure:"contact_phone"`
	CredsJSON       string `mapstructure:"creds_json"` // Service Account 凭证（环境变量注入）
}

// AdminConfig 管理端配置
type AdminConfig struct {
	Key string `mapstructure:"key"`
}

// Load 从配置文件加载配置
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	// 敏感项走环境变量，不落配置文件
	viper.BindEnv("license.creds_json", "GOOGLE_SHEETS_CREDS_JSON")
	viper.BindEnv("license.contact_phone", "CONTACT_PHONE")
	viper.BindEnv("admin.key", "ADMIN_KEY")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config failed: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// LoadDefault 加载默认配置文件路径
func LoadDefault() (*Config, error) {
	return Load("config/config.yaml")
}

// applyDefaults 填充缺省值
func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "5000"
	}
	if c.Upstream.BaseURL == "" {
		c.Upstream.BaseURL = "https://shopee.vn/api/v4"
	}
	if c.Upstream.UserAgent == "" {
		c.Upstream.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	}
	if c.Upstream.Referer == "" {
		c.Upstream.Referer = "https://shopee.vn/"
	}
	if c.Upstream.Timeout <= 0 {
		c.Upstream.Timeout = 15 * time.Second
	}
	if c.Upstream.MaxOrders <= 0 {
		c.Upstream.MaxOrders = 50
	}
	if c.Upstream.Workers <= 0 {
		c.Upstream.Workers = 4
	}
	if c.SPX.BaseURL == "" {
		c.SPX.BaseURL = "https://spx.vn"
	}
	if c.SPX.Timeout <= 0 {
		c.SPX.Timeout = 10 * time.Second
	}
	if c.Cache.ResultTTL <= 0 {
		c.Cache.ResultTTL = 2 * time.Hour
	}
	if c.Cache.EmptyTTL <= 0 {
		c.Cache.EmptyTTL = time.Hour
	}
	if c.License.ContactPhone == "" {
		c.License.ContactPhone = "0819.555.000"
	}
}

// Validate 验证配置完整性
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream.base_url is required")
	}
	return nil
}
