package config

import (
	"fmt"
	"strings"
	"time"

	"vibe-gift/internal/pkg/common"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 支援的生成服務
const (
	ProviderGrok   = "grok"
	ProviderGemini = "gemini"
)

// 支援的圖片快取後端
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config 應用配置
type Config struct {
	App            AppConfig            `mapstructure:"app"`
	Server         ServerConfig         `mapstructure:"server"`
	AI             AIConfig             `mapstructure:"ai"`
	Grok           ProviderConfig       `mapstructure:"grok"`
	Gemini         ProviderConfig       `mapstructure:"gemini"`
	Search         SearchConfig         `mapstructure:"search"`
	Image          ImageConfig          `mapstructure:"image"`
	Cache          CacheConfig          `mapstructure:"cache"`
	Recommendation RecommendationConfig `mapstructure:"recommendation"`
	CORS           CORSConfig           `mapstructure:"cors"`
	LogLevel       string               `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// AIConfig 選擇使用的生成服務
type AIConfig struct {
	Provider string `mapstructure:"provider"`
}

// ProviderConfig 單一生成服務的連線設定
type ProviderConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	BaseURL     string        `mapstructure:"base_url"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// SearchConfig Google Custom Search 設定
type SearchConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	CX      string        `mapstructure:"cx"`
	BaseURL string        `mapstructure:"base_url"`
	Num     int           `mapstructure:"num"`
	ImgType string        `mapstructure:"img_type"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Configured 是否具備搜尋憑證
func (s SearchConfig) Configured() bool {
	return s.APIKey != "" && s.CX != ""
}

// ImageConfig 圖片候選過濾與探測設定
type ImageConfig struct {
	ProbeTimeout  time.Duration `mapstructure:"probe_timeout"`
	MinRatio      float64       `mapstructure:"min_ratio"`
	MaxRatio      float64       `mapstructure:"max_ratio"`
	MinDimension  int           `mapstructure:"min_dimension"`
	MaxCandidates int           `mapstructure:"max_candidates"`
	StyleHint     string        `mapstructure:"style_hint"`
}

// CacheConfig 圖片網址快取配置
type CacheConfig struct {
	Backend       string        `mapstructure:"backend"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// RecommendationConfig 推薦數量設定
type RecommendationConfig struct {
	Count         int  `mapstructure:"count"`
	MinCount      int  `mapstructure:"min_count"`
	ImageKeywords bool `mapstructure:"image_keywords"`
}

// CORSConfig 跨來源設定
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件（不存在時直接使用環境變數）
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	bindEnv(v)

	// 可選的 config.yaml
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return decode(v)
}

// Default 只使用預設值建立設定（不讀取環境變數與檔案）
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		panic(fmt.Sprintf("default config: %v", err))
	}
	normalize(&config)
	return &config
}

func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("ai.provider", "AI_PROVIDER")
	_ = v.BindEnv("grok.api_key", "GROK_API_KEY")
	_ = v.BindEnv("grok.model", "GROK_MODEL")
	_ = v.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	_ = v.BindEnv("gemini.model", "GEMINI_MODEL")
	_ = v.BindEnv("search.api_key", "GOOGLE_CUSTOM_SEARCH_API_KEY")
	_ = v.BindEnv("search.cx", "GOOGLE_CUSTOM_SEARCH_CX")
	_ = v.BindEnv("cache.backend", "CACHE_BACKEND")
	_ = v.BindEnv("cache.redis_addr", "REDIS_ADDR")
	_ = v.BindEnv("cache.redis_password", "REDIS_PASSWORD")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
}

func decode(v *viper.Viper) (*Config, error) {
	// logger 尚未初始化，改用 fmt.Println
	fmt.Println("Loading configuration",
		"provider:", v.GetString("ai.provider"),
		"grok_api_key:", common.MaskAPIKey(v.GetString("grok.api_key")),
		"gemini_model:", v.GetString("gemini.model"),
	)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	normalize(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "vibe-gift")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "90s")
	v.SetDefault("server.max_body_bytes", 64*1024)

	// 生成服務
	v.SetDefault("ai.provider", ProviderGrok)

	v.SetDefault("grok.model", "grok-3")
	v.SetDefault("grok.base_url", "https://api.x.ai/v1")
	v.SetDefault("grok.temperature", 0.7)
	v.SetDefault("grok.timeout", "60s")

	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("gemini.base_url", "")
	v.SetDefault("gemini.temperature", 0.7)
	v.SetDefault("gemini.timeout", "60s")

	// 圖片搜尋
	v.SetDefault("search.base_url", "https://www.googleapis.com/customsearch/v1")
	v.SetDefault("search.num", 5)
	v.SetDefault("search.img_type", "photo")
	v.SetDefault("search.timeout", "10s")

	// 候選過濾
	v.SetDefault("image.probe_timeout", "3s")
	v.SetDefault("image.min_ratio", 0.65)
	v.SetDefault("image.max_ratio", 1.35)
	v.SetDefault("image.min_dimension", 300)
	v.SetDefault("image.max_candidates", 5)
	v.SetDefault("image.style_hint", "product photo")

	// 快取設定
	v.SetDefault("cache.backend", CacheBackendMemory)
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.ttl", "0s")

	// 推薦數量
	v.SetDefault("recommendation.count", 5)
	v.SetDefault("recommendation.min_count", 5)
	v.SetDefault("recommendation.image_keywords", true)

	v.SetDefault("cors.allow_origins", []string{"*"})
	v.SetDefault("log_level", "info")
}

// normalize 整理大小寫與模型前綴
func normalize(config *Config) {
	config.AI.Provider = strings.ToLower(strings.TrimSpace(config.AI.Provider))
	config.Cache.Backend = strings.ToLower(strings.TrimSpace(config.Cache.Backend))
	config.Gemini.Model = strings.TrimPrefix(strings.TrimSpace(config.Gemini.Model), "models/")
	if config.Gemini.Model == "" {
		config.Gemini.Model = "gemini-2.0-flash"
	}
}

// validateConfig 驗證設定；缺少金鑰不在此處報錯，由每次請求回報
func validateConfig(config *Config) error {
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	switch config.AI.Provider {
	case ProviderGrok, ProviderGemini:
	default:
		return fmt.Errorf("unknown ai provider %q", config.AI.Provider)
	}

	switch config.Cache.Backend {
	case CacheBackendMemory:
	case CacheBackendRedis:
		if config.Cache.RedisAddr == "" {
			return fmt.Errorf("redis cache requires redis_addr")
		}
	default:
		return fmt.Errorf("unknown cache backend %q", config.Cache.Backend)
	}
	if config.Cache.TTL < 0 {
		return fmt.Errorf("invalid cache ttl")
	}

	rec := config.Recommendation
	if rec.Count < 1 {
		return fmt.Errorf("recommendation count must be at least 1")
	}
	if rec.MinCount < 1 || rec.MinCount > rec.Count {
		return fmt.Errorf("recommendation min_count must be between 1 and count")
	}

	img := config.Image
	if img.MinRatio <= 0 || img.MaxRatio < img.MinRatio {
		return fmt.Errorf("invalid image ratio window [%v, %v]", img.MinRatio, img.MaxRatio)
	}
	if img.MaxCandidates <= 0 {
		return fmt.Errorf("invalid image max candidates")
	}
	if img.ProbeTimeout <= 0 {
		return fmt.Errorf("invalid image probe timeout")
	}

	return nil
}

// ActiveProvider 回傳目前選用的生成服務設定
func (c *Config) ActiveProvider() ProviderConfig {
	if c.AI.Provider == ProviderGemini {
		return c.Gemini
	}
	return c.Grok
}
