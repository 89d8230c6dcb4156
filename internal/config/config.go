package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingAPIKey is returned when a batch job needs an external API key that is not configured.
var ErrMissingAPIKey = errors.New("missing API key")

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	Site     SiteConfig     `mapstructure:"site"`
	Sitemap  SitemapConfig  `mapstructure:"sitemap"`
	API      APIConfig      `mapstructure:"api"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	YouTube  YouTubeConfig  `mapstructure:"youtube"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type ServerConfig struct {
	Address     string   `mapstructure:"address"`
	Mode        string   `mapstructure:"mode"` // gin mode: debug, release, test
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// DatabaseConfig selects the content store backend.
// Driver is one of "mongo", "sqlite" or "postgres". URI/Name are used by mongo, DSN by the SQL drivers.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	URI    string `mapstructure:"uri"`
	Name   string `mapstructure:"name"`
	DSN    string `mapstructure:"dsn"`
}

type S3Config struct {
	Enabled         bool   `mapstructure:"enabled"`
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	// PublicBaseURL, when set, is joined with an object key to build public image URLs.
	PublicBaseURL string `mapstructure:"public_base_url"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

type LogConfig struct {
	Mode string `mapstructure:"mode"` // "dev" or "prod"
}

// SiteConfig describes the public site the API and sitemap point at.
type SiteConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	MediaBaseURL string `mapstructure:"media_base_url"`
}

type SitemapConfig struct {
	Path        string   `mapstructure:"path"`
	StaticPages []string `mapstructure:"static_pages"`
	PublishToS3 bool     `mapstructure:"publish_to_s3"`
	ObjectKey   string   `mapstructure:"object_key"`
}

type APIConfig struct {
	DefaultPageSize int `mapstructure:"default_page_size"`
	MaxPageSize     int `mapstructure:"max_page_size"`
}

type OpenAIConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float32       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type YouTubeConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	Endpoint       string        `mapstructure:"endpoint"`
	RegionCode     string        `mapstructure:"region_code"`
	Language       string        `mapstructure:"language"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxDailyQuota  int           `mapstructure:"max_daily_quota"`
	QuotaPerSearch int           `mapstructure:"quota_per_search"`
	VariantDelay   time.Duration `mapstructure:"variant_delay"`
	// ProgressStore is "file" or "redis".
	ProgressStore string `mapstructure:"progress_store"`
	ProgressFile  string `mapstructure:"progress_file"`
}

type RedisConfig struct {
	Addr        string `mapstructure:"addr"`
	Password    string `mapstructure:"password"`
	DB          int    `mapstructure:"db"`
	ProgressKey string `mapstructure:"progress_key"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (Config, error) {
	var config Config

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, openai.api_key -> OPENAI_API_KEY
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return config, fmt.Errorf("read config: %w", err)
	}

	if err := v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("unmarshal config: %w", err)
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "heartwellness")
	v.SetDefault("database.dsn", "heartwellness.db")

	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.use_ssl", true)

	v.SetDefault("jwt.expiration", "1h")
	v.SetDefault("log.mode", "dev")

	v.SetDefault("site.base_url", "https://heartwellness.app")
	v.SetDefault("site.media_base_url", "/media/")

	v.SetDefault("sitemap.path", "sitemap-0.xml")
	v.SetDefault("sitemap.static_pages", []string{"/", "/articles", "/exercises"})
	v.SetDefault("sitemap.object_key", "sitemap-0.xml")

	v.SetDefault("api.default_page_size", 10)
	v.SetDefault("api.max_page_size", 100)

	v.SetDefault("openai.model", "gpt-3.5-turbo")
	v.SetDefault("openai.max_tokens", 2000)
	v.SetDefault("openai.temperature", 0.7)
	v.SetDefault("openai.timeout", "60s")

	v.SetDefault("youtube.region_code", "US")
	v.SetDefault("youtube.language", "en")
	v.SetDefault("youtube.timeout", "15s")
	v.SetDefault("youtube.max_daily_quota", 10000)
	v.SetDefault("youtube.quota_per_search", 100)
	v.SetDefault("youtube.variant_delay", "500ms")
	v.SetDefault("youtube.progress_store", "file")
	v.SetDefault("youtube.progress_file", "youtube_import_progress.json")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.progress_key", "fitness:youtube:progress")

	// Unmarshal only sees keys Viper already knows about, so env-only keys are bound explicitly.
	for _, key := range []string{
		"jwt.secret",
		"openai.api_key", "openai.base_url",
		"youtube.api_key", "youtube.endpoint",
		"s3.endpoint", "s3.region", "s3.access_key_id", "s3.secret_access_key", "s3.bucket_name", "s3.public_base_url",
		"sitemap.publish_to_s3",
		"redis.password", "redis.db",
	} {
		_ = v.BindEnv(key)
	}
}

// RequireOpenAI fails fast when the description generator cannot reach the completion API.
func (c Config) RequireOpenAI() error {
	if strings.TrimSpace(c.OpenAI.APIKey) == "" {
		return fmt.Errorf("%w: set OPENAI_API_KEY (create one at https://platform.openai.com/api-keys)", ErrMissingAPIKey)
	}
	return nil
}

// RequireYouTube fails fast when the video importer has no Data API v3 key.
func (c Config) RequireYouTube() error {
	if strings.TrimSpace(c.YouTube.APIKey) == "" {
		return fmt.Errorf("%w: set YOUTUBE_API_KEY (enable YouTube Data API v3 at https://console.developers.google.com/)", ErrMissingAPIKey)
	}
	return nil
}
