package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Retell     RetellConfig     `yaml:"retell" mapstructure:"retell"`
	Sitetext   SitetextConfig   `yaml:"sitetext" mapstructure:"sitetext"`
	Jina       JinaConfig       `yaml:"jina" mapstructure:"jina"`
	Webhook    WebhookConfig    `yaml:"webhook" mapstructure:"webhook"`
	Twilio     TwilioConfig     `yaml:"twilio" mapstructure:"twilio"`
	SendGrid   SendGridConfig   `yaml:"sendgrid" mapstructure:"sendgrid"`
	Notion     NotionConfig     `yaml:"notion" mapstructure:"notion"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Redis      RedisConfig      `yaml:"redis" mapstructure:"redis"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// RetellConfig holds credentials and defaults for the voice platform.
type RetellConfig struct {
	APIKey          string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL         string `yaml:"base_url" mapstructure:"base_url"`
	Model           string `yaml:"model" mapstructure:"model"`
	DefaultVoiceID  string `yaml:"default_voice_id" mapstructure:"default_voice_id"`
	DefaultAreaCode string `yaml:"default_area_code" mapstructure:"default_area_code"`
	DefaultAgentID  string `yaml:"default_agent_id" mapstructure:"default_agent_id"`
}

// SitetextConfig configures website text retrieval for prompt context.
type SitetextConfig struct {
	FetchTimeoutSecs  int `yaml:"fetch_timeout_secs" mapstructure:"fetch_timeout_secs"`
	ReaderTimeoutSecs int `yaml:"reader_timeout_secs" mapstructure:"reader_timeout_secs"`
	MinLength         int `yaml:"min_length" mapstructure:"min_length"`
	MaxLength         int `yaml:"max_length" mapstructure:"max_length"`
}

// JinaConfig holds Jina AI Reader settings for the proxy fetch fallback.
type JinaConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// WebhookConfig configures the inbound call-event webhook.
type WebhookConfig struct {
	Secret          string `yaml:"secret" mapstructure:"secret"`
	DedupWindowSecs int    `yaml:"dedup_window_secs" mapstructure:"dedup_window_secs"`
	MinDurationMS   int    `yaml:"min_duration_ms" mapstructure:"min_duration_ms"`
	MinSummaryLen   int    `yaml:"min_summary_len" mapstructure:"min_summary_len"`
}

// TwilioConfig holds SMS notification credentials.
type TwilioConfig struct {
	AccountSID string `yaml:"account_sid" mapstructure:"account_sid"`
	AuthToken  string `yaml:"auth_token" mapstructure:"auth_token"`
	FromNumber string `yaml:"from_number" mapstructure:"from_number"`
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
}

// SendGridConfig holds transactional email credentials.
type SendGridConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	FromEmail string `yaml:"from_email" mapstructure:"from_email"`
	FromName  string `yaml:"from_name" mapstructure:"from_name"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
}

// NotionConfig holds the Notion ops-log integration token and database ID.
type NotionConfig struct {
	Token     string `yaml:"token" mapstructure:"token"`
	CallLogDB string `yaml:"call_log_db" mapstructure:"call_log_db"`
}

// SalesforceConfig holds Salesforce JWT auth settings for CRM lead push.
type SalesforceConfig struct {
	ClientID string `yaml:"client_id" mapstructure:"client_id"`
	Username string `yaml:"username" mapstructure:"username"`
	KeyPath  string `yaml:"key_path" mapstructure:"key_path"`
	LoginURL string `yaml:"login_url" mapstructure:"login_url"`
}

// RedisConfig configures the optional redis-backed dedup store.
// When Addr is empty the in-memory dedup store is used instead.
type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
}

// StoreConfig configures the call-log database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("RECEPTION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("retell.base_url", "https://api.retellai.com")
	v.SetDefault("retell.model", "gpt-4o-mini")
	v.SetDefault("retell.default_area_code", "508")
	v.SetDefault("sitetext.fetch_timeout_secs", 8)
	v.SetDefault("sitetext.reader_timeout_secs", 9)
	v.SetDefault("sitetext.min_length", 200)
	v.SetDefault("sitetext.max_length", 2000)
	v.SetDefault("jina.base_url", "https://r.jina.ai")
	v.SetDefault("webhook.dedup_window_secs", 600)
	v.SetDefault("webhook.min_duration_ms", 20000)
	v.SetDefault("webhook.min_summary_len", 65)
	v.SetDefault("twilio.base_url", "https://api.twilio.com")
	v.SetDefault("sendgrid.base_url", "https://api.sendgrid.com")
	v.SetDefault("sendgrid.from_name", "Allie Reception")
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "reception.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
