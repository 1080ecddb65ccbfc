// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Task types of the job workers; keys of Config.Workers.
const (
	WorkerScoreQuiz  = "score-quiz"
	WorkerRenderPlan = "render-plan"
	WorkerSendPlan   = "send-plan"
)

// Mail providers.
const (
	MailProviderSES  = "ses"
	MailProviderSMTP = "smtp"
	MailProviderLog  = "log"
)

// Load reads configs/config.yaml, overlays config.<APP_ENVIRONMENT>.yaml and
// environment variables (dots become underscores: MAIL_PROVIDER overrides
// mail.provider), then applies defaults and validates.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // the overlay is optional

	return build(v)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return build(v)
}

func build(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// loadEnvFile loads the first .env found walking up from the working directory.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok || !strings.Contains(strVal, "$") {
			continue
		}
		if expanded := os.ExpandEnv(strVal); expanded != strVal {
			v.Set(key, expanded)
		}
	}
}

// setDefaults registers every scalar key so environment overrides reach
// Unmarshal even when the yaml file omits the key.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "after-sales-quiz")
	v.SetDefault("app.version", "dev")
	v.SetDefault("app.environment", "development")

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 10000)
	v.SetDefault("server.write_timeout", 30000)
	v.SetDefault("server.shutdown_timeout", 15000)
	v.SetDefault("server.max_body_bytes", 8<<20)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("camunda.enabled", false)
	v.SetDefault("camunda.broker_address", "")
	v.SetDefault("camunda.use_plaintext", true)
	v.SetDefault("camunda.max_jobs_active", 10)
	v.SetDefault("camunda.timeout", 30000)
	v.SetDefault("camunda.request_timeout", 30000)

	v.SetDefault("database.redis.enabled", false)
	v.SetDefault("database.redis.address", "localhost:6379")
	v.SetDefault("database.redis.password", "")
	v.SetDefault("database.redis.db", 0)

	v.SetDefault("mail.provider", MailProviderLog)
	v.SetDefault("mail.from_name", "After-Sales Quiz")
	v.SetDefault("mail.from_email", "")
	v.SetDefault("mail.reply_to", "")
	v.SetDefault("mail.subject", "Your Humblebee After-Sales Action Plan")
	v.SetDefault("mail.timeout", 15000)

	v.SetDefault("integrations.aws.region", "eu-west-1")
	v.SetDefault("integrations.aws.ses.configuration_set", "")
	v.SetDefault("integrations.aws.sns.enabled", false)
	v.SetDefault("integrations.aws.sns.lead_topic_arn", "")
	v.SetDefault("integrations.smtp.host", "")
	v.SetDefault("integrations.smtp.port", 587)
	v.SetDefault("integrations.smtp.username", "")
	v.SetDefault("integrations.smtp.password", "")
	v.SetDefault("integrations.smtp.use_tls", true)
	v.SetDefault("integrations.lead_webhook.enabled", false)
	v.SetDefault("integrations.lead_webhook.url", "")
	v.SetDefault("integrations.lead_webhook.token", "")
	v.SetDefault("integrations.lead_webhook.timeout", 10000)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.backend", "memory")
	v.SetDefault("rate_limit.requests", 5)
	v.SetDefault("rate_limit.window", 3600000)
	v.SetDefault("rate_limit.key_prefix", "quiz:send-plan:")

	v.SetDefault("report.brand_name", "HUMBLEBEE")
	v.SetDefault("report.title", "After-Sales Performance Action Plan")
	v.SetDefault("report.tagline", "After-Sales Performance Experts")
	v.SetDefault("report.contact_email", "hello@humblebee.se")
	v.SetDefault("report.website", "www.humblebee.se")

	v.SetDefault("observability.service_name", "after-sales-quiz")
	v.SetDefault("observability.jaeger_endpoint", "")
}

// overrideEmptyConfig fills secrets from their conventional variable names
// when the yaml left them blank.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Integrations.SMTP.Password == "" {
		if val := os.Getenv("SMTP_PASSWORD"); val != "" {
			cfg.Integrations.SMTP.Password = val
		}
	}
	if cfg.Database.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Database.Redis.Password = val
		}
	}
	if cfg.Integrations.LeadWebhook.Token == "" {
		if val := os.Getenv("LEAD_WEBHOOK_TOKEN"); val != "" {
			cfg.Integrations.LeadWebhook.Token = val
		}
	}
	if cfg.Integrations.AWS.SNS.LeadTopicARN == "" {
		if val := os.Getenv("LEAD_TOPIC_ARN"); val != "" {
			cfg.Integrations.AWS.SNS.LeadTopicARN = val
		}
	}
}

// applyDefaults fills values viper defaults cannot express.
func applyDefaults(cfg *Config) {
	if cfg.Workers == nil {
		cfg.Workers = make(map[string]WorkerConfig)
	}
	for _, name := range []string{WorkerScoreQuiz, WorkerRenderPlan, WorkerSendPlan} {
		if _, ok := cfg.Workers[name]; !ok {
			cfg.Workers[name] = WorkerConfig{Enabled: true}
		}
	}
	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = cfg.Camunda.MaxJobsActive
		}
		if worker.Timeout == 0 {
			worker.Timeout = cfg.Camunda.Timeout
		}
		cfg.Workers[key] = worker
	}

	cfg.Mail.Provider = strings.ToLower(strings.TrimSpace(cfg.Mail.Provider))
	cfg.RateLimit.Backend = strings.ToLower(strings.TrimSpace(cfg.RateLimit.Backend))
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"*"}
	}
}

// validateConfig validates critical configuration fields.
func validateConfig(cfg *Config) error {
	switch cfg.Mail.Provider {
	case MailProviderLog:
	case MailProviderSES, MailProviderSMTP:
		if cfg.Mail.FromEmail == "" {
			return fmt.Errorf("mail.from_email is required for provider %s", cfg.Mail.Provider)
		}
	default:
		return fmt.Errorf("mail.provider must be one of ses, smtp, log; got %q", cfg.Mail.Provider)
	}

	if cfg.Mail.Provider == MailProviderSMTP && cfg.Integrations.SMTP.Host == "" {
		return fmt.Errorf("integrations.smtp.host is required for the smtp mail provider")
	}
	if (cfg.Mail.Provider == MailProviderSES || cfg.Integrations.AWS.SNS.Enabled) && cfg.Integrations.AWS.Region == "" {
		return fmt.Errorf("integrations.aws.region is required")
	}
	if cfg.Integrations.AWS.SNS.Enabled && cfg.Integrations.AWS.SNS.LeadTopicARN == "" {
		return fmt.Errorf("integrations.aws.sns.lead_topic_arn is required when sns is enabled")
	}

	if cfg.Integrations.LeadWebhook.Enabled && cfg.Integrations.LeadWebhook.URL == "" {
		return fmt.Errorf("integrations.lead_webhook.url is required when the lead webhook is enabled")
	}

	if cfg.Camunda.Enabled && cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required when camunda is enabled")
	}

	if cfg.RateLimit.Enabled {
		switch cfg.RateLimit.Backend {
		case "memory":
		case "redis":
			if !cfg.Database.Redis.Enabled {
				return fmt.Errorf("rate_limit.backend redis requires database.redis.enabled")
			}
		default:
			return fmt.Errorf("rate_limit.backend must be redis or memory; got %q", cfg.RateLimit.Backend)
		}
		if cfg.RateLimit.Requests <= 0 || cfg.RateLimit.Window <= 0 {
			return fmt.Errorf("rate_limit.requests and rate_limit.window must be positive")
		}
	}

	if cfg.Database.Redis.Enabled && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required")
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults.
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}
	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
	}
}

// IsWorkerEnabled checks if a specific worker is enabled.
func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}
