// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Server        ServerConfig            `mapstructure:"server"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Mail          MailConfig              `mapstructure:"mail"`
	Integrations  IntegrationConfig       `mapstructure:"integrations"`
	RateLimit     RateLimitConfig         `mapstructure:"rate_limit"`
	Report        ReportConfig            `mapstructure:"report"`
	Observability ObservabilityConfig     `mapstructure:"observability"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Address         string   `mapstructure:"address"`
	ReadTimeout     int      `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int      `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"` // milliseconds
	MaxBodyBytes    int64    `mapstructure:"max_body_bytes"`
	CORSOrigins     []string `mapstructure:"cors_origins"`
}

type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address"`
	UsePlaintext   bool   `mapstructure:"use_plaintext"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// WorkerConfig holds the core settings applicable to every job worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MailConfig configures report delivery. Provider is one of ses, smtp or log.
type MailConfig struct {
	Provider  string `mapstructure:"provider"`
	FromName  string `mapstructure:"from_name"`
	FromEmail string `mapstructure:"from_email"`
	ReplyTo   string `mapstructure:"reply_to"`
	Subject   string `mapstructure:"subject"`
	Timeout   int    `mapstructure:"timeout"` // milliseconds
}

// IntegrationConfig holds settings for AWS, SMTP and the lead webhook.
type IntegrationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			ConfigurationSet string `mapstructure:"configuration_set"`
		} `mapstructure:"ses"`
		SNS struct {
			Enabled      bool   `mapstructure:"enabled"`
			LeadTopicARN string `mapstructure:"lead_topic_arn"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`

	SMTP struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		UseTLS   bool   `mapstructure:"use_tls"`
	} `mapstructure:"smtp"`

	LeadWebhook struct {
		Enabled bool   `mapstructure:"enabled"`
		URL     string `mapstructure:"url"`
		Token   string `mapstructure:"token"`
		Timeout int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"lead_webhook"`
}

// RateLimitConfig throttles report delivery per recipient address.
type RateLimitConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Backend   string `mapstructure:"backend"` // redis or memory
	Requests  int    `mapstructure:"requests"`
	Window    int    `mapstructure:"window"` // milliseconds
	KeyPrefix string `mapstructure:"key_prefix"`
}

// ReportConfig carries the branding printed on reports and emails.
type ReportConfig struct {
	BrandName    string `mapstructure:"brand_name"`
	Title        string `mapstructure:"title"`
	Tagline      string `mapstructure:"tagline"`
	ContactEmail string `mapstructure:"contact_email"`
	Website      string `mapstructure:"website"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ObservabilityConfig enables metrics and tracing exporters.
type ObservabilityConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}
