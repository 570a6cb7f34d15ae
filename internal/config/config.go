package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Log         LogConfig         `yaml:"log"`
	CORS        CORSConfig        `yaml:"cors"`
	Queue       QueueConfig       `yaml:"queue"`
	Pipeline    PipelineConfig    `yaml:"pipeline"`
	Trends      TrendsConfig      `yaml:"trends"`
	Storage     StorageConfig     `yaml:"storage"`
	Transcriber TranscriberConfig `yaml:"transcriber"`
	Emotion     EmotionConfig     `yaml:"emotion"`
	LLM         LLMConfig         `yaml:"llm"`
	Jira        JiraConfig        `yaml:"jira"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"http://localhost:5173"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8000"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"60s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// UploadRatePerMinute limits uploads per client IP.
	UploadRatePerMinute int `yaml:"upload_rate_per_minute" env:"SERVER_UPLOAD_RATE_PER_MINUTE" env-default:"30"`
	// AdminToken guards /admin routes. Empty disables them.
	AdminToken string `yaml:"admin_token" env:"SERVER_ADMIN_TOKEN"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// QueueConfig holds job queue and worker settings.
type QueueConfig struct {
	// ResultTTL is how long a finished job stays visible to pollers.
	ResultTTL time.Duration `yaml:"result_ttl" env:"QUEUE_RESULT_TTL" env-default:"600s"`
	// JobTimeout bounds a single handler run.
	JobTimeout time.Duration `yaml:"job_timeout" env:"QUEUE_JOB_TIMEOUT" env-default:"600s"`
	// VisibilityTimeout is the lease taken on claim. A running job whose lease
	// lapses is handed to another worker. Must exceed JobTimeout.
	VisibilityTimeout time.Duration `yaml:"visibility_timeout" env:"QUEUE_VISIBILITY_TIMEOUT" env-default:"660s"`
	MaxAttempts       int           `yaml:"max_attempts"       env:"QUEUE_MAX_ATTEMPTS"       env-default:"3"`
	PollInterval      time.Duration `yaml:"poll_interval"      env:"QUEUE_POLL_INTERVAL"      env-default:"1s"`
	Workers           int           `yaml:"workers"            env:"QUEUE_WORKERS"            env-default:"2"`
	ReapInterval      time.Duration `yaml:"reap_interval"      env:"QUEUE_REAP_INTERVAL"      env-default:"30s"`
}

// PipelineConfig holds audio processing pipeline settings.
type PipelineConfig struct {
	ChunkSize          int  `yaml:"chunk_size"           env:"PIPELINE_CHUNK_SIZE"           env-default:"1000"`
	ClassifierMaxChars int  `yaml:"classifier_max_chars" env:"PIPELINE_CLASSIFIER_MAX_CHARS" env-default:"512"`
	FailOnDegraded     bool `yaml:"fail_on_degraded"     env:"PIPELINE_FAIL_ON_DEGRADED"     env-default:"false"`
}

// TrendsConfig holds trend aggregation settings.
type TrendsConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl" env:"TRENDS_CACHE_TTL" env-default:"100h"`
	TopN     int           `yaml:"top_n"     env:"TRENDS_TOP_N"     env-default:"5"`
}

// StorageConfig holds uploaded audio storage settings.
type StorageConfig struct {
	UploadDir      string `yaml:"upload_dir"       env:"STORAGE_UPLOAD_DIR"       env-default:"./uploads"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes" env:"STORAGE_MAX_UPLOAD_BYTES" env-default:"52428800"`
}

// TranscriberConfig holds speech-to-text service settings.
type TranscriberConfig struct {
	BaseURL string        `yaml:"base_url" env:"TRANSCRIBER_BASE_URL" env-default:"http://localhost:9001"`
	Timeout time.Duration `yaml:"timeout"  env:"TRANSCRIBER_TIMEOUT"  env-default:"300s"`
}

// EmotionConfig holds emotion classifier service settings.
type EmotionConfig struct {
	BaseURL string        `yaml:"base_url" env:"EMOTION_BASE_URL" env-default:"http://localhost:9002"`
	Timeout time.Duration `yaml:"timeout"  env:"EMOTION_TIMEOUT"  env-default:"30s"`
}

// LLM providers.
const (
	LLMProviderAnthropic = "anthropic"
	LLMProviderOllama    = "ollama"
)

// LLMConfig holds settings for the language model used for cleaning and extraction.
type LLMConfig struct {
	Provider string `yaml:"provider"   env:"LLM_PROVIDER"   env-default:"ollama"`
	Model    string `yaml:"model"      env:"LLM_MODEL"      env-default:"mistral"`
	APIKey   string `yaml:"api_key"    env:"LLM_API_KEY"`
	// BaseURL overrides the provider's default endpoint.
	BaseURL   string        `yaml:"base_url"   env:"LLM_BASE_URL"`
	MaxTokens int64         `yaml:"max_tokens" env:"LLM_MAX_TOKENS" env-default:"2048"`
	Timeout   time.Duration `yaml:"timeout"    env:"LLM_TIMEOUT"    env-default:"120s"`
}

// JiraConfig holds ticketing settings.
type JiraConfig struct {
	Enabled    bool          `yaml:"enabled"     env:"JIRA_ENABLED"     env-default:"false"`
	Mock       bool          `yaml:"mock"        env:"JIRA_MOCK"        env-default:"false"`
	BaseURL    string        `yaml:"base_url"    env:"JIRA_BASE_URL"`
	Email      string        `yaml:"email"       env:"JIRA_EMAIL"`
	APIToken   string        `yaml:"api_token"   env:"JIRA_API_TOKEN"`
	ProjectKey string        `yaml:"project_key" env:"JIRA_PROJECT_KEY"`
	IssueType  string        `yaml:"issue_type"  env:"JIRA_ISSUE_TYPE"  env-default:"Task"`
	Timeout    time.Duration `yaml:"timeout"     env:"JIRA_TIMEOUT"     env-default:"15s"`
}

// UsesRemote reports whether tickets are created against a real Jira instance.
func (c JiraConfig) UsesRemote() bool {
	return c.Enabled && !c.Mock
}
