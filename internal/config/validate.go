package config

import (
	"fmt"
	"net/url"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.UploadRatePerMinute <= 0 {
		return fmt.Errorf("server: upload_rate_per_minute must be > 0 (got %d)", c.Server.UploadRatePerMinute)
	}
	if err := c.Queue.validate(); err != nil {
		return fmt.Errorf("queue: %w", err)
	}
	if err := c.Pipeline.validate(); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if c.Trends.CacheTTL <= 0 {
		return fmt.Errorf("trends: cache_ttl must be > 0 (got %v)", c.Trends.CacheTTL)
	}
	if c.Trends.TopN <= 0 {
		return fmt.Errorf("trends: top_n must be > 0 (got %d)", c.Trends.TopN)
	}
	if c.Storage.UploadDir == "" {
		return fmt.Errorf("storage: upload_dir is required")
	}
	if c.Storage.MaxUploadBytes <= 0 {
		return fmt.Errorf("storage: max_upload_bytes must be > 0 (got %d)", c.Storage.MaxUploadBytes)
	}
	if err := validateURL(c.Transcriber.BaseURL); err != nil {
		return fmt.Errorf("transcriber: %w", err)
	}
	if err := validateURL(c.Emotion.BaseURL); err != nil {
		return fmt.Errorf("emotion: %w", err)
	}
	if err := c.LLM.validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if err := c.Jira.validate(); err != nil {
		return fmt.Errorf("jira: %w", err)
	}
	return nil
}

func (q *QueueConfig) validate() error {
	if q.ResultTTL <= 0 {
		return fmt.Errorf("result_ttl must be > 0 (got %v)", q.ResultTTL)
	}
	if q.JobTimeout <= 0 {
		return fmt.Errorf("job_timeout must be > 0 (got %v)", q.JobTimeout)
	}
	if q.VisibilityTimeout <= q.JobTimeout {
		return fmt.Errorf("visibility_timeout (%v) must exceed job_timeout (%v)", q.VisibilityTimeout, q.JobTimeout)
	}
	if q.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be >= 1 (got %d)", q.MaxAttempts)
	}
	if q.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be > 0 (got %v)", q.PollInterval)
	}
	if q.Workers < 1 {
		return fmt.Errorf("workers must be >= 1 (got %d)", q.Workers)
	}
	if q.ReapInterval <= 0 {
		return fmt.Errorf("reap_interval must be > 0 (got %v)", q.ReapInterval)
	}
	return nil
}

func (p *PipelineConfig) validate() error {
	if p.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be > 0 (got %d)", p.ChunkSize)
	}
	if p.ClassifierMaxChars <= 0 {
		return fmt.Errorf("classifier_max_chars must be > 0 (got %d)", p.ClassifierMaxChars)
	}
	return nil
}

func (l *LLMConfig) validate() error {
	switch l.Provider {
	case LLMProviderAnthropic:
		if l.APIKey == "" {
			return fmt.Errorf("api_key is required for provider %q", l.Provider)
		}
	case LLMProviderOllama:
	default:
		return fmt.Errorf("unknown provider %q", l.Provider)
	}
	if l.BaseURL != "" {
		if err := validateURL(l.BaseURL); err != nil {
			return err
		}
	}
	if l.Model == "" {
		return fmt.Errorf("model is required")
	}
	if l.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be > 0 (got %d)", l.MaxTokens)
	}
	return nil
}

func (j *JiraConfig) validate() error {
	if !j.UsesRemote() {
		return nil
	}
	if err := validateURL(j.BaseURL); err != nil {
		return err
	}
	if j.Email == "" || j.APIToken == "" {
		return fmt.Errorf("email and api_token are required when jira is enabled")
	}
	if j.ProjectKey == "" {
		return fmt.Errorf("project_key is required when jira is enabled")
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base_url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("invalid base_url %q: want http(s)://host", raw)
	}
	return nil
}
