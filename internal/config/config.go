package config

import (
	"fmt"
	"time"

	"github.com/inkforge/scribeguard/internal/configs/env"
)

// Config holds all configuration for the application
type Config struct {
	// MongoDB
	MongoURI    string
	MongoDBName string

	// Redis
	RedisHost               string
	RedisPassword           string
	RedisStreamKey          string
	RedisConsumerGroup      string
	RedisDeadLetterKey      string
	StreamRetentionDuration time.Duration

	// JWT
	JWTSecret string
	JWTIssuer string

	// Rate Limiting
	RateLimitRPS float64

	// Concurrency
	MaxConcurrentChecks int
	CheckTimeout        time.Duration

	// Similarity
	MatchThreshold  float64
	MaxCandidates   int
	MaxHitsPerQuery int
	NgramSize       int
	MinTextLength   int

	// Web search
	UseExternalSearch bool
	SearchProvider    string // "api" or "scrape"
	SearchAPIURL      string
	SearchAPIKey      string
	SearchEngineID    string
	ScrapeSearchURL   string
	RequestTimeout    time.Duration
	RetryCount        int

	// Embedding
	EmbeddingURL   string
	EmbeddingModel string

	// Logging
	LogLevel string

	// Server
	ServerPort string
}

func Load() (*Config, error) {
	cfg := &Config{}

	// MongoDB
	cfg.MongoURI = env.GetEnv("MONGO_URI", "")
	cfg.MongoDBName = env.GetEnv("MONGO_DB_NAME", "")

	// Redis
	cfg.RedisHost = env.GetEnv("REDIS_HOST", "localhost:6379")
	cfg.RedisPassword = env.GetEnv("REDIS_PASSWORD", "")
	cfg.RedisStreamKey = env.GetEnv("REDIS_STREAM_KEY", "documents:stream")
	cfg.RedisConsumerGroup = env.GetEnv("REDIS_CONSUMER_GROUP", "documents:group")
	cfg.RedisDeadLetterKey = env.GetEnv("REDIS_DEAD_LETTER_KEY", "documents:dlq")
	retentionHours := env.GetEnvInt("STREAM_RETENTION_HOURS", 24)
	cfg.StreamRetentionDuration = time.Duration(retentionHours) * time.Hour

	// JWT
	cfg.JWTSecret = env.GetEnv("JWT_SECRET", "")
	cfg.JWTIssuer = env.GetEnv("JWT_ISSUER", "scribeguard")

	// Rate Limiting
	cfg.RateLimitRPS = env.GetEnvFloat("RATE_LIMIT_RPS", 10.0)

	// Concurrency
	cfg.MaxConcurrentChecks = env.GetEnvInt("MAX_CONCURRENT_CHECKS", 5)
	timeoutMinutes := env.GetEnvInt("CHECK_TIMEOUT_MINUTES", 10)
	cfg.CheckTimeout = time.Duration(timeoutMinutes) * time.Minute

	// Similarity
	cfg.MatchThreshold = env.GetEnvFloat("MATCH_THRESHOLD", 0.75)
	cfg.MaxCandidates = env.GetEnvInt("MAX_CANDIDATES", 3)
	cfg.MaxHitsPerQuery = env.GetEnvInt("MAX_HITS_PER_CANDIDATE", 5)
	cfg.NgramSize = env.GetEnvInt("NGRAM_SIZE", 5)
	cfg.MinTextLength = env.GetEnvInt("MIN_TEXT_LENGTH", 50)

	// Web search
	cfg.UseExternalSearch = env.GetEnvBool("USE_EXTERNAL_SEARCH", true)
	cfg.SearchProvider = env.GetEnv("SEARCH_PROVIDER", "api")
	cfg.SearchAPIURL = env.GetEnv("SEARCH_API_URL", "https://www.googleapis.com/customsearch/v1")
	cfg.SearchAPIKey = env.GetEnv("SEARCH_API_KEY", "")
	cfg.SearchEngineID = env.GetEnv("SEARCH_ENGINE_ID", "")
	cfg.ScrapeSearchURL = env.GetEnv("SCRAPE_SEARCH_URL", "https://html.duckduckgo.com/html/")
	timeoutSeconds := env.GetEnvInt("REQUEST_TIMEOUT_SECONDS", 20)
	cfg.RequestTimeout = time.Duration(timeoutSeconds) * time.Second
	cfg.RetryCount = env.GetEnvInt("RETRY_COUNT", 3)

	// Embedding
	cfg.EmbeddingURL = env.GetEnv("EMBEDDING_URL", "http://localhost:11434")
	cfg.EmbeddingModel = env.GetEnv("EMBEDDING_MODEL", "all-minilm")

	// Logging
	cfg.LogLevel = env.GetEnv("LOG_LEVEL", "info")

	// Server
	cfg.ServerPort = env.GetEnv("SERVER_PORT", "8080")

	return cfg, nil
}

// Validate fails fast on programming/configuration errors; a bad threshold
// must never surface mid-pipeline.
func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.MongoDBName == "" {
		return fmt.Errorf("MONGO_DB_NAME is required")
	}
	if c.RedisHost == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.MatchThreshold < 0 || c.MatchThreshold > 1 {
		return fmt.Errorf("MATCH_THRESHOLD must be in [0,1], got %f", c.MatchThreshold)
	}
	if c.MaxCandidates <= 0 {
		return fmt.Errorf("MAX_CANDIDATES must be greater than 0")
	}
	if c.MaxHitsPerQuery <= 0 {
		return fmt.Errorf("MAX_HITS_PER_CANDIDATE must be greater than 0")
	}
	if c.NgramSize <= 0 {
		return fmt.Errorf("NGRAM_SIZE must be greater than 0")
	}
	if c.MinTextLength <= 0 {
		return fmt.Errorf("MIN_TEXT_LENGTH must be greater than 0")
	}
	if c.MaxConcurrentChecks <= 0 {
		return fmt.Errorf("MAX_CONCURRENT_CHECKS must be greater than 0")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be greater than 0")
	}
	if c.RetryCount < 0 {
		return fmt.Errorf("RETRY_COUNT must not be negative")
	}
	if c.SearchProvider != "api" && c.SearchProvider != "scrape" {
		return fmt.Errorf("SEARCH_PROVIDER must be \"api\" or \"scrape\", got %q", c.SearchProvider)
	}
	if c.StreamRetentionDuration <= 0 {
		return fmt.Errorf("STREAM_RETENTION_HOURS must be greater than 0")
	}
	return nil
}
