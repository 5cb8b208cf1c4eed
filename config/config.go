// Package config loads the assistant's settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/jatinchawla007/LangGraph-Research-Assistant/log"
	"github.com/jatinchawla007/LangGraph-Research-Assistant/store"
)

const (
	ProviderLangChain = "langchaingo"
	ProviderOpenAI    = "openai"

	SearchTavily = "tavily"
	SearchBrave  = "brave"

	DefaultBaseURL = "https://api.groq.com/openai/v1"
)

// Config holds every setting of the assistant.
type Config struct {
	LLMProvider string
	LLMAPIKey   string
	LLMBaseURL  string
	// LLMMaxAttempts bounds tries per completion when the provider is rate limiting.
	LLMMaxAttempts int

	FastModel        string
	FastTemperature  float64
	SmartModel       string
	SmartTemperature float64

	SearchProvider   string
	TavilyAPIKey     string
	BraveAPIKey      string
	SearchMaxResults int

	History store.Config

	HTTPAddr     string
	RunTimeout   time.Duration
	FetchTimeout time.Duration
	UserAgent    string
	LogLevel     string
}

// Load reads the given .env files (".env" when none are given) into the
// process environment without overriding variables that are already set,
// then builds a Config from the environment. Missing files are ignored.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, applying defaults for unset variables.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	e := env{lookup: lookup}

	cfg := &Config{
		LLMProvider: e.str("LLM_PROVIDER", ProviderLangChain),
		LLMAPIKey:   e.first("LLM_API_KEY", "GROQ_API_KEY", "OPENAI_API_KEY"),
		LLMBaseURL:  e.str("LLM_BASE_URL", DefaultBaseURL),

		LLMMaxAttempts: e.int("LLM_MAX_ATTEMPTS", 3),

		FastModel:        e.str("FAST_MODEL", "llama-3.1-8b-instant"),
		FastTemperature:  e.float("FAST_TEMPERATURE", 0.2),
		SmartModel:       e.str("SMART_MODEL", "deepseek-r1-distill-llama-70b"),
		SmartTemperature: e.float("SMART_TEMPERATURE", 0.6),

		SearchProvider:   e.str("SEARCH_PROVIDER", SearchTavily),
		TavilyAPIKey:     e.str("TAVILY_API_KEY", ""),
		BraveAPIKey:      e.str("BRAVE_API_KEY", ""),
		SearchMaxResults: e.int("SEARCH_MAX_RESULTS", 2),

		History: store.Config{
			Backend:       e.str("HISTORY_BACKEND", store.BackendSQLite),
			SQLitePath:    e.str("SQLITE_PATH", "research_final_history.db"),
			PostgresDSN:   e.str("POSTGRES_DSN", ""),
			RedisAddr:     e.str("REDIS_ADDR", "localhost:6379"),
			RedisPassword: e.str("REDIS_PASSWORD", ""),
			RedisDB:       e.int("REDIS_DB", 0),
		},

		HTTPAddr:     e.str("HTTP_ADDR", ":8000"),
		RunTimeout:   e.duration("RUN_TIMEOUT", 5*time.Minute),
		FetchTimeout: e.duration("FETCH_TIMEOUT", 15*time.Second),
		UserAgent:    e.str("USER_AGENT", "myagent"),
		LogLevel:     e.str("LOG_LEVEL", "info"),
	}

	if len(e.errs) > 0 {
		return nil, errors.Join(e.errs...)
	}
	return cfg, nil
}

// Validate reports every setting that cannot work.
func (c *Config) Validate() error {
	var errs []error

	switch c.LLMProvider {
	case ProviderLangChain, ProviderOpenAI:
	default:
		errs = append(errs, fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider))
	}
	if c.LLMMaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("LLM_MAX_ATTEMPTS must be positive, got %d", c.LLMMaxAttempts))
	}
	if c.LLMAPIKey == "" {
		errs = append(errs, errors.New("LLM_API_KEY (or GROQ_API_KEY / OPENAI_API_KEY) is not set"))
	}

	switch c.SearchProvider {
	case SearchTavily:
		if c.TavilyAPIKey == "" {
			errs = append(errs, errors.New("TAVILY_API_KEY is not set"))
		}
	case SearchBrave:
		if c.BraveAPIKey == "" {
			errs = append(errs, errors.New("BRAVE_API_KEY is not set"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SEARCH_PROVIDER %q", c.SearchProvider))
	}
	if c.SearchMaxResults < 1 {
		errs = append(errs, fmt.Errorf("SEARCH_MAX_RESULTS must be positive, got %d", c.SearchMaxResults))
	}

	if !slices.Contains(store.Backends(), c.History.Backend) {
		errs = append(errs, fmt.Errorf("unknown HISTORY_BACKEND %q", c.History.Backend))
	}
	if c.History.Backend == store.BackendPostgres && c.History.PostgresDSN == "" {
		errs = append(errs, errors.New("POSTGRES_DSN is not set"))
	}

	if c.RunTimeout <= 0 {
		errs = append(errs, errors.New("RUN_TIMEOUT must be positive"))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// env reads typed values and collects parse errors.
type env struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (e *env) str(key, def string) string {
	if v, ok := e.lookup(key); ok && v != "" {
		return v
	}
	return def
}

func (e *env) first(keys ...string) string {
	for _, k := range keys {
		if v, ok := e.lookup(k); ok && v != "" {
			return v
		}
	}
	return ""
}

func (e *env) int(key string, def int) int {
	v, ok := e.lookup(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: invalid integer %q", key, v))
		return def
	}
	return n
}

func (e *env) float(key string, def float64) float64 {
	v, ok := e.lookup(key)
	if !ok || v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: invalid number %q", key, v))
		return def
	}
	return f
}

func (e *env) duration(key string, def time.Duration) time.Duration {
	v, ok := e.lookup(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: invalid duration %q", key, v))
		return def
	}
	return d
}
