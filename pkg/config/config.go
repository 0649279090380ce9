package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"StockAdvisor/internal/domain/models"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080" validate:"gt=0,lt=65536"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"60s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		// Empty disables CORS headers.
		CORSOrigins []string `yaml:"cors_origins" default:"[\"*\"]"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Log       LogConfig       `yaml:"log"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Providers ProvidersConfig `yaml:"providers"`
	LLM       LLMConfig       `yaml:"llm"`
	Cache     CacheConfig     `yaml:"cache"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	RateLimit RateLimitConfig `yaml:"ratelimit"`
}

type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" default:"console" validate:"oneof=console json"`
	Output string `yaml:"output" default:"stdout"`
}

type AnalysisConfig struct {
	CacheTTL            time.Duration      `yaml:"cache_ttl" default:"15m"`
	PerRoleTimeout      time.Duration      `yaml:"per_role_timeout" default:"20s"`
	OperationTimeout    time.Duration      `yaml:"operation_timeout" default:"45s"`
	WorkerPoolSize      int                `yaml:"worker_pool_size" default:"6"`
	DefaultPeriodMonths int                `yaml:"default_period_months" default:"12" validate:"gte=1,lte=60"`
	TieBreakOrder       []string           `yaml:"tie_break_order" default:"[\"HOLD\",\"SELL\",\"BUY\"]"`
	RoleWeights         map[string]float64 `yaml:"role_weights"`
	Roles               []string           `yaml:"roles" default:"[\"company\",\"industry\",\"macro\",\"technical\",\"risk\",\"sentiment\"]"`
}

type ProvidersConfig struct {
	DataSourceOrder []string      `yaml:"data_source_order" default:"[\"PRIMARY\",\"SECONDARY\",\"TERTIARY\"]"`
	TierTimeout     time.Duration `yaml:"tier_timeout" default:"10s"`
	RequestDelay    time.Duration `yaml:"request_delay" default:"1500ms"`
	RequestJitter   time.Duration `yaml:"request_jitter" default:"500ms"`
	AlphaVantage    struct {
		APIKey            string `yaml:"api_key"`
		BaseURL           string `yaml:"base_url" default:"https://www.alphavantage.co" validate:"url"`
		RequestsPerMinute int    `yaml:"requests_per_minute" default:"5" validate:"gt=0"`
	} `yaml:"alphavantage"`
	Static struct {
		Enabled bool `yaml:"enabled" default:"true"`
	} `yaml:"static"`
}

type LLMConfig struct {
	Provider    string  `yaml:"provider" default:"claude"`
	// Empty takes the provider's default model.
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature" default:"0.1"`
	MaxTokens   int     `yaml:"max_tokens" default:"4000"`
	Claude      struct {
		APIKey string `yaml:"api_key"`
	} `yaml:"claude"`
	Gemini struct {
		APIKey string `yaml:"api_key"`
	} `yaml:"gemini"`
	OpenAI struct {
		APIKey string `yaml:"api_key"`
	} `yaml:"openai"`
}

var defaultModels = map[string]string{
	"claude": "claude-3-5-haiku-latest",
	"gemini": "gemini-2.0-flash",
	"openai": "gpt-4o-mini",
}

// DefaultModel returns the model used for provider when none is configured.
func DefaultModel(provider string) string {
	return defaultModels[provider]
}

// ModelProvider guesses the provider a model name belongs to from its family
// prefix. It returns "" for names it does not recognize.
func ModelProvider(model string) string {
	m := strings.ToLower(model)
	switch {
	case strings.HasPrefix(m, "claude"):
		return "claude"
	case strings.HasPrefix(m, "gemini"):
		return "gemini"
	case strings.HasPrefix(m, "gpt-"), strings.HasPrefix(m, "o1"), strings.HasPrefix(m, "o3"), strings.HasPrefix(m, "o4"),
		strings.HasPrefix(m, "chatgpt"):
		return "openai"
	}
	return ""
}

type CacheConfig struct {
	Backend       string `yaml:"backend" default:"memory"`
	MemoryMaxSize int    `yaml:"memory_max_size" default:"1000" validate:"gt=0"`
	// MemoryTTL caps how long the layered backend keeps a value in memory.
	MemoryTTL time.Duration `yaml:"memory_ttl" default:"1m"`
	Redis     struct {
		Host         string        `yaml:"host" default:"localhost"`
		Port         int           `yaml:"port" default:"6379"`
		Password     string        `yaml:"password"`
		DB           int           `yaml:"db"`
		Prefix       string        `yaml:"prefix" default:"stockadvisor"`
		PoolSize     int           `yaml:"pool_size" default:"10" validate:"gt=0"`
		MinIdleConns int           `yaml:"min_idle_conns" default:"2" validate:"gte=0"`
		PoolTimeout  time.Duration `yaml:"pool_timeout" default:"30s"`
	} `yaml:"redis"`
	Badger struct {
		Dir string `yaml:"dir" default:"./data/cache"`
	} `yaml:"badger"`
}

type KafkaConfig struct {
	Enabled       bool     `yaml:"enabled"`
	Brokers       []string `yaml:"brokers" default:"[\"localhost:9092\"]"`
	DecisionTopic string   `yaml:"decision_topic" default:"analysis.decisions"`
	LogTopic      string   `yaml:"log_topic" default:"analysis.logs"`
	RequiredAcks  int      `yaml:"required_acks" default:"1"`
	Compression   string   `yaml:"compression" default:"gzip" validate:"oneof=none gzip snappy lz4 zstd"`
	Producer      struct {
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		Linger       time.Duration `yaml:"linger" default:"50ms"`
		BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
		BatchSize    int           `yaml:"batch_size" default:"100"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
		Async        bool          `yaml:"async"`
	} `yaml:"producer"`
}

type RateLimitConfig struct {
	Capacity     int     `yaml:"capacity" default:"10" validate:"gt=0"`
	RefillPerSec float64 `yaml:"refill_per_sec" default:"0.2" validate:"gt=0"`
}

var validate = validator.New()

// Default returns a configuration holding only default values.
func Default() *Config {
	var c Config
	if err := defaults.Set(&c); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return &c
}

// Load reads and parses a YAML configuration file over the defaults.
// A missing file leaves the defaults in place.
func Load(path string) (*Config, error) {
	c, err := read(path)
	if err != nil {
		return nil, err
	}
	c.fillModel()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides secrets and endpoints with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := read(path)
	if err != nil {
		return nil, err
	}
	c.applyEnv(os.Getenv)
	c.fillModel()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// fillModel picks the provider's default model when none is set. It runs after
// environment overrides so LLM_PROVIDER alone switches the model too.
func (c *Config) fillModel() {
	if c.LLM.Model == "" {
		c.LLM.Model = DefaultModel(c.LLM.Provider)
	}
}

func read(path string) (*Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("ANTHROPIC_API_KEY"); v != "" {
		c.LLM.Claude.APIKey = v
	}
	if v := getenv("GEMINI_API_KEY"); v != "" {
		c.LLM.Gemini.APIKey = v
	}
	if v := getenv("OPENAI_API_KEY"); v != "" {
		c.LLM.OpenAI.APIKey = v
	}
	if v := getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		c.Providers.AlphaVantage.APIKey = v
	}
	if v := getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := getenv("CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		host, port, ok := strings.Cut(v, ":")
		c.Cache.Redis.Host = host
		if ok {
			if p, err := strconv.Atoi(port); err == nil {
				c.Cache.Redis.Port = p
			}
		}
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
}

// Validate checks struct tags first, then cross-field rules. Every failure is
// reported as a *models.ConfigurationError.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return models.NewConfigurationError(ve[0].Namespace(), "failed %q rule", ve[0].Tag())
		}
		return models.NewConfigurationError("", "%v", err)
	}

	a := c.Analysis
	if a.CacheTTL <= 0 {
		return models.NewConfigurationError("analysis.cache_ttl", "must be positive, got %s", a.CacheTTL)
	}
	if a.PerRoleTimeout <= 0 {
		return models.NewConfigurationError("analysis.per_role_timeout", "must be positive, got %s", a.PerRoleTimeout)
	}
	if a.OperationTimeout <= 0 {
		return models.NewConfigurationError("analysis.operation_timeout", "must be positive, got %s", a.OperationTimeout)
	}
	if a.WorkerPoolSize <= 0 {
		return models.NewConfigurationError("analysis.worker_pool_size", "must be positive, got %d", a.WorkerPoolSize)
	}
	if _, err := ParseTieBreakOrder(a.TieBreakOrder); err != nil {
		return err
	}

	if len(a.Roles) == 0 {
		return models.NewConfigurationError("analysis.roles", "at least one role is required")
	}
	roles := make(map[string]bool, len(a.Roles))
	for _, r := range a.Roles {
		if roles[r] {
			return models.NewConfigurationError("analysis.roles", "role %q listed twice", r)
		}
		roles[r] = true
	}
	for name, w := range a.RoleWeights {
		if !roles[name] {
			return models.NewConfigurationError("analysis.role_weights", "weight given for unconfigured role %q", name)
		}
		if w <= 0 {
			return models.NewConfigurationError("analysis.role_weights", "weight of %q must be positive, got %v", name, w)
		}
	}

	if _, err := ParseTierOrder(c.Providers.DataSourceOrder); err != nil {
		return err
	}
	if c.Providers.TierTimeout <= 0 {
		return models.NewConfigurationError("providers.tier_timeout", "must be positive, got %s", c.Providers.TierTimeout)
	}
	if c.Providers.RequestDelay < 0 || c.Providers.RequestJitter < 0 {
		return models.NewConfigurationError("providers.request_delay", "delay and jitter must not be negative")
	}

	switch c.LLM.Provider {
	case "claude", "gemini", "openai":
	default:
		return models.NewConfigurationError("llm.provider", "unknown provider %q", c.LLM.Provider)
	}
	if c.LLM.Model == "" {
		return models.NewConfigurationError("llm.model", "required")
	}
	if p := ModelProvider(c.LLM.Model); p != "" && p != c.LLM.Provider {
		return models.NewConfigurationError("llm.model", "model %q belongs to %s, not provider %s", c.LLM.Model, p, c.LLM.Provider)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return models.NewConfigurationError("llm.temperature", "must be in [0, 2], got %v", c.LLM.Temperature)
	}
	if c.LLM.MaxTokens <= 0 {
		return models.NewConfigurationError("llm.max_tokens", "must be positive, got %d", c.LLM.MaxTokens)
	}

	switch c.Cache.Backend {
	case "memory", "redis", "badger", "layered":
	default:
		return models.NewConfigurationError("cache.backend", "unknown backend %q", c.Cache.Backend)
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return models.NewConfigurationError("kafka.brokers", "required when kafka is enabled")
	}
	return nil
}

// WeightOf returns the configured weight of role, defaulting to 1.0.
func (a AnalysisConfig) WeightOf(role string) float64 {
	if w, ok := a.RoleWeights[role]; ok {
		return w
	}
	return 1.0
}

// ParseTieBreakOrder checks that order is a permutation of BUY, SELL and HOLD.
func ParseTieBreakOrder(order []string) ([]models.Stance, error) {
	if len(order) != 3 {
		return nil, models.NewConfigurationError("analysis.tie_break_order", "must list BUY, SELL and HOLD exactly once")
	}
	seen := make(map[models.Stance]bool, 3)
	out := make([]models.Stance, 0, 3)
	for _, s := range order {
		st, ok := models.ParseStance(s)
		if !ok || seen[st] {
			return nil, models.NewConfigurationError("analysis.tie_break_order", "must list BUY, SELL and HOLD exactly once, got %v", order)
		}
		seen[st] = true
		out = append(out, st)
	}
	return out, nil
}

// ParseTierOrder converts and checks the data source order.
func ParseTierOrder(order []string) ([]models.SourceTier, error) {
	if len(order) == 0 {
		return nil, models.NewConfigurationError("providers.data_source_order", "at least one tier is required")
	}
	seen := make(map[models.SourceTier]bool, len(order))
	out := make([]models.SourceTier, 0, len(order))
	for _, s := range order {
		t := models.SourceTier(strings.ToUpper(strings.TrimSpace(s)))
		if !t.Valid() || seen[t] {
			return nil, models.NewConfigurationError("providers.data_source_order", "invalid or repeated tier %q", s)
		}
		seen[t] = true
		out = append(out, t)
	}
	return out, nil
}
