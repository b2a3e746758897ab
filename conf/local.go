package conf

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/log"
)

const (
	defaultBindAddress            = ":8080"
	defaultMaxRequestBodySizeInMb = 1

	defaultUpstreamBaseUrl      = "https://api.openai.com/v1"
	defaultUpstreamModel        = "gpt-4o-mini"
	defaultUpstreamTemperature  = 0.7
	defaultUpstreamMaxTokens    = 500
	defaultUpstreamTimeoutInSec = 60

	defaultRateLimitMaxRequests = 100
	defaultRateLimitWindowInMs  = 3600000
)

type Local struct {
	BindAddress            string
	ApiKey                 string
	MaxRequestBodySizeInMb int64
	Upstream               Upstream
	RateLimit              RateLimit
	Logging                Logging
	Redis                  *Redis
}

type Upstream struct {
	ApiKey       string
	BaseUrl      string
	Model        string
	Temperature  float64
	MaxTokens    int
	TimeoutInSec int
}

func (u Upstream) Timeout() time.Duration {
	return time.Duration(u.TimeoutInSec) * time.Second
}

type RateLimit struct {
	MaxRequests int
	WindowInMs  int
}

func (r RateLimit) Window() time.Duration {
	return time.Duration(r.WindowInMs) * time.Millisecond
}

type Logging struct {
	Level            string
	RequestLogEnable bool
}

func (l Logging) LogLevel() log.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return log.DebugLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

type Redis struct {
	Address  string
	Username string
	Password string
}

func Load() (Local, error) {
	_ = godotenv.Load()

	maxBodySize, err := intFromEnv("MAX_REQUEST_BODY_SIZE_IN_MB", defaultMaxRequestBodySizeInMb)
	if err != nil {
		return Local{}, err
	}
	temperature, err := floatFromEnv("OPENAI_TEMPERATURE", defaultUpstreamTemperature)
	if err != nil {
		return Local{}, err
	}
	maxTokens, err := intFromEnv("OPENAI_MAX_TOKENS", defaultUpstreamMaxTokens)
	if err != nil {
		return Local{}, err
	}
	upstreamTimeout, err := intFromEnv("UPSTREAM_TIMEOUT_IN_SEC", defaultUpstreamTimeoutInSec)
	if err != nil {
		return Local{}, err
	}
	maxRequests, err := intFromEnv("RATE_LIMIT_MAX_REQUESTS", defaultRateLimitMaxRequests)
	if err != nil {
		return Local{}, err
	}
	windowInMs, err := intFromEnv("RATE_LIMIT_WINDOW_IN_MS", defaultRateLimitWindowInMs)
	if err != nil {
		return Local{}, err
	}

	cfg := Local{
		BindAddress:            stringFromEnv("BIND_ADDRESS", defaultBindAddress),
		ApiKey:                 os.Getenv("API_KEY"),
		MaxRequestBodySizeInMb: int64(maxBodySize),
		Upstream: Upstream{
			ApiKey:       os.Getenv("OPENAI_API_KEY"),
			BaseUrl:      stringFromEnv("OPENAI_BASE_URL", defaultUpstreamBaseUrl),
			Model:        stringFromEnv("OPENAI_MODEL", defaultUpstreamModel),
			Temperature:  temperature,
			MaxTokens:    maxTokens,
			TimeoutInSec: upstreamTimeout,
		},
		RateLimit: RateLimit{
			MaxRequests: maxRequests,
			WindowInMs:  windowInMs,
		},
		Logging: Logging{
			Level:            stringFromEnv("LOG_LEVEL", "info"),
			RequestLogEnable: os.Getenv("REQUEST_LOG_ENABLE") == "true",
		},
	}

	redisAddress := os.Getenv("REDIS_ADDRESS")
	if redisAddress != "" {
		cfg.Redis = &Redis{
			Address:  redisAddress,
			Username: os.Getenv("REDIS_USERNAME"),
			Password: os.Getenv("REDIS_PASSWORD"),
		}
	}

	err = cfg.Validate()
	if err != nil {
		return Local{}, errors.WithMessage(err, "invalid config")
	}

	return cfg, nil
}

func (l Local) Validate() error {
	if l.BindAddress == "" {
		return errors.New("bind address is required")
	}
	if l.MaxRequestBodySizeInMb < 1 {
		return errors.New("max request body size must be positive")
	}
	if l.Upstream.BaseUrl == "" || l.Upstream.Model == "" {
		return errors.New("upstream base url and model are required")
	}
	if l.Upstream.TimeoutInSec < 1 {
		return errors.New("upstream timeout must be positive")
	}
	if l.RateLimit.MaxRequests < 1 || l.RateLimit.WindowInMs < 1 {
		return errors.New("rate limit max requests and window must be positive")
	}
	return nil
}

func stringFromEnv(name string, defaultValue string) string {
	value := os.Getenv(name)
	if value == "" {
		return defaultValue
	}
	return value
}

func intFromEnv(name string, defaultValue int) (int, error) {
	value := os.Getenv(name)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.WithMessagef(err, "parse env %s", name)
	}
	return parsed, nil
}

func floatFromEnv(name string, defaultValue float64) (float64, error) {
	value := os.Getenv(name)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.WithMessagef(err, "parse env %s", name)
	}
	return parsed, nil
}
