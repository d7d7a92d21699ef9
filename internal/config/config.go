package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is the runtime configuration of the API server.
type Config struct {
	Addr              string        `validate:"required"`
	UpstreamBaseURL   string        `validate:"required,url"`
	UpstreamUserAgent string        `validate:"required"`
	GraphQLPath       string        `validate:"required,startswith=/"`
	EnablePlayground  bool
	EnableHSTS        bool
	CORSOrigins       []string      `validate:"dive,required"`
	MaxBodyBytes      int64         `validate:"gt=0"`
	LogLevel          string        `validate:"oneof=debug info warn error"`
	LogFormat         string        `validate:"oneof=text json"`
	OTLPEndpoint      string        `validate:"omitempty,url"`
	ShutdownTimeout   time.Duration `validate:"gt=0"`
}

var validate = validator.New()

// LoadEnvFiles reads .env and .env.local. Variables already present in the
// environment are never overridden.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary variable source.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	var errs []string

	playground, err := strconv.ParseBool(get("ENABLE_PLAYGROUND", "true"))
	if err != nil {
		errs = append(errs, "ENABLE_PLAYGROUND must be a boolean")
	}
	hsts, err := strconv.ParseBool(get("ENABLE_HSTS", "false"))
	if err != nil {
		errs = append(errs, "ENABLE_HSTS must be a boolean")
	}
	maxBody, err := strconv.ParseInt(get("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil {
		errs = append(errs, "MAX_BODY_BYTES must be an integer")
	}
	shutdown, err := time.ParseDuration(get("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		errs = append(errs, "SHUTDOWN_TIMEOUT must be a duration")
	}

	cfg := Config{
		Addr:              get("APP_ADDR", ":8080"),
		UpstreamBaseURL:   strings.TrimRight(get("GHIBLI_API_BASE_URL", "https://ghibliapi.vercel.app"), "/"),
		UpstreamUserAgent: get("GHIBLI_API_USER_AGENT", "ghibligraph/1.0"),
		GraphQLPath:       get("GRAPHQL_PATH", "/graphql"),
		EnablePlayground:  playground,
		EnableHSTS:        hsts,
		CORSOrigins:       splitList(get("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		MaxBodyBytes:      maxBody,
		LogLevel:          strings.ToLower(get("LOG_LEVEL", "info")),
		LogFormat:         strings.ToLower(get("LOG_FORMAT", "text")),
		OTLPEndpoint:      get("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ShutdownTimeout:   shutdown,
	}

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %s", describe(err))
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
