package config

import (
	"log"
	"net"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Source names accepted in LOOKUP_CHAIN.
const (
	SourceCache    = "cache"
	SourceRedis    = "redis"
	SourceMemory   = "memory"
	SourcePostgres = "postgres"
	SourceAPI      = "api"
)

type Tables struct {
	Schema string
	User   string
}

type Postgres struct {
	Host     string
	Port     string
	DB       string
	User     string
	Password string
	SSLMode  string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type UserAPI struct {
	BaseURL string
	Timeout time.Duration
}

type Kafka struct {
	Brokers     []string
	Topic       string
	PricedTopic string
	Group       string
	Workers     int
}

type Breaker struct {
	Threshold   int
	OpenTimeout time.Duration
	MaxHalfOpen int
}

type Retry struct {
	Attempts     int
	Base         time.Duration
	Max          time.Duration
	JitterFactor float64
}

type Config struct {
	LogLevel string
	HTTPAddr string
	CacheCap int

	LookupChain  []string
	PricingRules []string

	Pg      Postgres
	Tables  Tables
	Redis   Redis
	UserAPI UserAPI
	Kafka   Kafka
	Breaker Breaker
	Retry   Retry
}

// Load fatals on error; the binaries have nothing to do without a config.
func Load() Config {
	cfg, err := load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	return cfg
}

func load() (Config, error) {
	_ = godotenv.Load("env/.env")

	cfg := Config{
		LogLevel: envDefault("LOG_LEVEL", "info"),
		HTTPAddr: envDefault("HTTP_ADDR", ":8082"),
		CacheCap: envInt("CACHE_CAP", 1000),

		LookupChain:  splitCSV(envDefault("LOOKUP_CHAIN", "cache,memory,api")),
		PricingRules: splitCSV(os.Getenv("PRICING_RULES")),

		Pg: Postgres{
			Host:     strings.TrimSpace(os.Getenv("PG_HOST")),
			Port:     strings.TrimSpace(envDefault("PG_PORT", "5432")),
			DB:       strings.TrimSpace(os.Getenv("PG_DB")),
			User:     strings.TrimSpace(os.Getenv("PG_USER")),
			Password: strings.TrimSpace(os.Getenv("PG_PASSWORD")),
			SSLMode:  strings.TrimSpace(envDefault("PG_SSLMODE", "disable")),
		},

		Tables: Tables{
			Schema: envDefault("DB_SCHEMA", "public"),
			User:   envDefault("TBL_USER", "users"),
		},

		Redis: Redis{
			Addr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envInt("REDIS_DB", 0),
			TTL:      envDurationMS("REDIS_TTL", 10*time.Minute),
		},

		UserAPI: UserAPI{
			BaseURL: strings.TrimRight(strings.TrimSpace(os.Getenv("USER_API_URL")), "/"),
			Timeout: envDurationMS("USER_API_TIMEOUT", 2*time.Second),
		},

		Kafka: Kafka{
			Brokers:     splitCSV(strings.TrimSpace(os.Getenv("KAFKA_BROKERS"))),
			Topic:       envDefault("KAFKA_TOPIC", "orders"),
			PricedTopic: envDefault("KAFKA_PRICED_TOPIC", "orders.priced"),
			Group:       envDefault("KAFKA_GROUP", "pricer"),
			Workers:     envInt("KAFKA_WORKERS", 4),
		},

		Breaker: Breaker{
			Threshold:   envInt("BREAKER_THRESHOLD", 5),
			OpenTimeout: envDurationMS("BREAKER_OPENTIMEOUT", 10*time.Second),
			MaxHalfOpen: envInt("BREAKER_MAXHALFOPEN", 3),
		},

		Retry: Retry{
			Attempts:     envInt("RETRY_ATTEMPTS", 5),
			Base:         envDurationMS("RETRY_BASE", 100*time.Millisecond),
			Max:          envDurationMS("RETRY_MAX", 5*time.Second),
			JitterFactor: envFloat64("RETRY_JITTERFACTOR", 0.3),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	return cfg, nil
}

func (c Config) validate() error {
	if len(c.LookupChain) == 0 {
		return &missingEnvError{Keys: []string{"LOOKUP_CHAIN"}}
	}

	req := map[string]string{}
	for _, s := range c.LookupChain {
		switch s {
		case SourceCache, SourceMemory:
		case SourceAPI:
		case SourceRedis:
			req["REDIS_ADDR"] = c.Redis.Addr
		case SourcePostgres:
			req["PG_HOST"] = c.Pg.Host
			req["PG_DB"] = c.Pg.DB
			req["PG_USER"] = c.Pg.User
			req["PG_PASSWORD"] = c.Pg.Password
		default:
			return &invalidEnvError{Key: "LOOKUP_CHAIN", Value: s}
		}
	}
	return requireAll(req)
}

// ValidateKafka is called by the binaries that talk to kafka.
func (c Config) ValidateKafka() error {
	return requireAll(map[string]string{
		"KAFKA_BROKERS":      strings.Join(c.Kafka.Brokers, ","),
		"KAFKA_TOPIC":        c.Kafka.Topic,
		"KAFKA_PRICED_TOPIC": c.Kafka.PricedTopic,
		"KAFKA_GROUP":        c.Kafka.Group,
	})
}

func (c *Config) normalize() {
	if c.CacheCap <= 0 {
		log.Printf("CACHE_CAP is %d, adjusting to 1", c.CacheCap)
		c.CacheCap = 1
	}
	if c.Kafka.Workers <= 0 {
		log.Printf("KAFKA_WORKERS is %d, adjusting to 1", c.Kafka.Workers)
		c.Kafka.Workers = 1
	}
	if c.Retry.Attempts < 1 {
		log.Printf("RETRY_ATTEMPTS is %d, adjusting to 1", c.Retry.Attempts)
		c.Retry.Attempts = 1
	}
	if c.Retry.Base <= 0 {
		log.Printf("RETRY_BASE is %v, adjusting to 100ms", c.Retry.Base)
		c.Retry.Base = 100 * time.Millisecond
	}
	if c.Retry.Max < c.Retry.Base {
		log.Printf("RETRY_MAX (%v) < RETRY_BASE (%v), adjusting max to base", c.Retry.Max, c.Retry.Base)
		c.Retry.Max = c.Retry.Base
	}
	if c.Breaker.Threshold < 1 {
		c.Breaker.Threshold = 1
	}
	if c.Breaker.MaxHalfOpen < 1 {
		c.Breaker.MaxHalfOpen = 1
	}
}

func requireAll(req map[string]string) error {
	var missing []string
	for k, v := range req {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &missingEnvError{Keys: missing}
	}
	return nil
}

type missingEnvError struct{ Keys []string }

func (e *missingEnvError) Error() string {
	return "missing required envs: " + strings.Join(e.Keys, ", ")
}

type invalidEnvError struct{ Key, Value string }

func (e *invalidEnvError) Error() string {
	return "invalid " + e.Key + " entry: " + strconv.Quote(e.Value)
}

// DSN builds a proper Postgres URL, safely escaping user/pass and query.
func (c Config) DSN() string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Pg.User, c.Pg.Password),
		Host:   net.JoinHostPort(c.Pg.Host, c.Pg.Port),
		Path:   "/" + c.Pg.DB,
	}
	q := url.Values{}
	if c.Pg.SSLMode != "" {
		q.Set("sslmode", c.Pg.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func envDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d: %v", k, v, def, err)
		return def
	}
	return n
}

func envFloat64(k string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using default %.3f: %v", k, v, def, err)
		return def
	}
	return f
}

// envDurationMS accepts plain milliseconds ("1500") or Go durations ("1.5s").
func envDurationMS(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if strings.IndexFunc(v, func(r rune) bool { return r < '0' || r > '9' }) != -1 {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid %s=%q, using default %v: %v", k, v, def, err)
			return def
		}
		return d
	}
	ms, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %v: %v", k, v, def, err)
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
