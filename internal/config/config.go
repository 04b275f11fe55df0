package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServiceName string

	ServerPort int

	LogLevel string

	VisitSecret []byte
	VisitTTL    time.Duration

	KafkaBrokers []string
	EventsTopic  string

	SignInDelay time.Duration
	SignUpDelay time.Duration
	SubmitDelay time.Duration
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "storefront"),

		ServerPort: EnvIntDefault("SERVER_PORT", 8080),

		LogLevel: os.Getenv("LOG_LEVEL"),

		VisitSecret: []byte(os.Getenv("VISIT_SECRET")),
		VisitTTL:    time.Duration(EnvIntDefault("VISIT_TTL_MIN", 60)) * time.Minute,

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		EventsTopic:  EnvDefault("EVENTS_TOPIC", "storefront_events"),

		SignInDelay: millis("SIGNIN_DELAY_MS", 1000),
		SignUpDelay: millis("SIGNUP_DELAY_MS", 1500),
		SubmitDelay: millis("SUBMIT_DELAY_MS", 1000),
	}
}

var ErrMissingSecret = errors.New("VISIT_SECRET is required")

// Validate reports settings the server cannot start without.
func (c Config) Validate() error {
	if len(c.VisitSecret) == 0 {
		return ErrMissingSecret
	}
	return nil
}

func millis(key string, def int) time.Duration {
	n := EnvIntDefault(key, def)
	if n < 0 {
		n = 0
	}
	return time.Duration(n) * time.Millisecond
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
