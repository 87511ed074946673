package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration.
type Config struct {
	Port     string
	LogLevel string
	MockData bool

	InfluxDBURL         string
	InfluxDBToken       string
	InfluxDBOrg         string
	InfluxDBBucket      string
	InfluxDBMeasurement string
	Lookback            time.Duration

	// CreateBucket creates InfluxDBBucket at start-up when it is missing.
	CreateBucket bool

	AllowedOrigins []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	AssignmentTTL time.Duration

	GrafanaURL    string
	GrafanaAPIKey string

	SessionDBDriver string
	SessionDBDSN    string

	MQTTBroker   string
	MQTTTopic    string
	MQTTClientID string
}

// LoadConfig loads the configuration from environment variables.
func LoadConfig() (Config, error) {
	//load env variables
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, relying on system environment variables")
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from the given lookup function and validates it.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := Config{
		Port:                get("PORT", "8000"),
		LogLevel:            get("LOG_LEVEL", "info"),
		InfluxDBURL:         get("INFLUXDB_URL", ""),
		InfluxDBToken:       get("INFLUXDB_TOKEN", ""),
		InfluxDBOrg:         get("INFLUXDB_ORG", ""),
		InfluxDBBucket:      get("INFLUXDB_BUCKET", ""),
		InfluxDBMeasurement: get("INFLUXDB_MEASUREMENT", "keiser_m3"),
		AllowedOrigins:      splitList(get("ALLOWED_ORIGINS", "*")),
		RedisAddr:           get("REDIS_ADDR", ""),
		RedisPassword:       get("REDIS_PASSWORD", ""),
		GrafanaURL:          strings.TrimRight(get("GRAFANA_URL", ""), "/"),
		GrafanaAPIKey:       get("GRAFANA_API_KEY", ""),
		SessionDBDriver:     get("SESSION_DB_DRIVER", "sqlite3"),
		SessionDBDSN:        get("SESSION_DB_DSN", "file:keiser_sessions.db"),
		MQTTBroker:          get("MQTT_BROKER", ""),
		MQTTTopic:           get("MQTT_TOPIC", "cycleroom/telemetry/+"),
		MQTTClientID:        get("MQTT_CLIENT_ID", "cycleroom-server"),
	}

	var err error
	if cfg.MockData, err = strconv.ParseBool(get("MOCK_DATA", "false")); err != nil {
		return Config{}, fmt.Errorf("invalid MOCK_DATA: %w", err)
	}
	if cfg.CreateBucket, err = strconv.ParseBool(get("INFLUXDB_CREATE_BUCKET", "false")); err != nil {
		return Config{}, fmt.Errorf("invalid INFLUXDB_CREATE_BUCKET: %w", err)
	}
	if cfg.Lookback, err = time.ParseDuration(get("LOOKBACK", "5m")); err != nil {
		return Config{}, fmt.Errorf("invalid LOOKBACK: %w", err)
	}
	if cfg.Lookback <= 0 {
		return Config{}, fmt.Errorf("LOOKBACK must be positive")
	}
	if cfg.AssignmentTTL, err = time.ParseDuration(get("ASSIGNMENT_TTL", "12h")); err != nil {
		return Config{}, fmt.Errorf("invalid ASSIGNMENT_TTL: %w", err)
	}
	if cfg.RedisDB, err = strconv.Atoi(get("REDIS_DB", "0")); err != nil {
		return Config{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	switch cfg.SessionDBDriver {
	case "sqlite3", "postgres":
	default:
		return Config{}, fmt.Errorf("unsupported SESSION_DB_DRIVER %q (want sqlite3 or postgres)", cfg.SessionDBDriver)
	}

	if !cfg.MockData && !cfg.InfluxConfigured() {
		return Config{}, fmt.Errorf("InfluxDB configuration is incomplete. Please set INFLUXDB_URL, INFLUXDB_TOKEN, INFLUXDB_ORG and INFLUXDB_BUCKET environment variables, or MOCK_DATA=true")
	}
	return cfg, nil
}

// InfluxConfigured reports whether a store connection can be attempted.
func (c Config) InfluxConfigured() bool {
	return c.InfluxDBURL != "" && c.InfluxDBToken != "" && c.InfluxDBOrg != "" && c.InfluxDBBucket != ""
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
