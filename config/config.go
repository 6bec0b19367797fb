// Package config loads relay settings from the environment, optionally
// seeded from a .env file, and validates them before any client is built.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	defaultRegion         = "us-east-1"
	defaultHTTPTimeout    = 30 * time.Second
	defaultCheckpointApp  = "data-relay"
	defaultCheckpointTbl  = "relay_checkpoints"
	defaultRedisURL       = "127.0.0.1:6379"
	defaultWeatherCities  = "New York,Los Angeles,Chicago,Houston,Phoenix,Accra"
	defaultWeatherSink    = "s3"
	defaultWeatherPrefix  = "weather-data"
	defaultFixtureArea    = "Europe"
	defaultLogLevel       = "info"
	defaultLogFormat      = "json"
	defaultCheckpointKind = "none"
)

// AWS holds the settings shared by every AWS client.
type AWS struct {
	Region          string `mapstructure:"region" validate:"required"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	EndpointURL     string `mapstructure:"endpoint_url" validate:"omitempty,url"`
}

// Log configures the zerolog logger.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// Checkpoint selects and configures the checkpoint backend.
type Checkpoint struct {
	Store    string `mapstructure:"store" validate:"oneof=none memory redis dynamodb postgres mysql sqlite"`
	App      string `mapstructure:"app" validate:"required"`
	Table    string `mapstructure:"table" validate:"required"`
	DSN      string `mapstructure:"dsn" validate:"required_if=Store postgres,required_if=Store mysql,required_if=Store sqlite"`
	RedisURL string `mapstructure:"redis_url"`
}

// Common is embedded in both pipeline configurations.
type Common struct {
	AWS         AWS           `mapstructure:"aws"`
	Log         Log           `mapstructure:"log"`
	Checkpoint  Checkpoint    `mapstructure:"checkpoint"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout" validate:"gt=0"`
}

// Weather configures the weather relay.
type Weather struct {
	Common `mapstructure:",squash"`

	APIKey     string   `mapstructure:"api_key" validate:"required"`
	BaseURL    string   `mapstructure:"base_url" validate:"omitempty,url"`
	Cities     []string `mapstructure:"-" validate:"min=1,dive,required"`
	Sink       string   `mapstructure:"sink" validate:"oneof=s3 kinesis"`
	Bucket     string   `mapstructure:"bucket" validate:"required_if=Sink s3"`
	StreamName string   `mapstructure:"stream_name" validate:"required_if=Sink kinesis"`
	KeyPrefix  string   `mapstructure:"key_prefix"`
}

// Fixture configures the fixture relay.
type Fixture struct {
	Common `mapstructure:",squash"`

	APIKey   string `mapstructure:"api_key" validate:"required"`
	BaseURL  string `mapstructure:"base_url" validate:"omitempty,url"`
	TopicARN string `mapstructure:"topic_arn" validate:"required"`
	Area     string `mapstructure:"area" validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadWeather reads the weather relay configuration. A non-empty envFile is
// loaded first; variables already set in the environment take precedence.
func LoadWeather(envFile string) (*Weather, error) {
	v, err := newViper(envFile)
	if err != nil {
		return nil, err
	}

	bind(v, map[string]string{
		"api_key":     "OPENWEATHER_API_KEY",
		"base_url":    "OPENWEATHER_BASE_URL",
		"cities":      "WEATHER_CITIES",
		"sink":        "WEATHER_SINK",
		"bucket":      "S3_BUCKET_NAME",
		"stream_name": "KINESIS_STREAM_NAME",
		"key_prefix":  "WEATHER_KEY_PREFIX",
	})
	v.SetDefault("cities", defaultWeatherCities)
	v.SetDefault("sink", defaultWeatherSink)
	v.SetDefault("key_prefix", defaultWeatherPrefix)

	cfg := &Weather{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decode weather config")
	}
	cfg.Cities = splitList(v.GetString("cities"))

	if err := validate.Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid weather config")
	}
	return cfg, nil
}

// LoadFixture reads the fixture relay configuration.
func LoadFixture(envFile string) (*Fixture, error) {
	v, err := newViper(envFile)
	if err != nil {
		return nil, err
	}

	bind(v, map[string]string{
		"api_key":   "SOCCER_API_KEY",
		"base_url":  "SPORTSDATA_BASE_URL",
		"topic_arn": "SNS_TOPIC_ARN",
		"area":      "AREA",
	})
	v.SetDefault("area", defaultFixtureArea)

	cfg := &Fixture{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decode fixture config")
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid fixture config")
	}
	return cfg, nil
}

func newViper(envFile string) (*viper.Viper, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err != nil {
			return nil, errors.Wrapf(err, "env file %s", envFile)
		}
		if err := godotenv.Load(envFile); err != nil {
			return nil, errors.Wrapf(err, "load env file %s", envFile)
		}
	}

	v := viper.New()
	bind(v, map[string]string{
		"aws.region":            "AWS_REGION",
		"aws.access_key_id":     "AWS_ACCESS_KEY_ID",
		"aws.secret_access_key": "AWS_SECRET_ACCESS_KEY",
		"aws.endpoint_url":      "AWS_ENDPOINT_URL",
		"log.level":             "LOG_LEVEL",
		"log.format":            "LOG_FORMAT",
		"checkpoint.store":      "CHECKPOINT_STORE",
		"checkpoint.app":        "CHECKPOINT_APP",
		"checkpoint.table":      "CHECKPOINT_TABLE",
		"checkpoint.dsn":        "CHECKPOINT_DSN",
		"checkpoint.redis_url":  "REDIS_URL",
		"http_timeout":          "HTTP_TIMEOUT",
	})
	v.SetDefault("aws.region", defaultRegion)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.format", defaultLogFormat)
	v.SetDefault("checkpoint.store", defaultCheckpointKind)
	v.SetDefault("checkpoint.app", defaultCheckpointApp)
	v.SetDefault("checkpoint.table", defaultCheckpointTbl)
	v.SetDefault("checkpoint.redis_url", defaultRedisURL)
	v.SetDefault("http_timeout", defaultHTTPTimeout)

	return v, nil
}

func bind(v *viper.Viper, keys map[string]string) {
	for key, env := range keys {
		// BindEnv only fails when no key is given
		_ = v.BindEnv(key, env)
	}
}

// splitList splits a comma separated value, dropping blank entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
