package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	godotenv "github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	KeyApiURL         = "api_url"
	KeyServerPort     = "server_port"
	KeyLogLevel       = "log_level"
	KeyRequestTimeout = "request_timeout"
	KeyLinkToResult   = "link_to_result"
	KeyRabbitMqURL    = "rabbitmq_url"
	KeyStatusExchange = "status_exchange"
	KeyAwsRegion      = "aws_region"

	DefaultApiURL         = "https://eo3qbo52a7.execute-api.us-east-2.amazonaws.com/dev"
	DefaultServerPort     = "8080"
	DefaultLogLevel       = "info"
	DefaultStatusExchange = "upload_pipeline"
)

type Config struct {
	ApiURL         string
	ServerPort     string
	LogLevel       string
	RequestTimeout time.Duration
	LinkToResult   bool
	RabbitMqURL    string
	StatusExchange string
	AwsRegion      string
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyApiURL, DefaultApiURL)
	v.SetDefault(KeyServerPort, DefaultServerPort)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyRequestTimeout, time.Duration(0))
	v.SetDefault(KeyLinkToResult, false)
	v.SetDefault(KeyRabbitMqURL, "")
	v.SetDefault(KeyStatusExchange, DefaultStatusExchange)
	v.SetDefault(KeyAwsRegion, "")
}

// loadEnvFiles picks .env.<APP_ENV>, then .env, then leaves the process environment alone.
func loadEnvFiles() {
	switch os.Getenv("APP_ENV") {
	case "dev", "":
		if err := godotenv.Overload(".env.dev"); err == nil {
			log.Debug().Msg("Loaded .env.dev")
		} else if err := godotenv.Overload(".env"); err == nil {
			log.Debug().Msg("Loaded .env")
		} else {
			log.Debug().Msg("No .env.dev or .env found, using system environment variables")
		}
	default:
		fname := ".env." + os.Getenv("APP_ENV")
		if err := godotenv.Overload(fname); err == nil {
			log.Debug().Msgf("Loaded %s", fname)
		} else if err := godotenv.Overload(".env"); err == nil {
			log.Debug().Msg("Loaded .env")
		} else {
			log.Debug().Msgf("No %s or .env found, using system environment variables", fname)
		}
	}
}

// InitializeEnvs loads env files and resolves the configuration from v.
// Flags already bound to v take precedence over the environment.
func InitializeEnvs(v *viper.Viper) (*Config, error) {
	loadEnvFiles()

	SetDefaults(v)
	v.AutomaticEnv()

	config := &Config{
		ApiURL:         v.GetString(KeyApiURL),
		ServerPort:     v.GetString(KeyServerPort),
		LogLevel:       v.GetString(KeyLogLevel),
		RequestTimeout: v.GetDuration(KeyRequestTimeout),
		LinkToResult:   v.GetBool(KeyLinkToResult),
		RabbitMqURL:    v.GetString(KeyRabbitMqURL),
		StatusExchange: v.GetString(KeyStatusExchange),
		AwsRegion:      v.GetString(KeyAwsRegion),
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	if c.ApiURL == "" {
		return fmt.Errorf("API_URL is missing")
	}
	u, err := url.Parse(c.ApiURL)
	if err != nil {
		return fmt.Errorf("API_URL is not a valid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API_URL must be http or https, got %q", c.ApiURL)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("REQUEST_TIMEOUT cannot be negative")
	}
	if c.RabbitMqURL != "" && c.StatusExchange == "" {
		return fmt.Errorf("STATUS_EXCHANGE is required when RABBITMQ_URL is set")
	}
	return nil
}
