package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type RESTconfig struct {
	PORT           string
	AllowedOrigins []string
}

type BilibiliConfig struct {
	BaseURL  string
	SESSDATA string
	Timeout  time.Duration

	// ImageHosts - hosts the image proxy may fetch from (subdomains included).
	ImageHosts []string
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig holds the whole application configuration.
type AppConfig struct {
	AppName         string
	Rest            RESTconfig
	Bilibili        BilibiliConfig
	ShutdownTimeout time.Duration
	FluentBit       FluentBitConfig
	StdoutLogger    StdoutLogConfig
}

// LoadConfig reads the configuration from the environment. A .env file (or the one at
// envPath) is loaded first when present; a missing file is not an error.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 && envPath[0] != "" {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("could not load .env file (path: %v): %w", envPath, err)
		}
		log.Printf("Info: no .env file found (path: %v), using environment variables only", envPath)
	}

	cfg := &AppConfig{
		AppName: getEnvAsString("APP_NAME", "bilibili-favorites-service"),
		Rest: RESTconfig{
			PORT:           getEnvAsString("PORT", "7632"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:7630"}),
		},
		Bilibili: BilibiliConfig{
			BaseURL:    getEnvAsString("BILIBILI_API_URL", "https://api.bilibili.com"),
			SESSDATA:   getEnvAsString("BILIBILI_SESSDATA", ""),
			Timeout:    time.Duration(getEnvAsInt("UPSTREAM_TIMEOUT_SECONDS", 30)) * time.Second,
			ImageHosts: getEnvAsList("IMAGE_PROXY_HOSTS", []string{"hdslb.com"}),
		},
		ShutdownTimeout: time.Duration(getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
	}

	if _, err := strconv.Atoi(cfg.Rest.PORT); err != nil {
		return nil, fmt.Errorf("PORT must be a number, got %q", cfg.Rest.PORT)
	}

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}

		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

// getEnvAsList reads a comma separated list, dropping empty items.
func getEnvAsList(key string, defaultValue []string) []string {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(valStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
