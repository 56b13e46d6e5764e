package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Host               string   `mapstructure:"host"`
		Port               int      `mapstructure:"port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
	} `mapstructure:"server"`

	API struct {
		BaseURL        string `mapstructure:"base_url"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"` // 0 = transport default
	} `mapstructure:"api"`

	Storage struct {
		Driver     string `mapstructure:"driver"` // memory, file, redis, postgres
		Path       string `mapstructure:"path"`
		Passphrase string `mapstructure:"passphrase"`
		Namespace  string `mapstructure:"namespace"`
	} `mapstructure:"storage"`

	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`

	Session struct {
		ExpiryCheckIntervalSeconds int `mapstructure:"expiry_check_interval_seconds"`
	} `mapstructure:"session"`

	Printer struct {
		BridgeURL string `mapstructure:"bridge_url"`
		ChunkSize int    `mapstructure:"chunk_size"`
	} `mapstructure:"printer"`

	Report struct {
		Endpoint  string `mapstructure:"endpoint"`
		Region    string `mapstructure:"region"`
		Bucket    string `mapstructure:"bucket"`
		AccessKey string `mapstructure:"access_key"`
		SecretKey string `mapstructure:"secret_key"`
	} `mapstructure:"report"`
}

// APITimeout returns the configured request timeout (0 means none)
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// ExpiryCheckInterval returns how often the session expiry guard runs
func (c *Config) ExpiryCheckInterval() time.Duration {
	if c.Session.ExpiryCheckIntervalSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.Session.ExpiryCheckIntervalSeconds) * time.Second
}

func Load() *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "configs/config.yaml"
	}
	return LoadFrom(path)
}

// LoadFrom reads the given YAML file (optional) and applies defaults and
// environment overrides
func LoadFrom(path string) *Config {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)

	// Auto bind environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set sensible defaults (binary works without config file)
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.cors_allowed_origins", []string{"http://localhost:3000", "http://127.0.0.1:3000"})
	v.SetDefault("server.cors_allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("server.cors_allowed_headers", []string{"Content-Type", "Authorization"})
	v.SetDefault("api.base_url", "https://parkingservers.vercel.app/")
	v.SetDefault("api.timeout_seconds", 0)
	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.path", "data/session.db")
	v.SetDefault("storage.namespace", "parking")
	v.SetDefault("redis.host", "redis")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "parking_client")
	v.SetDefault("session.expiry_check_interval_seconds", 60)
	v.SetDefault("printer.chunk_size", 20)
	v.SetDefault("report.region", "auto")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("config unmarshal error: %v", err)
	}

	applyEnvOverrides(&cfg)

	if !strings.HasSuffix(cfg.API.BaseURL, "/") {
		cfg.API.BaseURL += "/"
	}

	return &cfg
}

func applyEnvOverrides(cfg *Config) {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.CorsAllowedOrigins = strings.Split(origins, ",")
	}

	if url := os.Getenv("API_BASE_URL"); url != "" {
		cfg.API.BaseURL = url
	}

	if driver := os.Getenv("STORAGE_DRIVER"); driver != "" {
		cfg.Storage.Driver = driver
	}
	if pass := os.Getenv("STORAGE_PASSPHRASE"); pass != "" {
		cfg.Storage.Passphrase = pass
	}

	// K8s sets REDIS_SERVICE_HOST and REDIS_SERVICE_PORT for services
	if host := os.Getenv("REDIS_SERVICE_HOST"); host != "" {
		cfg.Redis.Host = host
	}
	if port := os.Getenv("REDIS_SERVICE_PORT"); port != "" {
		cfg.Redis.Port = port
	}
	if pass := os.Getenv("REDIS_PASSWORD"); pass != "" {
		cfg.Redis.Password = pass
	}

	// Override database settings from DB_* environment variables
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Database.Port = n
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}

	if url := os.Getenv("PRINTER_BRIDGE_URL"); url != "" {
		cfg.Printer.BridgeURL = url
	}

	// Report archive bucket (Cloudflare R2 or any S3-compatible store)
	if endpoint := os.Getenv("R2_ENDPOINT"); endpoint != "" {
		cfg.Report.Endpoint = endpoint
	}
	if bucket := os.Getenv("R2_BUCKET"); bucket != "" {
		cfg.Report.Bucket = bucket
	}
	if key := os.Getenv("R2_ACCESS_KEY"); key != "" {
		cfg.Report.AccessKey = key
	}
	if secret := os.Getenv("R2_SECRET_KEY"); secret != "" {
		cfg.Report.SecretKey = secret
	}
}
