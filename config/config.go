package config

import (
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Auth     AuthConfig     `yaml:"auth"`
	Logger   LoggerConfig   `yaml:"logger"`
}

type ServerConfig struct {
	Port         string `yaml:"port"`
	Host         string `yaml:"host"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
}

type DatabaseConfig struct {
	Host         string `yaml:"host"`
	Port         string `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	DBName       string `yaml:"dbname"`
	SSLMode      string `yaml:"sslmode"`
	MaxIdleConns int    `yaml:"maxIdleConns"`
	MaxOpenConns int    `yaml:"maxOpenConns"`
	MaxLifetime  int    `yaml:"maxLifetime"` // in minutes
}

// RedisConfig configures the token store backend. When Addr is empty the
// server falls back to the in-memory store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// CatalogConfig points at the external movie-catalog API the server proxies.
type CatalogConfig struct {
	BaseURL string `yaml:"baseUrl"`
	APIKey  string `yaml:"apiKey"`
}

type AuthConfig struct {
	JWTSecret          string       `yaml:"jwtSecret"`
	AccessTokenMinutes int          `yaml:"accessTokenMinutes"`
	RefreshTokenDays   int          `yaml:"refreshTokenDays"`
	SweepMinutes       int          `yaml:"sweepMinutes"`
	Google             OAuth2Config `yaml:"google"`
	Github             OAuth2Config `yaml:"github"`
	FrontendURL        string       `env:"AUTH_FRONTEND_URL"`
	SessionSecret      string       `yaml:"sessionSecret"`
}

// AccessTokenTTL returns the access-token lifetime, defaulting to 15 minutes.
func (a *AuthConfig) AccessTokenTTL() time.Duration {
	if a.AccessTokenMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(a.AccessTokenMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh-token lifetime, defaulting to 7 days.
func (a *AuthConfig) RefreshTokenTTL() time.Duration {
	if a.RefreshTokenDays <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(a.RefreshTokenDays) * 24 * time.Hour
}

type OAuth2Config struct {
	ClientID     string `yaml:"clientId"`
	ClientSecret string `yaml:"clientSecret"`
	RedirectURL  string `yaml:"redirectUrl"`
}

type LoggerConfig struct {
	Level      string `yaml:"level"`
	OutputPath string `yaml:"outputPath"`
}

var (
	config *Config
	once   sync.Once
)

// Load reads the configuration file and returns a Config struct
func Load(configPath string) (*Config, error) {
	once.Do(func() {
		config = &Config{}

		// Read the config file
		data, err := os.ReadFile(configPath)
		if err != nil {
			panic(err)
		}

		// Unmarshal the YAML into the config struct
		err = yaml.Unmarshal(data, config)
		if err != nil {
			panic(err)
		}

		// Override with environment variables if they exist
		if envPort := os.Getenv("SERVER_PORT"); envPort != "" {
			config.Server.Port = envPort
		}
		if dbHost := os.Getenv("DB_HOST"); dbHost != "" {
			config.Database.Host = dbHost
		}
		if dbPort := os.Getenv("DB_PORT"); dbPort != "" {
			config.Database.Port = dbPort
		}
		if dbUser := os.Getenv("DB_USER"); dbUser != "" {
			config.Database.User = dbUser
		}
		if dbPass := os.Getenv("DB_PASSWORD"); dbPass != "" {
			config.Database.Password = dbPass
		}
		if dbName := os.Getenv("DB_NAME"); dbName != "" {
			config.Database.DBName = dbName
		}
		if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
			config.Redis.Addr = redisAddr
		}
		if redisPass := os.Getenv("REDIS_PASSWORD"); redisPass != "" {
			config.Redis.Password = redisPass
		}
		if catalogURL := os.Getenv("CATALOG_BASE_URL"); catalogURL != "" {
			config.Catalog.BaseURL = catalogURL
		}
		if catalogKey := os.Getenv("CATALOG_API_KEY"); catalogKey != "" {
			config.Catalog.APIKey = catalogKey
		}
		if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
			config.Auth.JWTSecret = jwtSecret
		}
		if frontendURL := os.Getenv("AUTH_FRONTEND_URL"); frontendURL != "" {
			config.Auth.FrontendURL = frontendURL
		}
	})

	return config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	if config == nil {
		panic("Config not loaded")
	}
	return config
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return "postgresql://" + c.User + ":" + c.Password + "@" + c.Host + ":" + c.Port + "/" + c.DBName + "?sslmode=" + c.SSLMode
}
