package config

import "time"

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Store     StoreConfig     `koanf:"store"`
	Mongo     MongoConfig     `koanf:"mongo"`
	Redis     RedisConfig     `koanf:"redis"`
	Auth      AuthConfig      `koanf:"auth"`
	OpenAI    OpenAIConfig    `koanf:"openai"`
	Log       LogConfig       `koanf:"log"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

type ServerConfig struct {
	Port            int           `koanf:"port"`
	GinMode         string        `koanf:"gin_mode"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver   string `koanf:"driver"`
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"`
	// Path is the SQLite file used when Driver is "sqlite".
	Path     string `koanf:"path"`
	LogLevel string `koanf:"log_level"`
}

// StoreConfig selects where project aggregates live: "gorm" or "mongo".
type StoreConfig struct {
	Backend string `koanf:"backend"`
}

type MongoConfig struct {
	URI      string `koanf:"uri"`
	Database string `koanf:"database"`
}

// RedisConfig configures the token revocation list. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

type AuthConfig struct {
	JWTSecret string        `koanf:"jwt_secret"`
	TokenTTL  time.Duration `koanf:"token_ttl"`
}

type OpenAIConfig struct {
	APIKey string `koanf:"api_key"`
	Model  string `koanf:"model"`
}

type LogConfig struct {
	Level       string `koanf:"level"`
	Development bool   `koanf:"development"`
}

type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}

// DefaultJWTSecret is only acceptable outside release mode.
const DefaultJWTSecret = "default-secret-key-change-me"

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			GinMode:         "debug",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:   "mysql",
			Host:     "localhost",
			Port:     "3306",
			User:     "taskuser",
			Password: "taskpassword",
			Name:     "task_management",
			Path:     "taskboard.db",
			LogLevel: "warn",
		},
		Store: StoreConfig{Backend: "gorm"},
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "taskboard",
		},
		Auth: AuthConfig{
			JWTSecret: DefaultJWTSecret,
			TokenTTL:  24 * time.Hour,
		},
		OpenAI: OpenAIConfig{Model: "gpt-4o"},
		Log:    LogConfig{Level: "info"},
		Telemetry: TelemetryConfig{
			Exporter:    "stdout",
			ServiceName: "taskboard-api",
		},
	}
}
