package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Keycloak KeycloakConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=ticketing_system"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// KeycloakConfig carries both the application realm the directory users
// live in and the master-realm credentials used for admin API access.
type KeycloakConfig struct {
	Realm          string `env:"KEYCLOAK_REALM,           default=ticketing"`
	AuthServerURL  string `env:"KEYCLOAK_URL,             default=http://localhost:8081"`
	ClientID       string `env:"KEYCLOAK_CLIENT_ID,       default=ticketing-app"`
	ClientSecret   string `env:"KEYCLOAK_CLIENT_SECRET"`
	MasterRealm    string `env:"KEYCLOAK_MASTER_REALM,    default=master"`
	MasterClient   string `env:"KEYCLOAK_MASTER_CLIENT,   default=admin-cli"`
	MasterUser     string `env:"KEYCLOAK_MASTER_USER"`
	MasterPassword string `env:"KEYCLOAK_MASTER_PASSWORD"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
