package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr        string
		CORSOrigins []string
	}
	Database struct {
		Driver string
		Path   string
		URL    string
	}
	Auth struct {
		JWTSecret       string
		Issuer          string
		TokenTTLMinutes int
		RevokeInactive  bool
	}
	Storage struct {
		Bucket        string
		KeyPrefix     string
		Region        string
		Endpoint      string
		URLTTLMinutes int
	}
	AWS struct {
		Profile string
	}
	Log struct {
		Level string
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	// real environment wins over .env
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("server.corsorigins", []string{"*"})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/app.db")
	v.SetDefault("database.url", "")
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.issuer", "backend-template")
	v.SetDefault("auth.tokenttlminutes", 1440)
	v.SetDefault("auth.revokeinactive", false)
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "catalog")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.urlttlminutes", 15)
	v.SetDefault("aws.profile", "")
	v.SetDefault("log.level", "info")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Server.CORSOrigins = splitList(cfg.Server.CORSOrigins)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings the server cannot start without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("auth jwt secret is required (APP_AUTH_JWTSECRET)")
	}
	if c.Auth.TokenTTLMinutes <= 0 {
		return fmt.Errorf("auth token ttl must be positive, got %d minutes", c.Auth.TokenTTLMinutes)
	}
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("database path is required for sqlite")
		}
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("database url is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	return nil
}

// splitList flattens comma separated entries, as env vars arrive as one string.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
