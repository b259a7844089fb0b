package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	App struct {
		Name        string
		Version     string
		Environment string
		Debug       bool
	}
	Server struct {
		Addr           string
		AllowedOrigins string
	}
	Database struct {
		Path string
	}
	Auth struct {
		JWTSecret       string
		Algorithm       string
		TokenTTLMinutes int
		BcryptCost      int
	}
	Log struct {
		Level  string
		Format string
	}
	Storage struct {
		Bucket         string
		KeyPrefix      string
		Region         string
		Endpoint       string
		PresignMinutes int
		// static keys for S3 compatible stores; empty falls back to the default chain
		AccessKeyID     string
		SecretAccessKey string
	}
	AWS struct {
		Profile string
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	return LoadFrom(".")
}

// LoadFrom is Load with an explicit directory for .env and config files.
func LoadFrom(dir string) (Config, error) {
	// existing environment wins over .env entries
	_ = godotenv.Load(strings.TrimSuffix(dir, "/") + "/.env")

	v := viper.New()
	v.SetEnvPrefix("STOCKAPI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.name", "Stock API")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "production")
	v.SetDefault("app.debug", false)
	v.SetDefault("server.addr", "0.0.0.0:8000")
	v.SetDefault("server.allowedorigins", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("database.path", "data/stock_api.db")
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.algorithm", "HS256")
	v.SetDefault("auth.tokenttlminutes", 30)
	v.SetDefault("auth.bcryptcost", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "stock-exports")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.presignminutes", 15)
	v.SetDefault("storage.accesskeyid", "")
	v.SetDefault("storage.secretaccesskey", "")
	v.SetDefault("aws.profile", "")

	v.SetConfigName("config")
	v.AddConfigPath(dir)
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("auth jwt secret is required")
	}
	if _, ok := jwt.GetSigningMethod(strings.ToUpper(c.Auth.Algorithm)).(*jwt.SigningMethodHMAC); !ok {
		return fmt.Errorf("auth algorithm %q is not an HMAC algorithm", c.Auth.Algorithm)
	}
	if c.Auth.TokenTTLMinutes <= 0 {
		return errors.New("auth token ttl must be positive")
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database path is required")
	}
	if (c.Storage.AccessKeyID == "") != (c.Storage.SecretAccessKey == "") {
		return errors.New("storage access key id and secret access key must be set together")
	}
	return nil
}

// TokenTTL returns the configured access token lifetime.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLMinutes) * time.Minute
}

// PresignTTL returns how long export download links stay valid.
func (c Config) PresignTTL() time.Duration {
	if c.Storage.PresignMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(c.Storage.PresignMinutes) * time.Minute
}

// AllowedOrigins splits the comma separated CORS origin list.
func (c Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.Server.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
