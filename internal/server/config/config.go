// Package config handles configuration for the vault server, including
// defaults, JSON overlay, environment variables and command-line flags.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/credvault/internal/common"
)

const defaultSecretKey = "secretKey"

// Config holds runtime settings for the vault server.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the gRPC endpoint.
//   - DatabaseDriver / DatabaseDSN: "postgres" (pgx) or "sqlite" and its DSN.
//   - Environment: "development" or "production"; decides the vault key policy.
//     Defaults to production, so development has to be chosen explicitly.
//   - VaultKey: AES-256 key for sealing secrets, 64 hex chars or 32 raw bytes.
//     Empty is only accepted in development, where a public fallback key is used.
//   - SecretKey: HMAC secret for signing JWTs (HS256).
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//   - LogLevel: debug, info, warn or error.
//   - S3*: S3-compatible object storage used for sealed backups.
type Config struct {
	EndpointAddrGRPC             string
	DatabaseDriver               string
	DatabaseDSN                  string
	Environment                  string
	VaultKey                     string
	SecretKey                    string
	AccessTokenValidityDuration  time.Duration
	RefreshTokenValidityDuration time.Duration
	LogLevel                     string
	S3RootUser                   string
	S3RootPassword               string
	S3Bucket                     string
	S3Region                     string
	S3BaseEndpoint               string
}

// LoadDefaults populates Config with defaults. The environment is production,
// which rejects the default JWT secret and an empty vault key until they are
// configured or development is selected.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDriver = common.DriverSQLite
	c.DatabaseDSN = "file:vault.db?_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)"
	c.Environment = common.EnvironmentProduction
	c.VaultKey = ""
	c.SecretKey = defaultSecretKey
	c.AccessTokenValidityDuration = 15 * time.Minute
	c.RefreshTokenValidityDuration = 24 * time.Hour
	c.LogLevel = "info"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "vault"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// Validate rejects settings the server cannot run with. Production refuses
// the development JWT secret; the vault key policy itself lives in
// cryptox.ResolveKey.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case common.DriverPostgres, common.DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver %q", c.DatabaseDriver)
	}
	switch c.Environment {
	case common.EnvironmentDevelopment:
	case common.EnvironmentProduction:
		if c.SecretKey == "" || c.SecretKey == defaultSecretKey {
			return fmt.Errorf("jwt secret must be configured in production")
		}
	default:
		return fmt.Errorf("unsupported environment %q", c.Environment)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("database dsn is empty")
	}
	if c.AccessTokenValidityDuration <= 0 {
		return fmt.Errorf("access token validity must be positive")
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, os.Args[1:])
	parseEnv(cfg, os.LookupEnv)
	parseFlags(cfg, os.Args[1:])
	return cfg
}
