package config

import (
	"fmt"
	"time"
)

// Environment variable names understood by parseEnv.
const (
	EnvGRPCAddr        = "VAULT_GRPC_ADDR"
	EnvDatabaseDriver  = "VAULT_DATABASE_DRIVER"
	EnvDatabaseDSN     = "VAULT_DATABASE_DSN"
	EnvEnvironment     = "VAULT_ENV"
	EnvVaultKey        = "VAULT_KEY"
	EnvJWTSecret       = "VAULT_JWT_SECRET"
	EnvAccessTokenTTL  = "VAULT_ACCESS_TOKEN_TTL"
	EnvRefreshTokenTTL = "VAULT_REFRESH_TOKEN_TTL"
	EnvLogLevel        = "VAULT_LOG_LEVEL"
	EnvS3User          = "VAULT_S3_USER"
	EnvS3Password      = "VAULT_S3_PASSWORD"
	EnvS3Bucket        = "VAULT_S3_BUCKET"
	EnvS3Region        = "VAULT_S3_REGION"
	EnvS3Endpoint      = "VAULT_S3_ENDPOINT"
)

// parseEnv overlays values from environment variables. The vault key is
// expected here in deployments so it never shows up in process listings.
// Durations use time.ParseDuration syntax; a malformed one panics.
func parseEnv(config *Config, lookup func(string) (string, bool)) {
	strs := map[string]*string{
		EnvGRPCAddr:       &config.EndpointAddrGRPC,
		EnvDatabaseDriver: &config.DatabaseDriver,
		EnvDatabaseDSN:    &config.DatabaseDSN,
		EnvEnvironment:    &config.Environment,
		EnvVaultKey:       &config.VaultKey,
		EnvJWTSecret:      &config.SecretKey,
		EnvLogLevel:       &config.LogLevel,
		EnvS3User:         &config.S3RootUser,
		EnvS3Password:     &config.S3RootPassword,
		EnvS3Bucket:       &config.S3Bucket,
		EnvS3Region:       &config.S3Region,
		EnvS3Endpoint:     &config.S3BaseEndpoint,
	}
	for name, dst := range strs {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		EnvAccessTokenTTL:  &config.AccessTokenValidityDuration,
		EnvRefreshTokenTTL: &config.RefreshTokenValidityDuration,
	}
	for name, dst := range durations {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(fmt.Errorf("%s: %w", name, err))
		}
		*dst = d
	}
}
