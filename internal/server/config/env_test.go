package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestParseEnv_Overlays(t *testing.T) {
	var c Config
	c.LoadDefaults()

	parseEnv(&c, lookupFrom(map[string]string{
		EnvVaultKey:       "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff",
		EnvEnvironment:    "development",
		EnvDatabaseDriver: "postgres",
		EnvDatabaseDSN:    "postgres://u:p@db/vault",
		EnvAccessTokenTTL: "90s",
		EnvS3Bucket:       "backups",
	}))

	assert.Equal(t, "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff", c.VaultKey)
	assert.Equal(t, "development", c.Environment)
	assert.Equal(t, "postgres", c.DatabaseDriver)
	assert.Equal(t, "postgres://u:p@db/vault", c.DatabaseDSN)
	assert.Equal(t, 90*time.Second, c.AccessTokenValidityDuration)
	assert.Equal(t, "backups", c.S3Bucket)
	assert.Equal(t, ":50051", c.EndpointAddrGRPC, "unset variables keep earlier values")
}

func TestParseEnv_BadDurationPanics(t *testing.T) {
	var c Config
	c.LoadDefaults()

	require.Panics(t, func() {
		parseEnv(&c, lookupFrom(map[string]string{EnvRefreshTokenTTL: "tomorrow"}))
	})
}
