package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on inbound requests.
const AccessTokenHeaderName = "access_token"

// Supported deployment environments. The environment decides whether a
// missing vault key may fall back to the development key.
const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)
