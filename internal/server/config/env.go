package config

// Environment variables understood by the server. The MINIO_* names match
// the deployment used for the object store.
const (
	envHTTPAddr    = "HTTP_ADDR"
	envDatabaseDSN = "DATABASE_URL"
	envSecretKey   = "JWT_SECRET"
	envS3Endpoint  = "MINIO_ENDPOINT"
	envS3AccessKey = "MINIO_ACCESS_KEY"
	envS3SecretKey = "MINIO_SECRET_KEY"
	envS3Bucket    = "MINIO_BUCKET_NAME"
	envS3Region    = "MINIO_REGION"
)

func parseEnv(config *Config, getenv func(string) string) {
	if getenv == nil {
		return
	}
	setString(&config.HTTPAddr, getenv(envHTTPAddr))
	setString(&config.DatabaseDSN, getenv(envDatabaseDSN))
	setString(&config.SecretKey, getenv(envSecretKey))
	setString(&config.S3BaseEndpoint, getenv(envS3Endpoint))
	setString(&config.S3RootUser, getenv(envS3AccessKey))
	setString(&config.S3RootPassword, getenv(envS3SecretKey))
	setString(&config.S3Bucket, getenv(envS3Bucket))
	setString(&config.S3Region, getenv(envS3Region))
}
