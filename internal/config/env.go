package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	BackendBase string
	Port        string

	StoreDriver string // file | postgres | s3
	StorePath   string

	DatabaseURL string
	SslCertPath string

	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string
	BucketName   string
}

// LoadConfig loads the environment variables and returns the config.
// Driver-specific settings are validated by the store factory, not here;
// only the file driver is required to work out of the box.
func LoadConfig() *Config {

	_ = godotenv.Load()

	return &Config{
		BackendBase: strings.TrimRight(getEnv("BACKEND_BASE", "http://localhost:8000"), "/"),
		Port:        getEnv("PORT", "8080"),

		StoreDriver: getEnv("STORE_DRIVER", "file"),
		StorePath:   getEnv("STORE_PATH", "botforge_workspace.json"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		SslCertPath: getEnv("SSL_CERT_PATH", ""),

		AwsAccessKey: getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey: getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:    getEnv("AWS_REGION", "us-east-2"),
		BucketName:   getEnv("BUCKET_NAME", "botforge-workspaces"),
	}
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
