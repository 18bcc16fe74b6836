package config

import "os"

type Config struct {
	Port            string
	Env             string
	JWTSecret       string
	PostgresConnStr string

	// Upload storage: "local" or "s3"
	StorageDriver string
	UploadDir     string
	UploadBaseURL string
	S3Bucket      string
	S3Region      string
	S3Key         string
	S3Secret      string
	S3Endpoint    string
	S3BaseURL     string
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		JWTSecret:       getEnv("JWT_SECRET", "supersecretjwtkey"),
		PostgresConnStr: getEnv("POSTGRES_CONN_STR", ""),
		StorageDriver:   getEnv("STORAGE_DRIVER", "local"),
		UploadDir:       getEnv("UPLOAD_DIR", "./uploads"),
		UploadBaseURL:   getEnv("UPLOAD_BASE_URL", "/uploads"),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Region:        getEnv("S3_REGION", "us-east-1"),
		S3Key:           getEnv("S3_KEY", ""),
		S3Secret:        getEnv("S3_SECRET", ""),
		S3Endpoint:      getEnv("S3_ENDPOINT", ""),
		S3BaseURL:       getEnv("S3_URL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
