package config

import "os"

type Config struct {
	ListenAddr    string
	DBPath        string
	PublicBaseURL string

	AdvisorBackend string
	GeminiAPIKey   string
	GeminiModel    string
	ClaudeAPIKey   string
	ClaudeModel    string
	KidsPromoURL   string

	StorageBackend string
	StoragePath    string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3Bucket       string
	S3PublicURL    string

	GeoBaseURL  string
	StagingPath string

	LogLevel string
	LogFile  string
}

func Load() *Config {
	return &Config{
		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),
		DBPath:        getEnv("DB_PATH", "/data/giftedai.db"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),

		AdvisorBackend: getEnv("ADVISOR_BACKEND", "gemini"),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		ClaudeAPIKey:   getEnv("CLAUDE_API_KEY", ""),
		ClaudeModel:    getEnv("CLAUDE_MODEL", "claude-3-5-sonnet-20241022"),
		KidsPromoURL:   getEnv("ADVISOR_KIDS_PROMO_URL", ""),

		StorageBackend: getEnv("STORAGE_BACKEND", "local"),
		StoragePath:    getEnv("STORAGE_LOCAL_PATH", "/data/files"),
		S3Region:       getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:     getEnv("S3_ENDPOINT", ""),
		S3AccessKey:    getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:    getEnv("S3_SECRET_KEY", ""),
		S3Bucket:       getEnv("S3_BUCKET", "files"),
		S3PublicURL:    getEnv("S3_PUBLIC_URL", ""),

		GeoBaseURL:  getEnv("GEO_BASE_URL", "https://ipapi.co"),
		StagingPath: getEnv("STAGING_PATH", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
