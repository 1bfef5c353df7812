package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Uploads
	PhotoStoragePath  string
	MaxUploadSizeMB   int
	AllowedExtensions []string
	MaxImageDimension int
	JPEGQuality       int

	// Photo store backing: "memory" | "postgres"
	StoreBackend string

	// Database (postgres backing only)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// S3
	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3UsePathStyle    bool
	PhotosBucket      string

	// Captioning
	OpenAIAPIKey       string
	OpenAIBaseURL      string
	CaptionModel       string
	CaptionMaxTokens   int
	CaptionTemperature float64

	// Text-to-speech
	GoogleTTSAPIKey string
	TTSBaseURL      string
	TTSLanguageCode string
	TTSVoiceName    string
	TTSSpeakingRate float64

	// CORS
	AllowedOrigins []string
}

func New() *Config {
	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Uploads
		PhotoStoragePath:  getEnv("PHOTO_STORAGE_PATH", "/data/photos"),
		MaxUploadSizeMB:   getEnvAsInt("MAX_UPLOAD_SIZE_MB", 16),
		AllowedExtensions: getEnvAsSlice("ALLOWED_EXTENSIONS", []string{"png", "jpg", "jpeg"}),
		MaxImageDimension: getEnvAsInt("MAX_IMAGE_DIMENSION", 800),
		JPEGQuality:       getEnvAsInt("JPEG_QUALITY", 70),

		// Store
		StoreBackend: getEnv("STORE_BACKEND", "memory"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "patronum"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "patronum_db"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		// S3
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3Region:          getEnv("S3_REGION", "ap-south-1"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3UsePathStyle:    getEnv("S3_USE_PATH_STYLE", "false") == "true",
		PhotosBucket:      getEnv("PHOTOS_BUCKET", "accessible-photo-album"),

		// Captioning
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		CaptionModel:       getEnv("CAPTION_MODEL", "gpt-4o"),
		CaptionMaxTokens:   getEnvAsInt("CAPTION_MAX_TOKENS", 300),
		CaptionTemperature: getEnvAsFloat("CAPTION_TEMPERATURE", 0.95),

		// Text-to-speech
		GoogleTTSAPIKey: getEnv("GOOGLE_TTS_API_KEY", ""),
		TTSBaseURL:      getEnv("TTS_BASE_URL", "https://texttospeech.googleapis.com"),
		TTSLanguageCode: getEnv("TTS_LANGUAGE_CODE", "en-US"),
		TTSVoiceName:    getEnv("TTS_VOICE_NAME", "en-US-Neural2-C"),
		TTSSpeakingRate: getEnvAsFloat("TTS_SPEAKING_RATE", 0.9),

		// CORS
		AllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS", []string{"http://localhost:8501", "http://localhost:3000"}),
	}

	// Production allows larger uploads unless overridden explicitly
	if cfg.Env == "production" && os.Getenv("MAX_UPLOAD_SIZE_MB") == "" {
		cfg.MaxUploadSizeMB = 32
	}

	return cfg
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadSizeMB) * 1024 * 1024
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
