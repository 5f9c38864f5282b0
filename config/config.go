package config

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/nimblechat/chat-viewer-api/models"
)

const defaultAttachmentTTL = 15 * time.Minute

// Config holds the project config values
type Config struct {
	DataURL       string
	BaseURL       string
	Port          string
	AttachmentTTL time.Duration
}

// New sets up all config related services
func New() *Config {

	// .env is optional; real environments set vars directly
	_ = godotenv.Load()

	//setup zap logger and replace default logger
	logger := zap.NewExample()
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	return &Config{
		DataURL:       os.Getenv("CHAT_DATA_URL"),
		BaseURL:       os.Getenv("BASE_URL"),
		Port:          getEnv("PORT", "8080"),
		AttachmentTTL: getDuration("ATTACHMENT_TTL", defaultAttachmentTTL),
	}

}

// ErrorStatus is a useful function that will log, write http headers and body for a
// given message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)
	w.WriteHeader(httpStatusCode)
	b, _ := json.Marshal(models.ErrorMessageResponse{
		Response: models.MessageError{Message: message, Error: err.Error()},
	})
	w.Write(b)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		zap.S().Warnw("invalid duration in environment, using default",
			"key", key,
			"value", v,
			"default", fallback,
		)
		return fallback
	}
	return d
}
