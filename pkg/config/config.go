package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	Environment     string
	FirebaseProject string
	StorageBucket   string

	// Relay tuning
	SendBufferSize  int
	PersistTimeout  time.Duration
	MessageRateMax  int
	MessageRateTime time.Duration
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		FirebaseProject: getEnv("FIREBASE_PROJECT_ID", ""),
		StorageBucket:   getEnv("STORAGE_BUCKET", ""),
		SendBufferSize:  getEnvAsInt("WS_SEND_BUFFER", 256),
		PersistTimeout:  time.Duration(getEnvAsInt("PERSIST_TIMEOUT_SECONDS", 10)) * time.Second,
		MessageRateMax:  getEnvAsInt("MESSAGE_RATE_MAX", 20),
		MessageRateTime: time.Duration(getEnvAsInt("MESSAGE_RATE_SECONDS", 10)) * time.Second,
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.Atoi(value)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
