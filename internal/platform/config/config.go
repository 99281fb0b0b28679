package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerHost     string
	ServerPort     int
	ZmqApiPort     int
	ChangeFeedPort int
	DataDirectory  string
	DefaultPrefix  string
	LogLevel       string
	LogFormat      string
	ReportLimit    int
}

func LoadConfig() Config {
	godotenv.Load(".env")
	return Config{
		ServerHost:     getString("FLATDB_HOST", ""),
		ServerPort:     getInt("FLATDB_PORT", 3000),
		ZmqApiPort:     getInt("FLATDB_ZMQ_API_PORT", 0),
		ChangeFeedPort: getInt("FLATDB_CHANGE_FEED_PORT", 0),
		DataDirectory:  getString("FLATDB_DATA_DIRECTORY", "."),
		DefaultPrefix:  getString("FLATDB_DEFAULT_PREFIX", ""),
		LogLevel:       getString("FLATDB_LOG_LEVEL", "info"),
		LogFormat:      getString("FLATDB_LOG_FORMAT", "text"),
		ReportLimit:    getInt("FLATDB_REPORT_LIMIT", 10),
	}
}

func getString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
