package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath string

	StaticCPUPath string
	StaticGPUPath string

	PartsAPIBaseURL   string
	PartsAPIRegion    string
	PartsRateLimitRPS int
	PartsTimeoutMs    int

	ScoreMinWeightSum float64

	LogLevel string
	LogFile  string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath: getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),

		StaticCPUPath: getEnv("STATIC_CPU_JSON", filepath.Join(cwd, "data", "cpu.json")),
		StaticGPUPath: getEnv("STATIC_GPU_JSON", filepath.Join(cwd, "data", "video-card.json")),

		PartsAPIBaseURL:   getEnv("PARTS_API_BASE_URL", "https://parts.comhere.dev/api/v1"),
		PartsAPIRegion:    getEnv("PARTS_API_REGION", "us"),
		PartsRateLimitRPS: getEnvInt("PARTS_API_RATE_LIMIT_RPS", 5),
		PartsTimeoutMs:    getEnvInt("PARTS_API_TIMEOUT_MS", 30000),

		ScoreMinWeightSum: getEnvFloat("SCORE_MIN_WEIGHT_SUM", 0.5),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", filepath.Join(cwd, "logs", "comhere.log")),
	}

	return cfg, nil
}

func (c Config) StaticPath(domainName string) string {
	if domainName == "gpu" {
		return c.StaticGPUPath
	}
	return c.StaticCPUPath
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(getEnv(key, ""))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(getEnv(key, ""))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
