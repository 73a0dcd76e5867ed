package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DataDir      string
	OscarsFile   string
	OutputDir    string
	DBPath       string
	ManifestPath string
	LogLevel     string

	ShowFilms bool
	YearFrom  int

	NearMissThreshold float64

	WikiBaseURL      string
	WikiRateLimitRPS int
	WikiTimeoutMs    int
	WikiMaxAttempts  int

	Dataset Dataset
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		DataDir:      getEnv("AWARDS_DATA_DIR", "data"),
		OscarsFile:   getEnv("AWARDS_OSCARS_FILE", "oscars.csv"),
		OutputDir:    getEnv("AWARDS_OUTPUT_DIR", "out"),
		DBPath:       getEnv("AWARDS_DB_PATH", filepath.Join("data", "awards.db")),
		ManifestPath: getEnv("AWARDS_MANIFEST", ""),
		LogLevel:     getEnv("AWARDS_LOG_LEVEL", "info"),

		ShowFilms: getEnvBool("AWARDS_SHOW_FILMS", false),
		YearFrom:  getEnvInt("AWARDS_YEAR_FROM", 2000),

		NearMissThreshold: getEnvFloat("AWARDS_NEAR_MISS_THRESHOLD", 0.85),

		WikiBaseURL:      getEnv("AWARDS_WIKI_BASE_URL", "https://en.wikipedia.org/wiki"),
		WikiRateLimitRPS: getEnvInt("AWARDS_WIKI_RATE_LIMIT_RPS", 1),
		WikiTimeoutMs:    getEnvInt("AWARDS_WIKI_TIMEOUT_MS", 30000),
		WikiMaxAttempts:  getEnvInt("AWARDS_WIKI_MAX_ATTEMPTS", 3),

		Dataset: DefaultDataset(),
	}

	if strings.TrimSpace(cfg.ManifestPath) != "" {
		ds, err := LoadManifest(cfg.ManifestPath)
		if err != nil {
			return Config{}, err
		}
		cfg.Dataset = ds
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required setting: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
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
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
