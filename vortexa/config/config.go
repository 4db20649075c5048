package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port          string `yaml:"port"`
	StrategistURL string `yaml:"strategist_url"`

	// ParsePrompts switches the strategist request body from the raw
	// prompt to the locally extracted financial profile.
	ParsePrompts  bool `yaml:"parse_prompts"`
	HistoryWindow int  `yaml:"history_window"`

	KVDriver   string `yaml:"kv_driver"` // sqlite | postgres | memory
	SQLitePath string `yaml:"sqlite_path"`

	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBName     string `yaml:"db_name"`
}

// LoadConfig reads an optional YAML file (CONFIG_FILE, default
// ./config.yaml), then lets environment variables override it. A .env file
// is honored when present.
func LoadConfig() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:          "3001",
		StrategistURL: "http://localhost:8001/api/generate-strategy",
		ParsePrompts:  false,
		HistoryWindow: 4,
		KVDriver:      "sqlite",
		SQLitePath:    "./data/vortexa.db",
	}

	path := getEnv("CONFIG_FILE", "./config.yaml")
	if data, err := os.ReadFile(path); err == nil {
		_ = yaml.Unmarshal(data, &cfg)
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.StrategistURL = getEnv("STRATEGIST_URL", cfg.StrategistURL)
	cfg.ParsePrompts = getEnvBool("PARSE_PROMPTS", cfg.ParsePrompts)
	cfg.HistoryWindow = getEnvInt("HISTORY_WINDOW", cfg.HistoryWindow)
	cfg.KVDriver = getEnv("KV_DRIVER", cfg.KVDriver)
	cfg.SQLitePath = getEnv("SQLITE_PATH", cfg.SQLitePath)
	cfg.DBUser = getEnv("DB_USER", cfg.DBUser)
	cfg.DBPassword = getEnv("DB_PASSWORD", cfg.DBPassword)
	cfg.DBHost = getEnv("DB_HOST", cfg.DBHost)
	cfg.DBPort = getEnv("DB_PORT", cfg.DBPort)
	cfg.DBName = getEnv("DB_NAME", cfg.DBName)

	return cfg
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
