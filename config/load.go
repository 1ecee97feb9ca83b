package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/Gobusters/ectoenv"
	"github.com/joho/godotenv"
)

// Load reads the optional env files (".env" when none are named) and binds the environment into Config.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return Config{}, fmt.Errorf("failed to read %s: %w", file, err)
		}
	}

	var config Config
	if err := ectoenv.BindEnv(&config); err != nil {
		return Config{}, fmt.Errorf("failed to bind environment: %w", err)
	}

	config.KafkaBrokers = trimList(config.KafkaBrokers)
	config.TracingHeaders = trimList(config.TracingHeaders)
	return config, nil
}

// trimList drops the blanks left by "a, b," style lists.
func trimList(items []string) []string {
	trimmed := []string{}
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			trimmed = append(trimmed, item)
		}
	}
	return trimmed
}
