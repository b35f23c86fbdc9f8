// Package config reads process configuration from the environment.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the settings shared by the command and the server.
type Config struct {
	// LogLevel is the minimum log level name (EINK_LOG_LEVEL).
	LogLevel string

	// DefaultAlgorithm is the algorithm name used when a request omits one
	// (EINK_DEFAULT_ALGORITHM).
	DefaultAlgorithm string

	// DefaultDepth is the bit depth used when a request omits one
	// (EINK_DEFAULT_DEPTH).
	DefaultDepth int

	// JPEGQuality is the encoder quality for .jpg/.jpeg outputs
	// (EINK_JPEG_QUALITY).
	JPEGQuality int

	// NoColor disables ANSI colors in log output (NO_COLOR).
	NoColor bool

	// LogSource adds file:line to log records (EINK_LOG_SOURCE).
	LogSource bool
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:         "info",
		DefaultAlgorithm: "floyd_steinberg",
		DefaultDepth:     1,
		JPEGQuality:      95,
	}
}

// Load reads a .env file from the working directory if one exists, then
// builds the configuration from the environment. Variables already set in the
// environment win over the .env file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}
	return FromEnv(), nil
}

// FromEnv builds the configuration from the current environment only.
func FromEnv() Config {
	def := Default()
	return Config{
		LogLevel:         Get("EINK_LOG_LEVEL", def.LogLevel),
		DefaultAlgorithm: Get("EINK_DEFAULT_ALGORITHM", def.DefaultAlgorithm),
		DefaultDepth:     GetInt("EINK_DEFAULT_DEPTH", def.DefaultDepth),
		JPEGQuality:      GetInt("EINK_JPEG_QUALITY", def.JPEGQuality),
		NoColor:          Get("NO_COLOR", "") != "",
		LogSource:        GetBool("EINK_LOG_SOURCE", false),
	}
}

// Get returns the value of the environment variable `key` if set.
// If not set, and `key + "_FILE"` is set, the file at that path is read and
// its trimmed contents are returned. If neither are set, def is returned.
func Get(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if path := os.Getenv(key + "_FILE"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	return def
}

// GetInt returns the integer value of the environment variable `key`.
// If parsing fails or the variable is unset, def is returned.
func GetInt(key string, def int) int {
	if val := Get(key, ""); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

// GetBool returns the boolean value of the environment variable `key`.
// Recognised true values are: 1, t, true, y, yes (case-insensitive).
// Recognised false values are: 0, f, false, n, no.
func GetBool(key string, def bool) bool {
	if val := Get(key, ""); val != "" {
		switch strings.ToLower(val) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}
