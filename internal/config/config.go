package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"songcharts/internal"
)

var ErrInvalidYear = errors.New("invalid year")

type Config struct {
	OutputDir    string
	OutputFormat internal.OutputFormat

	ChartBaseURL        string
	ChartUserAgent      string
	ChartTimeoutMs      int
	ChartRequestDelayMs int

	HeaderRowPolicy internal.HeaderRowPolicy

	YearMin   int
	YearMax   int
	BatchFrom int
	BatchTo   int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		OutputDir:    getEnv("OUTPUT_DIR", filepath.Join(cwd, "csv's")),
		OutputFormat: internal.OutputFormat(strings.ToLower(getEnv("OUTPUT_FORMAT", string(internal.FormatCSV)))),

		ChartBaseURL:        getEnv("CHART_BASE_URL", "https://en.wikipedia.org/wiki/Billboard_Year-End_Hot_100_singles_of_"),
		ChartUserAgent:      getEnv("CHART_USER_AGENT", "songcharts/1.0 (year-end chart scraper)"),
		ChartTimeoutMs:      getEnvInt("CHART_TIMEOUT_MS", 30000),
		ChartRequestDelayMs: getEnvInt("CHART_REQUEST_DELAY_MS", 1000),

		HeaderRowPolicy: internal.HeaderRowPolicy(strings.ToLower(getEnv("HEADER_ROW_POLICY", string(internal.HeaderAuto)))),

		YearMin:   getEnvInt("YEAR_MIN", 1940),
		YearMax:   getEnvInt("YEAR_MAX", 2025),
		BatchFrom: getEnvInt("BATCH_FROM", 1960),
		BatchTo:   getEnvInt("BATCH_TO", 2026),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("OUTPUT_DIR must not be empty")
	}
	switch c.OutputFormat {
	case internal.FormatCSV, internal.FormatXLSX:
	default:
		return fmt.Errorf("unsupported OUTPUT_FORMAT: %s", c.OutputFormat)
	}
	switch c.HeaderRowPolicy {
	case internal.HeaderAuto, internal.HeaderAlways, internal.HeaderNever:
	default:
		return fmt.Errorf("unsupported HEADER_ROW_POLICY: %s", c.HeaderRowPolicy)
	}
	if c.YearMin > c.YearMax {
		return fmt.Errorf("YEAR_MIN %d is after YEAR_MAX %d", c.YearMin, c.YearMax)
	}
	if c.BatchFrom > c.BatchTo {
		return fmt.Errorf("BATCH_FROM %d is after BATCH_TO %d", c.BatchFrom, c.BatchTo)
	}
	return nil
}

// ParseYear accepts only unsigned decimal input within [min, max].
func ParseYear(input string, min, max int) (int, error) {
	value := strings.TrimSpace(input)
	if value == "" {
		return 0, fmt.Errorf("%w: empty input", ErrInvalidYear)
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidYear, value)
		}
	}
	year, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidYear, value)
	}
	if year < min || year > max {
		return 0, fmt.Errorf("%w: %d is outside %d-%d", ErrInvalidYear, year, min, max)
	}
	return year, nil
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
