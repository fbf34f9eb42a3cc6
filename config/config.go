package config

import (
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	FetchModeHTTP    = "http"
	FetchModeBrowser = "browser"
)

// Config holds the pipeline configuration. Every component receives what it
// needs from here at construction; nothing reads package-level state.
type Config struct {
	BaseURL        string
	DisplayResults int

	CacheDir string
	CacheTTL time.Duration

	RequestTimeout time.Duration
	UserAgent      string
	AcceptLanguage string

	SearchDelay    time.Duration
	MaxConcurrency int
	RateLimitMs    int

	FetchMode string
	ChromeBin string

	CSVOutputPath string
	LogLevel      string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := &Config{
		BaseURL:        strings.TrimRight(getEnv("AUTOTRADER_BASE_URL", "https://www.autotrader.ca"), "/"),
		DisplayResults: getEnvInt("DISPLAY_RESULTS", 100),

		CacheDir: getEnv("CACHE_DIR", "autotrader-cars"),
		CacheTTL: time.Duration(getEnvInt("CACHE_TTL_DAYS", 7)) * 24 * time.Hour,

		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 15)) * time.Second,
		UserAgent: getEnv("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/74.0.3729.169 Safari/537.36"),
		AcceptLanguage: getEnv("ACCEPT_LANGUAGE", "en-CA,en;q=0.9"),

		SearchDelay:    time.Duration(getEnvInt("SEARCH_DELAY_MS", 2000)) * time.Millisecond,
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 0),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 0),

		FetchMode: strings.ToLower(getEnv("FETCH_MODE", FetchModeHTTP)),
		ChromeBin: getEnv("CHROME_BIN", ""),

		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = runtime.NumCPU()
	}
	return cfg
}

// Headers returns the fixed outbound header set sent with every page request.
func (c *Config) Headers() map[string]string {
	return map[string]string{
		"User-Agent":      c.UserAgent,
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": c.AcceptLanguage,
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
