package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type MetricsCfg struct {
	Enabled bool
	Addr    string
	Path    string
}

type Config struct {
	Addr               string
	LogLevel           string
	LogConsole         bool
	LogSampleN         int
	GeocodeURL         string
	GeocodeAPIKey      string
	IsochroneURL       string
	IsochroneAPIKey    string
	UpstreamTimeout    time.Duration
	UpstreamRetries    int
	DataDir            string
	DatasetCacheSize   int
	CORSAllowedOrigins []string
	Metrics            MetricsCfg
}

// FromEnv reads the proxy configuration. Missing API keys are not an error
// here; upstream calls fail and /readyz reports them.
func FromEnv() Config {
	retries := getint("UPSTREAM_RETRIES", 0)
	if retries < 0 {
		retries = 0
	}
	cacheSize := getint("DATASET_CACHE_SIZE", 32)
	if cacheSize <= 0 {
		cacheSize = 32
	}

	return Config{
		Addr:               getenv("ADDR", ":4000"),
		LogLevel:           getenv("LOG_LEVEL", "info"),
		LogConsole:         getbool("LOG_CONSOLE", false),
		LogSampleN:         getint("LOG_SAMPLE_N", 0),
		GeocodeURL:         getenv("GEOCODE_URL", "https://geocode.maps.co"),
		GeocodeAPIKey:      os.Getenv("CUSTOMCONNSTR_GEOCODE_API_KEY"),
		IsochroneURL:       getenv("ISOCHRONE_URL", "https://api.openrouteservice.org"),
		IsochroneAPIKey:    os.Getenv("CUSTOMCONNSTR_ORS_API_KEY"),
		UpstreamTimeout:    getduration("UPSTREAM_TIMEOUT", 30*time.Second),
		UpstreamRetries:    retries,
		DataDir:            getenv("DATA_DIR", "./locations-txt"),
		DatasetCacheSize:   cacheSize,
		CORSAllowedOrigins: parseList(getenv("CORS_ALLOWED_ORIGINS", "*")),
		Metrics: MetricsCfg{
			Enabled: getbool("METRICS_ENABLED", false),
			Addr:    getenv("METRICS_ADDR", ":9090"),
			Path:    getenv("METRICS_PATH", "/metrics"),
		},
	}
}

// Readiness reports whether both provider keys are configured, naming the
// environment variables that are empty.
func (c Config) Readiness() (bool, []string) {
	var missing []string
	if strings.TrimSpace(c.GeocodeAPIKey) == "" {
		missing = append(missing, "CUSTOMCONNSTR_GEOCODE_API_KEY")
	}
	if strings.TrimSpace(c.IsochroneAPIKey) == "" {
		missing = append(missing, "CUSTOMCONNSTR_ORS_API_KEY")
	}
	return len(missing) == 0, missing
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// parse "a, b,,c" into [a b c]
func parseList(s string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
