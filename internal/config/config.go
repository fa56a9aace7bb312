package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/zaferkucuk/oover-sync/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	DBURL              string
	CORSAllowedOrigins []string
	LogLevel           logging.Level

	APIFootballEnabled               bool
	APIFootballBaseURL               string
	APIFootballToken                 string
	APIFootballTimeout               time.Duration
	APIFootballMaxRetries            int
	APIFootballRequestsPerMinute     int
	APIFootballRequestsPerDay        int
	APIFootballBudgetSafetyFraction  float64
	APIFootballCircuitEnabled        bool
	APIFootballCircuitFailureCount   int
	APIFootballCircuitOpenTimeout    time.Duration
	APIFootballCircuitHalfOpenMaxReq int

	CacheTTLCountries    time.Duration
	CacheTTLLeagues      time.Duration
	CacheTTLTeams        time.Duration
	CacheTTLFixtures     time.Duration
	CacheTTLFixturesLive time.Duration

	WebhookURL                 string
	WebhookToken               string
	WebhookTimeout             time.Duration
	WebhookCircuitEnabled      bool
	WebhookCircuitFailureCount int

	InternalJobToken string
	SyncWorkers      int

	PprofEnabled bool
	PprofAddr    string

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := getEnvAsDuration("APP_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := getEnvAsDuration("APP_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, err
	}

	corsOrigins := splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*"))
	if len(corsOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	providerEnabled, err := getEnvAsBool("APIFOOTBALL_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	providerToken := strings.TrimSpace(getEnv("APIFOOTBALL_TOKEN", ""))
	if providerEnabled && providerToken == "" {
		return Config{}, fmt.Errorf("APIFOOTBALL_TOKEN is required when APIFOOTBALL_ENABLED=true")
	}
	providerTimeout, err := getEnvAsDuration("APIFOOTBALL_TIMEOUT", 20*time.Second)
	if err != nil {
		return Config{}, err
	}
	if providerTimeout <= 0 {
		return Config{}, fmt.Errorf("APIFOOTBALL_TIMEOUT must be > 0")
	}
	providerMaxRetries, err := getEnvAsInt("APIFOOTBALL_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, err
	}
	if providerMaxRetries < 0 {
		return Config{}, fmt.Errorf("APIFOOTBALL_MAX_RETRIES must be >= 0")
	}
	requestsPerMinute, err := getEnvAsInt("APIFOOTBALL_REQUESTS_PER_MINUTE", 30)
	if err != nil {
		return Config{}, err
	}
	if requestsPerMinute < 1 {
		return Config{}, fmt.Errorf("APIFOOTBALL_REQUESTS_PER_MINUTE must be >= 1")
	}
	requestsPerDay, err := getEnvAsInt("APIFOOTBALL_REQUESTS_PER_DAY", 7500)
	if err != nil {
		return Config{}, err
	}
	if requestsPerDay < 1 {
		return Config{}, fmt.Errorf("APIFOOTBALL_REQUESTS_PER_DAY must be >= 1")
	}
	safetyFraction, err := getEnvAsFloat("APIFOOTBALL_BUDGET_SAFETY_FRACTION", 0.9)
	if err != nil {
		return Config{}, err
	}
	if safetyFraction <= 0 || safetyFraction > 1 {
		return Config{}, fmt.Errorf("APIFOOTBALL_BUDGET_SAFETY_FRACTION must be in (0, 1]")
	}
	providerCircuitEnabled, err := getEnvAsBool("APIFOOTBALL_CIRCUIT_ENABLED", true)
	if err != nil {
		return Config{}, err
	}
	providerCircuitFailureCount, err := getEnvAsInt("APIFOOTBALL_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, err
	}
	if providerCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("APIFOOTBALL_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	providerCircuitOpenTimeout, err := getEnvAsDuration("APIFOOTBALL_CIRCUIT_OPEN_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	if providerCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("APIFOOTBALL_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	providerCircuitHalfOpenMaxReq, err := getEnvAsInt("APIFOOTBALL_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, err
	}
	if providerCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("APIFOOTBALL_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	ttlCountries, err := getEnvAsDuration("CACHE_TTL_COUNTRIES", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	ttlLeagues, err := getEnvAsDuration("CACHE_TTL_LEAGUES", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	ttlTeams, err := getEnvAsDuration("CACHE_TTL_TEAMS", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	ttlFixtures, err := getEnvAsDuration("CACHE_TTL_FIXTURES", time.Hour)
	if err != nil {
		return Config{}, err
	}
	ttlFixturesLive, err := getEnvAsDuration("CACHE_TTL_FIXTURES_LIVE", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	for name, ttl := range map[string]time.Duration{
		"CACHE_TTL_COUNTRIES":     ttlCountries,
		"CACHE_TTL_LEAGUES":       ttlLeagues,
		"CACHE_TTL_TEAMS":         ttlTeams,
		"CACHE_TTL_FIXTURES":      ttlFixtures,
		"CACHE_TTL_FIXTURES_LIVE": ttlFixturesLive,
	} {
		if ttl <= 0 {
			return Config{}, fmt.Errorf("%s must be > 0", name)
		}
	}

	webhookTimeout, err := getEnvAsDuration("WEBHOOK_TIMEOUT", 5*time.Second)
	if err != nil {
		return Config{}, err
	}
	if webhookTimeout <= 0 {
		return Config{}, fmt.Errorf("WEBHOOK_TIMEOUT must be > 0")
	}
	webhookCircuitEnabled, err := getEnvAsBool("WEBHOOK_CIRCUIT_ENABLED", true)
	if err != nil {
		return Config{}, err
	}
	webhookCircuitFailureCount, err := getEnvAsInt("WEBHOOK_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, err
	}
	if webhookCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("WEBHOOK_CIRCUIT_FAILURE_COUNT must be >= 1")
	}

	syncWorkers, err := getEnvAsInt("SYNC_WORKERS", 4)
	if err != nil {
		return Config{}, err
	}
	if syncWorkers < 1 {
		return Config{}, fmt.Errorf("SYNC_WORKERS must be >= 1")
	}

	pprofEnabled, err := getEnvAsBool("PPROF_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := getEnvAsBool("UPTRACE_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := getEnvAsBool("PYROSCOPE_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "oover-sync"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		DBURL:              strings.TrimSpace(getEnv("DB_URL", "")),
		CORSAllowedOrigins: corsOrigins,
		LogLevel:           parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),

		APIFootballEnabled:               providerEnabled,
		APIFootballBaseURL:               strings.TrimSpace(getEnv("APIFOOTBALL_BASE_URL", "https://v3.football.api-sports.io")),
		APIFootballToken:                 providerToken,
		APIFootballTimeout:               providerTimeout,
		APIFootballMaxRetries:            providerMaxRetries,
		APIFootballRequestsPerMinute:     requestsPerMinute,
		APIFootballRequestsPerDay:        requestsPerDay,
		APIFootballBudgetSafetyFraction:  safetyFraction,
		APIFootballCircuitEnabled:        providerCircuitEnabled,
		APIFootballCircuitFailureCount:   providerCircuitFailureCount,
		APIFootballCircuitOpenTimeout:    providerCircuitOpenTimeout,
		APIFootballCircuitHalfOpenMaxReq: providerCircuitHalfOpenMaxReq,

		CacheTTLCountries:    ttlCountries,
		CacheTTLLeagues:      ttlLeagues,
		CacheTTLTeams:        ttlTeams,
		CacheTTLFixtures:     ttlFixtures,
		CacheTTLFixturesLive: ttlFixturesLive,

		WebhookURL:                 strings.TrimSpace(getEnv("WEBHOOK_URL", "")),
		WebhookToken:               strings.TrimSpace(getEnv("WEBHOOK_TOKEN", "")),
		WebhookTimeout:             webhookTimeout,
		WebhookCircuitEnabled:      webhookCircuitEnabled,
		WebhookCircuitFailureCount: webhookCircuitFailureCount,

		InternalJobToken: strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		SyncWorkers:      syncWorkers,

		PprofEnabled: pprofEnabled,
		PprofAddr:    pprofAddr,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:       pyroscopeEnabled,
		PyroscopeServerAddress: pyroscopeServerAddress,
		PyroscopeAuthToken:     strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:    pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	return cfg, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}

	return out, nil
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}

	return out, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}

	return out, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}
