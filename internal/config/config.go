package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fairwayclub/league-engine/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	HTTPAddr                   string
	DBURL                      string
	DBDisablePreparedBinary    bool
	CORSAllowedOrigins         []string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	InternalJobToken           string
	Timezone                   *time.Location
	ProcessorMaxWorkers        int
	ProcessorTickTimes         []TickTime
	CourseAPIBaseURL           string
	CourseAPIToken             string
	CourseAPITimeout           time.Duration
	CourseAPICacheTTL          time.Duration
	CourseAPICircuitEnabled    bool
	CourseAPICircuitFailCount  int
	CourseAPICircuitOpenWindow time.Duration
	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	LogLevel                   logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofAddr == "" {
		pprofAddr = ":6060"
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	timezone, err := time.LoadLocation(getEnv("APP_TIMEZONE", "UTC"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_TIMEZONE: %w", err)
	}

	processorMaxWorkers, err := getEnvAsInt("PROCESSOR_MAX_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse PROCESSOR_MAX_WORKERS: %w", err)
	}
	if processorMaxWorkers < 1 {
		return Config{}, fmt.Errorf("PROCESSOR_MAX_WORKERS must be >= 1")
	}

	tickTimes, err := parseTickTimes(getEnv("PROCESSOR_TICK_TIME", "06:00"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PROCESSOR_TICK_TIME: %w", err)
	}

	courseAPITimeout, err := time.ParseDuration(getEnv("COURSE_API_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse COURSE_API_TIMEOUT: %w", err)
	}
	if courseAPITimeout <= 0 {
		return Config{}, fmt.Errorf("COURSE_API_TIMEOUT must be > 0")
	}
	courseAPICacheTTL, err := time.ParseDuration(getEnv("COURSE_API_CACHE_TTL", "6h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse COURSE_API_CACHE_TTL: %w", err)
	}
	if courseAPICacheTTL <= 0 {
		return Config{}, fmt.Errorf("COURSE_API_CACHE_TTL must be > 0")
	}
	courseAPICircuitEnabled, err := strconv.ParseBool(getEnv("COURSE_API_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse COURSE_API_CIRCUIT_ENABLED: %w", err)
	}
	courseAPICircuitFailCount, err := getEnvAsInt("COURSE_API_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse COURSE_API_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if courseAPICircuitFailCount < 1 {
		return Config{}, fmt.Errorf("COURSE_API_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	courseAPICircuitOpenWindow, err := time.ParseDuration(getEnv("COURSE_API_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse COURSE_API_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if courseAPICircuitOpenWindow <= 0 {
		return Config{}, fmt.Errorf("COURSE_API_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "league-engine"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                      getEnv("DB_URL", ""),
		DBDisablePreparedBinary:    dbDisablePreparedBinary,
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:                readTimeout,
		WriteTimeout:               writeTimeout,
		InternalJobToken:           strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		Timezone:                   timezone,
		ProcessorMaxWorkers:        processorMaxWorkers,
		ProcessorTickTimes:         tickTimes,
		CourseAPIBaseURL:           strings.TrimSpace(getEnv("COURSE_API_BASE_URL", "")),
		CourseAPIToken:             strings.TrimSpace(getEnv("COURSE_API_TOKEN", "")),
		CourseAPITimeout:           courseAPITimeout,
		CourseAPICacheTTL:          courseAPICacheTTL,
		CourseAPICircuitEnabled:    courseAPICircuitEnabled,
		CourseAPICircuitFailCount:  courseAPICircuitFailCount,
		CourseAPICircuitOpenWindow: courseAPICircuitOpenWindow,
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
		LogLevel:                   parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}

	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
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
		return 0, err
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

// TickTime is one wall-clock run time in the processor's daily schedule.
type TickTime struct {
	Hour   int
	Minute int
}

// parseTickTimes parses a comma-separated list of HH:MM wall-clock times,
// e.g. "06:00,12:30,21:00".
func parseTickTimes(raw string) ([]TickTime, error) {
	entries := splitCSV(raw)
	if len(entries) == 0 {
		return nil, fmt.Errorf("at least one HH:MM time is required, got %q", raw)
	}

	out := make([]TickTime, 0, len(entries))
	for _, entry := range entries {
		hour, minute, err := parseClockTime(entry)
		if err != nil {
			return nil, err
		}
		out = append(out, TickTime{Hour: hour, Minute: minute})
	}
	return out, nil
}

// parseClockTime parses a HH:MM wall-clock time.
func parseClockTime(raw string) (int, int, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", raw)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid hour in %q: %w", raw, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid minute in %q: %w", raw, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time %q out of range", raw)
	}

	return hour, minute, nil
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
