package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prospectlab/rule5-board/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	CORSAllowedOrigins []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	LogLevel           logging.Level
	SwaggerEnabled     bool

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

	Season          int
	FetchTimeout    time.Duration
	FetchWorkers    int
	FetchMaxRetries int
	CacheEnabled    bool
	CacheTTL        time.Duration
	MergeStrictKey  bool

	MinPAThreshold        float64
	MinIPThreshold        float64
	TopProspectMaxOrgRank int

	FanGraphsBaseURL               string
	FanGraphsCircuitEnabled        bool
	FanGraphsCircuitFailureCount   int
	FanGraphsCircuitOpenTimeout    time.Duration
	FanGraphsCircuitHalfOpenMaxReq int

	SavantBaseURL               string
	SavantCircuitEnabled        bool
	SavantCircuitFailureCount   int
	SavantCircuitOpenTimeout    time.Duration
	SavantCircuitHalfOpenMaxReq int
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}

	swaggerEnabled, err := strconv.ParseBool(getEnv("SWAGGER_ENABLED", swaggerDefault))
	if err != nil {
		return Config{}, fmt.Errorf("parse SWAGGER_ENABLED: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}

	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
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

	season, err := getEnvAsInt("BOARD_SEASON", 2025)
	if err != nil {
		return Config{}, fmt.Errorf("parse BOARD_SEASON: %w", err)
	}
	if season < 1965 {
		return Config{}, fmt.Errorf("BOARD_SEASON must be >= 1965")
	}

	fetchTimeout, err := time.ParseDuration(getEnv("FETCH_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FETCH_TIMEOUT: %w", err)
	}
	if fetchTimeout <= 0 {
		return Config{}, fmt.Errorf("FETCH_TIMEOUT must be > 0")
	}

	fetchWorkers, err := getEnvAsInt("FETCH_WORKERS", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse FETCH_WORKERS: %w", err)
	}
	if fetchWorkers < 1 {
		return Config{}, fmt.Errorf("FETCH_WORKERS must be >= 1")
	}

	fetchMaxRetries, err := getEnvAsInt("FETCH_MAX_RETRIES", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse FETCH_MAX_RETRIES: %w", err)
	}
	if fetchMaxRetries < 0 {
		return Config{}, fmt.Errorf("FETCH_MAX_RETRIES must be >= 0")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "1h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	mergeStrictKey, err := strconv.ParseBool(getEnv("MERGE_STRICT_KEY", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse MERGE_STRICT_KEY: %w", err)
	}

	minPA, err := getEnvAsFloat("MIN_PA_THRESHOLD", 50)
	if err != nil {
		return Config{}, fmt.Errorf("parse MIN_PA_THRESHOLD: %w", err)
	}
	if minPA < 0 {
		return Config{}, fmt.Errorf("MIN_PA_THRESHOLD must be >= 0")
	}

	minIP, err := getEnvAsFloat("MIN_IP_THRESHOLD", 20)
	if err != nil {
		return Config{}, fmt.Errorf("parse MIN_IP_THRESHOLD: %w", err)
	}
	if minIP < 0 {
		return Config{}, fmt.Errorf("MIN_IP_THRESHOLD must be >= 0")
	}

	topProspectMaxOrgRank, err := getEnvAsInt("TOP_PROSPECT_MAX_ORG_RANK", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse TOP_PROSPECT_MAX_ORG_RANK: %w", err)
	}
	if topProspectMaxOrgRank < 1 {
		return Config{}, fmt.Errorf("TOP_PROSPECT_MAX_ORG_RANK must be >= 1")
	}

	fanGraphsCircuitEnabled, err := strconv.ParseBool(getEnv("FANGRAPHS_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FANGRAPHS_CIRCUIT_ENABLED: %w", err)
	}
	fanGraphsCircuitFailureCount, err := getEnvAsInt("FANGRAPHS_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse FANGRAPHS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if fanGraphsCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("FANGRAPHS_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	fanGraphsCircuitOpenTimeout, err := time.ParseDuration(getEnv("FANGRAPHS_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FANGRAPHS_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if fanGraphsCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("FANGRAPHS_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	fanGraphsCircuitHalfOpenMaxReq, err := getEnvAsInt("FANGRAPHS_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse FANGRAPHS_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if fanGraphsCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("FANGRAPHS_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	savantCircuitEnabled, err := strconv.ParseBool(getEnv("SAVANT_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SAVANT_CIRCUIT_ENABLED: %w", err)
	}
	savantCircuitFailureCount, err := getEnvAsInt("SAVANT_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse SAVANT_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if savantCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("SAVANT_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	savantCircuitOpenTimeout, err := time.ParseDuration(getEnv("SAVANT_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SAVANT_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if savantCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("SAVANT_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	savantCircuitHalfOpenMaxReq, err := getEnvAsInt("SAVANT_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SAVANT_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if savantCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("SAVANT_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	logLevel := parseLogLevel(getEnv("APP_LOG_LEVEL", "info"))

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "rule5-board-api"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		LogLevel:           logLevel,
		SwaggerEnabled:     swaggerEnabled,

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

		Season:          season,
		FetchTimeout:    fetchTimeout,
		FetchWorkers:    fetchWorkers,
		FetchMaxRetries: fetchMaxRetries,
		CacheEnabled:    cacheEnabled,
		CacheTTL:        cacheTTL,
		MergeStrictKey:  mergeStrictKey,

		MinPAThreshold:        minPA,
		MinIPThreshold:        minIP,
		TopProspectMaxOrgRank: topProspectMaxOrgRank,

		FanGraphsBaseURL:               strings.TrimSpace(getEnv("FANGRAPHS_BASE_URL", "https://www.fangraphs.com/api")),
		FanGraphsCircuitEnabled:        fanGraphsCircuitEnabled,
		FanGraphsCircuitFailureCount:   fanGraphsCircuitFailureCount,
		FanGraphsCircuitOpenTimeout:    fanGraphsCircuitOpenTimeout,
		FanGraphsCircuitHalfOpenMaxReq: fanGraphsCircuitHalfOpenMaxReq,

		SavantBaseURL:               strings.TrimSpace(getEnv("SAVANT_BASE_URL", "https://oriolebird.pythonanywhere.com")),
		SavantCircuitEnabled:        savantCircuitEnabled,
		SavantCircuitFailureCount:   savantCircuitFailureCount,
		SavantCircuitOpenTimeout:    savantCircuitOpenTimeout,
		SavantCircuitHalfOpenMaxReq: savantCircuitHalfOpenMaxReq,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.FanGraphsBaseURL == "" {
		return Config{}, fmt.Errorf("FANGRAPHS_BASE_URL cannot be empty")
	}
	if cfg.SavantBaseURL == "" {
		return Config{}, fmt.Errorf("SAVANT_BASE_URL cannot be empty")
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

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseFloat(value, 64)
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

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
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
