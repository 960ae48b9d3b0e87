package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gowoa/internal/errors"
	"gowoa/internal/format"
)

// Config represents the complete application configuration. It is built once
// at startup and passed into constructors; nothing reads the environment
// after Load returns.
type Config struct {
	Runner    RunnerConfig
	Models    ModelConfig
	Upload    UploadConfig
	Server    ServerConfig
	Admin     AdminConfig
	Display   DisplayConfig
	Benchmark BenchmarkConfig
}

// RunnerConfig describes how the external analysis tool is launched
type RunnerConfig struct {
	Python      string
	Workdir     string
	ModuleFlag  string
	PathEnv     string
	Timeout     time.Duration
	WaitDelay   time.Duration
	EntryPoints EntryPoints
}

// ModelConfig holds model file locations, relative paths resolved against the workdir
type ModelConfig struct {
	WOA  string
	EWOA string
	// PredictCandidates are tried in order; the first existing file is used.
	PredictCandidates []string
	GroundTruthCSV    string
}

// UploadConfig holds upload storage settings
type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// AdminConfig holds the health/profiling listener settings
type AdminConfig struct {
	Port    string
	Enabled bool
}

// DisplayConfig holds rendering settings
type DisplayConfig struct {
	Precision int
}

// BenchmarkConfig holds optimizer defaults
type BenchmarkConfig struct {
	Functions  []string
	Algorithm  string
	Runs       int
	Iterations int
	Population int
	Dimension  int
	BlockSize  int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	runnerConfig, err := loadRunnerConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load runner configuration")
	}
	config.Runner = *runnerConfig

	config.Models = *loadModelConfig(config.Runner.Workdir)
	config.Upload = *loadUploadConfig()
	config.Server = *loadServerConfig()
	config.Admin = *loadAdminConfig()
	config.Display = DisplayConfig{Precision: getEnvIntOrDefault("DISPLAY_PRECISION", format.DefaultPrecision)}
	config.Benchmark = *loadBenchmarkConfig()

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadRunnerConfig() (*RunnerConfig, error) {
	workdir := getEnvOrDefault("WOA_WORKDIR", ".")
	if abs, err := filepath.Abs(workdir); err == nil {
		workdir = abs
	}

	entryPoints := DefaultEntryPoints()
	if path := os.Getenv("ENTRYPOINTS_FILE"); path != "" {
		loaded, err := LoadEntryPoints(path)
		if err != nil {
			return nil, err
		}
		entryPoints = loaded
	}

	timeout, err := parseDurationEnv("WOA_EXEC_TIMEOUT", 0)
	if err != nil {
		return nil, err
	}
	waitDelay, err := parseDurationEnv("WOA_WAIT_DELAY", 5*time.Second)
	if err != nil {
		return nil, err
	}

	return &RunnerConfig{
		Python:      getEnvOrDefault("WOA_PYTHON", "python3"),
		Workdir:     workdir,
		ModuleFlag:  getEnvOrDefault("WOA_MODULE_FLAG", "-m"),
		PathEnv:     getEnvOrDefault("WOA_PATH_ENV", "PYTHONPATH"),
		Timeout:     timeout,
		WaitDelay:   waitDelay,
		EntryPoints: entryPoints,
	}, nil
}

func loadModelConfig(workdir string) *ModelConfig {
	candidates := splitList(getEnvOrDefault("WOA_MODEL_CANDIDATES",
		"models/model_final_ewoa.json,models/model.json,models/model_ewoa.json"))
	for i, c := range candidates {
		candidates[i] = resolve(workdir, c)
	}
	return &ModelConfig{
		WOA:               resolve(workdir, getEnvOrDefault("WOA_MODEL_WOA", "models/model_woa.json")),
		EWOA:              resolve(workdir, getEnvOrDefault("WOA_MODEL_EWOA", "models/model_final_ewoa.json")),
		PredictCandidates: candidates,
		GroundTruthCSV:    resolve(workdir, os.Getenv("WOA_GROUND_TRUTH_CSV")),
	}
}

func loadUploadConfig() *UploadConfig {
	return &UploadConfig{
		Dir:      getEnvOrDefault("UPLOAD_DIR", filepath.Join(os.TempDir(), "gowoa-uploads")),
		MaxBytes: int64(getEnvIntOrDefault("UPLOAD_MAX_MB", 32)) << 20,
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "debug"),
	}
}

func loadAdminConfig() *AdminConfig {
	return &AdminConfig{
		Port:    getEnvOrDefault("ADMIN_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("ADMIN_ENABLED", true),
	}
}

func loadBenchmarkConfig() *BenchmarkConfig {
	return &BenchmarkConfig{
		Functions:  splitList(getEnvOrDefault("BENCH_FUNCTIONS", "rosenbrock,griewank")),
		Algorithm:  getEnvOrDefault("BENCH_ALGO", "both"),
		Runs:       getEnvIntOrDefault("BENCH_RUNS", 30),
		Iterations: getEnvIntOrDefault("BENCH_ITERS", 500),
		Population: getEnvIntOrDefault("BENCH_POP", 30),
		Dimension:  getEnvIntOrDefault("BENCH_DIM", 30),
		BlockSize:  getEnvIntOrDefault("BENCH_BLOCK_SIZE", 10),
	}
}

func validateConfig(config *Config) error {
	if strings.TrimSpace(config.Runner.Python) == "" {
		return errors.ConfigInvalid("WOA_PYTHON is required")
	}
	if config.Display.Precision < 0 || config.Display.Precision > 17 {
		return errors.ConfigInvalid("DISPLAY_PRECISION must be between 0 and 17")
	}
	if len(config.Benchmark.Functions) == 0 {
		return errors.ConfigInvalid("BENCH_FUNCTIONS must name at least one function")
	}
	if config.Benchmark.Runs <= 0 || config.Benchmark.Iterations <= 0 ||
		config.Benchmark.Population <= 0 || config.Benchmark.Dimension <= 0 {
		return errors.ConfigInvalid("benchmark runs, iterations, population and dimension must be positive")
	}
	if config.Upload.MaxBytes <= 0 {
		return errors.ConfigInvalid("UPLOAD_MAX_MB must be positive")
	}
	return config.Runner.EntryPoints.Validate()
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// parseDurationEnv accepts Go durations or plain seconds. Malformed values are
// an error, not a silent default.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	if secs, err := strconv.Atoi(value); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil || duration < 0 {
		return 0, errors.ConfigInvalid(key + " must be a non-negative duration such as 90s or 5m")
	}
	return duration, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func resolve(workdir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workdir, path)
}
