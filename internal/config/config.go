package config

import (
	"flag"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var once sync.Once
var logger *zap.SugaredLogger
var loggerOnce sync.Once

// isTestRun returns true if the current process is a Go test binary.
func isTestRun() bool {
	return flag.Lookup("test.v") != nil || filepath.Ext(os.Args[0]) == ".test"
}

func initConfig() {
	once.Do(func() {
		root, err := getProjectRoot()
		if err != nil {
			GetLogger().Errorw("Error finding project root", "error", err)
		}
		viper.SetConfigType("yaml")

		viper.SetConfigName("config")
		viper.AddConfigPath(root)
		if err = viper.ReadInConfig(); err != nil {
			GetLogger().Errorw("Error reading config file", "error", err)
		}

		if isTestRun() {
			viper.SetConfigName("config_test")
			viper.AddConfigPath(root)
			if err = viper.MergeInConfig(); err != nil {
				GetLogger().Errorw("Error merging test config file", "error", err)
			}
		}
	})
}

func getProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// ReloadConfigForTest resets the config singleton and reloads Viper config. Use only in tests.
func ReloadConfigForTest() {
	once = sync.Once{}
	initConfig()
}

func GetLogger() *zap.SugaredLogger {
	loggerOnce.Do(func() {
		l, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		logger = l.Sugar()
	})
	return logger
}

func GetServerPort() string {
	initConfig()
	return viper.GetString("server.port")
}

// GetServerTimeout returns the named server timeout ("read_timeout",
// "write_timeout") as a duration, or 0 if unset.
func GetServerTimeout(key string) time.Duration {
	initConfig()
	return viper.GetDuration("server." + key)
}

func GetOpenWeatherAPIURL() string {
	initConfig()
	return viper.GetString("openweathermap.api_url")
}

func GetOpenWeatherGeoAPIURL() string {
	initConfig()
	return viper.GetString("openweathermap.geo_api_url")
}

// GetOpenWeatherTimeout returns the outbound HTTP timeout for OpenWeatherMap
// calls. Defaults to 10s.
func GetOpenWeatherTimeout() time.Duration {
	initConfig()
	d := viper.GetDuration("openweathermap.timeout")
	if d == 0 {
		d = 10 * time.Second
	}
	return d
}

func GetOpenWeatherMapAPIKey() string {
	_ = godotenv.Load()
	return os.Getenv("OPENWEATHERMAP_API_KEY")
}

func GetOpenAIAPIURL() string {
	initConfig()
	return viper.GetString("openai.api_url")
}

func GetOpenAIAPIKey() string {
	_ = godotenv.Load()
	return os.Getenv("OPENAI_API_KEY")
}

func GetOpenAIModel() string {
	initConfig()
	model := viper.GetString("openai.model")
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	return model
}

func GetOpenAITemperature() float64 {
	initConfig()
	return viper.GetFloat64("openai.temperature")
}

func GetOpenAIMaxTokens() int {
	initConfig()
	maxTokens := viper.GetInt("openai.max_tokens")
	if maxTokens == 0 {
		maxTokens = 500
	}
	return maxTokens
}

// GetOpenAITimeout returns the outbound HTTP timeout for model calls.
// Defaults to 30s.
func GetOpenAITimeout() time.Duration {
	initConfig()
	d := viper.GetDuration("openai.timeout")
	if d == 0 {
		d = 30 * time.Second
	}
	return d
}

func GetRedisAddr() string {
	initConfig()
	return viper.GetString("redis.addr")
}

func GetRedisDB() int {
	initConfig()
	return viper.GetInt("redis.db")
}

// GetGeocacheExpiration returns the TTL for cached geocoding results.
// Defaults to 24h if not set or invalid.
func GetGeocacheExpiration() time.Duration {
	initConfig()
	durStr := viper.GetString("geocache.expiration")
	if durStr == "" {
		durStr = "24h"
	}
	dur, err := time.ParseDuration(durStr)
	if err != nil {
		return 24 * time.Hour
	}
	return dur
}

// GetRateLimiterCleanupTimeout returns the rate limiter cleanup timeout as a time.Duration.
// Defaults to 3m if not set or invalid.
func GetRateLimiterCleanupTimeout() time.Duration {
	initConfig()
	durStr := viper.GetString("rate_limiter.cleanup_timeout")
	if durStr == "" {
		durStr = "3m"
	}
	dur, err := time.ParseDuration(durStr)
	if err != nil {
		return 3 * time.Minute
	}
	return dur
}

// GetGlobalRateLimiterConfig returns the rate and burst for the global rate limiter from config.
func GetGlobalRateLimiterConfig() (rate float64, burst int) {
	initConfig()
	rate = viper.GetFloat64("rate_limiter.global.rate")
	if rate == 0 {
		rate = 10
	}
	burst = viper.GetInt("rate_limiter.global.burst")
	if burst == 0 {
		burst = 10
	}
	return
}

// GetParamRateLimiterConfig returns the rate and burst for the param rate limiter from config.
func GetParamRateLimiterConfig() (rate float64, burst int) {
	initConfig()
	rate = viper.GetFloat64("rate_limiter.param.rate")
	if rate == 0 {
		rate = 2
	}
	burst = viper.GetInt("rate_limiter.param.burst")
	if burst == 0 {
		burst = 2
	}
	return
}
