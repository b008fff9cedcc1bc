package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestTestConfigMerge(t *testing.T) {
	ReloadConfigForTest()

	// config_test.yaml overrides the server port for test runs.
	if port := GetServerPort(); port != "0" {
		t.Errorf("Expected test config port \"0\", got %q", port)
	}
	// Values absent from config_test.yaml fall through to config.yaml.
	if url := GetOpenWeatherGeoAPIURL(); url == "" {
		t.Error("Expected geo API URL from base config")
	}
}

func TestGetOpenAIConfigDefaults(t *testing.T) {
	ReloadConfigForTest()

	if model := GetOpenAIModel(); model == "" {
		t.Error("Expected a model name")
	}
	if maxTokens := GetOpenAIMaxTokens(); maxTokens != 100 {
		t.Errorf("Expected test max_tokens 100, got %d", maxTokens)
	}

	viper.Set("openai.model", "")
	defer viper.Set("openai.model", nil)
	if model := GetOpenAIModel(); model != "gpt-3.5-turbo" {
		t.Errorf("Expected default model, got %q", model)
	}
}

func TestGetGeocacheExpiration(t *testing.T) {
	ReloadConfigForTest()

	if exp := GetGeocacheExpiration(); exp != time.Minute {
		t.Errorf("Expected test expiration 1m, got %v", exp)
	}

	viper.Set("geocache.expiration", "not-a-duration")
	defer viper.Set("geocache.expiration", nil)
	if exp := GetGeocacheExpiration(); exp != 24*time.Hour {
		t.Errorf("Expected default 24h on invalid value, got %v", exp)
	}
}

func TestGetRateLimiterCleanupTimeout_Default(t *testing.T) {
	ReloadConfigForTest()

	viper.Set("rate_limiter.cleanup_timeout", "")
	defer viper.Set("rate_limiter.cleanup_timeout", nil)
	if d := GetRateLimiterCleanupTimeout(); d != 3*time.Minute {
		t.Errorf("Expected default 3m, got %v", d)
	}
}

func TestGetServerTimeout(t *testing.T) {
	ReloadConfigForTest()

	if d := GetServerTimeout("read_timeout"); d != 15*time.Second {
		t.Errorf("Expected 15s read timeout, got %v", d)
	}
	if d := GetServerTimeout("missing_key"); d != 0 {
		t.Errorf("Expected 0 for missing key, got %v", d)
	}
}

func TestGetLogger_Singleton(t *testing.T) {
	l1 := GetLogger()
	l2 := GetLogger()
	if l1 != l2 {
		t.Error("Expected the same logger instance")
	}
}
