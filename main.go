package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weather-agent/internal/config"
	"weather-agent/internal/handler"
	"weather-agent/internal/middleware"
	"weather-agent/internal/nlp"
	"weather-agent/internal/usecase"
	"weather-agent/internal/weather"
)

// resolvePort picks the listen port: PORT env var first, then the configured
// server port, then 8080.
func resolvePort() string {
	port := os.Getenv("PORT")
	if port == "" {
		port = config.GetServerPort()
	}
	if port == "" {
		port = "8080"
	}
	return port
}

func main() {
	logger := config.GetLogger()
	defer func() { _ = logger.Sync() }()

	// Missing provider credentials are a hard startup failure, not
	// something the pipeline should discover per request.
	weatherAPIKey := config.GetOpenWeatherMapAPIKey()
	if weatherAPIKey == "" {
		logger.Fatal("OPENWEATHERMAP_API_KEY environment variable is required")
	}
	openAIAPIKey := config.GetOpenAIAPIKey()
	if openAIAPIKey == "" {
		logger.Fatal("OPENAI_API_KEY environment variable is required")
	}

	weatherPort := weather.NewOpenWeatherMapAdapter(weather.OpenWeatherMapConfig{
		APIKey:     weatherAPIKey,
		BaseURL:    config.GetOpenWeatherAPIURL(),
		GeoBaseURL: config.GetOpenWeatherGeoAPIURL(),
	})
	nlpPort := nlp.NewOpenAIAdapter(nlp.OpenAIConfig{
		APIKey:      openAIAPIKey,
		BaseURL:     config.GetOpenAIAPIURL(),
		Model:       config.GetOpenAIModel(),
		Temperature: config.GetOpenAITemperature(),
		MaxTokens:   config.GetOpenAIMaxTokens(),
	})

	processQuery := usecase.NewProcessWeatherQueryUseCase(weatherPort, nlpPort, logger)
	getCurrentWeather := usecase.NewGetCurrentWeatherUseCase(weatherPort)

	queryHandler := handler.NewQueryHandler(processQuery, nlpPort)
	weatherHandler := handler.NewWeatherHandler(getCurrentWeather)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /query", queryHandler.HandleQuery)
	mux.HandleFunc("GET /weather/{location}", weatherHandler.HandleWeather)
	mux.HandleFunc("GET /health", handler.HandleHealth)

	middleware.StartRateLimiterCleanup()
	root := middleware.RequestIDMiddleware(middleware.RateLimitMiddleware(mux))

	port := resolvePort()

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      root,
		ReadTimeout:  config.GetServerTimeout("read_timeout"),
		WriteTimeout: config.GetServerTimeout("write_timeout"),
	}

	go func() {
		logger.Infow("Weather agent running", "port", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("server stopped", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("error during shutdown", "error", err)
	}
}
