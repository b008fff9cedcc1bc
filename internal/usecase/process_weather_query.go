package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"weather-agent/internal/model"
	"weather-agent/internal/nlp"
	"weather-agent/internal/weather"
)

// ProcessWeatherQueryInterface abstracts the pipeline for handlers and tests.
type ProcessWeatherQueryInterface interface {
	Execute(ctx context.Context, queryText string) model.QueryResponse
}

// ProcessWeatherQueryUseCase is the pipeline orchestrator: raw text in,
// complete answered response out. Stages run strictly in order; each depends
// on the previous stage's output.
type ProcessWeatherQueryUseCase struct {
	weatherPort weather.WeatherDataPort
	nlpPort     nlp.NLPPort
	logger      *zap.SugaredLogger
}

func NewProcessWeatherQueryUseCase(weatherPort weather.WeatherDataPort, nlpPort nlp.NLPPort, logger *zap.SugaredLogger) *ProcessWeatherQueryUseCase {
	return &ProcessWeatherQueryUseCase{
		weatherPort: weatherPort,
		nlpPort:     nlpPort,
		logger:      logger,
	}
}

// Execute runs the pipeline inside a single failure boundary: whatever stage
// fails, the caller receives a complete, well-formed response with degraded
// informational content, never an error.
func (uc *ProcessWeatherQueryUseCase) Execute(ctx context.Context, queryText string) model.QueryResponse {
	timestamp := time.Now().UTC()

	response, err := uc.run(ctx, queryText, timestamp)
	if err != nil {
		uc.logger.Warnw("weather query pipeline failed",
			"query", queryText,
			"error", err,
		)
		return fallbackQueryResponse(queryText, timestamp)
	}
	return response
}

func (uc *ProcessWeatherQueryUseCase) run(ctx context.Context, queryText string, timestamp time.Time) (model.QueryResponse, error) {
	intent, err := uc.nlpPort.ExtractIntent(ctx, queryText)
	if err != nil {
		return model.QueryResponse{}, fmt.Errorf("extract intent: %w", err)
	}

	query := model.WeatherQuery{
		OriginalText: queryText,
		Intent:       intent,
		Timestamp:    timestamp,
	}

	data, err := uc.weatherPort.GetCurrentWeather(ctx, intent.Location)
	if err != nil {
		return model.QueryResponse{}, fmt.Errorf("get weather: %w", err)
	}

	answer, err := uc.nlpPort.GenerateResponse(ctx, data, queryText)
	if err != nil {
		return model.QueryResponse{}, fmt.Errorf("generate response: %w", err)
	}

	return model.QueryResponse{
		Query:       query,
		Answer:      answer,
		WeatherData: data,
		Confidence:  intent.Confidence,
		Timestamp:   timestamp,
	}, nil
}

// fallbackQueryResponse is the uniform low-confidence apology substituted at
// the pipeline boundary. It reuses the pipeline-entry timestamp.
func fallbackQueryResponse(queryText string, timestamp time.Time) model.QueryResponse {
	return model.QueryResponse{
		Query: model.WeatherQuery{
			OriginalText: queryText,
			Intent: model.WeatherIntent{
				Location:    "unknown",
				Timeframe:   model.TimeFrameNow,
				WeatherType: model.WeatherTypeGeneral,
				Confidence:  0,
			},
			Timestamp: timestamp,
		},
		Answer:      fmt.Sprintf("I'm sorry, I couldn't process your weather query: %q. Please try asking about the weather in a specific location.", queryText),
		WeatherData: nil,
		Confidence:  0,
		Timestamp:   timestamp,
	}
}
