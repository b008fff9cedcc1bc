package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"weather-agent/internal/config"
	"weather-agent/internal/model"
)

var (
	ErrModelRequestFailed = errors.New("model request failed")
	ErrEmptyCompletion    = errors.New("empty completion")
)

const (
	fallbackConfidence = 0.1
	defaultConfidence  = 0.5

	locationExtractionMaxTokens = 50
)

// weatherKeywords is the fixed vocabulary for the query gate.
var weatherKeywords = []string{
	"weather", "temperature", "rain", "snow", "wind", "humidity",
	"pressure", "forecast", "cloudy", "sunny", "storm", "degrees",
	"hot", "cold", "warm", "cool", "precipitation", "umbrella",
}

// OpenAIConfig holds the model provider settings injected at construction.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
}

// openAIAdapter implements NLPPort against the OpenAI chat completions API.
type openAIAdapter struct {
	config     OpenAIConfig
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// NewOpenAIAdapter creates the OpenAI-backed NLP port. An optional HTTP
// client may be injected for testing.
func NewOpenAIAdapter(cfg OpenAIConfig, httpClient ...*http.Client) NLPPort {
	client := &http.Client{Timeout: config.GetOpenAITimeout()}
	if len(httpClient) > 0 && httpClient[0] != nil {
		client = httpClient[0]
	}
	return &openAIAdapter{
		config:     cfg,
		httpClient: client,
		logger:     config.GetLogger(),
	}
}

// ExtractIntent asks the model for strict JSON and treats the reply as
// untrusted: every field is validated against its allowed domain and
// replaced with a safe default on violation.
func (a *openAIAdapter) ExtractIntent(ctx context.Context, query string) (model.WeatherIntent, error) {
	prompt := fmt.Sprintf(`Extract weather intent from this query: %q

You must respond with a valid JSON object containing:
- location: string (extract city/location, if none found use "current location")
- timeframe: one of: "now", "today", "tomorrow", "this_week", "next_week", "custom"
- weatherType: one of: "general", "temperature", "precipitation", "wind", "humidity", "pressure", "uv_index"
- confidence: number between 0-1

Examples:
Query: "What's the weather in Paris?"
Response: {"location": "Paris", "timeframe": "now", "weatherType": "general", "confidence": 0.9}

Only respond with the JSON object, no other text:`, query)

	content, err := a.complete(ctx, prompt, a.config.MaxTokens)
	if err != nil {
		a.logger.Warnw("intent extraction failed, using fallback intent", "error", err)
		return fallbackIntent(), nil
	}

	var parsed struct {
		Location    string   `json:"location"`
		Timeframe   string   `json:"timeframe"`
		WeatherType string   `json:"weatherType"`
		Confidence  *float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		a.logger.Warnw("intent extraction returned non-JSON, using fallback intent", "error", err)
		return fallbackIntent(), nil
	}

	location := parsed.Location
	if location == "" {
		location = "current location"
	}

	confidence := defaultConfidence
	if parsed.Confidence != nil {
		confidence = *parsed.Confidence
	}

	return model.WeatherIntent{
		Location:    location,
		Timeframe:   coerceTimeFrame(parsed.Timeframe),
		WeatherType: coerceWeatherType(parsed.WeatherType),
		Confidence:  clamp01(confidence),
	}, nil
}

// GenerateResponse never surfaces a model error to the caller: with nil data
// it answers with a fixed apology, and a failed model call falls back to a
// deterministic sentence built from the observation.
func (a *openAIAdapter) GenerateResponse(ctx context.Context, data *model.WeatherData, originalQuery string) (string, error) {
	if data == nil {
		return fmt.Sprintf("I could not retrieve weather data for your query: %q. Please check the location and try again.", originalQuery), nil
	}

	prompt := fmt.Sprintf(`Generate a natural, conversational weather response.

User Query: %q
Location: %s
Temperature: %d°C
Description: %s
Humidity: %d%%

Keep response under 100 words and be conversational.`,
		originalQuery,
		data.Location.Name,
		data.Current.Temperature,
		data.Current.Description,
		data.Current.Humidity,
	)

	content, err := a.complete(ctx, prompt, a.config.MaxTokens)
	if err != nil {
		a.logger.Warnw("response generation failed, using templated answer", "error", err)
		return templatedAnswer(data), nil
	}
	return content, nil
}

// ValidateQuery is a conservative keyword gate, not semantic understanding.
func (a *openAIAdapter) ValidateQuery(query string) bool {
	lowered := strings.ToLower(query)
	for _, keyword := range weatherKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

func (a *openAIAdapter) ExtractLocation(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(`Extract the location/city name from this text: %q

If there's a clear location mentioned, return just the city/location name.
If no location is found, return null.
Only respond with the location name or null, no other text.`, text)

	content, err := a.complete(ctx, prompt, locationExtractionMaxTokens)
	if err != nil {
		a.logger.Warnw("location extraction failed", "error", err)
		return "", nil
	}
	if content == "null" {
		return "", nil
	}
	return content, nil
}

// complete performs a single-turn chat completion and returns the trimmed
// assistant message.
func (a *openAIAdapter) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	reqBody := model.ChatCompletionRequest{
		Model:       a.config.Model,
		Messages:    []model.ChatMessage{{Role: "user", Content: prompt}},
		Temperature: a.config.Temperature,
		MaxTokens:   maxTokens,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrModelRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrModelRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.config.APIKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrModelRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrModelRequestFailed, resp.StatusCode)
	}

	var completion model.ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("%w: decode: %v", ErrModelRequestFailed, err)
	}
	if len(completion.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}

func fallbackIntent() model.WeatherIntent {
	return model.WeatherIntent{
		Location:    "current location",
		Timeframe:   model.TimeFrameNow,
		WeatherType: model.WeatherTypeGeneral,
		Confidence:  fallbackConfidence,
	}
}

func templatedAnswer(data *model.WeatherData) string {
	return fmt.Sprintf("The weather in %s is %d°C with %s.",
		data.Location.Name, data.Current.Temperature, data.Current.Description)
}

func coerceTimeFrame(value string) model.TimeFrame {
	tf := model.TimeFrame(value)
	if !tf.IsValid() {
		return model.TimeFrameNow
	}
	return tf
}

func coerceWeatherType(value string) model.WeatherType {
	wt := model.WeatherType(value)
	if !wt.IsValid() {
		return model.WeatherTypeGeneral
	}
	return wt
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
