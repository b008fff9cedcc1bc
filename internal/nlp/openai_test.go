package nlp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"weather-agent/internal/model"
)

// newMockOpenAI returns an adapter wired to a fake chat-completions server
// and a counter of calls made.
func newMockOpenAI(t *testing.T, handler http.HandlerFunc) (*openAIAdapter, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	adapter := &openAIAdapter{
		config: OpenAIConfig{
			APIKey:      "testkey",
			BaseURL:     srv.URL,
			Model:       "gpt-3.5-turbo",
			Temperature: 0.1,
			MaxTokens:   100,
		},
		httpClient: srv.Client(),
		logger:     zap.NewNop().Sugar(),
	}
	return adapter, &calls
}

func completionHandler(t *testing.T, content string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func TestExtractIntent_Success(t *testing.T) {
	adapter, _ := newMockOpenAI(t, completionHandler(t,
		`{"location": "Paris", "timeframe": "now", "weatherType": "general", "confidence": 0.9}`))

	intent, err := adapter.ExtractIntent(context.Background(), "What's the weather in Paris?")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if intent.Location != "Paris" {
		t.Errorf("Expected Paris, got %q", intent.Location)
	}
	if intent.Timeframe != model.TimeFrameNow || intent.WeatherType != model.WeatherTypeGeneral {
		t.Errorf("Unexpected enums %q/%q", intent.Timeframe, intent.WeatherType)
	}
	if intent.Confidence != 0.9 {
		t.Errorf("Expected confidence 0.9, got %f", intent.Confidence)
	}
}

func TestExtractIntent_CoercesAdversarialOutput(t *testing.T) {
	tests := []struct {
		name           string
		content        string
		wantLocation   string
		wantTimeframe  model.TimeFrame
		wantType       model.WeatherType
		wantConfidence float64
	}{
		{
			name:           "Unknown enum values",
			content:        `{"location": "Berlin", "timeframe": "yesterday", "weatherType": "apocalypse", "confidence": 0.7}`,
			wantLocation:   "Berlin",
			wantTimeframe:  model.TimeFrameNow,
			wantType:       model.WeatherTypeGeneral,
			wantConfidence: 0.7,
		},
		{
			name:           "Confidence above range",
			content:        `{"location": "Berlin", "timeframe": "today", "weatherType": "wind", "confidence": 12.5}`,
			wantLocation:   "Berlin",
			wantTimeframe:  model.TimeFrameToday,
			wantType:       model.WeatherTypeWind,
			wantConfidence: 1,
		},
		{
			name:           "Confidence below range",
			content:        `{"location": "Berlin", "timeframe": "today", "weatherType": "wind", "confidence": -3}`,
			wantLocation:   "Berlin",
			wantTimeframe:  model.TimeFrameToday,
			wantType:       model.WeatherTypeWind,
			wantConfidence: 0,
		},
		{
			name:           "Missing fields",
			content:        `{}`,
			wantLocation:   "current location",
			wantTimeframe:  model.TimeFrameNow,
			wantType:       model.WeatherTypeGeneral,
			wantConfidence: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter, _ := newMockOpenAI(t, completionHandler(t, tt.content))
			intent, err := adapter.ExtractIntent(context.Background(), "weather?")
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if intent.Location != tt.wantLocation {
				t.Errorf("Expected location %q, got %q", tt.wantLocation, intent.Location)
			}
			if intent.Timeframe != tt.wantTimeframe {
				t.Errorf("Expected timeframe %q, got %q", tt.wantTimeframe, intent.Timeframe)
			}
			if intent.WeatherType != tt.wantType {
				t.Errorf("Expected weather type %q, got %q", tt.wantType, intent.WeatherType)
			}
			if intent.Confidence != tt.wantConfidence {
				t.Errorf("Expected confidence %f, got %f", tt.wantConfidence, intent.Confidence)
			}
		})
	}
}

func TestExtractIntent_NonJSONFallsBack(t *testing.T) {
	adapter, _ := newMockOpenAI(t, completionHandler(t, "Sure! The intent is about Paris weather."))

	intent, err := adapter.ExtractIntent(context.Background(), "weather in Paris")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if intent.Location != "current location" || intent.Confidence != 0.1 {
		t.Errorf("Expected fallback intent, got %+v", intent)
	}
}

func TestExtractIntent_UpstreamErrorFallsBack(t *testing.T) {
	adapter, _ := newMockOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	intent, err := adapter.ExtractIntent(context.Background(), "weather in Paris")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if intent.Location != "current location" || intent.Timeframe != model.TimeFrameNow ||
		intent.WeatherType != model.WeatherTypeGeneral || intent.Confidence != 0.1 {
		t.Errorf("Expected fallback intent, got %+v", intent)
	}
}

func sampleObservation() *model.WeatherData {
	return &model.WeatherData{
		Location: model.GeoLocation{Name: "Paris", Country: "FR", Latitude: 48.85, Longitude: 2.35},
		Current: model.CurrentConditions{
			Temperature: 18,
			Description: "light rain",
			Humidity:    80,
		},
	}
}

func TestGenerateResponse_NilDataSkipsModel(t *testing.T) {
	adapter, calls := newMockOpenAI(t, completionHandler(t, "should not be called"))

	answer, err := adapter.GenerateResponse(context.Background(), nil, "weather in Atlantis?")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if *calls != 0 {
		t.Errorf("Expected no model call for nil data, got %d", *calls)
	}
	if !strings.Contains(answer, "could not retrieve weather data") {
		t.Errorf("Expected apology, got %q", answer)
	}
	if !strings.Contains(answer, "weather in Atlantis?") {
		t.Errorf("Expected answer to reference the original query, got %q", answer)
	}
}

func TestGenerateResponse_Success(t *testing.T) {
	adapter, _ := newMockOpenAI(t, completionHandler(t, "It's a mild 18°C in Paris with light rain, so bring an umbrella!"))

	answer, err := adapter.GenerateResponse(context.Background(), sampleObservation(), "weather in Paris?")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(answer, "umbrella") {
		t.Errorf("Expected model answer, got %q", answer)
	}
}

func TestGenerateResponse_ModelFailureUsesTemplate(t *testing.T) {
	adapter, _ := newMockOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	answer, err := adapter.GenerateResponse(context.Background(), sampleObservation(), "weather in Paris?")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if answer != "The weather in Paris is 18°C with light rain." {
		t.Errorf("Expected templated answer, got %q", answer)
	}
}

func TestValidateQuery(t *testing.T) {
	adapter := &openAIAdapter{logger: zap.NewNop().Sugar()}

	tests := []struct {
		query string
		want  bool
	}{
		{"What's the weather in Paris?", true},
		{"Will it rain tomorrow?", true},
		{"Should I bring an umbrella?", true},
		{"HOW HOT IS IT TODAY", true},
		{"Tell me a joke", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := adapter.ValidateQuery(tt.query); got != tt.want {
			t.Errorf("ValidateQuery(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestExtractLocation(t *testing.T) {
	t.Run("Location found", func(t *testing.T) {
		adapter, _ := newMockOpenAI(t, completionHandler(t, "Paris"))
		loc, err := adapter.ExtractLocation(context.Background(), "weather in Paris?")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if loc != "Paris" {
			t.Errorf("Expected Paris, got %q", loc)
		}
	})

	t.Run("No location", func(t *testing.T) {
		adapter, _ := newMockOpenAI(t, completionHandler(t, "null"))
		loc, err := adapter.ExtractLocation(context.Background(), "is it cold?")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if loc != "" {
			t.Errorf("Expected empty location, got %q", loc)
		}
	})

	t.Run("Upstream failure", func(t *testing.T) {
		adapter, _ := newMockOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		loc, err := adapter.ExtractLocation(context.Background(), "is it cold?")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if loc != "" {
			t.Errorf("Expected empty location on failure, got %q", loc)
		}
	})
}
