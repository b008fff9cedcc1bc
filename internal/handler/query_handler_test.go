package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"weather-agent/internal/model"
	"weather-agent/internal/nlp"
	"weather-agent/internal/usecase"
)

type mockPipeline struct {
	calls    int
	response model.QueryResponse
}

func (m *mockPipeline) Execute(ctx context.Context, queryText string) model.QueryResponse {
	m.calls++
	return m.response
}

var _ usecase.ProcessWeatherQueryInterface = (*mockPipeline)(nil)

type mockNLP struct {
	valid bool
}

func (m *mockNLP) ExtractIntent(ctx context.Context, query string) (model.WeatherIntent, error) {
	return model.WeatherIntent{}, nil
}

func (m *mockNLP) GenerateResponse(ctx context.Context, data *model.WeatherData, originalQuery string) (string, error) {
	return "", nil
}

func (m *mockNLP) ValidateQuery(query string) bool { return m.valid }

func (m *mockNLP) ExtractLocation(ctx context.Context, text string) (string, error) {
	return "", nil
}

var _ nlp.NLPPort = (*mockNLP)(nil)

func postQuery(t *testing.T, h *QueryHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleQuery(rec, req)
	return rec
}

func TestHandleQuery_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"Malformed JSON", "{not json"},
		{"Missing query field", "{}"},
		{"Empty query", `{"query": ""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipeline := &mockPipeline{}
			h := NewQueryHandler(pipeline, &mockNLP{valid: true})

			rec := postQuery(t, h, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rec.Code)
			}
			if pipeline.calls != 0 {
				t.Error("Expected pipeline not to run on invalid input")
			}
		})
	}
}

func TestHandleQuery_NonWeatherQueryGated(t *testing.T) {
	pipeline := &mockPipeline{}
	h := NewQueryHandler(pipeline, &mockNLP{valid: false})

	rec := postQuery(t, h, `{"query": "tell me a joke"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if pipeline.calls != 0 {
		t.Error("Expected pipeline skipped for gated query")
	}

	var body queryResponseBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Answer != nonWeatherAnswer {
		t.Errorf("Expected gate answer, got %q", body.Answer)
	}
	if body.Query != "tell me a joke" {
		t.Errorf("Expected original query echoed, got %q", body.Query)
	}
	if body.Intent.Confidence != 0 || body.WeatherData != nil {
		t.Error("Expected zero-confidence response without weather data")
	}
}

func TestHandleQuery_PipelineResponse(t *testing.T) {
	timestamp := time.Now().UTC()
	observation := &model.WeatherData{
		Location: model.GeoLocation{Name: "Paris", Country: "FR", Latitude: 48.85, Longitude: 2.35},
		Current:  model.CurrentConditions{Temperature: 18, Description: "light rain"},
	}
	pipeline := &mockPipeline{
		response: model.QueryResponse{
			Query: model.WeatherQuery{
				OriginalText: "What's the weather in Paris?",
				Intent: model.WeatherIntent{
					Location:    "Paris",
					Timeframe:   model.TimeFrameNow,
					WeatherType: model.WeatherTypeGeneral,
					Confidence:  0.9,
				},
				Timestamp: timestamp,
			},
			Answer:      "It's 18°C and rainy in Paris.",
			WeatherData: observation,
			Confidence:  0.9,
			Timestamp:   timestamp,
		},
	}
	h := NewQueryHandler(pipeline, &mockNLP{valid: true})

	rec := postQuery(t, h, `{"query": "What's the weather in Paris?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if pipeline.calls != 1 {
		t.Errorf("Expected one pipeline run, got %d", pipeline.calls)
	}

	var body queryResponseBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Query != "What's the weather in Paris?" {
		t.Errorf("Unexpected query %q", body.Query)
	}
	if body.Intent.Location != "Paris" || body.Intent.Confidence != 0.9 {
		t.Errorf("Unexpected intent %+v", body.Intent)
	}
	if body.WeatherData == nil {
		t.Error("Expected weather data in response")
	}
}
