package nlp

import (
	"context"

	"weather-agent/internal/model"
)

// NLPPort is the capability contract for turning free text into structured
// intent and weather data back into conversational text.
type NLPPort interface {
	// ExtractIntent interprets a free-text weather question. The OpenAI
	// adapter never returns a non-nil error: any provider or parse failure
	// degrades to a low-confidence fallback intent. The error return exists
	// so alternative implementations can surface hard failures.
	ExtractIntent(ctx context.Context, query string) (model.WeatherIntent, error)

	// GenerateResponse produces a conversational answer from an observation.
	// With nil data it returns a fixed apology quoting the original query,
	// without contacting the model.
	GenerateResponse(ctx context.Context, data *model.WeatherData, originalQuery string) (string, error)

	// ValidateQuery is a pure keyword gate used to avoid paid model calls
	// for obviously non-weather text. False negatives are acceptable.
	ValidateQuery(query string) bool

	// ExtractLocation extracts a single place name from text, best effort.
	// An empty string means no match.
	ExtractLocation(ctx context.Context, text string) (string, error)
}
