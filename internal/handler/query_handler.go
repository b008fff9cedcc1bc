package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"weather-agent/internal/model"
	"weather-agent/internal/nlp"
	"weather-agent/internal/usecase"
)

const nonWeatherAnswer = "I can only help with weather-related questions. Try asking about the weather in a specific location."

// QueryHandler serves POST /query: natural-language question in, answered
// QueryResponse out. The keyword gate runs before the pipeline so obviously
// non-weather text never triggers a model call.
type QueryHandler struct {
	Pipeline usecase.ProcessWeatherQueryInterface
	NLP      nlp.NLPPort
}

func NewQueryHandler(pipeline usecase.ProcessWeatherQueryInterface, nlpPort nlp.NLPPort) *QueryHandler {
	return &QueryHandler{
		Pipeline: pipeline,
		NLP:      nlpPort,
	}
}

type queryRequest struct {
	Query string `json:"query" validate:"required,min=1"`
}

// queryResponseBody is the wire shape of an answered query.
type queryResponseBody struct {
	Query       string              `json:"query"`
	Answer      string              `json:"answer"`
	Intent      model.WeatherIntent `json:"intent"`
	WeatherData *model.WeatherData  `json:"weatherData"`
	Timestamp   time.Time           `json:"timestamp"`
}

func toQueryResponseBody(resp model.QueryResponse) queryResponseBody {
	return queryResponseBody{
		Query:       resp.Query.OriginalText,
		Answer:      resp.Answer,
		Intent:      resp.Query.Intent,
		WeatherData: resp.WeatherData,
		Timestamp:   resp.Timestamp,
	}
}

func (h *QueryHandler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Missing 'query' field")
		return
	}

	if !h.NLP.ValidateQuery(req.Query) {
		writeJSONResponse(w, http.StatusOK, toQueryResponseBody(gatedResponse(req.Query)))
		return
	}

	response := h.Pipeline.Execute(r.Context(), req.Query)
	writeJSONResponse(w, http.StatusOK, toQueryResponseBody(response))
}

// gatedResponse is the well-formed zero-confidence answer for text that does
// not pass the weather keyword gate.
func gatedResponse(queryText string) model.QueryResponse {
	timestamp := time.Now().UTC()
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
		Answer:      nonWeatherAnswer,
		WeatherData: nil,
		Confidence:  0,
		Timestamp:   timestamp,
	}
}
