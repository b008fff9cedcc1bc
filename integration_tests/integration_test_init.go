package integrationtest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"

	"github.com/alicebob/miniredis/v2"
)

var miniRedisMock *miniredis.Miniredis

func createMockRedisServer() {
	if miniRedisMock != nil {
		return
	}
	m, err := miniredis.Run()
	if err != nil {
		panic(err)
	}
	miniRedisMock = m
}

// mockOWMApi serves the geocoding and One Call endpoints used by the weather
// adapter. Known locations resolve to a single candidate; anything else
// geocodes to an empty list.
func mockOWMApi() *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/geo/direct", func(w http.ResponseWriter, r *http.Request) {
		q := strings.ToLower(r.URL.Query().Get("q"))
		var candidates []map[string]interface{}
		switch {
		case strings.Contains(q, "paris"):
			candidates = []map[string]interface{}{
				{"name": "Paris", "country": "FR", "lat": 48.8566, "lon": 2.3522},
			}
		case strings.Contains(q, "london"):
			candidates = []map[string]interface{}{
				{"name": "London", "country": "GB", "lat": 51.5074, "lon": -0.1278},
			}
		default:
			candidates = []map[string]interface{}{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(candidates)
	})

	mux.HandleFunc("/data/onecall", func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]interface{}{
			"timezone": "Europe/Paris",
			"current": map[string]interface{}{
				"dt":         1700000000,
				"temp":       18.2,
				"feels_like": 17.6,
				"humidity":   80,
				"pressure":   1012,
				"visibility": 10000,
				"uvi":        2.1,
				"wind_speed": 4.4,
				"wind_deg":   220,
				"weather": []map[string]interface{}{
					{"main": "Rain", "description": "light rain", "icon": "10d"},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	})

	return httptest.NewServer(mux)
}

// openAICallCount counts completion calls so tests can assert the keyword
// gate and the nil-data short circuit never reach the model.
var openAICallCount atomic.Int64

// mockOpenAIApi serves chat completions. The canned reply depends on which
// adapter prompt arrives: intent extraction gets strict JSON, response
// generation gets conversational text.
func mockOpenAIApi() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		openAICallCount.Add(1)

		body, _ := io.ReadAll(r.Body)
		prompt := string(body)

		var content string
		switch {
		case strings.Contains(prompt, "Extract weather intent"):
			location := "Paris"
			if strings.Contains(prompt, "Atlantis") {
				location = "Atlantis"
			}
			content = `{"location": "` + location + `", "timeframe": "now", "weatherType": "general", "confidence": 0.9}`
		default:
			content = "It's a mild 18°C in Paris with light rain right now."
		}

		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}
