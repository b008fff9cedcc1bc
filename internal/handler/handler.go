package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"weather-agent/internal/config"
	"weather-agent/internal/model"
)

var validate = validator.New()

func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		config.GetLogger().Errorw("could not encode json", "error", err)
	}
}

func writeErrorResponse(w http.ResponseWriter, statusCode int, errMsg string) {
	writeJSONResponse(w, statusCode, model.Response{
		Error:   &errMsg,
		Message: "Error",
	})
}

// HandleHealth reports service liveness.
func HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
