package handler

import (
	"net/http"
	"strings"

	"weather-agent/internal/usecase"
)

// WeatherHandler serves GET /weather/{location} through the
// current-weather use case.
type WeatherHandler struct {
	GetCurrentWeather usecase.GetCurrentWeatherInterface
}

func NewWeatherHandler(uc usecase.GetCurrentWeatherInterface) *WeatherHandler {
	return &WeatherHandler{GetCurrentWeather: uc}
}

func (h *WeatherHandler) HandleWeather(w http.ResponseWriter, r *http.Request) {
	location := r.PathValue("location")
	if location == "" {
		writeErrorResponse(w, http.StatusBadRequest, "Missing 'location' path parameter")
		return
	}

	resp := h.GetCurrentWeather.Execute(r.Context(), usecase.GetCurrentWeatherRequest{Location: location})
	if !resp.Success {
		status := http.StatusInternalServerError
		if resp.Error == usecase.ValidationErrMissingLocation {
			status = http.StatusBadRequest
		} else if strings.Contains(resp.Error, "not found") {
			status = http.StatusNotFound
		}
		writeErrorResponse(w, status, resp.Error)
		return
	}

	// WeatherData marshals as {location, current, timestamp}.
	writeJSONResponse(w, http.StatusOK, resp.Data)
}
