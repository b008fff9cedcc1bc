package usecase

import (
	"context"

	"weather-agent/internal/model"
	"weather-agent/internal/weather"
)

// ValidationErrMissingLocation is returned when neither a location name nor
// a full coordinate pair is supplied.
const ValidationErrMissingLocation = "Either location name or coordinates (latitude and longitude) must be provided"

// GetCurrentWeatherRequest identifies the place to observe. Location takes
// precedence over coordinates when both are present.
type GetCurrentWeatherRequest struct {
	Location  string
	Latitude  *float64
	Longitude *float64
}

// GetCurrentWeatherResponse is a structured result; port failures are
// reported through Error, never raised.
type GetCurrentWeatherResponse struct {
	Success bool
	Data    *model.WeatherData
	Error   string
}

// GetCurrentWeatherInterface abstracts the use case for handlers and tests.
type GetCurrentWeatherInterface interface {
	Execute(ctx context.Context, req GetCurrentWeatherRequest) GetCurrentWeatherResponse
}

// GetCurrentWeatherUseCase validates a location/coordinate request and
// delegates to the weather data port.
type GetCurrentWeatherUseCase struct {
	weatherPort weather.WeatherDataPort
}

func NewGetCurrentWeatherUseCase(weatherPort weather.WeatherDataPort) *GetCurrentWeatherUseCase {
	return &GetCurrentWeatherUseCase{weatherPort: weatherPort}
}

func (uc *GetCurrentWeatherUseCase) Execute(ctx context.Context, req GetCurrentWeatherRequest) GetCurrentWeatherResponse {
	if req.Location == "" && (req.Latitude == nil || req.Longitude == nil) {
		return GetCurrentWeatherResponse{
			Success: false,
			Error:   ValidationErrMissingLocation,
		}
	}

	var (
		data *model.WeatherData
		err  error
	)
	if req.Location != "" {
		data, err = uc.weatherPort.GetCurrentWeather(ctx, req.Location)
	} else {
		data, err = uc.weatherPort.GetWeatherByCoordinates(ctx, *req.Latitude, *req.Longitude)
	}
	if err != nil {
		return GetCurrentWeatherResponse{
			Success: false,
			Error:   err.Error(),
		}
	}

	return GetCurrentWeatherResponse{
		Success: true,
		Data:    data,
	}
}
