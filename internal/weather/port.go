package weather

import (
	"context"

	"weather-agent/internal/model"
)

// WeatherDataPort is the capability contract for resolving a location to
// weather data. Orchestration code depends on this interface only; concrete
// providers are injected at startup.
type WeatherDataPort interface {
	// GetCurrentWeather resolves a place name to coordinates and fetches the
	// current observation for them.
	GetCurrentWeather(ctx context.Context, location string) (*model.WeatherData, error)

	// GetWeatherByCoordinates fetches the current observation for known
	// coordinates, skipping geocoding.
	GetWeatherByCoordinates(ctx context.Context, latitude, longitude float64) (*model.WeatherData, error)

	// GetForecast returns up to days daily entries for the location, in
	// chronological order. Fewer entries are returned if the provider has
	// fewer.
	GetForecast(ctx context.Context, location string, days int) (*model.WeatherForecast, error)

	// SearchLocations returns up to five geocoding candidates in provider
	// order. The first candidate is the canonical match used by the other
	// operations; ambiguous names resolve to whichever the provider lists
	// first, a known precision limitation.
	SearchLocations(ctx context.Context, query string) ([]model.GeoLocation, error)

	// GetWeatherOverview returns the provider's textual weather summary for
	// the coordinates. It degrades to a fixed notice instead of failing.
	GetWeatherOverview(ctx context.Context, latitude, longitude float64) (string, error)
}
