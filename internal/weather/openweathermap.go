package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"weather-agent/internal/config"
	"weather-agent/internal/model"
	"weather-agent/internal/redis"
)

// Custom error types
var (
	ErrLocationNotFound = errors.New("location not found")
	ErrAPIKeyMissing    = errors.New("API key missing")
	ErrExternalAPI      = errors.New("external API error")
)

const (
	geocodeLimit      = 5
	defaultVisibility = 10 // km, when the provider omits visibility

	overviewUnavailable = "Weather overview not available"
	overviewEmpty       = "No overview available"
)

// OpenWeatherMapConfig holds the provider settings injected at construction.
type OpenWeatherMapConfig struct {
	APIKey     string
	BaseURL    string // One Call 3.0 base, e.g. https://api.openweathermap.org/data/3.0
	GeoBaseURL string // Geocoding base, e.g. https://api.openweathermap.org/geo/1.0
}

// geocodeCache is the slice of the Redis client the adapter needs. Resolved
// coordinates for a place name are cached; observations never are.
type geocodeCache interface {
	Get(ctx context.Context, key string) *redisv9.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redisv9.StatusCmd
}

// openWeatherMapAdapter implements WeatherDataPort against the OpenWeatherMap
// Geocoding and One Call 3.0 APIs.
type openWeatherMapAdapter struct {
	config     OpenWeatherMapConfig
	httpClient *http.Client
	cache      geocodeCache
	cacheTTL   time.Duration
}

// NewOpenWeatherMapAdapter creates the OpenWeatherMap-backed weather port.
// An optional HTTP client may be injected for testing.
func NewOpenWeatherMapAdapter(cfg OpenWeatherMapConfig, httpClient ...*http.Client) WeatherDataPort {
	client := &http.Client{Timeout: config.GetOpenWeatherTimeout()}
	if len(httpClient) > 0 && httpClient[0] != nil {
		client = httpClient[0]
	}
	return &openWeatherMapAdapter{
		config:     cfg,
		httpClient: client,
		cache:      redis.GetClient(),
		cacheTTL:   config.GetGeocacheExpiration(),
	}
}

// GetCurrentWeather resolves the location through geocoding, then fetches the
// observation by coordinates. The One Call endpoint only accepts coordinates,
// so the two-hop chain is structural, not a choice.
func (a *openWeatherMapAdapter) GetCurrentWeather(ctx context.Context, location string) (*model.WeatherData, error) {
	candidate, err := a.resolveLocation(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("fetch current weather for %q: %w", location, err)
	}

	data, err := a.GetWeatherByCoordinates(ctx, candidate.Latitude, candidate.Longitude)
	if err != nil {
		return nil, fmt.Errorf("fetch current weather for %q: %w", location, err)
	}
	return data, nil
}

func (a *openWeatherMapAdapter) GetWeatherByCoordinates(ctx context.Context, latitude, longitude float64) (*model.WeatherData, error) {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(latitude, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(longitude, 'f', -1, 64))
	values.Set("units", "metric")
	values.Set("exclude", "minutely,hourly,daily,alerts")

	var payload model.OneCallResponse
	if err := a.getJSON(ctx, a.config.BaseURL+"/onecall", values, &payload); err != nil {
		return nil, fmt.Errorf("fetch weather for coordinates %.4f,%.4f: %w", latitude, longitude, err)
	}
	if payload.Current == nil {
		return nil, fmt.Errorf("fetch weather for coordinates %.4f,%.4f: %w: missing current block", latitude, longitude, ErrExternalAPI)
	}

	return normalizeCurrent(&payload, latitude, longitude), nil
}

func (a *openWeatherMapAdapter) GetForecast(ctx context.Context, location string, days int) (*model.WeatherForecast, error) {
	candidate, err := a.resolveLocation(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("fetch forecast for %q: %w", location, err)
	}

	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(candidate.Latitude, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(candidate.Longitude, 'f', -1, 64))
	values.Set("units", "metric")
	values.Set("exclude", "minutely,alerts")

	var payload model.OneCallResponse
	if err := a.getJSON(ctx, a.config.BaseURL+"/onecall", values, &payload); err != nil {
		return nil, fmt.Errorf("fetch forecast for %q: %w", location, err)
	}

	return normalizeForecast(&payload, days, candidate), nil
}

func (a *openWeatherMapAdapter) SearchLocations(ctx context.Context, query string) ([]model.GeoLocation, error) {
	if cached, err := a.getCachedGeocode(ctx, query); err == nil {
		return cached, nil
	}

	values := url.Values{}
	values.Set("q", query)
	values.Set("limit", strconv.Itoa(geocodeLimit))

	var entries []model.GeoDirectEntry
	if err := a.getJSON(ctx, a.config.GeoBaseURL+"/direct", values, &entries); err != nil {
		return nil, fmt.Errorf("search locations for %q: %w", query, err)
	}

	locations := make([]model.GeoLocation, 0, len(entries))
	for _, e := range entries {
		locations = append(locations, model.GeoLocation{
			Name:      e.Name,
			Country:   e.Country,
			Latitude:  e.Lat,
			Longitude: e.Lon,
		})
	}

	a.cacheGeocode(ctx, query, locations)
	return locations, nil
}

// GetWeatherOverview fetches the One Call textual summary. Any failure
// degrades to a fixed notice so callers never have to branch on it.
func (a *openWeatherMapAdapter) GetWeatherOverview(ctx context.Context, latitude, longitude float64) (string, error) {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(latitude, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(longitude, 'f', -1, 64))

	var payload model.OneCallOverviewResponse
	if err := a.getJSON(ctx, a.config.BaseURL+"/onecall/overview", values, &payload); err != nil {
		return overviewUnavailable, nil
	}
	if payload.WeatherOverview == "" {
		return overviewEmpty, nil
	}
	return payload.WeatherOverview, nil
}

// resolveLocation returns the first geocoding candidate for the name.
func (a *openWeatherMapAdapter) resolveLocation(ctx context.Context, location string) (model.GeoLocation, error) {
	locations, err := a.SearchLocations(ctx, location)
	if err != nil {
		return model.GeoLocation{}, err
	}
	if len(locations) == 0 {
		return model.GeoLocation{}, fmt.Errorf("%w: %q", ErrLocationNotFound, location)
	}
	return locations[0], nil
}

// getJSON performs one GET against the provider, appending the API key.
// A single attempt per call, no retries, to keep query latency bounded.
func (a *openWeatherMapAdapter) getJSON(ctx context.Context, endpoint string, values url.Values, out interface{}) error {
	if a.config.APIKey == "" {
		return ErrAPIKeyMissing
	}
	values.Set("appid", a.config.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+values.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExternalAPI, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusNotFound {
			return ErrLocationNotFound
		}
		return fmt.Errorf("%w: status %d", ErrExternalAPI, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrExternalAPI, err)
	}
	return nil
}

func (a *openWeatherMapAdapter) getCachedGeocode(ctx context.Context, query string) ([]model.GeoLocation, error) {
	if a.cache == nil {
		return nil, errors.New("no cache")
	}
	val, err := a.cache.Get(ctx, geocodeCacheKey(query)).Result()
	if err != nil {
		return nil, err
	}
	var locations []model.GeoLocation
	if err := json.Unmarshal([]byte(val), &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// cacheGeocode stores resolved candidates best-effort; cache failures are
// invisible to callers.
func (a *openWeatherMapAdapter) cacheGeocode(ctx context.Context, query string, locations []model.GeoLocation) {
	if a.cache == nil || len(locations) == 0 {
		return
	}
	if b, err := json.Marshal(locations); err == nil {
		_ = a.cache.Set(ctx, geocodeCacheKey(query), b, a.cacheTTL).Err()
	}
}

func geocodeCacheKey(query string) string {
	return "geocode:" + strings.ToLower(strings.TrimSpace(query))
}

// normalizeCurrent converts a One Call payload into the domain observation.
// The One Call response carries no place name, so the timezone stands in for
// it and the country stays "Unknown".
func normalizeCurrent(payload *model.OneCallResponse, latitude, longitude float64) *model.WeatherData {
	c := payload.Current

	name := payload.Timezone
	if name == "" {
		name = "Unknown"
	}

	visibility := defaultVisibility
	if c.Visibility > 0 {
		visibility = roundHalfUp(c.Visibility / 1000)
	}

	condition, description, icon := firstCondition(c.Weather)

	return &model.WeatherData{
		Location: model.GeoLocation{
			Name:      name,
			Country:   "Unknown",
			Latitude:  latitude,
			Longitude: longitude,
		},
		Current: model.CurrentConditions{
			Temperature:   roundHalfUp(c.Temp),
			FeelsLike:     roundHalfUp(c.FeelsLike),
			Humidity:      c.Humidity,
			Pressure:      c.Pressure,
			Visibility:    visibility,
			UVIndex:       roundHalfUp(c.UVI),
			Condition:     condition,
			Description:   description,
			Icon:          icon,
			WindSpeed:     roundHalfUp(c.WindSpeed),
			WindDirection: c.WindDeg,
		},
		Timestamp: time.Unix(c.Dt, 0).UTC(),
	}
}

func normalizeForecast(payload *model.OneCallResponse, days int, loc model.GeoLocation) *model.WeatherForecast {
	daily := payload.Daily
	if days >= 0 && len(daily) > days {
		daily = daily[:days]
	}

	forecast := make([]model.ForecastDay, 0, len(daily))
	for _, d := range daily {
		var day model.ForecastDay
		day.Date = time.Unix(d.Dt, 0).UTC()
		day.Temperature.Min = roundHalfUp(d.Temp.Min)
		day.Temperature.Max = roundHalfUp(d.Temp.Max)
		day.Condition, day.Description, day.Icon = firstCondition(d.Weather)
		day.Precipitation.Probability = roundHalfUp(d.Pop * 100)
		day.Precipitation.Amount = d.Rain + d.Snow
		day.Wind.Speed = roundHalfUp(d.WindSpeed)
		day.Wind.Direction = d.WindDeg
		forecast = append(forecast, day)
	}

	return &model.WeatherForecast{
		Location: loc,
		Forecast: forecast,
	}
}

// roundHalfUp rounds halves toward positive infinity, so -2.5 becomes -2.
// math.Round would take -2.5 to -3.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func firstCondition(conditions []model.OneCallCondition) (condition, description, icon string) {
	if len(conditions) == 0 {
		return "", "", ""
	}
	return conditions[0].Main, conditions[0].Description, conditions[0].Icon
}
