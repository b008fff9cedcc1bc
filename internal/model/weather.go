package model

import "time"

// GeoLocation is one geocoding candidate for a place name.
type GeoLocation struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CurrentConditions is a normalized current-weather snapshot. Temperature,
// FeelsLike, UVIndex and WindSpeed are rounded to integers; Visibility is in
// kilometers; Pressure and Humidity pass through from the provider.
type CurrentConditions struct {
	Temperature   int    `json:"temperature"`
	FeelsLike     int    `json:"feelsLike"`
	Humidity      int    `json:"humidity"`
	Pressure      int    `json:"pressure"`
	Visibility    int    `json:"visibility"`
	UVIndex       int    `json:"uvIndex"`
	Condition     string `json:"condition"`
	Description   string `json:"description"`
	Icon          string `json:"icon"`
	WindSpeed     int    `json:"windSpeed"`
	WindDirection int    `json:"windDirection"`
}

// WeatherData is a current-conditions observation tied to coordinates and a
// capture timestamp. Location always carries coordinates; the display name
// and country are "Unknown" when unresolved.
type WeatherData struct {
	Location  GeoLocation       `json:"location"`
	Current   CurrentConditions `json:"current"`
	Timestamp time.Time         `json:"timestamp"`
}

// ForecastDay is one daily forecast entry.
type ForecastDay struct {
	Date        time.Time `json:"date"`
	Temperature struct {
		Min int `json:"min"`
		Max int `json:"max"`
	} `json:"temperature"`
	Condition     string `json:"condition"`
	Description   string `json:"description"`
	Icon          string `json:"icon"`
	Precipitation struct {
		Probability int     `json:"probability"`
		Amount      float64 `json:"amount"`
	} `json:"precipitation"`
	Wind struct {
		Speed     int `json:"speed"`
		Direction int `json:"direction"`
	} `json:"wind"`
}

// WeatherForecast is a chronologically ascending sequence of daily entries,
// truncated to the requested day count.
type WeatherForecast struct {
	Location GeoLocation   `json:"location"`
	Forecast []ForecastDay `json:"forecast"`
}
