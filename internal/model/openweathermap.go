package model

// GeoDirectEntry is one result from the OpenWeatherMap Geocoding API
// (geo/1.0/direct).
type GeoDirectEntry struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	State   string  `json:"state"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// OneCallResponse is the subset of the One Call 3.0 payload this service
// consumes. Current is present unless excluded; Daily only on forecast calls.
type OneCallResponse struct {
	Timezone string          `json:"timezone"`
	Current  *OneCallCurrent `json:"current"`
	Daily    []OneCallDaily  `json:"daily"`
}

type OneCallCurrent struct {
	Dt         int64              `json:"dt"`
	Temp       float64            `json:"temp"`
	FeelsLike  float64            `json:"feels_like"`
	Humidity   int                `json:"humidity"`
	Pressure   int                `json:"pressure"`
	Visibility float64            `json:"visibility"`
	UVI        float64            `json:"uvi"`
	WindSpeed  float64            `json:"wind_speed"`
	WindDeg    int                `json:"wind_deg"`
	Weather    []OneCallCondition `json:"weather"`
}

type OneCallCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type OneCallDaily struct {
	Dt   int64 `json:"dt"`
	Temp struct {
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	} `json:"temp"`
	Weather   []OneCallCondition `json:"weather"`
	Pop       float64            `json:"pop"`
	Rain      float64            `json:"rain"`
	Snow      float64            `json:"snow"`
	WindSpeed float64            `json:"wind_speed"`
	WindDeg   int                `json:"wind_deg"`
}

// OneCallOverviewResponse is the /onecall/overview payload.
type OneCallOverviewResponse struct {
	WeatherOverview string `json:"weather_overview"`
}
