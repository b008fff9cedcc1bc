package model

import "time"

// TimeFrame is the requested time window of a weather question.
type TimeFrame string

const (
	TimeFrameNow      TimeFrame = "now"
	TimeFrameToday    TimeFrame = "today"
	TimeFrameTomorrow TimeFrame = "tomorrow"
	TimeFrameThisWeek TimeFrame = "this_week"
	TimeFrameNextWeek TimeFrame = "next_week"
	TimeFrameCustom   TimeFrame = "custom"
)

// IsValid reports whether t is one of the defined timeframe values.
func (t TimeFrame) IsValid() bool {
	switch t {
	case TimeFrameNow, TimeFrameToday, TimeFrameTomorrow,
		TimeFrameThisWeek, TimeFrameNextWeek, TimeFrameCustom:
		return true
	}
	return false
}

// WeatherType is the weather aspect a question is about.
type WeatherType string

const (
	WeatherTypeGeneral       WeatherType = "general"
	WeatherTypeTemperature   WeatherType = "temperature"
	WeatherTypePrecipitation WeatherType = "precipitation"
	WeatherTypeWind          WeatherType = "wind"
	WeatherTypeHumidity      WeatherType = "humidity"
	WeatherTypePressure      WeatherType = "pressure"
	WeatherTypeUVIndex       WeatherType = "uv_index"
)

// IsValid reports whether w is one of the defined weather type values.
func (w WeatherType) IsValid() bool {
	switch w {
	case WeatherTypeGeneral, WeatherTypeTemperature, WeatherTypePrecipitation,
		WeatherTypeWind, WeatherTypeHumidity, WeatherTypePressure, WeatherTypeUVIndex:
		return true
	}
	return false
}

// WeatherIntent is the structured interpretation of a free-text weather
// question. Confidence is always within [0,1]; adapters clamp it before
// constructing an intent.
type WeatherIntent struct {
	Location    string      `json:"location"`
	Timeframe   TimeFrame   `json:"timeframe"`
	WeatherType WeatherType `json:"weatherType"`
	Confidence  float64     `json:"confidence"`
}

// WeatherQuery captures one pipeline run: the raw text, its extracted
// intent, and the timestamp fixed at pipeline entry.
type WeatherQuery struct {
	OriginalText string        `json:"originalText"`
	Intent       WeatherIntent `json:"intent"`
	Timestamp    time.Time     `json:"timestamp"`
}

// QueryResponse is the terminal artifact of the query pipeline.
// WeatherData is nil only on total pipeline failure.
type QueryResponse struct {
	Query       WeatherQuery `json:"query"`
	Answer      string       `json:"answer"`
	WeatherData *WeatherData `json:"weatherData"`
	Confidence  float64      `json:"confidence"`
	Timestamp   time.Time    `json:"timestamp"`
}
