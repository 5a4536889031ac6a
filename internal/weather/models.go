package weather

import (
	"strconv"
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown      Condition = "unknown"
	ConditionClear        Condition = "clear"
	ConditionPartlyCloudy Condition = "partly-cloudy"
	ConditionCloudy       Condition = "cloudy"
)

// UpcomingDays is how many days of forecast the display keeps.
const UpcomingDays = 4

// Location is the single place the display tracks.
// Name is only used for display; Lat/Lon drive the forecast request.
type Location struct {
	Name    string  `json:"name"`
	City    string  `json:"city,omitempty"`
	Country string  `json:"country,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Coordinates returns the "lat,lon" path segment used by the forecast provider.
func (l Location) Coordinates() string {
	return strconv.FormatFloat(l.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(l.Lon, 'f', -1, 64)
}

// DailyDataPoint is one raw entry of the provider's daily forecast collection.
type DailyDataPoint struct {
	Time            int64   `json:"time"` // unix seconds
	TemperatureLow  float64 `json:"temperatureLow"`
	TemperatureHigh float64 `json:"temperatureHigh"`
	Icon            string  `json:"icon"`
}

// UpcomingWeatherItem is a shaped forecast day as shown by the day selector.
type UpcomingWeatherItem struct {
	HighTemperature float64 `json:"highTemperature"`
	LowTemperature  float64 `json:"lowTemperature"`
	Date            int64   `json:"date"` // unix seconds
	Icon            string  `json:"icon"`
}

// Time returns Date as a time.Time in UTC.
func (u UpcomingWeatherItem) Time() time.Time {
	return time.Unix(u.Date, 0).UTC()
}
