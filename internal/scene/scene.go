// Package scene derives the display's view models from the store state.
//
// A scene is either the loading screen, shown until the first forecast has
// been loaded, or the weather screen: a panel for the selected day and one
// tile per upcoming day.
package scene

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/i474232898/upcoming-weather/internal/store"
	"github.com/i474232898/upcoming-weather/internal/weather"
)

// Kind tells which screen to show.
type Kind string

const (
	KindLoading Kind = "loading"
	KindWeather Kind = "weather"
)

// BackgroundColor is the screen background for both scenes.
const BackgroundColor = "#AF6CA8"

// DayColors are the tile backgrounds, by position.
var DayColors = []string{"#D8ABCD", "#D19FC5", "#C48AB9", "#B97AB0"}

// IndexError is returned when the selected day does not exist in the loaded
// forecast.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("selected day %d out of range [0,%d)", e.Index, e.Len)
}

// Options carries what the scene needs besides the store state.
type Options struct {
	Location string
	Now      time.Time
	TimeZone *time.Location // nil means time.Local
}

// Scene is the top-level view model.
type Scene struct {
	Kind       Kind          `json:"kind"`
	Background string        `json:"background"`
	Weather    *WeatherScene `json:"weather,omitempty"`
}

// WeatherScene is shown once a forecast is available. Stale data stays on
// screen while IsLoading is set.
type WeatherScene struct {
	SelectedDay int            `json:"selectedDay"`
	IsLoading   bool           `json:"isLoading"`
	Status      string         `json:"status"`
	LastError   string         `json:"lastError,omitempty"`
	Current     CurrentWeather `json:"current"`
	Days        []DayItem      `json:"days"`
}

// CurrentWeather is the hero panel for the selected day.
type CurrentWeather struct {
	Location           string    `json:"location"`
	Date               time.Time `json:"date"`
	AverageTemperature int       `json:"averageTemperature"`
	DayLowTemperature  float64   `json:"dayLowTemperature"`
	DayHighTemperature float64   `json:"dayHighTemperature"`
	IsRefreshing       bool      `json:"isRefreshing"`
	LastUpdated        time.Time `json:"lastUpdated"`
	UpdatedLabel       string    `json:"updatedLabel"`
	UpdatedAgo         string    `json:"updatedAgo"`
}

// DayItem is one tile of the day selector.
type DayItem struct {
	Date               int64  `json:"date"`
	DayName            string `json:"dayName"`
	Icon               string `json:"icon"`
	Glyph              string `json:"glyph"`
	AverageTemperature int    `json:"averageTemperature"`
	BackgroundColor    string `json:"backgroundColor"`
	IsSelected         bool   `json:"isSelected"`
}

// Build derives the scene for state with the given day selected.
func Build(state store.AppState, selectedDay int, opts Options) (Scene, error) {
	if !state.HasWeather() {
		return Scene{Kind: KindLoading, Background: BackgroundColor}, nil
	}

	days := state.UpcomingWeather
	if selectedDay < 0 || selectedDay >= len(days) {
		return Scene{}, &IndexError{Index: selectedDay, Len: len(days)}
	}

	tz := opts.TimeZone
	if tz == nil {
		tz = time.Local
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	selected := days[selectedDay]
	ws := &WeatherScene{
		SelectedDay: selectedDay,
		IsLoading:   state.IsLoading,
		Status:      string(state.Status),
		LastError:   state.LastError,
		Current: CurrentWeather{
			Location:           opts.Location,
			Date:               now.In(tz),
			AverageTemperature: average(selected),
			DayLowTemperature:  selected.LowTemperature,
			DayHighTemperature: selected.HighTemperature,
			IsRefreshing:       state.IsLoading,
			LastUpdated:        state.LastUpdated,
			UpdatedLabel:       "Updated " + updatedLabel(state.LastUpdated.In(tz)),
			UpdatedAgo:         humanize.RelTime(state.LastUpdated, now, "ago", "from now"),
		},
		Days: make([]DayItem, 0, len(days)),
	}

	for i, day := range days {
		ws.Days = append(ws.Days, DayItem{
			Date:               day.Date,
			DayName:            time.Unix(day.Date, 0).In(tz).Format("Monday"),
			Icon:               day.Icon,
			Glyph:              weather.GlyphForIcon(day.Icon),
			AverageTemperature: average(day),
			BackgroundColor:    dayColor(i),
			IsSelected:         i == selectedDay,
		})
	}

	return Scene{Kind: KindWeather, Background: BackgroundColor, Weather: ws}, nil
}

func average(day weather.UpcomingWeatherItem) int {
	return int(math.Floor((day.HighTemperature + day.LowTemperature) / 2))
}

// dayColor has no color past the palette.
func dayColor(i int) string {
	if i < len(DayColors) {
		return DayColors[i]
	}
	return ""
}

// updatedLabel renders t like "Saturday, Oct 17th 09:5 am". The minute is not
// zero-padded.
func updatedLabel(t time.Time) string {
	return t.Format("Monday, Jan ") + humanize.Ordinal(t.Day()) + " " +
		t.Format("03") + ":" + strconv.Itoa(t.Minute()) + " " + t.Format("pm")
}
