package store

import (
	"slices"
	"time"

	"github.com/i474232898/upcoming-weather/internal/weather"
)

// FetchStatus tracks the outcome of the most recent forecast fetch.
type FetchStatus string

const (
	StatusIdle    FetchStatus = "idle"
	StatusPending FetchStatus = "pending"
	StatusSuccess FetchStatus = "success"
	StatusFailure FetchStatus = "failure"
)

// AppState is the whole state of the display.
// UpcomingWeather is nil until the first successful load.
type AppState struct {
	UpcomingWeather []weather.UpcomingWeatherItem `json:"upcomingWeather"`
	IsLoading       bool                          `json:"isLoading"`
	LastUpdated     time.Time                     `json:"lastUpdated"`
	Status          FetchStatus                   `json:"status"`
	LastError       string                        `json:"lastError,omitempty"`
}

// DefaultState is the state before any action has been applied.
func DefaultState() AppState {
	return AppState{Status: StatusIdle}
}

// HasWeather reports whether a forecast has been loaded at least once.
func (s AppState) HasWeather() bool {
	return s.UpcomingWeather != nil
}

func (s AppState) clone() AppState {
	s.UpcomingWeather = slices.Clone(s.UpcomingWeather)
	return s
}

// Action describes something that happened. The set of actions is closed.
type Action interface {
	isAction()
}

// Initialization is dispatched once when a store is created.
type Initialization struct{}

// LoadBegan marks the start of a forecast fetch.
type LoadBegan struct{}

// LoadComplete carries a freshly shaped forecast.
type LoadComplete struct {
	LastUpdated     time.Time
	UpcomingWeather []weather.UpcomingWeatherItem
}

// LoadFailed records a fetch that ended without data.
type LoadFailed struct {
	Err string
}

func (Initialization) isAction() {}
func (LoadBegan) isAction() {}
func (LoadComplete) isAction() {}
func (LoadFailed) isAction() {}

// Reducer computes the next state from the current one and an action.
type Reducer func(current *AppState, action Action) AppState

// Reduce is the display's reducer. A nil current state stands for DefaultState.
// It never mutates its input and never fails.
func Reduce(current *AppState, action Action) AppState {
	var next AppState
	if current == nil {
		next = DefaultState()
	} else {
		next = current.clone()
	}

	switch a := action.(type) {
	case LoadBegan:
		next.IsLoading = true
		next.Status = StatusPending
	case LoadComplete:
		next.IsLoading = false
		next.UpcomingWeather = slices.Clone(a.UpcomingWeather)
		if next.UpcomingWeather == nil {
			// a completed load always counts as loaded, even when empty
			next.UpcomingWeather = []weather.UpcomingWeatherItem{}
		}
		next.LastUpdated = a.LastUpdated
		next.Status = StatusSuccess
		next.LastError = ""
	case LoadFailed:
		next.IsLoading = false
		next.Status = StatusFailure
		next.LastError = a.Err
	case Initialization:
	}
	return next
}
