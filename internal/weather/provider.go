package weather

import (
	"context"
	"fmt"
)

// ForecastProvider abstracts a daily forecast source (e.g. Dark Sky).
type ForecastProvider interface {
	Name() string
	FetchDaily(ctx context.Context, loc Location) ([]DailyDataPoint, error)
}

// FetchError reports a failed forecast request: transport failure, a non-2xx
// response, or a body that could not be parsed.
type FetchError struct {
	Provider   string
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: fetch %s: status %d: %v", e.Provider, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: fetch %s: %v", e.Provider, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
