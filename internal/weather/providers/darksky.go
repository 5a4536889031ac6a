package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/upcoming-weather/internal/weather"
)

// DefaultDarkSkyBaseURL is the production forecast endpoint.
const DefaultDarkSkyBaseURL = "https://api.darksky.net"

var errMissingDaily = errors.New("response has no daily forecast")

// DarkSkyProvider implements weather.ForecastProvider for the Dark Sky
// forecast API and any service speaking the same wire format.
type DarkSkyProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewDarkSkyProvider builds a provider. An empty baseURL means
// DefaultDarkSkyBaseURL; maxRetries of 0 disables retries.
func NewDarkSkyProvider(client *http.Client, apiKey, baseURL string, maxRetries int) *DarkSkyProvider {
	if baseURL == "" {
		baseURL = DefaultDarkSkyBaseURL
	}

	return &DarkSkyProvider{
		name:    "darksky",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      maxRetries,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: newCircuitBreaker("darksky"),
	}
}

func (p *DarkSkyProvider) Name() string {
	return p.name
}

func (p *DarkSkyProvider) forecastURL(loc weather.Location, key string) string {
	return fmt.Sprintf("%s/forecast/%s/%s", p.baseURL, key, loc.Coordinates())
}

// FetchDaily requests the forecast for loc and returns the raw daily entries.
// Every failure is reported as a *weather.FetchError.
func (p *DarkSkyProvider) FetchDaily(ctx context.Context, loc weather.Location) ([]weather.DailyDataPoint, error) {
	// the key is part of the path; never put it in errors or logs
	redacted := p.forecastURL(loc, "REDACTED")
	fail := func(err error) error {
		// transport errors quote the request URL
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = redacted
		}
		return &weather.FetchError{Provider: p.name, URL: redacted, StatusCode: statusCode(err), Err: err}
	}

	if p.apiKey == "" {
		return nil, fail(fmt.Errorf("darksky api key is not configured"))
	}

	buildRequest := func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, p.forecastURL(loc, p.apiKey), nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, fail(err)
	}
	defer resp.Body.Close()

	var payload struct {
		Daily *struct {
			Data []weather.DailyDataPoint `json:"data"`
		} `json:"daily"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fail(fmt.Errorf("decode body: %w", err))
	}
	if payload.Daily == nil || payload.Daily.Data == nil {
		return nil, fail(errMissingDaily)
	}

	return payload.Daily.Data, nil
}
