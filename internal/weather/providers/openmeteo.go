package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/upcoming-weather/internal/weather"
)

// DefaultOpenMeteoBaseURL is the production Open-Meteo forecast endpoint.
const DefaultOpenMeteoBaseURL = "https://api.open-meteo.com/v1/forecast"

// OpenMeteoProvider implements weather.ForecastProvider for Open-Meteo.
// Its daily forecast is translated into the Dark Sky shape so the rest of the
// display does not care which provider is configured.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewOpenMeteoProvider builds a provider. Open-Meteo needs no API key.
func NewOpenMeteoProvider(client *http.Client, baseURL string, maxRetries int) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoBaseURL
	}

	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      maxRetries,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: newCircuitBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) FetchDaily(ctx context.Context, loc weather.Location) ([]weather.DailyDataPoint, error) {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(loc.Lon, 'f', -1, 64))
	values.Set("daily", "weathercode,temperature_2m_max,temperature_2m_min")
	values.Set("temperature_unit", "fahrenheit")
	values.Set("timeformat", "unixtime")
	values.Set("timezone", "auto")
	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())

	fail := func(err error) error {
		return &weather.FetchError{Provider: p.name, URL: u, StatusCode: statusCode(err), Err: err}
	}

	buildRequest := func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, fail(err)
	}
	defer resp.Body.Close()

	var payload struct {
		Daily *struct {
			Time        []int64   `json:"time"`
			WeatherCode []int     `json:"weathercode"`
			TempMax     []float64 `json:"temperature_2m_max"`
			TempMin     []float64 `json:"temperature_2m_min"`
		} `json:"daily"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fail(fmt.Errorf("decode body: %w", err))
	}
	if payload.Daily == nil || payload.Daily.Time == nil {
		return nil, fail(errMissingDaily)
	}

	d := payload.Daily
	if len(d.WeatherCode) != len(d.Time) || len(d.TempMax) != len(d.Time) || len(d.TempMin) != len(d.Time) {
		return nil, fail(fmt.Errorf("daily arrays differ in length"))
	}

	daily := make([]weather.DailyDataPoint, 0, len(d.Time))
	for i := range d.Time {
		daily = append(daily, weather.DailyDataPoint{
			Time:            d.Time[i],
			TemperatureLow:  d.TempMin[i],
			TemperatureHigh: d.TempMax[i],
			Icon:            iconForOpenMeteoCode(d.WeatherCode[i]),
		})
	}
	return daily, nil
}

// iconForOpenMeteoCode maps WMO weather codes onto Dark Sky icon names.
func iconForOpenMeteoCode(code int) string {
	switch {
	case code == 0:
		return "clear-day"
	case code == 1 || code == 2:
		return "partly-cloudy-day"
	case code == 3:
		return "cloudy"
	case code == 45 || code == 48:
		return "fog"
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return "rain"
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return "snow"
	case code >= 95:
		return "thunderstorm"
	default:
		return "cloudy"
	}
}
