package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/upcoming-weather/internal/weather"
)

// Mountain View, where the display has always pointed.
const (
	defaultLocationName = "Mountain View"
	defaultLat          = 37.3967304
	defaultLon          = -122.0839222
)

var validate = validator.New()

// Forecast providers.
const (
	ProviderDarkSky   = "darksky"
	ProviderOpenMeteo = "openmeteo"
)

var defaultBaseURLs = map[string]string{
	ProviderDarkSky:   "https://api.darksky.net",
	ProviderOpenMeteo: "https://api.open-meteo.com/v1/forecast",
}

type AppConfig struct {
	ForecastProvider string `validate:"oneof=darksky openmeteo"`
	ForecastAPIKey   string `validate:"required_if=ForecastProvider darksky"`
	ForecastBaseURL  string `validate:"required,url"`

	// Location whose forecast is shown. City/Country are geocoded when
	// GeocoderAPIKey is set.
	Location       weather.Location
	GeocoderAPIKey string

	// FetchTimeout bounds each forecast request.
	FetchTimeout    time.Duration `validate:"gt=0"`
	FetchMaxRetries int           `validate:"gte=0,lte=10"`

	// RefreshInterval schedules background refreshes; 0 disables them.
	RefreshInterval time.Duration `validate:"gte=0"`

	// RecoverOnFetchFailure ends the loading state when a fetch fails.
	RecoverOnFetchFailure bool

	TimeZone *time.Location

	Port string `validate:"required,numeric"`
}

type locationRules struct {
	Lat float64 `validate:"gte=-90,lte=90"`
	Lon float64 `validate:"gte=-180,lte=180"`
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.ForecastProvider = getenvDefault("FORECAST_PROVIDER", ProviderDarkSky)
	cfg.ForecastAPIKey = os.Getenv("FORECAST_API_KEY")
	cfg.ForecastBaseURL = getenvDefault("FORECAST_BASE_URL", defaultBaseURLs[cfg.ForecastProvider])
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	lat, err := getenvFloat("WEATHER_LOCATION_LAT", defaultLat)
	if err != nil {
		return nil, err
	}
	lon, err := getenvFloat("WEATHER_LOCATION_LON", defaultLon)
	if err != nil {
		return nil, err
	}
	cfg.Location = weather.Location{
		Name:    getenvDefault("WEATHER_LOCATION_NAME", defaultLocationName),
		City:    os.Getenv("WEATHER_LOCATION_CITY"),
		Country: os.Getenv("WEATHER_LOCATION_COUNTRY"),
		Lat:     lat,
		Lon:     lon,
	}

	timeout, err := time.ParseDuration(getenvDefault("FETCH_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_TIMEOUT: %w", err)
	}
	cfg.FetchTimeout = timeout
	retries, err := getenvInt("FETCH_MAX_RETRIES", 0)
	if err != nil {
		return nil, err
	}
	cfg.FetchMaxRetries = retries

	// Background refresh: disabled unless configured.
	interval, err := time.ParseDuration(getenvDefault("REFRESH_INTERVAL", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	cfg.RefreshInterval = interval

	cfg.RecoverOnFetchFailure = getenvBool("RECOVER_ON_FETCH_FAILURE", true)

	tz, err := time.LoadLocation(getenvDefault("DISPLAY_TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE: %w", err)
	}
	cfg.TimeZone = tz

	cfg.Port = getenvDefault("PORT", "8080")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := validate.Struct(locationRules{Lat: c.Location.Lat, Lon: c.Location.Lon}); err != nil {
		return fmt.Errorf("invalid location: %w", err)
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
