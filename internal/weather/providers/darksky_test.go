package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kelvins/geocoder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/upcoming-weather/internal/weather"
)

var mountainView = weather.Location{Name: "Mountain View", Lat: 37.3967304, Lon: -122.0839222}

func newTestProvider(t *testing.T, handler http.HandlerFunc, retries int) (*DarkSkyProvider, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	p := NewDarkSkyProvider(srv.Client(), "secret-key", srv.URL+"/", retries)
	p.httpCfg.Backoff.InitialInterval = time.Millisecond
	return p, srv
}

func TestDarkSkyFetchDaily(t *testing.T) {
	var gotPath string
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"latitude": 37.39,
			"daily": {"data": [
				{"time": 200, "temperatureLow": 50.1, "temperatureHigh": 70.2, "icon": "rain"},
				{"time": 100, "temperatureLow": 49.5, "temperatureHigh": 68.9, "icon": "clear-day"}
			]}
		}`))
	}, 0)

	daily, err := p.FetchDaily(context.Background(), mountainView)

	require.NoError(t, err)
	assert.Equal(t, "/forecast/secret-key/37.3967304,-122.0839222", gotPath)
	assert.Equal(t, []weather.DailyDataPoint{
		{Time: 200, TemperatureLow: 50.1, TemperatureHigh: 70.2, Icon: "rain"},
		{Time: 100, TemperatureLow: 49.5, TemperatureHigh: 68.9, Icon: "clear-day"},
	}, daily)
}

func TestDarkSkyServerErrorIsFetchError(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, 0)

	_, err := p.FetchDaily(context.Background(), mountainView)

	var fe *weather.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusInternalServerError, fe.StatusCode)
	assert.ErrorIs(t, err, errServerError)
	assert.NotContains(t, err.Error(), "secret-key")
}

func TestDarkSkyTransportErrorHidesAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	p := NewDarkSkyProvider(http.DefaultClient, "secret-key", srv.URL, 0)

	_, err := p.FetchDaily(context.Background(), mountainView)

	var fe *weather.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Zero(t, fe.StatusCode)
	assert.Contains(t, err.Error(), "REDACTED")
	assert.NotContains(t, err.Error(), "secret-key")
}

func TestDarkSkyStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusTooManyRequests, errRateLimited},
		{http.StatusNotFound, errUnexpected},
		{http.StatusForbidden, errUnexpected},
		{http.StatusBadGateway, errServerError},
	}
	for _, tt := range tests {
		status := tt.status
		p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}, 0)

		_, err := p.FetchDaily(context.Background(), mountainView)

		assert.ErrorIs(t, err, tt.want, "status %d", status)
		var fe *weather.FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, status, fe.StatusCode)
	}
}

func TestDarkSkyMalformedBody(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"daily": {"data": [`))
	}, 0)

	_, err := p.FetchDaily(context.Background(), mountainView)

	var fe *weather.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Zero(t, fe.StatusCode)
}

func TestDarkSkyMissingDaily(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"currently": {"temperature": 61}}`))
	}, 0)

	_, err := p.FetchDaily(context.Background(), mountainView)

	assert.ErrorIs(t, err, errMissingDaily)
}

func TestDarkSkyEmptyDailyIsNotAnError(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"daily": {"data": []}}`))
	}, 0)

	daily, err := p.FetchDaily(context.Background(), mountainView)

	require.NoError(t, err)
	assert.Empty(t, daily)
}

func TestDarkSkyRetriesWhenConfigured(t *testing.T) {
	var calls int32
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"daily": {"data": [{"time": 1}]}}`))
	}, 2)

	daily, err := p.FetchDaily(context.Background(), mountainView)

	require.NoError(t, err)
	assert.Len(t, daily, 1)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDarkSkyNoRetriesByDefault(t *testing.T) {
	var calls int32
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, 0)

	_, err := p.FetchDaily(context.Background(), mountainView)

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDarkSkyHonoursContextDeadline(t *testing.T) {
	release := make(chan struct{})
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, 0)
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := p.FetchDaily(ctx, mountainView)

	var fe *weather.FetchError
	require.ErrorAs(t, err, &fe)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDarkSkyMissingAPIKey(t *testing.T) {
	p := NewDarkSkyProvider(http.DefaultClient, "", "", 0)

	_, err := p.FetchDaily(context.Background(), mountainView)

	var fe *weather.FetchError
	require.ErrorAs(t, err, &fe)
	assert.True(t, strings.HasPrefix(fe.URL, DefaultDarkSkyBaseURL))
}

func TestResolveLocation(t *testing.T) {
	loc := weather.Location{City: "Lisbon", Country: "Portugal"}
	var asked geocoder.Address

	got, err := ResolveLocation(loc, func(addr geocoder.Address) (geocoder.Location, error) {
		asked = addr
		return geocoder.Location{Latitude: 38.72, Longitude: -9.14}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, "Lisbon", asked.City)
	assert.Equal(t, "Portugal", asked.Country)
	assert.Equal(t, 38.72, got.Lat)
	assert.Equal(t, -9.14, got.Lon)
	assert.Equal(t, "Lisbon", got.Name)
}

func TestResolveLocationWithoutCityOrGeocoder(t *testing.T) {
	got, err := ResolveLocation(mountainView, func(geocoder.Address) (geocoder.Location, error) {
		t.Fatal("geocoder should not be called without a city")
		return geocoder.Location{}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, mountainView, got)

	withCity := weather.Location{City: "Paris", Lat: 1, Lon: 2}
	got, err = ResolveLocation(withCity, nil)
	require.NoError(t, err)
	assert.Equal(t, withCity, got)
}

func TestResolveLocationError(t *testing.T) {
	boom := errors.New("quota exceeded")
	loc := weather.Location{Name: "Here", City: "Paris", Lat: 1, Lon: 2}

	got, err := ResolveLocation(loc, func(geocoder.Address) (geocoder.Location, error) {
		return geocoder.Location{}, boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, loc, got)
}
