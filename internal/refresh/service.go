package refresh

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/i474232898/upcoming-weather/internal/store"
	"github.com/i474232898/upcoming-weather/internal/weather"
)

// ErrRefreshInProgress is returned when a refresh is requested while another
// one is still waiting on the provider.
var ErrRefreshInProgress = errors.New("refresh already in progress")

// Options tune a Service.
type Options struct {
	// Timeout bounds each provider call; 0 means no timeout.
	Timeout time.Duration

	// RecoverOnFailure dispatches LoadFailed after a failed fetch. When false
	// the store is left loading until the next successful refresh.
	RecoverOnFailure bool

	// Now defaults to time.Now.
	Now func() time.Time
}

// Service runs the load sequence: LoadBegan, fetch and shape, LoadComplete.
type Service struct {
	provider weather.ForecastProvider
	store    *store.Store
	location weather.Location
	opts     Options

	inFlight atomic.Bool
}

// NewService creates a new Service for a single location.
func NewService(provider weather.ForecastProvider, st *store.Store, loc weather.Location, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		provider: provider,
		store:    st,
		location: loc,
		opts:     opts,
	}
}

// Location returns the location this service fetches.
func (s *Service) Location() weather.Location {
	return s.location
}

// Store returns the store this service dispatches into.
func (s *Service) Store() *store.Store {
	return s.store
}

// Refresh fetches the forecast and dispatches the result into the store.
// Fetch failures are returned as *weather.FetchError and never produce a
// LoadComplete. Overlapping calls return ErrRefreshInProgress without
// dispatching anything.
func (s *Service) Refresh(ctx context.Context) error {
	if !s.inFlight.CompareAndSwap(false, true) {
		return ErrRefreshInProgress
	}
	defer s.inFlight.Store(false)

	id := uuid.NewString()
	log.Printf("DEBUG: refresh %s: fetching %s from %s", id, s.location.Name, s.provider.Name())

	s.store.Dispatch(store.LoadBegan{})

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	daily, err := s.provider.FetchDaily(ctx, s.location)
	if err != nil {
		var fe *weather.FetchError
		if !errors.As(err, &fe) {
			err = &weather.FetchError{Provider: s.provider.Name(), Err: err}
		}
		log.Printf("ERROR: refresh %s: %v", id, err)
		if s.opts.RecoverOnFailure {
			s.store.Dispatch(store.LoadFailed{Err: err.Error()})
		}
		return err
	}

	items := weather.ShapeUpcoming(daily, weather.UpcomingDays)
	s.store.Dispatch(store.LoadComplete{
		LastUpdated:     s.opts.Now(),
		UpcomingWeather: items,
	})
	log.Printf("DEBUG: refresh %s: loaded %d days", id, len(items))
	return nil
}

// InFlight reports whether a refresh is currently running.
func (s *Service) InFlight() bool {
	return s.inFlight.Load()
}

