package providers

import (
	"fmt"
	"log"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/upcoming-weather/internal/weather"
)

// GeocodeFunc resolves an address into coordinates.
type GeocodeFunc func(geocoder.Address) (geocoder.Location, error)

// geocoder keeps its key in a package variable.
var geocoderKeyMu sync.Mutex

// GoogleGeocoder returns a GeocodeFunc backed by the Google geocoding API.
func GoogleGeocoder(apiKey string) GeocodeFunc {
	return func(addr geocoder.Address) (geocoder.Location, error) {
		geocoderKeyMu.Lock()
		defer geocoderKeyMu.Unlock()
		geocoder.ApiKey = apiKey
		return geocoder.Geocoding(addr)
	}
}

// ResolveLocation fills in Lat/Lon for loc from its City/Country using
// geocode. Without a city or a geocoder the location is returned unchanged.
func ResolveLocation(loc weather.Location, geocode GeocodeFunc) (weather.Location, error) {
	if loc.City == "" || geocode == nil {
		return loc, nil
	}

	found, err := geocode(geocoder.Address{City: loc.City, Country: loc.Country})
	if err != nil {
		return loc, fmt.Errorf("geocode %s,%s: %w", loc.City, loc.Country, err)
	}

	log.Printf("INFO: geocoded %s,%s to %f,%f", loc.City, loc.Country, found.Latitude, found.Longitude)
	loc.Lat = found.Latitude
	loc.Lon = found.Longitude
	if loc.Name == "" {
		loc.Name = loc.City
	}
	return loc, nil
}
