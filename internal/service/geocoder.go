package service

import (
	"context"
	"errors"
	"time"

	"googlemaps.github.io/maps"
)

var ErrNoGeoInfoFound = errors.New("no geo information found")

// Geocoder resolves coordinates into a human readable address and a plus code.
type Geocoder interface {
	Reverse(ctx context.Context, loc Coordinates) (address, plusCode string, err error)
}

type Coordinates struct {
	Latitude  float64
	Longitude float64
}

type mapsGeocoder struct {
	client   *maps.Client
	timeout  time.Duration
	language string
}

func NewMapsGeocoder(client *maps.Client, timeout time.Duration, language string) Geocoder {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &mapsGeocoder{
		client:   client,
		timeout:  timeout,
		language: language,
	}
}

func (g *mapsGeocoder) Reverse(ctx context.Context, loc Coordinates) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	geos, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{
			Lat: loc.Latitude,
			Lng: loc.Longitude,
		},
		Language: g.language,
	})
	if err != nil {
		return "", "", err
	}
	if len(geos) == 0 {
		return "", "", ErrNoGeoInfoFound
	}

	return geos[0].FormattedAddress, geos[0].PlusCode.GlobalCode, nil
}

type nopGeocoder struct{}

// NewNopGeocoder is used when no maps key is configured; locations are stored without an address.
func NewNopGeocoder() Geocoder {
	return nopGeocoder{}
}

func (nopGeocoder) Reverse(context.Context, Coordinates) (string, string, error) {
	return "", "", nil
}
