package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/samber/lo"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"travel-assistant/amadeus"
	"travel-assistant/models"
)

// sharedLookupTimeout bounds a lookup shared by concurrent callers, which
// runs detached from any single request
const sharedLookupTimeout = 30 * time.Second

// codePattern matches a token that is already a provider location code
var codePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// LocationProvider is the part of the travel data provider used to resolve places
type LocationProvider interface {
	SearchLocations(ctx context.Context, keyword, subType string) ([]amadeus.Location, error)
	NearestAirports(ctx context.Context, latitude, longitude float64) ([]amadeus.Location, error)
}

// LocationStore persists resolved locations between restarts
type LocationStore interface {
	// Lookup returns nil, nil when the keyword is unknown
	Lookup(ctx context.Context, keyword string) (*models.Location, error)
	Save(ctx context.Context, location models.Location) error
}

// LocationResolver maps free-text places to provider codes and coordinates.
// Provider failures are logged and reported as not found.
type LocationResolver struct {
	provider LocationProvider
	store    LocationStore
	cache    *cache.Cache
	group    singleflight.Group
}

// NewLocationResolver creates a LocationResolver. store may be nil.
func NewLocationResolver(provider LocationProvider, store LocationStore, ttl time.Duration) *LocationResolver {
	return &LocationResolver{
		provider: provider,
		store:    store,
		cache:    cache.New(ttl, 2*ttl),
	}
}

// ResolveCode returns the provider code for place. A three-letter uppercase
// token is returned unchanged without a lookup.
func (r *LocationResolver) ResolveCode(ctx context.Context, place string) (string, bool) {
	place = strings.TrimSpace(place)
	if codePattern.MatchString(place) {
		return place, true
	}

	loc, ok := r.lookup(ctx, place)
	if !ok || loc.Code == "" {
		return "", false
	}
	return loc.Code, true
}

// CoordinatesFor returns the position of a city
func (r *LocationResolver) CoordinatesFor(ctx context.Context, city string) (float64, float64, bool) {
	loc, ok := r.lookup(ctx, strings.TrimSpace(city))
	if !ok || !loc.HasCoordinates() {
		return 0, 0, false
	}
	return loc.Latitude, loc.Longitude, true
}

// ReverseGeocode returns the name of the city nearest to the coordinates
func (r *LocationResolver) ReverseGeocode(ctx context.Context, latitude, longitude float64) (string, bool) {
	key := fmt.Sprintf("geo:%.3f,%.3f", latitude, longitude)
	if city, found := r.cache.Get(key); found {
		recordLocationLookup("hit")
		return city.(string), true
	}

	v, _, _ := r.group.Do(key, func() (interface{}, error) {
		ctx, cancel := sharedContext(ctx)
		defer cancel()

		recordLocationLookup("miss")
		airports, err := r.provider.NearestAirports(ctx, latitude, longitude)
		if err != nil {
			log.Printf("Reverse geocoding %.4f,%.4f failed: %v", latitude, longitude, err)
			return "", nil
		}

		for _, airport := range airports {
			if airport.Address.CityName != "" {
				city := displayName(airport.Address.CityName)
				r.cache.SetDefault(key, city)
				return city, nil
			}
		}
		return "", nil
	})

	city := v.(string)
	return city, city != ""
}

func (r *LocationResolver) lookup(ctx context.Context, keyword string) (*models.Location, bool) {
	if keyword == "" {
		return nil, false
	}

	key := "city:" + strings.ToLower(keyword)
	if loc, found := r.cache.Get(key); found {
		recordLocationLookup("hit")
		return loc.(*models.Location), true
	}

	v, _, _ := r.group.Do(key, func() (interface{}, error) {
		ctx, cancel := sharedContext(ctx)
		defer cancel()

		if loc := r.fromStore(ctx, key); loc != nil {
			recordLocationLookup("store")
			r.cache.SetDefault(key, loc)
			return loc, nil
		}

		recordLocationLookup("miss")
		results, err := r.provider.SearchLocations(ctx, keyword, amadeus.SubTypeCity)
		if err != nil {
			log.Printf("Location lookup for %q failed: %v", keyword, err)
			return (*models.Location)(nil), nil
		}
		if len(results) == 0 {
			return (*models.Location)(nil), nil
		}

		first := results[0]
		loc := &models.Location{
			Keyword:   key,
			Code:      first.IATACode,
			CityName:  displayName(lo.CoalesceOrEmpty(first.Address.CityName, first.Name)),
			Latitude:  first.GeoCode.Latitude,
			Longitude: first.GeoCode.Longitude,
		}
		r.cache.SetDefault(key, loc)
		r.toStore(ctx, *loc)
		return loc, nil
	})

	loc := v.(*models.Location)
	return loc, loc != nil
}

// sharedContext keeps the values of ctx but not its cancellation, so one
// caller leaving does not fail the others waiting on the same flight
func sharedContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), sharedLookupTimeout)
}

func (r *LocationResolver) fromStore(ctx context.Context, key string) *models.Location {
	if r.store == nil {
		return nil
	}
	loc, err := r.store.Lookup(ctx, key)
	if err != nil {
		log.Printf("Location store lookup for %q failed: %v", key, err)
		return nil
	}
	return loc
}

func (r *LocationResolver) toStore(ctx context.Context, loc models.Location) {
	if r.store == nil {
		return
	}
	if err := r.store.Save(ctx, loc); err != nil {
		log.Printf("Failed to save location %q: %v", loc.Keyword, err)
	}
}

// displayName turns provider upper-case names such as "NEW YORK" into "New York"
func displayName(name string) string {
	return cases.Title(language.Und).String(strings.ToLower(strings.TrimSpace(name)))
}
