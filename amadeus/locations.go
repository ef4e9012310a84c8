package amadeus

import (
	"context"
	"net/url"
	"strconv"
)

// Location subtypes accepted by the location search
const (
	SubTypeCity    = "CITY"
	SubTypeAirport = "AIRPORT"
)

// Location is an airport or city known to the API
type Location struct {
	Type     string  `json:"type"`
	SubType  string  `json:"subType"`
	Name     string  `json:"name"`
	IATACode string  `json:"iataCode"`
	GeoCode  GeoCode `json:"geoCode"`
	Address  Address `json:"address"`
}

// GeoCode is a latitude/longitude pair
type GeoCode struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Address of a location
type Address struct {
	CityName    string `json:"cityName"`
	CityCode    string `json:"cityCode"`
	CountryName string `json:"countryName"`
	CountryCode string `json:"countryCode"`
}

// SearchLocations finds airports or cities matching a keyword
func (c *Client) SearchLocations(ctx context.Context, keyword, subType string) ([]Location, error) {
	query := url.Values{}
	query.Set("keyword", keyword)
	query.Set("subType", subType)

	var resp dataResponse[Location]
	if err := c.get(ctx, "location_search", "/v1/reference-data/locations", query, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// NearestAirports returns the relevant airports around a position, closest
// first. Their addresses name the city served, which makes this the reverse
// geocoding lookup.
func (c *Client) NearestAirports(ctx context.Context, latitude, longitude float64) ([]Location, error) {
	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))

	var resp dataResponse[Location]
	if err := c.get(ctx, "nearest_airports", "/v1/reference-data/locations/airports", query, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
