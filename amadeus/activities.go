package amadeus

import (
	"context"
	"net/url"
	"strconv"
)

// defaultActivityRadiusKM is the search radius around the city center
const defaultActivityRadiusKM = 20

// ActivitySearch are the parameters of a tours and activities search
type ActivitySearch struct {
	Latitude  float64
	Longitude float64
	RadiusKM  int
	StartDate string
	EndDate   string
}

// Activity is a bookable tour or activity
type Activity struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	ShortDescription string        `json:"shortDescription"`
	Price            ActivityPrice `json:"price"`
	BookingLink      string        `json:"bookingLink"`
	GeoCode          GeoCode       `json:"geoCode"`
}

// ActivityPrice is the starting price of an activity
type ActivityPrice struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// SearchActivities finds tours and activities around a position
func (c *Client) SearchActivities(ctx context.Context, search ActivitySearch) ([]Activity, error) {
	radius := search.RadiusKM
	if radius <= 0 {
		radius = defaultActivityRadiusKM
	}

	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(search.Latitude, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(search.Longitude, 'f', -1, 64))
	query.Set("radius", strconv.Itoa(radius))
	if search.StartDate != "" {
		query.Set("startDate", search.StartDate)
	}
	if search.EndDate != "" {
		query.Set("endDate", search.EndDate)
	}

	var resp dataResponse[Activity]
	if err := c.get(ctx, "activities", "/v1/shopping/activities", query, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
